package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/zaloga/internal/store"
)

// Health returns a handler reporting whether the store can be read.
func Health(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		storeStatus := "ok"
		if err := s.View(ctx, func(*store.Tx) error { return nil }, store.Settings); err != nil {
			slog.Error("health check failed", "error", err)
			status = http.StatusServiceUnavailable
			storeStatus = "error"
		}

		jsonResponse(w, status, map[string]any{
			"ok":    status == http.StatusOK,
			"store": storeStatus,
		})
	}
}
