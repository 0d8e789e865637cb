package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/erazemk/zaloga/internal/store"
)

var (
	// errInvalidField marks a request member with an unusable value.
	errInvalidField = errors.New("invalid field value")

	errInvalidEmail = fmt.Errorf("%w: email must be a valid email address", errInvalidField)
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// jsonSuccess writes {"success": true} plus the given members.
func jsonSuccess(w http.ResponseWriter, members map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range members {
		body[k] = v
	}
	jsonResponse(w, http.StatusOK, body)
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// storeError maps store and request errors to a response. Anything
// unexpected is logged and reported as a generic 500.
func storeError(w http.ResponseWriter, err error, notFound string, op string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrEmailTaken):
		jsonError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, store.ErrInsufficientStock):
		jsonError(w, http.StatusBadRequest, "Not enough stock available")
	case errors.Is(err, store.ErrInvalidQuantity),
		errors.Is(err, store.ErrNegativeStock),
		errors.Is(err, errInvalidField):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error(op+" failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// mergeJSON overlays the members of patch onto target, which must marshal to
// a JSON object. Members named in skip are ignored.
func mergeJSON(target any, patch map[string]json.RawMessage, skip ...string) error {
	current, err := json.Marshal(target)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(current, &fields); err != nil {
		return err
	}

	for k, v := range patch {
		if slices.Contains(skip, k) {
			continue
		}
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(merged, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidField, err)
	}
	return nil
}

// stringMember returns patch[key] when it is a non-empty JSON string.
func stringMember(patch map[string]json.RawMessage, key string) string {
	raw, ok := patch[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// bindJSON decodes the request body into target. It writes the error response
// and returns false when the body is unusable.
func bindJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := decodeJSON(r, target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// bindAndValidate decodes the request body into req and runs its validate
// tags. It writes the error response and returns false on failure.
func bindAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if !bindJSON(w, r, req) {
		return false
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}
