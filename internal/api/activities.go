package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// ActivitiesHandler records sales and losses and lists the ledger.
type ActivitiesHandler struct {
	Store *store.Store
}

type saleRequest struct {
	ItemID   string          `json:"itemId" validate:"required"`
	Quantity model.Count     `json:"quantity" validate:"gt=0"`
	Amount   decimal.Decimal `json:"amount" validate:"gte=0"`
}

type lossRequest struct {
	ItemID   string          `json:"itemId" validate:"required"`
	Type     *string         `json:"type"`
	Quantity model.Count     `json:"quantity" validate:"gt=0"`
	Amount   decimal.Decimal `json:"amount" validate:"gte=0"`
}

type saleResponse struct {
	ItemID   string          `json:"itemId"`
	Quantity model.Count     `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
}

type lossResponse struct {
	ItemID   string          `json:"itemId"`
	Type     *string         `json:"type"`
	Quantity model.Count     `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
}

// RecordSale handles POST /api/sales.
func (h *ActivitiesHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())

	var req saleRequest
	if !bindAndValidate(w, r, &req) {
		return
	}

	activity, err := h.Store.RecordSale(r.Context(), user.ID, store.Movement{
		ItemID:   req.ItemID,
		Quantity: int(req.Quantity),
		Amount:   req.Amount,
	})
	if err != nil {
		storeError(w, err, "Item not found", "record sale")
		return
	}

	slog.Info("sale recorded", "user", user.ID, "item", activity.ItemID, "quantity", req.Quantity)
	jsonSuccess(w, map[string]any{"sale": saleResponse{
		ItemID:   activity.ItemID,
		Quantity: activity.Quantity,
		Amount:   activity.Amount,
		Date:     activity.Date,
	}})
}

// RecordLoss handles POST /api/losses. The loss type is free-form.
func (h *ActivitiesHandler) RecordLoss(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())

	var req lossRequest
	if !bindAndValidate(w, r, &req) {
		return
	}

	activity, err := h.Store.RecordLoss(r.Context(), user.ID, store.Movement{
		ItemID:   req.ItemID,
		Quantity: int(req.Quantity),
		Amount:   req.Amount,
		LossType: req.Type,
	})
	if err != nil {
		storeError(w, err, "Item not found", "record loss")
		return
	}

	slog.Info("loss recorded", "user", user.ID, "item", activity.ItemID, "quantity", req.Quantity)
	jsonSuccess(w, map[string]any{"loss": lossResponse{
		ItemID:   activity.ItemID,
		Type:     activity.LossType,
		Quantity: activity.Quantity,
		Amount:   activity.Amount,
		Date:     activity.Date,
	}})
}

// List handles GET /api/activities.
func (h *ActivitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	activities, err := h.Store.ListActivities(r.Context(), user.ID)
	if err != nil {
		storeError(w, err, "", "list activities")
		return
	}
	jsonResponse(w, http.StatusOK, activities)
}
