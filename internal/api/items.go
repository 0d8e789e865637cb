package api

import (
	"encoding/json"
	"net/http"

	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// ItemsHandler handles item CRUD endpoints. Every operation is scoped to the
// authenticated user's items.
type ItemsHandler struct {
	Store  *store.Store
	Images *imaging.Materializer
}

type itemName struct {
	Name string `json:"name" validate:"required"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	items, err := h.Store.ListItems(r.Context(), user.ID)
	if err != nil {
		storeError(w, err, "", "list items")
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items. Unknown members (price, category, ...) are
// stored with the item.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())

	var item model.Item
	if !bindJSON(w, r, &item) {
		return
	}
	if err := validate.Struct(itemName{Name: item.Name}); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	item.ID = model.NewID()
	item.UserID = user.ID
	item.DateAdded = h.Store.Now().UTC()

	payload := item.Image()
	item.ItemImage = nil
	if payload != "" {
		if saved, ok := h.Images.Save(payload, imaging.FolderItems, item.ID); ok {
			item.ItemImage = &saved
		}
	}

	if err := h.Store.CreateItem(r.Context(), &item); err != nil {
		h.Images.Delete(item.Image())
		storeError(w, err, "", "create item")
		return
	}

	jsonSuccess(w, map[string]any{"item": item})
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	item, err := h.Store.GetItem(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		storeError(w, err, "", "get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "Item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. Members present in the body replace
// the stored ones; an itemImage member is treated as a new image.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	id := r.PathValue("id")

	var patch map[string]json.RawMessage
	if !bindJSON(w, r, &patch) {
		return
	}

	existing, err := h.Store.GetItem(r.Context(), user.ID, id)
	if err != nil {
		storeError(w, err, "", "update item")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "Item not found")
		return
	}

	image := h.Images.Replace(stringMember(patch, "itemImage"), imaging.FolderItems, id)

	previous := ""
	updated, err := h.Store.UpdateItem(r.Context(), user.ID, id, func(item *model.Item) error {
		previous = item.Image()
		if err := mergeJSON(item, patch, "id", "userId", "dateAdded", "itemImage"); err != nil {
			return err
		}
		if image != nil {
			saved := image.Path
			item.ItemImage = &saved
		}
		return nil
	})
	if err != nil {
		image.Rollback(previous)
		storeError(w, err, "Item not found", "update item")
		return
	}
	image.Commit(previous)

	jsonSuccess(w, map[string]any{"item": updated})
}

// Delete handles DELETE /api/items/{id}. The item's activities go with it.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())

	removed, err := h.Store.DeleteItem(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		storeError(w, err, "Item not found", "delete item")
		return
	}

	h.Images.Delete(removed.Image())
	jsonSuccess(w, nil)
}
