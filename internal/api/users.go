package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/auth"
	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// UsersHandler handles account endpoints, both the admin views and the
// authenticated user's own profile.
type UsersHandler struct {
	Store  *store.Store
	Images *imaging.Materializer
}

// List handles GET /api/admin/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		storeError(w, err, "", "list users")
		return
	}

	public := make([]model.User, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	jsonResponse(w, http.StatusOK, public)
}

// Get handles GET /api/admin/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Store.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err, "", "get user")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "User not found")
		return
	}
	jsonResponse(w, http.StatusOK, user.Public())
}

// Delete handles DELETE /api/admin/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.deleteUser(w, r, r.PathValue("id"))
}

// GetProfile handles GET /api/user/{id}.
func (h *UsersHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.ownAccount(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, user.Public())
}

// UpdateProfile handles PUT /api/user/{id}. Members present in the body
// replace the stored ones; a profilePic member is treated as a new image.
func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.ownAccount(w, r)
	if !ok {
		return
	}

	var patch map[string]json.RawMessage
	if !bindJSON(w, r, &patch) {
		return
	}

	password := ""
	if _, ok := patch["password"]; ok {
		password = stringMember(patch, "password")
		if password == "" {
			jsonError(w, http.StatusBadRequest, "password is required")
			return
		}
		if err := validate.Var(password, "maxbytes=72"); err != nil {
			jsonError(w, http.StatusBadRequest, "password must be at most 72 bytes")
			return
		}
	}

	hash := ""
	if password != "" {
		var err error
		if hash, err = auth.HashPassword(password); err != nil {
			storeError(w, err, "", "update profile")
			return
		}
	}

	pic := h.Images.Replace(stringMember(patch, "profilePic"), imaging.FolderUsers, user.ID)

	previous := ""
	updated, err := h.Store.UpdateUser(r.Context(), user.ID, func(u *model.User) error {
		previous = u.ProfilePic
		if err := mergeJSON(u, patch, "id", "createdAt", "password", "profilePic"); err != nil {
			return err
		}
		if _, ok := patch["email"]; ok {
			if err := validate.Var(u.Email, "required,email"); err != nil {
				return errInvalidEmail
			}
		}
		if hash != "" {
			u.Password = hash
		}
		if pic != nil {
			u.ProfilePic = pic.Path
		}
		return nil
	})
	if err != nil {
		pic.Rollback(previous)
		storeError(w, err, "User not found - Account may have been deleted", "update profile")
		return
	}
	pic.Commit(previous)

	slog.Info("profile updated", "user", updated.ID)
	jsonSuccess(w, map[string]any{"user": updated.Public()})
}

// DeleteAccount handles DELETE /api/user/{id}.
func (h *UsersHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := h.ownAccount(w, r)
	if !ok {
		return
	}
	h.deleteUser(w, r, user.ID)
}

// deleteUser removes the account, its items and activities, then every
// image file they referenced.
func (h *UsersHandler) deleteUser(w http.ResponseWriter, r *http.Request, id string) {
	removed, items, err := h.Store.DeleteUser(r.Context(), id)
	if err != nil {
		storeError(w, err, "User not found", "delete user")
		return
	}

	h.Images.Delete(removed.ProfilePic)
	for _, item := range items {
		h.Images.Delete(item.Image())
	}

	slog.Info("user deleted", "user", id, "items", len(items))
	jsonSuccess(w, nil)
}

// ownAccount returns the authenticated user when the path names their own
// account, and writes 403 otherwise.
func (h *UsersHandler) ownAccount(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user := CurrentUser(r.Context())
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	if r.PathValue("id") != user.ID {
		jsonError(w, http.StatusForbidden, "Forbidden")
		return nil, false
	}
	return user, true
}
