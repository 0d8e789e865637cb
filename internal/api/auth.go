package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/auth"
	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	Store     *store.Store
	Images    *imaging.Materializer
	JWTSecret string
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type authResponse struct {
	Success bool       `json:"success"`
	User    model.User `json:"user"`
	Token   string     `json:"token"`
}

// Register handles POST /api/register. Members other than the credentials
// and profile picture are stored on the user as sent.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if !bindJSON(w, r, &user) {
		return
	}

	if err := validate.Struct(credentials{Email: user.Email, Password: user.Password}); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	existing, err := h.Store.GetUserByEmail(r.Context(), user.Email)
	if err != nil {
		storeError(w, err, "", "register")
		return
	}
	if existing != nil {
		jsonError(w, http.StatusBadRequest, "User already exists")
		return
	}

	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		storeError(w, err, "", "register")
		return
	}

	user.ID = model.NewID()
	user.Password = hash
	user.CreatedAt = h.Store.Now().UTC()

	payload := user.ProfilePic
	user.ProfilePic = model.DefaultProfilePic
	if payload != "" {
		if saved, ok := h.Images.Save(payload, imaging.FolderUsers, user.ID); ok {
			user.ProfilePic = saved
		}
	}

	if err := h.Store.CreateUser(r.Context(), &user); err != nil {
		if user.ProfilePic != model.DefaultProfilePic {
			h.Images.Delete(user.ProfilePic)
		}
		storeError(w, err, "", "register")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID)
	if err != nil {
		storeError(w, err, "", "register")
		return
	}

	slog.Info("user registered", "user", user.ID)
	jsonResponse(w, http.StatusOK, authResponse{Success: true, User: user.Public(), Token: token})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !bindJSON(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	user, err := h.Store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		storeError(w, err, "", "login")
		return
	}
	if user == nil || !auth.CheckPassword(user.Password, req.Password) {
		slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if auth.NeedsRehash(user.Password) {
		h.upgradePassword(r, user.ID, req.Password)
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID)
	if err != nil {
		storeError(w, err, "", "login")
		return
	}

	slog.Info("user logged in", "user", user.ID)
	jsonResponse(w, http.StatusOK, authResponse{Success: true, User: user.Public(), Token: token})
}

// upgradePassword replaces a stored plain-text password with its hash. A
// failure only costs the upgrade; the login itself proceeds.
func (h *AuthHandler) upgradePassword(r *http.Request, userID, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash legacy password", "user", userID, "error", err)
		return
	}
	_, err = h.Store.UpdateUser(r.Context(), userID, func(u *model.User) error {
		u.Password = hash
		return nil
	})
	if err != nil {
		slog.Error("failed to upgrade legacy password", "user", userID, "error", err)
		return
	}
	slog.Info("upgraded legacy password", "user", userID)
}
