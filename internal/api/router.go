package api

import (
	"net/http"
	"time"

	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/store"
)

// Options configures the API router.
type Options struct {
	Store  *store.Store
	Images *imaging.Materializer

	JWTSecret    string
	LegacyTokens bool
	AdminKey     string

	// Location is used for calendar-month reports. Defaults to time.Local.
	Location *time.Location
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(opts Options) http.Handler {
	mux := http.NewServeMux()

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	authHandler := &AuthHandler{Store: opts.Store, Images: opts.Images, JWTSecret: opts.JWTSecret}
	usersHandler := &UsersHandler{Store: opts.Store, Images: opts.Images}
	itemsHandler := &ItemsHandler{Store: opts.Store, Images: opts.Images}
	activitiesHandler := &ActivitiesHandler{Store: opts.Store}
	reportsHandler := &ReportsHandler{Store: opts.Store, Location: loc}

	authMW := AuthMiddleware(opts.Store, opts.JWTSecret, opts.LegacyTokens)
	adminMW := RequireAdminKey(opts.AdminKey)

	// Public.
	mux.HandleFunc("GET /healthz", Health(opts.Store))
	mux.HandleFunc("POST /api/register", authHandler.Register)
	mux.HandleFunc("POST /api/login", authHandler.Login)

	// Admin.
	mux.Handle("GET /api/admin/users", adminMW(http.HandlerFunc(usersHandler.List)))
	mux.Handle("GET /api/admin/users/{id}", adminMW(http.HandlerFunc(usersHandler.Get)))
	mux.Handle("DELETE /api/admin/users/{id}", adminMW(http.HandlerFunc(usersHandler.Delete)))

	// Own account.
	mux.Handle("GET /api/user/{id}", authMW(http.HandlerFunc(usersHandler.GetProfile)))
	mux.Handle("PUT /api/user/{id}", authMW(http.HandlerFunc(usersHandler.UpdateProfile)))
	mux.Handle("DELETE /api/user/{id}", authMW(http.HandlerFunc(usersHandler.DeleteAccount)))

	// Catalog.
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))

	// Ledger.
	mux.Handle("POST /api/sales", authMW(http.HandlerFunc(activitiesHandler.RecordSale)))
	mux.Handle("POST /api/losses", authMW(http.HandlerFunc(activitiesHandler.RecordLoss)))
	mux.Handle("GET /api/activities", authMW(http.HandlerFunc(activitiesHandler.List)))

	// Reports.
	mux.Handle("GET /api/dashboard", authMW(http.HandlerFunc(reportsHandler.Dashboard)))
	mux.Handle("GET /api/analysis", authMW(http.HandlerFunc(reportsHandler.Analysis)))

	return mux
}
