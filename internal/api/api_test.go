package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/zaloga/internal/auth"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	server  *httptest.Server
	store   *store.Store
	uploads string
}

func setupTestServer(t *testing.T, configure ...func(*Options)) *testEnv {
	t.Helper()

	s := store.New(store.NewSQLiteBackend(db.NewTestDB(t)))
	uploads := t.TempDir()
	images := imaging.NewMaterializer(uploads)
	require.NoError(t, images.Init())

	opts := Options{
		Store:        s,
		Images:       images,
		JWTSecret:    testJWTSecret,
		LegacyTokens: true,
	}
	for _, fn := range configure {
		fn(&opts)
	}

	server := httptest.NewServer(NewRouter(opts))
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: s, uploads: uploads}
}

// do sends a JSON request and decodes the JSON response body into out, if set.
func (e *testEnv) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// register creates an account and returns its ID and token.
func (e *testEnv) register(t *testing.T, email string) (string, string) {
	t.Helper()

	var resp struct {
		Success bool           `json:"success"`
		User    map[string]any `json:"user"`
		Token   string         `json:"token"`
	}
	status := e.do(t, "POST", "/api/register", "", map[string]any{
		"email":        email,
		"password":     "password",
		"name":         "Ana",
		"businessName": "Trgovina",
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Token)

	return resp.User["id"].(string), resp.Token
}

// createItem adds an item and returns its ID.
func (e *testEnv) createItem(t *testing.T, token string, body map[string]any) string {
	t.Helper()

	var resp struct {
		Item map[string]any `json:"item"`
	}
	status := e.do(t, "POST", "/api/items", token, body, &resp)
	require.Equal(t, http.StatusOK, status)
	return resp.Item["id"].(string)
}

func pngDataURL(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestServer(t)

	var reg map[string]any
	status := env.do(t, "POST", "/api/register", "", map[string]any{
		"email":    "ana@example.com",
		"password": "password",
		"phone":    "041 123 456",
	}, &reg)
	require.Equal(t, http.StatusOK, status)

	user := reg["user"].(map[string]any)
	assert.NotContains(t, user, "password")
	assert.Equal(t, model.DefaultProfilePic, user["profilePic"])
	assert.Equal(t, "041 123 456", user["phone"])

	// Duplicate email.
	var dup map[string]string
	status = env.do(t, "POST", "/api/register", "", map[string]any{
		"email": "ana@example.com", "password": "other",
	}, &dup)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User already exists", dup["error"])

	// Wrong password.
	status = env.do(t, "POST", "/api/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	var login struct {
		Success bool           `json:"success"`
		User    map[string]any `json:"user"`
		Token   string         `json:"token"`
	}
	status = env.do(t, "POST", "/api/login", "", map[string]string{
		"email": "ana@example.com", "password": "password",
	}, &login)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, login.Success)
	assert.Equal(t, user["id"], login.User["id"])

	claims, err := auth.ValidateToken(testJWTSecret, login.Token)
	require.NoError(t, err)
	assert.Equal(t, user["id"], claims.UserID())

	stored, err := env.store.GetUser(context.Background(), user["id"].(string))
	require.NoError(t, err)
	assert.NotEqual(t, "password", stored.Password)
}

func TestRegisterValidation(t *testing.T) {
	env := setupTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing email", map[string]any{"password": "pw"}},
		{"invalid email", map[string]any{"email": "not-an-email", "password": "pw"}},
		{"missing password", map[string]any{"email": "ana@example.com"}},
		{"password too long", map[string]any{"email": "ana@example.com", "password": strings.Repeat("a", 80)}},
		{"multibyte password too long", map[string]any{"email": "ana@example.com", "password": strings.Repeat("č", 40)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp map[string]string
			status := env.do(t, "POST", "/api/register", "", tt.body, &resp)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, resp["error"])
		})
	}

	users, err := env.store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestLegacyAccount(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	legacy := &model.User{ID: "1700000000000", Email: "old@example.com", Password: "plain"}
	require.NoError(t, env.store.CreateUser(ctx, legacy))

	// The user ID works as a bearer token.
	status := env.do(t, "GET", "/api/items", legacy.ID, nil, nil)
	assert.Equal(t, http.StatusOK, status)

	// Plain-text passwords still log in and are hashed afterwards.
	status = env.do(t, "POST", "/api/login", "", map[string]string{
		"email": "old@example.com", "password": "plain",
	}, nil)
	require.Equal(t, http.StatusOK, status)

	stored, err := env.store.GetUser(ctx, legacy.ID)
	require.NoError(t, err)
	assert.False(t, auth.NeedsRehash(stored.Password))
	assert.True(t, auth.CheckPassword(stored.Password, "plain"))
}

func TestLegacyTokensDisabled(t *testing.T) {
	env := setupTestServer(t, func(o *Options) { o.LegacyTokens = false })

	id, token := env.register(t, "ana@example.com")

	assert.Equal(t, http.StatusUnauthorized, env.do(t, "GET", "/api/items", id, nil, nil))
	assert.Equal(t, http.StatusOK, env.do(t, "GET", "/api/items", token, nil, nil))
}

func TestUnauthenticatedAccess(t *testing.T) {
	env := setupTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, "GET", "/api/items", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, env.do(t, "GET", "/api/dashboard", "no-such-user", nil, nil))

	// Tokens for deleted accounts stop working.
	id, token := env.register(t, "ana@example.com")
	require.Equal(t, http.StatusOK, env.do(t, "DELETE", "/api/user/"+id, token, nil, nil))

	var resp map[string]string
	status := env.do(t, "GET", "/api/items", token, nil, &resp)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, resp["error"], "deleted")
}

func TestItemsAPIFlow(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.register(t, "ana@example.com")
	_, otherToken := env.register(t, "bojan@example.com")

	id := env.createItem(t, token, map[string]any{
		"name":     "Jabolka",
		"stock":    "10",
		"price":    1.5,
		"category": "sadje",
	})

	var items []map[string]any
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/items", token, nil, &items))
	require.Len(t, items, 1)
	assert.Equal(t, float64(10), items[0]["stock"])
	assert.Equal(t, 1.5, items[0]["price"])
	assert.Nil(t, items[0]["itemImage"])

	// Other users see nothing.
	var otherItems []map[string]any
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/items", otherToken, nil, &otherItems))
	assert.Empty(t, otherItems)
	assert.Equal(t, http.StatusNotFound, env.do(t, "GET", "/api/items/"+id, otherToken, nil, nil))

	// Partial update keeps unspecified members.
	var updated struct {
		Success bool           `json:"success"`
		Item    map[string]any `json:"item"`
	}
	status := env.do(t, "PUT", "/api/items/"+id, token, map[string]any{
		"name":   "Hruške",
		"stock":  7,
		"userId": "someone-else",
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hruške", updated.Item["name"])
	assert.Equal(t, float64(7), updated.Item["stock"])
	assert.Equal(t, "sadje", updated.Item["category"])
	assert.NotEqual(t, "someone-else", updated.Item["userId"])

	// Negative stock is rejected.
	assert.Equal(t, http.StatusBadRequest, env.do(t, "PUT", "/api/items/"+id, token, map[string]any{"stock": -1}, nil))

	assert.Equal(t, http.StatusNotFound, env.do(t, "DELETE", "/api/items/"+id, otherToken, nil, nil))
	assert.Equal(t, http.StatusOK, env.do(t, "DELETE", "/api/items/"+id, token, nil, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, "GET", "/api/items/"+id, token, nil, nil))
}

func TestCreateItemRequiresName(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.register(t, "ana@example.com")

	var resp map[string]string
	status := env.do(t, "POST", "/api/items", token, map[string]any{"stock": 3}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "name is required", resp["error"])
}

func TestItemImageLifecycle(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.register(t, "ana@example.com")

	id := env.createItem(t, token, map[string]any{"name": "Slika", "stock": 1, "itemImage": pngDataURL(t)})

	var item map[string]any
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/items/"+id, token, nil, &item))
	assert.Equal(t, "/uploads/items/"+id+".png", item["itemImage"])

	file := filepath.Join(env.uploads, "items", id+".png")
	assert.FileExists(t, file)

	// A rejected update leaves the stored image alone.
	webp := "data:image/webp;base64," + base64.StdEncoding.EncodeToString([]byte("RIFF"))
	replacement := filepath.Join(env.uploads, "items", id+".webp")
	require.Equal(t, http.StatusBadRequest, env.do(t, "PUT", "/api/items/"+id, token, map[string]any{"name": 5, "itemImage": webp}, nil))
	assert.NoFileExists(t, replacement)
	assert.FileExists(t, file)

	require.Equal(t, http.StatusOK, env.do(t, "PUT", "/api/items/"+id, token, map[string]any{"itemImage": webp}, &item))
	assert.NoFileExists(t, file)
	assert.FileExists(t, replacement)

	require.Equal(t, http.StatusOK, env.do(t, "DELETE", "/api/items/"+id, token, nil, nil))
	assert.NoFileExists(t, replacement)
}

func TestSaleInsufficientStock(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.register(t, "ana@example.com")
	id := env.createItem(t, token, map[string]any{"name": "Jabolka", "stock": 5})

	var resp map[string]string
	status := env.do(t, "POST", "/api/sales", token, map[string]any{
		"itemId": id, "quantity": 6, "amount": 60,
	}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Not enough stock available", resp["error"])

	var item map[string]any
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/items/"+id, token, nil, &item))
	assert.Equal(t, float64(5), item["stock"])

	var activities []map[string]any
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/activities", token, nil, &activities))
	assert.Empty(t, activities)
}

func TestSaleValidation(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.register(t, "ana@example.com")
	id := env.createItem(t, token, map[string]any{"name": "Jabolka", "stock": 5})

	assert.Equal(t, http.StatusBadRequest, env.do(t, "POST", "/api/sales", token, map[string]any{"itemId": id, "quantity": 0}, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, "POST", "/api/sales", token, map[string]any{"quantity": 1}, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, "POST", "/api/sales", token, map[string]any{"itemId": id, "quantity": 1, "amount": -5}, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, "POST", "/api/sales", token, map[string]any{"itemId": "missing", "quantity": 1}, nil))
}

func TestSalesLossesAndReports(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.register(t, "ana@example.com")
	id := env.createItem(t, token, map[string]any{"name": "Jabolka", "stock": 10})

	var sale struct {
		Success bool           `json:"success"`
		Sale    map[string]any `json:"sale"`
	}
	require.Equal(t, http.StatusOK, env.do(t, "POST", "/api/sales", token, map[string]any{
		"itemId": id, "quantity": 3, "amount": 30,
	}, &sale))
	assert.True(t, sale.Success)
	assert.Equal(t, float64(30), sale.Sale["amount"])

	var loss struct {
		Loss map[string]any `json:"loss"`
	}
	require.Equal(t, http.StatusOK, env.do(t, "POST", "/api/losses", token, map[string]any{
		"itemId": id, "type": "damaged", "quantity": 2, "amount": 10,
	}, &loss))
	assert.Equal(t, "damaged", loss.Loss["type"])

	var dashboard struct {
		TotalStock       int              `json:"totalStock"`
		MonthlyRevenue   float64          `json:"monthlyRevenue"`
		MonthlyLosses    float64          `json:"monthlyLosses"`
		RecentActivities []map[string]any `json:"recentActivities"`
	}
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/dashboard", token, nil, &dashboard))
	assert.Equal(t, 5, dashboard.TotalStock)
	assert.Equal(t, float64(30), dashboard.MonthlyRevenue)
	assert.Equal(t, float64(10), dashboard.MonthlyLosses)
	assert.Len(t, dashboard.RecentActivities, 2)

	var report struct {
		TotalRevenue float64 `json:"totalRevenue"`
		TotalLosses  float64 `json:"totalLosses"`
		ItemsSold    int     `json:"itemsSold"`
		ItemsLost    int     `json:"itemsLost"`
		MonthlySales struct {
			Labels []string  `json:"labels"`
			Data   []float64 `json:"data"`
		} `json:"monthlySales"`
		TopItems struct {
			Labels []string `json:"labels"`
			Data   []int    `json:"data"`
		} `json:"topItems"`
		LossTypes struct {
			Labels []string `json:"labels"`
			Data   []int    `json:"data"`
		} `json:"lossTypes"`
	}
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/analysis", token, nil, &report))
	assert.Equal(t, float64(30), report.TotalRevenue)
	assert.Equal(t, float64(10), report.TotalLosses)
	assert.Equal(t, 3, report.ItemsSold)
	assert.Equal(t, 2, report.ItemsLost)
	assert.Len(t, report.MonthlySales.Labels, 6)
	assert.Equal(t, float64(30), report.MonthlySales.Data[5])
	assert.Equal(t, []string{"Jabolka"}, report.TopItems.Labels)
	assert.Equal(t, []int{3}, report.TopItems.Data)
	assert.Equal(t, []string{"damaged"}, report.LossTypes.Labels)
	assert.Equal(t, []int{2}, report.LossTypes.Data)

	var activities []map[string]any
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/activities", token, nil, &activities))
	require.Len(t, activities, 2)
	assert.Equal(t, "Jabolka", activities[0]["itemName"])
}

func TestLossTypeGroups(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.register(t, "ana@example.com")
	id := env.createItem(t, token, map[string]any{"name": "Jabolka", "stock": 10})

	for _, body := range []map[string]any{
		{"itemId": id, "type": "", "quantity": 1, "amount": 1},
		{"itemId": id, "quantity": 2, "amount": 1},
		{"itemId": id, "type": "", "quantity": 3, "amount": 1},
	} {
		require.Equal(t, http.StatusOK, env.do(t, "POST", "/api/losses", token, body, nil))
	}

	var report struct {
		LossTypes struct {
			Labels []string `json:"labels"`
			Data   []int    `json:"data"`
		} `json:"lossTypes"`
	}
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/analysis", token, nil, &report))
	assert.Equal(t, []string{"", "undefined"}, report.LossTypes.Labels)
	assert.Equal(t, []int{4, 2}, report.LossTypes.Data)
}

func TestProfileOwnership(t *testing.T) {
	env := setupTestServer(t)
	id, token := env.register(t, "ana@example.com")
	otherID, _ := env.register(t, "bojan@example.com")

	assert.Equal(t, http.StatusForbidden, env.do(t, "GET", "/api/user/"+otherID, token, nil, nil))
	assert.Equal(t, http.StatusForbidden, env.do(t, "PUT", "/api/user/"+otherID, token, map[string]any{"name": "x"}, nil))
	assert.Equal(t, http.StatusForbidden, env.do(t, "DELETE", "/api/user/"+otherID, token, nil, nil))

	var profile map[string]any
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/user/"+id, token, nil, &profile))
	assert.Equal(t, "ana@example.com", profile["email"])
	assert.NotContains(t, profile, "password")
}

func TestUpdateProfile(t *testing.T) {
	env := setupTestServer(t)
	id, token := env.register(t, "ana@example.com")
	env.register(t, "bojan@example.com")

	var resp struct {
		Success bool           `json:"success"`
		User    map[string]any `json:"user"`
	}
	status := env.do(t, "PUT", "/api/user/"+id, token, map[string]any{
		"businessType": "retail",
		"address":      "Glavni trg 1",
		"id":           "hijacked",
		"profilePic":   pngDataURL(t),
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, resp.User["id"])
	assert.Equal(t, "Trgovina", resp.User["businessName"])
	assert.Equal(t, "retail", resp.User["businessType"])
	assert.Equal(t, "Glavni trg 1", resp.User["address"])
	assert.Equal(t, "/uploads/users/"+id+".png", resp.User["profilePic"])
	assert.FileExists(t, filepath.Join(env.uploads, "users", id+".png"))

	// Taking another user's email is rejected.
	assert.Equal(t, http.StatusBadRequest, env.do(t, "PUT", "/api/user/"+id, token, map[string]any{"email": "bojan@example.com"}, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, "PUT", "/api/user/"+id, token, map[string]any{"email": "nope"}, nil))

	// Passwords bcrypt cannot hash are rejected before anything changes.
	assert.Equal(t, http.StatusBadRequest, env.do(t, "PUT", "/api/user/"+id, token, map[string]any{"password": strings.Repeat("a", 80)}, nil))

	// A new password replaces the old one.
	require.Equal(t, http.StatusOK, env.do(t, "PUT", "/api/user/"+id, token, map[string]any{"password": "new-password"}, nil))
	assert.Equal(t, http.StatusUnauthorized, env.do(t, "POST", "/api/login", "", map[string]string{
		"email": "ana@example.com", "password": "password",
	}, nil))
	assert.Equal(t, http.StatusOK, env.do(t, "POST", "/api/login", "", map[string]string{
		"email": "ana@example.com", "password": "new-password",
	}, nil))
}

func TestAdminRoutes(t *testing.T) {
	env := setupTestServer(t)
	id, token := env.register(t, "ana@example.com")
	env.createItem(t, token, map[string]any{"name": "Slika", "stock": 1, "itemImage": pngDataURL(t)})

	var users []map[string]any
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/admin/users", "", nil, &users))
	require.Len(t, users, 1)
	assert.NotContains(t, users[0], "password")

	assert.Equal(t, http.StatusOK, env.do(t, "GET", "/api/admin/users/"+id, "", nil, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, "GET", "/api/admin/users/missing", "", nil, nil))

	require.Equal(t, http.StatusOK, env.do(t, "DELETE", "/api/admin/users/"+id, "", nil, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, "DELETE", "/api/admin/users/"+id, "", nil, nil))

	entries, err := os.ReadDir(filepath.Join(env.uploads, "items"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAdminKey(t *testing.T) {
	env := setupTestServer(t, func(o *Options) { o.AdminKey = "s3cret" })

	req, err := http.NewRequest("GET", env.server.URL+"/api/admin/users", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req.Header.Set("X-Admin-Key", "s3cret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	env := setupTestServer(t)

	var resp map[string]any
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/healthz", "", nil, &resp))
	assert.Equal(t, true, resp["ok"])
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/api/items", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/items", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBodyLimitMiddleware(t *testing.T) {
	env := setupTestServer(t)
	handler := BodyLimitMiddleware(64)(NewRouter(Options{
		Store:     env.store,
		Images:    imaging.NewMaterializer(t.TempDir()),
		JWTSecret: testJWTSecret,
	}))

	body := `{"email":"ana@example.com","password":"` + strings.Repeat("x", 128) + `"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/register", strings.NewReader(body)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRecoverMiddleware(t *testing.T) {
	handler := RecoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
