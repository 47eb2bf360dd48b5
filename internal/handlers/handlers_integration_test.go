package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tokorate/internal/handlers"
	"tokorate/internal/middleware"
	"tokorate/internal/models"
	"tokorate/internal/repositories"
	"tokorate/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

// setupApp wires the full HTTP stack against a per-test in-memory
// SQLite database, mirroring the production wiring minus the message
// queue.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared&_fk=1", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Store{}, &models.Rating{}))

	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	ratingRepo := repositories.NewGORMRatingRepository(db)
	statsRepo := repositories.NewGORMStatsRepository(db)

	authService := services.NewAuthService(userRepo, "integration-test-secret", time.Hour)
	storeService := services.NewStoreService(storeRepo, ratingRepo, statsRepo, userRepo, nil)
	userService := services.NewUserService(userRepo, ratingRepo, statsRepo)
	adminService := services.NewAdminService(userRepo, storeRepo, statsRepo, authService)

	app := fiber.New()
	api := app.Group("/api")
	authRequired := middleware.AuthRequired(authService)

	handlers.NewAuthHandler(authService, 24*time.Hour).RegisterRoutes(api, authRequired)
	handlers.NewStoreHandler(storeService).RegisterRoutes(api, authRequired)
	handlers.NewUserHandler(userService).RegisterRoutes(api, authRequired)
	handlers.NewAdminHandler(adminService).RegisterRoutes(api, authRequired)

	return &testEnv{app: app, db: db}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// signup registers a fresh account and returns its token and the
// serialized user.
func (e *testEnv) signup(t *testing.T, name, email, role string) (string, map[string]interface{}) {
	t.Helper()

	payload := fiber.Map{
		"name":     name,
		"email":    email,
		"password": "Passw0rd!",
		"address":  "12 Integration Way",
	}
	if role != "" {
		payload["role"] = role
	}
	resp := e.request(t, http.MethodPost, "/api/auth/signup", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user, _ := body["data"].(map[string]interface{})
	require.NotNil(t, user)
	return token, user
}

func TestSignupDefaultsRoleAndHidesPassword(t *testing.T) {
	env := setupApp(t)

	resp := env.request(t, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"name":     "Signup Defaults Checking User",
		"email":    "defaults@example.com",
		"password": "Passw0rd!",
		"address":  "12 Integration Way",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["token"])

	user := body["data"].(map[string]interface{})
	assert.Equal(t, models.RoleUser, user["role"])
	assert.NotContains(t, user, "password")

	// The token also rides an http-only cookie.
	var tokenCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			tokenCookie = c
		}
	}
	require.NotNil(t, tokenCookie)
	assert.True(t, tokenCookie.HttpOnly)
	assert.Equal(t, body["token"], tokenCookie.Value)
}

func TestSignupValidation(t *testing.T) {
	env := setupApp(t)

	cases := []struct {
		name    string
		payload fiber.Map
	}{
		{"short name", fiber.Map{
			"name": "Too Short", "email": "a@x.com", "password": "Passw0rd!",
		}},
		{"weak password", fiber.Map{
			"name": "Long Enough Name For Signup", "email": "b@x.com", "password": "passwords",
		}},
		{"bad email", fiber.Map{
			"name": "Long Enough Name For Signup", "email": "not-an-email", "password": "Passw0rd!",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.request(t, http.MethodPost, "/api/auth/signup", "", tc.payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeBody(t, resp)
			assert.Equal(t, "error", body["status"])
			assert.NotEmpty(t, body["errors"])
		})
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	env := setupApp(t)
	env.signup(t, "Login Failure Testing User", "login@example.com", "")

	for _, payload := range []fiber.Map{
		{"email": "login@example.com", "password": "WrongPass1!"},
		{"email": "nobody@example.com", "password": "Passw0rd!"},
	} {
		resp := env.request(t, http.MethodPost, "/api/auth/login", "", payload)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "Invalid credentials", body["message"])
	}
}

func TestCookieAuthentication(t *testing.T) {
	env := setupApp(t)
	env.signup(t, "Cookie Authentication User", "cookie@example.com", "")

	resp := env.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "cookie@example.com", "password": "Passw0rd!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokenCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			tokenCookie = c
		}
	}
	require.NotNil(t, tokenCookie)

	// The cookie alone authenticates, with no Authorization header.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(tokenCookie)
	meResp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
	body := decodeBody(t, meResp)
	user := body["data"].(map[string]interface{})
	assert.Equal(t, "cookie@example.com", user["email"])

	// A garbage token is rejected with the uniform message.
	resp = env.request(t, http.MethodGet, "/api/auth/me", "garbage.token.here", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Not authorized to access this route", body["message"])
}

func TestLogoutOverwritesCookie(t *testing.T) {
	env := setupApp(t)
	token, _ := env.signup(t, "Logout Cookie Testing User", "logout@example.com", "")

	resp := env.request(t, http.MethodGet, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var tokenCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			tokenCookie = c
		}
	}
	require.NotNil(t, tokenCookie)
	assert.Equal(t, "none", tokenCookie.Value)
}

func TestRatingLifecycle(t *testing.T) {
	env := setupApp(t)

	ownerToken, _ := env.signup(t, "Rating Lifecycle Store Owner", "owner@example.com", models.RoleStoreOwner)
	userToken, _ := env.signup(t, "Rating Lifecycle Regular User", "rater@example.com", "")

	resp := env.request(t, http.MethodPost, "/api/stores", ownerToken, fiber.Map{
		"name": "Lifecycle Store", "email": "store@example.com", "address": "1 Store St",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	store := decodeBody(t, resp)["data"].(map[string]interface{})
	storeID := int(store["id"].(float64))
	ratingsPath := fmt.Sprintf("/api/stores/%d/ratings", storeID)

	// First submission creates.
	resp = env.request(t, http.MethodPost, ratingsPath, userToken, fiber.Map{
		"rating": 5, "comment": "excellent",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// A resubmission overwrites the same row.
	resp = env.request(t, http.MethodPost, ratingsPath, userToken, fiber.Map{
		"rating": 2, "comment": "changed my mind",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var rowCount int64
	require.NoError(t, env.db.Model(&models.Rating{}).Count(&rowCount).Error)
	assert.Equal(t, int64(1), rowCount)

	resp = env.request(t, http.MethodGet, fmt.Sprintf("/api/stores/%d", storeID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.InDelta(t, 2.0, detail["average_rating"].(float64), 1e-9)
	assert.Equal(t, float64(1), detail["rating_count"])

	// Out-of-range scores never reach the database.
	resp = env.request(t, http.MethodPost, ratingsPath, userToken, fiber.Map{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = env.request(t, http.MethodPost, ratingsPath, userToken, fiber.Map{"rating": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Owners cannot rate their own store.
	resp = env.request(t, http.MethodPost, ratingsPath, ownerToken, fiber.Map{"rating": 5})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "You cannot rate your own store", body["message"])

	// The public ratings listing carries the rater's name.
	resp = env.request(t, http.MethodGet, ratingsPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listing := decodeBody(t, resp)
	assert.Equal(t, float64(1), listing["count"])
	first := listing["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Rating Lifecycle Regular User", first["user_name"])
}

func TestStoreLookupErrors(t *testing.T) {
	env := setupApp(t)

	resp := env.request(t, http.MethodGet, "/api/stores/999999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Store not found", body["message"])

	resp = env.request(t, http.MethodGet, "/api/stores/abc/ratings", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegularUserCannotCreateStore(t *testing.T) {
	env := setupApp(t)
	userToken, _ := env.signup(t, "Plain User Without Stores", "plain@example.com", "")

	resp := env.request(t, http.MethodPost, "/api/stores", userToken, fiber.Map{
		"name": "Denied Store", "email": "denied@example.com", "address": "1 Denied St",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStoreUpdateOwnership(t *testing.T) {
	env := setupApp(t)

	ownerToken, _ := env.signup(t, "Store Update Rightful Owner", "owner@example.com", models.RoleStoreOwner)
	strangerToken, _ := env.signup(t, "Store Update Other Owner Acct", "stranger@example.com", models.RoleStoreOwner)

	resp := env.request(t, http.MethodPost, "/api/stores", ownerToken, fiber.Map{
		"name": "Owned Store", "email": "owned@example.com", "address": "1 Owned St",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	store := decodeBody(t, resp)["data"].(map[string]interface{})
	path := fmt.Sprintf("/api/stores/%d", int(store["id"].(float64)))

	// A different owner cannot touch it.
	resp = env.request(t, http.MethodPut, path, strangerToken, fiber.Map{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The owner of record can.
	resp = env.request(t, http.MethodPut, path, ownerToken, fiber.Map{"name": "Renamed Store"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, "Renamed Store", updated["name"])
	assert.Equal(t, "owned@example.com", updated["email"])

	// An empty update is rejected before it reaches the database.
	resp = env.request(t, http.MethodPut, path, ownerToken, fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminRoutesAreGuarded(t *testing.T) {
	env := setupApp(t)
	userToken, _ := env.signup(t, "Guarded Routes Regular User", "guarded@example.com", "")

	// Unauthenticated.
	resp := env.request(t, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Authenticated but not admin.
	resp = env.request(t, http.MethodGet, "/api/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "error", body["status"])
}

func TestAdminUserLifecycle(t *testing.T) {
	env := setupApp(t)
	adminToken, admin := env.signup(t, "Lifecycle Administrator Acct", "admin@example.com", models.RoleAdmin)

	// Create a store owner through the admin surface.
	resp := env.request(t, http.MethodPost, "/api/admin/users", adminToken, fiber.Map{
		"name":     "Admin Created Store Owner",
		"email":    "created@example.com",
		"password": "Passw0rd!",
		"address":  "9 Admin Blvd",
		"role":     models.RoleStoreOwner,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, models.RoleStoreOwner, created["role"])
	createdID := int(created["id"].(float64))

	// Partial update touches only the supplied fields.
	resp = env.request(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d", createdID), adminToken, fiber.Map{
		"address": "10 Moved Street",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, "10 Moved Street", updated["address"])
	assert.Equal(t, "created@example.com", updated["email"])

	// Admins cannot delete themselves.
	adminID := int(admin["id"].(float64))
	resp = env.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", adminID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Deleting the created user works once and then 404s.
	resp = env.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", createdID), adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", createdID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminDeleteCascades(t *testing.T) {
	env := setupApp(t)
	adminToken, _ := env.signup(t, "Cascade Delete Administrator", "admin@example.com", models.RoleAdmin)
	ownerToken, owner := env.signup(t, "Cascade Delete Store Owner", "owner@example.com", models.RoleStoreOwner)
	raterToken, _ := env.signup(t, "Cascade Delete Store Rater", "rater@example.com", "")

	resp := env.request(t, http.MethodPost, "/api/stores", ownerToken, fiber.Map{
		"name": "Doomed Store", "email": "doomed@example.com", "address": "1 Doomed St",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	store := decodeBody(t, resp)["data"].(map[string]interface{})
	storeID := int(store["id"].(float64))

	resp = env.request(t, http.MethodPost, fmt.Sprintf("/api/stores/%d/ratings", storeID), raterToken, fiber.Map{"rating": 4})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ownerID := int(owner["id"].(float64))
	resp = env.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", ownerID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The owner's store and its ratings are gone with them.
	resp = env.request(t, http.MethodGet, fmt.Sprintf("/api/stores/%d", storeID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var ratingCount int64
	require.NoError(t, env.db.Model(&models.Rating{}).Count(&ratingCount).Error)
	assert.Equal(t, int64(0), ratingCount)
}

func TestAdminDashboardStats(t *testing.T) {
	env := setupApp(t)
	adminToken, _ := env.signup(t, "Dashboard Stats Administrator", "admin@example.com", models.RoleAdmin)
	ownerToken, _ := env.signup(t, "Dashboard Stats Store Owner", "owner@example.com", models.RoleStoreOwner)
	raterToken, _ := env.signup(t, "Dashboard Stats Store Rater", "rater@example.com", "")

	resp := env.request(t, http.MethodPost, "/api/stores", ownerToken, fiber.Map{
		"name": "Stats Store", "email": "stats@example.com", "address": "1 Stats St",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	store := decodeBody(t, resp)["data"].(map[string]interface{})
	storeID := int(store["id"].(float64))

	resp = env.request(t, http.MethodPost, fmt.Sprintf("/api/stores/%d/ratings", storeID), raterToken, fiber.Map{"rating": 4})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/admin/dashboard-stats", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, float64(3), stats["totalUsers"])
	assert.Equal(t, float64(1), stats["totalStores"])
	assert.Equal(t, float64(1), stats["totalRatings"])

	full := body["data"].(map[string]interface{})
	top := full["topRatedStores"].([]interface{})
	require.Len(t, top, 1)
	assert.Equal(t, "Stats Store", top[0].(map[string]interface{})["name"])
}

func TestUserDashboardAndRatingsListing(t *testing.T) {
	env := setupApp(t)
	ownerToken, _ := env.signup(t, "Listing Endpoint Store Owner", "owner@example.com", models.RoleStoreOwner)
	raterToken, _ := env.signup(t, "Listing Endpoint Store Rater", "rater@example.com", "")

	resp := env.request(t, http.MethodPost, "/api/stores", ownerToken, fiber.Map{
		"name": "Listed Store", "email": "listed@example.com", "address": "1 Listed St",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	store := decodeBody(t, resp)["data"].(map[string]interface{})
	storeID := int(store["id"].(float64))

	resp = env.request(t, http.MethodPost, fmt.Sprintf("/api/stores/%d/ratings", storeID), raterToken, fiber.Map{"rating": 3})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/users/ratings", raterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listing := decodeBody(t, resp)
	assert.Equal(t, float64(1), listing["count"])
	first := listing["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Listed Store", first["store_name"])

	resp = env.request(t, http.MethodGet, "/api/users/dashboard-stats", raterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decodeBody(t, resp)["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["totalRatings"])
	assert.InDelta(t, 3.0, stats["averageRating"].(float64), 1e-9)
}

func TestOwnerProfile(t *testing.T) {
	env := setupApp(t)
	ownerToken, _ := env.signup(t, "Owner Profile Store Owner", "owner@example.com", models.RoleStoreOwner)
	userToken, _ := env.signup(t, "Owner Profile Regular User", "user@example.com", "")

	resp := env.request(t, http.MethodPost, "/api/stores", ownerToken, fiber.Map{
		"name": "Profile Store", "email": "profile@example.com", "address": "1 Profile St",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/stores/owner/profile", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, models.RoleStoreOwner, profile["role"])
	assert.Equal(t, float64(1), profile["storeCount"])

	// Regular users have no owner profile.
	resp = env.request(t, http.MethodGet, "/api/stores/owner/profile", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
