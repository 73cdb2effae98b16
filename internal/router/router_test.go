package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ratewise/ratewise-backend/config"
	"github.com/ratewise/ratewise-backend/internal/app/controller"
	"github.com/ratewise/ratewise-backend/internal/app/model"
	"github.com/ratewise/ratewise-backend/internal/app/repository"
	"github.com/ratewise/ratewise-backend/internal/app/service"
	"github.com/ratewise/ratewise-backend/internal/db"
	"github.com/ratewise/ratewise-backend/internal/middleware"
	"github.com/ratewise/ratewise-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer wires the full application against an in-memory
// database, the same way cmd/server does against Postgres.
func setupTestServer(t *testing.T) (*gin.Engine, repository.StoreRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cfg := &config.Config{
		Server: config.ServerConfig{
			GinMode: gin.TestMode,
		},
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			TokenExpiry: time.Hour,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}

	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	ratingRepo := repository.NewRatingRepository(testDB)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	storeService := service.NewStoreService(storeRepo, userRepo, ratingRepo)
	ratingService := service.NewRatingService(ratingRepo, storeRepo)
	userService := service.NewUserService(userRepo, storeRepo, ratingRepo)

	s3Storage := storage.NewS3Storage("us-east-1", "test-bucket", "test-key", "test-secret", "")

	r := NewRouter(
		controller.NewAuthController(authService),
		controller.NewStoreController(storeService),
		controller.NewRatingController(ratingService),
		controller.NewUserController(userService),
		controller.NewUploadController(s3Storage),
		middleware.NewAuthMiddleware(cfg.JWT.Secret, userRepo),
		cfg,
	)

	return r.Setup(), storeRepo
}

func doJSON(engine *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	engine, _ := setupTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestCORSPreflight(t *testing.T) {
	engine, _ := setupTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/stores", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

// Full user journey: sign up, rate a store, see the aggregate change when
// the rating is replaced.
func TestRegisterRateAndBrowse(t *testing.T) {
	engine, storeRepo := setupTestServer(t)

	store := &model.Store{
		Name:    "Corner Coffee Roasters",
		Email:   "corner@example.com",
		Address: "12 Market Square",
	}
	require.NoError(t, storeRepo.Create(store))

	// register
	w := doJSON(engine, "POST", "/api/auth/register", map[string]string{
		"name":     "Johnathan Alexander Smithson",
		"email":    "visitor@example.com",
		"password": "Passw0rd!",
		"address":  "123 Main Street",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registerResp))
	token := registerResp["token"].(string)
	require.NotEmpty(t, token)

	// first rating
	w = doJSON(engine, "POST", "/api/ratings", map[string]interface{}{
		"store_id": store.ID,
		"rating":   4,
		"comment":  "Good espresso",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	// listing reflects the aggregate and the caller's own rating
	w = doJSON(engine, "GET", "/api/stores", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	stores := listResp["stores"].([]interface{})
	require.Len(t, stores, 1)

	entry := stores[0].(map[string]interface{})
	assert.Equal(t, float64(4), entry["average_rating"])
	assert.Equal(t, float64(1), entry["total_ratings"])
	assert.Equal(t, float64(4), entry["user_rating"])

	// replacing the rating keeps a single row and moves the average
	w = doJSON(engine, "POST", "/api/ratings", map[string]interface{}{
		"store_id": store.ID,
		"rating":   2,
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(engine, "GET", "/api/stores", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	entry = listResp["stores"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(2), entry["average_rating"])
	assert.Equal(t, float64(1), entry["total_ratings"])
	assert.Equal(t, float64(2), entry["user_rating"])

	// browsing is for signed-in users only
	w = doJSON(engine, "GET", "/api/stores", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGates(t *testing.T) {
	engine, _ := setupTestServer(t)

	w := doJSON(engine, "POST", "/api/auth/register", map[string]string{
		"name":     "Johnathan Alexander Smithson",
		"email":    "visitor@example.com",
		"password": "Passw0rd!",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registerResp))
	token := registerResp["token"].(string)

	// regular users cannot reach admin surfaces
	w = doJSON(engine, "GET", "/api/users", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(engine, "POST", "/api/stores", map[string]string{
		"name":    "New Bakery",
		"email":   "bakery@example.com",
		"address": "3 Flour Street",
	}, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(engine, "GET", "/api/stores/owner/dashboard", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// and unauthenticated callers cannot rate at all
	w = doJSON(engine, "POST", "/api/ratings", map[string]interface{}{
		"store_id": 1,
		"rating":   5,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
