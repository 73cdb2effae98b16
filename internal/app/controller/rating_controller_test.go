package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ratewise/ratewise-backend/internal/app/model"
	"github.com/ratewise/ratewise-backend/internal/app/repository"
	"github.com/ratewise/ratewise-backend/internal/app/service"
	"github.com/ratewise/ratewise-backend/internal/db"
	"github.com/ratewise/ratewise-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRatingControllerTest(t *testing.T) (*gin.Engine, service.AuthService, repository.StoreRepository) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	ratingRepo := repository.NewRatingRepository(testDB)

	authService := service.NewAuthService(userRepo, "test-secret", 15*time.Minute)
	ratingService := service.NewRatingService(ratingRepo, storeRepo)

	ctrl := NewRatingController(ratingService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret", userRepo)

	router := gin.New()
	ratings := router.Group("/ratings")
	ratings.Use(authMiddleware.Authenticate())
	{
		ratings.POST("", ctrl.Submit)
		ratings.GET("/my-ratings", ctrl.ListMine)
		ratings.GET("/store/:store_id", ctrl.GetForStore)
		ratings.DELETE("/store/:store_id", ctrl.Delete)
	}

	return router, authService, storeRepo
}

func createRatingTestStore(t *testing.T, storeRepo repository.StoreRepository, email string) *model.Store {
	store := &model.Store{
		Name:    "Corner Coffee Roasters",
		Email:   email,
		Address: "12 Market Square",
	}
	require.NoError(t, storeRepo.Create(store))
	return store
}

func TestRatingController_Submit_CreateThenUpdate(t *testing.T) {
	router, authService, storeRepo := setupRatingControllerTest(t)

	_, token, err := authService.Register(testName, "rater@example.com", testPassword, "")
	require.NoError(t, err)
	store := createRatingTestStore(t, storeRepo, "store@example.com")

	// first submission creates
	w := postJSON(router, "POST", "/ratings", SubmitRatingRequest{
		StoreID: store.ID,
		Rating:  4,
		Comment: "Good espresso",
	}, token)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Rating submitted successfully")

	// second submission replaces
	w = postJSON(router, "POST", "/ratings", SubmitRatingRequest{
		StoreID: store.ID,
		Rating:  2,
	}, token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rating updated successfully")

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	ratingMap := response["rating"].(map[string]interface{})
	assert.Equal(t, float64(2), ratingMap["rating"])
}

func TestRatingController_Submit_UnknownStore(t *testing.T) {
	router, authService, _ := setupRatingControllerTest(t)

	_, token, err := authService.Register(testName, "rater@example.com", testPassword, "")
	require.NoError(t, err)

	w := postJSON(router, "POST", "/ratings", SubmitRatingRequest{
		StoreID: 9999,
		Rating:  3,
	}, token)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "STORE_NOT_FOUND")
}

func TestRatingController_Submit_OutOfRange(t *testing.T) {
	router, authService, storeRepo := setupRatingControllerTest(t)

	_, token, err := authService.Register(testName, "rater@example.com", testPassword, "")
	require.NoError(t, err)
	store := createRatingTestStore(t, storeRepo, "store@example.com")

	for _, value := range []int{0, 6, -1} {
		w := postJSON(router, "POST", "/ratings", SubmitRatingRequest{
			StoreID: store.ID,
			Rating:  value,
		}, token)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "RATING_INVALID_VALUE")
	}
}

func TestRatingController_Submit_MissingStore(t *testing.T) {
	router, authService, _ := setupRatingControllerTest(t)

	_, token, err := authService.Register(testName, "rater@example.com", testPassword, "")
	require.NoError(t, err)

	// a body without a store id is a missing field, not a bad rating
	w := postJSON(router, "POST", "/ratings", map[string]interface{}{"rating": 4}, token)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_REQUIRED")
}

func TestRatingController_Submit_Unauthenticated(t *testing.T) {
	router, _, storeRepo := setupRatingControllerTest(t)

	store := createRatingTestStore(t, storeRepo, "store@example.com")

	w := postJSON(router, "POST", "/ratings", SubmitRatingRequest{
		StoreID: store.ID,
		Rating:  5,
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRatingController_GetForStore(t *testing.T) {
	router, authService, storeRepo := setupRatingControllerTest(t)

	_, token, err := authService.Register(testName, "rater@example.com", testPassword, "")
	require.NoError(t, err)
	store := createRatingTestStore(t, storeRepo, "store@example.com")

	// nothing rated yet: null, not an error
	req := httptest.NewRequest("GET", fmt.Sprintf("/ratings/store/%d", store.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rating":null`)

	postJSON(router, "POST", "/ratings", SubmitRatingRequest{
		StoreID: store.ID,
		Rating:  5,
		Comment: "Excellent",
	}, token)

	req = httptest.NewRequest("GET", fmt.Sprintf("/ratings/store/%d", store.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	ratingMap := response["rating"].(map[string]interface{})
	assert.Equal(t, float64(5), ratingMap["rating"])
	assert.Equal(t, "Excellent", ratingMap["comment"])
}

func TestRatingController_ListMine(t *testing.T) {
	router, authService, storeRepo := setupRatingControllerTest(t)

	_, token, err := authService.Register(testName, "rater@example.com", testPassword, "")
	require.NoError(t, err)

	first := createRatingTestStore(t, storeRepo, "first@example.com")
	second := createRatingTestStore(t, storeRepo, "second@example.com")

	postJSON(router, "POST", "/ratings", SubmitRatingRequest{StoreID: first.ID, Rating: 4}, token)
	postJSON(router, "POST", "/ratings", SubmitRatingRequest{StoreID: second.ID, Rating: 2}, token)

	req := httptest.NewRequest("GET", "/ratings/my-ratings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	ratings := response["ratings"].([]interface{})
	assert.Len(t, ratings, 2)
}

func TestRatingController_Delete(t *testing.T) {
	router, authService, storeRepo := setupRatingControllerTest(t)

	_, token, err := authService.Register(testName, "rater@example.com", testPassword, "")
	require.NoError(t, err)
	store := createRatingTestStore(t, storeRepo, "store@example.com")

	// deleting a rating that does not exist
	req := httptest.NewRequest("DELETE", fmt.Sprintf("/ratings/store/%d", store.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	postJSON(router, "POST", "/ratings", SubmitRatingRequest{StoreID: store.ID, Rating: 3}, token)

	req = httptest.NewRequest("DELETE", fmt.Sprintf("/ratings/store/%d", store.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rating deleted successfully")
}
