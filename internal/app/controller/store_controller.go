package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ratewise/ratewise-backend/internal/app/service"
	apperrors "github.com/ratewise/ratewise-backend/internal/errors"
	"github.com/ratewise/ratewise-backend/internal/middleware"
)

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{
		storeService: storeService,
	}
}

type CreateStoreRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Address  string `json:"address" binding:"required,max=400"`
	ImageURL string `json:"image_url"`
	OwnerID  *uint  `json:"owner_id"`
}

type UpdateStoreRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Address  *string `json:"address" binding:"omitempty,max=400"`
	ImageURL *string `json:"image_url"`
	// OwnerID replaces the current owner; SetOwner with a null OwnerID
	// detaches the store.
	SetOwner bool  `json:"set_owner"`
	OwnerID  *uint `json:"owner_id"`
}

// parsePagination reads page/limit/sort query parameters shared by the
// listing endpoints.
func parsePagination(c *gin.Context) (page, limit int, sortBy, sortOrder string) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	sortBy = c.Query("sort_by")
	sortOrder = c.DefaultQuery("sort_order", "asc")
	return page, limit, sortBy, sortOrder
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid identifier")
		return 0, false
	}
	return uint(id), true
}

// List returns stores with rating aggregates, including the caller's own
// rating per store.
// GET /api/stores
func (ctrl *StoreController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	page, limit, sortBy, sortOrder := parsePagination(c)

	opts := service.StoreListOptions{
		Search:    c.Query("search"),
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Page:      page,
		Limit:     limit,
		UserID:    &userID,
	}

	stores, total, err := ctrl.storeService.ListStores(opts)
	if err != nil {
		log.Error("Failed to list stores", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list stores")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// Get returns one store with its aggregates
// GET /api/stores/:id
func (ctrl *StoreController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	store, err := ctrl.storeService.GetStore(storeID, &userID)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
			return
		}
		log.Error("Failed to fetch store", err, map[string]interface{}{
			"store_id": storeID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get store")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": store,
	})
}

// OwnerDashboard returns the caller's stores with their ratings and who
// submitted them.
// GET /api/stores/owner/dashboard
func (ctrl *StoreController) OwnerDashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	summaries, err := ctrl.storeService.OwnerDashboard(userID)
	if err != nil {
		log.Error("Failed to build owner dashboard", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "owner dashboard")
		return
	}

	if len(summaries) == 0 {
		apperrors.NotFound(c, apperrors.StoreNotFound, "You do not own any stores")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": summaries,
	})
}

// Create registers a new store
// POST /api/stores
func (ctrl *StoreController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid store creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid store details")
		return
	}

	store, err := ctrl.storeService.CreateStore(req.Name, req.Email, req.Address, req.ImageURL, req.OwnerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOwner):
			apperrors.BadRequest(c, apperrors.StoreInvalidOwner, "Owner must be a store owner account")
		case errors.Is(err, service.ErrStoreEmailExists):
			apperrors.Conflict(c, apperrors.StoreEmailExists, "A store with this email already exists")
		default:
			log.Error("Failed to create store", err, map[string]interface{}{
				"name": req.Name,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create store")
		}
		return
	}

	log.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Store created successfully",
		"store":   store,
	})
}

// Update modifies an existing store
// PUT /api/stores/:id
func (ctrl *StoreController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid store update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid store details")
		return
	}

	store, err := ctrl.storeService.UpdateStore(storeID, service.StoreMutation{
		Name:     req.Name,
		Email:    req.Email,
		Address:  req.Address,
		ImageURL: req.ImageURL,
		SetOwner: req.SetOwner,
		OwnerID:  req.OwnerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
		case errors.Is(err, service.ErrStoreEmailExists):
			apperrors.Conflict(c, apperrors.StoreEmailExists, "A store with this email already exists")
		case errors.Is(err, service.ErrInvalidOwner):
			apperrors.BadRequest(c, apperrors.StoreInvalidOwner, "Owner must be a store owner account")
		default:
			log.Error("Failed to update store", err, map[string]interface{}{
				"store_id": storeID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update store")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Store updated successfully",
		"store":   store,
	})
}

// Delete removes a store and, through the cascade, its ratings
// DELETE /api/stores/:id
func (ctrl *StoreController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.storeService.DeleteStore(storeID); err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
			return
		}
		log.Error("Failed to delete store", err, map[string]interface{}{
			"store_id": storeID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete store")
		return
	}

	log.Info("Store deleted", map[string]interface{}{
		"store_id": storeID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Store deleted successfully",
	})
}
