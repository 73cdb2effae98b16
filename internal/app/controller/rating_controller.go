package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/ratewise/ratewise-backend/internal/app/service"
	apperrors "github.com/ratewise/ratewise-backend/internal/errors"
	"github.com/ratewise/ratewise-backend/internal/middleware"
)

type RatingController struct {
	ratingService service.RatingService
}

func NewRatingController(ratingService service.RatingService) *RatingController {
	return &RatingController{
		ratingService: ratingService,
	}
}

type SubmitRatingRequest struct {
	StoreID uint   `json:"store_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// Submit records or replaces the caller's rating for a store. Responds
// 201 when the rating is new, 200 when an existing one was replaced.
// POST /api/ratings
func (ctrl *RatingController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid rating submission", map[string]interface{}{
			"error": err.Error(),
		})
		respondSubmitBindingError(c, err)
		return
	}

	rating, created, err := ctrl.ratingService.Submit(userID, req.StoreID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
		case errors.Is(err, service.ErrRatingOutOfRange):
			apperrors.BadRequest(c, apperrors.RatingInvalidValue, "Rating must be between 1 and 5")
		default:
			log.Error("Failed to submit rating", err, map[string]interface{}{
				"user_id":  userID,
				"store_id": req.StoreID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "submit rating")
		}
		return
	}

	status := http.StatusOK
	message := "Rating updated successfully"
	if created {
		status = http.StatusCreated
		message = "Rating submitted successfully"
	}

	log.Info("Rating submitted", map[string]interface{}{
		"user_id":  userID,
		"store_id": req.StoreID,
		"created":  created,
	})

	c.JSON(status, gin.H{
		"message": message,
		"rating":  rating,
	})
}

// respondSubmitBindingError tells the caller which part of a rating
// submission failed binding: a missing store, an overlong comment, or a
// rating outside 1-5.
func respondSubmitBindingError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fieldErr := range fieldErrs {
			switch fieldErr.Field() {
			case "StoreID":
				apperrors.BadRequest(c, apperrors.ValidationRequired, "Store id is required")
				return
			case "Comment":
				apperrors.BadRequest(c, apperrors.ValidationTooLong, "Comment must be at most 2000 characters")
				return
			}
		}
	}
	apperrors.BadRequest(c, apperrors.RatingInvalidValue, "Rating must be between 1 and 5")
}

// GetForStore returns the caller's rating for one store, null when the
// caller has not rated it.
// GET /api/ratings/store/:store_id
func (ctrl *RatingController) GetForStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	storeID, ok := parseIDParam(c, "store_id")
	if !ok {
		return
	}

	rating, err := ctrl.ratingService.GetForStore(userID, storeID)
	if err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			// not having rated yet is a normal state, not an error
			c.JSON(http.StatusOK, gin.H{
				"rating": nil,
			})
			return
		}
		log.Error("Failed to fetch rating", err, map[string]interface{}{
			"user_id":  userID,
			"store_id": storeID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get rating")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rating": rating,
	})
}

// ListMine returns every rating the caller has submitted, newest first
// GET /api/ratings/my-ratings
func (ctrl *RatingController) ListMine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	ratings, err := ctrl.ratingService.ListMine(userID)
	if err != nil {
		log.Error("Failed to list own ratings", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list ratings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ratings": ratings,
	})
}

// Delete removes the caller's rating for a store
// DELETE /api/ratings/store/:store_id
func (ctrl *RatingController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	storeID, ok := parseIDParam(c, "store_id")
	if !ok {
		return
	}

	if err := ctrl.ratingService.Delete(userID, storeID); err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			apperrors.NotFound(c, apperrors.RatingNotFound, "You have not rated this store")
			return
		}
		log.Error("Failed to delete rating", err, map[string]interface{}{
			"user_id":  userID,
			"store_id": storeID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete rating")
		return
	}

	log.Info("Rating deleted", map[string]interface{}{
		"user_id":  userID,
		"store_id": storeID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Rating deleted successfully",
	})
}
