package service

import (
	"errors"

	"github.com/ratewise/ratewise-backend/internal/app/model"
	"github.com/ratewise/ratewise-backend/internal/app/repository"
	"github.com/ratewise/ratewise-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRatingNotFound   = errors.New("rating not found")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
)

type RatingService interface {
	Submit(userID, storeID uint, value int, comment string) (*model.Rating, bool, error)
	GetForStore(userID, storeID uint) (*model.Rating, error)
	ListMine(userID uint) ([]model.Rating, error)
	Delete(userID, storeID uint) error
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	storeRepo  repository.StoreRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, storeRepo repository.StoreRepository) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		storeRepo:  storeRepo,
	}
}

// Submit records the user's rating for a store. A user has at most one
// rating per store: the first submission creates it, later ones replace
// value and comment in place. The bool reports which case happened.
func (s *ratingService) Submit(userID, storeID uint, value int, comment string) (*model.Rating, bool, error) {
	logger.Info("Submitting rating", map[string]interface{}{
		"user_id":  userID,
		"store_id": storeID,
		"rating":   value,
	})

	if value < 1 || value > 5 {
		return nil, false, ErrRatingOutOfRange
	}

	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Rating rejected: store not found", map[string]interface{}{
				"store_id": storeID,
			})
			return nil, false, ErrStoreNotFound
		}
		logger.Error("Failed to check store before rating", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, false, err
	}

	rating := &model.Rating{
		UserID:  userID,
		StoreID: storeID,
		Rating:  value,
		Comment: comment,
	}

	created, err := s.ratingRepo.Upsert(rating)
	if err != nil {
		logger.Error("Failed to submit rating", err, map[string]interface{}{
			"user_id":  userID,
			"store_id": storeID,
		})
		return nil, false, err
	}

	logger.Info("Rating submitted", map[string]interface{}{
		"rating_id": rating.ID,
		"created":   created,
	})
	return rating, created, nil
}

func (s *ratingService) GetForStore(userID, storeID uint) (*model.Rating, error) {
	rating, err := s.ratingRepo.FindByUserAndStore(userID, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		logger.Error("Failed to fetch rating", err, map[string]interface{}{
			"user_id":  userID,
			"store_id": storeID,
		})
		return nil, err
	}
	return rating, nil
}

func (s *ratingService) ListMine(userID uint) ([]model.Rating, error) {
	logger.Debug("Listing own ratings", map[string]interface{}{
		"user_id": userID,
	})

	ratings, err := s.ratingRepo.ListByUser(userID)
	if err != nil {
		logger.Error("Failed to list own ratings", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return ratings, nil
}

func (s *ratingService) Delete(userID, storeID uint) error {
	logger.Info("Deleting rating", map[string]interface{}{
		"user_id":  userID,
		"store_id": storeID,
	})

	err := s.ratingRepo.DeleteByUserAndStore(userID, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRatingNotFound
		}
		logger.Error("Failed to delete rating", err, map[string]interface{}{
			"user_id":  userID,
			"store_id": storeID,
		})
		return err
	}

	logger.Info("Rating deleted", map[string]interface{}{
		"user_id":  userID,
		"store_id": storeID,
	})
	return nil
}
