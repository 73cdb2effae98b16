package repository

import (
	"github.com/ratewise/ratewise-backend/internal/app/model"
	"github.com/ratewise/ratewise-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreAggregate holds the computed rating summary for one store.
type StoreAggregate struct {
	Average float64
	Count   int64
}

type RatingRepository interface {
	Upsert(rating *model.Rating) (bool, error)
	FindByUserAndStore(userID, storeID uint) (*model.Rating, error)
	ListByUser(userID uint) ([]model.Rating, error)
	ListByStore(storeID uint) ([]model.Rating, error)
	DeleteByUserAndStore(userID, storeID uint) error
	AggregateForStore(storeID uint) (StoreAggregate, error)
	AggregatesForStores(storeIDs []uint) (map[uint]StoreAggregate, error)
	UserRatingsForStores(userID uint, storeIDs []uint) (map[uint]int, error)
	CountAll() (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert inserts or replaces the caller's rating for a store in a single
// statement keyed on the (user_id, store_id) unique index. The returned
// bool reports whether a new row was created; concurrent submissions for
// the same pair converge on the last write instead of erroring.
func (r *ratingRepository) Upsert(rating *model.Rating) (bool, error) {
	logger.Debug("Upserting rating in database", map[string]interface{}{
		"user_id":  rating.UserID,
		"store_id": rating.StoreID,
		"rating":   rating.Rating,
	})

	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).Create(rating).Error; err != nil {
			return err
		}

		// Reload the stored row so the caller sees it regardless of which
		// branch the upsert took. A fresh insert leaves created_at equal
		// to updated_at; the conflict branch only advances updated_at, so
		// the comparison decides created even when two first submissions
		// race on the same pair.
		if err := tx.Where("user_id = ? AND store_id = ?", rating.UserID, rating.StoreID).
			First(rating).Error; err != nil {
			return err
		}
		created = rating.CreatedAt.Equal(rating.UpdatedAt)
		return nil
	})
	if err != nil {
		logger.Error("Failed to upsert rating in database", err, map[string]interface{}{
			"user_id":  rating.UserID,
			"store_id": rating.StoreID,
		})
		return false, err
	}

	logger.Debug("Rating upserted in database", map[string]interface{}{
		"rating_id": rating.ID,
		"created":   created,
	})
	return created, nil
}

func (r *ratingRepository) FindByUserAndStore(userID, storeID uint) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.Where("user_id = ? AND store_id = ?", userID, storeID).First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListByUser(userID uint) ([]model.Rating, error) {
	logger.Debug("Listing ratings by user", map[string]interface{}{
		"user_id": userID,
	})

	var ratings []model.Rating
	err := r.db.Preload("Store").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&ratings).Error
	if err != nil {
		logger.Error("Failed to list ratings by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return ratings, nil
}

// ListByStore returns every rating for a store with the rater preloaded,
// newest first. Used for the owner dashboard.
func (r *ratingRepository) ListByStore(storeID uint) ([]model.Rating, error) {
	logger.Debug("Listing ratings by store", map[string]interface{}{
		"store_id": storeID,
	})

	var ratings []model.Rating
	err := r.db.Preload("User").
		Where("store_id = ?", storeID).
		Order("updated_at DESC").
		Find(&ratings).Error
	if err != nil {
		logger.Error("Failed to list ratings by store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}

	return ratings, nil
}

func (r *ratingRepository) DeleteByUserAndStore(userID, storeID uint) error {
	logger.Debug("Deleting rating from database", map[string]interface{}{
		"user_id":  userID,
		"store_id": storeID,
	})

	result := r.db.Where("user_id = ? AND store_id = ?", userID, storeID).Delete(&model.Rating{})
	if result.Error != nil {
		logger.Error("Failed to delete rating from database", result.Error, map[string]interface{}{
			"user_id":  userID,
			"store_id": storeID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ratingRepository) AggregateForStore(storeID uint) (StoreAggregate, error) {
	var agg StoreAggregate
	err := r.db.Model(&model.Rating{}).
		Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as count").
		Where("store_id = ?", storeID).
		Scan(&agg).Error
	if err != nil {
		logger.Error("Failed to compute store aggregate", err, map[string]interface{}{
			"store_id": storeID,
		})
		return StoreAggregate{}, err
	}
	return agg, nil
}

// AggregatesForStores computes average and count for a batch of stores in
// one grouped query. Stores without ratings are absent from the result.
func (r *ratingRepository) AggregatesForStores(storeIDs []uint) (map[uint]StoreAggregate, error) {
	result := make(map[uint]StoreAggregate, len(storeIDs))
	if len(storeIDs) == 0 {
		return result, nil
	}

	type aggregateRow struct {
		StoreID uint
		Average float64
		Count   int64
	}

	var rows []aggregateRow
	err := r.db.Model(&model.Rating{}).
		Select("store_id, COALESCE(AVG(rating), 0) as average, COUNT(*) as count").
		Where("store_id IN ?", storeIDs).
		Group("store_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to compute store aggregates", err, map[string]interface{}{
			"store_count": len(storeIDs),
		})
		return nil, err
	}

	for _, row := range rows {
		result[row.StoreID] = StoreAggregate{Average: row.Average, Count: row.Count}
	}
	return result, nil
}

// UserRatingsForStores returns the given user's rating value per store for
// a batch of stores. Stores the user has not rated are absent.
func (r *ratingRepository) UserRatingsForStores(userID uint, storeIDs []uint) (map[uint]int, error) {
	result := make(map[uint]int, len(storeIDs))
	if len(storeIDs) == 0 {
		return result, nil
	}

	var ratings []model.Rating
	err := r.db.Select("store_id, rating").
		Where("user_id = ? AND store_id IN ?", userID, storeIDs).
		Find(&ratings).Error
	if err != nil {
		logger.Error("Failed to load user ratings for stores", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	for _, rating := range ratings {
		result[rating.StoreID] = rating.Rating
	}
	return result, nil
}

func (r *ratingRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Rating{}).Count(&count).Error
	return count, err
}
