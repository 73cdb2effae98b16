package service

import (
	"errors"

	"github.com/ratewise/ratewise-backend/internal/app/model"
	"github.com/ratewise/ratewise-backend/internal/app/repository"
	"github.com/ratewise/ratewise-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrStoreNotFound    = errors.New("store not found")
	ErrStoreEmailExists = errors.New("a store with this email already exists")
	ErrInvalidOwner     = errors.New("owner must be a store owner account")
)

type StoreListOptions struct {
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
	// UserID, when set, attaches the requesting user's own rating to each
	// listed store.
	UserID *uint
}

// StoreMutation carries optional field updates. Nil pointers leave the
// current value untouched. SetOwner distinguishes "assign or clear the
// owner" from "leave the owner alone".
type StoreMutation struct {
	Name     *string
	Email    *string
	Address  *string
	ImageURL *string
	SetOwner bool
	OwnerID  *uint
}

// OwnerStoreSummary is one owned store with its rating breakdown for the
// owner dashboard.
type OwnerStoreSummary struct {
	Store         model.Store    `json:"store"`
	AverageRating float64        `json:"average_rating"`
	TotalRatings  int64          `json:"total_ratings"`
	Ratings       []model.Rating `json:"ratings"`
}

type StoreService interface {
	ListStores(opts StoreListOptions) ([]model.StoreWithAggregates, int64, error)
	GetStore(id uint, userID *uint) (*model.StoreWithAggregates, error)
	CreateStore(name, email, address, imageURL string, ownerID *uint) (*model.Store, error)
	UpdateStore(storeID uint, input StoreMutation) (*model.Store, error)
	DeleteStore(storeID uint) error
	OwnerDashboard(ownerID uint) ([]OwnerStoreSummary, error)
}

type storeService struct {
	storeRepo  repository.StoreRepository
	userRepo   repository.UserRepository
	ratingRepo repository.RatingRepository
}

func NewStoreService(
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
	ratingRepo repository.RatingRepository,
) StoreService {
	return &storeService{
		storeRepo:  storeRepo,
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
	}
}

func (s *storeService) ListStores(opts StoreListOptions) ([]model.StoreWithAggregates, int64, error) {
	logger.Debug("Listing stores", map[string]interface{}{
		"search": opts.Search,
		"page":   opts.Page,
	})

	stores, total, err := s.storeRepo.FindAll(repository.StoreFilter{
		Search:    opts.Search,
		SortBy:    opts.SortBy,
		SortOrder: opts.SortOrder,
		Page:      opts.Page,
		Limit:     opts.Limit,
	})
	if err != nil {
		logger.Error("Failed to list stores", err)
		return nil, 0, err
	}

	result, err := s.attachAggregates(stores, opts.UserID)
	if err != nil {
		return nil, 0, err
	}

	logger.Info("Stores fetched", map[string]interface{}{
		"count": len(result),
		"total": total,
	})
	return result, total, nil
}

func (s *storeService) GetStore(id uint, userID *uint) (*model.StoreWithAggregates, error) {
	logger.Debug("Fetching store by ID", map[string]interface{}{
		"store_id": id,
	})

	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Store not found", map[string]interface{}{
				"store_id": id,
			})
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to fetch store", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}

	result, err := s.attachAggregates([]model.Store{*store}, userID)
	if err != nil {
		return nil, err
	}
	return &result[0], nil
}

// attachAggregates joins a page of stores with their rating aggregates
// and, when a requester is known, that requester's own rating per store.
func (s *storeService) attachAggregates(stores []model.Store, userID *uint) ([]model.StoreWithAggregates, error) {
	storeIDs := make([]uint, len(stores))
	for i, store := range stores {
		storeIDs[i] = store.ID
	}

	aggregates, err := s.ratingRepo.AggregatesForStores(storeIDs)
	if err != nil {
		logger.Error("Failed to load store aggregates", err)
		return nil, err
	}

	var userRatings map[uint]int
	if userID != nil {
		userRatings, err = s.ratingRepo.UserRatingsForStores(*userID, storeIDs)
		if err != nil {
			logger.Error("Failed to load user ratings for stores", err, map[string]interface{}{
				"user_id": *userID,
			})
			return nil, err
		}
	}

	result := make([]model.StoreWithAggregates, len(stores))
	for i, store := range stores {
		entry := model.StoreWithAggregates{Store: store}
		if agg, ok := aggregates[store.ID]; ok {
			entry.AverageRating = agg.Average
			entry.TotalRatings = agg.Count
		}
		if userRatings != nil {
			if value, ok := userRatings[store.ID]; ok {
				rating := value
				entry.UserRating = &rating
			}
		}
		result[i] = entry
	}
	return result, nil
}

func (s *storeService) CreateStore(name, email, address, imageURL string, ownerID *uint) (*model.Store, error) {
	logger.Info("Creating store", map[string]interface{}{
		"name":     name,
		"email":    email,
		"owner_id": ownerID,
	})

	if ownerID != nil {
		if err := s.checkOwnerRole(*ownerID); err != nil {
			return nil, err
		}
	}
	if err := s.checkEmailAvailable(email, 0); err != nil {
		return nil, err
	}

	store := &model.Store{
		Name:     name,
		Email:    email,
		Address:  address,
		ImageURL: imageURL,
		OwnerID:  ownerID,
	}

	if err := s.storeRepo.Create(store); err != nil {
		logger.Error("Failed to create store", err, map[string]interface{}{
			"name":  name,
			"email": email,
		})
		return nil, err
	}

	logger.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return store, nil
}

func (s *storeService) UpdateStore(storeID uint, input StoreMutation) (*model.Store, error) {
	logger.Info("Updating store", map[string]interface{}{
		"store_id": storeID,
	})

	existing, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Store not found for update", map[string]interface{}{
				"store_id": storeID,
			})
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to find store for update", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}

	if input.Name != nil {
		existing.Name = *input.Name
	}
	if input.Email != nil && *input.Email != existing.Email {
		if err := s.checkEmailAvailable(*input.Email, existing.ID); err != nil {
			return nil, err
		}
		existing.Email = *input.Email
	}
	if input.Address != nil {
		existing.Address = *input.Address
	}
	if input.ImageURL != nil {
		existing.ImageURL = *input.ImageURL
	}
	if input.SetOwner {
		if input.OwnerID != nil {
			if err := s.checkOwnerRole(*input.OwnerID); err != nil {
				return nil, err
			}
		}
		existing.OwnerID = input.OwnerID
		existing.Owner = nil
	}

	if err := s.storeRepo.Update(existing); err != nil {
		logger.Error("Failed to update store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}

	logger.Info("Store updated", map[string]interface{}{
		"store_id": storeID,
	})
	return existing, nil
}

func (s *storeService) DeleteStore(storeID uint) error {
	logger.Info("Deleting store", map[string]interface{}{
		"store_id": storeID,
	})

	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		logger.Error("Failed to find store for delete", err, map[string]interface{}{
			"store_id": storeID,
		})
		return err
	}

	if err := s.storeRepo.Delete(storeID); err != nil {
		logger.Error("Failed to delete store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return err
	}

	logger.Info("Store deleted", map[string]interface{}{
		"store_id": storeID,
	})
	return nil
}

// OwnerDashboard returns every store owned by the user with its aggregate
// rating and the individual ratings including who submitted them.
func (s *storeService) OwnerDashboard(ownerID uint) ([]OwnerStoreSummary, error) {
	logger.Debug("Building owner dashboard", map[string]interface{}{
		"owner_id": ownerID,
	})

	stores, err := s.storeRepo.FindByOwnerID(ownerID)
	if err != nil {
		logger.Error("Failed to fetch owned stores", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}

	summaries := make([]OwnerStoreSummary, 0, len(stores))
	for _, store := range stores {
		agg, err := s.ratingRepo.AggregateForStore(store.ID)
		if err != nil {
			return nil, err
		}

		ratings, err := s.ratingRepo.ListByStore(store.ID)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, OwnerStoreSummary{
			Store:         store,
			AverageRating: agg.Average,
			TotalRatings:  agg.Count,
			Ratings:       ratings,
		})
	}

	logger.Info("Owner dashboard built", map[string]interface{}{
		"owner_id":    ownerID,
		"store_count": len(summaries),
	})
	return summaries, nil
}

// checkEmailAvailable rejects an email already held by another store.
// selfID excludes the store being updated from the check.
func (s *storeService) checkEmailAvailable(email string, selfID uint) error {
	existing, err := s.storeRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		logger.Error("Failed to check store email", err, map[string]interface{}{
			"email": email,
		})
		return err
	}
	if existing.ID != selfID {
		return ErrStoreEmailExists
	}
	return nil
}

func (s *storeService) checkOwnerRole(ownerID uint) error {
	owner, err := s.userRepo.FindByID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidOwner
		}
		return err
	}
	if owner.Role != model.RoleStoreOwner {
		logger.Warn("Rejected store owner assignment", map[string]interface{}{
			"owner_id": ownerID,
			"role":     owner.Role,
		})
		return ErrInvalidOwner
	}
	return nil
}
