package repository

import (
	"github.com/ratewise/ratewise-backend/internal/app/model"
	"github.com/ratewise/ratewise-backend/pkg/logger"
	"gorm.io/gorm"
)

// StoreFilter narrows and orders store listings. Search matches name and
// address.
type StoreFilter struct {
	Search    string
	SortBy    string
	SortOrder string // asc or desc
	Page      int
	Limit     int
}

var storeSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"address":    "address",
	"created_at": "created_at",
}

type StoreRepository interface {
	Create(store *model.Store) error
	BulkCreate(stores []model.Store) error
	Update(store *model.Store) error
	Delete(id uint) error
	FindByID(id uint) (*model.Store, error)
	FindByEmail(email string) (*model.Store, error)
	FindAll(filter StoreFilter) ([]model.Store, int64, error)
	FindByOwnerID(ownerID uint) ([]model.Store, error)
	CountAll() (int64, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name":     store.Name,
		"email":    store.Email,
		"owner_id": store.OwnerID,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name":  store.Name,
			"email": store.Email,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return nil
}

func (r *storeRepository) BulkCreate(stores []model.Store) error {
	if len(stores) == 0 {
		return nil
	}

	logger.Debug("Bulk creating stores in database", map[string]interface{}{
		"count": len(stores),
	})

	if err := r.db.CreateInBatches(stores, 100).Error; err != nil {
		logger.Error("Failed to bulk create stores in database", err, map[string]interface{}{
			"count": len(stores),
		})
		return err
	}

	return nil
}

func (r *storeRepository) Update(store *model.Store) error {
	logger.Debug("Updating store in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})

	if err := r.db.Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
			"name":     store.Name,
		})
		return err
	}

	return nil
}

func (r *storeRepository) Delete(id uint) error {
	logger.Debug("Deleting store from database", map[string]interface{}{
		"store_id": id,
	})

	if err := r.db.Delete(&model.Store{}, id).Error; err != nil {
		logger.Error("Failed to delete store from database", err, map[string]interface{}{
			"store_id": id,
		})
		return err
	}

	return nil
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	logger.Debug("Finding store by ID", map[string]interface{}{
		"store_id": id,
	})

	var store model.Store
	if err := r.db.Preload("Owner").First(&store, id).Error; err != nil {
		return nil, err
	}

	return &store, nil
}

func (r *storeRepository) FindByEmail(email string) (*model.Store, error) {
	var store model.Store
	if err := r.db.Where("email = ?", email).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindAll(filter StoreFilter) ([]model.Store, int64, error) {
	logger.Debug("Finding stores", map[string]interface{}{
		"search": filter.Search,
	})

	query := r.db.Model(&model.Store{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR address LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count stores in database", err)
		return nil, 0, err
	}

	query = query.Order(buildOrderClause(storeSortColumns, filter.SortBy, filter.SortOrder, "name asc"))

	page, limit := normalizePagination(filter.Page, filter.Limit)
	query = query.Offset((page - 1) * limit).Limit(limit)

	var stores []model.Store
	if err := query.Find(&stores).Error; err != nil {
		logger.Error("Failed to find stores", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Stores found", map[string]interface{}{
		"count": len(stores),
		"total": total,
	})
	return stores, total, nil
}

func (r *storeRepository) FindByOwnerID(ownerID uint) ([]model.Store, error) {
	logger.Debug("Finding stores by owner", map[string]interface{}{
		"owner_id": ownerID,
	})

	var stores []model.Store
	if err := r.db.Where("owner_id = ?", ownerID).Order("name ASC").Find(&stores).Error; err != nil {
		logger.Error("Failed to find stores by owner", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}

	return stores, nil
}

func (r *storeRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Store{}).Count(&count).Error
	return count, err
}
