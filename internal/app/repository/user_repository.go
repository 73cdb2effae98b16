package repository

import (
	"fmt"

	"github.com/ratewise/ratewise-backend/internal/app/model"
	"github.com/ratewise/ratewise-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserFilter narrows and orders admin user listings. Search matches name,
// email and address. SortBy must be one of the allow-listed columns;
// anything else falls back to the default ordering.
type UserFilter struct {
	Search    string
	Role      model.UserRole
	SortBy    string
	SortOrder string // asc or desc
	Page      int
	Limit     int
}

// userSortColumns is the allow-list for ORDER BY. User input never reaches
// the SQL string outside this map.
var userSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"role":       "role",
	"created_at": "created_at",
}

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByIDWithStores(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll(filter UserFilter) ([]model.User, int64, error)
	Update(user *model.User) error
	Delete(id uint) error
	CountAll() (int64, error)
	CountByRole(role model.UserRole) (int64, error)
	RoleCounts() (map[model.UserRole]int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	logger.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	err := r.db.First(&user, id).Error
	if err != nil {
		logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByIDWithStores(id uint) (*model.User, error) {
	logger.Debug("Finding user by ID with stores in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	err := r.db.Preload("Stores").First(&user, id).Error
	if err != nil {
		logger.Error("Failed to find user by ID with stores in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	logger.Debug("Finding user by email in database", map[string]interface{}{
		"email": email,
	})

	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindAll(filter UserFilter) ([]model.User, int64, error) {
	query := r.db.Model(&model.User{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR address LIKE ?", pattern, pattern, pattern)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count users in database", err)
		return nil, 0, err
	}

	query = query.Order(buildOrderClause(userSortColumns, filter.SortBy, filter.SortOrder, "name asc"))

	page, limit := normalizePagination(filter.Page, filter.Limit)
	query = query.Offset((page - 1) * limit).Limit(limit)

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		logger.Error("Failed to list users in database", err)
		return nil, 0, err
	}

	logger.Debug("Users listed from database", map[string]interface{}{
		"count": len(users),
		"total": total,
	})
	return users, total, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
		})
		return err
	}

	return nil
}

func (r *userRepository) Delete(id uint) error {
	logger.Debug("Deleting user from database", map[string]interface{}{
		"user_id": id,
	})

	if err := r.db.Delete(&model.User{}, id).Error; err != nil {
		logger.Error("Failed to delete user from database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	return nil
}

func (r *userRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Count(&count).Error
	return count, err
}

func (r *userRepository) CountByRole(role model.UserRole) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *userRepository) RoleCounts() (map[model.UserRole]int64, error) {
	type roleCount struct {
		Role  model.UserRole
		Count int64
	}

	var rows []roleCount
	err := r.db.Model(&model.User{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.UserRole]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

// buildOrderClause resolves a sort request against an allow-list and
// returns a safe ORDER BY expression, falling back to def when the
// requested column is unknown.
func buildOrderClause(allowed map[string]string, sortBy, sortOrder, def string) string {
	column, ok := allowed[sortBy]
	if !ok {
		return def
	}
	direction := "asc"
	if sortOrder == "desc" {
		direction = "desc"
	}
	return fmt.Sprintf("%s %s", column, direction)
}

// normalizePagination clamps page and limit to sane bounds.
func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
