package service

import (
	"errors"

	"github.com/ratewise/ratewise-backend/internal/app/model"
	"github.com/ratewise/ratewise-backend/internal/app/repository"
	"github.com/ratewise/ratewise-backend/pkg/logger"
	"github.com/ratewise/ratewise-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrLastAdmin   = errors.New("cannot remove the last admin account")
	ErrInvalidRole = errors.New("invalid role")
)

// DashboardStats is the admin overview: platform totals plus the user
// breakdown by role.
type DashboardStats struct {
	TotalUsers   int64                    `json:"total_users"`
	TotalStores  int64                    `json:"total_stores"`
	TotalRatings int64                    `json:"total_ratings"`
	UsersByRole  map[model.UserRole]int64 `json:"users_by_role"`
}

// UserDetail is one account with its owned stores and their rating
// aggregates (relevant for store_owner accounts, empty otherwise).
type UserDetail struct {
	model.User
	Stores []model.StoreWithAggregates `json:"stores"`
}

// UserMutation carries optional field updates for admin user management.
type UserMutation struct {
	Name     *string
	Email    *string
	Password *string
	Address  *string
	Role     *model.UserRole
}

type UserService interface {
	ListUsers(filter repository.UserFilter) ([]model.User, int64, error)
	GetUser(id uint) (*UserDetail, error)
	CreateUser(name, email, password, address string, role model.UserRole) (*model.User, error)
	UpdateUser(id uint, input UserMutation) (*model.User, error)
	DeleteUser(id uint) error
	Stats() (*DashboardStats, error)
}

type userService struct {
	userRepo   repository.UserRepository
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	ratingRepo repository.RatingRepository,
) UserService {
	return &userService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
	}
}

func (s *userService) ListUsers(filter repository.UserFilter) ([]model.User, int64, error) {
	logger.Debug("Listing users", map[string]interface{}{
		"search": filter.Search,
		"role":   filter.Role,
	})

	users, total, err := s.userRepo.FindAll(filter)
	if err != nil {
		logger.Error("Failed to list users", err)
		return nil, 0, err
	}
	return users, total, nil
}

func (s *userService) GetUser(id uint) (*UserDetail, error) {
	user, err := s.userRepo.FindByIDWithStores(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	detail := &UserDetail{
		User:   *user,
		Stores: make([]model.StoreWithAggregates, 0, len(user.Stores)),
	}

	if len(user.Stores) > 0 {
		storeIDs := make([]uint, len(user.Stores))
		for i, store := range user.Stores {
			storeIDs[i] = store.ID
		}
		aggregates, err := s.ratingRepo.AggregatesForStores(storeIDs)
		if err != nil {
			logger.Error("Failed to load aggregates for owned stores", err, map[string]interface{}{
				"user_id": id,
			})
			return nil, err
		}
		for _, store := range user.Stores {
			entry := model.StoreWithAggregates{Store: store}
			if agg, ok := aggregates[store.ID]; ok {
				entry.AverageRating = agg.Average
				entry.TotalRatings = agg.Count
			}
			detail.Stores = append(detail.Stores, entry)
		}
	}
	detail.User.Stores = nil

	return detail, nil
}

// CreateUser provisions an account with any role. This is the only path
// that creates admins and store owners; self sign-up is always a normal
// user.
func (s *userService) CreateUser(name, email, password, address string, role model.UserRole) (*model.User, error) {
	logger.Info("Creating user account", map[string]interface{}{
		"email": email,
		"role":  role,
	})

	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if err := ValidateProfileFields(name, address); err != nil {
		return nil, err
	}
	if err := util.ValidatePassword(password); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Address:      address,
		Role:         role,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user account", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("User account created", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, nil
}

func (s *userService) UpdateUser(id uint, input UserMutation) (*model.User, error) {
	logger.Info("Updating user account", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user for update", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	// Demoting the last admin would leave the platform without one.
	if input.Role != nil && *input.Role != user.Role && user.Role == model.RoleAdmin {
		if err := s.checkNotLastAdmin(); err != nil {
			return nil, err
		}
	}

	// Name and address obey the same constraints as on create, applied to
	// the merged result of this update.
	if input.Name != nil || input.Address != nil {
		name := user.Name
		if input.Name != nil {
			name = *input.Name
		}
		address := user.Address
		if input.Address != nil {
			address = *input.Address
		}
		if err := ValidateProfileFields(name, address); err != nil {
			return nil, err
		}
	}

	if input.Email != nil && *input.Email != user.Email {
		existing, err := s.userRepo.FindByEmail(*input.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to check existing email", err, map[string]interface{}{
				"email": *input.Email,
			})
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if input.Password != nil {
		if err := util.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hashedPassword, err := util.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashedPassword
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user account", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	logger.Info("User account updated", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, nil
}

func (s *userService) DeleteUser(id uint) error {
	logger.Info("Deleting user account", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		logger.Error("Failed to fetch user for delete", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	if user.Role == model.RoleAdmin {
		if err := s.checkNotLastAdmin(); err != nil {
			return err
		}
	}

	if err := s.userRepo.Delete(id); err != nil {
		logger.Error("Failed to delete user account", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	logger.Info("User account deleted", map[string]interface{}{
		"user_id": id,
	})
	return nil
}

func (s *userService) Stats() (*DashboardStats, error) {
	logger.Debug("Computing dashboard stats")

	totalUsers, err := s.userRepo.CountAll()
	if err != nil {
		logger.Error("Failed to count users", err)
		return nil, err
	}

	totalStores, err := s.storeRepo.CountAll()
	if err != nil {
		logger.Error("Failed to count stores", err)
		return nil, err
	}

	totalRatings, err := s.ratingRepo.CountAll()
	if err != nil {
		logger.Error("Failed to count ratings", err)
		return nil, err
	}

	roleCounts, err := s.userRepo.RoleCounts()
	if err != nil {
		logger.Error("Failed to count users by role", err)
		return nil, err
	}
	// Every role appears in the breakdown even when empty
	for _, role := range model.ValidRoles() {
		if _, ok := roleCounts[role]; !ok {
			roleCounts[role] = 0
		}
	}

	return &DashboardStats{
		TotalUsers:   totalUsers,
		TotalStores:  totalStores,
		TotalRatings: totalRatings,
		UsersByRole:  roleCounts,
	}, nil
}

func (s *userService) checkNotLastAdmin() error {
	admins, err := s.userRepo.CountByRole(model.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		logger.Warn("Refused to remove the last admin account")
		return ErrLastAdmin
	}
	return nil
}
