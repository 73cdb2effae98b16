package service

import (
	"testing"

	"github.com/ratewise/ratewise-backend/internal/app/model"
	"github.com/ratewise/ratewise-backend/internal/app/repository"
	"github.com/ratewise/ratewise-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserServiceTest(t *testing.T) (UserService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	ratingRepo := repository.NewRatingRepository(testDB)
	return NewUserService(userRepo, storeRepo, ratingRepo), testDB
}

func TestUserService_CreateUser(t *testing.T) {
	userService, testDB := setupUserServiceTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		role     model.UserRole
		wantErr  error
	}{
		{
			name:     "Admin creates a store owner",
			userName: validName,
			email:    "owner@example.com",
			password: validPassword,
			role:     model.RoleStoreOwner,
			wantErr:  nil,
		},
		{
			name:     "Admin creates an admin",
			userName: "Second Administrator Account Name",
			email:    "admin2@example.com",
			password: validPassword,
			role:     model.RoleAdmin,
			wantErr:  nil,
		},
		{
			name:     "Unknown role rejected",
			userName: validName,
			email:    "bogus@example.com",
			password: validPassword,
			role:     model.UserRole("superuser"),
			wantErr:  ErrInvalidRole,
		},
		{
			name:     "Duplicate email rejected",
			userName: validName,
			email:    "owner@example.com",
			password: validPassword,
			role:     model.RoleUser,
			wantErr:  ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := userService.CreateUser(tt.userName, tt.email, tt.password, "", tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.role, user.Role)
			}
		})
	}
}

func TestUserService_LastAdminGuard(t *testing.T) {
	userService, testDB := setupUserServiceTest(t)
	defer db.CleanupTestDB(testDB)

	admin, err := userService.CreateUser("Sole Platform Administrator Name", "admin@example.com", validPassword, "", model.RoleAdmin)
	require.NoError(t, err)

	regular, err := userService.CreateUser(validName, "user@example.com", validPassword, "", model.RoleUser)
	require.NoError(t, err)

	t.Run("Deleting the only admin is refused", func(t *testing.T) {
		err := userService.DeleteUser(admin.ID)
		assert.ErrorIs(t, err, ErrLastAdmin)
	})

	t.Run("Demoting the only admin is refused", func(t *testing.T) {
		role := model.RoleUser
		_, err := userService.UpdateUser(admin.ID, UserMutation{Role: &role})
		assert.ErrorIs(t, err, ErrLastAdmin)
	})

	t.Run("Deleting a regular user is fine", func(t *testing.T) {
		require.NoError(t, userService.DeleteUser(regular.ID))
	})

	t.Run("With a second admin the first can be removed", func(t *testing.T) {
		_, err := userService.CreateUser("Second Administrator Account Name", "admin2@example.com", validPassword, "", model.RoleAdmin)
		require.NoError(t, err)

		require.NoError(t, userService.DeleteUser(admin.ID))
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	userService, testDB := setupUserServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user, err := userService.CreateUser(validName, "user@example.com", validPassword, "1 Old Street", model.RoleUser)
	require.NoError(t, err)

	t.Run("Update name and address", func(t *testing.T) {
		newName := "Updated Account Holder Full Name"
		newAddress := "2 New Avenue"
		updated, err := userService.UpdateUser(user.ID, UserMutation{Name: &newName, Address: &newAddress})
		require.NoError(t, err)
		assert.Equal(t, newName, updated.Name)
		assert.Equal(t, newAddress, updated.Address)
	})

	t.Run("Promote to store owner", func(t *testing.T) {
		role := model.RoleStoreOwner
		updated, err := userService.UpdateUser(user.ID, UserMutation{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, model.RoleStoreOwner, updated.Role)
	})

	t.Run("Name outside the length bounds", func(t *testing.T) {
		short := "x"
		_, err := userService.UpdateUser(user.ID, UserMutation{Name: &short})
		assert.ErrorIs(t, err, ErrNameLength)
	})

	t.Run("Email already held by another account", func(t *testing.T) {
		other, err := userService.CreateUser(validName, "taken@example.com", validPassword, "", model.RoleUser)
		require.NoError(t, err)

		email := "user@example.com"
		_, err = userService.UpdateUser(other.ID, UserMutation{Email: &email})
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := userService.UpdateUser(9999, UserMutation{})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_Stats(t *testing.T) {
	userService, testDB := setupUserServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := userService.CreateUser("Sole Platform Administrator Name", "admin@example.com", validPassword, "", model.RoleAdmin)
	require.NoError(t, err)
	_, err = userService.CreateUser(validName, "user@example.com", validPassword, "", model.RoleUser)
	require.NoError(t, err)

	store := model.Store{Name: "Stat Store", Email: "stat@example.com", Address: "1 Stat Street"}
	require.NoError(t, testDB.Create(&store).Error)

	stats, err := userService.Stats()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalStores)
	assert.Equal(t, int64(0), stats.TotalRatings)
	assert.Equal(t, int64(1), stats.UsersByRole[model.RoleAdmin])
	assert.Equal(t, int64(1), stats.UsersByRole[model.RoleUser])
	assert.Equal(t, int64(0), stats.UsersByRole[model.RoleStoreOwner])
}
