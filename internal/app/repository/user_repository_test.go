package repository

import (
	"testing"

	"github.com/ratewise/ratewise-backend/internal/app/model"
	"github.com/ratewise/ratewise-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewUserRepository(testDB)
	return testDB, repo
}

func TestUserRepository_Create(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name: "Valid user",
			user: &model.User{
				Email:        "test@example.com",
				PasswordHash: "hashedpassword",
				Name:         "Test User Full Display Name",
				Address:      "123 Main Street",
				Role:         model.RoleUser,
			},
			wantErr: false,
		},
		{
			name: "Duplicate email",
			user: &model.User{
				Email:        "test@example.com",
				PasswordHash: "hashedpassword",
				Name:         "Another User Display Name",
				Address:      "456 Side Street",
				Role:         model.RoleUser,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.user.ID)
			}
		})
	}
}

func TestUserRepository_FindByID(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Name:         "Test User Full Display Name",
		Role:         model.RoleUser,
	}
	err := repo.Create(user)
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      uint
		wantErr bool
	}{
		{
			name:    "Existing user",
			id:      user.ID,
			wantErr: false,
		},
		{
			name:    "Non-existing user",
			id:      9999,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByID(tt.id)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, found)
			} else {
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, user.Email, found.Email)
				assert.Equal(t, user.Name, found.Name)
			}
		})
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Name:         "Test User Full Display Name",
		Role:         model.RoleUser,
	}
	err := repo.Create(user)
	require.NoError(t, err)

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "Existing email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "Non-existing email",
			email:   "notfound@example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByEmail(tt.email)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, found)
			} else {
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, user.Email, found.Email)
				assert.Equal(t, user.Name, found.Name)
			}
		})
	}
}

func TestUserRepository_FindAll(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	seed := []model.User{
		{Name: "Charlie Example Account Name", Email: "charlie@example.com", PasswordHash: "x", Address: "10 River Road", Role: model.RoleUser},
		{Name: "Alice Example Account Name", Email: "alice@example.com", PasswordHash: "x", Address: "20 Ocean Drive", Role: model.RoleAdmin},
		{Name: "Bob Example Account Name", Email: "bob@example.com", PasswordHash: "x", Address: "30 River Road", Role: model.RoleStoreOwner},
	}
	for i := range seed {
		require.NoError(t, repo.Create(&seed[i]))
	}

	t.Run("Default sort is name ascending", func(t *testing.T) {
		users, total, err := repo.FindAll(UserFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, users, 3)
		assert.Equal(t, "alice@example.com", users[0].Email)
		assert.Equal(t, "bob@example.com", users[1].Email)
		assert.Equal(t, "charlie@example.com", users[2].Email)
	})

	t.Run("Search matches address", func(t *testing.T) {
		users, total, err := repo.FindAll(UserFilter{Search: "River Road"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, users, 2)
	})

	t.Run("Filter by role", func(t *testing.T) {
		users, total, err := repo.FindAll(UserFilter{Role: model.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, "alice@example.com", users[0].Email)
	})

	t.Run("Sort by email descending", func(t *testing.T) {
		users, _, err := repo.FindAll(UserFilter{SortBy: "email", SortOrder: "desc"})
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "charlie@example.com", users[0].Email)
	})

	t.Run("Unknown sort column falls back to default", func(t *testing.T) {
		users, _, err := repo.FindAll(UserFilter{SortBy: "password_hash; DROP TABLE users"})
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "alice@example.com", users[0].Email)
	})

	t.Run("Pagination", func(t *testing.T) {
		users, total, err := repo.FindAll(UserFilter{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, users, 1)
	})
}

func TestUserRepository_Update(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Name:         "Test User Full Display Name",
		Address:      "123 Main Street",
		Role:         model.RoleUser,
	}
	err := repo.Create(user)
	require.NoError(t, err)

	user.Name = "Updated User Full Display Name"
	user.Address = "999 New Avenue"

	err = repo.Update(user)
	assert.NoError(t, err)

	updated, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated User Full Display Name", updated.Name)
	assert.Equal(t, "999 New Avenue", updated.Address)
}

func TestUserRepository_Delete(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Name:         "Test User Full Display Name",
		Role:         model.RoleUser,
	}
	err := repo.Create(user)
	require.NoError(t, err)

	err = repo.Delete(user.ID)
	assert.NoError(t, err)

	_, err = repo.FindByID(user.ID)
	assert.Error(t, err)
}

func TestUserRepository_RoleCounts(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	seed := []model.User{
		{Name: "User One Example Account", Email: "u1@example.com", PasswordHash: "x", Role: model.RoleUser},
		{Name: "User Two Example Account", Email: "u2@example.com", PasswordHash: "x", Role: model.RoleUser},
		{Name: "Admin One Example Account", Email: "a1@example.com", PasswordHash: "x", Role: model.RoleAdmin},
	}
	for i := range seed {
		require.NoError(t, repo.Create(&seed[i]))
	}

	counts, err := repo.RoleCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[model.RoleUser])
	assert.Equal(t, int64(1), counts[model.RoleAdmin])
	assert.Equal(t, int64(0), counts[model.RoleStoreOwner])

	total, err := repo.CountAll()
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	admins, err := repo.CountByRole(model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), admins)
}
