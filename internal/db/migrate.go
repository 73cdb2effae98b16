package db

import (
	"github.com/ratewise/ratewise-backend/config"
	"github.com/ratewise/ratewise-backend/internal/app/model"
	"github.com/ratewise/ratewise-backend/pkg/logger"
	"github.com/ratewise/ratewise-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate(cfg *config.Config) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Store{},
		&model.Rating{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedAdminUser(cfg); err != nil {
		logger.Error("Failed to seed admin user during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// seedAdminUser guarantees at least one admin account exists so the
// platform is always administrable after a fresh deploy.
func seedAdminUser(cfg *config.Config) error {
	var count int64
	if err := DB.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Admin account already exists, skipping bootstrap", map[string]interface{}{
			"admin_count": count,
		})
		return nil
	}

	hash, err := util.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := model.User{
		Name:         cfg.Admin.Name,
		Email:        cfg.Admin.Email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("Bootstrap admin account created", map[string]interface{}{
		"email": admin.Email,
	})
	return nil
}
