package seeders

import (
	"errors"

	"partyhub.app/configs/configslog"
	"partyhub.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedSystemUser makes sure the internal system identity exists. It owns
// seeded records and never logs in.
func SeedSystemUser(db *gorm.DB) error {
	var existing models.User
	result := db.Where("is_system = ?", true).First(&existing)
	if result.Error == nil {
		configslog.SLog.Debug("system user already present, skipping")
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("failed to check for system user", zap.Error(result.Error))
		return result.Error
	}

	system := models.User{
		Email:       "system@partyhub.app",
		DisplayName: "System",
		IsSystem:    true,
	}
	if err := db.Create(&system).Error; err != nil {
		configslog.Log.Error("failed to create system user", zap.Error(err))
		return err
	}
	configslog.SLog.Infow("system user created", "userID", system.ID)
	return nil
}
