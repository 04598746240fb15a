package migrations

import (
	"partyhub.app/configs/configslog"
	"partyhub.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateTagsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating tags & party_tags tables...")
	if err := db.AutoMigrate(&models.Tag{}, &models.PartyTag{}); err != nil {
		configslog.Log.Error("Failed to migrate tags & party_tags tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tags & party_tags tables migrated successfully")
	return nil
}
