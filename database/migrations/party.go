package migrations

import (
	"partyhub.app/configs/configslog"
	"partyhub.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigratePartiesTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating parties & venues tables...")
	if err := db.AutoMigrate(&models.Party{}, &models.Venue{}); err != nil {
		configslog.Log.Error("Failed to migrate parties & venues tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Parties & venues tables migrated successfully")
	return nil
}

func MigrateChatRoomsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating chat_rooms table...")
	if err := db.AutoMigrate(&models.ChatRoom{}); err != nil {
		configslog.Log.Error("Failed to migrate chat_rooms table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Chat_rooms table migrated successfully")
	return nil
}
