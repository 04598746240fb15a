package migrations

import (
	"partyhub.app/configs/configslog"
	"partyhub.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateAttendeesTable creates the roster table. The unique
// (party_id, user_id) index is the backstop for concurrent duplicate joins.
func MigrateAttendeesTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating attendees table...")
	if err := db.AutoMigrate(&models.Attendee{}); err != nil {
		configslog.Log.Error("Failed to migrate attendees table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Attendees table migrated successfully")
	return nil
}
