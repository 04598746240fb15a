package database

import (
	"partyhub.app/configs/configslog"
	"partyhub.app/database/migrations"
	"partyhub.app/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Initialize runs migrations and seeders inside one transaction, rolling
// everything back on the first failure.
func Initialize(db *gorm.DB, migrate bool, seed bool) {
	if !migrate && !seed {
		configslog.SLog.Info("neither -migrate nor -seed given, nothing to do")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("failed to begin database transaction", zap.Error(tx.Error))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("database initialization panicked", zap.Any("panic_info", r))
		} else if err := tx.Error; err != nil && err != gorm.ErrInvalidTransaction {
			configslog.SLog.Warnw("rolling back initialization after error", "error", err)
			if rbErr := tx.Rollback().Error; rbErr != nil && rbErr != gorm.ErrInvalidTransaction {
				configslog.Log.Error("rollback failed", zap.Error(rbErr))
			}
		}
	}()

	configslog.SLog.Info("database initialization starting...")

	if migrate {
		if err := RunMigrationsInOrder(tx); err != nil {
			configslog.Log.Error("migrations failed", zap.Error(err))
			return
		}
	}

	if seed {
		if err := RunSeeders(tx); err != nil {
			configslog.Log.Error("seeding failed", zap.Error(err))
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Error = err
		configslog.Log.Error("commit failed", zap.Error(err))
		return
	}

	configslog.SLog.Info("database initialization completed successfully")
}

// RunMigrationsInOrder migrates every table, parents before children so the
// foreign keys can be created.
func RunMigrationsInOrder(db *gorm.DB) error {
	if err := migrations.MigrateUsersTable(db); err != nil {
		return err
	}
	if err := migrations.MigratePartiesTables(db); err != nil {
		return err
	}
	if err := migrations.MigrateAttendeesTable(db); err != nil {
		return err
	}
	if err := migrations.MigrateTagsTables(db); err != nil {
		return err
	}
	if err := migrations.MigrateChatRoomsTable(db); err != nil {
		return err
	}
	configslog.SLog.Info("all migrations ran successfully")
	return nil
}

// RunSeeders seeds the system user and the starter tag vocabulary.
func RunSeeders(db *gorm.DB) error {
	if err := seeders.SeedSystemUser(db); err != nil {
		return err
	}
	if err := seeders.SeedTags(db); err != nil {
		return err
	}
	configslog.SLog.Info("all seeders ran successfully")
	return nil
}
