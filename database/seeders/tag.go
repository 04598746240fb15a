package seeders

import (
	"errors"

	"partyhub.app/configs/configslog"
	"partyhub.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedTags creates the starter vocabulary so fresh deployments offer
// suggestions before any party has been tagged. Usage counters start at 0:
// they count associations, not seeding.
func SeedTags(db *gorm.DB) error {
	starter := []string{
		"House Party", "Birthday", "Rooftop", "BBQ", "Game Night",
		"Live Music", "Karaoke", "Pool Party", "Housewarming", "Potluck",
	}

	var created int
	for _, name := range starter {
		slug := models.Slugify(name)

		var existing models.Tag
		result := db.Where("slug = ?", slug).First(&existing)
		if result.Error == nil {
			continue
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			configslog.Log.Error("failed to check for tag", zap.String("slug", slug), zap.Error(result.Error))
			return result.Error
		}

		if err := db.Create(&models.Tag{Name: name, Slug: slug}).Error; err != nil {
			configslog.Log.Error("failed to seed tag", zap.String("slug", slug), zap.Error(err))
			return err
		}
		created++
	}

	if created > 0 {
		configslog.SLog.Infow("starter tags seeded", "created", created)
	} else {
		configslog.SLog.Info("starter tags already present")
	}
	return nil
}
