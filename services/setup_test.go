package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"partyhub.app/configs/configslog"
	"partyhub.app/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	configslog.InitLogger()
	code := m.Run()
	configslog.SyncLogger()
	os.Exit(code)
}

// newTestDB opens a per-test in-memory database. The shared-cache URI keeps
// every pooled connection on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Party{},
		&models.Venue{},
		&models.Attendee{},
		&models.Tag{},
		&models.PartyTag{},
		&models.ChatRoom{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{
		Email:       strings.ToLower(name) + "@example.com",
		DisplayName: name,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func basicInput(startsIn time.Duration) CreatePartyInput {
	return CreatePartyInput{
		Title:    "Rooftop Summer Bash",
		StartsAt: time.Now().UTC().Add(startsIn),
	}
}

// attendeeRows returns the live roster count so tests can check it against
// the denormalized counter.
func attendeeRows(t *testing.T, db *gorm.DB, partyID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Attendee{}).Where("party_id = ?", partyID).Count(&count).Error)
	return count
}

func reloadParty(t *testing.T, db *gorm.DB, partyID uint) models.Party {
	t.Helper()
	var party models.Party
	require.NoError(t, db.First(&party, partyID).Error)
	return party
}

func testCtx() context.Context { return context.Background() }
