package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"partyhub.app/configs"
	"partyhub.app/configs/configsdatabase"
	"partyhub.app/configs/configslog"
	"partyhub.app/models"
	"partyhub.app/pkg/responses"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
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

// newTestApp wires the real route table against a per-test database.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
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
	configsdatabase.SetDB(db)

	app := fiber.New()
	SetupRoutes(app)
	return app, db
}

func newUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{Email: strings.ToLower(name) + "@example.com", DisplayName: name}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func bearer(t *testing.T, userID uint) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(configs.JWTSecret())
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) (int, responses.Envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope responses.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func dataField(t *testing.T, envelope responses.Envelope, key string) interface{} {
	t.Helper()
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok, "data is not an object")
	return data[key]
}

func TestPartyLifecycleOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	host := newUser(t, db, "Ada")
	auth := bearer(t, host.ID)

	status, envelope := doJSON(t, app, http.MethodPost, "/parties", auth, fiber.Map{
		"title":    "Rooftop Summer Bash",
		"startsAt": time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		"venue":    fiber.Map{"name": "The Deck", "address": "12 High St"},
		"tags":     []string{"Rooftop"},
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, envelope.Success)
	partyID := int(dataField(t, envelope, "id").(float64))
	assert.Equal(t, "PLANNED", dataField(t, envelope, "status"))
	assert.EqualValues(t, 1, dataField(t, envelope, "attendeesCount"))

	path := "/parties/" + strconv.Itoa(partyID)

	status, envelope = doJSON(t, app, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Rooftop Summer Bash", dataField(t, envelope, "title"))

	status, envelope = doJSON(t, app, http.MethodPut, path, auth, fiber.Map{"status": "live"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "LIVE", dataField(t, envelope, "status"))

	status, envelope = doJSON(t, app, http.MethodDelete, path, auth, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, envelope.Success)

	status, _ = doJSON(t, app, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreatePartyRejectsAnonymous(t *testing.T) {
	app, _ := newTestApp(t)

	status, envelope := doJSON(t, app, http.MethodPost, "/parties", "", fiber.Map{
		"title":    "No Badge",
		"startsAt": time.Now().UTC().Add(time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, envelope.Success)
	assert.Equal(t, "authentication required", envelope.Message)
}

func TestCreatePartyValidationEnvelope(t *testing.T) {
	app, db := newTestApp(t)
	host := newUser(t, db, "Ada")

	status, envelope := doJSON(t, app, http.MethodPost, "/parties", bearer(t, host.ID), fiber.Map{
		"title": "ab",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.False(t, envelope.Success)
	assert.Equal(t, "validation failed", envelope.Message)

	paths := make([]string, 0, len(envelope.Errors))
	for _, fe := range envelope.Errors {
		paths = append(paths, fe.Path)
	}
	assert.Contains(t, paths, "title")
	assert.Contains(t, paths, "startsAt")
}

func TestPrivatePartyJoinFlowOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	host := newUser(t, db, "Ada")
	guest := newUser(t, db, "Bea")
	guestAuth := bearer(t, guest.ID)

	status, envelope := doJSON(t, app, http.MethodPost, "/parties", bearer(t, host.ID), fiber.Map{
		"title":        "Secret Cellar Session",
		"startsAt":     time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		"isPrivate":    true,
		"maxAttendees": 3,
	})
	require.Equal(t, http.StatusCreated, status)
	partyID := int(dataField(t, envelope, "id").(float64))
	code, ok := dataField(t, envelope, "accessCode").(string)
	require.True(t, ok, "host response carries the access code")

	path := "/parties/" + strconv.Itoa(partyID)

	// A stranger cannot read the private party.
	status, _ = doJSON(t, app, http.MethodGet, path, guestAuth, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Unknown code on the lookup endpoint reads as a missing resource.
	status, _ = doJSON(t, app, http.MethodPost, "/parties/join-by-code", guestAuth, fiber.Map{"accessCode": "Z9Z9Z9"})
	assert.Equal(t, http.StatusNotFound, status)

	// Lowercase input is accepted; codes are stored uppercase.
	status, envelope = doJSON(t, app, http.MethodPost, "/parties/join-by-code", guestAuth, fiber.Map{"accessCode": strings.ToLower(code)})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, partyID, dataField(t, envelope, "id").(float64))

	status, _ = doJSON(t, app, http.MethodPost, "/parties/join-by-code", guestAuth, fiber.Map{"accessCode": code})
	assert.Equal(t, http.StatusConflict, status)

	// Membership unlocks the read.
	status, _ = doJSON(t, app, http.MethodGet, path, guestAuth, nil)
	assert.Equal(t, http.StatusOK, status)

	status, envelope = doJSON(t, app, http.MethodGet, path+"/attendees", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, envelope.Meta)
	assert.EqualValues(t, 2, envelope.Meta.Total)

	status, _ = doJSON(t, app, http.MethodPost, path+"/leave", guestAuth, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, path+"/leave", guestAuth, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestJoinPublicPartyDirectly(t *testing.T) {
	app, db := newTestApp(t)
	host := newUser(t, db, "Ada")
	guest := newUser(t, db, "Bea")

	status, envelope := doJSON(t, app, http.MethodPost, "/parties", bearer(t, host.ID), fiber.Map{
		"title":        "Block Party",
		"startsAt":     time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		"maxAttendees": 2,
	})
	require.Equal(t, http.StatusCreated, status)
	partyID := int(dataField(t, envelope, "id").(float64))
	path := "/parties/" + strconv.Itoa(partyID)

	status, _ = doJSON(t, app, http.MethodPost, path+"/join", bearer(t, guest.ID), nil)
	assert.Equal(t, http.StatusOK, status)

	// At capacity now.
	late := newUser(t, db, "Cal")
	status, envelope = doJSON(t, app, http.MethodPost, path+"/join", bearer(t, late.ID), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "party is full", envelope.Message)

	// Host attempting to leave their own party is refused.
	status, envelope = doJSON(t, app, http.MethodPost, path+"/leave", bearer(t, host.ID), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "host cannot leave the party", envelope.Message)
}

func TestListPartiesOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	host := newUser(t, db, "Ada")
	auth := bearer(t, host.ID)

	for _, title := range []string{"Morning Run Club", "Evening Jazz Night"} {
		status, _ := doJSON(t, app, http.MethodPost, "/parties", auth, fiber.Map{
			"title":    title,
			"startsAt": time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, envelope := doJSON(t, app, http.MethodGet, "/parties?search=jazz", "", nil)
	require.Equal(t, http.StatusOK, status)
	items, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	require.NotNil(t, envelope.Meta)
	assert.EqualValues(t, 1, envelope.Meta.Total)

	status, _ = doJSON(t, app, http.MethodGet, "/parties?status=someday", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestApp(t)

	status, envelope := doJSON(t, app, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "resource not found", envelope.Message)
}
