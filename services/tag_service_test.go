package services

import (
	"testing"
	"time"

	"partyhub.app/models"
	"partyhub.app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachCreatesTagAndAssociation(t *testing.T) {
	db := newTestDB(t)
	partySvc := NewPartyServiceWithDB(db)
	svc := NewTagServiceWithDB(db)

	host := createUser(t, db, "Ada")
	party, err := partySvc.Create(testCtx(), host.ID, basicInput(24*time.Hour))
	require.NoError(t, err)

	require.NoError(t, svc.Attach(testCtx(), party.ID, []string{"  Live Music  "}))

	tags, err := repositories.NewTagRepositoryTx(db).FindByParty(testCtx(), party.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Live Music", tags[0].Name, "name keeps original casing, trimmed")
	assert.Equal(t, "live-music", tags[0].Slug)
	assert.Equal(t, 1, tags[0].UsageCount)
}

func TestAttachIsIdempotentPerParty(t *testing.T) {
	db := newTestDB(t)
	partySvc := NewPartyServiceWithDB(db)
	svc := NewTagServiceWithDB(db)

	host := createUser(t, db, "Ada")
	party, err := partySvc.Create(testCtx(), host.ID, basicInput(24*time.Hour))
	require.NoError(t, err)

	require.NoError(t, svc.Attach(testCtx(), party.ID, []string{"BBQ"}))
	require.NoError(t, svc.Attach(testCtx(), party.ID, []string{"bbq"}))
	require.NoError(t, svc.Attach(testCtx(), party.ID, []string{"  BBQ  "}))

	tags, err := repositories.NewTagRepositoryTx(db).FindByParty(testCtx(), party.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, 1, tags[0].UsageCount, "re-attaching to the same party never bumps usage")
}

func TestAttachSharedTagAcrossParties(t *testing.T) {
	db := newTestDB(t)
	partySvc := NewPartyServiceWithDB(db)
	svc := NewTagServiceWithDB(db)

	host := createUser(t, db, "Ada")
	first, err := partySvc.Create(testCtx(), host.ID, basicInput(24*time.Hour))
	require.NoError(t, err)
	second, err := partySvc.Create(testCtx(), host.ID, basicInput(48*time.Hour))
	require.NoError(t, err)

	require.NoError(t, svc.Attach(testCtx(), first.ID, []string{"Karaoke"}))
	require.NoError(t, svc.Attach(testCtx(), second.ID, []string{"KARAOKE"}))

	var tags []models.Tag
	require.NoError(t, db.Where("slug = ?", "karaoke").Find(&tags).Error)
	require.Len(t, tags, 1, "one slug, one tag row")
	assert.Equal(t, 2, tags[0].UsageCount)
}

func TestAttachRejectsBlankName(t *testing.T) {
	db := newTestDB(t)
	partySvc := NewPartyServiceWithDB(db)
	svc := NewTagServiceWithDB(db)

	host := createUser(t, db, "Ada")
	party, err := partySvc.Create(testCtx(), host.ID, basicInput(24*time.Hour))
	require.NoError(t, err)

	err = svc.Attach(testCtx(), party.ID, []string{"Rooftop", "   "})
	assert.ErrorIs(t, err, ErrTagNameEmpty)

	// Earlier names in the list remain attached.
	var assoc int64
	require.NoError(t, db.Model(&models.PartyTag{}).Where("party_id = ?", party.ID).Count(&assoc).Error)
	assert.EqualValues(t, 1, assoc)
}

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Live Music", "live-music"},
		{"  BBQ  ", "bbq"},
		{"Late   Night  Set", "late-night-set"},
		{"ROOFTOP", "rooftop"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, models.Slugify(tc.in))
	}
}
