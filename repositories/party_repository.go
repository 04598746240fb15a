package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"partyhub.app/configs"
	"partyhub.app/configs/configslog"
	"partyhub.app/models"
	"partyhub.app/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IPartyRepository owns the persistent reads and writes of parties, venues
// and the chat-room placeholder, and is the boundary for the transactional
// headcount primitives.
type IPartyRepository interface {
	Create(ctx context.Context, party *models.Party) error
	FindByID(ctx context.Context, id uint) (*models.Party, error)
	FindByAccessCode(ctx context.Context, code string) (*models.Party, error)
	FindAllFiltered(ctx context.Context, filters queryparams.PartyFilters) ([]models.Party, int64, error)
	Update(ctx context.Context, party *models.Party) error
	UpsertVenue(ctx context.Context, venue *models.Venue) error
	CreateChatRoom(ctx context.Context, room *models.ChatRoom) error
	Delete(ctx context.Context, party *models.Party) error

	// IncrementAttendeesCountIfBelowCap bumps attendees_count in a single
	// conditional statement. It reports false when the party is at capacity
	// (or gone), leaving the counter untouched.
	IncrementAttendeesCountIfBelowCap(ctx context.Context, partyID uint) (bool, error)
	DecrementAttendeesCount(ctx context.Context, partyID uint) error
}

type PartyRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.Party]
}

func NewPartyRepository() IPartyRepository {
	db := configs.GetDB()
	return &PartyRepository{db: db, base: NewBaseRepository[models.Party](db)}
}

// NewPartyRepositoryTx binds the repository to an open transaction.
func NewPartyRepositoryTx(tx *gorm.DB) IPartyRepository {
	return &PartyRepository{db: tx, base: NewBaseRepository[models.Party](tx)}
}

func (r *PartyRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *PartyRepository) Create(ctx context.Context, party *models.Party) error {
	if party == nil || party.HostID == 0 {
		return errors.New("party requires a host")
	}
	return r.base.Create(ctx, party)
}

// FindByID loads a party with its host, venue, tags and chat-room placeholder.
func (r *PartyRepository) FindByID(ctx context.Context, id uint) (*models.Party, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var party models.Party
	err := r.getDB(ctx).
		Preload("Host").Preload("Venue").Preload("Tags").Preload("ChatRoom").
		First(&party, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("PartyRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &party, nil
}

func (r *PartyRepository) FindByAccessCode(ctx context.Context, code string) (*models.Party, error) {
	if code == "" {
		return nil, ErrNotFound
	}
	var party models.Party
	err := r.getDB(ctx).
		Preload("Host").Preload("Venue").Preload("Tags").
		Where("access_code = ?", code).
		First(&party).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("PartyRepository.FindByAccessCode: DB error", zap.Error(err))
		return nil, err
	}
	return &party, nil
}

// applyPartyFilters translates the typed filter set into the query. Private
// parties are visible only to a viewer listing their own hosted parties.
func applyPartyFilters(query *gorm.DB, filters queryparams.PartyFilters) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", strings.ToUpper(filters.Status))
	}
	if filters.HostID != 0 {
		query = query.Where("host_id = ?", filters.HostID)
	}
	if filters.Search != "" {
		term := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}
	if filters.Upcoming {
		query = query.Where("starts_at >= ? AND status IN ?",
			time.Now().UTC(),
			[]models.PartyStatus{models.PartyStatusPlanned, models.PartyStatusLive})
	}
	if filters.ViewerID == 0 || filters.ViewerID != filters.HostID {
		query = query.Where("is_private = ?", false)
	}
	return query
}

func (r *PartyRepository) FindAllFiltered(ctx context.Context, filters queryparams.PartyFilters) ([]models.Party, int64, error) {
	var parties []models.Party
	var total int64

	query := applyPartyFilters(r.getDB(ctx).Model(&models.Party{}), filters)

	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("PartyRepository.FindAllFiltered: count error", zap.Error(err))
		return nil, 0, err
	}
	if total == 0 {
		return parties, 0, nil
	}

	err := query.
		Preload("Host").Preload("Venue").Preload("Tags").
		Order("starts_at asc").
		Limit(filters.Limit).Offset(filters.Offset()).
		Find(&parties).Error
	if err != nil {
		configslog.Log.Error("PartyRepository.FindAllFiltered: find error", zap.Error(err))
		return nil, total, err
	}
	return parties, total, nil
}

func (r *PartyRepository) Update(ctx context.Context, party *models.Party) error {
	if party == nil || party.ID == 0 {
		return errors.New("party to update is not persisted")
	}
	return r.getDB(ctx).Omit("Host", "Venue", "Tags", "Attendees", "ChatRoom").Save(party).Error
}

// UpsertVenue creates or replaces the venue row keyed by party id.
func (r *PartyRepository) UpsertVenue(ctx context.Context, venue *models.Venue) error {
	if venue == nil || venue.PartyID == 0 {
		return errors.New("venue requires a party")
	}
	db := r.getDB(ctx)

	var existing models.Venue
	err := db.Where("party_id = ?", venue.PartyID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Create(venue).Error
	case err != nil:
		return err
	}

	existing.Name = venue.Name
	existing.Address = venue.Address
	existing.Latitude = venue.Latitude
	existing.Longitude = venue.Longitude
	if err := db.Save(&existing).Error; err != nil {
		return err
	}
	*venue = existing
	return nil
}

func (r *PartyRepository) CreateChatRoom(ctx context.Context, room *models.ChatRoom) error {
	if room == nil || room.PartyID == 0 || room.ExternalRef == "" {
		return errors.New("chat room requires a party and an external ref")
	}
	return r.getDB(ctx).Create(room).Error
}

// Delete hard-deletes the party and its owned rows in one transaction. The
// explicit deletes mirror the FK cascade so the behavior does not depend on
// the backing engine enforcing it.
func (r *PartyRepository) Delete(ctx context.Context, party *models.Party) error {
	if party == nil || party.ID == 0 {
		return errors.New("party to delete is not persisted")
	}
	db := r.getDB(ctx)

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("party_id = ?", party.ID).Delete(&models.Attendee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("party_id = ?", party.ID).Delete(&models.PartyTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("party_id = ?", party.ID).Delete(&models.Venue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("party_id = ?", party.ID).Delete(&models.ChatRoom{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Party{}, party.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *PartyRepository) IncrementAttendeesCountIfBelowCap(ctx context.Context, partyID uint) (bool, error) {
	result := r.getDB(ctx).Model(&models.Party{}).
		Where("id = ? AND (max_attendees IS NULL OR attendees_count < max_attendees)", partyID).
		UpdateColumn("attendees_count", gorm.Expr("attendees_count + 1"))
	if result.Error != nil {
		configslog.Log.Error("PartyRepository.IncrementAttendeesCountIfBelowCap: DB error",
			zap.Uint("partyID", partyID), zap.Error(result.Error))
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PartyRepository) DecrementAttendeesCount(ctx context.Context, partyID uint) error {
	return r.getDB(ctx).Model(&models.Party{}).
		Where("id = ? AND attendees_count > 0", partyID).
		UpdateColumn("attendees_count", gorm.Expr("attendees_count - 1")).Error
}

var _ IPartyRepository = (*PartyRepository)(nil)
