package repositories

import (
	"context"
	"errors"

	"partyhub.app/configs"
	"partyhub.app/configs/configslog"
	"partyhub.app/models"
	"partyhub.app/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IAttendeeRepository owns the roster rows.
type IAttendeeRepository interface {
	Create(ctx context.Context, attendee *models.Attendee) error
	FindByPartyAndUser(ctx context.Context, partyID, userID uint) (*models.Attendee, error)
	ExistsByPartyAndUser(ctx context.Context, partyID, userID uint) (bool, error)
	FindByPartyPaginated(ctx context.Context, partyID uint, params queryparams.ListParams) ([]models.Attendee, int64, error)
	Delete(ctx context.Context, attendee *models.Attendee) error
	CountByParty(ctx context.Context, partyID uint) (int64, error)
}

type AttendeeRepository struct {
	db *gorm.DB
}

func NewAttendeeRepository() IAttendeeRepository {
	return &AttendeeRepository{db: configs.GetDB()}
}

// NewAttendeeRepositoryTx binds the repository to an open transaction.
func NewAttendeeRepositoryTx(tx *gorm.DB) IAttendeeRepository {
	return &AttendeeRepository{db: tx}
}

func (r *AttendeeRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *AttendeeRepository) Create(ctx context.Context, attendee *models.Attendee) error {
	if attendee == nil || attendee.PartyID == 0 || attendee.UserID == 0 {
		return errors.New("attendee requires a party and a user")
	}
	return r.getDB(ctx).Create(attendee).Error
}

func (r *AttendeeRepository) FindByPartyAndUser(ctx context.Context, partyID, userID uint) (*models.Attendee, error) {
	if partyID == 0 || userID == 0 {
		return nil, ErrNotFound
	}
	var attendee models.Attendee
	err := r.getDB(ctx).
		Where("party_id = ? AND user_id = ?", partyID, userID).
		First(&attendee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("AttendeeRepository.FindByPartyAndUser: DB error",
			zap.Uint("partyID", partyID), zap.Uint("userID", userID), zap.Error(err))
		return nil, err
	}
	return &attendee, nil
}

func (r *AttendeeRepository) ExistsByPartyAndUser(ctx context.Context, partyID, userID uint) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Attendee{}).
		Where("party_id = ? AND user_id = ?", partyID, userID).
		Count(&count).Error
	return count > 0, err
}

// FindByPartyPaginated returns the roster ordered by join time ascending,
// each row carrying its user summary source.
func (r *AttendeeRepository) FindByPartyPaginated(ctx context.Context, partyID uint, params queryparams.ListParams) ([]models.Attendee, int64, error) {
	var attendees []models.Attendee
	var total int64

	query := r.getDB(ctx).Model(&models.Attendee{}).Where("party_id = ?", partyID)
	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("AttendeeRepository.FindByPartyPaginated: count error",
			zap.Uint("partyID", partyID), zap.Error(err))
		return nil, 0, err
	}
	if total == 0 {
		return attendees, 0, nil
	}

	err := query.
		Preload("User").
		Order("joined_at asc").
		Limit(params.Limit).Offset(params.Offset()).
		Find(&attendees).Error
	if err != nil {
		configslog.Log.Error("AttendeeRepository.FindByPartyPaginated: find error",
			zap.Uint("partyID", partyID), zap.Error(err))
		return nil, total, err
	}
	return attendees, total, nil
}

func (r *AttendeeRepository) Delete(ctx context.Context, attendee *models.Attendee) error {
	if attendee == nil || attendee.ID == 0 {
		return errors.New("attendee to delete is not persisted")
	}
	result := r.getDB(ctx).Delete(&models.Attendee{}, attendee.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AttendeeRepository) CountByParty(ctx context.Context, partyID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Attendee{}).
		Where("party_id = ?", partyID).
		Count(&count).Error
	return count, err
}

var _ IAttendeeRepository = (*AttendeeRepository)(nil)
