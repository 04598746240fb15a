package services

import (
	"context"
	"errors"
	"time"

	"partyhub.app/configs"
	"partyhub.app/configs/configslog"
	"partyhub.app/models"
	"partyhub.app/pkg/queryparams"
	"partyhub.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttendanceServiceError typed service errors.
type AttendanceServiceError string

func (e AttendanceServiceError) Error() string { return string(e) }

const (
	ErrAttendancePartyNotFound AttendanceServiceError = "party not found"
	ErrInvalidAccessCode       AttendanceServiceError = "invalid access code"
	ErrPartyFull               AttendanceServiceError = "party is full"
	ErrAlreadyAttending        AttendanceServiceError = "already attending"
	ErrNotAttending            AttendanceServiceError = "not attending this party"
	ErrHostCannotLeave         AttendanceServiceError = "host cannot leave the party"
	ErrAttendanceInvalidInput  AttendanceServiceError = "invalid attendance input"
)

// AttendeeEntry is one roster row as exposed to clients.
type AttendeeEntry struct {
	Role     models.AttendeeRole `json:"role"`
	JoinedAt time.Time           `json:"joinedAt"`
	User     models.UserSummary  `json:"user"`
}

// IAttendanceService owns join/leave and the roster. The attendee row and
// the denormalized headcount always move inside one transaction, and the
// capacity check is a single conditional update so two concurrent joins
// cannot race a party past its cap.
type IAttendanceService interface {
	Join(ctx context.Context, partyID, userID uint, accessCode string) error
	Leave(ctx context.Context, partyID, userID uint) error
	JoinByAccessCode(ctx context.Context, userID uint, code string) (*models.Party, error)
	ListAttendees(ctx context.Context, partyID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
}

type AttendanceService struct {
	partyRepo    repositories.IPartyRepository
	attendeeRepo repositories.IAttendeeRepository
	notifier     INotificationService
	db           *gorm.DB
}

func NewAttendanceService() IAttendanceService {
	return NewAttendanceServiceWithDB(configs.GetDB())
}

// NewAttendanceServiceWithDB builds the service on an explicit connection.
func NewAttendanceServiceWithDB(db *gorm.DB) IAttendanceService {
	return &AttendanceService{
		partyRepo:    repositories.NewPartyRepositoryTx(db),
		attendeeRepo: repositories.NewAttendeeRepositoryTx(db),
		notifier:     NewNotificationService(),
		db:           db,
	}
}

// Join adds userID to the roster of partyID. Private parties require the
// exact stored access code.
func (s *AttendanceService) Join(ctx context.Context, partyID, userID uint, accessCode string) error {
	if partyID == 0 || userID == 0 {
		return ErrAttendanceInvalidInput
	}

	party, err := s.partyRepo.FindByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAttendancePartyNotFound
		}
		return err
	}
	if party.IsPrivate && (party.AccessCode == nil || accessCode != *party.AccessCode) {
		return ErrInvalidAccessCode
	}

	if err := s.admit(ctx, party.ID, userID); err != nil {
		return err
	}
	configslog.SLog.Infow("guest joined party", "partyID", partyID, "userID", userID)
	s.notifier.GuestJoined(party, userID)
	return nil
}

// JoinByAccessCode resolves the party by its globally unique code and joins
// it. Duplicate joins fail with the same conflict as Join.
func (s *AttendanceService) JoinByAccessCode(ctx context.Context, userID uint, code string) (*models.Party, error) {
	if userID == 0 || code == "" {
		return nil, ErrAttendanceInvalidInput
	}

	party, err := s.partyRepo.FindByAccessCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidAccessCode
		}
		return nil, err
	}

	if err := s.admit(ctx, party.ID, userID); err != nil {
		return nil, err
	}
	configslog.SLog.Infow("guest joined party by code", "partyID", party.ID, "userID", userID)
	s.notifier.GuestJoined(party, userID)

	return s.partyRepo.FindByID(ctx, party.ID)
}

// admit performs the shared roster insertion: within one transaction the
// duplicate check, the conditional headcount increment and the attendee
// insert either all land or none do.
func (s *AttendanceService) admit(ctx context.Context, partyID, userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := repositories.ContextWithTx(context.WithValue(ctx, models.ContextUserIDKey, userID), tx)
		partyRepoTx := repositories.NewPartyRepositoryTx(tx)
		attendeeRepoTx := repositories.NewAttendeeRepositoryTx(tx)

		attending, err := attendeeRepoTx.ExistsByPartyAndUser(txCtx, partyID, userID)
		if err != nil {
			return err
		}
		if attending {
			return ErrAlreadyAttending
		}

		admitted, err := partyRepoTx.IncrementAttendeesCountIfBelowCap(txCtx, partyID)
		if err != nil {
			return err
		}
		if !admitted {
			return ErrPartyFull
		}

		guest := models.Attendee{
			PartyID:  partyID,
			UserID:   userID,
			Role:     models.AttendeeRoleGuest,
			JoinedAt: time.Now().UTC(),
		}
		if err := attendeeRepoTx.Create(txCtx, &guest); err != nil {
			// The unique (party, user) index is the backstop for joins that
			// raced past the existence check.
			if isDuplicateKeyError(err) {
				return ErrAlreadyAttending
			}
			configslog.Log.Error("attendee insert failed",
				zap.Uint("partyID", partyID), zap.Uint("userID", userID), zap.Error(err))
			return err
		}
		return nil
	})
}

// Leave removes userID from the roster. The host row can never be removed.
func (s *AttendanceService) Leave(ctx context.Context, partyID, userID uint) error {
	if partyID == 0 || userID == 0 {
		return ErrAttendanceInvalidInput
	}

	if _, err := s.partyRepo.FindByID(ctx, partyID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAttendancePartyNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := repositories.ContextWithTx(context.WithValue(ctx, models.ContextUserIDKey, userID), tx)
		partyRepoTx := repositories.NewPartyRepositoryTx(tx)
		attendeeRepoTx := repositories.NewAttendeeRepositoryTx(tx)

		attendee, err := attendeeRepoTx.FindByPartyAndUser(txCtx, partyID, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrNotAttending
			}
			return err
		}
		if attendee.Role == models.AttendeeRoleHost {
			return ErrHostCannotLeave
		}

		if err := attendeeRepoTx.Delete(txCtx, attendee); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAttending
			}
			return err
		}
		return partyRepoTx.DecrementAttendeesCount(txCtx, partyID)
	})
	if err != nil {
		return err
	}
	configslog.SLog.Infow("guest left party", "partyID", partyID, "userID", userID)
	return nil
}

// ListAttendees returns the roster ordered by join time ascending.
func (s *AttendanceService) ListAttendees(ctx context.Context, partyID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if _, err := s.partyRepo.FindByID(ctx, partyID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAttendancePartyNotFound
		}
		return nil, err
	}
	params.Validate()

	attendees, total, err := s.attendeeRepo.FindByPartyPaginated(ctx, partyID, params)
	if err != nil {
		return nil, err
	}

	entries := make([]AttendeeEntry, 0, len(attendees))
	for _, a := range attendees {
		entries = append(entries, AttendeeEntry{
			Role:     a.Role,
			JoinedAt: a.JoinedAt,
			User:     a.User.Summary(),
		})
	}

	return &queryparams.PaginatedResult{
		Data: entries,
		Meta: queryparams.PaginationMeta{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: queryparams.CalculateTotalPages(total, params.Limit),
		},
	}, nil
}

var _ IAttendanceService = (*AttendanceService)(nil)
