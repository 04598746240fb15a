package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"partyhub.app/configs"
	"partyhub.app/configs/configslog"
	"partyhub.app/models"
	"partyhub.app/pkg/accesscode"
	"partyhub.app/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PartyServiceError typed service errors.
type PartyServiceError string

func (e PartyServiceError) Error() string { return string(e) }

const (
	ErrPartyNotFound          PartyServiceError = "party not found"
	ErrPartyForbidden         PartyServiceError = "only the host may modify this party"
	ErrPartyAccessDenied      PartyServiceError = "access denied to private party"
	ErrPartyInvalidInput      PartyServiceError = "invalid party input"
	ErrPartyTitleRequired     PartyServiceError = "party title is required"
	ErrPartyStartRequired     PartyServiceError = "party start time is required"
	ErrPartyDateOrder         PartyServiceError = "party end time cannot precede its start time"
	ErrPartyTooManyTags       PartyServiceError = "a party can carry at most 10 tags"
	ErrPartyInvalidStatus     PartyServiceError = "invalid party status"
	ErrPartyIllegalTransition PartyServiceError = "illegal party status transition"
	ErrPartyCreationFailed    PartyServiceError = "party could not be created"
	ErrPartyUpdateFailed      PartyServiceError = "party could not be updated"
	ErrPartyDeletionFailed    PartyServiceError = "party could not be deleted"
	ErrAccessCodeGeneration   PartyServiceError = "could not produce a unique access code"
)

const (
	// MaxTagsPerParty caps the tag list accepted at create and update time.
	MaxTagsPerParty = 10

	accessCodeAttempts = 5
)

// VenueInput carries the optional 1:1 location detail.
type VenueInput struct {
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// CreatePartyInput is the validated payload for party creation.
type CreatePartyInput struct {
	Title         string
	Description   string
	CoverImageURL string
	StartsAt      time.Time
	EndsAt        *time.Time
	IsPrivate     bool
	MaxAttendees  *int
	Venue         *VenueInput
	Tags          []string
}

// UpdatePartyPatch applies only the fields that are present. A supplied
// Venue upserts the venue row keyed by party id.
type UpdatePartyPatch struct {
	Title         *string
	Description   *string
	CoverImageURL *string
	StartsAt      *time.Time
	EndsAt        *time.Time
	Status        *models.PartyStatus
	MaxAttendees  *int
	Venue         *VenueInput
}

// IPartyService drives the party lifecycle: creation with its host attendee
// row and chat-room placeholder, private-party gated reads, host-only
// updates with explicit status transitions, and hard deletes.
type IPartyService interface {
	Create(ctx context.Context, hostID uint, input CreatePartyInput) (*models.Party, error)
	GetByID(ctx context.Context, partyID, viewerID uint) (*models.Party, error)
	Update(ctx context.Context, partyID, hostID uint, patch UpdatePartyPatch) (*models.Party, error)
	Delete(ctx context.Context, partyID, hostID uint) error
}

type PartyService struct {
	repo         repositories.IPartyRepository
	attendeeRepo repositories.IAttendeeRepository
	tagService   ITagService
	notifier     INotificationService
	db           *gorm.DB
}

func NewPartyService() IPartyService {
	return NewPartyServiceWithDB(configs.GetDB())
}

// NewPartyServiceWithDB builds the service on an explicit connection.
func NewPartyServiceWithDB(db *gorm.DB) IPartyService {
	return &PartyService{
		repo:         repositories.NewPartyRepositoryTx(db),
		attendeeRepo: repositories.NewAttendeeRepositoryTx(db),
		tagService:   NewTagServiceWithDB(db),
		notifier:     NewNotificationService(),
		db:           db,
	}
}

func validateCreateInput(input CreatePartyInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrPartyTitleRequired
	}
	if input.StartsAt.IsZero() {
		return ErrPartyStartRequired
	}
	if input.EndsAt != nil && input.EndsAt.Before(input.StartsAt) {
		return ErrPartyDateOrder
	}
	if input.MaxAttendees != nil && *input.MaxAttendees < 1 {
		return fmt.Errorf("%w: maxAttendees must be at least 1", ErrPartyInvalidInput)
	}
	if len(input.Tags) > MaxTagsPerParty {
		return ErrPartyTooManyTags
	}
	if input.Venue != nil && strings.TrimSpace(input.Venue.Name) == "" {
		return fmt.Errorf("%w: venue name is required", ErrPartyInvalidInput)
	}
	return nil
}

// generateAccessCode draws codes until one is free, bounded by
// accessCodeAttempts. The unique index remains the final arbiter.
func (s *PartyService) generateAccessCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < accessCodeAttempts; attempt++ {
		code, err := accesscode.Generate()
		if err != nil {
			return "", err
		}
		_, err = s.repo.FindByAccessCode(ctx, code)
		if errors.Is(err, repositories.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		configslog.SLog.Warnw("access code collision, regenerating", "attempt", attempt+1)
	}
	return "", ErrAccessCodeGeneration
}

// Create inserts the party (status PLANNED), its host attendee row, the
// chat-room placeholder and any tag associations in one transaction, and
// returns the fully hydrated party.
func (s *PartyService) Create(ctx context.Context, hostID uint, input CreatePartyInput) (*models.Party, error) {
	if hostID == 0 {
		return nil, fmt.Errorf("%w: invalid host id", ErrPartyInvalidInput)
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	var created *models.Party
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := repositories.ContextWithTx(context.WithValue(ctx, models.ContextUserIDKey, hostID), tx)
		partyRepoTx := repositories.NewPartyRepositoryTx(tx)
		attendeeRepoTx := repositories.NewAttendeeRepositoryTx(tx)

		party := models.Party{
			HostID:         hostID,
			Title:          strings.TrimSpace(input.Title),
			Description:    input.Description,
			CoverImageURL:  input.CoverImageURL,
			StartsAt:       input.StartsAt.UTC(),
			EndsAt:         input.EndsAt,
			Status:         models.PartyStatusPlanned,
			IsPrivate:      input.IsPrivate,
			MaxAttendees:   input.MaxAttendees,
			AttendeesCount: 1, // the host
		}

		if input.IsPrivate {
			code, err := s.generateAccessCode(txCtx)
			if err != nil {
				return err
			}
			party.AccessCode = &code
		}

		if err := partyRepoTx.Create(txCtx, &party); err != nil {
			if isDuplicateKeyError(err) {
				// Collision despite the pre-check: surface it rather than
				// silently regenerating a code the caller never sees twice.
				return ErrAccessCodeGeneration
			}
			return fmt.Errorf("%w: %v", ErrPartyCreationFailed, err)
		}

		if input.Venue != nil {
			venue := models.Venue{
				PartyID:   party.ID,
				Name:      strings.TrimSpace(input.Venue.Name),
				Address:   input.Venue.Address,
				Latitude:  input.Venue.Latitude,
				Longitude: input.Venue.Longitude,
			}
			if err := partyRepoTx.UpsertVenue(txCtx, &venue); err != nil {
				return fmt.Errorf("%w: %v", ErrPartyCreationFailed, err)
			}
		}

		host := models.Attendee{
			PartyID:  party.ID,
			UserID:   hostID,
			Role:     models.AttendeeRoleHost,
			JoinedAt: time.Now().UTC(),
		}
		if err := attendeeRepoTx.Create(txCtx, &host); err != nil {
			return fmt.Errorf("%w: %v", ErrPartyCreationFailed, err)
		}

		room := models.ChatRoom{PartyID: party.ID, ExternalRef: uuid.NewString()}
		if err := partyRepoTx.CreateChatRoom(txCtx, &room); err != nil {
			return fmt.Errorf("%w: %v", ErrPartyCreationFailed, err)
		}

		if len(input.Tags) > 0 {
			if err := s.tagService.Attach(txCtx, party.ID, input.Tags); err != nil {
				return err
			}
		}

		created = &party
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("party creation failed", zap.Uint("hostID", hostID), zap.Error(txErr))
		return nil, txErr
	}

	hydrated, err := s.repo.FindByID(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	configslog.SLog.Infow("party created", "partyID", hydrated.ID, "hostID", hostID, "private", hydrated.IsPrivate)
	s.notifier.PartyCreated(hydrated)
	return hydrated, nil
}

// GetByID returns the party. Private parties are visible only to the host
// and existing attendees; viewerID 0 means an anonymous caller.
func (s *PartyService) GetByID(ctx context.Context, partyID, viewerID uint) (*models.Party, error) {
	party, err := s.repo.FindByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, err
	}

	if party.IsPrivate && viewerID != party.HostID {
		if viewerID == 0 {
			return nil, ErrPartyAccessDenied
		}
		attending, err := s.attendeeRepo.ExistsByPartyAndUser(ctx, partyID, viewerID)
		if err != nil {
			return nil, err
		}
		if !attending {
			return nil, ErrPartyAccessDenied
		}
	}
	return party, nil
}

// Update applies the supplied fields only. Date ordering is validated
// against the merged record, so a patch carrying a single date cannot
// invert the range; status changes must follow the transition table.
func (s *PartyService) Update(ctx context.Context, partyID, hostID uint, patch UpdatePartyPatch) (*models.Party, error) {
	if partyID == 0 || hostID == 0 {
		return nil, fmt.Errorf("%w: invalid party or host id", ErrPartyInvalidInput)
	}

	var prevStatus models.PartyStatus
	statusChanged := false
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := repositories.ContextWithTx(context.WithValue(ctx, models.ContextUserIDKey, hostID), tx)
		partyRepoTx := repositories.NewPartyRepositoryTx(tx)

		party, err := partyRepoTx.FindByID(txCtx, partyID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrPartyNotFound
			}
			return err
		}
		if party.HostID != hostID {
			return ErrPartyForbidden
		}

		if patch.Status != nil {
			next := models.PartyStatus(strings.ToUpper(string(*patch.Status)))
			if !next.Valid() {
				return ErrPartyInvalidStatus
			}
			if next != party.Status && !party.Status.CanTransitionTo(next) {
				return ErrPartyIllegalTransition
			}
			if next != party.Status {
				prevStatus = party.Status
				statusChanged = true
			}
			party.Status = next
		}

		effStart := party.StartsAt
		if patch.StartsAt != nil {
			effStart = patch.StartsAt.UTC()
		}
		effEnd := party.EndsAt
		if patch.EndsAt != nil {
			effEnd = patch.EndsAt
		}
		if effEnd != nil && effEnd.Before(effStart) {
			return ErrPartyDateOrder
		}
		party.StartsAt = effStart
		party.EndsAt = effEnd

		if patch.Title != nil {
			if strings.TrimSpace(*patch.Title) == "" {
				return ErrPartyTitleRequired
			}
			party.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			party.Description = *patch.Description
		}
		if patch.CoverImageURL != nil {
			party.CoverImageURL = *patch.CoverImageURL
		}
		if patch.MaxAttendees != nil {
			if *patch.MaxAttendees < 1 {
				return fmt.Errorf("%w: maxAttendees must be at least 1", ErrPartyInvalidInput)
			}
			party.MaxAttendees = patch.MaxAttendees
		}

		if err := partyRepoTx.Update(txCtx, party); err != nil {
			return fmt.Errorf("%w: %v", ErrPartyUpdateFailed, err)
		}

		if patch.Venue != nil {
			if strings.TrimSpace(patch.Venue.Name) == "" {
				return fmt.Errorf("%w: venue name is required", ErrPartyInvalidInput)
			}
			venue := models.Venue{
				PartyID:   party.ID,
				Name:      strings.TrimSpace(patch.Venue.Name),
				Address:   patch.Venue.Address,
				Latitude:  patch.Venue.Latitude,
				Longitude: patch.Venue.Longitude,
			}
			if err := partyRepoTx.UpsertVenue(txCtx, &venue); err != nil {
				return fmt.Errorf("%w: %v", ErrPartyUpdateFailed, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	hydrated, err := s.repo.FindByID(ctx, partyID)
	if err != nil {
		return nil, err
	}
	configslog.SLog.Infow("party updated", "partyID", partyID, "hostID", hostID)
	if statusChanged {
		s.notifier.PartyStatusChanged(hydrated, prevStatus)
	}
	return hydrated, nil
}

// Delete hard-deletes the party, cascading its attendee, tag-association,
// venue and chat-room rows.
func (s *PartyService) Delete(ctx context.Context, partyID, hostID uint) error {
	if partyID == 0 || hostID == 0 {
		return fmt.Errorf("%w: invalid party or host id", ErrPartyInvalidInput)
	}

	party, err := s.repo.FindByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPartyNotFound
		}
		return err
	}
	if party.HostID != hostID {
		return ErrPartyForbidden
	}

	roster, err := s.attendeeRepo.CountByParty(ctx, partyID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, party); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPartyNotFound
		}
		configslog.Log.Error("party deletion failed", zap.Uint("partyID", partyID), zap.Error(err))
		return ErrPartyDeletionFailed
	}
	configslog.SLog.Infow("party deleted", "partyID", partyID, "hostID", hostID, "attendeesRemoved", roster)
	return nil
}

var _ IPartyService = (*PartyService)(nil)
