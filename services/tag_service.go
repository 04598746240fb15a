package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"partyhub.app/configs"
	"partyhub.app/configs/configslog"
	"partyhub.app/models"
	"partyhub.app/repositories"

	"gorm.io/gorm"
)

// TagServiceError typed service errors.
type TagServiceError string

func (e TagServiceError) Error() string { return string(e) }

const (
	ErrTagNameEmpty    TagServiceError = "tag name cannot be empty"
	ErrTagAttachFailed TagServiceError = "tag could not be attached"
)

// ITagService maintains the deduplicated tag vocabulary and attaches tags
// to parties.
type ITagService interface {
	// Attach processes each name independently: a failure partway through
	// leaves the earlier tags attached. Re-attaching an already-attached
	// tag is a no-op and does not bump its usage counter.
	Attach(ctx context.Context, partyID uint, names []string) error
}

type TagService struct {
	repo repositories.ITagRepository
	db   *gorm.DB
}

func NewTagService() ITagService {
	return &TagService{
		repo: repositories.NewTagRepository(),
		db:   configs.GetDB(),
	}
}

// NewTagServiceWithDB builds the service on an explicit connection. Used by
// tests and by services that already hold one.
func NewTagServiceWithDB(db *gorm.DB) ITagService {
	return &TagService{
		repo: repositories.NewTagRepositoryTx(db),
		db:   db,
	}
}

func (s *TagService) Attach(ctx context.Context, partyID uint, names []string) error {
	if partyID == 0 {
		return fmt.Errorf("%w: invalid party id", ErrTagAttachFailed)
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return ErrTagNameEmpty
		}
		if err := s.attachOne(ctx, partyID, name); err != nil {
			configslog.SLog.Errorw("tag attach failed", "partyID", partyID, "tag", name, "error", err)
			return fmt.Errorf("%w: %q: %v", ErrTagAttachFailed, name, err)
		}
	}
	return nil
}

// attachOne upserts one tag and its association as a consistent unit. When
// the surrounding context already carries a transaction it joins it,
// otherwise it opens its own so the usage counter and the association can
// never diverge.
func (s *TagService) attachOne(ctx context.Context, partyID uint, name string) error {
	if _, ok := repositories.TxFromContext(ctx); ok {
		return s.upsertTagAndAssociation(ctx, partyID, name)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.upsertTagAndAssociation(repositories.ContextWithTx(ctx, tx), partyID, name)
	})
}

func (s *TagService) upsertTagAndAssociation(ctx context.Context, partyID uint, name string) error {
	slug := models.Slugify(name)

	tag, err := s.repo.FindBySlug(ctx, slug)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		tag = &models.Tag{Name: name, Slug: slug, UsageCount: 1}
		if err := s.repo.Create(ctx, tag); err != nil {
			return err
		}
		return s.repo.CreateAssociation(ctx, partyID, tag.ID)
	case err != nil:
		return err
	}

	attached, err := s.repo.AssociationExists(ctx, partyID, tag.ID)
	if err != nil {
		return err
	}
	if attached {
		return nil
	}
	if err := s.repo.IncrementUsage(ctx, tag.ID); err != nil {
		return err
	}
	return s.repo.CreateAssociation(ctx, partyID, tag.ID)
}

var _ ITagService = (*TagService)(nil)
