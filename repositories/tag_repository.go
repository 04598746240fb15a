package repositories

import (
	"context"
	"errors"

	"partyhub.app/configs"
	"partyhub.app/configs/configslog"
	"partyhub.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ITagRepository owns the tag vocabulary and the party↔tag associations.
type ITagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	FindBySlug(ctx context.Context, slug string) (*models.Tag, error)
	IncrementUsage(ctx context.Context, tagID uint) error
	AssociationExists(ctx context.Context, partyID, tagID uint) (bool, error)
	CreateAssociation(ctx context.Context, partyID, tagID uint) error
	FindByParty(ctx context.Context, partyID uint) ([]models.Tag, error)
}

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository() ITagRepository {
	return &TagRepository{db: configs.GetDB()}
}

// NewTagRepositoryTx binds the repository to an open transaction.
func NewTagRepositoryTx(tx *gorm.DB) ITagRepository {
	return &TagRepository{db: tx}
}

func (r *TagRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if tag == nil || tag.Slug == "" {
		return errors.New("tag requires a slug")
	}
	return r.getDB(ctx).Create(tag).Error
}

func (r *TagRepository) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	if slug == "" {
		return nil, ErrNotFound
	}
	var tag models.Tag
	err := r.getDB(ctx).Where("slug = ?", slug).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("TagRepository.FindBySlug: DB error", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	return &tag, nil
}

func (r *TagRepository) IncrementUsage(ctx context.Context, tagID uint) error {
	return r.getDB(ctx).Model(&models.Tag{}).
		Where("id = ?", tagID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}

func (r *TagRepository) AssociationExists(ctx context.Context, partyID, tagID uint) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.PartyTag{}).
		Where("party_id = ? AND tag_id = ?", partyID, tagID).
		Count(&count).Error
	return count > 0, err
}

func (r *TagRepository) CreateAssociation(ctx context.Context, partyID, tagID uint) error {
	if partyID == 0 || tagID == 0 {
		return errors.New("association requires a party and a tag")
	}
	return r.getDB(ctx).Create(&models.PartyTag{PartyID: partyID, TagID: tagID}).Error
}

func (r *TagRepository) FindByParty(ctx context.Context, partyID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.getDB(ctx).
		Joins("JOIN party_tags ON party_tags.tag_id = tags.id").
		Where("party_tags.party_id = ?", partyID).
		Order("tags.slug asc").
		Find(&tags).Error
	if err != nil {
		configslog.Log.Error("TagRepository.FindByParty: DB error", zap.Uint("partyID", partyID), zap.Error(err))
		return nil, err
	}
	return tags, nil
}

var _ ITagRepository = (*TagRepository)(nil)
