package services

import (
	"context"
	"strings"

	"partyhub.app/configs"
	"partyhub.app/models"
	"partyhub.app/pkg/queryparams"
	"partyhub.app/repositories"

	"gorm.io/gorm"
)

// PartyQueryServiceError typed service errors.
type PartyQueryServiceError string

func (e PartyQueryServiceError) Error() string { return string(e) }

const ErrInvalidStatusFilter PartyQueryServiceError = "invalid status filter"

// IPartyQueryService answers filtered, paginated listings over parties.
type IPartyQueryService interface {
	List(ctx context.Context, filters queryparams.PartyFilters) (*queryparams.PaginatedResult, error)
}

type PartyQueryService struct {
	repo repositories.IPartyRepository
}

func NewPartyQueryService() IPartyQueryService {
	return NewPartyQueryServiceWithDB(configs.GetDB())
}

// NewPartyQueryServiceWithDB builds the service on an explicit connection.
func NewPartyQueryServiceWithDB(db *gorm.DB) IPartyQueryService {
	return &PartyQueryService{repo: repositories.NewPartyRepositoryTx(db)}
}

// List applies the typed filter set, ordered by startsAt ascending with an
// offset page and a total count. Private parties appear only in a viewer's
// own host-scoped listing.
func (s *PartyQueryService) List(ctx context.Context, filters queryparams.PartyFilters) (*queryparams.PaginatedResult, error) {
	if filters.Status != "" {
		status := models.PartyStatus(strings.ToUpper(filters.Status))
		if !status.Valid() {
			return nil, ErrInvalidStatusFilter
		}
		filters.Status = string(status)
	}
	filters.Validate()

	parties, total, err := s.repo.FindAllFiltered(ctx, filters)
	if err != nil {
		return nil, err
	}

	return &queryparams.PaginatedResult{
		Data: parties,
		Meta: queryparams.PaginationMeta{
			Page:       filters.Page,
			Limit:      filters.Limit,
			Total:      total,
			TotalPages: queryparams.CalculateTotalPages(total, filters.Limit),
		},
	}, nil
}

var _ IPartyQueryService = (*PartyQueryService)(nil)
