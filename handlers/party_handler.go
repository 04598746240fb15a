package handlers

import (
	"errors"

	"partyhub.app/configs/configslog"
	"partyhub.app/pkg/queryparams"
	"partyhub.app/pkg/responses"
	"partyhub.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PartyHandler exposes the party lifecycle and listing endpoints.
type PartyHandler struct {
	service      services.IPartyService
	queryService services.IPartyQueryService
}

func NewPartyHandler() *PartyHandler {
	return &PartyHandler{
		service:      services.NewPartyService(),
		queryService: services.NewPartyQueryService(),
	}
}

// NewPartyHandlerWith wires explicit services. Used by tests.
func NewPartyHandlerWith(service services.IPartyService, queryService services.IPartyQueryService) *PartyHandler {
	return &PartyHandler{service: service, queryService: queryService}
}

// currentUserID returns the authenticated caller, 0 when anonymous.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

func parsePartyID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = responses.Error(c, fiber.StatusBadRequest, "invalid party id")
		return 0, false
	}
	return uint(id), true
}

func mapPartyServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPartyNotFound):
		return responses.Error(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrPartyForbidden),
		errors.Is(err, services.ErrPartyAccessDenied):
		return responses.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrPartyTitleRequired),
		errors.Is(err, services.ErrPartyStartRequired),
		errors.Is(err, services.ErrPartyDateOrder),
		errors.Is(err, services.ErrPartyTooManyTags),
		errors.Is(err, services.ErrPartyInvalidStatus),
		errors.Is(err, services.ErrPartyIllegalTransition),
		errors.Is(err, services.ErrPartyInvalidInput),
		errors.Is(err, services.ErrTagNameEmpty),
		errors.Is(err, services.ErrInvalidStatusFilter):
		return responses.Error(c, fiber.StatusBadRequest, err.Error())
	default:
		configslog.Log.Error("party handler: unhandled service error",
			zap.String("path", c.Path()), zap.Error(err))
		return responses.Error(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// CreateParty handles POST /parties.
func (h *PartyHandler) CreateParty(c *fiber.Ctx) error {
	hostID := currentUserID(c)

	var req createPartyRequest
	if !bindBody(c, &req) {
		return nil
	}

	party, err := h.service.Create(c.UserContext(), hostID, req.toInput())
	if err != nil {
		return mapPartyServiceError(c, err)
	}
	return responses.Success(c, fiber.StatusCreated, party)
}

// GetParty handles GET /parties/:id. Auth is optional; private parties are
// gated inside the service.
func (h *PartyHandler) GetParty(c *fiber.Ctx) error {
	partyID, ok := parsePartyID(c)
	if !ok {
		return nil
	}

	party, err := h.service.GetByID(c.UserContext(), partyID, currentUserID(c))
	if err != nil {
		return mapPartyServiceError(c, err)
	}
	return responses.Success(c, fiber.StatusOK, party)
}

// UpdateParty handles PUT /parties/:id (host only, partial update).
func (h *PartyHandler) UpdateParty(c *fiber.Ctx) error {
	partyID, ok := parsePartyID(c)
	if !ok {
		return nil
	}

	var req updatePartyRequest
	if !bindBody(c, &req) {
		return nil
	}

	party, err := h.service.Update(c.UserContext(), partyID, currentUserID(c), req.toPatch())
	if err != nil {
		return mapPartyServiceError(c, err)
	}
	return responses.Success(c, fiber.StatusOK, party)
}

// DeleteParty handles DELETE /parties/:id (host only, hard delete).
func (h *PartyHandler) DeleteParty(c *fiber.Ctx) error {
	partyID, ok := parsePartyID(c)
	if !ok {
		return nil
	}

	if err := h.service.Delete(c.UserContext(), partyID, currentUserID(c)); err != nil {
		return mapPartyServiceError(c, err)
	}
	return responses.SuccessMessage(c, fiber.StatusOK, "party deleted")
}

// ListParties handles GET /parties.
func (h *PartyHandler) ListParties(c *fiber.Ctx) error {
	var filters queryparams.PartyFilters
	if err := c.QueryParser(&filters); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	filters.ViewerID = currentUserID(c)

	result, err := h.queryService.List(c.UserContext(), filters)
	if err != nil {
		return mapPartyServiceError(c, err)
	}
	return responses.Paginated(c, result.Data, result.Meta)
}
