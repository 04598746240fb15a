package handlers

import (
	"errors"
	"strings"

	"partyhub.app/configs/configslog"
	"partyhub.app/pkg/queryparams"
	"partyhub.app/pkg/responses"
	"partyhub.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AttendanceHandler exposes join/leave and the roster endpoints.
type AttendanceHandler struct {
	service services.IAttendanceService
}

func NewAttendanceHandler() *AttendanceHandler {
	return &AttendanceHandler{service: services.NewAttendanceService()}
}

// NewAttendanceHandlerWith wires an explicit service. Used by tests.
func NewAttendanceHandlerWith(service services.IAttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

func mapAttendanceError(c *fiber.Ctx, err error, codeNotFoundIs404 bool) error {
	switch {
	case errors.Is(err, services.ErrAttendancePartyNotFound):
		return responses.Error(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidAccessCode):
		// join-by-code looks the party up by its code, so an unknown code
		// is a missing resource there; on a direct join it is a refusal.
		if codeNotFoundIs404 {
			return responses.Error(c, fiber.StatusNotFound, err.Error())
		}
		return responses.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrAlreadyAttending):
		return responses.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrPartyFull),
		errors.Is(err, services.ErrHostCannotLeave),
		errors.Is(err, services.ErrNotAttending),
		errors.Is(err, services.ErrAttendanceInvalidInput):
		return responses.Error(c, fiber.StatusBadRequest, err.Error())
	default:
		configslog.Log.Error("attendance handler: unhandled service error",
			zap.String("path", c.Path()), zap.Error(err))
		return responses.Error(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// Join handles POST /parties/:id/join, body {accessCode?}.
func (h *AttendanceHandler) Join(c *fiber.Ctx) error {
	partyID, ok := parsePartyID(c)
	if !ok {
		return nil
	}

	var req joinPartyRequest
	if len(c.Body()) > 0 && !bindBody(c, &req) {
		return nil
	}

	if err := h.service.Join(c.UserContext(), partyID, currentUserID(c), req.AccessCode); err != nil {
		return mapAttendanceError(c, err, false)
	}
	return responses.SuccessMessage(c, fiber.StatusOK, "joined party")
}

// Leave handles POST /parties/:id/leave.
func (h *AttendanceHandler) Leave(c *fiber.Ctx) error {
	partyID, ok := parsePartyID(c)
	if !ok {
		return nil
	}

	if err := h.service.Leave(c.UserContext(), partyID, currentUserID(c)); err != nil {
		return mapAttendanceError(c, err, false)
	}
	return responses.SuccessMessage(c, fiber.StatusOK, "left party")
}

// JoinByCode handles POST /parties/join-by-code, body {accessCode}.
func (h *AttendanceHandler) JoinByCode(c *fiber.Ctx) error {
	var req joinByCodeRequest
	if !bindBody(c, &req) {
		return nil
	}

	party, err := h.service.JoinByAccessCode(c.UserContext(), currentUserID(c), strings.ToUpper(req.AccessCode))
	if err != nil {
		return mapAttendanceError(c, err, true)
	}
	return responses.Success(c, fiber.StatusOK, party)
}

// ListAttendees handles GET /parties/:id/attendees.
func (h *AttendanceHandler) ListAttendees(c *fiber.Ctx) error {
	partyID, ok := parsePartyID(c)
	if !ok {
		return nil
	}

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.ListAttendees(c.UserContext(), partyID, params)
	if err != nil {
		return mapAttendanceError(c, err, false)
	}
	return responses.Paginated(c, result.Data, result.Meta)
}
