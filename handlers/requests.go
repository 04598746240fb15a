package handlers

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"partyhub.app/models"
	"partyhub.app/pkg/responses"
	"partyhub.app/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// A single validator instance, with struct field names reported by their
// json tags so error paths match the wire format.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type venueRequest struct {
	Name      string   `json:"name" validate:"required,max=255"`
	Address   string   `json:"address" validate:"max=500"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type createPartyRequest struct {
	Title         string        `json:"title" validate:"required,min=3,max=255"`
	Description   string        `json:"description" validate:"max=2000"`
	CoverImageURL string        `json:"coverImageUrl" validate:"omitempty,url,max=500"`
	StartsAt      time.Time     `json:"startsAt" validate:"required"`
	EndsAt        *time.Time    `json:"endsAt"`
	IsPrivate     bool          `json:"isPrivate"`
	MaxAttendees  *int          `json:"maxAttendees" validate:"omitempty,min=1"`
	Venue         *venueRequest `json:"venue"`
	Tags          []string      `json:"tags" validate:"max=10,dive,required,max=100"`
}

type updatePartyRequest struct {
	Title         *string       `json:"title" validate:"omitempty,min=3,max=255"`
	Description   *string       `json:"description" validate:"omitempty,max=2000"`
	CoverImageURL *string       `json:"coverImageUrl" validate:"omitempty,url,max=500"`
	StartsAt      *time.Time    `json:"startsAt"`
	EndsAt        *time.Time    `json:"endsAt"`
	Status        *string       `json:"status" validate:"omitempty,oneof=DRAFT PLANNED LIVE ENDED CANCELLED draft planned live ended cancelled"`
	MaxAttendees  *int          `json:"maxAttendees" validate:"omitempty,min=1"`
	Venue         *venueRequest `json:"venue"`
}

type joinPartyRequest struct {
	AccessCode string `json:"accessCode" validate:"omitempty,len=6"`
}

type joinByCodeRequest struct {
	AccessCode string `json:"accessCode" validate:"required,len=6,alphanum"`
}

// bindBody parses and validates the JSON body into dst, writing the 400
// envelope itself on failure. The boolean reports whether to continue.
func bindBody(c *fiber.Ctx, dst interface{}) bool {
	if err := c.BodyParser(dst); err != nil {
		_ = responses.Error(c, fiber.StatusBadRequest, "malformed request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		_ = responses.ValidationError(c, fieldErrors(err))
		return false
	}
	return true
}

func fieldErrors(err error) []responses.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []responses.FieldError{{Path: "body", Message: err.Error()}}
	}
	out := make([]responses.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, responses.FieldError{
			Path:    fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "alphanum":
		return "must be alphanumeric"
	case "latitude", "longitude":
		return "must be a valid coordinate"
	default:
		return "is invalid"
	}
}

func (r createPartyRequest) toInput() services.CreatePartyInput {
	input := services.CreatePartyInput{
		Title:         r.Title,
		Description:   r.Description,
		CoverImageURL: r.CoverImageURL,
		StartsAt:      r.StartsAt,
		EndsAt:        r.EndsAt,
		IsPrivate:     r.IsPrivate,
		MaxAttendees:  r.MaxAttendees,
		Tags:          r.Tags,
	}
	if r.Venue != nil {
		input.Venue = r.Venue.toInput()
	}
	return input
}

func (r updatePartyRequest) toPatch() services.UpdatePartyPatch {
	patch := services.UpdatePartyPatch{
		Title:         r.Title,
		Description:   r.Description,
		CoverImageURL: r.CoverImageURL,
		StartsAt:      r.StartsAt,
		EndsAt:        r.EndsAt,
		MaxAttendees:  r.MaxAttendees,
	}
	if r.Status != nil {
		status := models.PartyStatus(strings.ToUpper(*r.Status))
		patch.Status = &status
	}
	if r.Venue != nil {
		patch.Venue = r.Venue.toInput()
	}
	return patch
}

func (r venueRequest) toInput() *services.VenueInput {
	return &services.VenueInput{
		Name:      r.Name,
		Address:   r.Address,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}
