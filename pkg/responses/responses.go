// Package responses writes the standard JSON envelopes:
// {success:true, data, message?, meta?} and {success:false, message, errors?}.
package responses

import (
	"github.com/gofiber/fiber/v2"

	"partyhub.app/pkg/queryparams"
)

// FieldError points a validation message at the offending input path.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Envelope is the wire shape of every response.
type Envelope struct {
	Success bool                        `json:"success"`
	Data    interface{}                 `json:"data,omitempty"`
	Message string                      `json:"message,omitempty"`
	Meta    *queryparams.PaginationMeta `json:"meta,omitempty"`
	Errors  []FieldError                `json:"errors,omitempty"`
}

// Success writes a success envelope with the given status and payload.
func Success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data})
}

// SuccessMessage writes a success envelope carrying only a message.
func SuccessMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: true, Message: message})
}

// Paginated writes a success envelope with pagination meta.
func Paginated(c *fiber.Ctx, data interface{}, meta queryparams.PaginationMeta) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Data: data, Meta: &meta})
}

// Error writes an error envelope.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: false, Message: message})
}

// ValidationError writes a 400 envelope with per-field errors.
func ValidationError(c *fiber.Ctx, errs []FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(Envelope{
		Success: false,
		Message: "validation failed",
		Errors:  errs,
	})
}
