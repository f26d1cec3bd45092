package handlers

import (
	"moodiary/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError writes the one error shape every endpoint uses: a message
// plus a (possibly empty) list of field errors.
func respondError(c *fiber.Ctx, status int, message string, fields []apperrors.FieldError) error {
	if fields == nil {
		fields = []apperrors.FieldError{}
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"errors":  fields,
	})
}

// fieldErrors converts validator failures into the field-tagged error list.
func fieldErrors(err error) []apperrors.FieldError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperrors.FieldError{{Field: "", Message: err.Error()}}
	}
	fields := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, apperrors.FieldError{
			Field:   e.Field(),
			Message: "failed on the '" + e.Tag() + "' rule",
		})
	}
	return fields
}
