package handlers

import (
	"errors"
	"log"

	"game-tournament-api/apperrors"

	"github.com/gofiber/fiber/v2"
)

var statusByCode = map[apperrors.Code]int{
	apperrors.CodeValidation:        fiber.StatusBadRequest,
	apperrors.CodeAuth:              fiber.StatusUnauthorized,
	apperrors.CodePermission:        fiber.StatusForbidden,
	apperrors.CodeNotFound:          fiber.StatusNotFound,
	apperrors.CodeConflict:          fiber.StatusConflict,
	apperrors.CodeInvalidState:      fiber.StatusConflict,
	apperrors.CodePaymentInvalid:    fiber.StatusPaymentRequired,
	apperrors.CodeOracleUnavailable: fiber.StatusBadGateway,
	apperrors.CodeInsufficientData:  fiber.StatusUnprocessableEntity,
}

// writeError maps taxonomy errors onto HTTP statuses; anything untyped is
// a 500 with the detail kept out of the response.
func writeError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status, ok := statusByCode[appErr.Code]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(fiber.Map{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
	}

	log.Printf("❌ [%s %s] internal error: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
