package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/comptavision/comptavision-api/internal/application/dto"
	"github.com/comptavision/comptavision-api/internal/domain"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable traduce errores de dominio a estado HTTP y código estable.
// El orden importa: se usa la primera coincidencia de errors.Is.
var errorTable = []errorMapping{
	{domain.ErrMissingFields, fiber.StatusBadRequest, "MISSING_FIELDS"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrDuplicateSlug, fiber.StatusBadRequest, "DUPLICATE_SLUG"},
	{domain.ErrDuplicateEmail, fiber.StatusBadRequest, "DUPLICATE_EMAIL"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrAccountSuspended, fiber.StatusUnauthorized, "ACCOUNT_SUSPENDED"},
	{domain.ErrTooManyAttempts, fiber.StatusTooManyRequests, "TOO_MANY_ATTEMPTS"},
	{domain.ErrMissingToken, fiber.StatusUnauthorized, "MISSING_TOKEN"},
	{domain.ErrInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	{domain.ErrTenantRequired, fiber.StatusUnauthorized, "TENANT_REQUIRED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrLicenseNotFound, fiber.StatusNotFound, "LICENSE_NOT_FOUND"},
	{domain.ErrLicenseRevoked, fiber.StatusForbidden, "LICENSE_REVOKED"},
	{domain.ErrLicenseExpired, fiber.StatusForbidden, "LICENSE_EXPIRED"},
	{domain.ErrLicenseConflict, fiber.StatusConflict, "LICENSE_CONFLICT"},
	{domain.ErrTenantNotFound, fiber.StatusNotFound, "TENANT_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrIntegrity, fiber.StatusInternalServerError, "INTEGRITY_ERROR"},
	{domain.ErrPersistence, fiber.StatusInternalServerError, "PERSISTENCE_ERROR"},
}

// ErrorHandler es el manejador de errores de la app Fiber. Los 5xx se registran en el log
// y su detalle solo se devuelve al cliente si exposeInternal es true (desarrollo).
func ErrorHandler(exposeInternal bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := resolveError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("code", body.Code).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error interno")
			if !exposeInternal {
				body.Message = "error interno del servidor"
			}
		}
		return c.Status(status).JSON(body)
	}
}

func resolveError(err error) (int, dto.ErrorResponse) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, dto.ErrorResponse{Code: m.code, Message: err.Error()}
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, dto.ErrorResponse{Code: fiberCode(fe.Code), Message: fe.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "INVALID_BODY"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "ERROR"
}
