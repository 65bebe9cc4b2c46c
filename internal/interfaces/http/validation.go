package http

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/comptavision/comptavision-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// normalizer lo implementan los DTO que recortan o canonicalizan sus campos.
type normalizer interface {
	Normalize()
}

// parseBody decodifica el JSON, normaliza el DTO y aplica sus etiquetas validate.
// Campos requeridos ausentes → domain.ErrMissingFields; otros fallos → domain.ErrInvalidInput.
func parseBody(c *fiber.Ctx, out any) error {
	if err := decodeBody(c, out); err != nil {
		return err
	}
	if n, ok := out.(normalizer); ok {
		n.Normalize()
	}
	return validateStruct(out)
}

// decodeBody solo decodifica; la validación queda en el caso de uso.
func decodeBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cuerpo JSON inválido", domain.ErrInvalidInput)
	}
	return nil
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrMissingFields, strings.Join(missing, ", "))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(invalid, ", "))
}
