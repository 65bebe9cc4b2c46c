package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comptavision/comptavision-api/internal/application/auth"
	"github.com/comptavision/comptavision-api/internal/application/dto"
	"github.com/comptavision/comptavision-api/internal/application/license"
)

// AuthHandler maneja registro, login, perfil y activación de licencia.
type AuthHandler struct {
	uc        *auth.AuthUseCase
	licenseUC *license.LicenseUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, licenseUC *license.LicenseUseCase) *AuthHandler {
	return &AuthHandler{uc: uc, licenseUC: licenseUC}
}

// Register godoc
// @Summary      Registrar cabinet
// @Description  Crea el tenant y su usuario OWNER en una transacción y devuelve un token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "cabinet y usuario OWNER"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := decodeBody(c, &in); err != nil {
		return err
	}
	// Sin validación de formato: un email mal formado es simplemente un email inexistente.
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ActivateLicense godoc
// @Summary      Activar licencia
// @Description  Vincula la licencia al tenant del slug, la marca ACTIVE y actualiza plan y estado del tenant.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ActivateLicenseRequest  true  "licenseKey, tenantSlug"
// @Success      200   {object}  dto.ActivateLicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/activate-license [post]
func (h *AuthHandler) ActivateLicense(c *fiber.Ctx) error {
	var in dto.ActivateLicenseRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.licenseUC.Activate(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
