package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comptavision/comptavision-api/internal/application/dto"
	"github.com/comptavision/comptavision-api/internal/application/license"
)

// LicenseHandler administración de licencias (OWNER/ADMIN).
type LicenseHandler struct {
	uc *license.LicenseUseCase
}

// NewLicenseHandler construye el handler de licencias.
func NewLicenseHandler(uc *license.LicenseUseCase) *LicenseHandler {
	return &LicenseHandler{uc: uc}
}

// Create godoc
// @Summary      Emitir licencia
// @Description  Crea una licencia PENDING. Plan, seats y termDays vacíos toman los valores por defecto.
// @Tags         licenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateLicenseRequest  true  "plan, seats, termDays, note"
// @Success      201   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/v1/admin/licenses [post]
func (h *LicenseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLicenseRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return err
		}
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar licencias
// @Tags         licenses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.LicenseListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/v1/admin/licenses [get]
func (h *LicenseHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener licencia
// @Tags         licenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la licencia"
// @Success      200  {object}  dto.LicenseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/admin/licenses/{id} [get]
func (h *LicenseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar licencia
// @Description  Sobrescritura directa de status, plan, seats, expiresAt o note. Una licencia REVOKED no se modifica.
// @Tags         licenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID de la licencia"
// @Param        body  body  dto.UpdateLicenseRequest  true  "campos a sobrescribir"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/admin/licenses/{id} [patch]
func (h *LicenseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLicenseRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Revoke godoc
// @Summary      Revocar licencia
// @Tags         licenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la licencia"
// @Success      200  {object}  dto.LicenseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/admin/licenses/{id}/revoke [post]
func (h *LicenseHandler) Revoke(c *fiber.Ctx) error {
	out, err := h.uc.Revoke(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Certificate godoc
// @Summary      Certificado PDF de la licencia
// @Tags         licenses
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la licencia"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/admin/licenses/{id}/certificate [get]
func (h *LicenseHandler) Certificate(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Certificate(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
