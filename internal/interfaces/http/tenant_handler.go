package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comptavision/comptavision-api/internal/application/dto"
	"github.com/comptavision/comptavision-api/internal/application/usecase"
)

// TenantHandler vista y renombrado del tenant del principal.
type TenantHandler struct {
	uc *usecase.TenantUseCase
}

// NewTenantHandler construye el handler de tenants.
func NewTenantHandler(uc *usecase.TenantUseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// List godoc
// @Summary      Listar tenants visibles
// @Description  Devuelve únicamente el tenant del usuario autenticado.
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.TenantListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/v1/tenants [get]
func (h *TenantHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetTenantID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateCurrent godoc
// @Summary      Renombrar el tenant propio
// @Description  Solo cambia el nombre; el slug es inmutable.
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateTenantRequest  true  "name"
// @Success      200   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/v1/tenants/current [patch]
func (h *TenantHandler) UpdateCurrent(c *fiber.Ctx) error {
	var in dto.UpdateTenantRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Rename(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
