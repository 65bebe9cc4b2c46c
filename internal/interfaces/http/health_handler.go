package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ReadinessCheck comprobación de una dependencia (postgres, redis...).
type ReadinessCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthInfo datos estáticos que expone /health.
type HealthInfo struct {
	Service string
	Env     string
	Version string
}

// HealthHandler liveness y readiness.
type HealthHandler struct {
	info    HealthInfo
	checks  []ReadinessCheck
	timeout time.Duration
}

// NewHealthHandler construye el handler de salud.
func NewHealthHandler(info HealthInfo, checks ...ReadinessCheck) *HealthHandler {
	return &HealthHandler{info: info, checks: checks, timeout: 2 * time.Second}
}

// Health godoc
// @Summary      Liveness
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "OK",
		"service": h.info.Service,
		"env":     h.info.Env,
		"version": h.info.Version,
	})
}

// Ready godoc
// @Summary      Readiness
// @Description  Ping a cada dependencia; 503 si alguna falla.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health/ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	status := fiber.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if err := chk.Ping(ctx); err != nil {
			results[chk.Name] = "DOWN"
			status = fiber.StatusServiceUnavailable
			continue
		}
		results[chk.Name] = "UP"
	}
	overall := "OK"
	if status != fiber.StatusOK {
		overall = "DEGRADED"
	}
	return c.Status(status).JSON(fiber.Map{"status": overall, "checks": results})
}
