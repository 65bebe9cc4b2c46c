package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptavision/comptavision-api/internal/application/auth"
	"github.com/comptavision/comptavision-api/internal/domain"
	"github.com/comptavision/comptavision-api/internal/domain/entity"
	apphttp "github.com/comptavision/comptavision-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserID   = "00000000-0000-0000-0000-000000000001"
	testTenantID = "00000000-0000-0000-0000-000000000002"
)

// fakeSessions valida tokens contra un mapa token → rol.
type fakeSessions struct {
	roles map[string]string
	err   error
}

func (f fakeSessions) ValidateSession(_ context.Context, token string) (*auth.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	role, ok := f.roles[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return &auth.Principal{UserID: testUserID, TenantID: testTenantID, Role: role}, nil
}

var sessions = fakeSessions{roles: map[string]string{
	"tok-owner":      entity.RoleOwner,
	"tok-admin":      entity.RoleAdmin,
	"tok-accountant": entity.RoleAccountant,
	"tok-viewer":     entity.RoleViewer,
}}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar la sesión y cargar el principal
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(v apphttp.SessionValidator, allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(false)})
	app.Get("/protected",
		apphttp.AuthMiddleware(v),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":       true,
				"role":     apphttp.GetRole(c),
				"userId":   apphttp.GetUserID(c),
				"tenantId": apphttp.GetTenantID(c),
			})
		},
	)
	return app
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), "body: %s", body)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := buildTestApp(sessions, entity.RoleViewer)

	resp := doRequest(t, app, "")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decode(t, resp)["code"])
}

func TestAuthMiddleware_EsquemaIncorrecto(t *testing.T) {
	app := buildTestApp(sessions, entity.RoleViewer)

	resp := doRequest(t, app, "Basic tok-owner")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decode(t, resp)["code"])
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	app := buildTestApp(sessions, entity.RoleViewer)

	resp := doRequest(t, app, "Bearer desconocido")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decode(t, resp)["code"])
}

func TestAuthMiddleware_SinTenant(t *testing.T) {
	app := buildTestApp(fakeSessions{err: domain.ErrTenantRequired}, entity.RoleViewer)

	resp := doRequest(t, app, "Bearer cualquiera")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TENANT_REQUIRED", decode(t, resp)["code"])
}

func TestAuthMiddleware_ErrorDePersistencia_NoExponeDetalle(t *testing.T) {
	app := buildTestApp(fakeSessions{err: domain.ErrPersistence}, entity.RoleViewer)

	resp := doRequest(t, app, "Bearer cualquiera")

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "PERSISTENCE_ERROR", body["code"])
	assert.Equal(t, "error interno del servidor", body["message"])
}

func TestAuthMiddleware_CargaPrincipal(t *testing.T) {
	app := buildTestApp(sessions, entity.RoleViewer)

	resp := doRequest(t, app, "bearer tok-viewer")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, testUserID, body["userId"])
	assert.Equal(t, testTenantID, body["tenantId"])
	assert.Equal(t, entity.RoleViewer, body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// El usuario tiene uno de los roles requeridos → debe pasar (HTTP 200).
func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(sessions, entity.RoleOwner, entity.RoleAdmin)

	for _, tok := range []string{"tok-owner", "tok-admin"} {
		resp := doRequest(t, app, "Bearer "+tok)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, tok)
	}
}

// Rol fuera del conjunto → 403 FORBIDDEN.
func TestRequireRole_RolInsuficiente(t *testing.T) {
	app := buildTestApp(sessions, entity.RoleOwner, entity.RoleAdmin)

	for _, tok := range []string{"tok-accountant", "tok-viewer"} {
		resp := doRequest(t, app, "Bearer "+tok)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, tok)
		assert.Equal(t, "FORBIDDEN", decode(t, resp)["code"])
	}
}

// RequireRole sin AuthMiddleware delante → 401.
func TestRequireRole_SinPrincipal(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(false)})
	app.Get("/protected", apphttp.RequireRole(entity.RoleOwner), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp := doRequest(t, app, "")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
