package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Botiquin-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Botiquin-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "botiquin-api-test"
)

// buildTestApp construye una aplicación Fiber mínima con una ruta protegida
// por AuthMiddleware y un handler dummy que devuelve 200 si pasa.
func buildTestApp(open bool) *fiber.App {
	app := fiber.New()
	app.Post("/protected",
		apphttp.AuthMiddleware(testJWTSecret, open),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
		},
	)
	return app
}

func validToken(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, 60)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Token válido → pasa (HTTP 200).
func TestAuthMiddleware_TokenValidoPasa(t *testing.T) {
	app := buildTestApp(false)
	resp := doRequest(t, app, validToken(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Sin header Authorization → 401.
func TestAuthMiddleware_SinHeaderRechaza(t *testing.T) {
	app := buildTestApp(false)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Formato distinto de "Bearer <token>" → 401.
func TestAuthMiddleware_FormatoInvalidoRechaza(t *testing.T) {
	app := buildTestApp(false)
	resp := doRequest(t, app, "Basic abc123")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Token firmado con otro secret → 401.
func TestAuthMiddleware_FirmaIncorrectaRechaza(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret", testIssuer, 60)
	require.NoError(t, err)

	app := buildTestApp(false)
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Aplicación abierta (sin contraseña configurada): pasa sin token.
func TestAuthMiddleware_ModoAbiertoPasaSinToken(t *testing.T) {
	app := buildTestApp(true)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
