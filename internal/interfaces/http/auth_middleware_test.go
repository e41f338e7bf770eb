package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/billmaker-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/billmaker-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "billmaker-test"
	testExpMin    = 60
)

// buildProtectedApp app mínima con AuthMiddleware y un handler que devuelve el operador.
func buildProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"username": apphttp.GetUsername(c)})
	})
	return app
}

func tokenFor(t *testing.T, secret, role string) string {
	t.Helper()
	tok, _, err := pkgjwt.Generate(secret, "admin", role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func getProtected(t *testing.T, app *fiber.App, authHeader string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenValido(t *testing.T) {
	resp, body := getProtected(t, buildProtectedApp(), tokenFor(t, testJWTSecret, pkgjwt.RoleOperator))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin", body["username"])
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	app := buildProtectedApp()

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"sin header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema incorrecto", "Basic abc", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"basura", "Bearer no.es.jwt", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"otra firma", tokenFor(t, "otro-secreto", pkgjwt.RoleOperator), http.StatusUnauthorized, "INVALID_TOKEN"},
		{"rol desconocido", tokenFor(t, testJWTSecret, "viewer"), http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := getProtected(t, app, tc.header)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testJWTSecret, "admin", pkgjwt.RoleOperator, testIssuer, -1)
	require.NoError(t, err)
	resp, body := getProtected(t, buildProtectedApp(), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}
