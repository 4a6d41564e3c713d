package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/DennisBaerXY/kostenlose-erechnung/internal/interfaces/http"
	pkgjwt "github.com/DennisBaerXY/kostenlose-erechnung/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Test helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "buero"
	testIssuer    = "erechnung-test"
	testExpMin    = 60
)

// buildMeApp mounts AuthMiddleware in front of a handler echoing the user.
func buildMeApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c)})
	})
	return app
}

func bearer(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func getMe(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var e struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtractsUser(t *testing.T) {
	resp := getMe(t, buildMeApp(), bearer(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	resp := getMe(t, buildMeApp(), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	resp := getMe(t, buildMeApp(), "Basic YnVlcm86Z2VoZWlt")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

func TestAuthMiddleware_MalformedToken(t *testing.T) {
	resp := getMe(t, buildMeApp(), "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testIssuer, -1)
	require.NoError(t, err)

	resp := getMe(t, buildMeApp(), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_RejectsUploadToken(t *testing.T) {
	tok, err := pkgjwt.GenerateUpload(testJWTSecret, testIssuer, pkgjwt.UploadClaims{
		UserID: testUserID, FileName: "a.pdf", MimeType: "application/pdf", Key: "k.pdf",
	}, time.Now().Add(time.Hour))
	require.NoError(t, err)

	resp := getMe(t, buildMeApp(), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireModule
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireModule(t *testing.T) {
	for _, tc := range []struct {
		available bool
		want      int
	}{
		{true, http.StatusOK},
		{false, http.StatusServiceUnavailable},
	} {
		app := fiber.New()
		app.Get("/x", apphttp.RequireModule("archive", tc.available), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode)
		resp.Body.Close()
	}
}
