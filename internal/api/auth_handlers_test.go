package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_RegisterAndGetCurrentUser(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":      "dana@example.com",
		"password":   "TestPassword123",
		"first_name": "Dana",
		"last_name":  "Levi",
		"phone":      "052-123-4567",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var reg testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &reg))
	require.True(t, reg.Success)
	assert.Equal(t, 1, reg.V)
	assert.NotEmpty(t, reg.Data.Token)
	assert.Equal(t, "Bearer", reg.Data.TokenType)
	assert.Equal(t, "dana@example.com", reg.Data.User.Email)
	assert.Equal(t, "host", reg.Data.User.Role)

	resp = ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+reg.Data.Token)
	require.Equal(t, http.StatusOK, resp.Code)

	var me testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &me))
	assert.Equal(t, reg.Data.User.ID, me.Data.ID)
	assert.Equal(t, "Dana", me.Data.FirstName)
}

func TestAuth_Register_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerTestUser(t, "taken@example.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":      "taken@example.com",
		"password":   "TestPassword123",
		"first_name": "Second",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[any]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "ALREADY_EXISTS", envelope.Error.Code)
}

func TestAuth_Login(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerTestUser(t, "login@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "login@example.com",
		"password": "TestPassword123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.Token)
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerTestUser(t, "wrong@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "wrong@example.com",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[any]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Error.Code)
}

func TestAuth_OTPFlow(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/otp/request", map[string]any{
		"phone": "052-765-4321",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// The request above issued a code we can't see; issue a fresh one
	// through the shared store, which replaces it.
	code, err := ts.otp.Issue("052-765-4321")
	require.NoError(t, err)

	resp = ts.api.Post("/api/v1/auth/otp/verify", map[string]any{
		"phone": "0527654321",
		"code":  code,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.Token)
	assert.Equal(t, "0527654321", envelope.Data.User.Phone)

	// Second verify for the same phone finds an existing account.
	firstID := envelope.Data.User.ID
	code, err = ts.otp.Issue("0527654321")
	require.NoError(t, err)

	resp = ts.api.Post("/api/v1/auth/otp/verify", map[string]any{
		"phone": "052 765 4321",
		"code":  code,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, firstID, envelope.Data.User.ID)
}

func TestAuth_OTPVerify_WrongCode(t *testing.T) {
	ts := setupTestServer(t)

	code, err := ts.otp.Issue("0501112233")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "111111"
	}

	resp := ts.api.Post("/api/v1/auth/otp/verify", map[string]any{
		"phone": "0501112233",
		"code":  wrong,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
