package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":          "anna@example.com",
		"password":       "swap-books-123",
		"display_name":   "Anna",
		"contact_handle": "@anna",
		"occupation":     "librarian",
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, 1, envelope.V)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.Positive(t, envelope.Data.ExpiresIn)
	assert.Equal(t, "anna@example.com", envelope.Data.User.Email)
	assert.Equal(t, "Anna", envelope.Data.User.DisplayName)
	assert.Equal(t, "librarian", envelope.Data.User.Occupation)
	assert.NotEmpty(t, envelope.Data.User.AvatarColor)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)

	ts.registerTestUser(t, "anna@example.com", "Anna")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "anna@example.com",
		"password":     "another-password",
		"display_name": "Impostor",
	})

	require.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "ALREADY_EXISTS", envelope.Error.Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "anna@example.com",
		"password":     "short",
		"display_name": "Anna",
	})

	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION", envelope.Error.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)

	ts.registerTestUser(t, "anna@example.com", "Anna")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "anna@example.com",
		"password": "wrong-password",
	})

	require.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Error.Code)
}

func TestLogin_Success(t *testing.T) {
	ts := setupTestServer(t)

	ts.registerTestUser(t, "anna@example.com", "Anna")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "anna@example.com",
		"password": "swap-books-123",
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, "anna@example.com", envelope.Data.User.Email)
}

func TestRefresh_RotatesToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "anna@example.com",
		"password":     "swap-books-123",
		"display_name": "Anna",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var registered testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))

	refreshResp := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": registered.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, refreshResp.Code, refreshResp.Body.String())

	var refreshed testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(refreshResp.Body.Bytes(), &refreshed))
	assert.NotEqual(t, registered.Data.RefreshToken, refreshed.Data.RefreshToken)

	// The old refresh token is revoked by the rotation.
	replayResp := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": registered.Data.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, replayResp.Code, replayResp.Body.String())

	var replay testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(replayResp.Body.Bytes(), &replay))
	require.NotNil(t, replay.Error)
	assert.Equal(t, "TOKEN_EXPIRED", replay.Error.Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "anna@example.com",
		"password":     "swap-books-123",
		"display_name": "Anna",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var registered testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))

	logoutResp := ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": registered.Data.SessionID,
	})
	require.Equal(t, http.StatusOK, logoutResp.Code, logoutResp.Body.String())

	refreshResp := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": registered.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, refreshResp.Code)
}

func TestProtectedRoute_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me")
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestProtectedRoute_RejectsGarbageToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
