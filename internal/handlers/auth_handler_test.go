package handlers_test

import (
	"net/http"
	"testing"

	"github.com/castlinked/castlinked-backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginRefresh(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email:     "alice@example.com",
		Password:  "s3cret-password",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var registered dto.AuthResponse
	decodeBody(t, resp, &registered)
	assert.Equal(t, "user", registered.User.Role)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)

	// The issued access token works on protected routes.
	resp = ta.request(t, http.MethodGet, "/api/reports/me", registered.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.request(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loggedIn dto.AuthResponse
	decodeBody(t, resp, &loggedIn)

	// Refresh rotates: the old token is revoked once used.
	resp = ta.request(t, http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{
		RefreshToken: loggedIn.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.request(t, http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{
		RefreshToken: loggedIn.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ta := newTestApp(t)

	req := dto.RegisterRequest{
		Email:     "bob@example.com",
		Password:  "s3cret-password",
		FirstName: "Bob",
		LastName:  "Jones",
	}
	resp := ta.request(t, http.MethodPost, "/api/auth/register", "", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = ta.request(t, http.MethodPost, "/api/auth/register", "", req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email:    "carol@example.com",
		Password: "s3cret-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = ta.request(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email:    "carol@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
