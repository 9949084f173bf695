package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"licenseserver/middleware"
	"licenseserver/models"
	"licenseserver/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	utils.InitJWT("test-jwt-secret")
	env := newTestEnv(t)
	env.seedAdmin(t, "admin", "correct-horse")
	handler := NewAuthHandler(env.admins)

	rec := postJSON(t, handler.Login, "/api/admin/login",
		models.LoginRequest{Username: "admin", Password: "correct-horse"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string               `json:"status"`
		Data   models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.NotEmpty(t, resp.Data.Token)

	claims, err := utils.ValidateToken(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	// Logins land in the activity trail.
	entries, err := env.admins.ListActivity(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AdminActionLogin, entries[0].Action)
}

func TestLoginWrongPassword(t *testing.T) {
	utils.InitJWT("test-jwt-secret")
	env := newTestEnv(t)
	env.seedAdmin(t, "admin", "correct-horse")
	handler := NewAuthHandler(env.admins)

	rec := postJSON(t, handler.Login, "/api/admin/login",
		models.LoginRequest{Username: "admin", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, handler.Login, "/api/admin/login",
		models.LoginRequest{Username: "nobody", Password: "correct-horse"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAuthHandler(env.admins)

	rec := postJSON(t, handler.Login, "/api/admin/login",
		models.LoginRequest{Username: "admin"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangePasswordThroughAuthMiddleware(t *testing.T) {
	utils.InitJWT("test-jwt-secret")
	env := newTestEnv(t)
	env.seedAdmin(t, "admin", "correct-horse")
	handler := NewAuthHandler(env.admins)

	token, _, err := utils.GenerateToken("adm-test1", "admin")
	require.NoError(t, err)

	guarded := middleware.ChainMiddleware(handler.ChangePassword, middleware.AuthMiddleware)
	auth := map[string]string{"Authorization": "Bearer " + token}

	// No token.
	rec := postJSON(t, guarded, "/api/admin/password",
		models.ChangePasswordRequest{CurrentPassword: "correct-horse", NewPassword: "brand-new-pass"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Wrong current password.
	rec = postJSON(t, guarded, "/api/admin/password",
		models.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "brand-new-pass"}, auth)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Too short.
	rec = postJSON(t, guarded, "/api/admin/password",
		models.ChangePasswordRequest{CurrentPassword: "correct-horse", NewPassword: "short"}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, guarded, "/api/admin/password",
		models.ChangePasswordRequest{CurrentPassword: "correct-horse", NewPassword: "brand-new-pass"}, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = env.admins.Authenticate(context.Background(), "admin", "brand-new-pass")
	assert.NoError(t, err)
}
