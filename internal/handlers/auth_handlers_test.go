package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contacthub/contacthub/internal/apperr"
	"github.com/contacthub/contacthub/internal/models"
)

func registerPayload(email string) map[string]interface{} {
	return map[string]interface{}{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     email,
		"password":  "Abcd1",
		"terms":     true,
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.jsonContext(http.MethodPost, "/auth/register", registerPayload("Ada@Example.com"))
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec)
	require.Equal(t, "SUCCESS", body.Code)

	data := dataMap(t, body)
	require.NotEmpty(t, data["accessToken"])
	require.NotEmpty(t, data["refreshToken"])

	user := data["user"].(map[string]interface{})
	require.Equal(t, "ada@example.com", user["email"])
	require.Equal(t, models.RoleUser, user["role"])
	_, leaked := user["passwordHash"]
	require.False(t, leaked, "password hash must not appear in responses")
}

func TestRegisterDuplicateEmailAnyCasing(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.jsonContext(http.MethodPost, "/auth/register", registerPayload("ada@example.com"))
	require.NoError(t, env.Auth.Register(c))

	c2, _ := env.jsonContext(http.MethodPost, "/auth/register", registerPayload("  ADA@EXAMPLE.COM "))
	err := env.Auth.Register(c2)
	require.ErrorIs(t, err, apperr.ErrUserDuplicated)

	var count int64
	env.DB.Model(&models.User{}).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestRegisterPasswordPolicy(t *testing.T) {
	env := newTestEnv(t)

	for _, password := range []string{"ab1", "abcd1", "ABCD1", "Abcde"} {
		payload := registerPayload("weak@example.com")
		payload["password"] = password

		c, _ := env.jsonContext(http.MethodPost, "/auth/register", payload)
		err := env.Auth.Register(c)
		require.ErrorIs(t, err, apperr.ErrValidation, "password %q must be rejected", password)
	}
}

func TestRegisterRequiresTerms(t *testing.T) {
	env := newTestEnv(t)

	payload := registerPayload("ada@example.com")
	payload["terms"] = false

	c, _ := env.jsonContext(http.MethodPost, "/auth/register", payload)
	require.ErrorIs(t, env.Auth.Register(c), apperr.ErrValidation)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("ada@example.com", "Abcd1", models.RoleUser)

	c, rec := env.jsonContext(http.MethodPost, "/auth/login", map[string]string{
		"email":    "ADA@example.com",
		"password": "Abcd1",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataMap(t, decodeEnvelope(t, rec))
	require.NotEmpty(t, data["accessToken"])
	require.NotEmpty(t, data["refreshToken"])
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("ada@example.com", "Abcd1", models.RoleUser)

	c, _ := env.jsonContext(http.MethodPost, "/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "Wrong1",
	})
	err := env.Auth.Login(c)
	require.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusBadRequest, appErr.Status)
	require.Equal(t, "Invalid credentials", appErr.Message)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.jsonContext(http.MethodPost, "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "Abcd1",
	})
	err := env.Auth.Login(c)
	require.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	// Same code and message as a wrong password so the failing factor is
	// never revealed.
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusNotFound, appErr.Status)
	require.Equal(t, "Invalid credentials", appErr.Message)
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("ada@example.com", "Abcd1", models.RoleUser)

	pair, err := env.Tokens.IssuePair(user.ID, user.Role)
	require.NoError(t, err)

	c, rec := env.jsonContext(http.MethodPost, "/auth/token/refresh", map[string]string{
		"refreshToken": pair.RefreshToken,
	})
	require.NoError(t, env.Auth.Refresh(c))

	data := dataMap(t, decodeEnvelope(t, rec))
	accessToken, ok := data["accessToken"].(string)
	require.True(t, ok)

	claims, err := env.Tokens.VerifyAccess(accessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Role, claims.Role)
}

func TestRefreshExpired(t *testing.T) {
	env := newTestEnv(t)
	env.Tokens.RefreshTTL = -1

	pair, err := env.Tokens.IssuePair(1, models.RoleUser)
	require.NoError(t, err)

	c, _ := env.jsonContext(http.MethodPost, "/auth/token/refresh", map[string]string{
		"refreshToken": pair.RefreshToken,
	})
	require.ErrorIs(t, env.Auth.Refresh(c), apperr.ErrRefreshTokenExpired)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	env := newTestEnv(t)

	pair, err := env.Tokens.IssuePair(1, models.RoleUser)
	require.NoError(t, err)

	c, _ := env.jsonContext(http.MethodPost, "/auth/token/refresh", map[string]string{
		"refreshToken": pair.AccessToken,
	})
	require.ErrorIs(t, env.Auth.Refresh(c), apperr.ErrUnauthorized)
}

func TestRefreshGarbageToken(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.jsonContext(http.MethodPost, "/auth/token/refresh", map[string]string{
		"refreshToken": "garbage",
	})
	require.ErrorIs(t, env.Auth.Refresh(c), apperr.ErrUnauthorized)
}
