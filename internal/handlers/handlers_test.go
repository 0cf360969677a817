package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/contacthub/contacthub/internal/hash"
	"github.com/contacthub/contacthub/internal/models"
	"github.com/contacthub/contacthub/internal/response"
	"github.com/contacthub/contacthub/internal/service"
	"github.com/contacthub/contacthub/internal/token"
	"github.com/contacthub/contacthub/internal/validation"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Tokens   *token.Service
	Hasher   *hash.Hasher
	Auth     *AuthHandler
	Contacts *ContactHandler
	Users    *UserHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Contact{}))

	tokens := &token.Service{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
	hasher := hash.NewHasher(4)

	e := echo.New()
	e.Validator = validation.New()
	e.HTTPErrorHandler = response.ErrorHandler

	authService := &service.AuthService{DB: db, Hasher: hasher, Tokens: tokens}
	contactService := &service.ContactService{DB: db}
	userService := &service.UserService{DB: db}

	return &testEnv{
		T:        t,
		E:        e,
		DB:       db,
		Tokens:   tokens,
		Hasher:   hasher,
		Auth:     &AuthHandler{Auth: authService},
		Contacts: &ContactHandler{Contacts: contactService},
		Users:    &UserHandler{Users: userService},
	}
}

func (env *testEnv) jsonContext(method, target string, payload interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(env.T, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return env.E.NewContext(req, rec), rec
}

// authedContext builds a request context carrying a guard-attached identity.
func (env *testEnv) authedContext(method, target string, payload interface{}, userID uint, role string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := env.jsonContext(method, target, payload)
	c.Set("userID", userID)
	c.Set("role", role)
	return c, rec
}

func (env *testEnv) createUser(email, password, role string) *models.User {
	pwHash, err := env.Hasher.Hash(password)
	require.NoError(env.T, err)

	user := &models.User{
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: pwHash,
		Terms:        true,
		Role:         role,
	}
	require.NoError(env.T, env.DB.Create(user).Error)
	return user
}

func (env *testEnv) createContact(ownerID uint, name, email string) *models.Contact {
	contact := &models.Contact{Name: name, Email: email, UserID: ownerID}
	require.NoError(env.T, env.DB.Create(contact).Error)
	return contact
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Body {
	var body response.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func dataMap(t *testing.T, body response.Body) map[string]interface{} {
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok, "expected object data, got %T", body.Data)
	return data
}
