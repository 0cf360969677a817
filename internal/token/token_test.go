package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/contacthub/contacthub/internal/apperr"
)

func newTestService() *Service {
	return &Service{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func TestIssueAndVerifyPair(t *testing.T) {
	s := newTestService()

	pair, err := s.IssuePair(42, "USER")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := s.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, uint(42), access.UserID)
	require.Equal(t, "USER", access.Role)

	refresh, err := s.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, uint(42), refresh.UserID)
	require.Equal(t, "USER", refresh.Role)
}

func TestExpiredTokenFailsWithTokenExpired(t *testing.T) {
	s := newTestService()
	s.AccessTTL = -time.Second

	pair, err := s.IssuePair(1, "USER")
	require.NoError(t, err)

	_, err = s.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, apperr.ErrTokenExpired)
}

func TestWrongSecretFailsWithTokenInvalid(t *testing.T) {
	s := newTestService()
	pair, err := s.IssuePair(1, "USER")
	require.NoError(t, err)

	other := newTestService()
	other.AccessSecret = []byte("another-secret")

	_, err = other.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, apperr.ErrTokenInvalid)
}

func TestTokenClassesAreNotInterchangeable(t *testing.T) {
	s := newTestService()
	pair, err := s.IssuePair(1, "ADMIN")
	require.NoError(t, err)

	_, err = s.VerifyAccess(pair.RefreshToken)
	require.ErrorIs(t, err, apperr.ErrTokenInvalid)

	_, err = s.VerifyRefresh(pair.AccessToken)
	require.ErrorIs(t, err, apperr.ErrTokenInvalid)
}

func TestGarbageTokenFailsWithTokenInvalid(t *testing.T) {
	s := newTestService()

	_, err := s.VerifyAccess("not.a.token")
	require.ErrorIs(t, err, apperr.ErrTokenInvalid)

	_, err = s.VerifyRefresh("")
	require.ErrorIs(t, err, apperr.ErrTokenInvalid)
}
