// Package token issues and verifies the stateless JWT pair used for
// sessions. Access and refresh tokens are signed with distinct secrets so a
// leaked secret of one class cannot forge the other; verification never
// touches the database.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/contacthub/contacthub/internal/apperr"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

type Service struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (s *Service) IssuePair(userID uint, role string) (*Pair, error) {
	accessExp := time.Now().Add(s.AccessTTL)
	access, err := s.sign(userID, role, typeAccess, s.AccessSecret, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(s.RefreshTTL)
	refresh, err := s.sign(userID, role, typeRefresh, s.RefreshSecret, refreshExp)
	if err != nil {
		return nil, err
	}

	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// VerifyAccess returns the claims of a valid access token. Expiry is
// reported as apperr.ErrTokenExpired, every other failure as
// apperr.ErrTokenInvalid.
func (s *Service) VerifyAccess(raw string) (*Claims, error) {
	return parse(raw, s.AccessSecret, typeAccess)
}

func (s *Service) VerifyRefresh(raw string) (*Claims, error) {
	return parse(raw, s.RefreshSecret, typeRefresh)
}

func (s *Service) sign(userID uint, role, typ string, secret []byte, exp time.Time) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func parse(raw string, secret []byte, typ string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.ErrTokenExpired
		}
		return nil, apperr.ErrTokenInvalid
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, apperr.ErrTokenInvalid
	}
	if claims.Type != typ {
		return nil, apperr.ErrTokenInvalid
	}
	return claims, nil
}
