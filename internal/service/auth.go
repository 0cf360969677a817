package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/contacthub/contacthub/internal/apperr"
	"github.com/contacthub/contacthub/internal/hash"
	"github.com/contacthub/contacthub/internal/logging"
	"github.com/contacthub/contacthub/internal/models"
	"github.com/contacthub/contacthub/internal/token"
)

type AuthService struct {
	DB     *gorm.DB
	Hasher *hash.Hasher
	Tokens *token.Service
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Terms     bool
}

// NormalizeEmail is the uniqueness key transform: trimmed and lowercased
// before any lookup or insert, so casing can never create a duplicate
// account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *token.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email := NormalizeEmail(in.Email)
	if err := validatePassword(in.Password); err != nil {
		return nil, nil, err
	}
	if !in.Terms {
		return nil, nil, apperr.ErrValidation.WithMessage("You must accept the terms and conditions")
	}

	pwHash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash password", "error", err)
		return nil, nil, apperr.ErrInternal
	}

	var existing models.User
	if err := s.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		l.Warn("register rejected", "reason", "duplicate email")
		return nil, nil, apperr.ErrUserDuplicated
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register failed", "error", err)
		return nil, nil, apperr.ErrInternal
	}

	user := models.User{
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: pwHash,
		Terms:        in.Terms,
		Role:         models.RoleUser,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		// The pre-check races with concurrent inserts; a unique violation
		// here is the same logical failure.
		if isUniqueViolation(err) {
			l.Warn("register rejected", "reason", "duplicate email on insert")
			return nil, nil, apperr.ErrUserDuplicated
		}
		l.Error("register failed", "error", err)
		return nil, nil, apperr.ErrInternal
	}

	pair, err := s.Tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		l.Error("register failed", "reason", "cannot issue tokens", "error", err)
		return nil, nil, apperr.ErrInternal
	}

	l.Info("user registered", "user_id", user.ID)
	return &user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *token.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	var user models.User
	if err := s.DB.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login failed", "reason", "unknown email")
			return nil, nil, apperr.ErrInvalidCredentials.WithStatus(http.StatusNotFound)
		}
		l.Error("login failed", "error", err)
		return nil, nil, apperr.ErrInternal
	}

	if !s.Hasher.Check(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, nil, apperr.ErrInvalidCredentials
	}

	pair, err := s.Tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		l.Error("login failed", "reason", "cannot issue tokens", "error", err)
		return nil, nil, apperr.ErrInternal
	}

	l.Info("user logged in", "user_id", user.ID)
	return &user, pair, nil
}

// Refresh verifies a refresh token and mints a fresh access token from its
// identity. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, apperr.ErrTokenExpired) {
			l.Warn("refresh rejected", "reason", "token expired")
			return "", apperr.ErrRefreshTokenExpired
		}
		l.Warn("refresh rejected", "reason", "invalid token")
		return "", apperr.ErrUnauthorized
	}

	pair, err := s.Tokens.IssuePair(claims.UserID, claims.Role)
	if err != nil {
		l.Error("refresh failed", "reason", "cannot issue tokens", "error", err)
		return "", apperr.ErrInternal
	}

	l.Info("token refreshed", "user_id", claims.UserID)
	return pair.AccessToken, nil
}

// validatePassword enforces the complexity policy: minimum length 4 with at
// least one lowercase letter, one uppercase letter and one digit.
func validatePassword(password string) error {
	if len(password) < 4 {
		return apperr.ErrValidation.WithMessage("Password is too weak")
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return apperr.ErrValidation.WithMessage("Password is too weak")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
