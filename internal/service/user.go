package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/contacthub/contacthub/internal/apperr"
	"github.com/contacthub/contacthub/internal/logging"
	"github.com/contacthub/contacthub/internal/models"
)

type UserService struct {
	DB *gorm.DB
}

func (s *UserService) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		logging.FromContext(ctx).Error("user lookup failed", "error", err)
		return nil, apperr.ErrInternal
	}
	return &user, nil
}

// UpdateProfile changes the mutable profile fields. Email and role are not
// updatable through this operation.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, firstName, lastName string) (*models.User, error) {
	user, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(firstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(lastName); v != "" {
		user.LastName = v
	}

	if err := s.DB.Save(user).Error; err != nil {
		logging.FromContext(ctx).Error("user update failed", "error", err)
		return nil, apperr.ErrInternal
	}
	return user, nil
}
