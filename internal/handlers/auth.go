package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/contacthub/contacthub/internal/apperr"
	"github.com/contacthub/contacthub/internal/events"
	"github.com/contacthub/contacthub/internal/response"
	"github.com/contacthub/contacthub/internal/service"
)

type AuthHandler struct {
	Auth     *service.AuthService
	Producer *events.Producer
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Terms     bool   `json:"terms"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *AuthHandler) publish(c echo.Context, topic, key string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrValidation.WithMessage("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, pair, err := h.Auth.Register(c.Request().Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Terms:     req.Terms,
	})
	if err != nil {
		return err
	}

	h.publish(c, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]interface{}{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return response.Success(c, "Registration successful", echo.Map{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrValidation.WithMessage("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, pair, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.publish(c, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]interface{}{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return response.Success(c, "Login successful", echo.Map{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrValidation.WithMessage("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	accessToken, err := h.Auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return response.Success(c, "Token refreshed successfully", echo.Map{
		"accessToken": accessToken,
	})
}
