package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/contacthub/contacthub/internal/apperr"
	midauth "github.com/contacthub/contacthub/internal/middleware/auth"
	"github.com/contacthub/contacthub/internal/response"
	"github.com/contacthub/contacthub/internal/service"
)

type UserHandler struct {
	Users *service.UserService
}

type updateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (h *UserHandler) Me(c echo.Context) error {
	userID, _, err := midauth.Identity(c)
	if err != nil {
		return err
	}

	user, err := h.Users.GetMe(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, "User retrieved successfully", echo.Map{"user": user})
}

func (h *UserHandler) Update(c echo.Context) error {
	userID, _, err := midauth.Identity(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrValidation.WithMessage("malformed request body")
	}

	user, err := h.Users.UpdateProfile(c.Request().Context(), userID, req.FirstName, req.LastName)
	if err != nil {
		return err
	}
	return response.Success(c, "User updated successfully", echo.Map{"user": user})
}
