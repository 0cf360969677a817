package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/contacthub/contacthub/internal/apperr"
	"github.com/contacthub/contacthub/internal/events"
	midauth "github.com/contacthub/contacthub/internal/middleware/auth"
	"github.com/contacthub/contacthub/internal/models"
	"github.com/contacthub/contacthub/internal/response"
	"github.com/contacthub/contacthub/internal/service"
	"github.com/contacthub/contacthub/internal/service/search"
)

type ContactHandler struct {
	Contacts *service.ContactService
	Producer *events.Producer
	Indexer  *search.Indexer
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Photo   string `json:"photo"`
}

func (r contactRequest) input() service.ContactInput {
	return service.ContactInput{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		Photo:   r.Photo,
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ContactHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicContactEvents, fmt.Sprint(event["contactID"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *ContactHandler) index(c echo.Context, contact *models.Contact) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Indexer.IndexContact(ctx, contact); err != nil {
		c.Logger().Errorf("search index error: %v", err)
	}
}

func (h *ContactHandler) List(c echo.Context) error {
	userID, role, err := midauth.Identity(c)
	if err != nil {
		return err
	}

	query := service.ListQuery{
		Page:          parseIntDefault(c.QueryParam("page"), 1),
		PageSize:      parseIntDefault(c.QueryParam("pageSize"), 0),
		Keyword:       c.QueryParam("filtersKeyWord"),
		SortField:     c.QueryParam("sortBy[field]"),
		SortDirection: c.QueryParam("sortBy[direction]"),
	}

	page, err := h.Contacts.List(c.Request().Context(), userID, role, query)
	if err != nil {
		return err
	}
	return response.Success(c, "Contacts retrieved successfully", page)
}

func (h *ContactHandler) Get(c echo.Context) error {
	userID, role, err := midauth.Identity(c)
	if err != nil {
		return err
	}
	contactID, err := contactIDParam(c)
	if err != nil {
		return err
	}

	contact, err := h.Contacts.Get(c.Request().Context(), userID, role, contactID)
	if err != nil {
		return err
	}
	return response.Success(c, "Contact retrieved successfully", contact)
}

func (h *ContactHandler) Create(c echo.Context) error {
	userID, _, err := midauth.Identity(c)
	if err != nil {
		return err
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrValidation.WithMessage("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	contact, err := h.Contacts.Create(c.Request().Context(), userID, req.input())
	if err != nil {
		return err
	}

	h.index(c, contact)
	h.publish(c, map[string]interface{}{
		"type":      "contact_created",
		"contactID": contact.ID,
		"userID":    userID,
	})

	return response.Success(c, "Contact created successfully", echo.Map{
		"contact": echo.Map{"id": contact.ID},
	})
}

func (h *ContactHandler) Update(c echo.Context) error {
	userID, role, err := midauth.Identity(c)
	if err != nil {
		return err
	}
	contactID, err := contactIDParam(c)
	if err != nil {
		return err
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrValidation.WithMessage("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	contact, err := h.Contacts.Update(c.Request().Context(), userID, role, contactID, req.input())
	if err != nil {
		return err
	}

	h.index(c, contact)
	h.publish(c, map[string]interface{}{
		"type":      "contact_updated",
		"contactID": contact.ID,
		"userID":    userID,
	})

	return response.Success(c, "Contact updated successfully", echo.Map{
		"contact": echo.Map{"id": contact.ID},
	})
}

func (h *ContactHandler) Delete(c echo.Context) error {
	userID, role, err := midauth.Identity(c)
	if err != nil {
		return err
	}
	contactID, err := contactIDParam(c)
	if err != nil {
		return err
	}

	contact, err := h.Contacts.Delete(c.Request().Context(), userID, role, contactID)
	if err != nil {
		return err
	}

	func() {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Indexer.RemoveContact(ctx, contact.ID); err != nil {
			c.Logger().Errorf("search remove error: %v", err)
		}
	}()
	h.publish(c, map[string]interface{}{
		"type":      "contact_deleted",
		"contactID": contact.ID,
		"userID":    userID,
	})

	return response.Success(c, "Contact deleted successfully", echo.Map{
		"contact": contact,
	})
}

func contactIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperr.ErrValidation.WithMessage("invalid contact id")
	}
	return uint(id), nil
}
