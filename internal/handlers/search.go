package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/contacthub/contacthub/internal/apperr"
	midauth "github.com/contacthub/contacthub/internal/middleware/auth"
	"github.com/contacthub/contacthub/internal/response"
	"github.com/contacthub/contacthub/internal/service/search"
	"github.com/contacthub/contacthub/internal/util"
)

type SearchHandler struct {
	Indexer *search.Indexer
}

func (h *SearchHandler) Search(c echo.Context) error {
	userID, role, err := midauth.Identity(c)
	if err != nil {
		return err
	}

	q := c.QueryParam("q")
	if q == "" {
		return apperr.ErrValidation.WithMessage("query parameter q is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize)
	from, size := util.Calculate(page, size)

	total, contacts, err := h.Indexer.Search(c.Request().Context(), userID, role, q, from, size)
	if err != nil {
		c.Logger().Errorf("contact search failed: %v", err)
		return apperr.ErrContactOperationFailed.WithMessage("Unable to search contacts")
	}

	return response.Success(c, "Contacts retrieved successfully", echo.Map{
		"data":  contacts,
		"total": total,
	})
}
