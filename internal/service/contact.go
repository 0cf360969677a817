package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/contacthub/contacthub/internal/apperr"
	"github.com/contacthub/contacthub/internal/logging"
	"github.com/contacthub/contacthub/internal/models"
	"github.com/contacthub/contacthub/internal/util"
)

// sortColumns is the allow-list mapping exposed sort fields to columns.
// Anything outside it is rejected before reaching the query builder.
var sortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"phone":     "phone",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type ContactService struct {
	DB *gorm.DB
}

type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Photo   string
}

type ListQuery struct {
	Page          int
	PageSize      int
	Keyword       string
	SortField     string
	SortDirection string
}

type ContactPage struct {
	Data     []models.Contact `json:"data"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

// visible applies the single authorization branch shared by every contact
// operation: non-admins only ever see rows they own.
func (s *ContactService) visible(userID uint, role string) *gorm.DB {
	q := s.DB.Model(&models.Contact{})
	if role != models.RoleAdmin {
		q = q.Where("user_id = ?", userID)
	}
	return q
}

func (s *ContactService) List(ctx context.Context, userID uint, role string, query ListQuery) (*ContactPage, error) {
	l := logging.FromContext(ctx).With("svc", "contact.list", "user_id", userID)

	order, err := orderClause(query.SortField, query.SortDirection)
	if err != nil {
		return nil, err
	}

	q := s.visible(userID, role)
	if query.Keyword != "" {
		kw := "%" + query.Keyword + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", kw, kw)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		l.Error("count failed", "error", err)
		return nil, apperr.ErrContactOperationFailed
	}

	page, pageSize := util.Normalize(query.Page, query.PageSize)
	offset, limit := util.Calculate(page, pageSize)

	var contacts []models.Contact
	if err := q.Order(order).Offset(offset).Limit(limit).Find(&contacts).Error; err != nil {
		l.Error("list failed", "error", err)
		return nil, apperr.ErrContactOperationFailed
	}

	return &ContactPage{
		Data:     contacts,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *ContactService) Get(ctx context.Context, userID uint, role string, contactID uint) (*models.Contact, error) {
	var contact models.Contact
	err := s.visible(userID, role).Where("id = ?", contactID).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Absent and not-owned are deliberately indistinguishable.
			return nil, apperr.ErrContactNotFound
		}
		logging.FromContext(ctx).Error("contact get failed", "error", err)
		return nil, apperr.ErrContactOperationFailed
	}
	return &contact, nil
}

func (s *ContactService) Create(ctx context.Context, userID uint, in ContactInput) (*models.Contact, error) {
	contact := models.Contact{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		Photo:   in.Photo,
		UserID:  userID,
	}
	if err := s.DB.Create(&contact).Error; err != nil {
		logging.FromContext(ctx).Error("contact create failed", "error", err)
		return nil, apperr.ErrContactOperationFailed
	}
	return &contact, nil
}

func (s *ContactService) Update(ctx context.Context, userID uint, role string, contactID uint, in ContactInput) (*models.Contact, error) {
	contact, err := s.Get(ctx, userID, role, contactID)
	if err != nil {
		return nil, err
	}

	contact.Name = in.Name
	contact.Email = in.Email
	contact.Phone = in.Phone
	contact.Address = in.Address
	contact.Photo = in.Photo

	if err := s.DB.Save(contact).Error; err != nil {
		logging.FromContext(ctx).Error("contact update failed", "error", err)
		return nil, apperr.ErrContactOperationFailed
	}
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, userID uint, role string, contactID uint) (*models.Contact, error) {
	contact, err := s.Get(ctx, userID, role, contactID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Delete(&models.Contact{}, contact.ID).Error; err != nil {
		logging.FromContext(ctx).Error("contact delete failed", "error", err)
		return nil, apperr.ErrContactOperationFailed
	}
	return contact, nil
}

func orderClause(field, direction string) (string, error) {
	if field == "" && direction == "" {
		return "updated_at DESC", nil
	}

	column, ok := sortColumns[field]
	if !ok {
		return "", apperr.ErrValidation.WithMessage("invalid sort field")
	}
	switch direction {
	case "asc":
		return column + " ASC", nil
	case "desc":
		return column + " DESC", nil
	default:
		return "", apperr.ErrValidation.WithMessage("invalid sort direction")
	}
}
