package handlers

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/contacthub/contacthub/internal/apperr"
	midauth "github.com/contacthub/contacthub/internal/middleware/auth"
	"github.com/contacthub/contacthub/internal/response"
	"github.com/contacthub/contacthub/internal/storage"
)

type UploadHandler struct {
	Store   *storage.PhotoStore
	MaxSize int64
}

// Upload accepts a single multipart image and hands it to the photo store.
// Type and size are checked before any byte reaches the sink.
func (h *UploadHandler) Upload(c echo.Context) error {
	userID, _, err := midauth.Identity(c)
	if err != nil {
		return err
	}

	header, err := c.FormFile("file")
	if err != nil {
		return apperr.ErrValidation.WithMessage("No file uploaded")
	}

	mimetype := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimetype, "image/") {
		return apperr.ErrValidation.WithMessage("Only image files are allowed")
	}
	if h.MaxSize > 0 && header.Size > h.MaxSize {
		return apperr.ErrValidation.WithMessage("File exceeds the maximum allowed size")
	}

	file, err := header.Open()
	if err != nil {
		return apperr.ErrValidation.WithMessage("No file uploaded")
	}
	defer file.Close()

	path, err := h.Store.Save(c.Request().Context(), file, header)
	if err != nil {
		c.Logger().Errorf("photo upload failed for user %d: %v", userID, err)
		return apperr.ErrInternal
	}

	return response.Success(c, "File uploaded successfully", echo.Map{
		"path":         path,
		"filename":     path[strings.LastIndex(path, "/")+1:],
		"originalName": header.Filename,
		"mimetype":     mimetype,
		"size":         header.Size,
	})
}
