package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/contacthub/contacthub/internal/apperr"
)

func multipartContext(t *testing.T, e *echo.Echo, fieldName, fileName, contentType string, content []byte) echo.Context {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="` + fieldName + `"; filename="` + fileName + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/file/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", uint(1))
	c.Set("role", "USER")
	return c
}

func TestUploadMissingFile(t *testing.T) {
	env := newTestEnv(t)
	h := &UploadHandler{MaxSize: 1 << 20}

	c, _ := env.authedContext(http.MethodPost, "/file/upload", nil, 1, "USER")
	require.ErrorIs(t, h.Upload(c), apperr.ErrValidation)
}

func TestUploadRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	h := &UploadHandler{MaxSize: 1 << 20}

	c := multipartContext(t, env.E, "file", "notes.txt", "text/plain", []byte("hello"))
	require.ErrorIs(t, h.Upload(c), apperr.ErrValidation)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	env := newTestEnv(t)
	h := &UploadHandler{MaxSize: 4}

	c := multipartContext(t, env.E, "file", "photo.png", "image/png", []byte("0123456789"))
	require.ErrorIs(t, h.Upload(c), apperr.ErrValidation)
}
