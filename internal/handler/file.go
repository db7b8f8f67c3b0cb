package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pkoziol/bookshare/internal/repository"
)

// 8 MiB, enough for cover photos.
const maxAttachmentBytes = 8 << 20

// FileHandler exposes attachment upload and download. Uploads answer
// the generated id which the client then sets as an offer's file_id.
type FileHandler struct {
	Files repository.FileRepository
}

// NewFileHandler wires the attachment endpoints.
func NewFileHandler(files repository.FileRepository) *FileHandler {
	return &FileHandler{Files: files}
}

// Upload stores the multipart "file" part and returns its id.
func (h *FileHandler) Upload(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "multipart field 'file' required"})
	}
	if fh.Size > maxAttachmentBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read file"})
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxAttachmentBytes+1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not read file"})
	}
	if len(data) > maxAttachmentBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := h.Files.Store(ctx, fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store file"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": fh.Filename})
}

// Download streams the stored bytes with the original content type.
func (h *FileHandler) Download(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	f, err := h.Files.Load(ctx, id)
	if err != nil {
		return failureResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+f.Name+`"`)
	return c.Blob(http.StatusOK, f.ContentType, f.Data)
}

// Delete removes a stored attachment; a missing id is a no-op.
func (h *FileHandler) Delete(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Files.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete file"})
	}
	return c.NoContent(http.StatusNoContent)
}
