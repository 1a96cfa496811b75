package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/service"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
	"github.com/noah-isme/chess-academy-site/pkg/response"
)

// multipartOverhead is the allowance for boundaries and headers on top of
// the file itself.
const multipartOverhead = 1 << 20

type uploadService interface {
	Upload(ctx context.Context, actor *service.Actor, in *service.UploadInput) (*dto.UploadResult, error)
}

// UploadHandler accepts admin image uploads.
type UploadHandler struct {
	service  uploadService
	maxBytes int64
}

// NewUploadHandler constructs UploadHandler.
func NewUploadHandler(svc uploadService, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = service.DefaultMaxUploadBytes
	}
	return &UploadHandler{service: svc, maxBytes: maxBytes}
}

// Upload godoc
// @Summary Upload an image
// @Description Multipart field "file"; JPEG, PNG, WebP, GIF, SVG or AVIF under 5MB
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Param file formData file true "Image"
// @Success 200 {object} dto.UploadResult
// @Failure 400 {object} response.FlatError
// @Failure 500 {object} response.FlatError
// @Router /admin/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("File too large. Maximum size is %dMB", h.maxBytes/(1024*1024))))
			return
		}
		response.Fail(c, appErrors.Clone(appErrors.ErrValidation, "No file uploaded"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Fail(c, appErrors.Internal(err, "Upload failed"))
		return
	}
	defer file.Close()

	result, err := h.service.Upload(c.Request.Context(), actorFromContext(c), &service.UploadInput{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Plain(c, http.StatusOK, result)
}
