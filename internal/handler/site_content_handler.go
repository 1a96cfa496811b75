package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/service"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
	"github.com/noah-isme/chess-academy-site/pkg/response"
)

const siteContentAdminPath = "/admin/site-content"

type siteContentService interface {
	List(ctx context.Context, actor *service.Actor) ([]dto.SiteContentView, error)
	Get(ctx context.Context, actor *service.Actor, key string) (*dto.SiteContentView, error)
	Put(ctx context.Context, actor *service.Actor, key string, raw json.RawMessage) (*dto.SiteContentView, error)
	Reset(ctx context.Context, actor *service.Actor, key string) (*dto.SiteContentView, error)
}

// SiteContentHandler edits the keyed page sections.
type SiteContentHandler struct {
	service siteContentService
}

// NewSiteContentHandler constructs SiteContentHandler.
func NewSiteContentHandler(svc siteContentService) *SiteContentHandler {
	return &SiteContentHandler{service: svc}
}

// List godoc
// @Summary List editable page sections
// @Tags SiteContent
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/site-content [get]
func (h *SiteContentHandler) List(c *gin.Context) {
	views, err := h.service.List(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// Get godoc
// @Summary Get one page section
// @Tags SiteContent
// @Produce json
// @Param key path string true "Section key, e.g. home.hero"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/site-content/{key} [get]
func (h *SiteContentHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), actorFromContext(c), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Put godoc
// @Summary Replace a page section
// @Description JSON body is the section value; HTML forms send it in the "value" field
// @Tags SiteContent
// @Accept json
// @Produce json
// @Param key path string true "Section key"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/site-content/{key} [put]
func (h *SiteContentHandler) Put(c *gin.Context) {
	raw, err := sectionBody(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.Put(c.Request.Context(), actorFromContext(c), c.Param("key"), raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondMutation(c, http.StatusOK, siteContentAdminPath, view)
}

// Reset godoc
// @Summary Restore a section's default
// @Tags SiteContent
// @Produce json
// @Param key path string true "Section key"
// @Success 200 {object} response.Envelope
// @Router /admin/site-content/{key} [delete]
func (h *SiteContentHandler) Reset(c *gin.Context) {
	view, err := h.service.Reset(c.Request.Context(), actorFromContext(c), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondMutation(c, http.StatusOK, siteContentAdminPath, view)
}

func sectionBody(c *gin.Context) (json.RawMessage, error) {
	if isFormPost(c) {
		value := strings.TrimSpace(c.PostForm("value"))
		if value == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "value is required")
		}
		return json.RawMessage(value), nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
	}
	if !json.Valid(body) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid payload")
	}
	return body, nil
}
