package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	"github.com/noah-isme/chess-academy-site/internal/service"
	"github.com/noah-isme/chess-academy-site/pkg/response"
)

type contentService[T any] interface {
	List(ctx context.Context, actor *service.Actor, filter repository.ListFilter) ([]T, *models.Pagination, error)
	Get(ctx context.Context, actor *service.Actor, id int64) (*T, error)
	Create(ctx context.Context, actor *service.Actor, item *T) (*T, error)
	Update(ctx context.Context, actor *service.Actor, id int64, item *T) (*T, error)
	UpdateStatus(ctx context.Context, actor *service.Actor, id int64, status string) (*T, error)
	Delete(ctx context.Context, actor *service.Actor, id int64) error
	Reorder(ctx context.Context, actor *service.Actor, ids []int64) error
}

// ContentOptions shapes the routes of one admin entity.
type ContentOptions struct {
	// AdminPath is where HTML form posts are redirected after a mutation.
	AdminPath string
	// Filters lists query parameters passed through as equality filters.
	Filters []string
	// Status mounts PATCH /:id/status.
	Status bool
	// Reorder mounts PUT /reorder.
	Reorder bool
}

// ContentHandler exposes admin CRUD for one entity type.
type ContentHandler[T any] struct {
	service contentService[T]
	opts    ContentOptions
}

// NewContentHandler constructs a ContentHandler.
func NewContentHandler[T any](svc contentService[T], opts ContentOptions) *ContentHandler[T] {
	return &ContentHandler[T]{service: svc, opts: opts}
}

// Register mounts the entity routes on group. HTML forms can only POST, so
// each mutation also has a POST alias.
func (h *ContentHandler[T]) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	if h.opts.Reorder {
		group.PUT("/reorder", h.Reorder)
		group.POST("/reorder", h.Reorder)
	}
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.POST("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	group.POST("/:id/delete", h.Delete)
	if h.opts.Status {
		group.PATCH("/:id/status", h.UpdateStatus)
		group.POST("/:id/status", h.UpdateStatus)
	}
}

// List godoc
// @Summary List admin entities
// @Tags Admin
// @Produce json
// @Param entity path string true "Entity collection, e.g. posts"
// @Param search query string false "Search text"
// @Param sort query string false "Sort clause"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/{entity} [get]
func (h *ContentHandler[T]) List(c *gin.Context) {
	items, pagination, err := h.service.List(c.Request.Context(), actorFromContext(c), listFilter(c, h.opts.Filters...))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get admin entity
// @Tags Admin
// @Produce json
// @Param entity path string true "Entity collection"
// @Param id path int true "ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/{entity}/{id} [get]
func (h *ContentHandler[T]) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.Get(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create admin entity
// @Tags Admin
// @Accept json
// @Produce json
// @Param entity path string true "Entity collection"
// @Success 201 {object} response.Envelope
// @Success 303 "Redirect for HTML form posts"
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/{entity} [post]
func (h *ContentHandler[T]) Create(c *gin.Context) {
	item := new(T)
	if err := bindPayload(c, item); err != nil {
		response.Error(c, err)
		return
	}
	created, err := h.service.Create(c.Request.Context(), actorFromContext(c), item)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondMutation(c, http.StatusCreated, h.opts.AdminPath, created)
}

// Update godoc
// @Summary Update admin entity
// @Tags Admin
// @Accept json
// @Produce json
// @Param entity path string true "Entity collection"
// @Param id path int true "ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/{entity}/{id} [put]
func (h *ContentHandler[T]) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item := new(T)
	if err := bindPayload(c, item); err != nil {
		response.Error(c, err)
		return
	}
	updated, err := h.service.Update(c.Request.Context(), actorFromContext(c), id, item)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondMutation(c, http.StatusOK, h.opts.AdminPath, updated)
}

// UpdateStatus godoc
// @Summary Change lifecycle status
// @Tags Admin
// @Accept json
// @Produce json
// @Param entity path string true "Entity collection"
// @Param id path int true "ID"
// @Param payload body dto.StatusUpdateRequest true "Status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/{entity}/{id}/status [patch]
func (h *ContentHandler[T]) UpdateStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.StatusUpdateRequest
	if err := bindPayload(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	updated, err := h.service.UpdateStatus(c.Request.Context(), actorFromContext(c), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondMutation(c, http.StatusOK, h.opts.AdminPath, updated)
}

// Delete godoc
// @Summary Delete admin entity
// @Tags Admin
// @Param entity path string true "Entity collection"
// @Param id path int true "ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/{entity}/{id} [delete]
func (h *ContentHandler[T]) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	respondMutation(c, http.StatusNoContent, h.opts.AdminPath, nil)
}

// Reorder godoc
// @Summary Reorder entities
// @Tags Admin
// @Accept json
// @Param entity path string true "Entity collection"
// @Param payload body dto.ReorderRequest true "IDs in display order"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /admin/{entity}/reorder [put]
func (h *ContentHandler[T]) Reorder(c *gin.Context) {
	var req dto.ReorderRequest
	if err := bindPayload(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Reorder(c.Request.Context(), actorFromContext(c), req.IDs); err != nil {
		response.Error(c, err)
		return
	}
	respondMutation(c, http.StatusNoContent, h.opts.AdminPath, nil)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
