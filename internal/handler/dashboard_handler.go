package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/chess-academy-site/internal/repository"
	"github.com/noah-isme/chess-academy-site/internal/service"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
	"github.com/noah-isme/chess-academy-site/pkg/response"
)

type dashboardService interface {
	Admin(ctx context.Context, actor *service.Actor) (*service.AdminDashboard, bool, error)
}

type exportService interface {
	Leads(ctx context.Context, actor *service.Actor, filter repository.ListFilter, format string) (*service.ExportFile, error)
	Subscribers(ctx context.Context, actor *service.Actor, filter repository.ListFilter, format string) (*service.ExportFile, error)
	Donations(ctx context.Context, actor *service.Actor, filter repository.ListFilter, format string) (*service.ExportFile, error)
}

// DashboardHandler wires the admin landing summary and bulk exports.
type DashboardHandler struct {
	service dashboardService
	exports exportService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService, exports exportService) *DashboardHandler {
	return &DashboardHandler{service: service, exports: exports}
}

// Admin godoc
// @Summary Admin dashboard summary
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	summary, cacheHit, err := h.service.Admin(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, map[string]interface{}{"cache_hit": cacheHit})
}

// ExportLeads godoc
// @Summary Export academy leads
// @Tags Dashboard
// @Produce text/csv
// @Param format query string false "csv (default) or pdf"
// @Param status query string false "Lead status"
// @Param source query string false "academy or contact"
// @Success 200 {file} file
// @Router /admin/exports/leads [get]
func (h *DashboardHandler) ExportLeads(c *gin.Context) {
	h.export(c, h.exports.Leads, "status", "source")
}

// ExportSubscribers godoc
// @Summary Export newsletter subscribers
// @Tags Dashboard
// @Produce text/csv
// @Param format query string false "csv (default) or pdf"
// @Param active query bool false "Active subscribers only"
// @Success 200 {file} file
// @Router /admin/exports/subscribers [get]
func (h *DashboardHandler) ExportSubscribers(c *gin.Context) {
	h.export(c, h.exports.Subscribers, "active")
}

// ExportDonations godoc
// @Summary Export donation pledges
// @Tags Dashboard
// @Produce text/csv
// @Param format query string false "csv (default) or pdf"
// @Param status query string false "Donation status"
// @Success 200 {file} file
// @Router /admin/exports/donations [get]
func (h *DashboardHandler) ExportDonations(c *gin.Context) {
	h.export(c, h.exports.Donations, "status")
}

type exportFunc func(ctx context.Context, actor *service.Actor, filter repository.ListFilter, format string) (*service.ExportFile, error)

func (h *DashboardHandler) export(c *gin.Context, run exportFunc, filters ...string) {
	filter := listFilter(c, filters...)
	file, err := run(c.Request.Context(), actorFromContext(c), filter, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, file)
}
