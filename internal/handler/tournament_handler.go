package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	"github.com/noah-isme/chess-academy-site/internal/service"
	"github.com/noah-isme/chess-academy-site/pkg/response"
)

type registrationAdminService interface {
	List(ctx context.Context, actor *service.Actor, tournamentID int64, filter repository.RegistrationFilter) (*dto.RegistrationList, *models.Pagination, error)
	UpdateStatus(ctx context.Context, actor *service.Actor, id int64, req dto.UpdateRegistrationStatusRequest) (*models.TournamentRegistration, error)
	Delete(ctx context.Context, actor *service.Actor, id int64) error
	Export(ctx context.Context, actor *service.Actor, tournamentID int64, format string) (*service.ExportFile, error)
}

type photoLister interface {
	ListPhotos(ctx context.Context, actor *service.Actor, tournamentID int64) ([]models.TournamentPhoto, error)
}

// TournamentHandler serves the per-tournament admin views: registrations,
// their exports and the photo gallery.
type TournamentHandler struct {
	registrations registrationAdminService
	photos        photoLister
}

// NewTournamentHandler constructs TournamentHandler.
func NewTournamentHandler(registrations registrationAdminService, photos photoLister) *TournamentHandler {
	return &TournamentHandler{registrations: registrations, photos: photos}
}

// Registrations godoc
// @Summary List a tournament's registrations
// @Tags Tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Param status query string false "CONFIRMED or WAITLISTED"
// @Param search query string false "Name, email or phone"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/tournaments/{id}/registrations [get]
func (h *TournamentHandler) Registrations(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := repository.RegistrationFilter{Search: strings.TrimSpace(c.Query("search"))}
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		s := models.RegistrationStatus(status)
		filter.Status = &s
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}

	list, pagination, err := h.registrations.List(c.Request.Context(), actorFromContext(c), id, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, pagination)
}

// ExportRegistrations godoc
// @Summary Export a tournament's registrations
// @Tags Tournaments
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Tournament ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /admin/tournaments/{id}/registrations/export [get]
func (h *TournamentHandler) ExportRegistrations(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.registrations.Export(c.Request.Context(), actorFromContext(c), id, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, file)
}

// UpdateRegistrationStatus godoc
// @Summary Confirm or waitlist a registration
// @Tags Tournaments
// @Accept json
// @Produce json
// @Param id path int true "Registration ID"
// @Param payload body dto.UpdateRegistrationStatusRequest true "Status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/registrations/{id}/status [patch]
func (h *TournamentHandler) UpdateRegistrationStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateRegistrationStatusRequest
	if err := bindPayload(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	req.Status = models.RegistrationStatus(strings.ToUpper(string(req.Status)))

	reg, err := h.registrations.UpdateStatus(c.Request.Context(), actorFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondMutation(c, http.StatusOK, registrationsPath(reg.TournamentID), reg)
}

// DeleteRegistration godoc
// @Summary Remove a registration
// @Description Removing a confirmed registrant promotes the oldest waitlisted one
// @Tags Tournaments
// @Param id path int true "Registration ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/registrations/{id} [delete]
func (h *TournamentHandler) DeleteRegistration(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.registrations.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	respondMutation(c, http.StatusNoContent, "/admin/tournaments", nil)
}

// Photos godoc
// @Summary List a tournament's photo gallery
// @Tags Tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} response.Envelope
// @Router /admin/tournaments/{id}/photos [get]
func (h *TournamentHandler) Photos(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	photos, err := h.photos.ListPhotos(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, photos, nil)
}

func registrationsPath(tournamentID int64) string {
	return "/admin/tournaments/" + formatID(tournamentID) + "/registrations"
}

// sendFile streams a rendered export as an attachment.
func sendFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
