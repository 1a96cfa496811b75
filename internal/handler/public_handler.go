package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
	"github.com/noah-isme/chess-academy-site/pkg/response"
)

type registrationService interface {
	Register(ctx context.Context, req dto.RegisterTournamentRequest) (*dto.RegistrationResult, error)
}

type newsletterService interface {
	Subscribe(ctx context.Context, req dto.NewsletterRequest) (*dto.NewsletterResult, bool, error)
	Unsubscribe(ctx context.Context, token string) (string, error)
}

type submissionService interface {
	SubmitLead(ctx context.Context, req dto.LeadRequest) (*dto.SubmissionResult, error)
	SubmitContact(ctx context.Context, req dto.ContactRequest) (*dto.SubmissionResult, error)
	SubmitApplication(ctx context.Context, req dto.ApplicationRequest) (*dto.SubmissionResult, error)
	SubmitVolunteer(ctx context.Context, req dto.VolunteerRequest) (*dto.SubmissionResult, error)
	SubmitDonation(ctx context.Context, req dto.DonationRequest) (*dto.SubmissionResult, error)
}

// PublicHandler serves the anonymous form endpoints. Responses are flat
// bodies, never the admin envelope.
type PublicHandler struct {
	registrations registrationService
	newsletter    newsletterService
	submissions   submissionService
}

// NewPublicHandler constructs PublicHandler.
func NewPublicHandler(registrations registrationService, newsletter newsletterService, submissions submissionService) *PublicHandler {
	return &PublicHandler{registrations: registrations, newsletter: newsletter, submissions: submissions}
}

// RegisterTournament godoc
// @Summary Register for a tournament
// @Description Confirms the registrant while spots remain, otherwise waitlists them
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body dto.RegisterTournamentRequest true "Registration"
// @Success 200 {object} dto.RegistrationResult
// @Failure 400 {object} response.FlatError
// @Failure 404 {object} response.FlatError
// @Failure 409 {object} response.FlatError
// @Failure 500 {object} response.FlatError
// @Router /tournaments/register [post]
func (h *PublicHandler) RegisterTournament(c *gin.Context) {
	var req dto.RegisterTournamentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Missing required fields"))
		return
	}

	result, err := h.registrations.Register(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Plain(c, http.StatusOK, result)
}

// Subscribe godoc
// @Summary Newsletter signup
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body dto.NewsletterRequest true "Subscriber"
// @Success 201 {object} dto.NewsletterResult
// @Success 200 {object} dto.NewsletterResult
// @Failure 400 {object} response.FlatError
// @Router /newsletter [post]
func (h *PublicHandler) Subscribe(c *gin.Context) {
	var req dto.NewsletterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "A valid email is required"))
		return
	}

	result, created, err := h.newsletter.Subscribe(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Plain(c, status, result)
}

// Unsubscribe godoc
// @Summary One-click newsletter unsubscribe
// @Tags Public
// @Produce json
// @Param token query string true "Signed unsubscribe token"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.FlatError
// @Router /newsletter/unsubscribe [get]
func (h *PublicHandler) Unsubscribe(c *gin.Context) {
	email, err := h.newsletter.Unsubscribe(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Plain(c, http.StatusOK, gin.H{"success": true, "email": email})
}

// SubmitLead godoc
// @Summary Academy enquiry
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body dto.LeadRequest true "Lead"
// @Success 201 {object} dto.SubmissionResult
// @Failure 400 {object} response.FlatError
// @Router /academy/leads [post]
func (h *PublicHandler) SubmitLead(c *gin.Context) {
	var req dto.LeadRequest
	submitForm(c, &req, func(ctx context.Context) (*dto.SubmissionResult, error) {
		return h.submissions.SubmitLead(ctx, req)
	})
}

// SubmitContact godoc
// @Summary Contact form
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body dto.ContactRequest true "Message"
// @Success 201 {object} dto.SubmissionResult
// @Failure 400 {object} response.FlatError
// @Router /contact [post]
func (h *PublicHandler) SubmitContact(c *gin.Context) {
	var req dto.ContactRequest
	submitForm(c, &req, func(ctx context.Context) (*dto.SubmissionResult, error) {
		return h.submissions.SubmitContact(ctx, req)
	})
}

// SubmitApplication godoc
// @Summary Foundation program application
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body dto.ApplicationRequest true "Application"
// @Success 201 {object} dto.SubmissionResult
// @Failure 400 {object} response.FlatError
// @Router /ngo/applications [post]
func (h *PublicHandler) SubmitApplication(c *gin.Context) {
	var req dto.ApplicationRequest
	submitForm(c, &req, func(ctx context.Context) (*dto.SubmissionResult, error) {
		return h.submissions.SubmitApplication(ctx, req)
	})
}

// SubmitVolunteer godoc
// @Summary Volunteer sign-up
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body dto.VolunteerRequest true "Volunteer"
// @Success 201 {object} dto.SubmissionResult
// @Failure 400 {object} response.FlatError
// @Router /ngo/volunteers [post]
func (h *PublicHandler) SubmitVolunteer(c *gin.Context) {
	var req dto.VolunteerRequest
	submitForm(c, &req, func(ctx context.Context) (*dto.SubmissionResult, error) {
		return h.submissions.SubmitVolunteer(ctx, req)
	})
}

// SubmitDonation godoc
// @Summary Donation pledge
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body dto.DonationRequest true "Pledge"
// @Success 201 {object} dto.SubmissionResult
// @Failure 400 {object} response.FlatError
// @Router /ngo/donations [post]
func (h *PublicHandler) SubmitDonation(c *gin.Context) {
	var req dto.DonationRequest
	submitForm(c, &req, func(ctx context.Context) (*dto.SubmissionResult, error) {
		return h.submissions.SubmitDonation(ctx, req)
	})
}

// submitForm binds into req before calling submit, which closes over it.
func submitForm(c *gin.Context, req interface{}, submit func(context.Context) (*dto.SubmissionResult, error)) {
	if err := c.ShouldBind(req); err != nil {
		response.Fail(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Missing required fields"))
		return
	}
	result, err := submit(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Plain(c, http.StatusCreated, result)
}
