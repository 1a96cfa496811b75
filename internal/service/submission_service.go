package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/models"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

type creator[T any] interface {
	Create(ctx context.Context, entity *T) error
}

// SubmissionServiceDeps groups the stores public forms write to.
type SubmissionServiceDeps struct {
	Leads        creator[models.AcademyLead]
	Applications creator[models.NGOApplication]
	Volunteers   creator[models.NGOVolunteer]
	Donations    creator[models.NGODonation]
	Validator    *validator.Validate
	Logger       *zap.Logger
}

// SubmissionService records public form submissions. Every submission starts
// at the first status of its lifecycle; only admins move it on.
type SubmissionService struct {
	leads        creator[models.AcademyLead]
	applications creator[models.NGOApplication]
	volunteers   creator[models.NGOVolunteer]
	donations    creator[models.NGODonation]
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(deps SubmissionServiceDeps) *SubmissionService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	return &SubmissionService{
		leads:        deps.Leads,
		applications: deps.Applications,
		volunteers:   deps.Volunteers,
		donations:    deps.Donations,
		validator:    deps.Validator,
		logger:       deps.Logger,
	}
}

// SubmitLead records an academy enquiry as NEW.
func (s *SubmissionService) SubmitLead(ctx context.Context, req dto.LeadRequest) (*dto.SubmissionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Missing or invalid fields")
	}
	lead := &models.AcademyLead{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		ChildName: strings.TrimSpace(req.ChildName),
		Age:       req.Age,
		Program:   strings.TrimSpace(req.Program),
		Message:   strings.TrimSpace(req.Message),
		Source:    models.LeadSourceAcademy,
		Status:    models.LeadNew,
	}
	_ = prepareLead(ctx, nil, lead, 0)
	return submit(ctx, s, s.leads, lead, "lead", lead.Email)
}

// SubmitContact records a contact-form message as a lead from the contact page.
func (s *SubmissionService) SubmitContact(ctx context.Context, req dto.ContactRequest) (*dto.SubmissionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Missing or invalid fields")
	}
	lead := &models.AcademyLead{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: strings.TrimSpace(req.Message),
		Source:  models.LeadSourceContact,
		Status:  models.LeadNew,
	}
	_ = prepareLead(ctx, nil, lead, 0)
	return submit(ctx, s, s.leads, lead, "contact", lead.Email)
}

// SubmitApplication records a foundation program application as PENDING.
func (s *SubmissionService) SubmitApplication(ctx context.Context, req dto.ApplicationRequest) (*dto.SubmissionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Missing or invalid fields")
	}
	app := &models.NGOApplication{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		Organization: strings.TrimSpace(req.Organization),
		Program:      strings.TrimSpace(req.Program),
		Message:      strings.TrimSpace(req.Message),
		Status:       models.ReviewPending,
	}
	_ = prepareApplication(ctx, nil, app, 0)
	return submit(ctx, s, s.applications, app, "application", app.Email)
}

// SubmitVolunteer records a volunteer sign-up as PENDING.
func (s *SubmissionService) SubmitVolunteer(ctx context.Context, req dto.VolunteerRequest) (*dto.SubmissionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Missing or invalid fields")
	}
	v := &models.NGOVolunteer{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		Skills:       strings.TrimSpace(req.Skills),
		Availability: strings.TrimSpace(req.Availability),
		Message:      strings.TrimSpace(req.Message),
		Status:       models.ReviewPending,
	}
	_ = prepareVolunteer(ctx, nil, v, 0)
	return submit(ctx, s, s.volunteers, v, "volunteer", v.Email)
}

// SubmitDonation records a donation pledge as PENDING.
func (s *SubmissionService) SubmitDonation(ctx context.Context, req dto.DonationRequest) (*dto.SubmissionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Missing or invalid fields")
	}
	d := &models.NGODonation{
		DonorName: strings.TrimSpace(req.DonorName),
		Email:     req.Email,
		Phone:     strings.TrimSpace(req.Phone),
		Amount:    req.Amount,
		Currency:  req.Currency,
		Message:   strings.TrimSpace(req.Message),
		Status:    models.DonationPending,
	}
	_ = prepareDonation(ctx, nil, d, 0)
	return submit(ctx, s, s.donations, d, "donation", d.Email)
}

func submit[T any](ctx context.Context, s *SubmissionService, store creator[T], item *T, kind, email string) (*dto.SubmissionResult, error) {
	if err := store.Create(ctx, item); err != nil {
		return nil, appErrors.Internal(err, "Failed to submit "+kind)
	}
	id := entityID(item)
	s.logger.Info("public submission received", zap.String("kind", kind), zap.Int64("id", id), zap.String("email", email))
	return &dto.SubmissionResult{Success: true, ID: id}, nil
}
