package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
	"github.com/noah-isme/chess-academy-site/pkg/export"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type registrationStore interface {
	CountConfirmed(ctx context.Context, q sqlx.QueryerContext, tournamentID int64) (int, error)
	EmailRegistered(ctx context.Context, q sqlx.QueryerContext, tournamentID int64, email string) (bool, error)
	Insert(ctx context.Context, tx *sqlx.Tx, reg *models.TournamentRegistration) error
	FindByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.TournamentRegistration, error)
	Delete(ctx context.Context, tx *sqlx.Tx, id int64) error
	SetStatus(ctx context.Context, tx *sqlx.Tx, id int64, status models.RegistrationStatus) error
	PromoteWaitlisted(ctx context.Context, tx *sqlx.Tx, tournamentID int64, limit int, excludeID int64) ([]models.TournamentRegistration, error)
	ListByTournament(ctx context.Context, tournamentID int64, filter repository.RegistrationFilter) ([]models.TournamentRegistration, int, error)
	CountByStatus(ctx context.Context, tournamentID int64) (confirmed, waitlisted int, err error)
}

type tournamentLocker interface {
	FindByID(ctx context.Context, id int64) (*models.Tournament, error)
	LockByID(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Tournament, error)
}

type registrationNotifier interface {
	RegistrationReceived(ctx context.Context, t *models.Tournament, reg *models.TournamentRegistration, spotsLeft *int)
	WaitlistPromoted(ctx context.Context, t *models.Tournament, promoted []models.TournamentRegistration)
	WhatsAppLinks(t *models.Tournament, reg *models.TournamentRegistration, spotsLeft *int) dto.WhatsAppLinks
}

// RegistrationService admits tournament registrants against capacity and lets
// admins manage the resulting confirmed list and waitlist.
type RegistrationService struct {
	db            txProvider
	tournaments   tournamentLocker
	registrations registrationStore
	notifier      registrationNotifier
	pages         pageInvalidator
	audit         auditWriter
	metrics       *MetricsService
	csv           csvRenderer
	pdf           pdfRenderer
	validator     *validator.Validate
	logger        *zap.Logger
}

// RegistrationServiceDeps groups the collaborators of RegistrationService.
type RegistrationServiceDeps struct {
	DB            txProvider
	Tournaments   tournamentLocker
	Registrations registrationStore
	Notifier      registrationNotifier
	Pages         pageInvalidator
	Audit         auditWriter
	Metrics       *MetricsService
	Validator     *validator.Validate
	Logger        *zap.Logger
}

// NewRegistrationService constructs the registration service.
func NewRegistrationService(deps RegistrationServiceDeps) *RegistrationService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	return &RegistrationService{
		db:            deps.DB,
		tournaments:   deps.Tournaments,
		registrations: deps.Registrations,
		notifier:      deps.Notifier,
		pages:         deps.Pages,
		audit:         deps.Audit,
		metrics:       deps.Metrics,
		csv:           export.NewCSVExporter(),
		pdf:           export.NewPDFExporter(),
		validator:     deps.Validator,
		logger:        deps.Logger,
	}
}

// Register admits a registrant as CONFIRMED while capacity remains, otherwise
// WAITLISTED. The capacity check and insert share one transaction holding the
// tournament row lock.
func (s *RegistrationService) Register(ctx context.Context, req dto.RegisterTournamentRequest) (*dto.RegistrationResult, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.WhatsApp = strings.TrimSpace(req.WhatsApp)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Missing or invalid fields")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to start registration")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	tournament, err := s.tournaments.LockByID(ctx, tx, req.TournamentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Tournament not found")
		}
		return nil, appErrors.Internal(err, "failed to load tournament")
	}
	if tournament.Status == models.TournamentCompleted {
		return nil, appErrors.Clone(appErrors.ErrTournamentCompleted, "This tournament has already been completed")
	}

	exists, err := s.registrations.EmailRegistered(ctx, tx, tournament.ID, req.Email)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check existing registration")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrAlreadyRegistered, "This email is already registered for this tournament")
	}

	confirmed, err := s.registrations.CountConfirmed(ctx, tx, tournament.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count registrations")
	}

	status := models.RegistrationConfirmed
	if tournament.MaxSpots != nil && confirmed >= *tournament.MaxSpots {
		status = models.RegistrationWaitlisted
	}

	reg := &models.TournamentRegistration{
		TournamentID: tournament.ID,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		WhatsApp:     req.WhatsApp,
		Age:          req.Age,
		Rating:       req.Rating,
		Notes:        req.Notes,
		Status:       status,
	}
	if err := s.registrations.Insert(ctx, tx, reg); err != nil {
		if errors.Is(err, repository.ErrDuplicateRegistration) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyRegistered, "This email is already registered for this tournament")
		}
		return nil, appErrors.Internal(err, "failed to save registration")
	}

	if err := tx.Commit(); err != nil {
		return nil, appErrors.Internal(err, "failed to commit registration")
	}
	committed = true

	if status == models.RegistrationConfirmed {
		confirmed++
	}
	spotsLeft := models.SpotsLeft(tournament.MaxSpots, confirmed)

	s.metrics.RecordRegistration(string(status))
	s.invalidate(ctx, tournament.ID)
	s.logger.Info("tournament registration accepted",
		zap.Int64("tournament_id", tournament.ID),
		zap.Int64("registration_id", reg.ID),
		zap.String("status", string(status)))

	result := &dto.RegistrationResult{
		Success:      true,
		Registration: dto.RegistrationSummary{ID: reg.ID, Status: status, SpotsLeft: spotsLeft},
	}
	if s.notifier != nil {
		s.notifier.RegistrationReceived(context.WithoutCancel(ctx), tournament, reg, spotsLeft)
		result.WhatsApp = s.notifier.WhatsAppLinks(tournament, reg, spotsLeft)
	}
	return result, nil
}

// List returns a tournament's registrations with its capacity figures.
func (s *RegistrationService) List(ctx context.Context, actor *Actor, tournamentID int64, filter repository.RegistrationFilter) (*dto.RegistrationList, *models.Pagination, error) {
	if err := requireStaff(actor); err != nil {
		return nil, nil, err
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid registration status")
	}

	tournament, err := s.tournaments.FindByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "tournament not found")
		}
		return nil, nil, appErrors.Internal(err, "failed to load tournament")
	}

	items, total, err := s.registrations.ListByTournament(ctx, tournamentID, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list registrations")
	}
	confirmed, waitlisted, err := s.registrations.CountByStatus(ctx, tournamentID)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to count registrations")
	}

	page, size := repository.ListFilter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	return &dto.RegistrationList{
		Tournament:    *tournament,
		Registrations: items,
		Confirmed:     confirmed,
		Waitlisted:    waitlisted,
		SpotsLeft:     models.SpotsLeft(tournament.MaxSpots, confirmed),
	}, models.NewPagination(page, size, total), nil
}

// UpdateStatus moves a registration between CONFIRMED and WAITLISTED. Freeing
// a confirmed spot promotes the earliest waitlisted registrants.
func (s *RegistrationService) UpdateStatus(ctx context.Context, actor *Actor, id int64, req dto.UpdateRegistrationStatusRequest) (*models.TournamentRegistration, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid registration status")
	}

	var before, after *models.TournamentRegistration
	var tournament *models.Tournament
	var promoted []models.TournamentRegistration

	err := s.withTournamentLock(ctx, id, func(tx *sqlx.Tx, reg *models.TournamentRegistration, t *models.Tournament) error {
		before, tournament = reg, t
		if reg.Status == req.Status {
			after = reg
			return nil
		}
		if err := s.registrations.SetStatus(ctx, tx, id, req.Status); err != nil {
			return err
		}
		if reg.Status == models.RegistrationConfirmed {
			p, err := s.promote(ctx, tx, t, reg.ID)
			if err != nil {
				return err
			}
			promoted = p
		}
		updated := *reg
		updated.Status = req.Status
		after = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if before.Status != after.Status {
		s.afterChange(ctx, actor, tournament, promoted, auditEntry{
			action: models.AuditActionStatus, resource: "tournament_registrations", resourceID: idString(id),
			before: map[string]string{"status": string(before.Status)}, after: map[string]string{"status": string(after.Status)},
		})
	}
	return after, nil
}

// Delete removes a registration; a freed confirmed spot is refilled from the
// waitlist.
func (s *RegistrationService) Delete(ctx context.Context, actor *Actor, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	var removed *models.TournamentRegistration
	var tournament *models.Tournament
	var promoted []models.TournamentRegistration

	err := s.withTournamentLock(ctx, id, func(tx *sqlx.Tx, reg *models.TournamentRegistration, t *models.Tournament) error {
		removed, tournament = reg, t
		if err := s.registrations.Delete(ctx, tx, id); err != nil {
			return err
		}
		if reg.Status == models.RegistrationConfirmed {
			p, err := s.promote(ctx, tx, t, 0)
			if err != nil {
				return err
			}
			promoted = p
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterChange(ctx, actor, tournament, promoted, auditEntry{
		action: models.AuditActionDelete, resource: "tournament_registrations", resourceID: idString(id), before: removed,
	})
	return nil
}

// PromoteAfterCapacityChange fills newly available spots inside tx, which must
// hold the tournament row lock. t carries the updated capacity; clearing it
// confirms the whole waitlist.
func (s *RegistrationService) PromoteAfterCapacityChange(ctx context.Context, tx *sqlx.Tx, t *models.Tournament) ([]models.TournamentRegistration, error) {
	if t.MaxSpots == nil {
		return s.registrations.PromoteWaitlisted(ctx, tx, t.ID, math.MaxInt32, 0)
	}
	return s.promote(ctx, tx, t, 0)
}

// NotifyPromoted sends promotion emails and refreshes the tournament pages.
func (s *RegistrationService) NotifyPromoted(ctx context.Context, t *models.Tournament, promoted []models.TournamentRegistration) {
	if len(promoted) == 0 {
		return
	}
	s.logger.Info("waitlist promoted", zap.Int64("tournament_id", t.ID), zap.Int("count", len(promoted)))
	if s.notifier != nil {
		s.notifier.WaitlistPromoted(context.WithoutCancel(ctx), t, promoted)
	}
}

// Export renders every registration of a tournament as CSV or PDF.
func (s *RegistrationService) Export(ctx context.Context, actor *Actor, tournamentID int64, format string) (*ExportFile, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	tournament, err := s.tournaments.FindByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tournament not found")
		}
		return nil, appErrors.Internal(err, "failed to load tournament")
	}
	items, _, err := s.registrations.ListByTournament(ctx, tournamentID, repository.RegistrationFilter{PageSize: -1})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list registrations")
	}

	dataset := export.Dataset{Headers: []string{"ID", "Name", "Email", "Phone", "WhatsApp", "Age", "Rating", "Status", "Registered", "Notes"}}
	for _, r := range items {
		dataset.Rows = append(dataset.Rows, rowOf(dataset.Headers,
			idString(r.ID), r.FullName, r.Email, r.Phone, r.WhatsApp,
			optionalInt(r.Age), optionalInt(r.Rating), string(r.Status),
			r.CreatedAt.Format("2006-01-02 15:04"), r.Notes,
		))
	}
	return renderExport(s.csv, s.pdf, dataset, "registrations-"+idString(tournamentID), tournament.Title+" registrations", format)
}

func (s *RegistrationService) withTournamentLock(ctx context.Context, registrationID int64, fn func(tx *sqlx.Tx, reg *models.TournamentRegistration, t *models.Tournament) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Internal(err, "failed to start transaction")
	}
	defer func() { _ = tx.Rollback() }()

	reg, err := s.registrations.FindByID(ctx, tx, registrationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return appErrors.Internal(err, "failed to load registration")
	}
	tournament, err := s.tournaments.LockByID(ctx, tx, reg.TournamentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "tournament not found")
		}
		return appErrors.Internal(err, "failed to lock tournament")
	}
	// Re-read under the lock so a concurrent change is not overwritten.
	if reg, err = s.registrations.FindByID(ctx, tx, registrationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return appErrors.Internal(err, "failed to load registration")
	}

	if err := fn(tx, reg, tournament); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return appErrors.Internal(err, "failed to update registration")
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Internal(err, "failed to commit registration change")
	}
	return nil
}

// promote confirms waitlisted registrants into free capacity. Uncapped
// tournaments keep their waitlist as the admin left it.
func (s *RegistrationService) promote(ctx context.Context, tx *sqlx.Tx, t *models.Tournament, excludeID int64) ([]models.TournamentRegistration, error) {
	if t.MaxSpots == nil {
		return nil, nil
	}
	confirmed, err := s.registrations.CountConfirmed(ctx, tx, t.ID)
	if err != nil {
		return nil, err
	}
	free := *t.MaxSpots - confirmed
	if free <= 0 {
		return nil, nil
	}
	return s.registrations.PromoteWaitlisted(ctx, tx, t.ID, free, excludeID)
}

func (s *RegistrationService) afterChange(ctx context.Context, actor *Actor, t *models.Tournament, promoted []models.TournamentRegistration, entry auditEntry) {
	s.invalidate(ctx, t.ID)
	recordAudit(ctx, s.audit, s.logger, actor, entry)
	s.NotifyPromoted(ctx, t, promoted)
}

func (s *RegistrationService) invalidate(ctx context.Context, tournamentID int64) {
	if s.pages == nil {
		return
	}
	s.pages.InvalidatePaths(ctx, tournamentPaths(tournamentID)...)
}

func tournamentPaths(id int64) []string {
	return []string{"/", "/tournaments", "/tournaments/" + idString(id)}
}
