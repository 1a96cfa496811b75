package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

type tournamentStore interface {
	contentStore[models.Tournament]
	LockByID(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Tournament, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, id int64, entity *models.Tournament) error
	SyncStatuses(ctx context.Context, now time.Time) ([]int64, error)
}

type capacityPromoter interface {
	PromoteAfterCapacityChange(ctx context.Context, tx *sqlx.Tx, t *models.Tournament) ([]models.TournamentRegistration, error)
	NotifyPromoted(ctx context.Context, t *models.Tournament, promoted []models.TournamentRegistration)
}

// TournamentService manages tournaments and their photo galleries. Updates
// that add capacity promote waitlisted registrants in the same transaction.
type TournamentService struct {
	*ContentService[models.Tournament]
	Photos   *ContentService[models.TournamentPhoto]
	db       txProvider
	store    tournamentStore
	promoter capacityPromoter
	logger   *zap.Logger
}

// TournamentServiceDeps groups the collaborators of TournamentService.
type TournamentServiceDeps struct {
	DB        txProvider
	Store     tournamentStore
	Photos    contentStore[models.TournamentPhoto]
	Promoter  capacityPromoter
	Pages     pageInvalidator
	Audit     auditWriter
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewTournamentService constructs a TournamentService.
func NewTournamentService(deps TournamentServiceDeps) *TournamentService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	store := deps.Store
	tournaments := NewContentService(store, ContentOptions[models.Tournament]{
		Resource: "tournaments",
		Label:    "tournament",
		Statuses: []string{string(models.TournamentUpcoming), string(models.TournamentOngoing), string(models.TournamentCompleted)},
		Paths:    tournamentItemPaths,
		Prepare:  prepareTournament,
	}, deps.Validator, deps.Pages, deps.Audit, deps.Logger)

	photos := NewContentService(deps.Photos, ContentOptions[models.TournamentPhoto]{
		Resource: "tournament_photos",
		Label:    "photo",
		Ordered:  true,
		Paths: func(p *models.TournamentPhoto) []string {
			if p == nil {
				return []string{"/tournaments/*"}
			}
			return tournamentPaths(p.TournamentID)
		},
		Prepare: func(ctx context.Context, _ contentStore[models.TournamentPhoto], p *models.TournamentPhoto, _ int64) error {
			p.URL = strings.TrimSpace(p.URL)
			if p.TournamentID <= 0 {
				return nil
			}
			if _, err := store.FindByID(ctx, p.TournamentID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return appErrors.Clone(appErrors.ErrValidation, "tournament does not exist")
				}
				return err
			}
			return nil
		},
	}, deps.Validator, deps.Pages, deps.Audit, deps.Logger)

	return &TournamentService{
		ContentService: tournaments,
		Photos:         photos,
		db:             deps.DB,
		store:          store,
		promoter:       deps.Promoter,
		logger:         deps.Logger,
	}
}

// Update rewrites a tournament under its row lock. Raising or clearing
// maxSpots confirms waitlisted registrants before the lock is released.
func (s *TournamentService) Update(ctx context.Context, actor *Actor, id int64, item *models.Tournament) (*models.Tournament, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.prepare(ctx, item, id); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to start transaction")
	}
	defer func() { _ = tx.Rollback() }()

	before, err := s.store.LockByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.notFound()
		}
		return nil, appErrors.Internal(err, "failed to lock tournament")
	}
	if err := s.store.UpdateTx(ctx, tx, id, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.notFound()
		}
		return nil, appErrors.Internal(err, "failed to update tournament")
	}
	item.ID = id

	var promoted []models.TournamentRegistration
	if s.promoter != nil && capacityGrew(before.MaxSpots, item.MaxSpots) {
		promoted, err = s.promoter.PromoteAfterCapacityChange(ctx, tx, item)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to promote waitlist")
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Internal(err, "failed to commit tournament update")
	}

	s.afterWrite(ctx, actor, models.AuditActionUpdate, id, before, item, before, item)
	if len(promoted) > 0 {
		s.logger.Info("capacity change promoted waitlist",
			zap.Int64("tournament_id", id), zap.Int("count", len(promoted)))
		s.promoter.NotifyPromoted(ctx, item, promoted)
	}
	return item, nil
}

// SyncStatuses advances tournament lifecycles by date and drops the cached
// pages of every tournament that moved.
func (s *TournamentService) SyncStatuses(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.store.SyncStatuses(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("sync tournament statuses: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	paths := []string{"/", "/tournaments"}
	for _, id := range ids {
		paths = append(paths, "/tournaments/"+idString(id))
	}
	if s.pages != nil {
		s.pages.InvalidatePaths(ctx, paths...)
	}
	s.logger.Info("tournament statuses synced", zap.Int("count", len(ids)))
	return len(ids), nil
}

// ListPhotos returns one tournament's gallery in display order.
func (s *TournamentService) ListPhotos(ctx context.Context, actor *Actor, tournamentID int64) ([]models.TournamentPhoto, error) {
	items, _, err := s.Photos.List(ctx, actor, repository.ListFilter{
		Equals:   map[string]interface{}{"tournament_id": tournamentID},
		PageSize: 100,
	})
	return items, err
}

func tournamentItemPaths(t *models.Tournament) []string {
	if t == nil {
		return []string{"/", "/tournaments*"}
	}
	return tournamentPaths(t.ID)
}

func prepareTournament(_ context.Context, _ contentStore[models.Tournament], t *models.Tournament, _ int64) error {
	t.Title = strings.TrimSpace(t.Title)
	t.Location = strings.TrimSpace(t.Location)
	t.Tags = cleanTags(t.Tags)
	if t.Status == "" {
		t.Status = models.TournamentUpcoming
	}
	t.Status = models.TournamentStatus(strings.ToUpper(string(t.Status)))
	if t.EndDate != nil && t.EndDate.Before(t.Date) {
		return appErrors.Clone(appErrors.ErrValidation, "endDate must not be before date")
	}
	return nil
}

// capacityGrew reports whether a maxSpots change can admit waitlisted
// registrants.
func capacityGrew(before, after *int) bool {
	switch {
	case after == nil:
		return before != nil
	case before == nil:
		return false
	default:
		return *after > *before
	}
}
