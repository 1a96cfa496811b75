package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/chess-academy-site/internal/models"
)

// TournamentRepository adds public listings, gallery photos and lifecycle
// syncing on top of the generic tournament CRUD.
type TournamentRepository struct {
	*CRUDRepository[models.Tournament]
	Photos *CRUDRepository[models.TournamentPhoto]
	db     *sqlx.DB
}

// NewTournamentRepository creates a tournament repository.
func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{
		CRUDRepository: NewCRUDRepository[models.Tournament](db, TournamentsTable),
		Photos:         NewCRUDRepository[models.TournamentPhoto](db, TournamentPhotosTable),
		db:             db,
	}
}

// ListFeatured returns featured tournaments that have not finished, soonest first.
func (r *TournamentRepository) ListFeatured(ctx context.Context, limit int) ([]models.Tournament, error) {
	const query = `SELECT * FROM tournaments WHERE featured = TRUE AND status <> 'COMPLETED' ORDER BY date ASC LIMIT $1`
	items := make([]models.Tournament, 0)
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("list featured tournaments: %w", err)
	}
	return items, nil
}

// ListUpcoming returns upcoming and ongoing tournaments, soonest first.
func (r *TournamentRepository) ListUpcoming(ctx context.Context, limit int) ([]models.Tournament, error) {
	const query = `SELECT * FROM tournaments WHERE status IN ('UPCOMING', 'ONGOING') ORDER BY date ASC LIMIT $1`
	items := make([]models.Tournament, 0)
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("list upcoming tournaments: %w", err)
	}
	return items, nil
}

// ListCompleted returns finished tournaments, most recent first.
func (r *TournamentRepository) ListCompleted(ctx context.Context, limit int) ([]models.Tournament, error) {
	const query = `SELECT * FROM tournaments WHERE status = 'COMPLETED' ORDER BY date DESC LIMIT $1`
	items := make([]models.Tournament, 0)
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("list completed tournaments: %w", err)
	}
	return items, nil
}

// ListPhotos returns the gallery of a tournament in display order.
func (r *TournamentRepository) ListPhotos(ctx context.Context, tournamentID int64) ([]models.TournamentPhoto, error) {
	const query = `SELECT * FROM tournament_photos WHERE tournament_id = $1 ORDER BY sort_order ASC, id ASC`
	items := make([]models.TournamentPhoto, 0)
	if err := r.db.SelectContext(ctx, &items, query, tournamentID); err != nil {
		return nil, fmt.Errorf("list tournament photos: %w", err)
	}
	return items, nil
}

// LockByID loads a tournament inside tx holding a row lock until tx ends.
// sql.ErrNoRows is returned unwrapped.
func (r *TournamentRepository) LockByID(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Tournament, error) {
	var t models.Tournament
	if err := tx.GetContext(ctx, &t, `SELECT * FROM tournaments WHERE id = $1 FOR UPDATE`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock tournament: %w", err)
	}
	return &t, nil
}

// SyncStatuses moves tournaments along UPCOMING -> ONGOING -> COMPLETED based on
// their dates. A tournament completes the day after its end date, or after its
// start date when it has no end date. Returns the ids that changed.
func (r *TournamentRepository) SyncStatuses(ctx context.Context, now time.Time) ([]int64, error) {
	const query = `UPDATE tournaments
SET status = CASE WHEN COALESCE(end_date, date) + INTERVAL '1 day' <= $1 THEN 'COMPLETED' ELSE 'ONGOING' END,
    updated_at = NOW()
WHERE status <> 'COMPLETED'
  AND date <= $1
  AND (status = 'UPCOMING' OR COALESCE(end_date, date) + INTERVAL '1 day' <= $1)
RETURNING id`
	ids := make([]int64, 0)
	if err := r.db.SelectContext(ctx, &ids, query, now); err != nil {
		return nil, fmt.Errorf("sync tournament statuses: %w", err)
	}
	return ids, nil
}
