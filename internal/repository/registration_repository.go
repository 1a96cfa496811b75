package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/chess-academy-site/internal/models"
)

// ErrDuplicateRegistration is returned when the (tournament, lower(email))
// unique index rejects an insert.
var ErrDuplicateRegistration = errors.New("registration already exists for email")

const uniqueViolation = "23505"

const registrationColumns = `id, tournament_id, full_name, email, phone, whatsapp, age, rating, notes, status, created_at, updated_at`

// RegistrationFilter narrows admin registration listings.
type RegistrationFilter struct {
	Status   *models.RegistrationStatus
	Search   string
	Page     int
	PageSize int
}

// RegistrationRepository stores tournament registrations. Capacity-sensitive
// methods take the transaction that holds the tournament row lock.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository creates a registration repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// CountConfirmed counts CONFIRMED registrations of a tournament.
func (r *RegistrationRepository) CountConfirmed(ctx context.Context, q sqlx.QueryerContext, tournamentID int64) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM tournament_registrations WHERE tournament_id = $1 AND status = 'CONFIRMED'`
	if err := sqlx.GetContext(ctx, q, &count, query, tournamentID); err != nil {
		return 0, fmt.Errorf("count confirmed registrations: %w", err)
	}
	return count, nil
}

// EmailRegistered reports whether email (case-insensitive) already holds a
// registration of any status for the tournament.
func (r *RegistrationRepository) EmailRegistered(ctx context.Context, q sqlx.QueryerContext, tournamentID int64, email string) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM tournament_registrations WHERE tournament_id = $1 AND lower(email) = lower($2))`
	if err := sqlx.GetContext(ctx, q, &exists, query, tournamentID, email); err != nil {
		return false, fmt.Errorf("check registration email: %w", err)
	}
	return exists, nil
}

// Insert stores reg and fills its generated fields.
func (r *RegistrationRepository) Insert(ctx context.Context, tx *sqlx.Tx, reg *models.TournamentRegistration) error {
	const query = `INSERT INTO tournament_registrations (tournament_id, full_name, email, phone, whatsapp, age, rating, notes, status)
VALUES (:tournament_id, :full_name, :email, :phone, :whatsapp, :age, :rating, :notes, :status)
RETURNING ` + registrationColumns
	bound, args, err := tx.BindNamed(query, reg)
	if err != nil {
		return fmt.Errorf("bind registration insert: %w", err)
	}
	if err := tx.QueryRowxContext(ctx, bound, args...).StructScan(reg); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateRegistration
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// FindByID returns a registration. sql.ErrNoRows is returned unwrapped.
func (r *RegistrationRepository) FindByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.TournamentRegistration, error) {
	var reg models.TournamentRegistration
	query := `SELECT ` + registrationColumns + ` FROM tournament_registrations WHERE id = $1`
	if err := sqlx.GetContext(ctx, q, &reg, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return &reg, nil
}

// Delete removes a registration inside tx.
func (r *RegistrationRepository) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM tournament_registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetStatus changes the status of a registration inside tx.
func (r *RegistrationRepository) SetStatus(ctx context.Context, tx *sqlx.Tx, id int64, status models.RegistrationStatus) error {
	const query = `UPDATE tournament_registrations SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	return nil
}

// PromoteWaitlisted confirms up to limit of the earliest WAITLISTED
// registrations (by creation time, then id) and returns them. A non-zero
// excludeID is never promoted.
func (r *RegistrationRepository) PromoteWaitlisted(ctx context.Context, tx *sqlx.Tx, tournamentID int64, limit int, excludeID int64) ([]models.TournamentRegistration, error) {
	promoted := make([]models.TournamentRegistration, 0)
	if limit <= 0 {
		return promoted, nil
	}
	query := `UPDATE tournament_registrations SET status = 'CONFIRMED', updated_at = NOW()
WHERE id IN (
    SELECT id FROM tournament_registrations
    WHERE tournament_id = $1 AND status = 'WAITLISTED' AND id <> $3
    ORDER BY created_at ASC, id ASC
    LIMIT $2
)
RETURNING ` + registrationColumns
	if err := tx.SelectContext(ctx, &promoted, query, tournamentID, limit, excludeID); err != nil {
		return nil, fmt.Errorf("promote waitlisted registrations: %w", err)
	}
	return promoted, nil
}

// ListByTournament returns registrations of a tournament in arrival order.
func (r *RegistrationRepository) ListByTournament(ctx context.Context, tournamentID int64, filter RegistrationFilter) ([]models.TournamentRegistration, int, error) {
	conditions := []string{"tournament_id = $1"}
	args := []interface{}{tournamentID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args), len(args)))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	limitClause := ""
	if filter.PageSize >= 0 {
		page, size := ListFilter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
		limitClause = fmt.Sprintf(" LIMIT %d OFFSET %d", size, (page-1)*size)
	}

	items := make([]models.TournamentRegistration, 0)
	query := `SELECT ` + registrationColumns + ` FROM tournament_registrations` + where + ` ORDER BY created_at ASC, id ASC` + limitClause
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tournament_registrations`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count registrations: %w", err)
	}
	return items, total, nil
}

// CountByStatus returns confirmed and waitlisted totals for a tournament.
func (r *RegistrationRepository) CountByStatus(ctx context.Context, tournamentID int64) (confirmed, waitlisted int, err error) {
	const query = `SELECT
    COUNT(*) FILTER (WHERE status = 'CONFIRMED') AS confirmed,
    COUNT(*) FILTER (WHERE status = 'WAITLISTED') AS waitlisted
FROM tournament_registrations WHERE tournament_id = $1`
	var row struct {
		Confirmed  int `db:"confirmed"`
		Waitlisted int `db:"waitlisted"`
	}
	if err := r.db.GetContext(ctx, &row, query, tournamentID); err != nil {
		return 0, 0, fmt.Errorf("count registrations by status: %w", err)
	}
	return row.Confirmed, row.Waitlisted, nil
}
