package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/chess-academy-site/internal/models"
)

// SubscriberRepository manages newsletter subscribers.
type SubscriberRepository struct {
	*CRUDRepository[models.Subscriber]
	db *sqlx.DB
}

// NewSubscriberRepository creates a subscriber repository.
func NewSubscriberRepository(db *sqlx.DB) *SubscriberRepository {
	return &SubscriberRepository{CRUDRepository: NewCRUDRepository[models.Subscriber](db, SubscribersTable), db: db}
}

// Subscribe inserts email or reactivates an existing row. created reports
// whether the address was new or previously unsubscribed.
func (r *SubscriberRepository) Subscribe(ctx context.Context, email, source string) (sub *models.Subscriber, created bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin subscribe: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var existing models.Subscriber
	err = tx.GetContext(ctx, &existing, `SELECT * FROM subscribers WHERE lower(email) = lower($1) FOR UPDATE`, email)
	switch {
	case err == sql.ErrNoRows:
		var inserted models.Subscriber
		const insert = `INSERT INTO subscribers (email, active, source) VALUES ($1, TRUE, $2) RETURNING *`
		if err := tx.GetContext(ctx, &inserted, insert, email, source); err != nil {
			return nil, false, fmt.Errorf("insert subscriber: %w", err)
		}
		sub, created = &inserted, true
	case err != nil:
		return nil, false, fmt.Errorf("find subscriber: %w", err)
	case existing.Active:
		sub = &existing
	default:
		var reactivated models.Subscriber
		const update = `UPDATE subscribers SET active = TRUE, unsubscribed_at = NULL, updated_at = NOW() WHERE id = $1 RETURNING *`
		if err := tx.GetContext(ctx, &reactivated, update, existing.ID); err != nil {
			return nil, false, fmt.Errorf("reactivate subscriber: %w", err)
		}
		sub, created = &reactivated, true
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit subscribe: %w", err)
	}
	return sub, created, nil
}

// Unsubscribe deactivates email. sql.ErrNoRows is returned when no row matches.
func (r *SubscriberRepository) Unsubscribe(ctx context.Context, email string) error {
	const query = `UPDATE subscribers SET active = FALSE, unsubscribed_at = COALESCE(unsubscribed_at, NOW()), updated_at = NOW() WHERE lower(email) = lower($1)`
	result, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
