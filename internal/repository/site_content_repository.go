package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/chess-academy-site/internal/models"
)

// SiteContentRepository stores editable page sections keyed by name.
type SiteContentRepository struct {
	db *sqlx.DB
}

// NewSiteContentRepository creates a site content repository.
func NewSiteContentRepository(db *sqlx.DB) *SiteContentRepository {
	return &SiteContentRepository{db: db}
}

// Get returns the stored section. sql.ErrNoRows is returned unwrapped.
func (r *SiteContentRepository) Get(ctx context.Context, key string) (*models.SiteContent, error) {
	var content models.SiteContent
	const query = `SELECT key, kind, value, updated_by, updated_at FROM site_content WHERE key = $1`
	if err := r.db.GetContext(ctx, &content, query, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get site content: %w", err)
	}
	return &content, nil
}

// GetMany returns the stored sections among keys.
func (r *SiteContentRepository) GetMany(ctx context.Context, keys []string) ([]models.SiteContent, error) {
	items := make([]models.SiteContent, 0, len(keys))
	if len(keys) == 0 {
		return items, nil
	}
	query, args, err := sqlx.In(`SELECT key, kind, value, updated_by, updated_at FROM site_content WHERE key IN (?)`, keys)
	if err != nil {
		return nil, fmt.Errorf("build site content query: %w", err)
	}
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list site content: %w", err)
	}
	return items, nil
}

// Upsert writes the section value for its key.
func (r *SiteContentRepository) Upsert(ctx context.Context, content *models.SiteContent) error {
	const query = `INSERT INTO site_content (key, kind, value, updated_by, updated_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (key) DO UPDATE SET kind = EXCLUDED.kind, value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = NOW()
RETURNING updated_at`
	if err := r.db.GetContext(ctx, &content.UpdatedAt, query, content.Key, content.Kind, content.Value, content.UpdatedBy); err != nil {
		return fmt.Errorf("upsert site content: %w", err)
	}
	return nil
}

// Delete removes the stored override so the default applies again.
func (r *SiteContentRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM site_content WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete site content: %w", err)
	}
	return nil
}
