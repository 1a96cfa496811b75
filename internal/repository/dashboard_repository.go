package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/chess-academy-site/internal/models"
)

// DashboardRepository computes the admin overview counters.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository creates a dashboard repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Summary returns the current counters in a single round trip.
func (r *DashboardRepository) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	const query = `SELECT
    (SELECT COUNT(*) FROM academy_leads WHERE status = 'NEW') AS new_leads,
    (SELECT COUNT(*) FROM ngo_applications WHERE status = 'PENDING') AS pending_applications,
    (SELECT COUNT(*) FROM ngo_volunteers WHERE status = 'PENDING') AS pending_volunteers,
    (SELECT COUNT(*) FROM tournaments WHERE status IN ('UPCOMING', 'ONGOING')) AS upcoming_tournaments,
    (SELECT COUNT(*) FROM tournament_registrations r JOIN tournaments t ON t.id = r.tournament_id
        WHERE r.status = 'CONFIRMED' AND t.status <> 'COMPLETED') AS confirmed_registrations,
    (SELECT COUNT(*) FROM tournament_registrations r JOIN tournaments t ON t.id = r.tournament_id
        WHERE r.status = 'WAITLISTED' AND t.status <> 'COMPLETED') AS waitlisted_registrations,
    (SELECT COUNT(*) FROM subscribers WHERE active = TRUE) AS active_subscribers,
    (SELECT COALESCE(SUM(amount), 0) FROM ngo_donations WHERE status = 'COMPLETED') AS donation_total`
	var summary models.DashboardSummary
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	return &summary, nil
}
