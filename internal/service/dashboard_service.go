package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/models"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

const dashboardCacheKey = "dash:admin:summary"

// AdminDashboard is the admin landing payload.
type AdminDashboard struct {
	Summary models.DashboardSummary `json:"summary"`
	Metrics MetricsSnapshot         `json:"metrics"`
}

type dashboardSummaryRepository interface {
	Summary(ctx context.Context) (*models.DashboardSummary, error)
}

// DashboardService composes the admin landing page: outstanding work counts
// plus a runtime metrics snapshot.
type DashboardService struct {
	repo    dashboardSummaryRepository
	cache   *CacheService
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(repo dashboardSummaryRepository, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, metrics: metrics, ttl: ttl, logger: logger, now: time.Now}
}

// Admin returns the dashboard and whether the counts came from cache.
func (s *DashboardService) Admin(ctx context.Context, actor *Actor) (*AdminDashboard, bool, error) {
	if err := requireStaff(actor); err != nil {
		return nil, false, err
	}

	var summary models.DashboardSummary
	hit, err := s.cache.Get(ctx, dashboardCacheKey, &summary)
	if err != nil {
		hit = false
	}
	if !hit {
		fresh, err := s.repo.Summary(ctx)
		if err != nil {
			return nil, false, appErrors.Internal(err, "failed to load dashboard")
		}
		fresh.GeneratedAt = s.now().UTC()
		summary = *fresh
		if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}

	return &AdminDashboard{Summary: summary, Metrics: s.metrics.Snapshot()}, hit, nil
}
