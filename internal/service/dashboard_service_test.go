package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/models"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

type fakeDashboardRepo struct {
	summary models.DashboardSummary
	calls   int
	err     error
}

func (f *fakeDashboardRepo) Summary(context.Context) (*models.DashboardSummary, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s := f.summary
	return &s, nil
}

func TestDashboardServiceAdmin_ComposesAndCaches(t *testing.T) {
	repo := &fakeDashboardRepo{summary: models.DashboardSummary{NewLeads: 4, PendingApplications: 2, WaitlistedRegistrations: 3, DonationTotal: 1500}}
	cacheSvc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(repo, cacheSvc, nil, time.Minute, zap.NewNop())
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	result, hit, err := svc.Admin(ctx, adminActor())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 4, result.Summary.NewLeads)
	assert.Equal(t, 3, result.Summary.WaitlistedRegistrations)
	assert.True(t, now.Equal(result.Summary.GeneratedAt))

	cached, hit, err := svc.Admin(ctx, &Actor{UserID: "ed", Role: models.RoleEditor})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, result.Summary.DonationTotal, cached.Summary.DonationTotal)
	assert.Equal(t, 1, repo.calls)
}

func TestDashboardServiceAdmin_Errors(t *testing.T) {
	repo := &fakeDashboardRepo{err: errors.New("boom")}
	svc := NewDashboardService(repo, nil, nil, 0, nil)

	_, _, err := svc.Admin(context.Background(), nil)
	assert.Equal(t, http.StatusUnauthorized, appErrors.FromError(err).Status)

	_, _, err = svc.Admin(context.Background(), adminActor())
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}
