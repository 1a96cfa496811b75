package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/chess-academy-site/internal/models"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

type lockingTournamentStore struct {
	*memoryStore[models.Tournament]
	locked []int64
	synced []int64
}

func (s *lockingTournamentStore) SyncStatuses(context.Context, time.Time) ([]int64, error) {
	return s.synced, nil
}

func (s *lockingTournamentStore) LockByID(ctx context.Context, _ *sqlx.Tx, id int64) (*models.Tournament, error) {
	s.locked = append(s.locked, id)
	return s.FindByID(ctx, id)
}

func (s *lockingTournamentStore) UpdateTx(ctx context.Context, _ *sqlx.Tx, id int64, t *models.Tournament) error {
	return s.Update(ctx, id, t)
}

type fakePromoter struct {
	promotedFor []int64
	notified    int
	result      []models.TournamentRegistration
}

func (f *fakePromoter) PromoteAfterCapacityChange(_ context.Context, _ *sqlx.Tx, t *models.Tournament) ([]models.TournamentRegistration, error) {
	f.promotedFor = append(f.promotedFor, t.ID)
	return f.result, nil
}

func (f *fakePromoter) NotifyPromoted(_ context.Context, _ *models.Tournament, promoted []models.TournamentRegistration) {
	f.notified += len(promoted)
}

type tournamentFixture struct {
	svc      *TournamentService
	mock     sqlmock.Sqlmock
	store    *lockingTournamentStore
	promoter *fakePromoter
	pages    *recordingPages
}

func newTournamentFixture(t *testing.T) *tournamentFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := &lockingTournamentStore{memoryStore: newMemoryStore(
		func(t *models.Tournament, id int64) { t.ID = id },
		func(t models.Tournament) int64 { return t.ID },
	)}
	photos := newMemoryStore(func(p *models.TournamentPhoto, id int64) { p.ID = id }, func(p models.TournamentPhoto) int64 { return p.ID })
	f := &tournamentFixture{mock: mock, store: store, promoter: &fakePromoter{}, pages: &recordingPages{}}
	f.svc = NewTournamentService(TournamentServiceDeps{
		DB:       sqlx.NewDb(db, "postgres"),
		Store:    store,
		Photos:   photos,
		Promoter: f.promoter,
		Pages:    f.pages,
		Audit:    &recordingAudit{},
	})
	return f
}

func (f *tournamentFixture) seed(maxSpots *int) *models.Tournament {
	t := models.Tournament{Title: "Rapid Open", Date: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), Location: "Pune", Status: models.TournamentUpcoming, MaxSpots: maxSpots}
	_ = f.store.Create(context.Background(), &t)
	return &t
}

func TestTournamentUpdateRaisingCapacityPromotes(t *testing.T) {
	f := newTournamentFixture(t)
	existing := f.seed(intPtr(2))
	f.promoter.result = []models.TournamentRegistration{{ID: 9, TournamentID: existing.ID}}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	next := *existing
	next.MaxSpots = intPtr(4)
	updated, err := f.svc.Update(context.Background(), adminActor(), existing.ID, &next)
	require.NoError(t, err)
	assert.Equal(t, 4, *updated.MaxSpots)
	assert.Equal(t, []int64{existing.ID}, f.store.locked)
	assert.Equal(t, []int64{existing.ID}, f.promoter.promotedFor)
	assert.Equal(t, 1, f.promoter.notified)
	assert.Contains(t, f.pages.paths, "/tournaments/1")
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestTournamentUpdateClearingCapacityPromotes(t *testing.T) {
	f := newTournamentFixture(t)
	existing := f.seed(intPtr(2))

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	next := *existing
	next.MaxSpots = nil
	_, err := f.svc.Update(context.Background(), adminActor(), existing.ID, &next)
	require.NoError(t, err)
	assert.Len(t, f.promoter.promotedFor, 1)
	assert.Zero(t, f.promoter.notified)
}

func TestTournamentUpdateLoweringCapacityDoesNotPromote(t *testing.T) {
	f := newTournamentFixture(t)
	existing := f.seed(intPtr(8))

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	next := *existing
	next.MaxSpots = intPtr(3)
	next.Description = "Seven rounds"
	_, err := f.svc.Update(context.Background(), adminActor(), existing.ID, &next)
	require.NoError(t, err)
	assert.Empty(t, f.promoter.promotedFor)
}

func TestTournamentUpdateUnknownRollsBack(t *testing.T) {
	f := newTournamentFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	next := models.Tournament{Title: "Ghost", Date: time.Now(), Location: "Nowhere"}
	_, err := f.svc.Update(context.Background(), adminActor(), 42, &next)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestTournamentPrepareRejectsEndBeforeStart(t *testing.T) {
	f := newTournamentFixture(t)
	end := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.Create(context.Background(), adminActor(), &models.Tournament{
		Title: "Blitz", Date: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), EndDate: &end, Location: "Pune",
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "endDate")
}

func TestTournamentCreateDefaultsStatus(t *testing.T) {
	f := newTournamentFixture(t)

	created, err := f.svc.Create(context.Background(), adminActor(), &models.Tournament{
		Title: " Blitz ", Date: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), Location: "Pune", Tags: []string{"Blitz"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Blitz", created.Title)
	assert.Equal(t, models.TournamentUpcoming, created.Status)
	assert.Equal(t, []string{"blitz"}, []string(created.Tags))
}

func TestTournamentPhotoRequiresExistingTournament(t *testing.T) {
	f := newTournamentFixture(t)
	existing := f.seed(nil)

	_, err := f.svc.Photos.Create(context.Background(), adminActor(), &models.TournamentPhoto{TournamentID: 77, URL: "/uploads/a.jpg"})
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)

	photo, err := f.svc.Photos.Create(context.Background(), adminActor(), &models.TournamentPhoto{TournamentID: existing.ID, URL: " /uploads/a.jpg "})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.jpg", photo.URL)
}

func TestCapacityGrew(t *testing.T) {
	cases := []struct {
		name          string
		before, after *int
		want          bool
	}{
		{"raised", intPtr(2), intPtr(3), true},
		{"lowered", intPtr(3), intPtr(2), false},
		{"unchanged", intPtr(3), intPtr(3), false},
		{"cleared", intPtr(3), nil, true},
		{"capped", nil, intPtr(3), false},
		{"still uncapped", nil, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, capacityGrew(tc.before, tc.after))
		})
	}
}

func TestSyncStatusesInvalidatesMovedTournaments(t *testing.T) {
	f := newTournamentFixture(t)

	moved, err := f.svc.SyncStatuses(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, moved)
	assert.Empty(t, f.pages.paths)

	f.store.synced = []int64{4, 9}
	moved, err = f.svc.SyncStatuses(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, moved)
	assert.Equal(t, []string{"/", "/tournaments", "/tournaments/4", "/tournaments/9"}, f.pages.paths)
}
