package service

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

type fakeTournaments struct {
	items  map[int64]models.Tournament
	locked []int64
}

func (f *fakeTournaments) FindByID(_ context.Context, id int64) (*models.Tournament, error) {
	t, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &t, nil
}

func (f *fakeTournaments) LockByID(ctx context.Context, _ *sqlx.Tx, id int64) (*models.Tournament, error) {
	f.locked = append(f.locked, id)
	return f.FindByID(ctx, id)
}

type fakeRegistrations struct {
	items     []models.TournamentRegistration
	nextID    int64
	insertErr error
}

func (f *fakeRegistrations) seed(tournamentID int64, email string, status models.RegistrationStatus) int64 {
	f.nextID++
	f.items = append(f.items, models.TournamentRegistration{
		ID: f.nextID, TournamentID: tournamentID, FullName: "Player " + email, Email: email,
		Phone: "+91 98765 43210", Status: status, CreatedAt: time.Unix(f.nextID, 0),
	})
	return f.nextID
}

func (f *fakeRegistrations) CountConfirmed(_ context.Context, _ sqlx.QueryerContext, tournamentID int64) (int, error) {
	confirmed, _, _ := f.CountByStatus(context.Background(), tournamentID)
	return confirmed, nil
}

func (f *fakeRegistrations) EmailRegistered(_ context.Context, _ sqlx.QueryerContext, tournamentID int64, email string) (bool, error) {
	for _, r := range f.items {
		if r.TournamentID == tournamentID && strings.EqualFold(r.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegistrations) Insert(_ context.Context, _ *sqlx.Tx, reg *models.TournamentRegistration) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	reg.ID = f.nextID
	reg.CreatedAt = time.Unix(f.nextID, 0)
	f.items = append(f.items, *reg)
	return nil
}

func (f *fakeRegistrations) FindByID(_ context.Context, _ sqlx.QueryerContext, id int64) (*models.TournamentRegistration, error) {
	for _, r := range f.items {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRegistrations) Delete(_ context.Context, _ *sqlx.Tx, id int64) error {
	for i, r := range f.items {
		if r.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeRegistrations) SetStatus(_ context.Context, _ *sqlx.Tx, id int64, status models.RegistrationStatus) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeRegistrations) PromoteWaitlisted(_ context.Context, _ *sqlx.Tx, tournamentID int64, limit int, excludeID int64) ([]models.TournamentRegistration, error) {
	var promoted []models.TournamentRegistration
	for i := range f.items {
		if len(promoted) >= limit {
			break
		}
		r := &f.items[i]
		if r.TournamentID == tournamentID && r.Status == models.RegistrationWaitlisted && r.ID != excludeID {
			r.Status = models.RegistrationConfirmed
			promoted = append(promoted, *r)
		}
	}
	return promoted, nil
}

func (f *fakeRegistrations) ListByTournament(_ context.Context, tournamentID int64, filter repository.RegistrationFilter) ([]models.TournamentRegistration, int, error) {
	var out []models.TournamentRegistration
	for _, r := range f.items {
		if r.TournamentID == tournamentID && (filter.Status == nil || r.Status == *filter.Status) {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (f *fakeRegistrations) CountByStatus(_ context.Context, tournamentID int64) (int, int, error) {
	var confirmed, waitlisted int
	for _, r := range f.items {
		if r.TournamentID != tournamentID {
			continue
		}
		if r.Status == models.RegistrationConfirmed {
			confirmed++
		} else {
			waitlisted++
		}
	}
	return confirmed, waitlisted, nil
}

func (f *fakeRegistrations) status(id int64) models.RegistrationStatus {
	for _, r := range f.items {
		if r.ID == id {
			return r.Status
		}
	}
	return ""
}

type fakeNotifier struct {
	received []models.TournamentRegistration
	promoted []models.TournamentRegistration
}

func (f *fakeNotifier) RegistrationReceived(_ context.Context, _ *models.Tournament, reg *models.TournamentRegistration, _ *int) {
	f.received = append(f.received, *reg)
}

func (f *fakeNotifier) WaitlistPromoted(_ context.Context, _ *models.Tournament, promoted []models.TournamentRegistration) {
	f.promoted = append(f.promoted, promoted...)
}

func (f *fakeNotifier) WhatsAppLinks(_ *models.Tournament, reg *models.TournamentRegistration, _ *int) dto.WhatsAppLinks {
	return dto.WhatsAppLinks{UserLink: "https://wa.me/user?text=" + reg.Email, AdminLink: "https://wa.me/admin"}
}

type recordingPages struct {
	paths []string
}

func (r *recordingPages) InvalidatePaths(_ context.Context, paths ...string) {
	r.paths = append(r.paths, paths...)
}

type recordingAudit struct {
	logs []*models.AuditLog
}

func (r *recordingAudit) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

type registrationFixture struct {
	svc           *RegistrationService
	mock          sqlmock.Sqlmock
	tournaments   *fakeTournaments
	registrations *fakeRegistrations
	notifier      *fakeNotifier
	pages         *recordingPages
	audit         *recordingAudit
}

func newRegistrationFixture(t *testing.T, tournaments ...models.Tournament) *registrationFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &registrationFixture{
		mock:          mock,
		tournaments:   &fakeTournaments{items: map[int64]models.Tournament{}},
		registrations: &fakeRegistrations{},
		notifier:      &fakeNotifier{},
		pages:         &recordingPages{},
		audit:         &recordingAudit{},
	}
	for _, tr := range tournaments {
		f.tournaments.items[tr.ID] = tr
	}
	f.svc = NewRegistrationService(RegistrationServiceDeps{
		DB:            sqlx.NewDb(db, "postgres"),
		Tournaments:   f.tournaments,
		Registrations: f.registrations,
		Notifier:      f.notifier,
		Pages:         f.pages,
		Audit:         f.audit,
	})
	return f
}

func intPtr(v int) *int { return &v }

func adminActor() *Actor {
	return &Actor{UserID: "u1", Email: "admin@example.com", Role: models.RoleAdmin}
}

func registerRequest(email string) dto.RegisterTournamentRequest {
	return dto.RegisterTournamentRequest{TournamentID: 1, FullName: "Magnus Pawn", Email: email, Phone: "+91 98765 43210"}
}

func TestRegisterWaitlistsWhenCapacityReached(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 1, Title: "Open", MaxSpots: intPtr(2), Status: models.TournamentUpcoming})
	f.registrations.seed(1, "a@example.com", models.RegistrationConfirmed)
	f.registrations.seed(1, "b@example.com", models.RegistrationConfirmed)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	res, err := f.svc.Register(context.Background(), registerRequest("c@example.com"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, models.RegistrationWaitlisted, res.Registration.Status)
	require.NotNil(t, res.Registration.SpotsLeft)
	assert.Equal(t, 0, *res.Registration.SpotsLeft)
	assert.Equal(t, []int64{1}, f.tournaments.locked)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRegisterConfirmsLastSpot(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 1, Title: "Open", MaxSpots: intPtr(2), Status: models.TournamentUpcoming})
	f.registrations.seed(1, "a@example.com", models.RegistrationConfirmed)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	res, err := f.svc.Register(context.Background(), registerRequest("fresh@example.com"))
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, res.Registration.Status)
	require.NotNil(t, res.Registration.SpotsLeft)
	assert.Equal(t, 0, *res.Registration.SpotsLeft)
	assert.Equal(t, "https://wa.me/admin", res.WhatsApp.AdminLink)
	assert.Contains(t, res.WhatsApp.UserLink, "fresh@example.com")
	require.Len(t, f.notifier.received, 1)
	assert.ElementsMatch(t, []string{"/", "/tournaments", "/tournaments/1"}, f.pages.paths)
}

func TestRegisterUncappedHasNoSpotsLeft(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 1, Title: "Blitz night", Status: models.TournamentOngoing})
	for i := 0; i < 5; i++ {
		f.registrations.seed(1, strings.Repeat("x", i+1)+"@example.com", models.RegistrationConfirmed)
	}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	res, err := f.svc.Register(context.Background(), registerRequest("late@example.com"))
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, res.Registration.Status)
	assert.Nil(t, res.Registration.SpotsLeft)
}

func TestRegisterRejectsDuplicateEmailCaseInsensitively(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 1, Title: "Open", Status: models.TournamentUpcoming})
	f.registrations.seed(1, "player@example.com", models.RegistrationWaitlisted)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Register(context.Background(), registerRequest("  PLAYER@Example.com "))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
	assert.Len(t, f.registrations.items, 1)
	assert.Empty(t, f.notifier.received)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRegisterStoresLowercasedEmail(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 1, Title: "Open", Status: models.TournamentUpcoming})
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	_, err := f.svc.Register(context.Background(), registerRequest(" Mixed.Case@Example.COM"))
	require.NoError(t, err)
	require.Len(t, f.registrations.items, 1)
	assert.Equal(t, "mixed.case@example.com", f.registrations.items[0].Email)
}

func TestRegisterMapsUniqueIndexViolationToConflict(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 1, Title: "Open", Status: models.TournamentUpcoming})
	f.registrations.insertErr = repository.ErrDuplicateRegistration
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Register(context.Background(), registerRequest("racer@example.com"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyRegistered.Code, appErrors.FromError(err).Code)
}

func TestRegisterRejectsCompletedTournament(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 1, Title: "Last year", Status: models.TournamentCompleted})
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Register(context.Background(), registerRequest("a@example.com"))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
	assert.Equal(t, "This tournament has already been completed", appErrors.FromError(err).Message)
}

func TestRegisterUnknownTournament(t *testing.T) {
	f := newRegistrationFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Register(context.Background(), registerRequest("a@example.com"))
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestRegisterValidatesBeforeOpeningTransaction(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 1, Status: models.TournamentUpcoming})

	_, err := f.svc.Register(context.Background(), dto.RegisterTournamentRequest{TournamentID: 1, Email: "not-an-email"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Message, "fullName")
	assert.Contains(t, appErr.Message, "phone")
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestDeleteConfirmedPromotesEarliestWaitlisted(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 1, Title: "Open", MaxSpots: intPtr(1), Status: models.TournamentUpcoming})
	confirmed := f.registrations.seed(1, "a@example.com", models.RegistrationConfirmed)
	first := f.registrations.seed(1, "b@example.com", models.RegistrationWaitlisted)
	second := f.registrations.seed(1, "c@example.com", models.RegistrationWaitlisted)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	require.NoError(t, f.svc.Delete(context.Background(), adminActor(), confirmed))
	assert.Equal(t, models.RegistrationConfirmed, f.registrations.status(first))
	assert.Equal(t, models.RegistrationWaitlisted, f.registrations.status(second))
	require.Len(t, f.notifier.promoted, 1)
	assert.Equal(t, first, f.notifier.promoted[0].ID)
	require.Len(t, f.audit.logs, 1)
	assert.Equal(t, models.AuditActionDelete, f.audit.logs[0].Action)
}

func TestDeleteWaitlistedDoesNotPromote(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 1, MaxSpots: intPtr(1), Status: models.TournamentUpcoming})
	f.registrations.seed(1, "a@example.com", models.RegistrationConfirmed)
	waiting := f.registrations.seed(1, "b@example.com", models.RegistrationWaitlisted)
	other := f.registrations.seed(1, "c@example.com", models.RegistrationWaitlisted)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	require.NoError(t, f.svc.Delete(context.Background(), adminActor(), waiting))
	assert.Equal(t, models.RegistrationWaitlisted, f.registrations.status(other))
	assert.Empty(t, f.notifier.promoted)
}

func TestUpdateStatusDemotionPromotesSomeoneElse(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 1, MaxSpots: intPtr(1), Status: models.TournamentUpcoming})
	demoted := f.registrations.seed(1, "a@example.com", models.RegistrationConfirmed)
	waiting := f.registrations.seed(1, "b@example.com", models.RegistrationWaitlisted)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	updated, err := f.svc.UpdateStatus(context.Background(), adminActor(), demoted, dto.UpdateRegistrationStatusRequest{Status: models.RegistrationWaitlisted})
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationWaitlisted, updated.Status)
	assert.Equal(t, models.RegistrationWaitlisted, f.registrations.status(demoted))
	assert.Equal(t, models.RegistrationConfirmed, f.registrations.status(waiting))
}

func TestRegistrationMutationsRequireAdmin(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 1, Status: models.TournamentUpcoming})
	id := f.registrations.seed(1, "a@example.com", models.RegistrationConfirmed)

	err := f.svc.Delete(context.Background(), nil, id)
	assert.Equal(t, http.StatusUnauthorized, appErrors.FromError(err).Status)

	editor := &Actor{UserID: "u2", Role: models.RoleEditor}
	err = f.svc.Delete(context.Background(), editor, id)
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)

	_, err = f.svc.UpdateStatus(context.Background(), editor, id, dto.UpdateRegistrationStatusRequest{Status: models.RegistrationWaitlisted})
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)
	assert.Len(t, f.registrations.items, 1)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPromoteAfterCapacityCleared(t *testing.T) {
	f := newRegistrationFixture(t)
	f.registrations.seed(1, "a@example.com", models.RegistrationWaitlisted)
	f.registrations.seed(1, "b@example.com", models.RegistrationWaitlisted)

	promoted, err := f.svc.PromoteAfterCapacityChange(context.Background(), nil, &models.Tournament{ID: 1})
	require.NoError(t, err)
	assert.Len(t, promoted, 2)

	f.registrations.seed(1, "c@example.com", models.RegistrationWaitlisted)
	promoted, err = f.svc.PromoteAfterCapacityChange(context.Background(), nil, &models.Tournament{ID: 1, MaxSpots: intPtr(2)})
	require.NoError(t, err)
	assert.Empty(t, promoted)
}

func TestListReportsCapacity(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 1, MaxSpots: intPtr(3), Status: models.TournamentUpcoming})
	f.registrations.seed(1, "a@example.com", models.RegistrationConfirmed)
	f.registrations.seed(1, "b@example.com", models.RegistrationWaitlisted)

	list, page, err := f.svc.List(context.Background(), adminActor(), 1, repository.RegistrationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Confirmed)
	assert.Equal(t, 1, list.Waitlisted)
	require.NotNil(t, list.SpotsLeft)
	assert.Equal(t, 2, *list.SpotsLeft)
	assert.Equal(t, 2, page.TotalCount)
}

func TestExportRegistrationsCSV(t *testing.T) {
	f := newRegistrationFixture(t, models.Tournament{ID: 7, Title: "Rapid Cup", Status: models.TournamentUpcoming})
	f.registrations.seed(7, "a@example.com", models.RegistrationConfirmed)

	file, err := f.svc.Export(context.Background(), adminActor(), 7, "csv")
	require.NoError(t, err)
	assert.Equal(t, "registrations-7.csv", file.Filename)
	assert.Contains(t, string(file.Data), "a@example.com")

	_, err = f.svc.Export(context.Background(), adminActor(), 7, "xlsx")
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}
