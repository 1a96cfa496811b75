package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	"github.com/noah-isme/chess-academy-site/internal/service"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

type fakeRegistrationAdmin struct {
	tournamentID int64
	filter       repository.RegistrationFilter
	status       dto.UpdateRegistrationStatusRequest
	deleted      int64
	format       string
	err          error
}

func (f *fakeRegistrationAdmin) List(_ context.Context, _ *service.Actor, tournamentID int64, filter repository.RegistrationFilter) (*dto.RegistrationList, *models.Pagination, error) {
	f.tournamentID, f.filter = tournamentID, filter
	if f.err != nil {
		return nil, nil, f.err
	}
	return &dto.RegistrationList{Confirmed: 2, Waitlisted: 1}, models.NewPagination(1, 50, 3), nil
}

func (f *fakeRegistrationAdmin) UpdateStatus(_ context.Context, _ *service.Actor, id int64, req dto.UpdateRegistrationStatusRequest) (*models.TournamentRegistration, error) {
	f.status = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.TournamentRegistration{ID: id, TournamentID: 5, Status: req.Status}, nil
}

func (f *fakeRegistrationAdmin) Delete(_ context.Context, _ *service.Actor, id int64) error {
	f.deleted = id
	return f.err
}

func (f *fakeRegistrationAdmin) Export(_ context.Context, _ *service.Actor, tournamentID int64, format string) (*service.ExportFile, error) {
	f.tournamentID, f.format = tournamentID, format
	if f.err != nil {
		return nil, f.err
	}
	return &service.ExportFile{Filename: "registrations-5.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("ID,Name\n")}, nil
}

type fakePhotos struct{ tournamentID int64 }

func (f *fakePhotos) ListPhotos(_ context.Context, _ *service.Actor, tournamentID int64) ([]models.TournamentPhoto, error) {
	f.tournamentID = tournamentID
	return []models.TournamentPhoto{{ID: 1, TournamentID: tournamentID, URL: "/uploads/a.png"}}, nil
}

func TestTournamentRegistrationsListParsesFilter(t *testing.T) {
	regs := &fakeRegistrationAdmin{}
	handler := NewTournamentHandler(regs, nil)

	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/api/admin/tournaments/5/registrations?status=waitlisted&search=anand", nil), models.RoleEditor)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	handler.Registrations(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), regs.tournamentID)
	require.NotNil(t, regs.filter.Status)
	assert.Equal(t, models.RegistrationWaitlisted, *regs.filter.Status)
	assert.Equal(t, "anand", regs.filter.Search)
	envelope := decodeEnvelope(t, rec)
	assert.EqualValues(t, 2, envelope.Data["confirmed"])
}

func TestTournamentRegistrationsNotFound(t *testing.T) {
	handler := NewTournamentHandler(&fakeRegistrationAdmin{err: appErrors.Clone(appErrors.ErrNotFound, "tournament not found")}, nil)

	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/api/admin/tournaments/99/registrations", nil), models.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	handler.Registrations(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTournamentExportRegistrations(t *testing.T) {
	regs := &fakeRegistrationAdmin{}
	handler := NewTournamentHandler(regs, nil)

	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/api/admin/tournaments/5/registrations/export", nil), models.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	handler.ExportRegistrations(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", regs.format)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="registrations-5.csv"`, rec.Header().Get("Content-Disposition"))
}

func TestTournamentUpdateRegistrationStatusNormalizesCase(t *testing.T) {
	regs := &fakeRegistrationAdmin{}
	handler := NewTournamentHandler(regs, nil)

	c, rec := newTestContext(formRequest(http.MethodPost, "/api/admin/registrations/8/status", url.Values{"status": {"confirmed"}}), models.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: "8"}}
	handler.UpdateRegistrationStatus(c)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/tournaments/5/registrations", rec.Header().Get("Location"))
	assert.Equal(t, models.RegistrationConfirmed, regs.status.Status)
}

func TestTournamentDeleteRegistration(t *testing.T) {
	regs := &fakeRegistrationAdmin{}
	handler := NewTournamentHandler(regs, nil)

	c, _ := newTestContext(httptest.NewRequest(http.MethodDelete, "/api/admin/registrations/8", nil), models.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: "8"}}
	handler.DeleteRegistration(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, int64(8), regs.deleted)
}

func TestTournamentPhotos(t *testing.T) {
	photos := &fakePhotos{}
	handler := NewTournamentHandler(nil, photos)

	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/api/admin/tournaments/5/photos", nil), models.RoleEditor)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	handler.Photos(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), photos.tournamentID)
	assert.Contains(t, rec.Body.String(), "/uploads/a.png")
}
