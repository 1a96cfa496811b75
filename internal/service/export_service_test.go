package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

// pagingLister serves items in pages of the requested size.
type pagingLister[T any] struct {
	items []T
	pages []int
	err   error
}

func (p *pagingLister[T]) List(_ context.Context, filter repository.ListFilter) ([]T, int, error) {
	if p.err != nil {
		return nil, 0, p.err
	}
	p.pages = append(p.pages, filter.Page)
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(p.items) {
		return nil, len(p.items), nil
	}
	end := start + filter.PageSize
	if end > len(p.items) {
		end = len(p.items)
	}
	return p.items[start:end], len(p.items), nil
}

func newExportServiceForTest(leads []models.AcademyLead) (*ExportService, *pagingLister[models.AcademyLead]) {
	lister := &pagingLister[models.AcademyLead]{items: leads}
	svc := NewExportService(lister, &pagingLister[models.Subscriber]{}, &pagingLister[models.NGODonation]{
		items: []models.NGODonation{{ID: 1, DonorName: "Donor", Email: "d@example.com", Amount: 1500, Currency: "INR", Status: models.DonationCompleted}},
	}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC) }
	return svc, lister
}

func TestExportServiceLeadsCSVWalksAllPages(t *testing.T) {
	leads := make([]models.AcademyLead, 0, 230)
	for i := 1; i <= 230; i++ {
		leads = append(leads, models.AcademyLead{ID: int64(i), Name: "Parent", Email: "p@example.com", Phone: "1", Source: "academy", Status: models.LeadNew})
	}
	leads[0].Message = "=HYPERLINK(\"http://evil\")"
	svc, lister := newExportServiceForTest(leads)

	file, err := svc.Leads(context.Background(), adminActor(), repository.ListFilter{}, "")
	require.NoError(t, err)
	assert.Equal(t, "leads-20261016.csv", file.Filename)
	assert.Equal(t, []int{1, 2, 3}, lister.pages)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	assert.Len(t, lines, 231)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Name,Email"))
	assert.Contains(t, lines[1], `'=HYPERLINK`)
}

func TestExportServiceDonationsPDF(t *testing.T) {
	svc, _ := newExportServiceForTest(nil)

	file, err := svc.Donations(context.Background(), adminActor(), repository.ListFilter{}, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "donations-20261016.pdf", file.Filename)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportServiceErrors(t *testing.T) {
	svc, lister := newExportServiceForTest(nil)

	_, err := svc.Subscribers(context.Background(), adminActor(), repository.ListFilter{}, "xlsx")
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)

	_, err = svc.Subscribers(context.Background(), nil, repository.ListFilter{}, "csv")
	assert.Equal(t, http.StatusUnauthorized, appErrors.FromError(err).Status)

	lister.err = errors.New("db offline")
	_, err = svc.Leads(context.Background(), adminActor(), repository.ListFilter{}, "csv")
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}
