package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
	"github.com/noah-isme/chess-academy-site/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

const exportPageSize = 100

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type pagedLister[T any] interface {
	List(ctx context.Context, filter repository.ListFilter) ([]T, int, error)
}

// ExportService renders admin tables (leads, subscribers, donations) as
// CSV or PDF downloads.
type ExportService struct {
	leads       pagedLister[models.AcademyLead]
	subscribers pagedLister[models.Subscriber]
	donations   pagedLister[models.NGODonation]
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
	now         func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(leads pagedLister[models.AcademyLead], subscribers pagedLister[models.Subscriber], donations pagedLister[models.NGODonation], logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		leads:       leads,
		subscribers: subscribers,
		donations:   donations,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
		now:         time.Now,
	}
}

// Leads exports academy and contact leads matching filter.
func (s *ExportService) Leads(ctx context.Context, actor *Actor, filter repository.ListFilter, format string) (*ExportFile, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	rows, err := collectAll(ctx, s.leads, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load leads")
	}

	data := export.Dataset{Headers: []string{"ID", "Name", "Email", "Phone", "Child", "Age", "Program", "Source", "Status", "Received", "Message"}}
	for _, l := range rows {
		data.Rows = append(data.Rows, rowOf(data.Headers,
			idString(l.ID), l.Name, l.Email, l.Phone, l.ChildName, optionalInt(l.Age), l.Program,
			l.Source, string(l.Status), l.CreatedAt.Format("2006-01-02 15:04"), l.Message,
		))
	}
	return renderExport(s.csv, s.pdf, data, s.stamped("leads"), "Academy leads", format)
}

// Subscribers exports newsletter subscribers.
func (s *ExportService) Subscribers(ctx context.Context, actor *Actor, filter repository.ListFilter, format string) (*ExportFile, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	rows, err := collectAll(ctx, s.subscribers, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load subscribers")
	}

	data := export.Dataset{Headers: []string{"Email", "Active", "Source", "Subscribed"}}
	for _, sub := range rows {
		data.Rows = append(data.Rows, rowOf(data.Headers, sub.Email, strconv.FormatBool(sub.Active), sub.Source, sub.CreatedAt.Format("2006-01-02")))
	}
	return renderExport(s.csv, s.pdf, data, s.stamped("subscribers"), "Newsletter subscribers", format)
}

// Donations exports donation pledges.
func (s *ExportService) Donations(ctx context.Context, actor *Actor, filter repository.ListFilter, format string) (*ExportFile, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	rows, err := collectAll(ctx, s.donations, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load donations")
	}

	data := export.Dataset{Headers: []string{"ID", "Donor", "Email", "Phone", "Amount", "Currency", "Status", "Pledged"}}
	for _, d := range rows {
		data.Rows = append(data.Rows, rowOf(data.Headers,
			idString(d.ID), d.DonorName, d.Email, d.Phone, strconv.FormatFloat(d.Amount, 'f', 2, 64),
			d.Currency, string(d.Status), d.CreatedAt.Format("2006-01-02"),
		))
	}
	return renderExport(s.csv, s.pdf, data, s.stamped("donations"), "Donations", format)
}

func (s *ExportService) stamped(name string) string {
	return name + "-" + s.now().UTC().Format("20060102")
}

// collectAll walks every page of a list query.
func collectAll[T any](ctx context.Context, lister pagedLister[T], filter repository.ListFilter) ([]T, error) {
	filter.PageSize = exportPageSize
	var all []T
	for page := 1; ; page++ {
		filter.Page = page
		items, total, err := lister.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

func renderExport(csv csvRenderer, pdf pdfRenderer, data export.Dataset, basename, title, format string) (*ExportFile, error) {
	name := slug.Make(basename)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatCSV:
		out, err := csv.Render(data)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to render csv")
		}
		return &ExportFile{Filename: name + ".csv", ContentType: "text/csv; charset=utf-8", Data: out}, nil
	case FormatPDF:
		out, err := pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to render pdf")
		}
		return &ExportFile{Filename: name + ".pdf", ContentType: "application/pdf", Data: out}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// rowOf pairs values with headers positionally.
func rowOf(headers []string, values ...string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(values) {
			row[h] = values[i]
		}
	}
	return row
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
