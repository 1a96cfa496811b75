package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/models"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

// DefaultCurrency applies to donation pledges that do not name one.
const DefaultCurrency = "INR"

const maxSlugAttempts = 50

var (
	leadStatuses     = []string{string(models.LeadNew), string(models.LeadContacted), string(models.LeadEnrolled), string(models.LeadClosed)}
	reviewStatuses   = []string{string(models.ReviewPending), string(models.ReviewApproved), string(models.ReviewRejected)}
	donationStatuses = []string{string(models.DonationPending), string(models.DonationCompleted), string(models.DonationFailed)}
)

// ContentStores are the tables edited through the generic admin service.
type ContentStores struct {
	Categories   contentStore[models.Category]
	Products     contentStore[models.Product]
	Posts        contentStore[models.Post]
	Leads        contentStore[models.AcademyLead]
	Applications contentStore[models.NGOApplication]
	Volunteers   contentStore[models.NGOVolunteer]
	Donations    contentStore[models.NGODonation]
	Team         contentStore[models.TeamMember]
	Testimonials contentStore[models.Testimonial]
	Partners     contentStore[models.Partner]
	Puzzles      contentStore[models.DailyPuzzle]
	Stories      contentStore[models.NGOStory]
	Subscribers  contentStore[models.Subscriber]
}

// ContentServices holds one admin service per content entity.
type ContentServices struct {
	Categories   *ContentService[models.Category]
	Products     *ContentService[models.Product]
	Posts        *ContentService[models.Post]
	Leads        *ContentService[models.AcademyLead]
	Applications *ContentService[models.NGOApplication]
	Volunteers   *ContentService[models.NGOVolunteer]
	Donations    *ContentService[models.NGODonation]
	Team         *ContentService[models.TeamMember]
	Testimonials *ContentService[models.Testimonial]
	Partners     *ContentService[models.Partner]
	Puzzles      *ContentService[models.DailyPuzzle]
	Stories      *ContentService[models.NGOStory]
	Subscribers  *ContentService[models.Subscriber]
}

// NewContentServices wires the admin services with each entity's rules.
func NewContentServices(stores ContentStores, validate *validator.Validate, pages pageInvalidator, audit auditWriter, logger *zap.Logger) *ContentServices {
	return &ContentServices{
		Categories: NewContentService(stores.Categories, ContentOptions[models.Category]{
			Resource: "categories", Label: "category", Ordered: true,
			Paths:   staticPaths[models.Category]("/shop"),
			Prepare: prepareCategory,
		}, validate, pages, audit, logger),
		Products: NewContentService(stores.Products, ContentOptions[models.Product]{
			Resource: "products", Label: "product",
			Paths:   staticPaths[models.Product]("/shop"),
			Prepare: prepareProduct,
		}, validate, pages, audit, logger),
		Posts: NewContentService(stores.Posts, ContentOptions[models.Post]{
			Resource: "posts", Label: "post",
			Paths:   staticPaths[models.Post]("/", "/news*"),
			Prepare: preparePost,
		}, validate, pages, audit, logger),
		Leads: NewContentService(stores.Leads, ContentOptions[models.AcademyLead]{
			Resource: "academy_leads", Label: "lead",
			Statuses: leadStatuses,
			Prepare:  prepareLead,
		}, validate, pages, audit, logger),
		Applications: NewContentService(stores.Applications, ContentOptions[models.NGOApplication]{
			Resource: "ngo_applications", Label: "application",
			Statuses: reviewStatuses,
			Prepare:  prepareApplication,
		}, validate, pages, audit, logger),
		Volunteers: NewContentService(stores.Volunteers, ContentOptions[models.NGOVolunteer]{
			Resource: "ngo_volunteers", Label: "volunteer",
			Statuses: reviewStatuses,
			Prepare:  prepareVolunteer,
		}, validate, pages, audit, logger),
		Donations: NewContentService(stores.Donations, ContentOptions[models.NGODonation]{
			Resource: "ngo_donations", Label: "donation",
			Statuses: donationStatuses,
			Paths:    staticPaths[models.NGODonation]("/ngo"),
			Prepare:  prepareDonation,
		}, validate, pages, audit, logger),
		Team: NewContentService(stores.Team, ContentOptions[models.TeamMember]{
			Resource: "team_members", Label: "team member", Ordered: true,
			Paths: staticPaths[models.TeamMember]("/academy"),
		}, validate, pages, audit, logger),
		Testimonials: NewContentService(stores.Testimonials, ContentOptions[models.Testimonial]{
			Resource: "testimonials", Label: "testimonial", Ordered: true,
			Paths: staticPaths[models.Testimonial]("/", "/academy"),
		}, validate, pages, audit, logger),
		Partners: NewContentService(stores.Partners, ContentOptions[models.Partner]{
			Resource: "partners", Label: "partner", Ordered: true,
			Paths: staticPaths[models.Partner]("/", "/ngo"),
		}, validate, pages, audit, logger),
		Puzzles: NewContentService(stores.Puzzles, ContentOptions[models.DailyPuzzle]{
			Resource: "daily_puzzles", Label: "puzzle",
			Paths:   staticPaths[models.DailyPuzzle]("/", "/academy"),
			Prepare: preparePuzzle,
		}, validate, pages, audit, logger),
		Stories: NewContentService(stores.Stories, ContentOptions[models.NGOStory]{
			Resource: "ngo_stories", Label: "story", Ordered: true,
			Paths: staticPaths[models.NGOStory]("/ngo"),
		}, validate, pages, audit, logger),
		Subscribers: NewContentService(stores.Subscribers, ContentOptions[models.Subscriber]{
			Resource: "subscribers", Label: "subscriber",
			Prepare: prepareSubscriber,
		}, validate, pages, audit, logger),
	}
}

func staticPaths[T any](paths ...string) func(*T) []string {
	return func(*T) []string { return paths }
}

func prepareCategory(ctx context.Context, store contentStore[models.Category], c *models.Category, id int64) error {
	c.Name = strings.TrimSpace(c.Name)
	explicit := strings.TrimSpace(c.Slug) != ""
	base := c.Slug
	if !explicit {
		base = c.Name
	}
	s, err := uniqueSlug(ctx, store, base, id, explicit)
	if err != nil {
		return err
	}
	c.Slug = s
	return nil
}

func prepareProduct(_ context.Context, _ contentStore[models.Product], p *models.Product, _ int64) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.CategoryID != nil && *p.CategoryID <= 0 {
		p.CategoryID = nil
	}
	return nil
}

// preparePost derives the slug from the title when none is given and stamps
// the first publication time, keeping it across later edits.
func preparePost(ctx context.Context, store contentStore[models.Post], p *models.Post, id int64) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Tags = cleanTags(p.Tags)

	explicit := strings.TrimSpace(p.Slug) != ""
	base := p.Slug
	if !explicit {
		base = p.Title
	}
	s, err := uniqueSlug(ctx, store, base, id, explicit)
	if err != nil {
		return err
	}
	p.Slug = s

	if id > 0 && p.PublishedAt == nil {
		existing, err := store.FindByID(ctx, id)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if existing != nil {
			p.PublishedAt = existing.PublishedAt
		}
	}
	if p.Published && p.PublishedAt == nil {
		now := time.Now().UTC()
		p.PublishedAt = &now
	}
	return nil
}

func prepareLead(_ context.Context, _ contentStore[models.AcademyLead], l *models.AcademyLead, _ int64) error {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.ToLower(strings.TrimSpace(l.Email))
	l.Phone = strings.TrimSpace(l.Phone)
	if l.Source == "" {
		l.Source = models.LeadSourceAcademy
	}
	if l.Status == "" {
		l.Status = models.LeadNew
	}
	return nil
}

func prepareApplication(_ context.Context, _ contentStore[models.NGOApplication], a *models.NGOApplication, _ int64) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	if a.Status == "" {
		a.Status = models.ReviewPending
	}
	return nil
}

func prepareVolunteer(_ context.Context, _ contentStore[models.NGOVolunteer], v *models.NGOVolunteer, _ int64) error {
	v.Email = strings.ToLower(strings.TrimSpace(v.Email))
	if v.Status == "" {
		v.Status = models.ReviewPending
	}
	return nil
}

func prepareDonation(_ context.Context, _ contentStore[models.NGODonation], d *models.NGODonation, _ int64) error {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))
	if d.Currency == "" {
		d.Currency = DefaultCurrency
	}
	if d.Status == "" {
		d.Status = models.DonationPending
	}
	return nil
}

func preparePuzzle(_ context.Context, _ contentStore[models.DailyPuzzle], p *models.DailyPuzzle, _ int64) error {
	p.FEN = strings.TrimSpace(p.FEN)
	p.Difficulty = strings.ToUpper(strings.TrimSpace(p.Difficulty))
	if !p.PuzzleDate.IsZero() {
		p.PuzzleDate = p.PuzzleDate.UTC().Truncate(24 * time.Hour)
	}
	return nil
}

func prepareSubscriber(_ context.Context, _ contentStore[models.Subscriber], s *models.Subscriber, _ int64) error {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	if s.Active {
		s.UnsubscribedAt = nil
	} else if s.UnsubscribedAt == nil {
		now := time.Now().UTC()
		s.UnsubscribedAt = &now
	}
	return nil
}

// uniqueSlug slugifies base and checks it against the slug column. A slug the
// admin typed must be free; a derived one gets a numeric suffix until it is.
func uniqueSlug[T any](ctx context.Context, store contentStore[T], base string, id int64, explicit bool) (string, error) {
	root := slug.Make(base)
	if root == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "slug cannot be derived from an empty title")
	}
	candidate := root
	for attempt := 2; attempt <= maxSlugAttempts; attempt++ {
		taken, err := store.Exists(ctx, "slug", candidate, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if explicit {
			return "", appErrors.Clone(appErrors.ErrConflict, "slug "+candidate+" is already in use")
		}
		candidate = root + "-" + strconv.Itoa(attempt)
	}
	return "", appErrors.Clone(appErrors.ErrConflict, "could not find a free slug for "+root)
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
