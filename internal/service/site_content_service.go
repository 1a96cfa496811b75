package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/models"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

// Editable section keys.
const (
	SectionHomeHero       = "home.hero"
	SectionHomeStats      = "home.stats"
	SectionAcademyHero    = "academy.hero"
	SectionAcademyLessons = "academy.lessons"
	SectionNGOHero        = "ngo.hero"
	SectionNGOStory       = "ngo.story"
	SectionNGOStats       = "ngo.stats"
	SectionShopHero       = "shop.hero"
)

var sectionDefaults = map[string]models.Section{
	SectionHomeHero: models.HeroSection{
		Title:    "Play better chess, together",
		Subtitle: "Coaching for every level, tournaments every month and a foundation bringing chess to schools.",
		CTALabel: "Join the academy",
		CTAHref:  "/academy",
	},
	SectionHomeStats: models.StatsSection{Items: []models.StatItem{
		{Label: "Students coached", Value: "500+"},
		{Label: "Tournaments hosted", Value: "40+"},
		{Label: "Partner schools", Value: "12"},
	}},
	SectionAcademyHero: models.HeroSection{
		Title:    "The Academy",
		Subtitle: "Structured lessons from beginner to club player, taught by titled coaches.",
		CTALabel: "Book a trial lesson",
		CTAHref:  "/contact",
	},
	SectionAcademyLessons: models.LessonsSection{
		Title: "Programs",
		Cards: []models.LessonCard{
			{Title: "Foundations", Description: "Rules, checkmate patterns and opening principles.", Level: "Beginner"},
			{Title: "Club Player", Description: "Tactics, calculation and typical middlegame plans.", Level: "Intermediate"},
			{Title: "Competitive", Description: "Opening repertoire, endgame technique and game analysis.", Level: "Advanced"},
		},
	},
	SectionNGOHero: models.HeroSection{
		Title:    "The Foundation",
		Subtitle: "Free chess programs for schools and communities.",
		CTALabel: "Support us",
		CTAHref:  "/ngo#donate",
	},
	SectionNGOStory: models.StorySection{
		Title: "Why chess",
		Body:  "Chess teaches patience, planning and resilience. Our coaches run weekly sessions in schools that could not otherwise offer them.",
	},
	SectionNGOStats: models.StatsSection{Items: []models.StatItem{
		{Label: "Children reached", Value: "1,200+"},
		{Label: "Volunteers", Value: "35"},
	}},
	SectionShopHero: models.HeroSection{
		Title:    "Shop",
		Subtitle: "Boards, clocks and books chosen by our coaches.",
	},
}

type siteContentStore interface {
	Get(ctx context.Context, key string) (*models.SiteContent, error)
	GetMany(ctx context.Context, keys []string) ([]models.SiteContent, error)
	Upsert(ctx context.Context, content *models.SiteContent) error
	Delete(ctx context.Context, key string) error
}

// SiteContentService reads and edits the typed page sections that override the
// built-in copy. Public reads never fail: a missing, unreadable or malformed
// override yields the default.
type SiteContentService struct {
	repo      siteContentStore
	validator *validator.Validate
	pages     pageInvalidator
	audit     auditWriter
	logger    *zap.Logger
}

// NewSiteContentService constructs a SiteContentService.
func NewSiteContentService(repo siteContentStore, validate *validator.Validate, pages pageInvalidator, audit auditWriter, logger *zap.Logger) *SiteContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SiteContentService{repo: repo, validator: validate, pages: pages, audit: audit, logger: logger}
}

// Keys lists the editable section keys in order.
func (s *SiteContentService) Keys() []string {
	keys := make([]string, 0, len(sectionDefaults))
	for k := range sectionDefaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns every section with its effective value.
func (s *SiteContentService) List(ctx context.Context, actor *Actor) ([]dto.SiteContentView, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	keys := s.Keys()
	stored, err := s.repo.GetMany(ctx, keys)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load site content")
	}
	byKey := make(map[string]*models.SiteContent, len(stored))
	for i := range stored {
		byKey[stored[i].Key] = &stored[i]
	}

	views := make([]dto.SiteContentView, 0, len(keys))
	for _, key := range keys {
		views = append(views, s.view(key, byKey[key]))
	}
	return views, nil
}

// Get returns one section with its effective value.
func (s *SiteContentService) Get(ctx context.Context, actor *Actor, key string) (*dto.SiteContentView, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if _, err := lookupSection(key); err != nil {
		return nil, err
	}
	row, err := s.repo.Get(ctx, key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to load site content")
	}
	view := s.view(key, row)
	return &view, nil
}

// Put validates raw against the key's section shape and stores it.
func (s *SiteContentService) Put(ctx context.Context, actor *Actor, key string, raw json.RawMessage) (*dto.SiteContentView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	def, err := lookupSection(key)
	if err != nil {
		return nil, err
	}
	kind := def.SectionKind()

	section, err := models.DecodeSection(kind, raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+string(kind)+" section")
	}
	if err := s.validator.Struct(section); err != nil {
		return nil, validationError(err, "invalid "+string(kind)+" section")
	}
	encoded, err := json.Marshal(section)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to encode section")
	}

	previous, err := s.repo.Get(ctx, key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to load site content")
	}

	updatedBy := actor.UserID
	row := &models.SiteContent{Key: key, Kind: kind, Value: string(encoded), UpdatedBy: &updatedBy}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, appErrors.Internal(err, "failed to save site content")
	}

	s.afterWrite(ctx, actor, key, models.AuditActionUpdate, previous, section)
	view := s.view(key, row)
	return &view, nil
}

// Reset removes the override so the default applies again.
func (s *SiteContentService) Reset(ctx context.Context, actor *Actor, key string) (*dto.SiteContentView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := lookupSection(key); err != nil {
		return nil, err
	}
	previous, err := s.repo.Get(ctx, key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to load site content")
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return nil, appErrors.Internal(err, "failed to reset site content")
	}

	s.afterWrite(ctx, actor, key, models.AuditActionDelete, previous, nil)
	view := s.view(key, nil)
	return &view, nil
}

// Section returns the effective section for key.
func (s *SiteContentService) Section(ctx context.Context, key string) models.Section {
	def, ok := sectionDefaults[key]
	if !ok {
		return nil
	}
	row, err := s.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("site content unavailable, using default", zap.String("key", key), zap.Error(err))
		}
		return def
	}
	return s.decode(key, row)
}

// Hero returns the hero section stored under key.
func (s *SiteContentService) Hero(ctx context.Context, key string) models.HeroSection {
	if v, ok := s.Section(ctx, key).(models.HeroSection); ok {
		return v
	}
	return models.HeroSection{}
}

// Stats returns the stats section stored under key.
func (s *SiteContentService) Stats(ctx context.Context, key string) models.StatsSection {
	if v, ok := s.Section(ctx, key).(models.StatsSection); ok {
		return v
	}
	return models.StatsSection{}
}

// Story returns the story section stored under key.
func (s *SiteContentService) Story(ctx context.Context, key string) models.StorySection {
	if v, ok := s.Section(ctx, key).(models.StorySection); ok {
		return v
	}
	return models.StorySection{}
}

// Lessons returns the lessons section stored under key.
func (s *SiteContentService) Lessons(ctx context.Context, key string) models.LessonsSection {
	if v, ok := s.Section(ctx, key).(models.LessonsSection); ok {
		return v
	}
	return models.LessonsSection{}
}

func (s *SiteContentService) view(key string, row *models.SiteContent) dto.SiteContentView {
	def := sectionDefaults[key]
	view := dto.SiteContentView{Key: key, Kind: def.SectionKind(), Value: def, IsDefault: true}
	if row == nil {
		return view
	}
	section := s.decode(key, row)
	view.Value = section
	view.IsDefault = false
	view.UpdatedBy = row.UpdatedBy
	updatedAt := row.UpdatedAt
	view.UpdatedAt = &updatedAt
	return view
}

// decode parses a stored row, falling back to the default when the row is
// malformed or was written for a different shape.
func (s *SiteContentService) decode(key string, row *models.SiteContent) models.Section {
	def := sectionDefaults[key]
	if row.Kind != def.SectionKind() {
		s.logger.Warn("site content kind mismatch, using default",
			zap.String("key", key), zap.String("stored_kind", string(row.Kind)))
		return def
	}
	section, err := models.DecodeSection(row.Kind, []byte(row.Value))
	if err != nil {
		s.logger.Warn("malformed site content, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	return section
}

func (s *SiteContentService) afterWrite(ctx context.Context, actor *Actor, key, action string, previous *models.SiteContent, after models.Section) {
	if s.pages != nil {
		s.pages.InvalidatePaths(ctx, sectionPagePath(key))
	}
	entry := auditEntry{action: action, resource: "site_content", resourceID: key}
	if previous != nil {
		entry.before = json.RawMessage(previous.Value)
	}
	if after != nil {
		entry.after = after
	}
	recordAudit(ctx, s.audit, s.logger, actor, entry)
}

func lookupSection(key string) (models.Section, error) {
	def, ok := sectionDefaults[key]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown site content key "+key)
	}
	return def, nil
}

// sectionPagePath maps "academy.hero" to "/academy"; "home.*" is "/".
func sectionPagePath(key string) string {
	page, _, _ := strings.Cut(key, ".")
	if page == "home" {
		return "/"
	}
	return "/" + page
}
