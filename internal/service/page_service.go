package service

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

const pageCachePrefix = "page:"

// Listing sizes for the public pages.
const (
	homeFeaturedLimit  = 3
	homeUpcomingLimit  = 6
	homePostsLimit     = 3
	listTournamentsCap = 50
	newsPageLimit      = 24
	relatedPostsLimit  = 4
	storefrontLimit    = 200
	sectionListLimit   = 50
)

type pageTournaments interface {
	FindByID(ctx context.Context, id int64) (*models.Tournament, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Tournament, error)
	ListUpcoming(ctx context.Context, limit int) ([]models.Tournament, error)
	ListCompleted(ctx context.Context, limit int) ([]models.Tournament, error)
	ListPhotos(ctx context.Context, tournamentID int64) ([]models.TournamentPhoto, error)
}

type pageRegistrations interface {
	CountByStatus(ctx context.Context, tournamentID int64) (confirmed, waitlisted int, err error)
}

type pagePosts interface {
	ListPublished(ctx context.Context, tag string, limit int) ([]models.Post, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
}

type pageProducts interface {
	ListStorefront(ctx context.Context, limit int) ([]models.Product, error)
}

type pagePuzzles interface {
	ForDate(ctx context.Context, day time.Time) (*models.DailyPuzzle, error)
}

type pageDonations interface {
	CompletedTotal(ctx context.Context) (float64, error)
}

type pageSections interface {
	Hero(ctx context.Context, key string) models.HeroSection
	Stats(ctx context.Context, key string) models.StatsSection
	Story(ctx context.Context, key string) models.StorySection
	Lessons(ctx context.Context, key string) models.LessonsSection
}

type contactDirectory interface {
	AdminEmail() string
	ContactLink(message string) string
}

// PageSources are the read models behind the public pages.
type PageSources struct {
	Tournaments   pageTournaments
	Registrations pageRegistrations
	Posts         pagePosts
	Products      pageProducts
	Categories    pagedLister[models.Category]
	Team          pagedLister[models.TeamMember]
	Testimonials  pagedLister[models.Testimonial]
	Partners      pagedLister[models.Partner]
	Stories       pagedLister[models.NGOStory]
	Puzzles       pagePuzzles
	Donations     pageDonations
	Sections      pageSections
	Contact       contactDirectory
}

// PageService assembles the data for each public page. Every read degrades to
// an empty value on failure so pages render without the database, and
// assembled pages are cached per path until an admin change invalidates them.
type PageService struct {
	src     PageSources
	cache   *CacheService
	ttl     time.Duration
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewPageService constructs a PageService. A nil cache disables page caching.
func NewPageService(src PageSources, cache *CacheService, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *PageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageService{src: src, cache: cache, ttl: ttl, metrics: metrics, logger: logger, now: time.Now}
}

// UseSections sets the site-content source after construction, since the
// site-content service in turn invalidates this one.
func (s *PageService) UseSections(sections pageSections) {
	s.src.Sections = sections
}

// InvalidatePaths drops cached page data. A trailing "*" drops every path
// with that prefix, query variants included.
func (s *PageService) InvalidatePaths(ctx context.Context, paths ...string) {
	if !s.cache.Enabled() || len(paths) == 0 {
		return
	}
	exact := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.Contains(p, "*") {
			_ = s.cache.Invalidate(ctx, pageCachePrefix+p)
			continue
		}
		exact = append(exact, pageCachePrefix+p)
	}
	_ = s.cache.Delete(ctx, exact...)
}

// Home returns the "/" page.
func (s *PageService) Home(ctx context.Context) dto.HomePage {
	return cachedPage(ctx, s, "/", func(ctx context.Context) dto.HomePage {
		return dto.HomePage{
			Hero:         s.src.Sections.Hero(ctx, SectionHomeHero),
			Stats:        s.src.Sections.Stats(ctx, SectionHomeStats),
			Featured:     s.tournamentList(ctx, "featured_tournaments", s.src.Tournaments.ListFeatured, homeFeaturedLimit),
			Upcoming:     s.tournamentList(ctx, "upcoming_tournaments", s.src.Tournaments.ListUpcoming, homeUpcomingLimit),
			Posts:        s.posts(ctx, "", homePostsLimit),
			Testimonials: published(ctx, s, "testimonials", s.src.Testimonials),
			Partners:     published(ctx, s, "partners", s.src.Partners),
			Puzzle:       s.puzzle(ctx),
		}
	})
}

// Academy returns the "/academy" page.
func (s *PageService) Academy(ctx context.Context) dto.AcademyPage {
	return cachedPage(ctx, s, "/academy", func(ctx context.Context) dto.AcademyPage {
		return dto.AcademyPage{
			Hero:         s.src.Sections.Hero(ctx, SectionAcademyHero),
			Lessons:      s.src.Sections.Lessons(ctx, SectionAcademyLessons),
			Team:         published(ctx, s, "team", s.src.Team),
			Testimonials: published(ctx, s, "testimonials", s.src.Testimonials),
			Puzzle:       s.puzzle(ctx),
		}
	})
}

// NGO returns the "/ngo" page.
func (s *PageService) NGO(ctx context.Context) dto.NGOPage {
	return cachedPage(ctx, s, "/ngo", func(ctx context.Context) dto.NGOPage {
		page := dto.NGOPage{
			Hero:     s.src.Sections.Hero(ctx, SectionNGOHero),
			Story:    s.src.Sections.Story(ctx, SectionNGOStory),
			Stats:    s.src.Sections.Stats(ctx, SectionNGOStats),
			Stories:  published(ctx, s, "stories", s.src.Stories),
			Partners: published(ctx, s, "partners", s.src.Partners),
		}
		start := time.Now()
		total, err := s.src.Donations.CompletedTotal(ctx)
		s.metrics.ObserveDBQuery("donation_total", time.Since(start))
		if err != nil {
			s.readFailed("donation_total", err)
		} else {
			page.DonationTotal = total
		}
		return page
	})
}

// Shop returns the "/shop" page with products grouped by category. Products
// without a known category land on a trailing "Other" shelf.
func (s *PageService) Shop(ctx context.Context) dto.ShopPage {
	return cachedPage(ctx, s, "/shop", func(ctx context.Context) dto.ShopPage {
		page := dto.ShopPage{Hero: s.src.Sections.Hero(ctx, SectionShopHero), Shelves: []dto.ProductShelf{}}

		categories := listAll(ctx, s, "categories", s.src.Categories, repository.ListFilter{})
		start := time.Now()
		products, err := s.src.Products.ListStorefront(ctx, storefrontLimit)
		s.metrics.ObserveDBQuery("storefront_products", time.Since(start))
		if err != nil {
			s.readFailed("storefront_products", err)
			return page
		}

		index := make(map[int64]int, len(categories))
		for i, c := range categories {
			index[c.ID] = i
			page.Shelves = append(page.Shelves, dto.ProductShelf{Category: c, Products: []models.Product{}})
		}
		var other []models.Product
		for _, p := range products {
			if p.CategoryID != nil {
				if i, ok := index[*p.CategoryID]; ok {
					page.Shelves[i].Products = append(page.Shelves[i].Products, p)
					continue
				}
			}
			other = append(other, p)
		}

		shelves := page.Shelves[:0]
		for _, shelf := range page.Shelves {
			if len(shelf.Products) > 0 {
				shelves = append(shelves, shelf)
			}
		}
		if len(other) > 0 {
			shelves = append(shelves, dto.ProductShelf{Category: models.Category{Name: "Other", Slug: "other"}, Products: other})
		}
		page.Shelves = shelves
		return page
	})
}

// Tournaments returns the "/tournaments" page.
func (s *PageService) Tournaments(ctx context.Context) dto.TournamentsPage {
	return cachedPage(ctx, s, "/tournaments", func(ctx context.Context) dto.TournamentsPage {
		return dto.TournamentsPage{
			Upcoming:  s.tournamentList(ctx, "upcoming_tournaments", s.src.Tournaments.ListUpcoming, listTournamentsCap),
			Completed: s.tournamentList(ctx, "completed_tournaments", s.src.Tournaments.ListCompleted, listTournamentsCap),
		}
	})
}

// Tournament returns the "/tournaments/:id" page, or a not-found error when
// the tournament cannot be loaded.
func (s *PageService) Tournament(ctx context.Context, id int64) (*dto.TournamentPage, error) {
	path := "/tournaments/" + idString(id)
	var page dto.TournamentPage
	if s.cacheGet(ctx, path, &page) {
		return &page, nil
	}

	start := time.Now()
	t, err := s.src.Tournaments.FindByID(ctx, id)
	s.metrics.ObserveDBQuery("tournament_detail", time.Since(start))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.readFailed("tournament_detail", err)
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Tournament not found")
	}

	if photos, err := s.src.Tournaments.ListPhotos(ctx, id); err != nil {
		s.readFailed("tournament_photos", err)
	} else {
		t.Photos = photos
	}
	page = dto.TournamentPage{Tournament: t, Open: t.Status != models.TournamentCompleted}
	if confirmed, _, err := s.src.Registrations.CountByStatus(ctx, id); err != nil {
		s.readFailed("tournament_registrations", err)
	} else {
		page.Confirmed = confirmed
		page.SpotsLeft = models.SpotsLeft(t.MaxSpots, confirmed)
	}

	s.cacheSet(ctx, path, page)
	return &page, nil
}

// News returns the "/news" page, optionally filtered by tag.
func (s *PageService) News(ctx context.Context, tag string) dto.NewsPage {
	tag = strings.TrimSpace(tag)
	path := "/news"
	if tag != "" {
		path += "?tag=" + url.QueryEscape(tag)
	}
	return cachedPage(ctx, s, path, func(ctx context.Context) dto.NewsPage {
		return dto.NewsPage{Tag: tag, Posts: s.posts(ctx, tag, newsPageLimit)}
	})
}

// Post returns the "/news/:slug" page with posts sharing its first tag.
func (s *PageService) Post(ctx context.Context, slug string) (*dto.PostPage, error) {
	path := "/news/" + slug
	var page dto.PostPage
	if s.cacheGet(ctx, path, &page) {
		return &page, nil
	}

	start := time.Now()
	post, err := s.src.Posts.FindPublishedBySlug(ctx, slug)
	s.metrics.ObserveDBQuery("post_detail", time.Since(start))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.readFailed("post_detail", err)
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Post not found")
	}

	tag := ""
	if len(post.Tags) > 0 {
		tag = post.Tags[0]
	}
	related := make([]models.Post, 0, relatedPostsLimit)
	for _, p := range s.posts(ctx, tag, relatedPostsLimit+1) {
		if p.ID != post.ID && len(related) < relatedPostsLimit {
			related = append(related, p)
		}
	}

	page = dto.PostPage{Post: post, Related: related}
	s.cacheSet(ctx, path, page)
	return &page, nil
}

// Contact returns the "/contact" page.
func (s *PageService) Contact() dto.ContactPage {
	if s.src.Contact == nil {
		return dto.ContactPage{}
	}
	return dto.ContactPage{
		AdminEmail:   s.src.Contact.AdminEmail(),
		WhatsAppLink: s.src.Contact.ContactLink("Hello! I'd like to know more about your chess programs."),
	}
}

func (s *PageService) tournamentList(ctx context.Context, label string, list func(context.Context, int) ([]models.Tournament, error), limit int) []models.Tournament {
	start := time.Now()
	items, err := list(ctx, limit)
	s.metrics.ObserveDBQuery(label, time.Since(start))
	if err != nil {
		s.readFailed(label, err)
		return []models.Tournament{}
	}
	return items
}

func (s *PageService) posts(ctx context.Context, tag string, limit int) []models.Post {
	start := time.Now()
	items, err := s.src.Posts.ListPublished(ctx, tag, limit)
	s.metrics.ObserveDBQuery("published_posts", time.Since(start))
	if err != nil {
		s.readFailed("published_posts", err)
		return []models.Post{}
	}
	return items
}

func (s *PageService) puzzle(ctx context.Context) *models.DailyPuzzle {
	start := time.Now()
	p, err := s.src.Puzzles.ForDate(ctx, s.now())
	s.metrics.ObserveDBQuery("daily_puzzle", time.Since(start))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.readFailed("daily_puzzle", err)
		}
		return nil
	}
	return p
}

func (s *PageService) readFailed(label string, err error) {
	s.logger.Warn("page read failed, rendering without it", zap.String("query", label), zap.Error(err))
}

func (s *PageService) cacheGet(ctx context.Context, path string, dest interface{}) bool {
	hit, err := s.cache.Get(ctx, pageCachePrefix+path, dest)
	return err == nil && hit
}

func (s *PageService) cacheSet(ctx context.Context, path string, value interface{}) {
	_ = s.cache.Set(ctx, pageCachePrefix+path, value, s.ttl)
}

// cachedPage serves path from cache or builds and stores it.
func cachedPage[T any](ctx context.Context, s *PageService, path string, build func(context.Context) T) T {
	var page T
	if s.cacheGet(ctx, path, &page) {
		return page
	}
	page = build(ctx)
	s.cacheSet(ctx, path, page)
	return page
}

// published lists the published rows of an ordered content table.
func published[T any](ctx context.Context, s *PageService, label string, lister pagedLister[T]) []T {
	return listAll(ctx, s, label, lister, repository.ListFilter{Equals: map[string]interface{}{"published": true}})
}

func listAll[T any](ctx context.Context, s *PageService, label string, lister pagedLister[T], filter repository.ListFilter) []T {
	if lister == nil {
		return []T{}
	}
	filter.PageSize = sectionListLimit
	start := time.Now()
	items, _, err := lister.List(ctx, filter)
	s.metrics.ObserveDBQuery(label, time.Since(start))
	if err != nil {
		s.readFailed(label, err)
		return []T{}
	}
	return items
}
