// Package web renders the public marketing pages server-side.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

type pageService interface {
	Home(ctx context.Context) dto.HomePage
	Academy(ctx context.Context) dto.AcademyPage
	NGO(ctx context.Context) dto.NGOPage
	Shop(ctx context.Context) dto.ShopPage
	Tournaments(ctx context.Context) dto.TournamentsPage
	Tournament(ctx context.Context, id int64) (*dto.TournamentPage, error)
	News(ctx context.Context, tag string) dto.NewsPage
	Post(ctx context.Context, slug string) (*dto.PostPage, error)
	Contact() dto.ContactPage
}

// Site is the chrome shared by every page.
type Site struct {
	Name    string
	BaseURL string
}

type navItem struct {
	Path  string
	Label string
}

var navigation = []navItem{
	{"/", "Home"},
	{"/academy", "Academy"},
	{"/ngo", "Foundation"},
	{"/shop", "Shop"},
	{"/tournaments", "Tournaments"},
	{"/news", "News"},
	{"/contact", "Contact"},
}

// view is the data handed to every template.
type view struct {
	Site  Site
	Nav   []navItem
	Path  string
	Title string
	Year  int
	Page  interface{}
}

// Templates parses the embedded page templates with the helper funcs.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2 Jan 2006")
	},
	"dateRange": func(t models.Tournament) string {
		start := t.Date.Format("2 Jan 2006")
		if t.EndDate == nil || t.EndDate.Equal(t.Date) {
			return start
		}
		return start + " – " + t.EndDate.Format("2 Jan 2006")
	},
	"money": func(amount float64) string {
		return "₹" + groupThousands(int64(amount))
	},
	"spots": func(left *int) string {
		switch {
		case left == nil:
			return "Open entry"
		case *left <= 0:
			return "Full, waitlist open"
		case *left == 1:
			return "1 spot left"
		default:
			return strconv.Itoa(*left) + " spots left"
		}
	},
	"paragraphs": func(body string) []string {
		var out []string
		for _, p := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	},
	"active": func(current, path string) bool {
		if path == "/" {
			return current == "/"
		}
		return current == path || strings.HasPrefix(current, path+"/")
	},
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

// Handler serves the public pages. Page data degrades to empty sections on
// read failures, so only unknown detail pages answer with an error status.
type Handler struct {
	pages  pageService
	site   Site
	logger *zap.Logger
}

// NewHandler constructs a Handler.
func NewHandler(pages pageService, site Site, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{pages: pages, site: site, logger: logger}
}

// Register mounts the page routes.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/", h.Home)
	r.GET("/academy", h.Academy)
	r.GET("/ngo", h.NGO)
	r.GET("/shop", h.Shop)
	r.GET("/tournaments", h.Tournaments)
	r.GET("/tournaments/:id", h.Tournament)
	r.GET("/news", h.News)
	r.GET("/news/:slug", h.Post)
	r.GET("/contact", h.Contact)
}

func (h *Handler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "home.html", "", h.pages.Home(c.Request.Context()))
}

func (h *Handler) Academy(c *gin.Context) {
	h.render(c, http.StatusOK, "academy.html", "Academy", h.pages.Academy(c.Request.Context()))
}

func (h *Handler) NGO(c *gin.Context) {
	h.render(c, http.StatusOK, "ngo.html", "Foundation", h.pages.NGO(c.Request.Context()))
}

func (h *Handler) Shop(c *gin.Context) {
	h.render(c, http.StatusOK, "shop.html", "Shop", h.pages.Shop(c.Request.Context()))
}

func (h *Handler) Tournaments(c *gin.Context) {
	h.render(c, http.StatusOK, "tournaments.html", "Tournaments", h.pages.Tournaments(c.Request.Context()))
}

func (h *Handler) Tournament(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.NotFound(c)
		return
	}
	page, err := h.pages.Tournament(c.Request.Context(), id)
	if err != nil || page.Tournament == nil {
		h.NotFound(c)
		return
	}
	h.render(c, http.StatusOK, "tournament.html", page.Tournament.Title, page)
}

func (h *Handler) News(c *gin.Context) {
	h.render(c, http.StatusOK, "news.html", "News", h.pages.News(c.Request.Context(), strings.TrimSpace(c.Query("tag"))))
}

func (h *Handler) Post(c *gin.Context) {
	page, err := h.pages.Post(c.Request.Context(), c.Param("slug"))
	if err != nil || page.Post == nil {
		h.NotFound(c)
		return
	}
	h.render(c, http.StatusOK, "post.html", page.Post.Title, page)
}

func (h *Handler) Contact(c *gin.Context) {
	h.render(c, http.StatusOK, "contact.html", "Contact", h.pages.Contact())
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "notfound.html", "Page not found", nil)
}

func (h *Handler) render(c *gin.Context, status int, name, title string, page interface{}) {
	fullTitle := h.site.Name
	if title != "" {
		fullTitle = fmt.Sprintf("%s | %s", title, h.site.Name)
	}
	c.HTML(status, name, view{
		Site:  h.site,
		Nav:   navigation,
		Path:  c.Request.URL.Path,
		Title: fullTitle,
		Year:  time.Now().Year(),
		Page:  page,
	})
	if err := c.Errors.Last(); err != nil {
		h.logger.Error("page render failed", zap.String("template", name), zap.Error(err.Err))
	}
}
