// Package router assembles the gin engine: global middleware, the public
// pages, the public form API and the authenticated admin API.
package router

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/handler"
	"github.com/noah-isme/chess-academy-site/internal/middleware"
	"github.com/noah-isme/chess-academy-site/internal/web"
	"github.com/noah-isme/chess-academy-site/pkg/config"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
	"github.com/noah-isme/chess-academy-site/pkg/logger"
	corsmiddleware "github.com/noah-isme/chess-academy-site/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/chess-academy-site/pkg/middleware/requestid"
	"github.com/noah-isme/chess-academy-site/pkg/response"
)

const auditResource = "admin_api"

// Registrar mounts one admin entity's routes on its group.
type Registrar interface {
	Register(group *gin.RouterGroup)
}

// ContentRoute binds an admin entity collection to its handler.
type ContentRoute struct {
	Path    string
	Handler Registrar
}

// Handlers are the route targets. Nil handlers leave their routes unmounted.
type Handlers struct {
	Auth        *handler.AuthHandler
	Public      *handler.PublicHandler
	Upload      *handler.UploadHandler
	Tournaments *handler.TournamentHandler
	Dashboard   *handler.DashboardHandler
	SiteContent *handler.SiteContentHandler
	Metrics     *handler.MetricsHandler
	Pages       *web.Handler
	Content     []ContentRoute
}

// Options carry the cross-cutting collaborators of the engine.
type Options struct {
	Config    *config.Config
	Logger    *zap.Logger
	Tokens    middleware.TokenValidator
	Audit     middleware.AuditWriter
	Observer  middleware.RequestObserver
	Templates *template.Template
}

// New builds the engine.
func New(opts Options, h Handlers) *gin.Engine {
	cfg := opts.Config
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Observer))

	if opts.Templates != nil {
		r.SetHTMLTemplate(opts.Templates)
	}

	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if cfg.Uploads.Driver != config.UploadDriverS3 && cfg.Uploads.PublicPath != "" {
		r.Static(cfg.Uploads.PublicPath, cfg.Uploads.Dir)
	}

	if h.Pages != nil {
		h.Pages.Register(r)
	}

	api := r.Group(cfg.APIPrefix)
	if h.Public != nil {
		registerPublic(r, api, h.Public)
	}
	registerAdmin(api.Group("/admin"), opts, h)

	r.NoRoute(notFound(cfg.APIPrefix, h.Pages))
	return r
}

func registerPublic(r *gin.Engine, api *gin.RouterGroup, h *handler.PublicHandler) {
	api.POST("/tournaments/register", h.RegisterTournament)
	api.POST("/newsletter", h.Subscribe)
	api.GET("/newsletter/unsubscribe", h.Unsubscribe)
	api.POST("/academy/leads", h.SubmitLead)
	api.POST("/contact", h.SubmitContact)
	api.POST("/ngo/applications", h.SubmitApplication)
	api.POST("/ngo/volunteers", h.SubmitVolunteer)
	api.POST("/ngo/donations", h.SubmitDonation)

	// emailed links point here
	r.GET("/newsletter/unsubscribe", h.Unsubscribe)
}

func registerAdmin(admin *gin.RouterGroup, opts Options, h Handlers) {
	authenticated := []gin.HandlerFunc{
		middleware.AuditDenied(opts.Audit, auditResource, opts.Logger),
		middleware.JWT(opts.Tokens),
	}

	if h.Auth != nil {
		auth := admin.Group("/auth")
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)

		session := auth.Group("", authenticated...)
		session.POST("/logout", h.Auth.Logout)
		session.GET("/me", h.Auth.Me)
		session.POST("/change-password", h.Auth.ChangePassword)
	}

	protected := admin.Group("", append(authenticated, middleware.AdminWrites())...)

	if h.Upload != nil {
		protected.POST("/upload", h.Upload.Upload)
	}
	if h.Dashboard != nil {
		protected.GET("/dashboard", h.Dashboard.Admin)
		protected.GET("/exports/leads", h.Dashboard.ExportLeads)
		protected.GET("/exports/subscribers", h.Dashboard.ExportSubscribers)
		protected.GET("/exports/donations", h.Dashboard.ExportDonations)
	}
	if h.SiteContent != nil {
		sections := protected.Group("/site-content")
		sections.GET("", h.SiteContent.List)
		sections.GET("/:key", h.SiteContent.Get)
		sections.PUT("/:key", h.SiteContent.Put)
		sections.POST("/:key", h.SiteContent.Put)
		sections.DELETE("/:key", h.SiteContent.Reset)
		sections.POST("/:key/reset", h.SiteContent.Reset)
	}
	if h.Tournaments != nil {
		protected.GET("/tournaments/:id/registrations", h.Tournaments.Registrations)
		protected.GET("/tournaments/:id/registrations/export", h.Tournaments.ExportRegistrations)
		protected.GET("/tournaments/:id/photos", h.Tournaments.Photos)
		protected.PATCH("/registrations/:id/status", h.Tournaments.UpdateRegistrationStatus)
		protected.POST("/registrations/:id/status", h.Tournaments.UpdateRegistrationStatus)
		protected.DELETE("/registrations/:id", h.Tournaments.DeleteRegistration)
		protected.POST("/registrations/:id/delete", h.Tournaments.DeleteRegistration)
	}
	for _, route := range h.Content {
		route.Handler.Register(protected.Group(route.Path))
	}
}

func notFound(apiPrefix string, pages *web.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if pages == nil || (apiPrefix != "" && strings.HasPrefix(path, apiPrefix+"/")) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, http.StatusText(http.StatusNotFound)))
			return
		}
		pages.NotFound(c)
	}
}
