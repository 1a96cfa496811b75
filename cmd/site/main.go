package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/noah-isme/chess-academy-site/api/swagger"
	"github.com/noah-isme/chess-academy-site/internal/handler"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	"github.com/noah-isme/chess-academy-site/internal/router"
	"github.com/noah-isme/chess-academy-site/internal/scheduler"
	"github.com/noah-isme/chess-academy-site/internal/service"
	"github.com/noah-isme/chess-academy-site/internal/web"
	"github.com/noah-isme/chess-academy-site/pkg/cache"
	"github.com/noah-isme/chess-academy-site/pkg/config"
	"github.com/noah-isme/chess-academy-site/pkg/database"
	"github.com/noah-isme/chess-academy-site/pkg/jobs"
	"github.com/noah-isme/chess-academy-site/pkg/logger"
	"github.com/noah-isme/chess-academy-site/pkg/mailer"
	"github.com/noah-isme/chess-academy-site/pkg/storage"
)

// @title Chess Academy Site API
// @version 1.0.0
// @description Public form endpoints and the admin API behind the academy, foundation and shop site.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, page cache disabled", zap.Error(err))
		redisClient = nil
	}

	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		return err
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	var (
		cacheRepo  service.CacheRepository
		redisCache *repository.CacheRepository
	)
	if redisClient != nil {
		redisCache = repository.NewCacheRepository(redisClient, logr)
		defer redisCache.Close()
		cacheRepo = redisCache
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.PageTTL, logr, cfg.Cache.Enabled)

	users := repository.NewUserRepository(db)
	tournaments := repository.NewTournamentRepository(db)
	registrations := repository.NewRegistrationRepository(db)
	subscribers := repository.NewSubscriberRepository(db)
	posts := repository.NewPostRepository(db)
	puzzles := repository.NewPuzzleRepository(db)
	products := repository.NewProductRepository(db)
	donations := repository.NewDonationRepository(db)
	repos := newContentRepos(db)
	stores := service.ContentStores{
		Categories:   repos.Categories,
		Products:     products,
		Posts:        posts,
		Leads:        repos.Leads,
		Applications: repos.Applications,
		Volunteers:   repos.Volunteers,
		Donations:    donations,
		Team:         repos.Team,
		Testimonials: repos.Testimonials,
		Partners:     repos.Partners,
		Puzzles:      puzzles,
		Stories:      repos.Stories,
		Subscribers:  subscribers,
	}

	mail := mailer.New(cfg.Mail, logr)
	notifications, err := service.NewNotificationService(mail, metrics, service.NotificationConfig{
		AdminEmail:    cfg.Mail.AdminEmail,
		AdminWhatsApp: cfg.WhatsApp.AdminNumber,
		PublicBaseURL: cfg.PublicBaseURL,
	}, logr)
	if err != nil {
		return err
	}
	if cfg.Mail.Async {
		queue := jobs.NewQueue("email", notifications.HandleJob, jobs.QueueConfig{
			Workers:    cfg.Mail.Workers,
			MaxRetries: cfg.Mail.MaxRetries,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()
		notifications.UseQueue(queue)
	}

	pages := service.NewPageService(service.PageSources{
		Tournaments:   tournaments,
		Registrations: registrations,
		Posts:         posts,
		Products:      products,
		Categories:    repos.Categories,
		Team:          repos.Team,
		Testimonials:  repos.Testimonials,
		Partners:      repos.Partners,
		Stories:       repos.Stories,
		Puzzles:       puzzles,
		Donations:     donations,
		Contact:       notifications,
	}, cacheSvc, cfg.Cache.PageTTL, metrics, logr)
	sections := service.NewSiteContentService(repository.NewSiteContentRepository(db), validate, pages, users, logr)
	pages.UseSections(sections)

	auth := service.NewAuthService(users, validate, logr, service.NewAuthConfig(cfg.JWT))
	contents := service.NewContentServices(stores, validate, pages, users, logr)
	registrationSvc := service.NewRegistrationService(service.RegistrationServiceDeps{
		DB:            db,
		Tournaments:   tournaments,
		Registrations: registrations,
		Notifier:      notifications,
		Pages:         pages,
		Audit:         users,
		Metrics:       metrics,
		Validator:     validate,
		Logger:        logr,
	})
	tournamentSvc := service.NewTournamentService(service.TournamentServiceDeps{
		DB:        db,
		Store:     tournaments,
		Photos:    tournaments.Photos,
		Promoter:  registrationSvc,
		Pages:     pages,
		Audit:     users,
		Validator: validate,
		Logger:    logr,
	})
	newsletter := service.NewNewsletterService(subscribers,
		storage.NewSigner(cfg.Newsletter.SigningSecret, cfg.Newsletter.TokenTTL),
		notifications, validate, logr)
	submissions := service.NewSubmissionService(service.SubmissionServiceDeps{
		Leads:        repos.Leads,
		Applications: repos.Applications,
		Volunteers:   repos.Volunteers,
		Donations:    donations,
		Validator:    validate,
		Logger:       logr,
	})
	uploads := service.NewUploadService(store, cfg.Uploads.MaxFileSizeBytes, cfg.Uploads.AllowedMIMEs, metrics, users, logr)
	dashboard := service.NewDashboardService(repository.NewDashboardRepository(db), cacheSvc, metrics, time.Minute, logr)
	exports := service.NewExportService(repos.Leads, subscribers, donations, logr)

	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parse page templates: %w", err)
	}

	engine := router.New(router.Options{
		Config:    cfg,
		Logger:    logr,
		Tokens:    auth,
		Audit:     users,
		Observer:  metrics,
		Templates: tmpl,
	}, router.Handlers{
		Auth:        handler.NewAuthHandler(auth, cfg.JWT.CookieSecure),
		Public:      handler.NewPublicHandler(registrationSvc, newsletter, submissions),
		Upload:      handler.NewUploadHandler(uploads, cfg.Uploads.MaxFileSizeBytes),
		Tournaments: handler.NewTournamentHandler(registrationSvc, tournamentSvc),
		Dashboard:   handler.NewDashboardHandler(dashboard, exports),
		SiteContent: handler.NewSiteContentHandler(sections),
		Metrics:     handler.NewMetricsHandler(metrics, readinessChecks(db, redisCache)),
		Pages:       web.NewHandler(pages, web.Site{Name: cfg.SiteName, BaseURL: cfg.PublicBaseURL}, logr),
		Content:     contentRoutes(contents, tournamentSvc),
	})

	if cfg.Scheduler.Enabled {
		jobsScheduler, err := scheduler.New(cfg.Scheduler, tournamentSvc, auth, logr)
		if err != nil {
			return err
		}
		jobsScheduler.Start()
		defer func() {
			if err := jobsScheduler.Stop(); err != nil {
				logr.Warn("scheduler shutdown failed", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
	if cfg.Uploads.Driver == config.UploadDriverS3 {
		client, err := storage.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("configure s3: %w", err)
		}
		s3Store, err := storage.NewS3Storage(client, cfg.S3.Bucket, "uploads", cfg.S3.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	}
	local, err := storage.NewLocalStorage(cfg.Uploads.Dir, cfg.Uploads.PublicPath)
	if err != nil {
		return nil, fmt.Errorf("prepare upload dir: %w", err)
	}
	return local, nil
}

func readinessChecks(db *sqlx.DB, redisCache *repository.CacheRepository) map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
	}
	if redisCache != nil {
		checks["redis"] = redisCache.Ping
	}
	return checks
}
