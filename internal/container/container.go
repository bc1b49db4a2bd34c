// Package container provides dependency injection.
package container

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mrcars/backend/internal/alert"
	"github.com/mrcars/backend/internal/auth"
	"github.com/mrcars/backend/internal/config"
	"github.com/mrcars/backend/internal/dashboard"
	"github.com/mrcars/backend/internal/jobs"
	"github.com/mrcars/backend/internal/media"
	"github.com/mrcars/backend/internal/notification"
	"github.com/mrcars/backend/internal/realtime"
	"github.com/mrcars/backend/internal/repository"
)

// Container holds all application dependencies.
type Container struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *sql.DB
	scheduler *jobs.Scheduler

	// Repositories
	userRepo         repository.UserRepository
	listingRepo      repository.ListingRepository
	orderRepo        repository.OrderRepository
	inquiryRepo      repository.InquiryRepository
	appointmentRepo  repository.AppointmentRepository
	forumRepo        repository.ForumRepository
	notificationRepo repository.NotificationRepository

	// Services
	view     *dashboard.View
	registry *notification.Registry
	alertSvc *alert.Service
	storage  *media.Storage
	tokens   *auth.TokenManager
	guard    *auth.Guard
	listener *realtime.Listener
	hub      *realtime.Hub

	marketplace *jobs.Marketplace

	stopInvalidation func()
}

// New creates a new dependency container.
func New(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		cfg:    cfg,
		logger: logger,
	}

	// Initialize database
	db, err := sql.Open("pgx", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c.db = db
	logger.Info("database connected", "host", cfg.Database.Host, "database", cfg.Database.Name)

	// Initialize repositories
	c.userRepo = repository.NewPostgresUserRepository(db)
	c.listingRepo = repository.NewPostgresListingRepository(db)
	c.orderRepo = repository.NewPostgresOrderRepository(db)
	c.inquiryRepo = repository.NewPostgresInquiryRepository(db)
	c.appointmentRepo = repository.NewPostgresAppointmentRepository(db)
	c.forumRepo = repository.NewPostgresForumRepository(db)
	c.notificationRepo = repository.NewPostgresNotificationRepository(db)

	// Dashboard view
	agg := dashboard.NewAggregator(c.userRepo, c.listingRepo, c.inquiryRepo, c.appointmentRepo, c.orderRepo, logger)
	rec := dashboard.NewReconciler(c.userRepo, c.listingRepo, c.inquiryRepo, c.orderRepo, logger)
	c.view = dashboard.NewView(agg, rec, logger)

	// Notification center registry
	c.registry = notification.NewRegistry(c.notificationRepo, logger)

	// Alert service
	c.alertSvc = alert.NewService(alert.Config{
		SlackWebhookURL: cfg.Alert.SlackWebhookURL,
		EmailSMTPHost:   cfg.Alert.EmailSMTPHost,
		EmailSMTPPort:   cfg.Alert.EmailSMTPPort,
		EmailFrom:       cfg.Alert.EmailFrom,
		EmailPassword:   cfg.Alert.EmailPassword,
		EmailRecipients: splitList(cfg.Alert.EmailRecipients),
		WebhookURLs:     splitList(cfg.Alert.WebhookURLs),
		ResetBaseURL:    cfg.Alert.ResetBaseURL,
	}, logger)
	logger.Info("alert service initialized")

	// Photo storage
	if cfg.Media.Bucket != "" {
		storage, err := media.NewStorage(ctx, media.Config{
			Region:          cfg.Media.Region,
			Bucket:          cfg.Media.Bucket,
			AccessKeyID:     cfg.Media.AccessKeyID,
			SecretAccessKey: cfg.Media.SecretAccessKey,
			Endpoint:        cfg.Media.Endpoint,
			URLExpiry:       cfg.Media.URLExpiry,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize photo storage: %w", err)
		}
		c.storage = storage
		logger.Info("photo storage initialized", "bucket", cfg.Media.Bucket)
	}

	// Auth
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	if err != nil {
		return nil, err
	}
	c.tokens = tokens
	c.guard = auth.NewGuard(
		cfg.Guard.CookieMarker,
		cfg.Guard.ProtectedPrefixes,
		cfg.Guard.AuthPrefixes,
		cfg.Guard.LoginPath,
		cfg.Guard.HomePath,
	)

	// Realtime invalidation
	c.listener = realtime.NewListener(cfg.Database.DSN(), cfg.Realtime.Collections, cfg.Realtime.ReconnectDelay, logger)
	c.hub = realtime.NewHub(logger)

	// Background jobs
	c.marketplace = jobs.NewMarketplace(
		c.appointmentRepo, c.listingRepo, c.userRepo, c.notificationRepo,
		c.alertSvc, cfg.Jobs.ListingExpiryAfter, logger,
	)
	c.scheduler = jobs.NewScheduler(logger)

	return c, nil
}

// Start starts the realtime listener, the invalidation router and the
// background jobs.
func (c *Container) Start(ctx context.Context) error {
	c.listener.Start(ctx)

	signals, unsubscribe := c.listener.Subscribe()
	go func() {
		for sig := range signals {
			c.routeSignal(sig)
		}
	}()
	c.stopInvalidation = unsubscribe

	c.scheduler.Register("appointment-reminders", c.cfg.Jobs.AppointmentReminderSchedule, c.marketplace.RemindAppointments)
	c.scheduler.Register("listing-expiry", c.cfg.Jobs.ListingExpirySchedule, c.marketplace.ExpireListings)

	return c.scheduler.Start()
}

// routeSignal reacts to a collection change: the notification centers
// reload on notification changes, every other collection refreshes the
// dashboard. All signals are pushed to connected UI clients.
func (c *Container) routeSignal(sig realtime.Signal) {
	c.logger.Debug("invalidation signal", "collection", sig.Collection)

	if sig.Collection == "notifications" {
		c.registry.InvalidateAll()
	} else {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			c.view.Refresh(ctx)
		}()
	}

	c.hub.Broadcast(sig)
}

// Stop gracefully stops all components.
func (c *Container) Stop(ctx context.Context) error {
	c.logger.Info("stopping container components")

	if c.scheduler != nil {
		c.scheduler.Stop()
	}
	if c.stopInvalidation != nil {
		c.stopInvalidation()
	}
	if c.listener != nil {
		c.listener.Stop()
	}
	if c.db != nil {
		c.db.Close()
	}

	return nil
}

// Accessors

func (c *Container) Config() *config.Config                                  { return c.cfg }
func (c *Container) Logger() *slog.Logger                                    { return c.logger }
func (c *Container) DB() *sql.DB                                             { return c.db }
func (c *Container) UserRepository() repository.UserRepository               { return c.userRepo }
func (c *Container) ListingRepository() repository.ListingRepository         { return c.listingRepo }
func (c *Container) OrderRepository() repository.OrderRepository             { return c.orderRepo }
func (c *Container) InquiryRepository() repository.InquiryRepository         { return c.inquiryRepo }
func (c *Container) AppointmentRepository() repository.AppointmentRepository { return c.appointmentRepo }
func (c *Container) ForumRepository() repository.ForumRepository             { return c.forumRepo }
func (c *Container) NotificationRepository() repository.NotificationRepository {
	return c.notificationRepo
}
func (c *Container) DashboardView() *dashboard.View             { return c.view }
func (c *Container) NotificationRegistry() *notification.Registry { return c.registry }
func (c *Container) AlertService() *alert.Service               { return c.alertSvc }
func (c *Container) PhotoStorage() *media.Storage               { return c.storage }
func (c *Container) TokenManager() *auth.TokenManager           { return c.tokens }
func (c *Container) Guard() *auth.Guard                         { return c.guard }
func (c *Container) Hub() *realtime.Hub                         { return c.hub }
func (c *Container) MarketplaceJobs() *jobs.Marketplace         { return c.marketplace }

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
