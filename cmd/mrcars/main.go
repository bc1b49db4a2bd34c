package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mrcars/backend/internal/auth"
	"github.com/mrcars/backend/internal/config"
	"github.com/mrcars/backend/internal/container"
	"github.com/mrcars/backend/internal/correlation"
	"github.com/mrcars/backend/internal/handler"
	"github.com/mrcars/backend/internal/model"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)

	// Initialize dependency container
	ctr, err := container.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(correlation.Middleware(correlation.NewGenerator()))
	r.Use(ctr.Guard().Middleware)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (unauthenticated)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := ctr.DB().PingContext(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"unavailable"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Realtime invalidation stream for the admin UI
	r.Get("/ws", ctr.Hub().ServeHTTP)

	// Initialize handlers
	authHandler := auth.NewHandler(ctr.TokenManager(), ctr.UserRepository(), ctr.AlertService(), cfg.Auth.CookieName, cfg.Auth.CookieSecure, logger)
	dashboardHandler := handler.NewDashboardHandler(ctr.DashboardView())
	notificationHandler := handler.NewNotificationHandler(ctr.NotificationRegistry())
	userHandler := handler.NewUserHandler(ctr.UserRepository())
	listingHandler := handler.NewListingHandler(ctr.ListingRepository(), ctr.PhotoStorage())
	orderHandler := handler.NewOrderHandler(ctr.OrderRepository())
	inquiryHandler := handler.NewInquiryHandler(ctr.InquiryRepository())
	appointmentHandler := handler.NewAppointmentHandler(ctr.AppointmentRepository())
	forumHandler := handler.NewForumHandler(ctr.ForumRepository())

	// Auth middleware
	requireAuth := auth.Middleware(ctr.TokenManager(), cfg.Auth.CookieName)
	requireStaff := auth.RequireRole(model.RoleAdmin, model.RoleStaff)
	requireAdmin := auth.RequireRole(model.RoleAdmin)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/signup", authHandler.Signup)
			r.Post("/logout", authHandler.Logout)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/me", authHandler.Me)

			// Admin dashboard
			r.Group(func(r chi.Router) {
				r.Use(requireStaff)

				r.Get("/dashboard", dashboardHandler.Get)
				r.Post("/dashboard/refresh", dashboardHandler.Refresh)

				// Notification center
				r.Get("/notifications", notificationHandler.List)
				r.Post("/notifications/{id}/read", notificationHandler.MarkRead)
				r.Post("/notifications/read-all", notificationHandler.MarkAllRead)
				r.Delete("/notifications/{id}", notificationHandler.Delete)

				// Users
				r.Get("/users", userHandler.List)
				r.Get("/users/{id}", userHandler.GetByID)
				r.Put("/users/{id}", userHandler.Update)
				r.Post("/users/{id}/active", userHandler.SetActive)
				r.With(requireAdmin).Post("/users", userHandler.Create)
				r.With(requireAdmin).Delete("/users/{id}", userHandler.Delete)

				// Listings
				r.Get("/listings", listingHandler.List)
				r.Post("/listings", listingHandler.Create)
				r.Get("/listings/{id}", listingHandler.GetByID)
				r.Post("/listings/{id}/status", listingHandler.UpdateStatus)
				r.Post("/listings/{id}/photos", listingHandler.PresignPhoto)
				r.Get("/listings/{id}/photos", listingHandler.Photos)
				r.Delete("/listings/{id}", listingHandler.Delete)

				// Orders
				r.Get("/orders", orderHandler.List)
				r.Get("/orders/{id}", orderHandler.GetByID)
				r.Post("/orders/{id}/status", orderHandler.UpdateStatus)

				// Inquiries
				r.Get("/inquiries", inquiryHandler.List)
				r.Get("/inquiries/{id}", inquiryHandler.GetByID)
				r.Post("/inquiries/{id}/status", inquiryHandler.UpdateStatus)
				r.Delete("/inquiries/{id}", inquiryHandler.Delete)

				// Appointments
				r.Get("/appointments", appointmentHandler.List)
				r.Post("/appointments", appointmentHandler.Create)
				r.Get("/appointments/{id}", appointmentHandler.GetByID)
				r.Post("/appointments/{id}/status", appointmentHandler.UpdateStatus)

				// Forum moderation
				r.Get("/forum/posts", forumHandler.List)
				r.Get("/forum/posts/{id}", forumHandler.GetByID)
				r.Post("/forum/posts/{id}/moderate", forumHandler.Moderate)
				r.Delete("/forum/posts/{id}", forumHandler.Delete)
			})
		})
	})

	// Start background components
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ctr.Start(ctx); err != nil {
		logger.Error("failed to start background jobs", "error", err)
	}

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := ctr.Stop(shutdownCtx); err != nil {
			logger.Error("container shutdown error", "error", err)
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	// Start server
	logger.Info("Mr Cars admin API starting", "addr", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
