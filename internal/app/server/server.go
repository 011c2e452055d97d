package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"kpitrack/internal/domain/audit"
	"kpitrack/internal/domain/auth"
	"kpitrack/internal/domain/employee"
	"kpitrack/internal/domain/kpi"
	"kpitrack/internal/domain/notifications"
	"kpitrack/internal/domain/reward"
	"kpitrack/internal/platform/config"
	"kpitrack/internal/platform/db"
	"kpitrack/internal/platform/email"
	"kpitrack/internal/platform/jobs"
	"kpitrack/internal/platform/metrics"
	"kpitrack/internal/transport/http/api"
	audithandler "kpitrack/internal/transport/http/handlers/audit"
	authhandler "kpitrack/internal/transport/http/handlers/auth"
	employeehandler "kpitrack/internal/transport/http/handlers/employee"
	jobshandler "kpitrack/internal/transport/http/handlers/jobs"
	kpihandler "kpitrack/internal/transport/http/handlers/kpi"
	notificationshandler "kpitrack/internal/transport/http/handlers/notifications"
	rewardhandler "kpitrack/internal/transport/http/handlers/reward"
	"kpitrack/internal/transport/http/middleware"
)

func Run() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	authService := auth.NewService(auth.NewStore(pool))
	employeeStore := employee.NewStore(pool)
	kpiService := kpi.NewService(kpi.NewStore(pool), employeeStore)
	rewardService := reward.NewService(reward.NewStore(pool))
	notifyService := notifications.New(notifications.NewStore(pool), email.New(cfg), cfg.EmailEnabled, cfg.EmailFrom)
	auditService := audit.New(pool)
	collector := metrics.New()

	jobService := jobs.New(pool, cfg, notifyService)
	jobService.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService, cfg.JWTSecret).RegisterRoutes(r)
		employeehandler.NewHandler(employeeStore, authService).RegisterRoutes(r)
		kpihandler.NewHandler(kpiService, employeeStore, authService, notifyService, auditService, pool).RegisterRoutes(r)
		rewardhandler.NewHandler(rewardService, employeeStore, authService, notifyService, auditService, cfg).RegisterRoutes(r)
		notificationshandler.NewHandler(notifyService).RegisterRoutes(r)
		audithandler.NewHandler(auditService, authService).RegisterRoutes(r)
		jobshandler.NewHandler(jobService, authService).RegisterRoutes(r)
	})

	log.Printf("kpitrack server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
