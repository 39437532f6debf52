package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cms-dashboard/internal/auth"
	"cms-dashboard/internal/cache"
	"cms-dashboard/internal/config"
	"cms-dashboard/internal/data"
	"cms-dashboard/internal/handler"
	"cms-dashboard/internal/jobs"
	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/middleware"
	"cms-dashboard/internal/service"
	"cms-dashboard/internal/session"
	"cms-dashboard/internal/storage"
	"cms-dashboard/internal/view"
	"cms-dashboard/web"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, nil)

	// --- Pre-flight Checks ---
	if cfg.Session.SecretKey == "" || cfg.Session.SecretKey == "CHANGE_ME_IN_PRODUCTION_SECRET!!" {
		log.Fatal(errors.New("session secret key not set"), "Please set a secure CMS_SESSION_SECRET_KEY environment variable.")
	}

	ctx := context.Background()

	// --- Database Initialization and Migration ---
	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB.Driver, cfg.DB.DSN, cfg.DB.Migrations); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Session Management Setup ---
	sessionManager := session.New(cfg.Session, cfg.DB.Driver, db.DB)

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	var authenticator handler.Authenticator
	if cfg.OIDC.IssuerURL != "" {
		a, err := auth.NewAuthenticator(ctx, cfg.OIDC)
		if err != nil {
			log.Fatal(err, "Failed to initialize authenticator")
		}
		authenticator = a
	}
	enforcer, err := auth.NewEnforcer(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)
	log.Info("Auth components initialized and policies seeded.")

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	log.Info("View templates initialized.")

	// --- Cache and Object Storage ---
	log.Info("Initializing SQLite cache...")
	urlCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer urlCache.Close()

	log.Info(fmt.Sprintf("Initializing %s object storage...", cfg.Storage.Driver))
	objects, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatal(err, "Failed to initialize object storage")
	}
	var media http.Handler
	if fsStore, ok := objects.(*storage.FileSystemStore); ok {
		media = fsStore.Handler()
	}
	store := storage.NewCachedStore(objects, urlCache, cfg.Cache.URLTTL)

	// --- Background Jobs ---
	scheduler := jobs.NewScheduler(log)
	if err := scheduler.Add(jobs.CachePurgeJob(cfg.Jobs.CachePurge, urlCache, log)); err != nil {
		log.Fatal(err, "Failed to schedule cache purge")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewMetrics(registry)
	if err != nil {
		log.Fatal(err, "Failed to register metrics")
	}

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	galleryService := service.NewGalleryService(data.NewSQLGalleryRepository(db), store, log)
	aboutService := service.NewAboutService(data.NewSQLAboutRepository(db), store, log)
	contactService := service.NewContactService(data.NewSQLContactRepository(db))
	authService := service.NewAuthService(data.NewUserRepository(db))
	editorService := service.NewEditorService()

	authHandler := handler.NewAuthHandler(authService, authenticator, sessionManager, viewService, log)
	errorPages := middleware.Error(log, viewService)

	// --- Router Setup ---
	// The router is the central hub that directs incoming requests to the correct handlers.
	router := handler.NewRouter(handler.Routes{
		Auth:           authHandler,
		Gallery:        handler.NewGalleryHandler(galleryService, sessionManager, viewService, log),
		Documents:      handler.NewDocumentHandler(aboutService, contactService, editorService, sessionManager, viewService, log),
		Editor:         handler.NewEditorHandler(editorService, log),
		Session:        sessionManager,
		Authz:          middleware.Authorizer(enforcer, sessionManager, log, errorPages(authHandler.PermissionDenied)),
		Errors:         errorPages,
		Metrics:        metrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Static:         web.StaticHandler(),
		Media:          media,
		Ready:          db.PingContext,
	})

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
