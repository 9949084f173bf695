package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"licenseserver/cache"
	"licenseserver/config"
	"licenseserver/database"
	_ "licenseserver/docs" // swagger docs
	"licenseserver/handlers"
	"licenseserver/logger"
	"licenseserver/middleware"
	"licenseserver/ratelimit"
	"licenseserver/scheduler"
	"licenseserver/services"
	"licenseserver/signing"
	"licenseserver/utils"

	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title License Server API
// @version 1.0
// @description License issuance and validation service

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT session token. Format: Bearer {token}

func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}

	logConfig := logger.Config{
		Level:    logger.ParseLevel(cfg.LogLevel),
		LogDir:   cfg.LogDir,
		MaxSize:  10 * 1024 * 1024,
		MaxAge:   7,
		UseColor: true,
	}
	if err := logger.Initialize(logConfig); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}

	logger.Info("License server starting")

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DBDriver); err != nil {
		logger.Fatal("Failed to run migrations: %v", err)
	}

	if err := database.SeedAdmin(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Fatal("Failed to seed admin account: %v", err)
	}

	utils.InitJWT(cfg.JWTSecret)

	signer, err := signing.New(cfg.SigningSecrets)
	if err != nil {
		logger.Fatal("Failed to initialize signer: %v", err)
	}

	store := cache.NewMemoryStore()
	defer store.Close()

	limiter := ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow)
	defer limiter.Stop()

	// Service layer.
	executor := services.NewSQLExecutor(db)
	auditService := services.NewAuditService(executor)
	domainService := services.NewDomainService(executor)
	adminService := services.NewAdminService(executor)
	licenseService := services.NewLicenseService(executor, store)
	customerService := services.NewCustomerService(executor)
	productService := services.NewProductService(executor)
	planService := services.NewPlanService(executor)
	dashboardService := services.NewDashboardService(executor, store)
	validationService := services.NewValidationService(executor, domainService, auditService, signer, store)

	// Handlers.
	validationHandler := handlers.NewValidationHandler(validationService)
	authHandler := handlers.NewAuthHandler(adminService)
	licenseHandler := handlers.NewLicenseHandler(licenseService, domainService, adminService)
	domainHandler := handlers.NewDomainHandler(domainService, adminService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	productHandler := handlers.NewProductHandler(productService)
	planHandler := handlers.NewPlanHandler(planService)
	logHandler := handlers.NewLogHandler(auditService, adminService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Background jobs.
	sched := scheduler.New(licenseService, auditService, adminService, cfg.LogRetentionDays)
	sched.Start()
	defer sched.Stop()

	mux := http.NewServeMux()

	publicChain := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.ChainMiddleware(h,
			middleware.LoggingMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		)
	}
	adminChain := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.ChainMiddleware(h,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		)
	}

	// Public client API. Rate limiting sits inside logging so rejected
	// requests still show up in the HTTP log.
	mux.HandleFunc("POST /api/v1/validate", middleware.ChainMiddleware(
		validationHandler.Validate,
		middleware.LoggingMiddleware,
		middleware.RateLimitMiddleware(limiter),
		middleware.CORSMiddleware,
		middleware.SetJSONHeader,
	))

	mux.HandleFunc("GET /health", publicChain(healthHandler))
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Admin API.
	mux.HandleFunc("POST /api/admin/login", publicChain(authHandler.Login))
	mux.HandleFunc("PUT /api/admin/password", adminChain(authHandler.ChangePassword))

	mux.HandleFunc("GET /api/admin/licenses", adminChain(licenseHandler.List))
	mux.HandleFunc("POST /api/admin/licenses", adminChain(licenseHandler.Create))
	mux.HandleFunc("GET /api/admin/licenses/{id}", adminChain(licenseHandler.Get))
	mux.HandleFunc("PUT /api/admin/licenses/{id}", adminChain(licenseHandler.Update))
	mux.HandleFunc("DELETE /api/admin/licenses/{id}", adminChain(licenseHandler.Delete))
	mux.HandleFunc("GET /api/admin/licenses/{id}/domains", adminChain(domainHandler.List))

	mux.HandleFunc("DELETE /api/admin/domains/{domainId}", adminChain(domainHandler.Unbind))
	mux.HandleFunc("PUT /api/admin/domains/{domainId}/verify", adminChain(domainHandler.Verify))

	mux.HandleFunc("GET /api/admin/customers", adminChain(customerHandler.List))
	mux.HandleFunc("POST /api/admin/customers", adminChain(customerHandler.Create))
	mux.HandleFunc("GET /api/admin/customers/{id}", adminChain(customerHandler.Get))
	mux.HandleFunc("PUT /api/admin/customers/{id}", adminChain(customerHandler.Update))
	mux.HandleFunc("DELETE /api/admin/customers/{id}", adminChain(customerHandler.Delete))

	mux.HandleFunc("GET /api/admin/products", adminChain(productHandler.List))
	mux.HandleFunc("POST /api/admin/products", adminChain(productHandler.Create))
	mux.HandleFunc("GET /api/admin/products/{id}", adminChain(productHandler.Get))
	mux.HandleFunc("PUT /api/admin/products/{id}", adminChain(productHandler.Update))
	mux.HandleFunc("DELETE /api/admin/products/{id}", adminChain(productHandler.Delete))

	mux.HandleFunc("GET /api/admin/plans", adminChain(planHandler.List))
	mux.HandleFunc("POST /api/admin/plans", adminChain(planHandler.Create))
	mux.HandleFunc("GET /api/admin/plans/{id}", adminChain(planHandler.Get))
	mux.HandleFunc("PUT /api/admin/plans/{id}", adminChain(planHandler.Update))
	mux.HandleFunc("DELETE /api/admin/plans/{id}", adminChain(planHandler.Delete))

	mux.HandleFunc("GET /api/admin/logs/validations", adminChain(logHandler.ListValidations))
	mux.HandleFunc("GET /api/admin/logs/activity", adminChain(logHandler.ListActivity))
	mux.HandleFunc("GET /api/admin/dashboard", adminChain(dashboardHandler.Stats))

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Server listening on %s", cfg.HTTPAddr)
		logger.Info("Swagger UI: http://localhost%s/swagger/index.html", cfg.HTTPAddr)
		errChan <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Warn("Received signal %v, shutting down", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed: %v", err)
		}
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed: %v", err)
		}
	}

	logger.Info("Server stopped")
}

// healthHandler reports liveness.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`{"status":"success","message":"Server is healthy"}`))
}
