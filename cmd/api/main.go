package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/finbook/finance-service/internal/config"
	"github.com/finbook/finance-service/internal/handler"
	"github.com/finbook/finance-service/internal/integrations/exchangerate"
	"github.com/finbook/finance-service/internal/integrations/nbp"
	"github.com/finbook/finance-service/internal/middleware"
	"github.com/finbook/finance-service/internal/repository"
	"github.com/finbook/finance-service/internal/scheduler"
	"github.com/finbook/finance-service/internal/service"
	"github.com/finbook/finance-service/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	if err := repository.Migrate(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	sender := email.NewSender(cfg, logger)
	users := service.NewUserService(repo, sender, service.BcryptHasher{}, logger, cfg)
	events := service.NewEventService(repo, logger)

	var source service.RateSource
	if cfg.RatesAPIKey != "" {
		source = exchangerate.NewClient(cfg, logger)
	} else {
		logger.Info("No rates API key configured, falling back to the NBP feed")
		source = nbp.NewClient(cfg, logger)
	}
	rates := service.NewRateService(repo, source, logger)

	h := handler.NewHandler(users, events, rates, logger, cfg)
	auth := middleware.NewSessionAuth(repo, logger)

	// Start background jobs
	sched := scheduler.New(users, rates, logger, cfg)
	sched.Start()
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	user := api.PathPrefix("/user").Subrouter()
	user.HandleFunc("/registration", h.Register).Methods("POST")
	user.HandleFunc("/check-username", h.CheckUsername).Methods("POST")
	user.HandleFunc("/check-email", h.CheckEmail).Methods("POST")
	user.HandleFunc("/authorize-registration/{pincode}", h.AuthorizeRegistration).Methods("GET")
	user.HandleFunc("/forgot-password", h.ForgotPassword).Methods("POST")
	user.HandleFunc("/verify-reset/{pincode}/{email}", h.VerifyReset).Methods("GET")
	user.HandleFunc("/reset-password/{pincode}/{email}", h.ResetPassword).Methods("PUT")
	user.HandleFunc("/login", h.Login).Methods("POST")
	user.HandleFunc("/logout", h.Logout).Methods("POST")
	user.Handle("/me", auth.Optional(http.HandlerFunc(h.Me))).Methods("GET")
	api.HandleFunc("/currency-rates", h.CurrencyRates).Methods("GET")

	// Protected routes
	authRouter := api.PathPrefix("/").Subrouter()
	authRouter.Use(auth.Middleware)
	authRouter.HandleFunc("/user/delete-account", h.DeleteAccount).Methods("DELETE")
	authRouter.HandleFunc("/event/add-event", h.AddEvent).Methods("POST")
	authRouter.HandleFunc("/event/get-events", h.GetEvents).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
