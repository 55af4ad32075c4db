package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "tontine-backend/internal/api/http"
	"tontine-backend/internal/config"
	"tontine-backend/internal/logger"
	"tontine-backend/internal/repository/postgres"
	"tontine-backend/internal/security"
	"tontine-backend/internal/service"
	"tontine-backend/internal/storage"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Tontine Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	var emailSender service.EmailSender
	if cfg.Email.SendGridAPIKey != "" {
		emailSender = service.NewSendGridSender(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	} else {
		logger.Warn("No sendgrid key configured, email delivery disabled")
		emailSender = service.NewNoopSender()
	}

	fileStore, err := storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	authSvc := service.NewAuthService(store.UserRepository, store.OrganizationRepository, tokenManager)
	guard := service.NewGuard(store.MembershipRepository, store.AuditLogRepository)
	notify := service.NewNotifier(store.NotificationRepository, store.OrganizationRepository, emailSender)

	orgSvc := service.NewOrganizationService(guard, store.OrganizationRepository, store.UserRepository)
	subSvc := service.NewSubscriptionService(guard, store.SubscriptionRepository, store.MembershipRepository, store.ContributionPlanRepository, store.OrganizationRepository)
	memberSvc := service.NewMembershipService(guard, store.MembershipRepository, store.UserRepository,
		store.OrganizationRepository, store.SubscriptionRepository, store.ContributionRepository,
		store.DebtRepository, subSvc, notify)
	planSvc := service.NewContributionPlanService(guard, store.ContributionPlanRepository, store.ContributionRepository, store.MembershipRepository)
	contributionSvc := service.NewContributionService(guard, store.ContributionRepository, store.PaymentRepository,
		store.MembershipRepository, store.OrganizationRepository, notify)
	debtSvc := service.NewDebtService(guard, store.DebtRepository, store.PaymentRepository, store.MembershipRepository, notify)
	txSvc := service.NewTransactionService(guard, store.TransactionRepository)
	noteSvc := service.NewNotificationService(guard, store.NotificationRepository)

	server := httpapi.NewServer(authSvc, orgSvc, memberSvc, planSvc, contributionSvc, debtSvc, txSvc, subSvc, noteSvc, tokenManager, fileStore, cfg.Storage.UploadDir)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("HTTP server listening", "address", addr)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
