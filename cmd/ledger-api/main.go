package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/app"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/config"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/controllers"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/middleware"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/ready"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/repositories"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/routes"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/services"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	// The listener comes up immediately behind a readiness gate, so
	// health checks see 503 warming_up instead of connection refused
	// while the database connection is being established.
	var router http.Handler
	gate := ready.NewGate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.ServeHTTP(w, r)
	}), nil)

	var (
		application *app.App
		scheduler   *cron.Cron
	)
	go func() {
		var err error
		application, err = app.NewApp(cfg)
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to initialize app")
		}

		router = buildRouter(application)
		scheduler = startScheduler(application)

		if !gate.MarkReady() {
			utils.Logger.Warn("Gate closed before warm-up finished")
			return
		}
		utils.Logger.Infof("%s ready on port %s", cfg.AppName, cfg.AppPort)
	}()

	go func() {
		time.Sleep(cfg.WarmupTimeout)
		if !gate.Ready() && !gate.Closed() {
			utils.Logger.Errorf("Warm-up still pending after %s", cfg.WarmupTimeout)
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: corsHandler(cfg).Handler(gate),
	}

	go func() {
		utils.Logger.Infof("Listening on port %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.WithError(err).Fatal("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	utils.Logger.Info("Shutting down...")
	gate.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.WithError(err).Error("Graceful shutdown failed")
	}

	if scheduler != nil {
		scheduler.Stop()
	}
	if application != nil {
		application.Close()
	}
	utils.Logger.Info("Bye")
}

func buildRouter(a *app.App) http.Handler {
	userRepo := repositories.NewUserRepository(a.DB)
	tokenRepo := repositories.NewRefreshTokenRepository(a.DB)
	attemptsRepo := repositories.NewLoginAttemptsRepository(a.DB)
	membershipRepo := repositories.NewMembershipRepository(a.DB)
	orgRepo := repositories.NewOrganisationRepository(a.DB)
	taxCodeRepo := repositories.NewTaxCodeRepository(a.DB)
	contactRepo := repositories.NewContactRepository(a.DB)
	docRepo := repositories.NewDocumentRepository(a.DB)

	jwtService := services.NewJWTService(a.Config.RSAPrivateKey)
	authService := services.NewAuthService(a.Config, userRepo, tokenRepo, attemptsRepo, membershipRepo, jwtService)
	orgService := services.NewOrganisationService(orgRepo, taxCodeRepo, contactRepo, docRepo)
	contactService := services.NewContactService(contactRepo)
	mailer := services.NewSendGridMailer(a.Config.SendGridAPIKey, a.Config.SendGridFromEmail)
	docService := services.NewDocumentService(docRepo, contactRepo, taxCodeRepo, orgRepo, mailer)

	return routes.NewRouter(
		routes.Controllers{
			Auth:         controllers.NewAuthController(authService),
			Organisation: controllers.NewOrganisationController(orgService),
			Contact:      controllers.NewContactController(contactService),
			Document:     controllers.NewDocumentController(docService),
			Health:       controllers.NewHealthController(a.DB),
		},
		routes.Middleware{
			Auth:   middleware.AuthMiddleware(a.Config.RSAPublicKey),
			Tenant: middleware.TenantMiddleware(membershipRepo),
		},
	)
}

func startScheduler(a *app.App) *cron.Cron {
	tokenRepo := repositories.NewRefreshTokenRepository(a.DB)
	attemptsRepo := repositories.NewLoginAttemptsRepository(a.DB)
	cleanup := services.NewTokenCleanupService(tokenRepo, attemptsRepo)

	c := cron.New()
	if _, err := c.AddFunc("0 3 * * *", func() {
		cleanup.CleanupDaily(context.Background())
	}); err != nil {
		utils.Logger.WithError(err).Error("Failed to schedule token cleanup")
	}
	c.Start()
	return c
}

func corsHandler(cfg *config.Config) *cors.Cors {
	origins := []string{"*"}
	credentials := false
	if cfg.CORSHighSecurity {
		origins = []string{cfg.AppUrl}
		credentials = true
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: credentials,
	})
}
