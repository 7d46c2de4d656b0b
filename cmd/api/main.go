// @title           Kontrib API
// @version         1.0
// @description     Group contribution ledger with accountability partners and phone onboarding.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/FaisalEngish/Kontrib/docs"
	"github.com/FaisalEngish/Kontrib/internal/auth"
	"github.com/FaisalEngish/Kontrib/internal/config"
	"github.com/FaisalEngish/Kontrib/internal/contribution"
	"github.com/FaisalEngish/Kontrib/internal/database"
	"github.com/FaisalEngish/Kontrib/internal/group"
	"github.com/FaisalEngish/Kontrib/internal/metrics"
	"github.com/FaisalEngish/Kontrib/internal/notification"
	"github.com/FaisalEngish/Kontrib/internal/onboarding"
	"github.com/FaisalEngish/Kontrib/internal/partner"
	"github.com/FaisalEngish/Kontrib/internal/project"
	"github.com/FaisalEngish/Kontrib/internal/user"
	mw "github.com/FaisalEngish/Kontrib/pkg/middleware"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if cfg.RunMigrations {
		if err := database.ApplyMigrations(ctx, db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	metrics.Init()

	var issuer *auth.Issuer
	if cfg.JWTSecret != "" {
		issuer, err = auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			log.Fatalf("Invalid token configuration: %v", err)
		}
	} else if !cfg.DevAuth {
		log.Fatal("JWT_SECRET is required unless DEV_AUTH is enabled")
	}

	var codes onboarding.CodeStore = onboarding.NewMemoryCodeStore()
	if cfg.OTPStore == "redis" {
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rdb.Close()
		codes = onboarding.NewRedisCodeStore(rdb)
	}

	// User feature
	userService := user.NewService(user.NewRepository(db))
	userHandler := user.NewHandler(userService, cfg.BootstrapKey)

	// Group feature
	groupService := group.NewService(group.NewRepository(db), userService)
	groupHandler := group.NewHandler(groupService)

	// Project feature
	projectService := project.NewService(project.NewRepository(db), groupService)
	projectHandler := project.NewHandler(projectService)

	// Notification feature
	notificationService := notification.NewService(notification.NewRepository(db))
	notificationHandler := notification.NewHandler(notificationService)

	// Accountability partners
	partnerService := partner.NewService(partner.NewRepository(db), groupService, notificationService)
	partnerHandler := partner.NewHandler(partnerService)

	// Contribution ledger
	contributionService := contribution.NewService(
		contribution.NewRepository(db), groupService, projectService, partnerService, notificationService,
	)
	contributionHandler := contribution.NewHandler(contributionService)
	notificationService.SetContributionFinder(contributionService)

	// Onboarding; tokens are only issued when a signing secret is configured
	var tokens onboarding.TokenIssuer = devTokens{}
	if issuer != nil {
		tokens = issuer
	}
	flow := onboarding.NewFlow(onboarding.Deps{
		Groups:        groupService,
		Projects:      projectService,
		Users:         userService,
		Lookup:        userService,
		Tokens:        tokens,
		Contributions: contributionService,
		Notifier:      notificationService,
		Sender:        onboarding.LogSender{},
		Codes:         codes,
	}, onboarding.Options{
		CodeTTL:        cfg.OTPTTL,
		ResendInterval: cfg.OTPResendInterval,
		MaxAttempts:    cfg.OTPMaxAttempts,
	})
	onboardingHandler := onboarding.NewHandler(flow)

	var parser mw.TokenParser
	if issuer != nil {
		parser = issuer
	}
	authenticator := mw.NewAuthenticator(parser, cfg.DevAuth)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Instrument)
	r.Use(authenticator.Identify)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", onboardingHandler.AuthRoutes())
		r.Mount("/onboarding", onboardingHandler.Routes())
		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes(
			projectHandler.GroupRoutes,
			partnerHandler.GroupRoutes,
			contributionHandler.GroupRoutes,
		))
		r.Mount("/projects", projectHandler.Routes())
		r.Mount("/contributions", contributionHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// devTokens stands in for the issuer when only the development header is
// accepted. Verified users are told to send X-Test-User-ID instead.
type devTokens struct{}

func (devTokens) Issue(userID, _ string) (string, time.Time, error) {
	return userID, time.Now().Add(24 * time.Hour), nil
}
