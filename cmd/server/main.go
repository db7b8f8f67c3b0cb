package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/pkoziol/bookshare/internal/config"
	"github.com/pkoziol/bookshare/internal/database"
	"github.com/pkoziol/bookshare/internal/handler"
	"github.com/pkoziol/bookshare/internal/mailer"
	"github.com/pkoziol/bookshare/internal/queue"
	"github.com/pkoziol/bookshare/internal/repository"
	"github.com/pkoziol/bookshare/internal/router"
	"github.com/pkoziol/bookshare/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.Load()
	if cfg.Env == "dev" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	if err := database.EnsureSchema(db); err != nil {
		logger.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	// repositories
	users := repository.NewUserMySQLRepository(db)
	roles := repository.NewRoleMySQLRepository(db)
	categories := repository.NewCategoryMySQLRepository(db)
	offers := repository.NewOfferMySQLRepository(db)
	counterOffers := repository.NewCounterOfferMySQLRepository(db)
	rentals := repository.NewRentalMySQLRepository(db)
	verifyTokens := repository.NewVerificationTokenMySQLRepository(db)
	refreshTokens := repository.NewRefreshTokenMySQLRepository(db)
	files := repository.NewFileMySQLRepository(db)

	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := roles.EnsureDefaults(ctx); err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("seeding default roles failed")
		}
		cancel()
	}

	// optional side systems
	var verificationMailer service.VerificationMailer
	if os.Getenv("SMTP_HOST") != "" {
		verificationMailer = mailer.NewMailer(&logger)
	} else {
		logger.Warn().Msg("SMTP_HOST unset, verification emails disabled")
	}

	var rentalPublisher service.RentalEventPublisher
	if cfg.EnableRentalQueue && cfg.RabbitURL != "" {
		rentalPublisher = queue.NewPublisher(cfg.RabbitURL, &logger)
		go queue.StartRentalConsumer(cfg.RabbitURL, &logger)
	}

	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()

	// services
	accounts := service.NewAccountService(users, roles, verifyTokens, verificationMailer, service.AccountConfig{
		BcryptCost: cfg.BcryptCost,
		VerifyTTL:  time.Duration(cfg.VerifyTTLMin) * time.Minute,
		BaseURL:    cfg.BaseURL,
	}, &logger)
	offerSvc := service.NewOfferService(offers, &logger)
	counterOfferSvc := service.NewCounterOfferService(counterOffers, &logger)
	rentalSvc := service.NewRentalService(rentals, rentalPublisher, &logger)
	categorySvc := service.NewCategoryService(categories)
	roleSvc := service.NewRoleService(roles)

	cleanup := service.NewCleanupJob(verifyTokens, cfg.CleanupSchedule, &logger)
	if err := cleanup.Start(); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.CleanupSchedule).Msg("cleanup job failed to start")
	}
	defer cleanup.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.Register(e, router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, accounts, refreshTokens),
		Offers:        handler.NewOfferHandler(offerSvc, rdb, cacheCfg.Prefix),
		CounterOffers: handler.NewCounterOfferHandler(counterOfferSvc),
		Rentals:       handler.NewRentalHandler(rentalSvc),
		Categories:    handler.NewCategoryHandler(categorySvc),
		Roles:         handler.NewRoleHandler(roleSvc),
		Files:         handler.NewFileHandler(files),
	}, cfg.JWTSecret, cacheCfg, rdb)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
