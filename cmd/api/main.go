package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/assignment-champs-api/internal/config"
	"github.com/noah-isme/assignment-champs-api/internal/database"
	"github.com/noah-isme/assignment-champs-api/internal/handler"
	"github.com/noah-isme/assignment-champs-api/internal/middleware"
	"github.com/noah-isme/assignment-champs-api/internal/models"
	"github.com/noah-isme/assignment-champs-api/internal/repository"
	"github.com/noah-isme/assignment-champs-api/internal/router"
	"github.com/noah-isme/assignment-champs-api/internal/service"
	"github.com/noah-isme/assignment-champs-api/pkg/broker"
	cloud "github.com/noah-isme/assignment-champs-api/pkg/cloudinary"
)

// stores bundles the repositories of the selected backend.
type stores struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	pinger      handler.Pinger
	close       func()
}

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	level := zerolog.InfoLevel
	if cfg.AppEnv == "development" {
		level = zerolog.DebugLevel
	}
	logger = logger.Level(level).With().Str("service", cfg.AppName).Logger()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	store, err := openStores(startupCtx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("failed to open store")
	}
	defer store.close()

	redisClient, err := database.ConnectRedis(startupCtx, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.NATSURL != "" {
		publisher, err := broker.Connect(cfg.NATSURL, cfg.NATSSubjectPrefix, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer publisher.Close()
		events = publisher
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	assignmentService := service.NewAssignmentService(store.assignments, validate, service.AssignmentServiceOptions{
		Cache:           redisClient,
		CountCacheTTL:   cfg.AssignmentCountCacheTTL,
		UpsertOnMissing: cfg.UpsertOnMissing,
		StoreTimeout:    cfg.StoreTimeout,
		Events:          events,
	}, logger)
	submissionService := service.NewSubmissionService(store.submissions, validate, service.SubmissionServiceOptions{
		UpsertOnMissing: cfg.UpsertOnMissing,
		StoreTimeout:    cfg.StoreTimeout,
		Events:          events,
	}, logger)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL, validate, logger)

	deps := router.Dependencies{
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		AuthHandler:       handler.NewAuthHandler(tokenService, cfg.CookieSecure, logger),
		HealthHandler:     handler.NewHealthHandler(cfg, store.pinger, logger),
		TokenVerifier:     tokenService,
		Logger:            logger,
	}

	if cfg.CloudinaryEnabled() {
		thumbnails, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create cloudinary client")
		}
		deps.UploadHandler = handler.NewUploadHandler(service.NewUploadService(thumbnails, 5, logger), logger)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ErrorHandler: handler.ErrorHandler(logger),
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
		AccessLog:    cfg.AppEnv == "development",
	})
	if _, err := router.Register(app, cfg, deps); err != nil {
		logger.Fatal().Err(err).Msg("invalid route policy")
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Msg("listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func openStores(ctx context.Context, cfg config.Config, logger zerolog.Logger) (stores, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres, config.DriverSQLite:
		connect := database.ConnectPostgres
		if cfg.DatabaseDriver == config.DriverSQLite {
			connect = database.ConnectSQLite
		}
		db, err := connect(cfg.DatabaseURL)
		if err != nil {
			return stores{}, err
		}
		if err := db.AutoMigrate(&models.Assignment{}, &models.Submission{}); err != nil {
			_ = database.CloseSQL(db)
			return stores{}, err
		}
		return stores{
			assignments: repository.NewGormAssignmentRepository(db),
			submissions: repository.NewGormSubmissionRepository(db),
			pinger:      database.SQLPinger{DB: db},
			close: func() {
				if err := database.CloseSQL(db); err != nil {
					logger.Warn().Err(err).Msg("failed to close database")
				}
			},
		}, nil
	default:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return stores{}, err
		}
		logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongo")
		db := client.Database(cfg.MongoDatabase)
		return stores{
			assignments: repository.NewMongoAssignmentRepository(db.Collection(database.PublishedCollection), logger),
			submissions: repository.NewMongoSubmissionRepository(db.Collection(database.SubmittedCollection), logger),
			pinger:      database.MongoPinger{Client: client},
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := client.Disconnect(ctx); err != nil {
					logger.Warn().Err(err).Msg("failed to disconnect mongo")
				}
			},
		}, nil
	}
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
