package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/wicaksana/swara/adapters"
	"github.com/wicaksana/swara/adapters/mongo"
	"github.com/wicaksana/swara/adapters/stt"
	"github.com/wicaksana/swara/adapters/telegram"
	"github.com/wicaksana/swara/adapters/transcoder"
	"github.com/wicaksana/swara/adapters/tts"
	"github.com/wicaksana/swara/domain/entities"
	"github.com/wicaksana/swara/domain/repositories"
	"github.com/wicaksana/swara/internal/api"
	"github.com/wicaksana/swara/internal/auth"
	"github.com/wicaksana/swara/internal/bot"
	"github.com/wicaksana/swara/internal/config"
	"github.com/wicaksana/swara/internal/session"
	"github.com/wicaksana/swara/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.New()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Preference store: MongoDB when configured, in-memory otherwise.
	var prefs repositories.PreferenceRepository
	if cfg.MongoURI != "" {
		client, err := mongo.NewClient(cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(ctx)
		}()
		prefs = mongo.NewPreferenceRepository(client.Database, logger)
	} else {
		logger.Warn("MONGODB_URI not set, preferences will not survive restarts")
		prefs = adapters.NewMemoryPreferenceRepository()
	}

	// Messaging platform gateway
	gateway, err := telegram.NewGateway(telegram.Config{
		Token:      cfg.BotToken,
		APIBaseURL: cfg.BotAPIBaseURL,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create bot gateway", zap.Error(err))
	}
	entitlement := telegram.NewChannelEntitlement(gateway, cfg.RequiredChannel, logger)

	// Speech services
	var synthesizer repositories.SpeechSynthesizer
	switch cfg.TTSService {
	case "google":
		synthesizer = tts.NewGoogleSynthesizer(logger)
	default:
		synthesizer = tts.NewEdgeSynthesizer(tts.NewEdgeConfigFromEnv(), logger)
	}
	recognizer := stt.NewGoogleRecognizer(logger)
	ffmpeg := transcoder.Discover(cfg.FFmpegBinary, logger)

	// Initialize usecase services
	catalog := entities.NewVoiceCatalog()
	sessions := session.NewTracker()
	menuService := usecase.NewMenuService(prefs, catalog, sessions, gateway, logger)
	synthesisService := usecase.NewSynthesisService(
		prefs, catalog, synthesizer, gateway,
		cfg.LivenessInterval, cfg.MaxTextLength, "", logger)
	transcriptionService := usecase.NewTranscriptionService(
		prefs, recognizer, ffmpeg, gateway,
		cfg.LivenessInterval, logger)

	dispatcher := bot.NewDispatcher(
		menuService, synthesisService, transcriptionService,
		sessions, entitlement, gateway, cfg.RequiredChannel, logger)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Initialize API routes
	api.InitRoutes(e, api.Deps{
		Dispatcher:    dispatcher,
		Gateway:       gateway,
		Prefs:         prefs,
		Auth:          auth.NewService(cfg.AdminJWTSecret),
		WebhookURL:    cfg.WebhookURL,
		WebhookSecret: cfg.WebhookSecret,
		Logger:        logger,
	})

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("tts_service", cfg.TTSService),
		zap.Bool("transcoder_ready", ffmpeg.Ready()))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
