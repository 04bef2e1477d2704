package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satriahrh/mika/adapters"
	"github.com/satriahrh/mika/adapters/upload"
	"github.com/satriahrh/mika/internal/api"
	"github.com/satriahrh/mika/internal/config"
	"github.com/satriahrh/mika/internal/logging"
	"github.com/satriahrh/mika/internal/metrics"
	"github.com/satriahrh/mika/usecase"
)

var (
	serveConfigFile string
	serveEnvFile    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server.

Configuration is read from defaults, then the optional YAML file, then the
environment. A .env file is loaded into the environment first if present.

Examples:
  mika serve
  mika serve --config mika.yaml
  STT_PROVIDER=mock LLM_TIERS=mock:echo TTS_PROVIDER=mock mika serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "YAML configuration file")
	serveCmd.Flags().StringVar(&serveEnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd)
}

func runServer(ctx context.Context) error {
	if err := godotenv.Load(serveEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg, err := config.Load(serveConfigFile)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if ctx == nil {
		ctx = context.Background()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	// Initialize adapters
	uploads, err := upload.NewDiskUploadStore(cfg.Paths.UploadDir, logger)
	if err != nil {
		return err
	}

	speechToText, err := newSpeechToText(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if closer, ok := speechToText.(io.Closer); ok {
		defer closer.Close()
	}

	tiers, err := newTiers(ctx, cfg, logger)
	if err != nil {
		return err
	}

	textToSpeech, err := newTextToSpeech(cfg, logger)
	if err != nil {
		return err
	}

	sessions := adapters.NewMemorySessionRepository(logger)

	// Initialize usecase services
	chatService, err := usecase.NewChatService(tiers, cfg.LLM.Timeout, m, logger)
	if err != nil {
		return err
	}
	speechService := usecase.NewSpeechService(textToSpeech, usecase.SpeechConfig{
		FallbackURL:   cfg.Paths.FallbackAudio,
		MaxChunkChars: cfg.TTS.MaxChunkChars,
		Concurrency:   cfg.TTS.Concurrency,
		Timeout:       cfg.TTS.Timeout,
	}, m, logger)
	conversationService := usecase.NewConversationService(
		uploads,
		sessions,
		usecase.NewTranscriptionService(speechToText, cfg.STT.Timeout, logger),
		chatService,
		speechService,
		m,
		logger,
	)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize API routes
	handler := api.NewHandler(conversationService, sessions, cfg.Paths.FallbackAudio, cfg.Server.Debug, logger)
	api.InitRoutes(e, handler, cfg.Paths.StaticDir, registry)

	// Graceful shutdown
	go func() {
		if err := e.Start(cfg.Server.ListenAddress()); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("address", cfg.Server.ListenAddress()),
		zap.String("stt", cfg.STT.Provider),
		zap.Int("tiers", len(tiers)),
		zap.String("tts", cfg.TTS.Provider),
		zap.String("staticDir", filepath.Clean(cfg.Paths.StaticDir)),
		zap.Bool("debug", cfg.Server.Debug))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exited")
	return nil
}
