package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"retouch/internal/editing"
	"retouch/internal/http/handlers"
	httpapi "retouch/internal/http/httpapi"
	"retouch/internal/infra"
	"retouch/internal/providers/gemini"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	// Konfigurasi & logger
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// Provider Gemini + layanan edit. Server tetap boot tanpa API key;
	// permintaan edit gagal dengan error konfigurasi sampai key tersedia.
	client, err := gemini.NewClient(gemini.Options{
		APIKey:         cfg.GeminiAPIKey,
		BaseURL:        cfg.GeminiBaseURL,
		Model:          cfg.GeminiModel,
		Logger:         &logger,
		RequestTimeout: cfg.GeminiTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build gemini client")
	}
	editor := editing.NewService(client, &logger)
	if !editor.Ready() {
		logger.Warn().Msg("GEMINI_API_KEY is not set; edit requests will fail until it is configured")
	}

	// App container (inject config, logger, editor)
	app := handlers.NewApp(cfg, logger, editor)

	// Bangun router via package httpapi (sudah ada middleware chi di dalamnya)
	router := httpapi.NewRouter(app)

	// HTTP server wrapper dari infra
	server := infra.NewHTTPServer(cfg, router)

	// Start async
	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
