package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rachel-analytics/invoice-insight/internal/common"
	"github.com/rachel-analytics/invoice-insight/internal/forecast"
	"github.com/rachel-analytics/invoice-insight/internal/llm/openai"
	"github.com/rachel-analytics/invoice-insight/internal/server"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set; chat will fail on first call")
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slogger := slog.Default()

	chat := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		ChatModel:   cfg.LLM.ChatModel,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, slogger)

	svc := forecast.NewService(chat, slogger)
	srv := server.NewForecastServer(svc, logger, cfg.CORS.AllowedOrigin, cfg.LLM.Timeout)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	go func() {
		log.Infof("forecastd serving on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
}
