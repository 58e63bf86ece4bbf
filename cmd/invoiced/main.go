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
	"github.com/rachel-analytics/invoice-insight/internal/extract"
	"github.com/rachel-analytics/invoice-insight/internal/llm/openai"
	"github.com/rachel-analytics/invoice-insight/internal/report"
	"github.com/rachel-analytics/invoice-insight/internal/server"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.LLM.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set; extraction will fail on first call")
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slogger := slog.Default()

	reports, err := report.NewService(cfg.Report.TemplatePath, cfg.Report.OutputDir, slogger)
	if err != nil {
		log.Fatalf("report service: %v", err)
	}

	extractor := extract.NewExtractor(slogger)
	fields := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, slogger)

	srv := server.NewUploadServer(extractor, fields, reports, logger, cfg.Server.MaxUploadBytes, cfg.LLM.Timeout)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	go func() {
		log.Infof("invoiced serving on %s", cfg.Server.Addr)
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
