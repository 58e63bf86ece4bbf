package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rachel-analytics/invoice-insight/internal/common"
	"github.com/rachel-analytics/invoice-insight/internal/forecast"
)

// ForecastServer exposes the stateless revenue-forecast chat API.
type ForecastServer struct {
	svc           *forecast.Service
	logger        *zap.Logger
	allowedOrigin string
	llmTimeout    time.Duration
}

func NewForecastServer(svc *forecast.Service, logger *zap.Logger, allowedOrigin string, llmTimeout time.Duration) *ForecastServer {
	if llmTimeout <= 0 {
		llmTimeout = 45 * time.Second
	}
	return &ForecastServer{
		svc:           svc,
		logger:        logger,
		allowedOrigin: allowedOrigin,
		llmTimeout:    llmTimeout,
	}
}

// chatRequest is the /api/chat body: a question plus the revenue table it
// refers to. Nothing is stored between requests.
type chatRequest struct {
	Message string                `json:"message"`
	Context forecast.RevenueTable `json:"context"`
}

func (s *ForecastServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(s.allowedOrigin))

	r.Post("/api/revenue-forecast", s.handleSaveForecast)
	r.Get("/api/revenue-forecast", s.handleGetForecast)
	r.Post("/api/chat", s.handleChat)
	return r
}

// handleSaveForecast echoes the validated table back. Despite the name, no
// persistence happens; the endpoint exists for the dashboard's submit flow.
func (s *ForecastServer) handleSaveForecast(w http.ResponseWriter, r *http.Request) {
	var table forecast.RevenueTable
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		s.writeDetail(w, http.StatusBadRequest, "invalid revenue table payload")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Revenue forecast data received successfully",
		"data":    table,
	})
}

// handleGetForecast always returns an empty success envelope: there is no
// store to read from.
func (s *ForecastServer) handleGetForecast(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data":   map[string]any{},
	})
}

func (s *ForecastServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDetail(w, http.StatusBadRequest, "invalid chat payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.llmTimeout)
	defer cancel()

	reply, err := s.svc.Chat(ctx, req.Message, req.Context)
	if err != nil {
		// Full error goes to the log; the caller gets the code and a generic
		// message, not upstream internals.
		s.logger.Warn("chat.failed", zap.Error(err))
		s.writeDetail(w, http.StatusBadRequest, sanitizeDetail(err))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": reply,
	})
}

func sanitizeDetail(err error) string {
	var ae *common.AppError
	if errors.As(err, &ae) {
		return ae.Code + ": " + ae.Message
	}
	return "request failed"
}

func (s *ForecastServer) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("response.encode_failed", zap.Error(err))
	}
}

func (s *ForecastServer) writeDetail(w http.ResponseWriter, code int, detail string) {
	s.writeJSON(w, code, map[string]string{"detail": detail})
}
