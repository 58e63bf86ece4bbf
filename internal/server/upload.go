// Package server exposes the two HTTP surfaces: the invoice upload pipeline
// and the revenue-forecast chat API.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rachel-analytics/invoice-insight/internal/llm"
	"github.com/rachel-analytics/invoice-insight/internal/report"
)

// TextExtractor pulls plain text from an uploaded document.
// Satisfied by extract.Extractor.
type TextExtractor interface {
	Text(data []byte) (string, int, error)
}

// UploadServer wires the extraction pipeline: text extraction, LLM
// structuring, and report population, all synchronous within one request.
type UploadServer struct {
	extractor  TextExtractor
	fields     llm.FieldExtractor
	reports    *report.Service
	logger     *zap.Logger
	maxUpload  int64
	llmTimeout time.Duration
}

func NewUploadServer(ex TextExtractor, fe llm.FieldExtractor, rs *report.Service, logger *zap.Logger, maxUpload int64, llmTimeout time.Duration) *UploadServer {
	if maxUpload <= 0 {
		maxUpload = 25 << 20
	}
	if llmTimeout <= 0 {
		llmTimeout = 45 * time.Second
	}
	return &UploadServer{
		extractor:  ex,
		fields:     fe,
		reports:    rs,
		logger:     logger,
		maxUpload:  maxUpload,
		llmTimeout: llmTimeout,
	}
}

func (s *UploadServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/upload", s.handleUpload)
	r.Get("/download/res.xlsx", s.handleDownloadLatest)
	r.Get("/download/{id}.xlsx", s.handleDownloadByID)
	return r
}

func (s *UploadServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

// handleUpload runs the whole pipeline: multipart PDF in, structured record
// plus report ID out. A missing or empty file redirects back to the form with
// a warning before any extraction work happens.
func (s *UploadServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.flashRedirect(w, r, "warning", "Could not read the uploaded form. Please try again.")
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil || header.Filename == "" {
		s.flashRedirect(w, r, "warning", "No PDF file selected. Please choose a file to upload.")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		s.flashRedirect(w, r, "warning", "No PDF file selected. Please choose a file to upload.")
		return
	}

	text, pages, err := s.extractor.Text(data)
	if err != nil {
		s.logger.Warn("upload.extract_failed", zap.String("filename", header.Filename), zap.Error(err))
		s.flashRedirect(w, r, "error", "Error extracting PDF text: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.llmTimeout)
	defer cancel()

	rec, _, err := s.fields.ExtractInvoice(ctx, llm.ExtractRequest{
		Text:         text,
		FilenameHint: header.Filename,
		PageCount:    pages,
	})
	if err != nil {
		s.logger.Warn("upload.llm_failed", zap.String("filename", header.Filename), zap.Error(err))
		s.flashRedirect(w, r, "error", "Error calling OpenAI API: "+err.Error())
		return
	}

	reportID, err := s.reports.Populate(rec)
	if err != nil {
		s.logger.Warn("upload.populate_failed", zap.String("filename", header.Filename), zap.Error(err))
		s.flashRedirect(w, r, "error", "Error writing report: "+err.Error())
		return
	}

	s.logger.Info("upload.ok",
		zap.String("filename", header.Filename),
		zap.Int("pages", pages),
		zap.Int("items", len(rec.Items)),
		zap.String("report_id", reportID),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":       "success",
		"record":       rec,
		"report_id":    reportID,
		"download_url": "/download/" + reportID + ".xlsx",
	})
}

func (s *UploadServer) handleDownloadLatest(w http.ResponseWriter, r *http.Request) {
	id := s.reports.LatestID()
	if id == "" {
		http.Error(w, "no report has been generated yet", http.StatusNotFound)
		return
	}
	s.serveReport(w, r, id)
}

func (s *UploadServer) handleDownloadByID(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, chi.URLParam(r, "id"))
}

func (s *UploadServer) serveReport(w http.ResponseWriter, r *http.Request, id string) {
	path, err := s.reports.Path(id)
	if err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="res.xlsx"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}

func (s *UploadServer) flashRedirect(w http.ResponseWriter, r *http.Request, kind, msg string) {
	http.Redirect(w, r, "/?"+kind+"="+url.QueryEscape(msg), http.StatusSeeOther)
}
