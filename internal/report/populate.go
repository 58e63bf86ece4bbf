// Package report fills the invoice spreadsheet template with a structured
// record and the material/labor subtotals.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/rachel-analytics/invoice-insight/internal/common"
	"github.com/rachel-analytics/invoice-insight/internal/llm"
)

const (
	sheetName = "Sheet1"

	cellProject    = "B6"
	cellContractor = "B7"
	cellBilling    = "B8"
	cellInvoiceNo  = "B9"
	cellMaterial   = "B11"
	cellLabor      = "B13"

	usdNumFmt = `"$"#,##0.00`
)

// Service loads the spreadsheet template once and clones it per request, so
// the template file is never mutated and concurrent uploads never collide:
// every populated report gets its own UUID-keyed output file.
type Service struct {
	template  []byte
	outputDir string
	logger    *slog.Logger

	mu     sync.Mutex
	latest string
}

func NewService(templatePath, outputDir string, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tpl, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", templatePath, err)
	}
	// Fail early if the template is not a workbook we can open.
	f, err := excelize.OpenReader(bytes.NewReader(tpl))
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", templatePath, err)
	}
	_ = f.Close()
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outputDir, err)
	}
	return &Service{template: tpl, outputDir: outputDir, logger: logger}, nil
}

// Populate writes the record's essential fields and the material/labor
// subtotals into a fresh copy of the template and persists it under a
// generated report ID. Returns the ID used by the download endpoint.
func (s *Service) Populate(rec llm.InvoiceRecord) (string, error) {
	start := time.Now()

	totals, err := SumByType(rec.Items)
	if err != nil {
		return "", err
	}
	warnInconsistentLines(rec.Items, s.logger)

	f, err := excelize.OpenReader(bytes.NewReader(s.template))
	if err != nil {
		return "", fmt.Errorf("open template copy: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("report.template_close_error", "error", cerr)
		}
	}()

	_ = f.SetCellValue(sheetName, cellProject, rec.ProjectName)
	_ = f.SetCellValue(sheetName, cellContractor, rec.ContractorName)
	_ = f.SetCellValue(sheetName, cellBilling, rec.BillingDate)
	_ = f.SetCellValue(sheetName, cellInvoiceNo, rec.InvoiceNumber)

	usd := usdNumFmt
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &usd})
	if err != nil {
		return "", fmt.Errorf("currency style: %w", err)
	}
	_ = f.SetCellValue(sheetName, cellMaterial, totals.Material)
	_ = f.SetCellStyle(sheetName, cellMaterial, cellMaterial, style)
	_ = f.SetCellValue(sheetName, cellLabor, totals.Labor)
	_ = f.SetCellStyle(sheetName, cellLabor, cellLabor, style)

	id := uuid.New().String()
	out := filepath.Join(s.outputDir, id+".xlsx")
	if err := f.SaveAs(out); err != nil {
		if isLockedErr(err) {
			return "", common.ResourceLockedError("report file is held by another process; close it and retry", err)
		}
		return "", fmt.Errorf("save report: %w", err)
	}

	s.mu.Lock()
	s.latest = id
	s.mu.Unlock()

	s.logger.Info("report.populate.ok",
		"report_id", id,
		"items", len(rec.Items),
		"material_total", totals.Material,
		"labor_total", totals.Labor,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return id, nil
}

// Path resolves a report ID to its on-disk file. IDs are UUIDs, which also
// keeps path traversal out of the download handler.
func (s *Service) Path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", common.UserInputError("invalid report id")
	}
	p := filepath.Join(s.outputDir, id+".xlsx")
	if _, err := os.Stat(p); err != nil {
		return "", common.UserInputError("report not found")
	}
	return p, nil
}

// LatestID returns the most recently written report ID, or empty when no
// report has been produced since startup.
func (s *Service) LatestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func isLockedErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrPermission) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "sharing violation") ||
		strings.Contains(msg, "used by another process") ||
		strings.Contains(msg, "resource busy")
}
