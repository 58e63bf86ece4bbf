// Package extract pulls plain text out of uploaded PDF documents.
package extract

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
)

// Extractor turns a PDF byte stream into the concatenated text of all pages.
type Extractor struct {
	log *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{log: logger}
}

// Text extracts the text of every page in reading order and joins the pages
// with newlines. Returns the combined text and the page count.
func (e *Extractor) Text(data []byte) (string, int, error) {
	start := time.Now()

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", 0, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return "", 0, fmt.Errorf("PDF has no pages")
	}

	texts := make([]string, 0, pages)
	for n := 0; n < pages; n++ {
		txt, err := doc.Text(n)
		if err != nil {
			return "", 0, fmt.Errorf("extracting page %d: %w", n+1, err)
		}
		if t := strings.TrimSpace(txt); t != "" {
			texts = append(texts, t)
		}
	}

	combined := JoinPages(texts)
	e.log.Info("extract.pdf.ok",
		"pages", pages,
		"bytes", len(data),
		"text_len", len(combined),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return combined, pages, nil
}

// JoinPages concatenates per-page text with newline separators, matching the
// order the pages appear in the document. Blank pages are expected to be
// filtered out by the caller.
func JoinPages(pages []string) string {
	return strings.Join(pages, "\n")
}
