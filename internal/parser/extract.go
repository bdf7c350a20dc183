package parser

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor turns a PDF file into one text string per page.
type Extractor interface {
	ExtractPages(ctx context.Context, path string) ([]string, error)
}

// Extractor names accepted by NewExtractor.
const (
	ExtractorNative    = "native"
	ExtractorPdftotext = "pdftotext"
)

// NewExtractor returns the extractor registered under name.
func NewExtractor(name string) (Extractor, error) {
	switch name {
	case "", ExtractorNative:
		return NativeExtractor{}, nil
	case ExtractorPdftotext:
		return PdftotextExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extractor %q: must be %s or %s", name, ExtractorNative, ExtractorPdftotext)
	}
}

// NativeExtractor reads PDF text in-process.
type NativeExtractor struct{}

func (NativeExtractor) ExtractPages(ctx context.Context, path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			// Pages without a content stream still count as empty pages.
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// PdftotextExtractor shells out to poppler's pdftotext.
type PdftotextExtractor struct {
	// Binary overrides the executable; defaults to "pdftotext" on PATH.
	Binary string
}

func (e PdftotextExtractor) ExtractPages(ctx context.Context, path string) ([]string, error) {
	bin := e.Binary
	if bin == "" {
		bin = "pdftotext"
	}
	cmd := exec.CommandContext(ctx, bin, path, "-")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}
	return splitFormFeeds(string(output)), nil
}

// splitFormFeeds splits pdftotext output into pages. pdftotext terminates
// every page with a form feed, so the trailing empty element is dropped.
func splitFormFeeds(out string) []string {
	pages := strings.Split(out, "\f")
	if n := len(pages); n > 0 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages
}
