// Package extract pulls the text layer out of handbook PDFs and publishes
// the cleaned result to the document source the ingestion pipeline reads
// from.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Uploader publishes extracted text to a document store.
type Uploader interface {
	Put(ctx context.Context, key, text string) error
}

// Text extracts the text of every page of a PDF and normalises it with
// Clean. Pages without a text layer are skipped.
func Text(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d of %s: %w", i, path, err)
		}
		if content != "" {
			pages = append(pages, content)
		}
	}

	return Clean(strings.Join(pages, "\n\n")), nil
}

// Clean trims every line and drops blank ones. PDF text layers carry
// trailing spaces and layout-induced empty lines that only waste
// embedding tokens.
func Clean(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

// Process runs the full side pipeline for one PDF: extract the text, save
// it next to the data directory, and upload it under the document source
// key the ingestion pipeline will later fetch. The uploader may be nil for
// local-only extraction.
func Process(ctx context.Context, pdfPath, outPath, key string, up Uploader) (string, error) {
	text, err := Text(pdfPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(outPath), err)
	}
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", outPath, err)
	}

	if up != nil && key != "" {
		if err := up.Put(ctx, key, text); err != nil {
			return "", err
		}
	}

	return text, nil
}
