// Package ocr turns uploaded invoice files into markdown text.
// Each engine wraps one recognition backend; all of them produce the
// same Document shape so the extraction layer never cares which one ran.
package ocr

import (
	"context"
	"strings"
)

// Page is one recognized page. Markdown holds the page text with tables
// rendered as pipe-delimited markdown rows.
type Page struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

// Document is the full recognition result for one file.
type Document struct {
	Pages []Page `json:"pages"`
	Model string `json:"model,omitempty"`
}

// PageTexts returns the markdown of every page in page order.
func (d *Document) PageTexts() []string {
	texts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		texts = append(texts, p.Markdown)
	}
	return texts
}

// Text joins all pages into a single string.
func (d *Document) Text() string {
	return strings.Join(d.PageTexts(), "\n")
}

// Engine recognizes text in a document or image.
type Engine interface {
	// CanProcess reports whether the engine accepts the given MIME type.
	CanProcess(mimeType string) bool

	// Recognize runs OCR over the raw file bytes.
	Recognize(ctx context.Context, data []byte, mimeType string) (*Document, error)

	// Close releases any backend resources.
	Close() error
}
