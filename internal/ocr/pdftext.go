package ocr

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/invoxa/invoice-manager/pkg/logger"
)

// PDFTextEngine extracts embedded text from digital PDFs without
// calling an OCR backend. Pages are processed concurrently and
// reassembled in page order.
type PDFTextEngine struct {
	logger logger.Logger
}

func NewPDFTextEngine(log logger.Logger) *PDFTextEngine {
	return &PDFTextEngine{
		logger: log,
	}
}

func (e *PDFTextEngine) CanProcess(mimeType string) bool {
	return mimeType == "application/pdf"
}

func (e *PDFTextEngine) Recognize(ctx context.Context, data []byte, mimeType string) (*Document, error) {
	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := pdfReader.NumPage()

	g, ctx := errgroup.WithContext(ctx)
	pageChan := make(chan Page, numPages)

	maxWorkers := 4
	sem := make(chan struct{}, maxWorkers)

	for i := 1; i <= numPages; i++ {
		pageNum := i
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return ctx.Err()
			}

			page := pdfReader.Page(pageNum)
			if page.V.IsNull() {
				return nil
			}

			text, err := page.GetPlainText(nil)
			if err != nil {
				return fmt.Errorf("failed to get text from page %d: %w", pageNum, err)
			}

			select {
			case pageChan <- Page{Index: pageNum - 1, Markdown: text}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		g.Wait()
		close(pageChan)
	}()

	pages := make([]Page, 0, numPages)
	for page := range pageChan {
		pages = append(pages, page)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Index < pages[j].Index
	})

	e.logger.Info("PDF text extraction completed",
		logger.Int("pages", len(pages)),
	)

	return &Document{Pages: pages}, nil
}

func (e *PDFTextEngine) Close() error {
	return nil
}
