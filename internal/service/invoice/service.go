// Package invoice implements the invoice workflow: scanning uploaded
// files through OCR, extracting structured fields, and managing the
// resulting records.
package invoice

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"time"

	"github.com/invoxa/invoice-manager/internal/extraction"
	"github.com/invoxa/invoice-manager/internal/models"
	"github.com/invoxa/invoice-manager/internal/ocr"
	"github.com/invoxa/invoice-manager/pkg/queue"
)

type Service interface {
	// Scan stores the file, runs OCR and extraction, and persists the
	// resulting invoice in one call.
	Scan(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*models.Invoice, error)

	// ScanAsync stores the file, creates a pending invoice and queues
	// the OCR work for a background worker.
	ScanAsync(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*ScanTask, error)

	// ScanBatch runs Scan concurrently over multiple files.
	ScanBatch(ctx context.Context, files []*multipart.FileHeader) ([]*models.Invoice, error)

	// ScanStatus reports the state of an async scan task.
	ScanStatus(ctx context.Context, taskID string) (*queue.TaskStatus, error)

	// HandleScanTask is the worker-side handler for queued scans.
	HandleScanTask(ctx context.Context, task *queue.Task) error

	// TestOCR runs OCR and extraction without persisting anything.
	TestOCR(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*TestOCRResult, error)

	Create(ctx context.Context, input CreateInvoiceInput) (*models.Invoice, error)
	Get(ctx context.Context, id string) (*models.Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]models.Invoice, error)
	Update(ctx context.Context, id string, input UpdateInvoiceInput) (*models.Invoice, error)
	Delete(ctx context.Context, id string) error

	// OCRData returns the raw extraction result stored with an invoice.
	OCRData(ctx context.Context, id string) (json.RawMessage, error)

	// CleanupFiles removes stored files older than the retention window.
	CleanupFiles(ctx context.Context, retention time.Duration) error

	TotalAmount(ctx context.Context, filter StatsFilter) (float64, error)
	AmountByCategory(ctx context.Context) ([]GroupTotal, error)
	AmountByDepartment(ctx context.Context) ([]GroupTotal, error)
}

// ScanTask is returned by ScanAsync.
type ScanTask struct {
	TaskID  string          `json:"taskId"`
	Invoice *models.Invoice `json:"invoice"`
}

// TestOCRResult pairs the raw OCR document with the extraction output.
type TestOCRResult struct {
	Document   *ocr.Document      `json:"document"`
	Extraction *extraction.Result `json:"extraction"`
}

// CreateInvoiceInput creates an invoice manually. When OCRText is set
// the text is run through extraction and its fields fill whatever the
// caller left empty; caller-supplied values always win.
type CreateInvoiceInput struct {
	Vendor        *string    `json:"vendor"`
	InvoiceNumber *string    `json:"invoiceNumber"`
	Amount        *float64   `json:"amount"`
	Currency      *string    `json:"currency"`
	Date          *time.Time `json:"date"`
	Description   *string    `json:"description"`
	Category      *string    `json:"category"`
	Department    *string    `json:"department"`
	OCRText       string     `json:"ocrText,omitempty"`
}

type UpdateInvoiceInput struct {
	Vendor        *string    `json:"vendor"`
	InvoiceNumber *string    `json:"invoiceNumber"`
	Amount        *float64   `json:"amount"`
	Currency      *string    `json:"currency"`
	Date          *time.Time `json:"date"`
	Description   *string    `json:"description"`
	Category      *string    `json:"category"`
	Department    *string    `json:"department"`
	Status        *string    `json:"status"`
}

type ListFilter struct {
	Status       string
	Vendor       string
	CategoryID   string
	DepartmentID string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

type StatsFilter struct {
	From         *time.Time
	To           *time.Time
	CategoryID   string
	DepartmentID string
}

// GroupTotal is one row of a grouped amount aggregation.
type GroupTotal struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}
