package invoice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	cfg "github.com/invoxa/invoice-manager/config"
	"github.com/invoxa/invoice-manager/internal/extraction"
	"github.com/invoxa/invoice-manager/internal/models"
	"github.com/invoxa/invoice-manager/internal/ocr"
	"github.com/invoxa/invoice-manager/pkg/logger"
	"github.com/invoxa/invoice-manager/pkg/queue"
	"github.com/invoxa/invoice-manager/pkg/storage"
)

// ErrNotFound is returned when an invoice id does not exist.
var ErrNotFound = errors.New("invoice not found")

type InvoiceManager struct {
	db      *gorm.DB
	ocr     *ocr.Factory
	storage storage.Storage
	queue   queue.Queue
	logger  logger.Logger
	config  *ServiceConfig
}

type ServiceConfig struct {
	MaxFileSize   int64
	AllowedTypes  []string
	MaxConcurrent int
}

func NewService(
	db *gorm.DB,
	factory *ocr.Factory,
	store storage.Storage,
	q queue.Queue,
	log logger.Logger,
	config *ServiceConfig,
) Service {
	if config == nil {
		config = &ServiceConfig{
			MaxFileSize:   50 * 1024 * 1024, // 50MB
			AllowedTypes:  []string{".pdf", ".jpg", ".jpeg", ".png", ".tiff"},
			MaxConcurrent: 5,
		}
	}

	return &InvoiceManager{
		db:      db,
		ocr:     factory,
		storage: store,
		queue:   q,
		logger:  log,
		config:  config,
	}
}

// GetService wires a service from global config.
func GetService(ctx context.Context, db *gorm.DB, log logger.Logger) (Service, error) {
	serverCfg := cfg.GetServerConfig()

	store, err := storage.NewStorage(storage.StorageType(serverCfg.StorageType), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	q, err := queue.GetQueue()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize queue: %w", err)
	}

	factory, err := ocr.NewFactory(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OCR factory: %w", err)
	}

	return NewService(db, factory, store, q, log, nil), nil
}

// Scan processes one uploaded invoice synchronously.
func (s *InvoiceManager) Scan(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*models.Invoice, error) {
	s.logger.Info("Scanning invoice",
		logger.String("filename", header.Filename),
		logger.Int64("size", header.Size),
	)

	data, ext, err := s.readUpload(file, header)
	if err != nil {
		return nil, err
	}

	fileKey := uuid.NewString() + ext
	if _, err := s.storage.Store(ctx, bytes.NewReader(data), fileKey); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	doc, err := s.ocr.Recognize(ctx, data, ext)
	if err != nil {
		return nil, fmt.Errorf("ocr failed: %w", err)
	}

	inv, err := s.buildInvoice(ctx, doc, header.Filename, fileKey)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.logger.Info("Invoice scanned",
		logger.String("invoiceId", inv.ID),
		logger.String("status", inv.Status),
		logger.Float64("amount", inv.Amount),
	)

	return s.Get(ctx, inv.ID)
}

// ScanAsync stores the file and defers OCR to a worker.
func (s *InvoiceManager) ScanAsync(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*ScanTask, error) {
	data, ext, err := s.readUpload(file, header)
	if err != nil {
		return nil, err
	}

	fileKey := uuid.NewString() + ext
	if _, err := s.storage.Store(ctx, bytes.NewReader(data), fileKey); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	inv := &models.Invoice{
		Status:   models.InvoiceStatusPending,
		Date:     time.Now(),
		FileName: header.Filename,
		FileKey:  fileKey,
	}
	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	task := &queue.Task{
		ID:        uuid.NewString(),
		Type:      queue.TaskTypeInvoiceScan,
		InvoiceID: inv.ID,
		FileKey:   fileKey,
		FileExt:   ext,
		Metadata: map[string]string{
			"filename": header.Filename,
		},
		CreatedAt: time.Now(),
	}

	if err := s.queue.Enqueue(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to enqueue scan: %w", err)
	}

	s.logger.Info("Scan task queued",
		logger.String("taskId", task.ID),
		logger.String("invoiceId", inv.ID),
	)

	return &ScanTask{TaskID: task.ID, Invoice: inv}, nil
}

// ScanBatch scans files concurrently, bounded by MaxConcurrent.
func (s *InvoiceManager) ScanBatch(ctx context.Context, files []*multipart.FileHeader) ([]*models.Invoice, error) {
	invoices := make([]*models.Invoice, 0, len(files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrent)

	for _, header := range files {
		header := header
		g.Go(func() error {
			file, err := header.Open()
			if err != nil {
				return fmt.Errorf("failed to open file %s: %w", header.Filename, err)
			}
			defer file.Close()

			inv, err := s.Scan(ctx, file, header)
			if err != nil {
				return fmt.Errorf("failed to scan file %s: %w", header.Filename, err)
			}

			mu.Lock()
			invoices = append(invoices, inv)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return invoices, err
	}

	return invoices, nil
}

func (s *InvoiceManager) ScanStatus(ctx context.Context, taskID string) (*queue.TaskStatus, error) {
	status, err := s.queue.GetTaskStatus(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task status: %w", err)
	}
	return status, nil
}

// HandleScanTask runs the deferred OCR for a queued invoice and updates
// the pending record in place.
func (s *InvoiceManager) HandleScanTask(ctx context.Context, task *queue.Task) error {
	if task == nil || task.InvoiceID == "" || task.FileKey == "" {
		return fmt.Errorf("invalid task: missing required data")
	}

	s.logger.Info("Processing scan task",
		logger.String("taskId", task.ID),
		logger.String("invoiceId", task.InvoiceID),
	)

	var inv models.Invoice
	if err := s.db.WithContext(ctx).First(&inv, "id = ?", task.InvoiceID).Error; err != nil {
		return fmt.Errorf("failed to load invoice: %w", err)
	}

	inv.Status = models.InvoiceStatusProcessing
	if err := s.db.WithContext(ctx).Save(&inv).Error; err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	reader, err := s.storage.Get(ctx, task.FileKey)
	if err != nil {
		s.markFailed(ctx, &inv)
		return fmt.Errorf("failed to get file: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		s.markFailed(ctx, &inv)
		return fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := s.ocr.Recognize(ctx, data, task.FileExt)
	if err != nil {
		s.markFailed(ctx, &inv)
		return fmt.Errorf("ocr failed: %w", err)
	}

	scanned, err := s.buildInvoice(ctx, doc, inv.FileName, inv.FileKey)
	if err != nil {
		s.markFailed(ctx, &inv)
		return err
	}

	scanned.ID = inv.ID
	scanned.CreatedAt = inv.CreatedAt
	if err := s.db.WithContext(ctx).Save(scanned).Error; err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}

	s.logger.Info("Scan task completed",
		logger.String("taskId", task.ID),
		logger.String("invoiceId", inv.ID),
		logger.String("status", scanned.Status),
	)

	return nil
}

// TestOCR runs the full pipeline without touching storage or the
// database, for trying out engine configuration.
func (s *InvoiceManager) TestOCR(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*TestOCRResult, error) {
	data, ext, err := s.readUpload(file, header)
	if err != nil {
		return nil, err
	}

	doc, err := s.ocr.Recognize(ctx, data, ext)
	if err != nil {
		return nil, fmt.Errorf("ocr failed: %w", err)
	}

	result, err := extraction.FromPages(doc.PageTexts())
	if err != nil {
		result = extraction.Degraded(err, doc.Text())
	}

	return &TestOCRResult{Document: doc, Extraction: result}, nil
}

// Create builds an invoice from caller input, optionally seeded by
// extraction over supplied OCR text. Caller values win over extracted
// ones.
func (s *InvoiceManager) Create(ctx context.Context, input CreateInvoiceInput) (*models.Invoice, error) {
	var inv *models.Invoice
	var extracted *extraction.Result

	if input.OCRText != "" {
		extracted = extraction.Extract(input.OCRText)
		inv = invoiceFromResult(extracted)
		ocrData, err := json.Marshal(extracted)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal extraction result: %w", err)
		}
		inv.OCRData = ocrData
	} else {
		inv = &models.Invoice{Date: time.Now()}
	}

	applyCreateInput(inv, input)
	inv.Status = models.InvoiceStatusProcessed

	var extractedCategory, extractedDepartment *string
	if extracted != nil {
		extractedCategory = extracted.Category
		extractedDepartment = extracted.Department
	}

	if err := s.resolveRelations(ctx, inv,
		coalesce(input.Category, extractedCategory),
		coalesce(input.Department, extractedDepartment),
	); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	return s.Get(ctx, inv.ID)
}

func (s *InvoiceManager) Get(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Department").
		First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	return &inv, nil
}

func (s *InvoiceManager) List(ctx context.Context, filter ListFilter) ([]models.Invoice, error) {
	q := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Department").
		Order("date DESC")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Vendor != "" {
		q = q.Where("vendor ILIKE ?", "%"+filter.Vendor+"%")
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.DepartmentID != "" {
		q = q.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var invoices []models.Invoice
	if err := q.Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (s *InvoiceManager) Update(ctx context.Context, id string, input UpdateInvoiceInput) (*models.Invoice, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Vendor != nil {
		inv.Vendor = input.Vendor
	}
	if input.InvoiceNumber != nil {
		inv.InvoiceNumber = input.InvoiceNumber
	}
	if input.Amount != nil {
		inv.Amount = *input.Amount
	}
	if input.Currency != nil {
		inv.Currency = input.Currency
	}
	if input.Date != nil {
		inv.Date = *input.Date
	}
	if input.Description != nil {
		inv.Description = *input.Description
	}
	if input.Status != nil {
		inv.Status = *input.Status
	}

	if input.Category != nil || input.Department != nil {
		if err := s.resolveRelations(ctx, inv, input.Category, input.Department); err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Save(inv).Error; err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	return s.Get(ctx, id)
}

func (s *InvoiceManager) Delete(ctx context.Context, id string) error {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if inv.FileKey != "" {
		if err := s.storage.Delete(ctx, inv.FileKey); err != nil {
			s.logger.Warn("Failed to delete stored file",
				logger.String("fileKey", inv.FileKey),
				logger.Error(err),
			)
		}
	}

	if err := s.db.WithContext(ctx).Delete(&models.Invoice{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	return nil
}

func (s *InvoiceManager) OCRData(ctx context.Context, id string) (json.RawMessage, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(inv.OCRData) == 0 {
		return nil, fmt.Errorf("invoice %s has no OCR data", id)
	}
	return json.RawMessage(inv.OCRData), nil
}

// CleanupFiles deletes stored files last modified before now minus
// retention. Invoices keep their extracted fields and OCR data; only
// the original blobs age out.
func (s *InvoiceManager) CleanupFiles(ctx context.Context, retention time.Duration) error {
	threshold := time.Now().Add(-retention)

	if err := s.storage.CleanupBefore(ctx, threshold); err != nil {
		return fmt.Errorf("failed to clean up stored files: %w", err)
	}

	s.logger.Info("Stored file cleanup completed",
		logger.Time("threshold", threshold),
	)
	return nil
}

func (s *InvoiceManager) TotalAmount(ctx context.Context, filter StatsFilter) (float64, error) {
	q := s.db.WithContext(ctx).Model(&models.Invoice{})

	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.DepartmentID != "" {
		q = q.Where("department_id = ?", filter.DepartmentID)
	}

	var total float64
	if err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum amounts: %w", err)
	}
	return total, nil
}

func (s *InvoiceManager) AmountByCategory(ctx context.Context) ([]GroupTotal, error) {
	var rows []GroupTotal
	err := s.db.WithContext(ctx).Model(&models.Invoice{}).
		Select("categories.id AS id, categories.name AS name, SUM(invoices.amount) AS total").
		Joins("JOIN categories ON categories.id = invoices.category_id").
		Group("categories.id, categories.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group by category: %w", err)
	}
	return rows, nil
}

func (s *InvoiceManager) AmountByDepartment(ctx context.Context) ([]GroupTotal, error) {
	var rows []GroupTotal
	err := s.db.WithContext(ctx).Model(&models.Invoice{}).
		Select("departments.id AS id, departments.name AS name, SUM(invoices.amount) AS total").
		Joins("JOIN departments ON departments.id = invoices.department_id").
		Group("departments.id, departments.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group by department: %w", err)
	}
	return rows, nil
}

// buildInvoice converts an OCR document into an invoice record, falling
// back to a degraded record when extraction fails.
func (s *InvoiceManager) buildInvoice(ctx context.Context, doc *ocr.Document, filename, fileKey string) (*models.Invoice, error) {
	status := models.InvoiceStatusProcessed
	result, err := extraction.FromPages(doc.PageTexts())
	if err != nil {
		s.logger.Warn("Extraction failed, keeping raw content",
			logger.String("filename", filename),
			logger.Error(err),
		)
		result = extraction.Degraded(err, doc.Text())
		status = models.InvoiceStatusDegraded
	}

	ocrData, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction result: %w", err)
	}

	inv := invoiceFromResult(result)
	inv.Status = status
	inv.FileName = filename
	inv.FileKey = fileKey
	inv.OCRData = ocrData

	if err := s.resolveRelations(ctx, inv, result.Category, result.Department); err != nil {
		return nil, err
	}

	return inv, nil
}

// resolveRelations turns category/department names into row references,
// creating rows on first sight of a name.
func (s *InvoiceManager) resolveRelations(ctx context.Context, inv *models.Invoice, categoryName, departmentName *string) error {
	if categoryName != nil && *categoryName != "" {
		var category models.Category
		err := s.db.WithContext(ctx).
			Where("name = ?", *categoryName).
			FirstOrCreate(&category, models.Category{Name: *categoryName}).Error
		if err != nil {
			return fmt.Errorf("failed to resolve category: %w", err)
		}
		inv.CategoryID = &category.ID
	}

	if departmentName != nil && *departmentName != "" {
		var department models.Department
		err := s.db.WithContext(ctx).
			Where("name = ?", *departmentName).
			FirstOrCreate(&department, models.Department{Name: *departmentName}).Error
		if err != nil {
			return fmt.Errorf("failed to resolve department: %w", err)
		}
		inv.DepartmentID = &department.ID
	}

	return nil
}

func (s *InvoiceManager) markFailed(ctx context.Context, inv *models.Invoice) {
	inv.Status = models.InvoiceStatusFailed
	if err := s.db.WithContext(ctx).Save(inv).Error; err != nil {
		s.logger.Error("Failed to mark invoice as failed",
			logger.String("invoiceId", inv.ID),
			logger.Error(err),
		)
	}
}

// readUpload validates the upload and returns its bytes and extension.
func (s *InvoiceManager) readUpload(file multipart.File, header *multipart.FileHeader) ([]byte, string, error) {
	if header.Size > s.config.MaxFileSize {
		return nil, "", fmt.Errorf("file size exceeds maximum limit of %d bytes", s.config.MaxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, t := range s.config.AllowedTypes {
		if t == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, "", fmt.Errorf("unsupported file type: %s", ext)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	return data, ext, nil
}
