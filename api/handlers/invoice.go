package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/invoxa/invoice-manager/internal/service/invoice"
	"github.com/invoxa/invoice-manager/pkg/export"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

type InvoiceHandler struct {
	service invoice.Service
	logger  logger.Logger
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewInvoiceHandler(service invoice.Service, logger logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		logger:  logger,
	}
}

// Scan handles synchronous upload-and-extract.
func (h *InvoiceHandler) Scan(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	inv, err := h.service.Scan(c.Request.Context(), file, header)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to scan invoice", err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// ScanAsync queues the scan and returns a task handle.
func (h *InvoiceHandler) ScanAsync(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	task, err := h.service.ScanAsync(c.Request.Context(), file, header)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to queue scan", err)
		return
	}

	c.JSON(http.StatusAccepted, task)
}

// ScanBatch scans several uploads in one request.
func (h *InvoiceHandler) ScanBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		h.handleError(c, http.StatusBadRequest, "No files provided", nil)
		return
	}

	invoices, err := h.service.ScanBatch(c.Request.Context(), files)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to scan files", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  fmt.Sprintf("Scanned %d invoices", len(invoices)),
		"invoices": invoices,
	})
}

// ScanStatus reports the state of an async scan.
func (h *InvoiceHandler) ScanStatus(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		h.handleError(c, http.StatusBadRequest, "Task ID is required", nil)
		return
	}

	status, err := h.service.ScanStatus(c.Request.Context(), taskID)
	if err != nil {
		h.handleError(c, http.StatusNotFound, "Failed to get scan status", err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// TestOCR runs recognition and extraction without saving anything.
func (h *InvoiceHandler) TestOCR(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	result, err := h.service.TestOCR(c.Request.Context(), file, header)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "OCR test failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create builds an invoice from JSON input.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var input invoice.CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	inv, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to create invoice", err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// List returns invoices matching the query filters.
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, err := listFilterFromQuery(c)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	invoices, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to list invoices", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "count": len(invoices)})
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	inv, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, invoice.ErrNotFound) {
		h.handleError(c, http.StatusNotFound, "Invoice not found", err)
		return
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to get invoice", err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	var input invoice.UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	inv, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if errors.Is(err, invoice.ErrNotFound) {
		h.handleError(c, http.StatusNotFound, "Invoice not found", err)
		return
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to update invoice", err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, invoice.ErrNotFound) {
		h.handleError(c, http.StatusNotFound, "Invoice not found", err)
		return
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to delete invoice", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted"})
}

// OCRData returns the stored extraction result for an invoice.
func (h *InvoiceHandler) OCRData(c *gin.Context) {
	data, err := h.service.OCRData(c.Request.Context(), c.Param("id"))
	if errors.Is(err, invoice.ErrNotFound) {
		h.handleError(c, http.StatusNotFound, "Invoice not found", err)
		return
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to get OCR data", err)
		return
	}

	c.Data(http.StatusOK, "application/json", data)
}

// Export streams the filtered invoice list as an XLSX workbook.
func (h *InvoiceHandler) Export(c *gin.Context) {
	filter, err := listFilterFromQuery(c)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	invoices, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to list invoices", err)
		return
	}

	data, err := export.InvoicesXLSX(invoices)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to build export", err)
		return
	}

	filename := fmt.Sprintf("invoices_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// TotalAmount sums invoice amounts over the optional filters.
func (h *InvoiceHandler) TotalAmount(c *gin.Context) {
	filter, err := statsFilterFromQuery(c)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	total, err := h.service.TotalAmount(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to compute total", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}

func (h *InvoiceHandler) AmountByCategory(c *gin.Context) {
	rows, err := h.service.AmountByCategory(c.Request.Context())
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to compute totals", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": rows})
}

func (h *InvoiceHandler) AmountByDepartment(c *gin.Context) {
	rows, err := h.service.AmountByDepartment(c.Request.Context())
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to compute totals", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": rows})
}

func listFilterFromQuery(c *gin.Context) (invoice.ListFilter, error) {
	filter := invoice.ListFilter{
		Status:       c.Query("status"),
		Vendor:       c.Query("vendor"),
		CategoryID:   c.Query("categoryId"),
		DepartmentID: c.Query("departmentId"),
	}

	var err error
	if filter.From, err = parseDateParam(c.Query("from")); err != nil {
		return filter, err
	}
	if filter.To, err = parseDateParam(c.Query("to")); err != nil {
		return filter, err
	}

	if v := c.Query("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil {
			return filter, fmt.Errorf("invalid limit: %q", v)
		}
	}
	if v := c.Query("offset"); v != "" {
		if filter.Offset, err = strconv.Atoi(v); err != nil {
			return filter, fmt.Errorf("invalid offset: %q", v)
		}
	}

	return filter, nil
}

func statsFilterFromQuery(c *gin.Context) (invoice.StatsFilter, error) {
	filter := invoice.StatsFilter{
		CategoryID:   c.Query("categoryId"),
		DepartmentID: c.Query("departmentId"),
	}

	var err error
	if filter.From, err = parseDateParam(c.Query("from")); err != nil {
		return filter, err
	}
	if filter.To, err = parseDateParam(c.Query("to")); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseDateParam(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", v)
	}
	return &t, nil
}

func (h *InvoiceHandler) handleError(c *gin.Context, status int, message string, err error) {
	h.logger.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	response := ErrorResponse{
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(status, response)
}
