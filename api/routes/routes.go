package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/invoxa/invoice-manager/api/handlers"
	"github.com/invoxa/invoice-manager/api/middleware"
)

// SetupRoutes wires every API endpoint.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	invoices := v1.Group("/invoices")
	{
		invoices.POST("/scan", h.Invoice.Scan)
		invoices.POST("/scan/async", h.Invoice.ScanAsync)
		invoices.GET("/scan/status/:taskId", h.Invoice.ScanStatus)
		invoices.POST("/batch", h.Invoice.ScanBatch)
		invoices.POST("/test-ocr", h.Invoice.TestOCR)
		invoices.GET("/export", h.Invoice.Export)

		invoices.POST("", h.Invoice.Create)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.GET("/:id/ocr-data", h.Invoice.OCRData)
	}

	stats := v1.Group("/stats")
	{
		stats.GET("/total", h.Invoice.TotalAmount)
		stats.GET("/by-category", h.Invoice.AmountByCategory)
		stats.GET("/by-department", h.Invoice.AmountByDepartment)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}

	departments := v1.Group("/departments")
	{
		departments.GET("", h.Department.List)
		departments.POST("", h.Department.Create)
		departments.GET("/:id", h.Department.Get)
		departments.PUT("/:id", h.Department.Update)
		departments.DELETE("/:id", h.Department.Delete)
	}
}
