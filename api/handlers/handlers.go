package handlers

import (
	"github.com/invoxa/invoice-manager/internal/service/category"
	"github.com/invoxa/invoice-manager/internal/service/department"
	"github.com/invoxa/invoice-manager/internal/service/invoice"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

type Handlers struct {
	Invoice    *InvoiceHandler
	Category   *CategoryHandler
	Department *DepartmentHandler
}

func NewHandlers(
	invoiceService invoice.Service,
	categoryService category.Service,
	departmentService department.Service,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		Invoice:    NewInvoiceHandler(invoiceService, logger),
		Category:   NewCategoryHandler(categoryService, logger),
		Department: NewDepartmentHandler(departmentService, logger),
	}
}
