package invoice

import (
	"github.com/invoxa/invoice-manager/internal/extraction"
	"github.com/invoxa/invoice-manager/internal/models"
)

// invoiceFromResult copies the extracted fields onto a fresh invoice.
// Category and department stay unresolved here; they are names, not IDs.
func invoiceFromResult(res *extraction.Result) *models.Invoice {
	return &models.Invoice{
		Vendor:        res.Vendor,
		InvoiceNumber: res.InvoiceNumber,
		Amount:        res.Amount,
		Currency:      res.Currency,
		Date:          res.Date,
		Description:   res.Description,
	}
}

// applyCreateInput overlays caller-supplied fields onto the invoice.
// Only non-nil input fields overwrite what extraction produced.
func applyCreateInput(inv *models.Invoice, input CreateInvoiceInput) {
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
}

// coalesce returns the first non-nil value.
func coalesce(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
