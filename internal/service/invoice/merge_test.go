package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/invoxa/invoice-manager/internal/extraction"
)

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func TestInvoiceFromResult(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	res := &extraction.Result{
		Vendor:        strPtr("Acme Corporation"),
		InvoiceNumber: strPtr("INV-2024-001"),
		Amount:        35.50,
		Currency:      strPtr("USD"),
		Date:          date,
		Description:   "Office hardware",
	}

	inv := invoiceFromResult(res)

	assert.Equal(t, "Acme Corporation", *inv.Vendor)
	assert.Equal(t, "INV-2024-001", *inv.InvoiceNumber)
	assert.Equal(t, 35.50, inv.Amount)
	assert.Equal(t, "USD", *inv.Currency)
	assert.Equal(t, date, inv.Date)
	assert.Equal(t, "Office hardware", inv.Description)
	assert.Nil(t, inv.CategoryID)
	assert.Nil(t, inv.DepartmentID)
}

func TestApplyCreateInputOverridesExtracted(t *testing.T) {
	res := &extraction.Result{
		Vendor:      strPtr("Extracted Vendor Inc."),
		Amount:      100,
		Currency:    strPtr("USD"),
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Description: "extracted description",
	}
	inv := invoiceFromResult(res)

	override := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	applyCreateInput(inv, CreateInvoiceInput{
		Vendor: strPtr("Manual Vendor"),
		Amount: floatPtr(250.75),
		Date:   timePtr(override),
	})

	// caller values win
	assert.Equal(t, "Manual Vendor", *inv.Vendor)
	assert.Equal(t, 250.75, inv.Amount)
	assert.Equal(t, override, inv.Date)

	// untouched fields keep extracted values
	assert.Equal(t, "USD", *inv.Currency)
	assert.Equal(t, "extracted description", inv.Description)
}

func TestApplyCreateInputOnEmptyInvoice(t *testing.T) {
	inv := invoiceFromResult(&extraction.Result{Date: time.Now()})

	applyCreateInput(inv, CreateInvoiceInput{
		InvoiceNumber: strPtr("INV-42"),
		Currency:      strPtr("EUR"),
		Description:   strPtr("manual entry"),
	})

	assert.Equal(t, "INV-42", *inv.InvoiceNumber)
	assert.Equal(t, "EUR", *inv.Currency)
	assert.Equal(t, "manual entry", inv.Description)
	assert.Nil(t, inv.Vendor)
	assert.Zero(t, inv.Amount)
}

func TestCoalesce(t *testing.T) {
	a := strPtr("first")
	b := strPtr("second")

	assert.Equal(t, a, coalesce(a, b))
	assert.Equal(t, b, coalesce(nil, b))
	assert.Nil(t, coalesce(nil, nil))
}
