package extraction

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyDocument is returned by FromPages when the OCR response carried
// no pages. It is the only failure that escapes the pipeline; callers are
// expected to recover with Degraded rather than abort the enclosing
// workflow.
var ErrEmptyDocument = errors.New("no pages in OCR result")

// FromPages joins per-page OCR text in page order and extracts from the
// combined document.
func FromPages(pages []string) (*Result, error) {
	if len(pages) == 0 {
		return nil, ErrEmptyDocument
	}
	return Extract(strings.Join(pages, "\n")), nil
}

// Extract runs every field extractor and the table parser over the text and
// assembles the result. It never fails: unmatched fields keep their
// defaults. The description fallback chain runs last because it depends on
// the parsed line items.
func Extract(text string) *Result {
	r := &Result{
		Date:       time.Now(),
		LineItems:  parseTables(text),
		RawContent: text,
	}

	r.Vendor = extractVendor(text)
	r.InvoiceNumber = extractInvoiceNumber(text)
	r.Currency = extractCurrency(text)
	r.Amount = extractAmount(text)
	r.Date = extractDate(text, r.Date)
	r.Department = extractDepartment(text)
	r.Category = extractCategory(text)
	r.Description = extractDescription(text, r.LineItems)

	return r
}

// Degraded builds the recoverable fallback record used when extraction as a
// whole failed: zero amount, current date, the error recorded in the
// description, and no line items. The invoice is still created from it.
func Degraded(err error, raw string) *Result {
	return &Result{
		Date:        time.Now(),
		Description: fmt.Sprintf("Error extracting data: %v", err),
		LineItems:   []LineItem{},
		RawContent:  raw,
	}
}
