// Package extraction turns the markdown-ish text returned by an OCR engine
// into a structured invoice record. All entry points are pure functions over
// the input text; per-field misses fall back to defaults and never error.
package extraction

import (
	"time"
)

// LineItem is one row of an invoice's itemized charges. Numeric fields
// default to 0 when a cell fails to parse. Columns whose header matches no
// known field are retained verbatim in Extra, keyed by the header text.
type LineItem struct {
	Description string            `json:"description,omitempty"`
	Quantity    float64           `json:"quantity,omitempty"`
	UnitPrice   float64           `json:"unitPrice,omitempty"`
	Total       float64           `json:"total,omitempty"`
	Tax         float64           `json:"tax,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Result is the structured outcome of one extraction run. The five pointer
// fields are nil when no pattern matched; Amount defaults to 0 and Date to
// the time of extraction. Callers treat a Result as immutable once built.
type Result struct {
	Amount        float64    `json:"amount"`
	Date          time.Time  `json:"date"`
	Description   string     `json:"description"`
	Vendor        *string    `json:"vendor"`
	InvoiceNumber *string    `json:"invoiceNumber"`
	Currency      *string    `json:"currency"`
	Category      *string    `json:"category"`
	Department    *string    `json:"department"`
	LineItems     []LineItem `json:"lineItems"`
	RawContent    string     `json:"rawContent"`
}
