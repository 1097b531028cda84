package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Shared sub-patterns. A "number" is digits with optional thousands commas
// and an optional two-decimal fraction; a "date" is three separator-joined
// numeric groups with the year first or last.
const (
	numberPattern = `[\d,]+\.\d{2}|[\d,]+`
	datePattern   = `\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}|\d{4}[-/.]\d{1,2}[-/.]\d{1,2}`
)

var (
	vendorRe = regexp.MustCompile(`([A-Z][a-zA-Z0-9 ,.\-&]+(?:Inc\.|LLC|Ltd\.?|Corp\.?|Corporation|Company|GmbH|BV|SRL|S\.A\.))`)

	invoiceNumberRe = regexp.MustCompile(`(?i)(?:invoice|inv)[.\s]+(?:no|num|number|#)(?:[.:]\s*|\s+)([A-Za-z0-9-]+)`)

	currencyRe = regexp.MustCompile(`(?i)(?:currency|curr)(?:[.:]\s*|\s+)(USD|EUR|GBP|JPY|CHF|CAD|AUD|NZD)`)

	// Amount patterns in priority order: labeled value, table-row total,
	// $-prefixed, €-suffixed, ISO-code-suffixed.
	amountLabeledRe  = regexp.MustCompile(`(?i)(?:amount|total|sub\s*total|price|sum|value|invoice\s*total)(?:\s*:\s*|\s+)(` + numberPattern + `)`)
	amountTableRowRe = regexp.MustCompile(`(?i)(?:total|amount)\s*\|\s*(` + numberPattern + `)`)
	amountDollarRe   = regexp.MustCompile(`\$(` + numberPattern + `)`)
	amountEuroRe     = regexp.MustCompile(`(` + numberPattern + `)\s*€`)
	amountCodeRe     = regexp.MustCompile(`(?i)(` + numberPattern + `)\s*(?:USD|EUR|GBP|JPY|CHF|CAD|AUD|NZD)`)

	// Date patterns in priority order: the explicit invoice date label, any
	// generic date label, then a bare date anywhere in the text.
	dateInvoiceRe = regexp.MustCompile(`(?i)invoice\s*date(?:\s*:\s*|\s+)(` + datePattern + `)`)
	dateLabeledRe = regexp.MustCompile(`(?i)(?:date|issued|due\s*date)(?:\s*:\s*|\s+)(` + datePattern + `)`)
	dateBareRe    = regexp.MustCompile(datePattern)

	departmentRe     = regexp.MustCompile(`(?i)(?:department|dept|division|business\s*unit)(?:\s*:\s*|\s+)([a-zA-Z0-9 &-]+)`)
	departmentCodeRe = regexp.MustCompile(`(?i)dept\.?\s*(?:code|id|no)(?:\s*:\s*|\s+)([A-Za-z0-9-]+)`)

	categoryRe = regexp.MustCompile(`(?i)(?:category|type|class|classification|expense\s*type)(?:\s*:\s*|\s+)([a-zA-Z0-9 &-]+)`)

	descriptionRe = regexp.MustCompile(`(?i)(?:description|details|item|service|invoice\s*for)(?:\s*:\s*|\s+)([^\n]+)`)
)

// matcher scans the full text for one field and reports whether it matched.
// Each field is an ordered chain of matchers; the first hit wins and later
// matchers are not attempted.
type matcher func(text string) (string, bool)

func pattern(re *regexp.Regexp) matcher {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		if len(m) > 1 {
			return strings.TrimSpace(m[1]), true
		}
		return strings.TrimSpace(m[0]), true
	}
}

func firstMatch(text string, chain ...matcher) (string, bool) {
	for _, match := range chain {
		if v, ok := match(text); ok {
			return v, true
		}
	}
	return "", false
}

func optional(v string, ok bool) *string {
	if !ok {
		return nil
	}
	return &v
}

func extractVendor(text string) *string {
	return optional(firstMatch(text, pattern(vendorRe)))
}

func extractInvoiceNumber(text string) *string {
	return optional(firstMatch(text, pattern(invoiceNumberRe)))
}

func extractCurrency(text string) *string {
	v, ok := firstMatch(text, pattern(currencyRe))
	return optional(strings.ToUpper(v), ok)
}

func extractDepartment(text string) *string {
	return optional(firstMatch(text, pattern(departmentRe), pattern(departmentCodeRe)))
}

func extractCategory(text string) *string {
	return optional(firstMatch(text, pattern(categoryRe)))
}

// extractAmount returns 0 when no pattern matches or the matched substring
// fails to parse; it never reports an error.
func extractAmount(text string) float64 {
	raw, ok := firstMatch(text,
		pattern(amountLabeledRe),
		pattern(amountTableRowRe),
		pattern(amountDollarRe),
		pattern(amountEuroRe),
		pattern(amountCodeRe),
	)
	if !ok {
		return 0
	}
	v, ok := parseDecimal(raw)
	if !ok {
		return 0
	}
	return v
}

// extractDate returns fallback when no date-like substring is found or
// normalization fails.
func extractDate(text string, fallback time.Time) time.Time {
	raw, ok := firstMatch(text,
		pattern(dateInvoiceRe),
		pattern(dateLabeledRe),
		pattern(dateBareRe),
	)
	if !ok {
		return fallback
	}
	t, ok := normalizeDate(raw)
	if !ok {
		return fallback
	}
	return t
}

// extractDescription applies the fallback chain: labeled description, first
// line item's description, first non-blank line of the document.
func extractDescription(text string, items []LineItem) string {
	if v, ok := firstMatch(text, pattern(descriptionRe)); ok {
		return v
	}
	if len(items) > 0 && items[0].Description != "" {
		return items[0].Description
	}
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// parseDecimal strips thousands separators and parses the remainder.
// Anything that is not a non-negative finite number is a non-match.
func parseDecimal(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
