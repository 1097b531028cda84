package extraction

import (
	"strings"
)

// headerFields maps table column headers to LineItem fields by
// case-insensitive substring match. Order is the mapping precedence:
// "unit price" must hit unitPrice before the quantity group can claim
// "amount", and a header matching nothing is kept verbatim in Extra.
var headerFields = []struct {
	field    string
	keywords []string
}{
	{"description", []string{"description", "item", "service", "product"}},
	{"unitPrice", []string{"price", "rate", "unit price"}},
	{"quantity", []string{"quantity", "qty", "amount"}},
	{"total", []string{"total", "subtotal", "sum"}},
	{"tax", []string{"tax", "vat"}},
}

// parseTables scans the text for markdown pipe tables and converts their
// data rows into line items. Tables are processed in document order and
// their items concatenated; a header without a valid separator row on the
// next line is not a table and contributes nothing.
func parseTables(text string) []LineItem {
	lines := strings.Split(text, "\n")
	items := []LineItem{}

	for i := 0; i < len(lines)-1; {
		if !isHeaderRow(lines[i]) || !isSeparatorRow(lines[i+1]) {
			i++
			continue
		}

		headers := splitHeader(lines[i])
		j := i + 2
		for ; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				break
			}
			cells := splitRow(lines[j])
			if countNonEmpty(cells) < 2 {
				continue // noise, not an item
			}
			if item, ok := mapRow(headers, cells); ok {
				items = append(items, item)
			}
		}
		i = j
	}

	return items
}

// isHeaderRow reports whether the line looks like a pipe-delimited header:
// bounded by pipes and not itself a separator row.
func isHeaderRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) > 2 &&
		strings.HasPrefix(trimmed, "|") &&
		strings.HasSuffix(trimmed, "|") &&
		!isSeparatorRow(line)
}

// isSeparatorRow matches the dashes/colons row that must follow a header,
// e.g. "| --- | :--: |".
func isSeparatorRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "|") || !strings.HasSuffix(trimmed, "|") {
		return false
	}
	if !strings.Contains(trimmed, "-") {
		return false
	}
	for _, r := range trimmed {
		switch r {
		case '|', '-', ':', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

func splitHeader(line string) []string {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(trimmed, "|")
	headers := make([]string, len(parts))
	for i, p := range parts {
		headers[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return headers
}

// splitRow splits a data row into trimmed cells, discarding the empty
// leading/trailing cells produced by boundary pipes. Interior empty cells
// are kept so the remaining cells stay aligned with their headers.
func splitRow(line string) []string {
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	for len(cells) > 0 && cells[0] == "" {
		cells = cells[1:]
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func countNonEmpty(cells []string) int {
	n := 0
	for _, c := range cells {
		if c != "" {
			n++
		}
	}
	return n
}

func matchHeader(header string) string {
	for _, hf := range headerFields {
		for _, kw := range hf.keywords {
			if strings.Contains(header, kw) {
				return hf.field
			}
		}
	}
	return ""
}

// mapRow assigns each cell to the LineItem field its header maps to. Cells
// beyond the header count are ignored. A row that populates nothing is
// discarded.
func mapRow(headers, cells []string) (LineItem, bool) {
	var item LineItem
	populated := 0

	for i, cell := range cells {
		if i >= len(headers) {
			break
		}
		if cell == "" {
			continue
		}
		switch matchHeader(headers[i]) {
		case "description":
			item.Description = cell
		case "unitPrice":
			item.UnitPrice = parseCellNumber(cell)
		case "quantity":
			item.Quantity = parseCellNumber(cell)
		case "total":
			item.Total = parseCellNumber(cell)
		case "tax":
			item.Tax = parseCellNumber(cell)
		default:
			if item.Extra == nil {
				item.Extra = make(map[string]string)
			}
			item.Extra[headers[i]] = cell
		}
		populated++
	}

	return item, populated > 0
}

// parseCellNumber strips everything but digits and separators (currency
// symbols, units), removes thousands commas and parses the rest. Unparsable
// cells yield 0.
func parseCellNumber(cell string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			return r
		}
		return -1
	}, cell)
	v, ok := parseDecimal(cleaned)
	if !ok {
		return 0
	}
	return v
}
