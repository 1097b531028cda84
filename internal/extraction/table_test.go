package extraction

import (
	"testing"
)

func TestParseTablesBasic(t *testing.T) {
	text := "| Description | Qty | Unit Price | Total |\n" +
		"| --- | --- | --- | --- |\n" +
		"| Widget | 2 | 10.00 | 20.00 |\n"

	items := parseTables(text)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	item := items[0]
	if item.Description != "Widget" {
		t.Errorf("Description = %q, want Widget", item.Description)
	}
	if item.Quantity != 2 {
		t.Errorf("Quantity = %v, want 2", item.Quantity)
	}
	if item.UnitPrice != 10 {
		t.Errorf("UnitPrice = %v, want 10", item.UnitPrice)
	}
	if item.Total != 20 {
		t.Errorf("Total = %v, want 20", item.Total)
	}
}

func TestParseTablesTaxColumn(t *testing.T) {
	text := "| Item | Total | Tax |\n" +
		"| --- | --- | --- |\n" +
		"| Paper | 100.00 | 10.00 |\n" +
		"| Toner | 50.00 | 5.00 |\n"

	items := parseTables(text)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Tax != 10 || items[1].Tax != 5 {
		t.Errorf("taxes = %v, %v, want 10, 5", items[0].Tax, items[1].Tax)
	}
}

func TestParseTablesUnknownHeaderKeptInExtra(t *testing.T) {
	text := "| Product | SKU | Total |\n" +
		"| --- | --- | --- |\n" +
		"| Widget | WX-100 | 20.00 |\n"

	items := parseTables(text)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Extra["sku"] != "WX-100" {
		t.Errorf("Extra[sku] = %q, want WX-100", items[0].Extra["sku"])
	}
	if items[0].Description != "Widget" {
		t.Errorf("Description = %q, want Widget", items[0].Description)
	}
}

func TestParseTablesMissingSeparator(t *testing.T) {
	text := "| Description | Qty |\n" +
		"| Widget | 2 |\n"

	if items := parseTables(text); len(items) != 0 {
		t.Errorf("got %d items from table without separator row, want 0", len(items))
	}
}

func TestParseTablesMultipleAppendInOrder(t *testing.T) {
	text := "| Item | Total |\n| --- | --- |\n| First | 1.00 |\n" +
		"\n" +
		"| Item | Total |\n| --- | --- |\n| Second | 2.00 |\n"

	items := parseTables(text)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Description != "First" || items[1].Description != "Second" {
		t.Errorf("order = %q, %q, want First, Second", items[0].Description, items[1].Description)
	}
}

func TestParseTablesNoiseRowSkipped(t *testing.T) {
	text := "| Item | Total |\n" +
		"| --- | --- |\n" +
		"| just-one-cell |\n" +
		"| Widget | 20.00 |\n"

	items := parseTables(text)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Description != "Widget" {
		t.Errorf("Description = %q, want Widget", items[0].Description)
	}
}

func TestParseTablesUnparsableNumericDefaultsToZero(t *testing.T) {
	text := "| Item | Qty | Total |\n" +
		"| --- | --- | --- |\n" +
		"| Widget | N/A | $1,250.00 |\n"

	items := parseTables(text)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Quantity != 0 {
		t.Errorf("Quantity = %v, want 0 for unparsable cell", items[0].Quantity)
	}
	if items[0].Total != 1250 {
		t.Errorf("Total = %v, want 1250 with symbols stripped", items[0].Total)
	}
}
