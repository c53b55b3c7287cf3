package core

import (
	"strings"
	"testing"
)

func TestRowValidator_ValidateRow(t *testing.T) {
	mapping := ResolveColumns(NormalizeHeaders(standardHeader))
	v := NewRowValidator(mapping, SourceFromFileName("north_wh.xlsx"))

	tests := []struct {
		name       string
		row        []RawCell
		wantData   bool
		wantReason string
	}{
		{name: "valid numeric cells", row: cells("A1", "Widget", 10, 20, 5), wantData: true},
		{name: "valid numeric text", row: cells("A1", "Widget", "$10.00", "20", nil), wantData: true},
		{name: "blank row", row: cells(nil, "  ", nil), wantData: false},
		{name: "empty row", row: cells(), wantData: false},
		{name: "missing price", row: cells("A1", "Widget", nil, 20), wantData: true, wantReason: MsgMissingRequired},
		{name: "blank item name", row: cells("A1", "   ", 10, 20), wantData: true, wantReason: MsgMissingRequired},
		{name: "short row", row: cells("A1", "Widget"), wantData: true, wantReason: MsgMissingRequired},
		{name: "non numeric price", row: cells("A1", "Widget", "abc", 20), wantData: true, wantReason: MsgInvalidNumber},
		{name: "non numeric discount", row: cells("A1", "Widget", 10, "ten"), wantData: true, wantReason: MsgInvalidNumber},
		{name: "boolean price", row: cells("A1", "Widget", true, 20), wantData: true, wantReason: MsgInvalidNumber},
		{name: "negative price", row: cells("A1", "Widget", -1, 20), wantData: true, wantReason: MsgInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.ValidateRow(tt.row)
			if got.HasData != tt.wantData {
				t.Fatalf("HasData = %v, want %v", got.HasData, tt.wantData)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if got.Accepted() != (tt.wantData && tt.wantReason == "") {
				t.Errorf("Accepted() = %v", got.Accepted())
			}
		})
	}
}

func TestRowValidator_BuildsRecord(t *testing.T) {
	mapping := ResolveColumns(NormalizeHeaders(standardHeader))
	v := NewRowValidator(mapping, SourceFromFileName("north_wh.xlsx"))

	got := v.ValidateRow(cells(" A1 ", " Widget ", 10, 20, 5))
	if !got.Accepted() {
		t.Fatalf("row rejected: %s", got.Reason)
	}
	rec := got.Record
	if rec.WarehouseName != "north wh" || rec.WarehouseID != "north-wh" {
		t.Errorf("warehouse = %q/%q", rec.WarehouseName, rec.WarehouseID)
	}
	if rec.ItemCode != "A1" || rec.ItemName != "Widget" {
		t.Errorf("item = %q/%q, want trimmed", rec.ItemCode, rec.ItemName)
	}
	if rec.FinalPrice != 8 {
		t.Errorf("FinalPrice = %v, want 8", rec.FinalPrice)
	}
	if rec.Stock == nil || *rec.Stock != 5 {
		t.Errorf("Stock = %v, want 5", rec.Stock)
	}
}

func TestRowValidator_Stock(t *testing.T) {
	mapping := ResolveColumns(NormalizeHeaders(standardHeader))
	v := NewRowValidator(mapping, SourceFromFileName("w.csv"))

	tests := []struct {
		name  string
		stock any
		want  *float64
	}{
		{name: "zero kept", stock: 0, want: ptr(0)},
		{name: "text number", stock: "12", want: ptr(12)},
		{name: "absent", stock: nil},
		{name: "not numeric", stock: "lots"},
		{name: "negative", stock: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.ValidateRow(cells("A1", "Widget", 10, 0, tt.stock))
			if !got.Accepted() {
				t.Fatalf("row rejected: %s", got.Reason)
			}
			switch {
			case tt.want == nil && got.Record.Stock != nil:
				t.Errorf("Stock = %v, want absent", *got.Record.Stock)
			case tt.want != nil && (got.Record.Stock == nil || *got.Record.Stock != *tt.want):
				t.Errorf("Stock = %v, want %v", got.Record.Stock, *tt.want)
			}
		})
	}
}

func TestRowValidator_UnresolvedColumns(t *testing.T) {
	mapping := ResolveColumns([]string{"Item Code", "Item Name", "Price"})
	v := NewRowValidator(mapping, SourceFromFileName("w.csv"))

	got := v.ValidateRow(cells("A1", "Widget", 10, 20))
	if !strings.Contains(strings.ToLower(got.Reason), "missing required fields") {
		t.Errorf("Reason = %q, want missing required fields", got.Reason)
	}
}

func ptr(f float64) *float64 { return &f }
