package core

import (
	"errors"
	"testing"
)

func TestProcessSheet_Stats(t *testing.T) {
	rows := sheetRows(
		standardHeader,
		cells("A1", "Widget", 10, 20),        // row 2 ok
		cells("A2", "Gadget", "abc", 5),      // row 3 invalid
		cells(),                              // row 4 blank
		cells("A1", "Widget again", 12, 10),  // row 5 duplicate
		cells("A3", nil, 10, 10),             // row 6 missing name
		cells("A4", "Sprocket", "1,000", 0),  // row 7 ok
	)

	res, err := ProcessSheet(rows, SourceFromFileName("north.xlsx"))
	if err != nil {
		t.Fatalf("ProcessSheet: %v", err)
	}

	want := ProcessingStats{TotalRows: 6, ValidRows: 2, ErrorRows: 3, DuplicateRows: 1}
	if res.Stats != want {
		t.Errorf("Stats = %+v, want %+v", res.Stats, want)
	}

	wantErrs := []string{
		"Row 3: " + MsgInvalidNumber,
		"Row 5: " + MsgDuplicate,
		"Row 6: " + MsgMissingRequired,
	}
	if len(res.Errors) != len(wantErrs) {
		t.Fatalf("got %d errors, want %d: %v", len(res.Errors), len(wantErrs), res.Errors)
	}
	for i, e := range res.Errors {
		if e.String() != wantErrs[i] {
			t.Errorf("error %d = %q, want %q", i, e.String(), wantErrs[i])
		}
	}

	if res.Dataset.FileName != "north.xlsx" {
		t.Errorf("FileName = %q", res.Dataset.FileName)
	}
	if res.Dataset.Len() != 2 || res.Dataset.Records[1].ItemCode != "A4" {
		t.Errorf("Records = %+v", res.Dataset.Records)
	}
}

func TestProcessSheet_RejectedRowsDoNotCountAsDuplicates(t *testing.T) {
	rows := sheetRows(
		standardHeader,
		cells("A1", "Widget", "abc", 20),
		cells("A1", "Widget", 10, 20),
	)

	res, err := ProcessSheet(rows, SourceFromFileName("w.csv"))
	if err != nil {
		t.Fatalf("ProcessSheet: %v", err)
	}
	if res.Stats.DuplicateRows != 0 {
		t.Errorf("DuplicateRows = %d, want 0", res.Stats.DuplicateRows)
	}
	if res.Stats.ValidRows != 1 || res.Stats.ErrorRows != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Errors[0].RowNumber != 2 || res.Errors[0].Message != MsgInvalidNumber {
		t.Errorf("Errors[0] = %+v", res.Errors[0])
	}
}

func TestProcessSheet_DuplicateKeyIsFirstColumn(t *testing.T) {
	// Stock sits in column 0 here, so two different items with the same stock
	// level collide.
	rows := sheetRows(
		cells("Stock", "Item Code", "Item Name", "Price", "Discount"),
		cells(5, "A1", "Widget", 10, 0),
		cells(5, "A2", "Gadget", 10, 0),
		cells("5", "A3", "Sprocket", 10, 0),
	)

	res, err := ProcessSheet(rows, SourceFromFileName("w.csv"))
	if err != nil {
		t.Fatalf("ProcessSheet: %v", err)
	}
	if res.Stats.DuplicateRows != 1 || res.Stats.ValidRows != 2 {
		t.Errorf("Stats = %+v, want 1 duplicate and 2 valid", res.Stats)
	}
}

func TestProcessSheet_PercentDiscount(t *testing.T) {
	rows := sheetRows(standardHeader, cells("A", "Drug", "10", "20%"))

	res, err := ProcessSheet(rows, SourceFromFileName("w.csv"))
	if err != nil {
		t.Fatalf("ProcessSheet: %v", err)
	}
	if res.Stats.ValidRows != 1 || len(res.Errors) != 0 {
		t.Fatalf("Stats = %+v, Errors = %v", res.Stats, res.Errors)
	}
	rec := res.Dataset.Records[0]
	if rec.BaseDiscount != 20 || rec.FinalPrice != 8 {
		t.Errorf("discount = %v, final = %v; want 20, 8", rec.BaseDiscount, rec.FinalPrice)
	}
}

func TestProcessSheet_EmptyVersusHeaderOnly(t *testing.T) {
	_, err := ProcessSheet(nil, SourceFromFileName("w.csv"))
	if !errors.Is(err, ErrEmptySheet) {
		t.Errorf("empty sheet err = %v, want ErrEmptySheet", err)
	}

	res, err := ProcessSheet(sheetRows(standardHeader), SourceFromFileName("w.csv"))
	if err != nil {
		t.Fatalf("header-only: %v", err)
	}
	if res.Stats != (ProcessingStats{}) {
		t.Errorf("header-only Stats = %+v, want zero", res.Stats)
	}
	if res.Dataset.Records == nil || res.Dataset.Len() != 0 {
		t.Errorf("header-only Records = %v, want empty slice", res.Dataset.Records)
	}
}

func TestProcessSheet_ErrorRowsEqualsErrorCount(t *testing.T) {
	rows := sheetRows(standardHeader)
	for i := 0; i < 50; i++ {
		rows = append(rows, cells("A", "Dup", 1, 1))
	}

	res, err := ProcessSheet(rows, SourceFromFileName("w.csv"))
	if err != nil {
		t.Fatalf("ProcessSheet: %v", err)
	}
	if res.Stats.ErrorRows != len(res.Errors) {
		t.Errorf("ErrorRows = %d, len(Errors) = %d", res.Stats.ErrorRows, len(res.Errors))
	}
	if res.Stats.ValidRows != 1 || res.Stats.DuplicateRows != 49 {
		t.Errorf("Stats = %+v", res.Stats)
	}
}
