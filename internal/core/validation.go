package core

// validation.go turns one raw row into a WarehouseRecord.
//
// Rules are applied in order and the first failure wins:
//  1. A row whose cells are all empty is skipped silently.
//  2. Item code, item name, price and discount must be present.
//  3. Price and discount must be numeric; price may not be negative.
//
// Duplicate detection needs the rows seen before, so it lives in the sheet
// processor rather than here.

import "strings"

// Row rejection messages shown to users.
const (
	MsgMissingRequired = "Missing required fields (Item Code, Item Name, Price, or Discount)"
	MsgInvalidNumber   = "Invalid price or discount value"
	MsgDuplicate       = "Duplicate entry detected"
)

// RowResult is the outcome of validating one row.
// HasData is false for blank rows; Reason is set when the row was rejected.
type RowResult struct {
	HasData bool
	Record  WarehouseRecord
	Reason  string
}

// Accepted reports whether the row produced a record.
func (r RowResult) Accepted() bool { return r.HasData && r.Reason == "" }

// RowValidator validates rows for one sheet.
type RowValidator struct {
	mapping ColumnMapping
	source  WarehouseSource
}

// NewRowValidator creates a validator for the given column mapping. Records
// are stamped with the warehouse identity from source.
func NewRowValidator(mapping ColumnMapping, source WarehouseSource) *RowValidator {
	return &RowValidator{mapping: mapping, source: source}
}

// ValidateRow applies the row rules to a single row.
func (v *RowValidator) ValidateRow(row []RawCell) RowResult {
	if rowIsBlank(row) {
		return RowResult{}
	}
	res := RowResult{HasData: true}

	code, okCode := v.cell(row, FieldItemCode)
	name, okName := v.cell(row, FieldItemName)
	priceCell, okPrice := v.cell(row, FieldPrice)
	discCell, okDisc := v.cell(row, FieldDiscount)
	if !okCode || !okName || !okPrice || !okDisc {
		res.Reason = MsgMissingRequired
		return res
	}

	price, okP := priceCell.Number()
	discount, okD := discCell.Number()
	if !okP || !okD || price < 0 {
		res.Reason = MsgInvalidNumber
		return res
	}

	rec := WarehouseRecord{
		WarehouseID:   v.source.ID,
		WarehouseName: v.source.Name,
		ItemCode:      strings.TrimSpace(code.Text()),
		ItemName:      strings.TrimSpace(name.Text()),
		Price:         price,
		BaseDiscount:  discount,
	}
	if stockCell, ok := v.cell(row, FieldStock); ok {
		if n, ok := stockCell.Number(); ok && n >= 0 {
			rec.Stock = &n
		}
	}
	rec.Recompute()

	res.Record = rec
	return res
}

// cell returns the non-empty cell for a field, or false when the field is
// unresolved or the cell is empty.
func (v *RowValidator) cell(row []RawCell, f Field) (RawCell, bool) {
	i, ok := v.mapping.Index(f)
	if !ok {
		return AbsentCell, false
	}
	c := cellAt(row, i)
	if c.IsEmpty() {
		return AbsentCell, false
	}
	return c, true
}

func rowIsBlank(row []RawCell) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
