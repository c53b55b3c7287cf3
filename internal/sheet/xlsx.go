package sheet

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/pricecompare/internal/core"
)

// XLSXDecoder reads Office Open XML workbooks with excelize. Cached formula
// results are used as-is; formulas are never evaluated.
type XLSXDecoder struct{}

// Decode reads every sheet of the workbook in tab order.
func (XLSXDecoder) Decode(data []byte) (*core.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnreadableFile, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, core.ErrNoSheets
	}

	wb := &core.Workbook{Sheets: make([]core.Sheet, 0, len(names))}
	for _, name := range names {
		rows, err := readSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", core.ErrUnreadableFile, name, err)
		}
		wb.Sheets = append(wb.Sheets, core.Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}

func readSheet(f *excelize.File, name string) ([][]core.RawCell, error) {
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	rows := make([][]core.RawCell, len(raw))
	for r, values := range raw {
		row := make([]core.RawCell, len(values))
		for c, v := range values {
			row[c], err = typedCell(f, name, c, r, v)
			if err != nil {
				return nil, err
			}
		}
		rows[r] = row
	}
	return rows, nil
}

// typedCell tags a raw cell value using the cell's stored type. Cells with no
// type attribute hold numbers.
func typedCell(f *excelize.File, sheet string, col, row int, v string) (core.RawCell, error) {
	if v == "" {
		return core.AbsentCell, nil
	}

	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return core.AbsentCell, err
	}
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return core.AbsentCell, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return core.BoolCell(v == "1" || v == "TRUE" || v == "true"), nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return core.NumberCell(n), nil
		}
		return core.TextCell(v), nil
	default:
		return core.TextCell(v), nil
	}
}
