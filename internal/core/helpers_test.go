package core

import (
	"context"
	"fmt"
	"math"
	"testing"
)

// cells builds a row: strings become text, numbers become numeric cells,
// bools become boolean cells and nil is absent.
func cells(values ...any) []RawCell {
	row := make([]RawCell, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case nil:
			row[i] = AbsentCell
		case string:
			row[i] = TextCell(v)
		case int:
			row[i] = NumberCell(float64(v))
		case float64:
			row[i] = NumberCell(v)
		case bool:
			row[i] = BoolCell(v)
		default:
			panic(fmt.Sprintf("cells: unsupported %T", v))
		}
	}
	return row
}

func sheetRows(rows ...[]RawCell) [][]RawCell { return rows }

var standardHeader = cells("Item Code", "Item Name", "Price", "Discount", "Stock")

// fakeDecoder serves prepared workbooks keyed by file name.
type fakeDecoder struct {
	books map[string]*Workbook
	err   error
	calls int
}

func (d *fakeDecoder) Decode(fileName string, _ []byte) (*Workbook, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	wb, ok := d.books[fileName]
	if !ok {
		return nil, ErrUnreadableFile
	}
	return wb, nil
}

func singleSheet(rows ...[]RawCell) *Workbook {
	return &Workbook{Sheets: []Sheet{{Name: "Sheet1", Rows: rows}}}
}

func ingest(t *testing.T, svc *Service, fileName string) *UploadResult {
	t.Helper()
	res, err := svc.Ingest(context.Background(), IngestRequest{FileName: fileName, Data: []byte("x")})
	if err != nil {
		t.Fatalf("Ingest(%s): %v", fileName, err)
	}
	return res
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
