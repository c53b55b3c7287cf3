package core

import (
	"fmt"
	"time"
)

// WarehouseRecord is one validated price line from a warehouse file.
// FinalPrice is always derived from Price and BaseDiscount.
type WarehouseRecord struct {
	WarehouseID   string   `json:"warehouseId"`
	WarehouseName string   `json:"warehouseName"`
	ItemCode      string   `json:"itemCode"`
	ItemName      string   `json:"itemName"`
	Price         float64  `json:"price"`
	BaseDiscount  float64  `json:"baseDiscount"`
	FinalPrice    float64  `json:"finalPrice"`
	Stock         *float64 `json:"stock,omitempty"`
}

// Recompute re-derives FinalPrice from Price and BaseDiscount.
func (r *WarehouseRecord) Recompute() {
	r.FinalPrice = FinalPrice(r.Price, r.BaseDiscount)
}

// HasStock reports whether a stock level was supplied.
func (r WarehouseRecord) HasStock() bool { return r.Stock != nil }

// Dataset is the ordered set of records produced from one file.
type Dataset struct {
	FileName   string            `json:"fileName"`
	SheetName  string            `json:"sheetName,omitempty"`
	UploadedAt time.Time         `json:"uploadedAt"`
	Records    []WarehouseRecord `json:"records"`
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.Records) }

func (d Dataset) clone() Dataset {
	out := d
	out.Records = make([]WarehouseRecord, len(d.Records))
	for i, r := range d.Records {
		if r.Stock != nil {
			s := *r.Stock
			r.Stock = &s
		}
		out.Records[i] = r
	}
	return out
}

// ProcessingStats summarizes one sheet run.
type ProcessingStats struct {
	TotalRows     int `json:"totalRows"`
	ValidRows     int `json:"validRows"`
	ErrorRows     int `json:"errorRows"`
	DuplicateRows int `json:"duplicateRows"`
}

// ValidationError is a row-level problem reported to the user.
// It is data, not a Go error: one bad row never aborts a file.
type ValidationError struct {
	RowNumber int    `json:"rowNumber"`
	Message   string `json:"message"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("Row %d: %s", e.RowNumber, e.Message)
}

// Sheet is one decoded worksheet.
type Sheet struct {
	Name string
	Rows [][]RawCell
}

// Workbook is a decoded file. CSV files produce a single sheet.
type Workbook struct {
	Sheets []Sheet
}

// SheetNames lists sheets in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the named sheet.
func (w *Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// WorkbookDecoder turns file bytes into sheets of raw cells.
type WorkbookDecoder interface {
	Decode(fileName string, data []byte) (*Workbook, error)
}

// IngestRequest is one file submitted for processing.
type IngestRequest struct {
	FileName string
	Data     []byte
	Sheet    string // optional; the first sheet is used when empty
}

// UploadResult contains the outcome of processing one file.
type UploadResult struct {
	UploadID      string            `json:"uploadId"`
	FileName      string            `json:"fileName"`
	WarehouseName string            `json:"warehouseName"`
	WarehouseID   string            `json:"warehouseId"`
	Sheet         string            `json:"sheet"`
	Sheets        []string          `json:"sheets"`
	Headers       []string          `json:"headers"`
	Columns       map[Field]int     `json:"columns"`
	MissingFields []Field           `json:"missingFields,omitempty"`
	Stats         ProcessingStats   `json:"stats"`
	Errors        []ValidationError `json:"errors"`
	Records       []WarehouseRecord `json:"records,omitempty"`
	MergedSize    int               `json:"mergedSize"`
	Committed     bool              `json:"committed"`
	Duration      time.Duration     `json:"duration"`
	ProcessedAt   time.Time         `json:"processedAt"`
}

// ErrorMessages returns the row errors formatted as "Row N: message".
func (r *UploadResult) ErrorMessages() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.String()
	}
	return out
}

// UploadSummary is the history entry kept for each committed upload.
type UploadSummary struct {
	UploadID      string          `json:"uploadId"`
	FileName      string          `json:"fileName"`
	WarehouseName string          `json:"warehouseName"`
	Sheet         string          `json:"sheet"`
	Stats         ProcessingStats `json:"stats"`
	ErrorCount    int             `json:"errorCount"`
	Duration      time.Duration   `json:"duration"`
	ProcessedAt   time.Time       `json:"processedAt"`
}

// WarehouseSummary describes one dataset held by the repository.
// AvgDiscount is zero for a warehouse with no records.
type WarehouseSummary struct {
	Name        string    `json:"name"`
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	SheetName   string    `json:"sheetName,omitempty"`
	Records     int       `json:"records"`
	AvgDiscount float64   `json:"avgDiscount"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
