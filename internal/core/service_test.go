package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestService(books map[string]*Workbook) (*Service, *fakeDecoder) {
	dec := &fakeDecoder{books: books}
	svc := NewService(dec, ServiceConfig{
		MaxFileSize:       1 << 20,
		MaxWaitTime:       time.Second,
		AllowedExtensions: []string{".xlsx", ".xls", ".csv"},
	}, nil)
	return svc, dec
}

func TestService_NorthSouthScenario(t *testing.T) {
	svc, _ := newTestService(map[string]*Workbook{
		"North.xlsx": singleSheet(standardHeader, cells("X", "Drug", 10, 10)),
		"South.xlsx": singleSheet(standardHeader, cells("X", "Drug", 10, 20)),
	})
	ingest(t, svc, "North.xlsx")
	ingest(t, svc, "South.xlsx")

	res := svc.Search("X")
	if len(res.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(res.Groups))
	}
	g := res.Groups[0]
	if g.HighestDiscount.BaseDiscount != 20 || g.HighestDiscount.WarehouseName != "South" {
		t.Errorf("HighestDiscount = %+v", g.HighestDiscount)
	}
	if g.LowestDiscount.BaseDiscount != 10 || g.LowestDiscount.WarehouseName != "North" {
		t.Errorf("LowestDiscount = %+v", g.LowestDiscount)
	}
	if !approx(g.BestPrice.FinalPrice, 8) || g.BestPrice.WarehouseName != "South" {
		t.Errorf("BestPrice = %+v", g.BestPrice)
	}

	best, ok := svc.HighestDiscount()
	if !ok || best.WarehouseName != "South" {
		t.Errorf("HighestDiscount() = %+v, %v", best, ok)
	}
}

func TestService_ReuploadReplaces(t *testing.T) {
	books := map[string]*Workbook{
		"North.xlsx": singleSheet(standardHeader, cells("A1", "Widget", 10, 5), cells("A2", "Gadget", 10, 5)),
	}
	svc, _ := newTestService(books)
	ingest(t, svc, "North.xlsx")

	books["North.xlsx"] = singleSheet(standardHeader, cells("A3", "Sprocket", 10, 5))
	res := ingest(t, svc, "North.xlsx")

	if res.MergedSize != 1 {
		t.Errorf("MergedSize = %d, want 1", res.MergedSize)
	}
	merged := svc.MergedIndex()
	if len(merged) != 1 || merged[0].ItemCode != "A3" {
		t.Errorf("merged = %+v, want only the new dataset", merged)
	}
	if got := len(svc.Warehouses()); got != 1 {
		t.Errorf("Warehouses = %d, want 1", got)
	}
}

func TestService_DuplicatesAreScopedPerFile(t *testing.T) {
	svc, _ := newTestService(map[string]*Workbook{
		"North.xlsx": singleSheet(standardHeader, cells("A1", "Widget", 10, 5)),
		"South.xlsx": singleSheet(standardHeader, cells("A1", "Widget", 10, 5)),
	})
	ingest(t, svc, "North.xlsx")
	res := ingest(t, svc, "South.xlsx")

	if res.Stats.DuplicateRows != 0 {
		t.Errorf("DuplicateRows = %d, want 0 across files", res.Stats.DuplicateRows)
	}
	if len(svc.MergedIndex()) != 2 {
		t.Errorf("merged size = %d, want 2", len(svc.MergedIndex()))
	}
}

func TestService_InvalidPriceScenario(t *testing.T) {
	svc, _ := newTestService(map[string]*Workbook{
		"North.xlsx": singleSheet(standardHeader,
			cells("A1", "Widget", "abc", 5),
			cells("A1", "Widget", 10, 5),
		),
	})
	res := ingest(t, svc, "North.xlsx")

	if len(res.Errors) != 1 || !strings.Contains(strings.ToLower(res.Errors[0].Message), "invalid price or discount value") {
		t.Errorf("Errors = %+v", res.Errors)
	}
	if res.Stats.ValidRows != 1 || res.Stats.DuplicateRows != 0 {
		t.Errorf("Stats = %+v", res.Stats)
	}
}

func TestService_FatalErrorsLeaveStateUntouched(t *testing.T) {
	svc, dec := newTestService(map[string]*Workbook{
		"North.xlsx": singleSheet(standardHeader, cells("A1", "Widget", 10, 5)),
		"Empty.xlsx": singleSheet(),
		"None.xlsx":  {},
	})
	ingest(t, svc, "North.xlsx")
	before := svc.MergedIndex()

	tests := []struct {
		name    string
		req     IngestRequest
		wantErr error
	}{
		{"empty sheet", IngestRequest{FileName: "Empty.xlsx", Data: []byte("x")}, ErrEmptySheet},
		{"no sheets", IngestRequest{FileName: "None.xlsx", Data: []byte("x")}, ErrNoSheets},
		{"unknown sheet", IngestRequest{FileName: "North.xlsx", Data: []byte("x"), Sheet: "Prices"}, ErrSheetNotFound},
		{"unreadable", IngestRequest{FileName: "Broken.xlsx", Data: []byte("x")}, ErrUnreadableFile},
		{"wrong extension", IngestRequest{FileName: "North.pdf", Data: []byte("x")}, ErrUnsupportedFormat},
		{"too large", IngestRequest{FileName: "North.xlsx", Data: make([]byte, 2<<20)}, ErrFileTooLarge},
		{"no data", IngestRequest{FileName: "North.xlsx"}, ErrNoFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Ingest(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			after := svc.MergedIndex()
			if len(after) != len(before) || after[0].ItemCode != before[0].ItemCode {
				t.Errorf("repository changed after fatal error")
			}
		})
	}

	var decErr *DecodeError
	_, err := svc.Ingest(context.Background(), IngestRequest{FileName: "Broken.xlsx", Data: []byte("x")})
	if !errors.As(err, &decErr) || decErr.FileName != "Broken.xlsx" {
		t.Errorf("err = %v, want DecodeError for Broken.xlsx", err)
	}
	if dec.calls == 0 {
		t.Error("decoder never called")
	}
}

func TestService_ZeroValidRowsStillReplaces(t *testing.T) {
	books := map[string]*Workbook{
		"North.xlsx": singleSheet(standardHeader, cells("A1", "Widget", 10, 5)),
	}
	svc, _ := newTestService(books)
	ingest(t, svc, "North.xlsx")

	books["North.xlsx"] = singleSheet(standardHeader)
	res := ingest(t, svc, "North.xlsx")
	if res.Stats.ValidRows != 0 || len(res.Errors) != 0 {
		t.Errorf("header-only result = %+v", res.Stats)
	}
	if len(svc.MergedIndex()) != 0 {
		t.Errorf("merged size = %d, want 0", len(svc.MergedIndex()))
	}
	if _, err := svc.Dataset("North"); err != nil {
		t.Errorf("Dataset(North): %v", err)
	}
}

func TestService_PreviewDoesNotCommit(t *testing.T) {
	svc, _ := newTestService(map[string]*Workbook{
		"North.xlsx": singleSheet(standardHeader, cells("A1", "Widget", 10, 5)),
	})

	res, err := svc.Preview(context.Background(), IngestRequest{FileName: "North.xlsx", Data: []byte("x")})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if res.Committed || res.Stats.ValidRows != 1 || len(res.Records) != 1 {
		t.Errorf("Preview result = %+v", res)
	}
	if len(svc.MergedIndex()) != 0 || len(svc.UploadHistory()) != 0 {
		t.Error("Preview changed state")
	}
}

func TestService_SheetSelection(t *testing.T) {
	svc, _ := newTestService(map[string]*Workbook{
		"North.xlsx": {Sheets: []Sheet{
			{Name: "Notes", Rows: sheetRows(cells("hello"))},
			{Name: "Prices", Rows: sheetRows(standardHeader, cells("A1", "Widget", 10, 5))},
		}},
	})

	res, err := svc.Ingest(context.Background(), IngestRequest{FileName: "North.xlsx", Data: []byte("x"), Sheet: "Prices"})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Sheet != "Prices" || res.Stats.ValidRows != 1 {
		t.Errorf("result = %+v", res)
	}
	if len(res.Sheets) != 2 || res.Sheets[0] != "Notes" {
		t.Errorf("Sheets = %v", res.Sheets)
	}

	res = ingest(t, svc, "North.xlsx")
	if res.Sheet != "Notes" || len(res.MissingFields) != 4 {
		t.Errorf("default sheet result = %+v", res)
	}
}

func TestService_HistoryAndWarehouses(t *testing.T) {
	svc, _ := newTestService(map[string]*Workbook{
		"north_wh.xlsx": singleSheet(standardHeader, cells("A1", "Widget", 10, 5)),
		"South.csv":     singleSheet(standardHeader, cells("B1", "Bolt", 1, 1)),
	})
	first := ingest(t, svc, "north_wh.xlsx")
	second := ingest(t, svc, "South.csv")

	hist := svc.UploadHistory()
	if len(hist) != 2 || hist[0].UploadID != second.UploadID || hist[1].UploadID != first.UploadID {
		t.Errorf("history not newest first: %+v", hist)
	}

	got, err := svc.GetUpload(first.UploadID)
	if err != nil || got.WarehouseName != "north wh" {
		t.Errorf("GetUpload = %+v, %v", got, err)
	}
	if _, err := svc.GetUpload("nope"); !errors.Is(err, ErrUploadNotFound) {
		t.Errorf("GetUpload(nope) err = %v", err)
	}

	whs := svc.Warehouses()
	if len(whs) != 2 || whs[0].Name != "north wh" || whs[0].ID != "north-wh" || whs[1].Records != 1 {
		t.Errorf("Warehouses = %+v", whs)
	}

	header, rows, err := svc.ExportRows("north wh")
	if err != nil || len(header) != len(ExportHeader) || len(rows) != 1 || rows[0][0] != "A1" {
		t.Errorf("ExportRows = %v, %v, %v", header, rows, err)
	}
	if _, _, err := svc.ExportRows("missing"); !errors.Is(err, ErrWarehouseNotFound) {
		t.Errorf("ExportRows(missing) err = %v", err)
	}

	if err := svc.RemoveWarehouse(context.Background(), "South"); err != nil {
		t.Errorf("RemoveWarehouse: %v", err)
	}
	if err := svc.RemoveWarehouse(context.Background(), "South"); !errors.Is(err, ErrWarehouseNotFound) {
		t.Errorf("second RemoveWarehouse err = %v", err)
	}
	svc.Clear(context.Background())
	if len(svc.Warehouses()) != 0 {
		t.Error("Clear left warehouses")
	}
}

func TestService_SerializesUploads(t *testing.T) {
	block := make(chan struct{})
	dec := &blockingDecoder{release: block, wb: singleSheet(standardHeader, cells("A1", "W", 1, 1))}
	svc := NewService(dec, ServiceConfig{MaxWaitTime: 50 * time.Millisecond}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := svc.Ingest(context.Background(), IngestRequest{FileName: "A.xlsx", Data: []byte("x")}); err != nil {
			t.Errorf("first Ingest: %v", err)
		}
	}()

	for svc.UploadLimiterStatus().Active == 0 {
		time.Sleep(time.Millisecond)
	}

	_, err := svc.Ingest(context.Background(), IngestRequest{FileName: "B.xlsx", Data: []byte("x")})
	if !errors.Is(err, ErrTooManyUploads) {
		t.Errorf("second Ingest err = %v, want ErrTooManyUploads", err)
	}

	close(block)
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.WaitForUploads(ctx); err != nil {
		t.Errorf("WaitForUploads: %v", err)
	}
}

type blockingDecoder struct {
	release chan struct{}
	wb      *Workbook
}

func (d *blockingDecoder) Decode(string, []byte) (*Workbook, error) {
	<-d.release
	return d.wb, nil
}

type countingRecorder struct {
	processed, failed, searches int
	events                      []Event
}

func (r *countingRecorder) UploadProcessed(*UploadResult) { r.processed++ }
func (r *countingRecorder) UploadFailed(error)            { r.failed++ }
func (r *countingRecorder) Searched(SearchResult)         { r.searches++ }
func (r *countingRecorder) RepositoryChanged(ev Event)    { r.events = append(r.events, ev) }

func TestService_Recorder(t *testing.T) {
	rec := &countingRecorder{}
	dec := &fakeDecoder{books: map[string]*Workbook{
		"North.xlsx": singleSheet(standardHeader, cells("A1", "Widget", 10, 5)),
	}}
	svc := NewService(dec, ServiceConfig{}, rec)

	ingest(t, svc, "North.xlsx")
	_, _ = svc.Ingest(context.Background(), IngestRequest{FileName: "Missing.xlsx", Data: []byte("x")})
	_, _ = svc.Preview(context.Background(), IngestRequest{FileName: "North.xlsx", Data: []byte("x")})
	svc.Search("widget")

	if rec.processed != 1 || rec.failed != 1 || rec.searches != 1 {
		t.Errorf("recorder = %+v", rec)
	}
	if len(rec.events) != 1 || rec.events[0].MergedSize != 1 {
		t.Errorf("events = %+v", rec.events)
	}
}
