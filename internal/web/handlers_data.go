package web

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/pricecompare/internal/core"
	"github.com/JonMunkholm/pricecompare/internal/logging"
	"github.com/JonMunkholm/pricecompare/internal/sheet"
)

func (s *Server) handleListWarehouses(w http.ResponseWriter, r *http.Request) {
	list := s.service.Warehouses()
	if list == nil {
		list = []core.WarehouseSummary{}
	}
	writeJSON(w, r, map[string]any{"warehouses": list})
}

func (s *Server) handleGetWarehouse(w http.ResponseWriter, r *http.Request) {
	params := warehouseParams{Name: urlParam(r, "name")}
	if err := s.check(params); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	ds, err := s.service.Dataset(params.Name)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, ds)
}

func (s *Server) handleRemoveWarehouse(w http.ResponseWriter, r *http.Request) {
	params := warehouseParams{Name: urlParam(r, "name")}
	if err := s.check(params); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if err := s.service.RemoveWarehouse(r.Context(), params.Name); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, map[string]any{
		"removed":    params.Name,
		"mergedSize": len(s.service.MergedIndex()),
	})
}

func (s *Server) handleClearWarehouses(w http.ResponseWriter, r *http.Request) {
	s.service.Clear(r.Context())
	writeJSON(w, r, map[string]any{"cleared": true})
}

// handleMerged returns the merged index across every warehouse.
func (s *Server) handleMerged(w http.ResponseWriter, r *http.Request) {
	records := s.service.MergedIndex()
	if records == nil {
		records = []core.WarehouseRecord{}
	}
	writeJSON(w, r, map[string]any{
		"size":    len(records),
		"records": records,
	})
}

// handleHighestDiscount returns the single best discount, or found=false
// when nothing is loaded.
func (s *Server) handleHighestDiscount(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.service.HighestDiscount()
	if !ok {
		writeJSON(w, r, map[string]any{"found": false})
		return
	}
	writeJSON(w, r, map[string]any{"found": true, "record": rec})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := searchParams{Query: r.URL.Query().Get("q")}
	if err := s.check(params); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %w", core.ErrInvalidSearchQuery, err), http.StatusBadRequest)
		return
	}
	writeJSON(w, r, s.service.Search(params.Query))
}

// handleTemplate downloads the sample price list.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	f, err := s.exportFormat(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.sendDownload(w, r, f, "price_list_template."+string(f), func(out io.Writer) error {
		return sheet.WriteTemplate(out, f)
	})
}

// handleExport downloads one warehouse's cleaned records.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	params := warehouseParams{Name: urlParam(r, "name")}
	if err := s.check(params); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	f, err := s.exportFormat(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	header, rows, err := s.service.ExportRows(params.Name)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	fileName := fmt.Sprintf("%s_%s.%s", core.WarehouseID(params.Name), time.Now().Format("20060102"), f)
	s.sendDownload(w, r, f, fileName, func(out io.Writer) error {
		return sheet.Write(out, f, sheetName(params.Name), header, rows)
	})
}

func (s *Server) exportFormat(r *http.Request) (sheet.Format, error) {
	params := formatParams{Format: r.URL.Query().Get("format")}
	if err := s.check(params); err != nil {
		return "", err
	}
	if params.Format == "" {
		return sheet.FormatXLSX, nil
	}
	return sheet.ParseFormat(params.Format)
}

// sendDownload renders the file fully before any header is written, so a
// render failure can still be reported as an error response.
func (s *Server) sendDownload(w http.ResponseWriter, r *http.Request, f sheet.Format, fileName string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Warn("download interrupted", "file", fileName, "error", err)
	}
}

var sheetNameReplacer = strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")

// sheetName makes a warehouse name safe for use as an Excel sheet name.
func sheetName(name string) string {
	r := []rune(sheetNameReplacer.Replace(name))
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
