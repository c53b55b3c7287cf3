package core

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/pricecompare/internal/logging"
)

// DefaultMaxFileSize is the largest file accepted for ingestion (10MB).
const DefaultMaxFileSize int64 = 10 << 20

// ServiceConfig controls ingestion limits.
type ServiceConfig struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWaitTime   time.Duration
	HistoryLimit  int
	// AllowedExtensions restricts file names by extension (".xlsx").
	// Empty means every extension is passed to the decoder.
	AllowedExtensions []string
}

// Recorder receives ingestion and search measurements. The metrics package
// provides the Prometheus implementation.
type Recorder interface {
	UploadProcessed(res *UploadResult)
	UploadFailed(err error)
	Searched(res SearchResult)
	RepositoryChanged(ev Event)
}

type nopRecorder struct{}

func (nopRecorder) UploadProcessed(*UploadResult) {}
func (nopRecorder) UploadFailed(error)            {}
func (nopRecorder) Searched(SearchResult)         {}
func (nopRecorder) RepositoryChanged(Event)       {}

// Service is the entry point used by the HTTP server and the CLI. It owns the
// repository and serializes ingestion through an UploadLimiter.
type Service struct {
	cfg      ServiceConfig
	decoder  WorkbookDecoder
	repo     *WarehouseRepository
	search   *ProductSearchEngine
	limiter  *UploadLimiter
	history  *uploadHistory
	recorder Recorder
}

// NewService creates a Service. rec may be nil.
func NewService(decoder WorkbookDecoder, cfg ServiceConfig, rec Recorder) *Service {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if rec == nil {
		rec = nopRecorder{}
	}

	repo := NewWarehouseRepository()
	repo.Subscribe(rec.RepositoryChanged)

	return &Service{
		cfg:      cfg,
		decoder:  decoder,
		repo:     repo,
		search:   NewProductSearchEngine(repo),
		limiter:  NewUploadLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		history:  newUploadHistory(cfg.HistoryLimit),
		recorder: rec,
	}
}

// Repository exposes the underlying repository, mainly for subscribers.
func (s *Service) Repository() *WarehouseRepository { return s.repo }

// Ingest processes a file and replaces the warehouse's dataset with the
// result. A file with no valid rows still replaces the dataset. Fatal errors
// leave the repository untouched.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (*UploadResult, error) {
	return s.process(ctx, req, true)
}

// Preview runs the same pipeline as Ingest without changing any state.
func (s *Service) Preview(ctx context.Context, req IngestRequest) (*UploadResult, error) {
	return s.process(ctx, req, false)
}

func (s *Service) process(ctx context.Context, req IngestRequest, commit bool) (*UploadResult, error) {
	res, err := s.run(ctx, req, commit)
	if err != nil {
		s.recorder.UploadFailed(err)
		return nil, err
	}
	if commit {
		s.recorder.UploadProcessed(res)
	}
	return res, nil
}

func (s *Service) run(ctx context.Context, req IngestRequest, commit bool) (*UploadResult, error) {
	if err := s.checkFile(req); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()
	source := SourceFromFileName(req.FileName)
	uploadID := uuid.New().String()
	logger := logging.WithFields(ctx,
		"upload_id", uploadID,
		"file", source.FileName,
		"warehouse", source.Name,
		"commit", commit,
	)
	logger.Debug("upload started", "bytes", len(req.Data))

	wb, err := s.decoder.Decode(source.FileName, req.Data)
	if err != nil {
		logger.Warn("decode failed", "error", err)
		return nil, &DecodeError{FileName: source.FileName, Err: err}
	}

	sheet, err := pickSheet(wb, req.Sheet)
	if err != nil {
		return nil, err
	}

	sr, err := ProcessSheet(sheet.Rows, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sheet.Name, err)
	}

	// Nothing has been written yet; a cancelled request leaves state as it was.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	sr.Dataset.SheetName = sheet.Name
	sr.Dataset.UploadedAt = now

	res := &UploadResult{
		UploadID:      uploadID,
		FileName:      source.FileName,
		WarehouseName: source.Name,
		WarehouseID:   source.ID,
		Sheet:         sheet.Name,
		Sheets:        wb.SheetNames(),
		Headers:       sr.Headers,
		Columns:       sr.Mapping.Resolved(),
		MissingFields: sr.Mapping.Missing(),
		Stats:         sr.Stats,
		Errors:        sr.Errors,
		Records:       sr.Dataset.Records,
		Committed:     commit,
		ProcessedAt:   now,
	}
	if res.Errors == nil {
		res.Errors = []ValidationError{}
	}

	if commit {
		s.repo.Upsert(source.Name, sr.Dataset)
	}
	res.MergedSize = len(s.repo.MergedIndex())
	res.Duration = time.Since(start)

	if commit {
		s.history.add(res)
	}

	logger.Info("upload processed",
		"sheet", sheet.Name,
		"total_rows", res.Stats.TotalRows,
		"valid_rows", res.Stats.ValidRows,
		"error_rows", res.Stats.ErrorRows,
		"duplicate_rows", res.Stats.DuplicateRows,
		"duration", res.Duration,
	)
	return res, nil
}

// checkFile applies the guards that do not need the file contents.
func (s *Service) checkFile(req IngestRequest) error {
	if strings.TrimSpace(req.FileName) == "" || len(req.Data) == 0 {
		return ErrNoFile
	}
	if int64(len(req.Data)) > s.cfg.MaxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(req.Data), s.cfg.MaxFileSize)
	}
	if len(s.cfg.AllowedExtensions) > 0 {
		ext := strings.ToLower(filepath.Ext(req.FileName))
		if !slices.Contains(s.cfg.AllowedExtensions, ext) {
			return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
		}
	}
	return nil
}

func pickSheet(wb *Workbook, name string) (Sheet, error) {
	if wb == nil || len(wb.Sheets) == 0 {
		return Sheet{}, ErrNoSheets
	}
	if name == "" {
		return wb.Sheets[0], nil
	}
	sheet, ok := wb.Sheet(name)
	if !ok {
		return Sheet{}, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return sheet, nil
}

// Search groups matching products across every warehouse.
func (s *Service) Search(query string) SearchResult {
	res := s.search.Search(query)
	s.recorder.Searched(res)
	return res
}

// HighestDiscount returns the best discount across all warehouses.
func (s *Service) HighestDiscount() (WarehouseRecord, bool) {
	return s.repo.HighestDiscountRecord()
}

// MergedIndex returns every record in warehouse insertion order.
func (s *Service) MergedIndex() []WarehouseRecord {
	return s.repo.MergedIndex()
}

// Warehouses summarizes the loaded datasets.
func (s *Service) Warehouses() []WarehouseSummary {
	return s.repo.Warehouses()
}

// Dataset returns the named warehouse's dataset.
func (s *Service) Dataset(name string) (Dataset, error) {
	ds, ok := s.repo.Dataset(name)
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %q", ErrWarehouseNotFound, name)
	}
	return ds, nil
}

// RemoveWarehouse drops a warehouse and its records.
func (s *Service) RemoveWarehouse(ctx context.Context, name string) error {
	if !s.repo.Remove(name) {
		return fmt.Errorf("%w: %q", ErrWarehouseNotFound, name)
	}
	logging.FromContext(ctx).Info("warehouse removed", "warehouse", name)
	return nil
}

// Clear drops every warehouse.
func (s *Service) Clear(ctx context.Context) {
	n := s.repo.Len()
	s.repo.Clear()
	logging.FromContext(ctx).Info("repository cleared", "warehouses", n)
}

// UploadHistory lists recent committed uploads, newest first.
func (s *Service) UploadHistory() []UploadSummary {
	return s.history.list()
}

// GetUpload returns the full result of a recent upload.
func (s *Service) GetUpload(id string) (*UploadResult, error) {
	res, ok := s.history.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUploadNotFound, id)
	}
	return res, nil
}

// ExportRows returns the named warehouse's records as rows aligned with
// ExportHeader.
func (s *Service) ExportRows(name string) ([]string, [][]any, error) {
	ds, err := s.Dataset(name)
	if err != nil {
		return nil, nil, err
	}
	return ExportHeader, ds.ExportRows(), nil
}

// UploadLimiterStatus reports the ingestion queue.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
