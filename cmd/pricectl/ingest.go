package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pricecompare/internal/config"
	"github.com/JonMunkholm/pricecompare/internal/core"
	"github.com/JonMunkholm/pricecompare/internal/logging"
	"github.com/JonMunkholm/pricecompare/internal/sheet"
)

type ingestOptions struct {
	sheet  string
	query  string
	pretty bool
}

// fileReport is the outcome of one input file.
type fileReport struct {
	File      string                `json:"file"`
	Warehouse string                `json:"warehouse,omitempty"`
	Sheet     string                `json:"sheet,omitempty"`
	Stats     *core.ProcessingStats `json:"stats,omitempty"`
	Errors    []string              `json:"errors,omitempty"`
	Failure   *core.UserMessage     `json:"failure,omitempty"`
}

// ingestReport is printed to stdout.
type ingestReport struct {
	Files           []fileReport            `json:"files"`
	Warehouses      []core.WarehouseSummary `json:"warehouses"`
	MergedSize      int                     `json:"mergedSize"`
	HighestDiscount *core.WarehouseRecord   `json:"highestDiscount"`
	Search          *core.SearchResult      `json:"search,omitempty"`
}

func newIngestCmd() *cobra.Command {
	var opts ingestOptions
	cmd := &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Ingest price lists into one comparison and print it as JSON",
		Long: `ingest loads every file into a single in-memory repository, in argument
order, and prints per-file statistics, row errors, the highest discount and
optionally a product search. A file named like an earlier one replaces it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Sheet to read from each workbook (default: first sheet)")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Search the merged index for this item code or name")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func newService(stderr io.Writer) (*core.Service, error) {
	logging.SetupWriter(stderr, logLevel, "text")
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return core.NewService(sheet.Workbooks{}, cfg.Upload.ServiceConfig(), nil), nil
}

func runIngest(ctx context.Context, stdout, stderr io.Writer, files []string, opts ingestOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := newService(stderr)
	if err != nil {
		return err
	}

	report := ingestReport{Files: make([]fileReport, 0, len(files))}
	failed := 0
	for _, path := range files {
		fr := ingestFile(ctx, svc, path, opts.sheet)
		if fr.Failure != nil {
			failed++
		}
		report.Files = append(report.Files, fr)
	}

	report.Warehouses = svc.Warehouses()
	report.MergedSize = len(svc.MergedIndex())
	if rec, ok := svc.HighestDiscount(); ok {
		report.HighestDiscount = &rec
	}
	if opts.query != "" {
		res := svc.Search(opts.query)
		report.Search = &res
	}

	if err := writeReport(stdout, report, opts.pretty); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be processed", failed, len(files))
	}
	return nil
}

func ingestFile(ctx context.Context, svc *core.Service, path, sheetName string) fileReport {
	fr := fileReport{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		msg := core.MapError(fmt.Errorf("%w: %v", core.ErrUnreadableFile, err))
		fr.Failure = &msg
		return fr
	}

	res, err := svc.Ingest(ctx, core.IngestRequest{
		FileName: filepath.Base(path),
		Data:     data,
		Sheet:    sheetName,
	})
	if err != nil {
		msg := core.MapError(err)
		fr.Failure = &msg
		return fr
	}

	fr.Warehouse = res.WarehouseName
	fr.Sheet = res.Sheet
	fr.Stats = &res.Stats
	fr.Errors = res.ErrorMessages()
	return fr
}

func writeReport(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
