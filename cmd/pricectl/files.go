package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pricecompare/internal/core"
	"github.com/JonMunkholm/pricecompare/internal/sheet"
)

func newTemplateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the sample price list (xlsx or csv by extension)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := sheet.FormatFromFileName(out)
			if err != nil {
				return err
			}
			return writeFile(out, func(file *os.File) error {
				return sheet.WriteTemplate(file, f)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "price_list_template.xlsx", "Output file")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		out       string
		sheetName string
	)
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Validate one price list and write its clean records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			f, err := sheet.FormatFromFileName(out)
			if err != nil {
				return err
			}

			svc, err := newService(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := svc.Ingest(ctx, core.IngestRequest{
				FileName: filepath.Base(args[0]),
				Data:     data,
				Sheet:    sheetName,
			})
			if err != nil {
				return fmt.Errorf("%s: %s", args[0], core.FormatUserError(err))
			}
			for _, msg := range res.ErrorMessages() {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}

			header, rows, err := svc.ExportRows(res.WarehouseName)
			if err != nil {
				return err
			}
			return writeFile(out, func(file *os.File) error {
				return sheet.Write(file, f, "Prices", header, rows)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "export.xlsx", "Output file (.xlsx or .csv)")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet to read (default: first sheet)")
	return cmd
}

func writeFile(path string, write func(*os.File) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
