package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-forge/internal/export"
)

var (
	exportDocFile string
	exportFormat  string
	exportOutFile string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a resume document to PDF or PNG",
	Long:  "Rasterizes the rendered resume in headless Chrome and writes a PNG or a one-page A4 PDF.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportDocFile, "doc", "d", "", "Path to resume document JSON (required)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "pdf", "Output format: pdf or png")
	exportCmd.Flags().StringVarP(&exportOutFile, "out", "o", "", "Output file (default Resume_<Name>.<format>)")
	_ = exportCmd.MarkFlagRequired("doc")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	doc, err := readDocument(exportDocFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := export.Export(ctx, newRenderer(settings), doc, format)
	if err != nil {
		return err
	}

	out := exportOutFile
	if out == "" {
		out = res.Filename
	}
	if err := writeOutput(out, res.Data); err != nil {
		return err
	}
	log.Printf("[export] Wrote %s (%d bytes)", out, len(res.Data))
	fmt.Fprintln(cmd.OutOrStdout(), out) //nolint:errcheck
	return nil
}
