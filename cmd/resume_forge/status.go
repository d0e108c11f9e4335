package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-forge/internal/observability"
	"github.com/jonathan/resume-forge/internal/progress"
	"github.com/jonathan/resume-forge/internal/types"
)

var statusDocFile string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show section completion and the AI score of a resume document",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusDocFile, "doc", "d", "", "Path to resume document JSON (required)")
	_ = statusCmd.MarkFlagRequired("doc")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	doc, err := readDocument(statusDocFile)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintDocument(doc)
	printer.PrintProgress(progress.Overview(doc))
	if !scoreIsZero(doc.Score) {
		printer.PrintScore(doc.Score)
	}
	return nil
}

func scoreIsZero(s types.Score) bool {
	return s.ATS == 0 && s.Readability == 0 && s.Depth == 0 && len(s.Feedback) == 0
}
