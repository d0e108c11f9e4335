package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/observability"
	"github.com/jonathan/resume-forge/internal/skills"
)

var (
	analyzeDocFile string
	analyzeOutFile string
	analyzeSuggest bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the AI optimization on a resume document",
	Long: "Sends the document for full analysis, merges the rewritten summary, skills and " +
		"descriptions with the new score, and writes the result. Requires GEMINI_API_KEY.",
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeDocFile, "doc", "d", "", "Path to resume document JSON (required)")
	analyzeCmd.Flags().StringVarP(&analyzeOutFile, "out", "o", "-", "Output document JSON, - for stdout")
	analyzeCmd.Flags().BoolVar(&analyzeSuggest, "suggest", false, "Also print skill suggestions not already in the document")
	_ = analyzeCmd.MarkFlagRequired("doc")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if settings.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable (or api_key in config) is required")
	}
	doc, err := readDocument(analyzeDocFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ai, closeAI, err := newAssistant(ctx, settings.APIKey)
	if err != nil {
		return err
	}
	defer closeAI()

	store := document.NewStore(doc, nil, document.UUIDGenerator{})
	printer := observability.NewPrinter(cmd.ErrOrStderr())

	result, err := ai.AnalyzeDocument(ctx, store.Snapshot())
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if settings.Verbose {
		printer.PrintAnalysis(result)
	}

	merged, err := store.ApplyAnalysis(ctx, result)
	if err != nil {
		return err
	}
	printer.PrintScore(merged.Score)

	if analyzeSuggest {
		printer.PrintSuggestions(skills.NewSuggester(store, ai).Refresh(ctx))
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return writeOutput(analyzeOutFile, append(data, '\n'))
}
