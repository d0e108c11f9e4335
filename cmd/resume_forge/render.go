package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-forge/internal/rendering"
	"github.com/jonathan/resume-forge/internal/types"
)

var (
	renderDocFile  string
	renderTemplate string
	renderOutFile  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume document to preview HTML",
	Long:  "Renders the document with one of the template variants and writes the self-contained HTML page.",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderDocFile, "doc", "d", "", "Path to resume document JSON (required)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Template variant (modern, minimal, executive, creative); defaults to the document's")
	renderCmd.Flags().StringVarP(&renderOutFile, "out", "o", "-", "Output HTML file, - for stdout")
	_ = renderCmd.MarkFlagRequired("doc")
	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, _ []string) error {
	doc, err := readDocument(renderDocFile)
	if err != nil {
		return err
	}
	if renderTemplate != "" {
		id := types.TemplateID(renderTemplate)
		if !id.Valid() {
			return fmt.Errorf("unknown template %q", renderTemplate)
		}
		doc.TemplateID = id
	}

	_, html, err := rendering.RenderDocument(doc)
	if err != nil {
		return fmt.Errorf("failed to render resume: %w", err)
	}
	return writeOutput(renderOutFile, []byte(html))
}
