package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/types"
)

// sampleDocument returns a partly filled document for command tests
func sampleDocument() *types.ResumeDocument {
	doc := document.Default(&document.SequentialGenerator{Prefix: "cat-"})
	doc.PersonalInfo = types.PersonalInfo{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		JobTitle: "Analyst",
	}
	doc.Summary = "Mathematician writing the first published algorithm for a general purpose computing machine."
	doc.Experience = []types.Experience{{
		ID:          "exp-1",
		Company:     "Analytical Engines Ltd",
		Role:        "Programmer",
		StartDate:   "1842",
		EndDate:     "1843",
		Description: []string{"Annotated the translation of Menabrea's memoir"},
	}}
	doc.Skills[0].Skills = []string{"Mathematics", "Algorithms"}
	return doc
}

// writeDocument stores doc as JSON in a temp dir and returns its path
func writeDocument(t *testing.T, doc *types.ResumeDocument) string {
	t.Helper()
	data, err := json.MarshalIndent(doc, "", "  ")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "resume.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// newTestCommand returns a command whose output lands in the returned buffer
func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetContext(context.Background())
	return cmd, &buf
}
