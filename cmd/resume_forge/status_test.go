package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCommand_PrintsDocumentAndProgress(t *testing.T) {
	statusDocFile = writeDocument(t, sampleDocument())

	cmd, out := newTestCommand()
	require.NoError(t, runStatus(cmd, nil))

	assert.Contains(t, out.String(), "RESUME")
	assert.Contains(t, out.String(), "Ada Lovelace")
	assert.Contains(t, out.String(), "PROGRESS")
	assert.NotContains(t, out.String(), "AI SCORE", "an unscored document has no score box")
}

func TestStatusCommand_PrintsScore(t *testing.T) {
	doc := sampleDocument()
	doc.Score.ATS = 82
	doc.Score.Feedback = []string{"Quantify the annotation work"}
	statusDocFile = writeDocument(t, doc)

	cmd, out := newTestCommand()
	require.NoError(t, runStatus(cmd, nil))

	assert.Contains(t, out.String(), "AI SCORE")
	assert.Contains(t, out.String(), "82%")
	assert.Contains(t, out.String(), "Quantify the annotation work")
}

func TestStatusCommand_MissingFile(t *testing.T) {
	statusDocFile = "does-not-exist.json"

	cmd, _ := newTestCommand()
	err := runStatus(cmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read document")
}
