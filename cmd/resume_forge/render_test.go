package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCommand_WritesHTML(t *testing.T) {
	renderDocFile = writeDocument(t, sampleDocument())
	renderTemplate = "minimal"
	renderOutFile = filepath.Join(t.TempDir(), "resume.html")

	cmd, _ := newTestCommand()
	require.NoError(t, runRender(cmd, nil))

	html, err := os.ReadFile(renderOutFile)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Ada Lovelace")
	assert.Contains(t, string(html), "Analytical Engines Ltd")
}

func TestRenderCommand_UnknownTemplate(t *testing.T) {
	renderDocFile = writeDocument(t, sampleDocument())
	renderTemplate = "baroque"
	renderOutFile = filepath.Join(t.TempDir(), "resume.html")

	cmd, _ := newTestCommand()
	err := runRender(cmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
	assert.NoFileExists(t, renderOutFile)
}

func TestRenderCommand_InvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"skills":"Go"}`), 0o644))
	renderDocFile = path
	renderTemplate = ""

	cmd, _ := newTestCommand()
	err := runRender(cmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is invalid")
}
