package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jonathan/resume-forge/internal/assistant"
	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/export"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/persistence"
	"github.com/jonathan/resume-forge/internal/schemas"
	"github.com/jonathan/resume-forge/internal/types"
)

// postgresNamespace scopes this tool's rows in a shared database
const postgresNamespace = "resume_forge"

// loadSettings reads the --config file when given, then fills the gaps from the environment.
func loadSettings() (config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if verbose {
		cfg.Verbose = true
	}

	merged := cfg.FromEnv()
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// readDocument loads and schema-checks a resume document JSON file.
func readDocument(path string) (*types.ResumeDocument, error) {
	if path == "" {
		return nil, fmt.Errorf("--doc is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	if err := schemas.Validate(schemas.DocumentSchema, data); err != nil {
		return nil, fmt.Errorf("document %s is invalid: %w", path, err)
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", path, err)
	}
	return &doc, nil
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" || path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// openPort selects the storage backend: PostgreSQL, a data directory, or memory.
func openPort(ctx context.Context, cfg config.Config) (persistence.Port, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		store, err := persistence.ConnectPostgres(ctx, cfg.DatabaseURL, postgresNamespace)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[storage] Using PostgreSQL")
		return store, store.Close, nil
	case cfg.DataDir != "":
		store, err := persistence.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[storage] Using data directory %s", cfg.DataDir)
		return store, func() {}, nil
	default:
		log.Printf("[storage] No data_dir or DATABASE_URL set, the document will not survive a restart")
		return persistence.NewMemoryStore(), func() {}, nil
	}
}

// newAssistant connects to Gemini. Without an API key every AI call fails with the
// misconfigured message, which the wizard treats like any other AI failure.
func newAssistant(ctx context.Context, apiKey string) (assistant.Adapter, func(), error) {
	if apiKey == "" {
		return assistant.Unconfigured{}, func() {}, nil
	}
	client, err := llm.NewClient(ctx, llm.ConfigFromEnv(), apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return assistant.New(client), func() { _ = client.Close() }, nil
}

// newRenderer configures the headless browser used for exports.
func newRenderer(cfg config.Config) *export.ChromeRenderer {
	r := export.NewChromeRenderer()
	if cfg.ChromePath != "" {
		r.ExecPath = cfg.ChromePath
	}
	if cfg.ExportTimeoutS > 0 {
		r.Timeout = time.Duration(cfg.ExportTimeoutS) * time.Second
	}
	r.Verbose = cfg.Verbose
	return r
}
