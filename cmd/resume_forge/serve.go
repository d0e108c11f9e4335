package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/identity"
	"github.com/jonathan/resume-forge/internal/server"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/jonathan/resume-forge/internal/wizard"
	"github.com/jonathan/resume-forge/internal/workspace"
)

var (
	servePort    int
	serveOrigins []string
	serveDataDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the wizard, document, refinement, preview and export endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, fmt.Sprintf("Port to listen on (default %d)", config.DefaultPort))
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "Allowed CORS origin (repeatable; default any)")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "Directory for the file-backed store")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	// Flags win over the config file and environment
	flags := config.Config{Port: servePort, AllowedOrigins: serveOrigins, DataDir: serveDataDir, Verbose: settings.Verbose}
	settings = flags.MergeWithDefaults(settings)

	ctx := context.Background()

	port, closePort, err := openPort(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closePort()

	ai, closeAI, err := newAssistant(ctx, settings.APIKey)
	if err != nil {
		return err
	}
	defer closeAI()
	if settings.APIKey == "" {
		log.Printf("[serve] GEMINI_API_KEY is not set, AI features will report a configuration error")
	}

	opts := workspace.Options{
		Port:     port,
		IDs:      document.UUIDGenerator{},
		AI:       ai,
		Renderer: newRenderer(settings),
	}
	if settings.MinAIDurationMS > 0 {
		timing := wizard.DefaultTiming()
		timing.MinAIDuration = time.Duration(settings.MinAIDurationMS) * time.Millisecond
		opts.Timing = &timing
	}

	var oauth *identity.OAuthProvider
	if clients := config.NewOAuthConfig(); clients.Any() {
		redirect := settings.OAuthRedirect
		if redirect == "" {
			redirect = fmt.Sprintf("http://localhost:%d/auth/callback", settings.Port)
		}
		oauth = identity.NewOAuthProvider(redirect, map[types.ProviderName]identity.Credentials{
			types.ProviderGoogle: {ClientID: clients.Google.ClientID, ClientSecret: clients.Google.ClientSecret},
			types.ProviderGitHub: {ClientID: clients.GitHub.ClientID, ClientSecret: clients.GitHub.ClientSecret},
			types.ProviderMeta:   {ClientID: clients.Meta.ClientID, ClientSecret: clients.Meta.ClientSecret},
		})
		opts.LiveIdentity = oauth
	}

	var jwtService *server.JWTService
	if sessionConfig, err := config.NewSessionConfig(); err != nil {
		log.Printf("[serve] Session tokens disabled: %v", err)
	} else {
		jwtService = server.NewJWTService(sessionConfig)
	}

	srv, err := server.New(server.Config{
		Port:           settings.Port,
		AllowedOrigins: settings.AllowedOrigins,
		Workspace:      workspace.Open(ctx, opts),
		JWT:            jwtService,
		OAuth:          oauth,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
