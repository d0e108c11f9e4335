package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/jonathan/resume-forge/internal/identity"
	"github.com/jonathan/resume-forge/internal/server/middleware"
	"github.com/jonathan/resume-forge/internal/server/ratelimit"
	"github.com/jonathan/resume-forge/internal/workspace"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	ws          *workspace.Workspace
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	oauth       *identity.OAuthProvider
	origins     []string
}

// Config holds server configuration
type Config struct {
	Port int
	// AllowedOrigins restricts CORS; empty allows any origin
	AllowedOrigins []string
	Workspace      *workspace.Workspace
	// JWT is optional; without it no session token is issued
	JWT *JWTService
	// OAuth is optional and enables provider authorization URLs
	OAuth *identity.OAuthProvider
	// RateLimit nil loads the environment configuration
	RateLimit    *ratelimit.Config
	WriteTimeout time.Duration
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Workspace == nil {
		return nil, fmt.Errorf("workspace is required")
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 120 * time.Second
	}

	s := &Server{
		ws:          cfg.Workspace,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		jwtService:  cfg.JWT,
		oauth:       cfg.OAuth,
		origins:     cfg.AllowedOrigins,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Document
	mux.HandleFunc("GET /document", s.handleGetDocument)
	mux.HandleFunc("PUT /document", s.handleReplaceDocument)
	mux.HandleFunc("POST /document/reset", s.handleResetDocument)
	mux.HandleFunc("PATCH /document/personal", s.handlePatchPersonal)
	mux.HandleFunc("PUT /document/context", s.handleSetContext)
	mux.HandleFunc("PUT /document/summary", s.handleSetSummary)
	mux.HandleFunc("PUT /document/design", s.handleSetDesign)
	mux.HandleFunc("GET /document/design/options", s.handleDesignOptions)

	mux.HandleFunc("POST /document/experience", s.handleAddExperience)
	mux.HandleFunc("PUT /document/experience/{id}", s.handleUpdateExperience)
	mux.HandleFunc("DELETE /document/experience/{id}", s.handleRemoveExperience)
	mux.HandleFunc("POST /document/education", s.handleAddEducation)
	mux.HandleFunc("PUT /document/education/{id}", s.handleUpdateEducation)
	mux.HandleFunc("DELETE /document/education/{id}", s.handleRemoveEducation)
	mux.HandleFunc("POST /document/projects", s.handleAddProject)
	mux.HandleFunc("PUT /document/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /document/projects/{id}", s.handleRemoveProject)

	mux.HandleFunc("POST /document/skills/categories", s.handleAddSkillCategory)
	mux.HandleFunc("DELETE /document/skills/categories/{id}", s.handleRemoveSkillCategory)
	mux.HandleFunc("POST /document/skills/categories/{id}/skills", s.handleAddSkill)
	mux.HandleFunc("DELETE /document/skills/categories/{id}/skills/{skill}", s.handleRemoveSkill)

	// Wizard
	mux.HandleFunc("GET /wizard", s.handleWizardState)
	mux.HandleFunc("POST /wizard/start", s.handleWizardStart)
	mux.HandleFunc("POST /wizard/advance", s.handleWizardAdvance)
	mux.HandleFunc("POST /wizard/retreat", s.handleWizardRetreat)
	mux.HandleFunc("POST /wizard/jump/{step}", s.handleWizardJump)
	mux.HandleFunc("POST /wizard/ai", s.handleWizardAI)
	mux.HandleFunc("POST /wizard/skip", s.handleWizardSkip)
	mux.HandleFunc("POST /wizard/events", s.handleWizardDispatch)
	mux.HandleFunc("GET /wizard/events", s.handleWizardEvents)
	mux.HandleFunc("GET /progress", s.handleProgress)

	// Proposals
	mux.HandleFunc("GET /proposals/{group}", s.handleGetProposal)
	mux.HandleFunc("POST /proposals/{group}/accept", s.handleAcceptProposal)
	mux.HandleFunc("POST /proposals/{group}/discard", s.handleDiscardProposal)
	mux.HandleFunc("POST /proposals/{group}/regenerate", s.handleRegenerateProposal)
	mux.HandleFunc("POST /proposals/{group}/{id}", s.handleRequestProposal)

	// Skill suggestions
	mux.HandleFunc("GET /skills/suggestions", s.handleGetSuggestions)
	mux.HandleFunc("POST /skills/suggestions/refresh", s.handleRefreshSuggestions)
	mux.HandleFunc("POST /skills/suggestions/accept", s.handleAcceptSuggestion)

	// Preview and export
	mux.HandleFunc("GET /preview", s.handlePreviewHTML)
	mux.HandleFunc("GET /preview/layout", s.handlePreviewLayout)
	mux.HandleFunc("GET /export/{format}", s.handleExport)
	mux.HandleFunc("GET /theme", s.handleGetTheme)
	mux.HandleFunc("PUT /theme", s.handleSetTheme)

	// Identity
	mux.HandleFunc("GET /auth/{provider}/url", s.handleAuthURL)
	mux.HandleFunc("POST /auth/{provider}/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("GET /auth/session", s.handleSession)
	mux.HandleFunc("GET /auth/config", s.handleGetAuthConfig)
	mux.HandleFunc("PUT /auth/config", s.handleSaveAuthConfig)
	mux.HandleFunc("DELETE /auth/config", s.handleResetAuthConfig)
	if s.jwtService != nil {
		mux.Handle("GET /auth/me", middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(http.HandlerFunc(s.handleMe)))
	}

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or "" to omit it.
func (s *Server) allowOrigin(origin string) string {
	if len(s.origins) == 0 {
		return "*"
	}
	if origin != "" && slices.Contains(s.origins, strings.TrimSuffix(origin, "/")) {
		return origin
	}
	return ""
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failure writes err with the status and message HTTPStatus and ErrorMessage pick for it.
func (s *Server) failure(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] Request failed: %v", err)
	}
	s.errorResponse(w, status, ErrorMessage(err))
}

// decodeBody decodes the JSON request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
