package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/resume-forge/internal/identity"
	"github.com/jonathan/resume-forge/internal/server/middleware"
	"github.com/jonathan/resume-forge/internal/types"
)

// SessionResponse describes the current sign-in state
type SessionResponse struct {
	User       *types.User `json:"user"`
	Configured bool        `json:"configured"`
}

// AuthConfigResponse reports the stored provider configuration
type AuthConfigResponse struct {
	Configured bool                  `json:"configured"`
	Config     *types.ProviderConfig `json:"config,omitempty"`
}

// MessageResponse carries a single user-facing message
type MessageResponse struct {
	Message string `json:"message"`
}

// provider parses the {provider} path value, writing a 400 when it is unknown
func (s *Server) provider(w http.ResponseWriter, r *http.Request) (types.ProviderName, bool) {
	p := types.ProviderName(r.PathValue("provider"))
	if !p.Valid() {
		s.failure(w, &ErrValidation{Field: "provider", Message: identity.MessageUnknownProvider})
		return "", false
	}
	return p, true
}

// handleAuthURL returns the provider's consent page URL for the live sign-in flow
func (s *Server) handleAuthURL(w http.ResponseWriter, r *http.Request) {
	p, ok := s.provider(w, r)
	if !ok {
		return
	}
	if s.oauth == nil {
		s.errorResponse(w, http.StatusNotFound, "Live sign-in is not configured")
		return
	}
	url, err := s.oauth.AuthCodeURL(p, r.URL.Query().Get("state"))
	if err != nil {
		s.failure(w, &ErrValidation{Field: "provider", Message: err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"url": url})
}

// handleLogin signs in with provider, seeds the document and issues a session token.
// Without a stored provider config the demo profiles are used.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p, ok := s.provider(w, r)
	if !ok {
		return
	}
	// The body is optional; the demo flow sends none
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.ws.SignIn(r.Context(), p, req.Code)
	if err != nil {
		log.Printf("[auth] Sign-in via %s failed: %v", p, err)
		s.errorResponse(w, HTTPStatus(err), identity.MessageFor(err))
		return
	}

	resp := types.LoginResponse{User: res.User, Message: res.Message, Doc: res.Document}
	if s.jwtService != nil {
		token, err := s.jwtService.GenerateToken(res.User)
		if err != nil {
			s.failure(w, err)
			return
		}
		resp.Token = token
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.ws.SignOut(r.Context())
	s.jsonResponse(w, http.StatusOK, MessageResponse{Message: identity.MessageLoggedOut})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, SessionResponse{
		User:       s.ws.Identity.Session.Current(),
		Configured: s.ws.Identity.Configured(r.Context()),
	})
}

// handleMe returns the subject of the bearer session token
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	subject, err := middleware.GetSubject(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.jsonResponse(w, http.StatusOK, subject)
}

func (s *Server) handleGetAuthConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.ws.Identity.Configs.Load(r.Context())
	s.jsonResponse(w, http.StatusOK, AuthConfigResponse{Configured: ok, Config: cfg})
}

// handleSaveAuthConfig stores a pasted provider configuration. The body is the raw
// snippet, which may be a bare JSON object or a "const config = {...};" assignment.
func (s *Server) handleSaveAuthConfig(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	cfg, err := s.ws.Identity.Configs.Save(r.Context(), string(raw))
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, AuthConfigResponse{Configured: true, Config: cfg})
}

func (s *Server) handleResetAuthConfig(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.Identity.Configs.Reset(r.Context()); err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, AuthConfigResponse{Configured: false})
}
