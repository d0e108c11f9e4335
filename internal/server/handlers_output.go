package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-forge/internal/export"
	"github.com/jonathan/resume-forge/internal/persistence"
)

// ThemeRequest is the body of PUT /theme
type ThemeRequest struct {
	Theme string `json:"theme"`
}

// ThemeResponse carries the editor UI theme
type ThemeResponse struct {
	Theme persistence.Theme `json:"theme"`
}

// handlePreviewHTML serves the rendered resume page
func (s *Server) handlePreviewHTML(w http.ResponseWriter, _ *http.Request) {
	_, html, err := s.ws.Preview()
	if err != nil {
		s.failure(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// handlePreviewLayout serves the renderer-neutral page layout
func (s *Server) handlePreviewLayout(w http.ResponseWriter, _ *http.Request) {
	layout, _, err := s.ws.Preview()
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, layout)
}

// handleExport renders the document through the headless browser and returns the file
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		s.failure(w, &ErrValidation{Field: "format", Message: err.Error()})
		return
	}

	res, err := s.ws.Export(r.Context(), format)
	if err != nil {
		s.failure(w, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, ThemeResponse{Theme: s.ws.Theme(r.Context())})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if err := decodeBody(r, &req); err != nil {
		s.failure(w, err)
		return
	}
	theme, err := persistence.ParseTheme(req.Theme)
	if err != nil {
		s.failure(w, &ErrValidation{Field: "theme", Message: err.Error()})
		return
	}
	if err := s.ws.SetTheme(r.Context(), theme); err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ThemeResponse{Theme: theme})
}
