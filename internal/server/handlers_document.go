package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/proposal"
	"github.com/jonathan/resume-forge/internal/rendering"
	"github.com/jonathan/resume-forge/internal/schemas"
	"github.com/jonathan/resume-forge/internal/types"
)

// maxDocumentBytes bounds whole-document uploads
const maxDocumentBytes = 1 << 20

// TextRequest is the body of the single-text document setters
type TextRequest struct {
	Text string `json:"text"`
}

// CreatedResponse is returned when a list entity is added
type CreatedResponse struct {
	ID       string                `json:"id"`
	Document *types.ResumeDocument `json:"document"`
}

// SkillRequest names one skill tag
type SkillRequest struct {
	Skill string `json:"skill"`
}

// SkillCategoryRequest names a new skill category
type SkillCategoryRequest struct {
	Name string `json:"name"`
}

// SkillAddedResponse reports whether a tag was added
type SkillAddedResponse struct {
	Added    bool                  `json:"added"`
	Document *types.ResumeDocument `json:"document"`
}

// DesignOptions lists the presets offered by the design editor
type DesignOptions struct {
	Templates   []types.TemplateID `json:"templates"`
	Backgrounds []rendering.Swatch `json:"backgrounds"`
	Accents     []rendering.Swatch `json:"accents"`
	Fonts       []rendering.Font   `json:"fonts"`
}

func (s *Server) handleGetDocument(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.ws.Store.Snapshot())
}

// handleReplaceDocument swaps in a whole document after schema validation
func (s *Server) handleReplaceDocument(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if err := schemas.Validate(schemas.DocumentSchema, raw); err != nil {
		s.failure(w, err)
		return
	}

	var next types.ResumeDocument
	if err := json.Unmarshal(raw, &next); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	doc, err := s.ws.Store.Replace(r.Context(), &next)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleResetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ws.Reset(r.Context())
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handlePatchPersonal overlays the fields present in the body onto the personal info
func (s *Server) handlePatchPersonal(w http.ResponseWriter, r *http.Request) {
	raw, err := readPatch(r, &types.PersonalInfo{})
	if err != nil {
		s.failure(w, err)
		return
	}
	doc, err := s.ws.Store.PatchPersonalInfo(r.Context(), func(info *types.PersonalInfo) error {
		return json.Unmarshal(raw, info)
	})
	s.documentResult(w, doc, err)
}

func (s *Server) handleSetContext(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeBody(r, &req); err != nil {
		s.failure(w, err)
		return
	}
	doc, err := s.ws.Store.SetTargetJobDescription(r.Context(), req.Text)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleSetSummary(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeBody(r, &req); err != nil {
		s.failure(w, err)
		return
	}
	if err := s.ws.Proposals.Editable(proposal.SummaryEntity); err != nil {
		s.failure(w, err)
		return
	}
	doc, err := s.ws.Store.SetSummary(r.Context(), req.Text)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleSetDesign(w http.ResponseWriter, r *http.Request) {
	var req document.Design
	if err := decodeBody(r, &req); err != nil {
		s.failure(w, err)
		return
	}
	doc, err := s.ws.Store.SetDesign(r.Context(), req)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleDesignOptions(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, DesignOptions{
		Templates:   types.TemplateIDs,
		Backgrounds: rendering.BackgroundSwatches,
		Accents:     rendering.AccentSwatches,
		Fonts:       rendering.PresetFonts,
	})
}

// created writes the id of a freshly added entity with the resulting document
func (s *Server) created(w http.ResponseWriter, id string, err error) {
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, CreatedResponse{ID: id, Document: s.ws.Store.Snapshot()})
}

// documentResult writes doc or the error that prevented the change
func (s *Server) documentResult(w http.ResponseWriter, doc *types.ResumeDocument, err error) {
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// readPatch reads a JSON object body to be overlaid onto an entity
func readPatch(r *http.Request, shape any) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := json.Unmarshal(raw, shape); err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return raw, nil
}

func (s *Server) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	id, err := s.ws.Store.AddExperience(r.Context())
	s.created(w, id, err)
}

func (s *Server) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	raw, err := readPatch(r, &types.Experience{})
	if err != nil {
		s.failure(w, err)
		return
	}
	if err := s.ws.Proposals.Editable(r.PathValue("id")); err != nil {
		s.failure(w, err)
		return
	}
	doc, err := s.ws.Store.UpdateExperience(r.Context(), r.PathValue("id"), func(e *types.Experience) {
		id := e.ID
		_ = json.Unmarshal(raw, e)
		e.ID = id
	})
	s.documentResult(w, doc, err)
}

func (s *Server) handleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ws.Store.RemoveExperience(r.Context(), r.PathValue("id"))
	s.documentResult(w, doc, err)
}

func (s *Server) handleAddEducation(w http.ResponseWriter, r *http.Request) {
	id, err := s.ws.Store.AddEducation(r.Context())
	s.created(w, id, err)
}

func (s *Server) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	raw, err := readPatch(r, &types.Education{})
	if err != nil {
		s.failure(w, err)
		return
	}
	if err := s.ws.Proposals.Editable(r.PathValue("id")); err != nil {
		s.failure(w, err)
		return
	}
	doc, err := s.ws.Store.UpdateEducation(r.Context(), r.PathValue("id"), func(e *types.Education) {
		id := e.ID
		_ = json.Unmarshal(raw, e)
		e.ID = id
	})
	s.documentResult(w, doc, err)
}

func (s *Server) handleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ws.Store.RemoveEducation(r.Context(), r.PathValue("id"))
	s.documentResult(w, doc, err)
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	id, err := s.ws.Store.AddProject(r.Context())
	s.created(w, id, err)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	raw, err := readPatch(r, &types.Project{})
	if err != nil {
		s.failure(w, err)
		return
	}
	if err := s.ws.Proposals.Editable(r.PathValue("id")); err != nil {
		s.failure(w, err)
		return
	}
	doc, err := s.ws.Store.UpdateProject(r.Context(), r.PathValue("id"), func(p *types.Project) {
		id := p.ID
		_ = json.Unmarshal(raw, p)
		p.ID = id
	})
	s.documentResult(w, doc, err)
}

func (s *Server) handleRemoveProject(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ws.Store.RemoveProject(r.Context(), r.PathValue("id"))
	s.documentResult(w, doc, err)
}

func (s *Server) handleAddSkillCategory(w http.ResponseWriter, r *http.Request) {
	var req SkillCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		s.failure(w, err)
		return
	}
	id, err := s.ws.Store.AddSkillCategory(r.Context(), req.Name)
	s.created(w, id, err)
}

func (s *Server) handleRemoveSkillCategory(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ws.Store.RemoveSkillCategory(r.Context(), r.PathValue("id"))
	s.documentResult(w, doc, err)
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	var req SkillRequest
	if err := decodeBody(r, &req); err != nil {
		s.failure(w, err)
		return
	}
	added, err := s.ws.Store.AddSkill(r.Context(), r.PathValue("id"), req.Skill)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SkillAddedResponse{Added: added, Document: s.ws.Store.Snapshot()})
}

func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ws.Store.RemoveSkill(r.Context(), r.PathValue("id"), r.PathValue("skill"))
	s.documentResult(w, doc, err)
}
