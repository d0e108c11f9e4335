package document

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonathan/resume-forge/internal/types"
)

// DefaultCategoryName is used when a skill is added to a document with no categories
const DefaultCategoryName = "Professional Skills"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Design holds the visual settings edited on the preview screen
type Design struct {
	TemplateID      types.TemplateID `json:"template_id"`
	ThemeColor      string           `json:"theme_color"`
	BackgroundColor string           `json:"background_color"`
	FontFamily      string           `json:"font_family"`
	CustomFontURL   string           `json:"custom_font_url"`
}

// Start records the purpose and mode chosen on the welcome step.
func (s *Store) Start(ctx context.Context, purpose types.Purpose, manual bool) (*types.ResumeDocument, error) {
	if !purpose.Valid() {
		return nil, &ValidationError{Field: "purpose", Message: "unknown purpose " + string(purpose)}
	}
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		doc.Purpose = purpose
		doc.IsManualMode = manual
		return nil
	})
}

// SetPersonalInfo replaces the personal info block.
func (s *Store) SetPersonalInfo(ctx context.Context, info types.PersonalInfo) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		doc.PersonalInfo = info
		return nil
	})
}

// PatchPersonalInfo applies patch to the current personal info under the store lock, so
// fields it leaves alone keep any concurrent change. A patch error aborts the update.
func (s *Store) PatchPersonalInfo(ctx context.Context, patch func(info *types.PersonalInfo) error) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		return patch(&doc.PersonalInfo)
	})
}

// SetTargetJobDescription updates the context step.
func (s *Store) SetTargetJobDescription(ctx context.Context, text string) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		doc.TargetJobDescription = text
		return nil
	})
}

// SetSummary updates the summary.
func (s *Store) SetSummary(ctx context.Context, text string) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		doc.Summary = text
		return nil
	})
}

// SetDesign updates template, colors and font. Empty fields keep their current value.
func (s *Store) SetDesign(ctx context.Context, d Design) (*types.ResumeDocument, error) {
	if d.TemplateID != "" && !d.TemplateID.Valid() {
		return nil, &ValidationError{Field: "template_id", Message: "unknown template " + string(d.TemplateID)}
	}
	if d.ThemeColor != "" && !hexColor.MatchString(d.ThemeColor) {
		return nil, &ValidationError{Field: "theme_color", Message: "must be #rrggbb"}
	}
	if d.BackgroundColor != "" && !hexColor.MatchString(d.BackgroundColor) {
		return nil, &ValidationError{Field: "background_color", Message: "must be #rrggbb"}
	}
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		if d.TemplateID != "" {
			doc.TemplateID = d.TemplateID
		}
		if d.ThemeColor != "" {
			doc.ThemeColor = d.ThemeColor
		}
		if d.BackgroundColor != "" {
			doc.BackgroundColor = d.BackgroundColor
		}
		if d.FontFamily != "" {
			doc.FontFamily = d.FontFamily
		}
		doc.CustomFontURL = strings.TrimSpace(d.CustomFontURL)
		return nil
	})
}

// Replace swaps in a whole document, assigning ids to entities that lack one.
func (s *Store) Replace(ctx context.Context, next *types.ResumeDocument) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		*doc = *next.Clone()
		normalize(doc)
		ensureIDs(doc, s.ids)
		return nil
	})
}

// Reset returns the document to its defaults.
func (s *Store) Reset(ctx context.Context) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		*doc = *Default(s.ids)
		return nil
	})
}

// AddExperience appends a blank experience entry and returns its id.
func (s *Store) AddExperience(ctx context.Context) (string, error) {
	id := s.ids.NewID()
	_, err := s.Update(ctx, func(doc *types.ResumeDocument) error {
		doc.Experience = append(doc.Experience, types.Experience{ID: id, Description: []string{""}})
		return nil
	})
	return id, err
}

// UpdateExperience applies fn to the entry with id. The id itself cannot change.
func (s *Store) UpdateExperience(ctx context.Context, id string, fn func(e *types.Experience)) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		i := doc.FindExperience(id)
		if i < 0 {
			return &NotFoundError{Kind: "experience", ID: id}
		}
		fn(&doc.Experience[i])
		doc.Experience[i].ID = id
		return nil
	})
}

// RemoveExperience deletes the entry with id.
func (s *Store) RemoveExperience(ctx context.Context, id string) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		i := doc.FindExperience(id)
		if i < 0 {
			return &NotFoundError{Kind: "experience", ID: id}
		}
		doc.Experience = append(doc.Experience[:i], doc.Experience[i+1:]...)
		return nil
	})
}

// AddEducation appends a blank education entry and returns its id.
func (s *Store) AddEducation(ctx context.Context) (string, error) {
	id := s.ids.NewID()
	_, err := s.Update(ctx, func(doc *types.ResumeDocument) error {
		doc.Education = append(doc.Education, types.Education{ID: id})
		return nil
	})
	return id, err
}

// UpdateEducation applies fn to the entry with id.
func (s *Store) UpdateEducation(ctx context.Context, id string, fn func(e *types.Education)) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		i := doc.FindEducation(id)
		if i < 0 {
			return &NotFoundError{Kind: "education", ID: id}
		}
		fn(&doc.Education[i])
		doc.Education[i].ID = id
		return nil
	})
}

// RemoveEducation deletes the entry with id.
func (s *Store) RemoveEducation(ctx context.Context, id string) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		i := doc.FindEducation(id)
		if i < 0 {
			return &NotFoundError{Kind: "education", ID: id}
		}
		doc.Education = append(doc.Education[:i], doc.Education[i+1:]...)
		return nil
	})
}

// AddProject appends a blank project and returns its id.
func (s *Store) AddProject(ctx context.Context) (string, error) {
	id := s.ids.NewID()
	_, err := s.Update(ctx, func(doc *types.ResumeDocument) error {
		doc.Projects = append(doc.Projects, types.Project{ID: id, Description: []string{""}, TechStack: []string{}})
		return nil
	})
	return id, err
}

// UpdateProject applies fn to the project with id.
func (s *Store) UpdateProject(ctx context.Context, id string, fn func(p *types.Project)) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		i := doc.FindProject(id)
		if i < 0 {
			return &NotFoundError{Kind: "project", ID: id}
		}
		fn(&doc.Projects[i])
		doc.Projects[i].ID = id
		return nil
	})
}

// RemoveProject deletes the project with id.
func (s *Store) RemoveProject(ctx context.Context, id string) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		i := doc.FindProject(id)
		if i < 0 {
			return &NotFoundError{Kind: "project", ID: id}
		}
		doc.Projects = append(doc.Projects[:i], doc.Projects[i+1:]...)
		return nil
	})
}

// AddSkillCategory appends an empty category. Names need not be unique.
func (s *Store) AddSkillCategory(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "name", Message: "category name is required"}
	}
	id := s.ids.NewID()
	_, err := s.Update(ctx, func(doc *types.ResumeDocument) error {
		doc.Skills = append(doc.Skills, types.SkillCategory{ID: id, Name: name, Skills: []string{}})
		return nil
	})
	return id, err
}

// RemoveSkillCategory deletes the category with id and its tags.
func (s *Store) RemoveSkillCategory(ctx context.Context, id string) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		i := doc.FindSkillCategory(id)
		if i < 0 {
			return &NotFoundError{Kind: "skill category", ID: id}
		}
		doc.Skills = append(doc.Skills[:i], doc.Skills[i+1:]...)
		return nil
	})
}

// AddSkill adds tag to the category with id. It reports false, leaving the document
// untouched, when the tag is blank or already present anywhere in the document.
func (s *Store) AddSkill(ctx context.Context, categoryID, tag string) (bool, error) {
	added := false
	_, err := s.Update(ctx, func(doc *types.ResumeDocument) error {
		i := doc.FindSkillCategory(categoryID)
		if i < 0 {
			return &NotFoundError{Kind: "skill category", ID: categoryID}
		}
		added = AddSkillTag(doc, i, tag)
		return nil
	})
	return added, err
}

// AddSkillToFirstCategory adds tag to the first category, creating the default
// category when there is none.
func (s *Store) AddSkillToFirstCategory(ctx context.Context, tag string) (bool, error) {
	added := false
	_, err := s.Update(ctx, func(doc *types.ResumeDocument) error {
		if strings.TrimSpace(tag) == "" || HasSkill(doc, tag) {
			return nil
		}
		if len(doc.Skills) == 0 {
			doc.Skills = append(doc.Skills, types.SkillCategory{ID: s.ids.NewID(), Name: DefaultCategoryName, Skills: []string{}})
		}
		added = AddSkillTag(doc, 0, tag)
		return nil
	})
	return added, err
}

// RemoveSkill removes every exact occurrence of tag from the category with id.
func (s *Store) RemoveSkill(ctx context.Context, categoryID, tag string) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		i := doc.FindSkillCategory(categoryID)
		if i < 0 {
			return &NotFoundError{Kind: "skill category", ID: categoryID}
		}
		kept := doc.Skills[i].Skills[:0]
		for _, sk := range doc.Skills[i].Skills {
			if sk != tag {
				kept = append(kept, sk)
			}
		}
		doc.Skills[i].Skills = kept
		return nil
	})
}

// HasSkill reports whether tag exists in any category, ignoring case and surrounding space.
func HasSkill(doc *types.ResumeDocument, tag string) bool {
	want := strings.ToLower(strings.TrimSpace(tag))
	for _, c := range doc.Skills {
		for _, sk := range c.Skills {
			if strings.ToLower(strings.TrimSpace(sk)) == want {
				return true
			}
		}
	}
	return false
}

// AddSkillTag appends the trimmed tag to category index i unless it is blank or a duplicate.
func AddSkillTag(doc *types.ResumeDocument, i int, tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || HasSkill(doc, tag) {
		return false
	}
	doc.Skills[i].Skills = append(doc.Skills[i].Skills, tag)
	return true
}

// ensureIDs gives every list entity a non-empty id that is unique within its list
func ensureIDs(doc *types.ResumeDocument, ids IDGenerator) {
	seen := make(map[string]bool)
	fresh := func(id string) string {
		if id == "" || seen[id] {
			id = ids.NewID()
		}
		seen[id] = true
		return id
	}
	for i := range doc.Experience {
		doc.Experience[i].ID = fresh(doc.Experience[i].ID)
	}
	for i := range doc.Education {
		doc.Education[i].ID = fresh(doc.Education[i].ID)
	}
	for i := range doc.Projects {
		doc.Projects[i].ID = fresh(doc.Projects[i].ID)
	}
	for i := range doc.Skills {
		doc.Skills[i].ID = fresh(doc.Skills[i].ID)
	}
}
