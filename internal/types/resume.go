// Package types provides type definitions for structured data used throughout the resume-forge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Purpose describes why the user is building the resume. It drives prompt tone only.
type Purpose string

// Purpose values accepted by the wizard
const (
	PurposeFirstJob     Purpose = "first-job"
	PurposeCareerSwitch Purpose = "career-switch"
	PurposeInternship   Purpose = "internship"
	PurposeExperienced  Purpose = "experienced"
)

// Label returns the human-readable purpose used in prompts.
func (p Purpose) Label() string {
	switch p {
	case PurposeCareerSwitch:
		return "Career Switch"
	case PurposeInternship:
		return "Internship"
	case PurposeExperienced:
		return "Experienced Professional"
	default:
		return "Entry Level Job"
	}
}

// Valid reports whether p is one of the known purposes.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeFirstJob, PurposeCareerSwitch, PurposeInternship, PurposeExperienced:
		return true
	}
	return false
}

// TemplateID selects one of the visual template variants.
type TemplateID string

// Template variants
const (
	TemplateModern    TemplateID = "modern"
	TemplateMinimal   TemplateID = "minimal"
	TemplateExecutive TemplateID = "executive"
	TemplateCreative  TemplateID = "creative"
)

// TemplateIDs lists all variants in display order.
var TemplateIDs = []TemplateID{TemplateModern, TemplateMinimal, TemplateExecutive, TemplateCreative}

// Valid reports whether t names a known template variant.
func (t TemplateID) Valid() bool {
	for _, id := range TemplateIDs {
		if id == t {
			return true
		}
	}
	return false
}

// Defaults applied to a freshly created document
const (
	DefaultThemeColor      = "#0ea5e9"
	DefaultBackgroundColor = "#ffffff"
	DefaultFontFamily      = "sans-serif"
	DefaultTemplate        = TemplateModern
)

// PersonalInfo holds contact and identity fields
type PersonalInfo struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Portfolio string `json:"portfolio"`
	JobTitle  string `json:"job_title"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// Experience is one work history entry
type Experience struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	Location    string   `json:"location"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	IsCurrent   bool     `json:"is_current"`
	Description []string `json:"description"`
}

// Education is one education entry
type Education struct {
	ID             string `json:"id"`
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	FieldOfStudy   string `json:"field_of_study"`
	Location       string `json:"location"`
	GraduationDate string `json:"graduation_date"`
	GPA            string `json:"gpa,omitempty"`
}

// Project is one portfolio project entry
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Link        string   `json:"link,omitempty"`
	Description []string `json:"description"`
	TechStack   []string `json:"tech_stack"`
}

// SkillCategory groups skill tags under a heading
type SkillCategory struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// Score is the AI assessment written wholesale by full-document analysis
type Score struct {
	ATS         int      `json:"ats"`
	Readability int      `json:"readability"`
	Depth       int      `json:"depth"`
	Feedback    []string `json:"feedback"`
}

// ResumeDocument is the single in-memory document the wizard edits
type ResumeDocument struct {
	Purpose              Purpose         `json:"purpose"`
	TargetJobDescription string          `json:"target_job_description"`
	PersonalInfo         PersonalInfo    `json:"personal_info"`
	Summary              string          `json:"summary"`
	Experience           []Experience    `json:"experience"`
	Education            []Education     `json:"education"`
	Projects             []Project       `json:"projects"`
	Skills               []SkillCategory `json:"skills"`
	Certifications       []string        `json:"certifications"`
	Achievements         []string        `json:"achievements"`
	ThemeColor           string          `json:"theme_color"`
	BackgroundColor      string          `json:"background_color"`
	TemplateID           TemplateID      `json:"template_id"`
	FontFamily           string          `json:"font_family"`
	CustomFontURL        string          `json:"custom_font_url,omitempty"`
	IsManualMode         bool            `json:"is_manual_mode"`
	Score                Score           `json:"score"`
}

// Clone returns a deep copy of the document. Slices are never shared with the receiver.
func (d *ResumeDocument) Clone() *ResumeDocument {
	if d == nil {
		return nil
	}
	out := *d
	out.Experience = make([]Experience, len(d.Experience))
	for i, e := range d.Experience {
		e.Description = cloneStrings(e.Description)
		out.Experience[i] = e
	}
	out.Education = append([]Education{}, d.Education...)
	out.Projects = make([]Project, len(d.Projects))
	for i, p := range d.Projects {
		p.Description = cloneStrings(p.Description)
		p.TechStack = cloneStrings(p.TechStack)
		out.Projects[i] = p
	}
	out.Skills = make([]SkillCategory, len(d.Skills))
	for i, c := range d.Skills {
		c.Skills = cloneStrings(c.Skills)
		out.Skills[i] = c
	}
	out.Certifications = cloneStrings(d.Certifications)
	out.Achievements = cloneStrings(d.Achievements)
	out.Score.Feedback = cloneStrings(d.Score.Feedback)
	return &out
}

// FindExperience returns the index of the experience entry with id, or -1.
func (d *ResumeDocument) FindExperience(id string) int {
	for i := range d.Experience {
		if d.Experience[i].ID == id {
			return i
		}
	}
	return -1
}

// FindEducation returns the index of the education entry with id, or -1.
func (d *ResumeDocument) FindEducation(id string) int {
	for i := range d.Education {
		if d.Education[i].ID == id {
			return i
		}
	}
	return -1
}

// FindProject returns the index of the project with id, or -1.
func (d *ResumeDocument) FindProject(id string) int {
	for i := range d.Projects {
		if d.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

// FindSkillCategory returns the index of the skill category with id, or -1.
func (d *ResumeDocument) FindSkillCategory(id string) int {
	for i := range d.Skills {
		if d.Skills[i].ID == id {
			return i
		}
	}
	return -1
}

// AllSkills returns every skill tag in category order.
func (d *ResumeDocument) AllSkills() []string {
	var all []string
	for _, c := range d.Skills {
		all = append(all, c.Skills...)
	}
	return all
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}
