// Package rendering turns a resume document into a template-specific layout and the
// printable HTML page used for preview and export.
package rendering

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-forge/internal/types"
)

// SectionKind identifies the content of a section
type SectionKind string

// Section kinds
const (
	SectionSummary        SectionKind = "summary"
	SectionExperience     SectionKind = "experience"
	SectionEducation      SectionKind = "education"
	SectionProjects       SectionKind = "projects"
	SectionSkills         SectionKind = "skills"
	SectionCertifications SectionKind = "certifications"
	SectionAchievements   SectionKind = "achievements"
)

// Column places a section in two-column variants
type Column string

// Columns
const (
	ColumnMain Column = "main"
	ColumnSide Column = "side"
)

// Link is a displayable URL. Href keeps the original value.
type Link struct {
	Display string `json:"display"`
	Href    string `json:"href"`
}

// Header is the name block at the top of the page
type Header struct {
	Name     string   `json:"name"`
	JobTitle string   `json:"job_title,omitempty"`
	PhotoURL string   `json:"photo_url,omitempty"`
	Contacts []string `json:"contacts,omitempty"`
	Links    []Link   `json:"links,omitempty"`
}

// Entry is one experience, education or project item
type Entry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Location string   `json:"location,omitempty"`
	Dates    string   `json:"dates,omitempty"`
	Detail   string   `json:"detail,omitempty"`
	Link     *Link    `json:"link,omitempty"`
	Bullets  []string `json:"bullets,omitempty"`
}

// SkillGroup is one rendered skill category
type SkillGroup struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// Section is a titled block of the page. Only the fields of its kind are set.
type Section struct {
	Kind    SectionKind  `json:"kind"`
	Title   string       `json:"title"`
	Column  Column       `json:"column"`
	Text    string       `json:"text,omitempty"`
	Entries []Entry      `json:"entries,omitempty"`
	Skills  []SkillGroup `json:"skills,omitempty"`
	Items   []string     `json:"items,omitempty"`
}

// Palette holds the resolved colors of the page
type Palette struct {
	Background    string `json:"background"`
	Accent        string `json:"accent"`
	Heading       string `json:"heading"`
	TextPrimary   string `json:"text_primary"`
	TextSecondary string `json:"text_secondary"`
	Border        string `json:"border"`
}

// Layout is the renderer-independent description of one resume page
type Layout struct {
	Template types.TemplateID `json:"template"`
	IsDark   bool             `json:"is_dark"`
	Palette  Palette          `json:"palette"`
	Font     Font             `json:"font"`
	Header   Header           `json:"header"`
	Sections []Section        `json:"sections"`
}

// HasSection reports whether the layout contains a section of kind.
func (l *Layout) HasSection(kind SectionKind) bool {
	return l.Section(kind) != nil
}

// Section returns the section of kind, or nil when it is suppressed.
func (l *Layout) Section(kind SectionKind) *Section {
	for i := range l.Sections {
		if l.Sections[i].Kind == kind {
			return &l.Sections[i]
		}
	}
	return nil
}

// variant describes how one template orders, titles and decorates sections
type variant struct {
	order     []SectionKind
	titles    map[SectionKind]string
	side      map[SectionKind]bool
	techSep   string
	techLimit int
}

var commonTitles = map[SectionKind]string{
	SectionExperience:     "Experience",
	SectionEducation:      "Education",
	SectionProjects:       "Projects",
	SectionSkills:         "Skills",
	SectionCertifications: "Certifications",
	SectionAchievements:   "Achievements",
}

func titles(summary string) map[SectionKind]string {
	out := map[SectionKind]string{SectionSummary: summary}
	for k, v := range commonTitles {
		out[k] = v
	}
	return out
}

var variants = map[types.TemplateID]variant{
	types.TemplateExecutive: {
		order:   []SectionKind{SectionSummary, SectionExperience, SectionEducation, SectionProjects, SectionSkills, SectionCertifications, SectionAchievements},
		titles:  titles("Professional Summary"),
		techSep: " | ",
	},
	types.TemplateModern: {
		order:     []SectionKind{SectionSummary, SectionExperience, SectionProjects, SectionEducation, SectionSkills, SectionCertifications, SectionAchievements},
		titles:    titles("Profile"),
		side:      map[SectionKind]bool{SectionEducation: true, SectionSkills: true, SectionCertifications: true},
		techSep:   " • ",
		techLimit: 4,
	},
	types.TemplateCreative: {
		order:   []SectionKind{SectionSummary, SectionExperience, SectionProjects, SectionEducation, SectionSkills, SectionCertifications, SectionAchievements},
		titles:  titles("Profile"),
		side:    map[SectionKind]bool{SectionEducation: true, SectionSkills: true, SectionCertifications: true, SectionAchievements: true},
		techSep: " // ",
	},
	types.TemplateMinimal: {
		order:   []SectionKind{SectionSummary, SectionEducation, SectionExperience, SectionProjects, SectionSkills, SectionCertifications, SectionAchievements},
		titles:  titles("Summary"),
		techSep: ", ",
	},
}

// Render builds the layout of doc for templateID. Unknown template ids use the default
// variant. Empty sections are left out.
func Render(doc *types.ResumeDocument, templateID types.TemplateID, isDark bool) *Layout {
	v, ok := variants[templateID]
	if !ok {
		templateID = types.DefaultTemplate
		v = variants[templateID]
	}

	layout := &Layout{
		Template: templateID,
		IsDark:   isDark,
		Palette:  palette(doc, isDark),
		Font:     ResolveFont(doc.FontFamily, doc.CustomFontURL),
		Header:   header(doc.PersonalInfo),
		Sections: []Section{},
	}

	for _, kind := range v.order {
		s := Section{Kind: kind, Title: v.titles[kind], Column: ColumnMain}
		if v.side[kind] {
			s.Column = ColumnSide
		}
		if fill(&s, doc, v) {
			layout.Sections = append(layout.Sections, s)
		}
	}
	return layout
}

// LayoutFor renders doc with its own template and background.
func LayoutFor(doc *types.ResumeDocument) *Layout {
	return Render(doc, doc.TemplateID, IsDarkBackground(doc.BackgroundColor))
}

// fill populates s from doc and reports whether it has any content
func fill(s *Section, doc *types.ResumeDocument, v variant) bool {
	switch s.Kind {
	case SectionSummary:
		s.Text = strings.TrimSpace(doc.Summary)
		return s.Text != ""

	case SectionExperience:
		for _, e := range doc.Experience {
			s.Entries = append(s.Entries, Entry{
				ID:       e.ID,
				Title:    e.Company,
				Subtitle: e.Role,
				Location: e.Location,
				Dates:    DateRange(e.StartDate, e.EndDate, e.IsCurrent),
				Bullets:  nonBlank(e.Description),
			})
		}
		return len(s.Entries) > 0

	case SectionEducation:
		for _, e := range doc.Education {
			degree := e.Degree
			if e.FieldOfStudy != "" {
				degree = strings.TrimSpace(degree + " in " + e.FieldOfStudy)
			}
			entry := Entry{
				ID:       e.ID,
				Title:    e.Institution,
				Subtitle: degree,
				Location: e.Location,
				Dates:    e.GraduationDate,
			}
			if e.GPA != "" {
				entry.Detail = "GPA: " + e.GPA
			}
			s.Entries = append(s.Entries, entry)
		}
		return len(s.Entries) > 0

	case SectionProjects:
		for _, p := range doc.Projects {
			entry := Entry{
				ID:      p.ID,
				Title:   p.Name,
				Detail:  techStack(p.TechStack, v.techSep, v.techLimit),
				Bullets: nonBlank(p.Description),
			}
			if p.Link != "" {
				entry.Link = &Link{Display: FormatURL(p.Link), Href: p.Link}
			}
			s.Entries = append(s.Entries, entry)
		}
		return len(s.Entries) > 0

	case SectionSkills:
		for _, c := range doc.Skills {
			if skills := nonBlank(c.Skills); len(skills) > 0 {
				s.Skills = append(s.Skills, SkillGroup{Name: c.Name, Skills: skills})
			}
		}
		return len(s.Skills) > 0

	case SectionCertifications:
		s.Items = nonBlank(doc.Certifications)
		return len(s.Items) > 0

	case SectionAchievements:
		s.Items = nonBlank(doc.Achievements)
		return len(s.Items) > 0
	}
	return false
}

func header(p types.PersonalInfo) Header {
	h := Header{
		Name:     p.FullName,
		JobTitle: p.JobTitle,
		PhotoURL: p.PhotoURL,
		Contacts: nonBlank([]string{p.Location, p.Phone, p.Email}),
	}
	for _, raw := range []string{p.LinkedIn, p.GitHub, p.Portfolio} {
		if strings.TrimSpace(raw) != "" {
			h.Links = append(h.Links, Link{Display: FormatURL(raw), Href: raw})
		}
	}
	return h
}

func palette(doc *types.ResumeDocument, isDark bool) Palette {
	accent := doc.ThemeColor
	if accent == "" {
		accent = types.DefaultThemeColor
	}
	background := doc.BackgroundColor
	if background == "" {
		background = types.DefaultBackgroundColor
	}

	if isDark {
		return Palette{
			Background:    background,
			Accent:        accent,
			Heading:       "#ffffff",
			TextPrimary:   "#ffffff",
			TextSecondary: "#cbd5e1",
			Border:        "rgba(255, 255, 255, 0.2)",
		}
	}
	return Palette{
		Background:    background,
		Accent:        accent,
		Heading:       accent,
		TextPrimary:   "#0f172a",
		TextSecondary: "#475569",
		Border:        "#cbd5e1",
	}
}

// DateRange formats an entry's dates verbatim. A current entry without an end date
// ends at "Present".
func DateRange(start, end string, current bool) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if current && end == "" {
		end = "Present"
	}
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}

var (
	urlScheme   = regexp.MustCompile(`^https?://`)
	urlWWW      = regexp.MustCompile(`^www\.`)
	urlTrailing = regexp.MustCompile(`/$`)
)

// FormatURL returns the display form of a URL: no scheme, no leading "www." and no
// trailing slash.
func FormatURL(raw string) string {
	s := urlScheme.ReplaceAllString(raw, "")
	s = urlWWW.ReplaceAllString(s, "")
	return urlTrailing.ReplaceAllString(s, "")
}

func techStack(stack []string, sep string, limit int) string {
	stack = nonBlank(stack)
	if limit > 0 && len(stack) > limit {
		stack = stack[:limit]
	}
	return strings.Join(stack, sep)
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
