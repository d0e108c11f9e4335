package rendering

import (
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"sync"

	"github.com/jonathan/resume-forge/internal/types"
)

// Page dimensions of an A4 sheet at 96 CSS px per inch
const (
	PageWidthPx  = 794
	PageHeightPx = 1123
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	pageTemplate     *template.Template
	pageTemplateErr  error
	pageTemplateOnce sync.Once
)

func loadTemplates() (*template.Template, error) {
	pageTemplateOnce.Do(func() {
		pageTemplate, pageTemplateErr = template.New("resume").
			Funcs(template.FuncMap{"join": strings.Join}).
			ParseFS(templateFS, "templates/*.tmpl")
		if pageTemplateErr != nil {
			pageTemplateErr = &TemplateError{Message: "failed to parse page templates", Cause: pageTemplateErr}
		}
	})
	return pageTemplate, pageTemplateErr
}

// page is the view handed to the HTML templates
type page struct {
	*Layout
	TemplateName string
	StyleSheet   template.CSS
	FontURL      string
	Main         []Section
	Side         []Section
}

// RenderHTML renders layout as a standalone A4-width HTML page. The resume root element
// has id "resume".
func RenderHTML(layout *Layout) (string, error) {
	if layout == nil {
		return "", &RenderError{Message: "layout is required"}
	}
	tmpl, err := loadTemplates()
	if err != nil {
		return "", err
	}

	view := page{
		Layout:       layout,
		TemplateName: string(layout.Template),
		StyleSheet:   styleSheet(layout),
		FontURL:      safeFontURL(layout.Font.URL),
	}
	for _, s := range layout.Sections {
		if s.Column == ColumnSide {
			view.Side = append(view.Side, s)
		} else {
			view.Main = append(view.Main, s)
		}
	}

	var out strings.Builder
	if err := tmpl.ExecuteTemplate(&out, "page", view); err != nil {
		return "", &TemplateError{Message: "failed to execute page template", Cause: err}
	}
	return out.String(), nil
}

// RenderDocument renders doc with its own design settings.
func RenderDocument(doc *types.ResumeDocument) (*Layout, string, error) {
	layout := LayoutFor(doc)
	html, err := RenderHTML(layout)
	return layout, html, err
}

var (
	cssColor  = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|rgba?\([0-9., ]+\))$`)
	cssFamily = regexp.MustCompile(`^[A-Za-z0-9 ,'"\-]+$`)
)

// cssValue returns v when it matches pattern, otherwise fallback. Style values come from
// user input and are written into the stylesheet unescaped.
func cssValue(v string, pattern *regexp.Regexp, fallback string) string {
	if pattern.MatchString(strings.TrimSpace(v)) {
		return strings.TrimSpace(v)
	}
	return fallback
}

func safeFontURL(u string) string {
	if strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://") {
		return u
	}
	return ""
}

func styleSheet(l *Layout) template.CSS {
	p := l.Palette
	bg := cssValue(p.Background, cssColor, types.DefaultBackgroundColor)
	accent := cssValue(p.Accent, cssColor, types.DefaultThemeColor)
	heading := cssValue(p.Heading, cssColor, accent)
	primary := cssValue(p.TextPrimary, cssColor, "#0f172a")
	secondary := cssValue(p.TextSecondary, cssColor, "#475569")
	border := cssValue(p.Border, cssColor, "#cbd5e1")
	family := cssValue(l.Font.Value, cssFamily, types.DefaultFontFamily)

	var sb strings.Builder
	fmt.Fprintf(&sb, "body{margin:0;background:%s;}", bg)
	fmt.Fprintf(&sb, "#resume{box-sizing:border-box;width:%dpx;min-height:%dpx;padding:40px;background-color:%s;color:%s;font-family:%s;font-size:12px;line-height:1.4;}",
		PageWidthPx, PageHeightPx, bg, primary, family)
	fmt.Fprintf(&sb, "#resume .name,#resume .section-title{color:%s;}", heading)
	fmt.Fprintf(&sb, "#resume .accent{color:%s;}#resume .muted{color:%s;}", accent, secondary)
	fmt.Fprintf(&sb, "#resume .section-title{font-size:11px;text-transform:uppercase;letter-spacing:0.2em;border-bottom:1px solid %s;padding-bottom:4px;margin:18px 0 8px;}", border)
	sb.WriteString("#resume .name{font-size:26px;margin:0 0 4px;}#resume .job-title{margin:0 0 8px;font-weight:700;text-transform:uppercase;letter-spacing:0.1em;}")
	sb.WriteString("#resume .header{display:flex;gap:20px;align-items:center;}#resume .photo{width:64px;height:64px;border-radius:50%;object-fit:cover;}")
	sb.WriteString("#resume ul.contacts,#resume ul.links{list-style:none;padding:0;margin:2px 0;display:flex;flex-wrap:wrap;gap:14px;font-size:10px;}")
	sb.WriteString("#resume .entry{margin-bottom:12px;}#resume .entry-head,#resume .entry-sub{display:flex;justify-content:space-between;gap:8px;}")
	sb.WriteString("#resume .entry-title{font-weight:700;}#resume .entry-subtitle{font-style:italic;font-weight:600;}#resume .entry-detail,#resume .entry-link{font-size:10px;}")
	sb.WriteString("#resume ul.bullets{margin:4px 0 0 16px;padding:0;}#resume dl.skills{display:grid;grid-template-columns:140px 1fr;gap:4px 10px;margin:0;}#resume dl.skills dt{font-weight:700;}#resume dl.skills dd{margin:0;}")
	sb.WriteString("#resume a{color:inherit;text-decoration:none;}")

	switch l.Template {
	case types.TemplateModern:
		fmt.Fprintf(&sb, "#resume .columns{display:grid;grid-template-columns:2fr 1fr;gap:28px;}#resume .header{border-bottom:4px solid %s;padding-bottom:16px;}", accent)
	case types.TemplateCreative:
		fmt.Fprintf(&sb, "#resume{padding:0;}#resume .columns{display:grid;grid-template-columns:250px 1fr;min-height:%dpx;}#resume .sidebar{padding:32px 22px;border-right:2px solid %s;}#resume .column-main{padding:32px 28px;}#resume .header{flex-direction:column;align-items:flex-start;}",
			PageHeightPx, accent)
	case types.TemplateMinimal:
		sb.WriteString("#resume{font-family:Georgia,'Times New Roman',serif;}#resume .centered .header{justify-content:center;text-align:center;}#resume .centered ul.contacts,#resume .centered ul.links{justify-content:center;}")
		if family != types.DefaultFontFamily {
			fmt.Fprintf(&sb, "#resume{font-family:%s;}", family)
		}
	default:
		fmt.Fprintf(&sb, "#resume .header{border-bottom:2px solid %s;padding-bottom:14px;}", accent)
	}

	return template.CSS(sb.String())
}
