package rendering

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRenderHTML_AllTemplates(t *testing.T) {
	for _, id := range types.TemplateIDs {
		t.Run(string(id), func(t *testing.T) {
			html, err := RenderHTML(Render(fullDocument(), id, false))
			require.NoError(t, err)

			doc := parseHTML(t, html)
			root := doc.Find("#resume")
			require.Equal(t, 1, root.Length())
			assert.True(t, root.HasClass("template-"+string(id)))
			assert.Equal(t, "Ada Lovelace", strings.TrimSpace(root.Find("h1.name").Text()))
			assert.Equal(t, 6, root.Find("section").Length())
			assert.Equal(t, 2, root.Find(`section[data-section="experience"] article.entry`).Length())
		})
	}
}

func TestRenderHTML_SuppressedSectionsAbsent(t *testing.T) {
	doc := fullDocument()
	doc.Summary = ""
	doc.Projects = nil
	doc.Certifications = nil

	html, err := RenderHTML(LayoutFor(doc))
	require.NoError(t, err)

	page := parseHTML(t, html)
	assert.Equal(t, 0, page.Find(`section[data-section="summary"]`).Length())
	assert.Equal(t, 0, page.Find(`section[data-section="projects"]`).Length())
	assert.Equal(t, 1, page.Find(`section[data-section="skills"]`).Length())
}

func TestRenderHTML_Links(t *testing.T) {
	html, err := RenderHTML(Render(fullDocument(), types.TemplateExecutive, false))
	require.NoError(t, err)

	page := parseHTML(t, html)
	link := page.Find("a.entry-link")
	href, _ := link.Attr("href")
	assert.Equal(t, "https://github.com/ada/notes/", href)
	assert.Equal(t, "github.com/ada/notes", link.Text())
}

func TestRenderHTML_EscapesContent(t *testing.T) {
	doc := fullDocument()
	doc.Summary = "<script>alert(1)</script>"
	doc.PersonalInfo.Portfolio = "javascript:alert(1)"

	html, err := RenderHTML(LayoutFor(doc))
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	page := parseHTML(t, html)
	assert.Equal(t, "<script>alert(1)</script>", page.Find("p.summary").Text())
	page.Find("ul.links a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		assert.NotContains(t, href, "javascript:")
	})
}

func TestRenderHTML_StylesAndFont(t *testing.T) {
	doc := fullDocument()
	doc.BackgroundColor = "#0f172a"
	doc.FontFamily = "'Merriweather', serif"

	html, err := RenderHTML(LayoutFor(doc))
	require.NoError(t, err)

	page := parseHTML(t, html)
	assert.True(t, page.Find("#resume").HasClass("is-dark"))

	href, ok := page.Find(`link[rel="stylesheet"]`).Attr("href")
	require.True(t, ok)
	assert.Contains(t, href, "family=Merriweather")

	css := page.Find("style").Text()
	assert.Contains(t, css, "width:794px")
	assert.Contains(t, css, "background-color:#0f172a")
	assert.Contains(t, css, "font-family:'Merriweather', serif")
}

func TestRenderHTML_RejectsUnsafeStyleValues(t *testing.T) {
	l := Render(fullDocument(), types.TemplateExecutive, false)
	l.Palette.Background = "red;}body{display:none"
	l.Font.Value = "x;}</style><script>"

	html, err := RenderHTML(l)
	require.NoError(t, err)
	assert.NotContains(t, html, "display:none")
	assert.NotContains(t, html, "<script>")
}

func TestRenderHTML_NilLayout(t *testing.T) {
	_, err := RenderHTML(nil)
	var rerr *RenderError
	assert.ErrorAs(t, err, &rerr)
}
