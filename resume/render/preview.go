package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"resume-builder/resume/layout"
	"resume-builder/resume/templates"
)

//go:embed preview.tmpl
var previewSource string

var previewTmpl = template.Must(template.New("preview").Funcs(template.FuncMap{
	"contactLabel": contactLabel,
	"paragraphs":   paragraphs,
	"withStyle":    withStyle,
	"join":         func(items []string) string { return strings.Join(items, " • ") },
}).Parse(previewSource))

type previewData struct {
	View
	ID      templates.ID
	CSS     template.CSS
	Picture template.URL
	Font    template.CSS
}

// Preview renders the draft as a standalone HTML page.
func Preview(req Request) (string, error) {
	v := NewView(req)
	data := previewData{
		View: v,
		ID:   v.Template.ID(),
		CSS:  paletteCSS(v.Palette),
		Font: "Helvetica, Arial, sans-serif",
	}
	if v.Style.Serif {
		data.Font = "Georgia, 'Times New Roman', serif"
	}
	if _, _, ok := decodePicture(v.Header.Picture); ok {
		data.Picture = template.URL(strings.TrimSpace(v.Header.Picture))
	}
	var buf bytes.Buffer
	if err := previewTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return buf.String(), nil
}

// paletteCSS emits CSS custom properties. Colors were validated by Merge.
func paletteCSS(p templates.Palette) template.CSS {
	return template.CSS(fmt.Sprintf(
		":root{--primary:%s;--secondary:%s;--accent:%s;--text:%s;--text-secondary:%s}",
		p.Primary, p.Secondary, p.Accent, p.Text, p.TextSecondary,
	))
}

type styledBlock struct {
	Block
	Style   templates.Style
	Badges  bool
	Bullets bool
}

func withStyle(b Block, style templates.Style) styledBlock {
	return styledBlock{
		Block:   b,
		Style:   style,
		Badges:  style.Skills == templates.SkillBadges,
		Bullets: style.Skills == templates.SkillBullets,
	}
}

func contactLabel(k layout.ContactKind) string {
	switch k {
	case layout.ContactEmail:
		return "Email"
	case layout.ContactPhone:
		return "Phone"
	case layout.ContactLocation:
		return "Location"
	case layout.ContactLinkedIn:
		return "LinkedIn"
	case layout.ContactWebsite:
		return "Website"
	}
	return ""
}

func paragraphs(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
