// Package render turns a resume draft into the live HTML preview and into
// PDF bytes.
package render

import (
	"encoding/base64"
	"regexp"
	"strings"

	"resume-builder/resume/layout"
	"resume-builder/resume/model"
	"resume-builder/resume/templates"
)

// Request is one render of a draft with a template and palette.
type Request struct {
	Draft    model.ResumeDraft
	Template templates.ID
	Palette  templates.Palette
}

// Block is a section placed in a column, with its template heading.
type Block struct {
	layout.Section
	Title string
	// Pair is set on the first block of a two-column row and holds the second.
	Pair *Block
}

// View is what both renderers draw.
type View struct {
	Template templates.Template
	Style    templates.Style
	Palette  templates.Palette
	Header   layout.Header
	Main     []Block
	Sidebar  []Block
}

// NewView resolves the template and palette and arranges present sections.
func NewView(req Request) View {
	tpl := templates.Resolve(req.Template)
	style := tpl.Style()
	palette := tpl.DefaultPalette().Merge(req.Palette)
	doc := layout.Build(req.Draft)

	v := View{Template: tpl, Style: style, Palette: palette, Header: doc.Header}
	place := func(kinds []layout.Kind) []Block {
		var out []Block
		for i := 0; i < len(kinds); i++ {
			s, ok := doc.Section(kinds[i])
			if !ok {
				continue
			}
			b := Block{Section: s, Title: titleFor(style, s.Kind)}
			if kinds[i] == style.Paired[0] && i+1 < len(kinds) && kinds[i+1] == style.Paired[1] {
				if second, ok := doc.Section(kinds[i+1]); ok {
					b.Pair = &Block{Section: second, Title: titleFor(style, second.Kind)}
				}
				i++
			}
			out = append(out, b)
		}
		return out
	}
	v.Main = place(style.Order)
	v.Sidebar = place(style.Sidebar)
	return v
}

func titleFor(style templates.Style, k layout.Kind) string {
	t := style.Title(k)
	if style.UppercaseTitles {
		return strings.ToUpper(t)
	}
	return t
}

var pictureDataURL = regexp.MustCompile(`^data:image/(png|jpeg|jpg|gif);base64,([A-Za-z0-9+/=\s]+)$`)

// decodePicture returns the image type and bytes of a data URL picture.
func decodePicture(raw string) (string, []byte, bool) {
	m := pictureDataURL.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", nil, false
	}
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(m[2]), ""))
	if err != nil || len(data) == 0 {
		return "", nil, false
	}
	kind := m[1]
	if kind == "jpeg" {
		kind = "jpg"
	}
	return kind, data, true
}
