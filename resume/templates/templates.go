// Package templates defines the five resume visual variants: their default
// palettes and how each one titles and arranges the layout sections.
package templates

import (
	"strings"

	"resume-builder/resume/layout"
)

// ID names a template.
type ID string

const (
	Modern   ID = "modern"
	Classic  ID = "classic"
	Minimal  ID = "minimal"
	Elegant  ID = "elegant"
	Creative ID = "creative"
)

// Default is used when nothing has been selected.
const Default = Modern

// All returns the template ids in picker order.
func All() []ID {
	return []ID{Modern, Classic, Minimal, Elegant, Creative}
}

// Valid reports whether id names a known template.
func Valid(id ID) bool {
	for _, known := range All() {
		if id == known {
			return true
		}
	}
	return false
}

// Parse normalizes raw into an ID. Unknown values fall back to Modern.
func Parse(raw string) ID {
	id := ID(strings.ToLower(strings.TrimSpace(raw)))
	if Valid(id) {
		return id
	}
	return Default
}

// SkillStyle controls how the skills list is drawn.
type SkillStyle int

const (
	SkillBadges SkillStyle = iota
	SkillInline
	SkillBullets
)

// Style describes how a template arranges the layout.
type Style struct {
	// Titles maps a section kind to its heading. An empty title means the
	// section is drawn without one.
	Titles map[layout.Kind]string
	// Order lists main-column sections top to bottom.
	Order []layout.Kind
	// Sidebar lists sections drawn in a side column, if any.
	Sidebar []layout.Kind
	// Paired sections share a row as two columns.
	Paired [2]layout.Kind

	Serif           bool
	HeaderBand      bool
	CenteredHeader  bool
	UppercaseTitles bool
	ItalicSummary   bool
	Skills          SkillStyle
}

// Title returns the heading for kind k.
func (s Style) Title(k layout.Kind) string {
	return s.Titles[k]
}

// Template is one visual variant.
type Template interface {
	ID() ID
	Name() string
	Description() string
	DefaultPalette() Palette
	Style() Style
	sealed()
}

type base struct{}

func (base) sealed() {}

// Resolve returns the template for id, falling back to Modern.
func Resolve(id ID) Template {
	switch id {
	case Classic:
		return classic{}
	case Minimal:
		return minimal{}
	case Elegant:
		return elegant{}
	case Creative:
		return creative{}
	default:
		return modern{}
	}
}

// Catalog returns every template in picker order.
func Catalog() []Template {
	out := make([]Template, 0, len(All()))
	for _, id := range All() {
		out = append(out, Resolve(id))
	}
	return out
}

var fullOrder = []layout.Kind{
	layout.Summary, layout.Experience, layout.Education, layout.Skills,
	layout.Projects, layout.Certifications, layout.References,
}

type modern struct{ base }

func (modern) ID() ID { return Modern }
func (modern) Name() string { return "Modern" }
func (modern) Description() string { return "Clean design with a colored header band" }
func (modern) DefaultPalette() Palette {
	return Palette{Primary: "#2563eb", Secondary: "#1e40af", Accent: "#dbeafe", Text: "#111827", TextSecondary: "#374151"}
}
func (modern) Style() Style {
	return Style{
		Titles: map[layout.Kind]string{
			layout.Summary:        "Professional Summary",
			layout.Experience:     "Work Experience",
			layout.Education:      "Education",
			layout.Skills:         "Skills",
			layout.Projects:       "Projects",
			layout.Certifications: "Certifications",
			layout.References:     "References",
		},
		Order:      fullOrder,
		HeaderBand: true,
		Skills:     SkillBadges,
	}
}

type classic struct{ base }

func (classic) ID() ID { return Classic }
func (classic) Name() string { return "Classic" }
func (classic) Description() string { return "Traditional serif layout with ruled headings" }
func (classic) DefaultPalette() Palette {
	return Palette{Primary: "#1f2937", Secondary: "#374151", Accent: "#9ca3af", Text: "#111827", TextSecondary: "#374151"}
}
func (classic) Style() Style {
	return Style{
		Titles: map[layout.Kind]string{
			layout.Summary:        "Professional Summary",
			layout.Experience:     "Professional Experience",
			layout.Education:      "Education",
			layout.Skills:         "Skills & Expertise",
			layout.Projects:       "Notable Projects",
			layout.Certifications: "Certifications",
			layout.References:     "References",
		},
		Order:           fullOrder,
		Serif:           true,
		CenteredHeader:  true,
		UppercaseTitles: true,
		Skills:          SkillInline,
	}
}

type minimal struct{ base }

func (minimal) ID() ID { return Minimal }
func (minimal) Name() string { return "Minimal" }
func (minimal) Description() string { return "Whitespace-heavy single column" }
func (minimal) DefaultPalette() Palette {
	return Palette{Primary: "#111827", Secondary: "#4b5563", Accent: "#6b7280", Text: "#111827", TextSecondary: "#374151"}
}
func (minimal) Style() Style {
	return Style{
		Titles: map[layout.Kind]string{
			layout.Summary:        "",
			layout.Experience:     "Experience",
			layout.Education:      "Education",
			layout.Skills:         "Skills",
			layout.Projects:       "Projects",
			layout.Certifications: "Certifications",
			layout.References:     "References",
		},
		Order:           fullOrder,
		UppercaseTitles: true,
		Skills:          SkillInline,
	}
}

type elegant struct{ base }

func (elegant) ID() ID { return Elegant }
func (elegant) Name() string { return "Elegant" }
func (elegant) Description() string { return "Two columns with a contact sidebar" }
func (elegant) DefaultPalette() Palette {
	return Palette{Primary: "#1f2937", Secondary: "#374151", Accent: "#9ca3af", Text: "#111827", TextSecondary: "#374151"}
}
func (elegant) Style() Style {
	return Style{
		Titles: map[layout.Kind]string{
			layout.Summary:        "",
			layout.Experience:     "Experience",
			layout.Education:      "Education",
			layout.Skills:         "Skills",
			layout.Projects:       "Projects",
			layout.Certifications: "Certifications",
			layout.References:     "References",
		},
		Order:         []layout.Kind{layout.Summary, layout.Experience, layout.Education, layout.Projects, layout.References},
		Sidebar:       []layout.Kind{layout.Skills, layout.Certifications},
		Serif:         true,
		ItalicSummary: true,
		Skills:        SkillBullets,
	}
}

type creative struct{ base }

func (creative) ID() ID { return Creative }
func (creative) Name() string { return "Creative" }
func (creative) Description() string { return "Bold gradient header with paired columns" }
func (creative) DefaultPalette() Palette {
	return Palette{Primary: "#9333ea", Secondary: "#7c3aed", Accent: "#2563eb", Text: "#111827", TextSecondary: "#374151"}
}
func (creative) Style() Style {
	return Style{
		Titles: map[layout.Kind]string{
			layout.Summary:        "About Me",
			layout.Experience:     "Experience",
			layout.Education:      "Education",
			layout.Skills:         "Skills",
			layout.Projects:       "Projects",
			layout.Certifications: "Certifications",
			layout.References:     "References",
		},
		Order:      []layout.Kind{layout.Summary, layout.Experience, layout.Skills, layout.Education, layout.Projects, layout.Certifications, layout.References},
		Paired:     [2]layout.Kind{layout.Skills, layout.Education},
		HeaderBand: true,
		Skills:     SkillBadges,
	}
}
