package templates

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Palette is a template's color set. Values are CSS hex colors.
type Palette struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Accent        string `json:"accent"`
	Text          string `json:"text"`
	TextSecondary string `json:"textSecondary"`
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether v is a #rgb or #rrggbb color.
func ValidColor(v string) bool {
	return hexColor.MatchString(strings.TrimSpace(v))
}

// ColorTag is the validation tag for palette colors. It accepts exactly
// what ValidColor accepts, so a value that passes validation is never
// dropped by Merge.
const ColorTag = "rgbhex"

// RegisterColorRule adds ColorTag to v.
func RegisterColorRule(v *validator.Validate) error {
	return v.RegisterValidation(ColorTag, func(fl validator.FieldLevel) bool {
		return ValidColor(fl.Field().String())
	})
}

// NewColorValidator returns a validator that knows ColorTag.
func NewColorValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterColorRule(v); err != nil {
		panic(err)
	}
	return v
}

// Merge overlays the non-empty valid fields of o on top of p.
func (p Palette) Merge(o Palette) Palette {
	pick := func(cur, next string) string {
		if next = strings.TrimSpace(next); next != "" && ValidColor(next) {
			return next
		}
		return cur
	}
	p.Primary = pick(p.Primary, o.Primary)
	p.Secondary = pick(p.Secondary, o.Secondary)
	p.Accent = pick(p.Accent, o.Accent)
	p.Text = pick(p.Text, o.Text)
	p.TextSecondary = pick(p.TextSecondary, o.TextSecondary)
	return p
}

// Palettes maps template id to its chosen colors. It is the persisted form of
// the color customization.
type Palettes map[ID]Palette

// DefaultPalettes returns the built-in palette for every template.
func DefaultPalettes() Palettes {
	out := make(Palettes, len(All()))
	for _, t := range Catalog() {
		out[t.ID()] = t.DefaultPalette()
	}
	return out
}

// DecodePalettes reads a persisted palette map. Unknown template ids are
// dropped and missing ones keep their defaults.
func DecodePalettes(raw []byte) (Palettes, error) {
	out := DefaultPalettes()
	if len(raw) == 0 {
		return out, nil
	}
	var stored map[string]Palette
	if err := json.Unmarshal(raw, &stored); err != nil {
		return out, err
	}
	for k, v := range stored {
		id := ID(strings.ToLower(strings.TrimSpace(k)))
		if !Valid(id) {
			continue
		}
		out[id] = out[id].Merge(v)
	}
	return out, nil
}

// For returns the palette of id, or the template default.
func (ps Palettes) For(id ID) Palette {
	if p, ok := ps[id]; ok {
		return Resolve(id).DefaultPalette().Merge(p)
	}
	return Resolve(id).DefaultPalette()
}
