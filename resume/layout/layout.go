// Package layout decides which resume sections exist and how their fields
// read. Both the HTML preview and the PDF renderer draw from its Document, so
// section presence and date text cannot diverge between them.
package layout

import (
	"strings"

	"resume-builder/resume/model"
)

// Kind identifies a resume section.
type Kind string

const (
	Summary        Kind = "summary"
	Experience     Kind = "experience"
	Education      Kind = "education"
	Skills         Kind = "skills"
	Projects       Kind = "projects"
	Certifications Kind = "certifications"
	References     Kind = "references"
)

// Kinds lists every section kind in canonical order.
func Kinds() []Kind {
	return []Kind{Summary, Experience, Education, Skills, Projects, Certifications, References}
}

const (
	PlaceholderName  = "Your Name"
	PlaceholderTitle = "Professional Title"
	Present          = "Present"
)

// ContactKind tags a header contact line so renderers can pick an icon or label.
type ContactKind string

const (
	ContactEmail    ContactKind = "email"
	ContactPhone    ContactKind = "phone"
	ContactLocation ContactKind = "location"
	ContactLinkedIn ContactKind = "linkedin"
	ContactWebsite  ContactKind = "website"
)

type Contact struct {
	Kind  ContactKind
	Value string
}

// Header is the top block. Name and Title carry placeholders when blank.
type Header struct {
	Name     string
	Title    string
	Picture  string
	Contacts []Contact
}

// Entry is one item of a list section, already formatted for display.
type Entry struct {
	Heading    string
	Subheading string
	Detail     string
	Dates      string
	Location   string
	Body       string
	Link       string
	Lines      []string
}

// Section is a present section. Summary uses Text, Skills uses Items, the
// rest use Entries.
type Section struct {
	Kind    Kind
	Text    string
	Items   []string
	Entries []Entry
}

// Document is the template-independent view of a draft.
type Document struct {
	Header   Header
	Sections []Section
}

// Has reports whether the section is present.
func (d Document) Has(k Kind) bool {
	_, ok := d.Section(k)
	return ok
}

// Section returns the section of kind k, if present.
func (d Document) Section(k Kind) (Section, bool) {
	for _, s := range d.Sections {
		if s.Kind == k {
			return s, true
		}
	}
	return Section{}, false
}

// Build derives the document. A list section is present iff its list is
// non-empty; the summary is present iff it is non-blank.
func Build(d model.ResumeDraft) Document {
	p := d.Personal
	doc := Document{Header: Header{
		Name:    orPlaceholder(p.FullName, PlaceholderName),
		Title:   orPlaceholder(p.Title, PlaceholderTitle),
		Picture: strings.TrimSpace(p.Picture),
	}}
	for _, c := range []Contact{
		{ContactEmail, p.Email},
		{ContactPhone, p.Phone},
		{ContactLocation, p.Location},
		{ContactLinkedIn, p.LinkedIn},
		{ContactWebsite, p.Website},
	} {
		if v := strings.TrimSpace(c.Value); v != "" {
			doc.Header.Contacts = append(doc.Header.Contacts, Contact{Kind: c.Kind, Value: v})
		}
	}

	if summary := strings.TrimSpace(p.Summary); summary != "" {
		doc.Sections = append(doc.Sections, Section{Kind: Summary, Text: summary})
	}
	if len(d.Experience) > 0 {
		s := Section{Kind: Experience}
		for _, e := range d.Experience {
			s.Entries = append(s.Entries, Entry{
				Heading:    e.Position,
				Subheading: e.Company,
				Dates:      DateRange(e.StartDate, e.EndDate, e.Current),
				Location:   e.Location,
				Body:       e.Description,
			})
		}
		doc.Sections = append(doc.Sections, s)
	}
	if len(d.Education) > 0 {
		s := Section{Kind: Education}
		for _, e := range d.Education {
			s.Entries = append(s.Entries, Entry{
				Heading:    e.Degree,
				Subheading: e.School,
				Detail:     e.Field,
				Dates:      DateRange(e.StartDate, e.EndDate, false),
				Body:       e.Description,
			})
		}
		doc.Sections = append(doc.Sections, s)
	}
	if len(d.Skills) > 0 {
		doc.Sections = append(doc.Sections, Section{Kind: Skills, Items: append([]string(nil), d.Skills...)})
	}
	if len(d.Projects) > 0 {
		s := Section{Kind: Projects}
		for _, pr := range d.Projects {
			s.Entries = append(s.Entries, Entry{
				Heading: pr.Name,
				Detail:  pr.Technologies,
				Body:    pr.Description,
				Link:    pr.Link,
			})
		}
		doc.Sections = append(doc.Sections, s)
	}
	if len(d.Certifications) > 0 {
		s := Section{Kind: Certifications}
		for _, c := range d.Certifications {
			e := Entry{Heading: c.Name, Subheading: c.Issuer, Dates: FormatDate(c.Date)}
			if id := strings.TrimSpace(c.CredentialID); id != "" {
				e.Detail = "Credential ID: " + id
			}
			s.Entries = append(s.Entries, e)
		}
		doc.Sections = append(doc.Sections, s)
	}
	if len(d.References) > 0 {
		s := Section{Kind: References}
		for _, r := range d.References {
			e := Entry{Heading: r.Name, Subheading: r.Title, Detail: r.Company}
			for _, line := range []string{r.Email, r.Phone} {
				if v := strings.TrimSpace(line); v != "" {
					e.Lines = append(e.Lines, v)
				}
			}
			s.Entries = append(s.Entries, e)
		}
		doc.Sections = append(doc.Sections, s)
	}
	return doc
}

func orPlaceholder(v, placeholder string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return placeholder
}
