// Package model holds the resume draft aggregate shared by the draft store,
// the renderers and the export pipeline.
package model

// ResumeDraft is the root aggregate edited by one owner.
type ResumeDraft struct {
	Personal       Personal        `json:"personal"`
	Education      []Education     `json:"education"`
	Experience     []Experience    `json:"experience"`
	Skills         []string        `json:"skills"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
	References     []Reference     `json:"references"`
}

// Personal holds the header fields. Picture is an optional data URL.
type Personal struct {
	FullName string `json:"fullName"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
	Summary  string `json:"summary"`
	Picture  string `json:"picture,omitempty"`
}

type Education struct {
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Experience is one job. When Current is set, EndDate is always empty.
type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	CredentialID string `json:"credentialId"`
}

type Project struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	Link         string `json:"link"`
}

type Reference struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// Empty returns the built-in defaults: a blank personal record and empty lists.
func Empty() ResumeDraft {
	return ResumeDraft{
		Education:      []Education{},
		Experience:     []Experience{},
		Skills:         []string{},
		Certifications: []Certification{},
		Projects:       []Project{},
		References:     []Reference{},
	}
}

// Normalize replaces nil lists with empty ones, drops repeated skills
// (first occurrence wins, exact match) and clears the end date of current
// jobs.
func (d *ResumeDraft) Normalize() {
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Certifications == nil {
		d.Certifications = []Certification{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.References == nil {
		d.References = []Reference{}
	}
	d.Skills = uniqueSkills(d.Skills)
	NormalizeExperience(d.Experience)
}

func uniqueSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := skills[:0]
	for _, s := range skills {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// NormalizeExperience clears EndDate on every current entry in place.
func NormalizeExperience(items []Experience) {
	for i := range items {
		if items[i].Current {
			items[i].EndDate = ""
		}
	}
}

// Clone returns a deep copy.
func (d ResumeDraft) Clone() ResumeDraft {
	out := d
	out.Education = append([]Education{}, d.Education...)
	out.Experience = append([]Experience{}, d.Experience...)
	out.Skills = append([]string{}, d.Skills...)
	out.Certifications = append([]Certification{}, d.Certifications...)
	out.Projects = append([]Project{}, d.Projects...)
	out.References = append([]Reference{}, d.References...)
	return out
}
