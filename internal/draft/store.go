// Package draft owns the in-progress resume of one owner and keeps it in
// durable key-value storage after every change.
package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/kv"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
	"resume-builder/resume/templates"
)

// Durable storage keys.
const (
	DataKey   = "resume_builder_data"
	ColorsKey = "resume_template_colors"
)

// Warning reports a durable-storage problem. The in-memory draft stays
// authoritative when one is raised.
type Warning struct {
	Op      string `json:"op"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Snapshot is an immutable copy of the store state.
type Snapshot struct {
	Draft    model.ResumeDraft  `json:"draft"`
	Template templates.ID       `json:"template"`
	Colors   templates.Palettes `json:"colors"`
}

// Palette returns the effective palette of the selected template.
func (s Snapshot) Palette() templates.Palette {
	return s.Colors.For(s.Template)
}

// Change is the result of an accepted mutation.
type Change struct {
	Snapshot Snapshot
	Warnings []Warning
}

var colorRule = templates.NewColorValidator()

// Store holds one draft. Mutations are serialized; reads return copies.
// Durable storage is the source of truth except while a write to it has
// failed: a dirty key is not overwritten by Reload until a later write
// succeeds.
type Store struct {
	mu          sync.Mutex
	storage     kv.Storage
	draft       model.ResumeDraft
	template    templates.ID
	colors      templates.Palettes
	draftDirty  bool
	colorsDirty bool
}

// Open restores the draft and color overrides. Absent keys yield the
// built-in defaults; unreadable values yield defaults plus a warning.
func Open(ctx context.Context, storage kv.Storage) (*Store, []Warning) {
	s := &Store{
		storage:  storage,
		draft:    model.Empty(),
		template: templates.Default,
		colors:   templates.Palettes{},
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s, s.loadLocked(ctx)
}

// Reload re-reads both keys so writes made through another Store over the
// same storage are visible. Keys whose last write failed keep their
// in-memory value, and so does any key that cannot be read or decoded.
// An absent key means the draft was reset elsewhere.
func (s *Store) Reload(ctx context.Context) []Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) []Warning {
	var warnings []Warning

	if !s.draftDirty {
		if raw, ok, err := s.storage.Get(ctx, DataKey); err != nil {
			warnings = append(warnings, s.warn("load", DataKey, err))
		} else if !ok {
			s.draft = model.Empty()
		} else {
			var d model.ResumeDraft
			if err := json.Unmarshal(raw, &d); err != nil {
				warnings = append(warnings, s.warn("load", DataKey, fmt.Errorf("corrupt draft: %w", err)))
			} else {
				d.Normalize()
				s.draft = d
			}
		}
	}

	if !s.colorsDirty {
		if raw, ok, err := s.storage.Get(ctx, ColorsKey); err != nil {
			warnings = append(warnings, s.warn("load", ColorsKey, err))
		} else if !ok {
			s.colors = templates.Palettes{}
		} else {
			colors, err := decodeOverrides(raw)
			if err != nil {
				warnings = append(warnings, s.warn("load", ColorsKey, fmt.Errorf("corrupt colors: %w", err)))
			} else {
				s.colors = colors
			}
		}
	}
	return warnings
}

func decodeOverrides(raw []byte) (templates.Palettes, error) {
	var stored map[string]templates.Palette
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	out := templates.Palettes{}
	for k, p := range stored {
		if id := templates.ID(strings.ToLower(strings.TrimSpace(k))); templates.Valid(id) {
			out[id] = templates.Palette{}.Merge(p)
		}
	}
	return out, nil
}

// Get returns a deep copy of the current state.
func (s *Store) Get() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	colors := make(templates.Palettes, len(s.colors))
	for k, v := range s.colors {
		colors[k] = v
	}
	return Snapshot{Draft: s.draft.Clone(), Template: s.template, Colors: colors}
}

// PersonalPatch updates only the fields that are set.
type PersonalPatch struct {
	FullName *string `json:"fullName,omitempty"`
	Title    *string `json:"title,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	LinkedIn *string `json:"linkedin,omitempty"`
	Website  *string `json:"website,omitempty"`
	Summary  *string `json:"summary,omitempty"`
	Picture  *string `json:"picture,omitempty"`
}

func (p PersonalPatch) apply(dst *model.Personal) {
	set := func(field *string, v *string) {
		if v != nil {
			*field = *v
		}
	}
	set(&dst.FullName, p.FullName)
	set(&dst.Title, p.Title)
	set(&dst.Email, p.Email)
	set(&dst.Phone, p.Phone)
	set(&dst.Location, p.Location)
	set(&dst.LinkedIn, p.LinkedIn)
	set(&dst.Website, p.Website)
	set(&dst.Summary, p.Summary)
	set(&dst.Picture, p.Picture)
}

func (s *Store) UpdatePersonal(ctx context.Context, patch PersonalPatch) Change {
	return s.mutateDraft(ctx, func(d *model.ResumeDraft) {
		patch.apply(&d.Personal)
	})
}

// Personal returns the current personal record.
func (s *Store) Personal() model.Personal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Personal
}

// SetSummary replaces personal.summary.
func (s *Store) SetSummary(ctx context.Context, text string) []Warning {
	return s.UpdatePersonal(ctx, PersonalPatch{Summary: &text}).Warnings
}

func (s *Store) SetEducation(ctx context.Context, items []model.Education) Change {
	items = append([]model.Education{}, items...)
	return s.mutateDraft(ctx, func(d *model.ResumeDraft) { d.Education = items })
}

// SetExperience replaces the list; current entries lose their end date.
func (s *Store) SetExperience(ctx context.Context, items []model.Experience) Change {
	items = append([]model.Experience{}, items...)
	model.NormalizeExperience(items)
	return s.mutateDraft(ctx, func(d *model.ResumeDraft) { d.Experience = items })
}

// SetSkills replaces the list. A list holding the same skill twice is
// rejected and leaves the draft unchanged.
func (s *Store) SetSkills(ctx context.Context, items []string) (Change, error) {
	seen := make(map[string]struct{}, len(items))
	for _, skill := range items {
		if _, dup := seen[skill]; dup {
			return Change{}, fmt.Errorf("%w: %q", ErrDuplicateSkill, skill)
		}
		seen[skill] = struct{}{}
	}
	items = append([]string{}, items...)
	return s.mutateDraft(ctx, func(d *model.ResumeDraft) { d.Skills = items }), nil
}

func (s *Store) SetCertifications(ctx context.Context, items []model.Certification) Change {
	items = append([]model.Certification{}, items...)
	return s.mutateDraft(ctx, func(d *model.ResumeDraft) { d.Certifications = items })
}

func (s *Store) SetProjects(ctx context.Context, items []model.Project) Change {
	items = append([]model.Project{}, items...)
	return s.mutateDraft(ctx, func(d *model.ResumeDraft) { d.Projects = items })
}

func (s *Store) SetReferences(ctx context.Context, items []model.Reference) Change {
	items = append([]model.Reference{}, items...)
	return s.mutateDraft(ctx, func(d *model.ResumeDraft) { d.References = items })
}

// Replace swaps in a whole draft, as when importing a saved file.
func (s *Store) Replace(ctx context.Context, d model.ResumeDraft) Change {
	d = d.Clone()
	d.Normalize()
	return s.mutateDraft(ctx, func(cur *model.ResumeDraft) { *cur = d })
}

// AddSkill appends a trimmed skill. Blank input and exact duplicates are
// rejected and leave the list unchanged.
func (s *Store) AddSkill(ctx context.Context, skill string) (Change, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return Change{}, fmt.Errorf("%w: skill is blank", ErrInvalidPatch)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.draft.Skills {
		if existing == skill {
			return Change{}, fmt.Errorf("%w: %q", ErrDuplicateSkill, skill)
		}
	}
	s.draft.Skills = append(s.draft.Skills, skill)
	return s.persistDraftLocked(ctx), nil
}

// RemoveSkill drops every entry exactly equal to skill.
func (s *Store) RemoveSkill(ctx context.Context, skill string) Change {
	return s.mutateDraft(ctx, func(d *model.ResumeDraft) {
		kept := make([]string, 0, len(d.Skills))
		for _, existing := range d.Skills {
			if existing != skill {
				kept = append(kept, existing)
			}
		}
		d.Skills = kept
	})
}

// SelectTemplate sets the active template. Unknown ids select the default.
func (s *Store) SelectTemplate(raw string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = templates.Parse(raw)
	return s.snapshotLocked()
}

// SetColors merges patch into the override for template id and persists
// the override map.
func (s *Store) SetColors(ctx context.Context, id templates.ID, patch templates.Palette) (Change, error) {
	for field, v := range map[string]string{
		"primary":       patch.Primary,
		"secondary":     patch.Secondary,
		"accent":        patch.Accent,
		"text":          patch.Text,
		"textSecondary": patch.TextSecondary,
	} {
		if v == "" {
			continue
		}
		if err := colorRule.Var(v, templates.ColorTag); err != nil {
			return Change{}, fmt.Errorf("%w: %s=%q", ErrInvalidColor, field, v)
		}
	}
	if !templates.Valid(id) {
		id = templates.Default
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors[id] = s.colors[id].Merge(patch)

	var warnings []Warning
	raw, err := json.Marshal(s.colors)
	if err == nil {
		err = s.storage.Set(ctx, ColorsKey, raw)
	}
	s.colorsDirty = err != nil
	if err != nil {
		warnings = append(warnings, s.warn("save", ColorsKey, err))
	}
	return Change{Snapshot: s.snapshotLocked(), Warnings: warnings}, nil
}

// Reset restores the defaults and removes both durable keys.
func (s *Store) Reset(ctx context.Context) Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = model.Empty()
	s.template = templates.Default
	s.colors = templates.Palettes{}
	var warnings []Warning
	for _, key := range []string{DataKey, ColorsKey} {
		err := s.storage.Delete(ctx, key)
		if key == DataKey {
			s.draftDirty = err != nil
		} else {
			s.colorsDirty = err != nil
		}
		if err != nil {
			warnings = append(warnings, s.warn("delete", key, err))
		}
	}
	return Change{Snapshot: s.snapshotLocked(), Warnings: warnings}
}

// Section names accepted by Update.
const (
	SectionPersonal       = "personal"
	SectionEducation      = "education"
	SectionExperience     = "experience"
	SectionSkills         = "skills"
	SectionCertifications = "certifications"
	SectionProjects       = "projects"
	SectionReferences     = "references"
)

// Update applies a JSON patch to one section. Personal is merged field by
// field; every list section is replaced wholesale.
func (s *Store) Update(ctx context.Context, section string, patch json.RawMessage) (Change, error) {
	switch strings.ToLower(strings.TrimSpace(section)) {
	case SectionPersonal:
		var p PersonalPatch
		if err := decodeStrict(patch, &p); err != nil {
			return Change{}, err
		}
		return s.UpdatePersonal(ctx, p), nil
	case SectionEducation:
		var items []model.Education
		if err := decodeStrict(patch, &items); err != nil {
			return Change{}, err
		}
		return s.SetEducation(ctx, items), nil
	case SectionExperience:
		var items []model.Experience
		if err := decodeStrict(patch, &items); err != nil {
			return Change{}, err
		}
		return s.SetExperience(ctx, items), nil
	case SectionSkills:
		var items []string
		if err := decodeStrict(patch, &items); err != nil {
			return Change{}, err
		}
		return s.SetSkills(ctx, items)
	case SectionCertifications:
		var items []model.Certification
		if err := decodeStrict(patch, &items); err != nil {
			return Change{}, err
		}
		return s.SetCertifications(ctx, items), nil
	case SectionProjects:
		var items []model.Project
		if err := decodeStrict(patch, &items); err != nil {
			return Change{}, err
		}
		return s.SetProjects(ctx, items), nil
	case SectionReferences:
		var items []model.Reference
		if err := decodeStrict(patch, &items); err != nil {
			return Change{}, err
		}
		return s.SetReferences(ctx, items), nil
	default:
		return Change{}, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
}

func decodeStrict(raw json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidPatch)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return nil
}

func (s *Store) mutateDraft(ctx context.Context, fn func(d *model.ResumeDraft)) Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.draft)
	s.draft.Normalize()
	return s.persistDraftLocked(ctx)
}

func (s *Store) persistDraftLocked(ctx context.Context) Change {
	var warnings []Warning
	raw, err := json.Marshal(s.draft)
	if err == nil {
		err = s.storage.Set(ctx, DataKey, raw)
	}
	s.draftDirty = err != nil
	if err != nil {
		warnings = append(warnings, s.warn("save", DataKey, err))
	}
	return Change{Snapshot: s.snapshotLocked(), Warnings: warnings}
}

func (s *Store) warn(op, key string, err error) Warning {
	if op != "load" {
		metrics.IncDraftPersistFailed()
	}
	telemetry.Warn("draft.persist_failed", map[string]any{
		"op":    op,
		"key":   key,
		"error": err,
	})
	return Warning{Op: op, Key: key, Message: err.Error()}
}
