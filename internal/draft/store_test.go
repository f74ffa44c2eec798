package draft

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/storage/kv"
	"resume-builder/resume/model"
	"resume-builder/resume/templates"
)

// failingStorage fails every call of the configured kinds.
type failingStorage struct {
	kv.Storage
	failGet, failSet, failDelete bool
}

var errDisk = errors.New("disk full")

func (f *failingStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGet {
		return nil, false, errDisk
	}
	return f.Storage.Get(ctx, key)
}

func (f *failingStorage) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errDisk
	}
	return f.Storage.Set(ctx, key, value)
}

func (f *failingStorage) Delete(ctx context.Context, key string) error {
	if f.failDelete {
		return errDisk
	}
	return f.Storage.Delete(ctx, key)
}

func strPtr(s string) *string { return &s }

func TestOpenWithoutDataUsesDefaults(t *testing.T) {
	s, warnings := Open(context.Background(), kv.NewMemory())
	assert.Empty(t, warnings)
	snap := s.Get()
	assert.Equal(t, model.Empty(), snap.Draft)
	assert.Equal(t, templates.Default, snap.Template)
	assert.Empty(t, snap.Colors)
}

func TestDraftSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()
	s, _ := Open(ctx, storage)

	s.UpdatePersonal(ctx, PersonalPatch{FullName: strPtr("Jane Doe"), Title: strPtr("Engineer")})
	s.SetExperience(ctx, []model.Experience{{Company: "Acme", StartDate: "2021-03", EndDate: "2022-01", Current: true}})
	_, err := s.AddSkill(ctx, "Go")
	require.NoError(t, err)
	_, err = s.SetColors(ctx, templates.Classic, templates.Palette{Primary: "#123456"})
	require.NoError(t, err)

	reopened, warnings := Open(ctx, storage)
	assert.Empty(t, warnings)
	snap := reopened.Get()
	assert.Equal(t, s.Get().Draft, snap.Draft)
	assert.Equal(t, "Jane Doe", snap.Draft.Personal.FullName)
	assert.Equal(t, "", snap.Draft.Experience[0].EndDate)
	assert.Equal(t, "#123456", snap.Colors.For(templates.Classic).Primary)
	assert.Equal(t, "#374151", snap.Colors.For(templates.Classic).Secondary)
}

func TestCorruptDataFallsBackWithWarning(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()
	require.NoError(t, storage.Set(ctx, DataKey, []byte("{not json")))
	require.NoError(t, storage.Set(ctx, ColorsKey, []byte("[]")))

	s, warnings := Open(ctx, storage)
	require.Len(t, warnings, 2)
	assert.Equal(t, DataKey, warnings[0].Key)
	assert.Equal(t, ColorsKey, warnings[1].Key)
	assert.Equal(t, model.Empty(), s.Get().Draft)
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{Storage: kv.NewMemory(), failSet: true}
	s, _ := Open(ctx, storage)

	ch := s.UpdatePersonal(ctx, PersonalPatch{FullName: strPtr("Jane")})
	require.Len(t, ch.Warnings, 1)
	assert.Equal(t, "save", ch.Warnings[0].Op)
	assert.Equal(t, "Jane", ch.Snapshot.Draft.Personal.FullName)
	assert.Equal(t, "Jane", s.Get().Draft.Personal.FullName)

	_, ok, err := storage.Storage.Get(ctx, DataKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadFailureYieldsDefaults(t *testing.T) {
	s, warnings := Open(context.Background(), &failingStorage{Storage: kv.NewMemory(), failGet: true})
	assert.Len(t, warnings, 2)
	assert.Equal(t, model.Empty(), s.Get().Draft)
}

func TestPersonalPatchMergesFields(t *testing.T) {
	ctx := context.Background()
	s, _ := Open(ctx, kv.NewMemory())
	s.UpdatePersonal(ctx, PersonalPatch{FullName: strPtr("Jane"), Email: strPtr("jane@example.com")})
	ch, err := s.Update(ctx, "personal", json.RawMessage(`{"title":"Engineer"}`))
	require.NoError(t, err)
	p := ch.Snapshot.Draft.Personal
	assert.Equal(t, "Jane", p.FullName)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.Equal(t, "Engineer", p.Title)
}

func TestUpdateReplacesLists(t *testing.T) {
	ctx := context.Background()
	s, _ := Open(ctx, kv.NewMemory())
	_, err := s.Update(ctx, "education", json.RawMessage(`[{"school":"MIT"},{"school":"TU"}]`))
	require.NoError(t, err)
	ch, err := s.Update(ctx, "education", json.RawMessage(`[{"school":"ETH"}]`))
	require.NoError(t, err)
	require.Len(t, ch.Snapshot.Draft.Education, 1)
	assert.Equal(t, "ETH", ch.Snapshot.Draft.Education[0].School)

	ch, err = s.Update(ctx, "experience", json.RawMessage(`[{"company":"Acme","endDate":"2020-01","current":true}]`))
	require.NoError(t, err)
	assert.Equal(t, "", ch.Snapshot.Draft.Experience[0].EndDate)

	ch, err = s.Update(ctx, "references", json.RawMessage(`null`))
	require.NoError(t, err)
	assert.NotNil(t, ch.Snapshot.Draft.References)
}

func TestUpdateRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	s, _ := Open(ctx, kv.NewMemory())
	_, err := s.Update(ctx, "hobbies", json.RawMessage(`[]`))
	assert.ErrorIs(t, err, ErrUnknownSection)
	_, err = s.Update(ctx, "skills", json.RawMessage(`{"a":1}`))
	assert.ErrorIs(t, err, ErrInvalidPatch)
	_, err = s.Update(ctx, "personal", json.RawMessage(`{"nickname":"JJ"}`))
	assert.ErrorIs(t, err, ErrInvalidPatch)
	_, err = s.Update(ctx, "personal", nil)
	assert.ErrorIs(t, err, ErrInvalidPatch)
}

func TestSkills(t *testing.T) {
	ctx := context.Background()
	s, _ := Open(ctx, kv.NewMemory())

	_, err := s.AddSkill(ctx, "  Go ")
	require.NoError(t, err)
	_, err = s.AddSkill(ctx, "Go")
	assert.ErrorIs(t, err, ErrDuplicateSkill)
	_, err = s.AddSkill(ctx, "go")
	require.NoError(t, err)
	_, err = s.AddSkill(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidPatch)
	assert.Equal(t, []string{"Go", "go"}, s.Get().Draft.Skills)

	ch := s.RemoveSkill(ctx, "Go")
	assert.Equal(t, []string{"go"}, ch.Snapshot.Draft.Skills)
	ch = s.RemoveSkill(ctx, "missing")
	assert.Equal(t, []string{"go"}, ch.Snapshot.Draft.Skills)
}

func TestSkillListUpdatesRejectDuplicates(t *testing.T) {
	ctx := context.Background()
	s, _ := Open(ctx, kv.NewMemory())
	_, err := s.Update(ctx, "skills", json.RawMessage(`["Go","SQL"]`))
	require.NoError(t, err)

	_, err = s.Update(ctx, "skills", json.RawMessage(`["Go","Go"]`))
	assert.ErrorIs(t, err, ErrDuplicateSkill)
	assert.Equal(t, []string{"Go", "SQL"}, s.Get().Draft.Skills)

	// Case differs, so these are distinct skills.
	_, err = s.Update(ctx, "skills", json.RawMessage(`["Go","go"]`))
	require.NoError(t, err)

	d := model.Empty()
	d.Skills = []string{"Go", "SQL", "Go"}
	ch := s.Replace(ctx, d)
	assert.Equal(t, []string{"Go", "SQL"}, ch.Snapshot.Draft.Skills)
}

func TestSelectTemplateFallsBack(t *testing.T) {
	s, _ := Open(context.Background(), kv.NewMemory())
	assert.Equal(t, templates.Elegant, s.SelectTemplate("elegant").Template)
	assert.Equal(t, templates.Modern, s.SelectTemplate("retro").Template)
}

func TestSetColorsValidates(t *testing.T) {
	ctx := context.Background()
	s, _ := Open(ctx, kv.NewMemory())
	for _, bad := range []string{"blue", "#abcd", "#aabbccdd"} {
		_, err := s.SetColors(ctx, templates.Modern, templates.Palette{Primary: bad})
		assert.ErrorIs(t, err, ErrInvalidColor, bad)
	}

	ch, err := s.SetColors(ctx, templates.Modern, templates.Palette{Accent: "#abc"})
	require.NoError(t, err)
	s.SelectTemplate("modern")
	assert.Equal(t, "#abc", s.Get().Palette().Accent)
	assert.Equal(t, "#2563eb", ch.Snapshot.Palette().Primary)
}

func TestResetClearsEverything(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()
	s, _ := Open(ctx, storage)
	s.UpdatePersonal(ctx, PersonalPatch{FullName: strPtr("Jane")})
	_, _ = s.SetColors(ctx, templates.Creative, templates.Palette{Primary: "#000000"})
	s.SelectTemplate("creative")

	ch := s.Reset(ctx)
	assert.Empty(t, ch.Warnings)
	assert.Equal(t, model.Empty(), ch.Snapshot.Draft)
	assert.Equal(t, templates.Default, ch.Snapshot.Template)
	assert.Empty(t, ch.Snapshot.Colors)

	for _, key := range []string{DataKey, ColorsKey} {
		_, ok, err := storage.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestResetDeleteFailureIsWarning(t *testing.T) {
	ctx := context.Background()
	s, _ := Open(ctx, &failingStorage{Storage: kv.NewMemory(), failDelete: true})
	ch := s.Reset(ctx)
	assert.Len(t, ch.Warnings, 2)
	assert.Equal(t, model.Empty(), ch.Snapshot.Draft)
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s, _ := Open(ctx, kv.NewMemory())
	_, err := s.SetSkills(ctx, []string{"Go"})
	require.NoError(t, err)
	snap := s.Get()
	snap.Draft.Skills[0] = "Rust"
	assert.Equal(t, "Go", s.Get().Draft.Skills[0])
}

func TestRegistryIsolatesOwners(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()
	reg := NewRegistry(storage)

	a, _ := reg.Session(ctx, "user-a")
	b, _ := reg.Session(ctx, "guest:b")
	a.Store.UpdatePersonal(ctx, PersonalPatch{FullName: strPtr("Alice")})
	a.Nav.JumpTo(3)

	assert.Equal(t, "", b.Store.Get().Draft.Personal.FullName)
	again, _ := reg.Session(ctx, "user-a")
	assert.Same(t, a, again)

	reg.Forget("user-a")
	reopened, _ := reg.Session(ctx, "user-a")
	assert.Equal(t, "Alice", reopened.Store.Get().Draft.Personal.FullName)

	reopened.Nav.JumpTo(4)
	reopened.Reset(ctx)
	assert.Equal(t, 0, int(reopened.Nav.Current()))
}

func TestRegistriesOverSharedStorageSeeEachOthersEdits(t *testing.T) {
	ctx := context.Background()
	shared := kv.NewMemory()
	a := NewRegistry(shared)
	b := NewRegistry(shared)

	stale, _ := b.Session(ctx, "user-1")
	sa, _ := a.Session(ctx, "user-1")
	sa.Store.UpdatePersonal(ctx, PersonalPatch{FullName: strPtr("Jane Doe")})

	sb, warnings := b.Session(ctx, "user-1")
	assert.Empty(t, warnings)
	assert.Same(t, stale, sb)
	_, err := sb.Store.Update(ctx, "skills", json.RawMessage(`["Go"]`))
	require.NoError(t, err)

	fresh, _ := NewRegistry(shared).Session(ctx, "user-1")
	got := fresh.Store.Get().Draft
	assert.Equal(t, "Jane Doe", got.Personal.FullName)
	assert.Equal(t, []string{"Go"}, got.Skills)

	// A reset on one instance clears the other on its next access.
	sa, _ = a.Session(ctx, "user-1")
	sa.Reset(ctx)
	sb, _ = b.Session(ctx, "user-1")
	assert.Equal(t, model.Empty(), sb.Store.Get().Draft)
}

func TestReloadKeepsUnsavedEdits(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{Storage: kv.NewMemory()}
	reg := NewRegistry(storage)
	sess, _ := reg.Session(ctx, "user-1")

	storage.failSet = true
	ch := sess.Store.UpdatePersonal(ctx, PersonalPatch{FullName: strPtr("Jane")})
	require.Len(t, ch.Warnings, 1)

	again, _ := reg.Session(ctx, "user-1")
	assert.Equal(t, "Jane", again.Store.Get().Draft.Personal.FullName)

	storage.failSet = false
	sess.Store.UpdatePersonal(ctx, PersonalPatch{Title: strPtr("Engineer")})
	fresh, _ := NewRegistry(storage).Session(ctx, "user-1")
	assert.Equal(t, "Jane", fresh.Store.Get().Draft.Personal.FullName)
}

func TestRegistryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistrySize(kv.NewMemory(), 2)
	first, _ := reg.Session(ctx, "guest:1")
	first.Store.UpdatePersonal(ctx, PersonalPatch{FullName: strPtr("One")})
	_, _ = reg.Session(ctx, "guest:2")
	_, _ = reg.Session(ctx, "guest:3")
	assert.Equal(t, 2, reg.Len())

	reopened, _ := reg.Session(ctx, "guest:1")
	assert.NotSame(t, first, reopened)
	assert.Equal(t, "One", reopened.Store.Get().Draft.Personal.FullName)
}
