package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/templates"
)

const sampleDraft = `{
  "personal": {"fullName": "Jane Doe", "title": "Engineer", "email": "jane@example.com"},
  "experience": [{"company": "Acme", "position": "Lead", "startDate": "2020-01", "current": true, "endDate": "2023-01"}],
  "skills": ["Go", "SQL"]
}`

func writeDraft(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("PDF_ENGINE", "native")
	renderHTML, renderAll = false, false
	renderColors, renderEngine = "", ""
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestReadDraftNormalizes(t *testing.T) {
	d, err := readDraft(writeDraft(t, sampleDraft))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", d.Personal.FullName)
	assert.Empty(t, d.Experience[0].EndDate)
}

func TestReadDraftRejectsUnknownFields(t *testing.T) {
	_, err := readDraft(writeDraft(t, `{"personal": {"nickname": "JD"}}`))
	assert.Error(t, err)
}

func TestExportWritesNamedPDF(t *testing.T) {
	out := t.TempDir()
	err := execute(t, "export", "--in", writeDraft(t, sampleDraft), "--template", "classic", "--out-dir", out)
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(out, "Jane_Doe_resume.pdf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestRenderAllHTML(t *testing.T) {
	out := t.TempDir()
	err := execute(t, "render", "--in", writeDraft(t, sampleDraft), "--out", out, "--all", "--html")
	require.NoError(t, err)

	for _, id := range templates.All() {
		body, err := os.ReadFile(filepath.Join(out, string(id)+".html"))
		require.NoError(t, err, id)
		assert.Contains(t, string(body), "Jane Doe")
	}
}

func TestValidateReportsViolations(t *testing.T) {
	err := execute(t, "validate", writeDraft(t, `{"skills": ["Go", "Go"]}`))
	assert.Error(t, err)

	assert.NoError(t, execute(t, "validate", writeDraft(t, sampleDraft)))
}
