package forms

import (
	"context"
	"strings"

	"resume-builder/internal/summarize"
	"resume-builder/resume/model"
)

// GeneratingText is shown in the summary field while a request runs.
const GeneratingText = "Generating summary..."

// SummaryTarget is the draft the generated text is written into.
type SummaryTarget[W any] interface {
	Personal() model.Personal
	SetSummary(ctx context.Context, text string) []W
}

// SummaryPrompt builds the request text from the header fields.
func SummaryPrompt(p model.Personal) string {
	name := strings.TrimSpace(p.FullName)
	if name == "" {
		name = "a candidate"
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "professional"
	}
	location := ""
	if loc := strings.TrimSpace(p.Location); loc != "" {
		location = " based in " + loc
	}
	return "Write a professional resume summary for " + name + ", a " + title + location +
		". The summary should be 2-3 sentences, highlighting their expertise, skills, and professional value. Make it concise and impactful."
}

// GenerateSummary fills personal.summary. The field first shows
// GeneratingText and then the generated text, the loading notice or the
// error text. Storage warnings from both writes are returned.
func GenerateSummary[W any](ctx context.Context, target SummaryTarget[W], s summarize.Summarizer) (summarize.Result, []W) {
	prompt := SummaryPrompt(target.Personal())
	warnings := target.SetSummary(ctx, GeneratingText)
	res := s.Summarize(ctx, prompt)
	warnings = append(warnings, target.SetSummary(ctx, res.Text)...)
	return res, warnings
}
