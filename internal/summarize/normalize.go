package summarize

import (
	"encoding/json"
	"strings"
)

// Normalize extracts the summary from any of the accepted response shapes:
// [{"summary_text"}], [{"generated_text"}], {"summary_text"},
// {"generated_text"} or a bare JSON string.
func Normalize(body []byte) (string, error) {
	var bare string
	if err := json.Unmarshal(body, &bare); err == nil {
		return nonBlank(bare)
	}

	type item struct {
		SummaryText   *string `json:"summary_text"`
		GeneratedText *string `json:"generated_text"`
	}
	pick := func(it item) (string, error) {
		if it.SummaryText != nil {
			return nonBlank(*it.SummaryText)
		}
		if it.GeneratedText != nil {
			return nonBlank(*it.GeneratedText)
		}
		return "", ErrUnexpectedResponse
	}

	var list []item
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) == 0 {
			return "", ErrUnexpectedResponse
		}
		return pick(list[0])
	}
	var single item
	if err := json.Unmarshal(body, &single); err == nil {
		return pick(single)
	}
	return "", ErrUnexpectedResponse
}

func nonBlank(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrUnexpectedResponse
	}
	return s, nil
}
