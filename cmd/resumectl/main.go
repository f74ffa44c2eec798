// Command resumectl renders, exports and validates resume drafts from the
// command line.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-builder/internal/shared/config"
	"resume-builder/resume/model"
)

var rootCmd = &cobra.Command{
	Use:           "resumectl",
	Short:         "Resume builder command line tools",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads .env files and the environment.
func loadConfig() config.Config {
	return config.Load()
}

// readDraft loads a draft JSON file after checking it against the schema.
func readDraft(path string) (model.ResumeDraft, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.ResumeDraft{}, fmt.Errorf("failed to read draft file: %w", err)
	}
	if err := model.ValidateJSON(raw); err != nil {
		return model.ResumeDraft{}, err
	}
	var d model.ResumeDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		return model.ResumeDraft{}, fmt.Errorf("failed to unmarshal draft JSON: %w", err)
	}
	d.Normalize()
	return d, nil
}
