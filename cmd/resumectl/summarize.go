package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"resume-builder/internal/summarize"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Generate a professional summary",
	Long:  "Calls the configured summary provider, or a running summarize proxy when --endpoint is set.",
	RunE:  runSummarize,
}

var (
	summarizeText     string
	summarizeEndpoint string
)

func init() {
	summarizeCmd.Flags().StringVar(&summarizeText, "text", "", "Prompt text (required)")
	summarizeCmd.Flags().StringVar(&summarizeEndpoint, "endpoint", "", "Summarize proxy URL, e.g. http://localhost:8080/api/summarize")

	if err := summarizeCmd.MarkFlagRequired("text"); err != nil {
		panic(fmt.Sprintf("failed to mark text flag as required: %v", err))
	}

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(summarizeText) == "" {
		return errors.New("text is required")
	}
	cfg := loadConfig()

	var s summarize.Summarizer
	if summarizeEndpoint != "" {
		s = summarize.NewClient(summarizeEndpoint, &http.Client{Timeout: 60 * time.Second})
	} else {
		s = summarize.Local{Provider: summarize.FromConfig(cfg)}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.SummaryTimeoutSeconds+30)*time.Second)
	defer cancel()

	res := s.Summarize(ctx, summarizeText)
	if res.Outcome != summarize.OutcomeSuccess {
		return fmt.Errorf("%s: %s", res.Outcome, res.Text)
	}
	fmt.Println(res.Text)
	return nil
}
