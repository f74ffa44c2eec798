package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"resume-builder/internal/export"
	"resume-builder/resume/render"
	"resume-builder/resume/templates"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a draft to a named PDF",
	Long:  "Runs the export flow without an account: renders, counts pages and writes <Full_Name>_resume.pdf.",
	RunE:  runExport,
}

var (
	exportInput    string
	exportTemplate string
	exportOutDir   string
)

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "in", "i", "", "Path to draft JSON file (required)")
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", string(templates.Modern), "Template id")
	exportCmd.Flags().StringVar(&exportOutDir, "out-dir", ".", "Directory for the exported file")

	if err := exportCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	draft, err := readDraft(exportInput)
	if err != nil {
		return err
	}
	cfg := loadConfig()
	svc := export.NewService(render.NewEngine(cfg.PDFEngine, cfg.ChromePath), nil, nil, nil)

	id := templates.Parse(exportTemplate)
	res, err := svc.Export(cmd.Context(), export.Request{
		Draft:    draft,
		Template: id,
		Palette:  templates.Resolve(id).DefaultPalette(),
	})
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", w.Step, w.Message)
	}

	if err := os.MkdirAll(exportOutDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(exportOutDir, res.FileName)
	if err := os.WriteFile(out, res.PDF, 0o644); err != nil {
		return err
	}
	fmt.Printf("OK: wrote %s (%d pages, %s)\n", out, res.Pages, res.Template)
	return nil
}
