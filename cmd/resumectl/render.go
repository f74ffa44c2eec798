package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"resume-builder/resume/model"
	"resume-builder/resume/render"
	"resume-builder/resume/templates"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a draft to PDF or HTML",
	Long:  "Renders a draft JSON file with one template, or with every template when --all is set.",
	RunE:  runRender,
}

var (
	renderInput    string
	renderTemplate string
	renderOutput   string
	renderColors   string
	renderEngine   string
	renderHTML     bool
	renderAll      bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "in", "i", "", "Path to draft JSON file (required)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", string(templates.Modern), "Template id")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Output file, or directory with --all (required)")
	renderCmd.Flags().StringVar(&renderColors, "colors", "", "Path to a palette JSON file keyed by template id")
	renderCmd.Flags().StringVar(&renderEngine, "engine", "", "PDF engine (native or chrome); defaults to PDF_ENGINE")
	renderCmd.Flags().BoolVar(&renderHTML, "html", false, "Write the HTML preview instead of a PDF")
	renderCmd.Flags().BoolVar(&renderAll, "all", false, "Render every template concurrently")

	if err := renderCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := renderCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	draft, err := readDraft(renderInput)
	if err != nil {
		return err
	}
	palettes, err := loadPalettes(renderColors)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	kind := cfg.PDFEngine
	if renderEngine != "" {
		kind = renderEngine
	}
	engine := render.NewEngine(kind, cfg.ChromePath)
	ctx := cmd.Context()

	if !renderAll {
		id := templates.Parse(renderTemplate)
		return renderOne(ctx, engine, draft, id, palettes.For(id), renderOutput)
	}

	if err := os.MkdirAll(renderOutput, 0o755); err != nil {
		return err
	}
	ext := ".pdf"
	if renderHTML {
		ext = ".html"
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range templates.All() {
		out := filepath.Join(renderOutput, string(id)+ext)
		g.Go(func() error {
			return renderOne(gctx, engine, draft, id, palettes.For(id), out)
		})
	}
	return g.Wait()
}

func renderOne(ctx context.Context, engine render.Engine, draft model.ResumeDraft, id templates.ID, palette templates.Palette, out string) error {
	req := render.Request{Draft: draft, Template: id, Palette: palette}

	var (
		body []byte
		err  error
	)
	if renderHTML {
		var html string
		html, err = render.Preview(req)
		body = []byte(html)
	} else {
		body, err = engine.PDF(ctx, req)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", id, err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(out, body, 0o644); err != nil {
		return err
	}
	fmt.Printf("OK: wrote %s (%s)\n", out, id)
	return nil
}

func loadPalettes(path string) (templates.Palettes, error) {
	if path == "" {
		return templates.DefaultPalettes(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read colors file: %w", err)
	}
	palettes, err := templates.DecodePalettes(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid colors file: %w", err)
	}
	return palettes, nil
}
