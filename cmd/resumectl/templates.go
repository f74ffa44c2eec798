package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resume-builder/resume/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the available templates and their default colors",
	RunE: func(_ *cobra.Command, _ []string) error {
		for _, t := range templates.Catalog() {
			p := t.DefaultPalette()
			fmt.Printf("%-8s %-8s primary=%s secondary=%s accent=%s  %s\n",
				t.ID(), t.Name(), p.Primary, p.Secondary, p.Accent, t.Description())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
