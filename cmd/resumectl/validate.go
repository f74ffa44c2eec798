package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"resume-builder/resume/model"
)

var validateCmd = &cobra.Command{
	Use:   "validate <draft.json>",
	Short: "Validate a draft JSON file against the draft schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	_, err := readDraft(args[0])
	var schemaErr *model.SchemaError
	if errors.As(err, &schemaErr) {
		for _, f := range schemaErr.Fields {
			fmt.Printf("%s: %s\n", f.Field, f.Message)
		}
		return fmt.Errorf("%d schema violations", len(schemaErr.Fields))
	}
	if err != nil {
		return err
	}
	fmt.Println("OK")
	return nil
}
