package model

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var draftSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(draftSchema)

// SchemaError lists every field that failed draft schema validation.
type SchemaError struct {
	Fields []FieldError
}

// FieldError is a single failed rule at a JSON path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid resume draft: " + strings.Join(parts, "; ")
}

// ValidateJSON checks a serialized draft against the embedded schema.
func ValidateJSON(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validate draft: %w", err)
	}
	if result.Valid() {
		return nil
	}
	out := &SchemaError{}
	for _, re := range result.Errors() {
		out.Fields = append(out.Fields, FieldError{Field: re.Field(), Message: re.Description()})
	}
	return out
}
