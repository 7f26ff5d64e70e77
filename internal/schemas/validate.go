// Package schemas provides JSON Schema validation for structured model output.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// DocumentError indicates the document is not parseable JSON.
type DocumentError struct {
	Cause error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("failed to load JSON document: %v", e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// Validator is a compiled schema that can validate many documents.
type Validator struct {
	schema *gojsonschema.Schema
}

// Compile parses schema content once for repeated validation.
func Compile(schemaContent string) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaContent))
	if err != nil {
		return nil, &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema could not be compiled",
			Cause:   err,
		}
	}
	return &Validator{schema: schema}, nil
}

// Validate checks JSON content against the compiled schema.
func (v *Validator) Validate(jsonContent string) error {
	result, err := v.schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &DocumentError{Cause: err}
	}
	if result.Valid() {
		return nil
	}
	return buildValidationError(result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	v, err := Compile(schemaContent)
	if err != nil {
		return err
	}
	return v.Validate(jsonContent)
}

// buildValidationError converts gojsonschema result errors into a ValidationError.
func buildValidationError(result *gojsonschema.Result) *ValidationError {
	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
