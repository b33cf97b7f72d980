// Package schema validates sidebar documents against the embedded JSON Schema
// of the sidebar wire format.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed sidebars.schema.json
var sidebarSchemaData []byte

const sidebarSchemaURL = "sidebars.schema.json"

// ErrInvalid is wrapped by every schema violation.
var ErrInvalid = errors.New("schema validation failed")

// SidebarSchema returns the raw JSON Schema of the sidebar format.
func SidebarSchema() []byte {
	return bytes.Clone(sidebarSchemaData)
}

// Validator validates sidebar documents against the embedded schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(sidebarSchemaURL, bytes.NewReader(sidebarSchemaData)); err != nil {
		return nil, fmt.Errorf("failed to add embedded schema resource: %w", err)
	}
	s, err := compiler.Compile(sidebarSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile embedded schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Validate checks a sidebar document. data is either raw JSON ([]byte,
// json.RawMessage) or any value that marshals to JSON.
func (v *Validator) Validate(data any) error {
	var raw []byte
	switch d := data.(type) {
	case []byte:
		raw = d
	case json.RawMessage:
		raw = d
	default:
		var err error
		if raw, err = json.Marshal(data); err != nil {
			return fmt.Errorf("failed to marshal sidebars for validation: %w", err)
		}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal sidebars for validation: %w", err)
	}

	if err := v.schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			var messages []string
			collectErrors(verr, &messages)
			return fmt.Errorf("%w:\n%s", ErrInvalid, strings.Join(messages, "\n"))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// collectErrors flattens the cause tree, keeping the innermost messages.
func collectErrors(err *jsonschema.ValidationError, messages *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*messages = append(*messages, fmt.Sprintf("- %s: %s", loc, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
	defaultErr       error
)

// ValidateSidebars validates data with a shared validator.
func ValidateSidebars(data any) error {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = NewValidator()
	})
	if defaultErr != nil {
		return defaultErr
	}
	return defaultValidator.Validate(data)
}
