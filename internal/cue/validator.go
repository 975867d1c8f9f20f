// Package cue validates decoded configuration against embedded CUE schemas.
package cue

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// ValidationError is one schema violation.
type ValidationError struct {
	Path    string // dotted field path, empty for document-level errors
	Message string
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Validator handles CUE validation
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// LoadSchemas compiles every embedded .cue file. A schema is stored under
// its base name (config.cue -> config).
func (v *Validator) LoadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return fmt.Errorf("could not read schema %s: %w", entry.Name(), err)
		}

		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if instErr := inst.Err(); instErr != nil {
			return fmt.Errorf("could not compile schema %s: %w", entry.Name(), instErr)
		}
		v.schemas[strings.TrimSuffix(entry.Name(), ".cue")] = inst
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas loaded")
	}
	return nil
}

// ValidateConfig validates a decoded configuration map against #Config.
func (v *Validator) ValidateConfig(data map[string]any) ([]ValidationError, error) {
	schema, ok := v.schemas["config"]
	if !ok {
		return nil, fmt.Errorf("config schema not loaded")
	}
	return v.validateAgainstSchema(schema, data, "config")
}

// validateAgainstSchema unifies data with the #<SchemaType> definition.
func (v *Validator) validateAgainstSchema(schema cue.Value, data map[string]any, schemaType string) ([]ValidationError, error) {
	dataValue := v.ctx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return nil, fmt.Errorf("error encoding data: %w", encErr)
	}

	defPath := cue.ParsePath("#" + strings.ToUpper(schemaType[:1]) + schemaType[1:])
	def := schema.LookupPath(defPath)
	if !def.Exists() {
		return nil, fmt.Errorf("schema definition %s not found", defPath)
	}

	unified := def.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return extractErrors(err), nil
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrors(err), nil
	}
	return nil, nil
}

// extractErrors flattens a CUE error list into path-tagged messages, sorted
// by path so the first error is stable.
func extractErrors(err error) []ValidationError {
	var out []ValidationError
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		p := fieldPath(e.Path())
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if seen[p+"\x00"+msg] {
			continue
		}
		seen[p+"\x00"+msg] = true
		out = append(out, ValidationError{Path: p, Message: msg})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// fieldPath joins path segments, dropping definition names such as #Config.
func fieldPath(segments []string) string {
	var parts []string
	for _, s := range segments {
		if !strings.HasPrefix(s, "#") {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ".")
}
