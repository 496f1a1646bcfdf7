package validation

import (
	"fmt"
	"sort"
	"sync"

	"talent-workers/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON schema for job variables.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

var (
	mu       sync.Mutex
	compiled = map[string]*Schema{}
)

// MustCompile compiles and caches a schema by name. It panics on an invalid
// schema, so it belongs in package-level var blocks.
func MustCompile(name, source string) *Schema {
	mu.Lock()
	defer mu.Unlock()

	if s, ok := compiled[name]; ok {
		return s
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("invalid schema %s: %v", name, err))
	}
	out := &Schema{name: name, schema: s}
	compiled[name] = out
	return out
}

// ValidateVariables checks raw job variables and returns a
// SCHEMA_VALIDATION_FAILED error listing every violation.
func (s *Schema) ValidateVariables(variables string) error {
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return errors.NewParseError(err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	sort.Strings(violations)
	return errors.NewSchemaValidationError(violations).WithMetadata("schema", s.name)
}
