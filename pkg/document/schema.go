package document

import (
	"bytes"
	_ "embed"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/matzehuels/varbridge/pkg/errors"
)

const schemaURL = "https://varbridge.dev/schema/document.json"

// maxSchemaErrors caps how many schema violations are reported at once.
const maxSchemaErrors = 5

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the embedded JSON Schema describing both the canonical and
// the legacy document shape.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// checkSchema validates a generic JSON value (as produced by json.Unmarshal
// into any) against the document schema.
func checkSchema(v any) error {
	s, err := compiledSchema()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "compile document schema")
	}

	err = s.Validate(v)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !stderrors.As(err, &ve) {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "schema validation")
	}
	return errors.New(errors.ErrCodeInvalidDocument, "%s", formatViolations(ve))
}

// formatViolations flattens the cause tree into one message per instance
// location, sorted by location.
func formatViolations(ve *jsonschema.ValidationError) string {
	byLocation := make(map[string]string)
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			if _, seen := byLocation[loc]; !seen {
				byLocation[loc] = e.Message
			}
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)

	locations := make([]string, 0, len(byLocation))
	for loc := range byLocation {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	parts := make([]string, 0, maxSchemaErrors)
	for i, loc := range locations {
		if i == maxSchemaErrors {
			parts = append(parts, fmt.Sprintf("and %d more", len(locations)-maxSchemaErrors))
			break
		}
		parts = append(parts, fmt.Sprintf("%s: %s", loc, byLocation[loc]))
	}
	return "document does not match schema: " + strings.Join(parts, "; ")
}
