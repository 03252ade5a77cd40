package decode

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema validates a JSON body against a JSON Schema before delegating to
// the inner decoder. A schema violation is a decoding failure: the body
// did not match the expected shape.
type Schema struct {
	schema gojsonschema.JSONLoader
	inner  Decoder
}

// SchemaError reports the violations found while validating a body.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("body does not match schema: %s", strings.Join(e.Violations, "; "))
}

// NewSchema builds a Schema decoder from raw JSON Schema text. The inner
// decoder receives the body unchanged after validation passes; pass
// JSON{} unless a different decoding is needed.
func NewSchema(schemaJSON string, inner Decoder) *Schema {
	return &Schema{
		schema: gojsonschema.NewStringLoader(schemaJSON),
		inner:  inner,
	}
}

func (s *Schema) Decode(data []byte, v any) error {
	result, err := gojsonschema.Validate(s.schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}
		return &SchemaError{Violations: violations}
	}

	return s.inner.Decode(data, v)
}
