package decode

import (
	"encoding/json"
	"encoding/xml"

	"gopkg.in/yaml.v3"
)

// Decoder converts raw bytes into the value pointed to by v.
// Implementations must be pure with respect to their inputs and safe for
// concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

// JSON decodes application/json bodies via encoding/json.
type JSON struct{}

func (JSON) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// XML decodes application/xml bodies via encoding/xml.
type XML struct{}

func (XML) Decode(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}

// YAML decodes YAML bodies via gopkg.in/yaml.v3.
type YAML struct{}

func (YAML) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
