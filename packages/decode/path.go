package decode

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Path extracts a sub-document from a JSON body by gjson path and decodes
// only that fragment. Useful for APIs that envelope their payloads, e.g.
// Path("data.user", JSON{}) against {"data":{"user":{...}}}.
type Path struct {
	path  string
	inner Decoder
}

func NewPath(path string, inner Decoder) *Path {
	return &Path{path: path, inner: inner}
}

func (p *Path) Decode(data []byte, v any) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("path %q: body is not valid JSON", p.path)
	}

	result := gjson.GetBytes(data, p.path)
	if !result.Exists() {
		return fmt.Errorf("path %q: no such element in body", p.path)
	}

	// result.Raw is the untouched JSON for scalar and composite values
	// alike, so the inner decoder sees well-formed JSON.
	return p.inner.Decode([]byte(result.Raw), v)
}
