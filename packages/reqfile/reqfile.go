// Package reqfile loads declarative request files for the CLI.
//
// A request file is a small YAML document:
//
//	method: GET
//	url: https://api.example.com/users/1
//	headers:
//	  Accept: application/json
//	body: |
//	  {"name": "A"}
//	timeout: 5s
package reqfile

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/reqx/packages/session"
)

type file struct {
	Method  string            `yaml:"method"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
	Body    string            `yaml:"body"`
	Timeout string            `yaml:"timeout"`
}

// Load reads a request file and returns the request it describes.
func Load(path string) (*session.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds a request from raw YAML.
func Parse(data []byte) (*session.Request, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse request file: %w", err)
	}

	if f.URL == "" {
		return nil, fmt.Errorf("request file has no url")
	}
	if err := session.ValidateURL(f.URL); err != nil {
		return nil, err
	}

	method := strings.ToUpper(strings.TrimSpace(f.Method))
	if method == "" {
		method = "GET"
	}

	req := session.NewRequest(method, f.URL)
	for k, v := range f.Headers {
		req.Headers[k] = v
	}
	req.Body = f.Body

	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", f.Timeout, err)
		}
		req.Timeout = d
	}

	return req, nil
}
