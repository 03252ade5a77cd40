package executor

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/reqx/packages/decode"
)

// ClientError is the closed set of failures this package produces. The
// only implementations are InvalidResponseError, DecodingError, and
// NetworkError; the unexported marker method keeps the set closed.
type ClientError interface {
	error
	clientError()
}

// InvalidResponseError means the response metadata failed validation:
// either the status code fell outside [200, 300), or the transfer did not
// yield a recognizable HTTP response at all (StatusCode -1).
type InvalidResponseError struct {
	StatusCode  int
	URL         string
	Description string
	Headers     map[string]string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response from %s: %d %s", e.URL, e.StatusCode, e.Description)
}

func (e *InvalidResponseError) clientError() {}

// DecodingError means the response body did not decode into the requested
// type.
type DecodingError struct {
	Cause error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decoding response: %v", e.Cause)
}

func (e *DecodingError) Unwrap() error { return e.Cause }

func (e *DecodingError) clientError() {}

// NetworkError covers every failure that is neither a validation nor a
// decoding problem: transport errors, DNS failures, timeouts, cancelled
// contexts.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network: %v", e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

func (e *NetworkError) clientError() {}

// Classify normalizes any error surfaced by the pipeline into exactly one
// ClientError. Already-classified errors pass through unchanged, errors
// recognizable as decoding failures become DecodingError, and everything
// else becomes NetworkError.
func Classify(err error) ClientError {
	var ce ClientError
	if errors.As(err, &ce) {
		return ce
	}
	if isDecodingError(err) {
		return &DecodingError{Cause: err}
	}
	return &NetworkError{Cause: err}
}

// isDecodingError recognizes the error types the shipped decoders
// produce. Custom Decoder implementations do not need to appear here:
// the executor wraps decode-stage failures by position, so this check
// only matters for decoding errors that surface outside that stage.
func isDecodingError(err error) bool {
	var (
		jsonSyntax  *json.SyntaxError
		jsonType    *json.UnmarshalTypeError
		xmlSyntax   *xml.SyntaxError
		yamlType    *yaml.TypeError
		schemaError *decode.SchemaError
	)
	return errors.As(err, &jsonSyntax) ||
		errors.As(err, &jsonType) ||
		errors.As(err, &xmlSyntax) ||
		errors.As(err, &yamlType) ||
		errors.As(err, &schemaError)
}
