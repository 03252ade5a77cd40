// Package decode converts raw response bodies into typed values.
//
// All decoders implement the Decoder interface consumed by the executor:
//   - JSON, XML, YAML decode whole bodies
//   - Schema validates JSON bodies against a JSON Schema before decoding
//   - Path extracts a sub-document by gjson path before decoding
package decode
