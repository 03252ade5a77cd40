// Package config handles configuration loading and management for reqx.
//
// It provides functionality for:
//   - Loading configuration from .reqx.config.json and friends
//   - Default configuration values
//   - Merging file config with flag overrides
package config
