// Package cmd implements the reqx CLI commands.
package cmd
