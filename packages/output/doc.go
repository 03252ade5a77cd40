// Package output renders call outcomes for the reqx CLI.
package output
