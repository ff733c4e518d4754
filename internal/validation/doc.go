// Package validation checks local file paths for the command-line tool: that an
// input is a readable sales export with a supported extension, and that output
// locations can be written.
package validation
