// Package validate holds the advisory input checks used by the HTTP, CLI and
// terminal front ends. The aggregation service does not enforce them.
package validate

import (
	"regexp"
	"strings"
)

var ipv4Pattern = regexp.MustCompile(`^(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)

// IsIPv4 reports whether s is a dotted-quad with every octet in 0-255.
func IsIPv4(s string) bool {
	return ipv4Pattern.MatchString(s)
}

// IsAcceptableInput is IsIPv4 with the empty string treated as neutral, the
// state of an untouched input field.
func IsAcceptableInput(s string) bool {
	return s == "" || IsIPv4(s)
}

// Normalize trims surrounding whitespace from a submitted address.
func Normalize(s string) string {
	return strings.TrimSpace(s)
}
