// Package version exposes the build version embedded in the binary.
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var raw string

// String returns the version with surrounding whitespace trimmed.
func String() string {
	return strings.TrimSpace(raw)
}
