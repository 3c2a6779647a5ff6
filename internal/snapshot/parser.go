// File: internal/snapshot/parser.go
package snapshot

import (
	"regexp"
	"strings"

	"github.com/xkilldash9x/browser-viz/internal/geometry"
)

// UnknownRole is the role given to elements whose line carries a reference
// marker but no leading `role "name"` pair.
const UnknownRole = "unknown"

// RefPrefix is the sigil prepended to reference ids.
const RefPrefix = "@"

var (
	refPattern  = regexp.MustCompile(`\[ref=([^\]]+)\]`)
	rolePattern = regexp.MustCompile(`^[\s-]*(\w+)\s+"([^"]*)"`)
)

// Element is one interactive element from an accessibility snapshot.
type Element struct {
	Ref  string        `json:"ref"`
	Role string        `json:"role"`
	Name string        `json:"name,omitempty"`
	Box  *geometry.Box `json:"box,omitempty"`
}

// Parse extracts the elements of a snapshot in line order. Lines without a
// `[ref=...]` marker are skipped. Parsing never fails; unrecognized text
// yields fewer elements.
func Parse(text string) []Element {
	elements := []Element{}
	// No line length limit: accessible names can be arbitrarily long.
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		m := refPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		el := Element{Ref: RefPrefix + m[1], Role: UnknownRole}
		if rm := rolePattern.FindStringSubmatch(line); rm != nil {
			el.Role = rm[1]
			el.Name = rm[2]
		}
		elements = append(elements, el)
	}
	return elements
}

// NormalizeRef adds the reference sigil when it is missing.
func NormalizeRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, RefPrefix) {
		return ref
	}
	return RefPrefix + ref
}
