// File: internal/annotate/bundle.go
package annotate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Bundle combines up to one highlight, arrow and label for a single box.
type Bundle struct {
	Highlight *HighlightOptions `yaml:"highlight,omitempty" json:"highlight,omitempty"`
	Arrow     *ArrowOptions     `yaml:"arrow,omitempty" json:"arrow,omitempty"`
	Label     *LabelSpec        `yaml:"label,omitempty" json:"label,omitempty"`
}

// LabelSpec is a label with its text.
type LabelSpec struct {
	Text         string `yaml:"text" json:"text"`
	LabelOptions `yaml:",inline"`
}

// Empty reports whether the bundle draws nothing.
func (b Bundle) Empty() bool {
	return b.Highlight == nil && b.Arrow == nil && b.Label == nil
}

// ParseBundle decodes a bundle from YAML. JSON input is accepted as well,
// being a subset of YAML. Unknown keys are rejected.
func ParseBundle(data []byte) (Bundle, error) {
	var b Bundle
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		if errors.Is(err, io.EOF) {
			return Bundle{}, nil
		}
		return Bundle{}, fmt.Errorf("invalid annotation bundle: %w", err)
	}
	if b.Label != nil && b.Label.Text == "" {
		return Bundle{}, fmt.Errorf("invalid annotation bundle: label.text is required")
	}
	return b, nil
}

// LoadBundle reads and parses a bundle file.
func LoadBundle(path string) (Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to read annotation bundle %s: %w", path, err)
	}
	return ParseBundle(data)
}
