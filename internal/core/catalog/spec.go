package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is the serializable form of a catalog. Patterns are RE2 expressions; a
// case-insensitive flag is added on compile when absent.
type Spec struct {
	Sections []SectionSpec `yaml:"sections,omitempty"`
	Fields   []FieldSpec   `yaml:"fields,omitempty"`
	Dates    []EventSpec   `yaml:"dates,omitempty"`
	BOQ      *BOQSpec      `yaml:"boq,omitempty"`
	Critical []string      `yaml:"critical_fields,omitempty"`
}

type SectionSpec struct {
	Tag     string `yaml:"tag"`
	Pattern string `yaml:"pattern"`
}

type FieldSpec struct {
	Name     string   `yaml:"name"`
	Kind     Kind     `yaml:"kind,omitempty"`
	Patterns []string `yaml:"patterns"`
}

type EventSpec struct {
	Event    string   `yaml:"event"`
	Patterns []string `yaml:"patterns"`
}

type BOQSpec struct {
	Trigger    string       `yaml:"trigger"`
	MinColumns int          `yaml:"min_columns,omitempty"`
	Columns    []ColumnSpec `yaml:"columns"`
}

type ColumnSpec struct {
	Name    string `yaml:"name"`
	Kind    Kind   `yaml:"kind,omitempty"`
	Pattern string `yaml:"pattern"`
}

// Merge returns base with every block present in override replacing the matching block
// of base wholesale. Blocks are not merged entry by entry.
func Merge(base, override Spec) Spec {
	out := base
	if override.Sections != nil {
		out.Sections = override.Sections
	}
	if override.Fields != nil {
		out.Fields = override.Fields
	}
	if override.Dates != nil {
		out.Dates = override.Dates
	}
	if override.BOQ != nil {
		out.BOQ = override.BOQ
	}
	if override.Critical != nil {
		out.Critical = override.Critical
	}
	return out
}

// Parse decodes a YAML catalog document, overlays it on the built-in catalog and
// compiles the result.
func Parse(data []byte) (*Catalog, error) {
	var override Spec
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return Compile(Merge(DefaultSpec(), override))
}

// LoadFile reads a YAML catalog override from path. See Parse.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Marshal renders a Spec as YAML, the format LoadFile accepts.
func Marshal(spec Spec) ([]byte, error) {
	return yaml.Marshal(spec)
}
