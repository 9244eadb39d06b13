// Package catalog holds the compiled pattern catalogs that drive extraction: section
// triggers, key-field patterns, date-event patterns, BOQ row/column patterns and the
// list of critical fields. A Catalog is immutable once compiled and is safe to share
// between goroutines.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/tender-analyzer/constants"
)

// ErrInvalidCatalog is returned by Compile for structurally broken catalogs.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Kind selects the post-processing applied to a captured value.
type Kind string

const (
	KindText      Kind = "text"
	KindAmount    Kind = "amount"
	KindDate      Kind = "date"
	KindFirstLine Kind = "firstline"
)

func (k Kind) valid() bool {
	switch k {
	case KindText, KindAmount, KindDate, KindFirstLine:
		return true
	}
	return false
}

type SectionTrigger struct {
	Tag     constants.SectionTag
	Pattern *regexp.Regexp
}

type FieldPatterns struct {
	Name     string
	Kind     Kind
	Patterns []*regexp.Regexp
}

type EventPatterns struct {
	Event    string
	Patterns []*regexp.Regexp
}

type Column struct {
	Name    string
	Kind    Kind
	Pattern *regexp.Regexp
}

// BOQ is the row trigger plus the per-line column patterns of the BOQ state machine.
type BOQ struct {
	Trigger *regexp.Regexp
	Columns []Column
	// MinColumns is the number of populated columns a buffered row needs to be emitted.
	MinColumns int
}

type Catalog struct {
	sections []SectionTrigger
	fields   []FieldPatterns
	events   []EventPatterns
	boq      BOQ
	critical []string
	kinds    map[string]Kind
}

// Sections returns the section triggers in tie-break order. Callers must not modify
// the returned slice.
func (c *Catalog) Sections() []SectionTrigger { return c.sections }

// Fields returns the key-field catalog in output order.
func (c *Catalog) Fields() []FieldPatterns { return c.fields }

func (c *Catalog) Events() []EventPatterns { return c.events }

func (c *Catalog) BOQ() BOQ { return c.boq }

// Critical lists the fields whose absence is reported by the validator.
func (c *Catalog) Critical() []string { return c.critical }

// ColumnNames returns the BOQ column names in catalog order.
func (c *Catalog) ColumnNames() []string {
	out := make([]string, 0, len(c.boq.Columns))
	for _, col := range c.boq.Columns {
		out = append(out, col.Name)
	}
	return out
}

// FieldNames returns the key-field names in catalog order.
func (c *Catalog) FieldNames() []string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.Name
	}
	return names
}

// Kind returns the kind of the named key field, KindText for unknown names.
func (c *Catalog) Kind(field string) Kind {
	if k, ok := c.kinds[field]; ok {
		return k
	}
	return KindText
}

// Compile validates a Spec and compiles every pattern case-insensitively.
func Compile(spec Spec) (*Catalog, error) {
	c := &Catalog{kinds: make(map[string]Kind, len(spec.Fields))}

	seenTags := make(map[string]struct{}, len(spec.Sections))
	for i, s := range spec.Sections {
		tag := strings.TrimSpace(s.Tag)
		if tag == "" {
			return nil, fmt.Errorf("%w: section %d has no tag", ErrInvalidCatalog, i)
		}
		if _, dup := seenTags[tag]; dup {
			return nil, fmt.Errorf("%w: duplicate section tag %q", ErrInvalidCatalog, tag)
		}
		seenTags[tag] = struct{}{}
		re, err := compilePattern(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", tag, err)
		}
		c.sections = append(c.sections, SectionTrigger{Tag: constants.SectionTag(tag), Pattern: re})
	}

	for _, f := range spec.Fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: field with no name", ErrInvalidCatalog)
		}
		if _, dup := c.kinds[name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidCatalog, name)
		}
		kind := f.Kind
		if kind == "" {
			kind = KindText
		}
		if !kind.valid() {
			return nil, fmt.Errorf("%w: field %q has unknown kind %q", ErrInvalidCatalog, name, kind)
		}
		res, err := compileAll(f.Patterns)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		c.kinds[name] = kind
		c.fields = append(c.fields, FieldPatterns{Name: name, Kind: kind, Patterns: res})
	}

	seenEvents := make(map[string]struct{}, len(spec.Dates))
	for _, e := range spec.Dates {
		name := strings.TrimSpace(e.Event)
		if name == "" {
			return nil, fmt.Errorf("%w: date event with no name", ErrInvalidCatalog)
		}
		if _, dup := seenEvents[name]; dup {
			return nil, fmt.Errorf("%w: duplicate date event %q", ErrInvalidCatalog, name)
		}
		seenEvents[name] = struct{}{}
		res, err := compileAll(e.Patterns)
		if err != nil {
			return nil, fmt.Errorf("date event %q: %w", name, err)
		}
		c.events = append(c.events, EventPatterns{Event: name, Patterns: res})
	}

	if spec.BOQ != nil {
		boq, err := compileBOQ(*spec.BOQ)
		if err != nil {
			return nil, err
		}
		c.boq = boq
	}

	for _, name := range spec.Critical {
		if _, ok := c.kinds[name]; !ok {
			return nil, fmt.Errorf("%w: critical field %q is not in the field catalog", ErrInvalidCatalog, name)
		}
		c.critical = append(c.critical, name)
	}
	return c, nil
}

func compileBOQ(spec BOQSpec) (BOQ, error) {
	var b BOQ
	if len(spec.Columns) > 0 && strings.TrimSpace(spec.Trigger) == "" {
		return b, fmt.Errorf("%w: boq columns without a row trigger", ErrInvalidCatalog)
	}
	if spec.Trigger != "" {
		re, err := compilePattern(spec.Trigger)
		if err != nil {
			return b, fmt.Errorf("boq trigger: %w", err)
		}
		b.Trigger = re
	}
	seen := make(map[string]struct{}, len(spec.Columns))
	for _, col := range spec.Columns {
		name := strings.TrimSpace(col.Name)
		if name == "" {
			return b, fmt.Errorf("%w: boq column with no name", ErrInvalidCatalog)
		}
		if _, dup := seen[name]; dup {
			return b, fmt.Errorf("%w: duplicate boq column %q", ErrInvalidCatalog, name)
		}
		seen[name] = struct{}{}
		kind := col.Kind
		if kind == "" {
			kind = KindText
		}
		if !kind.valid() {
			return b, fmt.Errorf("%w: boq column %q has unknown kind %q", ErrInvalidCatalog, name, kind)
		}
		re, err := compilePattern(col.Pattern)
		if err != nil {
			return b, fmt.Errorf("boq column %q: %w", name, err)
		}
		b.Columns = append(b.Columns, Column{Name: name, Kind: kind, Pattern: re})
	}
	b.MinColumns = spec.MinColumns
	if b.MinColumns <= 0 {
		b.MinColumns = DefaultMinBOQColumns
	}
	return b, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: no patterns", ErrInvalidCatalog)
	}
	out := make([]*regexp.Regexp, 0, len(patterns))
	for i, p := range patterns {
		re, err := compilePattern(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func compilePattern(p string) (*regexp.Regexp, error) {
	if strings.TrimSpace(p) == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidCatalog)
	}
	if !strings.HasPrefix(p, "(?i)") {
		p = "(?i)" + p
	}
	return regexp.Compile(p)
}

// LastGroup returns the text of the highest-numbered capture group that participated
// in the match described by loc (as returned by FindStringSubmatchIndex), or the whole
// match when no group participated.
func LastGroup(s string, loc []int) string {
	for i := len(loc)/2 - 1; i >= 1; i-- {
		if loc[2*i] >= 0 {
			return s[loc[2*i]:loc[2*i+1]]
		}
	}
	return s[loc[0]:loc[1]]
}
