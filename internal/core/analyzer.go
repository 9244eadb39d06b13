package core

import (
	"log/slog"
	"time"

	"github.com/joseph-ayodele/tender-analyzer/internal/core/boq"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/catalog"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/dates"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/fields"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/segment"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/summary"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/textnorm"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/validate"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

// Analyzer turns raw document text into a StructuredResult. It holds only read-only
// state and may be shared by any number of goroutines.
type Analyzer struct {
	catalog       *catalog.Catalog
	summaryLength int
	logger        *slog.Logger
}

type AnalyzerOption func(*Analyzer)

// WithSummaryLength sets the per-section summary budget in characters.
func WithSummaryLength(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.summaryLength = n
		}
	}
}

func WithAnalyzerLogger(l *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAnalyzer builds an Analyzer over cat; a nil catalog selects the built-in one.
func NewAnalyzer(cat *catalog.Catalog, opts ...AnalyzerOption) *Analyzer {
	if cat == nil {
		cat = catalog.Default()
	}
	a := &Analyzer{
		catalog:       cat,
		summaryLength: summary.DefaultMaxLength,
		logger:        slog.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Analyzer) Catalog() *catalog.Catalog { return a.catalog }

// Analyze runs every extraction stage over raw. It never fails: unusable input
// produces a catalog-complete result with empty values and diagnostics.
func (a *Analyzer) Analyze(source, raw string) *entity.StructuredResult {
	start := time.Now()

	doc := entity.RawDocument{
		Source: source,
		Text:   textnorm.Normalize(raw),
		Lines:  textnorm.NormalizeLines(raw),
	}
	sections := segment.Segment(a.catalog, doc.Lines)
	keyFields := fields.Extract(a.catalog, doc.Text)
	events := dates.Extract(a.catalog, doc.Text)
	items := boq.FromSections(a.catalog, sections)
	report := validate.Validate(a.catalog, keyFields)

	res := &entity.StructuredResult{
		Document:   doc,
		Sections:   sections,
		KeyFields:  keyFields,
		Fields:     validate.Reports(a.catalog, keyFields, report),
		Dates:      events,
		BOQItems:   items,
		Validation: report,
		Summaries:  summary.Sections(sections, a.summaryLength),
	}

	a.logger.Debug("analysis.ok",
		"source", source,
		"chars", len(doc.Text),
		"sections", len(sections),
		"dates", len(events),
		"boq_items", len(items),
		"diagnostics", len(report),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res
}
