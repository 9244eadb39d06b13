package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

//go:embed report.schema.json
var reportSchemaJSON []byte

const reportSchemaURL = "report.schema.json"

var reportSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(reportSchemaURL, bytes.NewReader(reportSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(reportSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// Report is the JSON rendering of one analysis.
type Report struct {
	Source           string                  `json:"source"`
	ProcessedAt      time.Time               `json:"processed_at"`
	AnalysisID       string                  `json:"analysis_id,omitempty"`
	ValidationStatus string                  `json:"validation_status"`
	KeyFields        entity.KeyFieldResult   `json:"key_fields"`
	Fields           []entity.FieldReport    `json:"fields"`
	Dates            []entity.DateEvent      `json:"dates"`
	BOQItems         []entity.BOQItem        `json:"boq_items"`
	Validation       entity.ValidationReport `json:"validation"`
	Sections         entity.SectionMap       `json:"sections"`
	Summaries        []entity.SectionSummary `json:"summaries"`
	Text             string                  `json:"text"`
}

// NewReport flattens res into its report form. Empty collections render as [] or {}.
func NewReport(res *entity.StructuredResult, meta Meta) Report {
	meta = meta.withDefaults(res)
	r := Report{
		Source:           meta.Source,
		ProcessedAt:      meta.ProcessedAt.UTC(),
		ValidationStatus: ValidationStatus(res.Validation),
		KeyFields:        res.KeyFields,
		Fields:           res.Fields,
		Dates:            res.Dates,
		BOQItems:         res.BOQItems,
		Validation:       res.Validation,
		Sections:         res.Sections,
		Summaries:        res.Summaries,
		Text:             res.Document.Lines,
	}
	if r.KeyFields == nil {
		r.KeyFields = entity.KeyFieldResult{}
	}
	if r.Fields == nil {
		r.Fields = []entity.FieldReport{}
	}
	if r.Dates == nil {
		r.Dates = []entity.DateEvent{}
	}
	if r.BOQItems == nil {
		r.BOQItems = []entity.BOQItem{}
	}
	if r.Validation == nil {
		r.Validation = entity.ValidationReport{}
	}
	if r.Sections == nil {
		r.Sections = entity.SectionMap{}
	}
	if r.Summaries == nil {
		r.Summaries = []entity.SectionSummary{}
	}
	return r
}

// RenderJSON returns the indented JSON report. The document is checked against the
// report schema before it is returned.
func (s *Service) RenderJSON(res *entity.StructuredResult, meta Meta) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("json: nil result")
	}
	return s.renderReport(NewReport(res, meta))
}

// RenderAnalysisJSON renders a persisted analysis, tagging the report with its ID.
func (s *Service) RenderAnalysisJSON(a *entity.Analysis) ([]byte, error) {
	if a == nil || a.Result == nil {
		return nil, fmt.Errorf("json: analysis has no result")
	}
	meta := Meta{Source: a.Source, ProcessedAt: a.StartedAt}
	if a.FinishedAt != nil {
		meta.ProcessedAt = *a.FinishedAt
	}
	r := NewReport(a.Result, meta)
	r.AnalysisID = a.ID.String()
	return s.renderReport(r)
}

func (s *Service) renderReport(r Report) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	if err := ValidateReport(b); err != nil {
		return nil, err
	}
	s.logger.Debug("export.json.ok", "source", r.Source, "bytes", len(b))
	return b, nil
}

// ValidateReport checks data against the report schema.
func ValidateReport(data []byte) error {
	schema, err := reportSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal report: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("report does not match schema: %w", err)
	}
	return nil
}
