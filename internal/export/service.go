package export

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

const (
	SheetKeyFields = "Key Fields"
	SheetOverview  = "Overview"
	SheetDates     = "Important Dates"
	SheetBOQ       = "BOQ Items"
	SheetSections  = "Sections"
	SheetFullText  = "Full Text"

	notFound         = "Not Found"
	noContent        = "No meaningful content found"
	maxSectionLen    = 5000
	maxCellChars     = excelize.TotalCellChars
	processingLayout = "2006-01-02 15:04:05"
)

// Meta carries report details that are not part of the analysis itself.
type Meta struct {
	Source      string    // shown as the source file; defaults to the analyzed document's source
	ProcessedAt time.Time // defaults to now
	BOQColumns  []string  // column order for the BOQ sheet; defaults to the built-in columns
}

func (m Meta) withDefaults(res *entity.StructuredResult) Meta {
	if m.Source == "" {
		m.Source = res.Document.Source
	}
	if m.ProcessedAt.IsZero() {
		m.ProcessedAt = time.Now()
	}
	if len(m.BOQColumns) == 0 {
		m.BOQColumns = constants.BOQColumns
	}
	return m
}

// Service renders structured results into downloadable reports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ValidationStatus is the one-line verdict shown in reports.
func ValidationStatus(r entity.ValidationReport) string {
	if len(r) == 0 {
		return "All OK"
	}
	return fmt.Sprintf("%d issues found", len(r))
}

// RenderXLSX returns the analysis workbook as bytes.
func (s *Service) RenderXLSX(res *entity.StructuredResult, meta Meta) ([]byte, error) {
	start := time.Now()
	if res == nil {
		return nil, fmt.Errorf("xlsx: nil result")
	}
	meta = meta.withDefaults(res)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("xlsx close", "error", err)
		}
	}()

	st, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("xlsx styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetKeyFields); err != nil {
		return nil, err
	}
	steps := []func(*excelize.File, *styles, *entity.StructuredResult, Meta) error{
		writeKeyFields,
		writeOverview,
		writeDates,
		writeBOQ,
		writeSections,
		writeFullText,
	}
	for _, step := range steps {
		if err := step(f, st, res, meta); err != nil {
			return nil, fmt.Errorf("xlsx: %w", err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"source", meta.Source,
		"sections", len(res.Sections),
		"boq_items", len(res.BOQItems),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

type styles struct {
	header int
	wrap   int
	issue  int
}

func newStyles(f *excelize.File) (*styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D7E4BC"}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true},
	})
	if err != nil {
		return nil, err
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, err
	}
	issue, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFE6E6"}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true},
	})
	if err != nil {
		return nil, err
	}
	return &styles{header: header, wrap: wrap, issue: issue}, nil
}

// sheetWriter appends rows to one sheet.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func newSheet(f *excelize.File, name string) (*sheetWriter, error) {
	if idx, _ := f.GetSheetIndex(name); idx == -1 {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	return &sheetWriter{f: f, sheet: name, row: 1}, nil
}

func (w *sheetWriter) write(values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", w.sheet, w.row, err)
	}
	w.row++
	return nil
}

// header writes a row of column titles in the header style.
func (w *sheetWriter) header(style int, titles ...string) error {
	values := make([]any, len(titles))
	for i, t := range titles {
		values[i] = t
	}
	row := w.row
	if err := w.write(values...); err != nil {
		return err
	}
	return w.styleRow(row, len(titles), style)
}

func (w *sheetWriter) styleRow(row, cols, style int) error {
	from, _ := excelize.CoordinatesToCellName(1, row)
	to, _ := excelize.CoordinatesToCellName(cols, row)
	return w.f.SetCellStyle(w.sheet, from, to, style)
}

func (w *sheetWriter) skip(n int) { w.row += n }

func (w *sheetWriter) widths(style int, widths ...float64) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(w.sheet, col, col, width); err != nil {
			return err
		}
		if err := w.f.SetColStyle(w.sheet, col, style); err != nil {
			return err
		}
	}
	return nil
}

func writeKeyFields(f *excelize.File, st *styles, res *entity.StructuredResult, _ Meta) error {
	w, err := newSheet(f, SheetKeyFields)
	if err != nil {
		return err
	}
	if err := w.widths(st.wrap, 25, 50, 15); err != nil {
		return err
	}
	if err := w.header(st.header, "Field", "Value", "Status"); err != nil {
		return err
	}
	for _, fr := range res.Fields {
		value := fr.Value
		if value == "" {
			value = notFound
		}
		if err := w.write(fr.Name, cellText(value), string(fr.Status)); err != nil {
			return err
		}
	}

	if len(res.Validation) == 0 {
		return nil
	}
	w.skip(2)
	if err := w.header(st.header, "Validation Issues"); err != nil {
		return err
	}
	for _, d := range res.Validation {
		row := w.row
		if err := w.write(cellText(d.Message)); err != nil {
			return err
		}
		if err := w.styleRow(row, 3, st.issue); err != nil {
			return err
		}
	}
	return nil
}

func writeOverview(f *excelize.File, st *styles, res *entity.StructuredResult, meta Meta) error {
	w, err := newSheet(f, SheetOverview)
	if err != nil {
		return err
	}
	if err := w.widths(st.wrap, 25, 15, 80); err != nil {
		return err
	}
	if err := w.header(st.header, "Document Property", "Value"); err != nil {
		return err
	}
	props := [][2]any{
		{"Source File", meta.Source},
		{"Total Sections", len(res.Sections)},
		{"Total Characters", utf8.RuneCountInString(res.Document.Text)},
		{"Processing Date", meta.ProcessedAt.Format(processingLayout)},
		{"Validation Status", ValidationStatus(res.Validation)},
	}
	for _, p := range props {
		if err := w.write(p[0], p[1]); err != nil {
			return err
		}
	}

	w.skip(1)
	if err := w.header(st.header, "Section Analysis"); err != nil {
		return err
	}
	if err := w.header(st.header, "Section", "Character Count", "Summary"); err != nil {
		return err
	}
	for _, sum := range res.Summaries {
		text := sum.Summary
		if text == "" {
			text = noContent
		}
		if err := w.write(sum.Title, sum.CharCount, cellText(text)); err != nil {
			return err
		}
	}
	return nil
}

func writeDates(f *excelize.File, st *styles, res *entity.StructuredResult, _ Meta) error {
	if len(res.Dates) == 0 {
		return nil
	}
	w, err := newSheet(f, SheetDates)
	if err != nil {
		return err
	}
	if err := w.widths(st.wrap, 25, 20, 25); err != nil {
		return err
	}
	if err := w.header(st.header, "Event", "Date", "Original"); err != nil {
		return err
	}
	for _, d := range res.Dates {
		if err := w.write(d.Event, d.Date, cellText(d.Original)); err != nil {
			return err
		}
	}
	return nil
}

func writeBOQ(f *excelize.File, st *styles, res *entity.StructuredResult, meta Meta) error {
	if len(res.BOQItems) == 0 {
		return nil
	}
	cols := BOQColumns(res.BOQItems, meta.BOQColumns)
	if len(cols) == 0 {
		return nil
	}

	w, err := newSheet(f, SheetBOQ)
	if err != nil {
		return err
	}
	widths := make([]float64, len(cols))
	for i := range widths {
		widths[i] = 30
	}
	if err := w.widths(st.wrap, widths...); err != nil {
		return err
	}
	if err := w.header(st.header, cols...); err != nil {
		return err
	}
	for _, item := range res.BOQItems {
		values := make([]any, len(cols))
		for i, c := range cols {
			values[i] = cellText(item[c])
		}
		if err := w.write(values...); err != nil {
			return err
		}
	}
	return nil
}

// BOQColumns returns the columns populated in at least one item: those named in
// order first, then any others alphabetically.
func BOQColumns(items []entity.BOQItem, order []string) []string {
	used := map[string]bool{}
	for _, it := range items {
		for name, v := range it {
			if v != "" {
				used[name] = true
			}
		}
	}

	var cols []string
	for _, name := range order {
		if used[name] {
			cols = append(cols, name)
			delete(used, name)
		}
	}
	var extra []string
	for name := range used {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

func writeSections(f *excelize.File, st *styles, res *entity.StructuredResult, _ Meta) error {
	w, err := newSheet(f, SheetSections)
	if err != nil {
		return err
	}
	if err := w.widths(st.wrap, 25, 15, 100); err != nil {
		return err
	}
	if err := w.header(st.header, "Section", "Word Count", "Content"); err != nil {
		return err
	}
	for _, sec := range res.Sections {
		content := strings.TrimSpace(sec.Content)
		if err := w.write(sec.Tag.Title(), len(strings.Fields(sec.Content)), SectionContent(content)); err != nil {
			return err
		}
	}
	return nil
}

// SectionContent caps section text for the Sections sheet.
func SectionContent(s string) string {
	if utf8.RuneCountInString(s) <= maxSectionLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxSectionLen]) + "..."
}

func writeFullText(f *excelize.File, st *styles, res *entity.StructuredResult, _ Meta) error {
	w, err := newSheet(f, SheetFullText)
	if err != nil {
		return err
	}
	if err := w.widths(st.wrap, 120); err != nil {
		return err
	}
	if err := w.header(st.header, "Content"); err != nil {
		return err
	}
	for _, chunk := range chunkLines(res.Document.Lines, maxCellChars) {
		if err := w.write(chunk); err != nil {
			return err
		}
	}
	return nil
}

// chunkLines splits text at line breaks into pieces of at most limit runes each.
// A single line longer than limit is split mid-line.
func chunkLines(text string, limit int) []string {
	if text == "" {
		return nil
	}
	var (
		out []string
		cur []rune
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		r := []rune(line)
		if len(cur)+len(r) > limit {
			flush()
		}
		for len(r) > limit {
			out = append(out, string(r[:limit]))
			r = r[limit:]
		}
		cur = append(cur, r...)
	}
	flush()
	return out
}

// cellText keeps a value within the per-cell character limit.
func cellText(s string) string {
	if utf8.RuneCountInString(s) <= maxCellChars {
		return s
	}
	return string([]rune(s)[:maxCellChars])
}
