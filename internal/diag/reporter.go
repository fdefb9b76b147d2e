package diag

import "wals/internal/source"

// Reporter: минимальный контракт получения диагностик от проверок.
// Report returns false once the reporter accepts no more diagnostics,
// which tells producers to stop scanning.
type Reporter interface {
	Report(d Diagnostic) bool
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
	accepted bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     New(sev, code, primary, msg),
	}
}

// WithCategory overrides the category derived from the code.
func (b *ReportBuilder) WithCategory(c Category) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Category = c
	return b
}

// WithRule tags the diagnostic with a catalogue rule id.
func (b *ReportBuilder) WithRule(id string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Rule = id
	return b
}

// WithNote appends a note to diagnostic.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithNote(sp, msg)
	return b
}

// Emit sends diagnostic to underlying reporter exactly once and returns
// whether the reporter still accepts diagnostics.
func (b *ReportBuilder) Emit() bool {
	if b == nil {
		return false
	}
	if b.emitted {
		return b.accepted
	}
	b.emitted = true
	b.accepted = b.reporter != nil && b.reporter.Report(b.diag)
	return b.accepted
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) bool {
	if r.Bag == nil {
		return false
	}
	return r.Bag.Add(d)
}

// FilterReporter drops diagnostics whose category is excluded.
type FilterReporter struct {
	Next    Reporter
	Exclude map[Category]bool
}

func (r FilterReporter) Report(d Diagnostic) bool {
	if r.Next == nil {
		return false
	}
	if r.Exclude[d.Category] {
		return true
	}
	return r.Next.Report(d)
}
