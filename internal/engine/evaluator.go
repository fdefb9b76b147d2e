package engine

import (
	"context"

	"fortio.org/safecast"

	"wals/internal/checks"
	"wals/internal/contrast"
	"wals/internal/diag"
	"wals/internal/pattern"
	"wals/internal/rules"
	"wals/internal/source"
	"wals/internal/trace"
)

// ctxCheckEvery is how many matches an evaluator scans between ctx checks.
const ctxCheckEvery = 64

// Input is what every evaluator sees of one call.
type Input struct {
	Doc   Document
	Level contrast.Level
}

// Evaluator scans a document and reports diagnostics. It stops as soon as
// out.Report returns false and returns ctx.Err() when cancelled mid-scan.
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, in Input, out diag.Reporter) error
}

// constructEvaluator runs the pattern library and dispatches every match to
// its construct validator.
type constructEvaluator struct {
	lib *pattern.Library
}

func (constructEvaluator) Name() string { return "constructs" }

func (c constructEvaluator) Evaluate(ctx context.Context, in Input, out diag.Reporter) error {
	var (
		err  error
		seen int
	)
	cctx := checks.Context{Doc: in.Doc.Text, Level: in.Level}
	c.lib.Scan(in.Doc.Text, func(m pattern.Match) bool {
		seen++
		if seen%ctxCheckEvery == 0 {
			if err = ctx.Err(); err != nil {
				return false
			}
		}
		for _, f := range checks.Validate(cctx, m) {
			b, ok := builder(ctx, in.Doc, out, f.Start, f.End, f.Severity, f.Code, f.Message)
			if !ok {
				continue
			}
			for _, n := range f.Notes {
				if sp, ok := span(in.Doc, n.Start, n.End); ok {
					b.WithNote(sp, n.Msg)
				}
			}
			if !b.Emit() {
				return false
			}
		}
		return true
	})
	return err
}

// chainEvaluator runs one catalogue rule through its filter chain.
type chainEvaluator struct {
	rule *rules.Rule
}

func (c chainEvaluator) Name() string { return "rule:" + c.rule.ID }

func (c chainEvaluator) Evaluate(ctx context.Context, in Input, out diag.Reporter) error {
	var (
		err  error
		seen int
	)
	c.rule.Scan(in.Doc.Text, func(primary rules.Candidate) bool {
		seen++
		if seen%ctxCheckEvery == 0 {
			if err = ctx.Err(); err != nil {
				return false
			}
		}
		hit, ok := c.rule.Chain(primary)
		if !ok {
			return true
		}
		b, ok := builder(ctx, in.Doc, out, hit.Start, hit.End, c.rule.Severity, diag.CatalogueRule, c.rule.Message)
		if !ok {
			return true
		}
		return b.WithCategory(c.rule.Category).WithRule(c.rule.ID).Emit()
	})
	return err
}

// builder validates the span and prepares a diagnostic. Findings with an
// empty or out-of-range span are dropped.
func builder(ctx context.Context, doc Document, out diag.Reporter, start, end int, sev diag.Severity, code diag.Code, msg string) (*diag.ReportBuilder, bool) {
	sp, ok := span(doc, start, end)
	if !ok {
		trace.Point(trace.FromContext(ctx), trace.ScopeMatch, "dropped", code.ID(), trace.CurrentSpan(ctx).SpanID)
		return nil, false
	}
	return diag.NewReportBuilder(out, sev, code, sp, msg), true
}

func span(doc Document, start, end int) (source.Span, bool) {
	sp, err := source.NewSpan(doc.File, start, end)
	if err != nil {
		return source.Span{}, false
	}
	n, err := safecast.Conv[uint32](len(doc.Text))
	if err != nil || !sp.Within(n) {
		return source.Span{}, false
	}
	return sp, true
}
