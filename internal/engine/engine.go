// Package engine evaluates one HTML document: it runs the construct
// validators and the catalogue rules over the text and assembles their
// findings into capped, ordered diagnostics.
package engine

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"wals/internal/contrast"
	"wals/internal/diag"
	"wals/internal/pattern"
	"wals/internal/rules"
	"wals/internal/source"
	"wals/internal/trace"
)

// DefaultMaxDiagnostics caps a document's diagnostics when Options leaves it unset.
const DefaultMaxDiagnostics = 100

// Options are the per-call evaluation settings.
type Options struct {
	MaxDiagnostics  int
	Level           contrast.Level
	SemanticExclude bool
}

// withDefaults fills unset fields. A non-positive cap means the default.
func (o Options) withDefaults() Options {
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = DefaultMaxDiagnostics
	}
	if o.Level == "" {
		o.Level = contrast.LevelAA
	}
	return o
}

// Document is the text under evaluation. File tags the emitted spans.
type Document struct {
	File source.FileID
	Text string
}

// Result holds the diagnostics of one evaluation in emission order.
type Result struct {
	Diagnostics []diag.Diagnostic
	// Truncated is set when the cap refused a diagnostic. A document with
	// exactly MaxDiagnostics findings is not truncated.
	Truncated bool
}

// Config selects what an Engine runs.
type Config struct {
	// Library locates constructs for the built-in validators; nil disables them.
	Library *pattern.Library
	// Catalogue supplies data-driven rules; nil means none.
	Catalogue *rules.Catalogue
}

// Engine is immutable after New and safe for concurrent use.
type Engine struct {
	evaluators []Evaluator
}

// New builds an engine: construct validators first, then catalogue rules in
// catalogue order.
func New(cfg Config) *Engine {
	e := &Engine{}
	if cfg.Library != nil {
		e.evaluators = append(e.evaluators, constructEvaluator{lib: cfg.Library})
	}
	if cfg.Catalogue != nil {
		for _, r := range cfg.Catalogue.Rules {
			e.evaluators = append(e.evaluators, chainEvaluator{rule: r})
		}
	}
	return e
}

// Evaluators lists the engine's evaluators in run order.
func (e *Engine) Evaluators() []Evaluator {
	return append([]Evaluator(nil), e.evaluators...)
}

var defaultEngine = sync.OnceValues(func() (*Engine, error) {
	cat, err := rules.Default()
	if err != nil {
		return nil, fmt.Errorf("default catalogue: %w", err)
	}
	return New(Config{Library: pattern.Default(), Catalogue: cat}), nil
})

// Default returns the shared engine with the built-in validators and the
// embedded catalogue.
func Default() (*Engine, error) {
	return defaultEngine()
}

// Evaluate runs the default engine over text.
func Evaluate(ctx context.Context, text string, opts Options) (Result, error) {
	e, err := Default()
	if err != nil {
		return Result{}, err
	}
	return e.Evaluate(ctx, Document{Text: text}, opts)
}

// Evaluate scans doc with every evaluator in order. Scanning stops at the
// first diagnostic refused because MaxDiagnostics were already emitted. On cancellation the
// diagnostics emitted so far are returned together with ctx.Err().
func (e *Engine) Evaluate(ctx context.Context, doc Document, opts Options) (Result, error) {
	opts = opts.withDefaults()

	span, ctx := trace.Start(ctx, trace.ScopeDocument, "evaluate")
	defer span.End("")

	bag := diag.NewBag(opts.MaxDiagnostics)
	var rep diag.Reporter = diag.BagReporter{Bag: bag}
	if opts.SemanticExclude {
		rep = diag.FilterReporter{Next: rep, Exclude: map[diag.Category]bool{diag.CatSemantic: true}}
	}
	g := &gate{next: diag.NewDedupReporter(rep)}
	in := Input{Doc: doc, Level: opts.Level}

	var err error
	for _, ev := range e.evaluators {
		if err = ctx.Err(); err != nil {
			break
		}
		evSpan, evCtx := trace.Start(ctx, trace.ScopeEvaluator, ev.Name())
		err = ev.Evaluate(evCtx, in, g)
		evSpan.End("")
		if err != nil || g.closed {
			break
		}
	}

	span.WithExtra("diagnostics", strconv.Itoa(bag.Len()))
	return Result{Diagnostics: bag.Items(), Truncated: g.closed}, err
}

// gate remembers that the downstream reporter refused a diagnostic. Once
// closed it refuses everything.
type gate struct {
	next   diag.Reporter
	closed bool
}

func (g *gate) Report(d diag.Diagnostic) bool {
	if g.closed {
		return false
	}
	if !g.next.Report(d) {
		g.closed = true
	}
	return !g.closed
}
