package lsp

import (
	"context"
	"errors"
	"time"

	"wals/internal/diag"
	"wals/internal/engine"
	"wals/internal/source"
)

// scheduleValidation (re)starts the debounce timer of one document and
// cancels its running validation. Other documents are unaffected.
func (s *Server) scheduleValidation(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[uri]
	if doc == nil || s.shutdownRequested {
		return
	}
	doc.stop()
	seq := doc.seq
	doc.timer = time.AfterFunc(s.debounce, func() {
		s.validate(uri, seq)
	})
}

func (s *Server) revalidateAll() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	for _, uri := range uris {
		s.scheduleValidation(uri)
	}
}

// validate evaluates the document if seq is still its latest edit and
// publishes the result. Stale results are dropped.
func (s *Server) validate(uri string, seq uint64) {
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil || doc.seq != seq || s.shutdownRequested {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	doc.cancel = cancel
	text, version := doc.text, doc.version
	settings := s.settings
	s.mu.Unlock()
	defer cancel()

	started := time.Now()
	list, err := s.diagnose(ctx, uri, text, settings)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Error("validation failed", "uri", uri, "err", err)
		}
		return
	}
	if settings.Trace != nil && *settings.Trace {
		s.logger.Info("validated", "uri", uri, "version", version, "diagnostics", len(list), "elapsed", time.Since(started))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if doc = s.docs[uri]; doc == nil || doc.seq != seq {
		return
	}
	doc.cancel = nil
	if len(list) > 0 {
		s.published[uri] = struct{}{}
	} else {
		delete(s.published, uri)
	}
	if err := s.sendPublish(uri, &version, list); err != nil {
		s.logger.Warn("failed to publish diagnostics", "uri", uri, "err", err)
	}
}

func (s *Server) diagnose(ctx context.Context, uri, text string, settings accessibilitySettings) ([]lspDiagnostic, error) {
	setup, err := s.setupFor(uriToPath(uri))
	if err != nil {
		return nil, err
	}
	opts := settings.apply(setup.Eval)

	fileSet := source.NewFileSet()
	id := fileSet.AddVirtual(uri, []byte(text))
	res, err := setup.Engine.Evaluate(ctx, engine.Document{File: id, Text: text}, opts)
	if err != nil {
		return nil, err
	}
	return toLSPDiagnostics(uri, fileSet.Get(id), res.Diagnostics), nil
}

// toLSPDiagnostics maps engine diagnostics to the wire form: severity on the
// 1..4 scale, category as code, notes as related information.
func toLSPDiagnostics(uri string, file *source.File, diags []diag.Diagnostic) []lspDiagnostic {
	out := make([]lspDiagnostic, 0, len(diags))
	for _, d := range diags {
		item := lspDiagnostic{
			Range:    rangeForSpan(file, d.Primary),
			Severity: d.Severity.Level(),
			Code:     string(d.Category),
			Source:   DiagnosticSource,
			Message:  d.Message,
		}
		for _, n := range d.Notes {
			item.RelatedInformation = append(item.RelatedInformation, diagnosticRelatedInformation{
				Location: location{URI: uri, Range: rangeForSpan(file, n.Span)},
				Message:  n.Msg,
			})
		}
		out = append(out, item)
	}
	return out
}
