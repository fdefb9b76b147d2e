package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"off": LevelOff, "PHASE": LevelPhase, "detail": LevelDetail, "debug": LevelDebug} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeEvaluator) {
		t.Fatal("phase must not emit evaluator spans")
	}
	if !LevelDetail.ShouldEmit(ScopeEvaluator) || LevelDetail.ShouldEmit(ScopeMatch) {
		t.Fatal("detail emits evaluators but not matches")
	}
	if !LevelDebug.ShouldEmit(ScopeMatch) {
		t.Fatal("debug emits everything")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	doc, ctx := Start(ctx, ScopeDocument, "evaluate")
	ev, _ := Start(ctx, ScopeEvaluator, "constructs")
	ev.WithExtra("matches", "3").End("")
	Point(tr, ScopeMatch, "dropped", "", doc.ID())
	doc.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var end jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &end); err != nil {
		t.Fatal(err)
	}
	if end.Kind != "end" || end.Name != "constructs" || end.ParentID != doc.ID() || end.Extra["matches"] != "3" {
		t.Fatalf("unexpected evaluator end event: %+v", end)
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopeMatch, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "• c") {
		t.Fatalf("dump missing event: %s", buf.String())
	}
}

func TestNopContext(t *testing.T) {
	span, ctx := Start(context.Background(), ScopeDriver, "run")
	if span.ID() != 0 || CurrentSpan(ctx).SpanID != 0 {
		t.Fatal("nop tracer must not allocate spans")
	}
	if d := span.End(""); d != 0 {
		t.Fatalf("nop span duration = %v", d)
	}
}

func TestNewMultiExposesRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	m, ok := tr.(*MultiTracer)
	if !ok || m.Ring() == nil {
		t.Fatalf("ModeBoth should build a MultiTracer with a ring, got %T", tr)
	}
	Begin(tr, ScopeDriver, "run", 0).End("")
	if len(m.Ring().Snapshot()) != 2 || buf.Len() == 0 {
		t.Fatal("events must reach both tracers")
	}
}
