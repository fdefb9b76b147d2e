package observ

import (
	"strings"
	"testing"
)

func TestNilTimerIsInert(t *testing.T) {
	var timer *Timer
	idx := timer.Begin("evaluate")
	if idx != -1 {
		t.Fatalf("Begin on nil timer = %d, want -1", idx)
	}
	timer.End(idx, "note")
	if rep := timer.Report(); rep != nil {
		t.Fatalf("Report on nil timer = %+v, want nil", rep)
	}
}

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	c := timer.Begin("cache")
	timer.End(c, "false")
	e := timer.Begin("evaluate")
	timer.End(e, "3 diagnostics")
	timer.End(42, "ignored")

	rep := timer.Report()
	if rep == nil || len(rep.Phases) != 2 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if rep.Phases[0].Name != "cache" || rep.Phases[1].Note != "3 diagnostics" {
		t.Fatalf("phases out of order: %+v", rep.Phases)
	}
	if !strings.Contains(rep.Summary(), "// 3 diagnostics") {
		t.Fatalf("summary lacks note:\n%s", rep.Summary())
	}
}

func TestAggregate(t *testing.T) {
	a := &Report{TotalMS: 3, Phases: []PhaseReport{{Name: "cache", DurationMS: 1, Count: 1}, {Name: "evaluate", DurationMS: 2, Count: 1}}}
	b := &Report{TotalMS: 1.5, Phases: []PhaseReport{{Name: "cache", DurationMS: 1.5, Count: 1, Note: "true"}}}
	got := Aggregate([]*Report{a, nil, b})
	if got.TotalMS != 4.5 {
		t.Fatalf("total = %v, want 4.5", got.TotalMS)
	}
	if len(got.Phases) != 2 || got.Phases[0].Name != "cache" {
		t.Fatalf("phases = %+v", got.Phases)
	}
	if got.Phases[0].DurationMS != 2.5 || got.Phases[0].Count != 2 || got.Phases[0].Note != "" {
		t.Fatalf("cache phase = %+v", got.Phases[0])
	}
	if !strings.Contains(got.Summary(), "// 2 files") {
		t.Fatalf("summary:\n%s", got.Summary())
	}
}
