package ui

import (
	"strings"
	"testing"

	"wals/internal/driver"
)

func TestApplyEventTracksCompletion(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("diag", []string{"a.html", "b.html"}, events).(*progressModel)

	m.applyEvent(driver.Event{File: "a.html", Stage: driver.StageEvaluate, Status: driver.StatusWorking})
	if m.items[0].status != "evaluating" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	m.applyEvent(driver.Event{File: "a.html", Stage: driver.StageEvaluate, Status: driver.StatusDone, Diagnostics: 3})
	m.applyEvent(driver.Event{File: "a.html", Stage: driver.StageEvaluate, Status: driver.StatusDone, Diagnostics: 3})
	if m.found != 3 {
		t.Fatalf("found = %d, want 3", m.found)
	}
	if got := m.percent(); got != 0.5 {
		t.Fatalf("percent = %v, want 0.5", got)
	}
	m.applyEvent(driver.Event{File: "b.html", Stage: driver.StageEvaluate, Status: driver.StatusCached})
	if got := m.percent(); got != 1.0 {
		t.Fatalf("percent = %v, want 1", got)
	}
	// неизвестные файлы игнорируются
	if cmd := m.applyEvent(driver.Event{File: "zzz.html", Status: driver.StatusDone}); cmd != nil {
		t.Fatal("unknown file must be ignored")
	}
	view := m.View()
	if !strings.Contains(view, "cached") || !strings.Contains(view, "(3)") {
		t.Fatalf("view missing states:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 5); got != "ab..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
}
