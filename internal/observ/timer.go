package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed step of a document evaluation (cache lookup,
// evaluation, store).
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer records the phases of one document. A nil *Timer is valid and
// records nothing, so callers need not branch on whether timings are on.
// Not safe for concurrent use.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Begin starts a phase and returns its index, or -1 on a nil Timer.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End closes the phase idx.
func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// PhaseReport представляет сжатую информацию о фазе для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
	// Count is the number of documents folded into an aggregate.
	Count int `json:"count,omitempty"`
}

// Report описывает фазы одного документа или их сумму по прогону.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the recorded phases. Nil for a nil or empty Timer.
func (t *Timer) Report() *Report {
	if t == nil || len(t.phases) == 0 {
		return nil
	}
	report := &Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: millis(phase.Dur),
			Note:       phase.Note,
			Count:      1,
		}
	}
	report.TotalMS = millis(total)
	return report
}

// Aggregate sums reports phase by phase, keeping first-seen phase order.
// Notes are dropped since they describe single documents.
func Aggregate(reports []*Report) Report {
	var out Report
	index := make(map[string]int)
	for _, r := range reports {
		if r == nil {
			continue
		}
		out.TotalMS += r.TotalMS
		for _, p := range r.Phases {
			i, ok := index[p.Name]
			if !ok {
				i = len(out.Phases)
				index[p.Name] = i
				out.Phases = append(out.Phases, PhaseReport{Name: p.Name})
			}
			out.Phases[i].DurationMS += p.DurationMS
			out.Phases[i].Count++
		}
	}
	return out
}

// Summary renders the report as an aligned table.
func (r Report) Summary() string {
	var sb strings.Builder
	for _, p := range r.Phases {
		fmt.Fprintf(&sb, "  %-10s %7.2f ms", p.Name, p.DurationMS)
		switch {
		case p.Note != "":
			sb.WriteString("  // " + p.Note)
		case p.Count > 1:
			fmt.Fprintf(&sb, "  // %d files", p.Count)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-10s %7.2f ms\n", "total", r.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
