package diag

import "fmt"

// Severity defines the importance of a diagnostic. Higher is worse.
type Severity uint8

const (
	// SevHint marks suggestions that are not defects by themselves.
	SevHint Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevHint:
		return "HINT"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Level returns the 1..4 scale used by rule catalogues and LSP (1 = error, 4 = hint).
func (s Severity) Level() int {
	if s > SevError {
		return 1
	}
	return int(SevError-s) + 1
}

// SeverityFromLevel maps the 1..4 scale back to a Severity.
func SeverityFromLevel(level int) (Severity, error) {
	if level < 1 || level > 4 {
		return 0, fmt.Errorf("severity %d out of range 1..4", level)
	}
	return SevError - Severity(level-1), nil //nolint:gosec // level checked above
}
