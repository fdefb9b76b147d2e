package rules

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"wals/internal/diag"
)

var (
	// ErrInvalidCatalogue reports a catalogue whose document shape is wrong.
	ErrInvalidCatalogue = errors.New("invalid rule catalogue")
	// ErrUnsupportedVersion reports a catalogue version outside the supported range.
	ErrUnsupportedVersion = errors.New("unsupported catalogue version")
)

const (
	// SupportedVersions is the semver constraint catalogues must satisfy.
	SupportedVersions = "^1"
	defaultVersion    = "1.0.0"
)

//go:embed catalogue/default.yaml
var defaultCatalogue []byte

// RuleError describes a rule that was rejected while loading a catalogue.
type RuleError struct {
	Index int
	ID    string
	Err   error
}

func (e RuleError) Error() string {
	return fmt.Sprintf("rule %d (%s): %v", e.Index, e.ID, e.Err)
}

func (e RuleError) Unwrap() error { return e.Err }

// Format is the serialization of a catalogue file.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks the format from the file extension; JSON by default.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Catalogue is a loaded set of rules. Rejected rules never reach Rules.
type Catalogue struct {
	Source   string
	Version  *semver.Version
	Rules    []*Rule
	Rejected []RuleError
}

// Len returns the number of accepted rules.
func (c *Catalogue) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Rules)
}

type patterns []string

// UnmarshalJSON accepts a single pattern or a list of patterns.
func (p *patterns) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*p = patterns{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*p = many
	return nil
}

type filterOptions struct {
	Contains bool `json:"contains"`
	Negative bool `json:"negative"`
	Replace  bool `json:"replace"`
}

type filterRecord struct {
	Identifier string        `json:"identifier"`
	Options    filterOptions `json:"options"`
}

type ruleRecord struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Identifier patterns       `json:"identifier"`
	Severity   int            `json:"severity"`
	Message    string         `json:"message"`
	Filters    []filterRecord `json:"filters"`
}

// Parse decodes and validates a catalogue. Document-level problems fail the
// whole load; problems with a single rule reject that rule, log a warning and
// keep the others.
func Parse(data []byte, format Format, source string, logger *slog.Logger) (*Catalogue, error) {
	if logger == nil {
		logger = slog.Default()
	}
	doc, err := decodeDocument(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCatalogue, source, err)
	}
	sch, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	if err := sch.catalogue.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCatalogue, source, err)
	}
	// shape checked by the schema
	top, _ := doc.(map[string]any)

	version, err := catalogueVersion(top["version"])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	cat := &Catalogue{Source: source, Version: version}
	raw, _ := top["rules"].([]any)
	for i, item := range raw {
		rule, id, err := buildRule(i, item, sch.rule)
		if err != nil {
			rerr := RuleError{Index: i, ID: id, Err: err}
			cat.Rejected = append(cat.Rejected, rerr)
			logger.Warn("rule rejected", "source", source, "index", i, "id", id, "err", err)
			continue
		}
		cat.Rules = append(cat.Rules, rule)
	}
	return cat, nil
}

// Load reads a catalogue file, picking the format from its extension.
func Load(path string, logger *slog.Logger) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, FormatForPath(path), path, logger)
}

var defaultOnce = sync.OnceValues(func() (*Catalogue, error) {
	return Parse(defaultCatalogue, FormatYAML, "builtin:default.yaml", slog.Default())
})

// Default returns the embedded catalogue. The result is shared and must not
// be modified.
func Default() (*Catalogue, error) {
	return defaultOnce()
}

// Merge concatenates the rules of several catalogues in order.
func Merge(cats ...*Catalogue) *Catalogue {
	out := &Catalogue{Source: "merged"}
	sources := make([]string, 0, len(cats))
	for _, c := range cats {
		if c == nil {
			continue
		}
		sources = append(sources, c.Source)
		out.Rules = append(out.Rules, c.Rules...)
		out.Rejected = append(out.Rejected, c.Rejected...)
		if out.Version == nil || (c.Version != nil && c.Version.GreaterThan(out.Version)) {
			out.Version = c.Version
		}
	}
	if len(sources) > 0 {
		out.Source = strings.Join(sources, ",")
	}
	return out
}

func decodeDocument(data []byte, format Format) (any, error) {
	if format == FormatYAML {
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		// yaml.v3 produces the same shapes as encoding/json for string keys;
		// a JSON round trip normalizes numbers for the validator.
		buf, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		data = buf
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func catalogueVersion(raw any) (*semver.Version, error) {
	s, _ := raw.(string)
	if s == "" {
		s = defaultVersion
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, s, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return nil, err
	}
	if !constraint.Check(v) {
		return nil, fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, SupportedVersions)
	}
	return v, nil
}

func buildRule(index int, item any, schema *jsonschema.Schema) (*Rule, string, error) {
	id := fmt.Sprintf("rule-%d", index)
	if m, ok := item.(map[string]any); ok {
		if s, ok := m["id"].(string); ok && s != "" {
			id = s
		}
	}
	if err := schema.Validate(item); err != nil {
		return nil, id, err
	}
	buf, err := json.Marshal(item)
	if err != nil {
		return nil, id, err
	}
	var rec ruleRecord
	if err := json.Unmarshal(buf, &rec); err != nil {
		return nil, id, err
	}
	rule, err := compileRule(id, rec)
	return rule, id, err
}

func compileRule(id string, rec ruleRecord) (*Rule, error) {
	sev, err := diag.SeverityFromLevel(rec.Severity)
	if err != nil {
		return nil, err
	}
	if len(rec.Filters) == 0 {
		return nil, errors.New("rule has no filters")
	}
	alts := make([]string, 0, len(rec.Identifier))
	for _, p := range rec.Identifier {
		if _, err := regexp.Compile(p); err != nil {
			return nil, fmt.Errorf("identifier %q: %w", p, err)
		}
		alts = append(alts, "(?:"+p+")")
	}
	primary, err := regexp.Compile("(?i)" + strings.Join(alts, "|"))
	if err != nil {
		return nil, err
	}
	filters := make([]Filter, 0, len(rec.Filters))
	for i, f := range rec.Filters {
		mode, err := f.Options.mode()
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		re, err := regexp.Compile("(?i)" + f.Identifier)
		if err != nil {
			return nil, fmt.Errorf("filter %d %q: %w", i, f.Identifier, err)
		}
		filters = append(filters, Filter{Source: f.Identifier, Pattern: re, Mode: mode})
	}
	return &Rule{
		ID:          id,
		Category:    diag.ParseCategory(rec.Type),
		Identifiers: rec.Identifier,
		Severity:    sev,
		Message:     rec.Message,
		Filters:     filters,
		primary:     primary,
	}, nil
}

func (o filterOptions) mode() (Mode, error) {
	n := 0
	mode := ModeContains
	if o.Contains {
		n++
	}
	if o.Negative {
		n++
		mode = ModeNegative
	}
	if o.Replace {
		n++
		mode = ModeReplace
	}
	if n > 1 {
		return 0, errors.New("at most one of contains, negative, replace may be set")
	}
	return mode, nil
}
