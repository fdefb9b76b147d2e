package lsp

import (
	"encoding/json"

	"wals/internal/contrast"
	"wals/internal/engine"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Warn("invalid configuration params", "err", err)
		return nil
	}
	if s.applySettings(params.Settings) {
		s.revalidateAll()
	}
	return nil
}

// applySettings merges a webAccessibility section into the current settings.
// Both {"webAccessibility": {...}} and the bare section are accepted; fields
// absent from raw keep their previous value.
func (s *Server) applySettings(raw json.RawMessage) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	var wrapped lspSettings
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		s.logger.Warn("invalid settings", "err", err)
		return false
	}
	section := wrapped.WebAccessibility
	if section == nil {
		section = &accessibilitySettings{}
		if err := json.Unmarshal(raw, section); err != nil {
			s.logger.Warn("invalid settings", "err", err)
			return false
		}
	}
	if section.ConformanceLevel != nil {
		if _, err := contrast.ParseLevel(*section.ConformanceLevel); err != nil {
			s.logger.Warn("ignoring conformanceLevel", "err", err)
			section.ConformanceLevel = nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if section.MaxNumberOfProblems != nil {
		s.settings.MaxNumberOfProblems = section.MaxNumberOfProblems
	}
	if section.SemanticExclude != nil {
		s.settings.SemanticExclude = section.SemanticExclude
	}
	if section.ConformanceLevel != nil {
		s.settings.ConformanceLevel = section.ConformanceLevel
	}
	if section.Trace != nil {
		s.settings.Trace = section.Trace
	}
	return true
}

// apply overrides project defaults with client settings.
func (a accessibilitySettings) apply(opts engine.Options) engine.Options {
	if a.MaxNumberOfProblems != nil {
		opts.MaxDiagnostics = *a.MaxNumberOfProblems
	}
	if a.SemanticExclude != nil {
		opts.SemanticExclude = *a.SemanticExclude
	}
	if a.ConformanceLevel != nil {
		if level, err := contrast.ParseLevel(*a.ConformanceLevel); err == nil {
			opts.Level = level
		}
	}
	return opts
}
