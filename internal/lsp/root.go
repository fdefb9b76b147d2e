package lsp

import (
	"os"
	"path/filepath"

	"wals/internal/driver"
	"wals/internal/project"
)

// setupFor returns the engine for the project that owns path. Documents
// without a path (untitled buffers) use the workspace root. Setups are cached
// per wals.toml directory until the next save.
func (s *Server) setupFor(path string) (*driver.Setup, error) {
	s.mu.Lock()
	start := resolveStartDir(path)
	if start == "" {
		start = s.workspaceRoot
	}
	s.mu.Unlock()

	cfg := project.Default()
	if start != "" {
		found, _, err := project.Discover(start)
		if err != nil {
			return nil, err
		}
		cfg = found
	}

	s.mu.Lock()
	setup, ok := s.setups[cfg.Root]
	s.mu.Unlock()
	if ok {
		return setup, nil
	}
	setup, err := s.newSetup(cfg)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.setups[cfg.Root] = setup
	s.mu.Unlock()
	return setup, nil
}

func resolveStartDir(path string) string {
	if path == "" {
		return ""
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}
