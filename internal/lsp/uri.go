package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
)

// uriToPath returns the filesystem path of a file URI, or "" for other schemes.
func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "" && parsed.Scheme != "file" {
		return ""
	}
	path := parsed.Path
	if parsed.Scheme == "" {
		path = uri
	}
	// file:///C:/x -> C:/x
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	path = filepath.FromSlash(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return u.String()
}

// canonicalURI normalizes file URIs so that differently escaped spellings of
// one path share state. Other schemes (untitled:, etc.) pass through.
func canonicalURI(uri string) string {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, "file:") {
		return uri
	}
	if path := uriToPath(uri); path != "" {
		return pathToURI(path)
	}
	return uri
}
