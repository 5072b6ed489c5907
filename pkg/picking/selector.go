package picking

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hdmap/viewer/pkg/config"
)

// FileFilter is one entry of the selection dialog filter list.
type FileFilter struct {
	Name     string
	Patterns []string
}

// FiltersFromConfig converts the configured tool filters.
func FiltersFromConfig(in []config.FileFilter) []FileFilter {
	out := make([]FileFilter, len(in))
	for i, f := range in {
		out[i] = FileFilter{Name: f.Name, Patterns: append([]string(nil), f.Patterns...)}
	}
	return out
}

// DefaultFilters are the OpenDRIVE and XML filters.
func DefaultFilters() []FileFilter {
	return []FileFilter{
		{Name: "OpenDRIVE Files", Patterns: []string{"*.xodr"}},
		{Name: "XML Files", Patterns: []string{"*.xml"}},
	}
}

// String renders the filter the way file dialogs show it, e.g. "XML Files (*.xml)".
func (f FileFilter) String() string {
	return fmt.Sprintf("%s (%s)", f.Name, strings.Join(f.Patterns, " "))
}

// Match reports whether the base name of path matches one of the patterns.
// Matching ignores case.
func (f FileFilter) Match(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, p := range f.Patterns {
		if ok, err := filepath.Match(strings.ToLower(p), base); err == nil && ok {
			return true
		}
	}
	return false
}

// FileSelector asks the user for a file. An empty path means the user
// cancelled.
type FileSelector interface {
	SelectFile(filters []FileFilter) (string, error)
}

// SelectorFunc adapts a function to FileSelector.
type SelectorFunc func(filters []FileFilter) (string, error)

// SelectFile calls f.
func (f SelectorFunc) SelectFile(filters []FileFilter) (string, error) {
	return f(filters)
}

// StaticSelector always selects Path.
type StaticSelector struct {
	Path string
}

// SelectFile returns s.Path.
func (s StaticSelector) SelectFile([]FileFilter) (string, error) {
	return s.Path, nil
}

// FilterSelector drops selections that match none of the filters.
type FilterSelector struct {
	Next FileSelector
}

// SelectFile returns the path chosen by Next, or "" when no filter matches it.
func (s FilterSelector) SelectFile(filters []FileFilter) (string, error) {
	path, err := s.Next.SelectFile(filters)
	if err != nil || path == "" {
		return path, err
	}
	for _, f := range filters {
		if f.Match(path) {
			return path, nil
		}
	}
	return "", nil
}
