// Package locator resolves command-line targets to parser document paths.
package locator

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// ErrNotFound means the target matched no document.
	ErrNotFound = errors.New("no document found")
)

// DefaultPattern matches the parser's output documents.
const DefaultPattern = "**/*.json"

// Options configures resolution.
type Options struct {
	BaseDir string
	Pattern string
}

// Option is a functional option for Resolve and Discover.
type Option func(*Options)

// WithBaseDir sets the base directory for glob and basename searches.
func WithBaseDir(dir string) Option {
	return func(o *Options) { o.BaseDir = dir }
}

// WithPattern overrides the document glob used by Discover.
func WithPattern(pattern string) Option {
	return func(o *Options) { o.Pattern = pattern }
}

// Resolve expands one target to document paths. Resolution order: exact
// path, directory, glob, basename search.
func Resolve(target string, opts ...Option) ([]string, error) {
	options := apply(opts)

	if info, err := os.Stat(target); err == nil {
		if !info.IsDir() {
			return []string{target}, nil
		}
		return Discover(target, WithPattern(options.Pattern))
	}

	if containsGlobChars(target) {
		return glob(target, options.BaseDir)
	}

	if looksLikeFilename(target) {
		return glob("**/"+target, options.BaseDir)
	}

	return nil, ErrNotFound
}

// Discover lists every parser document under dir, sorted.
func Discover(dir string, opts ...Option) ([]string, error) {
	options := apply(opts)
	return glob(options.Pattern, dir)
}

func apply(opts []Option) *Options {
	options := &Options{BaseDir: ".", Pattern: DefaultPattern}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

func containsGlobChars(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

func looksLikeFilename(s string) bool {
	return filepath.Ext(s) != "" && !strings.Contains(s, string(filepath.Separator))
}

func glob(pattern, baseDir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(baseDir), pattern)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}

	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = filepath.Join(baseDir, m)
	}
	sort.Strings(paths)
	return paths, nil
}
