package sassrender

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// StylesheetExt is the extension of files selected from globs and directories.
const StylesheetExt = ".scss"

// DiscoverStats tracks file discovery statistics
type DiscoverStats struct {
	Discovered int // Files found by globs and directory walks
	Selected   int // Stylesheets kept after filtering
	Skipped    int // Partials, other extensions and gitignored files
}

var (
	// gitignore caching
	gitIgnoreCache *ignore.GitIgnore
	gitIgnoreOnce  sync.Once
)

// IsStylesheet reports whether path is a renderable stylesheet: it has the
// .scss extension and is not a partial (name starting with "_").
func IsStylesheet(path string) bool {
	base := filepath.Base(path)
	return filepath.Ext(base) == StylesheetExt && !strings.HasPrefix(base, "_")
}

// loadGitIgnore loads the .gitignore file once (thread-safe)
// Gracefully degrades if .gitignore doesn't exist
func loadGitIgnore() *ignore.GitIgnore {
	gitIgnoreOnce.Do(func() {
		gi, err := ignore.CompileIgnoreFile(".gitignore")
		if err != nil {
			gitIgnoreCache = nil
			return
		}
		gitIgnoreCache = gi
	})
	return gitIgnoreCache
}

// shouldSkipFile reports whether a discovered file is left out.
//
// Two-layer filtering:
// 1. Name check: partials and non-stylesheets
// 2. Gitignore check: only for relative paths inside the project
func shouldSkipFile(path string) bool {
	if !IsStylesheet(path) {
		return true
	}

	if !filepath.IsAbs(path) {
		gi := loadGitIgnore()
		if gi != nil && gi.MatchesPath(path) {
			return true
		}
	}

	return false
}

// Discover expands patterns into stylesheet paths.
// See DiscoverWithStats.
func Discover(patterns []string) ([]string, error) {
	files, _, err := DiscoverWithStats(patterns)
	return files, err
}

// DiscoverWithStats expands patterns into stylesheet paths and tracks statistics.
//
// A pattern naming a directory is searched recursively. A pattern with glob
// metacharacters is expanded with ** support. Anything else is taken as an
// explicit source file and kept without filtering, so a missing file surfaces
// as a compile error instead of silently matching nothing.
func DiscoverWithStats(patterns []string) ([]string, DiscoverStats, error) {
	var files []string
	seen := make(map[string]bool)
	stats := DiscoverStats{}

	add := func(path string, filter bool) {
		if seen[path] {
			return
		}
		seen[path] = true
		stats.Discovered++

		if filter && shouldSkipFile(path) {
			stats.Skipped++
			return
		}
		files = append(files, path)
		stats.Selected++
	}

	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil && info.IsDir() {
			matches, err := doublestar.Glob(os.DirFS(pattern), "**/*"+StylesheetExt, doublestar.WithFilesOnly())
			if err != nil {
				return nil, stats, fmt.Errorf("search directory %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(filepath.Join(pattern, filepath.FromSlash(m)), true)
			}
			continue
		}

		if !hasGlobMeta(pattern) {
			add(pattern, false)
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, stats, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			add(m, true)
		}
	}

	return files, stats, nil
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
