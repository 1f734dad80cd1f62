package vpcss

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ScanStats tracks document discovery.
type ScanStats struct {
	FilesDiscovered int // files matched by the glob patterns
	FilesScanned    int // files loaded
	FilesSkipped    int // generated or gitignored files
}

var (
	gitIgnoreCache *ignore.GitIgnore
	gitIgnoreOnce  sync.Once
)

// loadGitIgnore loads .gitignore from the working directory once. A
// missing file means nothing is ignored.
func loadGitIgnore() *ignore.GitIgnore {
	gitIgnoreOnce.Do(func() {
		gi, err := ignore.CompileIgnoreFile(".gitignore")
		if err != nil {
			return
		}
		gitIgnoreCache = gi
	})
	return gitIgnoreCache
}

// isGenerated reports whether path is an output of a previous run.
func isGenerated(path string) bool {
	base := filepath.Base(path)
	return strings.Contains(base, ".gen.") || strings.HasPrefix(base, ".")
}

// shouldSkipFile excludes generated files, and gitignored files for paths
// relative to the project.
func shouldSkipFile(path string) bool {
	if isGenerated(path) {
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

// ScanDocuments expands glob patterns into the document files to load.
func ScanDocuments(patterns []string) ([]string, ScanStats, error) {
	var files []string
	seen := make(map[string]bool)
	stats := ScanStats{}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++
			if shouldSkipFile(match) {
				stats.FilesSkipped++
				continue
			}
			files = append(files, match)
			stats.FilesScanned++
		}
	}
	return files, stats, nil
}

// LoadDocuments scans patterns and loads every document found. Files that
// fail to parse are reported as warnings and skipped.
func LoadDocuments(patterns []string, verbose bool) ([]*Document, ScanStats, []string, error) {
	files, stats, err := ScanDocuments(patterns)
	if err != nil {
		return nil, stats, nil, err
	}
	if verbose && stats.FilesSkipped > 0 {
		fmt.Printf("✓ Scanned %d files (skipped %d generated/ignored files)\n", stats.FilesScanned, stats.FilesSkipped)
	}

	var docs []*Document
	var warnings []string
	for _, file := range files {
		doc, err := LoadDocument(file)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to load %s: %v", file, err))
			stats.FilesScanned--
			stats.FilesSkipped++
			continue
		}
		if verbose {
			fmt.Printf("Loaded %s (%d blocks)\n", file, len(doc.Blocks))
		}
		docs = append(docs, doc)
	}
	return docs, stats, warnings, nil
}

// GetRelativePath returns path relative to the working directory when
// possible.
func GetRelativePath(absPath string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return absPath
	}
	rel, err := filepath.Rel(cwd, absPath)
	if err != nil {
		return absPath
	}
	return rel
}
