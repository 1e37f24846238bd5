package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/monochromegane/go-gitignore"
)

// CollectOptions are the explicit knobs of the file collector. Everything
// that used to be ambient configuration is a parameter here so the walk can
// be tested in isolation.
type CollectOptions struct {
	// Extensions is the allow-list, matched case-sensitively against the
	// file extension including the dot (e.g. ".swift").
	Extensions []string
	// Excludes are doublestar patterns matched against the slash-separated
	// root-relative path (e.g. "**/Pods/**").
	Excludes     []string
	MaxSizeBytes int64 // 0 means no limit
	MaxDepth     int   // 0 means no limit
	ShowHidden   bool
	NoIgnore     bool // don't respect the project's .gitignore
}

// CollectSourceFiles walks root recursively and returns the files whose
// extension is on the allow-list, in the deterministic lexical order of
// filepath.WalkDir. Non-matching files are skipped silently; unreadable
// directory entries are reported to stderr and skipped. A missing root, or
// a root that is not a directory, is a *NotFoundError.
func CollectSourceFiles(root string, opts CollectOptions) ([]*SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, &NotFoundError{Path: root}
	}

	var ignoreMatcher gitignore.IgnoreMatcher
	if !opts.NoIgnore {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not parse .gitignore file %s: %v\n", gitIgnorePath, err)
			} else {
				ignoreMatcher = matcher
			}
		}
	}

	var files []*SourceFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error accessing path %s: %v\n", path, err)
			return nil
		}
		if path == root {
			return nil
		}

		baseName := d.Name()
		isDir := d.IsDir()

		if !opts.ShowHidden && isHidden(baseName) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		relPath, _ := filepath.Rel(root, path)
		relSlash := filepath.ToSlash(relPath)

		if ignoreMatcher != nil && ignoreMatcher.Match(relPath, isDir) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		if opts.MaxDepth > 0 && countPathSeparators(relPath) >= opts.MaxDepth {
			if isDir {
				return fs.SkipDir
			}
		}

		excluded, err := matchesAnyPattern(relSlash, opts.Excludes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error in exclude pattern matching for %s: %v\n", path, err)
		}
		if excluded {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}
		if isDir {
			return nil
		}

		if !hasAllowedExtension(baseName, opts.Extensions) {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not get info for %s: %v\n", path, err)
			return nil
		}
		if opts.MaxSizeBytes > 0 && fileInfo.Size() > opts.MaxSizeBytes {
			return nil
		}

		files = append(files, &SourceFile{
			Path:    path,
			RelPath: relSlash,
			Size:    fileInfo.Size(),
			Mode:    fileInfo.Mode(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}

	return files, nil
}

// hasAllowedExtension reports whether name ends in one of the allow-listed
// extensions. The comparison is case-sensitive: "Foo.SWIFT" does not match
// ".swift".
func hasAllowedExtension(name string, extensions []string) bool {
	ext := filepath.Ext(name)
	for _, allowed := range extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// matchesAnyPattern checks the relative path against the provided doublestar
// patterns.
func matchesAnyPattern(relPath string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			return false, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// parsePatterns splits a comma-separated string of patterns into a slice.
func parsePatterns(patterns string) []string {
	if patterns == "" {
		return nil
	}
	return strings.Split(patterns, ",")
}

// isHidden checks if a file name is hidden (starts with '.').
func isHidden(path string) bool {
	if path == "." || path == ".." {
		return false
	}
	baseName := filepath.Base(path)
	return len(baseName) > 0 && baseName[0] == '.'
}

// countPathSeparators counts the number of path separators in a relative path.
func countPathSeparators(path string) int {
	path = filepath.ToSlash(path)
	if path == "." || path == "" {
		return 0
	}
	return strings.Count(strings.Trim(path, "/"), "/")
}
