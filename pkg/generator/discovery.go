package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// DefaultInclude matches component sources.
var DefaultInclude = []string{"**/*.tsx", "**/*.jsx"}

// DefaultExclude skips dependencies, build output, tests, and stories.
var DefaultExclude = []string{
	"**/node_modules/**",
	"**/dist/**",
	"**/build/**",
	"**/.git/**",
	"**/*.test.*",
	"**/*.spec.*",
	"**/*.stories.*",
	"**/*.d.ts",
}

// ValidatePatterns rejects malformed globs up front.
func ValidatePatterns(include, exclude []string) error {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	return nil
}

// Excluded reports whether relPath (slash separated) matches an exclude glob.
func Excluded(relPath string, exclude []string) bool {
	for _, pattern := range exclude {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}

// Included reports whether relPath matches an include glob. An empty
// include list matches everything.
func Included(relPath string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	for _, pattern := range include {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}

// DiscoverFiles walks rootDir and returns the sorted absolute paths of files
// that match include and not exclude. Excluded directories are not entered.
func DiscoverFiles(fs afero.Fs, rootDir string, include, exclude []string) ([]string, error) {
	if err := ValidatePatterns(include, exclude); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	var files []string
	err = afero.Walk(fs, absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			// Directory globs like **/node_modules/** match the directory's
			// contents, so probe with a child path.
			if Excluded(rel, exclude) || Excluded(rel+"/_", exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if Excluded(rel, exclude) || !Included(rel, include) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
