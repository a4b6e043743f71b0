// Package resolver maps import specifiers to component source files using the
// project's directory conventions rather than a module resolution algorithm.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"

	"github.com/gnana997/propdoc/pkg/parser"
)

var (
	// ErrProjectRootNotFound aborts the whole generation request.
	ErrProjectRootNotFound = errors.New("project root not found")
	// ErrModuleNotFound means the specifier could not be mapped to a file.
	// Callers degrade to an empty property table.
	ErrModuleNotFound = errors.New("module not found")
)

// Config names the conventional files and directories of a project.
type Config struct {
	RootMarker string
	ModulesDir string
	SourceDir  string
	CacheSize  int
}

// DefaultConfig returns the npm layout: package.json, node_modules, src.
func DefaultConfig() Config {
	return Config{
		RootMarker: "package.json",
		ModulesDir: "node_modules",
		SourceDir:  "src",
		CacheSize:  256,
	}
}

// ResolvedModuleFile is the absolute path of the file a specifier maps to.
type ResolvedModuleFile struct {
	AbsolutePath string
}

// Resolver locates module files. Successful resolutions are cached per
// project root and revalidated against the filesystem on every hit.
type Resolver struct {
	fs     afero.Fs
	cfg    Config
	cache  *lru.Cache[string, string]
	logger *slog.Logger
}

// New creates a Resolver over fs.
func New(fs afero.Fs, cfg Config, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultConfig().CacheSize
	}
	cache, err := lru.New[string, string](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create resolution cache: %w", err)
	}
	return &Resolver{
		fs:     fs,
		cfg:    cfg,
		cache:  cache,
		logger: logger,
	}, nil
}

// Resolve maps specifier, as written in a file living in fromDir, to a file.
//
// Scoped specifiers (@scope/name) are searched for under
// <modules>/<scope>/src; anything else under the project's source directory.
// Both searches are depth-first in directory listing order and return the
// first file whose name starts with the stem.
func (r *Resolver) Resolve(ctx context.Context, fromDir, specifier string) (ResolvedModuleFile, error) {
	root, err := FindProjectRoot(r.fs, fromDir, r.cfg.RootMarker)
	if err != nil {
		return ResolvedModuleFile{}, err
	}

	key := root + "\x00" + specifier
	if cached, ok := r.cache.Get(key); ok {
		if exists, _ := afero.Exists(r.fs, cached); exists {
			return ResolvedModuleFile{AbsolutePath: cached}, nil
		}
		r.cache.Remove(key)
	}

	searchDir, stem, err := r.searchLocation(root, specifier)
	if err != nil {
		return ResolvedModuleFile{}, err
	}

	found, err := r.searchDepthFirst(ctx, searchDir, stem)
	if err != nil {
		return ResolvedModuleFile{}, err
	}
	if found == "" {
		return ResolvedModuleFile{}, fmt.Errorf("%w: %q (no file starting with %q under %s)", ErrModuleNotFound, specifier, stem, searchDir)
	}

	r.cache.Add(key, found)
	r.logger.Debug("resolved module",
		"module", specifier,
		"file", found)
	return ResolvedModuleFile{AbsolutePath: found}, nil
}

func (r *Resolver) searchLocation(root, specifier string) (dir, stem string, err error) {
	if strings.HasPrefix(specifier, "@") {
		scope, rest, ok := strings.Cut(specifier, "/")
		if !ok || rest == "" {
			return "", "", fmt.Errorf("%w: %q has no name after its scope", ErrModuleNotFound, specifier)
		}
		stem = fileStem(rest)
		modules, ok := findUp(r.fs, root, r.cfg.ModulesDir, true)
		if !ok {
			return "", "", fmt.Errorf("%w: no %s above %s", ErrModuleNotFound, r.cfg.ModulesDir, root)
		}
		dir = filepath.Join(modules, scope, r.cfg.SourceDir)
	} else {
		stem = fileStem(specifier)
		src, ok := findUp(r.fs, root, r.cfg.SourceDir, true)
		if !ok {
			return "", "", fmt.Errorf("%w: no %s directory above %s", ErrModuleNotFound, r.cfg.SourceDir, root)
		}
		dir = src
	}

	if stem == "" {
		return "", "", fmt.Errorf("%w: %q has an empty file stem", ErrModuleNotFound, specifier)
	}
	if isDir, _ := afero.IsDir(r.fs, dir); !isDir {
		return "", "", fmt.Errorf("%w: %s is not a directory", ErrModuleNotFound, dir)
	}
	return dir, stem, nil
}

// fileStem keeps the last path segment of a specifier, up to its first dot.
// "./components/Card.tsx" and "../Card" both yield "Card".
func fileStem(specifier string) string {
	base := path.Base(strings.TrimRight(specifier, "/"))
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	stem, _, _ := strings.Cut(base, ".")
	return stem
}

// searchDepthFirst returns "" when nothing under dir matches.
func (r *Resolver) searchDepthFirst(ctx context.Context, dir, stem string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		r.logger.Debug("skipping unreadable directory", "dir", dir, "error", err)
		return "", nil
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			found, err := r.searchDepthFirst(ctx, full, stem)
			if err != nil || found != "" {
				return found, err
			}
			continue
		}
		if strings.HasPrefix(entry.Name(), stem) && parser.IsSourceFile(entry.Name()) {
			return full, nil
		}
	}
	return "", nil
}

// FindProjectRoot walks upward from fromDir to the first directory that
// contains marker.
func FindProjectRoot(fs afero.Fs, fromDir, marker string) (string, error) {
	markerPath, ok := findUp(fs, fromDir, marker, false)
	if !ok {
		return "", fmt.Errorf("%w: no %s in %s or any parent", ErrProjectRootNotFound, marker, fromDir)
	}
	return filepath.Dir(markerPath), nil
}

// findUp returns the path of the first entry called name in start or one of
// its ancestors. wantDir selects directories; otherwise only files match.
func findUp(fs afero.Fs, start, name string, wantDir bool) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		dir = filepath.Clean(start)
	}
	for {
		candidate := filepath.Join(dir, name)
		if info, err := fs.Stat(candidate); err == nil && info.IsDir() == wantDir {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
