package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/propdoc/pkg/util"
)

// ErrUnsupportedFile is returned for paths whose extension has no grammar.
var ErrUnsupportedFile = errors.New("unsupported source file")

// poolKey identifies a grammar: TSX needs its own parsers and queries.
type poolKey struct {
	lang  Language
	isTSX bool
}

// ParserManager owns one lazily created parser pool per grammar.
//
// Parsed trees are returned wrapped in a SourceFile, which the caller must
// Close. The manager itself must be closed once all parsing is done.
type ParserManager struct {
	pools  map[poolKey]*parserPool
	mutex  sync.RWMutex
	logger *slog.Logger

	parses int
}

// NewParserManager creates a ParserManager. A nil logger falls back to slog.Default.
func NewParserManager(logger *slog.Logger) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:  make(map[poolKey]*parserPool),
		logger: logger,
	}
}

// ParseSource parses source as the grammar implied by path.
//
// Syntax errors do not fail the parse: tree-sitter recovers, and the
// partially valid tree is still analysed. SourceFile.HasErrors reports them.
func (pm *ParserManager) ParseSource(ctx context.Context, path string, source []byte) (*SourceFile, error) {
	lang := DetectLanguage(path)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
	isTSX := IsTSXFile(path)

	pool, err := pm.pool(lang, isTSX)
	if err != nil {
		return nil, err
	}

	parser, err := pool.acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire %s parser: %w", lang, err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parse %s: tree-sitter returned no tree", path)
	}

	pm.mutex.Lock()
	pm.parses++
	pm.mutex.Unlock()

	file := &SourceFile{
		Path:   path,
		Source: source,
		Lang:   lang,
		IsTSX:  isTSX,
		tree:   tree,
	}
	if file.HasErrors() {
		pm.logger.Warn("source contains syntax errors, continuing with partial tree",
			"file", path,
			"language", lang.String())
	}
	return file, nil
}

// Close releases every pooled parser. The manager is unusable afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	closed := 0
	for _, pool := range pm.pools {
		closed += pool.close()
	}
	pm.pools = make(map[poolKey]*parserPool)

	pm.logger.Debug("parser manager closed",
		"parsers_closed", closed,
		"parses", pm.parses)
	return nil
}

func (pm *ParserManager) pool(lang Language, isTSX bool) (*parserPool, error) {
	key := poolKey{lang: lang, isTSX: isTSX}

	pm.mutex.RLock()
	pool, ok := pm.pools[key]
	pm.mutex.RUnlock()
	if ok {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	if pool, ok = pm.pools[key]; ok {
		return pool, nil
	}

	langPtr, err := LanguagePointer(lang, isTSX)
	if err != nil {
		return nil, err
	}
	pool = newParserPool(key, langPtr, util.GetOptimalPoolSize(), pm.logger)
	pm.pools[key] = pool
	return pool, nil
}

// LanguagePointer returns the grammar for lang. isTSX only affects TypeScript.
func LanguagePointer(lang Language, isTSX bool) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		if isTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("no grammar for language %s", lang)
	}
}

// Stats reports parser usage.
func (pm *ParserManager) Stats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	stats := ParserStats{ParsesCalled: pm.parses}
	for _, pool := range pm.pools {
		stats.ParsersCreated += pool.size()
	}
	return stats
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
}
