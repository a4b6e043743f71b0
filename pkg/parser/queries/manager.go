// Package queries compiles, caches, and runs tree-sitter queries.
package queries

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propdoc/pkg/parser"
	"github.com/gnana997/propdoc/pkg/parser/queries/declarations"
	"github.com/gnana997/propdoc/pkg/parser/queries/imports"
)

// ErrUnsupportedQuery is returned when a grammar has no pattern for a query type,
// e.g. declarations in plain JavaScript.
var ErrUnsupportedQuery = errors.New("query not supported for language")

// QueryType selects a pattern set.
type QueryType int

const (
	QueryTypeImports QueryType = iota
	QueryTypeDeclarations
)

func (qt QueryType) String() string {
	switch qt {
	case QueryTypeImports:
		return "imports"
	case QueryTypeDeclarations:
		return "declarations"
	default:
		return "unknown"
	}
}

// queryKey includes the TSX flag: a query compiled against the TypeScript
// grammar cannot run on a tree produced by the TSX grammar.
type queryKey struct {
	lang  parser.Language
	isTSX bool
	qtype QueryType
}

// QueryManager compiles queries lazily and caches them per grammar.
// It is safe for concurrent use and must be closed to free the queries.
type QueryManager struct {
	cache  map[queryKey]*ts.Query
	mutex  sync.RWMutex
	logger *slog.Logger
}

// NewQueryManager creates an empty QueryManager. A nil logger falls back to slog.Default.
func NewQueryManager(logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryManager{
		cache:  make(map[queryKey]*ts.Query),
		logger: logger,
	}
}

// GetQuery returns the compiled query of type qtype for the given grammar.
func (qm *QueryManager) GetQuery(lang parser.Language, isTSX bool, qtype QueryType) (*ts.Query, error) {
	if lang != parser.LanguageTypeScript {
		isTSX = false
	}
	key := queryKey{lang: lang, isTSX: isTSX, qtype: qtype}

	qm.mutex.RLock()
	query, ok := qm.cache[key]
	qm.mutex.RUnlock()
	if ok {
		return query, nil
	}

	qm.mutex.Lock()
	defer qm.mutex.Unlock()
	if query, ok = qm.cache[key]; ok {
		return query, nil
	}

	source, err := queryString(lang, qtype)
	if err != nil {
		return nil, err
	}
	langPtr, err := parser.LanguagePointer(lang, isTSX)
	if err != nil {
		return nil, err
	}

	query, qerr := ts.NewQuery(ts.NewLanguage(langPtr), source)
	if qerr != nil {
		return nil, fmt.Errorf("compile %s query for %s: %s", qtype, lang, qerr.Message)
	}
	qm.cache[key] = query

	qm.logger.Debug("compiled query",
		"language", lang.String(),
		"tsx", isTSX,
		"type", qtype.String())

	return query, nil
}

func queryString(lang parser.Language, qtype QueryType) (string, error) {
	switch {
	case qtype == QueryTypeImports && lang == parser.LanguageTypeScript:
		return imports.TSQueries, nil
	case qtype == QueryTypeImports && lang == parser.LanguageJavaScript:
		return imports.JSQueries, nil
	case qtype == QueryTypeDeclarations && lang == parser.LanguageTypeScript:
		return declarations.TSQueries, nil
	default:
		return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedQuery, qtype, lang)
	}
}

// Run executes the qtype query over file and returns its matches ordered by
// the start of their first capture, i.e. in source order.
func (qm *QueryManager) Run(file *parser.SourceFile, qtype QueryType) ([]QueryMatch, error) {
	query, err := qm.GetQuery(file.Lang, file.IsTSX, qtype)
	if err != nil {
		return nil, err
	}
	return ExecuteQuery(file, query), nil
}

// ExecuteQuery runs a compiled query against the whole file.
func ExecuteQuery(file *parser.SourceFile, query *ts.Query) []QueryMatch {
	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	names := query.CaptureNames()
	iter := cursor.Matches(query, file.Root(), file.Source)

	var matches []QueryMatch
	for match := iter.Next(); match != nil; match = iter.Next() {
		captures := make([]QueryCapture, 0, len(match.Captures))
		for _, capture := range match.Captures {
			node := capture.Node
			var name string
			if int(capture.Index) < len(names) {
				name = names[capture.Index]
			}
			category, field := parseCaptureName(name)
			captures = append(captures, QueryCapture{
				Name:     name,
				Category: category,
				Field:    field,
				Node:     &node,
				Text:     node.Utf8Text(file.Source),
			})
		}
		matches = append(matches, QueryMatch{
			PatternIndex: uint32(match.PatternIndex),
			Captures:     captures,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].start() < matches[j].start()
	})
	return matches
}

// Close frees every compiled query.
func (qm *QueryManager) Close() error {
	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	for key, query := range qm.cache {
		query.Close()
		delete(qm.cache, key)
	}
	return nil
}

// QueryMatch is one pattern match.
type QueryMatch struct {
	PatternIndex uint32
	Captures     []QueryCapture
}

// Capture returns the first capture with the given full name.
func (m QueryMatch) Capture(name string) (QueryCapture, bool) {
	for _, c := range m.Captures {
		if c.Name == name {
			return c, true
		}
	}
	return QueryCapture{}, false
}

func (m QueryMatch) start() uint {
	var min uint
	for i, c := range m.Captures {
		if b := c.Node.StartByte(); i == 0 || b < min {
			min = b
		}
	}
	return min
}

// QueryCapture is a single captured node. Name "import.source" splits into
// Category "import" and Field "source".
type QueryCapture struct {
	Name     string
	Category string
	Field    string
	Node     *ts.Node
	Text     string
}

func parseCaptureName(name string) (category, field string) {
	category, field, _ = strings.Cut(name, ".")
	return category, field
}
