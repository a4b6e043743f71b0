package parser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool hands out tree-sitter parsers bound to a single grammar.
// Parsers are created lazily up to maxSize; beyond that callers wait for a
// release or for their context to end.
type parserPool struct {
	idle    chan *ts.Parser
	langPtr unsafe.Pointer
	key     poolKey
	maxSize int

	mu      sync.Mutex
	created int

	logger *slog.Logger
}

func newParserPool(key poolKey, langPtr unsafe.Pointer, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		idle:    make(chan *ts.Parser, maxSize),
		langPtr: langPtr,
		key:     key,
		maxSize: maxSize,
		logger:  logger,
	}
}

func (p *parserPool) acquire(ctx context.Context) (*ts.Parser, error) {
	select {
	case parser := <-p.idle:
		return parser, nil
	default:
	}

	if parser, err := p.grow(); parser != nil || err != nil {
		return parser, err
	}

	select {
	case parser := <-p.idle:
		return parser, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// grow returns a fresh parser, or nil when the pool is at capacity.
func (p *parserPool) grow() (*ts.Parser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.created >= p.maxSize {
		return nil, nil
	}

	parser := ts.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("failed to create parser")
	}
	if err := parser.SetLanguage(ts.NewLanguage(p.langPtr)); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	p.created++
	p.logger.Debug("created parser",
		"language", p.key.lang.String(),
		"tsx", p.key.isTSX,
		"pool_size", p.created)

	return parser, nil
}

func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	select {
	case p.idle <- parser:
	default:
		parser.Close()
	}
}

func (p *parserPool) close() int {
	close(p.idle)
	closed := 0
	for parser := range p.idle {
		parser.Close()
		closed++
	}
	return closed
}

func (p *parserPool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}
