// Package extractor reads component modules: import bindings, the default
// export's props type, and the members of that type.
package extractor

import (
	"log/slog"

	"github.com/gnana997/propdoc/pkg/parser/queries"
)

// Extractor runs the syntactic analyses over parsed files. It holds no
// per-file state and is safe for concurrent use.
type Extractor struct {
	queryManager *queries.QueryManager
	logger       *slog.Logger
}

// NewExtractor creates an Extractor backed by qm. A nil logger falls back to slog.Default.
func NewExtractor(qm *queries.QueryManager, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		queryManager: qm,
		logger:       logger,
	}
}
