package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnana997/propdoc/pkg/parser"
	"github.com/gnana997/propdoc/pkg/parser/queries"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	qm := queries.NewQueryManager(nil)
	t.Cleanup(func() { qm.Close() })
	return NewExtractor(qm, nil)
}

func parseSource(t *testing.T, path, src string) *parser.SourceFile {
	t.Helper()
	pm := parser.NewParserManager(nil)
	t.Cleanup(func() { pm.Close() })

	file, err := pm.ParseSource(context.Background(), path, []byte(src))
	require.NoError(t, err)
	t.Cleanup(file.Close)
	return file
}

type stubMock struct{}

func (stubMock) MockValue(typeName string) (string, bool) {
	switch typeName {
	case "string":
		return "'x'", true
	case "number":
		return "{1}", true
	case "boolean":
		return "{true}", true
	}
	return "", false
}
