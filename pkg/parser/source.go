package parser

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// SourceFile is a parsed component module: the raw bytes plus the syntax
// tree built from them. Nodes obtained from Root are only valid until Close.
type SourceFile struct {
	Path   string
	Source []byte
	Lang   Language
	IsTSX  bool

	tree *ts.Tree
}

// Root returns the program node.
func (f *SourceFile) Root() *ts.Node {
	return f.tree.RootNode()
}

// Text returns the source text covered by n.
func (f *SourceFile) Text(n *ts.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(f.Source)
}

// CompactText returns the text of n with every whitespace run collapsed to a
// single space, so multi-line type expressions render on one line.
func (f *SourceFile) CompactText(n *ts.Node) string {
	return strings.Join(strings.Fields(f.Text(n)), " ")
}

// HasErrors reports whether tree-sitter had to recover from syntax errors.
func (f *SourceFile) HasErrors() bool {
	return f.Root().HasError()
}

// Close frees the syntax tree.
func (f *SourceFile) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}
