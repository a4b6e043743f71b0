package extractor

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

func findChildByKind(node *ts.Node, kind string) *ts.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// topLevelDeclarations yields the statements of program, looking through
// export wrappers so that `export const X` and `const X` are treated alike.
func topLevelDeclarations(program *ts.Node) []*ts.Node {
	var decls []*ts.Node
	for i := uint(0); i < program.ChildCount(); i++ {
		stmt := program.Child(i)
		if stmt == nil {
			continue
		}
		if stmt.Kind() == "export_statement" {
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				decls = append(decls, decl)
			}
			continue
		}
		decls = append(decls, stmt)
	}
	return decls
}

func isDefaultExport(stmt *ts.Node) bool {
	if stmt.Kind() != "export_statement" {
		return false
	}
	return findChildByKind(stmt, "default") != nil
}

func isFunctionExpression(kind string) bool {
	switch kind {
	case "function_expression", "function", "arrow_function", "generator_function":
		return true
	}
	return false
}

func isStringLiteral(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	return (q == '"' || q == '\'' || q == '`') && s[len(s)-1] == q
}

func unquoteString(s string) string {
	if isStringLiteral(s) {
		return s[1 : len(s)-1]
	}
	return s
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
