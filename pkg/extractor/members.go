package extractor

import (
	"errors"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propdoc/pkg/parser"
	"github.com/gnana997/propdoc/pkg/parser/queries"
)

// FindTypeDeclaration returns the top-level interface or object-literal type
// alias named name. With matchDefault set, a default-exported interface is
// accepted when no declaration carries the name; this serves default-imported
// props types.
func (e *Extractor) FindTypeDeclaration(file *parser.SourceFile, name string, matchDefault bool) (TypeDeclaration, bool) {
	matches, err := e.queryManager.Run(file, queries.QueryTypeDeclarations)
	if err != nil {
		if !errors.Is(err, queries.ErrUnsupportedQuery) {
			e.logger.Warn("declaration query failed", "file", file.Path, "error", err)
		}
		return TypeDeclaration{}, false
	}

	var fallback *TypeDeclaration
	for _, match := range matches {
		decl, ok := declarationFromMatch(match)
		if !ok || !isTopLevel(decl.Node) {
			continue
		}
		if decl.Name == name {
			return decl, true
		}
		if matchDefault && fallback == nil && isDefaultExport(decl.Node.Parent()) {
			fallback = &decl
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return TypeDeclaration{}, false
}

func declarationFromMatch(match queries.QueryMatch) (TypeDeclaration, bool) {
	name, ok := match.Capture("declaration.name")
	if !ok {
		return TypeDeclaration{}, false
	}
	if iface, ok := match.Capture("declaration.interface"); ok {
		return TypeDeclaration{
			Name: name.Text,
			Kind: InterfaceDeclaration,
			Node: iface.Node,
			Body: iface.Node.ChildByFieldName("body"),
		}, true
	}
	if alias, ok := match.Capture("declaration.alias"); ok {
		return TypeDeclaration{
			Name: name.Text,
			Kind: TypeAliasDeclaration,
			Node: alias.Node,
			Body: alias.Node.ChildByFieldName("value"),
		}, true
	}
	return TypeDeclaration{}, false
}

func isTopLevel(n *ts.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	if parent.Kind() == "export_statement" {
		parent = parent.Parent()
	}
	return parent != nil && parent.Kind() == "program"
}

// ExtractMembers walks the declaration body in source order and builds one
// row per property or method signature. Members whose name is computed are
// skipped. A repeated name overwrites the earlier row in place.
//
// mock may be nil, in which case no mock attributes are produced.
func (e *Extractor) ExtractMembers(file *parser.SourceFile, decl TypeDeclaration, mock MockProvider) MemberSet {
	var set MemberSet
	if decl.Body == nil {
		return set
	}

	rowIndex := make(map[string]int)
	attrIndex := make(map[string]int)

	var leading []*ts.Node
	var prev *ts.Node

	body := decl.Body
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "comment":
			// A line comment on the row where the previous member ends is
			// that member's trailing comment.
			if prev != nil && child.StartPosition().Row == prev.EndPosition().Row && isLineComment(file.Text(child)) {
				continue
			}
			leading = append(leading, child)
			continue

		case "property_signature", "method_signature":
			row, ok := e.memberRow(file, child, leading, trailingComment(file, body, i, child))
			leading, prev = nil, child
			if !ok {
				continue
			}

			if idx, dup := rowIndex[row.Name]; dup {
				set.Rows[idx] = row
			} else {
				rowIndex[row.Name] = len(set.Rows)
				set.Rows = append(set.Rows, row)
			}

			attr, hasAttr := mockAttribute(mock, row)
			idx, dup := attrIndex[row.Name]
			switch {
			case hasAttr && dup:
				set.MockAttributes[idx] = attr
			case hasAttr:
				attrIndex[row.Name] = len(set.MockAttributes)
				set.MockAttributes = append(set.MockAttributes, attr)
			case dup:
				// The redeclared member has no mock value; drop the stale one.
				set.MockAttributes = append(set.MockAttributes[:idx], set.MockAttributes[idx+1:]...)
				delete(attrIndex, row.Name)
				for name, j := range attrIndex {
					if j > idx {
						attrIndex[name] = j - 1
					}
				}
			}

		default:
			if child.IsNamed() {
				leading, prev = nil, child
			}
		}
	}

	e.logger.Debug("extracted members",
		"file", file.Path,
		"declaration", decl.Name,
		"rows", len(set.Rows))
	return set
}

func (e *Extractor) memberRow(file *parser.SourceFile, member *ts.Node, leading []*ts.Node, trailing *ts.Node) (PropertyRow, bool) {
	name, ok := memberName(file, member.ChildByFieldName("name"))
	if !ok {
		e.logger.Debug("skipping member without a static name",
			"file", file.Path,
			"line", member.StartPosition().Row+1)
		return PropertyRow{}, false
	}

	var doc docComment
	var notes []string
	for _, c := range leading {
		raw := file.Text(c)
		switch {
		case isDocComment(raw):
			doc = parseDocComment(raw)
		case isLineComment(raw):
			notes = append(notes, lineCommentText(raw))
		}
	}
	for _, c := range innerComments(member) {
		if raw := file.Text(c); isLineComment(raw) {
			notes = append(notes, lineCommentText(raw))
		}
	}
	if trailing != nil {
		notes = append(notes, lineCommentText(file.Text(trailing)))
	}

	parts := []string{doc.Text}
	parts = append(parts, notes...)

	row := PropertyRow{
		Name:    name,
		Type:    memberType(file, member),
		Default: NoDefault,
	}
	defaultSeen := false
	for _, tag := range doc.Tags {
		if tag.Name == "default" && !defaultSeen && tag.Text != "" {
			row.Default = unquoteString(strings.TrimSpace(tag.Text))
			defaultSeen = true
			continue
		}
		parts = append(parts, strings.TrimSpace("@"+tag.Name+" "+tag.Text))
	}

	row.Description = joinDescription(parts)
	return row, true
}

func memberName(file *parser.SourceFile, name *ts.Node) (string, bool) {
	if name == nil {
		return "", false
	}
	switch name.Kind() {
	case "property_identifier", "identifier", "number":
		return file.Text(name), true
	case "string":
		return unquoteString(file.Text(name)), true
	}
	return "", false
}

// memberType renders the declared type of a member; `any` when none is
// written. Methods render as arrow function types.
func memberType(file *parser.SourceFile, member *ts.Node) string {
	if member.Kind() == "method_signature" {
		params := file.CompactText(member.ChildByFieldName("parameters"))
		if params == "" {
			params = "()"
		}
		ret := "void"
		if rt := member.ChildByFieldName("return_type"); rt != nil && rt.NamedChildCount() > 0 {
			ret = file.CompactText(rt.NamedChild(0))
		}
		return params + " => " + ret
	}

	annotation := member.ChildByFieldName("type")
	if annotation == nil || annotation.NamedChildCount() == 0 {
		return "any"
	}
	if typ := file.CompactText(annotation.NamedChild(0)); typ != "" {
		return typ
	}
	return "any"
}

// trailingComment returns a // comment on the same line as member, skipping
// the separator that may sit between them.
func trailingComment(file *parser.SourceFile, body *ts.Node, idx uint, member *ts.Node) *ts.Node {
	row := member.EndPosition().Row
	for j := idx + 1; j < body.ChildCount(); j++ {
		next := body.Child(j)
		if next == nil {
			break
		}
		switch next.Kind() {
		case ";", ",":
			continue
		case "comment":
			if next.StartPosition().Row == row && isLineComment(file.Text(next)) {
				return next
			}
		}
		break
	}
	return nil
}

func innerComments(n *ts.Node) []*ts.Node {
	var out []*ts.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "comment" {
			out = append(out, child)
			continue
		}
		out = append(out, innerComments(child)...)
	}
	return out
}

func joinDescription(parts []string) string {
	var kept []string
	for _, p := range parts {
		if p = collapseSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func mockAttribute(mock MockProvider, row PropertyRow) (string, bool) {
	if mock == nil {
		return "", false
	}
	switch row.Type {
	case "string", "number", "boolean":
	default:
		return "", false
	}
	value, ok := mock.MockValue(row.Type)
	if !ok {
		return "", false
	}
	return row.Name + "=" + value, true
}

// FileComment returns the comment that opens the file, flattened to one line.
// It is empty when the first node is not a comment.
func FileComment(file *parser.SourceFile) string {
	root := file.Root()
	if root.ChildCount() == 0 {
		return ""
	}
	first := root.Child(0)
	if first == nil || first.Kind() != "comment" {
		return ""
	}
	return commentText(file.Text(first))
}
