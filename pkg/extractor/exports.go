package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propdoc/pkg/parser"
)

// wrapperCallees are higher-order components whose first argument is the
// component itself.
var wrapperCallees = map[string]bool{
	"memo":             true,
	"forwardRef":       true,
	"React.memo":       true,
	"React.forwardRef": true,
}

// maxUnwrapDepth bounds identifier and wrapper chains such as
// `const A = memo(B); const B = ...`.
const maxUnwrapDepth = 4

// AnalyzeExport finds the props type of the module's default export.
// ok is false when there is no default export, when it is not a recognizable
// callable, or when no parameter named props carries a type annotation.
func (e *Extractor) AnalyzeExport(file *parser.SourceFile, imports ImportTable) (ref PropsTypeReference, ok bool) {
	callable, ok := FindDefaultExport(file)
	if !ok {
		e.logger.Info("no callable default export", "file", file.Path)
		return PropsTypeReference{}, false
	}

	typeName, ok := PropsTypeName(file, callable)
	if !ok {
		e.logger.Info("default export has no typed props parameter",
			"file", file.Path,
			"shape", callable.Kind.String())
		return PropsTypeReference{}, false
	}

	ref = PropsTypeReference{TypeName: typeName}
	if binding, imported := imports[typeName]; imported {
		ref.SourceModule = binding.ModuleSpecifier
		ref.ImportedName = binding.ImportedName
	}
	return ref, true
}

// FindDefaultExport locates the default-export statement and classifies the
// callable behind it.
func FindDefaultExport(file *parser.SourceFile) (ExportedCallable, bool) {
	root := file.Root()
	for i := uint(0); i < root.ChildCount(); i++ {
		stmt := root.Child(i)
		if stmt == nil || !isDefaultExport(stmt) {
			continue
		}
		if decl := stmt.ChildByFieldName("declaration"); decl != nil {
			return classifyDeclaration(file, decl)
		}
		if value := stmt.ChildByFieldName("value"); value != nil {
			return classifyExpression(file, value, InlineExpression, "", 0)
		}
		return ExportedCallable{}, false
	}
	return ExportedCallable{}, false
}

func classifyDeclaration(file *parser.SourceFile, decl *ts.Node) (ExportedCallable, bool) {
	switch decl.Kind() {
	case "function_declaration", "generator_function_declaration":
		return ExportedCallable{
			Kind: FunctionDecl,
			Name: file.Text(decl.ChildByFieldName("name")),
			Node: decl,
		}, true
	}
	return ExportedCallable{}, false
}

// classifyExpression resolves expr to a callable. kind is the variant to
// report when expr itself is a function expression: InlineExpression at the
// export site, BoundExpression behind a variable.
func classifyExpression(file *parser.SourceFile, expr *ts.Node, kind CallableKind, name string, depth int) (ExportedCallable, bool) {
	if expr == nil || depth > maxUnwrapDepth {
		return ExportedCallable{}, false
	}

	switch k := expr.Kind(); {
	case isFunctionExpression(k):
		return ExportedCallable{Kind: kind, Name: name, Node: expr}, true

	case k == "identifier":
		return resolveBinding(file, file.Text(expr), depth+1)

	case k == "parenthesized_expression":
		return classifyExpression(file, expr.NamedChild(0), kind, name, depth+1)

	case k == "call_expression":
		callee := expr.ChildByFieldName("function")
		if callee == nil || !wrapperCallees[file.Text(callee)] {
			return ExportedCallable{}, false
		}
		args := expr.ChildByFieldName("arguments")
		if args == nil || args.NamedChildCount() == 0 {
			return ExportedCallable{}, false
		}
		return classifyExpression(file, args.NamedChild(0), kind, name, depth+1)
	}
	return ExportedCallable{}, false
}

// resolveBinding searches the top-level statements for a function declaration
// named name, or a variable binding name to a callable.
func resolveBinding(file *parser.SourceFile, name string, depth int) (ExportedCallable, bool) {
	for _, decl := range topLevelDeclarations(file.Root()) {
		switch decl.Kind() {
		case "function_declaration", "generator_function_declaration":
			if file.Text(decl.ChildByFieldName("name")) == name {
				return classifyDeclaration(file, decl)
			}

		case "lexical_declaration", "variable_declaration":
			for i := uint(0); i < decl.NamedChildCount(); i++ {
				declarator := decl.NamedChild(i)
				if declarator == nil || declarator.Kind() != "variable_declarator" {
					continue
				}
				if file.Text(declarator.ChildByFieldName("name")) != name {
					continue
				}
				return classifyExpression(file, declarator.ChildByFieldName("value"), BoundExpression, name, depth)
			}
		}
	}
	return ExportedCallable{}, false
}

// PropsTypeName returns the annotation text of the parameter named props.
// When several parameters qualify the last one wins.
func PropsTypeName(file *parser.SourceFile, callable ExportedCallable) (string, bool) {
	var params *ts.Node
	switch callable.Kind {
	case FunctionDecl:
		params = declarationParameters(callable.Node)
	case BoundExpression:
		params = boundParameters(callable.Node)
	case InlineExpression:
		params = inlineParameters(callable.Node)
	}
	if params == nil {
		return "", false
	}

	var typeName string
	for i := uint(0); i < params.NamedChildCount(); i++ {
		param := params.NamedChild(i)
		if param == nil {
			continue
		}
		if kind := param.Kind(); kind != "required_parameter" && kind != "optional_parameter" {
			continue
		}
		pattern := param.ChildByFieldName("pattern")
		if pattern == nil || pattern.Kind() != "identifier" || file.Text(pattern) != "props" {
			continue
		}
		annotation := param.ChildByFieldName("type")
		if annotation == nil || annotation.NamedChildCount() == 0 {
			continue
		}
		typeName = file.CompactText(annotation.NamedChild(0))
	}
	return typeName, typeName != ""
}

func declarationParameters(fn *ts.Node) *ts.Node {
	return fn.ChildByFieldName("parameters")
}

// boundParameters reads the expression a variable was bound to, after
// wrapper calls were unwrapped.
func boundParameters(fn *ts.Node) *ts.Node {
	return expressionParameters(fn)
}

func inlineParameters(fn *ts.Node) *ts.Node {
	return expressionParameters(fn)
}

// expressionParameters returns nil for `props => ...`: a bare identifier
// parameter cannot carry an annotation.
func expressionParameters(fn *ts.Node) *ts.Node {
	return fn.ChildByFieldName("parameters")
}
