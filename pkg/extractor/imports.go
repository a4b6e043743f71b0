package extractor

import (
	"fmt"
	"strings"

	"github.com/gnana997/propdoc/pkg/parser"
	"github.com/gnana997/propdoc/pkg/parser/queries"
)

// BuildImportTable collects default and named import bindings of file.
// Bindings are applied in source order, so a later import of the same local
// name replaces an earlier one.
func (e *Extractor) BuildImportTable(file *parser.SourceFile) (ImportTable, error) {
	matches, err := e.queryManager.Run(file, queries.QueryTypeImports)
	if err != nil {
		return nil, fmt.Errorf("import query on %s: %w", file.Path, err)
	}

	table := make(ImportTable)
	for _, match := range matches {
		source, ok := match.Capture("import.source")
		if !ok {
			continue
		}
		specifier := unquoteModule(source.Text)

		if def, ok := match.Capture("import.default"); ok {
			table[def.Text] = ImportBinding{
				LocalName:       def.Text,
				ModuleSpecifier: specifier,
				ImportedName:    "default",
			}
			continue
		}

		spec, ok := match.Capture("import.specifier")
		if !ok {
			continue
		}
		name := spec.Node.ChildByFieldName("name")
		if name == nil {
			continue
		}
		imported := unquoteString(file.Text(name))
		local := imported
		if alias := spec.Node.ChildByFieldName("alias"); alias != nil {
			local = file.Text(alias)
		}
		table[local] = ImportBinding{
			LocalName:       local,
			ModuleSpecifier: specifier,
			ImportedName:    imported,
		}
	}

	e.logger.Debug("built import table", "file", file.Path, "bindings", len(table))
	return table, nil
}

func unquoteModule(s string) string {
	return strings.Trim(s, "\"'`")
}
