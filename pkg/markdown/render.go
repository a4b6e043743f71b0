// Package markdown renders component documents and splices refreshed
// property tables into existing ones.
package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/propdoc/pkg/extractor"
)

// Fixed document text. The table header and separator are also the anchors
// used by MergeProperties, so they must never change between releases.
const (
	HeadingImport  = "## 引入方式"
	HeadingExample = "## 示例"
	HeadingProps   = "## 属性"

	TableHeader    = "| 属性 | 说明 | 类型 | 默认值 |"
	TableSeparator = "| --- | --- | --- | --- |"

	// DefaultDocType is the frontmatter type of component documents.
	DefaultDocType = "组件"
)

// Frontmatter is the YAML header of a new document. Every key is always
// written, empty when unknown.
type Frontmatter struct {
	Type     string `yaml:"type"`
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Owner    string `yaml:"owner"`
	Version  string `yaml:"version"`
}

// DocumentInput is everything needed to synthesize a fresh document.
type DocumentInput struct {
	Header         Frontmatter
	ComponentName  string
	MockAttributes []string
	Rows           []extractor.PropertyRow
}

// RenderDocument builds a complete document. Missing data yields empty
// sections, never missing headings.
func RenderDocument(in DocumentInput) (string, error) {
	header, err := yaml.Marshal(in.Header)
	if err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")

	b.WriteString(HeadingImport + "\n\n")
	b.WriteString("```jsx\n")
	b.WriteString(ImportSnippet(in.ComponentName) + "\n")
	b.WriteString("```\n\n")

	b.WriteString(HeadingExample + "\n\n")
	b.WriteString("```jsx\n")
	b.WriteString(ExampleSnippet(in.ComponentName, in.MockAttributes) + "\n")
	b.WriteString("```\n\n")

	b.WriteString(HeadingProps + "\n\n")
	b.WriteString(RenderPropertyTable(in.Rows))
	return b.String(), nil
}

// ImportSnippet is the one-line import statement shown in a new document.
func ImportSnippet(name string) string {
	return fmt.Sprintf("import %s from '%s';", name, name)
}

// ExampleSnippet renders a usage tag carrying the mock attributes.
func ExampleSnippet(name string, attrs []string) string {
	open := name
	if len(attrs) > 0 {
		open += " " + strings.Join(attrs, " ")
	}
	return fmt.Sprintf("<%s>children</%s>", open, name)
}

// RenderPropertyTable renders header, separator, and one line per row. The
// fragment always ends with a newline.
func RenderPropertyTable(rows []extractor.PropertyRow) string {
	var b strings.Builder
	b.WriteString(TableHeader + "\n")
	b.WriteString(TableSeparator + "\n")
	for _, row := range rows {
		b.WriteString(RenderRow(row) + "\n")
	}
	return b.String()
}

// RenderRow formats a single table line. The type column is code-formatted.
func RenderRow(row extractor.PropertyRow) string {
	def := row.Default
	if def == "" {
		def = extractor.NoDefault
	}
	return fmt.Sprintf("| %s | %s | `%s` | %s |",
		escapeCell(row.Name),
		escapeCell(row.Description),
		escapeCell(row.Type),
		escapeCell(def))
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

func escapeCell(s string) string {
	return cellEscaper.Replace(strings.TrimSpace(s))
}
