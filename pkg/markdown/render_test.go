package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/propdoc/pkg/extractor"
)

func cardRows() []extractor.PropertyRow {
	return []extractor.PropertyRow{
		{Name: "title", Type: "string", Default: "-"},
		{Name: "count", Type: "number", Default: "-"},
	}
}

func TestRenderPropertyTable_CardScenario(t *testing.T) {
	got := RenderPropertyTable(cardRows())

	want := "| 属性 | 说明 | 类型 | 默认值 |\n" +
		"| --- | --- | --- | --- |\n" +
		"| title |  | `string` | - |\n" +
		"| count |  | `number` | - |\n"
	assert.Equal(t, want, got)
}

func TestRenderPropertyTable_Empty(t *testing.T) {
	assert.Equal(t, TableHeader+"\n"+TableSeparator+"\n", RenderPropertyTable(nil))
}

func TestRenderRow(t *testing.T) {
	tests := []struct {
		name string
		row  extractor.PropertyRow
		want string
	}{
		{
			name: "default value",
			row:  extractor.PropertyRow{Name: "title", Description: "Heading", Type: "string", Default: "foo"},
			want: "| title | Heading | `string` | foo |",
		},
		{
			name: "pipes are escaped",
			row:  extractor.PropertyRow{Name: "size", Description: "small | large", Type: "'small' | 'large'", Default: "-"},
			want: "| size | small \\| large | `'small' \\| 'large'` | - |",
		},
		{
			name: "empty default renders placeholder",
			row:  extractor.PropertyRow{Name: "x", Type: "any"},
			want: "| x |  | `any` | - |",
		},
		{
			name: "newlines flattened",
			row:  extractor.PropertyRow{Name: "x", Description: "a\nb", Type: "any", Default: "-"},
			want: "| x | a b | `any` | - |",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderRow(tt.row))
		})
	}
}

func TestRenderDocument(t *testing.T) {
	doc, err := RenderDocument(DocumentInput{
		Header: Frontmatter{
			Type:     DefaultDocType,
			Title:    "Card",
			Subtitle: "A card",
			Owner:    "Ada",
			Version:  "main",
		},
		ComponentName:  "Card",
		MockAttributes: []string{"title='lorem'", "count={3}"},
		Rows:           cardRows(),
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(doc, "---\n"))
	parts := strings.SplitN(doc, "---\n", 3)
	require.Len(t, parts, 3)

	var fm Frontmatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, Frontmatter{Type: "组件", Title: "Card", Subtitle: "A card", Owner: "Ada", Version: "main"}, fm)

	body := "\n" +
		"## 引入方式\n\n" +
		"```jsx\nimport Card from 'Card';\n```\n\n" +
		"## 示例\n\n" +
		"```jsx\n<Card title='lorem' count={3}>children</Card>\n```\n\n" +
		"## 属性\n\n" +
		RenderPropertyTable(cardRows())
	assert.Equal(t, body, parts[2])
}

func TestRenderDocument_EmptyHeaderKeepsAllKeys(t *testing.T) {
	doc, err := RenderDocument(DocumentInput{ComponentName: "Card"})
	require.NoError(t, err)

	for _, key := range []string{"type:", "title:", "subtitle:", "owner:", "version:"} {
		assert.Contains(t, doc, "\n"+key)
	}
	assert.Contains(t, doc, "<Card>children</Card>")
	assert.True(t, strings.HasSuffix(doc, TableHeader+"\n"+TableSeparator+"\n"))
	assert.True(t, HasPropertyTable(doc))
}
