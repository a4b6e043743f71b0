package mcp

import "github.com/mark3labs/mcp-go/mcp"

const (
	toolGenerateDoc  = "generate_doc"
	toolPreviewProps = "preview_props"
)

func generateDocTool() mcp.Tool {
	return mcp.NewTool(
		toolGenerateDoc,
		mcp.WithDescription("Generate or refresh the markdown document next to a React component. "+
			"Creates the document when missing; otherwise replaces only its property table."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Component source file (.tsx, .ts, .jsx, .js), absolute or relative to the project"),
		),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

func previewPropsTool() mcp.Tool {
	return mcp.NewTool(
		toolPreviewProps,
		mcp.WithDescription("Extract a component's props and return the property rows and the document "+
			"that would be written, without touching disk."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Component source file, absolute or relative to the project"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
}
