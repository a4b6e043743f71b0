package parser

import (
	"path/filepath"
	"strings"
)

// Language identifies the grammar family used for a component source file.
type Language int

const (
	// LanguageTypeScript covers .ts and .tsx sources.
	LanguageTypeScript Language = iota
	// LanguageJavaScript covers .js and .jsx sources.
	LanguageJavaScript
	// LanguageUnknown marks files the generator does not read.
	LanguageUnknown
)

func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// SourceExtensions lists the extensions accepted as component sources and as
// module-resolution candidates.
var SourceExtensions = []string{".tsx", ".ts", ".jsx", ".js"}

// DetectLanguage maps a file path to its grammar family by extension.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".tsx", ".mts", ".cts":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// IsTSXFile reports whether the TypeScript grammar must run with JSX enabled.
func IsTSXFile(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), ".tsx")
}

// IsSourceFile reports whether filePath has one of SourceExtensions.
// Declaration files (.d.ts) are accepted since they may carry props types.
func IsSourceFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, candidate := range SourceExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
