package generator

import (
	"path/filepath"
	"strings"

	"github.com/gnana997/propdoc/pkg/extractor"
)

// Action says what Generate did (or, for Preview, would do) to the document.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
	// ActionSkipped: the document exists but has no property table header.
	ActionSkipped Action = "skipped"
)

// Result describes one generation request.
type Result struct {
	SourcePath    string `json:"source_path"`
	DocPath       string `json:"doc_path"`
	ComponentName string `json:"component_name"`

	// PropsType is empty when no props type was found.
	PropsType   string `json:"props_type,omitempty"`
	PropsModule string `json:"props_module,omitempty"`
	DeclaredIn  string `json:"declared_in,omitempty"`

	Rows           []extractor.PropertyRow `json:"rows"`
	MockAttributes []string                `json:"mock_attributes,omitempty"`
	Table          string                  `json:"table"`
	Document       string                  `json:"document,omitempty"`
	Action         Action                  `json:"action"`
}

// Written reports whether the document on disk was (or would be) changed.
func (r *Result) Written() bool {
	return r.Action == ActionCreated || r.Action == ActionUpdated
}

// DocPath returns the sibling document path: the source path with its
// extension replaced by ext.
func DocPath(sourcePath, ext string) string {
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ext
}

// ComponentName is the source file's base name without extension.
func ComponentName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
