// Package imports holds the tree-sitter patterns that collect module-level
// import bindings.
package imports

// Captures:
//   - @import.default   local name of a default import
//   - @import.specifier one entry of a named import list
//   - @import.source    quoted module specifier
//
// Namespace imports and side-effect imports bind nothing that a props
// annotation can reference, so they are not matched.
const TSQueries = `
; import Card from './Card';
(import_statement
  (import_clause
    (identifier) @import.default)
  source: (string) @import.source)

; import { CardProps, Size as CardSize } from './types';
(import_statement
  (import_clause
    (named_imports
      (import_specifier) @import.specifier))
  source: (string) @import.source)
`

// JSQueries matches the same shapes in the JavaScript grammar, where node
// names coincide with TypeScript's.
const JSQueries = TSQueries
