// Package declarations holds patterns for type declarations that can carry
// component props.
package declarations

// TSQueries captures interfaces and object-literal type aliases.
//
// @declaration.name is the declared identifier; the enclosing node is
// captured as @declaration.interface or @declaration.alias.
const TSQueries = `
(interface_declaration
  name: (type_identifier) @declaration.name) @declaration.interface

(type_alias_declaration
  name: (type_identifier) @declaration.name
  value: (object_type)) @declaration.alias
`
