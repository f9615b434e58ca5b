// Package ident provides rune-aware identifier tokenization and case conversion
// utilities for the gradforge module.
//
// # Internal Package
//
// This package is internal to the gradforge module and is not importable by
// external consumers per Go's internal/ package semantics. It is used by the
// symbol generator ([github.com/gradforge/gradforge/ir/gensym]) when deriving
// readable labels for generated symbols -- such as the backpropagator
// variable for a function named ComputeLoss -- from the base symbol's label.
//
// # lower_snake Algorithm
//
// The [ToLowerSnake] function implements the canonical lower_snake algorithm
// for normalizing a base label before it is combined with a relation tag
// (e.g. "bprop", "sens", "jtag") to derive a fresh symbol's readable label.
//
// Common transformations:
//
//	WORKS_AT   -> works_at
//	HTTPProxy  -> http_proxy
//	CreatedBy  -> created_by
//	UserID     -> user_id
//
// # CamelCase Conversion
//
// The [Capitalize], [ToUpperCamel], and [ToLowerCamel] functions provide
// rune-aware CamelCase conversion with acronym preservation:
//
//	http_server -> HttpServer  (Capitalize/ToUpperCamel)
//	http_server -> httpServer  (ToLowerCamel)
//	HTTPServer  -> HTTPServer  (Capitalize preserves acronyms)
//
// # Thread Safety
//
// All functions in this package are stateless and safe for concurrent use.
// No global state is maintained.
//
// # Stdlib-Only Dependencies
//
// This package depends only on stdlib. It has no dependencies on other packages
// and can be imported by any layer.
package ident
