// Package diag provides structured diagnostics for the gradforge core.
//
// This package sits at the foundation tier: it has no dependency on [ir],
// [abstract], [prim], [metagraph], or [grad], and all of those packages
// depend on it.
//
// # Design Principles
//
//   - Structured data, string-last presentation: the symbol or signature a
//     diagnostic concerns is stored as data ([Detail] pairs), never only
//     embedded in the message string.
//   - Immutable results: [Issue] stores fields unexported and exposes
//     accessor methods.
//   - Stable error codes: [Code] values are stable identifiers that tools
//     can match on, even when message text changes.
//   - Builder pattern: [IssueBuilder] is the only valid construction path
//     for [Issue] values.
//
// # Why no source spans
//
// The core never sees source text (§1 of the design places the parser,
// ANF conversion, and type/shape inference firmly out of scope), so
// [Issue] carries no source span. Context is attached instead via
// [Detail] pairs naming the symbol, signature, or primitive involved.
// The enclosing pipeline step annotates with source location.
//
// # Propagation policy
//
// The core surfaces exactly one failure at a time to its caller (the
// pipeline driver) and never retries or swallows an error locally; there is
// deliberately no Collector here; a failed transform leaves no partial
// state registered (see [github.com/gradforge/gradforge/env]).
package diag
