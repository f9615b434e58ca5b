// Package gensym implements the symbol generator / alpha-freshness service
// of §4.1: given a base symbol and a relation tag, it produces a fresh
// [github.com/gradforge/gradforge/ir.Symbol] guaranteed distinct from every
// symbol this generator has previously minted for the same (label,
// relation) pair.
//
// # Alpha-Freshness
//
// [Gen.Fresh] increments a per-(label, relation) counter and returns a
// Symbol whose Version is one past the highest version this generator has
// returned before for that pair, matching the design's "version = 1 +
// max(existing versions of (base.label, relation))".
//
// Labels are NFC-normalized (via golang.org/x/text/unicode/norm) before
// use as a counter-map key. The design's relation glyphs (↑, ♢, ∇, ♦, see
// [github.com/gradforge/gradforge/ir.Relation.Glyph]) and any user label
// can carry combining marks; two visually identical labels produced by
// different code paths (a precomposed vs. a decomposed combining
// sequence) must be treated as the same freshness-counter key, or
// alpha-freshness (§8 property 1) would silently break.
//
// # Concurrency
//
// A Gen is not safe for concurrent use. §5 CONCURRENCY & RESOURCE MODEL
// scopes one Gen to one Grad transform or one meta-graph generation on a
// single logical thread; a future parallel pipeline would give each
// concurrent transform its own Gen.
package gensym
