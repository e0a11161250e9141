// Package toon implements TOON (Token-Oriented Object Notation), a compact,
// human- and LLM-readable line-oriented text format.
//
// TOON is designed to be:
//   - Token-cheap (minimal quoting, no repeated keys in uniform arrays)
//   - Indentation-structured (nesting without braces)
//   - Deterministic (one canonical layout per value and configuration)
//   - Round-trippable (decode(encode(v)) reproduces v)
//
// # Data Model
//
// Scalars: null, bool, int, float, string, date, url, bytes
// Containers: array, object (string keys, insertion order preserved)
//
// # Syntax
//
// Key-value:      name: Ada
// Nested object:  server:
//	                  host: localhost
//	                  port: 8080
// Inline array:   tags[3]: a,b,c
// Tabular array:  items[2]{sku,qty}:
//	                  A1,2
//	                  B4,1
// List array:     mixed[2]:
//	                  - 42
//	                  - key: value
// Folded keys:    a.b.c: 1   (single-key object chains, opt-in)
//
// Arrays declare their element count in the [N] bracket; a tab or pipe
// delimiter is declared inside the bracket after the count (comma is the
// default and carries no marker). Strings are quoted only when a bare
// rendering would be ambiguous.
//
// # Usage
//
//	v, err := toon.FromNative(map[string]any{"name": "Ada", "age": 36})
//	text, err := toon.Encode(v)
//	back, err := toon.Decode([]byte(text))
//
// Decoding enforces resource limits (input size, nesting depth, object key
// count, array length) incrementally; see DecodingLimits.
package toon

// FormatVersion is the TOON format version this package implements.
const FormatVersion = "2.0"
