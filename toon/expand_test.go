package toon

import (
	"errors"
	"testing"
)

func decodeExpand(t *testing.T, input string, mode ExpandMode) (*Value, error) {
	t.Helper()
	opts := DefaultDecodeOptions()
	opts.Expand = mode
	return DecodeWithOptions([]byte(input), opts)
}

// ============================================================
// Path Expansion Tests
// ============================================================

func TestExpand_Basic(t *testing.T) {
	v := mustDecode(t, "a.b.c: 1")
	wantInt(t, v.Get("a").Get("b").Get("c"), 1)
	if v.Get("a.b.c") != nil {
		t.Error("literal dotted key should not exist after expansion")
	}
}

func TestExpand_MergesSiblingPaths(t *testing.T) {
	v := mustDecode(t, "a.b: 1\na.c: 2")
	inner := v.Get("a")
	wantInt(t, inner.Get("b"), 1)
	wantInt(t, inner.Get("c"), 2)
	if v.Len() != 1 {
		t.Errorf("root should hold one key, got %d", v.Len())
	}
}

func TestExpand_MergesIntoExplicitObject(t *testing.T) {
	v := mustDecode(t, "a:\n  b: 1\na.c: 2")
	inner := v.Get("a")
	wantInt(t, inner.Get("b"), 1)
	wantInt(t, inner.Get("c"), 2)
}

func TestExpand_QuotedDottedKey(t *testing.T) {
	// Quoting does not exempt a key from expansion.
	v := mustDecode(t, `"a.b": 1`)
	wantInt(t, v.Get("a").Get("b"), 1)
}

func TestExpand_NonIdentSegmentsStayLiteral(t *testing.T) {
	tests := []struct {
		input string
		key   string
	}{
		{`"a b.c": 1`, "a b.c"},
		{"a..b: 1", "a..b"},
		{"1a.b: 1", "1a.b"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := mustDecode(t, tt.input)
			o, _ := v.AsObject()
			if o.Len() != 1 || !o.Has(tt.key) {
				t.Fatalf("Decode(%q): expected single literal key %q, got %v", tt.input, tt.key, o.Keys())
			}
			wantInt(t, o.Get(tt.key), 1)
		})
	}
}

func TestExpand_Disabled(t *testing.T) {
	v, err := decodeExpand(t, "a.b: 1", ExpandDisabled)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	wantInt(t, v.Get("a.b"), 1)
	if v.Get("a") != nil {
		t.Error("no nested object should exist with expansion disabled")
	}
}

func TestExpand_AutomaticFallbackOnCollision(t *testing.T) {
	// "a" already holds a scalar: the dotted key silently stays literal.
	v := mustDecode(t, "a: 1\na.b: 2")
	wantInt(t, v.Get("a"), 1)
	wantInt(t, v.Get("a.b"), 2)
}

func TestExpand_AutomaticFallbackOnObjectOverwrite(t *testing.T) {
	v := mustDecode(t, "a.b.c: 1\na.b: 2")
	wantInt(t, v.Get("a").Get("b").Get("c"), 1)
	wantInt(t, v.Get("a.b"), 2)
}

func TestExpand_SafeFailsOnCollision(t *testing.T) {
	tests := []string{
		"a: 1\na.b: 2",
		"a.b.c: 1\na.b: 2",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := decodeExpand(t, input, ExpandSafe)
			var de *DecodeError
			if !errors.As(err, &de) || de.Kind != ErrPathCollision {
				t.Fatalf("got %v, want %s", err, ErrPathCollision)
			}
		})
	}
}

func TestExpand_SafeSucceedsWithoutCollision(t *testing.T) {
	v, err := decodeExpand(t, "a.b: 1\na.c: 2", ExpandSafe)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	wantInt(t, v.Get("a").Get("b"), 1)
	wantInt(t, v.Get("a").Get("c"), 2)
}

func TestExpand_InsideListItems(t *testing.T) {
	v := mustDecode(t, "items[1]:\n  - a.b: 1")
	items, _ := v.Get("items").AsArray()
	wantInt(t, items[0].Get("a").Get("b"), 1)
}

func TestExpand_TabularFieldNames(t *testing.T) {
	v := mustDecode(t, "items[1]{a.b,c}:\n  1,2")
	items, _ := v.Get("items").AsArray()
	wantInt(t, items[0].Get("a").Get("b"), 1)
	wantInt(t, items[0].Get("c"), 2)
}

// ============================================================
// Fold / Expand Round Trip
// ============================================================

func TestExpand_InvertsFolding(t *testing.T) {
	orig := obj("server", obj("http", obj("port", Int(8080))))
	opts := DefaultEncodeOptions()
	opts.KeyFolding = FoldSafe
	text, err := EncodeWithOptions(orig, opts)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if text != "server.http.port: 8080" {
		t.Fatalf("folded form = %q", text)
	}
	back := mustDecode(t, text)
	if !Equal(orig, back) {
		t.Error("fold then expand should restore the original value")
	}
}
