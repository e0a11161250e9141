package toon

import (
	"math"
	"testing"
	"time"
)

// ============================================================
// Encode / Decode Round Trips
// ============================================================

func TestRoundTrip_Values(t *testing.T) {
	tests := []struct {
		name  string
		input *Value
	}{
		{"flat object", obj("name", Str("Ada"), "age", Int(36), "ok", Bool(true), "nick", Null())},
		{"nested object", obj("a", obj("b", obj("c", Str("deep"))))},
		{"empty object", Obj(nil)},
		{"empty array", Array()},
		{"inline array", obj("tags", Array(Str("a"), Str("b"), Str("c")))},
		{"tabular", obj("items", Array(
			obj("sku", Str("A1"), "qty", Int(2), "price", Float(9.99)),
			obj("sku", Str("B2"), "qty", Int(1), "price", Float(14.5)),
		))},
		{"list items", obj("items", Array(Int(1), obj("a", Int(1), "b", Str("two")), Array(Str("x"))))},
		{"nested arrays", obj("matrix", Array(Array(Int(1), Int(2)), Array(Int(3), Int(4))))},
		{"quoted strings", obj("s", Str("true"), "t", Str("05"), "u", Str("a,b"), "v", Str("line\nbreak"))},
		{"awkward keys", obj("my key", Int(1), "a:b", Int(2), "", Int(3))},
		{"root array", Array(Str("a"), Int(1), Null())},
		{"root scalar", Str("just one line")},
		{"floats", obj("pi", Float(3.14), "neg", Float(-0.5), "tiny", Float(0.001))},
		{"empty strings in array", obj("x", Array(Str(""), Str("")))},
		{"deep mix", obj("users", Array(
			obj("id", Int(1), "profile", obj("email", Str("a@example.com")), "roles", Array(Str("admin"))),
			obj("id", Int(2), "profile", Obj(nil), "roles", Array()),
		))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := mustEncode(t, tt.input)
			back, err := Decode([]byte(text))
			if err != nil {
				t.Fatalf("Decode failed on:\n%s\nerror: %v", text, err)
			}
			if !Equal(tt.input, back) {
				t.Errorf("round trip mismatch:\n%s", text)
			}
		})
	}
}

func TestRoundTrip_Delimiters(t *testing.T) {
	v := obj(
		"tags", Array(Str("reading"), Str("gaming")),
		"items", Array(obj("a", Int(1), "b", Int(2)), obj("a", Int(3), "b", Int(4))),
	)
	for _, delim := range []byte{',', '\t', '|'} {
		opts := DefaultEncodeOptions()
		opts.Delimiter = delim
		text, err := EncodeWithOptions(v, opts)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		back, err := Decode([]byte(text))
		if err != nil {
			t.Fatalf("delim %q: Decode failed on:\n%s\nerror: %v", delim, text, err)
		}
		if !Equal(v, back) {
			t.Errorf("delim %q: round trip mismatch:\n%s", delim, text)
		}
	}
}

func TestRoundTrip_Idempotent(t *testing.T) {
	inputs := []string{
		"name: Ada\ntags[2]: a,b",
		"items[2]{sku,qty}:\n  A1,2\n  B2,1",
		"a:\n  b:\n    c: 1",
		"items[2]:\n  - 1\n  - a: 1",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			v1 := mustDecode(t, input)
			text := mustEncode(t, v1)
			v2 := mustDecode(t, text)
			if !Equal(v1, v2) {
				t.Errorf("decode-encode-decode drifted:\n%s\nvs\n%s", input, text)
			}
			// A second pass must reproduce the same text.
			if again := mustEncode(t, v2); again != text {
				t.Errorf("encoding is not stable:\n%s\nvs\n%s", text, again)
			}
		})
	}
}

// ============================================================
// Documented Type Lossiness
// ============================================================

func TestRoundTrip_IntegralFloatBecomesInt(t *testing.T) {
	text := mustEncode(t, obj("n", Float(2.0)))
	if text != "n: 2" {
		t.Fatalf("got %q", text)
	}
	back := mustDecode(t, text)
	if back.Get("n").Kind() != KindInt {
		t.Errorf("integral float re-decodes as %s", back.Get("n").Kind())
	}
	wantInt(t, back.Get("n"), 2)
}

func TestRoundTrip_NegativeZero(t *testing.T) {
	text := mustEncode(t, obj("value", Float(math.Copysign(0, -1))))
	if text != "value: -0" {
		t.Fatalf("got %q", text)
	}
	back := mustDecode(t, text)
	wantInt(t, back.Get("value"), 0)
}

func TestRoundTrip_Uint64Contract(t *testing.T) {
	v := mustFromNative(t, map[string]any{"id": uint64(math.MaxInt64) + 1})
	text := mustEncode(t, v)
	if text != `id: "9223372036854775808"` {
		t.Fatalf("got %q", text)
	}
	back := mustDecode(t, text)
	u, err := back.Get("id").AsUint64()
	if err != nil {
		t.Fatalf("AsUint64 failed: %v", err)
	}
	if u != uint64(math.MaxInt64)+1 {
		t.Errorf("AsUint64 = %d", u)
	}

	// The bare (unquoted) digits decode the same way.
	bare := mustDecode(t, "id: 9223372036854775808")
	if u, _ := bare.Get("id").AsUint64(); u != uint64(math.MaxInt64)+1 {
		t.Errorf("bare AsUint64 = %d", u)
	}
}

func TestRoundTrip_TypedScalarsViaCoercion(t *testing.T) {
	ts := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
	v := obj(
		"when", Date(ts),
		"link", URL("https://example.com/x"),
		"blob", Bin([]byte("hi")),
	)
	text := mustEncode(t, v)
	back := mustDecode(t, text)

	// The wire format carries these as strings; coercion restores them.
	got, err := back.Get("when").ToDate()
	if err != nil || !got.Equal(ts) {
		t.Errorf("ToDate = %v, %v", got, err)
	}
	link, err := back.Get("link").ToURL()
	if err != nil || link != "https://example.com/x" {
		t.Errorf("ToURL = %q, %v", link, err)
	}
	blob, err := back.Get("blob").ToBytes()
	if err != nil || string(blob) != "hi" {
		t.Errorf("ToBytes = %q, %v", blob, err)
	}
}

// ============================================================
// JSON to TOON End to End
// ============================================================

func TestEndToEnd_JSONToTOON(t *testing.T) {
	v := mustFromJSON(t, `{"name":"Ada","tags":["a","b"],"items":[{"sku":"A1","qty":2},{"sku":"B2","qty":1}]}`)
	text := mustEncode(t, v)
	want := "name: Ada\ntags[2]: a,b\nitems[2]{sku,qty}:\n  A1,2\n  B2,1"
	if text != want {
		t.Fatalf("got:\n%s\nwant:\n%s", text, want)
	}

	back := mustDecode(t, text)
	json := mustToJSON(t, back, false)
	want = `{"name":"Ada","tags":["a","b"],"items":[{"sku":"A1","qty":2},{"sku":"B2","qty":1}]}`
	if json != want {
		t.Errorf("got %s, want %s", json, want)
	}
}
