package toon

import (
	"errors"
	"math"
	"net/url"
	"testing"
	"time"
)

func mustFromNative(t *testing.T, v any) *Value {
	t.Helper()
	gv, err := FromNative(v)
	if err != nil {
		t.Fatalf("FromNative(%v) failed: %v", v, err)
	}
	return gv
}

// ============================================================
// FromNative Tests
// ============================================================

func TestFromNative_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected *Value
	}{
		{"nil", nil, Null()},
		{"bool", true, Bool(true)},
		{"int", 42, Int(42)},
		{"int8", int8(-7), Int(-7)},
		{"int64", int64(1 << 40), Int(1 << 40)},
		{"uint8", uint8(255), Int(255)},
		{"uint32", uint32(4000000000), Int(4000000000)},
		{"float32", float32(1.5), Float(1.5)},
		{"float64", 3.25, Float(3.25)},
		{"string", "hello", Str("hello")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustFromNative(t, tt.input)
			if !Equal(got, tt.expected) {
				t.Errorf("FromNative(%v): kind %s, want %s", tt.input, got.Kind(), tt.expected.Kind())
			}
		})
	}
}

func TestFromNative_Uint64Contract(t *testing.T) {
	small := mustFromNative(t, uint64(7))
	if !Equal(small, Int(7)) {
		t.Error("in-range uint64 should become Int")
	}

	big := mustFromNative(t, uint64(math.MaxInt64)+1)
	if !Equal(big, Str("9223372036854775808")) {
		t.Errorf("out-of-range uint64 should become decimal string, got %s", big.Kind())
	}
	u, err := big.AsUint64()
	if err != nil {
		t.Fatalf("AsUint64 failed: %v", err)
	}
	if u != uint64(math.MaxInt64)+1 {
		t.Errorf("AsUint64 = %d", u)
	}
}

func TestFromNative_TypedScalars(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := mustFromNative(t, ts); got.Kind() != KindDate {
		t.Errorf("time.Time: kind %s, want date", got.Kind())
	}

	u, _ := url.Parse("https://example.com/x")
	got := mustFromNative(t, u)
	if got.Kind() != KindURL {
		t.Fatalf("*url.URL: kind %s, want url", got.Kind())
	}
	if s, _ := got.AsURL(); s != "https://example.com/x" {
		t.Errorf("url = %q", s)
	}

	if got := mustFromNative(t, []byte{1, 2}); got.Kind() != KindBytes {
		t.Errorf("[]byte: kind %s, want bytes", got.Kind())
	}
}

func TestFromNative_Containers(t *testing.T) {
	got := mustFromNative(t, []any{1, "x", nil})
	if !Equal(got, Array(Int(1), Str("x"), Null())) {
		t.Error("unexpected []any conversion")
	}

	// Unordered maps sort keys for reproducible output.
	got = mustFromNative(t, map[string]any{"b": 2, "a": 1})
	o, err := got.AsObject()
	if err != nil {
		t.Fatalf("AsObject failed: %v", err)
	}
	if o.Keys()[0] != "a" || o.Keys()[1] != "b" {
		t.Errorf("map keys not sorted: %v", o.Keys())
	}
}

func TestFromNative_TypedContainers(t *testing.T) {
	got := mustFromNative(t, []int{1, 2, 3})
	if !Equal(got, Array(Int(1), Int(2), Int(3))) {
		t.Error("unexpected []int conversion")
	}

	got = mustFromNative(t, map[string]int{"x": 1})
	wantInt(t, got.Get("x"), 1)
}

func TestFromNative_UnsupportedTypes(t *testing.T) {
	if _, err := FromNative(map[int]string{1: "x"}); err == nil {
		t.Error("non-string map keys should fail")
	}
	if _, err := FromNative(make(chan int)); err == nil {
		t.Error("channels should fail")
	}
}

func TestToNative_RoundTrip(t *testing.T) {
	v := obj("a", Int(1), "b", Array(Str("x"), Null()))
	n := ToNative(v)
	o, ok := n.(*Object)
	if !ok {
		t.Fatalf("ToNative returned %T, want *Object", n)
	}
	if o.Keys()[0] != "a" {
		t.Errorf("key order lost: %v", o.Keys())
	}
	arr, ok := ToNative(v.Get("b")).([]any)
	if !ok || len(arr) != 2 || arr[0] != "x" || arr[1] != nil {
		t.Errorf("unexpected array conversion: %v", arr)
	}
}

// ============================================================
// Fixed-Width Narrowing
// ============================================================

func TestNarrowing(t *testing.T) {
	v := Int(300)
	if _, err := v.AsInt8(); err == nil {
		t.Error("300 should overflow int8")
	}
	if _, err := v.AsUint8(); err == nil {
		t.Error("300 should overflow uint8")
	}
	if n, err := v.AsInt16(); err != nil || n != 300 {
		t.Errorf("AsInt16 = %d, %v", n, err)
	}
	if n, err := v.AsUint16(); err != nil || n != 300 {
		t.Errorf("AsUint16 = %d, %v", n, err)
	}

	neg := Int(-1)
	if _, err := neg.AsUint32(); err == nil {
		t.Error("-1 should fail unsigned narrowing")
	}
	if _, err := neg.AsUint64(); err == nil {
		t.Error("-1 should fail AsUint64")
	}

	var de *DecodeError
	_, err := Int(1 << 40).AsInt32()
	if !errors.As(err, &de) || de.Kind != ErrDataCorrupted {
		t.Errorf("overflow error = %v, want %s", err, ErrDataCorrupted)
	}

	_, err = Str("x").AsInt32()
	if !errors.As(err, &de) || de.Kind != ErrTypeMismatch {
		t.Errorf("type error = %v, want %s", err, ErrTypeMismatch)
	}
}

// ============================================================
// Typed Coercion
// ============================================================

func TestToDate(t *testing.T) {
	ts := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
	if got, err := Date(ts).ToDate(); err != nil || !got.Equal(ts) {
		t.Errorf("ToDate on date = %v, %v", got, err)
	}

	got, err := Str("2024-03-15T12:30:00.000Z").ToDate()
	if err != nil || !got.Equal(ts) {
		t.Errorf("ToDate on string = %v, %v", got, err)
	}

	if _, err := Str("not a date").ToDate(); err == nil {
		t.Error("garbage should fail ToDate")
	}
	if _, err := Int(1).ToDate(); err == nil {
		t.Error("int should fail ToDate")
	}
}

func TestToURL(t *testing.T) {
	if s, err := Str("https://example.com").ToURL(); err != nil || s != "https://example.com" {
		t.Errorf("ToURL = %q, %v", s, err)
	}
	if _, err := Str("").ToURL(); err == nil {
		t.Error("empty string should fail ToURL")
	}
	if _, err := Str("not absolute").ToURL(); err == nil {
		t.Error("relative reference should fail ToURL")
	}
}

func TestToBytes(t *testing.T) {
	if b, err := Str("aGk=").ToBytes(); err != nil || string(b) != "hi" {
		t.Errorf("ToBytes = %q, %v", b, err)
	}
	if _, err := Str("!!!").ToBytes(); err == nil {
		t.Error("invalid base64 should fail ToBytes")
	}
	if b, err := Bin([]byte{1}).ToBytes(); err != nil || len(b) != 1 {
		t.Errorf("ToBytes on bytes = %v, %v", b, err)
	}
}
