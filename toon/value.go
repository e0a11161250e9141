package toon

import (
	"fmt"
	"math"
	"time"
)

// Kind represents TOON value types.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindDate
	KindURL
	KindBytes
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindURL:
		return "url"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value represents a TOON value.
type Value struct {
	kind Kind

	// Scalar values (only one valid based on kind)
	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string // string and url
	timeVal  time.Time
	bytesVal []byte

	// Container values
	arrVal []*Value
	objVal *Object
}

// Object is an insertion-order-preserving string-keyed map.
// The key order list and the entry map always hold the same key set;
// all mutation goes through Set so the invariant cannot drift.
type Object struct {
	keys    []string
	entries map[string]*Value
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{entries: make(map[string]*Value)}
}

// Set stores a value under key. A repeated key overwrites the value but
// keeps the key's original order position.
func (o *Object) Set(key string, v *Value) {
	if _, ok := o.entries[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.entries[key] = v
}

// Get returns the value for key, or nil if absent.
func (o *Object) Get(key string) *Value {
	return o.entries[key]
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.entries[key]
	return ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not mutate it.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of entries.
func (o *Object) Len() int {
	return len(o.keys)
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int creates an integer value.
func Int(v int64) *Value {
	return &Value{kind: KindInt, intVal: v}
}

// Float creates a float value.
func Float(v float64) *Value {
	return &Value{kind: KindFloat, floatVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{kind: KindString, strVal: v}
}

// Date creates a date value.
func Date(v time.Time) *Value {
	return &Value{kind: KindDate, timeVal: v}
}

// URL creates a URL value from its absolute string form.
func URL(v string) *Value {
	return &Value{kind: KindURL, strVal: v}
}

// Bin creates a bytes value.
func Bin(v []byte) *Value {
	return &Value{kind: KindBytes, bytesVal: v}
}

// Array creates an array value.
func Array(elems ...*Value) *Value {
	return &Value{kind: KindArray, arrVal: elems}
}

// Obj creates an object value wrapping o. A nil o yields an empty object.
func Obj(o *Object) *Value {
	if o == nil {
		o = NewObject()
	}
	return &Value{kind: KindObject, objVal: o}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull returns true if this is a null value.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v == nil || v.kind != KindBool {
		return false, fmt.Errorf("toon: expected bool, got %s", v.Kind())
	}
	return v.boolVal, nil
}

// AsInt returns the integer value.
func (v *Value) AsInt() (int64, error) {
	if v == nil || v.kind != KindInt {
		return 0, fmt.Errorf("toon: expected int, got %s", v.Kind())
	}
	return v.intVal, nil
}

// AsFloat returns the float value.
func (v *Value) AsFloat() (float64, error) {
	if v == nil || v.kind != KindFloat {
		return 0, fmt.Errorf("toon: expected float, got %s", v.Kind())
	}
	return v.floatVal, nil
}

// AsStr returns the string value.
func (v *Value) AsStr() (string, error) {
	if v == nil || v.kind != KindString {
		return "", fmt.Errorf("toon: expected string, got %s", v.Kind())
	}
	return v.strVal, nil
}

// AsDate returns the date value.
func (v *Value) AsDate() (time.Time, error) {
	if v == nil || v.kind != KindDate {
		return time.Time{}, fmt.Errorf("toon: expected date, got %s", v.Kind())
	}
	return v.timeVal, nil
}

// AsURL returns the URL string.
func (v *Value) AsURL() (string, error) {
	if v == nil || v.kind != KindURL {
		return "", fmt.Errorf("toon: expected url, got %s", v.Kind())
	}
	return v.strVal, nil
}

// AsBytes returns the bytes value.
func (v *Value) AsBytes() ([]byte, error) {
	if v == nil || v.kind != KindBytes {
		return nil, fmt.Errorf("toon: expected bytes, got %s", v.Kind())
	}
	return v.bytesVal, nil
}

// AsArray returns the array elements.
func (v *Value) AsArray() ([]*Value, error) {
	if v == nil || v.kind != KindArray {
		return nil, fmt.Errorf("toon: expected array, got %s", v.Kind())
	}
	return v.arrVal, nil
}

// AsObject returns the object.
func (v *Value) AsObject() (*Object, error) {
	if v == nil || v.kind != KindObject {
		return nil, fmt.Errorf("toon: expected object, got %s", v.Kind())
	}
	return v.objVal, nil
}

// Len returns the length of an array or object.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindArray:
		return len(v.arrVal)
	case KindObject:
		return v.objVal.Len()
	default:
		return 0
	}
}

// Get returns a field value by key from an object, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.kind != KindObject {
		return nil
	}
	return v.objVal.Get(key)
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	if v == nil || v.kind != KindArray {
		return nil, fmt.Errorf("toon: not an array")
	}
	if i < 0 || i >= len(v.arrVal) {
		return nil, fmt.Errorf("toon: index %d out of bounds (len=%d)", i, len(v.arrVal))
	}
	return v.arrVal[i], nil
}

// ============================================================
// Equality
// ============================================================

// Equal reports structural equality. Object comparison is key-set based:
// two objects holding the same pairs compare equal regardless of insertion
// order. The serialized text is the order-sensitive representation.
func Equal(a, b *Value) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindBool:
		return a.boolVal == b.boolVal
	case KindInt:
		return a.intVal == b.intVal
	case KindFloat:
		if math.IsNaN(a.floatVal) || math.IsNaN(b.floatVal) {
			return false
		}
		return a.floatVal == b.floatVal
	case KindString, KindURL:
		return a.strVal == b.strVal
	case KindDate:
		return a.timeVal.Equal(b.timeVal)
	case KindBytes:
		if len(a.bytesVal) != len(b.bytesVal) {
			return false
		}
		for i := range a.bytesVal {
			if a.bytesVal[i] != b.bytesVal[i] {
				return false
			}
		}
		return true
	case KindArray:
		if len(a.arrVal) != len(b.arrVal) {
			return false
		}
		for i := range a.arrVal {
			if !Equal(a.arrVal[i], b.arrVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.objVal.Len() != b.objVal.Len() {
			return false
		}
		for _, k := range a.objVal.keys {
			bv := b.objVal.Get(k)
			if bv == nil && !b.objVal.Has(k) {
				return false
			}
			if !Equal(a.objVal.Get(k), bv) {
				return false
			}
		}
		return true
	}
	return false
}
