package toon

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// ============================================================
// Native Binding Adapter
// ============================================================
//
// Converts between native Go values and the Value model. The codec itself
// only ever sees Values; this layer decides key order for unordered maps
// (lexicographic, for reproducible output) and applies the unsigned-64
// contract: a uint64 above the signed range becomes a decimal string, and
// AsUint64 re-parses such strings on the way back.

// FromNative converts a Go value to a Value.
func FromNative(v any) (*Value, error) {
	if v == nil {
		return Null(), nil
	}
	switch val := v.(type) {
	case *Value:
		return val, nil
	case *Object:
		return Obj(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		return fromUint64(uint64(val)), nil
	case uint8:
		return Int(int64(val)), nil
	case uint16:
		return Int(int64(val)), nil
	case uint32:
		return Int(int64(val)), nil
	case uint64:
		return fromUint64(val), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case string:
		return Str(val), nil
	case json.Number:
		if n, err := strconv.ParseInt(string(val), 10, 64); err == nil {
			return Int(n), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("toon: invalid number %q: %w", string(val), err)
		}
		return Float(f), nil
	case time.Time:
		return Date(val), nil
	case url.URL:
		return URL(val.String()), nil
	case *url.URL:
		return URL(val.String()), nil
	case []byte:
		return Bin(val), nil
	case []any:
		elems := make([]*Value, len(val))
		for i, e := range val {
			gv, err := FromNative(e)
			if err != nil {
				return nil, fmt.Errorf("toon: array[%d]: %w", i, err)
			}
			elems[i] = gv
		}
		return Array(elems...), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			gv, err := FromNative(val[k])
			if err != nil {
				return nil, fmt.Errorf("toon: key %q: %w", k, err)
			}
			obj.Set(k, gv)
		}
		return Obj(obj), nil
	}
	return fromReflected(reflect.ValueOf(v))
}

// fromReflected handles typed slices and string-keyed maps outside the
// direct cases.
func fromReflected(rv reflect.Value) (*Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromNative(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		elems := make([]*Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			gv, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("toon: array[%d]: %w", i, err)
			}
			elems[i] = gv
		}
		return Array(elems...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("toon: unsupported map key type %s", rv.Type().Key())
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			gv, err := FromNative(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
			if err != nil {
				return nil, fmt.Errorf("toon: key %q: %w", k, err)
			}
			obj.Set(k, gv)
		}
		return Obj(obj), nil
	}
	return nil, fmt.Errorf("toon: unsupported type %s", rv.Type())
}

func fromUint64(u uint64) *Value {
	if u > math.MaxInt64 {
		return Str(strconv.FormatUint(u, 10))
	}
	return Int(int64(u))
}

// ToNative converts a Value back to a native Go value. Objects surface as
// *Object so key order survives the trip.
func ToNative(v *Value) any {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		return v.boolVal
	case KindInt:
		return v.intVal
	case KindFloat:
		return v.floatVal
	case KindString, KindURL:
		return v.strVal
	case KindDate:
		return v.timeVal
	case KindBytes:
		return v.bytesVal
	case KindArray:
		out := make([]any, len(v.arrVal))
		for i, e := range v.arrVal {
			out[i] = ToNative(e)
		}
		return out
	case KindObject:
		return v.objVal
	}
	return nil
}

// ============================================================
// Fixed-Width Narrowing
// ============================================================

// AsUint64 returns the value as an unsigned 64-bit integer. Per the
// unsigned-64 contract it accepts either an in-range Int or a String token
// that fully parses as an unsigned decimal integer.
func (v *Value) AsUint64() (uint64, error) {
	switch v.Kind() {
	case KindInt:
		if v.intVal < 0 {
			return 0, decodeErr(ErrDataCorrupted, 0, "%d does not fit in uint64", v.intVal)
		}
		return uint64(v.intVal), nil
	case KindString:
		u, err := strconv.ParseUint(v.strVal, 10, 64)
		if err != nil {
			return 0, decodeErr(ErrDataCorrupted, 0, "%q is not an unsigned integer", v.strVal)
		}
		return u, nil
	}
	return 0, decodeErr(ErrTypeMismatch, 0, "expected int or digit string, got %s", v.Kind())
}

// AsInt32 returns the value as int32, failing on overflow.
func (v *Value) AsInt32() (int32, error) {
	n, err := v.narrow(math.MinInt32, math.MaxInt32, "int32")
	return int32(n), err
}

// AsInt16 returns the value as int16, failing on overflow.
func (v *Value) AsInt16() (int16, error) {
	n, err := v.narrow(math.MinInt16, math.MaxInt16, "int16")
	return int16(n), err
}

// AsInt8 returns the value as int8, failing on overflow.
func (v *Value) AsInt8() (int8, error) {
	n, err := v.narrow(math.MinInt8, math.MaxInt8, "int8")
	return int8(n), err
}

// AsUint32 returns the value as uint32, failing on overflow.
func (v *Value) AsUint32() (uint32, error) {
	n, err := v.narrow(0, math.MaxUint32, "uint32")
	return uint32(n), err
}

// AsUint16 returns the value as uint16, failing on overflow.
func (v *Value) AsUint16() (uint16, error) {
	n, err := v.narrow(0, math.MaxUint16, "uint16")
	return uint16(n), err
}

// AsUint8 returns the value as uint8, failing on overflow.
func (v *Value) AsUint8() (uint8, error) {
	n, err := v.narrow(0, math.MaxUint8, "uint8")
	return uint8(n), err
}

func (v *Value) narrow(lo, hi int64, name string) (int64, error) {
	n, err := v.AsInt()
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, decodeErr(ErrDataCorrupted, 0, "%d does not fit in %s", n, name)
	}
	return n, nil
}

// ============================================================
// Typed Scalar Coercion
// ============================================================
//
// The wire format carries dates, URLs, and binary blobs as quoted strings;
// these helpers re-type a decoded String when the caller requests the
// richer variant.

// ToDate returns the value as a time.Time, parsing an ISO-8601 string when
// needed.
func (v *Value) ToDate() (time.Time, error) {
	switch v.Kind() {
	case KindDate:
		return v.timeVal, nil
	case KindString:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000Z"} {
			if t, err := time.Parse(layout, v.strVal); err == nil {
				return t, nil
			}
		}
		return time.Time{}, decodeErr(ErrDataCorrupted, 0, "%q is not an ISO-8601 date", v.strVal)
	}
	return time.Time{}, decodeErr(ErrTypeMismatch, 0, "expected date, got %s", v.Kind())
}

// ToURL returns the value as an absolute URL string, failing on an empty
// or unparsable candidate.
func (v *Value) ToURL() (string, error) {
	var s string
	switch v.Kind() {
	case KindURL:
		return v.strVal, nil
	case KindString:
		s = v.strVal
	default:
		return "", decodeErr(ErrTypeMismatch, 0, "expected url, got %s", v.Kind())
	}
	if s == "" {
		return "", decodeErr(ErrDataCorrupted, 0, "empty URL")
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return "", decodeErr(ErrDataCorrupted, 0, "%q is not an absolute URL", s)
	}
	return s, nil
}

// ToBytes returns the value as raw bytes, decoding standard base64 when
// needed.
func (v *Value) ToBytes() ([]byte, error) {
	switch v.Kind() {
	case KindBytes:
		return v.bytesVal, nil
	case KindString:
		b, err := base64.StdEncoding.DecodeString(v.strVal)
		if err != nil {
			return nil, decodeErr(ErrDataCorrupted, 0, "invalid base64: %v", err)
		}
		return b, nil
	}
	return nil, decodeErr(ErrTypeMismatch, 0, "expected bytes, got %s", v.Kind())
}
