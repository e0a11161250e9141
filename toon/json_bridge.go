package toon

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON and the Value model at the value-model boundary.
// Object key order is preserved in both directions, which rules out
// map[string]any round-trips; the bridge walks the token stream instead.

// FromJSON converts JSON bytes to a Value. Numbers that fully parse as
// int64 become Int; everything else numeric becomes Float.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("toon: JSON parse error: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("toon: trailing data after JSON document")
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key token %v", keyTok)
				}
				v, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return Obj(obj), nil
		case '[':
			var elems []*Value
			for dec.More() {
				v, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				elems = append(elems, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return Array(elems...), nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case bool:
		return Bool(t), nil
	case json.Number:
		return FromNative(t)
	case string:
		return Str(t), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

// ToJSON converts a Value to JSON bytes, preserving object key order.
// Dates, URLs, and bytes surface as their string forms; non-finite floats
// become null.
func ToJSON(v *Value, pretty bool) ([]byte, error) {
	w := &jsonWriter{pretty: pretty}
	if err := w.write(v, 0); err != nil {
		return nil, err
	}
	return []byte(w.sb.String()), nil
}

type jsonWriter struct {
	sb     strings.Builder
	pretty bool
}

func (w *jsonWriter) write(v *Value, depth int) error {
	switch v.Kind() {
	case KindNull:
		w.sb.WriteString("null")
	case KindBool:
		if v.boolVal {
			w.sb.WriteString("true")
		} else {
			w.sb.WriteString("false")
		}
	case KindInt:
		w.sb.WriteString(canonInt(v.intVal))
	case KindFloat:
		if math.IsNaN(v.floatVal) || math.IsInf(v.floatVal, 0) {
			w.sb.WriteString("null")
			return nil
		}
		b, err := json.Marshal(v.floatVal)
		if err != nil {
			return err
		}
		w.sb.Write(b)
	case KindString, KindURL:
		return w.writeString(v.strVal)
	case KindDate:
		return w.writeString(v.timeVal.UTC().Format("2006-01-02T15:04:05.000Z"))
	case KindBytes:
		return w.writeString(base64.StdEncoding.EncodeToString(v.bytesVal))
	case KindArray:
		w.sb.WriteByte('[')
		for i, el := range v.arrVal {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			w.newline(depth + 1)
			if err := w.write(el, depth+1); err != nil {
				return err
			}
		}
		if len(v.arrVal) > 0 {
			w.newline(depth)
		}
		w.sb.WriteByte(']')
	case KindObject:
		w.sb.WriteByte('{')
		for i, key := range v.objVal.Keys() {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			w.newline(depth + 1)
			if err := w.writeString(key); err != nil {
				return err
			}
			w.sb.WriteByte(':')
			if w.pretty {
				w.sb.WriteByte(' ')
			}
			if err := w.write(v.objVal.Get(key), depth+1); err != nil {
				return err
			}
		}
		if v.objVal.Len() > 0 {
			w.newline(depth)
		}
		w.sb.WriteByte('}')
	}
	return nil
}

func (w *jsonWriter) writeString(s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	w.sb.Write(b)
	return nil
}

func (w *jsonWriter) newline(depth int) {
	if !w.pretty {
		return
	}
	w.sb.WriteByte('\n')
	for i := 0; i < depth*2; i++ {
		w.sb.WriteByte(' ')
	}
}
