package toon

import (
	"strconv"
	"strings"
)

// ============================================================
// Array Layout
// ============================================================
//
// Arrays take one of four shapes, chosen by element structure:
//
//   key[0]:                      empty
//   key[3]: a,b,c                all elements scalar (inline)
//   key[2]{sku,qty}:             uniform objects (tabular rows)
//   key[2]:                      anything else (hyphen list items)
//     - ...
//
// The delimiter is declared inside the count bracket for inline and
// tabular forms; comma is the default and carries no marker.

// encodeArrayBlock writes the array header at headerDepth (with prefix,
// "- " when the array is itself a list item) and block contents at
// childDepth. An empty encKey means the array has no key, as at the
// document root or inside a list item.
func (e *encoder) encodeArrayBlock(encKey string, elems []*Value, prefix string, headerDepth, childDepth int) error {
	if err := e.push(); err != nil {
		return err
	}
	defer e.pop()

	switch {
	case len(elems) == 0:
		e.writeLine(headerDepth, prefix+e.arrayHeader(encKey, 0, false, nil))
		return nil

	case allScalars(elems):
		line := e.arrayHeader(encKey, len(elems), true, nil) + " " + e.joinScalars(elems)
		e.writeLine(headerDepth, prefix+line)
		return nil
	}

	if fields := tabularFields(elems); fields != nil {
		e.writeLine(headerDepth, prefix+e.arrayHeader(encKey, len(elems), true, fields))
		for _, el := range elems {
			obj, _ := el.AsObject()
			cells := make([]string, len(fields))
			for i, f := range fields {
				cells[i] = e.scalar(obj.Get(f))
			}
			e.writeLine(childDepth, strings.Join(cells, string(e.opts.Delimiter)))
		}
		return nil
	}

	e.writeLine(headerDepth, prefix+e.arrayHeader(encKey, len(elems), false, nil))
	for _, el := range elems {
		if err := e.encodeListItem(el, childDepth); err != nil {
			return err
		}
	}
	return nil
}

// encodeListItem emits one "- "-prefixed element at the item depth.
func (e *encoder) encodeListItem(v *Value, depth int) error {
	if err := e.push(); err != nil {
		return err
	}
	defer e.pop()

	switch v.Kind() {
	case KindArray:
		elems, _ := v.AsArray()
		return e.encodeArrayBlock("", elems, "- ", depth, depth+2)

	case KindObject:
		obj, _ := v.AsObject()
		if obj.Len() == 0 {
			e.writeLine(depth, "-")
			return nil
		}
		keys := obj.Keys()
		if err := e.encodeItemFirstPair(keys[0], obj.Get(keys[0]), depth); err != nil {
			return err
		}
		for _, key := range keys[1:] {
			if err := e.encodePair(key, obj.Get(key), depth+1, obj, true); err != nil {
				return err
			}
		}
		return nil

	default:
		e.writeLine(depth, "- "+e.scalar(v))
		return nil
	}
}

// encodeItemFirstPair puts the object's first key-value pair on the hyphen
// line. Nested contents sit two levels below the hyphen line: one level for
// the list marker, one for the nesting itself.
func (e *encoder) encodeItemFirstPair(key string, v *Value, depth int) error {
	switch v.Kind() {
	case KindArray:
		elems, _ := v.AsArray()
		return e.encodeArrayBlock(encodeKey(key), elems, "- ", depth, depth+2)
	case KindObject:
		obj, _ := v.AsObject()
		e.writeLine(depth, "- "+encodeKey(key)+":")
		if obj.Len() == 0 {
			return nil
		}
		return e.encodeObject(obj, depth+2, true)
	default:
		e.writeLine(depth, "- "+encodeKey(key)+": "+e.scalar(v))
		return nil
	}
}

// arrayHeader builds "key[N<delim>]{fields}:". The delimiter marker appears
// only for inline and tabular forms, and never for the default comma.
func (e *encoder) arrayHeader(encKey string, n int, delimMark bool, fields []string) string {
	var b strings.Builder
	b.WriteString(encKey)
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(n))
	if delimMark && e.opts.Delimiter != ',' {
		b.WriteByte(e.opts.Delimiter)
	}
	b.WriteByte(']')
	if fields != nil {
		b.WriteByte('{')
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(e.opts.Delimiter)
			}
			b.WriteString(encodeKey(f))
		}
		b.WriteByte('}')
	}
	b.WriteByte(':')
	return b.String()
}

func (e *encoder) joinScalars(elems []*Value) string {
	parts := make([]string, len(elems))
	for i, el := range elems {
		parts[i] = e.scalar(el)
	}
	return strings.Join(parts, string(e.opts.Delimiter))
}

// allScalars reports whether no element is an array or object.
func allScalars(elems []*Value) bool {
	for _, el := range elems {
		switch el.Kind() {
		case KindArray, KindObject:
			return false
		}
	}
	return true
}

// tabularFields returns the field order for a uniform object array, or nil
// when the array is not tabular. Field order is fixed by the first element;
// later elements may permute keys but must carry the same key set, and
// every value must be a scalar.
func tabularFields(elems []*Value) []string {
	if len(elems) == 0 || elems[0].Kind() != KindObject {
		return nil
	}
	fields := elems[0].objVal.Keys()
	for _, el := range elems {
		if el.Kind() != KindObject {
			return nil
		}
		obj := el.objVal
		if obj.Len() != len(fields) {
			return nil
		}
		for _, f := range fields {
			if !obj.Has(f) {
				return nil
			}
			switch obj.Get(f).Kind() {
			case KindArray, KindObject:
				return nil
			}
		}
	}
	return fields
}
