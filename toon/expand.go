package toon

import (
	"errors"
	"strings"
)

// ============================================================
// Dotted-Key Path Expansion
// ============================================================
//
// The decode-side inverse of key folding: "a.b.c: 1" becomes nested
// single-key objects. A collision occurs when a path segment already holds
// a non-object value, or when the terminal segment would overwrite an
// object. ExpandSafe fails on collision; ExpandAutomatic silently keeps
// the whole dotted string as one literal key.

// setEntry inserts a decoded key-value pair into obj, applying path
// expansion when the mode allows it and the key is an expandable dotted
// path (every dot-separated segment a valid bare identifier).
func (d *decoder) setEntry(obj *Object, key string, v *Value, lineNo int) error {
	if d.opts.Expand != ExpandDisabled && strings.Contains(key, ".") {
		if segs := strings.Split(key, "."); expandableSegments(segs) {
			err := d.expandPath(obj, segs, v, lineNo)
			if err == nil {
				return nil
			}
			var de *DecodeError
			if !errors.As(err, &de) || de.Kind != ErrPathCollision || d.opts.Expand != ExpandAutomatic {
				return err
			}
			// Automatic mode: fall back to the literal key, silently.
		}
	}
	return d.objSet(obj, key, v, lineNo)
}

func expandableSegments(segs []string) bool {
	for _, s := range segs {
		if !isIdentSegment(s) {
			return false
		}
	}
	return true
}

// expandPath builds/merges nested objects along segs and stores v at the
// terminal segment.
func (d *decoder) expandPath(obj *Object, segs []string, v *Value, lineNo int) error {
	cur := obj
	for _, seg := range segs[:len(segs)-1] {
		if cur.Has(seg) {
			existing := cur.Get(seg)
			if existing.Kind() != KindObject {
				return decodeErr(ErrPathCollision, lineNo, "segment %q of path %q holds a non-object value", seg, strings.Join(segs, "."))
			}
			cur = existing.objVal
			continue
		}
		child := NewObject()
		if err := d.objSet(cur, seg, Obj(child), lineNo); err != nil {
			return err
		}
		cur = child
	}
	last := segs[len(segs)-1]
	if cur.Has(last) && cur.Get(last).Kind() == KindObject {
		return decodeErr(ErrPathCollision, lineNo, "path %q would overwrite an object", strings.Join(segs, "."))
	}
	return d.objSet(cur, last, v, lineNo)
}

// objSet stores a pair and enforces the per-object key limit on the
// insertion that pushes the count over.
func (d *decoder) objSet(obj *Object, key string, v *Value, lineNo int) error {
	obj.Set(key, v)
	if obj.Len() > d.opts.Limits.MaxObjectKeys {
		return decodeErr(ErrKeyLimit, lineNo, "object exceeds %d keys", d.opts.Limits.MaxObjectKeys)
	}
	return nil
}
