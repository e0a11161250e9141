package toon

import "strings"

// FoldMode controls dotted-key folding of single-child object chains.
type FoldMode int

const (
	// FoldDisabled never folds keys.
	FoldDisabled FoldMode = iota

	// FoldSafe folds a chain of single-key objects into one dotted path
	// when every segment is a valid identifier and the folded path does
	// not collide with a sibling key.
	FoldSafe
)

// EncodeOptions configures the encoder.
type EncodeOptions struct {
	// Indent is the number of spaces per nesting level.
	Indent int

	// Delimiter separates inline array values and tabular row cells.
	// One of ',', '\t', '|'.
	Delimiter byte

	// KeyFolding selects dotted-key folding behavior.
	KeyFolding FoldMode

	// FoldDepth bounds the folded path length in segments. Zero means
	// unbounded.
	FoldDepth int

	// NormalizeNegativeZero prints -0.0 as 0 instead of -0.
	NormalizeNegativeZero bool
}

// DefaultEncodeOptions returns the default encoder configuration.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		Indent:     2,
		Delimiter:  ',',
		KeyFolding: FoldDisabled,
	}
}

// maxEncodeDepth bounds structural recursion so pathological value trees
// fail with a descriptive error instead of exhausting the call stack.
const maxEncodeDepth = 1000

// Encode converts a Value to TOON text using default options.
func Encode(v *Value) (string, error) {
	return EncodeWithOptions(v, DefaultEncodeOptions())
}

// EncodeWithOptions converts a Value to TOON text.
func EncodeWithOptions(v *Value, opts EncodeOptions) (string, error) {
	if opts.Indent <= 0 {
		opts.Indent = 2
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	e := &encoder{opts: opts}
	if err := e.encodeRoot(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(e.sb.String(), "\n"), nil
}

type encoder struct {
	sb   strings.Builder
	opts EncodeOptions
	nest int // structural recursion depth, bounded by maxEncodeDepth
}

func (e *encoder) encodeRoot(v *Value) error {
	switch v.Kind() {
	case KindObject:
		obj, _ := v.AsObject()
		return e.encodeObject(obj, 0, true)
	case KindArray:
		elems, _ := v.AsArray()
		return e.encodeArrayBlock("", elems, "", 0, 1)
	default:
		e.writeLine(0, e.scalar(v))
		return nil
	}
}

// encodeObject emits one entry per key in insertion order.
func (e *encoder) encodeObject(obj *Object, depth int, allowFold bool) error {
	if err := e.push(); err != nil {
		return err
	}
	defer e.pop()

	for _, key := range obj.Keys() {
		if err := e.encodePair(key, obj.Get(key), depth, obj, allowFold); err != nil {
			return err
		}
	}
	return nil
}

// encodePair emits a single key-value entry, attempting dotted-key folding
// first when enabled.
func (e *encoder) encodePair(key string, v *Value, depth int, siblings *Object, allowFold bool) error {
	if e.opts.KeyFolding == FoldSafe && allowFold {
		path, folded, limitHit := e.foldChain(key, v)
		if path != "" && !siblings.Has(path) {
			return e.encodePairPlain(path, folded, depth, !limitHit)
		}
		if limitHit {
			allowFold = false
		}
	}
	return e.encodePairPlain(key, v, depth, allowFold)
}

// foldChain descends a chain of single-key objects starting below key.
// It returns the dotted path and terminal value when at least one descent
// occurred, and whether the descent stopped at the fold-depth limit.
func (e *encoder) foldChain(key string, v *Value) (string, *Value, bool) {
	if !isIdentSegment(key) {
		return "", nil, false
	}
	segments := []string{key}
	limitHit := false

	for v.Kind() == KindObject {
		obj, _ := v.AsObject()
		if obj.Len() != 1 {
			break
		}
		if e.opts.FoldDepth > 0 && len(segments) >= e.opts.FoldDepth {
			limitHit = true
			break
		}
		child := obj.Keys()[0]
		if !isIdentSegment(child) {
			break
		}
		segments = append(segments, child)
		v = obj.Get(child)
	}

	if len(segments) < 2 {
		return "", nil, limitHit
	}
	return strings.Join(segments, "."), v, limitHit
}

func (e *encoder) encodePairPlain(key string, v *Value, depth int, allowFold bool) error {
	switch v.Kind() {
	case KindObject:
		obj, _ := v.AsObject()
		e.writeLine(depth, encodeKey(key)+":")
		if obj.Len() == 0 {
			return nil
		}
		return e.encodeObject(obj, depth+1, allowFold)
	case KindArray:
		elems, _ := v.AsArray()
		return e.encodeArrayBlock(encodeKey(key), elems, "", depth, depth+1)
	default:
		e.writeLine(depth, encodeKey(key)+": "+e.scalar(v))
		return nil
	}
}

// scalar returns the single-token wire form of a non-container value.
func (e *encoder) scalar(v *Value) string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindInt:
		return canonInt(v.intVal)
	case KindFloat:
		return canonFloat(v.floatVal, e.opts.NormalizeNegativeZero)
	case KindString:
		return encodeString(v.strVal, e.opts.Delimiter)
	case KindDate:
		return canonDate(v.timeVal)
	case KindURL:
		return canonURL(v.strVal)
	case KindBytes:
		return canonBytes(v.bytesVal)
	default:
		return "null"
	}
}

func (e *encoder) writeLine(depth int, text string) {
	for i := 0; i < depth*e.opts.Indent; i++ {
		e.sb.WriteByte(' ')
	}
	e.sb.WriteString(text)
	e.sb.WriteByte('\n')
}

func (e *encoder) push() error {
	e.nest++
	if e.nest > maxEncodeDepth {
		return &EncodeError{Msg: "recursion limit exceeded"}
	}
	return nil
}

func (e *encoder) pop() {
	e.nest--
}
