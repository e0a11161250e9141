package toon

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ExpandMode controls dotted-key path expansion, the decode-side inverse
// of key folding.
type ExpandMode int

const (
	// ExpandAutomatic expands dotted keys into nested objects; on a
	// collision the entire dotted string silently becomes one literal
	// key instead. No warning is surfaced: downstream consumers depend
	// on the silent fallback.
	ExpandAutomatic ExpandMode = iota

	// ExpandDisabled treats every key literally.
	ExpandDisabled

	// ExpandSafe expands dotted keys and fails with a path-collision
	// error instead of falling back.
	ExpandSafe
)

// DecodeOptions configures the decoder.
type DecodeOptions struct {
	Expand ExpandMode
	Limits DecodingLimits
}

// DefaultDecodeOptions returns the default decoder configuration.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		Expand: ExpandAutomatic,
		Limits: DefaultLimits(),
	}
}

// Decode parses TOON text into a Value using default options.
func Decode(data []byte) (*Value, error) {
	return DecodeWithOptions(data, DefaultDecodeOptions())
}

// DecodeWithOptions parses TOON text into a Value.
func DecodeWithOptions(data []byte, opts DecodeOptions) (*Value, error) {
	if opts.Limits == (DecodingLimits{}) {
		opts.Limits = DefaultLimits()
	}
	if len(data) > opts.Limits.MaxInputSize {
		return nil, decodeErr(ErrSizeLimit, 0, "input is %d bytes, limit is %d", len(data), opts.Limits.MaxInputSize)
	}
	if !utf8.Valid(data) {
		return nil, decodeErr(ErrInvalidInput, 0, "input is not valid UTF-8")
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	d := &decoder{
		lines: strings.Split(text, "\n"),
		opts:  opts,
	}
	return d.parseDocument()
}

// decoder consumes the document line by line, tracking indentation depth.
type decoder struct {
	lines []string
	pos   int // index of the next unconsumed line
	unit  int // auto-detected indent width, 0 until the first indented line
	nest  int // structural depth, bounded by Limits.MaxDepth
	opts  DecodeOptions
}

// parseDocument detects the root form and parses the whole document.
func (d *decoder) parseDocument() (*Value, error) {
	first := d.peekNonBlank()
	if first < 0 {
		return Obj(NewObject()), nil
	}
	depth, content := d.depthOf(first)
	if depth != 0 {
		return nil, decodeErr(ErrInvalidIndentation, first+1, "expected depth 0, got %d", depth)
	}

	// Root array: the first line is a bare array header.
	if content[0] == '[' {
		if ci := findUnquotedColon(content); ci >= 0 {
			hdr, ok, err := d.parseArrayHeader(strings.TrimSpace(content[:ci]), first+1)
			if err != nil {
				return nil, err
			}
			if ok && !hdr.hasKey {
				d.pos = first + 1
				v, err := d.parseArrayBody(hdr, strings.TrimSpace(content[ci+1:]), 1, first+1)
				if err != nil {
					return nil, err
				}
				return v, d.checkTrailing()
			}
		}
	}

	// Root scalar: exactly one non-blank line that is not a key-value pair.
	if !isKeyValueLine(content) && d.onlyNonBlank(first) {
		d.pos = first + 1
		return d.parseScalarToken(strings.TrimSpace(content), first+1)
	}

	obj, err := d.parseObject(0)
	if err != nil {
		return nil, err
	}
	return Obj(obj), nil
}

// ============================================================
// Line Primitives
// ============================================================

func (d *decoder) isBlank(i int) bool {
	return strings.TrimSpace(d.lines[i]) == ""
}

// peekNonBlank returns the index of the next non-blank line without
// consuming it, or -1.
func (d *decoder) peekNonBlank() int {
	for i := d.pos; i < len(d.lines); i++ {
		if !d.isBlank(i) {
			return i
		}
	}
	return -1
}

// depthOf measures a line's indentation depth and returns its content.
// The first indented line fixes the indent unit for the whole document;
// later depths are leading-spaces divided by that unit.
func (d *decoder) depthOf(i int) (int, string) {
	line := d.lines[i]
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	if n == 0 {
		return 0, line
	}
	if d.unit == 0 {
		d.unit = n
	}
	return n / d.unit, line[n:]
}

// onlyNonBlank reports whether line i is the document's sole non-blank line.
func (d *decoder) onlyNonBlank(i int) bool {
	for j := i + 1; j < len(d.lines); j++ {
		if !d.isBlank(j) {
			return false
		}
	}
	return true
}

// checkTrailing rejects leftover content after a complete root array.
func (d *decoder) checkTrailing() error {
	if i := d.peekNonBlank(); i >= 0 {
		return decodeErr(ErrInvalidFormat, i+1, "unexpected content after document")
	}
	return nil
}

func (d *decoder) push(lineNo int) error {
	d.nest++
	if d.nest > d.opts.Limits.MaxDepth {
		return decodeErr(ErrDepthLimit, lineNo, "nesting exceeds %d levels", d.opts.Limits.MaxDepth)
	}
	return nil
}

func (d *decoder) pop() {
	d.nest--
}

// ============================================================
// Object Parsing
// ============================================================

// parseObject collects key-value entries at the given depth. A line at a
// lesser depth ends the object; a deeper line is an indentation error.
func (d *decoder) parseObject(depth int) (*Object, error) {
	if err := d.push(d.pos + 1); err != nil {
		return nil, err
	}
	defer d.pop()

	obj := NewObject()
	for {
		i := d.peekNonBlank()
		if i < 0 {
			break
		}
		ld, content := d.depthOf(i)
		if ld < depth {
			break
		}
		if ld != depth {
			return nil, decodeErr(ErrInvalidIndentation, i+1, "expected depth %d, got %d", depth, ld)
		}
		d.pos = i + 1
		if err := d.parseEntry(obj, content, depth, i+1); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// parseEntry parses one consumed key-value line into obj.
func (d *decoder) parseEntry(obj *Object, content string, depth, lineNo int) error {
	ci := findUnquotedColon(content)
	if ci < 0 {
		return decodeErr(ErrInvalidFormat, lineNo, "expected key-value pair, got %q", strings.TrimSpace(content))
	}
	keyPart := strings.TrimSpace(content[:ci])
	rest := strings.TrimSpace(content[ci+1:])

	hdr, ok, err := d.parseArrayHeader(keyPart, lineNo)
	if err != nil {
		return err
	}
	if ok {
		v, err := d.parseArrayBody(hdr, rest, depth+1, lineNo)
		if err != nil {
			return err
		}
		return d.setEntry(obj, hdr.key, v, lineNo)
	}

	key, err := d.decodeKey(keyPart, lineNo)
	if err != nil {
		return err
	}
	if rest == "" {
		child, err := d.parseObject(depth + 1)
		if err != nil {
			return err
		}
		return d.setEntry(obj, key, Obj(child), lineNo)
	}
	v, err := d.parseScalarToken(rest, lineNo)
	if err != nil {
		return err
	}
	return d.setEntry(obj, key, v, lineNo)
}

// decodeKey resolves a key token: quoted-and-escaped, or bare.
func (d *decoder) decodeKey(keyPart string, lineNo int) (string, error) {
	if isQuoted(keyPart) {
		inner, err := unescape(keyPart[1 : len(keyPart)-1])
		if err != nil {
			return "", decodeErr(ErrInvalidEscape, lineNo, "in key %s: %v", keyPart, err)
		}
		return inner, nil
	}
	return keyPart, nil
}

// ============================================================
// Scalar Grammar
// ============================================================

// parseScalarToken decodes one bare token: quoted string, keyword, integer,
// float (only when a '.' or exponent marker is present), or literal string.
func (d *decoder) parseScalarToken(tok string, lineNo int) (*Value, error) {
	if tok == "" {
		return Str(""), nil
	}
	if isQuoted(tok) {
		inner, err := unescape(tok[1 : len(tok)-1])
		if err != nil {
			return nil, decodeErr(ErrInvalidEscape, lineNo, "%v", err)
		}
		return Str(inner), nil
	}
	switch tok {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "null":
		return Null(), nil
	}
	if isIntShape(tok) {
		if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return Int(n), nil
		}
		// Out of int64 range: no decimal point, so the token stays a
		// string (the unsigned-64 contract re-parses it downstream).
	}
	if strings.ContainsAny(tok, ".eE") {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return Float(f), nil
		}
	}
	return Str(tok), nil
}

// isIntShape reports an optional leading minus followed by digits only.
func isIntShape(s string) bool {
	i := 0
	if s[0] == '-' {
		i = 1
	}
	if i >= len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
