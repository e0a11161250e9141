package toon

import (
	"strconv"
	"strings"
)

// arrayHeader is the transient result of parsing "key[N<delim>]{fields}:".
type arrayHeader struct {
	key    string
	hasKey bool
	count  int
	delim  byte
	fields []string // nil when the header has no field list
}

// parseArrayHeader recognizes the array-header pattern in key position.
// A key part without an unquoted '[' is not a header (ok=false); one with
// an unquoted '[' that fails the grammar is a fatal header error, since no
// bare key may contain a bracket.
func (d *decoder) parseArrayHeader(s string, lineNo int) (*arrayHeader, bool, error) {
	h := &arrayHeader{delim: ','}
	rest := s

	if strings.HasPrefix(rest, `"`) {
		end := quotedEnd(rest)
		if end < 0 || end >= len(rest) || rest[end] != '[' {
			return nil, false, nil
		}
		inner, err := unescape(rest[1 : end-1])
		if err != nil {
			return nil, false, decodeErr(ErrInvalidEscape, lineNo, "in key %s: %v", rest[:end], err)
		}
		h.key, h.hasKey = inner, true
		rest = rest[end:]
	} else {
		br := strings.IndexByte(rest, '[')
		if br < 0 {
			return nil, false, nil
		}
		if br > 0 {
			h.key, h.hasKey = strings.TrimSpace(rest[:br]), true
		}
		rest = rest[br:]
	}

	rest = rest[1:] // consume '['
	if strings.HasPrefix(rest, "#") {
		return nil, false, decodeErr(ErrInvalidHeader, lineNo, "legacy '#' length marker is not supported")
	}
	j := 0
	for j < len(rest) && isDigit(rest[j]) {
		j++
	}
	if j == 0 {
		return nil, false, decodeErr(ErrInvalidHeader, lineNo, "missing element count in %q", s)
	}
	n, err := strconv.Atoi(rest[:j])
	if err != nil {
		return nil, false, decodeErr(ErrInvalidHeader, lineNo, "invalid element count in %q", s)
	}
	h.count = n
	rest = rest[j:]

	if len(rest) > 0 && (rest[0] == '\t' || rest[0] == '|') {
		h.delim = rest[0]
		rest = rest[1:]
	}
	if len(rest) == 0 || rest[0] != ']' {
		return nil, false, decodeErr(ErrInvalidHeader, lineNo, "unterminated count bracket in %q", s)
	}
	rest = rest[1:]

	if len(rest) > 0 {
		if rest[0] != '{' || rest[len(rest)-1] != '}' {
			return nil, false, decodeErr(ErrInvalidHeader, lineNo, "malformed field list in %q", s)
		}
		for _, p := range splitDelimited(rest[1:len(rest)-1], h.delim) {
			p = strings.TrimSpace(p)
			if p == "" {
				return nil, false, decodeErr(ErrInvalidHeader, lineNo, "empty field name in %q", s)
			}
			if isQuoted(p) {
				inner, err := unescape(p[1 : len(p)-1])
				if err != nil {
					return nil, false, decodeErr(ErrInvalidEscape, lineNo, "in field name %s: %v", p, err)
				}
				p = inner
			}
			h.fields = append(h.fields, p)
		}
	}
	return h, true, nil
}

// quotedEnd returns the index just past the closing quote of a quoted
// token at the start of s, or -1.
func quotedEnd(s string) int {
	escaped := false
	for i := 1; i < len(s); i++ {
		if escaped {
			escaped = false
			continue
		}
		switch s[i] {
		case '\\':
			escaped = true
		case '"':
			return i + 1
		}
	}
	return -1
}

// ============================================================
// Array Content Resolution
// ============================================================

// parseArrayBody resolves an array after its header: inline values on the
// header line, tabular rows, or hyphen list items at childDepth.
func (d *decoder) parseArrayBody(h *arrayHeader, rest string, childDepth, lineNo int) (*Value, error) {
	if err := d.push(lineNo); err != nil {
		return nil, err
	}
	defer d.pop()

	if h.count > d.opts.Limits.MaxArrayLength {
		return nil, decodeErr(ErrLengthLimit, lineNo, "declared length %d exceeds limit %d", h.count, d.opts.Limits.MaxArrayLength)
	}

	if rest != "" {
		if h.fields != nil {
			return nil, decodeErr(ErrInvalidFormat, lineNo, "tabular header cannot carry inline values")
		}
		parts := splitDelimited(rest, h.delim)
		if len(parts) != h.count {
			return nil, decodeErr(ErrCountMismatch, lineNo, "declared %d elements, got %d", h.count, len(parts))
		}
		elems := make([]*Value, len(parts))
		for i, p := range parts {
			v, err := d.parseScalarToken(strings.TrimSpace(p), lineNo)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return Array(elems...), nil
	}

	if h.count == 0 {
		return Array(), nil
	}
	if h.fields != nil {
		return d.parseTabularRows(h, childDepth, lineNo)
	}
	return d.parseListItems(h, childDepth, lineNo)
}

// nextBlockLine consumes the next row/item line of an array block. Running
// out of lines (or dropping below the block depth) is a count mismatch; a
// blank line with further block content behind it is a blank-line error.
func (d *decoder) nextBlockLine(expectDepth, declared, got, hdrLine int) (string, int, error) {
	i := d.pos
	if i >= len(d.lines) || d.isBlank(i) {
		if j := d.peekNonBlank(); j >= 0 {
			if ld, _ := d.depthOf(j); ld >= expectDepth {
				return "", 0, decodeErr(ErrBlankLine, i+1, "blank line inside array block")
			}
		}
		return "", 0, decodeErr(ErrCountMismatch, hdrLine, "declared %d elements, got %d", declared, got)
	}
	ld, content := d.depthOf(i)
	if ld < expectDepth {
		return "", 0, decodeErr(ErrCountMismatch, hdrLine, "declared %d elements, got %d", declared, got)
	}
	if ld > expectDepth {
		return "", 0, decodeErr(ErrInvalidIndentation, i+1, "expected depth %d, got %d", expectDepth, ld)
	}
	d.pos = i + 1
	return content, i + 1, nil
}

// checkNoExtra rejects rows or items beyond the declared count.
func (d *decoder) checkNoExtra(blockDepth, declared, hdrLine int, itemForm bool) error {
	i := d.peekNonBlank()
	if i < 0 {
		return nil
	}
	ld, content := d.depthOf(i)
	if ld < blockDepth {
		return nil
	}
	if ld > blockDepth {
		return decodeErr(ErrInvalidIndentation, i+1, "expected depth %d, got %d", blockDepth, ld)
	}
	if !itemForm || content == "-" || strings.HasPrefix(content, "- ") {
		return decodeErr(ErrCountMismatch, hdrLine, "more than the declared %d elements", declared)
	}
	// A same-depth key-value line after a complete item block belongs to
	// an enclosing context; its depth is validated there.
	return nil
}

// parseTabularRows reads exactly count delimiter-split rows, producing one
// object per row keyed by the header's field names in order.
func (d *decoder) parseTabularRows(h *arrayHeader, rowDepth, hdrLine int) (*Value, error) {
	elems := make([]*Value, 0, h.count)
	for len(elems) < h.count {
		content, lineNo, err := d.nextBlockLine(rowDepth, h.count, len(elems), hdrLine)
		if err != nil {
			return nil, err
		}
		cells := splitDelimited(content, h.delim)
		if len(cells) != len(h.fields) {
			return nil, decodeErr(ErrFieldCountMismatch, lineNo, "expected %d fields, got %d", len(h.fields), len(cells))
		}
		row := NewObject()
		for ci, f := range h.fields {
			v, err := d.parseScalarToken(strings.TrimSpace(cells[ci]), lineNo)
			if err != nil {
				return nil, err
			}
			if err := d.setEntry(row, f, v, lineNo); err != nil {
				return nil, err
			}
		}
		elems = append(elems, Obj(row))
	}
	if err := d.checkNoExtra(rowDepth, h.count, hdrLine, false); err != nil {
		return nil, err
	}
	return Array(elems...), nil
}

// parseListItems reads exactly count "- "-prefixed items.
func (d *decoder) parseListItems(h *arrayHeader, itemDepth, hdrLine int) (*Value, error) {
	elems := make([]*Value, 0, h.count)
	for len(elems) < h.count {
		content, lineNo, err := d.nextBlockLine(itemDepth, h.count, len(elems), hdrLine)
		if err != nil {
			return nil, err
		}
		v, err := d.parseListItem(content, itemDepth, lineNo)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	if err := d.checkNoExtra(itemDepth, h.count, hdrLine, true); err != nil {
		return nil, err
	}
	return Array(elems...), nil
}

// parseListItem resolves one item line: a nested bare array header, a
// key-value pair opening an object item, or a bare scalar. Nested block
// content sits two levels below the hyphen line (one level for the list
// marker, one for the nesting itself); an object item's remaining fields
// sit one level below.
func (d *decoder) parseListItem(content string, itemDepth, lineNo int) (*Value, error) {
	if content == "-" {
		return Obj(NewObject()), nil
	}
	if !strings.HasPrefix(content, "- ") {
		return nil, decodeErr(ErrInvalidFormat, lineNo, "list item must start with \"- \"")
	}
	rem := strings.TrimSpace(content[2:])
	if rem == "" {
		return Obj(NewObject()), nil
	}

	ci := findUnquotedColon(rem)
	if ci < 0 {
		return d.parseScalarToken(rem, lineNo)
	}
	keyPart := strings.TrimSpace(rem[:ci])
	rest := strings.TrimSpace(rem[ci+1:])

	hdr, ok, err := d.parseArrayHeader(keyPart, lineNo)
	if err != nil {
		return nil, err
	}
	if ok {
		v, err := d.parseArrayBody(hdr, rest, itemDepth+2, lineNo)
		if err != nil {
			return nil, err
		}
		if !hdr.hasKey {
			return v, nil
		}
		obj := NewObject()
		if err := d.setEntry(obj, hdr.key, v, lineNo); err != nil {
			return nil, err
		}
		if err := d.parseItemFields(obj, itemDepth+1); err != nil {
			return nil, err
		}
		return Obj(obj), nil
	}

	key, err := d.decodeKey(keyPart, lineNo)
	if err != nil {
		return nil, err
	}
	obj := NewObject()
	var first *Value
	if rest == "" {
		child, err := d.parseObject(itemDepth + 2)
		if err != nil {
			return nil, err
		}
		first = Obj(child)
	} else {
		first, err = d.parseScalarToken(rest, lineNo)
		if err != nil {
			return nil, err
		}
	}
	if err := d.setEntry(obj, key, first, lineNo); err != nil {
		return nil, err
	}
	if err := d.parseItemFields(obj, itemDepth+1); err != nil {
		return nil, err
	}
	return Obj(obj), nil
}

// parseItemFields folds subsequent key lines into a list-item object until
// the depth decreases or the next hyphen item begins.
func (d *decoder) parseItemFields(obj *Object, depth int) error {
	for {
		i := d.peekNonBlank()
		if i < 0 {
			return nil
		}
		ld, content := d.depthOf(i)
		if ld < depth {
			return nil
		}
		if ld > depth {
			return decodeErr(ErrInvalidIndentation, i+1, "expected depth %d, got %d", depth, ld)
		}
		if content == "-" || strings.HasPrefix(content, "- ") {
			return nil
		}
		d.pos = i + 1
		if err := d.parseEntry(obj, content, depth, i+1); err != nil {
			return err
		}
	}
}
