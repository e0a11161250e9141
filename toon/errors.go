package toon

import "fmt"

// ErrKind identifies a decode failure. The set is closed: every decode
// error carries exactly one of these kinds.
type ErrKind int

const (
	ErrInvalidInput ErrKind = iota
	ErrInvalidIndentation
	ErrInvalidEscape
	ErrCountMismatch
	ErrFieldCountMismatch
	ErrBlankLine
	ErrInvalidHeader
	ErrInvalidFormat
	ErrTypeMismatch
	ErrMissingKey
	ErrDataCorrupted
	ErrPathCollision
	ErrSizeLimit
	ErrDepthLimit
	ErrKeyLimit
	ErrLengthLimit
)

// String returns the kind name.
func (k ErrKind) String() string {
	switch k {
	case ErrInvalidInput:
		return "invalid input"
	case ErrInvalidIndentation:
		return "invalid indentation"
	case ErrInvalidEscape:
		return "invalid escape sequence"
	case ErrCountMismatch:
		return "array count mismatch"
	case ErrFieldCountMismatch:
		return "field count mismatch"
	case ErrBlankLine:
		return "unexpected blank line"
	case ErrInvalidHeader:
		return "invalid array header"
	case ErrInvalidFormat:
		return "invalid format"
	case ErrTypeMismatch:
		return "type mismatch"
	case ErrMissingKey:
		return "missing key"
	case ErrDataCorrupted:
		return "data corrupted"
	case ErrPathCollision:
		return "path collision"
	case ErrSizeLimit:
		return "input size limit exceeded"
	case ErrDepthLimit:
		return "depth limit exceeded"
	case ErrKeyLimit:
		return "object key limit exceeded"
	case ErrLengthLimit:
		return "array length limit exceeded"
	default:
		return "unknown"
	}
}

// DecodeError is the error type for all decode failures. Line is 1-based;
// zero means the error is not tied to a specific line.
type DecodeError struct {
	Kind ErrKind
	Msg  string
	Line int
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("toon: %s: %s (line %d)", e.Kind, e.Msg, e.Line)
	}
	return fmt.Sprintf("toon: %s: %s", e.Kind, e.Msg)
}

func decodeErr(kind ErrKind, line int, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: line}
}

// EncodeError is the error type for encode failures. Encoding is total over
// the value model except for pathological nesting depth.
type EncodeError struct {
	Msg string
}

func (e *EncodeError) Error() string {
	return "toon: " + e.Msg
}
