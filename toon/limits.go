package toon

// DecodingLimits bounds resource use while decoding. The limits are checked
// incrementally during the parse, not only up front, so an adversarial
// document fails as soon as it crosses a bound.
type DecodingLimits struct {
	// MaxInputSize is the maximum input length in bytes, checked before
	// any parsing.
	MaxInputSize int

	// MaxDepth is the maximum structural nesting depth.
	MaxDepth int

	// MaxObjectKeys is the maximum number of keys per object, enforced
	// after each insertion.
	MaxObjectKeys int

	// MaxArrayLength is the maximum element count per array.
	MaxArrayLength int
}

// DefaultLimits returns the default decoding limits.
func DefaultLimits() DecodingLimits {
	return DecodingLimits{
		MaxInputSize:   10 * 1024 * 1024,
		MaxDepth:       32,
		MaxObjectKeys:  10000,
		MaxArrayLength: 100000,
	}
}
