package toon

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"
	"time"
)

// ============================================================
// Canonical Scalar Encoding
// ============================================================

// maxFloatFracDigits caps fractional precision in canonical float output.
const maxFloatFracDigits = 15

// canonInt returns the canonical integer representation.
func canonInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// canonFloat returns the canonical float representation: plain decimal,
// never exponent notation, at most 15 fractional digits with trailing
// zeros trimmed. Non-finite values have no numeric wire form and encode
// as null. Negative zero prints as -0 unless normalized.
func canonFloat(f float64, normalizeNegZero bool) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		if math.Signbit(f) && !normalizeNegZero {
			return "-0"
		}
		return "0"
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 > maxFloatFracDigits {
		s = strconv.FormatFloat(f, 'f', maxFloatFracDigits, 64)
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// canonDate returns the quoted ISO-8601 UTC representation with
// millisecond precision.
func canonDate(t time.Time) string {
	return quoteString(t.UTC().Format("2006-01-02T15:04:05.000Z"))
}

// canonURL returns the quoted absolute URL string.
func canonURL(u string) string {
	return quoteString(u)
}

// canonBytes returns the quoted standard-base64 representation.
func canonBytes(data []byte) string {
	return quoteString(base64.StdEncoding.EncodeToString(data))
}
