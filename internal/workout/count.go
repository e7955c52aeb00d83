package workout

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Count is an integer field (sets, reps, weight) that may hold the
// not-a-number sentinel. An invalid Count encodes as JSON null.
type Count struct {
	Value int64
	Valid bool
}

// Int wraps v as a valid Count.
func Int(v int64) Count {
	return Count{Value: v, Valid: true}
}

// ParseCount reads the leading integer of s the way a browser's parseInt
// does: surrounding whitespace is skipped, a sign and 0x prefix are honoured,
// and trailing garbage is ignored ("10kg" is 10). Input without leading digits
// yields an invalid Count. Values beyond the int64 range saturate at its
// bounds instead of becoming invalid.
func ParseCount(s string) Count {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign = s[:1]
		s = s[1:]
	}

	base := 10
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return Count{}
	}

	// ParseInt returns the saturated value alongside ErrRange.
	v, err := strconv.ParseInt(sign+s[:end], base, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Count{}
	}
	return Int(v)
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// String renders the count, or NaN when invalid.
func (c Count) String() string {
	if !c.Valid {
		return "NaN"
	}
	return strconv.FormatInt(c.Value, 10)
}

// MarshalJSON implements json.Marshaler.
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(c.Value, 10)), nil
}

// UnmarshalJSON implements json.Unmarshaler. Fractional numbers are truncated
// and numbers beyond the int64 range saturate, matching ParseCount.
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = Count{}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if v, err := n.Int64(); err == nil {
		*c = Int(v)
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		*c = Count{}
		return nil
	}
	*c = Int(saturate(f))
	return nil
}

// saturate truncates f toward zero, clamped to the int64 range.
func saturate(f float64) int64 {
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(f)
	}
}
