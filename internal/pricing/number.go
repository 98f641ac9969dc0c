package pricing

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric request field that never fails to decode. JSON
// numbers and numeric strings are valid; null, booleans, objects, arrays and
// unparseable strings decode to an invalid Number whose Float is 0.
type Number struct {
	Value float64
	Valid bool
}

// NumberOf returns a valid Number holding v.
func NumberOf(v float64) Number {
	return Number{Value: v, Valid: true}
}

// ParseNumber converts a raw JSON value into a Number.
func ParseNumber(raw []byte) Number {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Number{}
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Number{}
		}
		text = strings.TrimSpace(s)
	}
	if text == "" {
		return Number{}
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return NumberOf(v)
}

// Float returns the value, or 0 when the field was absent or not numeric.
func (n Number) Float() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

// Index returns the value as a non-negative integer position.
func (n Number) Index() (int, bool) {
	if !n.Valid || n.Value < 0 || n.Value != math.Trunc(n.Value) || n.Value > math.MaxInt32 {
		return 0, false
	}
	return int(n.Value), true
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(raw []byte) error {
	*n = ParseNumber(raw)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}
