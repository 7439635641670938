// internal/decode/value.go
package decode

import (
	"encoding/json"
	"strconv"
)

// Kind tags the representation held by a Value.
type Kind uint8

const (
	KindInt Kind = iota + 1
	KindFloat
	KindText
)

// Value is a decoded reading: an integer, a float or a text label.
// The zero Value is invalid.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

func Int(v int64) Value     { return Value{kind: KindInt, i: v} }
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }
func Text(v string) Value   { return Value{kind: KindText, s: v} }

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsValid() bool { return v.kind != 0 }

// Number returns the numeric value; ok is false for text and invalid values.
func (v Value) Number() (n float64, ok bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Label returns the text value; ok is false for numbers.
func (v Value) Label() (string, bool) {
	return v.s, v.kind == KindText
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindText:
		return v.s
	}
	return "<invalid>"
}

// MarshalJSON renders numbers as JSON numbers and labels as strings.
// An invalid Value renders as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt, KindFloat:
		return []byte(v.String()), nil
	case KindText:
		return json.Marshal(v.s)
	}
	return []byte("null"), nil
}
