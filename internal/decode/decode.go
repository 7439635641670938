// internal/decode/decode.go
package decode

import (
	"fmt"
	"math"
	"strconv"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/catalog"
)

// WordOrder decides which of two registers carries the high 16 bits.
// It is fixed per device session.
type WordOrder uint8

const (
	// BigEndian: the lower-address register is most significant.
	BigEndian WordOrder = iota + 1
	// LittleEndian: the lower-address register is least significant.
	LittleEndian
)

// ParseWordOrder accepts "big" or "little".
func ParseWordOrder(s string) (WordOrder, error) {
	switch s {
	case "big":
		return BigEndian, nil
	case "little":
		return LittleEndian, nil
	}
	return 0, fmt.Errorf("decode: unknown word order %q (want big|little)", s)
}

func (o WordOrder) String() string {
	switch o {
	case BigEndian:
		return "big"
	case LittleEndian:
		return "little"
	}
	return "unknown"
}

// Word is one raw holding register and the address it was read from.
type Word struct {
	Address uint16
	Value   uint16
}

// Error reports raw data that does not fit its descriptor.
type Error struct {
	Name   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode %q: %s", e.Name, e.Reason)
}

// ---- pure helpers ----

// ToSigned16 reinterprets a register as two's complement.
func ToSigned16(v uint16) int64 { return int64(int16(v)) }

// ToSigned32 reinterprets a 32-bit value as two's complement.
func ToSigned32(v uint32) int64 { return int64(int32(v)) }

// CombineU32 joins two registers. reg0 is the word at the lower address.
func CombineU32(reg0, reg1 uint16, order WordOrder) uint32 {
	hi, lo := reg0, reg1
	if order == LittleEndian {
		hi, lo = reg1, reg0
	}
	return uint32(hi)<<16 | uint32(lo)
}

// Assemble joins two words regardless of the order they are passed in:
// the words are first ranked by address, then order picks the high word.
func Assemble(a, b Word, order WordOrder) uint32 {
	if b.Address < a.Address {
		a, b = b, a
	}
	return CombineU32(a.Value, b.Value, order)
}

// Round rounds v to precision decimal digits. Ties on the exact binary value
// go to the even digit.
func Round(v float64, precision int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	if precision <= 0 {
		return math.RoundToEven(v)
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', precision, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// ---- descriptor decode ----

// Decode turns raw words into a reading for d. It has no side effects:
// the same inputs always produce the same Value.
func Decode(d catalog.Descriptor, words []Word, order WordOrder) (Value, error) {
	raw, err := integer(d, words, order)
	if err != nil {
		return Value{}, err
	}

	v := Int(raw)
	if d.Scale != 1 && d.Scale != 0 {
		v = Float(Round(float64(raw)*d.Scale, d.Precision))
	}

	if len(d.DescriptionMap) > 0 {
		n, _ := v.Number()
		idx := int64(math.Trunc(n))
		if idx >= 0 && idx < int64(len(d.DescriptionMap)) {
			return Text(d.DescriptionMap[idx]), nil
		}
	}

	return v, nil
}

// integer applies word assembly and sign interpretation.
func integer(d catalog.Descriptor, words []Word, order WordOrder) (int64, error) {
	want := d.Registers.Addresses()
	if len(words) != len(want) {
		return 0, &Error{Name: d.Name, Reason: fmt.Sprintf("got %d words, want %d", len(words), len(want))}
	}
	if !sameAddresses(words, want) {
		return 0, &Error{Name: d.Name, Reason: fmt.Sprintf("word addresses do not match registers %s", d.Registers)}
	}

	switch d.DataType {
	case catalog.Int16:
		return ToSigned16(words[0].Value), nil
	case catalog.Uint16:
		return int64(words[0].Value), nil
	case catalog.Int32:
		if order != BigEndian && order != LittleEndian {
			return 0, &Error{Name: d.Name, Reason: "word order not set"}
		}
		return ToSigned32(Assemble(words[0], words[1], order)), nil
	}
	return 0, &Error{Name: d.Name, Reason: fmt.Sprintf("unsupported data type %q", d.DataType)}
}

func sameAddresses(words []Word, want []uint16) bool {
	for _, a := range want {
		found := false
		for _, w := range words {
			if w.Address == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
