// internal/decode/decode_test.go
package decode

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/catalog"
)

func single(dt catalog.DataType, scale float64, precision int, labels ...string) catalog.Descriptor {
	d := catalog.Descriptor{
		Name:      "test",
		Registers: catalog.Single(100),
		DataType:  dt,
		Scale:     scale,
		Precision: precision,
	}
	if len(labels) > 0 {
		d.DescriptionMap = labels
	}
	return d
}

func pair(first, second uint16) catalog.Descriptor {
	return catalog.Descriptor{
		Name:      "energy",
		Registers: catalog.Pair(first, second),
		DataType:  catalog.Int32,
		Scale:     1,
	}
}

// ---- helpers ----

func TestToSigned16(t *testing.T) {
	assert.Equal(t, int64(-32768), ToSigned16(0x8000))
	assert.Equal(t, int64(32767), ToSigned16(0x7FFF))
	assert.Equal(t, int64(0), ToSigned16(0x0000))
	assert.Equal(t, int64(-1), ToSigned16(0xFFFF))
}

func TestToSigned32(t *testing.T) {
	assert.Equal(t, int64(-2147483648), ToSigned32(0x80000000))
	assert.Equal(t, int64(2147483647), ToSigned32(0x7FFFFFFF))
	assert.Equal(t, int64(-1), ToSigned32(0xFFFFFFFF))
}

func TestCombineU32(t *testing.T) {
	assert.Equal(t, uint32(1), CombineU32(0x0001, 0x0000, LittleEndian))
	assert.Equal(t, uint32(0x00010000), CombineU32(0x0001, 0x0000, BigEndian))
	assert.Equal(t, uint32(0x12345678), CombineU32(0x1234, 0x5678, BigEndian))
	assert.Equal(t, uint32(0x56781234), CombineU32(0x1234, 0x5678, LittleEndian))
}

func TestAssembleIgnoresArgumentOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		addr := uint16(rng.Intn(65535))
		lo := Word{Address: addr, Value: uint16(rng.Intn(65536))}
		hi := Word{Address: addr + 1, Value: uint16(rng.Intn(65536))}

		for _, order := range []WordOrder{BigEndian, LittleEndian} {
			assert.Equal(t, Assemble(lo, hi, order), Assemble(hi, lo, order))
			assert.Equal(t, CombineU32(lo.Value, hi.Value, order), Assemble(hi, lo, order))
		}
	}
}

func TestParseWordOrder(t *testing.T) {
	o, err := ParseWordOrder("big")
	require.NoError(t, err)
	assert.Equal(t, BigEndian, o)

	o, err = ParseWordOrder("little")
	require.NoError(t, err)
	assert.Equal(t, LittleEndian, o)
	assert.Equal(t, "little", o.String())

	_, err = ParseWordOrder("middle")
	assert.Error(t, err)
}

func TestRoundHalfToEven(t *testing.T) {
	assert.Equal(t, 2.0, Round(2.5, 0))
	assert.Equal(t, 4.0, Round(3.5, 0))
	assert.Equal(t, -2.0, Round(-2.5, 0))
	assert.Equal(t, 0.2, Round(0.25, 1))  // exact binary tie
	assert.Equal(t, 0.38, Round(0.375, 2))
	assert.Equal(t, 0.12, Round(0.125, 2))
	assert.Equal(t, -12.3, Round(-12.3000000001, 1))
}

// ---- Decode ----

func TestDecodeScaleAndPrecision(t *testing.T) {
	d := single(catalog.Int16, 0.1, 1)

	v, err := Decode(d, []Word{{Address: 100, Value: uint16(0xFFFF - 122)}}, BigEndian) // -123
	require.NoError(t, err)
	assert.Equal(t, KindFloat, v.Kind())

	n, ok := v.Number()
	require.True(t, ok)
	assert.Equal(t, -12.3, n)
}

func TestDecodeScaleOneKeepsInteger(t *testing.T) {
	d := single(catalog.Int16, 1, 1)

	v, err := Decode(d, []Word{{Address: 100, Value: 0x8000}}, BigEndian)
	require.NoError(t, err)
	assert.Equal(t, KindInt, v.Kind())
	assert.Equal(t, "-32768", v.String())
}

func TestDecodeUint16PassesThrough(t *testing.T) {
	d := single(catalog.Uint16, 1, 0)

	v, err := Decode(d, []Word{{Address: 100, Value: 0xFFFF}}, LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, "65535", v.String())
}

func TestDecodePrecisionZeroRoundsIntegral(t *testing.T) {
	d := single(catalog.Uint16, 0.01, 0)

	v, err := Decode(d, []Word{{Address: 100, Value: 4550}}, BigEndian) // 45.5
	require.NoError(t, err)

	n, _ := v.Number()
	assert.Equal(t, 46.0, n)
}

func TestDecodeEnumeration(t *testing.T) {
	d := single(catalog.Uint16, 1, 0, "Off", "Automatik", "Manual", "Error")

	v, err := Decode(d, []Word{{Address: 100, Value: 2}}, BigEndian)
	require.NoError(t, err)
	label, ok := v.Label()
	require.True(t, ok)
	assert.Equal(t, "Manual", label)

	v, err = Decode(d, []Word{{Address: 100, Value: 99}}, BigEndian)
	require.NoError(t, err)
	assert.Equal(t, KindInt, v.Kind())
	assert.Equal(t, "99", v.String())
}

func TestDecodeEnumerationNegativeIndexIsNumeric(t *testing.T) {
	d := single(catalog.Int16, 1, 0, "No Request", "Flow Pump Circulation")

	v, err := Decode(d, []Word{{Address: 100, Value: 0xFFFF}}, BigEndian)
	require.NoError(t, err)
	assert.Equal(t, "-1", v.String())
}

func TestDecodeEnumerationTruncatesScaledValue(t *testing.T) {
	d := single(catalog.Uint16, 0.1, 1, "zero", "one", "two")

	v, err := Decode(d, []Word{{Address: 100, Value: 19}}, BigEndian) // 1.9
	require.NoError(t, err)
	label, _ := v.Label()
	assert.Equal(t, "one", label)
}

func TestDecodeInt32WordOrder(t *testing.T) {
	d := pair(1020, 1021)
	words := []Word{{Address: 1020, Value: 0x0001}, {Address: 1021, Value: 0x0000}}

	v, err := Decode(d, words, LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	v, err = Decode(d, words, BigEndian)
	require.NoError(t, err)
	assert.Equal(t, "65536", v.String())
}

func TestDecodeInt32Negative(t *testing.T) {
	d := pair(1020, 1021)

	v, err := Decode(d, []Word{{Address: 1020, Value: 0xFFFF}, {Address: 1021, Value: 0xFFFE}}, BigEndian)
	require.NoError(t, err)
	assert.Equal(t, "-2", v.String())
}

func TestDecodeInt32CanonicalizesByAddress(t *testing.T) {
	lo := Word{Address: 1020, Value: 0x1234}
	hi := Word{Address: 1021, Value: 0x5678}

	for _, d := range []catalog.Descriptor{pair(1020, 1021), pair(1021, 1020)} {
		for _, order := range []WordOrder{BigEndian, LittleEndian} {
			a, err := Decode(d, []Word{lo, hi}, order)
			require.NoError(t, err)
			b, err := Decode(d, []Word{hi, lo}, order)
			require.NoError(t, err)
			assert.Equal(t, a, b)
		}
	}

	v, _ := Decode(pair(1021, 1020), []Word{hi, lo}, BigEndian)
	assert.Equal(t, "305419896", v.String()) // 0x12345678
}

func TestDecodeIsIdempotent(t *testing.T) {
	d := single(catalog.Int16, 0.01, 1)
	words := []Word{{Address: 100, Value: 2345}}

	a, err := Decode(d, words, BigEndian)
	require.NoError(t, err)
	b, err := Decode(d, words, BigEndian)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeRejectsMalformedWords(t *testing.T) {
	var derr *Error

	_, err := Decode(single(catalog.Int16, 1, 0), nil, BigEndian)
	require.ErrorAs(t, err, &derr)

	_, err = Decode(pair(1020, 1021), []Word{{Address: 1020}}, BigEndian)
	require.ErrorAs(t, err, &derr)

	_, err = Decode(pair(1020, 1021), []Word{{Address: 1020}, {Address: 1022}}, BigEndian)
	require.ErrorAs(t, err, &derr)

	_, err = Decode(single(catalog.Int16, 1, 0), []Word{{Address: 101}}, BigEndian)
	require.ErrorAs(t, err, &derr)
}

func TestValueJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Value{
		"i": Int(-3),
		"f": Float(21.5),
		"s": Text("Standby"),
		"z": {},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"i":-3,"f":21.5,"s":"Standby","z":null}`, string(out))
}
