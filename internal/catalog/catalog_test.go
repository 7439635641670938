// internal/catalog/catalog_test.go
package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLambdaCatalogIsValid(t *testing.T) {
	c, err := New(Lambda())
	require.NoError(t, err)
	assert.Equal(t, 71, c.Len())

	d, ok := c.Lookup("Heat Pump 1 Compressor Power Consumption Accumulated")
	require.True(t, ok)
	assert.Equal(t, Int32, d.DataType)
	assert.Equal(t, []uint16{1020, 1021}, d.Registers.Addresses())
	assert.Equal(t, "energy", d.DeviceClass)
	assert.Equal(t, "total_increasing", d.StateClass)
}

func TestLambdaCatalogKeepsOrder(t *testing.T) {
	ds := MustLambda().Descriptors()
	require.NotEmpty(t, ds)

	assert.Equal(t, "Ambient Error Number", ds[0].Name)
	assert.Equal(t, "Heating Circuit 3 Set Cooling Mode Room Temperature", ds[len(ds)-1].Name)
}

func TestHeatingCircuitLayout(t *testing.T) {
	c := MustLambda()

	d, ok := c.Lookup("Heating Circuit 2 Operating Mode")
	require.True(t, ok)
	assert.Equal(t, uint16(5106), d.Registers.Start())
	assert.Equal(t, Int16, d.DataType)
	assert.Equal(t, "Automatik", d.DescriptionMap[2])

	d, ok = c.Lookup("Heating Circuit 3 Set Heating Mode Room Temperature")
	require.True(t, ok)
	assert.Equal(t, uint16(5251), d.Registers.Start())
}

func TestNewNormalizesOmittedScale(t *testing.T) {
	c, err := New([]Descriptor{
		{Name: "a", Registers: Single(1), DataType: Uint16},
	})
	require.NoError(t, err)

	d, _ := c.Lookup("a")
	assert.Equal(t, 1.0, d.Scale)
}

func TestDescriptorsReturnsCopy(t *testing.T) {
	c := MustLambda()

	ds := c.Descriptors()
	ds[0].Name = "mutated"
	ds[1].DescriptionMap[0] = "mutated"

	again := c.Descriptors()
	assert.Equal(t, "Ambient Error Number", again[0].Name)
	assert.Equal(t, "Off", again[1].DescriptionMap[0])
}

func TestLambdaReturnsFreshLabels(t *testing.T) {
	ds := Lambda()
	ds[1].DescriptionMap[0] = "mutated"

	assert.Equal(t, "Off", Lambda()[1].DescriptionMap[0])
	assert.Equal(t, "Off", MustLambda().Descriptors()[1].DescriptionMap[0])

	// circuits share one label table; each descriptor gets its own copy
	byName := make(map[string]Descriptor)
	for _, d := range Lambda() {
		byName[d.Name] = d
	}
	byName["Heating Circuit 1 Operating State"].DescriptionMap[0] = "mutated"
	assert.NotEqual(t, "mutated", byName["Heating Circuit 2 Operating State"].DescriptionMap[0])
}

func TestRelaisStateIsPlainCounter(t *testing.T) {
	d, ok := MustLambda().Lookup("Heat Pump 1 Relais State 2nd Heating Stage")
	require.True(t, ok)
	assert.Equal(t, Int16, d.DataType)
	assert.Equal(t, "total", d.StateClass)
	assert.Empty(t, d.Unit)
	assert.Nil(t, d.DescriptionMap)
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		ds   []Descriptor
	}{
		{
			name: "duplicate name",
			ds: []Descriptor{
				{Name: "x", Registers: Single(1), DataType: Int16},
				{Name: "x", Registers: Single(2), DataType: Int16},
			},
		},
		{
			name: "empty name",
			ds:   []Descriptor{{Registers: Single(1), DataType: Int16}},
		},
		{
			name: "int32 on single register",
			ds:   []Descriptor{{Name: "x", Registers: Single(1), DataType: Int32}},
		},
		{
			name: "int16 on pair",
			ds:   []Descriptor{{Name: "x", Registers: Pair(1, 2), DataType: Int16}},
		},
		{
			name: "uint16 without registers",
			ds:   []Descriptor{{Name: "x", DataType: Uint16}},
		},
		{
			name: "pair with same address",
			ds:   []Descriptor{{Name: "x", Registers: Pair(7, 7), DataType: Int32}},
		},
		{
			name: "pair not adjacent",
			ds:   []Descriptor{{Name: "x", Registers: Pair(10, 20), DataType: Int32}},
		},
		{
			name: "unknown data type",
			ds:   []Descriptor{{Name: "x", Registers: Single(1), DataType: "float32"}},
		},
		{
			name: "empty description map",
			ds:   []Descriptor{{Name: "x", Registers: Single(1), DataType: Uint16, DescriptionMap: []string{}}},
		},
		{
			name: "negative precision",
			ds:   []Descriptor{{Name: "x", Registers: Single(1), DataType: Int16, Precision: -1}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.ds)
			require.Error(t, err)

			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Len(t, cerr.Problems, 1)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	_, err := New([]Descriptor{
		{Name: "a", Registers: Single(1), DataType: Int32},
		{Name: "b", Registers: Pair(1, 2), DataType: Uint16},
	})

	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Len(t, cerr.Problems, 2)
}

func TestReversedPairIsAccepted(t *testing.T) {
	c, err := New([]Descriptor{
		{Name: "energy", Registers: Pair(1021, 1020), DataType: Int32},
	})
	require.NoError(t, err)

	d, _ := c.Lookup("energy")
	assert.Equal(t, uint16(1020), d.Registers.Start())
	assert.Equal(t, []uint16{1021, 1020}, d.Registers.Addresses())
}

func TestWithoutDropsCircuits(t *testing.T) {
	full := MustLambda()
	trimmed := full.Without(GroupHeatingCircuit2, GroupHeatingCircuit3)

	assert.Equal(t, full.Len()-20, trimmed.Len())

	_, ok := trimmed.Lookup("Heating Circuit 2 Error Number")
	assert.False(t, ok)
	_, ok = trimmed.Lookup("Heating Circuit 1 Error Number")
	assert.True(t, ok)

	ds := trimmed.Descriptors()
	assert.Equal(t, "Heating Circuit 1 Set Cooling Mode Room Temperature", ds[len(ds)-1].Name)

	assert.Same(t, full, full.Without())
}

func TestUniqueID(t *testing.T) {
	d := Descriptor{Name: "Heat Pump 1 Requested Flow to Return Line Temperature Difference"}
	assert.Equal(t, "lambda_heatpump_heat_pump_1_requested_flow_to_return_line_temperature_difference", d.UniqueID())

	d = Descriptor{Name: "E-Manager Actual Power"}
	assert.Equal(t, "lambda_heatpump_e_manager_actual_power", d.UniqueID())
}

func TestUniqueIDsAreUnique(t *testing.T) {
	seen := map[string]string{}
	for _, d := range MustLambda().Descriptors() {
		id := d.UniqueID()
		prev, dup := seen[id]
		require.False(t, dup, "%q and %q share unique id %q", prev, d.Name, id)
		seen[id] = d.Name
	}
}
