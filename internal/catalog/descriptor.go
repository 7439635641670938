// internal/catalog/descriptor.go
package catalog

import (
	"fmt"
	"strings"
)

// DataType selects how raw register words are interpreted.
type DataType string

const (
	Int16  DataType = "int16"
	Uint16 DataType = "uint16"
	Int32  DataType = "int32" // register pair only
)

// Words returns the number of registers a value of this type occupies.
func (t DataType) Words() int {
	if t == Int32 {
		return 2
	}
	return 1
}

// Group is the controller section a descriptor belongs to.
type Group string

const (
	GroupAmbient         Group = "ambient"
	GroupEManager        Group = "e-manager"
	GroupHeatPump1       Group = "heat-pump-1"
	GroupBoiler          Group = "boiler"
	GroupBuffer          Group = "buffer"
	GroupHeatingCircuit1 Group = "heating-circuit-1"
	GroupHeatingCircuit2 Group = "heating-circuit-2"
	GroupHeatingCircuit3 Group = "heating-circuit-3"
)

// Registers is either one address or an ordered pair of addresses.
// The pair keeps the order it was configured in.
type Registers struct {
	addrs [2]uint16
	n     int
}

// Single addresses one 16-bit register.
func Single(addr uint16) Registers {
	return Registers{addrs: [2]uint16{addr}, n: 1}
}

// Pair addresses two registers holding one 32-bit value.
func Pair(first, second uint16) Registers {
	return Registers{addrs: [2]uint16{first, second}, n: 2}
}

// Count is 1 for a single register, 2 for a pair, 0 when unset.
func (r Registers) Count() int { return r.n }

// IsPair reports whether r addresses two registers.
func (r Registers) IsPair() bool { return r.n == 2 }

// Addresses returns the addresses in configured order.
func (r Registers) Addresses() []uint16 {
	out := make([]uint16, r.n)
	copy(out, r.addrs[:r.n])
	return out
}

// Start is the lowest configured address: where the block read begins.
func (r Registers) Start() uint16 {
	if r.n == 2 && r.addrs[1] < r.addrs[0] {
		return r.addrs[1]
	}
	return r.addrs[0]
}

func (r Registers) String() string {
	switch r.n {
	case 1:
		return fmt.Sprintf("%d", r.addrs[0])
	case 2:
		return fmt.Sprintf("[%d,%d]", r.addrs[0], r.addrs[1])
	default:
		return "[]"
	}
}

// Descriptor describes how to read and interpret one measurement.
type Descriptor struct {
	Name      string
	Group     Group
	Registers Registers
	DataType  DataType

	// Scale is applied after the raw decode. Zero means omitted and
	// normalizes to 1.
	Scale     float64
	Precision int

	// Passed through to consumers, never used by decoding.
	Unit        string
	DeviceClass string
	StateClass  string

	// DescriptionMap maps the decoded integer to a label when in range.
	DescriptionMap []string
}

// UniqueID is a stable identifier derived from the name.
func (d Descriptor) UniqueID() string {
	var b strings.Builder
	b.WriteString("lambda_heatpump_")
	lastUnderscore := false
	for _, r := range strings.ToLower(d.Name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}

func (d Descriptor) normalized() Descriptor {
	if d.Scale == 0 {
		d.Scale = 1
	}
	return d.clone()
}

func (d Descriptor) clone() Descriptor {
	if d.DescriptionMap != nil {
		d.DescriptionMap = append(make([]string, 0, len(d.DescriptionMap)), d.DescriptionMap...)
	}
	return d
}
