// internal/catalog/validate.go
package catalog

import (
	"fmt"
	"strings"
)

// ConfigError lists every malformed descriptor found while loading a catalog.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "catalog: invalid descriptors: " + strings.Join(e.Problems, " | ")
}

// validate checks descriptors declaratively.
// It MUST NOT mutate them.
func validate(ds []Descriptor) error {
	var problems []string
	add := func(i int, d Descriptor, format string, args ...any) {
		problems = append(problems, fmt.Sprintf("#%d %q: ", i, d.Name)+fmt.Sprintf(format, args...))
	}

	seen := make(map[string]int, len(ds))

	for i, d := range ds {
		if d.Name == "" {
			add(i, d, "name required")
		} else if prev, dup := seen[d.Name]; dup {
			add(i, d, "duplicate name (first at #%d)", prev)
		} else {
			seen[d.Name] = i
		}

		// ---- register geometry ----

		switch d.DataType {
		case Int16, Uint16:
			if d.Registers.Count() != 1 {
				add(i, d, "%s requires a single register, got %s", d.DataType, d.Registers)
			}
		case Int32:
			if !d.Registers.IsPair() {
				add(i, d, "int32 requires a register pair, got %s", d.Registers)
				break
			}
			a := d.Registers.Addresses()
			if a[0] == a[1] {
				add(i, d, "register pair addresses must be distinct, got %s", d.Registers)
			} else if diff(a[0], a[1]) != 1 {
				add(i, d, "register pair must be adjacent, got %s", d.Registers)
			}
		default:
			add(i, d, "unrecognized data type %q", d.DataType)
		}

		// ---- presentation ----

		if d.Precision < 0 {
			add(i, d, "precision must be >= 0, got %d", d.Precision)
		}
		if d.DescriptionMap != nil && len(d.DescriptionMap) == 0 {
			add(i, d, "description map must not be empty")
		}
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

func diff(a, b uint16) uint16 {
	if a > b {
		return a - b
	}
	return b - a
}
