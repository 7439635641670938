// internal/catalog/catalog.go
package catalog

// Catalog is an immutable, ordered set of descriptors.
type Catalog struct {
	items []Descriptor
	index map[string]int
}

// New normalizes and validates descriptors.
// Any violation fails the whole load with a *ConfigError.
func New(ds []Descriptor) (*Catalog, error) {
	items := make([]Descriptor, len(ds))
	for i, d := range ds {
		items[i] = d.normalized()
	}

	if err := validate(items); err != nil {
		return nil, err
	}

	return build(items), nil
}

func build(items []Descriptor) *Catalog {
	c := &Catalog{
		items: items,
		index: make(map[string]int, len(items)),
	}
	for i, d := range items {
		c.index[d.Name] = i
	}
	return c
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int { return len(c.items) }

// Descriptors returns the descriptors in catalog order.
// The returned descriptors are deep copies.
func (c *Catalog) Descriptors() []Descriptor {
	out := make([]Descriptor, len(c.items))
	for i, d := range c.items {
		out[i] = d.clone()
	}
	return out
}

// Lookup finds a descriptor by name.
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	i, ok := c.index[name]
	if !ok {
		return Descriptor{}, false
	}
	return c.items[i].clone(), true
}

// Without returns a catalog minus every descriptor in the given groups.
// Order is preserved.
func (c *Catalog) Without(groups ...Group) *Catalog {
	if len(groups) == 0 {
		return c
	}
	drop := make(map[Group]struct{}, len(groups))
	for _, g := range groups {
		drop[g] = struct{}{}
	}

	kept := make([]Descriptor, 0, len(c.items))
	for _, d := range c.items {
		if _, skip := drop[d.Group]; skip {
			continue
		}
		kept = append(kept, d)
	}
	return build(kept)
}

// MustLambda returns the built-in Lambda catalog and panics if it is invalid.
func MustLambda() *Catalog {
	c, err := New(Lambda())
	if err != nil {
		panic(err)
	}
	return c
}
