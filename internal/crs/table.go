package crs

import (
	"github.com/cockroachdb/errors"
)

// Definition describes one CRS known to a Table. Aliases normalize to ID.
type Definition struct {
	ID         string    `yaml:"id" json:"id"`
	Aliases    []string  `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	EPSG       int       `yaml:"epsg,omitempty" json:"epsg,omitempty"`
	Geographic bool      `yaml:"geographic,omitempty" json:"geographic,omitempty"`
	AxisOrder  AxisOrder `yaml:"axis_order,omitempty" json:"axis_order,omitempty"`
}

// Table is a Resolver driven by explicit definitions. Identifiers it does not
// know are delegated to a fallback resolver.
type Table struct {
	fallback Resolver
	aliases  map[string]string
	defs     map[string]Definition
}

// NewTable indexes defs. A nil fallback means DefaultResolver.
func NewTable(fallback Resolver, defs ...Definition) (*Table, error) {
	if fallback == nil {
		fallback = DefaultResolver
	}
	t := &Table{
		fallback: fallback,
		aliases:  make(map[string]string),
		defs:     make(map[string]Definition, len(defs)),
	}
	for _, d := range defs {
		if d.ID == "" {
			return nil, errors.New("crs definition without id")
		}
		if _, dup := t.defs[d.ID]; dup {
			return nil, errors.Newf("duplicate crs definition %q", d.ID)
		}
		t.defs[d.ID] = d
		for _, alias := range d.Aliases {
			if prev, dup := t.aliases[alias]; dup && prev != d.ID {
				return nil, errors.Newf("crs alias %q maps to both %q and %q", alias, prev, d.ID)
			}
			t.aliases[alias] = d.ID
		}
	}
	return t, nil
}

// NormalizeID maps aliases to their canonical identifier.
func (t *Table) NormalizeID(id string) string {
	if canonical, ok := t.aliases[id]; ok {
		return canonical
	}
	return t.fallback.NormalizeID(id)
}

func (t *Table) lookup(id string) (Definition, bool) {
	d, ok := t.defs[t.NormalizeID(id)]
	return d, ok
}

// EPSG returns the EPSG code of id.
func (t *Table) EPSG(id string) (int, bool) {
	if d, ok := t.lookup(id); ok {
		return d.EPSG, d.EPSG > 0
	}
	return t.fallback.EPSG(id)
}

// IsGeographic reports whether id uses longitude/latitude coordinates.
func (t *Table) IsGeographic(id string) bool {
	if d, ok := t.lookup(id); ok {
		return d.Geographic
	}
	return t.fallback.IsGeographic(id)
}

// AxisOrder returns the axis order declared for id.
func (t *Table) AxisOrder(id string) (AxisOrder, bool) {
	if d, ok := t.lookup(id); ok {
		return d.AxisOrder, true
	}
	return t.fallback.AxisOrder(id)
}
