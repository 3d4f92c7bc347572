// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

import (
	"fmt"
	"strings"
	"sync/atomic"
)

var lastID atomic.Int64

func nextID() int { return int(lastID.Add(1)) }

// A Complex is an immutable set of atoms, at most one per dimension,
// owned by a root Data. Its key and label are derived from its own
// atoms only; atoms inherited from a base complex are visible through
// Atom but do not take part in the key.
type Complex struct {
	id    int
	owner *Data
	atoms *Atoms

	key, label      string
	value, rawValue any
}

// NewComplex returns a complex owned by the root of owner. Its atoms
// fall back to those of base, if non-nil, and otherwise to those of
// the root. values maps dimension names to raw values; if dimNames is
// non-nil, only those entries are consulted. Interning values may
// create new atoms in owner's dimensions.
func NewComplex(owner *Data, base *Complex, values map[string]any, dimNames []string) *Complex {
	c := new(Complex)
	c.init(owner.Owner(), base, values, dimNames)
	return c
}

func (c *Complex) init(root *Data, base *Complex, values map[string]any, dimNames []string) {
	c.id = nextID()
	c.owner = root
	baseAtoms := root.atoms
	if base != nil {
		if base.owner != root {
			panic("complex base has a different owner")
		}
		baseAtoms = base.atoms
	}
	c.atoms = newAtoms(baseAtoms)
	if dimNames == nil {
		dimNames = root.typ.DimensionNames()
	}
	for _, name := range dimNames {
		raw, ok := values[name]
		if !ok {
			continue
		}
		a := root.rootDimension(name).Intern(raw)
		if !a.IsNull() {
			c.atoms.local[name] = a
		}
	}
	c.deriveKey()
}

// initAtoms initializes c from atoms already interned by root.
func (c *Complex) initAtoms(root *Data, baseAtoms *Atoms, atoms []*Atom) {
	c.id = nextID()
	c.owner = root
	c.atoms = newAtoms(baseAtoms)
	for _, a := range atoms {
		name := a.dimension.Name()
		if root.rootDimension(name) != a.dimension {
			panic(fmt.Sprintf("atom %s belongs to a different owner", a))
		}
		if !a.IsNull() {
			c.atoms.local[name] = a
		}
	}
	c.deriveKey()
}

// deriveKey computes key, label and value from the own atoms, in
// dimension declaration order.
func (c *Complex) deriveKey() {
	var own []*Atom
	for _, t := range c.owner.typ.dims {
		if a, ok := c.atoms.local[t.name]; ok {
			own = append(own, a)
		}
	}
	switch len(own) {
	case 0:
		c.key, c.label, c.value, c.rawValue = "", "", nil, nil
	case 1:
		a := own[0]
		c.key, c.label, c.value, c.rawValue = a.Key, a.Label, a.Value, a.RawValue
	default:
		keys := make([]string, 0, len(own))
		labels := make([]string, 0, len(own))
		for _, a := range own {
			keys = append(keys, a.Key)
			if a.Label != "" {
				labels = append(labels, a.Label)
			}
		}
		c.key = strings.Join(keys, c.owner.keySep)
		c.label = strings.Join(labels, c.owner.labelSep)
		c.value, c.rawValue = c.key, c.key
	}
}

// NewView returns a complex over the atoms of source for dimNames
// only. Its key and label are those of the viewed atoms.
func NewView(source *Complex, dimNames []string) *Complex {
	v := &Complex{owner: source.owner, atoms: newAtoms(nil)}
	for _, name := range dimNames {
		if a := source.Atom(name); !a.IsNull() {
			v.atoms.local[name] = a
		}
	}
	v.deriveKey()
	return v
}

// ID returns the complex's unique id. Views have id 0.
func (c *Complex) ID() int { return c.id }

// Owner returns the root Data that owns the complex.
func (c *Complex) Owner() *Data { return c.owner }

// Atoms returns the complex's atom lookup.
func (c *Complex) Atoms() *Atoms { return c.atoms }

// Atom returns the atom of dimension name, or the dimension's null
// atom if the complex has none. It panics if the dimension does not
// exist.
func (c *Complex) Atom(name string) *Atom {
	if a := c.atoms.Get(name); a != nil {
		return a
	}
	return c.owner.rootDimension(name).nullAtom
}

func (c *Complex) Key() string   { return c.key }
func (c *Complex) Label() string { return c.label }

// Value is the single atom's value, or the key when the complex has
// several own atoms.
func (c *Complex) Value() any    { return c.value }
func (c *Complex) RawValue() any { return c.rawValue }

func (c *Complex) String() string {
	return fmt.Sprintf("Complex#%d[%s]", c.id, c.key)
}
