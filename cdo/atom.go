// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

import (
	"maps"
	"slices"
)

// An Atom is an interned, immutable value of one dimension. Within a
// root dimension, equal keys imply the same *Atom, so atoms can be
// compared by identity.
type Atom struct {
	dimension *Dimension

	// Value is the converted value, or nil for the null atom.
	Value any

	// RawValue is the source value Value was converted from.
	RawValue any

	// Key is unique within the dimension. The null atom's key is
	// the empty string.
	Key string

	// Label is the formatted value.
	Label string

	// index is the interning order, -1 for the null atom.
	index int
}

// Dimension returns the root dimension that interned a.
func (a *Atom) Dimension() *Dimension { return a.dimension }

// IsNull reports whether a is the null atom of its dimension.
func (a *Atom) IsNull() bool { return a.Value == nil }

func (a *Atom) String() string {
	if a.IsNull() {
		return a.dimension.Name() + ":null"
	}
	return a.dimension.Name() + ":" + a.Key
}

// Atoms is a two-level atom lookup: atoms set locally on a complex,
// falling back to the atoms of a base complex. Only local atoms take
// part in the key and label of the owning complex.
type Atoms struct {
	local map[string]*Atom
	base  *Atoms
}

func newAtoms(base *Atoms) *Atoms {
	return &Atoms{local: make(map[string]*Atom), base: base}
}

// Get returns the atom of dimension name, looking in the local atoms
// and then in the base. It returns nil if neither has one.
func (as *Atoms) Get(name string) *Atom {
	for ; as != nil; as = as.base {
		if a, ok := as.local[name]; ok {
			return a
		}
	}
	return nil
}

// Own returns the local atom of dimension name, if any.
func (as *Atoms) Own(name string) (*Atom, bool) {
	a, ok := as.local[name]
	return a, ok
}

// OwnNames returns the names of the local atoms in unspecified
// order.
func (as *Atoms) OwnNames() []string {
	return slices.Collect(maps.Keys(as.local))
}

// Base returns the fallback atoms, or nil.
func (as *Atoms) Base() *Atoms { return as.base }

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
