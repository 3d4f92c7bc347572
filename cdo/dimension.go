// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

import "sort"

// A Dimension holds the atoms of one dimension type within one Data
// node. The root node's dimensions own the interning tables; the
// dimensions of child nodes list the atoms of their node's datums.
type Dimension struct {
	typ  *DimensionType
	data *Data
	root *Dimension

	// Root only.
	byKey    map[string]*Atom
	interned []*Atom
	nullAtom *Atom

	// Lazily computed lists, nil when stale.
	atoms        []*Atom
	visibleAtoms map[bool][]*Atom
	version      int
}

func newDimension(data *Data, typ *DimensionType, root *Dimension) *Dimension {
	d := &Dimension{typ: typ, data: data, root: root}
	if root == nil {
		d.root = d
		d.byKey = make(map[string]*Atom)
		d.nullAtom = &Atom{dimension: d, index: -1}
	}
	return d
}

func (d *Dimension) Type() *DimensionType { return d.typ }
func (d *Dimension) Name() string         { return d.typ.name }
func (d *Dimension) Data() *Data          { return d.data }

// Root returns the dimension of the root Data that interns this
// dimension's atoms.
func (d *Dimension) Root() *Dimension { return d.root }

// NullAtom returns the null atom of the dimension.
func (d *Dimension) NullAtom() *Atom { return d.root.nullAtom }

// Intern returns the atom for raw, creating it if needed. Interning
// the same value twice returns the same *Atom. Values that are null,
// or that cannot be converted to the dimension's value type, intern
// to the null atom.
func (d *Dimension) Intern(raw any) *Atom {
	r := d.root
	v, err := r.typ.valueType.convert(raw)
	if err != nil {
		if r.data != nil {
			r.data.warnf("dimension %q: %v", r.typ.name, err)
		}
		return r.nullAtom
	}
	if v == nil {
		return r.nullAtom
	}
	key := r.typ.valueType.key(v)
	if a, ok := r.byKey[key]; ok {
		return a
	}
	a := &Atom{
		dimension: r,
		Value:     v,
		RawValue:  raw,
		Key:       key,
		Label:     r.typ.Format(v),
		index:     len(r.interned),
	}
	r.byKey[key] = a
	r.interned = append(r.interned, a)
	r.atoms = nil
	return a
}

// Read returns the already interned atom for raw, without interning
// it.
func (d *Dimension) Read(raw any) (*Atom, bool) {
	r := d.root
	v, err := r.typ.valueType.convert(raw)
	if err != nil {
		return nil, false
	}
	if v == nil {
		return r.nullAtom, true
	}
	a, ok := r.byKey[r.typ.valueType.key(v)]
	return a, ok
}

// AtomsOptions filters the atoms returned by Dimension.Atoms.
type AtomsOptions struct {
	// Visible, if non-nil, keeps only atoms of datums with that
	// visibility.
	Visible *bool
}

// Atoms returns the dimension's distinct non-null atoms in dimension
// order. For the root dimension without filters, these are all atoms
// ever interned. Otherwise, they are the atoms of the node's
// datums.
func (d *Dimension) Atoms(opts AtomsOptions) []*Atom {
	if v := d.typ.complexType.orderVersion; v != d.version {
		d.onDatumsChanged()
		d.version = v
	}
	if opts.Visible != nil {
		vis := *opts.Visible
		if as, ok := d.visibleAtoms[vis]; ok {
			return as
		}
		as := d.collect(func(dt *Datum) bool { return dt.isVisible == vis })
		if d.visibleAtoms == nil {
			d.visibleAtoms = make(map[bool][]*Atom)
		}
		d.visibleAtoms[vis] = as
		return as
	}
	if d.atoms == nil {
		if d.root == d {
			d.atoms = append([]*Atom(nil), d.interned...)
			d.sort(d.atoms)
		} else {
			d.atoms = d.collect(nil)
		}
	}
	return d.atoms
}

func (d *Dimension) collect(keep func(*Datum) bool) []*Atom {
	seen := make(map[*Atom]bool)
	as := []*Atom{}
	for _, dt := range d.data.datums {
		if keep != nil && !keep(dt) {
			continue
		}
		a := dt.Atom(d.typ.name)
		if a.IsNull() || seen[a] {
			continue
		}
		seen[a] = true
		as = append(as, a)
	}
	d.sort(as)
	return as
}

func (d *Dimension) sort(as []*Atom) {
	sort.SliceStable(as, func(i, j int) bool { return d.typ.Compare(as[i], as[j]) < 0 })
}

// Min returns the first atom in dimension order.
func (d *Dimension) Min(opts AtomsOptions) (*Atom, bool) {
	as := d.Atoms(opts)
	if len(as) == 0 {
		return nil, false
	}
	return as[0], true
}

// Max returns the last atom in dimension order.
func (d *Dimension) Max(opts AtomsOptions) (*Atom, bool) {
	as := d.Atoms(opts)
	if len(as) == 0 {
		return nil, false
	}
	return as[len(as)-1], true
}

// onDatumVisibleChanged drops the visible atom caches.
func (d *Dimension) onDatumVisibleChanged() {
	d.visibleAtoms = nil
}

// onDatumsChanged drops all cached atom lists.
func (d *Dimension) onDatumsChanged() {
	d.atoms = nil
	d.visibleAtoms = nil
}
