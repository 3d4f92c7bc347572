// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

import (
	"fmt"
	"strconv"
	"strings"
)

// A Datum is a Complex with selection and visibility state. Its owner
// is a root Data; every state change is reported to the owner, which
// keeps the caches of all Data nodes that index the datum in sync.
//
// Null datums stand for missing data. They never become selected and
// their visibility never changes.
type Datum struct {
	Complex

	isNull         bool
	isSelected     bool
	isVisible      bool
	isVirtual      bool
	isInterpolated bool
	trend          string
	interpolation  string

	datumKey string
}

// DatumOptions configures NewDatum.
type DatumOptions struct {
	IsNull    bool
	IsVirtual bool

	// Trend names the trend type of a trend datum. Trend datums
	// are virtual.
	Trend string

	// Interpolation names the interpolation that created an
	// interpolated datum. Interpolated datums are virtual.
	Interpolation string

	// DimNames, if non-nil, restricts the values consulted.
	DimNames []string

	// Base, if non-nil, is the complex whose atoms are inherited.
	Base *Complex
}

// NewDatum returns a visible, unselected datum owned by the root of
// owner. The datum is not part of the owner's datums until loaded.
func NewDatum(owner *Data, values map[string]any, opts DatumOptions) *Datum {
	d := &Datum{isVisible: true}
	d.Complex.init(owner.Owner(), opts.Base, values, opts.DimNames)
	d.setOptions(opts)
	return d
}

// NewDatumFromAtoms is like NewDatum, but takes atoms already
// interned by owner's root, typically those of another datum.
func NewDatumFromAtoms(owner *Data, atoms []*Atom, opts DatumOptions) *Datum {
	root := owner.Owner()
	base := root.atoms
	if opts.Base != nil {
		base = opts.Base.atoms
	}
	d := &Datum{isVisible: true}
	d.Complex.initAtoms(root, base, atoms)
	d.setOptions(opts)
	return d
}

func (d *Datum) setOptions(opts DatumOptions) {
	d.isNull = opts.IsNull
	d.trend = opts.Trend
	d.interpolation = opts.Interpolation
	d.isInterpolated = opts.Interpolation != ""
	d.isVirtual = opts.IsVirtual || d.trend != "" || d.isInterpolated

	keyDims := d.owner.typ.KeyDimensions()
	if len(keyDims) == 0 {
		d.datumKey = strconv.Itoa(d.id)
		return
	}
	keys := make([]string, len(keyDims))
	for i, t := range keyDims {
		keys[i] = d.Atom(t.name).Key
	}
	d.datumKey = strings.Join(keys, d.owner.keySep)
	if d.isVirtual {
		// Virtual datums never replace the datums they derive from.
		d.datumKey += d.owner.keySep + "v" + strconv.Itoa(d.id)
	}
}

// Key returns the datum key: the keys of the key dimensions' atoms
// when the type has key dimensions, and the datum id otherwise.
func (d *Datum) Key() string { return d.datumKey }

// Value returns the value of the datum's value dimension (see
// ComplexType.ValueDimension), or the complex value if the type has
// none.
func (d *Datum) Value() any {
	if t, ok := d.owner.typ.ValueDimension(); ok {
		return d.Atom(t.name).Value
	}
	return d.Complex.Value()
}

// RawValue is the raw counterpart of Value.
func (d *Datum) RawValue() any {
	if t, ok := d.owner.typ.ValueDimension(); ok {
		return d.Atom(t.name).RawValue
	}
	return d.Complex.RawValue()
}

func (d *Datum) IsNull() bool          { return d.isNull }
func (d *Datum) IsSelected() bool      { return d.isSelected }
func (d *Datum) IsVisible() bool       { return d.isVisible }
func (d *Datum) IsVirtual() bool       { return d.isVirtual }
func (d *Datum) IsTrend() bool         { return d.trend != "" }
func (d *Datum) Trend() string         { return d.trend }
func (d *Datum) IsInterpolated() bool  { return d.isInterpolated }
func (d *Datum) Interpolation() string { return d.interpolation }

// SetSelected changes the selected state of d and reports whether it
// changed. Null datums cannot be selected.
func (d *Datum) SetSelected(selected bool) bool {
	if d.isNull || d.isSelected == selected {
		return false
	}
	d.isSelected = selected
	d.owner.onDatumSelectedChanged(d, selected)
	return true
}

// ToggleSelected flips the selected state of d.
func (d *Datum) ToggleSelected() bool {
	return d.SetSelected(!d.isSelected)
}

// SetVisible changes the visible state of d and reports whether it
// changed. The visibility of null datums never changes.
func (d *Datum) SetVisible(visible bool) bool {
	if d.isNull || d.isVisible == visible {
		return false
	}
	d.isVisible = visible
	d.owner.onDatumVisibleChanged(d, visible)
	return true
}

// ToggleVisible flips the visible state of d.
func (d *Datum) ToggleVisible() bool {
	return d.SetVisible(!d.isVisible)
}

func (d *Datum) String() string {
	return fmt.Sprintf("Datum#%d[%s]", d.id, d.Complex.key)
}
