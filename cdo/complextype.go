// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

import (
	"fmt"
	"sort"
)

// A CalculationSpec computes the values of one or more dimensions from
// the values read from a source row.
type CalculationSpec struct {
	// Names are the dimensions set by the calculation.
	Names []string

	// Calculate is given the values read and calculated so far,
	// keyed by dimension name, and returns the values of Names.
	// Entries for other dimensions are ignored.
	Calculate func(values map[string]any) map[string]any
}

// A ComplexType is the schema of the complexes of a Data: an ordered
// set of dimension types plus the calculations that fill calculated
// dimensions.
//
// A ComplexType is normally materialized by a ComplexTypeProject.
type ComplexType struct {
	dims    []*DimensionType
	byName  map[string]*DimensionType
	calcs   []CalculationSpec
	calcDim map[string]bool

	// orderVersion changes whenever a dimension comparer changes,
	// invalidating cached orderings.
	orderVersion int
}

// NewComplexType returns an empty ComplexType.
func NewComplexType() *ComplexType {
	return &ComplexType{
		byName:  make(map[string]*DimensionType),
		calcDim: make(map[string]bool),
	}
}

// AddDimension adds a dimension type named name. It fails if the
// dimension already exists.
func (ct *ComplexType) AddDimension(name string, spec DimensionSpec) (*DimensionType, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty dimension name", ErrArgumentInvalid)
	}
	if _, ok := ct.byName[name]; ok {
		return nil, fmt.Errorf("%w: dimension %q is already defined", ErrOperationInvalid, name)
	}
	t, err := newDimensionType(ct, len(ct.dims), name, spec)
	if err != nil {
		return nil, err
	}
	ct.dims = append(ct.dims, t)
	ct.byName[name] = t
	return t, nil
}

// Dimension returns the dimension type named name.
func (ct *ComplexType) Dimension(name string) (*DimensionType, bool) {
	t, ok := ct.byName[name]
	return t, ok
}

// MustDimension is like Dimension, but panics if there is no such
// dimension.
func (ct *ComplexType) MustDimension(name string) *DimensionType {
	t, ok := ct.byName[name]
	if !ok {
		panic(fmt.Sprintf("unknown dimension %q", name))
	}
	return t
}

// Dimensions returns the dimension types in declaration order.
func (ct *ComplexType) Dimensions() []*DimensionType {
	return ct.dims
}

// DimensionNames returns the dimension names in declaration order.
func (ct *ComplexType) DimensionNames() []string {
	names := make([]string, len(ct.dims))
	for i, t := range ct.dims {
		names[i] = t.name
	}
	return names
}

// GroupDimensions returns the dimensions of group ordered by level.
func (ct *ComplexType) GroupDimensions(group string) []*DimensionType {
	var ts []*DimensionType
	for _, t := range ct.dims {
		if t.group == group {
			ts = append(ts, t)
		}
	}
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].groupLevel < ts[j].groupLevel })
	return ts
}

// KeyDimensions returns the dimensions that form datum keys.
func (ct *ComplexType) KeyDimensions() []*DimensionType {
	var ts []*DimensionType
	for _, t := range ct.dims {
		if t.isKey {
			ts = append(ts, t)
		}
	}
	return ts
}

// ValueDimension returns the dimension whose value is a datum's
// value: the first dimension of the "value" group, or else the first
// continuous dimension.
func (ct *ComplexType) ValueDimension() (*DimensionType, bool) {
	if ts := ct.GroupDimensions("value"); len(ts) > 0 {
		return ts[0], true
	}
	for _, t := range ct.dims {
		if !t.isDiscrete {
			return t, true
		}
	}
	return nil, false
}

// AddCalculation registers a calculation. Its target dimensions must
// exist. Calculations run in registration order.
func (ct *ComplexType) AddCalculation(c CalculationSpec) error {
	if c.Calculate == nil || len(c.Names) == 0 {
		return fmt.Errorf("%w: calculation needs names and a function", ErrArgumentInvalid)
	}
	for _, name := range c.Names {
		if _, ok := ct.byName[name]; !ok {
			return fmt.Errorf("%w: calculated dimension %q is not defined", ErrArgumentInvalid, name)
		}
		if ct.calcDim[name] {
			return fmt.Errorf("%w: dimension %q is already calculated", ErrOperationInvalid, name)
		}
	}
	for _, name := range c.Names {
		ct.calcDim[name] = true
	}
	ct.calcs = append(ct.calcs, c)
	return nil
}

// IsCalculated reports whether a calculation sets dimension name.
func (ct *ComplexType) IsCalculated(name string) bool {
	return ct.calcDim[name]
}

// calculate applies all calculations, in order, to values.
func (ct *ComplexType) calculate(values map[string]any) {
	for _, c := range ct.calcs {
		out := c.Calculate(values)
		for _, name := range c.Names {
			if v, ok := out[name]; ok {
				values[name] = v
			}
		}
	}
}
