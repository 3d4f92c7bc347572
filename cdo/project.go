// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

import "fmt"

type projectDim struct {
	name         string
	spec         DimensionSpec
	isRead       bool
	isCalculated bool
}

// A ComplexTypeProject accumulates dimension declarations, readers
// and calculations, and materializes them into a single ComplexType.
//
// A dimension cannot be both read and calculated.
type ComplexTypeProject struct {
	dims  map[string]*projectDim
	order []string
	calcs []CalculationSpec

	dimSpecs   map[string]DimensionSpec
	groupSpecs map[string]DimensionSpec
}

// NewComplexTypeProject returns a project configured with the user
// dimension specifications, by dimension name and by dimension group
// name. A group spec applies to every dimension of the group; a
// dimension spec overrides its group spec.
func NewComplexTypeProject(dimSpecs, groupSpecs map[string]DimensionSpec) *ComplexTypeProject {
	if dimSpecs == nil {
		dimSpecs = map[string]DimensionSpec{}
	}
	if groupSpecs == nil {
		groupSpecs = map[string]DimensionSpec{}
	}
	return &ComplexTypeProject{
		dims:       make(map[string]*projectDim),
		dimSpecs:   dimSpecs,
		groupSpecs: groupSpecs,
	}
}

func (p *ComplexTypeProject) ensure(name string) *projectDim {
	d, ok := p.dims[name]
	if !ok {
		d = &projectDim{name: name}
		p.dims[name] = d
		p.order = append(p.order, name)
	}
	return d
}

// SetDimension declares dimension name, merging spec into its
// defaults. User specifications still take precedence.
func (p *ComplexTypeProject) SetDimension(name string, spec DimensionSpec) {
	d := p.ensure(name)
	d.spec = d.spec.merge(spec)
}

// HasDimension reports whether name has been declared.
func (p *ComplexTypeProject) HasDimension(name string) bool {
	_, ok := p.dims[name]
	return ok
}

// ReadDimension declares that dimension name is read from source
// data. It fails if name is calculated.
func (p *ComplexTypeProject) ReadDimension(name string, spec DimensionSpec) error {
	if d, ok := p.dims[name]; ok && d.isCalculated {
		return fmt.Errorf("%w: dimension %q is being read and calculated", ErrOperationInvalid, name)
	}
	d := p.ensure(name)
	d.isRead = true
	d.spec = d.spec.merge(spec)
	return nil
}

// SetCalc declares a calculation. It fails if any of its dimensions
// is read or already calculated.
func (p *ComplexTypeProject) SetCalc(c CalculationSpec) error {
	if c.Calculate == nil || len(c.Names) == 0 {
		return fmt.Errorf("%w: calculation needs names and a function", ErrArgumentInvalid)
	}
	for _, name := range c.Names {
		if d, ok := p.dims[name]; ok {
			if d.isRead {
				return fmt.Errorf("%w: dimension %q is being read and calculated", ErrOperationInvalid, name)
			}
			if d.isCalculated {
				return fmt.Errorf("%w: dimension %q is already calculated", ErrOperationInvalid, name)
			}
		}
	}
	for _, name := range c.Names {
		p.ensure(name).isCalculated = true
	}
	p.calcs = append(p.calcs, c)
	return nil
}

// IsReadOrCalc reports whether name is read or calculated.
func (p *ComplexTypeProject) IsReadOrCalc(name string) bool {
	d, ok := p.dims[name]
	return ok && (d.isRead || d.isCalculated)
}

// IsRead reports whether name is read from source data.
func (p *ComplexTypeProject) IsRead(name string) bool {
	d, ok := p.dims[name]
	return ok && d.isRead
}

// NextGroupDimensionName returns the first dimension name of group
// that is not yet read or calculated: "value", then "value2", and so
// on.
func (p *ComplexTypeProject) NextGroupDimensionName(group string) string {
	for level := 0; ; level++ {
		name := GroupDimensionName(group, level)
		if !p.IsReadOrCalc(name) {
			return name
		}
	}
}

// GroupDimensionNames returns the declared dimensions of group, in
// level order.
func (p *ComplexTypeProject) GroupDimensionNames(group string) []string {
	var names []string
	for level := 0; ; level++ {
		name := GroupDimensionName(group, level)
		if !p.HasDimension(name) {
			return names
		}
		names = append(names, name)
	}
}

// DimensionNames returns the declared dimensions in declaration
// order.
func (p *ComplexTypeProject) DimensionNames() []string {
	return append([]string(nil), p.order...)
}

// resolvedSpec returns the spec of name with group and dimension user
// specs applied over the project defaults.
func (p *ComplexTypeProject) resolvedSpec(name string, base DimensionSpec) DimensionSpec {
	group, _ := SplitGroupName(name)
	spec := base
	if gs, ok := p.groupSpecs[group]; ok {
		spec = spec.merge(gs)
	}
	if ds, ok := p.dimSpecs[name]; ok {
		spec = spec.merge(ds)
	}
	return spec
}

// ConfigureComplexType materializes the project. Declared dimensions
// come first, in declaration order, followed by user-specified
// dimensions that were never declared, in name order. Calculations
// are added last, in declaration order.
func (p *ComplexTypeProject) ConfigureComplexType() (*ComplexType, error) {
	ct := NewComplexType()
	for _, name := range p.order {
		if _, err := ct.AddDimension(name, p.resolvedSpec(name, p.dims[name].spec)); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(p.dimSpecs) {
		if _, ok := p.dims[name]; ok {
			continue
		}
		if _, err := ct.AddDimension(name, p.resolvedSpec(name, DimensionSpec{})); err != nil {
			return nil, err
		}
	}
	for _, c := range p.calcs {
		if err := ct.AddCalculation(c); err != nil {
			return nil, err
		}
	}
	return ct, nil
}
