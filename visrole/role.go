// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package visrole binds visual roles, such as series, category or
// value, to groupings of data dimensions.
package visrole

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/webdetails/ccc-sub011/cdo"
)

// ErrUnbound is returned when a required role is left unbound.
var ErrUnbound = errors.New("visual role is not bound")

// Options configures a Role.
type Options struct {
	Label string

	IsRequired bool

	// IsMeasure marks roles that are filled by measure columns by
	// default.
	IsMeasure bool

	RequireSingleDimension bool

	// RequireIsDiscrete, if non-nil, requires a discrete or
	// continuous grouping.
	RequireIsDiscrete *bool

	// IsPercent requests a percent sub-variable on scenes.
	IsPercent bool

	// DefaultDimension is the dimension bound when the role is not
	// bound explicitly. A trailing "*" binds every dimension of
	// the group: "series*" binds series, series2 and so on.
	DefaultDimension string

	// AutoCreateDimension defines the default dimension if the
	// complex type lacks it.
	AutoCreateDimension bool

	// DefaultSourceRole names the role whose grouping is used when
	// this role is not bound.
	DefaultSourceRole string
}

// A Role is a visual role of a chart.
type Role struct {
	name     string
	opts     Options
	grouping *cdo.GroupingSpec
	source   *Role

	discriminator string
}

// New returns an unbound role.
func New(name string, opts Options) *Role {
	if opts.Label == "" {
		opts.Label = cdo.DefaultLabel(name)
	}
	return &Role{name: name, opts: opts}
}

func (r *Role) Name() string     { return r.name }
func (r *Role) Label() string    { return r.opts.Label }
func (r *Role) Options() Options { return r.opts }
func (r *Role) String() string   { return r.name + "Role" }

// Bind binds r to g, validating g against r's requirements.
func (r *Role) Bind(g *cdo.GroupingSpec) error {
	if g == nil {
		r.grouping = nil
		return nil
	}
	if r.opts.RequireSingleDimension && !g.IsSingleDimension() {
		return fmt.Errorf("%w: role %q requires a single dimension, got %q", cdo.ErrOperationInvalid, r.name, g.ID())
	}
	if rd := r.opts.RequireIsDiscrete; rd != nil && g.IsDiscrete() != *rd {
		kind := "continuous"
		if *rd {
			kind = "discrete"
		}
		return fmt.Errorf("%w: role %q requires a %s grouping, got %q", cdo.ErrOperationInvalid, r.name, kind, g.ID())
	}
	r.grouping = g
	return nil
}

// BindText parses text as a grouping of typ and binds r to it.
func (r *Role) BindText(text string, typ *cdo.ComplexType) error {
	g, err := cdo.ParseGrouping(text, typ)
	if err != nil {
		return fmt.Errorf("role %q: %w", r.name, err)
	}
	return r.Bind(g)
}

// Unbind removes r's own grouping.
func (r *Role) Unbind() { r.grouping = nil }

// SetSourceRole makes r use src's grouping while r is not bound.
func (r *Role) SetSourceRole(src *Role) {
	for s := src; s != nil; s = s.source {
		if s == r {
			panic(fmt.Sprintf("role %q sources itself", r.name))
		}
	}
	r.source = src
}

// SourceRole returns the role r is sourced from, or nil.
func (r *Role) SourceRole() *Role { return r.source }

// RootSourceRole follows source roles to the last one.
func (r *Role) RootSourceRole() *Role {
	for r.source != nil {
		r = r.source
	}
	return r
}

// IsSourced reports whether r's grouping comes from a source role.
func (r *Role) IsSourced() bool {
	return r.grouping == nil && r.source != nil && r.source.IsBound()
}

// IsBound reports whether r or its source role has a grouping.
func (r *Role) IsBound() bool { return r.Grouping() != nil }

// Grouping returns r's grouping, or its source role's.
func (r *Role) Grouping() *cdo.GroupingSpec {
	if r.grouping != nil {
		return r.grouping
	}
	if r.source != nil {
		return r.source.Grouping()
	}
	return nil
}

// DimensionNames returns the names of the bound dimensions.
func (r *Role) DimensionNames() []string {
	if g := r.Grouping(); g != nil {
		return g.DimensionNames()
	}
	return nil
}

// IsDiscrete reports whether r is bound to a discrete grouping.
func (r *Role) IsDiscrete() bool {
	g := r.Grouping()
	return g != nil && g.IsDiscrete()
}

// IsNumeric reports whether every bound dimension is a continuous
// number dimension.
func (r *Role) IsNumeric() bool {
	g := r.Grouping()
	if g == nil {
		return false
	}
	for _, d := range g.Dimensions() {
		if d.Type.IsDiscrete() || d.Type.ValueType() != cdo.Number {
			return false
		}
	}
	return true
}

// DefaultGrouping returns the grouping of r's default dimension in
// typ, if there is one.
func (r *Role) DefaultGrouping(typ *cdo.ComplexType) (*cdo.GroupingSpec, bool) {
	dd := r.opts.DefaultDimension
	if dd == "" {
		return nil, false
	}
	var names []string
	if group, ok := strings.CutSuffix(dd, "*"); ok {
		for _, t := range typ.GroupDimensions(group) {
			names = append(names, t.Name())
		}
	} else if _, ok := typ.Dimension(dd); ok {
		names = []string{dd}
	}
	if len(names) == 0 {
		return nil, false
	}
	g, err := cdo.SingleLevel(typ, names...)
	return g, err == nil
}

// SetDiscriminator names the dimension that holds, for each datum,
// which of r's dimensions carries its value.
func (r *Role) SetDiscriminator(dim string) { r.discriminator = dim }

// Discriminator returns r's discriminator dimension, or "".
func (r *Role) Discriminator() string { return r.discriminator }

// DimensionNameFor returns the dimension of r that holds dt's value.
// Without a discriminator, that is r's first dimension.
func (r *Role) DimensionNameFor(dt *cdo.Datum) string {
	names := r.DimensionNames()
	if len(names) == 0 {
		return ""
	}
	if r.discriminator != "" {
		if name, ok := dt.Atom(r.discriminator).Value.(string); ok && slices.Contains(names, name) {
			return name
		}
	}
	return names[0]
}

// Flatten groups data by r's grouping, flattened to its leaves.
func (r *Role) Flatten(data *cdo.Data, opts cdo.GroupOptions) *cdo.Data {
	g := r.Grouping()
	if g == nil {
		panic(fmt.Sprintf("flatten of unbound role %q", r.name))
	}
	return data.GroupBy(g.WithFlatten(cdo.FlattenLeaf), opts)
}

// View returns a complex over the atoms of c bound to r.
func (r *Role) View(c *cdo.Complex) *cdo.Complex {
	return cdo.NewView(c, r.DimensionNames())
}

// NumberValueOf sums r's value over the visible non-null datums of
// data. ok is false if no datum has a value.
func (r *Role) NumberValueOf(data *cdo.Data) (sum float64, ok bool) {
	if r.discriminator == "" {
		names := r.DimensionNames()
		if len(names) == 0 {
			return 0, false
		}
		return data.DimensionSum(names[0], cdo.SumOptions{Visible: cdo.Bool(true)})
	}
	for _, dt := range data.Query(cdo.DatumsOptions{Visible: cdo.Bool(true), IsNull: cdo.Bool(false)}) {
		if v, vok := cdo.ToNumber(dt.Atom(r.DimensionNameFor(dt)).Value); vok {
			sum += v
			ok = true
		}
	}
	return sum, ok
}

// PercentOf returns value as a fraction of the absolute sum of r's
// value over the parent group of data, or over data itself if it has
// no parent. ok is false if that sum is zero.
func (r *Role) PercentOf(data *cdo.Data, value float64) (float64, bool) {
	names := r.DimensionNames()
	if len(names) == 0 || data == nil {
		return 0, false
	}
	base := data
	if p := data.Parent(); p != nil {
		base = p
	}
	total := r.sumAbs(base)
	if total == 0 || math.IsNaN(total) {
		return 0, false
	}
	return value / total, true
}

// sumAbs is the absolute sum of r's value over the visible non-null
// datums of data. Each datum contributes the dimension its
// discriminator names.
func (r *Role) sumAbs(data *cdo.Data) float64 {
	if r.discriminator == "" {
		return data.DimensionSumAbs(r.DimensionNames()[0])
	}
	var total float64
	for _, dt := range data.Query(cdo.DatumsOptions{Visible: cdo.Bool(true), IsNull: cdo.Bool(false)}) {
		if v, ok := cdo.ToNumber(dt.Atom(r.DimensionNameFor(dt)).Value); ok {
			total += math.Abs(v)
		}
	}
	return total
}
