// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package axis implements chart axes: the scales shared by the visual
// roles of one or more plots.
//
// Axes are bound in two phases. Plots first register their data cells
// (role and data part) on the axes they use; once every plot has done
// so, Bind validates the roles and fixes the scale type. Scales are
// computed afterwards, when the data is loaded.
package axis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/webdetails/ccc-sub011/cdo"
	"github.com/webdetails/ccc-sub011/options"
	"github.com/webdetails/ccc-sub011/scene"
	"github.com/webdetails/ccc-sub011/visrole"
)

// Type is the kind of an axis.
type Type int

const (
	Base Type = iota
	Ortho
	Color
	Size
)

var typeNames = [...]string{"base", "ortho", "color", "size"}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// IsCartesian reports whether axes of type t position marks.
func (t Type) IsCartesian() bool { return t == Base || t == Ortho }

// ScaleType is the kind of scale of a bound axis.
type ScaleType int

const (
	Discrete ScaleType = iota
	Continuous
	Timeseries
)

func (t ScaleType) String() string {
	switch t {
	case Discrete:
		return "discrete"
	case Continuous:
		return "continuous"
	case Timeseries:
		return "timeseries"
	}
	return "ScaleType(" + strconv.Itoa(int(t)) + ")"
}

// A DataCell is a role of a plot whose values an axis scales.
type DataCell struct {
	Role *visrole.Role

	// DataPart selects the datums of the cell, "" for all.
	DataPart string
}

var commonSchema = options.NewSchema(
	options.Def{Name: "Visible", Default: true, Cast: options.CastBool},
)

var cartesianSchema = options.Compose(commonSchema, options.NewSchema(
	options.Def{Name: "FixedMin", Cast: options.CastFloat},
	options.Def{Name: "FixedMax", Cast: options.CastFloat},
	options.Def{Name: "FixedLength", Cast: options.CastFloat},
	options.Def{Name: "OriginIsZero", Default: true, Cast: options.CastBool},
	options.Def{Name: "DomainAlign", Default: "center", Cast: options.CastEnum("left", "center", "right")},
	options.Def{Name: "PreserveRatio", Default: false, Cast: options.CastBool},
	options.Def{Name: "Offset", Default: 0.0, Cast: options.CastFloat},
	options.Def{Name: "DesiredTickCount", Default: 10.0, Cast: options.CastFloat},
))

var colorSchema = options.Compose(commonSchema, options.NewSchema(
	options.Def{Name: "PreserveMap", Default: false, Cast: options.CastBool},
	options.Def{Name: "Colors", Cast: castColors},
))

var sizeSchema = options.Compose(commonSchema, options.NewSchema(
	options.Def{Name: "FixedMin", Cast: options.CastFloat},
	options.Def{Name: "FixedMax", Cast: options.CastFloat},
	options.Def{Name: "OriginIsZero", Default: false, Cast: options.CastBool},
))

func schemaOf(t Type) options.Schema {
	switch t {
	case Color:
		return colorSchema
	case Size:
		return sizeSchema
	}
	return cartesianSchema
}

// An Axis scales the values of the roles registered on it.
type Axis struct {
	typ   Type
	index int
	id    string
	opts  *options.Context
	log   *zap.SugaredLogger

	cells     []DataCell
	roles     []*visrole.Role
	bound     bool
	scaleType ScaleType
	scale     Scale

	colorMemo scene.Memo[Scale]
	colors    colorMap

	// lengthRatio is FixedLength per unit of range, fixed by the
	// first scale computed with PreserveRatio.
	lengthRatio float64
}

// New returns the index'th axis of type t, taking options from src.
// The first axis of a type has ID t.String(), the second t.String()+"2"
// and so on.
func New(t Type, index int, src options.Sources, log *zap.SugaredLogger) *Axis {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	id := t.String()
	if index > 0 {
		id += strconv.Itoa(index + 1)
	}
	a := &Axis{typ: t, index: index, id: id, log: log.With("axis", id)}
	a.opts = options.NewContext(schemaOf(t), src, options.ContextOptions{
		Name:   t.String(),
		ID:     id,
		Suffix: "Axis",
		Logger: a.log,
	})
	return a
}

func (a *Axis) Type() Type                { return a.typ }
func (a *Axis) Index() int                { return a.index }
func (a *Axis) ID() string                { return a.id }
func (a *Axis) Options() *options.Context { return a.opts }
func (a *Axis) IsBound() bool             { return a.bound }
func (a *Axis) DataCells() []DataCell     { return a.cells }
func (a *Axis) Roles() []*visrole.Role    { return a.roles }
func (a *Axis) String() string            { return a.id + "Axis" }

// Option returns the resolved value of option name.
func (a *Axis) Option(name string) any { return a.opts.Option(name) }

// Role returns the first bound role.
func (a *Axis) Role() *visrole.Role {
	if len(a.roles) == 0 {
		return nil
	}
	return a.roles[0]
}

// ScaleType returns the scale type fixed by Bind.
func (a *Axis) ScaleType() ScaleType { return a.scaleType }

// RegisterDataCell adds a data cell. Cells must be registered before
// Bind.
func (a *Axis) RegisterDataCell(c DataCell) {
	if a.bound {
		panic(fmt.Sprintf("%s: data cell registered after bind", a))
	}
	a.cells = append(a.cells, c)
}

// Bind validates the registered roles and fixes the scale type. Cells
// of unbound roles are ignored; an axis without bound roles stays
// unbound.
func (a *Axis) Bind() error {
	if a.bound {
		return fmt.Errorf("%w: %s is already bound", cdo.ErrOperationInvalid, a)
	}
	var roles []*visrole.Role
	for _, c := range a.cells {
		if c.Role != nil && c.Role.IsBound() {
			roles = append(roles, c.Role)
		}
	}
	if len(roles) == 0 {
		return nil
	}
	st := scaleTypeOf(roles[0])
	switch st {
	case Discrete:
		id := roles[0].Grouping().ID()
		for _, r := range roles[1:] {
			if g := r.Grouping(); !g.IsDiscrete() || g.ID() != id {
				return fmt.Errorf("%w: %s: role %q grouping %q is not %q",
					cdo.ErrOperationInvalid, a, r.Name(), g.ID(), id)
			}
		}
	default:
		if t := roles[0].Grouping().FirstDimensionType(); !t.IsComparable() {
			return fmt.Errorf("%w: %s: dimension %q is not comparable",
				cdo.ErrOperationInvalid, a, t.Name())
		}
		for _, r := range roles[1:] {
			if rt := scaleTypeOf(r); rt != st {
				return fmt.Errorf("%w: %s: role %q has a %s scale, not %s",
					cdo.ErrOperationInvalid, a, r.Name(), rt, st)
			}
		}
	}
	a.roles = roles
	a.scaleType = st
	a.bound = true
	a.colorMemo.Invalidate()
	a.log.Debugw("axis bound", "desc", a.describe())
	return nil
}

func scaleTypeOf(r *visrole.Role) ScaleType {
	g := r.Grouping()
	switch {
	case g.IsDiscrete():
		return Discrete
	case g.FirstDimensionType().ValueType() == cdo.Date:
		return Timeseries
	}
	return Continuous
}

// Scale returns the last computed scale, or nil.
func (a *Axis) Scale() Scale { return a.scale }

// ComputeScale computes the axis scale over the visible datums of
// data, mapping to the range [lo, hi]. Color axes ignore the range.
func (a *Axis) ComputeScale(data *cdo.Data, lo, hi float64) (Scale, error) {
	if !a.bound {
		return nil, fmt.Errorf("%w: %s is not bound", cdo.ErrOperationInvalid, a)
	}
	a.colorMemo.Invalidate()
	var s Scale
	switch a.scaleType {
	case Discrete:
		keys, labels := a.discreteDomain(data)
		if a.typ == Color {
			s = a.newDiscreteColorScale(keys)
		} else {
			s = newDiscreteScale(keys, labels, lo, hi, a.opts.String("DomainAlign"))
		}
	default:
		min, max, ok := a.continuousDomain(data)
		if a.typ == Color {
			s = a.newContinuousColorScale(min, max, ok)
			break
		}
		lo, hi = a.offsetRange(lo, hi)
		if a.scaleType == Timeseries {
			s = a.newTimeScale(min, max, ok, lo, hi)
		} else {
			s = a.newLinearScale(min, max, ok, lo, hi)
		}
	}
	a.scale = s
	return s, nil
}

// cellData returns the datums of cell c.
func cellData(data *cdo.Data, c DataCell) *cdo.Data {
	if c.DataPart == "" {
		return data
	}
	return data.PartData(c.DataPart)
}

func (a *Axis) discreteDomain(data *cdo.Data) (keys, labels []string) {
	seen := make(map[string]bool)
	for _, c := range a.cells {
		if c.Role == nil || !c.Role.IsBound() {
			continue
		}
		flat := c.Role.Flatten(cellData(data, c), cdo.GroupOptions{Visible: cdo.Bool(true)})
		for _, leaf := range flat.Children() {
			if seen[leaf.Key()] {
				continue
			}
			seen[leaf.Key()] = true
			keys = append(keys, leaf.Key())
			labels = append(labels, leaf.Label())
		}
	}
	return keys, labels
}

func (a *Axis) continuousDomain(data *cdo.Data) (min, max float64, ok bool) {
	for _, c := range a.cells {
		if c.Role == nil || !c.Role.IsBound() {
			continue
		}
		d := cellData(data, c)
		for _, name := range c.Role.DimensionNames() {
			dim := d.Dimension(name)
			lo, lok := dim.Min(cdo.AtomsOptions{Visible: cdo.Bool(true)})
			hi, hok := dim.Max(cdo.AtomsOptions{Visible: cdo.Bool(true)})
			if !lok || !hok {
				continue
			}
			l, _ := cdo.ToNumber(lo.Value)
			h, _ := cdo.ToNumber(hi.Value)
			if !ok {
				min, max, ok = l, h, true
				continue
			}
			min = math.Min(min, l)
			max = math.Max(max, h)
		}
	}
	return min, max, ok
}

// SupportsOptions reports whether the axis defines all named options.
func (a *Axis) SupportsOptions(names ...string) bool {
	for _, n := range names {
		if !a.opts.Has(n) {
			return false
		}
	}
	return true
}

// IsBoundToDimension reports whether a role of the axis is bound to
// dimension name.
func (a *Axis) IsBoundToDimension(name string) bool {
	for _, r := range a.roles {
		for _, n := range r.DimensionNames() {
			if n == name {
				return true
			}
		}
	}
	return false
}

func (a *Axis) describe() string {
	var names []string
	for _, r := range a.roles {
		names = append(names, r.Name())
	}
	return fmt.Sprintf("%s[%s] roles=%s", a, a.scaleType, strings.Join(names, ","))
}
