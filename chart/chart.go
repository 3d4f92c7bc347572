// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart turns relational data into the scenes of a
// categorical chart.
//
// A Chart is configured from a Spec. The first Load configures the
// chart's complex type from the source metadata and binds its visual
// roles. Every load then runs the data pipeline: translate the rows,
// load them, drop the datums behind the sliding window, derive trend
// datums, bind the axes (once), and compute the axis scales.
package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webdetails/ccc-sub011/axis"
	"github.com/webdetails/ccc-sub011/cdo"
	"github.com/webdetails/ccc-sub011/options"
	"github.com/webdetails/ccc-sub011/panel"
	"github.com/webdetails/ccc-sub011/scene"
	"github.com/webdetails/ccc-sub011/slidingwindow"
	"github.com/webdetails/ccc-sub011/trend"
	"github.com/webdetails/ccc-sub011/visrole"
)

// ErrNotLoaded is returned by operations that need data before any
// data was loaded.
var ErrNotLoaded = errors.New("chart has no data")

// Visual role names.
const (
	RoleSeries   = "series"
	RoleCategory = "category"
	RoleValue    = "value"
	RoleColor    = "color"
	RoleSize     = "size"
	RoleDataPart = "dataPart"
)

// Data parts.
const (
	MainPart  = "0"
	TrendPart = "trend"
)

var roleDefs = []struct {
	name string
	opts visrole.Options
}{
	{RoleSeries, visrole.Options{DefaultDimension: "series*", RequireIsDiscrete: cdo.Bool(true)}},
	{RoleCategory, visrole.Options{DefaultDimension: "category*"}},
	{RoleValue, visrole.Options{
		IsMeasure:         true,
		IsRequired:        true,
		IsPercent:         true,
		DefaultDimension:  "value*",
		RequireIsDiscrete: cdo.Bool(false),
	}},
	{RoleColor, visrole.Options{DefaultSourceRole: RoleSeries}},
	{RoleSize, visrole.Options{DefaultDimension: "size", RequireSingleDimension: true, RequireIsDiscrete: cdo.Bool(false)}},
	{RoleDataPart, visrole.Options{DefaultDimension: cdo.PartDimension, RequireSingleDimension: true, RequireIsDiscrete: cdo.Bool(true)}},
}

var axisDefs = []struct {
	typ  axis.Type
	role string
}{
	{axis.Base, RoleCategory},
	{axis.Ortho, RoleValue},
	{axis.Color, RoleColor},
	{axis.Size, RoleSize},
}

var chartSchema = options.NewSchema(
	options.Def{Name: "PreserveLayout", Default: false, Cast: options.CastBool},
)

const (
	defaultWidth  = 400
	defaultHeight = 300

	sizeMin, sizeMax = 2, 20
)

// An Option configures a Chart.
type Option func(*Chart)

// WithLogger sets the chart's logger. The default discards logs.
func WithLogger(l *zap.Logger) Option {
	return func(c *Chart) { c.log = l.Sugar() }
}

// WithTrends sets the registry trend types are looked up in. The
// default is a registry of the built-in types.
func WithTrends(r *trend.Registry) Option {
	return func(c *Chart) { c.trends = r }
}

// A Chart is a configured chart and its data.
type Chart struct {
	id     uuid.UUID
	spec   *Spec
	log    *zap.SugaredLogger
	trends *trend.Registry
	src    options.Sources
	opts   *options.Context

	width, height   float64
	clickMode       scene.ClickMode
	legendClickMode scene.ClickMode
	click           scene.ClickBehavior
	titlePos        panel.Position
	legendPos       panel.Position
	trendType       *trend.Type

	typ        *cdo.ComplexType
	trans      *cdo.Translation
	data       *cdo.Data
	roles      []*visrole.Role
	roleByName map[string]*visrole.Role
	axes       []*axis.Axis
	window     *slidingwindow.Window
	axesBound  bool

	textMemo    scene.Memo[panel.TextFit]
	layout      *Layout
	plotArea    [2]float64
	hasPlotArea bool
	scenes      map[string]*scene.Scene
}

// New returns an unloaded chart configured by spec.
func New(spec *Spec, opts ...Option) (*Chart, error) {
	c := &Chart{
		id:     uuid.New(),
		spec:   spec,
		log:    zap.NewNop().Sugar(),
		width:  spec.Width,
		height: spec.Height,
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With("chart", c.id.String())
	if c.trends == nil {
		c.trends = trend.NewRegistry()
	}
	if c.width <= 0 {
		c.width = defaultWidth
	}
	if c.height <= 0 {
		c.height = defaultHeight
	}

	var err error
	if c.clickMode, err = parseClickMode(spec.ClickMode, scene.ClickToggleSelected); err != nil {
		return nil, err
	}
	if c.legendClickMode, err = parseClickMode(spec.Legend.ClickMode, scene.ClickToggleVisible); err != nil {
		return nil, err
	}
	c.click = scene.NewClickBehavior(c.clickMode)
	if c.titlePos, err = panel.ParsePosition(spec.Title.Position); err != nil {
		return nil, fmt.Errorf("%w: title: %v", cdo.ErrArgumentInvalid, err)
	}
	c.legendPos = panel.Bottom
	if spec.Legend.Position != "" {
		if c.legendPos, err = panel.ParsePosition(spec.Legend.Position); err != nil {
			return nil, fmt.Errorf("%w: legend: %v", cdo.ErrArgumentInvalid, err)
		}
	}
	if ts := spec.Trend; ts != nil {
		t, ok := c.trends.Lookup(ts.Type)
		if !ok {
			return nil, fmt.Errorf("%w: unknown trend type %q", cdo.ErrArgumentInvalid, ts.Type)
		}
		c.trendType = &t
	}

	c.src = options.Sources{Chart: spec.Options, V1: spec.V1Options}
	c.opts = options.NewContext(chartSchema, c.src, options.ContextOptions{Name: "chart", Logger: c.log})
	c.roleByName = make(map[string]*visrole.Role)
	for _, rd := range roleDefs {
		r := visrole.New(rd.name, rd.opts)
		c.roles = append(c.roles, r)
		c.roleByName[rd.name] = r
	}
	for name := range spec.Roles {
		if _, ok := c.roleByName[name]; !ok {
			return nil, fmt.Errorf("%w: unknown visual role %q", cdo.ErrArgumentInvalid, name)
		}
	}
	return c, nil
}

func parseClickMode(s string, def scene.ClickMode) (scene.ClickMode, error) {
	if s == "" {
		return def, nil
	}
	m, err := scene.ParseClickMode(s)
	if err != nil {
		return def, fmt.Errorf("%w: %v", cdo.ErrArgumentInvalid, err)
	}
	return m, nil
}

func (c *Chart) ID() uuid.UUID                 { return c.id }
func (c *Chart) Spec() *Spec                   { return c.spec }
func (c *Chart) Type() *cdo.ComplexType        { return c.typ }
func (c *Chart) Data() *cdo.Data               { return c.data }
func (c *Chart) Axes() []*axis.Axis            { return c.axes }
func (c *Chart) Roles() []*visrole.Role        { return c.roles }
func (c *Chart) Window() *slidingwindow.Window { return c.window }

// Role returns the visual role named name.
func (c *Chart) Role(name string) (*visrole.Role, bool) {
	r, ok := c.roleByName[name]
	return r, ok
}

// Axis returns the axis with the given id, such as "ortho".
func (c *Chart) Axis(id string) (*axis.Axis, bool) {
	for _, a := range c.axes {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}

// BaseAxis returns the base axis, or nil before the first load.
func (c *Chart) BaseAxis() *axis.Axis {
	a, _ := c.Axis(axis.Base.String())
	return a
}

// SetPreserveLayoutDefault replaces the default of the PreserveLayout
// option.
func (c *Chart) SetPreserveLayoutDefault(b bool) { c.opts.Defaults("PreserveLayout", b) }

// PreserveLayout reports whether the plot area computed by the first
// layout is kept across loads.
func (c *Chart) PreserveLayout() bool { return c.opts.Bool("PreserveLayout") }

// Load replaces the chart's data with the rows of src. The first load
// configures the chart from src's metadata.
func (c *Chart) Load(src Source) error {
	return c.load(src, false)
}

// Append adds the rows of src to the chart's data. Datums with the
// key of a loaded datum are ignored.
func (c *Chart) Append(src Source) error {
	if c.data == nil {
		return ErrNotLoaded
	}
	return c.load(src, true)
}

func (c *Chart) load(src Source, additive bool) error {
	if c.data == nil {
		if err := c.configure(src.Metadata()); err != nil {
			c.reset()
			return fmt.Errorf("configuring chart: %w", err)
		}
	}
	rows := src.Rows()
	c.data.Load(c.trans.Datums(c.data, rows), cdo.LoadOptions{Additive: additive})
	removed := 0
	if c.window != nil {
		main := c.data.Query(cdo.DatumsOptions{Where: isMain})
		removed = c.data.Remove(c.window.Select(main))
	}
	if err := c.buildTrends(); err != nil {
		return err
	}
	if !c.axesBound {
		for _, a := range c.axes {
			if err := a.Bind(); err != nil {
				return err
			}
		}
		if c.window != nil {
			c.window.InitWithAxes()
		}
		c.axesBound = true
	}
	c.invalidate()
	if err := c.refresh(); err != nil {
		return err
	}
	c.log.Debugw("data loaded",
		"rows", len(rows), "datums", c.data.Count(), "windowed", removed, "additive", additive)
	return nil
}

func isMain(dt *cdo.Datum) bool { return !dt.IsTrend() }

func (c *Chart) configure(meta cdo.Metadata) error {
	p := cdo.NewComplexTypeProject(c.spec.Dimensions, c.spec.DimensionGroups)
	c.trans = cdo.NewTranslation(meta, cdo.TranslationOptions{
		Readers:      c.spec.Readers,
		MeasuresRole: RoleValue,
	})
	if err := c.trans.Configure(p); err != nil {
		return err
	}
	if c.spec.Trend != nil && !p.HasDimension(cdo.PartDimension) {
		p.SetDimension(cdo.PartDimension, cdo.DimensionSpec{ValueType: "string", IsHidden: true})
	}
	typ, err := p.ConfigureComplexType()
	if err != nil {
		return err
	}
	c.typ = typ
	c.data = cdo.New(typ, cdo.Options{
		KeySep:   c.spec.KeySep,
		LabelSep: c.spec.LabelSep,
		Logger:   c.log,
		Debug:    c.spec.Debug,
	})
	if err := c.bindRoles(); err != nil {
		return err
	}
	for _, d := range axisDefs {
		a := axis.New(d.typ, 0, c.src, c.log)
		a.RegisterDataCell(axis.DataCell{Role: c.roleByName[d.role]})
		c.axes = append(c.axes, a)
	}
	if ws := c.spec.SlidingWindow; ws != nil {
		w, err := slidingwindow.New(c, slidingwindow.Options{
			Length:    ws.Length,
			Dimension: ws.Dimension,
			Logger:    c.log,
			Debug:     c.spec.Debug,
		})
		if err != nil {
			return err
		}
		c.window = w
	}
	c.log.Debugw("chart configured", "dimensions", typ.DimensionNames(), "readers", c.trans.Readers())
	return nil
}

// bindRoles binds the roles named by the spec, then the others to
// their default dimensions or source roles. A role mapped to "" is
// left unbound.
func (c *Chart) bindRoles() error {
	for _, r := range c.roles {
		text, explicit := c.spec.Roles[r.Name()]
		switch {
		case explicit && strings.TrimSpace(text) != "":
			if err := r.BindText(text, c.typ); err != nil {
				return err
			}
		case !explicit:
			if g, ok := r.DefaultGrouping(c.typ); ok {
				if err := r.Bind(g); err != nil {
					return err
				}
			}
		}
	}
	for _, r := range c.roles {
		_, explicit := c.spec.Roles[r.Name()]
		if src := r.Options().DefaultSourceRole; src != "" && !explicit && !r.IsBound() {
			r.SetSourceRole(c.roleByName[src])
		}
	}
	for _, r := range c.roles {
		if r.Options().IsRequired && !r.IsBound() {
			return fmt.Errorf("%w: %s", visrole.ErrUnbound, r)
		}
	}
	if d := c.trans.DiscriminatorDimension(); d != "" {
		c.roleByName[RoleValue].SetDiscriminator(d)
	}
	return nil
}

func (c *Chart) reset() {
	if c.data != nil && !c.data.IsDisposed() {
		c.data.Dispose()
	}
	c.typ, c.trans, c.data = nil, nil, nil
	c.axes, c.window, c.axesBound = nil, nil, false
	for _, r := range c.roles {
		r.Unbind()
	}
}

// invalidate drops everything derived from the datums of the chart.
func (c *Chart) invalidate() {
	c.textMemo.Invalidate()
	c.disposeScenes()
	if c.layout != nil && c.layout.Legend != nil {
		c.layout.Legend.Dispose()
	}
	c.layout = nil
}

func (c *Chart) disposeScenes() {
	for _, s := range c.scenes {
		s.Dispose()
	}
	c.scenes = nil
}

// refresh recomputes the axis scales over the visible datums.
func (c *Chart) refresh() error {
	for _, a := range c.axes {
		if !a.IsBound() || a.Type().IsCartesian() {
			continue
		}
		lo, hi := 0.0, 1.0
		if a.Type() == axis.Size {
			lo, hi = sizeMin, sizeMax
		}
		if _, err := a.ComputeScale(c.data, lo, hi); err != nil {
			return err
		}
	}
	l := c.Layout()
	for _, a := range c.axes {
		if !a.IsBound() || !a.Type().IsCartesian() {
			continue
		}
		hi := l.PlotWidth
		if a.Type() == axis.Ortho {
			hi = l.PlotHeight
		}
		if _, err := a.ComputeScale(c.data, 0, hi); err != nil {
			return err
		}
	}
	c.disposeScenes()
	return nil
}

// Dispose releases the chart's scenes and data.
func (c *Chart) Dispose() {
	c.invalidate()
	if c.data != nil {
		c.data.Dispose()
	}
}
