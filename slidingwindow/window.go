// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slidingwindow keeps a trailing window of datums along one
// dimension of a chart's data.
package slidingwindow

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/webdetails/ccc-sub011/axis"
	"github.com/webdetails/ccc-sub011/cdo"
	"github.com/webdetails/ccc-sub011/visrole"
)

// A Host is the chart a window belongs to.
type Host interface {
	Type() *cdo.ComplexType

	// BaseAxis returns the first base axis, or nil.
	BaseAxis() *axis.Axis

	Axes() []*axis.Axis

	// Roles returns the chart's visual roles.
	Roles() []*visrole.Role

	SetPreserveLayoutDefault(bool)
}

// A SelectFunc returns the datums to remove from the window.
type SelectFunc func(datums []*cdo.Datum) []*cdo.Datum

// Options configures a Window.
type Options struct {
	// Length is the window length: a number, or a distance such
	// as "1y", "3M", "2w", "5d", "12h", "30m", "10s" or "250ms".
	Length any

	// Dimension names the window dimension. If empty or invalid,
	// it is the base axis dimension or the first dimension.
	Dimension string

	// Select, if non-nil, replaces the default selection. It is
	// given the default selection to delegate to.
	Select func(datums []*cdo.Datum, base SelectFunc) []*cdo.Datum

	Logger *zap.SugaredLogger
	Debug  int
}

// A Window removes the datums that fall behind the most recent datum
// by more than its length.
type Window struct {
	host      Host
	length    float64
	dimension string
	sel       SelectFunc
	log       *zap.SugaredLogger
}

// New returns the window of host. It fails if the length is invalid.
func New(host Host, opts Options) (*Window, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	length, err := ParseLength(opts.Length)
	if err != nil {
		return nil, err
	}
	w := &Window{host: host, length: length, log: opts.Logger}
	w.dimension = w.resolveDimension(opts.Dimension, opts.Debug)
	w.sel = w.defaultSelect
	if opts.Select != nil {
		w.SetSelect(opts.Select)
	}
	return w, nil
}

func (w *Window) Length() float64   { return w.length }
func (w *Window) Dimension() string { return w.dimension }

func (w *Window) resolveDimension(name string, debug int) string {
	typ := w.host.Type()
	if name != "" {
		if _, ok := typ.Dimension(name); ok {
			return name
		}
		if debug >= 2 {
			w.log.Warnw("invalid sliding window dimension", "dimension", name)
		}
	}
	if a := w.host.BaseAxis(); a != nil {
		for _, c := range a.DataCells() {
			if c.Role != nil && c.Role.IsBound() && c.Role.Grouping().IsSingleDimension() {
				return c.Role.Grouping().FirstDimensionType().Name()
			}
		}
	}
	if ds := typ.Dimensions(); len(ds) > 0 {
		return ds[0].Name()
	}
	return ""
}

// Select returns the datums to remove.
func (w *Window) Select(datums []*cdo.Datum) []*cdo.Datum {
	return w.sel(datums)
}

// SetSelect replaces the selection with f, which is given the default
// selection to delegate to.
func (w *Window) SetSelect(f func(datums []*cdo.Datum, base SelectFunc) []*cdo.Datum) {
	base := w.defaultSelect
	w.sel = func(datums []*cdo.Datum) []*cdo.Datum { return f(datums, base) }
}

func (w *Window) defaultSelect(datums []*cdo.Datum) []*cdo.Datum {
	if len(datums) == 0 || w.dimension == "" {
		return nil
	}
	mostRecent, ok := w.mostRecent(datums[0].Owner())
	if !ok {
		return nil
	}
	var remove []*cdo.Datum
	for _, dt := range datums {
		v, ok := cdo.ToNumber(dt.Atom(w.dimension).Value)
		if !ok {
			remove = append(remove, dt)
			continue
		}
		if d := mostRecent - v; d > 0 && d > w.length {
			remove = append(remove, dt)
		}
	}
	return remove
}

// mostRecent returns the largest value interned in the window
// dimension.
func (w *Window) mostRecent(data *cdo.Data) (float64, bool) {
	max, ok := math.Inf(-1), false
	for _, a := range data.Dimension(w.dimension).Atoms(cdo.AtomsOptions{}) {
		if v, vok := cdo.ToNumber(a.Value); vok && v > max {
			max, ok = v, true
		}
	}
	return max, ok
}

// InitWithAxes applies the window's defaults to the chart once its
// axes are bound. Discrete dimensions bound to a role and without a
// configured comparer are sorted ascending. Cartesian axes of the
// window dimension get the window length as their default fixed
// length and preserve their ratio. Color axes preserve their color
// maps.
func (w *Window) InitWithAxes() {
	for _, r := range w.host.Roles() {
		g := r.Grouping()
		if g == nil {
			continue
		}
		for _, d := range g.Dimensions() {
			if d.Type.IsDiscrete() && !d.Type.IsComparerSpecified() && d.Type.Comparer() == nil {
				d.Type.SetComparer(cdo.Ascending)
			}
		}
	}
	w.host.SetPreserveLayoutDefault(true)
	for _, a := range w.host.Axes() {
		switch {
		case a.Type().IsCartesian():
			if a.IsBoundToDimension(w.dimension) && a.SupportsOptions("FixedLength", "PreserveRatio") {
				a.Options().Defaults("FixedLength", w.length)
				a.Options().Specify("PreserveRatio", true)
			}
		case a.Type() == axis.Color:
			a.Options().Defaults("PreserveMap", true)
		}
	}
}

var lengthRE = regexp.MustCompile(`^\s*([0-9]*\.?[0-9]+)\s*(ms|[yMwdhms])\s*$`)

var units = map[string]time.Duration{
	"y":  365 * 24 * time.Hour,
	"M":  30 * 24 * time.Hour,
	"w":  7 * 24 * time.Hour,
	"d":  24 * time.Hour,
	"h":  time.Hour,
	"m":  time.Minute,
	"s":  time.Second,
	"ms": time.Millisecond,
}

// ParseLength parses a window length. Numbers are used as is.
// Distances are converted to milliseconds; a year is 365 days and a
// month 30 days.
func ParseLength(v any) (float64, error) {
	switch v := v.(type) {
	case nil:
		return 0, fmt.Errorf("%w: missing sliding window length", cdo.ErrArgumentInvalid)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, nil
		}
		m := lengthRE.FindStringSubmatch(v)
		if m == nil {
			return 0, fmt.Errorf("%w: bad sliding window length %q", cdo.ErrArgumentInvalid, v)
		}
		n, _ := strconv.ParseFloat(m[1], 64)
		return n * float64(units[m[2]]/time.Millisecond), nil
	case time.Duration:
		return float64(v / time.Millisecond), nil
	}
	if f, ok := cdo.ToNumber(v); ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: bad sliding window length %v", cdo.ErrArgumentInvalid, v)
}
