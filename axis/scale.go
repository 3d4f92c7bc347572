// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axis

import (
	"math"
	"time"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-moremath/scale"

	"github.com/webdetails/ccc-sub011/cdo"
	"github.com/webdetails/ccc-sub011/scene"
)

// A Scale maps domain values to range values.
//
// Discrete scales accept atom keys, *cdo.Atom and *scene.Var (by key).
// Continuous scales accept numbers, times, *cdo.Atom and *scene.Var
// (by value). Map returns nil for null inputs.
type Scale interface {
	Type() ScaleType
	Map(v any) any
	Domain() []any
	Range() []any
}

// A Ticker is a scale that can produce tick marks.
type Ticker interface {
	// Ticks returns at most max major ticks, in domain values, and
	// their labels.
	Ticks(max int) (ticks []any, labels []string)
}

func keyOf(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case *cdo.Atom:
		return v.Key, !v.IsNull()
	case *scene.Var:
		return v.Key, !v.IsNull()
	}
	return "", false
}

func numberOf(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case *cdo.Atom:
		v = x.Value
	case *scene.Var:
		if x.IsNull() {
			return 0, false
		}
		v = x.Value
	}
	return cdo.ToNumber(v)
}

// discreteScale places the domain keys in equal bands of the range.
type discreteScale struct {
	keys   []string
	labels []string
	pos    map[string]int
	band   float64
	align  string
	lo, hi float64

	// ord maps band positions to band centers. Positions are used
	// as its domain since it sorts its domain values.
	ord gg.Scaler
}

func newDiscreteScale(keys, labels []string, lo, hi float64, align string) *discreteScale {
	s := &discreteScale{keys: keys, labels: labels, pos: make(map[string]int, len(keys)), align: align, lo: lo, hi: hi}
	positions := make([]int, len(keys))
	for i, k := range keys {
		s.pos[k] = i
		positions[i] = i
	}
	s.ord = gg.NewOrdinalScale()
	s.ord.ExpandDomain(positions)
	s.ord.Ranger(gg.NewFloatRanger(lo, hi))
	if len(keys) > 0 {
		s.band = (hi - lo) / float64(len(keys))
	}
	return s
}

func (s *discreteScale) Type() ScaleType { return Discrete }

func (s *discreteScale) Map(v any) any {
	k, ok := keyOf(v)
	if !ok {
		return nil
	}
	i, ok := s.pos[k]
	if !ok {
		return nil
	}
	center := s.ord.Map(i).(float64)
	switch s.align {
	case "left":
		return center - s.band/2
	case "right":
		return center + s.band/2
	}
	return center
}

// Band returns the width of one band.
func (s *discreteScale) Band() float64 { return s.band }

func (s *discreteScale) Domain() []any {
	out := make([]any, len(s.keys))
	for i, k := range s.keys {
		out[i] = k
	}
	return out
}

func (s *discreteScale) Range() []any { return []any{s.lo, s.hi} }

func (s *discreteScale) Ticks(max int) ([]any, []string) {
	return s.Domain(), s.labels
}

// linearScale is a continuous scale over a go-gg linear scaler.
type linearScale struct {
	gs       gg.ContinuousScaler
	min, max float64
	lo, hi   float64
}

// domain applies the fixed bounds of the axis options to the data
// bounds. width is the length of the range the domain maps to.
func (a *Axis) domain(min, max float64, ok bool, width float64) (float64, float64) {
	if !ok {
		min, max = 0, 1
	}
	if a.opts.Has("OriginIsZero") && a.opts.Bool("OriginIsZero") && a.scaleType == Continuous {
		min, max = math.Min(min, 0), math.Max(max, 0)
	}
	fmin, hasMin := a.opts.Float("FixedMin")
	if hasMin {
		min = fmin
	}
	if f, ok := a.opts.Float("FixedMax"); ok {
		max = f
	}
	// A fixed length trails the maximum.
	if a.opts.Has("FixedLength") && !hasMin {
		if l, ok := a.opts.Float("FixedLength"); ok && l > 0 {
			min = max - a.preservedLength(l, width)
		}
	}
	if min > max {
		min, max = max, min
	}
	return min, max
}

// preservedLength returns the fixed length l to use for a range of
// the given width. With PreserveRatio, the length per unit of range
// seen by the first scale is kept, so a wider plot shows a longer
// domain.
func (a *Axis) preservedLength(l, width float64) float64 {
	if !a.opts.Bool("PreserveRatio") || width <= 0 {
		return l
	}
	if a.lengthRatio == 0 {
		a.lengthRatio = l / width
		return l
	}
	return a.lengthRatio * width
}

// offsetRange pads both ends of [lo, hi] by the Offset option, a
// fraction of the range length.
func (a *Axis) offsetRange(lo, hi float64) (float64, float64) {
	if !a.opts.Has("Offset") {
		return lo, hi
	}
	off, ok := a.opts.Float("Offset")
	if !ok || off <= 0 {
		return lo, hi
	}
	off = math.Min(off, 0.49)
	pad := off * (hi - lo)
	return lo + pad, hi - pad
}

// TickCount returns the DesiredTickCount option, or 10.
func (a *Axis) TickCount() int {
	if !a.opts.Has("DesiredTickCount") {
		return 10
	}
	n, ok := a.opts.Float("DesiredTickCount")
	if !ok || n < 1 {
		return 10
	}
	return int(n)
}

// Ticks returns the major ticks of the last computed scale, at most
// TickCount of them for continuous scales. It returns nil if there is
// no scale or the scale has no ticks.
func (a *Axis) Ticks() ([]any, []string) {
	t, ok := a.scale.(Ticker)
	if !ok {
		return nil, nil
	}
	return t.Ticks(a.TickCount())
}

func (a *Axis) newLinearScale(min, max float64, ok bool, lo, hi float64) *linearScale {
	min, max = a.domain(min, max, ok, math.Abs(hi-lo))
	gs := gg.NewLinearScaler()
	gs.ExpandDomain([]float64{min, max})
	gs.SetMin(min).SetMax(max)
	gs.Ranger(gg.NewFloatRanger(lo, hi))
	return &linearScale{gs: gs, min: min, max: max, lo: lo, hi: hi}
}

func (s *linearScale) Type() ScaleType { return Continuous }

func (s *linearScale) Map(v any) any {
	f, ok := numberOf(v)
	if !ok {
		return nil
	}
	return s.gs.Map(f)
}

func (s *linearScale) Domain() []any { return []any{s.min, s.max} }
func (s *linearScale) Range() []any  { return []any{s.lo, s.hi} }

func (s *linearScale) Ticks(max int) ([]any, []string) {
	major, _, labels := s.gs.Ticks(max, nil)
	fs := major.([]float64)
	ticks := make([]any, len(fs))
	for i, f := range fs {
		ticks[i] = f
		labels[i] = cdo.FormatNumber(f)
	}
	return ticks, labels
}

// timeScale is a continuous scale of dates, in milliseconds since the
// epoch.
type timeScale struct {
	lin    scale.Linear
	lo, hi float64
}

func (a *Axis) newTimeScale(min, max float64, ok bool, lo, hi float64) *timeScale {
	min, max = a.domain(min, max, ok, math.Abs(hi-lo))
	if min == max {
		max = min + float64(24*time.Hour/time.Millisecond)
	}
	return &timeScale{lin: scale.Linear{Min: min, Max: max}, lo: lo, hi: hi}
}

func (s *timeScale) Type() ScaleType { return Timeseries }

func (s *timeScale) Map(v any) any {
	f, ok := numberOf(v)
	if !ok {
		return nil
	}
	return s.lo + s.lin.Map(f)*(s.hi-s.lo)
}

func (s *timeScale) Domain() []any {
	return []any{time.UnixMilli(int64(s.lin.Min)).UTC(), time.UnixMilli(int64(s.lin.Max)).UTC()}
}

func (s *timeScale) Range() []any { return []any{s.lo, s.hi} }

func (s *timeScale) Ticks(max int) ([]any, []string) {
	major, _ := s.lin.Ticks(scale.TickOptions{Max: max})
	ticks := make([]any, len(major))
	labels := make([]string, len(major))
	for i, ms := range major {
		t := time.UnixMilli(int64(ms)).UTC()
		ticks[i] = t
		labels[i] = t.Format(time.DateOnly)
	}
	return ticks, labels
}
