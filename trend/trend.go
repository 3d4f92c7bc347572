// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trend implements the trend models that derive trend series
// from a chart's data.
package trend

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/aclements/go-moremath/fit"
	"github.com/aclements/go-moremath/stats"

	"github.com/webdetails/ccc-sub011/cdo"
)

// ErrTooFewPoints is returned by models that cannot fit the points
// they are given.
var ErrTooFewPoints = errors.New("too few points")

// A Point is one observation of a series. Y is NaN if the observation
// is null.
type Point struct {
	X, Y float64
}

// Options parameterizes a model.
type Options struct {
	// PeriodCount is the number of trailing points averaged by the
	// moving average models. Zero means 3.
	PeriodCount int
}

func (o Options) periodCount() int {
	if o.PeriodCount <= 0 {
		return 3
	}
	return o.PeriodCount
}

// A Model returns the trend value at the X of each point, in order.
// Null observations are not fitted but still get a trend value.
type Model func(points []Point, opts Options) ([]float64, error)

// A Type is a named trend model.
type Type struct {
	Name  string
	Label string
	Model Model
}

// A Registry holds the trend types available to charts. It is safe
// for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewRegistry returns a registry holding the built-in types: "linear",
// "moving-average" and "weighted-moving-average".
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]Type)}
	for _, t := range []Type{
		{Name: "linear", Label: "Linear trend", Model: Linear},
		{Name: "moving-average", Label: "Moving average", Model: MovingAverage},
		{Name: "weighted-moving-average", Label: "Weighted moving average", Model: WeightedMovingAverage},
	} {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds t. It fails if t is incomplete or its name is taken.
func (r *Registry) Register(t Type) error {
	if t.Name == "" || t.Model == nil {
		return fmt.Errorf("%w: trend type needs a name and a model", cdo.ErrArgumentInvalid)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[t.Name]; ok {
		return fmt.Errorf("%w: trend type %q already registered", cdo.ErrOperationInvalid, t.Name)
	}
	if t.Label == "" {
		t.Label = cdo.DefaultLabel(t.Name)
	}
	r.types[t.Name] = t
	return nil
}

// Lookup returns the type named name.
func (r *Registry) Lookup(name string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Linear fits a least squares line through the non-null points.
func Linear(points []Point, _ Options) ([]float64, error) {
	var xs, ys []float64
	for _, p := range points {
		if !math.IsNaN(p.Y) {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("linear trend: %w", ErrTooFewPoints)
	}
	r := fit.PolynomialRegression(xs, ys, nil, 1)
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = r.F(p.X)
	}
	return out, nil
}

// MovingAverage averages the last PeriodCount non-null points up to
// each point.
func MovingAverage(points []Point, opts Options) ([]float64, error) {
	return average(points, opts, false)
}

// WeightedMovingAverage is like MovingAverage, but weighs the i'th
// most recent point by PeriodCount-i.
func WeightedMovingAverage(points []Point, opts Options) ([]float64, error) {
	return average(points, opts, true)
}

func average(points []Point, opts Options, weighted bool) ([]float64, error) {
	n := opts.periodCount()
	var window []float64
	out := make([]float64, len(points))
	for i, p := range points {
		if !math.IsNaN(p.Y) {
			window = append(window, p.Y)
			if len(window) > n {
				window = window[1:]
			}
		}
		switch {
		case len(window) == 0:
			out[i] = math.NaN()
		case weighted:
			ws := make([]float64, len(window))
			for j := range ws {
				ws[j] = float64(j + 1)
			}
			out[i] = stats.Sample{Xs: window, Weights: ws}.Mean()
		default:
			out[i] = stats.Mean(window)
		}
	}
	if len(window) == 0 {
		return nil, fmt.Errorf("moving average: %w", ErrTooFewPoints)
	}
	return out, nil
}
