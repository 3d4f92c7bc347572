// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/webdetails/ccc-sub011/cdo"
	"github.com/webdetails/ccc-sub011/trend"
)

// buildTrends replaces the trend datums with ones derived from the
// visible main datums: for each series, the trend of the value over
// the categories. Discrete categories are fitted by position.
func (c *Chart) buildTrends() error {
	if old := c.data.Query(cdo.DatumsOptions{Where: (*cdo.Datum).IsTrend}); len(old) > 0 {
		c.data.Remove(old)
	}
	if c.trendType == nil {
		return nil
	}
	series, category, value := c.roleByName[RoleSeries], c.roleByName[RoleCategory], c.roleByName[RoleValue]
	if !category.IsBound() {
		if c.spec.Debug >= 2 {
			c.log.Warnw("trend needs a bound category role", "trend", c.trendType.Name)
		}
		return nil
	}

	visible := cdo.GroupOptions{Visible: cdo.Bool(true)}
	main := c.data.PartData(MainPart)
	groups := []*cdo.Data{main}
	if series.IsBound() {
		groups = series.Flatten(main, visible).Children()
	}
	keyDims := slices.Concat(series.DimensionNames(), category.DimensionNames())
	valueDim := value.DimensionNames()[0]
	opts := trend.Options{PeriodCount: c.spec.Trend.PeriodCount}

	var datums []*cdo.Datum
	for _, g := range groups {
		cats := category.Flatten(g, visible).Children()
		points := make([]trend.Point, len(cats))
		for i, cg := range cats {
			points[i] = trend.Point{X: float64(i), Y: math.NaN()}
			if !category.IsDiscrete() {
				if x, ok := cdo.ToNumber(cg.Value()); ok {
					points[i].X = x
				}
			}
			if y, ok := value.NumberValueOf(cg); ok {
				points[i].Y = y
			}
		}
		ys, err := c.trendType.Model(points, opts)
		if errors.Is(err, trend.ErrTooFewPoints) {
			if c.spec.Debug >= 2 {
				c.log.Warnw("series has too few points for a trend", "series", g.AbsLabel(), "trend", c.trendType.Name)
			}
			continue
		} else if err != nil {
			return fmt.Errorf("%s trend: %w", c.trendType.Name, err)
		}
		for i, cg := range cats {
			if math.IsNaN(ys[i]) {
				continue
			}
			first := cg.FirstDatum()
			values := map[string]any{valueDim: ys[i], cdo.PartDimension: TrendPart}
			for _, name := range keyDims {
				values[name] = first.Atom(name).Value
			}
			if d := value.Discriminator(); d != "" {
				values[d] = valueDim
			}
			datums = append(datums, cdo.NewDatum(c.data, values, cdo.DatumOptions{Trend: c.trendType.Name}))
		}
	}
	c.data.Load(datums, cdo.LoadOptions{Additive: true})
	return nil
}

// TrendLabel returns the label of the trend series, or "" if the
// chart has no trend.
func (c *Chart) TrendLabel() string {
	switch {
	case c.trendType == nil:
		return ""
	case c.spec.Trend.Label != "":
		return c.spec.Trend.Label
	}
	return c.trendType.Label
}
