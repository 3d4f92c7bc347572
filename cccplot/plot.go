// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"github.com/webdetails/ccc-sub011/chart"
)

// plot returns a line plot of the visible scenes of c: one line per
// series over the categories. Trend lines, if any, are drawn in a
// facet of their own.
func plot(c *chart.Chart) (*gg.Plot, error) {
	tab, err := c.Table()
	if err != nil {
		return nil, err
	}
	g := removeNaNs(tab, "value")
	if len(g.Tables()) == 0 || g.Table(g.Tables()[0]).Len() == 0 {
		return nil, errors.New("no values to plot")
	}

	p := gg.NewPlot(g)

	// Always show Y=0.
	p.SetScale("y", gg.NewLinearScaler().Include(0))

	if c.TrendLabel() != "" {
		p.Add(gg.FacetX{Col: "part"})
	}
	p.Add(gg.LayerLines{X: "category", Y: "value", Color: "series"})
	p.Add(gg.LayerPoints{X: "category", Y: "value", Color: "series"})
	if title := c.Spec().Title.Text; title != "" {
		p.Add(gg.Title(title))
	}
	return p, nil
}

func removeNaNs(g table.Grouping, col string) table.Grouping {
	return table.Filter(g, func(v float64) bool {
		return !math.IsNaN(v)
	}, col)
}
