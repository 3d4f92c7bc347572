// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"math"

	"github.com/webdetails/ccc-sub011/panel"
	"github.com/webdetails/ccc-sub011/scene"
)

// A Layout divides the chart area between the title, the legend and
// the plot.
type Layout struct {
	Width, Height float64

	Title *panel.Title

	// Legend is nil if the legend is hidden.
	Legend *panel.Legend

	PlotWidth, PlotHeight float64
}

// Layout returns the layout of the chart, computing it if needed.
// Layouts are recomputed after every load. If PreserveLayout is set,
// the plot area of the first layout is kept.
func (c *Chart) Layout() *Layout {
	if c.layout == nil {
		c.layout = c.computeLayout()
	}
	return c.layout
}

func (c *Chart) computeLayout() *Layout {
	l := &Layout{Width: c.width, Height: c.height}
	pw, ph := c.width, c.height

	ts := c.spec.Title
	along := c.width
	if c.titlePos.IsVertical() {
		along = c.height
	}
	l.Title = panel.NewTitle(panel.TitleOptions{
		Text:     ts.Text,
		Position: c.titlePos,
		Align:    ts.Align,
		Padding:  ts.Padding,
	}, along)
	if c.titlePos.IsVertical() {
		pw -= l.Title.Width
	} else {
		ph -= l.Title.Height
	}

	if c.data != nil && (c.spec.Legend.Visible == nil || *c.spec.Legend.Visible) {
		l.Legend = panel.NewLegend(c.data, c.axes, panel.LegendOptions{
			ClickMode:    c.legendClickMode,
			MaxTextWidth: c.spec.Legend.MaxTextWidth,
			TextMemo:     &c.textMemo,
		})
		if c.legendPos.IsVertical() {
			// One item per row.
			l.Legend.Layout(1)
			pw -= l.Legend.Width
		} else {
			l.Legend.Layout(pw)
			ph -= l.Legend.Height
		}
	}

	if c.PreserveLayout() && c.hasPlotArea {
		pw, ph = c.plotArea[0], c.plotArea[1]
	} else if c.data != nil {
		c.plotArea, c.hasPlotArea = [2]float64{pw, ph}, true
	}
	l.PlotWidth, l.PlotHeight = math.Max(pw, 0), math.Max(ph, 0)
	return l
}

// LegendClick applies the legend click mode to item and reports
// whether any datum changed state.
func (c *Chart) LegendClick(item *panel.LegendItem) bool {
	if c.layout == nil || c.layout.Legend == nil {
		return false
	}
	changed := c.layout.Legend.Click(item)
	if changed && c.legendClickMode == scene.ClickToggleVisible {
		c.visibilityChanged()
	}
	return changed
}
