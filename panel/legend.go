// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panel

import (
	"fmt"
	"image/color"
	"math"

	"github.com/webdetails/ccc-sub011/axis"
	"github.com/webdetails/ccc-sub011/cdo"
	"github.com/webdetails/ccc-sub011/scene"
	"github.com/webdetails/ccc-sub011/visrole"
)

// LegendOptions configures a Legend. Zero sizes take defaults.
type LegendOptions struct {
	MarkerSize   float64 // 15
	ItemPadding  float64 // 5
	TextMargin   float64 // 6
	MaxTextWidth float64 // unlimited

	ClickMode scene.ClickMode
	Metrics   *TextMetrics

	// TextMemo caches the fitted labels of item scenes. Owners
	// that rebuild legends pass the same memo and invalidate it
	// when the data is reloaded.
	TextMemo *scene.Memo[TextFit]
}

// TextFit is a label fitted to a maximum width.
type TextFit struct {
	Text  string
	Width float64
}

// A LegendItem is one entry of a legend, bound to an item scene.
type LegendItem struct {
	Scene *scene.Scene
	Color color.Color

	// Text is the label fitted to the maximum text width.
	Text string

	X, Y          float64
	Width, Height float64
}

// Label returns the untrimmed label of the item.
func (it *LegendItem) Label() string { return it.Scene.Var("value").Label }

// A LegendSection is one row of laid out items.
type LegendSection struct {
	Items         []*LegendItem
	Width, Height float64
}

// A Legend holds the legend scenes of a chart. The root scene has one
// group scene per discrete color axis, each with one item scene per
// distinct value of the axis' roles. Item scenes have the variables
// "value" and "color".
type Legend struct {
	root     *scene.Scene
	items    []*LegendItem
	sections []*LegendSection
	click    scene.ClickBehavior
	opts     LegendOptions

	Width, Height float64
}

// NewLegend builds the legend of data for the bound color axes among
// axes. The axes' scales must have been computed.
func NewLegend(data *cdo.Data, axes []*axis.Axis, opts LegendOptions) *Legend {
	if opts.MarkerSize == 0 {
		opts.MarkerSize = 15
	}
	if opts.ItemPadding == 0 {
		opts.ItemPadding = 5
	}
	if opts.TextMargin == 0 {
		opts.TextMargin = 6
	}
	if opts.Metrics == nil {
		opts.Metrics = NewTextMetrics(nil)
	}
	if opts.TextMemo == nil {
		opts.TextMemo = new(scene.Memo[TextFit])
	}
	l := &Legend{
		root:  scene.New(nil, data, nil),
		click: scene.NewClickBehavior(opts.ClickMode),
		opts:  opts,
	}
	for _, a := range axes {
		if a.Type() != axis.Color || !a.IsBound() || a.ScaleType() != axis.Discrete || a.Scale() == nil {
			continue
		}
		group := scene.New(l.root, data, nil)
		group.SetVar("axis", &scene.Var{Value: a.ID(), Key: a.ID(), Label: a.String()})
		seen := make(map[string]bool)
		for _, r := range a.Roles() {
			sc := a.RoleColorScale(r, data)
			vh := visrole.NewVarHelper(group, r, visrole.VarHelperOptions{Name: "value"})
			for _, leaf := range r.Flatten(data, cdo.GroupOptions{}).Children() {
				if seen[leaf.Key()] {
					continue
				}
				seen[leaf.Key()] = true
				item := scene.New(group, leaf, nil)
				vh.OnNewScene(item, true)
				c, _ := sc.Map(leaf.Key()).(color.Color)
				item.SetVar("color", &scene.Var{Value: c, Key: leaf.Key()})
				l.items = append(l.items, &LegendItem{Scene: item, Color: c})
			}
		}
	}
	for _, it := range l.items {
		fit := l.fitText(it.Scene)
		it.Text = fit.Text
		it.Width = opts.MarkerSize + opts.TextMargin + fit.Width
		it.Height = math.Max(opts.MarkerSize, opts.Metrics.Height())
	}
	return l
}

func (l *Legend) fitText(s *scene.Scene) TextFit {
	key := fmt.Sprint(l.opts.MaxTextWidth)
	return l.opts.TextMemo.Do(s.ID(), key, func() TextFit {
		t := l.opts.Metrics.Trim(s.Var("value").Label, l.opts.MaxTextWidth)
		return TextFit{t, l.opts.Metrics.Width(t)}
	})
}

func (l *Legend) Root() *scene.Scene         { return l.root }
func (l *Legend) Items() []*LegendItem       { return l.items }
func (l *Legend) Sections() []*LegendSection { return l.sections }

// IsOn reports whether item is rendered as on.
func (l *Legend) IsOn(item *LegendItem) bool { return l.click.IsOn(item.Scene) }

// Click applies the legend click mode to item and reports whether any
// datum changed state.
func (l *Legend) Click(item *LegendItem) bool { return l.click.Click(item.Scene) }

// Layout places the items in rows no wider than width, or in a single
// row if width <= 0. An item wider than width gets a row of its own.
// It sets the item positions and the legend size.
func (l *Legend) Layout(width float64) {
	pad := l.opts.ItemPadding
	l.sections = nil
	var cur *LegendSection
	for _, it := range l.items {
		if cur != nil && width > 0 && cur.Width+pad+it.Width > width {
			cur = nil
		}
		if cur == nil {
			cur = &LegendSection{}
			l.sections = append(l.sections, cur)
		} else {
			cur.Width += pad
		}
		it.X = cur.Width
		cur.Items = append(cur.Items, it)
		cur.Width += it.Width
		cur.Height = math.Max(cur.Height, it.Height)
	}
	l.Width, l.Height = 0, 0
	for i, s := range l.sections {
		if i > 0 {
			l.Height += pad
		}
		for _, it := range s.Items {
			it.Y = l.Height
		}
		l.Width = math.Max(l.Width, s.Width)
		l.Height += s.Height
	}
}

// Dispose disposes the legend scenes.
func (l *Legend) Dispose() { l.root.Dispose() }
