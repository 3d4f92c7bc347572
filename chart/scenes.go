// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"
	"math"

	"github.com/aclements/go-gg/table"

	"github.com/webdetails/ccc-sub011/axis"
	"github.com/webdetails/ccc-sub011/cdo"
	"github.com/webdetails/ccc-sub011/scene"
	"github.com/webdetails/ccc-sub011/visrole"
)

// Scenes returns the scene tree of a data part, MainPart or TrendPart:
// the root scene, one scene per visible series and, below each, one
// leaf scene per visible category. Scenes have the variables series,
// category, value, color and size. Values have a percent
// sub-variable: the share of the value in its series.
//
// Trees are cached until the next load or visibility change, which
// dispose them.
func (c *Chart) Scenes(part string) (*scene.Scene, error) {
	if c.data == nil {
		return nil, ErrNotLoaded
	}
	if s, ok := c.scenes[part]; ok {
		return s, nil
	}
	s := c.buildScenes(c.data.PartData(part))
	if c.scenes == nil {
		c.scenes = make(map[string]*scene.Scene)
	}
	c.scenes[part] = s
	return s, nil
}

func (c *Chart) buildScenes(data *cdo.Data) *scene.Scene {
	root := scene.New(nil, data, nil)
	value := c.roleByName[RoleValue]
	helpers := []*visrole.VarHelper{
		visrole.NewVarHelper(root, c.roleByName[RoleSeries], visrole.VarHelperOptions{}),
		visrole.NewVarHelper(root, c.roleByName[RoleCategory], visrole.VarHelperOptions{}),
		visrole.NewVarHelper(root, value, visrole.VarHelperOptions{HasPercentSubVar: value.Options().IsPercent}),
		visrole.NewVarHelper(root, c.roleByName[RoleColor], visrole.VarHelperOptions{}),
		visrole.NewVarHelper(root, c.roleByName[RoleSize], visrole.VarHelperOptions{}),
	}
	onNewScene := func(s *scene.Scene, isLeaf bool) {
		for _, h := range helpers {
			h.OnNewScene(s, isLeaf)
		}
	}

	visible := cdo.GroupOptions{Visible: cdo.Bool(true)}
	series, category := c.roleByName[RoleSeries], c.roleByName[RoleCategory]
	groups := []*cdo.Data{data}
	if series.IsBound() {
		groups = series.Flatten(data, visible).Children()
	}
	for _, g := range groups {
		ss := scene.New(root, g, nil)
		onNewScene(ss, false)
		leaves := []*cdo.Data{g}
		if category.IsBound() {
			leaves = category.Flatten(g, visible).Children()
		}
		for _, l := range leaves {
			onNewScene(scene.New(ss, l, nil), true)
		}
	}
	return root
}

// Click applies the chart click mode to s and reports whether any
// datum changed state.
func (c *Chart) Click(s *scene.Scene) bool {
	changed := c.click.Click(s)
	if changed && c.clickMode == scene.ClickToggleVisible {
		c.visibilityChanged()
	}
	return changed
}

// Select replaces the selection with the datums for which f returns
// true, and reports whether the selection changed.
func (c *Chart) Select(f func(*cdo.Datum) bool) (bool, error) {
	if c.data == nil {
		return false, ErrNotLoaded
	}
	return c.data.ReplaceSelected(c.data.Query(cdo.DatumsOptions{Where: f})), nil
}

// ClearSelection deselects every datum.
func (c *Chart) ClearSelection() bool {
	if c.data == nil {
		return false
	}
	return c.data.ClearSelected(nil)
}

// SetVisible sets the visibility of the datums for which f returns
// true, and reports whether any changed.
func (c *Chart) SetVisible(f func(*cdo.Datum) bool, visible bool) (bool, error) {
	if c.data == nil {
		return false, ErrNotLoaded
	}
	changed := cdo.SetVisible(c.data.Query(cdo.DatumsOptions{Where: f}), visible)
	if changed {
		c.visibilityChanged()
	}
	return changed, nil
}

// visibilityChanged recomputes the scales, which only cover visible
// datums, and drops the scenes, whose groupings are gone.
func (c *Chart) visibilityChanged() {
	if err := c.refresh(); err != nil {
		c.log.Errorw("recomputing scales", "error", err)
	}
}

// SceneColor returns the color of s, or nil if the color role is
// unbound or s has no color value.
func (c *Chart) SceneColor(s *scene.Scene) color.Color {
	a, ok := c.Axis(axis.Color.String())
	if !ok || !a.IsBound() || a.Scale() == nil {
		return nil
	}
	v := s.Var(RoleColor)
	if v.IsNull() {
		return nil
	}
	col, _ := a.RoleColorScale(c.roleByName[RoleColor], c.data).Map(v).(color.Color)
	return col
}

// ScenePosition returns the position of s along the base and ortho
// axes, or nil for an axis without a value for s.
func (c *Chart) ScenePosition(s *scene.Scene) (x, y any) {
	if a := c.BaseAxis(); a != nil && a.IsBound() && a.Scale() != nil {
		x = a.SceneScale(axis.SceneScaleOptions{VarName: RoleCategory}).Apply(s)
	}
	if a, ok := c.Axis(axis.Ortho.String()); ok && a.IsBound() && a.Scale() != nil {
		y = a.SceneScale(axis.SceneScaleOptions{VarName: RoleValue}).Apply(s)
	}
	return x, y
}

// Table returns the leaf scenes of the main and trend parts as a
// table with the columns part, series, category, value, percent and
// color.
func (c *Chart) Table() (*table.Table, error) {
	parts := []string{MainPart}
	if c.trendType != nil {
		parts = append(parts, TrendPart)
	}
	var partCol, seriesCol, categoryCol, colorCol []string
	var valueCol, percentCol []float64
	for _, part := range parts {
		root, err := c.Scenes(part)
		if err != nil {
			return nil, err
		}
		for _, ss := range root.Children() {
			for _, s := range ss.Children() {
				partCol = append(partCol, part)
				seriesCol = append(seriesCol, varLabel(s.Var(RoleSeries)))
				categoryCol = append(categoryCol, varLabel(s.Var(RoleCategory)))
				v := s.Var(RoleValue)
				valueCol = append(valueCol, numberOrNaN(v))
				var pv *scene.Var
				if v != nil {
					pv = v.Percent
				}
				percentCol = append(percentCol, numberOrNaN(pv))
				colorCol = append(colorCol, hexColor(c.SceneColor(s)))
			}
		}
	}
	return new(table.Builder).
		Add("part", partCol).
		Add("series", seriesCol).
		Add("category", categoryCol).
		Add("value", valueCol).
		Add("percent", percentCol).
		Add("color", colorCol).
		Done(), nil
}

func varLabel(v *scene.Var) string {
	if v.IsNull() {
		return ""
	}
	return v.Label
}

func numberOrNaN(v *scene.Var) float64 {
	if v.IsNull() {
		return math.NaN()
	}
	if f, ok := cdo.ToNumber(v.Value); ok {
		return f
	}
	return math.NaN()
}

func hexColor(c color.Color) string {
	if c == nil {
		return ""
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}
