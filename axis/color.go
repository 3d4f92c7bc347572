// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axis

import (
	"fmt"
	"image/color"
	"reflect"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/palette"
	"golang.org/x/image/colornames"

	"github.com/webdetails/ccc-sub011/cdo"
	"github.com/webdetails/ccc-sub011/visrole"
)

// DefaultColors is the discrete palette of color axes without a
// Colors option.
var DefaultColors = []color.Color{
	color.RGBA{0x1f, 0x77, 0xb4, 0xff},
	color.RGBA{0xff, 0x7f, 0x0e, 0xff},
	color.RGBA{0x2c, 0xa0, 0x2c, 0xff},
	color.RGBA{0xd6, 0x27, 0x28, 0xff},
	color.RGBA{0x94, 0x67, 0xbd, 0xff},
	color.RGBA{0x8c, 0x56, 0x4b, 0xff},
	color.RGBA{0xe3, 0x77, 0xc2, 0xff},
	color.RGBA{0x7f, 0x7f, 0x7f, 0xff},
	color.RGBA{0xbc, 0xbd, 0x22, 0xff},
	color.RGBA{0x17, 0xbe, 0xcf, 0xff},
}

// ParseColor parses "#rgb" and "#rrggbb" colors and SVG color names.
func ParseColor(s string) (color.RGBA, error) {
	if c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}

// castColors accepts a list of color strings or colors.
func castColors(v any) (any, error) {
	var in []any
	switch v := v.(type) {
	case []color.Color:
		return v, nil
	case []string:
		for _, s := range v {
			in = append(in, s)
		}
	case []any:
		in = v
	case string:
		for _, s := range strings.Split(v, ",") {
			in = append(in, s)
		}
	default:
		return nil, fmt.Errorf("not a color list: %v", v)
	}
	out := make([]color.Color, 0, len(in))
	for _, c := range in {
		switch c := c.(type) {
		case color.Color:
			out = append(out, c)
		case string:
			rgba, err := ParseColor(c)
			if err != nil {
				return nil, err
			}
			out = append(out, rgba)
		default:
			return nil, fmt.Errorf("not a color: %v", c)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty color list")
	}
	return out, nil
}

func (a *Axis) colorPalette() []color.Color {
	if cs, ok := a.opts.Option("Colors").([]color.Color); ok {
		return cs
	}
	return DefaultColors
}

// colorMap remembers the colors given to keys while PreserveMap is
// set.
type colorMap struct {
	byKey map[string]color.Color
	next  int
}

// discreteColorScale maps keys to palette colors.
type discreteColorScale struct {
	keys   []string
	colors map[string]color.Color
	pal    []color.Color
}

func (a *Axis) newDiscreteColorScale(keys []string) *discreteColorScale {
	pal := a.colorPalette()
	s := &discreteColorScale{keys: keys, colors: make(map[string]color.Color, len(keys)), pal: pal}
	ranger := gg.NewColorRanger(pal)
	if a.opts.Bool("PreserveMap") {
		if a.colors.byKey == nil {
			a.colors.byKey = make(map[string]color.Color)
		}
		_, n := ranger.Levels()
		for _, k := range keys {
			c, ok := a.colors.byKey[k]
			if !ok {
				c = ranger.MapLevel(a.colors.next%n, n).(color.Color)
				a.colors.next++
				a.colors.byKey[k] = c
			}
			s.colors[k] = c
		}
		return s
	}
	a.colors = colorMap{}
	ord := gg.NewOrdinalScale()
	positions := make([]int, len(keys))
	for i := range keys {
		positions[i] = i
	}
	ord.ExpandDomain(positions)
	ord.Ranger(ranger)
	for i, k := range keys {
		s.colors[k] = ord.Map(i).(color.Color)
	}
	return s
}

func (s *discreteColorScale) Type() ScaleType { return Discrete }

func (s *discreteColorScale) Map(v any) any {
	k, ok := keyOf(v)
	if !ok {
		return nil
	}
	if c, ok := s.colors[k]; ok {
		return c
	}
	return nil
}

func (s *discreteColorScale) Domain() []any {
	out := make([]any, len(s.keys))
	for i, k := range s.keys {
		out[i] = k
	}
	return out
}

func (s *discreteColorScale) Range() []any {
	out := make([]any, len(s.pal))
	for i, c := range s.pal {
		out[i] = c
	}
	return out
}

// paletteRanger adapts a continuous palette to a go-gg ranger.
type paletteRanger struct {
	p palette.Continuous
}

var colorType = reflect.TypeOf((*color.Color)(nil)).Elem()

func (r paletteRanger) RangeType() reflect.Type     { return colorType }
func (r paletteRanger) Map(x float64) any           { return r.p.Map(x) }
func (r paletteRanger) Unmap(y any) (float64, bool) { return 0, false }

// continuousColorScale maps numbers onto a continuous palette.
type continuousColorScale struct {
	linearScale
	p palette.Continuous
}

func (a *Axis) newContinuousColorScale(min, max float64, ok bool) *continuousColorScale {
	if !ok {
		min, max = 0, 1
	}
	var p palette.Continuous = palette.Viridis
	if cs, cok := a.opts.Option("Colors").([]color.Color); cok && len(cs) > 1 {
		g := palette.RGBGradient{}
		for _, c := range cs {
			g.Colors = append(g.Colors, color.RGBAModel.Convert(c).(color.RGBA))
		}
		p = g
	}
	gs := gg.NewLinearScaler()
	gs.ExpandDomain([]float64{min, max})
	gs.SetMin(min).SetMax(max)
	gs.Ranger(paletteRanger{p})
	return &continuousColorScale{
		linearScale: linearScale{gs: gs, min: min, max: max, lo: 0, hi: 1},
		p:           p,
	}
}

func (s *continuousColorScale) Range() []any { return []any{s.p.Map(0), s.p.Map(1)} }

// RoleColorScale returns the color scale of role restricted to the
// keys role takes in data. Colors come from the axis scale, so every
// role of the axis colors a key the same way. Results are memoized
// until the axis is rebound or its scale recomputed.
func (a *Axis) RoleColorScale(role *visrole.Role, data *cdo.Data) Scale {
	if a.typ != Color {
		panic(fmt.Sprintf("%s is not a color axis", a))
	}
	return a.colorMemo.Do(0, role.Name(), func() Scale {
		base, ok := a.scale.(*discreteColorScale)
		if !ok || !role.IsBound() {
			return a.scale
		}
		s := &discreteColorScale{colors: make(map[string]color.Color), pal: base.pal}
		flat := role.Flatten(data, cdo.GroupOptions{})
		for _, leaf := range flat.Children() {
			k := leaf.Key()
			c, ok := base.colors[k]
			if !ok {
				continue
			}
			s.keys = append(s.keys, k)
			s.colors[k] = c
		}
		return s
	})
}
