// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axis

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdetails/ccc-sub011/cdo"
	"github.com/webdetails/ccc-sub011/options"
	"github.com/webdetails/ccc-sub011/scene"
	"github.com/webdetails/ccc-sub011/visrole"
)

func testType(t *testing.T) *cdo.ComplexType {
	t.Helper()
	ct := cdo.NewComplexType()
	for _, d := range []struct {
		name string
		spec cdo.DimensionSpec
	}{
		{"series", cdo.DimensionSpec{ValueType: "string"}},
		{"category", cdo.DimensionSpec{ValueType: "string"}},
		{"value", cdo.DimensionSpec{ValueType: "number"}},
		{"value2", cdo.DimensionSpec{ValueType: "number", Comparer: "none"}},
		{"date", cdo.DimensionSpec{ValueType: "date"}},
	} {
		_, err := ct.AddDimension(d.name, d.spec)
		require.NoError(t, err)
	}
	return ct
}

func role(t *testing.T, ct *cdo.ComplexType, name, grouping string) *visrole.Role {
	t.Helper()
	r := visrole.New(name, visrole.Options{})
	require.NoError(t, r.BindText(grouping, ct))
	return r
}

func load(ct *cdo.ComplexType, rows ...map[string]any) *cdo.Data {
	d := cdo.New(ct, cdo.Options{})
	var ds []*cdo.Datum
	for _, r := range rows {
		ds = append(ds, cdo.NewDatum(d, r, cdo.DatumOptions{}))
	}
	d.Load(ds, cdo.LoadOptions{})
	return d
}

func TestBindValidation(t *testing.T) {
	ct := testType(t)
	for _, tc := range []struct {
		name   string
		groups []string
		want   ScaleType
		err    bool
	}{
		{"discrete", []string{"category", "category"}, Discrete, false},
		{"incompatible discrete", []string{"category", "series"}, 0, true},
		{"multi-dimension", []string{"series,category", "series, category"}, Discrete, false},
		{"continuous", []string{"value", "value"}, Continuous, false},
		{"timeseries", []string{"date"}, Timeseries, false},
		{"mixed continuous", []string{"value", "date"}, 0, true},
		{"not comparable", []string{"value2"}, 0, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a := New(Base, 0, options.Sources{}, nil)
			for i, g := range tc.groups {
				a.RegisterDataCell(DataCell{Role: role(t, ct, "r"+string(rune('a'+i)), g)})
			}
			err := a.Bind()
			if tc.err {
				assert.ErrorIs(t, err, cdo.ErrOperationInvalid)
				assert.False(t, a.IsBound())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, a.ScaleType())
			assert.Len(t, a.Roles(), len(tc.groups))
		})
	}
}

func TestBindTwice(t *testing.T) {
	ct := testType(t)
	a := New(Ortho, 1, options.Sources{}, nil)
	assert.Equal(t, "ortho2", a.ID())
	a.RegisterDataCell(DataCell{Role: role(t, ct, "value", "value")})
	require.NoError(t, a.Bind())
	assert.ErrorIs(t, a.Bind(), cdo.ErrOperationInvalid)
	assert.Panics(t, func() { a.RegisterDataCell(DataCell{}) })
}

func TestUnboundRolesIgnored(t *testing.T) {
	a := New(Color, 0, options.Sources{}, nil)
	a.RegisterDataCell(DataCell{Role: visrole.New("color", visrole.Options{})})
	require.NoError(t, a.Bind())
	assert.False(t, a.IsBound())
}

func TestDiscreteScale(t *testing.T) {
	ct := testType(t)
	d := load(ct,
		map[string]any{"category": "a", "value": 1},
		map[string]any{"category": "b", "value": 2},
	)
	for _, tc := range []struct {
		align string
		want  []any
	}{
		{"center", []any{25.0, 75.0}},
		{"left", []any{0.0, 50.0}},
		{"right", []any{50.0, 100.0}},
	} {
		src := options.Sources{Chart: map[string]any{"baseAxisDomainAlign": tc.align}}
		a := New(Base, 0, src, nil)
		a.RegisterDataCell(DataCell{Role: role(t, ct, "category", "category")})
		require.NoError(t, a.Bind())
		s, err := a.ComputeScale(d, 0, 100)
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, s.Domain())
		assert.Equal(t, tc.want, []any{s.Map("a"), s.Map("b")}, tc.align)
		assert.Nil(t, s.Map("zzz"))
	}
}

func TestLinearScale(t *testing.T) {
	ct := testType(t)
	d := load(ct,
		map[string]any{"category": "a", "value": 10},
		map[string]any{"category": "b", "value": 50},
	)
	a := New(Ortho, 0, options.Sources{}, nil)
	a.RegisterDataCell(DataCell{Role: role(t, ct, "value", "value")})
	require.NoError(t, a.Bind())
	s, err := a.ComputeScale(d, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, []any{0.0, 50.0}, s.Domain(), "origin is zero")
	assert.InDelta(t, 50.0, s.Map(25).(float64), 1e-9)

	ticks, labels := s.(Ticker).Ticks(6)
	assert.NotEmpty(t, ticks)
	assert.Len(t, labels, len(ticks))

	a = New(Ortho, 0, options.Sources{Chart: map[string]any{
		"orthoAxisOriginIsZero": false,
		"orthoAxisFixedMax":     "100",
	}}, nil)
	a.RegisterDataCell(DataCell{Role: role(t, ct, "value", "value")})
	require.NoError(t, a.Bind())
	s, err = a.ComputeScale(d, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{10.0, 100.0}, s.Domain())

	a.Options().Defaults("FixedLength", 20.0)
	s, _ = a.ComputeScale(d, 0, 1)
	assert.Equal(t, []any{80.0, 100.0}, s.Domain())
}

func TestCartesianOptions(t *testing.T) {
	ct := testType(t)
	d := load(ct,
		map[string]any{"category": "a", "value": 10},
		map[string]any{"category": "b", "value": 50},
	)
	ortho := func(opts map[string]any) *Axis {
		a := New(Ortho, 0, options.Sources{Chart: opts}, nil)
		a.RegisterDataCell(DataCell{Role: role(t, ct, "value", "value")})
		require.NoError(t, a.Bind())
		return a
	}

	t.Run("DesiredTickCount", func(t *testing.T) {
		a := ortho(nil)
		_, err := a.ComputeScale(d, 0, 100)
		require.NoError(t, err)
		assert.Equal(t, 10, a.TickCount())
		many, _ := a.Ticks()

		a = ortho(map[string]any{"orthoAxisDesiredTickCount": 3.0})
		_, err = a.ComputeScale(d, 0, 100)
		require.NoError(t, err)
		assert.Equal(t, 3, a.TickCount())
		few, labels := a.Ticks()
		assert.NotEmpty(t, few)
		assert.LessOrEqual(t, len(few), 3)
		assert.Len(t, labels, len(few))
		assert.Greater(t, len(many), len(few))

		assert.Nil(t, New(Ortho, 0, options.Sources{}, nil).Scale())
		ticks, _ := New(Ortho, 0, options.Sources{}, nil).Ticks()
		assert.Nil(t, ticks, "no scale")
	})

	t.Run("Offset", func(t *testing.T) {
		a := ortho(map[string]any{"orthoAxisOffset": 0.1})
		s, err := a.ComputeScale(d, 0, 100)
		require.NoError(t, err)
		assert.Equal(t, []any{0.0, 50.0}, s.Domain())
		assert.Equal(t, []any{10.0, 90.0}, s.Range())
		assert.InDelta(t, 10.0, s.Map(0).(float64), 1e-9)
		assert.InDelta(t, 90.0, s.Map(50).(float64), 1e-9)
	})

	t.Run("PreserveRatio", func(t *testing.T) {
		opts := map[string]any{
			"orthoAxisOriginIsZero": false,
			"orthoAxisFixedMax":     100.0,
			"orthoAxisFixedLength":  20.0,
		}
		a := ortho(opts)
		s, _ := a.ComputeScale(d, 0, 100)
		assert.Equal(t, []any{80.0, 100.0}, s.Domain())
		s, _ = a.ComputeScale(d, 0, 200)
		assert.Equal(t, []any{80.0, 100.0}, s.Domain(), "length is fixed")

		a = ortho(map[string]any{
			"orthoAxisOriginIsZero":  false,
			"orthoAxisFixedMax":      100.0,
			"orthoAxisFixedLength":   20.0,
			"orthoAxisPreserveRatio": true,
		})
		s, _ = a.ComputeScale(d, 0, 100)
		assert.Equal(t, []any{80.0, 100.0}, s.Domain())
		s, _ = a.ComputeScale(d, 0, 200)
		assert.Equal(t, []any{60.0, 100.0}, s.Domain(), "ratio is kept")
	})
}

func TestTimeScale(t *testing.T) {
	ct := testType(t)
	d := load(ct,
		map[string]any{"date": "2011-01-01", "value": 1},
		map[string]any{"date": "2011-01-03", "value": 2},
	)
	a := New(Base, 0, options.Sources{}, nil)
	a.RegisterDataCell(DataCell{Role: role(t, ct, "date", "date")})
	require.NoError(t, a.Bind())
	s, err := a.ComputeScale(d, 0, 200)
	require.NoError(t, err)
	assert.Equal(t, Timeseries, s.Type())
	assert.Equal(t, []any{
		time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2011, 1, 3, 0, 0, 0, 0, time.UTC),
	}, s.Domain())
	assert.InDelta(t, 100.0, s.Map(time.Date(2011, 1, 2, 0, 0, 0, 0, time.UTC)).(float64), 1e-9)
}

func TestSceneScale(t *testing.T) {
	ct := testType(t)
	d := load(ct,
		map[string]any{"category": "a", "value": 0},
		map[string]any{"category": "b", "value": 10},
	)
	a := New(Ortho, 0, options.Sources{}, nil)
	a.RegisterDataCell(DataCell{Role: role(t, ct, "value", "value")})
	require.NoError(t, a.Bind())
	_, err := a.ComputeScale(d, 100, 200)
	require.NoError(t, err)

	sc := scene.New(nil, nil, nil)
	sc.SetVar("value", &scene.Var{Value: 5.0})
	null := scene.New(nil, nil, nil)
	null.SetVar("value", scene.NullVar())

	ss := a.SceneScale(SceneScaleOptions{})
	assert.Equal(t, "value", ss.VarName())
	assert.InDelta(t, 150.0, ss.Apply(sc).(float64), 1e-9)
	assert.InDelta(t, 100.0, ss.Apply(null).(float64), 1e-9, "null to zero")
	assert.Equal(t, []any{100.0, 200.0}, ss.Range(), "scale is exposed")

	ss = a.SceneScale(SceneScaleOptions{NullToZero: cdo.Bool(false)})
	assert.Nil(t, ss.Apply(null))
}

func TestColorPreserveMap(t *testing.T) {
	ct := testType(t)
	rows := func(keys ...string) *cdo.Data {
		var rs []map[string]any
		for _, k := range keys {
			rs = append(rs, map[string]any{"series": k})
		}
		return load(ct, rs...)
	}
	colorsOf := func(a *Axis, d *cdo.Data, keys ...string) []any {
		s, err := a.ComputeScale(d, 0, 0)
		require.NoError(t, err)
		var out []any
		for _, k := range keys {
			out = append(out, s.Map(k))
		}
		return out
	}
	c0, c1, c2 := DefaultColors[0], DefaultColors[1], DefaultColors[2]

	a := New(Color, 0, options.Sources{Chart: map[string]any{"colorAxisPreserveMap": true}}, nil)
	a.RegisterDataCell(DataCell{Role: role(t, ct, "color", "series")})
	require.NoError(t, a.Bind())
	assert.Equal(t, []any{c0, c1}, colorsOf(a, rows("a", "b"), "a", "b"))
	assert.Equal(t, []any{c1, c2}, colorsOf(a, rows("b", "c"), "b", "c"))

	a = New(Color, 0, options.Sources{}, nil)
	a.RegisterDataCell(DataCell{Role: role(t, ct, "color", "series")})
	require.NoError(t, a.Bind())
	assert.Equal(t, []any{c0, c1}, colorsOf(a, rows("a", "b"), "a", "b"))
	assert.Equal(t, []any{c0, c1}, colorsOf(a, rows("b", "c"), "b", "c"))
}

func TestColorsOption(t *testing.T) {
	ct := testType(t)
	a := New(Color, 0, options.Sources{Chart: map[string]any{"colorAxisColors": []any{"#f00", "#00ff00"}}}, nil)
	r := role(t, ct, "color", "series")
	a.RegisterDataCell(DataCell{Role: r})
	require.NoError(t, a.Bind())
	d := load(ct, map[string]any{"series": "x"}, map[string]any{"series": "y"})
	_, err := a.ComputeScale(d, 0, 0)
	require.NoError(t, err)

	rs := a.RoleColorScale(r, d)
	assert.Equal(t, color.RGBA{0xff, 0, 0, 0xff}, rs.Map("x"))
	assert.Equal(t, color.RGBA{0, 0xff, 0, 0xff}, rs.Map("y"))
	assert.Same(t, rs, a.RoleColorScale(r, d))
}

func TestContinuousColorScale(t *testing.T) {
	ct := testType(t)
	a := New(Color, 0, options.Sources{}, nil)
	a.RegisterDataCell(DataCell{Role: role(t, ct, "color", "value")})
	require.NoError(t, a.Bind())
	d := load(ct, map[string]any{"value": 1}, map[string]any{"value": 3})
	s, err := a.ComputeScale(d, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 3.0}, s.Domain())
	_, ok := s.Map(2).(color.Color)
	assert.True(t, ok)
	assert.Nil(t, s.Map(nil))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#1f77b4")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x1f, 0x77, 0xb4, 0xff}, c)
	c, err = ParseColor(" Blue")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 0xff, 0xff}, c)
	c, err = ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, c)
	_, err = ParseColor("bluish")
	assert.Error(t, err)
}
