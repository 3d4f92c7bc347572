// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visrole

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdetails/ccc-sub011/cdo"
	"github.com/webdetails/ccc-sub011/scene"
)

func testData(t *testing.T, rows ...[3]any) *cdo.Data {
	t.Helper()
	ct := cdo.NewComplexType()
	for _, name := range []string{"series", "category"} {
		_, err := ct.AddDimension(name, cdo.DimensionSpec{ValueType: "string"})
		require.NoError(t, err)
	}
	for _, name := range []string{"value", "value2"} {
		_, err := ct.AddDimension(name, cdo.DimensionSpec{ValueType: "number"})
		require.NoError(t, err)
	}
	d := cdo.New(ct, cdo.Options{})
	var ds []*cdo.Datum
	for _, r := range rows {
		ds = append(ds, cdo.NewDatum(d, map[string]any{"series": r[0], "category": r[1], "value": r[2]}, cdo.DatumOptions{}))
	}
	d.Load(ds, cdo.LoadOptions{})
	return d
}

func bind(t *testing.T, r *Role, d *cdo.Data, text string) {
	t.Helper()
	require.NoError(t, r.BindText(text, d.Type()))
}

// seriesScenes returns a root scene with one child scene per series.
func seriesScenes(t *testing.T, d *cdo.Data, helpers ...func(*scene.Scene) *VarHelper) (*scene.Scene, []*scene.Scene) {
	t.Helper()
	g, err := cdo.ParseGrouping("series", d.Type())
	require.NoError(t, err)
	root := scene.New(nil, d.GroupBy(g, cdo.GroupOptions{}), nil)
	var hs []*VarHelper
	for _, f := range helpers {
		hs = append(hs, f(root))
	}
	var kids []*scene.Scene
	for _, c := range root.Group().Children() {
		s := scene.New(root, c, nil)
		for _, h := range hs {
			h.OnNewScene(s, true)
		}
		kids = append(kids, s)
	}
	return root, kids
}

func TestVarHelperNumeric(t *testing.T) {
	d := testData(t,
		[3]any{"one", "a", 7},
		[3]any{"three", "a", 5},
		[3]any{"three", "b", 10},
		[3]any{"three", "c", 15},
	)
	value := New("value", Options{IsMeasure: true})
	bind(t, value, d, "value")
	_, kids := seriesScenes(t, d, func(root *scene.Scene) *VarHelper {
		return NewVarHelper(root, value, VarHelperOptions{HasPercentSubVar: true})
	})

	one := kids[0].Var("value")
	require.NotNil(t, one)
	assert.Equal(t, 7.0, one.Value)
	assert.Equal(t, 7, one.RawValue, "single datums read the atom directly")

	three := kids[1].Var("value")
	assert.Equal(t, 30.0, three.Value)
	assert.Equal(t, "30", three.Label)
	require.NotNil(t, three.Percent)
	assert.InDelta(t, 30.0/37.0, three.Percent.Value, 1e-9)
	assert.Same(t, three, kids[1].Var("value"), "memoized")
}

func TestVarHelperNullPercent(t *testing.T) {
	d := testData(t,
		[3]any{"s", "a", nil},
		[3]any{"s", "b", nil},
	)
	value := New("value", Options{})
	bind(t, value, d, "value")
	_, kids := seriesScenes(t, d, func(root *scene.Scene) *VarHelper {
		return NewVarHelper(root, value, VarHelperOptions{HasPercentSubVar: true})
	})
	v := kids[0].Var("value")
	assert.True(t, v.IsNull())
	require.NotNil(t, v.Percent)
	assert.True(t, v.Percent.IsNull())
}

func TestVarHelperUnbound(t *testing.T) {
	d := testData(t, [3]any{"s", "a", 1})
	color := New("color", Options{})
	root, kids := seriesScenes(t, d, func(root *scene.Scene) *VarHelper {
		return NewVarHelper(root, color, VarHelperOptions{})
	})
	assert.True(t, root.HasOwnVar("color"))
	assert.False(t, kids[0].HasOwnVar("color"))
	assert.True(t, kids[0].Var("color").IsNull())
}

func TestVarHelperDiscrete(t *testing.T) {
	d := testData(t, [3]any{"s", "a", 1}, [3]any{"s", "b", 2})
	series := New("series", Options{})
	bind(t, series, d, "series")
	sc := New("sc", Options{})
	bind(t, sc, d, "category, series")
	_, kids := seriesScenes(t, d,
		func(root *scene.Scene) *VarHelper { return NewVarHelper(root, series, VarHelperOptions{}) },
		func(root *scene.Scene) *VarHelper { return NewVarHelper(root, sc, VarHelperOptions{}) },
	)
	assert.Equal(t, "s", kids[0].Var("series").Value)
	assert.Equal(t, "s~a", kids[0].Var("sc").Key, "declaration order")
	assert.Equal(t, "s ~ a", kids[0].Var("sc").Label)
}

func TestVarHelperSourced(t *testing.T) {
	d := testData(t, [3]any{"s", "a", 1})
	series := New("series", Options{})
	bind(t, series, d, "series")
	color := New("color", Options{})
	color.SetSourceRole(series)
	require.True(t, color.IsSourced())

	_, kids := seriesScenes(t, d,
		func(root *scene.Scene) *VarHelper { return NewVarHelper(root, series, VarHelperOptions{}) },
		func(root *scene.Scene) *VarHelper { return NewVarHelper(root, color, VarHelperOptions{}) },
	)
	sv := kids[0].Var("series")
	cv := kids[0].Var("color")
	assert.Equal(t, sv.Value, cv.Value)
	assert.NotSame(t, sv, cv)
	assert.Panics(t, func() { series.SetSourceRole(color) })
}

func TestRoleBindValidation(t *testing.T) {
	d := testData(t)
	r := New("category", Options{RequireSingleDimension: true})
	assert.ErrorIs(t, r.BindText("series,category", d.Type()), cdo.ErrOperationInvalid)

	r = New("value", Options{RequireIsDiscrete: cdo.Bool(false)})
	assert.ErrorIs(t, r.BindText("series", d.Type()), cdo.ErrOperationInvalid)
	assert.NoError(t, r.BindText("value", d.Type()))
	assert.True(t, r.IsNumeric())
	assert.False(t, r.IsDiscrete())
}

func TestDefaultGrouping(t *testing.T) {
	d := testData(t)
	r := New("value", Options{DefaultDimension: "value*"})
	g, ok := r.DefaultGrouping(d.Type())
	require.True(t, ok)
	assert.Equal(t, []string{"value", "value2"}, g.DimensionNames())

	r = New("size", Options{DefaultDimension: "size"})
	_, ok = r.DefaultGrouping(d.Type())
	assert.False(t, ok)
}

func TestDiscriminator(t *testing.T) {
	ct := cdo.NewComplexType()
	_, err := ct.AddDimension("value", cdo.DimensionSpec{ValueType: "number"})
	require.NoError(t, err)
	_, err = ct.AddDimension("value2", cdo.DimensionSpec{ValueType: "number"})
	require.NoError(t, err)
	_, err = ct.AddDimension("valueRole.dim", cdo.DimensionSpec{})
	require.NoError(t, err)
	d := cdo.New(ct, cdo.Options{})
	a := cdo.NewDatum(d, map[string]any{"value": 3, "valueRole.dim": "value"}, cdo.DatumOptions{})
	b := cdo.NewDatum(d, map[string]any{"value2": 4, "valueRole.dim": "value2"}, cdo.DatumOptions{})
	d.Load([]*cdo.Datum{a, b}, cdo.LoadOptions{})

	r := New("value", Options{})
	require.NoError(t, r.BindText("value, value2", ct))
	r.SetDiscriminator("valueRole.dim")
	assert.Equal(t, "value", r.DimensionNameFor(a))
	assert.Equal(t, "value2", r.DimensionNameFor(b))
	sum, ok := r.NumberValueOf(d)
	assert.True(t, ok)
	assert.Equal(t, 7.0, sum)
}

func TestDiscriminatorPercent(t *testing.T) {
	ct := cdo.NewComplexType()
	_, err := ct.AddDimension("series", cdo.DimensionSpec{ValueType: "string"})
	require.NoError(t, err)
	for _, name := range []string{"value", "value2"} {
		_, err := ct.AddDimension(name, cdo.DimensionSpec{ValueType: "number"})
		require.NoError(t, err)
	}
	_, err = ct.AddDimension("valueRole.dim", cdo.DimensionSpec{})
	require.NoError(t, err)
	d := cdo.New(ct, cdo.Options{})
	d.Load([]*cdo.Datum{
		cdo.NewDatum(d, map[string]any{"series": "a", "value": 3, "valueRole.dim": "value"}, cdo.DatumOptions{}),
		cdo.NewDatum(d, map[string]any{"series": "b", "value2": -4, "valueRole.dim": "value2"}, cdo.DatumOptions{}),
	}, cdo.LoadOptions{})

	value := New("value", Options{IsMeasure: true})
	bind(t, value, d, "value, value2")
	value.SetDiscriminator("valueRole.dim")

	p, ok := value.PercentOf(d, 4)
	require.True(t, ok)
	assert.InDelta(t, 4.0/7.0, p, 1e-9)

	_, kids := seriesScenes(t, d, func(root *scene.Scene) *VarHelper {
		return NewVarHelper(root, value, VarHelperOptions{HasPercentSubVar: true})
	})
	require.Len(t, kids, 2)
	a, b := kids[0].Var("value"), kids[1].Var("value")
	assert.Equal(t, 3.0, a.Value)
	assert.Equal(t, -4.0, b.Value)
	assert.InDelta(t, 3.0/7.0, a.Percent.Value, 1e-9)
	assert.InDelta(t, -4.0/7.0, b.Percent.Value, 1e-9)
}

func TestVarHelperPercentNoVisibleValues(t *testing.T) {
	d := testData(t, [3]any{"s", "a", 5})
	d.Datums()[0].SetVisible(false)
	value := New("value", Options{})
	bind(t, value, d, "value")
	_, kids := seriesScenes(t, d, func(root *scene.Scene) *VarHelper {
		return NewVarHelper(root, value, VarHelperOptions{HasPercentSubVar: true})
	})
	require.Len(t, kids, 1)
	v := kids[0].Var("value")
	assert.Equal(t, 5.0, v.Value)
	require.NotNil(t, v.Percent)
	assert.True(t, v.Percent.IsNull(), "no visible total")
}
