// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestData returns a root Data with discrete "series" and
// "category" dimensions and a numeric "value" dimension.
func newTestData(t *testing.T) *Data {
	t.Helper()
	ct := NewComplexType()
	for _, d := range []struct {
		name string
		spec DimensionSpec
	}{
		{"category", DimensionSpec{ValueType: "string"}},
		{"series", DimensionSpec{ValueType: "string"}},
		{"value", DimensionSpec{ValueType: "number"}},
	} {
		_, err := ct.AddDimension(d.name, d.spec)
		require.NoError(t, err)
	}
	return New(ct, Options{})
}

func loadRows(d *Data, rows ...[3]any) []*Datum {
	var ds []*Datum
	for _, r := range rows {
		ds = append(ds, NewDatum(d, map[string]any{"series": r[0], "category": r[1], "value": r[2]}, DatumOptions{}))
	}
	d.Load(ds, LoadOptions{Additive: true})
	return ds
}

func TestIntern(t *testing.T) {
	d := newTestData(t)
	dim := d.Dimension("value")
	for _, v := range []any{1, 2.5, "3", int64(-7)} {
		a, b := dim.Intern(v), dim.Intern(v)
		assert.Same(t, a, b, "intern(%v)", v)
		assert.False(t, a.IsNull())
	}
	assert.Same(t, dim.Intern(3), dim.Intern("3"))
	assert.Same(t, dim.NullAtom(), dim.Intern(nil))
	assert.Same(t, dim.NullAtom(), dim.Intern(""))
	assert.Same(t, dim.NullAtom(), dim.Intern("not a number"))
}

func TestComplexKey(t *testing.T) {
	d := newTestData(t)
	// Insertion order of the map does not matter; declaration order does.
	c := NewComplex(d, nil, map[string]any{"series": "B", "category": "A"}, nil)
	assert.Equal(t, "A~B", c.Key())
	assert.Equal(t, "A ~ B", c.Label())
	assert.Equal(t, "A~B", c.Value())

	single := NewComplex(d, nil, map[string]any{"value": 1234.5}, nil)
	assert.Equal(t, "1234.5", single.Key())
	assert.Equal(t, "1,234.5", single.Label())
	assert.Equal(t, 1234.5, single.Value())
}

func TestComplexBaseAtoms(t *testing.T) {
	d := newTestData(t)
	base := NewComplex(d, nil, map[string]any{"series": "S"}, nil)
	c := NewComplex(d, base, map[string]any{"category": "C", "series": "X"}, []string{"category"})
	assert.Equal(t, "C", c.Key(), "inherited atoms do not take part in the key")
	assert.Equal(t, "S", c.Atom("series").Value)
	_, own := c.Atoms().Own("series")
	assert.False(t, own)
	assert.True(t, c.Atom("value").IsNull())
}

func TestSelectionIdempotent(t *testing.T) {
	d := newTestData(t)
	ds := loadRows(d, [3]any{"s", "a", 1}, [3]any{"s", "b", 2})
	assert.True(t, SetSelected(ds, true))
	assert.False(t, SetSelected(ds, true))
	assert.Equal(t, 2, d.SelectedCount())
	assert.False(t, SetSelected(nil, true))
}

func TestToggleSelected(t *testing.T) {
	d := newTestData(t)
	ds := loadRows(d, [3]any{"s", "a", 1}, [3]any{"s", "b", 2})
	ds[0].SetSelected(true)

	assert.True(t, ToggleSelected(ds, false))
	assert.True(t, ds[0].IsSelected())
	assert.True(t, ds[1].IsSelected())

	assert.True(t, ToggleSelected(ds, false))
	assert.False(t, ds[0].IsSelected())
	assert.False(t, ds[1].IsSelected())

	ds[1].SetSelected(true)
	assert.True(t, ToggleSelected(ds, true), "any selected counts as on")
	assert.Equal(t, 0, d.SelectedCount())
}

func TestToggleVisible(t *testing.T) {
	d := newTestData(t)
	ds := loadRows(d, [3]any{"s", "a", 1}, [3]any{"s", "b", 2})
	assert.True(t, ToggleVisible(ds))
	assert.Equal(t, 0, d.VisibleCount())
	assert.True(t, ToggleVisible(ds))
	assert.Equal(t, 2, d.VisibleCount())
}

func TestNullDatumExempt(t *testing.T) {
	d := newTestData(t)
	null := NewDatum(d, map[string]any{"series": "s"}, DatumOptions{IsNull: true})
	d.Load([]*Datum{null}, LoadOptions{Additive: true})

	assert.False(t, null.SetSelected(true))
	assert.False(t, null.SetVisible(false))
	assert.False(t, null.IsSelected())
	assert.True(t, null.IsVisible())
	assert.Equal(t, 0, d.SelectedCount())

	assert.Panics(t, func() { d.onDatumSelectedChanged(null, true) })
	assert.Panics(t, func() { d.onDatumVisibleChanged(null, false) })

	// Null datums are ignored when deciding whether all are selected.
	ds := loadRows(d, [3]any{"s", "a", 1})
	ds[0].SetSelected(true)
	assert.True(t, IsSelectedOn([]*Datum{null, ds[0]}, false))
}

func TestReplaceSelected(t *testing.T) {
	d := newTestData(t)
	ds := loadRows(d, [3]any{"s", "a", 1}, [3]any{"s", "b", 2}, [3]any{"s", "c", 3})
	SetSelected(ds[:2], true)

	assert.False(t, d.ReplaceSelected(ds[:2]), "same set")
	assert.True(t, d.ReplaceSelected(ds[1:]))
	assert.Equal(t, []*Datum{ds[1], ds[2]}, d.SelectedDatums())

	g := d.GroupBy(mustGrouping(t, d, "category"), GroupOptions{})
	b, ok := g.Child("b")
	require.True(t, ok)
	assert.Equal(t, 1, b.SelectedCount())
	assert.True(t, b.ClearSelected(nil), "non-owners delegate to the owner")
	assert.Equal(t, 0, d.SelectedCount())
}

func TestClearSelectedMatch(t *testing.T) {
	d := newTestData(t)
	ds := loadRows(d, [3]any{"s", "a", 1}, [3]any{"s", "b", 2}, [3]any{"s", "c", 3})
	SetSelected(ds, true)

	isB := func(dt *Datum) bool { return dt == ds[1] }
	assert.True(t, d.ClearSelected(isB))
	assert.Equal(t, []*Datum{ds[0], ds[2]}, d.SelectedDatums())
	assert.False(t, d.ClearSelected(isB), "nothing left to clear")
	assert.False(t, d.ClearSelected(func(*Datum) bool { return false }))
	assert.Equal(t, 2, d.SelectedCount())
}

func TestLoadKeepsExisting(t *testing.T) {
	ct := NewComplexType()
	_, err := ct.AddDimension("category", DimensionSpec{ValueType: "string", IsKey: true})
	require.NoError(t, err)
	_, err = ct.AddDimension("value", DimensionSpec{ValueType: "number"})
	require.NoError(t, err)
	d := New(ct, Options{})

	a := NewDatum(d, map[string]any{"category": "a", "value": 1}, DatumOptions{})
	b := NewDatum(d, map[string]any{"category": "b", "value": 2}, DatumOptions{})
	d.Load([]*Datum{a, b}, LoadOptions{})
	a.SetSelected(true)

	a2 := NewDatum(d, map[string]any{"category": "a", "value": 10}, DatumOptions{})
	c := NewDatum(d, map[string]any{"category": "c", "value": 3}, DatumOptions{})
	d.Load([]*Datum{a2, c}, LoadOptions{})

	assert.Equal(t, []*Datum{a, c}, d.Datums())
	assert.True(t, a.IsSelected())
	assert.Equal(t, 1, d.SelectedCount())
	got, ok := d.Datum("a")
	require.True(t, ok)
	assert.Same(t, a, got)
}

func TestDuplicateDimension(t *testing.T) {
	ct := NewComplexType()
	_, err := ct.AddDimension("x", DimensionSpec{})
	require.NoError(t, err)
	_, err = ct.AddDimension("x", DimensionSpec{})
	assert.True(t, errors.Is(err, ErrOperationInvalid))
}

func TestProjectReadCalcConflict(t *testing.T) {
	calc := CalculationSpec{
		Names:     []string{"total"},
		Calculate: func(map[string]any) map[string]any { return nil },
	}

	p := NewComplexTypeProject(nil, nil)
	require.NoError(t, p.ReadDimension("total", DimensionSpec{}))
	assert.ErrorIs(t, p.SetCalc(calc), ErrOperationInvalid)

	p = NewComplexTypeProject(nil, nil)
	require.NoError(t, p.SetCalc(calc))
	assert.ErrorIs(t, p.ReadDimension("total", DimensionSpec{}), ErrOperationInvalid)
	assert.ErrorIs(t, p.SetCalc(calc), ErrOperationInvalid)
}

func TestProjectCalculation(t *testing.T) {
	p := NewComplexTypeProject(nil, map[string]DimensionSpec{"value": {ValueType: "number"}})
	require.NoError(t, p.ReadDimension("value", DimensionSpec{}))
	require.NoError(t, p.ReadDimension("value2", DimensionSpec{}))
	assert.Equal(t, "value3", p.NextGroupDimensionName("value"))
	require.NoError(t, p.SetCalc(CalculationSpec{
		Names: []string{"total"},
		Calculate: func(v map[string]any) map[string]any {
			a, _ := ToNumber(v["value"])
			b, _ := ToNumber(v["value2"])
			return map[string]any{"total": a + b}
		},
	}))
	p.SetDimension("total", DimensionSpec{ValueType: "number"})
	ct, err := p.ConfigureComplexType()
	require.NoError(t, err)
	assert.Equal(t, []string{"value", "value2", "total"}, ct.DimensionNames())
	assert.True(t, ct.IsCalculated("total"))

	values := map[string]any{"value": 2.0, "value2": 3}
	ct.calculate(values)
	assert.Equal(t, 5.0, values["total"])
}

func mustGrouping(t *testing.T, d *Data, text string) *GroupingSpec {
	t.Helper()
	g, err := ParseGrouping(text, d.Type())
	require.NoError(t, err)
	return g
}

func TestGroupBy(t *testing.T) {
	d := newTestData(t)
	loadRows(d,
		[3]any{"s2", "b", 1},
		[3]any{"s1", "a", 2},
		[3]any{"s2", "a", 3},
		[3]any{nil, "c", 4},
	)
	g := d.GroupBy(mustGrouping(t, d, "series|category"), GroupOptions{})
	assert.Same(t, d, g.LinkParent())
	assert.Equal(t, 4, g.Count())

	var keys []string
	for _, c := range g.Children() {
		keys = append(keys, c.Key())
	}
	// Series atoms are in interning order; the null series sorts first.
	assert.Equal(t, []string{"", "s2", "s1"}, keys)

	s2 := g.Children()[1]
	require.Len(t, s2.Children(), 2)
	assert.Equal(t, "s2~b", s2.Children()[0].AbsKey())
	assert.Equal(t, "s2", s2.Children()[0].Atom("series").Key, "atoms fall back to the parent")
	sum, ok := s2.DimensionSum("value", SumOptions{})
	assert.True(t, ok)
	assert.Equal(t, 4.0, sum)

	assert.Same(t, g, d.GroupBy(mustGrouping(t, d, "series|category"), GroupOptions{}), "cached")

	rev := d.GroupBy(mustGrouping(t, d, "category desc"), GroupOptions{})
	keys = nil
	for _, c := range rev.Children() {
		keys = append(keys, c.Key())
	}
	assert.Equal(t, []string{"c", "a", "b"}, keys)

	d.Type().MustDimension("category").SetComparer(Ascending)
	rev = d.GroupBy(mustGrouping(t, d, "category desc"), GroupOptions{})
	keys = nil
	for _, c := range rev.Children() {
		keys = append(keys, c.Key())
	}
	assert.Equal(t, []string{"c", "b", "a"}, keys)
}

func TestGroupByFlatten(t *testing.T) {
	d := newTestData(t)
	loadRows(d, [3]any{"s1", "a", 1}, [3]any{"s1", "b", 2}, [3]any{"s2", "a", 3})
	g := d.GroupBy(mustGrouping(t, d, "series|category").WithFlatten(FlattenLeaf), GroupOptions{})
	require.Len(t, g.Children(), 3)
	assert.Equal(t, "a~s1", g.Children()[0].Key())
	assert.Empty(t, g.Children()[0].Children())
}

func TestVisibilityPropagation(t *testing.T) {
	d := newTestData(t)
	ds := loadRows(d, [3]any{"s1", "a", 10}, [3]any{"s1", "b", -20}, [3]any{"s2", "a", 5})
	g := d.GroupBy(mustGrouping(t, d, "series|category"), GroupOptions{})
	s1 := g.Children()[0]
	s1a := s1.Children()[0]
	vis := d.GroupBy(mustGrouping(t, d, "series"), GroupOptions{Visible: Bool(true)})

	assert.Equal(t, 35.0, d.DimensionSumAbs("value"))
	assert.Equal(t, 30.0, s1.DimensionSumAbs("value"))
	assert.Len(t, d.Dimension("category").Atoms(AtomsOptions{Visible: Bool(true)}), 2)
	assert.Len(t, s1.Dimension("category").Atoms(AtomsOptions{Visible: Bool(true)}), 2)

	require.True(t, ds[1].SetVisible(false))

	assert.Equal(t, 15.0, d.DimensionSumAbs("value"))
	assert.Equal(t, 10.0, s1.DimensionSumAbs("value"))
	assert.Equal(t, 10.0, s1a.DimensionSumAbs("value"))
	assert.Equal(t, 2, g.VisibleCount())
	assert.Equal(t, 1, s1.VisibleCount())
	assert.Len(t, s1.Dimension("category").Atoms(AtomsOptions{Visible: Bool(true)}), 1)
	assert.Len(t, s1.Dimension("category").Atoms(AtomsOptions{}), 2)

	assert.True(t, vis.IsDisposed(), "visible-only groupings are dropped")
	vis2 := d.GroupBy(mustGrouping(t, d, "series"), GroupOptions{Visible: Bool(true)})
	assert.NotSame(t, vis, vis2)
	assert.Equal(t, 2, vis2.Count())
	assert.Panics(t, func() { vis.Datums() })

	assert.False(t, g.IsDisposed(), "unfiltered groupings survive")
}

func TestDimensionSumAbsEmpty(t *testing.T) {
	d := newTestData(t)
	assert.Equal(t, 0.0, d.DimensionSumAbs("value"))
	_, ok := d.DimensionSum("value", SumOptions{})
	assert.False(t, ok)

	ds := loadRows(d, [3]any{"s1", "a", nil}, [3]any{"s1", "b", 2})
	assert.Equal(t, 2.0, d.DimensionSumAbs("value"))
	require.True(t, ds[1].SetVisible(false))
	assert.Equal(t, 0.0, d.DimensionSumAbs("value"), "no visible values")
}

func TestStructureChangeDisposesDerived(t *testing.T) {
	d := newTestData(t)
	ds := loadRows(d, [3]any{"s1", "a", 1}, [3]any{"s1", "b", 2})
	g := d.GroupBy(mustGrouping(t, d, "series"), GroupOptions{})
	assert.Equal(t, 3.0, d.DimensionSumAbs("value"))

	assert.Equal(t, 1, d.Remove(ds[:1]))
	assert.True(t, g.IsDisposed())
	assert.Equal(t, 2.0, d.DimensionSumAbs("value"))
	assert.Len(t, d.Dimension("category").Atoms(AtomsOptions{Visible: Bool(true)}), 1)
}

func TestWhereAndPartData(t *testing.T) {
	ct := NewComplexType()
	_, err := ct.AddDimension("category", DimensionSpec{})
	require.NoError(t, err)
	_, err = ct.AddDimension(PartDimension, DimensionSpec{})
	require.NoError(t, err)
	d := New(ct, Options{})
	main := NewDatum(d, map[string]any{"category": "a", PartDimension: "0"}, DatumOptions{})
	trend := NewDatum(d, map[string]any{"category": "a", PartDimension: "trend"}, DatumOptions{Trend: "linear"})
	d.Load([]*Datum{main, trend}, LoadOptions{})

	assert.Equal(t, []*Datum{main}, d.PartData("0").Datums())
	assert.Equal(t, []*Datum{trend}, d.PartData("trend").Datums())
	assert.True(t, trend.IsVirtual())
	assert.Same(t, d.PartData("0"), d.PartData("0"))
}

func TestTranslationEndToEnd(t *testing.T) {
	md := Metadata{
		{Name: "City", Type: ColumnString, Index: 0},
		{Name: "Date", Type: ColumnString, Index: 1},
		{Name: "Sales", Type: ColumnNumeric, Index: 2},
	}
	rows := [][]any{
		{"London", "2011-06-05", 72},
		{"Paris", "2011-06-05", 27},
		{"London", "2011-06-06", 80},
		{nil, nil, nil},
	}
	tr := NewTranslation(md, TranslationOptions{
		Readers: []ReaderSpec{{Names: []string{"series", "category", "value"}}},
	})
	p := NewComplexTypeProject(nil, nil)
	require.NoError(t, tr.Configure(p))
	ct, err := p.ConfigureComplexType()
	require.NoError(t, err)

	data := New(ct, Options{})
	data.Load(tr.Datums(data, rows), LoadOptions{})
	require.Equal(t, 3, data.Count(), "all-null rows are dropped")

	g := data.GroupBy(mustGrouping(t, data, "series,category"), GroupOptions{})
	require.Len(t, g.Children(), 3)

	first := data.Datums()[0]
	assert.Equal(t, 72.0, first.Value())
	assert.Equal(t, 72, first.RawValue())
	assert.Equal(t, strconv.Itoa(first.ID()), first.Key())
}

func TestTranslationDefaultReaders(t *testing.T) {
	md := Metadata{
		{Name: "Region", Type: ColumnString},
		{Name: "Product", Type: ColumnString},
		{Name: "Qty", Type: ColumnInteger},
		{Name: "Price", Type: ColumnNumeric},
	}
	tr := NewTranslation(md, TranslationOptions{MeasuresRole: "value"})
	p := NewComplexTypeProject(nil, nil)
	require.NoError(t, tr.Configure(p))
	assert.Equal(t, map[int]string{0: "series", 1: "category", 2: "value", 3: "value2"}, tr.Readers())
	assert.Equal(t, "valueRole.dim", tr.DiscriminatorDimension())

	ct, err := p.ConfigureComplexType()
	require.NoError(t, err)
	data := New(ct, Options{})
	ds := tr.Datums(data, [][]any{{"North", "Pens", 3, 1.5}})
	require.Len(t, ds, 2)
	assert.Equal(t, "value", ds[0].Atom("valueRole.dim").Value)
	assert.Equal(t, 3.0, ds[0].Atom("value").Value)
	assert.True(t, ds[0].Atom("value2").IsNull())
	assert.Equal(t, "value2", ds[1].Atom("valueRole.dim").Value)
	assert.Equal(t, 1.5, ds[1].Atom("value2").Value)
}

func TestTranslationBadReader(t *testing.T) {
	tr := NewTranslation(Metadata{{Name: "a", Type: ColumnString}}, TranslationOptions{
		Readers: []ReaderSpec{{Names: []string{"category"}, Indexes: []int{3}}},
	})
	err := tr.Configure(NewComplexTypeProject(nil, nil))
	assert.ErrorIs(t, err, ErrArgumentInvalid)
}
