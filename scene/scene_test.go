// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdetails/ccc-sub011/cdo"
)

func testData(t *testing.T) (*cdo.Data, []*cdo.Datum) {
	t.Helper()
	ct := cdo.NewComplexType()
	_, err := ct.AddDimension("series", cdo.DimensionSpec{ValueType: "string"})
	require.NoError(t, err)
	_, err = ct.AddDimension("value", cdo.DimensionSpec{ValueType: "number"})
	require.NoError(t, err)
	d := cdo.New(ct, cdo.Options{})
	var ds []*cdo.Datum
	for i, s := range []string{"a", "a", "b"} {
		ds = append(ds, cdo.NewDatum(d, map[string]any{"series": s, "value": i + 1}, cdo.DatumOptions{}))
	}
	d.Load(ds, cdo.LoadOptions{})
	return d, ds
}

func TestVarFallback(t *testing.T) {
	root := New(nil, nil, nil)
	child := New(root, nil, nil)
	root.SetVar("series", &Var{Value: "a", Label: "A"})

	assert.Equal(t, "a", child.Value("series"))
	assert.False(t, child.HasOwnVar("series"))
	assert.Nil(t, child.Var("missing"))
	assert.Equal(t, []*Scene{child}, root.Children())
	assert.Equal(t, 0, child.ChildIndex())
	assert.Same(t, root, child.Root())
}

func TestLazyVar(t *testing.T) {
	s := New(nil, nil, nil)
	calls := 0
	s.SetLazyVar("value", func(*Scene) *Var {
		calls++
		return &Var{Value: 1.0}
	})
	assert.True(t, s.HasOwnVar("value"))
	v1 := s.Var("value")
	v2 := s.Var("value")
	assert.Same(t, v1, v2)
	assert.Equal(t, 1, calls)
}

func TestDispose(t *testing.T) {
	root := New(nil, nil, nil)
	child := New(root, nil, nil)
	root.Dispose()
	assert.True(t, child.IsDisposed())
	assert.Panics(t, func() { child.Var("x") })
	assert.Panics(t, func() { New(root, nil, nil) })
}

func TestVarClone(t *testing.T) {
	v := &Var{Value: 2.0, Percent: &Var{Value: 0.5}}
	c := v.Clone()
	c.Percent.Value = 1.0
	assert.Equal(t, 0.5, v.Percent.Value)
	assert.True(t, NullVar().IsNull())
	assert.True(t, (*Var)(nil).IsNull())
}

func TestMemo(t *testing.T) {
	var m Memo[int]
	n := 0
	f := func() int { n++; return n }
	assert.Equal(t, 1, m.Do(1, "k", f))
	assert.Equal(t, 1, m.Do(1, "k", f))
	assert.Equal(t, 2, m.Do(2, "k", f))
	m.InvalidateScene(1)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 3, m.Do(1, "k", f))
	m.Invalidate()
	assert.Equal(t, 0, m.Len())
}

func TestClickBehavior(t *testing.T) {
	d, ds := testData(t)
	g := d.GroupBy(mustGrouping(t, d, "series"), cdo.GroupOptions{})
	a := New(nil, g.Children()[0], nil)
	b := New(nil, g.Children()[1], nil)

	sel := NewClickBehavior(ClickToggleSelected)
	assert.True(t, sel.IsOn(a), "everything is on without a selection")
	assert.True(t, sel.Click(a))
	assert.True(t, ds[0].IsSelected())
	assert.True(t, ds[1].IsSelected())
	assert.True(t, sel.IsOn(a))
	assert.False(t, sel.IsOn(b))
	assert.True(t, sel.Click(a))
	assert.Equal(t, 0, d.SelectedCount())

	vis := NewClickBehavior(ClickToggleVisible)
	assert.True(t, vis.Click(b))
	assert.False(t, ds[2].IsVisible())
	assert.False(t, vis.IsOn(b))

	none := NewClickBehavior(ClickNone)
	assert.False(t, none.Click(a))
	assert.True(t, none.IsOn(b))
}

func TestParseClickMode(t *testing.T) {
	m, err := ParseClickMode("ToggleVisible")
	require.NoError(t, err)
	assert.Equal(t, ClickToggleVisible, m)
	_, err = ParseClickMode("bogus")
	assert.Error(t, err)
}

func mustGrouping(t *testing.T, d *cdo.Data, text string) *cdo.GroupingSpec {
	t.Helper()
	g, err := cdo.ParseGrouping(text, d.Type())
	require.NoError(t, err)
	return g
}
