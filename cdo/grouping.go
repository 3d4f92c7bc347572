// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

import (
	"fmt"
	"strings"
)

// FlattenMode controls how a grouping is turned into a tree.
type FlattenMode int

const (
	// FlattenNone creates one tree level per grouping level.
	FlattenNone FlattenMode = iota

	// FlattenLeaf creates a single level whose children are the
	// leaves of the full tree.
	FlattenLeaf
)

func (m FlattenMode) String() string {
	if m == FlattenLeaf {
		return "leaf"
	}
	return "none"
}

// A GroupingDimension is one dimension of a grouping level.
type GroupingDimension struct {
	Type    *DimensionType
	Reverse bool
}

// A GroupingLevel is a set of dimensions whose atoms together key the
// nodes of one tree level.
type GroupingLevel struct {
	Dimensions []GroupingDimension
}

// A GroupingSpec describes how to group the datums of a Data into a
// tree.
type GroupingSpec struct {
	typ     *ComplexType
	levels  []GroupingLevel
	flatten FlattenMode
	id      string
}

// ParseGrouping parses a grouping of typ's dimensions. Levels are
// separated by "|" and the dimensions of a level by ",". A dimension
// name may be followed by " desc" (or " asc") to set its order.
//
//	series|category
//	series, category desc
func ParseGrouping(text string, typ *ComplexType) (*GroupingSpec, error) {
	var levels []GroupingLevel
	for _, lt := range strings.Split(text, "|") {
		var level GroupingLevel
		for _, dt := range strings.Split(lt, ",") {
			f := strings.Fields(dt)
			if len(f) == 0 {
				continue
			}
			if len(f) > 2 {
				return nil, fmt.Errorf("%w: bad grouping dimension %q", ErrArgumentInvalid, strings.TrimSpace(dt))
			}
			gd := GroupingDimension{}
			if len(f) == 2 {
				switch strings.ToLower(f[1]) {
				case "asc":
				case "desc":
					gd.Reverse = true
				default:
					return nil, fmt.Errorf("%w: bad grouping order %q", ErrArgumentInvalid, f[1])
				}
			}
			t, ok := typ.Dimension(f[0])
			if !ok {
				return nil, fmt.Errorf("%w: grouping dimension %q is not defined", ErrArgumentInvalid, f[0])
			}
			gd.Type = t
			level.Dimensions = append(level.Dimensions, gd)
		}
		if len(level.Dimensions) > 0 {
			levels = append(levels, level)
		}
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: empty grouping %q", ErrArgumentInvalid, text)
	}
	return NewGrouping(typ, levels, FlattenNone), nil
}

// NewGrouping returns a grouping of typ with the given levels.
func NewGrouping(typ *ComplexType, levels []GroupingLevel, flatten FlattenMode) *GroupingSpec {
	g := &GroupingSpec{typ: typ, levels: levels, flatten: flatten}
	var sb strings.Builder
	for i, l := range levels {
		if i > 0 {
			sb.WriteByte('|')
		}
		for j, d := range l.Dimensions {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(d.Type.name)
			if d.Reverse {
				sb.WriteString(" desc")
			}
		}
	}
	g.id = sb.String()
	return g
}

// SingleLevel returns a one-level grouping of the named dimensions.
func SingleLevel(typ *ComplexType, names ...string) (*GroupingSpec, error) {
	return ParseGrouping(strings.Join(names, ","), typ)
}

// WithFlatten returns a copy of g with flatten mode m.
func (g *GroupingSpec) WithFlatten(m FlattenMode) *GroupingSpec {
	if g.flatten == m {
		return g
	}
	return NewGrouping(g.typ, g.levels, m)
}

// ID identifies the grouping's dimensions and their order. Groupings
// with equal IDs group datums identically, except for flattening.
func (g *GroupingSpec) ID() string { return g.id }

func (g *GroupingSpec) String() string { return g.id }

func (g *GroupingSpec) Type() *ComplexType      { return g.typ }
func (g *GroupingSpec) Levels() []GroupingLevel { return g.levels }
func (g *GroupingSpec) Flatten() FlattenMode    { return g.flatten }

// Dimensions returns the grouping's dimensions across all levels.
func (g *GroupingSpec) Dimensions() []GroupingDimension {
	var ds []GroupingDimension
	for _, l := range g.levels {
		ds = append(ds, l.Dimensions...)
	}
	return ds
}

// DimensionNames returns the names of the grouping's dimensions in
// level order.
func (g *GroupingSpec) DimensionNames() []string {
	var names []string
	for _, l := range g.levels {
		for _, d := range l.Dimensions {
			names = append(names, d.Type.name)
		}
	}
	return names
}

// FirstDimensionType returns the type of the first dimension.
func (g *GroupingSpec) FirstDimensionType() *DimensionType {
	return g.levels[0].Dimensions[0].Type
}

// LastDimensionType returns the type of the last dimension.
func (g *GroupingSpec) LastDimensionType() *DimensionType {
	l := g.levels[len(g.levels)-1]
	return l.Dimensions[len(l.Dimensions)-1].Type
}

// IsSingleDimension reports whether g has exactly one dimension.
func (g *GroupingSpec) IsSingleDimension() bool {
	return len(g.levels) == 1 && len(g.levels[0].Dimensions) == 1
}

// IsSingleLevel reports whether g has exactly one level.
func (g *GroupingSpec) IsSingleLevel() bool { return len(g.levels) == 1 }

// IsDiscrete reports whether g has several dimensions or a single
// discrete one.
func (g *GroupingSpec) IsDiscrete() bool {
	return !g.IsSingleDimension() || g.FirstDimensionType().isDiscrete
}

// effectiveLevels returns the levels used to build trees.
func (g *GroupingSpec) effectiveLevels() []GroupingLevel {
	if g.flatten != FlattenLeaf || len(g.levels) == 1 {
		return g.levels
	}
	return []GroupingLevel{{Dimensions: g.Dimensions()}}
}
