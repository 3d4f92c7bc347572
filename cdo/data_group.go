// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

import (
	"fmt"
	"sort"
	"strings"
)

// GroupOptions filters the datums that take part in a grouping.
type GroupOptions struct {
	Visible *bool
	IsNull  *bool

	// Where, if non-nil, further filters datums. Groupings with a
	// Where filter are cached only if WhereKey identifies it.
	Where    func(*Datum) bool
	WhereKey string
}

type groupCacheEntry struct {
	data             *Data
	visibleDependent bool
}

func (o GroupOptions) cacheKey(g *GroupingSpec, orderVersion int) (string, bool) {
	if o.Where != nil && o.WhereKey == "" {
		return "", false
	}
	b := func(p *bool) string {
		if p == nil {
			return "*"
		}
		return fmt.Sprint(*p)
	}
	return fmt.Sprintf("%s;%s;v=%s;n=%s;w=%s;o=%d",
		g.ID(), g.flatten, b(o.Visible), b(o.IsNull), o.WhereKey, orderVersion), true
}

// GroupBy groups the datums of d by g and returns the root of the
// resulting tree. The root is a link child of d holding the filtered
// datums; each level's children hold the datums with equal atoms on
// that level's dimensions, ordered by the dimensions' comparers.
//
// Results are cached until the datums of the owner change. Groupings
// filtered by visibility are also dropped when a datum's visibility
// changes.
func (d *Data) GroupBy(g *GroupingSpec, opts GroupOptions) *Data {
	d.checkAlive()
	if g.typ != d.typ {
		panic("grouping of a different complex type")
	}
	key, cacheable := opts.cacheKey(g, d.typ.orderVersion)
	if cacheable {
		if e, ok := d.groupCache[key]; ok && !e.data.disposed {
			return e.data
		}
	}
	var datums []*Datum
	for _, dt := range d.datums {
		if opts.Visible != nil && dt.isVisible != *opts.Visible {
			continue
		}
		if opts.IsNull != nil && dt.isNull != *opts.IsNull {
			continue
		}
		if opts.Where != nil && !opts.Where(dt) {
			continue
		}
		datums = append(datums, dt)
	}
	root := d.newLinkChild(datums)
	root.grouping = g
	root.groupLevels(g.effectiveLevels(), datums)
	if cacheable {
		if d.groupCache == nil {
			d.groupCache = make(map[string]*groupCacheEntry)
		}
		d.groupCache[key] = &groupCacheEntry{data: root, visibleDependent: opts.Visible != nil}
	}
	return root
}

func (d *Data) groupLevels(levels []GroupingLevel, datums []*Datum) {
	if len(levels) == 0 {
		return
	}
	level := levels[0]
	var order []*Data
	members := make(map[*Data][]*Datum)
	atoms := make([]*Atom, len(level.Dimensions))
	keys := make([]string, len(level.Dimensions))
	for _, dt := range datums {
		for i, gd := range level.Dimensions {
			a := dt.Atom(gd.Type.name)
			atoms[i] = a
			keys[i] = a.Key
		}
		// Null atoms have empty keys, so the composite key keeps
		// the position of each atom.
		k := strings.Join(keys, d.keySep)
		c, ok := d.childrenByKey[k]
		if !ok {
			c = d.addChild(k, append([]*Atom(nil), atoms...))
			order = append(order, c)
		}
		members[c] = append(members[c], dt)
	}
	sort.SliceStable(d.children, func(i, j int) bool {
		return compareLevel(level, d.children[i], d.children[j]) < 0
	})
	for _, c := range order {
		c.addDatums(members[c])
		c.groupLevels(levels[1:], members[c])
	}
}

func compareLevel(level GroupingLevel, a, b *Data) int {
	for _, gd := range level.Dimensions {
		c := gd.Type.Compare(a.Atom(gd.Type.name), b.Atom(gd.Type.name))
		if gd.Reverse {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// Leaves returns the nodes of d's tree that have no children, in tree
// order. A node without children is its own only leaf.
func (d *Data) Leaves() []*Data {
	if len(d.children) == 0 {
		return []*Data{d}
	}
	var out []*Data
	for _, c := range d.children {
		out = append(out, c.Leaves()...)
	}
	return out
}
