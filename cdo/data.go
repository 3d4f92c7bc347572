// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// A Data is a node of a hierarchical grouping of datums.
//
// The root Data owns its datums and the interning tables of its
// dimensions. Child nodes (sub-groups) and link children (derived
// views such as groupings and filters) only reference the owner's
// datums. Selection state is tracked by the owner alone; every other
// node computes it from its own datums.
//
// A Data is itself a Complex: the atoms of a group node are the
// grouping values of its level, falling back to its parent's atoms.
type Data struct {
	Complex

	typ        *ComplexType
	parent     *Data
	linkParent *Data

	dims map[string]*Dimension

	datums   []*Datum
	byID     map[int]*Datum
	byKey    map[string]*Datum
	selected map[int]*Datum // owner only
	visible  map[int]*Datum // non-null visible datums

	children      []*Data
	childrenByKey map[string]*Data
	linkChildren  []*Data

	groupCache map[string]*groupCacheEntry
	whereCache map[string]*Data
	sumCache   map[sumKey]float64

	grouping *GroupingSpec
	depth    int
	absKey   string
	absLabel string

	keySep, labelSep string
	debug            int
	log              *zap.SugaredLogger
	disposed         bool
}

// Options configures a root Data.
type Options struct {
	// KeySep separates atom keys in complex keys. Default "~".
	KeySep string

	// LabelSep separates atom labels in complex labels. Default
	// " ~ ".
	LabelSep string

	// Logger receives data-quality warnings when Debug >= 2.
	Logger *zap.SugaredLogger
	Debug  int
}

// New returns an empty root Data of type typ.
func New(typ *ComplexType, opts Options) *Data {
	if opts.KeySep == "" {
		opts.KeySep = "~"
	}
	if opts.LabelSep == "" {
		opts.LabelSep = " ~ "
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	d := &Data{
		typ:      typ,
		keySep:   opts.KeySep,
		labelSep: opts.LabelSep,
		debug:    opts.Debug,
		log:      opts.Logger,
		selected: make(map[int]*Datum),
	}
	d.init()
	d.Complex.id = nextID()
	d.Complex.owner = d
	d.Complex.atoms = newAtoms(nil)
	d.dims = make(map[string]*Dimension, len(typ.dims))
	for _, t := range typ.dims {
		d.dims[t.name] = newDimension(d, t, nil)
	}
	return d
}

func (d *Data) init() {
	d.byID = make(map[int]*Datum)
	d.byKey = make(map[string]*Datum)
	d.visible = make(map[int]*Datum)
	d.childrenByKey = make(map[string]*Data)
}

// newNode returns a non-root node of owner with the given atoms.
func newNode(owner *Data, baseAtoms *Atoms, atoms []*Atom) *Data {
	n := &Data{
		typ:      owner.typ,
		keySep:   owner.keySep,
		labelSep: owner.labelSep,
		debug:    owner.debug,
		log:      owner.log,
		dims:     make(map[string]*Dimension),
	}
	n.init()
	n.Complex.initAtoms(owner, baseAtoms, atoms)
	return n
}

// newLinkChild returns a derived node of d holding datums. Its atoms
// are d's atoms.
func (d *Data) newLinkChild(datums []*Datum) *Data {
	n := newNode(d.Owner(), d.atoms, nil)
	n.linkParent = d
	n.absKey, n.absLabel = d.absKey, d.absLabel
	n.addDatums(datums)
	d.linkChildren = append(d.linkChildren, n)
	return n
}

// addChild creates a child group of d with the given level atoms.
func (d *Data) addChild(key string, atoms []*Atom) *Data {
	n := newNode(d.Owner(), d.atoms, atoms)
	n.parent = d
	n.grouping = d.grouping
	n.depth = d.depth + 1
	n.absKey, n.absLabel = n.key, n.label
	if d.absKey != "" {
		n.absKey = d.absKey + d.keySep + n.key
	}
	if d.absLabel != "" && n.label != "" {
		n.absLabel = d.absLabel + d.labelSep + n.label
	} else if d.absLabel != "" {
		n.absLabel = d.absLabel
	}
	d.children = append(d.children, n)
	d.childrenByKey[key] = n
	return n
}

func (d *Data) addDatums(datums []*Datum) {
	for _, dt := range datums {
		d.datums = append(d.datums, dt)
		d.byID[dt.id] = dt
		if _, ok := d.byKey[dt.datumKey]; !ok {
			d.byKey[dt.datumKey] = dt
		}
		if !dt.isNull && dt.isVisible {
			d.visible[dt.id] = dt
		}
	}
}

// Type returns the complex type of the data.
func (d *Data) Type() *ComplexType { return d.typ }

// Owner returns the root Data.
func (d *Data) Owner() *Data { return d.owner }

// IsOwner reports whether d is the root Data.
func (d *Data) IsOwner() bool { return d.owner == d }

// Parent returns the parent group node, or nil.
func (d *Data) Parent() *Data { return d.parent }

// LinkParent returns the node d was derived from, or nil.
func (d *Data) LinkParent() *Data { return d.linkParent }

// Root returns the topmost node reached through parents.
func (d *Data) Root() *Data {
	for d.parent != nil {
		d = d.parent
	}
	return d
}

// Children returns the child group nodes in grouping order.
func (d *Data) Children() []*Data { return d.children }

// Child returns the child with the given composite key.
func (d *Data) Child(key string) (*Data, bool) {
	c, ok := d.childrenByKey[key]
	return c, ok
}

// LinkChildren returns the nodes derived from d.
func (d *Data) LinkChildren() []*Data { return d.linkChildren }

// Depth returns the grouping depth of d, 0 for grouping roots.
func (d *Data) Depth() int { return d.depth }

// Grouping returns the grouping that produced d, or nil.
func (d *Data) Grouping() *GroupingSpec { return d.grouping }

// AbsKey returns the keys of d and its ancestors joined by the key
// separator.
func (d *Data) AbsKey() string { return d.absKey }

// AbsLabel is like AbsKey for labels.
func (d *Data) AbsLabel() string { return d.absLabel }

func (d *Data) KeySep() string   { return d.keySep }
func (d *Data) LabelSep() string { return d.labelSep }

// IsDisposed reports whether d has been disposed.
func (d *Data) IsDisposed() bool { return d.disposed }

func (d *Data) checkAlive() {
	if d.disposed {
		panic("operation on disposed data")
	}
}

func (d *Data) rootDimension(name string) *Dimension {
	dim, ok := d.owner.dims[name]
	if !ok {
		panic(fmt.Sprintf("unknown dimension %q", name))
	}
	return dim
}

// Dimension returns d's dimension named name. It panics if the type
// has no such dimension.
func (d *Data) Dimension(name string) *Dimension {
	if dim, ok := d.dims[name]; ok {
		return dim
	}
	root := d.rootDimension(name)
	dim := newDimension(d, root.typ, root)
	d.dims[name] = dim
	return dim
}

// Datums returns d's datums in load order. The slice must not be
// modified.
func (d *Data) Datums() []*Datum {
	d.checkAlive()
	return d.datums
}

// DatumsOptions filters the datums returned by Data.Query. Nil
// filters match everything.
type DatumsOptions struct {
	Visible  *bool
	Selected *bool
	IsNull   *bool
	Where    func(*Datum) bool
}

func (o DatumsOptions) match(dt *Datum) bool {
	return (o.Visible == nil || dt.isVisible == *o.Visible) &&
		(o.Selected == nil || dt.isSelected == *o.Selected) &&
		(o.IsNull == nil || dt.isNull == *o.IsNull) &&
		(o.Where == nil || o.Where(dt))
}

// Query returns the datums of d that match opts, in load order.
func (d *Data) Query(opts DatumsOptions) []*Datum {
	d.checkAlive()
	var out []*Datum
	for _, dt := range d.datums {
		if opts.match(dt) {
			out = append(out, dt)
		}
	}
	return out
}

// Datum returns the datum with the given key.
func (d *Data) Datum(key string) (*Datum, bool) {
	dt, ok := d.byKey[key]
	return dt, ok
}

// Contains reports whether d indexes dt.
func (d *Data) Contains(dt *Datum) bool {
	_, ok := d.byID[dt.id]
	return ok
}

// Count returns the number of datums of d.
func (d *Data) Count() int { return len(d.datums) }

// VisibleCount returns the number of visible non-null datums of d.
func (d *Data) VisibleCount() int { return len(d.visible) }

// FirstDatum returns the first datum of d, preferring non-null ones.
func (d *Data) FirstDatum() *Datum {
	for _, dt := range d.datums {
		if !dt.isNull {
			return dt
		}
	}
	if len(d.datums) > 0 {
		return d.datums[0]
	}
	return nil
}

// LoadOptions configures Data.Load.
type LoadOptions struct {
	// Additive keeps the existing datums. Otherwise, existing
	// datums whose keys are not loaded again are removed.
	Additive bool
}

// Load adds datums to the root Data. A datum whose key is already
// loaded is dropped in favor of the existing instance, which keeps its
// selection and visibility state. Load panics if d is not a root or a
// datum has a different owner.
func (d *Data) Load(datums []*Datum, opts LoadOptions) {
	d.checkAlive()
	if !d.IsOwner() {
		panic("Load on a non-owner data")
	}
	if !opts.Additive {
		keep := make(map[string]bool, len(datums))
		for _, dt := range datums {
			keep[dt.datumKey] = true
		}
		var gone []*Datum
		for _, dt := range d.datums {
			if !keep[dt.datumKey] {
				gone = append(gone, dt)
			}
		}
		d.removeDatums(gone)
	}
	var added []*Datum
	for _, dt := range datums {
		if dt.owner != d {
			panic(fmt.Sprintf("%s is owned by another data", dt))
		}
		if _, ok := d.byKey[dt.datumKey]; ok {
			continue
		}
		added = append(added, dt)
		if !dt.isNull && dt.isSelected {
			d.selected[dt.id] = dt
		}
	}
	d.addDatums(added)
	d.onStructureChanged()
}

// Remove removes datums from the root Data and reports how many were
// removed.
func (d *Data) Remove(datums []*Datum) int {
	d.checkAlive()
	if !d.IsOwner() {
		panic("Remove on a non-owner data")
	}
	n := d.removeDatums(datums)
	if n > 0 {
		d.onStructureChanged()
	}
	return n
}

func (d *Data) removeDatums(datums []*Datum) int {
	gone := make(map[int]bool)
	for _, dt := range datums {
		if _, ok := d.byID[dt.id]; !ok {
			continue
		}
		gone[dt.id] = true
		delete(d.byID, dt.id)
		if d.byKey[dt.datumKey] == dt {
			delete(d.byKey, dt.datumKey)
		}
		delete(d.selected, dt.id)
		delete(d.visible, dt.id)
	}
	if len(gone) == 0 {
		return 0
	}
	kept := d.datums[:0]
	for _, dt := range d.datums {
		if !gone[dt.id] {
			kept = append(kept, dt)
		}
	}
	for i := len(kept); i < len(d.datums); i++ {
		d.datums[i] = nil
	}
	d.datums = kept
	return len(gone)
}

// onStructureChanged drops every cache that depends on the set of
// datums and disposes the derived nodes.
func (d *Data) onStructureChanged() {
	d.sumCache = nil
	for _, dim := range d.dims {
		dim.onDatumsChanged()
	}
	for _, c := range d.linkChildren {
		c.dispose()
	}
	d.linkChildren = nil
	d.groupCache = nil
	d.whereCache = nil
}

// Dispose releases d and all nodes derived from it. Disposed nodes no
// longer receive state changes; querying them panics.
func (d *Data) Dispose() {
	if d.disposed {
		return
	}
	if lp := d.linkParent; lp != nil {
		for i, c := range lp.linkChildren {
			if c == d {
				lp.linkChildren = append(lp.linkChildren[:i:i], lp.linkChildren[i+1:]...)
				break
			}
		}
		for k, e := range lp.groupCache {
			if e.data == d {
				delete(lp.groupCache, k)
			}
		}
		for k, w := range lp.whereCache {
			if w == d {
				delete(lp.whereCache, k)
			}
		}
	}
	d.dispose()
}

func (d *Data) dispose() {
	d.disposed = true
	for _, c := range d.children {
		c.dispose()
	}
	for _, c := range d.linkChildren {
		c.dispose()
	}
	d.linkChildren = nil
	d.groupCache = nil
	d.whereCache = nil
	d.sumCache = nil
}

// Where returns a derived node holding the datums of d for which f
// returns true. Results are cached by key until the datums of the
// owner change.
func (d *Data) Where(key string, f func(*Datum) bool) *Data {
	d.checkAlive()
	if w, ok := d.whereCache[key]; ok {
		return w
	}
	var datums []*Datum
	for _, dt := range d.datums {
		if f(dt) {
			datums = append(datums, dt)
		}
	}
	w := d.newLinkChild(datums)
	if d.whereCache == nil {
		d.whereCache = make(map[string]*Data)
	}
	d.whereCache[key] = w
	return w
}

// PartDimension is the name of the dimension that splits datums into
// data parts, such as the main data and trend data.
const PartDimension = "dataPart"

// PartData returns the derived node of the datums whose data part is
// part. If the type has no data part dimension, it returns d.
func (d *Data) PartData(part string) *Data {
	if _, ok := d.typ.Dimension(PartDimension); !ok {
		return d
	}
	return d.Where(PartDimension+"="+part, func(dt *Datum) bool {
		a := dt.Atom(PartDimension)
		if a.IsNull() {
			return part == "0"
		}
		return a.Key == part
	})
}

type sumKey struct {
	dim     string
	abs     bool
	visible int8 // 0 all, 1 visible, 2 invisible
}

// SumOptions configures Data.DimensionSum.
type SumOptions struct {
	Abs     bool
	Visible *bool
}

// DimensionSum returns the sum of the values of dimension name over
// the non-null datums of d. The result is cached until the datums or
// their visibility change. ok is false if no datum has a non-null
// value.
func (d *Data) DimensionSum(name string, opts SumOptions) (sum float64, ok bool) {
	d.checkAlive()
	k := sumKey{dim: name, abs: opts.Abs}
	if opts.Visible != nil {
		k.visible = 2
		if *opts.Visible {
			k.visible = 1
		}
	}
	if s, hit := d.sumCache[k]; hit {
		return s, !math.IsNaN(s)
	}
	s := math.NaN()
	for _, dt := range d.datums {
		if dt.isNull || (opts.Visible != nil && dt.isVisible != *opts.Visible) {
			continue
		}
		v, vok := ToNumber(dt.Atom(name).Value)
		if !vok {
			continue
		}
		if opts.Abs {
			v = math.Abs(v)
		}
		if math.IsNaN(s) {
			s = 0
		}
		s += v
	}
	if d.sumCache == nil {
		d.sumCache = make(map[sumKey]float64)
	}
	d.sumCache[k] = s
	return s, !math.IsNaN(s)
}

// DimensionSumAbs returns the sum of absolute values of dimension
// name over the visible non-null datums of d, or 0.
func (d *Data) DimensionSumAbs(name string) float64 {
	s, ok := d.DimensionSum(name, SumOptions{Abs: true, Visible: Bool(true)})
	if !ok {
		return 0
	}
	return s
}

func (d *Data) warnf(format string, args ...any) {
	if d.debug >= 2 {
		d.log.Warnf(format, args...)
	}
}

func (d *Data) String() string {
	return fmt.Sprintf("Data#%d[%s]", d.id, d.absKey)
}
