// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

// onDatumSelectedChanged is the single path through which a datum's
// selection change reaches the caches. Only owners receive it.
func (d *Data) onDatumSelectedChanged(dt *Datum, selected bool) {
	if dt.isNull {
		panic("selection changed on a null datum")
	}
	if !d.IsOwner() {
		panic("selection notification on a non-owner data")
	}
	if !d.Contains(dt) {
		return
	}
	if selected {
		d.selected[dt.id] = dt
	} else {
		delete(d.selected, dt.id)
	}
}

// onDatumVisibleChanged is the single path through which a datum's
// visibility change reaches the caches. The owner broadcasts it to
// every node that contains the datum.
func (d *Data) onDatumVisibleChanged(dt *Datum, visible bool) {
	if dt.isNull {
		panic("visibility changed on a null datum")
	}
	if !d.IsOwner() {
		panic("visibility notification on a non-owner data")
	}
	d.propagateVisible(dt, visible)
}

func (d *Data) propagateVisible(dt *Datum, visible bool) {
	if d.disposed || !d.Contains(dt) {
		return
	}
	if visible {
		d.visible[dt.id] = dt
	} else {
		delete(d.visible, dt.id)
	}
	d.sumCache = nil
	for _, dim := range d.dims {
		dim.onDatumVisibleChanged()
	}
	d.dropVisibleGroupings()
	for _, c := range d.children {
		c.propagateVisible(dt, visible)
	}
	for _, c := range d.linkChildren {
		c.propagateVisible(dt, visible)
	}
}

// dropVisibleGroupings disposes the cached groupings whose membership
// depends on datum visibility.
func (d *Data) dropVisibleGroupings() {
	for k, e := range d.groupCache {
		if e.visibleDependent {
			delete(d.groupCache, k)
			e.data.Dispose()
		}
	}
}

// SelectedCount returns the number of selected non-null datums of d.
func (d *Data) SelectedCount() int {
	if d.IsOwner() {
		return len(d.selected)
	}
	n := 0
	for _, dt := range d.datums {
		if dt.isSelected {
			n++
		}
	}
	return n
}

// SelectedDatums returns the selected datums of d in load order.
func (d *Data) SelectedDatums() []*Datum {
	if d.IsOwner() && len(d.selected) == 0 {
		return nil
	}
	return d.Query(DatumsOptions{Selected: Bool(true)})
}

// ReplaceSelected makes datums the only selected datums of the owner
// and reports whether the selected set changed. Datums that are
// already selected are left untouched.
func (d *Data) ReplaceSelected(datums []*Datum) bool {
	owner := d.Owner()
	want := make(map[int]bool, len(datums))
	for _, dt := range datums {
		if !dt.isNull {
			want[dt.id] = true
		}
	}
	changed := owner.ClearSelected(func(dt *Datum) bool { return !want[dt.id] })
	if SetSelected(datums, true) {
		changed = true
	}
	return changed
}

// ClearSelected deselects the owner's selected datums for which match
// returns true, or all of them if match is nil, and reports whether
// anything changed.
func (d *Data) ClearSelected(match func(*Datum) bool) bool {
	owner := d.Owner()
	if len(owner.selected) == 0 {
		return false
	}
	var off []*Datum
	for _, dt := range owner.selected {
		if match == nil || match(dt) {
			off = append(off, dt)
		}
	}
	return SetSelected(off, false)
}

// SetSelected sets the selected state of every datum and reports
// whether any changed.
func SetSelected(datums []*Datum, selected bool) bool {
	changed := false
	for _, dt := range datums {
		if dt.SetSelected(selected) {
			changed = true
		}
	}
	return changed
}

// SetVisible sets the visible state of every datum and reports
// whether any changed.
func SetVisible(datums []*Datum, visible bool) bool {
	changed := false
	for _, dt := range datums {
		if dt.SetVisible(visible) {
			changed = true
		}
	}
	return changed
}

// IsSelectedOn reports whether datums count as selected: all non-null
// datums selected, or, if any is true, at least one. Null datums are
// ignored.
func IsSelectedOn(datums []*Datum, any bool) bool {
	seen := false
	for _, dt := range datums {
		if dt.isNull {
			continue
		}
		seen = true
		if any && dt.isSelected {
			return true
		}
		if !any && !dt.isSelected {
			return false
		}
	}
	return seen && !any
}

// ToggleSelected selects all datums, or deselects them if they count
// as selected (see IsSelectedOn).
func ToggleSelected(datums []*Datum, any bool) bool {
	if len(datums) == 0 {
		return false
	}
	return SetSelected(datums, !IsSelectedOn(datums, any))
}

// IsVisibleOn reports whether all non-null datums are visible.
func IsVisibleOn(datums []*Datum) bool {
	for _, dt := range datums {
		if !dt.isNull && !dt.isVisible {
			return false
		}
	}
	return true
}

// ToggleVisible hides all datums if all are visible, and shows all of
// them otherwise.
func ToggleVisible(datums []*Datum) bool {
	if len(datums) == 0 {
		return false
	}
	return SetVisible(datums, !IsVisibleOn(datums))
}
