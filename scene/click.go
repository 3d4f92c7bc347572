// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"strings"

	"github.com/webdetails/ccc-sub011/cdo"
)

// ClickMode selects what clicking a scene does to its datums.
type ClickMode int

const (
	ClickNone ClickMode = iota
	ClickToggleSelected
	ClickToggleVisible
)

var clickModeNames = map[ClickMode]string{
	ClickNone:           "none",
	ClickToggleSelected: "toggleSelected",
	ClickToggleVisible:  "toggleVisible",
}

func (m ClickMode) String() string {
	if s, ok := clickModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("ClickMode(%d)", int(m))
}

// ParseClickMode parses a click mode name, case-insensitively.
func ParseClickMode(s string) (ClickMode, error) {
	for m, name := range clickModeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return ClickNone, fmt.Errorf("unknown click mode %q", s)
}

// A ClickBehavior handles clicks on scenes.
type ClickBehavior interface {
	// Click applies a click on s and reports whether any datum
	// changed state.
	Click(s *Scene) bool

	// IsOn reports whether s is rendered as on.
	IsOn(s *Scene) bool
}

// NewClickBehavior returns the behavior of mode.
func NewClickBehavior(mode ClickMode) ClickBehavior {
	switch mode {
	case ClickToggleSelected:
		return toggleSelected{}
	case ClickToggleVisible:
		return toggleVisible{}
	}
	return noClick{}
}

type noClick struct{}

func (noClick) Click(*Scene) bool { return false }
func (noClick) IsOn(*Scene) bool  { return true }

type toggleSelected struct{}

func (toggleSelected) Click(s *Scene) bool {
	return cdo.ToggleSelected(s.Datums(), true)
}

// IsOn is true if some datum of s is selected or, when nothing in the
// chart is selected, always.
func (toggleSelected) IsOn(s *Scene) bool {
	ds := s.Datums()
	if len(ds) > 0 && ds[0].Owner().SelectedCount() == 0 {
		return true
	}
	return cdo.IsSelectedOn(ds, true)
}

type toggleVisible struct{}

func (toggleVisible) Click(s *Scene) bool {
	return cdo.ToggleVisible(s.Datums())
}

func (toggleVisible) IsOn(s *Scene) bool {
	return cdo.IsVisibleOn(s.Datums())
}
