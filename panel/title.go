// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panel

import (
	"fmt"
	"math"
	"strings"
)

// A Position is the side of the chart a panel docks to.
type Position string

const (
	Top    Position = "top"
	Bottom Position = "bottom"
	Left   Position = "left"
	Right  Position = "right"
)

// ParsePosition parses a panel position. "" means Top.
func ParsePosition(s string) (Position, error) {
	switch p := Position(strings.ToLower(s)); p {
	case "":
		return Top, nil
	case Top, Bottom, Left, Right:
		return p, nil
	}
	return "", fmt.Errorf("unknown position %q", s)
}

// IsVertical reports whether panels at p run along a vertical side.
func (p Position) IsVertical() bool { return p == Left || p == Right }

// TitleOptions configures a Title.
type TitleOptions struct {
	Text     string
	Position Position

	// Align is "left", "center" or "right", along the text
	// direction. "" means center.
	Align string

	Padding float64
	Metrics *TextMetrics
}

// A Title is a laid out title panel. Titles at the left or right are
// rotated, so their lines run along the side.
type Title struct {
	Lines    []string
	Position Position

	// Offsets holds the aligned offset of each line along the text
	// direction.
	Offsets []float64

	Width, Height float64
}

// NewTitle lays out opts.Text to fit length, the available extent
// along the text direction: the chart width for top and bottom
// titles, its height for left and right ones.
func NewTitle(opts TitleOptions, length float64) *Title {
	if opts.Metrics == nil {
		opts.Metrics = NewTextMetrics(nil)
	}
	if opts.Position == "" {
		opts.Position = Top
	}
	t := &Title{Position: opts.Position}
	if strings.TrimSpace(opts.Text) == "" {
		return t
	}
	avail := length - 2*opts.Padding
	if length <= 0 {
		avail = 0
	}
	t.Lines = opts.Metrics.Wrap(opts.Text, avail)
	along := 0.0
	for _, line := range t.Lines {
		along = math.Max(along, opts.Metrics.Width(line))
	}
	extent := along
	if avail > 0 {
		extent = avail
	}
	for _, line := range t.Lines {
		var off float64
		switch w := opts.Metrics.Width(line); opts.Align {
		case "left":
		case "right":
			off = extent - w
		default:
			off = (extent - w) / 2
		}
		t.Offsets = append(t.Offsets, opts.Padding+off)
	}
	across := float64(len(t.Lines))*opts.Metrics.Height() + 2*opts.Padding
	along += 2 * opts.Padding
	if t.Position.IsVertical() {
		t.Width, t.Height = across, along
	} else {
		t.Width, t.Height = along, across
	}
	return t
}
