// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package panel lays out the legend and title panels of a chart.
package panel

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const ellipsis = "..."

// TextMetrics measures text set in a font face.
type TextMetrics struct {
	face font.Face
}

// NewTextMetrics returns metrics for face. A nil face means
// basicfont.Face7x13.
func NewTextMetrics(face font.Face) *TextMetrics {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &TextMetrics{face}
}

func (m *TextMetrics) Face() font.Face { return m.face }

// Width returns the advance width of s.
func (m *TextMetrics) Width(s string) float64 {
	return float64(font.MeasureString(m.face, s).Ceil())
}

// Height returns the height of a line of text.
func (m *TextMetrics) Height() float64 {
	return float64(m.face.Metrics().Height.Ceil())
}

// Ascent returns the distance from the top of a line to its baseline.
func (m *TextMetrics) Ascent() float64 {
	return float64(m.face.Metrics().Ascent.Ceil())
}

// Trim shortens s with an ellipsis until it fits width. It returns ""
// if not even the ellipsis fits. A width <= 0 means unlimited.
func (m *TextMetrics) Trim(s string, width float64) string {
	if width <= 0 || m.Width(s) <= width {
		return s
	}
	rs := []rune(s)
	for n := len(rs) - 1; n >= 0; n-- {
		t := strings.TrimRight(string(rs[:n]), " ") + ellipsis
		if m.Width(t) <= width {
			return t
		}
	}
	return ""
}

// Wrap breaks s into lines no wider than width, breaking at spaces.
// Words wider than width are trimmed. A width <= 0 means unlimited.
func (m *TextMetrics) Wrap(s string, width float64) []string {
	words := strings.Fields(s)
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}
	var lines []string
	line := ""
	for _, w := range words {
		if line != "" {
			if next := line + " " + w; m.Width(next) <= width {
				line = next
				continue
			}
			lines = append(lines, line)
		}
		line = m.Trim(w, width)
	}
	if line != "" || len(lines) == 0 {
		lines = append(lines, line)
	}
	return lines
}
