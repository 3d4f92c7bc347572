// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panel

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// OffColor is the swatch color of legend items that are off.
var OffColor color.Color = color.Gray{0xcc}

// Swatch returns a size by size swatch of item's color, or of
// OffColor if the item is off.
func (l *Legend) Swatch(item *LegendItem, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(l.swatchColor(item)), image.Point{}, draw.Src)
	return img
}

func (l *Legend) swatchColor(item *LegendItem) color.Color {
	if item.Color == nil || !l.IsOn(item) {
		return OffColor
	}
	return item.Color
}

// Render draws the laid out legend on a transparent image.
func (l *Legend) Render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(l.Width)), int(math.Ceil(l.Height))))
	m := l.opts.Metrics
	marker := int(l.opts.MarkerSize)
	for _, it := range l.items {
		x, y := int(it.X), int(it.Y)
		cy := y + (int(it.Height)-marker)/2
		r := image.Rect(x, cy, x+marker, cy+marker)
		draw.Draw(img, r, l.Swatch(it, marker), image.Point{}, draw.Over)

		textTop := y + (int(it.Height)-int(m.Height()))/2
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.Black),
			Face: m.Face(),
			Dot:  fixed.P(x+marker+int(l.opts.TextMargin), textTop+int(m.Ascent())),
		}
		d.DrawString(it.Text)
	}
	return img
}

// RenderScaled is like Render, with the image resampled by factor.
// Factors below 1 shrink the legend, such as 0.5 to halve it.
func (l *Legend) RenderScaled(factor float64) *image.RGBA {
	src := l.Render()
	if factor <= 0 || factor == 1 {
		return src
	}
	sb := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0,
		int(math.Round(float64(sb.Dx())*factor)),
		int(math.Round(float64(sb.Dy())*factor))))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	return dst
}
