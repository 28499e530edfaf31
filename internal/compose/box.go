/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compose

// Axis-aligned boxes tagged with the coordinate convention of their destination.
// Raster surfaces put the origin at the top-left with y growing down; page
// surfaces put it at the bottom-left with y growing up. A box always carries
// which one applies so that the planner never has to guess.

import (
	"errors"
	"math"
)

// Convention is the vertical orientation of a coordinate system.
type Convention int

const (
	ConventionUnset Convention = iota
	TopDown                    // raster: origin top-left, y down
	BottomUp                   // page: origin bottom-left, y up
)

func (c Convention) String() string {
	switch c {
	case TopDown:
		return "top-down"
	case BottomUp:
		return "bottom-up"
	default:
		return "unset"
	}
}

// ErrConventionUnset is returned when a box does not declare its convention.
var ErrConventionUnset = errors.New("layout box has no coordinate convention")

// LayoutBox is a rectangle in its destination's coordinate system. (X, Y) is
// the min corner: top-left for TopDown, bottom-left for BottomUp.
type LayoutBox struct {
	X, Y       float64
	W, H       float64
	Convention Convention
}

// Box is shorthand for a LayoutBox literal.
func Box(x, y, w, h float64, c Convention) LayoutBox {
	return LayoutBox{X: x, Y: y, W: w, H: h, Convention: c}
}

// Right is the x coordinate of the right edge.
func (b LayoutBox) Right() float64 { return b.X + b.W }

// Top is the y coordinate of the visually upper edge.
func (b LayoutBox) Top() float64 {
	if b.Convention == BottomUp {
		return b.Y + b.H
	}
	return b.Y
}

// Bottom is the y coordinate of the visually lower edge.
func (b LayoutBox) Bottom() float64 {
	if b.Convention == BottomUp {
		return b.Y
	}
	return b.Y + b.H
}

// Inset returns a box inset by dx,dy on all sides (negative grows).
func (b LayoutBox) Inset(dx, dy float64) LayoutBox {
	return LayoutBox{X: b.X + dx, Y: b.Y + dy, W: b.W - 2*dx, H: b.H - 2*dy, Convention: b.Convention}
}

// ContainsSpan reports whether [x0, x1] lies within the horizontal extent.
func (b LayoutBox) ContainsSpan(x0, x1 float64) bool {
	const eps = 1e-9
	return x0 >= b.X-eps && x1 <= b.Right()+eps
}

// Split partitions a region into an image area on top and a text area below.
// ImageFraction is the image share of the total height; ImagePadding is
// applied on each side of the image area to get the image box.
type Split struct {
	ImageFraction float64
	ImagePadding  float64
}

var (
	// SplitCaption gives 30% to the image and 70% to the caption text.
	SplitCaption = Split{ImageFraction: 0.3, ImagePadding: 5}
	// SplitSignature gives 60% to the image and 40% to the text.
	SplitSignature = Split{ImageFraction: 0.6, ImagePadding: 5}
)

// SplitByName maps "caption" and "signature" to their presets.
func SplitByName(name string) (Split, bool) {
	switch name {
	case "caption":
		return SplitCaption, true
	case "signature", "":
		return SplitSignature, true
	}
	return Split{}, false
}

// Partition carves b into the image area (visual top) and text area (below).
func (s Split) Partition(b LayoutBox) (imageArea, textArea LayoutBox) {
	f := min(max(s.ImageFraction, 0), 1)
	imageH := b.H * f
	textH := b.H - imageH
	imageArea, textArea = b, b
	imageArea.H, textArea.H = imageH, textH
	if b.Convention == BottomUp {
		imageArea.Y = b.Y + textH
	} else {
		textArea.Y = b.Y + imageH
	}
	return imageArea, textArea
}

// FitImage scales a w x h image to fit inside box keeping its aspect ratio,
// centered. Degenerate sizes return box unchanged.
func FitImage(w, h float64, box LayoutBox) LayoutBox {
	if w <= 0 || h <= 0 || box.W <= 0 || box.H <= 0 {
		return box
	}
	scale := math.Min(box.W/w, box.H/h)
	fw, fh := w*scale, h*scale
	return LayoutBox{
		X:          box.X + (box.W-fw)/2,
		Y:          box.Y + (box.H-fh)/2,
		W:          fw,
		H:          fh,
		Convention: box.Convention,
	}
}
