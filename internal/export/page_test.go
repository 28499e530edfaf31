/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"infostamp/internal/compose"
	"infostamp/internal/textlayout"
)

type halfEm struct{}

func (halfEm) MeasureWidth(spec textlayout.FontSpec, text string) float64 {
	return float64(len([]rune(text))) * spec.Size / 2
}

func (halfEm) LineMetrics(spec textlayout.FontSpec) textlayout.Metrics {
	return textlayout.Metrics{Ascent: 0.8 * spec.Size, Descent: 0.2 * spec.Size}
}

type shownText struct {
	X, Y float64
	Text string
}

type strokedRect struct {
	Box   compose.LayoutBox
	Color color.Color
}

// recordingSurface captures every draw call of a PageSurface.
type recordingSurface struct {
	font   string
	size   float64
	x, y   float64
	stroke color.Color
	texts  []shownText
	images []compose.LayoutBox
	rects  []strokedRect
	calls  int
}

func (r *recordingSurface) SetFont(family string, size float64) error {
	r.calls++
	r.font, r.size = family, size
	return nil
}
func (r *recordingSurface) SetFillColor(color.Color)     { r.calls++ }
func (r *recordingSurface) SetStrokeColor(c color.Color) { r.calls++; r.stroke = c }
func (r *recordingSurface) SetLineWidth(float64)         { r.calls++ }
func (r *recordingSurface) MoveTo(x, y float64)          { r.calls++; r.x, r.y = x, y }
func (r *recordingSurface) ShowText(text string) {
	r.calls++
	r.texts = append(r.texts, shownText{X: r.x, Y: r.y, Text: text})
}
func (r *recordingSurface) DrawImage(_ image.Image, box compose.LayoutBox) error {
	r.calls++
	r.images = append(r.images, box)
	return nil
}
func (r *recordingSurface) StrokeRect(box compose.LayoutBox) {
	r.calls++
	r.rects = append(r.rects, strokedRect{Box: box, Color: r.stroke})
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	data, err := EncodePNG(solid(w, h, color.RGBA{R: 90, G: 90, B: 90, A: 255}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

func TestAnnotateRegionFixedRectangle(t *testing.T) {
	rs := &recordingSurface{}
	lines := []string{"Line one", "Line two", "Line three"}
	rep, err := AnnotateRegion(rs, compose.Box(0, 0, 300, 100, compose.BottomUp), lines, nil, RegionOptions{
		Split:    &compose.Split{},
		Measurer: halfEm{},
	})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if 3*rep.FontSize > 80 {
		t.Fatalf("size %v overflows the 80pt budget", rep.FontSize)
	}
	if rep.FontSize != 20 {
		t.Fatalf("expected the size ceiling, got %v", rep.FontSize)
	}
	want := []shownText{{10, 74, "Line one"}, {10, 54, "Line two"}, {10, 34, "Line three"}}
	if diff := cmp.Diff(want, rs.texts, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("texts (-want +got):\n%s", diff)
	}
	if rs.font != "Helvetica" || rs.size != 20 {
		t.Fatalf("font = %q %v", rs.font, rs.size)
	}
	if len(rs.images) != 0 || len(rs.rects) != 0 || rep.ImageBox != nil {
		t.Fatalf("unexpected image or guides")
	}
}

func TestAnnotateRegionWithImage(t *testing.T) {
	rs := &recordingSurface{}
	rep, err := AnnotateRegion(rs, compose.Box(100, 100, 200, 100, compose.BottomUp),
		[]string{"Signed", "2024-01-01"}, pngBytes(t, 20, 10), RegionOptions{Measurer: halfEm{}})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if len(rs.images) != 1 || rep.ImageBox == nil {
		t.Fatalf("expected one image, got %d", len(rs.images))
	}
	want := compose.Box(150, 145, 100, 50, compose.BottomUp)
	if diff := cmp.Diff(want, rs.images[0], cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("image box (-want +got):\n%s", diff)
	}
	for _, tx := range rs.texts {
		if tx.Y >= 140 || tx.Y < 100 {
			t.Fatalf("text %q at y=%v is outside the text area", tx.Text, tx.Y)
		}
	}
}

func TestAnnotateRegionDebugGuides(t *testing.T) {
	region := compose.Box(100, 100, 200, 100, compose.BottomUp)
	rs := &recordingSurface{}
	if _, err := AnnotateRegion(rs, region, []string{"x"}, pngBytes(t, 4, 4), RegionOptions{Measurer: halfEm{}, Debug: true}); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if len(rs.rects) != 3 {
		t.Fatalf("expected 3 guide rects, got %d", len(rs.rects))
	}
	approx := cmpopts.EquateApprox(0, 1e-9)
	wantBoxes := []compose.LayoutBox{
		region,
		compose.Box(100, 140, 200, 60, compose.BottomUp),
		compose.Box(105, 145, 190, 50, compose.BottomUp),
	}
	wantColors := []color.RGBA{{R: 255, A: 255}, {A: 255}, {R: 255, G: 255, A: 255}}
	for i, r := range rs.rects {
		if diff := cmp.Diff(wantBoxes[i], r.Box, approx); diff != "" {
			t.Fatalf("rect %d (-want +got):\n%s", i, diff)
		}
		if !samePixel(wantColors[i], r.Color) {
			t.Fatalf("rect %d color = %v", i, r.Color)
		}
	}

	rs = &recordingSurface{}
	if _, err := AnnotateRegion(rs, region, []string{"x"}, nil, RegionOptions{Measurer: halfEm{}, Debug: true}); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if len(rs.rects) != 2 {
		t.Fatalf("without image expected 2 guide rects, got %d", len(rs.rects))
	}
}

func TestAnnotateRegionRunsDecoratorsAfterCompositing(t *testing.T) {
	rs := &recordingSurface{}
	var seen int
	var consumeErr error
	deco := func(s PageSurface, plan *compose.CompositionPlan) {
		seen = len(rs.texts)
		consumeErr = plan.Consume()
	}
	_, err := AnnotateRegion(rs, compose.Box(0, 0, 200, 100, compose.BottomUp), []string{"a", "b"}, nil,
		RegionOptions{Measurer: halfEm{}, Decorators: []Decorator{deco}})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if seen != 2 {
		t.Fatalf("decorator ran before text was drawn (saw %d lines)", seen)
	}
	if !errors.Is(consumeErr, compose.ErrPlanConsumed) {
		t.Fatalf("plan handed to decorator must already be consumed, got %v", consumeErr)
	}
}

func TestAnnotateRegionOverflowAtFloor(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "row"
	}
	rs := &recordingSurface{}
	rep, err := AnnotateRegion(rs, compose.Box(0, 0, 200, 100, compose.BottomUp), lines, nil, RegionOptions{Measurer: halfEm{}})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if rep.FontSize != 5 {
		t.Fatalf("expected floor size, got %v", rep.FontSize)
	}
	if len(rs.texts) != 20 {
		t.Fatalf("overflow must still draw every line, got %d", len(rs.texts))
	}
	if !compose.HasCondition(rep.Warnings, compose.LayoutOverflow) {
		t.Fatalf("expected LayoutOverflow, got %v", rep.Warnings)
	}
}

func TestAnnotateRegionRejectsBadImageBeforeDrawing(t *testing.T) {
	rs := &recordingSurface{}
	_, err := AnnotateRegion(rs, compose.Box(0, 0, 200, 100, compose.BottomUp), []string{"a"}, []byte{1, 2, 3}, RegionOptions{Measurer: halfEm{}})
	var de *ImageDecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected ImageDecodeError, got %v", err)
	}
	if rs.calls != 0 {
		t.Fatalf("surface touched %d times before failing", rs.calls)
	}
}

func TestAnnotateRegionRequiresBottomUp(t *testing.T) {
	_, err := AnnotateRegion(&recordingSurface{}, compose.Box(0, 0, 10, 10, compose.TopDown), nil, nil, RegionOptions{Measurer: halfEm{}})
	if err == nil {
		t.Fatalf("expected error for top-down region")
	}
	_, err = AnnotateRegion(&recordingSurface{}, compose.Box(0, 0, 10, 10, compose.BottomUp), nil, nil, RegionOptions{})
	if err == nil {
		t.Fatalf("expected error without measurer")
	}
}

func TestShrinkSizeMonotonicThroughRegion(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	prev := 0.0
	for h := 40.0; h <= 400; h += 15 {
		rep, err := AnnotateRegion(&recordingSurface{}, compose.Box(0, 0, 300, h, compose.BottomUp), lines, nil, RegionOptions{Measurer: halfEm{}})
		if err != nil {
			t.Fatalf("annotate: %v", err)
		}
		if rep.FontSize < prev-1e-9 || math.IsNaN(rep.FontSize) {
			t.Fatalf("size dropped from %v to %v at height %v", prev, rep.FontSize, h)
		}
		prev = rep.FontSize
	}
}

func TestAnnotateRegionKeepsBlankSpacerLine(t *testing.T) {
	rs := &recordingSurface{}
	lines := []string{"Name: A", "", "Company: C"}
	rep, err := AnnotateRegion(rs, compose.Box(100, 100, 200, 200, compose.BottomUp), lines, nil, RegionOptions{Measurer: halfEm{}})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if rep.FontSize != 16 || rep.Lines != 3 {
		t.Fatalf("size=%v lines=%d, want 16 and 3", rep.FontSize, rep.Lines)
	}
	want := []shownText{{110, 157.2, "Name: A"}, {110, 141.2, ""}, {110, 125.2, "Company: C"}}
	if diff := cmp.Diff(want, rs.texts, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("texts (-want +got):\n%s", diff)
	}
}
