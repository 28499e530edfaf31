/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compose

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"infostamp/internal/textlayout"
)

// Advance selects the vertical distance between consecutive baselines.
type Advance int

const (
	// AdvanceLineHeight uses ceil(ascent+descent+leading). Raster destinations.
	AdvanceLineHeight Advance = iota
	// AdvanceFontSize uses the font size, matching ShrinkThenGrowBounded.
	AdvanceFontSize
)

func (a Advance) String() string {
	if a == AdvanceFontSize {
		return "font-size"
	}
	return "line-height"
}

// ErrPlanConsumed is returned by Consume after the first call.
var ErrPlanConsumed = errors.New("composition plan already consumed")

// PlacedLine is a wrapped line with its absolute baseline origin.
type PlacedLine struct {
	Text     string
	X, Y     float64
	Width    float64
	Entry    int // index into the input texts
	Overflow bool
}

// CompositionPlan is the resolved description of what to draw and where. All
// fields are read through accessors; the slices handed out are copies.
type CompositionPlan struct {
	font       textlayout.FontSpec
	convention Convention
	advance    Advance
	step       float64
	region     LayoutBox
	textBox    LayoutBox
	imageArea  LayoutBox
	imageBox   LayoutBox
	hasImage   bool
	lines      []PlacedLine
	warnings   []Warning
	consumed   atomic.Bool
}

func (p *CompositionPlan) Font() textlayout.FontSpec { return p.font }
func (p *CompositionPlan) Convention() Convention     { return p.convention }
func (p *CompositionPlan) Advance() Advance           { return p.advance }

// Step is the baseline-to-baseline distance in destination units.
func (p *CompositionPlan) Step() float64 { return p.step }

// Region is the destination box the plan was computed for. For growing
// plans its height includes the text box.
func (p *CompositionPlan) Region() LayoutBox { return p.region }

// TextBox is the area the lines are laid out in, padding included.
func (p *CompositionPlan) TextBox() LayoutBox { return p.textBox }

// ImageArea is the unpadded image share of the region. Zero without a split.
func (p *CompositionPlan) ImageArea() LayoutBox { return p.imageArea }

// ImageBox is the padded box an image is fitted into; ok is false when the
// plan carries no image.
func (p *CompositionPlan) ImageBox() (LayoutBox, bool) { return p.imageBox, p.hasImage }

func (p *CompositionPlan) Lines() []PlacedLine {
	return append([]PlacedLine(nil), p.lines...)
}

func (p *CompositionPlan) Warnings() []Warning {
	return append([]Warning(nil), p.warnings...)
}

// Consume marks the plan as used by a compositor.
func (p *CompositionPlan) Consume() error {
	if !p.consumed.CompareAndSwap(false, true) {
		return ErrPlanConsumed
	}
	return nil
}

// Request is the input of Planner.Plan.
//
// With Grow set the region height is ignored and the text box is sized to
// hold every line; only TopDown regions can grow. With Split set the region is
// partitioned and, if Image is set, the padded image box is carved from the
// image area.
type Request struct {
	Region  LayoutBox
	Texts   []string
	Font    textlayout.FontSpec
	Padding float64
	Advance Advance
	Split   *Split
	Image   bool
	Grow    bool
}

// Planner turns sized text into absolute positions.
type Planner struct {
	Measurer textlayout.Measurer
}

func (pl Planner) Plan(req Request) (*CompositionPlan, error) {
	if pl.Measurer == nil {
		return nil, errors.New("planner has no measurer")
	}
	region := req.Region
	switch region.Convention {
	case TopDown, BottomUp:
	default:
		return nil, ErrConventionUnset
	}
	if req.Grow && region.Convention != TopDown {
		return nil, fmt.Errorf("grow requires a %s region, got %s", TopDown, region.Convention)
	}
	if req.Grow && req.Split != nil {
		return nil, errors.New("grow cannot be combined with a split")
	}
	if req.Font.Size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", req.Font.Size)
	}

	p := &CompositionPlan{font: req.Font, convention: region.Convention, advance: req.Advance}
	textArea := region
	if req.Split != nil {
		p.imageArea, textArea = req.Split.Partition(region)
		if req.Image {
			p.imageBox = p.imageArea.Inset(req.Split.ImagePadding, req.Split.ImagePadding)
			p.hasImage = true
		}
	}

	pad := req.Padding
	budget := textArea.W - 2*pad
	metrics := pl.Measurer.LineMetrics(req.Font)
	if req.Advance == AdvanceFontSize {
		p.step = req.Font.Size
	} else {
		p.step = math.Ceil(metrics.LineHeight())
	}

	type wrapped struct {
		textlayout.WrappedLine
		entry int
	}
	var all []wrapped
	for i, t := range req.Texts {
		wls := textlayout.Wrap(pl.Measurer, req.Font, t, budget)
		if len(wls) == 0 {
			// a blank entry still takes one line
			wls = []textlayout.WrappedLine{{}}
		}
		for _, wl := range wls {
			all = append(all, wrapped{wl, i})
		}
	}

	if req.Grow {
		textArea.H = 0
		if len(all) > 0 {
			textArea.H = float64(len(all))*p.step + 2*pad
		}
		textArea.Y = region.Y + region.H
		region.H += textArea.H
	} else if need := float64(len(all)) * p.step; need > textArea.H-2*pad {
		p.warnings = append(p.warnings, Warning{
			Condition: LayoutOverflow,
			Line:      -1,
			Detail:    fmt.Sprintf("%d lines need %.1f, text area holds %.1f", len(all), need, textArea.H-2*pad),
		})
	}
	p.region, p.textBox = region, textArea

	x := textArea.X + pad
	y, dy := textArea.Top()+pad+metrics.Ascent, p.step
	if region.Convention == BottomUp {
		y, dy = textArea.Top()-pad-metrics.Ascent, -p.step
	}
	p.lines = make([]PlacedLine, 0, len(all))
	for i, wl := range all {
		p.lines = append(p.lines, PlacedLine{
			Text: wl.Text, X: x, Y: y, Width: wl.Width, Entry: wl.entry, Overflow: wl.Overflow,
		})
		if wl.Overflow {
			p.warnings = append(p.warnings, Warning{
				Condition: UnbreakableWordOverflow,
				Line:      i,
				Text:      wl.Text,
				Detail:    fmt.Sprintf("width %.1f exceeds budget %.1f", wl.Width, budget),
			})
		}
		y += dy
	}
	return p, nil
}
