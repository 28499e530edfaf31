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
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"infostamp/internal/compose"
	applog "infostamp/internal/log"
	"infostamp/internal/textlayout"
)

// PageSurface is the page-level drawing collaborator of AnnotateRegion.
// Coordinates are bottom-up page units; ShowText draws at the point set by
// the last MoveTo.
type PageSurface interface {
	SetFont(family string, size float64) error
	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(w float64)
	MoveTo(x, y float64)
	ShowText(text string)
	DrawImage(img image.Image, box compose.LayoutBox) error
	StrokeRect(box compose.LayoutBox)
}

// Decorator draws on top of a finished composition.
type Decorator func(s PageSurface, plan *compose.CompositionPlan)

// RegionOptions controls AnnotateRegion. Zero values select Helvetica,
// 10pt padding, the 60/40 signature split and shrink-then-grow sizing.
type RegionOptions struct {
	Font       textlayout.FontSpec
	Padding    float64
	Split      *compose.Split
	Sizing     textlayout.FontSizingStrategy
	Measurer   textlayout.Measurer
	TextColor  color.Color
	Debug      bool
	Decorators []Decorator
}

func (o RegionOptions) withDefaults() RegionOptions {
	if o.Font.Family == "" {
		o.Font.Family = "Helvetica"
	}
	if o.Padding <= 0 {
		o.Padding = 10
	}
	if o.Split == nil {
		s := compose.SplitSignature
		o.Split = &s
	}
	if o.Sizing == nil {
		o.Sizing = textlayout.ShrinkThenGrowBounded{}
	}
	if o.TextColor == nil {
		o.TextColor = color.Black
	}
	return o
}

// Report summarizes a region composition.
type Report struct {
	FontSize float64
	Lines    int
	ImageBox *compose.LayoutBox
	Warnings []compose.Warning
}

// AnnotateRegion paints an optional image and the text lines into region on
// surface. The region must be bottom-up. imageBytes may be nil; undecodable
// bytes abort with ImageDecodeError before anything is drawn.
func AnnotateRegion(surface PageSurface, region compose.LayoutBox, lines []string, imageBytes []byte, opts RegionOptions) (Report, error) {
	if surface == nil {
		return Report{}, errors.New("annotate region: nil surface")
	}
	if region.Convention != compose.BottomUp {
		return Report{}, fmt.Errorf("annotate region: region must be %s, got %s", compose.BottomUp, region.Convention)
	}
	opts = opts.withDefaults()
	if opts.Measurer == nil {
		return Report{}, errors.New("annotate region: no measurer")
	}
	lg := applog.WithOperation(applog.WithComponent("export"), "annotate-region")

	var img image.Image
	if len(imageBytes) > 0 {
		var err error
		if img, _, err = DecodeImage(imageBytes); err != nil {
			return Report{}, err
		}
	}

	_, textArea := opts.Split.Partition(region)
	sized := opts.Sizing.Solve(opts.Measurer, textlayout.SizingRequest{
		Texts:     lines,
		Font:      opts.Font,
		MaxWidth:  textArea.W - 2*opts.Padding,
		MaxHeight: textArea.H - 2*opts.Padding,
	})
	spec := opts.Font.WithSize(sized.Size)
	lg.Debug("font size solved", "strategy", opts.Sizing.Name(), "size", sized.Size, "overflow", sized.Overflow)

	plan, err := compose.Planner{Measurer: opts.Measurer}.Plan(compose.Request{
		Region:  region,
		Texts:   lines,
		Font:    spec,
		Padding: opts.Padding,
		Advance: compose.AdvanceFontSize,
		Split:   opts.Split,
		Image:   img != nil,
	})
	if err != nil {
		return Report{}, fmt.Errorf("plan layout: %w", err)
	}
	if err := plan.Consume(); err != nil {
		return Report{}, err
	}

	rep := Report{FontSize: sized.Size}
	if box, ok := plan.ImageBox(); ok {
		b := img.Bounds()
		fitted := compose.FitImage(float64(b.Dx()), float64(b.Dy()), box)
		if err := surface.DrawImage(img, fitted); err != nil {
			return Report{}, fmt.Errorf("draw image: %w", err)
		}
		rep.ImageBox = &fitted
	}

	if err := surface.SetFont(spec.Family, spec.Size); err != nil {
		return Report{}, fmt.Errorf("set font: %w", err)
	}
	surface.SetFillColor(opts.TextColor)
	placed := plan.Lines()
	for _, l := range placed {
		surface.MoveTo(l.X, l.Y)
		surface.ShowText(l.Text)
	}
	rep.Lines = len(placed)

	decorators := opts.Decorators
	if opts.Debug {
		decorators = append(decorators[:len(decorators):len(decorators)], DebugGuides)
	}
	for _, d := range decorators {
		d(surface, plan)
	}

	rep.Warnings = plan.Warnings()
	if sized.Overflow && !compose.HasCondition(rep.Warnings, compose.LayoutOverflow) {
		rep.Warnings = append(rep.Warnings, compose.Warning{
			Condition: compose.LayoutOverflow,
			Line:      -1,
			Detail:    fmt.Sprintf("%d lines do not fit %.1f at floor size %.1f", len(lines), textArea.H-2*opts.Padding, sized.Size),
		})
	}
	logWarnings(lg, rep.Warnings)
	return rep, nil
}

func logWarnings(lg *slog.Logger, ws []compose.Warning) {
	for _, w := range ws {
		lg.Warn("layout warning", "condition", w.Condition.String(), "line", w.Line, "text", w.Text, "detail", w.Detail)
	}
}
