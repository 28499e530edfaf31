/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"infostamp/internal/compose"
	applog "infostamp/internal/log"
	"infostamp/internal/textlayout"
)

// RasterOptions controls AnnotateImage. Zero values select the defaults:
// Go Regular, 20px padding, grow-then-back-off from 12px, black text on a
// transparent band.
//
// Sizing only sees a width budget: the band grows to whatever height the
// lines need, so the height budget passed to the strategy is unbounded.
type RasterOptions struct {
	Font       textlayout.FontSpec
	Padding    float64
	Sizing     textlayout.FontSizingStrategy
	Library    *textlayout.FontLibrary
	TextColor  color.Color
	Background color.Color // fill of the appended band; nil keeps it transparent
}

func (o RasterOptions) withDefaults() RasterOptions {
	if o.Font.Family == "" {
		o.Font.Family = textlayout.DefaultFamily
	}
	if o.Padding <= 0 {
		o.Padding = 20
	}
	if o.Sizing == nil {
		o.Sizing = textlayout.GrowThenBackOff{}
	}
	if o.Library == nil {
		o.Library = textlayout.DefaultLibrary()
	}
	if o.TextColor == nil {
		o.TextColor = color.Black
	}
	return o
}

// RasterResult is the output of AnnotateImage.
type RasterResult struct {
	Image    *image.RGBA
	FontSize float64
	Lines    int
	Warnings []compose.Warning
}

// AnnotateImage returns a copy of src grown downward by a band holding block,
// one "label: value" entry per line, wrapped to the image width minus padding.
// An empty block adds no band at all.
func AnnotateImage(src image.Image, block compose.TextBlock, opts RasterOptions) (*RasterResult, error) {
	if src == nil {
		return nil, fmt.Errorf("annotate image: nil source")
	}
	opts = opts.withDefaults()
	lg := applog.WithOperation(applog.WithComponent("export"), "annotate-image")

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	texts := block.Lines()

	m := textlayout.NewFaceMeasurer(textlayout.NewOTProvider(opts.Library))
	defer func() { _ = m.Close() }()

	sized := opts.Sizing.Solve(m, textlayout.SizingRequest{
		Texts:     texts,
		Font:      opts.Font,
		MaxWidth:  float64(w) - 2*opts.Padding,
		MaxHeight: math.Inf(1),
	})
	spec := opts.Font.WithSize(sized.Size)
	lg.Debug("font size solved", "strategy", opts.Sizing.Name(), "size", sized.Size, "overflow", sized.Overflow)

	plan, err := compose.Planner{Measurer: m}.Plan(compose.Request{
		Region:  compose.Box(0, 0, float64(w), float64(h), compose.TopDown),
		Texts:   texts,
		Font:    spec,
		Padding: opts.Padding,
		Advance: compose.AdvanceLineHeight,
		Grow:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("plan layout: %w", err)
	}
	if err := plan.Consume(); err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, int(plan.Region().H)))
	if opts.Background != nil {
		band := plan.TextBox()
		r := image.Rect(0, int(band.Y), w, int(band.Y+band.H))
		draw.Draw(dst, r, image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}
	draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(opts.TextColor), Face: m.Face(spec)}
	lines := plan.Lines()
	for _, l := range lines {
		d.Dot = fixed.Point26_6{X: textlayout.FloatToFixed(l.X), Y: textlayout.FloatToFixed(l.Y)}
		d.DrawString(l.Text)
	}

	warnings := plan.Warnings()
	if sized.Overflow {
		warnings = append(warnings, compose.Warning{
			Condition: compose.LayoutOverflow,
			Line:      -1,
			Detail:    fmt.Sprintf("%s found no size within the %.0f px width budget, using floor %.1f", opts.Sizing.Name(), float64(w)-2*opts.Padding, sized.Size),
		})
	}
	logWarnings(lg, warnings)
	return &RasterResult{Image: dst, FontSize: sized.Size, Lines: len(lines), Warnings: warnings}, nil
}

// AnnotateImageBytes decodes data, annotates it and encodes the result as PNG.
func AnnotateImageBytes(data []byte, block compose.TextBlock, opts RasterOptions) ([]byte, []compose.Warning, error) {
	src, _, err := DecodeImage(data)
	if err != nil {
		return nil, nil, err
	}
	res, err := AnnotateImage(src, block, opts)
	if err != nil {
		return nil, nil, err
	}
	out, err := EncodePNG(res.Image)
	if err != nil {
		return nil, nil, err
	}
	return out, res.Warnings, nil
}

// AnnotateBase64 is AnnotateImageBytes over Base64 transport.
func AnnotateBase64(b64 string, block compose.TextBlock, opts RasterOptions) (string, []compose.Warning, error) {
	src, err := DecodeBase64Image(b64)
	if err != nil {
		return "", nil, err
	}
	res, err := AnnotateImage(src, block, opts)
	if err != nil {
		return "", nil, err
	}
	out, err := EncodeBase64PNG(res.Image)
	if err != nil {
		return "", nil, err
	}
	return out, res.Warnings, nil
}
