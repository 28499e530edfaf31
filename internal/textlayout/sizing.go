/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "strings"

// SizingRequest is the input of a FontSizingStrategy. Texts holds one entry
// per logical line; Font.Size is ignored.
type SizingRequest struct {
	Texts     []string
	Font      FontSpec
	MaxWidth  float64
	MaxHeight float64
}

// SizingResult carries the chosen size. Overflow is set when even the floor
// size does not satisfy the budget; Size is then the floor.
type SizingResult struct {
	Size     float64
	Overflow bool
}

// FontSizingStrategy picks a font size for a request. Callers choose the
// strategy explicitly per destination.
type FontSizingStrategy interface {
	Name() string
	Solve(m Measurer, req SizingRequest) SizingResult
}

// GrowThenBackOff grows the size by Step while every unwrapped entry still
// fits MaxWidth, and backs off when the start size is already too wide. The
// result is the largest step size at which all entries fit. Height is not
// considered; raster destinations grow to fit instead.
type GrowThenBackOff struct {
	Start, Step, Min, Max float64
}

func (GrowThenBackOff) Name() string { return "grow-then-back-off" }

func (g GrowThenBackOff) withDefaults() GrowThenBackOff {
	if g.Start <= 0 {
		g.Start = 12
	}
	if g.Step <= 0 {
		g.Step = 1
	}
	if g.Min <= 0 {
		g.Min = 5
	}
	if g.Max <= 0 {
		g.Max = 256
	}
	if g.Max < g.Min {
		g.Max = g.Min
	}
	return g
}

func (g GrowThenBackOff) Solve(m Measurer, req SizingRequest) SizingResult {
	g = g.withDefaults()
	size := clamp(g.Start, g.Min, g.Max)

	var texts []string
	for _, t := range req.Texts {
		if strings.TrimSpace(t) != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return SizingResult{Size: size}
	}
	fits := func(s float64) bool {
		spec := req.Font.WithSize(s)
		for _, t := range texts {
			if m.MeasureWidth(spec, t) > req.MaxWidth {
				return false
			}
		}
		return true
	}

	if fits(size) {
		for size+g.Step <= g.Max && fits(size+g.Step) {
			size += g.Step
		}
		return SizingResult{Size: size}
	}
	for size-g.Step >= g.Min {
		size -= g.Step
		if fits(size) {
			return SizingResult{Size: size}
		}
	}
	return SizingResult{Size: g.Min, Overflow: !fits(g.Min)}
}

// ShrinkThenGrowBounded sizes text for a fixed height budget. Every entry
// counts as one line of height Size. Starting at Start it shrinks by Step
// while the block is taller than MaxHeight, otherwise grows by Step while the
// block fills less than FillRatio of MaxHeight and the grown block still fits.
// The result stays within [Min, Max].
type ShrinkThenGrowBounded struct {
	Start, Step, Min, Max, FillRatio float64
}

func (ShrinkThenGrowBounded) Name() string { return "shrink-then-grow" }

func (s ShrinkThenGrowBounded) withDefaults() ShrinkThenGrowBounded {
	if s.Start <= 0 {
		s.Start = 12
	}
	if s.Step <= 0 {
		s.Step = 0.5
	}
	if s.Min <= 0 {
		s.Min = 5
	}
	if s.Max <= 0 {
		s.Max = 20
	}
	if s.Max < s.Min {
		s.Max = s.Min
	}
	if s.FillRatio <= 0 || s.FillRatio > 1 {
		s.FillRatio = 0.8
	}
	return s
}

func (s ShrinkThenGrowBounded) Solve(_ Measurer, req SizingRequest) SizingResult {
	s = s.withDefaults()
	size := clamp(s.Start, s.Min, s.Max)
	n := float64(len(req.Texts))
	if n == 0 {
		return SizingResult{Size: size}
	}
	avail := req.MaxHeight
	for {
		total := n * size
		switch {
		case total > avail:
			if size <= s.Min {
				return SizingResult{Size: s.Min, Overflow: true}
			}
			size = max(size-s.Step, s.Min)
		case total < s.FillRatio*avail && size < s.Max && n*min(size+s.Step, s.Max) <= avail:
			size = min(size+s.Step, s.Max)
		default:
			return SizingResult{Size: size}
		}
	}
}

func clamp(v, lo, hi float64) float64 { return min(max(v, lo), hi) }
