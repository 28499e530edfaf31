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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"infostamp/internal/textlayout"
)

// halfEm advances every rune by half the font size; line height equals size.
type halfEm struct{}

func (halfEm) MeasureWidth(spec textlayout.FontSpec, text string) float64 {
	return float64(len([]rune(text))) * spec.Size / 2
}

func (halfEm) LineMetrics(spec textlayout.FontSpec) textlayout.Metrics {
	return textlayout.Metrics{Ascent: 0.8 * spec.Size, Descent: 0.2 * spec.Size}
}

var sampleBlock = TextBlock{
	{Label: "Name", Value: "Dat Tran Ba"},
	{Label: "Position", Value: "Software Engineer"},
	{Label: "Company", Value: "dattb.com Vietnam"},
}

func TestTextBlockLinesKeepOrder(t *testing.T) {
	want := []string{"Name: Dat Tran Ba", "Position: Software Engineer", "Company: dattb.com Vietnam"}
	if diff := cmp.Diff(want, sampleBlock.Lines()); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEntry(t *testing.T) {
	e, ok := ParseEntry("Name = Dat Tran Ba")
	if !ok || e.Label != "Name" || e.Value != "Dat Tran Ba" {
		t.Fatalf("unexpected entry %+v ok=%v", e, ok)
	}
	e, ok = ParseEntry("Company: dattb.com")
	if !ok || e.Label != "Company" || e.Value != "dattb.com" {
		t.Fatalf("unexpected entry %+v ok=%v", e, ok)
	}
	if _, ok := ParseEntry("no separator"); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestPlanGrowTopDown(t *testing.T) {
	p, err := Planner{Measurer: halfEm{}}.Plan(Request{
		Region:  Box(0, 0, 400, 300, TopDown),
		Texts:   sampleBlock.Lines(),
		Font:    textlayout.FontSpec{Family: "Go", Size: 10},
		Padding: 20,
		Grow:    true,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if p.Region().H != 300+3*10+40 {
		t.Fatalf("grown height = %v", p.Region().H)
	}
	tb := p.TextBox()
	if tb.Y != 300 || tb.H != 70 || tb.W != 400 {
		t.Fatalf("text box = %+v", tb)
	}
	want := []PlacedLine{
		{Text: "Name: Dat Tran Ba", X: 20, Y: 328, Width: 85, Entry: 0},
		{Text: "Position: Software Engineer", X: 20, Y: 338, Width: 135, Entry: 1},
		{Text: "Company: dattb.com Vietnam", X: 20, Y: 348, Width: 130, Entry: 2},
	}
	if diff := cmp.Diff(want, p.Lines(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	if _, ok := p.ImageBox(); ok {
		t.Fatalf("grow plan must not carry an image box")
	}
	if len(p.Warnings()) != 0 {
		t.Fatalf("unexpected warnings: %v", p.Warnings())
	}
}

func TestPlanGrowEmptyAddsNothing(t *testing.T) {
	p, err := Planner{Measurer: halfEm{}}.Plan(Request{
		Region:  Box(0, 0, 400, 300, TopDown),
		Font:    textlayout.FontSpec{Size: 12},
		Padding: 20,
		Grow:    true,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if p.Region().H != 300 || p.TextBox().H != 0 || len(p.Lines()) != 0 {
		t.Fatalf("empty plan grew: region=%+v text=%+v", p.Region(), p.TextBox())
	}
}

func TestPlanBottomUpWithSplit(t *testing.T) {
	split := SplitSignature
	p, err := Planner{Measurer: halfEm{}}.Plan(Request{
		Region:  Box(100, 100, 200, 100, BottomUp),
		Texts:   []string{"Signed by A", "2024-01-01"},
		Font:    textlayout.FontSpec{Size: 8},
		Padding: 10,
		Advance: AdvanceFontSize,
		Split:   &split,
		Image:   true,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	approx := cmpopts.EquateApprox(0, 1e-9)
	if diff := cmp.Diff(Box(100, 140, 200, 60, BottomUp), p.ImageArea(), approx); diff != "" {
		t.Fatalf("image area (-want +got):\n%s", diff)
	}
	ib, ok := p.ImageBox()
	if !ok {
		t.Fatalf("expected image box")
	}
	if diff := cmp.Diff(Box(105, 145, 190, 50, BottomUp), ib, approx); diff != "" {
		t.Fatalf("image box (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Box(100, 100, 200, 40, BottomUp), p.TextBox(), approx); diff != "" {
		t.Fatalf("text box (-want +got):\n%s", diff)
	}
	lines := p.Lines()
	if len(lines) != 2 {
		t.Fatalf("lines = %d", len(lines))
	}
	if math.Abs(lines[0].Y-123.6) > 1e-9 || math.Abs(lines[1].Y-115.6) > 1e-9 {
		t.Fatalf("baselines = %v, %v", lines[0].Y, lines[1].Y)
	}
	if lines[0].X != 110 || p.Step() != 8 || p.Advance() != AdvanceFontSize {
		t.Fatalf("x=%v step=%v advance=%v", lines[0].X, p.Step(), p.Advance())
	}
}

func TestPlanSplitWithoutImage(t *testing.T) {
	split := SplitCaption
	p, err := Planner{Measurer: halfEm{}}.Plan(Request{
		Region: Box(0, 0, 100, 100, BottomUp),
		Texts:  []string{"x"},
		Font:   textlayout.FontSpec{Size: 5},
		Split:  &split,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if _, ok := p.ImageBox(); ok {
		t.Fatalf("no image was requested")
	}
	if p.TextBox().H != 70 {
		t.Fatalf("caption split text height = %v", p.TextBox().H)
	}
}

func TestPlanReportsOverflow(t *testing.T) {
	p, err := Planner{Measurer: halfEm{}}.Plan(Request{
		Region:  Box(0, 0, 300, 40, BottomUp),
		Texts:   []string{"a", "b", "c", "d", "e"},
		Font:    textlayout.FontSpec{Size: 10},
		Padding: 10,
		Advance: AdvanceFontSize,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(p.Lines()) != 5 {
		t.Fatalf("overflowing plan must keep all lines, got %d", len(p.Lines()))
	}
	if !HasCondition(p.Warnings(), LayoutOverflow) {
		t.Fatalf("expected LayoutOverflow warning, got %v", p.Warnings())
	}
}

func TestPlanReportsUnbreakableWord(t *testing.T) {
	p, err := Planner{Measurer: halfEm{}}.Plan(Request{
		Region: Box(0, 0, 50, 500, TopDown),
		Texts:  []string{"URL: https://example.com/very/long"},
		Font:   textlayout.FontSpec{Size: 10},
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	ws := p.Warnings()
	if len(ws) != 1 || ws[0].Condition != UnbreakableWordOverflow || ws[0].Line != 1 {
		t.Fatalf("unexpected warnings %v", ws)
	}
	if ws[0].Text != "https://example.com/very/long" {
		t.Fatalf("warning text = %q", ws[0].Text)
	}
}

func TestPlanLinesStayInsideHorizontalExtent(t *testing.T) {
	texts := sampleBlock.Lines()
	for _, w := range []float64{120, 180, 240, 400, 640} {
		for _, conv := range []Convention{TopDown, BottomUp} {
			region := Box(33, 17, w, 400, conv)
			p, err := Planner{Measurer: halfEm{}}.Plan(Request{
				Region: region, Texts: texts, Font: textlayout.FontSpec{Size: 9}, Padding: 12,
			})
			if err != nil {
				t.Fatalf("plan: %v", err)
			}
			for _, l := range p.Lines() {
				if l.Overflow {
					continue
				}
				if !region.ContainsSpan(l.X, l.X+l.Width) {
					t.Fatalf("w=%v %s: line %q at [%v,%v] outside box", w, conv, l.Text, l.X, l.X+l.Width)
				}
			}
		}
	}
}

func TestPlanRejectsBadRequests(t *testing.T) {
	pl := Planner{Measurer: halfEm{}}
	font := textlayout.FontSpec{Size: 10}
	if _, err := pl.Plan(Request{Region: LayoutBox{W: 10, H: 10}, Font: font}); !errors.Is(err, ErrConventionUnset) {
		t.Fatalf("expected ErrConventionUnset, got %v", err)
	}
	if _, err := pl.Plan(Request{Region: Box(0, 0, 10, 10, BottomUp), Font: font, Grow: true}); err == nil {
		t.Fatalf("expected error for growing a bottom-up region")
	}
	split := SplitCaption
	if _, err := pl.Plan(Request{Region: Box(0, 0, 10, 10, TopDown), Font: font, Grow: true, Split: &split}); err == nil {
		t.Fatalf("expected error for grow with split")
	}
	if _, err := pl.Plan(Request{Region: Box(0, 0, 10, 10, TopDown)}); err == nil {
		t.Fatalf("expected error for zero font size")
	}
	if _, err := (Planner{}).Plan(Request{Region: Box(0, 0, 10, 10, TopDown), Font: font}); err == nil {
		t.Fatalf("expected error for missing measurer")
	}
}

func TestPlanConsumeOnce(t *testing.T) {
	p, err := Planner{Measurer: halfEm{}}.Plan(Request{
		Region: Box(0, 0, 100, 100, TopDown), Texts: []string{"x"}, Font: textlayout.FontSpec{Size: 10},
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if err := p.Consume(); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if err := p.Consume(); !errors.Is(err, ErrPlanConsumed) {
		t.Fatalf("second consume = %v", err)
	}
}

func TestPlanAccessorsReturnCopies(t *testing.T) {
	p, err := Planner{Measurer: halfEm{}}.Plan(Request{
		Region: Box(0, 0, 400, 100, TopDown), Texts: []string{"a", "b"}, Font: textlayout.FontSpec{Size: 10},
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	lines := p.Lines()
	lines[0].Text = "mutated"
	if p.Lines()[0].Text != "a" {
		t.Fatalf("plan lines were mutated through accessor")
	}
}

func TestPlanBlankEntryTakesOneLine(t *testing.T) {
	p, err := Planner{Measurer: halfEm{}}.Plan(Request{
		Region:  Box(0, 0, 200, 100, BottomUp),
		Texts:   []string{"a", "  ", "b"},
		Font:    textlayout.FontSpec{Size: 10},
		Advance: AdvanceFontSize,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	got := p.Lines()
	if len(got) != 3 || got[1].Text != "" || got[1].Entry != 1 {
		t.Fatalf("lines = %+v", got)
	}
	if got[0].Y-got[1].Y != 10 || got[1].Y-got[2].Y != 10 {
		t.Fatalf("blank line did not advance: %+v", got)
	}
}
