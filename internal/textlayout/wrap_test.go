/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lineTexts(lines []WrappedLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func TestWrap_Greedy(t *testing.T) {
	spec := FontSpec{Size: 2} // 1 unit per rune
	got := Wrap(fixedMeasurer{}, spec, "Position: Software Engineer", 19)
	want := []string{"Position: Software", "Engineer"}
	if diff := cmp.Diff(want, lineTexts(got)); diff != "" {
		t.Fatalf("wrap mismatch (-want +got):\n%s", diff)
	}
	for _, l := range got {
		if l.Overflow || l.Width > 19 {
			t.Fatalf("line exceeds budget: %+v", l)
		}
	}
}

func TestWrap_CollapsesWhitespaceAndFlushesTail(t *testing.T) {
	spec := FontSpec{Size: 2}
	got := Wrap(fixedMeasurer{}, spec, "  a   b\tc\n d ", 100)
	if diff := cmp.Diff([]string{"a b c d"}, lineTexts(got)); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
	if Wrap(fixedMeasurer{}, spec, " \t ", 100) != nil {
		t.Fatalf("whitespace-only input should produce no lines")
	}
}

func TestWrap_UnbreakableWord(t *testing.T) {
	spec := FontSpec{Size: 2}
	got := Wrap(fixedMeasurer{}, spec, "to supercalifragilistic be", 10)
	want := []WrappedLine{
		{Text: "to", Width: 2},
		{Text: "supercalifragilistic", Width: 20, Overflow: true},
		{Text: "be", Width: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestWrap_LinesWithinBudget(t *testing.T) {
	texts := []string{
		"Name: Dat Tran Ba",
		"Position: Software Engineer",
		"Company: dattb.com Vietnam",
		"The quick brown fox jumps over the lazy dog again and again",
	}
	m := NewFaceMeasurer(NewOTProvider(nil))
	defer m.Close()
	spec := FontSpec{Family: DefaultFamily, Size: 18}
	for _, text := range texts {
		widest := 0.0
		for _, w := range strings.Fields(text) {
			widest = max(widest, m.MeasureWidth(spec, w))
		}
		for _, budget := range []float64{widest, widest * 1.5, widest * 3, 1000} {
			for _, l := range Wrap(m, spec, text, budget) {
				if l.Width > budget || l.Overflow {
					t.Fatalf("%q at budget %.1f: line %q measures %.1f", text, budget, l.Text, l.Width)
				}
			}
		}
	}
}

func TestWrap_Idempotent(t *testing.T) {
	m := NewFaceMeasurer(NewOTProvider(nil))
	defer m.Close()
	spec := FontSpec{Family: DefaultFamily, Size: 16}
	text := "Company: dattb.com Vietnam, Ho Chi Minh City, District One"
	for _, budget := range []float64{60, 120, 200} {
		first := Wrap(m, spec, text, budget)
		for _, l := range first {
			again := Wrap(m, spec, l.Text, budget)
			if diff := cmp.Diff([]WrappedLine{l}, again); diff != "" {
				t.Fatalf("re-wrapping %q changed it (-want +got):\n%s", l.Text, diff)
			}
		}
	}
}
