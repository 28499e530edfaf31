/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "strings"

// WrappedLine is one output line of Wrap. Overflow is set when the line is a
// single word that is wider than the budget on its own.
type WrappedLine struct {
	Text     string
	Width    float64
	Overflow bool
}

// Wrap greedily packs the whitespace-separated words of text into lines no
// wider than maxWidth at spec. Words are never split; an over-wide word is
// emitted on its own line with Overflow set. Returns nil when text has no words.
func Wrap(m Measurer, spec FontSpec, text string, maxWidth float64) []WrappedLine {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []WrappedLine
	cur := words[0]
	for _, w := range words[1:] {
		candidate := cur + " " + w
		if m.MeasureWidth(spec, candidate) <= maxWidth {
			cur = candidate
			continue
		}
		lines = append(lines, measureLine(m, spec, cur, maxWidth))
		cur = w
	}
	return append(lines, measureLine(m, spec, cur, maxWidth))
}

func measureLine(m Measurer, spec FontSpec, text string, maxWidth float64) WrappedLine {
	w := m.MeasureWidth(spec, text)
	return WrappedLine{Text: text, Width: w, Overflow: w > maxWidth}
}
