/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compose

import "fmt"

// Condition classifies a non-fatal layout problem.
type Condition int

const (
	// LayoutOverflow: the text block is taller than its area even at the floor size.
	LayoutOverflow Condition = iota + 1
	// UnbreakableWordOverflow: a single word is wider than the line budget.
	UnbreakableWordOverflow
)

func (c Condition) String() string {
	switch c {
	case LayoutOverflow:
		return "layout-overflow"
	case UnbreakableWordOverflow:
		return "unbreakable-word-overflow"
	default:
		return fmt.Sprintf("condition(%d)", int(c))
	}
}

// Warning is reported alongside a still usable result. Line is the index of
// the placed line concerned, or -1 for the whole block.
type Warning struct {
	Condition Condition
	Line      int
	Text      string
	Detail    string
}

func (w Warning) String() string {
	if w.Line < 0 {
		return fmt.Sprintf("%s: %s", w.Condition, w.Detail)
	}
	return fmt.Sprintf("%s: line %d %q: %s", w.Condition, w.Line, w.Text, w.Detail)
}

// HasCondition reports whether any warning carries c.
func HasCondition(ws []Warning, c Condition) bool {
	for _, w := range ws {
		if w.Condition == c {
			return true
		}
	}
	return false
}
