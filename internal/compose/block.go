/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compose

import "strings"

// Entry is one labelled value of a TextBlock.
type Entry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// TextBlock is an ordered list of entries. Order is render order.
type TextBlock []Entry

// Lines renders each entry as "label: value".
func (b TextBlock) Lines() []string {
	out := make([]string, 0, len(b))
	for _, e := range b {
		out = append(out, e.Label+": "+e.Value)
	}
	return out
}

// ParseEntry splits "Label=Value" (or "Label: Value") into an Entry.
func ParseEntry(s string) (Entry, bool) {
	if i := strings.IndexByte(s, '='); i > 0 {
		return Entry{Label: strings.TrimSpace(s[:i]), Value: strings.TrimSpace(s[i+1:])}, true
	}
	if i := strings.Index(s, ":"); i > 0 {
		return Entry{Label: strings.TrimSpace(s[:i]), Value: strings.TrimSpace(s[i+1:])}, true
	}
	return Entry{}, false
}
