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
	"strings"
)

// PageSize is a page extent in points.
type PageSize struct {
	W, H float64
}

// PageSizeName represents a named page format.
type PageSizeName string

const (
	PageA4     PageSizeName = "a4"
	PageA5     PageSizeName = "a5"
	PageLetter PageSizeName = "letter"
	PageLegal  PageSizeName = "legal"
)

var pageSizes = map[PageSizeName]PageSize{
	PageA4:     {W: 595.28, H: 841.89},
	PageA5:     {W: 419.53, H: 595.28},
	PageLetter: {W: 612, H: 792},
	PageLegal:  {W: 612, H: 1008},
}

// PageSizeByName resolves a named format, case-insensitively. An empty name
// resolves to A4. A "landscape" suffix (e.g. "a4-landscape") swaps the sides.
func PageSizeByName(name string) (PageSize, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	landscape := false
	if base, ok := strings.CutSuffix(n, "-landscape"); ok {
		n, landscape = base, true
	}
	if n == "" {
		n = string(PageA4)
	}
	ps, ok := pageSizes[PageSizeName(n)]
	if !ok {
		return PageSize{}, fmt.Errorf("unknown page size: %s", name)
	}
	if landscape {
		ps.W, ps.H = ps.H, ps.W
	}
	return ps, nil
}
