/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"image/color"

	"infostamp/internal/compose"
)

var (
	guideRegion     = color.RGBA{R: 255, A: 255}
	guideImageArea  = color.RGBA{A: 255}
	guideImageInset = color.RGBA{R: 255, G: 255, A: 255}
)

// DebugGuides strokes the full region in red, the image area in black and
// the padded image box in yellow. The image rectangles are drawn only when
// the plan has an image area.
func DebugGuides(s PageSurface, plan *compose.CompositionPlan) {
	s.SetLineWidth(1)
	s.SetStrokeColor(guideRegion)
	s.StrokeRect(plan.Region())

	area := plan.ImageArea()
	if area.W <= 0 || area.H <= 0 {
		return
	}
	s.SetStrokeColor(guideImageArea)
	s.StrokeRect(area)
	if box, ok := plan.ImageBox(); ok {
		s.SetStrokeColor(guideImageInset)
		s.StrokeRect(box)
	}
}
