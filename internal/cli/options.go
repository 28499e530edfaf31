/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"fmt"
	"io"

	"infostamp/internal/compose"
	"infostamp/internal/config"
	"infostamp/internal/export"
	"infostamp/internal/textlayout"
)

func rasterOptions(c config.RasterConfig) (export.RasterOptions, error) {
	lib := textlayout.DefaultLibrary()
	if c.FontFile != "" {
		lib = textlayout.NewFontLibrary()
		if err := lib.LoadTTF(c.FontFamily, textlayout.StylePlain, c.FontFile); err != nil {
			return export.RasterOptions{}, err
		}
	}
	fg, err := config.ParseHexColor(c.TextColor)
	if err != nil {
		return export.RasterOptions{}, fmt.Errorf("text color: %w", err)
	}
	opts := export.RasterOptions{
		Font:      textlayout.FontSpec{Family: c.FontFamily},
		Padding:   c.Padding,
		Library:   lib,
		TextColor: fg,
		Sizing: textlayout.GrowThenBackOff{
			Start: c.GrowStart, Step: c.GrowStep, Min: c.GrowMin, Max: c.GrowMax,
		},
	}
	if c.Background != "" {
		bg, err := config.ParseHexColor(c.Background)
		if err != nil {
			return export.RasterOptions{}, fmt.Errorf("background: %w", err)
		}
		opts.Background = bg
	}
	return opts, nil
}

func regionOptions(c config.RegionConfig) (export.RegionOptions, error) {
	split, ok := compose.SplitByName(c.Split)
	if !ok {
		return export.RegionOptions{}, fmt.Errorf("unknown split %q", c.Split)
	}
	return export.RegionOptions{
		Font:    textlayout.FontSpec{Family: c.FontFamily},
		Padding: c.Padding,
		Split:   &split,
		Debug:   c.Debug,
		Sizing: textlayout.ShrinkThenGrowBounded{
			Start: c.ShrinkStart, Step: c.ShrinkStep, Min: c.ShrinkMin, Max: c.ShrinkMax, FillRatio: c.FillRatio,
		},
	}, nil
}

func printWarnings(w io.Writer, ws []compose.Warning) {
	for _, warn := range ws {
		_, _ = fmt.Fprintf(w, "warning: %s\n", warn)
	}
}
