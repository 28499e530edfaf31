/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"infostamp/internal/compose"
	"infostamp/internal/export"
	applog "infostamp/internal/log"
)

func newRegionCmd(a *app) *cobra.Command {
	var (
		out, page, imagePath, split, fontFamily string
		x, y, w, h                              float64
		lines                                   []string
		debug                                   bool
	)
	cmd := &cobra.Command{
		Use:   "region --out <file.pdf> --x X --y Y --w W --h H -l line...",
		Short: "Compose an image and text lines into a PDF page region",
		Long: `Compose an optional image and text lines into a rectangle of a new PDF page.
Coordinates are points from the bottom-left corner of the page. The region is
split between image (top) and text (bottom); the font size shrinks or grows
so the lines fill the text area.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc := a.cfg.Region
			if split != "" {
				rc.Split = split
			}
			if fontFamily != "" {
				rc.FontFamily = fontFamily
			}
			if cmd.Flags().Changed("debug") {
				rc.Debug = debug
			}
			if page == "" {
				page = rc.Page
			}
			opts, err := regionOptions(rc)
			if err != nil {
				return err
			}
			size, err := export.PageSizeByName(page)
			if err != nil {
				return err
			}
			var img []byte
			if imagePath != "" {
				if img, err = os.ReadFile(imagePath); err != nil {
					return fmt.Errorf("read image: %w", err)
				}
			}

			var buf bytes.Buffer
			rep, err := export.RenderRegionPDF(&buf, size, compose.Box(x, y, w, h, compose.BottomUp), lines, img, opts)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("ensure out dir: %w", err)
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			applog.WithComponent("cli").Info("region stamped", slog.String("out", out), slog.Float64("font_size", rep.FontSize))
			printWarnings(cmd.ErrOrStderr(), rep.Warnings)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (font %.1fpt, %d lines)\n", out, rep.FontSize, rep.Lines)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&out, "out", "", "output PDF path")
	f.StringVar(&page, "page", "", "page size: a4, a5, letter, legal (suffix -landscape)")
	f.Float64Var(&x, "x", 0, "region left edge in points")
	f.Float64Var(&y, "y", 0, "region bottom edge in points")
	f.Float64Var(&w, "w", 0, "region width in points")
	f.Float64Var(&h, "h", 0, "region height in points")
	f.StringVar(&imagePath, "image", "", "optional image placed in the upper part of the region")
	f.StringVar(&split, "split", "", "image/text split: caption (30/70) or signature (60/40)")
	f.StringVar(&fontFamily, "font", "", "PDF core font family: helvetica, times, courier")
	f.StringArrayVarP(&lines, "line", "l", nil, "text line (repeatable, keeps order)")
	f.BoolVar(&debug, "debug", false, "stroke diagnostic guides around region and image")
	_ = cmd.MarkFlagRequired("out")
	_ = cmd.MarkFlagRequired("w")
	_ = cmd.MarkFlagRequired("h")
	return cmd
}
