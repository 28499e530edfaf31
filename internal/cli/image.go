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
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"infostamp/internal/compose"
	"infostamp/internal/export"
	applog "infostamp/internal/log"
)

func newImageCmd(a *app) *cobra.Command {
	var (
		in, out    string
		entries    []string
		asBase64   bool
		padding    float64
		fontFamily string
		fontFile   string
		background string
	)
	cmd := &cobra.Command{
		Use:   "image --in <file> --out <file> -e Label=Value...",
		Short: "Append a text block below an image",
		Long: `Append "label: value" lines below an image. The canvas grows downward to fit
the text; the font size is the largest that keeps every entry on one line.
With --base64 the input file holds Base64 image data and the output is
written as Base64 PNG.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			block := make(compose.TextBlock, 0, len(entries))
			for _, s := range entries {
				e, ok := compose.ParseEntry(s)
				if !ok {
					return fmt.Errorf("invalid entry %q: want Label=Value", s)
				}
				block = append(block, e)
			}

			rc := a.cfg.Raster
			if cmd.Flags().Changed("padding") {
				rc.Padding = padding
			}
			if fontFamily != "" {
				rc.FontFamily = fontFamily
			}
			if fontFile != "" {
				rc.FontFile = fontFile
			}
			if background != "" {
				rc.Background = background
			}
			opts, err := rasterOptions(rc)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			var (
				encoded []byte
				ws      []compose.Warning
			)
			if asBase64 {
				var s string
				s, ws, err = export.AnnotateBase64(string(data), block, opts)
				encoded = []byte(s)
			} else {
				encoded, ws, err = export.AnnotateImageBytes(data, block, opts)
			}
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("ensure out dir: %w", err)
			}
			if err := os.WriteFile(out, encoded, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			applog.WithComponent("cli").Info("image stamped", slog.String("out", out), slog.Int("entries", len(block)))
			printWarnings(cmd.ErrOrStderr(), ws)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&in, "in", "", "input image (PNG, JPEG, GIF, BMP, TIFF, WebP)")
	f.StringVar(&out, "out", "", "output PNG path")
	f.StringArrayVarP(&entries, "entry", "e", nil, "text entry as Label=Value (repeatable, keeps order)")
	f.BoolVar(&asBase64, "base64", false, "read and write Base64 instead of raw bytes")
	f.Float64Var(&padding, "padding", 0, "padding around the text block in pixels")
	f.StringVar(&fontFamily, "font", "", "font family")
	f.StringVar(&fontFile, "font-file", "", "TTF/OTF file registered under --font")
	f.StringVar(&background, "background", "", "band background as #rrggbb (default transparent)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
