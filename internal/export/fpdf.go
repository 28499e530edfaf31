/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/draw"

	"infostamp/internal/compose"
	applog "infostamp/internal/log"
	"infostamp/internal/textlayout"
)

// Page output uses points and the PDF core fonts so that text stays vector
// without embedding.

// coreMetrics holds AFM ascender/descender per 1000 units.
var coreMetrics = map[string][2]float64{
	"Helvetica": {718, 207},
	"Times":     {683, 217},
	"Courier":   {629, 157},
}

// CoreFamily maps a family name to a PDF core font. Unknown families resolve
// to Helvetica together with a FontUnavailableError describing the fallback.
func CoreFamily(family string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "", "helvetica", "arial", "sans", "sans-serif":
		return "Helvetica", nil
	case "times", "times new roman", "times-roman", "serif":
		return "Times", nil
	case "courier", "courier new", "mono", "monospace":
		return "Courier", nil
	}
	return "Helvetica", &textlayout.FontUnavailableError{Family: family, Fallback: "Helvetica"}
}

func coreFamilyLogged(family string) string {
	fam, err := CoreFamily(family)
	if err != nil {
		applog.WithComponent("export").Warn("font fallback", "family", family, "fallback", fam, "err", err)
	}
	return fam
}

// PDFMeasurer measures core-font text through a scratch gofpdf document.
// It is not safe for concurrent use; create one per operation.
type PDFMeasurer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	fam map[string]string
}

func NewPDFMeasurer() *PDFMeasurer {
	pdf := gofpdf.New("P", "pt", "A4", "")
	return &PDFMeasurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), fam: map[string]string{}}
}

func (m *PDFMeasurer) family(name string) string {
	if f, ok := m.fam[name]; ok {
		return f
	}
	f := coreFamilyLogged(name)
	m.fam[name] = f
	return f
}

func (m *PDFMeasurer) MeasureWidth(spec textlayout.FontSpec, text string) float64 {
	m.pdf.SetFont(m.family(spec.Family), "", spec.Size)
	return m.pdf.GetStringWidth(m.tr(text))
}

func (m *PDFMeasurer) LineMetrics(spec textlayout.FontSpec) textlayout.Metrics {
	am := coreMetrics[m.family(spec.Family)]
	return textlayout.Metrics{Ascent: am[0] / 1000 * spec.Size, Descent: am[1] / 1000 * spec.Size}
}

// FPDFSurface draws on the current page of a gofpdf document. Bottom-up page
// coordinates are flipped to gofpdf's top-left origin.
type FPDFSurface struct {
	pdf    *gofpdf.Fpdf
	pageH  float64
	tr     func(string) string
	x, y   float64
	images int
}

// NewFPDFSurface wraps pdf, which must use "pt" units and have a page added.
func NewFPDFSurface(pdf *gofpdf.Fpdf) *FPDFSurface {
	_, h := pdf.GetPageSize()
	return &FPDFSurface{pdf: pdf, pageH: h, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (s *FPDFSurface) SetFont(family string, size float64) error {
	s.pdf.SetFont(coreFamilyLogged(family), "", size)
	return s.pdf.Error()
}

func (s *FPDFSurface) SetFillColor(c color.Color) {
	r, g, b := rgb(c)
	s.pdf.SetTextColor(r, g, b)
	s.pdf.SetFillColor(r, g, b)
}

func (s *FPDFSurface) SetStrokeColor(c color.Color) {
	r, g, b := rgb(c)
	s.pdf.SetDrawColor(r, g, b)
}

func (s *FPDFSurface) SetLineWidth(w float64) { s.pdf.SetLineWidth(w) }

func (s *FPDFSurface) MoveTo(x, y float64) { s.x, s.y = x, y }

func (s *FPDFSurface) ShowText(text string) { s.pdf.Text(s.x, s.pageH-s.y, s.tr(text)) }

func (s *FPDFSurface) DrawImage(img image.Image, box compose.LayoutBox) error {
	// gofpdf rejects 16-bit PNGs, so flatten to 8-bit NRGBA first.
	b := img.Bounds()
	flat := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), img, b.Min, draw.Src)
	data, err := EncodePNG(flat)
	if err != nil {
		return err
	}
	s.images++
	name := fmt.Sprintf("infostamp-image-%d", s.images)
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	s.pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(data))
	s.pdf.ImageOptions(name, box.X, s.pageH-box.Y-box.H, box.W, box.H, false, opt, 0, "")
	return s.pdf.Error()
}

func (s *FPDFSurface) StrokeRect(box compose.LayoutBox) {
	s.pdf.Rect(box.X, s.pageH-box.Y-box.H, box.W, box.H, "D")
}

func rgb(c color.Color) (int, int, int) {
	r, g, b, _ := c.RGBA()
	return int(r >> 8), int(g >> 8), int(b >> 8)
}

// RenderRegionPDF writes a single page of the given size to w with the
// region composed on it. A nil opts.Measurer selects a PDFMeasurer.
func RenderRegionPDF(w io.Writer, size PageSize, region compose.LayoutBox, lines []string, imageBytes []byte, opts RegionOptions) (Report, error) {
	if size.W <= 0 || size.H <= 0 {
		return Report{}, fmt.Errorf("invalid page size %vx%v", size.W, size.H)
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		OrientationStr: "P",
		Size:           gofpdf.SizeType{Wd: size.W, Ht: size.H},
	})
	pdf.SetCreator("infostamp", false)
	pdf.AddPage()
	if opts.Measurer == nil {
		opts.Measurer = NewPDFMeasurer()
	}
	rep, err := AnnotateRegion(NewFPDFSurface(pdf), region, lines, imageBytes, opts)
	if err != nil {
		return Report{}, err
	}
	if err := pdf.Output(w); err != nil {
		return Report{}, fmt.Errorf("write pdf: %w", err)
	}
	return rep, nil
}
