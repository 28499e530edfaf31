/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Abstractions for text measurement used by the wrapper and the size solvers.
// All measurement goes through Measurer so that raster faces and PDF core
// fonts can back the same layout code.

import (
	"errors"
	"log/slog"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	applog "infostamp/internal/log"
)

// Style selects a font style. Only StylePlain is used by the compositors.
type Style int

const (
	StylePlain Style = iota
	StyleBold
	StyleItalic
)

// FontSpec describes a requested font. Size is in points at 72 DPI, which
// equals pixels on raster surfaces.
type FontSpec struct {
	Family string
	Style  Style
	Size   float64
}

// WithSize returns a copy of s at the given size.
func (s FontSpec) WithSize(size float64) FontSpec {
	s.Size = size
	return s
}

// Metrics describes the vertical space a line of text occupies.
type Metrics struct {
	Ascent, Descent, Leading float64
}

// LineHeight is ascent + descent + leading.
func (m Metrics) LineHeight() float64 { return m.Ascent + m.Descent + m.Leading }

// Measurer measures text for a font spec. Implementations must be
// deterministic for a given font and size; the solvers rely on it to terminate.
type Measurer interface {
	MeasureWidth(spec FontSpec, text string) float64
	LineMetrics(spec FontSpec) Metrics
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, error)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
// The face has a fixed size; FontSpec.Size is ignored.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, error) { return basicfont.Face7x13, nil }

// FaceMeasurer implements Measurer on top of a Provider. Faces are cached per
// FontSpec for the lifetime of the measurer; construct one per operation and
// Close it afterwards.
type FaceMeasurer struct {
	provider Provider
	faces    map[FontSpec]font.Face
}

// NewFaceMeasurer returns a measurer backed by provider (BasicProvider if nil).
func NewFaceMeasurer(provider Provider) *FaceMeasurer {
	if provider == nil {
		provider = BasicProvider{}
	}
	return &FaceMeasurer{provider: provider, faces: make(map[FontSpec]font.Face)}
}

// Face returns the face for spec. Resolution failures degrade to basicfont
// and are logged once per spec.
func (m *FaceMeasurer) Face(spec FontSpec) font.Face {
	if f, ok := m.faces[spec]; ok {
		return f
	}
	f, err := m.provider.Resolve(spec)
	if err != nil || f == nil {
		if err == nil {
			err = errors.New("provider returned no face")
		}
		applog.WithComponent("textlayout").Warn("face unavailable, using basicfont",
			slog.String("family", spec.Family), slog.Float64("size", spec.Size), slog.Any("err", err))
		f = basicfont.Face7x13
	}
	m.faces[spec] = f
	return f
}

func (m *FaceMeasurer) MeasureWidth(spec FontSpec, text string) float64 {
	return fixedToFloat(font.MeasureString(m.Face(spec), text))
}

func (m *FaceMeasurer) LineMetrics(spec FontSpec) Metrics {
	fm := m.Face(spec).Metrics()
	asc := fixedToFloat(fm.Ascent)
	desc := fixedToFloat(fm.Descent)
	return Metrics{Ascent: asc, Descent: desc, Leading: max(0, fixedToFloat(fm.Height)-asc-desc)}
}

// Close releases all cached faces.
func (m *FaceMeasurer) Close() error {
	var firstErr error
	for k, f := range m.faces {
		if f != basicfont.Face7x13 {
			if err := f.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		delete(m.faces, k)
	}
	return firstErr
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// FloatToFixed converts a pixel coordinate to 26.6 fixed point.
func FloatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }
