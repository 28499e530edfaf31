/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	applog "infostamp/internal/log"
)

// DefaultFamily is the family every FontLibrary carries. It is the embedded
// Go Regular face and serves as the fallback for unknown families.
const DefaultFamily = "Go"

// FontUnavailableError reports that a requested family is not loaded.
type FontUnavailableError struct {
	Family   string
	Fallback string
}

func (e *FontUnavailableError) Error() string {
	return fmt.Sprintf("font family %q unavailable, using %q", e.Family, e.Fallback)
}

// FontLibrary stores parsed OpenType fonts keyed by family and style.
// Family names are case-insensitive.
type FontLibrary struct {
	mu    sync.RWMutex
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	style  Style
}

var (
	defaultLibOnce sync.Once
	defaultLib     *FontLibrary
)

// DefaultLibrary returns a shared library holding only DefaultFamily.
// Fonts are read-only after parsing, so sharing it is safe.
func DefaultLibrary() *FontLibrary {
	defaultLibOnce.Do(func() { defaultLib = NewFontLibrary() })
	return defaultLib
}

// NewFontLibrary returns a library seeded with DefaultFamily.
func NewFontLibrary() *FontLibrary {
	fl := &FontLibrary{fonts: make(map[fontKey]*opentype.Font)}
	if err := fl.LoadBytes(DefaultFamily, StylePlain, goregular.TTF); err != nil {
		// goregular is embedded in x/image; failing to parse it is a build problem.
		panic(fmt.Sprintf("parse embedded Go Regular: %v", err))
	}
	return fl
}

// LoadTTF loads a font file into the library under the given family/style.
func (fl *FontLibrary) LoadTTF(family string, style Style, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	if err := fl.LoadBytes(family, style, data); err != nil {
		return fmt.Errorf("font %s: %w", path, err)
	}
	return nil
}

// LoadBytes parses TTF/OTF data into the library.
func (fl *FontLibrary) LoadBytes(family string, style Style, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	fl.fonts[fontKey{family: normFamily(family), style: style}] = f
	return nil
}

// Lookup finds a font for spec. An exact style match wins, then any style of
// the same family. Unknown families yield *FontUnavailableError.
func (fl *FontLibrary) Lookup(spec FontSpec) (*opentype.Font, error) {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	fam := normFamily(spec.Family)
	if f, ok := fl.fonts[fontKey{family: fam, style: spec.Style}]; ok {
		return f, nil
	}
	for k, f := range fl.fonts {
		if k.family == fam {
			return f, nil
		}
	}
	return nil, &FontUnavailableError{Family: spec.Family, Fallback: DefaultFamily}
}

func (fl *FontLibrary) fallback() *opentype.Font {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	return fl.fonts[fontKey{family: normFamily(DefaultFamily), style: StylePlain}]
}

func normFamily(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// OTProvider resolves FontSpec using a FontLibrary. Missing families fall back
// to DefaultFamily; each missing family is logged once per provider.
type OTProvider struct {
	Lib *FontLibrary
	DPI float64 // default 72 if zero

	mu     sync.Mutex
	warned map[string]bool
}

// NewOTProvider returns a provider over lib (DefaultLibrary if nil).
func NewOTProvider(lib *FontLibrary) *OTProvider {
	if lib == nil {
		lib = DefaultLibrary()
	}
	return &OTProvider{Lib: lib, warned: map[string]bool{}}
}

func (p *OTProvider) Resolve(spec FontSpec) (font.Face, error) {
	if spec.Size <= 0 {
		spec.Size = 12
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}
	f, err := p.Lib.Lookup(spec)
	if err != nil {
		p.noteFallback(spec.Family, err)
		f = p.Lib.fallback()
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: spec.Size, DPI: dpi, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("create face %s at %.1fpt: %w", spec.Family, spec.Size, err)
	}
	return face, nil
}

func (p *OTProvider) noteFallback(family string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.warned == nil {
		p.warned = map[string]bool{}
	}
	if p.warned[family] {
		return
	}
	p.warned[family] = true
	applog.WithComponent("textlayout").Warn("font fallback", slog.String("family", family), slog.Any("err", err))
}
