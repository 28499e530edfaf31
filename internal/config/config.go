/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type RasterConfig struct {
	FontFamily string  `yaml:"font_family"`
	FontFile   string  `yaml:"font_file"` // optional TTF/OTF registered under FontFamily
	Padding    float64 `yaml:"padding"`
	GrowStart  float64 `yaml:"grow_start"`
	GrowStep   float64 `yaml:"grow_step"`
	GrowMin    float64 `yaml:"grow_min"`
	GrowMax    float64 `yaml:"grow_max"`
	TextColor  string  `yaml:"text_color"`
	Background string  `yaml:"background"` // empty keeps the band transparent
}

type RegionConfig struct {
	Split       string  `yaml:"split"` // "caption" | "signature"
	Page        string  `yaml:"page"`
	FontFamily  string  `yaml:"font_family"`
	Padding     float64 `yaml:"padding"`
	ShrinkStart float64 `yaml:"shrink_start"`
	ShrinkStep  float64 `yaml:"shrink_step"`
	ShrinkMin   float64 `yaml:"shrink_min"`
	ShrinkMax   float64 `yaml:"shrink_max"`
	FillRatio   float64 `yaml:"fill_ratio"`
	Debug       bool    `yaml:"debug"`
}

type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Raster        RasterConfig  `yaml:"raster"`
	Region        RegionConfig  `yaml:"region"`
	Batch         BatchConfig   `yaml:"batch"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Raster: RasterConfig{
			FontFamily: "Go", Padding: 20,
			GrowStart: 12, GrowStep: 1, GrowMin: 5, GrowMax: 256,
			TextColor: "#000000",
		},
		Region: RegionConfig{
			Split: "signature", Page: "a4", FontFamily: "Helvetica", Padding: 10,
			ShrinkStart: 12, ShrinkStep: 0.5, ShrinkMin: 5, ShrinkMax: 20, FillRatio: 0.8,
		},
		Batch:   BatchConfig{Concurrency: 4},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvRasterFont       = "INFOSTAMP_RASTER_FONT"
	EnvRasterFontFile   = "INFOSTAMP_RASTER_FONT_FILE"
	EnvRasterPadding    = "INFOSTAMP_RASTER_PADDING"
	EnvRegionSplit      = "INFOSTAMP_REGION_SPLIT"
	EnvRegionPage       = "INFOSTAMP_REGION_PAGE"
	EnvRegionPadding    = "INFOSTAMP_REGION_PADDING"
	EnvRegionDebug      = "INFOSTAMP_REGION_DEBUG"
	EnvBatchConcurrency = "INFOSTAMP_BATCH_CONCURRENCY"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "INFOSTAMP_LOG_LEVEL"
	EnvLogFormat = "INFOSTAMP_LOG_FORMAT"
	EnvLogSource = "INFOSTAMP_LOG_SOURCE"
	EnvLogFile   = "INFOSTAMP_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "InfoStamp")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "InfoStamp")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "infostamp")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the config file at path (the user config when empty), applies
// defaults and merges environment overrides. A missing file is not an error.
func Load(path string) (AppConfig, error) {
	cfg := Defaults()
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, cfg.Validate()
}

// Save writes cfg as YAML to path (the user config when empty).
func Save(path string, cfg AppConfig) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// raster
	mergeString(&dst.Raster.FontFamily, src.Raster.FontFamily)
	mergeString(&dst.Raster.FontFile, src.Raster.FontFile)
	mergeString(&dst.Raster.TextColor, src.Raster.TextColor)
	mergeString(&dst.Raster.Background, src.Raster.Background)
	mergeFloat(&dst.Raster.Padding, src.Raster.Padding)
	mergeFloat(&dst.Raster.GrowStart, src.Raster.GrowStart)
	mergeFloat(&dst.Raster.GrowStep, src.Raster.GrowStep)
	mergeFloat(&dst.Raster.GrowMin, src.Raster.GrowMin)
	mergeFloat(&dst.Raster.GrowMax, src.Raster.GrowMax)
	// region
	if s := strings.TrimSpace(src.Region.Split); s != "" {
		dst.Region.Split = strings.ToLower(s)
	}
	mergeString(&dst.Region.Page, src.Region.Page)
	mergeString(&dst.Region.FontFamily, src.Region.FontFamily)
	mergeFloat(&dst.Region.Padding, src.Region.Padding)
	mergeFloat(&dst.Region.ShrinkStart, src.Region.ShrinkStart)
	mergeFloat(&dst.Region.ShrinkStep, src.Region.ShrinkStep)
	mergeFloat(&dst.Region.ShrinkMin, src.Region.ShrinkMin)
	mergeFloat(&dst.Region.ShrinkMax, src.Region.ShrinkMax)
	mergeFloat(&dst.Region.FillRatio, src.Region.FillRatio)
	// booleans: copy directly from src (file) so user preferences persist
	dst.Region.Debug = src.Region.Debug
	if src.Batch.Concurrency != 0 {
		dst.Batch.Concurrency = src.Batch.Concurrency
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	mergeString(&dst.Logging.File, src.Logging.File)
}

func mergeString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func mergeFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func envBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvRasterFont)); v != "" {
		cfg.Raster.FontFamily = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRasterFontFile)); v != "" {
		cfg.Raster.FontFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRasterPadding)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Raster.Padding = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvRegionSplit)); v != "" {
		cfg.Region.Split = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvRegionPage)); v != "" {
		cfg.Region.Page = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRegionPadding)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Region.Padding = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvRegionDebug)); v != "" {
		cfg.Region.Debug = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvBatchConcurrency)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Batch.Concurrency = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"raster.font_family": EnvRasterFont,
		"raster.font_file":   EnvRasterFontFile,
		"raster.padding":     EnvRasterPadding,
		"region.split":       EnvRegionSplit,
		"region.page":        EnvRegionPage,
		"region.padding":     EnvRegionPadding,
		"region.debug":       EnvRegionDebug,
		"batch.concurrency":  EnvBatchConcurrency,
		"logging.level":      EnvLogLevel,
		"logging.format":     EnvLogFormat,
		"logging.source":     EnvLogSource,
		"logging.file":       EnvLogFile,
	}
	if env, ok := names[key]; ok && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// Validate reports the first inconsistent setting.
func (c AppConfig) Validate() error {
	switch c.Region.Split {
	case "caption", "signature":
	default:
		return fmt.Errorf("region.split: unknown preset %q", c.Region.Split)
	}
	if c.Raster.Padding < 0 || c.Region.Padding < 0 {
		return errors.New("padding must not be negative")
	}
	if c.Raster.GrowMin > c.Raster.GrowMax {
		return fmt.Errorf("raster: grow_min %v above grow_max %v", c.Raster.GrowMin, c.Raster.GrowMax)
	}
	if c.Region.ShrinkMin > c.Region.ShrinkMax {
		return fmt.Errorf("region: shrink_min %v above shrink_max %v", c.Region.ShrinkMin, c.Region.ShrinkMax)
	}
	if c.Region.FillRatio <= 0 || c.Region.FillRatio > 1 {
		return fmt.Errorf("region.fill_ratio %v outside (0, 1]", c.Region.FillRatio)
	}
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("batch.concurrency %d is negative", c.Batch.Concurrency)
	}
	if _, err := ParseHexColor(c.Raster.TextColor); err != nil {
		return fmt.Errorf("raster.text_color: %w", err)
	}
	if c.Raster.Background != "" {
		if _, err := ParseHexColor(c.Raster.Background); err != nil {
			return fmt.Errorf("raster.background: %w", err)
		}
	}
	return nil
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
