/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package batch runs stamping jobs described by a JSON job file.
package batch

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"infostamp/internal/compose"
)

//go:embed jobs.schema.json
var schemaJSON []byte

// Job kinds.
const (
	KindImage  = "image"
	KindRegion = "region"
)

// Rect is a bottom-up page rectangle in points.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Job is one entry of a job file. Image jobs use Input, Entries, Base64 and
// Padding; region jobs use Page, Region, Lines, Image, Split and Debug.
type Job struct {
	Kind   string `json:"kind"`
	Name   string `json:"name,omitempty"`
	Output string `json:"output"`

	Input   string            `json:"input,omitempty"`
	Base64  bool              `json:"base64,omitempty"`
	Padding float64           `json:"padding,omitempty"`
	Entries compose.TextBlock `json:"entries,omitempty"`

	Page   string   `json:"page,omitempty"`
	Region *Rect    `json:"region,omitempty"`
	Lines  []string `json:"lines,omitempty"`
	Image  string   `json:"image,omitempty"`
	Split  string   `json:"split,omitempty"`
	Debug  *bool    `json:"debug,omitempty"`
}

// Label names the job in logs: its name, or kind#index.
func (j Job) Label(index int) string {
	if j.Name != "" {
		return j.Name
	}
	return fmt.Sprintf("%s#%d", j.Kind, index)
}

type jobFile struct {
	Jobs []Job `json:"jobs"`
}

// ValidationError lists schema violations of a job file.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid job file: " + strings.Join(e.Problems, "; ")
}

// Parse validates data against the job schema and decodes it.
func Parse(data []byte) ([]Job, error) {
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("validate job file: %w", err)
	}
	if !result.Valid() {
		ve := &ValidationError{}
		for _, e := range result.Errors() {
			ve.Problems = append(ve.Problems, e.String())
		}
		return nil, ve
	}
	var f jobFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode job file: %w", err)
	}
	return f.Jobs, nil
}

// Load reads a job file from r.
func Load(r io.Reader) ([]Job, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	return Parse(data)
}
