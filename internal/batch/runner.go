/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"infostamp/internal/compose"
	"infostamp/internal/export"
	applog "infostamp/internal/log"
)

// Options controls Run. Raster and Region are the base options each job
// starts from before applying its own overrides.
type Options struct {
	Concurrency int    // <= 0 means runtime.NumCPU()
	BaseDir     string // relative job paths resolve against it
	Page        string // default page size name for region jobs
	Raster      export.RasterOptions
	Region      export.RegionOptions
}

// Result is the outcome of one job, in job file order.
type Result struct {
	Index    int
	Job      Job
	Output   string
	Warnings []compose.Warning
	Err      error
}

// Run executes jobs with at most Concurrency running at once. Every job is
// attempted; the returned error joins the failures. A cancelled ctx stops
// jobs that have not started yet.
func Run(ctx context.Context, jobs []Job, opts Options) ([]Result, error) {
	n := opts.Concurrency
	if n <= 0 {
		n = runtime.NumCPU()
	}
	lg := applog.WithComponent("batch")
	sem := semaphore.NewWeighted(int64(n))
	results := make([]Result, len(jobs))
	var wg sync.WaitGroup

	for i, job := range jobs {
		results[i] = Result{Index: i, Job: job}
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i].Err = err
			continue
		}
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			defer sem.Release(1)
			jctx := applog.WithJob(ctx, job.Label(i))
			out, ws, err := runJob(jctx, job, opts)
			results[i].Output, results[i].Warnings, results[i].Err = out, ws, err
			if err != nil {
				lg.ErrorContext(jctx, "job failed", slog.Any("err", err))
				return
			}
			lg.InfoContext(jctx, "job done", slog.String("output", out), slog.Int("warnings", len(ws)))
		}(i, job)
	}
	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Job.Label(r.Index), r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func runJob(ctx context.Context, job Job, opts Options) (string, []compose.Warning, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	switch job.Kind {
	case KindImage:
		return runImage(job, opts)
	case KindRegion:
		return runRegion(job, opts)
	default:
		return "", nil, fmt.Errorf("unknown job kind %q", job.Kind)
	}
}

func runImage(job Job, opts Options) (string, []compose.Warning, error) {
	in := resolve(opts.BaseDir, job.Input)
	out := resolve(opts.BaseDir, job.Output)
	ro := opts.Raster
	if job.Padding > 0 {
		ro.Padding = job.Padding
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return "", nil, fmt.Errorf("read input: %w", err)
	}

	var encoded []byte
	var ws []compose.Warning
	if job.Base64 {
		var s string
		s, ws, err = export.AnnotateBase64(string(data), job.Entries, ro)
		encoded = []byte(s)
	} else {
		encoded, ws, err = export.AnnotateImageBytes(data, job.Entries, ro)
	}
	if err != nil {
		return "", nil, err
	}
	return out, ws, writeFile(out, encoded)
}

func runRegion(job Job, opts Options) (string, []compose.Warning, error) {
	out := resolve(opts.BaseDir, job.Output)
	page := job.Page
	if page == "" {
		page = opts.Page
	}
	size, err := export.PageSizeByName(page)
	if err != nil {
		return "", nil, err
	}
	if job.Region == nil {
		return "", nil, errors.New("region job without region")
	}

	ro := opts.Region
	// the page measurer is not safe for concurrent use
	ro.Measurer = nil
	if job.Split != "" {
		s, ok := compose.SplitByName(job.Split)
		if !ok {
			return "", nil, fmt.Errorf("unknown split %q", job.Split)
		}
		ro.Split = &s
	}
	if job.Debug != nil {
		ro.Debug = *job.Debug
	}

	var img []byte
	if job.Image != "" {
		if img, err = os.ReadFile(resolve(opts.BaseDir, job.Image)); err != nil {
			return "", nil, fmt.Errorf("read image: %w", err)
		}
	}

	var buf bytes.Buffer
	box := compose.Box(job.Region.X, job.Region.Y, job.Region.W, job.Region.H, compose.BottomUp)
	rep, err := export.RenderRegionPDF(&buf, size, box, job.Lines, img, ro)
	if err != nil {
		return "", nil, err
	}
	return out, rep.Warnings, writeFile(out, buf.Bytes())
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
