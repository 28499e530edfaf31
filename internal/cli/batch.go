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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"infostamp/internal/batch"
)

func newBatchCmd(a *app) *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "batch <jobs.json>",
		Short: "Run the jobs of a JSON job file",
		Long: `Run every job of a JSON job file. Relative paths in the file resolve against
the directory of the job file. Jobs run concurrently; a failing job does not
stop the others.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			jobs, err := batch.Load(f)
			_ = f.Close()
			if err != nil {
				return err
			}

			ro, err := rasterOptions(a.cfg.Raster)
			if err != nil {
				return err
			}
			rg, err := regionOptions(a.cfg.Region)
			if err != nil {
				return err
			}
			n := a.cfg.Batch.Concurrency
			if cmd.Flags().Changed("concurrency") {
				n = concurrency
			}
			results, runErr := batch.Run(cmd.Context(), jobs, batch.Options{
				Concurrency: n,
				BaseDir:     filepath.Dir(args[0]),
				Page:        a.cfg.Region.Page,
				Raster:      ro,
				Region:      rg,
			})
			w := cmd.OutOrStdout()
			for _, r := range results {
				label := r.Job.Label(r.Index)
				if r.Err != nil {
					_, _ = fmt.Fprintf(w, "FAIL %s: %v\n", label, r.Err)
					continue
				}
				_, _ = fmt.Fprintf(w, "ok   %s -> %s\n", label, r.Output)
				printWarnings(cmd.ErrOrStderr(), r.Warnings)
			}
			return runErr
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel jobs (default from config)")
	return cmd
}
