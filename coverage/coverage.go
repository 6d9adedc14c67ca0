// Copyright 2026 Scott Mercer
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package coverage implements the core aggregation engine: regrouping
// of device usage rows, the greedy cumulative-coverage selection and
// the derived analytics views. All functions here are pure - they keep
// no state between calls, never log and never touch the network, which
// keeps the engine independently testable.
package coverage

import (
	"math"
	"sort"

	"github.com/scott-mercer/deviceiq-backend/dataset"
)

// Summary aggregates counts and usage totals over the full and the
// selected sets.
type Summary struct {
	TotalDevices        int     `json:"total_devices"`
	IncludedDevices     int     `json:"included_devices"`
	TotalUsagePercent   float64 `json:"total_usage_percent"`
	CoveredUsagePercent float64 `json:"covered_usage_percent"`
}

// Result is the coverage operation payload.
type Result struct {
	Matrix  []MatrixEntry `json:"matrix"`
	Summary Summary       `json:"summary"`
}

// DefaultThreshold is the coverage threshold applied when a request
// does not specify one.
const DefaultThreshold = 90.0

// sortByUsage orders entries by usage descending. The sort must be
// explicitly stable so that entries with equal usage keep their
// relative input order.
func sortByUsage(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Usage > entries[j].Usage
	})
}

// round2 rounds a usage total for presentation. Cumulative sums are
// never rounded internally.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SelectMatrix computes the coverage matrix over the given (possibly
// grouped) entries: sort by usage descending, accumulate, include an
// entry iff its cumulative usage does not exceed the threshold. The
// boundary is inclusive and carries no tolerance epsilon, so a total
// that overshoots 100 by a rounding artifact excludes the last entry
// even at threshold 100. That mirrors the reference behavior and is
// not to be corrected here.
func SelectMatrix(entries []Entry, threshold float64) ([]MatrixEntry, Summary) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sortByUsage(sorted)

	matrix := make([]MatrixEntry, 0, len(sorted))
	var cumulative, total, covered float64
	for _, entry := range sorted {
		cumulative += entry.Usage
		total += entry.Usage
		if cumulative <= threshold {
			covered += entry.Usage
			matrix = append(matrix, MatrixEntry{Entry: entry, Cumulative: cumulative})
		}
	}
	return matrix, Summary{
		TotalDevices:        len(sorted),
		IncludedDevices:     len(matrix),
		TotalUsagePercent:   round2(total),
		CoveredUsagePercent: round2(covered),
	}
}

// Compute runs the whole coverage pipeline for a single request:
// optional regrouping followed by the greedy selection.
func Compute(ds *dataset.Dataset, threshold float64, key GroupKey) Result {
	matrix, summary := SelectMatrix(Regroup(ds, key), threshold)
	return Result{Matrix: matrix, Summary: summary}
}
