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

package coverage

import (
	"strings"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/scott-mercer/deviceiq-backend/dataset"
)

// OSVersionUsage is one item of the per-OS-version breakdown.
type OSVersionUsage struct {
	OSVersion string  `json:"os_version"`
	Usage     float64 `json:"usage_percent"`
}

// Analytics is the analytics operation payload. It is computed without
// any coverage threshold - the curve always spans the whole dataset.
type Analytics struct {
	UsageDistribution  []Entry          `json:"usage_distribution"`
	CumulativeCurve    []MatrixEntry    `json:"cumulative_curve"`
	OSVersionBreakdown []OSVersionUsage `json:"os_version_breakdown"`
}

// Analyze builds the analytics views. The distribution and the curve
// respect the requested grouping; the OS version breakdown always
// groups the original rows by their raw os_version value - it is a
// fixed second dimension, independent of the requested key.
func Analyze(ds *dataset.Dataset, key GroupKey) Analytics {
	entries := Regroup(ds, key)
	sortByUsage(entries)

	curve := make([]MatrixEntry, len(entries))
	var cumulative float64
	for i, entry := range entries {
		cumulative += entry.Usage
		curve[i] = MatrixEntry{Entry: entry, Cumulative: cumulative}
	}

	return Analytics{
		UsageDistribution:  entries,
		CumulativeCurve:    curve,
		OSVersionBreakdown: osVersionBreakdown(ds),
	}
}

// osVersionBreakdown sums usage per raw os_version and sorts the
// totals descending. Ties are broken by version string to keep the
// output deterministic across runs (the accumulation map has no
// iteration order of its own).
func osVersionBreakdown(ds *dataset.Dataset) []OSVersionUsage {
	totals := make(map[string]float64)
	for _, row := range ds.Rows() {
		totals[row.OSVersion] += row.Usage
	}
	sorted := collections.MapToEntriesSorted(
		totals,
		func(a, b collections.MapEntry[string, float64]) int {
			if b.V > a.V {
				return 1

			} else if b.V < a.V {
				return -1
			}
			return strings.Compare(a.K, b.K)
		},
	)
	ans := make([]OSVersionUsage, len(sorted))
	for i, item := range sorted {
		ans[i] = OSVersionUsage{OSVersion: item.K, Usage: item.V}
	}
	return ans
}
