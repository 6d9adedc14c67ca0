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

package stats

const (
	// OpCoverage marks a coverage matrix computation.
	OpCoverage = "coverage"

	// OpAnalytics marks an analytics computation.
	OpAnalytics = "analytics"
)

// Record is the audit trail of a single computation. Only derived
// metadata is stored - uploaded row data is never persisted.
type Record struct {

	// ID is an idempotent identifier derived from the reception time
	// and the dataset name. A repeated upload within the same instant
	// overwrites its own record instead of growing the table.
	ID string `json:"id"`

	// Datetime is the unix time the computation was performed.
	Datetime int64 `json:"datetime"`

	// Operation is either OpCoverage or OpAnalytics.
	Operation string `json:"operation"`

	// Dataset is the client-supplied name of the uploaded file.
	Dataset string `json:"dataset"`

	// NumRows is the dataset size before grouping.
	NumRows int `json:"numRows"`

	// NumGroups is the entry count after grouping (equal to NumRows
	// when no grouping was requested).
	NumGroups int `json:"numGroups"`

	// GroupKey is the resolved grouping dimension ("none" when the
	// request had no key or an unrecognized one).
	GroupKey string `json:"groupKey"`

	// Threshold is the coverage threshold; zero for analytics runs,
	// which ignore it.
	Threshold float64 `json:"threshold"`

	// CoveredUsage is the usage share captured by the selected
	// matrix; zero for analytics runs.
	CoveredUsage float64 `json:"coveredUsage"`

	// ProcTime is the computation wall time in seconds, measured
	// around the engine call only (no transport overhead).
	ProcTime float64 `json:"procTime"`
}
