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

package dataset

// Row is a single input record of the device population table.
type Row struct {

	// DeviceModel is a free-form device identifier (e.g. "Pixel 8")
	DeviceModel string

	// OSVersion is a dotted version string (e.g. "14.0.1"). It is
	// compared as text only - no numeric version semantics anywhere.
	OSVersion string

	// Usage is this row's share of the total population usage,
	// in percent.
	Usage float64
}

// Dataset is an ordered collection of rows as loaded from the input.
// There is no uniqueness constraint on (DeviceModel, OSVersion) pairs;
// duplicates are collapsed only by an explicit regrouping. The value
// is request-scoped and must never be shared between requests.
type Dataset struct {
	rows []Row
}

func (ds *Dataset) Rows() []Row {
	return ds.rows
}

func (ds *Dataset) Len() int {
	return len(ds.rows)
}

// TotalUsage sums usage over all rows at full precision.
func (ds *Dataset) TotalUsage() float64 {
	var ans float64
	for _, row := range ds.rows {
		ans += row.Usage
	}
	return ans
}

func NewDataset(rows []Row) *Dataset {
	return &Dataset{rows: rows}
}
