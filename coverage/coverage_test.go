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
	"testing"

	"github.com/scott-mercer/deviceiq-backend/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset(rows ...dataset.Row) *dataset.Dataset {
	return dataset.NewDataset(rows)
}

func TestGreedySelection(t *testing.T) {
	ds := testDataset(
		dataset.Row{DeviceModel: "X", OSVersion: "1.0", Usage: 60},
		dataset.Row{DeviceModel: "Y", OSVersion: "1.0", Usage: 25},
		dataset.Row{DeviceModel: "Z", OSVersion: "1.0", Usage: 15},
	)
	result := Compute(ds, 90, NoGroup)
	require.Equal(t, 2, len(result.Matrix))
	assert.Equal(t, "X", result.Matrix[0].DeviceModel)
	assert.Equal(t, 60.0, result.Matrix[0].Usage)
	assert.Equal(t, 60.0, result.Matrix[0].Cumulative)
	assert.Equal(t, "Y", result.Matrix[1].DeviceModel)
	assert.Equal(t, 85.0, result.Matrix[1].Cumulative)

	assert.Equal(t, 3, result.Summary.TotalDevices)
	assert.Equal(t, 2, result.Summary.IncludedDevices)
	assert.Equal(t, 100.0, result.Summary.TotalUsagePercent)
	assert.Equal(t, 85.0, result.Summary.CoveredUsagePercent)
}

func TestGreedySelectionFullThreshold(t *testing.T) {
	ds := testDataset(
		dataset.Row{DeviceModel: "X", OSVersion: "1.0", Usage: 60},
		dataset.Row{DeviceModel: "Y", OSVersion: "1.0", Usage: 25},
		dataset.Row{DeviceModel: "Z", OSVersion: "1.0", Usage: 15},
	)
	result := Compute(ds, 100, NoGroup)
	require.Equal(t, 3, len(result.Matrix))
	assert.Equal(t, 60.0, result.Matrix[0].Cumulative)
	assert.Equal(t, 85.0, result.Matrix[1].Cumulative)
	assert.Equal(t, 100.0, result.Matrix[2].Cumulative)
}

func TestFullThresholdFloatOvershootExcludesLastEntry(t *testing.T) {
	// these usages nominally sum to 100 but the float64 cumulative
	// lands just above it; the boundary check has no epsilon, so the
	// last entry must fall out even at threshold 100
	ds := testDataset(
		dataset.Row{DeviceModel: "X", OSVersion: "1.0", Usage: 69.4},
		dataset.Row{DeviceModel: "Y", OSVersion: "1.0", Usage: 23.7},
		dataset.Row{DeviceModel: "Z", OSVersion: "1.0", Usage: 6.9},
	)
	require.Greater(t, 69.4+23.7+6.9, 100.0)
	result := Compute(ds, 100, NoGroup)
	require.Equal(t, 2, len(result.Matrix))
	assert.Equal(t, "Y", result.Matrix[1].DeviceModel)
	assert.Equal(t, 3, result.Summary.TotalDevices)
	assert.Equal(t, 2, result.Summary.IncludedDevices)
}

func TestSelectionSortsUnsortedInput(t *testing.T) {
	ds := testDataset(
		dataset.Row{DeviceModel: "small", OSVersion: "1.0", Usage: 5},
		dataset.Row{DeviceModel: "big", OSVersion: "2.0", Usage: 70},
		dataset.Row{DeviceModel: "mid", OSVersion: "3.0", Usage: 25},
	)
	result := Compute(ds, 100, NoGroup)
	require.Equal(t, 3, len(result.Matrix))
	assert.Equal(t, "big", result.Matrix[0].DeviceModel)
	assert.Equal(t, "mid", result.Matrix[1].DeviceModel)
	assert.Equal(t, "small", result.Matrix[2].DeviceModel)
}

func TestTieBreakIsStable(t *testing.T) {
	ds := testDataset(
		dataset.Row{DeviceModel: "first", OSVersion: "1.0", Usage: 20},
		dataset.Row{DeviceModel: "second", OSVersion: "2.0", Usage: 20},
		dataset.Row{DeviceModel: "third", OSVersion: "3.0", Usage: 20},
	)
	result := Compute(ds, 100, NoGroup)
	require.Equal(t, 3, len(result.Matrix))
	assert.Equal(t, "first", result.Matrix[0].DeviceModel)
	assert.Equal(t, "second", result.Matrix[1].DeviceModel)
	assert.Equal(t, "third", result.Matrix[2].DeviceModel)
}

func TestThresholdZero(t *testing.T) {
	ds := testDataset(
		dataset.Row{DeviceModel: "X", OSVersion: "1.0", Usage: 60},
		dataset.Row{DeviceModel: "Y", OSVersion: "1.0", Usage: 40},
	)
	result := Compute(ds, 0, NoGroup)
	assert.Equal(t, 0, len(result.Matrix))
	assert.Equal(t, 2, result.Summary.TotalDevices)
	assert.Equal(t, 0.0, result.Summary.CoveredUsagePercent)
}

func TestThresholdZeroIncludesZeroUsageEntry(t *testing.T) {
	// the boundary is inclusive, so an entry contributing nothing
	// still fits under a zero threshold
	ds := testDataset(
		dataset.Row{DeviceModel: "idle", OSVersion: "1.0", Usage: 0},
	)
	result := Compute(ds, 0, NoGroup)
	require.Equal(t, 1, len(result.Matrix))
	assert.Equal(t, 0.0, result.Matrix[0].Cumulative)
}

func TestMatrixIsLongestFittingPrefix(t *testing.T) {
	ds := testDataset(
		dataset.Row{DeviceModel: "a", OSVersion: "1.0", Usage: 40},
		dataset.Row{DeviceModel: "b", OSVersion: "1.0", Usage: 30},
		dataset.Row{DeviceModel: "c", OSVersion: "1.0", Usage: 20},
		dataset.Row{DeviceModel: "d", OSVersion: "1.0", Usage: 10},
	)
	for _, threshold := range []float64{0, 15, 45, 70, 75, 99, 100} {
		result := Compute(ds, threshold, NoGroup)
		if len(result.Matrix) > 0 {
			last := result.Matrix[len(result.Matrix)-1]
			assert.LessOrEqual(t, last.Cumulative, threshold)
		}
		if len(result.Matrix) < result.Summary.TotalDevices {
			full := Compute(ds, 100, NoGroup)
			next := full.Matrix[len(result.Matrix)]
			assert.Greater(t, next.Cumulative, threshold)
		}
	}
}

func TestMonotonicityInThreshold(t *testing.T) {
	ds := testDataset(
		dataset.Row{DeviceModel: "a", OSVersion: "1.0", Usage: 35},
		dataset.Row{DeviceModel: "b", OSVersion: "1.0", Usage: 25},
		dataset.Row{DeviceModel: "c", OSVersion: "1.0", Usage: 25},
		dataset.Row{DeviceModel: "d", OSVersion: "1.0", Usage: 15},
	)
	var prev Result
	for i, threshold := range []float64{0, 10, 35, 60, 85, 100} {
		result := Compute(ds, threshold, NoGroup)
		if i > 0 {
			assert.GreaterOrEqual(
				t,
				result.Summary.IncludedDevices,
				prev.Summary.IncludedDevices,
			)
			// the smaller selection must be a prefix of the larger one
			for j, entry := range prev.Matrix {
				assert.Equal(t, entry, result.Matrix[j])
			}
		}
		prev = result
	}
}

func TestIdempotence(t *testing.T) {
	ds := testDataset(
		dataset.Row{DeviceModel: "a", OSVersion: "2.1", Usage: 50},
		dataset.Row{DeviceModel: "b", OSVersion: "2.0", Usage: 30},
		dataset.Row{DeviceModel: "c", OSVersion: "1.0", Usage: 20},
	)
	r1 := Compute(ds, 80, ByOSVersion)
	r2 := Compute(ds, 80, ByOSVersion)
	assert.Equal(t, r1, r2)
	a1 := Analyze(ds, ByOSVersion)
	a2 := Analyze(ds, ByOSVersion)
	assert.Equal(t, a1, a2)
}

func TestSummaryRounding(t *testing.T) {
	ds := testDataset(
		dataset.Row{DeviceModel: "a", OSVersion: "1.0", Usage: 33.333},
		dataset.Row{DeviceModel: "b", OSVersion: "1.0", Usage: 33.333},
		dataset.Row{DeviceModel: "c", OSVersion: "1.0", Usage: 33.333},
	)
	result := Compute(ds, 100, NoGroup)
	assert.Equal(t, 100.0, result.Summary.TotalUsagePercent)
	assert.Equal(t, 100.0, result.Summary.CoveredUsagePercent)
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	ds := testDataset(
		dataset.Row{DeviceModel: "small", OSVersion: "1.0", Usage: 10},
		dataset.Row{DeviceModel: "big", OSVersion: "2.0", Usage: 90},
	)
	Compute(ds, 90, NoGroup)
	assert.Equal(t, "small", ds.Rows()[0].DeviceModel)
	assert.Equal(t, "big", ds.Rows()[1].DeviceModel)
}
