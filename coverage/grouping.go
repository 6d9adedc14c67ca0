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
	"encoding/json"

	"github.com/scott-mercer/deviceiq-backend/dataset"
)

// Entry is a row or a grouped row as it appears in result payloads.
// The serialized form carries only the descriptive columns applicable
// to the grouping that produced the entry; an empty cell value still
// serializes. OSMajorVersion is filled only when grouping by it was
// explicitly requested - the derived value never leaks into ungrouped
// output.
type Entry struct {
	DeviceModel    string
	OSVersion      string
	OSMajorVersion string
	Usage          float64

	key GroupKey
}

func (entry Entry) MarshalJSON() ([]byte, error) {
	if entry.key == ByOSMajorVersion {
		return json.Marshal(struct {
			DeviceModel    string  `json:"device_model"`
			OSMajorVersion string  `json:"os_major_version"`
			Usage          float64 `json:"usage_percent"`
		}{entry.DeviceModel, entry.OSMajorVersion, entry.Usage})
	}
	return json.Marshal(struct {
		DeviceModel string  `json:"device_model"`
		OSVersion   string  `json:"os_version"`
		Usage       float64 `json:"usage_percent"`
	}{entry.DeviceModel, entry.OSVersion, entry.Usage})
}

// MatrixEntry is an Entry annotated with the running cumulative usage
// over the descending-usage ordering.
type MatrixEntry struct {
	Entry
	Cumulative float64
}

func (entry MatrixEntry) MarshalJSON() ([]byte, error) {
	if entry.key == ByOSMajorVersion {
		return json.Marshal(struct {
			DeviceModel    string  `json:"device_model"`
			OSMajorVersion string  `json:"os_major_version"`
			Usage          float64 `json:"usage_percent"`
			Cumulative     float64 `json:"cumulative_coverage"`
		}{entry.DeviceModel, entry.OSMajorVersion, entry.Usage, entry.Cumulative})
	}
	return json.Marshal(struct {
		DeviceModel string  `json:"device_model"`
		OSVersion   string  `json:"os_version"`
		Usage       float64 `json:"usage_percent"`
		Cumulative  float64 `json:"cumulative_coverage"`
	}{entry.DeviceModel, entry.OSVersion, entry.Usage, entry.Cumulative})
}

// Regroup collapses dataset rows by the requested key, summing usage
// per group. Partition order is the first-appearance order of each
// distinct key value in the input, and the representative value for
// the sibling descriptive attribute is taken from the first row of the
// partition. Both are order-dependent by contract and must not change.
// With NoGroup the rows are passed through unchanged.
func Regroup(ds *dataset.Dataset, key GroupKey) []Entry {
	rows := ds.Rows()
	if key == NoGroup {
		ans := make([]Entry, len(rows))
		for i, row := range rows {
			ans[i] = Entry{
				DeviceModel: row.DeviceModel,
				OSVersion:   row.OSVersion,
				Usage:       row.Usage,
			}
		}
		return ans
	}

	ans := make([]Entry, 0, len(rows))
	position := make(map[string]int)
	for _, row := range rows {
		var kv string
		switch key {
		case ByDeviceModel:
			kv = row.DeviceModel
		case ByOSVersion:
			kv = row.OSVersion
		case ByOSMajorVersion:
			kv = majorVersion(row.OSVersion)
		}
		if pos, ok := position[kv]; ok {
			ans[pos].Usage += row.Usage
			continue
		}
		position[kv] = len(ans)
		entry := Entry{Usage: row.Usage, key: key}
		switch key {
		case ByDeviceModel:
			entry.DeviceModel = kv
			entry.OSVersion = row.OSVersion
		case ByOSVersion:
			entry.OSVersion = kv
			entry.DeviceModel = row.DeviceModel
		case ByOSMajorVersion:
			entry.OSMajorVersion = kv
			entry.DeviceModel = row.DeviceModel
		}
		ans = append(ans, entry)
	}
	return ans
}
