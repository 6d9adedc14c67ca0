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

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	ColDeviceModel = "device_model"
	ColOSVersion   = "os_version"
	ColUsage       = "usage_percent"
)

// requiredColumns lists columns every upload must provide, under
// exactly these names.
var requiredColumns = []string{ColDeviceModel, ColOSVersion, ColUsage}

// Parse loads raw uploaded content into a Dataset. The content must be
// UTF-8 encoded, comma-delimited tabular data with a header row.
// Failures are typed: ParseError for undecodable/malformed input,
// SchemaError for a missing required column, ValidationError when the
// usage column contains a non-numeric value. A single bad usage cell
// invalidates the whole dataset.
func Parse(raw []byte) (*Dataset, error) {
	if !utf8.Valid(raw) {
		return nil, ParseError{Reason: "content is not valid UTF-8"}
	}
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ParseError{Reason: "empty input"}
	} else if err != nil {
		return nil, ParseError{Reason: "cannot read header", Cause: err}
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}
	for _, req := range requiredColumns {
		if _, ok := colIdx[req]; !ok {
			return nil, SchemaError{Column: req}
		}
	}

	rows := make([]Row, 0, 100)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break

		} else if err != nil {
			return nil, ParseError{Reason: "malformed row", Cause: err}
		}
		line++
		rawUsage := strings.TrimSpace(record[colIdx[ColUsage]])
		usage, err := strconv.ParseFloat(rawUsage, 64)
		if err != nil {
			return nil, ValidationError{
				Column: ColUsage,
				Value:  rawUsage,
				Line:   line,
			}
		}
		rows = append(
			rows,
			Row{
				DeviceModel: record[colIdx[ColDeviceModel]],
				OSVersion:   record[colIdx[ColOSVersion]],
				Usage:       usage,
			},
		)
	}
	return NewDataset(rows), nil
}
