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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	raw := []byte(
		"device_model,os_version,usage_percent\n" +
			"Pixel 8,14.0,42.5\n" +
			"Galaxy S23,13.0,30\n" +
			"iPhone 15,17.1.2,27.5\n",
	)
	ds, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	rows := ds.Rows()
	assert.Equal(t, "Pixel 8", rows[0].DeviceModel)
	assert.Equal(t, "14.0", rows[0].OSVersion)
	assert.Equal(t, 42.5, rows[0].Usage)
	assert.Equal(t, 30.0, rows[1].Usage)
	assert.InDelta(t, 100.0, ds.TotalUsage(), 0.0001)
}

func TestParseIgnoresColumnOrderAndExtras(t *testing.T) {
	raw := []byte(
		"region,usage_percent,device_model,os_version\n" +
			"EU,60,Pixel 8,14.0\n" +
			"US,40,Galaxy S23,13.0\n",
	)
	ds, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, "Pixel 8", ds.Rows()[0].DeviceModel)
	assert.Equal(t, 60.0, ds.Rows()[0].Usage)
}

func TestParseMissingUsageColumn(t *testing.T) {
	raw := []byte(
		"device_model,os_version\n" +
			"Pixel 8,14.0\n",
	)
	_, err := Parse(raw)
	var schemaErr SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, ColUsage, schemaErr.Column)
}

func TestParseMissingDeviceModelColumn(t *testing.T) {
	raw := []byte(
		"os_version,usage_percent\n" +
			"14.0,60\n",
	)
	_, err := Parse(raw)
	var schemaErr SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, ColDeviceModel, schemaErr.Column)
}

func TestParseNonNumericUsage(t *testing.T) {
	raw := []byte(
		"device_model,os_version,usage_percent\n" +
			"Pixel 8,14.0,60\n" +
			"Galaxy S23,13.0,lots\n",
	)
	_, err := Parse(raw)
	var valErr ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, ColUsage, valErr.Column)
	assert.Equal(t, "lots", valErr.Value)
	assert.Equal(t, 3, valErr.Line)
}

func TestParseEmptyUsageCell(t *testing.T) {
	raw := []byte(
		"device_model,os_version,usage_percent\n" +
			"Pixel 8,14.0,\n",
	)
	_, err := Parse(raw)
	var valErr ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestParseMalformedRow(t *testing.T) {
	raw := []byte(
		"device_model,os_version,usage_percent\n" +
			"Pixel 8,14.0\n",
	)
	_, err := Parse(raw)
	var parseErr ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseInvalidUTF8(t *testing.T) {
	raw := []byte("device_model,os_version,usage_percent\n\xff\xfe,14.0,60\n")
	_, err := Parse(raw)
	var parseErr ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse([]byte(""))
	var parseErr ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseHeaderOnly(t *testing.T) {
	ds, err := Parse([]byte("device_model,os_version,usage_percent\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
}
