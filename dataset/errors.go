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

import "fmt"

// ParseError means the uploaded content could not be decoded or read
// as delimited tabular data at all.
type ParseError struct {
	Reason string
	Cause  error
}

func (err ParseError) Error() string {
	if err.Cause != nil {
		return fmt.Sprintf("failed to parse dataset: %s: %s", err.Reason, err.Cause)
	}
	return fmt.Sprintf("failed to parse dataset: %s", err.Reason)
}

func (err ParseError) Unwrap() error {
	return err.Cause
}

// SchemaError means a required column is missing from the header.
type SchemaError struct {
	Column string
}

func (err SchemaError) Error() string {
	return fmt.Sprintf("dataset is missing required column `%s`", err.Column)
}

// ValidationError means a column exists but contains a value of
// a wrong type. The whole column is considered invalid - there is
// no row-level tolerance.
type ValidationError struct {
	Column string
	Value  string
	Line   int
}

func (err ValidationError) Error() string {
	return fmt.Sprintf(
		"column `%s` must be numeric (line %d contains `%s`)",
		err.Column, err.Line, err.Value,
	)
}
