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

import "strings"

// GroupKey selects the dimension rows are collapsed by before the
// coverage selection and analytics.
type GroupKey int

const (
	NoGroup GroupKey = iota
	ByDeviceModel
	ByOSVersion
	ByOSMajorVersion
)

// ParseGroupKey maps a raw request value to a GroupKey. Unrecognized
// values (including the empty string) fall back to NoGroup - this is
// a silent fallback, not an error.
func ParseGroupKey(v string) GroupKey {
	switch v {
	case "device_model":
		return ByDeviceModel
	case "os_version":
		return ByOSVersion
	case "os_major_version":
		return ByOSMajorVersion
	default:
		return NoGroup
	}
}

func (gk GroupKey) String() string {
	switch gk {
	case ByDeviceModel:
		return "device_model"
	case ByOSVersion:
		return "os_version"
	case ByOSMajorVersion:
		return "os_major_version"
	default:
		return "none"
	}
}

// majorVersion extracts the leading dot-delimited segment of a version
// string ("12.1.3" -> "12"). A string without a dot is its own major
// version. The comparison stays textual - "10" and "10.0" are distinct.
func majorVersion(osVersion string) string {
	major, _, _ := strings.Cut(osVersion, ".")
	return major
}
