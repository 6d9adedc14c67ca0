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

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/scott-mercer/deviceiq-backend/coverage"
)

// runActionREPL loads a dataset once and lets the user re-run the
// coverage selection with different thresholds and grouping keys:
//
//	> 90
//	> 95 os_version
//	> exit
func runActionREPL(srcPath string) {
	ds := loadDatasetFile(srcPath)
	fmt.Printf("loaded %d rows (total usage %01.2f%%)\n", ds.Len(), ds.TotalUsage())
	fmt.Println("enter `THRESHOLD [GROUP_KEY]` or `exit`")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" {
			fmt.Println("Goodbye!")
			break
		}

		fields := strings.Fields(input)
		threshold, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || threshold < 0 || threshold > 100 {
			fmt.Fprintln(os.Stderr, "expected a threshold between 0 and 100")
			continue
		}
		key := coverage.NoGroup
		if len(fields) > 1 {
			key = coverage.ParseGroupKey(fields[1])
			if key == coverage.NoGroup {
				fmt.Fprintf(os.Stderr, "unknown grouping key `%s`, proceeding without grouping\n", fields[1])
			}
		}
		result := coverage.Compute(ds, threshold, key)
		fmt.Printf(
			"%d of %d entries cover %01.2f%% (of %01.2f%% total)\n",
			result.Summary.IncludedDevices,
			result.Summary.TotalDevices,
			result.Summary.CoveredUsagePercent,
			result.Summary.TotalUsagePercent,
		)
	}
}
