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
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/scott-mercer/deviceiq-backend/coverage"
	"github.com/scott-mercer/deviceiq-backend/dataset"
)

const (
	errColor     = color.FgHiRed
	headingColor = color.FgHiCyan
)

// loadDatasetFile reads and validates a local CSV file, exiting the
// process on any failure (this is CLI-only code, the server maps the
// same failures to HTTP statuses instead).
func loadDatasetFile(srcPath string) *dataset.Dataset {
	if srcPath == "" {
		color.New(errColor).Fprintln(os.Stderr, "missing data file argument")
		os.Exit(exitErrorInvalidArgs)
	}
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorFailedToLoadData)
	}
	ds, err := dataset.Parse(raw)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorFailedToLoadData)
	}
	return ds
}

func entryLabel(entry coverage.Entry) (string, string) {
	osv := entry.OSVersion
	if entry.OSMajorVersion != "" {
		osv = entry.OSMajorVersion
	}
	return entry.DeviceModel, osv
}

func printCoverage(result coverage.Result) {
	color.New(headingColor).Println("coverage matrix")
	fmt.Printf("%-30s %-16s %13s %12s\n", "device model", "os version", "usage %", "cumulative")
	for _, entry := range result.Matrix {
		model, osv := entryLabel(entry.Entry)
		fmt.Printf("%-30s %-16s %13.2f %12.2f\n", model, osv, entry.Usage, entry.Cumulative)
	}
	fmt.Println()
	color.New(headingColor).Println("summary")
	fmt.Printf("total devices:\t\t%d\n", result.Summary.TotalDevices)
	fmt.Printf("included devices:\t%d\n", result.Summary.IncludedDevices)
	fmt.Printf("total usage:\t\t%01.2f%%\n", result.Summary.TotalUsagePercent)
	fmt.Printf("covered usage:\t\t%01.2f%%\n", result.Summary.CoveredUsagePercent)
}

func printAnalytics(result coverage.Analytics) {
	color.New(headingColor).Println("usage distribution")
	fmt.Printf("%-30s %-16s %13s %12s\n", "device model", "os version", "usage %", "cumulative")
	for _, entry := range result.CumulativeCurve {
		model, osv := entryLabel(entry.Entry)
		fmt.Printf("%-30s %-16s %13.2f %12.2f\n", model, osv, entry.Usage, entry.Cumulative)
	}
	fmt.Println()
	color.New(headingColor).Println("os version breakdown")
	for _, item := range result.OSVersionBreakdown {
		fmt.Printf("%-16s %13.2f\n", item.OSVersion, item.Usage)
	}
}

func runActionAnalyze(threshold float64, groupBy string, showAnalytics bool, srcPath string) {
	if threshold < 0 || threshold > 100 {
		color.New(errColor).Fprintln(os.Stderr, "threshold must be between 0 and 100")
		os.Exit(exitErrorInvalidArgs)
	}
	ds := loadDatasetFile(srcPath)
	key := coverage.ParseGroupKey(groupBy)
	if groupBy != "" && key == coverage.NoGroup {
		fmt.Fprintf(os.Stderr, "unknown grouping key `%s`, proceeding without grouping\n", groupBy)
	}
	if showAnalytics {
		printAnalytics(coverage.Analyze(ds, key))
		return
	}
	printCoverage(coverage.Compute(ds, threshold, key))
}
