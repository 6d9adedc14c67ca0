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

package apiserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// datasetsProcessed counts processed uploads.
	// Labels:
	//   - operation: "coverage", "analytics"
	//   - outcome: "ok", "rejected"
	datasetsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deviceiq_datasets_processed_total",
			Help: "Total number of processed dataset uploads",
		},
		[]string{"operation", "outcome"},
	)

	// processingDuration measures the engine computation time only,
	// excluding upload transfer and serialization.
	processingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deviceiq_processing_duration_seconds",
			Help:    "Duration of coverage/analytics computations",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	// datasetRows observes sizes of accepted datasets.
	datasetRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "deviceiq_dataset_rows",
			Help:    "Row counts of accepted datasets",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
	)
)
