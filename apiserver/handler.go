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
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/scott-mercer/deviceiq-backend/coverage"
	"github.com/scott-mercer/deviceiq-backend/dataset"
	"github.com/scott-mercer/deviceiq-backend/stats"
)

func (api *apiServer) handleVersion(ctx *gin.Context) {
	uniresp.WriteJSONResponse(ctx.Writer, api.version)
}

// readUpload extracts and validates the uploaded CSV from the `file`
// multipart field. On failure it writes the error response itself and
// returns ok=false; the dataset failure taxonomy maps to 422, missing
// upload to 400.
func (api *apiServer) readUpload(ctx *gin.Context) (*dataset.Dataset, string, bool) {
	file, err := ctx.FormFile("file")
	if err != nil {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("missing `file` upload field: %w", err), http.StatusBadRequest,
		)
		return nil, "", false
	}
	fr, err := file.Open()
	if err != nil {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("failed to read upload: %w", err), http.StatusBadRequest,
		)
		return nil, "", false
	}
	defer fr.Close()
	raw, err := io.ReadAll(fr)
	if err != nil {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("failed to read upload: %w", err), http.StatusBadRequest,
		)
		return nil, "", false
	}

	ds, err := dataset.Parse(raw)
	if err != nil {
		var parseErr dataset.ParseError
		var schemaErr dataset.SchemaError
		var valErr dataset.ValidationError
		switch {
		case errors.As(err, &parseErr), errors.As(err, &schemaErr), errors.As(err, &valErr):
			uniresp.RespondWithErrorJSON(ctx, err, http.StatusUnprocessableEntity)
		default:
			uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		}
		return nil, "", false
	}
	return ds, file.Filename, true
}

// thresholdArg reads the `threshold` query argument, falling back to
// the configured default. On failure it writes the error response
// itself and returns ok=false.
func (api *apiServer) thresholdArg(ctx *gin.Context) (float64, bool) {
	raw := ctx.Query("threshold")
	if raw == "" {
		return api.conf.DefaultCoverageThreshold, true
	}
	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("invalid threshold value: %w", err), http.StatusBadRequest,
		)
		return 0, false
	}
	if threshold < 0 || threshold > 100 {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("threshold must be between 0 and 100"), http.StatusBadRequest,
		)
		return 0, false
	}
	return threshold, true
}

func (api *apiServer) handleCoverage(ctx *gin.Context) {
	threshold, ok := api.thresholdArg(ctx)
	if !ok {
		return
	}
	ds, name, ok := api.readUpload(ctx)
	if !ok {
		datasetsProcessed.WithLabelValues(stats.OpCoverage, "rejected").Inc()
		return
	}
	key := coverage.ParseGroupKey(ctx.Query("groupBy"))

	t0 := time.Now()
	result := coverage.Compute(ds, threshold, key)
	procTime := time.Since(t0)

	datasetsProcessed.WithLabelValues(stats.OpCoverage, "ok").Inc()
	processingDuration.WithLabelValues(stats.OpCoverage).Observe(procTime.Seconds())
	datasetRows.Observe(float64(ds.Len()))

	api.audit(stats.Record{
		ID:           stats.IdempotentID(t0, name),
		Datetime:     t0.Unix(),
		Operation:    stats.OpCoverage,
		Dataset:      name,
		NumRows:      ds.Len(),
		NumGroups:    result.Summary.TotalDevices,
		GroupKey:     key.String(),
		Threshold:    threshold,
		CoveredUsage: result.Summary.CoveredUsagePercent,
		ProcTime:     procTime.Seconds(),
	})
	api.hub.Publish(StreamEvent{
		Timestamp: t0.Format(time.RFC3339),
		Operation: stats.OpCoverage,
		Dataset:   name,
		NumRows:   ds.Len(),
		Message: fmt.Sprintf(
			"selected %d of %d entries covering %01.2f%%",
			result.Summary.IncludedDevices,
			result.Summary.TotalDevices,
			result.Summary.CoveredUsagePercent,
		),
	})

	uniresp.WriteJSONResponse(ctx.Writer, result)
}

func (api *apiServer) handleAnalytics(ctx *gin.Context) {
	ds, name, ok := api.readUpload(ctx)
	if !ok {
		datasetsProcessed.WithLabelValues(stats.OpAnalytics, "rejected").Inc()
		return
	}
	key := coverage.ParseGroupKey(ctx.Query("groupBy"))

	t0 := time.Now()
	result := coverage.Analyze(ds, key)
	procTime := time.Since(t0)

	datasetsProcessed.WithLabelValues(stats.OpAnalytics, "ok").Inc()
	processingDuration.WithLabelValues(stats.OpAnalytics).Observe(procTime.Seconds())
	datasetRows.Observe(float64(ds.Len()))

	api.audit(stats.Record{
		ID:        stats.IdempotentID(t0, name),
		Datetime:  t0.Unix(),
		Operation: stats.OpAnalytics,
		Dataset:   name,
		NumRows:   ds.Len(),
		NumGroups: len(result.UsageDistribution),
		GroupKey:  key.String(),
	})
	api.hub.Publish(StreamEvent{
		Timestamp: t0.Format(time.RFC3339),
		Operation: stats.OpAnalytics,
		Dataset:   name,
		NumRows:   ds.Len(),
		Message: fmt.Sprintf(
			"computed analytics over %d entries (%d OS versions)",
			len(result.UsageDistribution),
			len(result.OSVersionBreakdown),
		),
	})

	uniresp.WriteJSONResponse(ctx.Writer, result)
}

func (api *apiServer) handleRecentStats(ctx *gin.Context) {
	if api.statsDB == nil {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("request auditing is disabled"), http.StatusNotFound,
		)
		return
	}
	filter := stats.ListFilter{}
	if op := ctx.Query("op"); op != "" {
		if op != stats.OpCoverage && op != stats.OpAnalytics {
			uniresp.RespondWithErrorJSON(
				ctx, fmt.Errorf("unknown operation filter `%s`", op), http.StatusBadRequest,
			)
			return
		}
		filter = filter.SetOperation(op)
	}
	limit := 20
	if raw := ctx.Query("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			uniresp.RespondWithErrorJSON(
				ctx, fmt.Errorf("invalid limit value"), http.StatusBadRequest,
			)
			return
		}
	}
	records, err := api.statsDB.GetRecords(filter, limit)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, map[string]any{"records": records})
}

// audit writes a computation record to the stats database (if one is
// configured). Audit failures are logged and never propagated - they
// must not affect the client-visible result.
func (api *apiServer) audit(rec stats.Record) {
	if api.statsDB == nil {
		return
	}
	if err := api.statsDB.AddRecord(rec); err != nil {
		log.Error().Err(err).Str("recordId", rec.ID).Msg("failed to store audit record")
	}
}
