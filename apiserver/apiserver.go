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

// Package apiserver is the transport boundary of the service. It only
// moves bytes and maps engine failures to HTTP statuses - all numeric
// results come from the coverage package untouched.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/scott-mercer/deviceiq-backend/cnf"
	"github.com/scott-mercer/deviceiq-backend/stats"
)

// -----

type apiServer struct {
	conf    *cnf.Conf
	version VersionInfo
	server  *http.Server
	statsDB *stats.Database
	hub     *streamHub
}

func (api *apiServer) Start(ctx context.Context) {
	if !api.conf.Logging.Level.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	go api.hub.run(ctx)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logging.GinMiddleware())
	engine.Use(uniresp.AlwaysJSONContentType())
	engine.Use(corsMiddleware(api.conf))
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	engine.GET("/version", api.handleVersion)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/logstream", api.handleLogStream)
	engine.POST("/coverage", authRequired(api.conf), api.handleCoverage)
	engine.POST("/analytics", authRequired(api.conf), api.handleAnalytics)
	engine.GET("/recent", authRequired(api.conf), api.handleRecentStats)
	if api.conf.DemoPageEnabled {
		engine.GET("/upload", api.handleDemoPage)
	}

	log.Info().Msgf("starting to listen at %s:%d", api.conf.ListenAddress, api.conf.ListenPort)
	api.server = &http.Server{
		Handler:      engine,
		Addr:         fmt.Sprintf("%s:%d", api.conf.ListenAddress, api.conf.ListenPort),
		WriteTimeout: time.Duration(api.conf.ServerWriteTimeoutSecs) * time.Second,
		ReadTimeout:  time.Duration(api.conf.ServerReadTimeoutSecs) * time.Second,
	}
	go func() {
		if err := api.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
}

func (api *apiServer) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down DeviceIQ HTTP API server")
	if api.statsDB != nil {
		if err := api.statsDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close stats database")
		}
	}
	return api.server.Shutdown(ctx)
}

// -------------------------

func Run(
	ctx context.Context,
	conf *cnf.Conf,
	version VersionInfo,
) {

	server := &apiServer{
		conf:    conf,
		version: version,
		hub:     newStreamHub(),
	}

	if conf.StatsDBPath != "" {
		statsDB, err := stats.NewDatabase(conf.StatsDBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open stats database")
			return
		}
		if err := statsDB.Init(); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize stats database")
			return
		}
		server.statsDB = statsDB
		log.Info().Str("path", conf.StatsDBPath).Msg("request auditing enabled")
	}

	services := []service{server}
	for _, m := range services {
		m.Start(ctx)
	}
	<-ctx.Done()
	log.Warn().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range services {
		wg.Add(1)
		go func(srv service) {
			defer wg.Done()
			if err := srv.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Type("service", srv).Msg("Error shutting down service")
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		log.Warn().Msg("Shutdown timed out")
	}
}
