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
	"context"
	"fmt"
	"net/http"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/scott-mercer/deviceiq-backend/cnf"
)

type service interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

// ------

// VersionInfo provides a detailed information about the actual build
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
}

// ------

func corsMiddleware(conf *cnf.Conf) gin.HandlerFunc {
	return func(ctx *gin.Context) {

		var allowedOrigin string
		currOrigin := ctx.Request.Header.Get("Origin")
		for _, origin := range conf.CorsAllowedOrigins {
			if currOrigin == origin || origin == "*" {
				allowedOrigin = origin
				break
			}
		}
		if allowedOrigin != "" {
			ctx.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			ctx.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			ctx.Writer.Header().Set(
				"Access-Control-Allow-Headers",
				"Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Api-Key",
			)
			ctx.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		}

		if ctx.Request.Method == "OPTIONS" {
			ctx.AbortWithStatus(204)
			return
		}
		ctx.Next()
	}
}

// authRequired checks the X-Api-Key header against the configured key
// set. With no keys configured the check is a no-op (open access mode,
// announced by a startup warning).
func authRequired(conf *cnf.Conf) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		keys := conf.APIKeys()
		if len(keys) == 0 {
			ctx.Next()
			return
		}
		provided := ctx.GetHeader("X-Api-Key")
		for _, key := range keys {
			if provided == key {
				ctx.Next()
				return
			}
		}
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("missing or invalid API key"), http.StatusUnauthorized,
		)
		ctx.Abort()
	}
}
