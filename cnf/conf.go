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

package cnf

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/rs/zerolog/log"
)

const (
	dfltServerWriteTimeoutSecs = 30
	dfltServerReadTimeoutSecs  = 30
	dfltCoverageThreshold      = 90
	dfltTimeZone               = "UTC"

	// envAPIKeys holds comma-separated API keys accepted by the
	// X-Api-Key check. Keys are secrets and come from the environment
	// (or a .env file), never from the JSON config.
	envAPIKeys = "DEVICEIQ_API_KEYS"
)

type Conf struct {
	srcPath                string
	apiKeys                []string
	Logging                logging.LoggingConf `json:"logging"`
	ListenAddress          string              `json:"listenAddress"`
	PublicURL              string              `json:"publicUrl"`
	ListenPort             int                 `json:"listenPort"`
	ServerReadTimeoutSecs  int                 `json:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int                 `json:"serverWriteTimeoutSecs"`
	CorsAllowedOrigins     []string            `json:"corsAllowedOrigins"`
	TimeZone               string              `json:"timeZone"`

	// DefaultCoverageThreshold is applied when a request does not
	// provide its own `threshold` argument.
	DefaultCoverageThreshold float64 `json:"defaultCoverageThreshold"`

	// StatsDBPath is a path to the sqlite audit database. When empty,
	// auditing is disabled.
	StatsDBPath string `json:"statsDbPath"`

	// DemoPageEnabled exposes the HTML upload page at /upload.
	DemoPageEnabled bool `json:"demoPageEnabled"`
}

// APIKeys returns the accepted API keys. An empty slice means the
// check is disabled.
func (conf *Conf) APIKeys() []string {
	return conf.apiKeys
}

func LoadConfig(path string) *Conf {
	if path == "" {
		log.Fatal().Msg("Cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	var conf Conf
	conf.srcPath = path
	err = json.Unmarshal(rawData, &conf)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	return &conf
}

func ValidateAndDefaults(conf *Conf) {
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.ServerReadTimeoutSecs == 0 {
		conf.ServerReadTimeoutSecs = dfltServerReadTimeoutSecs
		log.Warn().Msgf(
			"serverReadTimeoutSecs not specified, using default: %d",
			dfltServerReadTimeoutSecs,
		)
	}
	if conf.PublicURL == "" {
		conf.PublicURL = fmt.Sprintf("http://%s", conf.ListenAddress)
		log.Warn().Str("address", conf.PublicURL).Msg("publicUrl not set, using listenAddress")
	}
	if conf.DefaultCoverageThreshold == 0 {
		conf.DefaultCoverageThreshold = dfltCoverageThreshold
		log.Warn().Msgf(
			"defaultCoverageThreshold not specified, using default: %d",
			dfltCoverageThreshold,
		)
	}
	if conf.DefaultCoverageThreshold < 0 || conf.DefaultCoverageThreshold > 100 {
		log.Fatal().
			Float64("defaultCoverageThreshold", conf.DefaultCoverageThreshold).
			Msg("coverage threshold must be between 0 and 100")
	}

	if conf.TimeZone == "" {
		conf.TimeZone = dfltTimeZone
		log.Warn().
			Str("timeZone", dfltTimeZone).
			Msg("time zone not specified, using default")
	}
	if _, err := time.LoadLocation(conf.TimeZone); err != nil {
		log.Fatal().Err(err).Msg("invalid time zone")
	}

	if rawKeys := os.Getenv(envAPIKeys); rawKeys != "" {
		for _, key := range strings.Split(rawKeys, ",") {
			if key = strings.TrimSpace(key); key != "" {
				conf.apiKeys = append(conf.apiKeys, key)
			}
		}
	}
	if len(conf.apiKeys) == 0 {
		log.Warn().Msgf("%s not set - API access is open", envAPIKeys)
	}

	if conf.StatsDBPath == "" {
		log.Warn().Msg("statsDbPath not set - request auditing is disabled")
	}
}
