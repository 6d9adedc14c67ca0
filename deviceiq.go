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
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/scott-mercer/deviceiq-backend/apiserver"
	"github.com/scott-mercer/deviceiq-backend/cnf"
)

const (
	actionServer  = "server"
	actionAnalyze = "analyze"
	actionREPL    = "repl"
	actionVersion = "version"
	actionHelp    = "help"
)

const (
	exitErrorGeneralFailure = iota + 1
	exitErrorInvalidArgs
	exitErrorFailedToLoadData
)

var (
	version   string
	buildDate string
	gitCommit string
)

func topLevelUsage() {
	fmt.Fprintf(os.Stderr, "DEVICEIQ - a device population coverage analyzer\n")
	fmt.Fprintf(os.Stderr, "-----------------------------\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "\t%s\t\t\tshow version info\n", actionVersion)
	fmt.Fprintf(os.Stderr, "\t%s\t\t\trun the HTTP API server\n", actionServer)
	fmt.Fprintf(os.Stderr, "\t%s\t\t\tcompute coverage for a local CSV file\n", actionAnalyze)
	fmt.Fprintf(os.Stderr, "\t%s\t\t\texplore thresholds interactively\n", actionREPL)
	fmt.Fprintf(os.Stderr, "\nUse `deviceiq help ACTION` for information about a specific action\n\n")
}

func setup(confPath string) *cnf.Conf {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, relying on the environment")
	}
	conf := cnf.LoadConfig(confPath)
	if conf.Logging.Level == "" {
		conf.Logging.Level = "info"
	}
	logging.SetupLogging(conf.Logging)
	cnf.ValidateAndDefaults(conf)
	return conf
}

func cleanVersionInfo(v string) string {
	return strings.TrimLeft(strings.Trim(v, "'"), "v")
}

func runActionVersion(ver apiserver.VersionInfo) {
	fmt.Fprintln(os.Stderr, "DeviceIQ version: ", ver)
}

func main() {
	version := apiserver.VersionInfo{
		Version:   cleanVersionInfo(version),
		BuildDate: cleanVersionInfo(buildDate),
		GitCommit: cleanVersionInfo(gitCommit),
	}

	cmdServer := flag.NewFlagSet(actionServer, flag.ExitOnError)
	cmdServer.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s config.json\n",
			filepath.Base(os.Args[0]), actionServer)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		cmdServer.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nRun the DeviceIQ HTTP API server\n")
	}

	cmdAnalyze := flag.NewFlagSet(actionAnalyze, flag.ExitOnError)
	analyzeThreshold := cmdAnalyze.Float64(
		"threshold", 90,
		"coverage threshold in percent (0-100)")
	analyzeGroupBy := cmdAnalyze.String(
		"group-by", "",
		"group rows by device_model, os_version or os_major_version before selection")
	analyzeAnalytics := cmdAnalyze.Bool(
		"analytics", false,
		"print analytics views instead of the coverage matrix")
	cmdAnalyze.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s [options] data.csv\n",
			filepath.Base(os.Args[0]), actionAnalyze)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		cmdAnalyze.PrintDefaults()
	}

	cmdREPL := flag.NewFlagSet(actionREPL, flag.ExitOnError)
	cmdREPL.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s data.csv\n",
			filepath.Base(os.Args[0]), actionREPL)
		cmdREPL.PrintDefaults()
	}

	cmdVersion := flag.NewFlagSet(actionVersion, flag.ExitOnError)
	cmdVersion.Usage = func() {
		cmdVersion.PrintDefaults()
	}

	cmdHelp := flag.NewFlagSet(actionHelp, flag.ExitOnError)
	cmdHelp.Usage = func() {
		cmdHelp.PrintDefaults()
	}

	action := actionHelp
	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	switch action {
	case actionHelp:
		var subj string
		if len(os.Args) > 2 {
			cmdHelp.Parse(os.Args[2:])
			subj = cmdHelp.Arg(0)
		}
		if subj == "" {
			topLevelUsage()
			return
		}
		switch subj {
		case actionServer:
			cmdServer.Usage()
		case actionAnalyze:
			cmdAnalyze.Usage()
		case actionREPL:
			cmdREPL.Usage()
		}
	case actionVersion:
		cmdVersion.Parse(os.Args[2:])
		runActionVersion(version)
	case actionServer:
		cmdServer.Parse(os.Args[2:])
		conf := setup(cmdServer.Arg(0))
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		apiserver.Run(ctx, conf, version)
	case actionAnalyze:
		cmdAnalyze.Parse(os.Args[2:])
		runActionAnalyze(
			*analyzeThreshold, *analyzeGroupBy, *analyzeAnalytics, cmdAnalyze.Arg(0))
	case actionREPL:
		cmdREPL.Parse(os.Args[2:])
		runActionREPL(cmdREPL.Arg(0))
	default:
		fmt.Fprintf(os.Stderr, "Unknown action, please use 'help' to get more information")
	}

}
