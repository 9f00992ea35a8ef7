// Copyright 2025 The PlaceServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the place suggestion server and CLI application.

PlaceServe serves autocomplete-style suggestions for place names: a partial
query, optionally biased by a geographic point, comes back as a ranked and
score-annotated list of matching places. Matching runs over a patricia trie
built from a tab-delimited gazetteer file loaded once at startup.

# Usage

Start the server with default settings:

	placeserve -data data/places.tsv

Run in CLI mode for interactive testing:

	placeserve -data data/places.tsv -c -limit 10

The gazetteer file is tab-delimited with a header line naming at least the
name, alternate-names, latitude, longitude, population, country and admin
region columns. Malformed rows are skipped with a warning during load; an
unreadable file is fatal and the server never reports ready.

# Configuration

Runtime configuration is managed through a TOML file:

	[server]
	max_results = 4
	min_prefix = 1
	max_prefix = 60

	[gazetteer]
	path = "data/places.tsv"

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. A request names a
query and an optional point; the response carries scored suggestions in
ranked order:

	{"id": "req1", "q": "Londo", "lat": 43.0, "lon": -81.0}
	{"id": "req1", "s": [{"n": "London", "lat": 42.98, "lon": -81.23, "sc": 0.83}], "c": 1, "st": 200, "t": 130}

With a point supplied, suggestions rank nearest first by great-circle
distance; without one they rank by population, largest first. Scores reflect
how much of the name the query covers and are independent of the ranking.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/placeserve/placeserve/internal/cli"
	"github.com/placeserve/placeserve/internal/logger"
	"github.com/placeserve/placeserve/pkg/config"
	"github.com/placeserve/placeserve/pkg/gazetteer"
	"github.com/placeserve/placeserve/pkg/server"
	"github.com/placeserve/placeserve/pkg/suggest"
)

const (
	Version = "0.3.0"
	AppName = "placeserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the loaded gazetteer into the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	// All logging goes to stderr; stdout belongs to the IPC stream.
	log.SetDefault(logger.New(AppName))

	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataPath := flag.String("data", "", "Path to the tab-delimited gazetteer file (overrides config)")
	configPath := flag.String("config", "", "Path to a custom config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to return")
	minPrefix := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum query length for suggestions")
	maxPrefix := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum query length for suggestions")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.NoFilter, "Disable input filtering (DBG only) - passes numbers, symbols, etc. through to matching")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	source := appConfig.Gazetteer.Path
	if *dataPath != "" {
		source = *dataPath
	}

	log.Debugf("Loading gazetteer from: %s", source)
	gz, err := gazetteer.Load(source)
	if err != nil {
		log.Fatalf("Failed to load gazetteer: %v", err)
	}
	log.Debugf("Gazetteer ready: %d places (%d rows skipped)", gz.Len(), gz.Skipped())

	suggester := suggest.New(gz)

	// CLI is mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(suggester, *minPrefix, *maxPrefix, *limit, *noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(suggester, appConfig)

	showStartupInfo(source, gz)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// printVersion displays the version banner.
func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ PlaceServe ] Serves place name suggestions!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(source string, gz *gazetteer.Gazetteer) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("gazetteer: ( %s )", source)
	log.Infof("places: %d", gz.Len())
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
