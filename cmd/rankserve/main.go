/*
Package main implements the candidate ranking server and CLI [DBG]
application.

RankServe provides fast staged fuzzy ranking of file, directory and agent
candidates for interactive autocomplete popups. It can operate as a
MessagePack IPC server for integration with editors, or as a CLI
application for testing and debugging the scoring pipeline.

The server keeps the whole candidate set in memory and re-ranks it per
keystroke. A query that strictly extends the previous one re-scores only
the previous result set, so latency stays flat while the user types.
Usage events recorded by the client feed frequency and recency bonuses
that decay over a week.

# Usage

Start the server over the current directory:

	rankserve

Index a specific tree and enable debug mode:

	rankserve -dir /path/to/project -d

Run in CLI mode for interactive testing:

	rankserve -c -dir . -limit 10

# Configuration

Runtime configuration is managed through a TOML file that supports server
parameters, scoring options and bonus decay tuning:

	[server]
	max_results = 20
	min_query = 0
	max_query = 120

	[rank]
	fold_cache_size = 2000
	detect_boundaries = true

	[bonus]
	max_frequency = 50
	max_recency = 30
	max_modified = 40
	half_life_hours = 6
	ttl_days = 7

The config file is automatically created with defaults if it doesn't
exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Rank requests
are processed synchronously with microsecond timing information included
in responses.

Send a rank request:

	{"id": "req1", "q": "conf", "l": 20}

Receive ranked suggestions:

	{"id": "req1", "s": [{"n": "config.ts", "p": "src/config.ts", "k": 0, "r": 526}], "c": 1, "t": 145}

Record a pick so the chosen candidate ranks higher next time:

	{"id": "use1", "action": "record", "i": "src/config.ts"}

Switch scope when the user changes base directory (this clears the
incremental-search cache):

	{"id": "sc1", "action": "scope", "dir": "/home/user/project"}

# Ranking Engine

The core scoring lives in the rank package: a staged exact/prefix/
contains/fuzzy classifier over case-folded names, additive usage and
recency bonuses with decay curves, a deterministic tiebreaker, and an
incremental search cache whose narrowed results are provably identical to
a full rescan.

	scorer := rank.NewScorer(rank.NewFoldCache(0), rank.NewMatcher(), rank.DefaultBonusConfig())
	searcher := rank.NewSearcher(scorer, tracker, 20)
	results := searcher.SearchAll(store.All(), "conf")

# Command Line Flags

The following flags control application behavior:

	-dir string
	    Directory tree to index as candidates (default ".")
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to return (default from config)
	-files int
	    Maximum files to index (0 for all)
	-config string
	    Custom config.toml path
	-version
	    Show current version

Usage snapshots persist next to the config file, so frequency and recency
bonuses survive restarts.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/rankserve/rankserve/internal/cli"
	"github.com/rankserve/rankserve/internal/logger"
	"github.com/rankserve/rankserve/pkg/config"
	"github.com/rankserve/rankserve/pkg/history"
	"github.com/rankserve/rankserve/pkg/index"
	"github.com/rankserve/rankserve/pkg/rank"
	"github.com/rankserve/rankserve/pkg/server"
)

const (
	Version = "0.4.0"
	AppName = "rankserve"
	gh      = "https://github.com/rankserve/rankserve"
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

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	rootDir := flag.String("dir", ".", "Directory tree to index as candidates")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of suggestions to return (0 = config default)")
	maxFiles := flag.Int("files", 0, "Maximum number of files to index (use 0 for all)")
	configFlag := flag.String("config", "", "Custom config.toml path")

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

	configPath := *configFlag
	if configPath == "" {
		var err error
		configPath, err = config.GetDefaultConfigPath()
		if err != nil {
			log.Fatalf("Failed to determine config path: (%v)", err)
		}
	}
	log.Debugf("Using config file: (%s)", configPath)

	appConfig, err := config.InitConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *limit > 0 {
		appConfig.Server.MaxResults = *limit
	}

	store := index.NewStore()
	indexed, err := store.LoadDir(*rootDir, *maxFiles)
	if err != nil {
		log.Warnf("Indexing %s stopped early: %v", *rootDir, err)
	}
	log.Debugf("Indexed %d candidates under %s", indexed, *rootDir)

	bonusCfg := appConfig.Bonus.ToRank()
	tracker := history.NewTracker(bonusCfg)
	snapshotPath := filepath.Join(filepath.Dir(configPath), "usage.msgpack")
	if err := tracker.Load(snapshotPath); err != nil {
		log.Warnf("Loading usage snapshot: %v", err)
	}

	matcher := &rank.Matcher{
		CaseSensitive:    appConfig.Rank.CaseSensitive,
		DetectBoundaries: appConfig.Rank.DetectBoundaries,
	}
	scorer := rank.NewScorer(rank.NewFoldCache(appConfig.Rank.FoldCacheSize), matcher, bonusCfg)
	searcher := rank.NewSearcher(scorer, tracker, appConfig.Server.MaxResults)
	searcher.SetScope("")

	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(store, tracker, searcher,
			appConfig.Server.MinQuery, appConfig.Server.MaxQuery)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(store, tracker, searcher, appConfig, configPath)
	srv.SetSnapshotPath(snapshotPath)

	showStartupInfo(*rootDir, indexed)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func printVersion() {
	vlog := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	vlog.SetStyles(styles)

	vlog.Print("")
	vlog.Print("[ RankServe ] Ranks popup candidates, really fast!")
	vlog.Print("", "version", Version)
	vlog.Print("")
	vlog.Print("use -h or --help to see available options")
	vlog.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(rootDir string, indexed int) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" RankServe ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("index root: ( %s )", rootDir)
	log.Infof("candidates: [ %d ]", indexed)
	log.Info("status: ready")
	println("===========")

	log.SetLevel(currentLevel)
}
