// Command shockctl inspects and plays back Director movies: `inspect` prints
// a decoded movie's structure, `run` drives the playback engine for a fixed
// number of frames and reports progress as it goes.
package main

import (
	"fmt"
	"os"

	"github.com/libreshockwave/shockwave/internal/logger"
)

// version is injected at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	sub := os.Args[1]
	args := os.Args[2:]

	switch sub {
	case "version", "-version", "--version":
		fmt.Println(version)
		return
	case "inspect":
		cfg, err := parseInspectFlags(args)
		if err != nil {
			os.Exit(2)
		}
		runWithLogger(cfg.logLevel)
		if err := runInspect(cfg); err != nil {
			logger.Error("inspect failed", "error", err)
			os.Exit(1)
		}
	case "run":
		cfg, err := parseRunFlags(args)
		if err != nil {
			os.Exit(2)
		}
		runWithLogger(cfg.logLevel)
		if err := runRun(cfg); err != nil {
			logger.Error("run failed", "error", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func runWithLogger(level string) {
	logger.Init()
	if err := logger.SetLevel(level); err != nil {
		fmt.Printf("Warning: invalid log level %q, using default\n", level)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: shockctl <inspect|run> [flags]")
	fmt.Fprintln(os.Stderr, "  inspect -movie <path> [-cast <path>]...")
	fmt.Fprintln(os.Stderr, "  run -movie <path> [-cast <path>]... [-frames N] [-log-format text|log]")
}
