package main

import (
	"errors"
	"flag"
	"os"
	"strings"
)

// stringSliceFlag implements flag.Value for a flag passed multiple times,
// collecting each occurrence (e.g. -cast used once per external cast file).
type stringSliceFlag []string

func (s *stringSliceFlag) String() string { return strings.Join(*s, ", ") }
func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, value)
	return nil
}

type inspectConfig struct {
	moviePath string
	casts     []string
	logLevel  string
}

func parseInspectFlags(args []string) (*inspectConfig, error) {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	cfg := &inspectConfig{}
	var casts stringSliceFlag
	fs.StringVar(&cfg.moviePath, "movie", "", "Path to a .dir/.dcr movie or .cst/.cct cast file")
	fs.Var(&casts, "cast", "Path to an external cast file (can be specified multiple times)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug|info|warn|error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.casts = casts

	if cfg.moviePath == "" {
		return nil, errors.New("inspect: -movie is required")
	}
	return cfg, nil
}

type runConfig struct {
	moviePath string
	casts     []string
	frames    int
	logLevel  string
	logFormat string
}

func parseRunFlags(args []string) (*runConfig, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	cfg := &runConfig{}
	var casts stringSliceFlag
	fs.StringVar(&cfg.moviePath, "movie", "", "Path to a .dir/.dcr movie to play")
	fs.Var(&casts, "cast", "Path to an external cast file (can be specified multiple times)")
	fs.IntVar(&cfg.frames, "frames", 100, "Number of frame ticks to run before stopping")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	fs.StringVar(&cfg.logFormat, "log-format", "text", "Progress output: text (colored terminal) or log (plain timestamped lines)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.casts = casts

	if cfg.moviePath == "" {
		return nil, errors.New("run: -movie is required")
	}
	if cfg.frames <= 0 {
		return nil, errors.New("run: -frames must be positive")
	}
	switch cfg.logFormat {
	case "text", "log":
	default:
		return nil, errors.New("run: -log-format must be text or log")
	}
	return cfg, nil
}
