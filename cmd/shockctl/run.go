package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/libreshockwave/shockwave/internal/chunks"
	"github.com/libreshockwave/shockwave/internal/lingo"
	"github.com/libreshockwave/shockwave/internal/lingo/builtin"
	"github.com/libreshockwave/shockwave/internal/movie"
	"github.com/libreshockwave/shockwave/internal/player"
	"github.com/libreshockwave/shockwave/internal/reporter"
	"github.com/libreshockwave/shockwave/internal/resource"
)

func runRun(cfg *runConfig) error {
	rep := newRunReporter(cfg.logFormat)

	mv, err := loadMovieFile(cfg.moviePath)
	if err != nil {
		return fmt.Errorf("run: load movie: %w", err)
	}
	rep.MovieLoaded(summarize(cfg.moviePath, mv))

	vm := lingo.New()
	builtin.Register(vm)
	vm.Names = mv.ScriptNames
	vm.Scripts = mergeScripts(mv)

	p := player.New(vm)
	vm.Movie = p
	vm.Sound = p
	vm.Stage = p
	vm.Net = resource.New(http.DefaultClient, 4)

	if err := p.LoadMovie(mv); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	for _, path := range cfg.casts {
		cast, err := loadMovieFile(path)
		if err != nil {
			rep.Warning(fmt.Sprintf("skipping external cast %s: %v", path, err))
			continue
		}
		rep.CastLoaded(summarize(path, cast))
		for id, scr := range cast.Scripts() {
			vm.Scripts[id] = scr
		}
		p.AddExternalCast(cast)
	}

	if err := p.PlayFromStopped(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	rep.PlaybackStarted(int32(cfg.frames))
	start := time.Now()
	for i := 1; i <= cfg.frames; i++ {
		p.Tick()
		label, _ := p.FrameLabel()
		rep.FrameAdvanced(reporter.FrameProgress{
			Frame:      p.CurrentFrame(),
			Total:      int32(cfg.frames),
			Label:      label,
			FrameIndex: i,
		})
	}
	rep.Complete(reporter.PlaybackSummary{
		FramesPlayed: int32(cfg.frames),
		Duration:     time.Since(start),
	})
	return nil
}

func newRunReporter(format string) reporter.Reporter {
	if format == "log" {
		return reporter.NewLogReporter(os.Stdout)
	}
	return reporter.NewTerminalReporter()
}

func mergeScripts(mv *movie.MovieFile) map[uint32]*chunks.Script {
	scripts := make(map[uint32]*chunks.Script, len(mv.Scripts()))
	for id, scr := range mv.Scripts() {
		scripts[id] = scr
	}
	return scripts
}
