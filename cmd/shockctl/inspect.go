package main

import (
	"fmt"
	"os"

	"github.com/libreshockwave/shockwave/internal/movie"
	"github.com/libreshockwave/shockwave/internal/reporter"
)

func runInspect(cfg *inspectConfig) error {
	rep := reporter.NewTerminalReporter()

	mv, err := loadMovieFile(cfg.moviePath)
	if err != nil {
		return fmt.Errorf("inspect: load movie: %w", err)
	}
	rep.MovieLoaded(summarize(cfg.moviePath, mv))

	for _, path := range cfg.casts {
		cast, err := loadMovieFile(path)
		if err != nil {
			rep.Warning(fmt.Sprintf("skipping external cast %s: %v", path, err))
			continue
		}
		rep.CastLoaded(summarize(path, cast))
	}
	return nil
}

func loadMovieFile(path string) (*movie.MovieFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return movie.Load(data)
}

func summarize(path string, mv *movie.MovieFile) reporter.MovieSummary {
	summary := reporter.MovieSummary{Path: path}

	if mv.Config != nil {
		summary.DirectorVersion = int(mv.Config.DirectorVersion)
		summary.StageWidth = int(mv.Config.StageRect.Right - mv.Config.StageRect.Left)
		summary.StageHeight = int(mv.Config.StageRect.Bottom - mv.Config.StageRect.Top)
	}
	if mv.Score != nil {
		summary.FrameCount = mv.Score.FrameCount
	}
	if mv.CastTable != nil {
		summary.CastMemberCount = len(mv.CastTable.MemberChunkIDs)
	}
	if mv.ScriptContext != nil {
		summary.ScriptCount = len(mv.ScriptContext.Entries)
	}
	return summary
}
