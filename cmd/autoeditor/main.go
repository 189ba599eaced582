// Command autoeditor assembles narrated videos from the command line: one
// clip, an image slideshow, or a batch of narrations against a video pool.
// It parses flags, runs the system check (--check) or the processing
// pipeline, and renders the progress stream on the console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/MT7720/Editor-Autom-tico/internal/check"
	"github.com/MT7720/Editor-Autom-tico/internal/config"
	"github.com/MT7720/Editor-Autom-tico/internal/display"
	"github.com/MT7720/Editor-Autom-tico/internal/ffmpeg"
	"github.com/MT7720/Editor-Autom-tico/internal/logging"
	"github.com/MT7720/Editor-Autom-tico/internal/pipeline"
	"github.com/MT7720/Editor-Autom-tico/internal/probe"
	"github.com/MT7720/Editor-Autom-tico/internal/term"
)

// version is set at build time via -ldflags.
var version = "1.0.0-dev"

func main() {
	os.Exit(run())
}

func run() int {
	p := config.DefaultParams()
	if err := config.ParseFlags(&p, os.Args[1:], version); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "autoeditor: %v\n", err)
		return 2
	}

	term.Configure(p.ColorMode)

	log, err := logging.New(p.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "autoeditor: %v\n", err)
		return 1
	}
	defer log.Sync()

	display.PrintBanner(os.Stdout, version)

	// Ctrl+C requests cooperative cancellation; the registry sweep below
	// handles anything still running when the pipeline returns.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if p.CheckOnly {
		check.RunCheck(ctx, p.FFmpegPath, os.Stdout, log)
		return 0
	}

	if len(p.AvailableEncoders) == 0 {
		p.AvailableEncoders = probe.DetectEncoders(ctx, p.FFmpegPath, log)
	}

	registry := ffmpeg.NewRegistry()
	sink := display.NewConsoleSink(os.Stdout)

	pipeline.New(log, registry).Process(ctx, &p, sink)

	if err := registry.TerminateAll(); err != nil {
		log.Warn("falha ao encerrar processos remanescentes", zap.Error(err))
	}

	return exitCode(ctx, sink)
}

// exitCode maps the pipeline result to the process exit status.
func exitCode(ctx context.Context, sink *display.ConsoleSink) int {
	done, success := sink.Finished()
	switch {
	case ctx.Err() != nil:
		return 130
	case done && success:
		return 0
	default:
		return 1
	}
}
