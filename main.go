// Command chip8go runs a CHIP-8 program in a window or a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"github.com/koushik255/chip8go/chip8"
	"github.com/koushik255/chip8go/internal/host"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	opts, err := host.ParseFlags(os.Args[1:])
	if err != nil {
		var usageErr *host.UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "error: %s\n\n", usageErr)
			usageErr.ShowUsage(os.Stderr)
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("chip8go version: %s\n", buildinfo.Version(version, commit, date))
		return
	}

	logger := host.NewLogger(os.Stderr, opts.Debug, opts.Quiet)
	if err := run(opts, logger); err != nil {
		logger.Fatal("Emulation failed", log.Err(err))
	}
}

func run(opts host.Options, logger *log.Logger) error {
	rom, err := host.ReadROM(opts.ROM)
	if err != nil {
		return err
	}

	machine := chip8.New(chip8.WithLogger(logger))
	runner := host.NewRunner(machine, opts.CyclesPerFrame, logger)
	if err := runner.Load(rom); err != nil {
		return errors.Wrapf(err, "loading %s", opts.ROM)
	}

	logger.Info("ROM loaded",
		log.String("rom", opts.ROM),
		log.Int("size", len(rom)),
		log.String("frontend", opts.Frontend),
		log.Int("cycles", opts.CyclesPerFrame))

	switch opts.Frontend {
	case host.FrontendEbiten:
		err = runEbiten(opts, runner)
	case host.FrontendTerm:
		err = runTerm(opts, runner)
	default:
		err = runPixel(opts, runner)
	}
	if err != nil {
		return err
	}

	logger.Info("Emulation stopped", log.Uint64("frames", runner.Frames()))
	return nil
}
