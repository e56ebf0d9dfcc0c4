// Package main implements a Chip-8 emulator
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/internal/cli"
	"github.com/inrick/chip8-go/internal/config"
	"github.com/inrick/chip8-go/internal/frontend/terminal"
	"github.com/inrick/chip8-go/internal/machine"
	"github.com/inrick/chip8-go/internal/options"
	"github.com/inrick/chip8-go/memory"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	// GLFW and Ebitengine event handling must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			usageErr.ShowUsage(os.Stderr)
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(logger, opts)

	if err := run(ctx, logger, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Emulation cancelled")
			return
		}
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	mem := memory.New(logger)
	size, err := mem.LoadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	logger.Info("ROM loaded", log.String("file", opts.Input), log.Int("size", size))
	logger.Debug("Program start",
		log.String("bytes", fmt.Sprintf("% x", mem.Dump(memory.ProgramStart, memory.ProgramStart+16))))

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Debug("Random generator seeded", log.Int("seed", int(seed)))

	cpu := chip8.New(mem, logger, chip8.WithRandom(func() uint8 {
		return uint8(rng.Intn(0x100))
	}))
	m := machine.New(cpu, logger, opts)

	frontend, err := newFrontend(logger, opts)
	if err != nil {
		return err
	}
	logger.Info("Starting emulation",
		log.String("frontend", opts.Frontend),
		log.Int("cycles_per_frame", opts.CyclesPerFrame))

	err = m.Run(ctx, frontend)
	if faults := mem.BoundsFaults(); faults > 0 {
		logger.Warn("Program accessed memory out of bounds", log.Int("count", faults))
	}
	return err
}

// windowFrontends holds the windowed frontends compiled into this build.
// Only one copy of the GLFW C library can be linked, the ebiten build tag
// swaps the GLFW frontend for the Ebitengine one.
var windowFrontends = map[string]func(logger *log.Logger, scale int) machine.Frontend{}

// registerWindowFrontend makes a windowed frontend available and the default.
func registerWindowFrontend(name string, newWindow func(logger *log.Logger, scale int) machine.Frontend) {
	windowFrontends[name] = newWindow
	options.RegisterWindowFrontend(name)
}

func newFrontend(logger *log.Logger, opts options.Program) (machine.Frontend, error) {
	if opts.Frontend == options.Terminal {
		return terminal.New(logger), nil
	}
	newWindow, ok := windowFrontends[opts.Frontend]
	if !ok {
		return nil, fmt.Errorf("frontend '%s' is not available in this build", opts.Frontend)
	}
	return newWindow(logger, opts.Scale), nil
}

func printBanner(logger *log.Logger, opts options.Program) {
	if opts.Quiet {
		return
	}
	logger.Info("chip8-go", log.String("version", buildinfo.Version(version, commit, date)))
}
