// Package machine drives a Chip-8 interpreter frame by frame: it feeds key
// state in, runs a fixed number of instructions per frame, ticks the timers
// once per frame and hands the display to a frontend.
package machine

import (
	"context"

	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/internal/disasm"
	"github.com/inrick/chip8-go/internal/keypad"
	"github.com/inrick/chip8-go/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// progressInterval is the number of frames between progress log lines,
// 5 seconds at 60 frames per second.
const progressInterval = 300

// Processor is the part of the interpreter the machine drives.
type Processor interface {
	Step() (chip8.Status, error)
	TickTimers()
	SetKeys(keys keypad.State)
	Display() [chip8.DisplaySize]uint8
	Redraw() bool
	PC() uint16
	Opcode() uint16
	SoundTimer() uint8
}

// Frame is the result of running one frame.
type Frame struct {
	Pixels  [chip8.DisplaySize]uint8 // row major, 0 or 1 per pixel
	Redraw  bool                     // pixels changed since the previous frame
	Waiting bool                     // the program is blocked on a key press
	Sound   bool                     // the sound timer is running
}

// Emulator produces frames from key state.
type Emulator interface {
	RunFrame(keys keypad.State) Frame
}

// Frontend presents frames and collects key state. Run paces frames at
// options.FrameRate and returns when ctx is done or the user quits.
type Frontend interface {
	Run(ctx context.Context, emu Emulator) error
}

// Stats counts the work done by a machine.
type Stats struct {
	Frames       int
	Instructions int
	Faults       int
}

type Machine struct {
	cpu            Processor
	logger         *log.Logger
	cyclesPerFrame int
	trace          bool
	stats          Stats
}

// New returns a machine running cpu with the pacing and tracing settings of
// opts.
func New(cpu Processor, logger *log.Logger, opts options.Program) *Machine {
	cycles := opts.CyclesPerFrame
	if cycles < 1 {
		cycles = options.DefaultCyclesPerFrame
	}
	return &Machine{
		cpu:            cpu,
		logger:         logger,
		cyclesPerFrame: cycles,
		trace:          opts.Trace,
	}
}

// RunFrame runs one frame worth of instructions with the given key state,
// then ticks the timers. A program waiting for a key makes no progress for
// the rest of the frame since the keys cannot change before the next one.
func (m *Machine) RunFrame(keys keypad.State) Frame {
	m.cpu.SetKeys(keys)
	frame := Frame{Redraw: m.stats.Frames == 0}

	for range m.cyclesPerFrame {
		pc := m.cpu.PC()
		status, err := m.cpu.Step()
		if err != nil {
			m.stats.Faults++
		}
		if status == chip8.WaitingForKey {
			frame.Waiting = true
			break
		}
		m.stats.Instructions++
		if m.cpu.Redraw() {
			frame.Redraw = true
		}
		if m.trace {
			m.logger.Debug("Executed",
				log.Hex("pc", pc),
				log.Hex("opcode", m.cpu.Opcode()),
				log.String("instruction", disasm.Format(m.cpu.Opcode())))
		}
	}

	m.cpu.TickTimers()
	m.stats.Frames++
	if m.stats.Frames%progressInterval == 0 {
		m.logger.Debug("Emulator running",
			log.Int("frame", m.stats.Frames),
			log.Int("instructions", m.stats.Instructions),
			log.Int("faults", m.stats.Faults))
	}

	frame.Pixels = m.cpu.Display()
	frame.Sound = m.cpu.SoundTimer() > 0
	return frame
}

// Run hands the machine to frontend and blocks until it returns.
func (m *Machine) Run(ctx context.Context, frontend Frontend) error {
	err := frontend.Run(ctx, m)
	m.logger.Info("Emulator stopped",
		log.Int("frames", m.stats.Frames),
		log.Int("instructions", m.stats.Instructions),
		log.Int("faults", m.stats.Faults))
	return err
}

// Stats returns the counters accumulated so far.
func (m *Machine) Stats() Stats {
	return m.stats
}
