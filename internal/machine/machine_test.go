package machine

import (
	"context"
	"errors"
	"testing"

	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/internal/keypad"
	"github.com/inrick/chip8-go/internal/options"
	"github.com/inrick/chip8-go/memory"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestMachine(t *testing.T, opts options.Program, image ...byte) (*Machine, *chip8.Chip8) {
	t.Helper()
	logger := log.NewTestLogger(t)
	mem := memory.New(logger)
	assert.NoError(t, mem.LoadImage(image))
	cpu := chip8.New(mem, logger)
	return New(cpu, logger, opts), cpu
}

func TestRunFrameExecutesCyclesPerFrame(t *testing.T) {
	opts := options.New()
	opts.CyclesPerFrame = 3
	// ADD V0, 1 repeated, then a jump to self
	m, cpu := newTestMachine(t, opts,
		0x70, 0x01, 0x70, 0x01, 0x70, 0x01, 0x70, 0x01, 0x12, 0x08)

	m.RunFrame(keypad.State{})
	assert.Equal(t, uint8(3), cpu.V(0))
	assert.Equal(t, uint16(0x206), cpu.PC())

	m.RunFrame(keypad.State{})
	assert.Equal(t, uint8(4), cpu.V(0))
	assert.Equal(t, uint16(0x208), cpu.PC())

	assert.Equal(t, Stats{Frames: 2, Instructions: 6}, m.Stats())
}

func TestRunFrameTicksTimersOncePerFrame(t *testing.T) {
	opts := options.New()
	opts.CyclesPerFrame = 10
	// LD V0, 3; LD DT, V0; LD ST, V0; JP self
	m, cpu := newTestMachine(t, opts, 0x60, 0x03, 0xf0, 0x15, 0xf0, 0x18, 0x12, 0x06)

	frame := m.RunFrame(keypad.State{})
	assert.Equal(t, uint8(2), cpu.DelayTimer())
	assert.True(t, frame.Sound)

	m.RunFrame(keypad.State{})
	frame = m.RunFrame(keypad.State{})
	assert.Equal(t, uint8(0), cpu.DelayTimer())
	assert.False(t, frame.Sound)
}

func TestRunFrameRedraw(t *testing.T) {
	opts := options.New()
	opts.CyclesPerFrame = 2
	// LD F, V0; DRW V0, V0, 5; JP self
	m, _ := newTestMachine(t, opts, 0xf0, 0x29, 0xd0, 0x05, 0x12, 0x04)

	frame := m.RunFrame(keypad.State{})
	assert.True(t, frame.Redraw)
	assert.Equal(t, uint8(1), frame.Pixels[0])
	assert.Equal(t, uint8(0), frame.Pixels[4])

	frame = m.RunFrame(keypad.State{})
	assert.False(t, frame.Redraw)
	assert.Equal(t, uint8(1), frame.Pixels[0])
}

func TestRunFrameFirstFrameRedraws(t *testing.T) {
	m, _ := newTestMachine(t, options.New(), 0x12, 0x00)
	assert.True(t, m.RunFrame(keypad.State{}).Redraw)
	assert.False(t, m.RunFrame(keypad.State{}).Redraw)
}

func TestRunFrameWaitsForKey(t *testing.T) {
	opts := options.New()
	opts.CyclesPerFrame = 5
	// LD V1, K; JP self
	m, cpu := newTestMachine(t, opts, 0xf1, 0x0a, 0x12, 0x02)

	frame := m.RunFrame(keypad.State{})
	assert.True(t, frame.Waiting)
	assert.Equal(t, uint16(0x200), cpu.PC())
	assert.Equal(t, 0, m.Stats().Instructions)

	frame = m.RunFrame(keypad.State{0xa: true})
	assert.False(t, frame.Waiting)
	assert.Equal(t, uint8(0xa), cpu.V(1))
	assert.Equal(t, uint16(0x202), cpu.PC())
}

func TestRunFrameCountsFaults(t *testing.T) {
	opts := options.New()
	opts.CyclesPerFrame = 2
	opts.Trace = true
	// unknown opcode, then a jump back to it
	m, cpu := newTestMachine(t, opts, 0xff, 0xff, 0x12, 0x00)

	m.RunFrame(keypad.State{})
	m.RunFrame(keypad.State{})
	assert.Equal(t, Stats{Frames: 2, Instructions: 4, Faults: 2}, m.Stats())
	assert.Equal(t, uint16(0x200), cpu.PC())
}

type fakeFrontend struct {
	frames int
	keys   keypad.State
	last   Frame
}

func (f *fakeFrontend) Run(ctx context.Context, emu Emulator) error {
	for range f.frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.last = emu.RunFrame(f.keys)
	}
	return nil
}

func TestRun(t *testing.T) {
	m, cpu := newTestMachine(t, options.New(), 0xf2, 0x0a, 0x12, 0x00)
	fe := &fakeFrontend{frames: 3, keys: keypad.State{0x7: true}}

	assert.NoError(t, m.Run(context.Background(), fe))
	assert.Equal(t, 3, m.Stats().Frames)
	assert.Equal(t, uint8(0x7), cpu.V(2))
	assert.False(t, fe.last.Waiting)
}

func TestRunCancelled(t *testing.T) {
	m, _ := newTestMachine(t, options.New(), 0x12, 0x00)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Run(ctx, &fakeFrontend{frames: 3})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, m.Stats().Frames)
}
