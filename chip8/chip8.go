// Package chip8 implements a Chip-8 interpreter.
// Follows description in Cowgod's Chip-8 Technical Reference v1.0 [1] and
// How to write an emulator [2].
//
//	[1] http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
//	[2] http://www.multigesture.net/articles/how-to-write-an-emulator-chip-8-interpreter/
//
// The interpreter does not own its memory. It fetches instructions from and
// stores data into a Store that is passed to New, and never fails on a bad
// instruction: faults are logged, recovered in place and returned from Step
// for inspection.
package chip8

import (
	"math/rand"

	"github.com/inrick/chip8-go/internal/keypad"
	"github.com/inrick/chip8-go/memory"
	"github.com/retroenv/retrogolib/log"
)

const (
	DisplayWidth  = 64
	DisplayHeight = 32
	DisplaySize   = DisplayWidth * DisplayHeight
	StackSize     = 16
	vf            = 0xf // flag register
)

// Store is the byte addressable memory the interpreter runs on. Both methods
// are total: out of range accesses must be handled by the store itself.
type Store interface {
	ReadMemory(address uint16) uint8
	WriteMemory(address uint16, value uint8)
}

// Status is the outcome of a single Step.
type Status int

const (
	// Executed means the instruction completed and the program counter moved.
	Executed Status = iota
	// WaitingForKey means the instruction is blocked on a key press and will be
	// fetched again by the next Step.
	WaitingForKey
)

func (s Status) String() string {
	switch s {
	case Executed:
		return "executed"
	case WaitingForKey:
		return "waiting for key"
	default:
		return "unknown"
	}
}

// Option configures a Chip8 at construction.
type Option func(*Chip8)

// WithRandom sets the random byte source used by the RND instruction.
func WithRandom(random func() uint8) Option {
	return func(c8 *Chip8) {
		c8.random = random
	}
}

// Chip8 holds the interpreter state. Memory lives in the Store.
type Chip8 struct {
	mem    Store
	logger *log.Logger
	random func() uint8

	gfx    [DisplaySize]uint8 // row major, 0 or 1 per pixel
	key    keypad.State
	redraw bool
	status Status

	op     opcode
	v      [0x10]uint8
	stack  [StackSize]uint16
	i, pc  uint16
	sp     int
	dt, st uint8 // Delay timer & sound timer
}

// New returns an interpreter in its reset state, running on mem.
func New(mem Store, logger *log.Logger, opts ...Option) *Chip8 {
	c8 := &Chip8{
		mem:    mem,
		logger: logger,
		random: func() uint8 { return uint8(rand.Intn(0x100)) },
	}
	for _, opt := range opts {
		opt(c8)
	}
	c8.Reset()
	return c8
}

// Reset clears all registers, timers, the stack, the display and the key
// state, and points the program counter at the program start.
func (c8 *Chip8) Reset() {
	c8.gfx = [DisplaySize]uint8{}
	c8.key = keypad.State{}
	c8.redraw = false
	c8.status = Executed
	c8.op = 0
	c8.v = [0x10]uint8{}
	c8.stack = [StackSize]uint16{}
	c8.sp = 0
	c8.i = 0
	c8.pc = memory.ProgramStart
	c8.dt, c8.st = 0, 0
}

// Step executes one instruction. The returned error is a *Fault describing a
// condition that has already been logged and recovered from; execution can
// always continue with the next Step.
func (c8 *Chip8) Step() (Status, error) {
	c8.redraw = false
	c8.status = Executed

	hi := c8.mem.ReadMemory(c8.pc)
	lo := c8.mem.ReadMemory(c8.pc + 1)
	c8.op = opcode(uint16(hi)<<8 | uint16(lo))

	err := handlers[c8.op.family()](c8, c8.op)
	return c8.status, err
}

// TickTimers decrements the delay and sound timers. It is meant to be called
// at 60 Hz, independent of the instruction rate.
func (c8 *Chip8) TickTimers() {
	if c8.dt > 0 {
		c8.dt--
	}
	if c8.st > 0 {
		c8.st--
	}
}

// SetKeys replaces the key state read by the key instructions.
func (c8 *Chip8) SetKeys(keys keypad.State) {
	c8.key = keys
}

// Keys returns the current key state.
func (c8 *Chip8) Keys() keypad.State {
	return c8.key
}

// Display returns a copy of the framebuffer in row major order.
func (c8 *Chip8) Display() [DisplaySize]uint8 {
	return c8.gfx
}

// Redraw reports whether the last Step modified the framebuffer.
func (c8 *Chip8) Redraw() bool {
	return c8.redraw
}

// PC returns the address of the next instruction.
func (c8 *Chip8) PC() uint16 { return c8.pc }

// I returns the index register.
func (c8 *Chip8) I() uint16 { return c8.i }

// V returns the value of register x. Only the low nibble of x is used.
func (c8 *Chip8) V(x int) uint8 { return c8.v[x&0xf] }

// SP returns the number of return addresses on the stack.
func (c8 *Chip8) SP() int { return c8.sp }

// Stack returns the return addresses currently on the stack, oldest first.
func (c8 *Chip8) Stack() []uint16 {
	s := make([]uint16, c8.sp)
	copy(s, c8.stack[:c8.sp])
	return s
}

// DelayTimer returns the delay timer, counting down at 60 Hz.
func (c8 *Chip8) DelayTimer() uint8 { return c8.dt }

// SoundTimer returns the sound timer. The program wants a tone while it is
// non-zero.
func (c8 *Chip8) SoundTimer() uint8 { return c8.st }

// Opcode returns the last fetched instruction.
func (c8 *Chip8) Opcode() uint16 { return uint16(c8.op) }

func (c8 *Chip8) incPc(skipNextInstruction bool) {
	if skipNextInstruction {
		c8.pc += 4
	} else {
		c8.pc += 2
	}
}
