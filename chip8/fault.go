package chip8

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

var (
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
)

// Fault is a recoverable execution error. Err is one of the Err* values of
// this package.
type Fault struct {
	Err    error
	PC     uint16
	Opcode uint16
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v at 0x%03x (opcode 0x%04x)", f.Err, f.PC, f.Opcode)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// fault logs err for the current instruction and returns it as a *Fault.
func (c8 *Chip8) fault(err error) error {
	f := &Fault{Err: err, PC: c8.pc, Opcode: uint16(c8.op)}
	c8.logger.Warn("Execution fault",
		log.Err(err),
		log.Hex("pc", f.PC),
		log.Hex("opcode", f.Opcode),
		log.Int("sp", c8.sp))
	return f
}

// unknown reports an undecodable instruction and moves past it.
func (c8 *Chip8) unknown() error {
	err := c8.fault(ErrUnknownOpcode)
	c8.incPc(false)
	return err
}
