// Package disasm decodes Chip-8 instruction words into mnemonics for trace
// output.
package disasm

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Instruction is a decoded instruction word.
type Instruction struct {
	Name   string // mnemonic as named by the opcode table
	Opcode uint16
}

// Decode looks up the instruction encoded by opcode. It returns false for
// words that do not encode any known instruction.
func Decode(opcode uint16) (Instruction, bool) {
	nibble := (opcode & 0xf000) >> 12
	for _, op := range chip8.Opcodes[int(nibble)] {
		if op.Info.Mask&opcode != op.Info.Value || op.Instruction == nil {
			continue
		}
		return Instruction{Name: op.Instruction.Name, Opcode: opcode}, true
	}
	return Instruction{}, false
}

// String formats the instruction in Cowgod's assembler syntax, for example
// "LD V1, $2A" or "DRW V0, V1, $5".
func (i Instruction) String() string {
	name := strings.ToUpper(i.Name)
	if params := operands(i.Opcode); params != "" {
		return name + " " + params
	}
	return name
}

// Format decodes and formats opcode, falling back to a data directive for
// words that are not instructions.
func Format(opcode uint16) string {
	ins, ok := Decode(opcode)
	if !ok {
		return fmt.Sprintf("DW $%04X", opcode)
	}
	return ins.String()
}

func operands(op uint16) string {
	x := (op & 0x0f00) >> 8
	y := (op & 0x00f0) >> 4
	n := op & 0x000f
	kk := op & 0x00ff
	nnn := op & 0x0fff

	switch op & 0xf000 {
	case 0x0000:
		if op == 0x00e0 || op == 0x00ee {
			return ""
		}
		return fmt.Sprintf("$%03X", nnn)
	case 0x1000, 0x2000:
		return fmt.Sprintf("$%03X", nnn)
	case 0x3000, 0x4000, 0x6000, 0x7000, 0xc000:
		return fmt.Sprintf("V%X, $%02X", x, kk)
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0x8000:
		if n == 0x6 || n == 0xe {
			return fmt.Sprintf("V%X", x)
		}
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xa000:
		return fmt.Sprintf("I, $%03X", nnn)
	case 0xb000:
		return fmt.Sprintf("V0, $%03X", nnn)
	case 0xd000:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, n)
	case 0xe000:
		return fmt.Sprintf("V%X", x)
	case 0xf000:
		return timerOperands(x, kk)
	}
	return ""
}

func timerOperands(x, kk uint16) string {
	switch kk {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0a:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x1e:
		return fmt.Sprintf("I, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}
