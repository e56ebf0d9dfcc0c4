package chip8

import "github.com/inrick/chip8-go/memory"

// opcode is a 16-bit instruction word. Operand names follow Cowgod's
// reference: x and y are register indices, n is a nibble, kk a byte and nnn
// a 12-bit address.
type opcode uint16

func (op opcode) family() uint8 { return uint8(op >> 12) }
func (op opcode) x() uint8      { return uint8((op & 0xf00) >> 8) }
func (op opcode) y() uint8      { return uint8((op & 0xf0) >> 4) }
func (op opcode) n() uint8      { return uint8(op & 0xf) }
func (op opcode) kk() uint8     { return uint8(op & 0xff) }
func (op opcode) nnn() uint16   { return uint16(op & 0xfff) }

// handlers is indexed by the top nibble of the opcode.
var handlers = [16]func(*Chip8, opcode) error{
	0x0: (*Chip8).exec0,
	0x1: (*Chip8).exec1,
	0x2: (*Chip8).exec2,
	0x3: (*Chip8).exec3,
	0x4: (*Chip8).exec4,
	0x5: (*Chip8).exec5,
	0x6: (*Chip8).exec6,
	0x7: (*Chip8).exec7,
	0x8: (*Chip8).exec8,
	0x9: (*Chip8).exec9,
	0xa: (*Chip8).execA,
	0xb: (*Chip8).execB,
	0xc: (*Chip8).execC,
	0xd: (*Chip8).execD,
	0xe: (*Chip8).execE,
	0xf: (*Chip8).execF,
}

func (c8 *Chip8) exec0(op opcode) error {
	switch op {
	case 0x00e0:
		// 00E0 - CLS -- Clear the display.
		c8.clearDisplay()
		c8.incPc(false)
	case 0x00ee:
		// 00EE - RET -- Return from a subroutine.
		if c8.sp == 0 {
			err := c8.fault(ErrStackUnderflow)
			c8.incPc(false)
			return err
		}
		c8.sp--
		c8.pc = c8.stack[c8.sp]
	default:
		// 0nnn - SYS addr -- Jump to a machine code routine at nnn.
		// Not supported by modern interpreters.
		return c8.unknown()
	}
	return nil
}

// 1nnn - JP addr -- Jump to location nnn.
func (c8 *Chip8) exec1(op opcode) error {
	c8.pc = op.nnn()
	return nil
}

// 2nnn - CALL addr -- Call subroutine at nnn.
func (c8 *Chip8) exec2(op opcode) error {
	if c8.sp == StackSize {
		err := c8.fault(ErrStackOverflow)
		c8.incPc(false)
		return err
	}
	c8.stack[c8.sp] = c8.pc + 2
	c8.sp++
	c8.pc = op.nnn()
	return nil
}

// 3xkk - SE Vx, byte -- Skip next instruction if Vx = kk.
func (c8 *Chip8) exec3(op opcode) error {
	c8.incPc(c8.v[op.x()] == op.kk())
	return nil
}

// 4xkk - SNE Vx, byte -- Skip next instruction if Vx != kk.
func (c8 *Chip8) exec4(op opcode) error {
	c8.incPc(c8.v[op.x()] != op.kk())
	return nil
}

// 5xy0 - SE Vx, Vy -- Skip next instruction if Vx = Vy.
func (c8 *Chip8) exec5(op opcode) error {
	if op.n() != 0 {
		return c8.unknown()
	}
	c8.incPc(c8.v[op.x()] == c8.v[op.y()])
	return nil
}

// 6xkk - LD Vx, byte -- Set Vx = kk.
func (c8 *Chip8) exec6(op opcode) error {
	c8.v[op.x()] = op.kk()
	c8.incPc(false)
	return nil
}

// 7xkk - ADD Vx, byte -- Set Vx = Vx + kk. VF is not affected.
func (c8 *Chip8) exec7(op opcode) error {
	c8.v[op.x()] += op.kk()
	c8.incPc(false)
	return nil
}

// 8xyN - register to register arithmetic, N selects the operation.
func (c8 *Chip8) exec8(op opcode) error {
	x, y := op.x(), op.y()
	vx, vy := c8.v[x], c8.v[y]
	switch op.n() {
	case 0x0:
		// 8xy0 - LD Vx, Vy -- Set Vx = Vy.
		c8.v[x] = vy
	case 0x1:
		// 8xy1 - OR Vx, Vy -- Set Vx = Vx OR Vy.
		c8.v[x] = vx | vy
	case 0x2:
		// 8xy2 - AND Vx, Vy -- Set Vx = Vx AND Vy.
		c8.v[x] = vx & vy
	case 0x3:
		// 8xy3 - XOR Vx, Vy -- Set Vx = Vx XOR Vy.
		c8.v[x] = vx ^ vy
	case 0x4:
		// 8xy4 - ADD Vx, Vy -- Set Vx = Vx + Vy, set VF = carry.
		sum := uint16(vx) + uint16(vy)
		c8.v[vf] = boolToFlag(sum > 0xff)
		c8.v[x] = uint8(sum)
	case 0x5:
		// 8xy5 - SUB Vx, Vy -- Set Vx = Vx - Vy, set VF = NOT borrow.
		c8.v[vf] = boolToFlag(vx > vy)
		c8.v[x] = vx - vy
	case 0x6:
		// 8xy6 - SHR Vx {, Vy} -- Set Vx = Vx SHR 1, VF = shifted out bit.
		c8.v[vf] = vx & 0x1
		c8.v[x] = vx >> 1
	case 0x7:
		// 8xy7 - SUBN Vx, Vy -- Set Vx = Vy - Vx, set VF = NOT borrow.
		c8.v[vf] = boolToFlag(vy > vx)
		c8.v[x] = vy - vx
	case 0xe:
		// 8xyE - SHL Vx {, Vy} -- Set Vx = Vx SHL 1, VF = shifted out bit.
		c8.v[vf] = (vx & 0x80) >> 7
		c8.v[x] = vx << 1
	default:
		return c8.unknown()
	}
	c8.incPc(false)
	return nil
}

// 9xy0 - SNE Vx, Vy -- Skip next instruction if Vx != Vy.
func (c8 *Chip8) exec9(op opcode) error {
	if op.n() != 0 {
		return c8.unknown()
	}
	c8.incPc(c8.v[op.x()] != c8.v[op.y()])
	return nil
}

// Annn - LD I, addr -- Set I = nnn.
func (c8 *Chip8) execA(op opcode) error {
	c8.i = op.nnn()
	c8.incPc(false)
	return nil
}

// Bnnn - JP V0, addr -- Jump to location nnn + V0.
func (c8 *Chip8) execB(op opcode) error {
	c8.pc = op.nnn() + uint16(c8.v[0])
	return nil
}

// Cxkk - RND Vx, byte -- Set Vx = random byte AND kk.
func (c8 *Chip8) execC(op opcode) error {
	c8.v[op.x()] = c8.random() & op.kk()
	c8.incPc(false)
	return nil
}

// Dxyn - DRW Vx, Vy, nibble -- Display n-byte sprite starting at memory
// location I at (Vx, Vy), set VF = collision.
func (c8 *Chip8) execD(op opcode) error {
	collision := c8.drawSprite(c8.v[op.x()], c8.v[op.y()], op.n())
	c8.v[vf] = boolToFlag(collision)
	c8.incPc(false)
	return nil
}

func (c8 *Chip8) execE(op opcode) error {
	switch op.kk() {
	case 0x9e:
		// Ex9E - SKP Vx -- Skip next instruction if key with the value of Vx is
		// pressed.
		c8.incPc(c8.keyDown(c8.v[op.x()]))
	case 0xa1:
		// ExA1 - SKNP Vx -- Skip next instruction if key with the value of Vx is
		// not pressed.
		c8.incPc(!c8.keyDown(c8.v[op.x()]))
	default:
		return c8.unknown()
	}
	return nil
}

func (c8 *Chip8) execF(op opcode) error {
	x := op.x()
	switch op.kk() {
	case 0x07:
		// Fx07 - LD Vx, DT -- Set Vx = delay timer value.
		c8.v[x] = c8.dt
	case 0x0a:
		// Fx0A - LD Vx, K -- Wait for a key press, store the value of the key in
		// Vx. The program counter stays put until a key is down.
		key, ok := c8.key.Pressed()
		if !ok {
			c8.status = WaitingForKey
			return nil
		}
		c8.v[x] = uint8(key)
	case 0x15:
		// Fx15 - LD DT, Vx -- Set delay timer = Vx.
		c8.dt = c8.v[x]
	case 0x18:
		// Fx18 - LD ST, Vx -- Set sound timer = Vx.
		c8.st = c8.v[x]
	case 0x1e:
		// Fx1E - ADD I, Vx -- Set I = I + Vx. VF is not affected.
		c8.i += uint16(c8.v[x])
	case 0x29:
		// Fx29 - LD F, Vx -- Set I = location of sprite for digit Vx.
		c8.i = memory.FontStart + uint16(c8.v[x])*memory.GlyphSize
	case 0x33:
		// Fx33 - LD B, Vx -- Store BCD representation of Vx in memory locations
		// I, I+1, and I+2.
		vx := c8.v[x]
		c8.mem.WriteMemory(c8.i, vx/100)
		c8.mem.WriteMemory(c8.i+1, (vx/10)%10)
		c8.mem.WriteMemory(c8.i+2, vx%10)
	case 0x55:
		// Fx55 - LD [I], Vx -- Store registers V0 through Vx in memory starting
		// at location I.
		for r := uint8(0); r <= x; r++ {
			c8.mem.WriteMemory(c8.i+uint16(r), c8.v[r])
		}
	case 0x65:
		// Fx65 - LD Vx, [I] -- Read registers V0 through Vx from memory starting
		// at location I.
		for r := uint8(0); r <= x; r++ {
			c8.v[r] = c8.mem.ReadMemory(c8.i + uint16(r))
		}
	default:
		return c8.unknown()
	}
	c8.incPc(false)
	return nil
}

// keyDown reports whether key is pressed. Values above 0xF name no key and
// are never pressed.
func (c8 *Chip8) keyDown(key uint8) bool {
	return int(key) < len(c8.key) && c8.key[key]
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
