package chip8

func (c8 *Chip8) clearDisplay() {
	c8.gfx = [DisplaySize]uint8{}
	c8.redraw = true
}

// drawSprite XORs an n-row sprite read from memory at I onto the display at
// (x, y) and reports whether any lit pixel was turned off. Pixels that fall
// outside of the display wrap around to the opposite edge.
func (c8 *Chip8) drawSprite(x, y, n uint8) bool {
	collision := false
	for row := 0; row < int(n); row++ {
		spriteRow := c8.mem.ReadMemory(c8.i + uint16(row))
		py := (int(y) + row) % DisplayHeight
		for col := 0; col < 8; col++ {
			if spriteRow&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % DisplayWidth
			pixel := &c8.gfx[py*DisplayWidth+px]
			if *pixel == 1 {
				collision = true
			}
			*pixel ^= 1
		}
	}
	c8.redraw = true
	return collision
}
