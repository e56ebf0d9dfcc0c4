package chip8

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/inrick/chip8-go/memory"
	"github.com/retroenv/retrogolib/assert"
)

func pixel(c8 *Chip8, x, y int) uint8 {
	return c8.gfx[y*DisplayWidth+x]
}

func TestDrawSpriteIsIdempotentInPairs(t *testing.T) {
	// LD I, $300; DRW V0, V1, 2; DRW V0, V1, 2
	c8, mem := newTestChip8(t, 0xa300, 0xd012, 0xd012)
	mem.WriteMemory(0x300, 0b1100_0011)
	mem.WriteMemory(0x301, 0b0011_1100)
	c8.v[0], c8.v[1] = 10, 5

	step(t, c8)
	step(t, c8)
	assert.True(t, c8.Redraw())
	assert.Equal(t, uint8(0), c8.V(0xf))

	want := map[[2]int]bool{
		{10, 5}: true, {11, 5}: true, {16, 5}: true, {17, 5}: true,
		{12, 6}: true, {13, 6}: true, {14, 6}: true, {15, 6}: true,
	}
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			assert.Equal(t, want[[2]int{x, y}], pixel(c8, x, y) == 1)
		}
	}

	step(t, c8)
	assert.Equal(t, uint8(1), c8.V(0xf))
	if diff := cmp.Diff([DisplaySize]uint8{}, c8.Display()); diff != "" {
		t.Errorf("display not cleared: (-want, +got)\n%s", diff)
	}
}

func TestDrawSpriteWraps(t *testing.T) {
	c8, mem := newTestChip8(t, 0xa300, 0xd012)
	mem.WriteMemory(0x300, 0b1100_0000)
	mem.WriteMemory(0x301, 0b1000_0000)
	c8.v[0], c8.v[1] = DisplayWidth-1, DisplayHeight-1

	step(t, c8)
	step(t, c8)

	assert.Equal(t, uint8(1), pixel(c8, DisplayWidth-1, DisplayHeight-1))
	assert.Equal(t, uint8(1), pixel(c8, 0, DisplayHeight-1))
	assert.Equal(t, uint8(1), pixel(c8, DisplayWidth-1, 0))
	assert.Equal(t, uint8(0), pixel(c8, 0, 0))
	assert.Equal(t, uint8(0), c8.V(0xf))
}

func TestDrawSpriteCoordinatesWrapBeforeDrawing(t *testing.T) {
	c8, mem := newTestChip8(t, 0xa300, 0xd011)
	mem.WriteMemory(0x300, 0b1000_0000)
	c8.v[0], c8.v[1] = DisplayWidth+3, 2*DisplayHeight+4

	step(t, c8)
	step(t, c8)

	assert.Equal(t, uint8(1), pixel(c8, 3, 4))
}

func TestDrawSpriteCollision(t *testing.T) {
	c8, mem := newTestChip8(t, 0xa300, 0xd011, 0xa301, 0xd011)
	mem.WriteMemory(0x300, 0b1000_0000)
	mem.WriteMemory(0x301, 0b1100_0000)

	step(t, c8)
	step(t, c8)
	assert.Equal(t, uint8(0), c8.V(0xf))
	step(t, c8)
	step(t, c8)
	assert.Equal(t, uint8(1), c8.V(0xf))
	assert.Equal(t, uint8(0), pixel(c8, 0, 0))
	assert.Equal(t, uint8(1), pixel(c8, 1, 0))
}

func TestDrawGlyph(t *testing.T) {
	// LD V2, 8; LD F, V2; DRW V0, V1, 5
	c8, _ := newTestChip8(t, 0x6208, 0xf229, 0xd015)
	for range 3 {
		step(t, c8)
	}

	glyph := memory.Font[8*memory.GlyphSize : 9*memory.GlyphSize]
	for row, bits := range glyph {
		for col := 0; col < 8; col++ {
			want := uint8(bits>>(7-col)) & 1
			assert.Equal(t, want, pixel(c8, col, row))
		}
	}
}

func TestDrawZeroRows(t *testing.T) {
	c8, _ := newTestChip8(t, 0xd010)
	c8.v[0xf] = 1
	step(t, c8)
	assert.Equal(t, uint8(0), c8.V(0xf))
	assert.Equal(t, [DisplaySize]uint8{}, c8.Display())
}

func TestRedrawIsPerStep(t *testing.T) {
	c8, _ := newTestChip8(t, 0x00e0, 0x6000)
	step(t, c8)
	assert.True(t, c8.Redraw())
	step(t, c8)
	assert.False(t, c8.Redraw())
}
