package disasm

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		opcode uint16
		ins    *chip8.Instruction
		params string
	}{
		{opcode: 0x00e0, ins: chip8.Cls, params: ""},
		{opcode: 0x00ee, ins: chip8.Ret, params: ""},
		{opcode: 0x1234, ins: chip8.Jp, params: "$234"},
		{opcode: 0x2abc, ins: chip8.Call, params: "$ABC"},
		{opcode: 0x3a2b, ins: chip8.Se, params: "VA, $2B"},
		{opcode: 0x4a2b, ins: chip8.Sne, params: "VA, $2B"},
		{opcode: 0x5120, ins: chip8.Se, params: "V1, V2"},
		{opcode: 0x612a, ins: chip8.Ld, params: "V1, $2A"},
		{opcode: 0x7f01, ins: chip8.Add, params: "VF, $01"},
		{opcode: 0x8120, ins: chip8.Ld, params: "V1, V2"},
		{opcode: 0x8121, ins: chip8.Or, params: "V1, V2"},
		{opcode: 0x8122, ins: chip8.And, params: "V1, V2"},
		{opcode: 0x8123, ins: chip8.Xor, params: "V1, V2"},
		{opcode: 0x8124, ins: chip8.Add, params: "V1, V2"},
		{opcode: 0x8125, ins: chip8.Sub, params: "V1, V2"},
		{opcode: 0x8126, ins: chip8.Shr, params: "V1"},
		{opcode: 0x8127, ins: chip8.Subn, params: "V1, V2"},
		{opcode: 0x812e, ins: chip8.Shl, params: "V1"},
		{opcode: 0x9120, ins: chip8.Sne, params: "V1, V2"},
		{opcode: 0xa300, ins: chip8.Ld, params: "I, $300"},
		{opcode: 0xb300, ins: chip8.Jp, params: "V0, $300"},
		{opcode: 0xc30f, ins: chip8.Rnd, params: "V3, $0F"},
		{opcode: 0xd015, ins: chip8.Drw, params: "V0, V1, $5"},
		{opcode: 0xe29e, ins: chip8.Skp, params: "V2"},
		{opcode: 0xe2a1, ins: chip8.Sknp, params: "V2"},
		{opcode: 0xf207, ins: chip8.Ld, params: "V2, DT"},
		{opcode: 0xf20a, ins: chip8.Ld, params: "V2, K"},
		{opcode: 0xf215, ins: chip8.Ld, params: "DT, V2"},
		{opcode: 0xf218, ins: chip8.Ld, params: "ST, V2"},
		{opcode: 0xf21e, ins: chip8.Add, params: "I, V2"},
		{opcode: 0xf229, ins: chip8.Ld, params: "F, V2"},
		{opcode: 0xf233, ins: chip8.Ld, params: "B, V2"},
		{opcode: 0xf255, ins: chip8.Ld, params: "[I], V2"},
		{opcode: 0xf265, ins: chip8.Ld, params: "V2, [I]"},
	}
	for _, tt := range tests {
		ins, ok := Decode(tt.opcode)
		assert.True(t, ok)
		assert.Equal(t, tt.ins.Name, ins.Name)
		assert.Equal(t, tt.opcode, ins.Opcode)

		want := strings.ToUpper(tt.ins.Name)
		if tt.params != "" {
			want += " " + tt.params
		}
		assert.Equal(t, want, ins.String())
		assert.Equal(t, want, Format(tt.opcode))
	}
}

func TestFormatUnknown(t *testing.T) {
	_, ok := Decode(0xf1ff)
	assert.False(t, ok)
	assert.Equal(t, "DW $F1FF", Format(0xf1ff))
}
