// Package memory implements the 4KB address space of a Chip-8 machine.
//
// Layout:
//
//	0x000-0x04F: unused by programs
//	0x050-0x09F: built-in hexadecimal font (16 glyphs, 5 bytes each)
//	0x0A0-0x1FF: unused by programs
//	0x200-0xFFF: program image
package memory

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

const (
	Size         = 0x1000
	FontStart    = 0x50
	GlyphSize    = 5
	ProgramStart = 0x200
	MaxImageSize = Size - ProgramStart
)

// ErrImageTooLarge is returned when a program image does not fit between
// ProgramStart and the end of memory.
var ErrImageTooLarge = errors.New("image too large")

// Font is the built-in hexadecimal glyph table. Each glyph is 4 pixels wide
// and 5 rows tall, only the high nibble of each row is significant.
var Font = [16 * GlyphSize]uint8{
	0xf0, 0x90, 0x90, 0x90, 0xf0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xf0, 0x10, 0xf0, 0x80, 0xf0, // 2
	0xf0, 0x10, 0xf0, 0x10, 0xf0, // 3
	0x90, 0x90, 0xf0, 0x10, 0x10, // 4
	0xf0, 0x80, 0xf0, 0x10, 0xf0, // 5
	0xf0, 0x80, 0xf0, 0x90, 0xf0, // 6
	0xf0, 0x10, 0x20, 0x40, 0x40, // 7
	0xf0, 0x90, 0xf0, 0x90, 0xf0, // 8
	0xf0, 0x90, 0xf0, 0x10, 0xf0, // 9
	0xf0, 0x90, 0xf0, 0x90, 0x90, // A
	0xe0, 0x90, 0xe0, 0x90, 0xe0, // B
	0xf0, 0x80, 0x80, 0x80, 0xf0, // C
	0xe0, 0x90, 0x90, 0x90, 0xe0, // D
	0xf0, 0x80, 0xf0, 0x80, 0xf0, // E
	0xf0, 0x80, 0xf0, 0x80, 0x80, // F
}

// Memory is a bounds checked byte store. Accesses outside of the address
// space are logged and otherwise ignored, reads return 0.
type Memory struct {
	logger *log.Logger
	ram    [Size]uint8
	faults int
}

// New returns a memory with the font table loaded.
func New(logger *log.Logger) *Memory {
	m := &Memory{logger: logger}
	m.Reset()
	return m
}

// Reset zeroes the whole address space and reloads the font table.
func (m *Memory) Reset() {
	m.ram = [Size]uint8{}
	copy(m.ram[FontStart:], Font[:])
	m.faults = 0
}

// ReadMemory returns the byte stored at address.
func (m *Memory) ReadMemory(address uint16) uint8 {
	if int(address) >= Size {
		m.faults++
		m.logger.Warn("Memory read out of bounds", log.Hex("address", address))
		return 0
	}
	return m.ram[address]
}

// WriteMemory stores value at address.
func (m *Memory) WriteMemory(address uint16, value uint8) {
	if int(address) >= Size {
		m.faults++
		m.logger.Warn("Memory write out of bounds",
			log.Hex("address", address),
			log.Hex("value", value))
		return
	}
	m.ram[address] = value
}

// BoundsFaults returns the number of out of bounds accesses since the last
// reset.
func (m *Memory) BoundsFaults() int {
	return m.faults
}

// Dump returns a copy of the memory region [start, end).
func (m *Memory) Dump(start, end uint16) []byte {
	if int(end) > Size {
		end = Size
	}
	if start >= end {
		return nil
	}
	buf := make([]byte, end-start)
	copy(buf, m.ram[start:end])
	return buf
}

// LoadImage copies a raw program image to ProgramStart. Memory is left
// untouched if the image does not fit.
func (m *Memory) LoadImage(image []byte) error {
	if len(image) > MaxImageSize {
		return errors.Wrapf(ErrImageTooLarge, "%d bytes, maximum is %d", len(image), MaxImageSize)
	}
	copy(m.ram[ProgramStart:], image)
	return nil
}

// LoadFile loads the program image stored in the file at path and returns
// its size in bytes. Oversized files are rejected before they are read.
func (m *Memory) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "open failed")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "fstat failed")
	}
	if fi.Size() > MaxImageSize {
		return 0, errors.Wrapf(ErrImageTooLarge, "%s: %d bytes, maximum is %d", path, fi.Size(), MaxImageSize)
	}

	// read one byte past the limit to catch files that grew after Stat
	image, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return 0, errors.Wrap(err, "read failed")
	}
	if err := m.LoadImage(image); err != nil {
		return 0, err
	}
	return len(image), nil
}
