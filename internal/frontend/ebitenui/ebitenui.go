// Package ebitenui implements a windowed frontend on top of Ebitengine.
package ebitenui

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/internal/keypad"
	"github.com/inrick/chip8-go/internal/machine"
	"github.com/inrick/chip8-go/internal/options"
	"github.com/retroenv/retrogolib/log"
)

const title = "Chip-8"

// keys maps the keypad to the keyboard, following keypad.Layout.
var keys = [keypad.Count]ebiten.Key{
	ebiten.KeyX, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyQ, ebiten.KeyW, ebiten.KeyE, ebiten.KeyA,
	ebiten.KeyS, ebiten.KeyD, ebiten.KeyZ, ebiten.KeyC,
	ebiten.KeyDigit4, ebiten.KeyR, ebiten.KeyF, ebiten.KeyV,
}

// Pixel colors as RGBA.
var (
	colorOn  = [4]byte{0xd9, 0xd9, 0xd9, 0xff}
	colorOff = [4]byte{0x1a, 0x1a, 0x1a, 0xff}
)

type Frontend struct {
	logger *log.Logger
	scale  int
}

// New returns a frontend opening a window scale times the display size.
func New(logger *log.Logger, scale int) *Frontend {
	return &Frontend{
		logger: logger,
		scale:  scale,
	}
}

// game adapts an emulator to the ebiten.Game interface.
type game struct {
	ctx         context.Context
	emu         machine.Emulator
	frameBuffer []byte
	window      *ebiten.Image
	sound       bool
}

// Run opens the window and runs frames until the window is closed, Escape
// is pressed or ctx is done. It must be called from the main goroutine.
func (f *Frontend) Run(ctx context.Context, emu machine.Emulator) error {
	width := chip8.DisplayWidth * f.scale
	height := chip8.DisplayHeight * f.scale
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetTPS(options.FrameRate)

	g := &game{
		ctx:         ctx,
		emu:         emu,
		frameBuffer: make([]byte, chip8.DisplaySize*4),
	}
	f.logger.Debug("Window opened", log.Int("width", width), log.Int("height", height))
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return ctx.Err()
}

func (g *game) Update() error {
	if g.ctx.Err() != nil || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	var state keypad.State
	for i, key := range keys {
		state[i] = ebiten.IsKeyPressed(key)
	}

	frame := g.emu.RunFrame(state)
	if frame.Redraw {
		fillFrameBuffer(&frame.Pixels, g.frameBuffer)
	}
	if frame.Sound != g.sound {
		g.sound = frame.Sound
		if g.sound {
			ebiten.SetWindowTitle(title + " (sound)")
		} else {
			ebiten.SetWindowTitle(title)
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.window == nil {
		g.window = ebiten.NewImage(chip8.DisplayWidth, chip8.DisplayHeight)
	}
	g.window.WritePixels(g.frameBuffer)
	screen.DrawImage(g.window, nil)
}

func (g *game) Layout(_, _ int) (int, int) {
	return chip8.DisplayWidth, chip8.DisplayHeight
}

// fillFrameBuffer converts row major pixels to RGBA.
func fillFrameBuffer(pixels *[chip8.DisplaySize]uint8, buf []byte) {
	for i, p := range pixels {
		c := colorOff
		if p != 0 {
			c = colorOn
		}
		copy(buf[i*4:], c[:])
	}
}
