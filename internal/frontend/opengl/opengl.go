// Package opengl implements a windowed frontend using GLFW and OpenGL 4.1.
// It must run on the main OS thread.
package opengl

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/internal/keypad"
	"github.com/inrick/chip8-go/internal/machine"
	"github.com/inrick/chip8-go/internal/options"
	"github.com/retroenv/retrogolib/log"
)

const title = "Chip-8"

type Frontend struct {
	logger *log.Logger
	scale  int
	keys   keypad.State
	keymap map[glfw.Key]int
	resize bool
}

// New returns a frontend opening a window scale times the display size.
func New(logger *log.Logger, scale int) *Frontend {
	keymap := make(map[glfw.Key]int, keypad.Count)
	for key, r := range keypad.Layout {
		// GLFW key codes of printable keys are their upper case ASCII value
		keymap[glfw.Key(unicode.ToUpper(r))] = key
	}
	return &Frontend{
		logger: logger,
		scale:  scale,
		keymap: keymap,
	}
}

func (f *Frontend) keyHandler(window *glfw.Window, key glfw.Key, scancode int,
	action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		window.SetShouldClose(true)
		return
	}
	index, ok := f.keymap[key]
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		f.keys[index] = true
	case glfw.Release:
		f.keys[index] = false
	}
}

func (f *Frontend) resizeHandler(w *glfw.Window, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	f.resize = true
}

// Run opens the window and runs frames until the window is closed or ctx is
// done.
func (f *Frontend) Run(ctx context.Context, emu machine.Emulator) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initializing GLFW: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	width := chip8.DisplayWidth * f.scale
	height := chip8.DisplayHeight * f.scale
	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Destroy()
	window.MakeContextCurrent()

	r, err := newRenderer()
	if err != nil {
		return err
	}
	window.SetKeyCallback(f.keyHandler)
	window.SetSizeCallback(f.resizeHandler)
	f.logger.Debug("Window opened", log.Int("width", width), log.Int("height", height))

	ticker := time.NewTicker(time.Second / options.FrameRate)
	defer ticker.Stop()

	sound := false
	for !window.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		glfw.PollEvents()
		frame := emu.RunFrame(f.keys)
		if frame.Redraw || f.resize {
			r.draw(&frame.Pixels)
			window.SwapBuffers()
			f.resize = false
		}
		if frame.Sound != sound {
			sound = frame.Sound
			window.SetTitle(windowTitle(sound))
		}
	}
	return nil
}

func windowTitle(sound bool) string {
	if sound {
		return title + " (sound)"
	}
	return title
}
