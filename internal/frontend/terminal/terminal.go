// Package terminal implements a frontend drawing into a text terminal with
// termbox. Two display rows share one cell using an upper half block.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/internal/keypad"
	"github.com/inrick/chip8-go/internal/machine"
	"github.com/inrick/chip8-go/internal/options"
	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

const (
	// Terminals report key presses but no releases, a pressed key is held
	// down for this many frames.
	holdFrames = 6

	width  = chip8.DisplayWidth
	height = chip8.DisplayHeight/2 + 1 // display plus status line

	halfBlock = '▀'
)

var ErrNotTerminal = errors.New("standard output is not a terminal")

type Frontend struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Frontend {
	return &Frontend{logger: logger}
}

// heldKeys turns key press events into key state.
type heldKeys struct {
	frames [keypad.Count]int
}

func (h *heldKeys) press(key int) {
	h.frames[key] = holdFrames
}

// next returns the key state of the coming frame and ages all held keys.
func (h *heldKeys) next() keypad.State {
	var state keypad.State
	for i, n := range h.frames {
		if n > 0 {
			state[i] = true
			h.frames[i] = n - 1
		}
	}
	return state
}

// Run takes over the terminal and runs frames until Escape or Ctrl-C is
// pressed or ctx is done.
func (f *Frontend) Run(ctx context.Context, emu machine.Emulator) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	if w, h, err := term.GetSize(fd); err == nil && (w < width || h < height) {
		return fmt.Errorf("terminal size %dx%d is smaller than %dx%d", w, h, width, height)
	}

	if err := termbox.Init(); err != nil {
		return fmt.Errorf("initializing termbox: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc)

	poller := startPolling(termbox.PollEvent, termbox.Interrupt)
	defer poller.stop()

	ticker := time.NewTicker(time.Second / options.FrameRate)
	defer ticker.Stop()

	var keys heldKeys
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-poller.events:
			switch {
			case ev.Type == termbox.EventError:
				return fmt.Errorf("reading terminal events: %w", ev.Err)
			case ev.Type != termbox.EventKey:
			case ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC:
				return nil
			default:
				if key, ok := keypad.FromRune(ev.Ch); ok {
					keys.press(key)
				}
			}

		case <-ticker.C:
			frame := emu.RunFrame(keys.next())
			if frame.Redraw {
				draw(&frame.Pixels)
			}
			drawStatus(frame)
			if err := termbox.Flush(); err != nil {
				return fmt.Errorf("flushing terminal: %w", err)
			}
		}
	}
}

// poller reads terminal events on its own goroutine, which owns events and
// closes it when polling ends.
type poller struct {
	events    chan termbox.Event
	interrupt func()
}

// startPolling delivers the results of poll on the events channel until poll
// returns an interrupt event. interrupt must make a blocked poll return one.
func startPolling(poll func() termbox.Event, interrupt func()) *poller {
	p := &poller{
		events:    make(chan termbox.Event),
		interrupt: interrupt,
	}
	go func() {
		defer close(p.events)
		for {
			ev := poll()
			if ev.Type == termbox.EventInterrupt {
				return
			}
			p.events <- ev
		}
	}()
	return p
}

// stop ends polling and waits for the polling goroutine to exit. Events
// still pending are discarded so a goroutine blocked on sending can get
// back to poll and receive the interrupt.
func (p *poller) stop() {
	interrupted := make(chan struct{})
	go func() {
		p.interrupt()
		close(interrupted)
	}()
	for range p.events {
	}
	<-interrupted
}

// cellColors returns the foreground and background of the cell showing
// the pixels at rows 2*row and 2*row+1 of column x.
func cellColors(pixels *[chip8.DisplaySize]uint8, x, row int) (fg, bg termbox.Attribute) {
	color := func(p uint8) termbox.Attribute {
		if p != 0 {
			return termbox.ColorWhite
		}
		return termbox.ColorBlack
	}
	top := pixels[2*row*chip8.DisplayWidth+x]
	bottom := pixels[(2*row+1)*chip8.DisplayWidth+x]
	return color(top), color(bottom)
}

func draw(pixels *[chip8.DisplaySize]uint8) {
	for row := range chip8.DisplayHeight / 2 {
		for x := range chip8.DisplayWidth {
			fg, bg := cellColors(pixels, x, row)
			termbox.SetCell(x, row, halfBlock, fg, bg)
		}
	}
}

func drawStatus(frame machine.Frame) {
	status := statusLine(frame)
	for x := range width {
		ch := ' '
		if x < len(status) {
			ch = rune(status[x])
		}
		termbox.SetCell(x, height-1, ch, termbox.ColorDefault, termbox.ColorDefault)
	}
}

func statusLine(frame machine.Frame) string {
	s := "Esc quits"
	if frame.Waiting {
		s += "  waiting for key"
	}
	if frame.Sound {
		s += "  sound"
	}
	return s
}
