// Package options contains the program options.
package options

// Frontend names.
const (
	GLFW     = "glfw"
	Ebiten   = "ebiten"
	Terminal = "terminal"
)

// Frontends lists the frontends compiled into the program. The first entry
// is the default.
var Frontends = []string{Terminal}

// RegisterWindowFrontend adds a windowed frontend and makes it the default.
func RegisterWindowFrontend(name string) {
	Frontends = append([]string{name}, Frontends...)
}

// Defaults.
const (
	DefaultCyclesPerFrame = 9 // ~540 Hz at 60 frames per second
	DefaultScale          = 15
	FrameRate             = 60
)

// Program options of the emulator.
type Program struct {
	Input    string // ROM file to run
	Frontend string // one of Frontends

	CyclesPerFrame int   // instructions executed per 60 Hz frame
	Scale          int   // window pixels per Chip-8 pixel
	Seed           int64 // random seed for RND, 0 picks one from the clock

	Trace bool // log every executed instruction
	Debug bool
	Quiet bool
}

// New returns program options with defaults set.
func New() Program {
	return Program{
		Frontend:       Frontends[0],
		CyclesPerFrame: DefaultCyclesPerFrame,
		Scale:          DefaultScale,
	}
}
