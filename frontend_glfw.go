//go:build !ebiten

package main

import (
	"github.com/inrick/chip8-go/internal/frontend/opengl"
	"github.com/inrick/chip8-go/internal/machine"
	"github.com/inrick/chip8-go/internal/options"
	"github.com/retroenv/retrogolib/log"
)

func init() {
	registerWindowFrontend(options.GLFW, func(logger *log.Logger, scale int) machine.Frontend {
		return opengl.New(logger, scale)
	})
}
