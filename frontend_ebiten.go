//go:build ebiten

package main

import (
	"github.com/inrick/chip8-go/internal/frontend/ebitenui"
	"github.com/inrick/chip8-go/internal/machine"
	"github.com/inrick/chip8-go/internal/options"
	"github.com/retroenv/retrogolib/log"
)

func init() {
	registerWindowFrontend(options.Ebiten, func(logger *log.Logger, scale int) machine.Frontend {
		return ebitenui.New(logger, scale)
	})
}
