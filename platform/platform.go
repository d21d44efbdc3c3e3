/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

// Package platform provides the console frontends the emulator can run in.
package platform

import (
	"io"
	"time"
)

// TickInterval is how often a frontend asks its Handler to drain output.
const TickInterval = 10 * time.Millisecond

// Canvas is a character grid that a Handler draws on.
type Canvas interface {
	Size() (int, int)
	SetCell(x, y int, ch byte)
	ShowCursor(x, y int)
}

// Handler receives the events of a frontend. All methods are called
// sequentially from the goroutine running Platform.Run.
type Handler interface {
	// KeyPressed receives an ASCII key code.
	KeyPressed(key int)

	// Tick is called on every idle tick and reports whether the display
	// needs to be redrawn.
	Tick() bool

	Draw(Canvas)
	RequestReset()
}

type Platform interface {
	Size() (int, int)

	// Run delivers events to h until the user quits.
	Run(h Handler) error
}

// Echoer is implemented by frontends that show output as a byte stream
// rather than by drawing a Canvas.
type Echoer interface {
	Echo() io.Writer
}

// Glyph returns the rune used to display a character cell. Bytes outside
// printable ASCII use their code page 437 glyph.
func Glyph(ch byte) rune {
	return codePage437[ch]
}
