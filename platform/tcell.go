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

package platform

import (
	"log"
	"time"

	"github.com/gdamore/tcell"
)

type tcellPlatform struct {
	screen tcell.Screen
	tick   time.Duration
}

// NewTcell initializes the terminal and returns a frontend drawing to it.
// The terminal is restored when Run returns.
func NewTcell() (Platform, error) {
	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newTcellPlatform(s)
}

func newTcellPlatform(s tcell.Screen) (*tcellPlatform, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	s.ShowCursor(0, 0)
	s.DisableMouse()
	s.Clear()

	return &tcellPlatform{screen: s, tick: TickInterval}, nil
}

func (p *tcellPlatform) Size() (int, int) {
	return p.screen.Size()
}

func (p *tcellPlatform) SetCell(x, y int, ch byte) {
	p.screen.SetContent(x, y, Glyph(ch), nil, tcell.StyleDefault)
}

func (p *tcellPlatform) ShowCursor(x, y int) {
	p.screen.ShowCursor(x, y)
}

func (p *tcellPlatform) Run(h Handler) error {
	s := p.screen
	defer s.Fini()

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)

	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	redraw := true
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch ev.Key() {
				case tcell.KeyF12:
					return nil
				case tcell.KeyF5:
					log.Print("Reset requested!")
					h.RequestReset()
				default:
					if key, ok := translateKey(ev); ok {
						h.KeyPressed(key)
					}
				}
			case *tcell.EventResize:
				s.Sync()
				redraw = true
			}
		case <-ticker.C:
			if h.Tick() || redraw {
				redraw = false
				s.Clear()
				h.Draw(p)
				s.Show()
			}
		}
	}
}

// translateKey maps a key event to ASCII. Control keys share their ASCII
// values with tcell so only runes outside the ASCII range and special keys
// like arrows are rejected.
func translateKey(ev *tcell.EventKey) (int, bool) {
	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		if r := ev.Rune(); r > 0 && r < 0x80 {
			return int(r), true
		}
	case k > tcell.KeyNUL && k <= tcell.KeyDEL:
		return int(k), true
	}
	return 0, false
}
