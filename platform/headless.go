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
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// QuitKey ends a headless session. It is Ctrl-].
const QuitKey = 0x1D

type headlessPlatform struct {
	in  io.Reader
	out io.Writer
	fd  int

	width, height int
	tick          time.Duration
	raw           bool
}

// NewHeadless returns a frontend that reads keys from stdin and writes
// output to stdout. If stdin is a terminal it is put in raw mode while Run
// is active.
func NewHeadless(width, height int) Platform {
	return &headlessPlatform{
		in:     os.Stdin,
		out:    os.Stdout,
		fd:     int(os.Stdin.Fd()),
		width:  width,
		height: height,
		tick:   TickInterval,
	}
}

func (p *headlessPlatform) Size() (int, int) {
	return p.width, p.height
}

func (p *headlessPlatform) Echo() io.Writer {
	return &crlfWriter{p: p}
}

func (p *headlessPlatform) Run(h Handler) error {
	if p.fd >= 0 && term.IsTerminal(p.fd) {
		state, err := term.MakeRaw(p.fd)
		if err != nil {
			return err
		}
		p.raw = true
		defer func() {
			term.Restore(p.fd, state)
			p.raw = false
		}()
	}

	keys := make(chan byte)
	quit := make(chan struct{})
	defer close(quit)

	go func() {
		defer close(keys)
		buf := make([]byte, 64)
		for {
			n, err := p.in.Read(buf)
			for _, b := range buf[:n] {
				select {
				case keys <- b:
				case <-quit:
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case k, ok := <-keys:
			if !ok || k == QuitKey {
				h.Tick()
				return nil
			}
			h.KeyPressed(int(k))
		case <-ticker.C:
			h.Tick()
		}
	}
}

// crlfWriter expands line feeds while the terminal is in raw mode.
type crlfWriter struct {
	p *headlessPlatform
}

func (w *crlfWriter) Write(b []byte) (int, error) {
	if !w.p.raw {
		return w.p.out.Write(b)
	}

	for i, v := range b {
		var err error
		if v == '\n' {
			_, err = w.p.out.Write([]byte{'\r', '\n'})
		} else {
			_, err = w.p.out.Write(b[i : i+1])
		}
		if err != nil {
			return i, err
		}
	}
	return len(b), nil
}
