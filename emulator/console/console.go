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

// Package console connects the serial queues of the machine with a frontend.
//
// Every method belongs to the frontend goroutine. Queue locks are only
// taken with TryDo so the frontend never waits on the machine.
package console

import (
	"io"
	"log"
	"sync/atomic"

	"github.com/andreas-jonsson/virtualz80/emulator/queue"
	"github.com/andreas-jonsson/virtualz80/platform"
)

// Interrupter raises the interrupt line of the machine.
type Interrupter interface {
	Interrupt()
}

// Resetter restarts the machine.
type Resetter interface {
	RequestReset()
}

type Stats struct {
	DroppedKeys  uint64
	SkippedTicks uint64
}

type Console struct {
	stats Stats

	// Echo receives every printed byte, with line feeds added at wrapped
	// lines. It is optional.
	Echo io.Writer

	in, out *queue.Queue
	irq     Interrupter
	reset   Resetter

	width, height int
	x, y          int
	grid          []byte
	drained       []byte
}

func New(in, out *queue.Queue, irq Interrupter, reset Resetter, width, height int) *Console {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Console{
		in:      in,
		out:     out,
		irq:     irq,
		reset:   reset,
		width:   width,
		height:  height,
		grid:    make([]byte, width*height),
		drained: make([]byte, 0, queue.Capacity),
	}
}

// KeyPressed queues key as input and raises the interrupt. The key is
// dropped if the input queue is busy or full.
func (c *Console) KeyPressed(key int) {
	if key <= 0 {
		return
	}

	var queued bool
	if !c.in.TryDo(func(r *queue.Ring) { queued = r.Push(key) }) || !queued {
		atomic.AddUint64(&c.stats.DroppedKeys, 1)
		return
	}
	c.irq.Interrupt()
}

// Tick drains the output queue into the grid and reports whether anything
// was drained. Nothing happens if the queue is busy.
func (c *Console) Tick() bool {
	c.drained = c.drained[:0]
	if !c.out.TryDo(func(r *queue.Ring) {
		for v, ok := r.Pop(); ok; v, ok = r.Pop() {
			c.drained = append(c.drained, byte(v))
		}
	}) {
		atomic.AddUint64(&c.stats.SkippedTicks, 1)
		return false
	}

	for _, v := range c.drained {
		c.put(v)
	}
	return len(c.drained) > 0
}

func (c *Console) put(v byte) {
	switch v {
	case 0:
		return
	case '\n':
		c.newline()
		c.echo(v)
	default:
		c.grid[c.y*c.width+c.x] = v
		c.echo(v)
		if c.x++; c.x == c.width {
			c.newline()
			c.echo('\n')
		}
	}
}

func (c *Console) echo(v byte) {
	if c.Echo == nil {
		return
	}
	if _, err := c.Echo.Write([]byte{v}); err != nil {
		log.Print("Console echo failed: ", err)
		c.Echo = nil
	}
}

// newline moves the cursor to the start of the next row. The grid scrolls
// up one row when the cursor leaves the bottom.
func (c *Console) newline() {
	c.x = 0
	if c.y++; c.y < c.height {
		return
	}

	c.y = c.height - 1
	copy(c.grid, c.grid[c.width:])
	last := c.grid[c.y*c.width:]
	for i := range last {
		last[i] = 0
	}
}

// Draw renders every printed cell and places the cursor. Cells outside the
// canvas are clipped.
func (c *Console) Draw(cv platform.Canvas) {
	w, h := cv.Size()
	for y := 0; y < c.height && y < h; y++ {
		row := c.grid[y*c.width : (y+1)*c.width]
		for x, ch := range row {
			if x >= w {
				break
			}
			if ch != 0 {
				cv.SetCell(x, y, ch)
			}
		}
	}
	cv.ShowCursor(c.x, c.y)
}

func (c *Console) RequestReset() {
	if c.reset != nil {
		c.reset.RequestReset()
	}
}

// Cursor returns the column and row where the next byte is printed.
func (c *Console) Cursor() (int, int) {
	return c.x, c.y
}

// Cell returns the byte printed at x, y or 0 if the cell is blank.
func (c *Console) Cell(x, y int) byte {
	return c.grid[y*c.width+x]
}

func (c *Console) Stats() Stats {
	return Stats{
		DroppedKeys:  atomic.LoadUint64(&c.stats.DroppedKeys),
		SkippedTicks: atomic.LoadUint64(&c.stats.SkippedTicks),
	}
}
