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

package serial

import (
	"testing"

	"github.com/andreas-jonsson/virtualz80/emulator/peripheral"
	"github.com/andreas-jonsson/virtualz80/emulator/peripheral/ram"
	"github.com/andreas-jonsson/virtualz80/emulator/processor"
	"github.com/andreas-jonsson/virtualz80/emulator/processor/cpu"
	"github.com/andreas-jonsson/virtualz80/emulator/processor/z80"
	"github.com/andreas-jonsson/virtualz80/emulator/queue"
)

func newDevice() *Device {
	return &Device{Input: queue.New(), Output: queue.New()}
}

func TestStatusPort(t *testing.T) {
	d := newDevice()

	if v := d.In(StatusPort); v != 0xFF {
		t.Errorf("empty input reported 0x%X, expected 0xFF", v)
	}

	d.Input.TryEnqueue('x')
	if v := d.In(StatusPort); v != 0x00 {
		t.Errorf("pending input reported 0x%X, expected 0x00", v)
	}

	// The high byte of the port is ignored.
	if v := d.In(0x1280); v != 0x00 {
		t.Errorf("port 0x1280 reported 0x%X, expected 0x00", v)
	}

	d.In(DataPort)
	if v := d.In(StatusPort); v != 0xFF {
		t.Errorf("drained input reported 0x%X, expected 0xFF", v)
	}
}

func TestDataPort(t *testing.T) {
	t.Run("Read", func(t *testing.T) {
		d := newDevice()
		if v := d.In(DataPort); v != 0 {
			t.Errorf("empty read returned %d", v)
		}

		d.Input.TryEnqueue(13)
		d.Input.TryEnqueue('a')
		if v := d.In(DataPort); v != 13 {
			t.Errorf("read %d, expected 13", v)
		}
		if v := d.In(DataPort); v != 'a' {
			t.Errorf("read %d, expected %d", v, 'a')
		}
	})

	t.Run("Write", func(t *testing.T) {
		d := newDevice()
		d.Out(DataPort, 65)

		v, ok := d.Output.TryDequeue()
		if !ok || v != 65 {
			t.Errorf("output queue returned %d, %v", v, ok)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		d := newDevice()
		for i := 0; i < queue.Capacity; i++ {
			d.Out(DataPort, byte(i))
		}
		if d.Dropped() != 1 {
			t.Errorf("dropped %d bytes, expected 1", d.Dropped())
		}
		if n := d.Output.Len(); n != queue.Capacity-1 {
			t.Errorf("output queue holds %d bytes", n)
		}
	})
}

func TestUnmappedPorts(t *testing.T) {
	d := newDevice()
	d.Input.TryEnqueue(1)

	for _, port := range []uint16{0x00, 0x7F, 0x82, 0xFF} {
		if v := d.In(port); v != 0 {
			t.Errorf("port 0x%X returned %d", port, v)
		}
		d.Out(port, 1)
	}
	if d.Output.Len() != 0 {
		t.Error("write to unrelated port reached the output queue")
	}
	if d.Input.Len() != 1 {
		t.Error("read from unrelated port consumed input")
	}
}

func TestMachine(t *testing.T) {
	dev := &Device{}
	p, errs := cpu.NewCPU([]peripheral.Peripheral{&ram.Device{}, dev}, func(b processor.Bus) processor.Engine {
		return z80.New(b)
	})
	defer p.Close()

	for _, err := range errs {
		t.Fatal(err)
	}

	// Echo one byte from input to output.
	prog := []byte{
		0xDB, 0x80, // wait: IN A,(80h)
		0xB7,             // OR A
		0x20, 0xFB, // JR NZ,wait
		0xDB, 0x81, // IN A,(81h)
		0xD3, 0x81, // OUT (81h),A
		0x76, // HALT
	}
	for i, v := range prog {
		p.WriteByte(uint16(i), v)
	}
	p.Reset()

	for i := 0; i < 10; i++ {
		if _, err := p.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if p.Halted() {
		t.Fatal("machine did not wait for input")
	}

	dev.Input.TryEnqueue('Z')
	for i := 0; i < 100 && !p.Halted(); i++ {
		if _, err := p.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if !p.Halted() {
		t.Fatal("machine did not halt")
	}

	if v, ok := dev.Output.TryDequeue(); !ok || v != 'Z' {
		t.Errorf("output %d, %v", v, ok)
	}
	if s := p.GetStats(); s.TX != 1 || s.RX == 0 {
		t.Errorf("unexpected port stats: %+v", s)
	}
}
