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

package cpu

import (
	"testing"

	"github.com/andreas-jonsson/virtualz80/emulator/memory"
	"github.com/andreas-jonsson/virtualz80/emulator/peripheral"
	"github.com/andreas-jonsson/virtualz80/emulator/peripheral/ram"
	"github.com/andreas-jonsson/virtualz80/emulator/processor"
	"github.com/andreas-jonsson/virtualz80/emulator/processor/z80"
)

func newEngine(b processor.Bus) processor.Engine {
	return z80.New(b)
}

type portDevice struct {
	peripheral.NullDevice
	ports   []uint16
	last    byte
	written []byte
}

func (d *portDevice) Install(p processor.Processor) error {
	return p.InstallIODeviceAt(d, d.ports...)
}

func (d *portDevice) In(port uint16) byte {
	return d.last
}

func (d *portDevice) Out(port uint16, data byte) {
	d.last = data
	d.written = append(d.written, data)
}

func newMachine(t *testing.T, prog []byte, devices ...peripheral.Peripheral) *CPU {
	t.Helper()
	p, errs := NewCPU(append([]peripheral.Peripheral{&ram.Device{}}, devices...), newEngine)
	t.Cleanup(p.Close)
	for _, err := range errs {
		t.Fatal(err)
	}

	for i, v := range prog {
		p.WriteByte(uint16(i), v)
	}
	p.Reset()
	return p
}

func run(t *testing.T, p *CPU) {
	t.Helper()
	for i := 0; !p.Halted(); i++ {
		if i > 10000 {
			t.Fatal("machine did not halt")
		}
		if _, err := p.Step(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestMemoryMap(t *testing.T) {
	p := newMachine(t, nil)
	p.WriteByte(0xFFFF, 1)
	p.WriteByte(0, 2)

	if p.ReadByte(0xFFFF) != 1 || p.ReadByte(0) != 2 {
		t.Error("RAM does not cover the address space")
	}
	if _, ok := p.GetMappedMemoryDevice(0x8000).(*ram.Device); !ok {
		t.Error("0x8000 is not mapped to RAM")
	}
}

func TestUnmapped(t *testing.T) {
	p, errs := NewCPU(nil, newEngine)
	defer p.Close()
	if len(errs) != 0 {
		t.Fatal(errs)
	}

	if v := p.ReadByte(0x1234); v != 0xFF {
		t.Errorf("unmapped memory read 0x%X", v)
	}
	if v := p.InByte(0x42); v != 0 {
		t.Errorf("unmapped port read 0x%X", v)
	}
	if _, ok := p.GetMappedIODevice(0x42).(*memory.DummyIO); !ok {
		t.Error("unmapped port has a device")
	}
}

func TestPortDecoding(t *testing.T) {
	dev := &portDevice{ports: []uint16{0x10}}
	p := newMachine(t, []byte{
		0x3E, 0x12, // LD A,12h
		0xD3, 0x10, // OUT (10h),A
		0x01, 0x10, 0x34, // LD BC,3410h
		0x3E, 0x99, // LD A,99h
		0xED, 0x79, // OUT (C),A
		0x76, // HALT
	}, dev)
	run(t, p)

	if len(dev.written) != 2 || dev.written[0] != 0x12 || dev.written[1] != 0x99 {
		t.Errorf("device received %v", dev.written)
	}
	if s := p.GetStats(); s.TX != 2 {
		t.Errorf("%d port writes, expected 2", s.TX)
	}
	if s := p.GetStats(); s.TX != 0 {
		t.Error("stats were not cleared")
	}
}

func TestInstallErrors(t *testing.T) {
	p := newMachine(t, nil)

	if err := p.InstallIODevice(&portDevice{}, 0, 0); err != processor.ErrUnknownPeripheral {
		t.Errorf("installing a foreign device returned %v", err)
	}
	if err := p.InstallIODevice(&memory.DummyIO{}, 0x100, 0x100); err == nil {
		t.Error("port above 0xFF was accepted")
	}

	devs := make([]peripheral.Peripheral, MaxPeripherals)
	for i := range devs {
		devs[i] = &peripheral.NullDevice{}
	}
	if _, errs := NewCPU(devs, newEngine); len(errs) == 0 {
		t.Error("too many peripherals accepted")
	}
}

func TestRequestReset(t *testing.T) {
	p := newMachine(t, []byte{
		0x3E, 0x01, // LD A,1
		0x76, // HALT
	})
	run(t, p)

	p.RequestReset()
	if p.Halted() {
		t.Fatal("machine reports halted with a reset pending")
	}

	p.Step()
	if p.Halted() {
		t.Error("machine halted right after reset")
	}
	if pc := p.Engine().(*z80.CPU).PC; pc != 2 {
		t.Errorf("PC = %d, expected 2 after reset and one instruction", pc)
	}
	run(t, p)
}

func TestInterrupt(t *testing.T) {
	p := newMachine(t, []byte{
		0xED, 0x56, // IM 1
		0xFB, // EI
		0x76, // HALT
	})
	run(t, p)

	p.Interrupt()
	p.Step()
	if p.Halted() {
		t.Error("interrupt did not wake the machine")
	}
	if s := p.GetStats(); s.NumInterrupts != 1 {
		t.Errorf("%d interrupts counted, expected 1", s.NumInterrupts)
	}
}
