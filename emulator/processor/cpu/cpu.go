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
	"errors"
	"log"
	"sync/atomic"

	"github.com/andreas-jonsson/virtualz80/emulator/memory"
	"github.com/andreas-jonsson/virtualz80/emulator/peripheral"
	"github.com/andreas-jonsson/virtualz80/emulator/processor"
)

const MaxPeripherals = 32

// EngineFactory creates the instruction engine attached to the machine bus.
type EngineFactory func(processor.Bus) processor.Engine

// CPU is the machine. It owns the instruction engine and routes its bus
// cycles to the installed peripherals.
type CPU struct {
	// Accessed atomically, keep first for 64-bit alignment.
	stats processor.Stats

	engine       processor.Engine
	resetPending int32
	peripherals  []peripheral.Peripheral

	// I/O devices are selected by the low byte of the port number.
	iomap         [0x100]byte
	ioPeripherals [MaxPeripherals]memory.IO

	mmap           [memory.Size]byte
	memPeripherals [MaxPeripherals]memory.Memory
}

func NewCPU(peripherals []peripheral.Peripheral, newEngine EngineFactory) (*CPU, []error) {
	p := &CPU{peripherals: peripherals}
	if len(peripherals) >= MaxPeripherals {
		return p, []error{errors.New("too many peripherals")}
	}

	dummyIO := &memory.DummyIO{}
	for i := range p.ioPeripherals[:] {
		p.ioPeripherals[i] = dummyIO
	}

	dummyMem := &memory.DummyMemory{}
	for i := range p.memPeripherals[:] {
		p.memPeripherals[i] = dummyMem
	}

	for i := 1; i <= len(peripherals); i++ {
		if dev, ok := peripherals[i-1].(memory.IO); ok {
			p.ioPeripherals[i] = dev
		}
		if dev, ok := peripherals[i-1].(memory.Memory); ok {
			p.memPeripherals[i] = dev
		}
	}

	p.engine = newEngine(p)
	return p, p.installPeripherals()
}

func (p *CPU) installPeripherals() []error {
	var errs []error
	for _, d := range p.peripherals {
		if err := d.Install(p); err != nil {
			log.Printf("Failed to install peripheral \"%s\": %v", d.Name(), err)
			errs = append(errs, err)
		}
	}
	return errs
}

func (p *CPU) Close() {
	for _, d := range p.peripherals {
		if cd, b := d.(peripheral.PeripheralCloser); b {
			if err := cd.Close(); err != nil {
				log.Print("Failed to close peripheral: ", err)
			}
		}
	}
}

func (p *CPU) Engine() processor.Engine {
	return p.engine
}

// GetStats returns the counters accumulated since the last call and clears them.
func (p *CPU) GetStats() processor.Stats {
	return processor.Stats{
		NumInterrupts:   atomic.SwapUint64(&p.stats.NumInterrupts, 0),
		NumInstructions: atomic.SwapUint64(&p.stats.NumInstructions, 0),
		NumCycles:       atomic.SwapUint64(&p.stats.NumCycles, 0),
		RX:              atomic.SwapUint64(&p.stats.RX, 0),
		TX:              atomic.SwapUint64(&p.stats.TX, 0),
	}
}

func (p *CPU) Reset() {
	log.Print("CPU reset!")

	atomic.StoreInt32(&p.resetPending, 0)
	for _, d := range p.peripherals {
		d.Reset()
	}
	p.engine.Reset()
}

// RequestReset latches a reset. It is performed by the goroutine calling
// Step, before the next instruction. Safe to call from any goroutine.
func (p *CPU) RequestReset() {
	atomic.StoreInt32(&p.resetPending, 1)
}

// Halted reports whether the engine has stopped. A pending reset counts as
// running since the next Step will restart the machine.
func (p *CPU) Halted() bool {
	return atomic.LoadInt32(&p.resetPending) == 0 && p.engine.Halted()
}

func (p *CPU) Step() (int, error) {
	if atomic.LoadInt32(&p.resetPending) != 0 {
		p.Reset()
	}

	cycles, err := p.engine.Step()
	atomic.AddUint64(&p.stats.NumInstructions, 1)
	atomic.AddUint64(&p.stats.NumCycles, uint64(cycles))
	if err != nil {
		return cycles, err
	}

	for _, d := range p.peripherals {
		if err := d.Step(cycles); err != nil {
			return cycles, err
		}
	}
	return cycles, nil
}

// Interrupt raises the maskable interrupt line. Safe to call from any goroutine.
func (p *CPU) Interrupt() {
	atomic.AddUint64(&p.stats.NumInterrupts, 1)
	p.engine.Interrupt()
}

func (p *CPU) GetMappedMemoryDevice(addr uint16) memory.Memory {
	return p.memPeripherals[p.mmap[addr]]
}

func (p *CPU) GetMappedIODevice(port uint16) memory.IO {
	return p.ioPeripherals[p.iomap[byte(port)]]
}

func (p *CPU) InByte(port uint16) byte {
	atomic.AddUint64(&p.stats.RX, 1)
	return p.GetMappedIODevice(port).In(port)
}

func (p *CPU) OutByte(port uint16, data byte) {
	atomic.AddUint64(&p.stats.TX, 1)
	p.GetMappedIODevice(port).Out(port, data)
}

func (p *CPU) ReadByte(addr uint16) byte {
	return p.GetMappedMemoryDevice(addr).ReadByte(addr)
}

func (p *CPU) WriteByte(addr uint16, data byte) {
	p.GetMappedMemoryDevice(addr).WriteByte(addr, data)
}

func (p *CPU) InstallMemoryDevice(device memory.Memory, from, to uint16) error {
	for i, d := range p.memPeripherals[:] {
		if d == device {
			for a := int(from); a <= int(to); a++ {
				p.mmap[a] = byte(i)
			}
			return nil
		}
	}
	return processor.ErrUnknownPeripheral
}

func (p *CPU) InstallIODevice(device memory.IO, from, to uint16) error {
	if from > 0xFF || to > 0xFF {
		return errors.New("only the low byte of a port is decoded")
	}
	for i, d := range p.ioPeripherals[:] {
		if d == device {
			for port := int(from); port <= int(to); port++ {
				p.iomap[port] = byte(i)
			}
			return nil
		}
	}
	return processor.ErrUnknownPeripheral
}

func (p *CPU) InstallIODeviceAt(device memory.IO, port ...uint16) error {
	for _, a := range port {
		if err := p.InstallIODevice(device, a, a); err != nil {
			return err
		}
	}
	return nil
}
