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

package processor

import (
	"errors"

	"github.com/andreas-jonsson/virtualz80/emulator/memory"
)

type Stats struct {
	NumInterrupts   uint64
	NumInstructions uint64
	NumCycles       uint64
	RX, TX          uint64
}

var ErrUnknownPeripheral = errors.New("could not find peripheral")

// Bus is what an instruction engine sees of the machine.
type Bus interface {
	ReadByte(addr uint16) byte
	WriteByte(addr uint16, data byte)
	InByte(port uint16) byte
	OutByte(port uint16, data byte)
}

// Engine executes instructions against a Bus.
//
// Step runs exactly one instruction (or one interrupt acknowledge) and
// returns the number of clock cycles it took. Interrupt may be called from
// any goroutine, every other method belongs to the goroutine driving Step.
type Engine interface {
	Reset()
	Step() (int, error)
	Halted() bool
	Interrupt()
}

// InterruptLine is implemented by anything that can raise the maskable
// interrupt of the processor.
type InterruptLine interface {
	Interrupt()
}

type Processor interface {
	Bus
	InterruptLine

	GetStats() Stats
	GetMappedMemoryDevice(addr uint16) memory.Memory
	GetMappedIODevice(port uint16) memory.IO

	InstallMemoryDevice(device memory.Memory, from, to uint16) error
	InstallIODevice(device memory.IO, from, to uint16) error
	InstallIODeviceAt(device memory.IO, port ...uint16) error
}
