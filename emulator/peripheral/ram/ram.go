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

package ram

import (
	"github.com/andreas-jonsson/virtualz80/emulator/memory"
	"github.com/andreas-jonsson/virtualz80/emulator/peripheral"
	"github.com/andreas-jonsson/virtualz80/emulator/processor"
)

// Device is the flat 64KB memory. It is zero initialized and keeps its
// content across machine resets.
type Device struct {
	peripheral.NullDevice
	mem [memory.Size]byte
}

func (m *Device) Install(p processor.Processor) error {
	return p.InstallMemoryDevice(m, 0x0, memory.Size-1)
}

func (m *Device) Name() string {
	return "RAM"
}

func (m *Device) ReadByte(addr uint16) byte {
	return m.mem[addr]
}

func (m *Device) WriteByte(addr uint16, data byte) {
	m.mem[addr] = data
}
