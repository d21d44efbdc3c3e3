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

package memory

import (
	"log"
)

// Size of the flat address space.
const Size = 0x10000

type Memory interface {
	ReadByte(addr uint16) byte
	WriteByte(addr uint16, data byte)
}

type IO interface {
	In(port uint16) byte
	Out(port uint16, data byte)
}

// DummyIO answers every unmapped port. Reads return zero and writes are dropped.
type DummyIO struct {
	Verbose bool
}

func (m *DummyIO) In(port uint16) byte {
	if m.Verbose {
		log.Printf("reading unmapped IO port: 0x%X", port)
	}
	return 0
}

func (m *DummyIO) Out(port uint16, data byte) {
	if m.Verbose {
		log.Printf("writing unmapped IO port: 0x%X", port)
	}
}

type DummyMemory struct{}

func (m *DummyMemory) ReadByte(addr uint16) byte {
	log.Printf("reading unmapped memory: 0x%X", addr)
	return 0xFF
}

func (m *DummyMemory) WriteByte(addr uint16, data byte) {
	log.Printf("writing unmapped memory: 0x%X", addr)
}
