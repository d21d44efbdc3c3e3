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

// Package serial implements the console port of the machine.
//
// Only the low byte of the port number is decoded:
//
//	0x80 read   status, 0x00 if input is waiting and 0xFF otherwise
//	0x81 read   next input byte, 0 if there is none
//	0x81 write  queue an output byte
package serial

import (
	"sync/atomic"

	"github.com/andreas-jonsson/virtualz80/emulator/processor"
	"github.com/andreas-jonsson/virtualz80/emulator/queue"
)

const (
	StatusPort = 0x80
	DataPort   = 0x81
)

const (
	statusReady = 0x00
	statusEmpty = 0xFF
)

type Device struct {
	Input, Output *queue.Queue

	dropped uint64
}

func (m *Device) Install(p processor.Processor) error {
	if m.Input == nil {
		m.Input = queue.New()
	}
	if m.Output == nil {
		m.Output = queue.New()
	}
	return p.InstallIODeviceAt(m, StatusPort, DataPort)
}

func (m *Device) Name() string {
	return "Serial Console"
}

// Reset discards pending input. Output already produced is left for the
// console to drain.
func (m *Device) Reset() {
	m.Input.Reset()
}

func (m *Device) Step(int) error {
	return nil
}

// Dropped returns the number of output bytes lost to a full queue.
func (m *Device) Dropped() uint64 {
	return atomic.LoadUint64(&m.dropped)
}

func (m *Device) In(port uint16) byte {
	switch byte(port) {
	case StatusPort:
		if m.Input.NonEmpty() {
			return statusReady
		}
		return statusEmpty
	case DataPort:
		if v, ok := m.Input.TryDequeue(); ok {
			return byte(v)
		}
	}
	return 0
}

func (m *Device) Out(port uint16, data byte) {
	if byte(port) != DataPort {
		return
	}
	if !m.Output.TryEnqueue(int(data)) {
		atomic.AddUint64(&m.dropped, 1)
	}
}
