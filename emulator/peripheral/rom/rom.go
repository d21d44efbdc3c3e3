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

package rom

import (
	"fmt"
	"log"

	"github.com/andreas-jonsson/virtualz80/emulator/memory"
	"github.com/andreas-jonsson/virtualz80/emulator/processor"
	"github.com/spf13/afero"
)

// Device copies a ROM image into memory at Base. The image is read once at
// install and copied again on every machine reset.
type Device struct {
	Fs   afero.Fs
	Path string
	Base uint16

	RomName string

	mem []byte
	p   processor.Processor
}

func (m *Device) Install(p processor.Processor) error {
	if m.Fs == nil {
		m.Fs = afero.NewOsFs()
	}
	if m.RomName == "" {
		m.RomName = "ROM"
	}

	img, err := afero.ReadFile(m.Fs, m.Path)
	if err != nil {
		return fmt.Errorf("could not load %s: %w", m.RomName, err)
	}

	if space := memory.Size - int(m.Base); len(img) > space {
		log.Printf("%s image is %d bytes, truncated to %d bytes", m.RomName, len(img), space)
		img = img[:space]
	}

	m.mem, m.p = img, p
	m.load()
	log.Printf("%s loaded: %d bytes at 0x%04X", m.RomName, len(m.mem), m.Base)
	return nil
}

func (m *Device) load() {
	for i, v := range m.mem {
		m.p.WriteByte(m.Base+uint16(i), v)
	}
}

func (m *Device) Size() int {
	return len(m.mem)
}

func (m *Device) Name() string {
	return m.RomName
}

func (m *Device) Reset() {
	if m.p != nil {
		m.load()
	}
}

func (m *Device) Step(int) error {
	return nil
}
