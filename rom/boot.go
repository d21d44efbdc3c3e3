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

// Package rom holds the default boot ROM of the machine.
package rom

type section struct {
	org  uint16
	code []byte
}

// Boot is a small monitor. It prints a banner and then echoes keys back to
// the console, starting a new prompt on carriage return. Keys are polled on
// the serial port, the IM 1 handler only returns with interrupts enabled.
var Boot = assemble([]section{
	{0x0000, []byte{
		0xF3,             // DI
		0x31, 0x00, 0x00, // LD SP,0000h
		0xED, 0x56, // IM 1
		0xC3, 0x40, 0x00, // JP start
	}},
	{0x0038, []byte{
		0xFB,       // EI
		0xED, 0x4D, // RETI
	}},
	{0x0040, []byte{
		0x21, 0x66, 0x00, // start: LD HL,banner
		0xCD, 0x5E, 0x00, // CALL puts
		0xFB,       // EI
		0xDB, 0x80, // poll: IN A,(80h)
		0xB7,       // OR A
		0x20, 0xFB, // JR NZ,poll
		0xDB, 0x81, // IN A,(81h)
		0xFE, 0x0D, // CP 0Dh
		0x28, 0x04, // JR Z,enter
		0xD3, 0x81, // OUT (81h),A
		0x18, 0xF1, // JR poll
		0x21, 0x74, 0x00, // enter: LD HL,prompt
		0xCD, 0x5E, 0x00, // CALL puts
		0x18, 0xE9, // JR poll
		0x7E,       // puts: LD A,(HL)
		0xB7,       // OR A
		0xC8,       // RET Z
		0xD3, 0x81, // OUT (81h),A
		0x23,       // INC HL
		0x18, 0xF8, // JR puts
	}},
	{0x0066, []byte("VirtualZ80\n> \x00")}, // banner
	{0x0074, []byte("\n> \x00")},           // prompt
})

func assemble(sections []section) []byte {
	var size int
	for _, s := range sections {
		if end := int(s.org) + len(s.code); end > size {
			size = end
		}
	}

	img := make([]byte, size)
	for _, s := range sections {
		copy(img[s.org:], s.code)
	}
	return img
}
