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

package z80

const (
	flagC  byte = 0x01
	flagN  byte = 0x02
	flagPV byte = 0x04
	flagX  byte = 0x08
	flagH  byte = 0x10
	flagY  byte = 0x20
	flagZ  byte = 0x40
	flagS  byte = 0x80
)

var (
	sz53Table,
	parityTable,
	sz53pTable [0x100]byte
)

func init() {
	for i := 0; i < 0x100; i++ {
		v := byte(i)
		sz53Table[i] = v & (flagS | flagY | flagX)
		if v == 0 {
			sz53Table[i] |= flagZ
		}

		p := v
		p ^= p >> 4
		p ^= p >> 2
		p ^= p >> 1
		if p&1 == 0 {
			parityTable[i] = flagPV
		}
		sz53pTable[i] = sz53Table[i] | parityTable[i]
	}
}

// Interrupt modes selected by ED46, ED56, ED5E and their mirrors.
var imTable = [8]byte{0, 0, 1, 2, 0, 0, 1, 2}
