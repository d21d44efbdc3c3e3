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

func (c *CPU) add8(v, carry byte) {
	a := c.A
	res := uint16(a) + uint16(v) + uint16(carry)
	r := byte(res)

	f := sz53Table[r] | (a^v^r)&flagH
	if (a^^v)&(a^r)&0x80 != 0 {
		f |= flagPV
	}
	if res > 0xFF {
		f |= flagC
	}
	c.A, c.F = r, f
}

func (c *CPU) sub8(v, carry byte) byte {
	a := c.A
	res := int(a) - int(v) - int(carry)
	r := byte(res)

	f := flagN | sz53Table[r] | (a^v^r)&flagH
	if (a^v)&(a^r)&0x80 != 0 {
		f |= flagPV
	}
	if res < 0 {
		f |= flagC
	}
	c.F = f
	return r
}

// alu performs ADD, ADC, SUB, SBC, AND, XOR, OR or CP with the accumulator.
func (c *CPU) alu(op, v byte) {
	switch op {
	case 0:
		c.add8(v, 0)
	case 1:
		c.add8(v, c.F&flagC)
	case 2:
		c.A = c.sub8(v, 0)
	case 3:
		c.A = c.sub8(v, c.F&flagC)
	case 4:
		c.A &= v
		c.F = sz53pTable[c.A] | flagH
	case 5:
		c.A ^= v
		c.F = sz53pTable[c.A]
	case 6:
		c.A |= v
		c.F = sz53pTable[c.A]
	case 7:
		c.sub8(v, 0)
		c.F = c.F&^(flagX|flagY) | v&(flagX|flagY)
	}
}

func (c *CPU) inc8(v byte) byte {
	r := v + 1
	f := c.F&flagC | sz53Table[r]
	if v&0x0F == 0x0F {
		f |= flagH
	}
	if v == 0x7F {
		f |= flagPV
	}
	c.F = f
	return r
}

func (c *CPU) dec8(v byte) byte {
	r := v - 1
	f := c.F&flagC | flagN | sz53Table[r]
	if v&0x0F == 0 {
		f |= flagH
	}
	if v == 0x80 {
		f |= flagPV
	}
	c.F = f
	return r
}

func (c *CPU) add16(a, b uint16) uint16 {
	res := uint32(a) + uint32(b)
	f := c.F&(flagS|flagZ|flagPV) | byte(res>>8)&(flagX|flagY)
	if (a&0x0FFF)+(b&0x0FFF) > 0x0FFF {
		f |= flagH
	}
	if res > 0xFFFF {
		f |= flagC
	}
	c.F = f
	return uint16(res)
}

func (c *CPU) adc16(a, b uint16) uint16 {
	carry := uint32(c.F & flagC)
	res := uint32(a) + uint32(b) + carry
	r := uint16(res)

	f := byte(r>>8) & (flagS | flagX | flagY)
	if r == 0 {
		f |= flagZ
	}
	if (uint32(a&0x0FFF) + uint32(b&0x0FFF) + carry) > 0x0FFF {
		f |= flagH
	}
	if (a^^b)&(a^r)&0x8000 != 0 {
		f |= flagPV
	}
	if res > 0xFFFF {
		f |= flagC
	}
	c.F = f
	return r
}

func (c *CPU) sbc16(a, b uint16) uint16 {
	carry := int(c.F & flagC)
	res := int(a) - int(b) - carry
	r := uint16(res)

	f := flagN | byte(r>>8)&(flagS|flagX|flagY)
	if r == 0 {
		f |= flagZ
	}
	if int(a&0x0FFF)-int(b&0x0FFF)-carry < 0 {
		f |= flagH
	}
	if (a^b)&(a^r)&0x8000 != 0 {
		f |= flagPV
	}
	if res < 0 {
		f |= flagC
	}
	c.F = f
	return r
}

// rot performs the CB prefixed shift and rotate group: RLC, RRC, RL, RR,
// SLA, SRA, SLL and SRL.
func (c *CPU) rot(op, v byte) byte {
	var r, carry byte
	switch op {
	case 0:
		carry = v >> 7
		r = v<<1 | carry
	case 1:
		carry = v & 1
		r = v>>1 | carry<<7
	case 2:
		carry = v >> 7
		r = v<<1 | c.F&flagC
	case 3:
		carry = v & 1
		r = v>>1 | (c.F&flagC)<<7
	case 4:
		carry = v >> 7
		r = v << 1
	case 5:
		carry = v & 1
		r = v>>1 | v&0x80
	case 6:
		carry = v >> 7
		r = v<<1 | 1
	case 7:
		carry = v & 1
		r = v >> 1
	}
	c.F = sz53pTable[r] | carry
	return r
}

func (c *CPU) bit(n, v byte) {
	f := c.F&flagC | flagH | v&(flagX|flagY)
	if v&(1<<n) == 0 {
		f |= flagZ | flagPV
	} else if n == 7 {
		f |= flagS
	}
	c.F = f
}

func (c *CPU) daa() {
	a := c.A
	carry := c.F & flagC

	var corr byte
	if c.F&flagH != 0 || a&0x0F > 9 {
		corr = 0x06
	}
	if carry != 0 || a > 0x99 {
		corr |= 0x60
		carry = flagC
	}

	var h byte
	if c.F&flagN != 0 {
		if c.F&flagH != 0 && a&0x0F < 6 {
			h = flagH
		}
		c.A = a - corr
	} else {
		if a&0x0F > 9 {
			h = flagH
		}
		c.A = a + corr
	}
	c.F = c.F&flagN | h | carry | sz53pTable[c.A]
}

// accRotate covers RLCA, RRCA, RLA and RRA which leave S, Z and P/V alone.
func (c *CPU) accRotate(op byte) {
	a := c.A
	var carry byte
	switch op {
	case 0:
		carry = a >> 7
		a = a<<1 | carry
	case 1:
		carry = a & 1
		a = a>>1 | carry<<7
	case 2:
		carry = a >> 7
		a = a<<1 | c.F&flagC
	case 3:
		carry = a & 1
		a = a>>1 | (c.F&flagC)<<7
	}
	c.A = a
	c.F = c.F&(flagS|flagZ|flagPV) | a&(flagX|flagY) | carry
}
