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

func (c *CPU) executeCB() {
	op := c.fetchOpcode()
	x, y, z := op>>6, (op>>3)&7, op&7

	var (
		v    byte
		addr uint16
	)
	if z == 6 {
		addr = c.HL()
		v = c.read(addr)
	} else {
		v = c.reg8(z)
	}

	switch x {
	case 0:
		v = c.rot(y, v)
	case 1:
		c.bit(y, v)
		if z == 6 {
			c.F = c.F&^(flagX|flagY) | byte(addr>>8)&(flagX|flagY)
			c.cycles += 12
		} else {
			c.cycles += 8
		}
		return
	case 2:
		v &^= 1 << y
	case 3:
		v |= 1 << y
	}

	if z == 6 {
		c.write(addr, v)
		c.cycles += 15
	} else {
		c.setReg8(z, v)
		c.cycles += 8
	}
}

// executeIndexedCB handles DDCB and FDCB. The displacement comes before the
// opcode and results are optionally copied to a register as well.
func (c *CPU) executeIndexedCB() {
	addr := *c.idx + uint16(int8(c.fetchByte()))
	op := c.fetchByte()
	x, y, z := op>>6, (op>>3)&7, op&7

	v := c.read(addr)
	switch x {
	case 0:
		v = c.rot(y, v)
	case 1:
		c.bit(y, v)
		c.F = c.F&^(flagX|flagY) | byte(addr>>8)&(flagX|flagY)
		c.cycles += 16
		return
	case 2:
		v &^= 1 << y
	case 3:
		v |= 1 << y
	}

	c.write(addr, v)
	if z != 6 {
		c.setPlainReg8(z, v)
	}
	c.cycles += 19
}

func (c *CPU) executeED() {
	op := c.fetchOpcode()
	x, y, z := op>>6, (op>>3)&7, op&7
	p, q := y>>1, y&1

	switch {
	case x == 1:
		c.executeEDX1(y, z, p, q)
	case x == 2 && z <= 3 && y >= 4:
		c.executeBlock(y, z)
	default: // Invalid ED opcodes act as two NOPs.
		c.cycles += 8
	}
}

func (c *CPU) executeEDX1(y, z, p, q byte) {
	switch z {
	case 0: // IN r,(C)
		v := c.bus.InByte(c.BC())
		if y != 6 {
			c.setReg8(y, v)
		}
		c.F = c.F&flagC | sz53pTable[v]
		c.cycles += 12
	case 1: // OUT (C),r
		var v byte
		if y != 6 {
			v = c.reg8(y)
		}
		c.bus.OutByte(c.BC(), v)
		c.cycles += 12
	case 2:
		if q == 0 {
			c.SetHL(c.sbc16(c.HL(), c.rp(p)))
		} else {
			c.SetHL(c.adc16(c.HL(), c.rp(p)))
		}
		c.cycles += 15
	case 3:
		addr := c.fetchWord()
		if q == 0 {
			c.write16(addr, c.rp(p))
		} else {
			c.setRP(p, c.read16(addr))
		}
		c.cycles += 20
	case 4: // NEG
		a := c.A
		c.A = 0
		c.A = c.sub8(a, 0)
		c.cycles += 8
	case 5: // RETN, RETI
		c.PC = c.pop()
		c.IFF1 = c.IFF2
		c.cycles += 14
	case 6:
		c.IM = imTable[y]
		c.cycles += 8
	case 7:
		switch y {
		case 0: // LD I,A
			c.I = c.A
			c.cycles += 9
		case 1: // LD R,A
			c.R = c.A
			c.cycles += 9
		case 2, 3: // LD A,I / LD A,R
			if y == 2 {
				c.A = c.I
			} else {
				c.A = c.R
			}
			f := c.F&flagC | sz53Table[c.A]
			if c.IFF2 {
				f |= flagPV
			}
			c.F = f
			c.cycles += 9
		case 4: // RRD
			hl := c.HL()
			m := c.read(hl)
			c.write(hl, c.A<<4|m>>4)
			c.A = c.A&0xF0 | m&0x0F
			c.F = c.F&flagC | sz53pTable[c.A]
			c.cycles += 18
		case 5: // RLD
			hl := c.HL()
			m := c.read(hl)
			c.write(hl, m<<4|c.A&0x0F)
			c.A = c.A&0xF0 | m>>4
			c.F = c.F&flagC | sz53pTable[c.A]
			c.cycles += 18
		default:
			c.cycles += 8
		}
	}
}

// executeBlock runs LDI, CPI, INI, OUTI and their decrementing and
// repeating variants. A repeating instruction that has not finished rewinds
// PC so it is fetched again.
func (c *CPU) executeBlock(y, z byte) {
	step := uint16(1)
	if y&1 != 0 {
		step = 0xFFFF
	}
	repeat := y >= 6

	var again bool
	switch z {
	case 0:
		again = c.ldi(step) && repeat
	case 1:
		again = c.cpi(step) && repeat
	case 2:
		again = c.ini(step) && repeat
	case 3:
		again = c.outi(step) && repeat
	}

	if again {
		c.PC -= 2
		c.cycles += 21
	} else {
		c.cycles += 16
	}
}

func (c *CPU) ldi(step uint16) bool {
	hl, de := c.HL(), c.DE()
	v := c.read(hl)
	c.write(de, v)
	c.SetHL(hl + step)
	c.SetDE(de + step)
	bc := c.BC() - 1
	c.SetBC(bc)

	n := v + c.A
	f := c.F&(flagS|flagZ|flagC) | n&flagX | (n<<4)&flagY
	if bc != 0 {
		f |= flagPV
	}
	c.F = f
	return bc != 0
}

func (c *CPU) cpi(step uint16) bool {
	hl := c.HL()
	v := c.read(hl)
	r := c.A - v
	c.SetHL(hl + step)
	bc := c.BC() - 1
	c.SetBC(bc)

	h := (c.A ^ v ^ r) & flagH
	n := r
	if h != 0 {
		n--
	}
	f := c.F&flagC | flagN | sz53Table[r]&(flagS|flagZ) | h | n&flagX | (n<<4)&flagY
	if bc != 0 {
		f |= flagPV
	}
	c.F = f
	return bc != 0 && r != 0
}

func (c *CPU) blockIOFlags(v byte, k int) {
	f := sz53Table[c.B]
	if v&0x80 != 0 {
		f |= flagN
	}
	if k > 0xFF {
		f |= flagH | flagC
	}
	f |= parityTable[byte(k)&7^c.B]
	c.F = f
}

func (c *CPU) ini(step uint16) bool {
	v := c.bus.InByte(c.BC())
	hl := c.HL()
	c.write(hl, v)
	c.SetHL(hl + step)
	c.B--

	k := int(v) + int(c.C+byte(step))
	c.blockIOFlags(v, k)
	return c.B != 0
}

func (c *CPU) outi(step uint16) bool {
	hl := c.HL()
	v := c.read(hl)
	c.B--
	c.bus.OutByte(c.BC(), v)
	c.SetHL(hl + step)

	k := int(v) + int(c.L)
	c.blockIOFlags(v, k)
	return c.B != 0
}
