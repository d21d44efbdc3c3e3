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

// execute runs an unprefixed opcode, or a DD/FD prefixed one when c.idx is set.
// Opcodes are decoded from their x, y, z, p and q bit fields.
func (c *CPU) execute(op byte) {
	x, y, z := op>>6, (op>>3)&7, op&7
	p, q := y>>1, y&1

	switch x {
	case 0:
		c.executeX0(y, z, p, q)
	case 1:
		if y == 6 && z == 6 { // HALT
			c.halted = true
			c.cycles += 4
			return
		}
		switch {
		case y == 6:
			addr := c.memOperand()
			c.write(addr, c.plainReg8(z))
			c.cycles += 7
		case z == 6:
			addr := c.memOperand()
			c.setPlainReg8(y, c.read(addr))
			c.cycles += 7
		default:
			c.setReg8(y, c.reg8(z))
			c.cycles += 4
		}
	case 2:
		if z == 6 {
			c.alu(y, c.read(c.memOperand()))
			c.cycles += 7
		} else {
			c.alu(y, c.reg8(z))
			c.cycles += 4
		}
	case 3:
		c.executeX3(y, z, p, q)
	}
}

func (c *CPU) executeX0(y, z, p, q byte) {
	switch z {
	case 0:
		switch y {
		case 0: // NOP
			c.cycles += 4
		case 1: // EX AF,AF'
			c.A, c.A_ = c.A_, c.A
			c.F, c.F_ = c.F_, c.F
			c.cycles += 4
		case 2: // DJNZ d
			d := int8(c.fetchByte())
			c.B--
			if c.B != 0 {
				c.PC += uint16(d)
				c.cycles += 13
			} else {
				c.cycles += 8
			}
		case 3: // JR d
			d := int8(c.fetchByte())
			c.PC += uint16(d)
			c.cycles += 12
		default: // JR cc,d
			d := int8(c.fetchByte())
			if c.condition(y - 4) {
				c.PC += uint16(d)
				c.cycles += 12
			} else {
				c.cycles += 7
			}
		}
	case 1:
		if q == 0 { // LD rp,nn
			c.setRP(p, c.fetchWord())
			c.cycles += 10
		} else { // ADD HL,rp
			c.setHL(c.add16(c.hl(), c.rp(p)))
			c.cycles += 11
		}
	case 2:
		switch p<<1 | q {
		case 0: // LD (BC),A
			c.write(c.BC(), c.A)
			c.cycles += 7
		case 1: // LD A,(BC)
			c.A = c.read(c.BC())
			c.cycles += 7
		case 2: // LD (DE),A
			c.write(c.DE(), c.A)
			c.cycles += 7
		case 3: // LD A,(DE)
			c.A = c.read(c.DE())
			c.cycles += 7
		case 4: // LD (nn),HL
			c.write16(c.fetchWord(), c.hl())
			c.cycles += 16
		case 5: // LD HL,(nn)
			c.setHL(c.read16(c.fetchWord()))
			c.cycles += 16
		case 6: // LD (nn),A
			c.write(c.fetchWord(), c.A)
			c.cycles += 13
		case 7: // LD A,(nn)
			c.A = c.read(c.fetchWord())
			c.cycles += 13
		}
	case 3:
		if q == 0 {
			c.setRP(p, c.rp(p)+1)
		} else {
			c.setRP(p, c.rp(p)-1)
		}
		c.cycles += 6
	case 4, 5:
		inc := func(v byte) byte {
			if z == 4 {
				return c.inc8(v)
			}
			return c.dec8(v)
		}
		if y == 6 {
			addr := c.memOperand()
			c.write(addr, inc(c.read(addr)))
			c.cycles += 11
		} else {
			c.setReg8(y, inc(c.reg8(y)))
			c.cycles += 4
		}
	case 6:
		if y == 6 { // LD (HL),n
			addr := c.memOperand()
			c.write(addr, c.fetchByte())
			c.cycles += 10
			if c.idx != nil {
				c.cycles -= 3
			}
		} else {
			c.setReg8(y, c.fetchByte())
			c.cycles += 7
		}
	case 7:
		switch y {
		case 4:
			c.daa()
		case 5: // CPL
			c.A = ^c.A
			c.F = c.F&(flagS|flagZ|flagPV|flagC) | flagH | flagN | c.A&(flagX|flagY)
		case 6: // SCF
			c.F = c.F&(flagS|flagZ|flagPV) | flagC | c.A&(flagX|flagY)
		case 7: // CCF
			f := c.F&(flagS|flagZ|flagPV) | c.A&(flagX|flagY)
			if c.F&flagC != 0 {
				f |= flagH
			} else {
				f |= flagC
			}
			c.F = f
		default:
			c.accRotate(y)
		}
		c.cycles += 4
	}
}

func (c *CPU) executeX3(y, z, p, q byte) {
	switch z {
	case 0: // RET cc
		if c.condition(y) {
			c.PC = c.pop()
			c.cycles += 11
		} else {
			c.cycles += 5
		}
	case 1:
		if q == 0 { // POP rp2
			c.setRP2(p, c.pop())
			c.cycles += 10
			return
		}
		switch p {
		case 0: // RET
			c.PC = c.pop()
			c.cycles += 10
		case 1: // EXX
			c.B, c.B_ = c.B_, c.B
			c.C, c.C_ = c.C_, c.C
			c.D, c.D_ = c.D_, c.D
			c.E, c.E_ = c.E_, c.E
			c.H, c.H_ = c.H_, c.H
			c.L, c.L_ = c.L_, c.L
			c.cycles += 4
		case 2: // JP (HL)
			c.PC = c.hl()
			c.cycles += 4
		case 3: // LD SP,HL
			c.SP = c.hl()
			c.cycles += 6
		}
	case 2: // JP cc,nn
		addr := c.fetchWord()
		if c.condition(y) {
			c.PC = addr
		}
		c.cycles += 10
	case 3:
		switch y {
		case 0: // JP nn
			c.PC = c.fetchWord()
			c.cycles += 10
		case 1:
			if c.idx != nil {
				c.executeIndexedCB()
			} else {
				c.executeCB()
			}
		case 2: // OUT (n),A
			port := uint16(c.A)<<8 | uint16(c.fetchByte())
			c.bus.OutByte(port, c.A)
			c.cycles += 11
		case 3: // IN A,(n)
			port := uint16(c.A)<<8 | uint16(c.fetchByte())
			c.A = c.bus.InByte(port)
			c.cycles += 11
		case 4: // EX (SP),HL
			v := c.read16(c.SP)
			c.write16(c.SP, c.hl())
			c.setHL(v)
			c.cycles += 19
		case 5: // EX DE,HL
			d, e := c.D, c.E
			c.D, c.E = c.H, c.L
			c.H, c.L = d, e
			c.cycles += 4
		case 6: // DI
			c.IFF1, c.IFF2 = false, false
			c.cycles += 4
		case 7: // EI
			c.IFF1, c.IFF2 = true, true
			c.eiDelay = true
			c.cycles += 4
		}
	case 4: // CALL cc,nn
		addr := c.fetchWord()
		if c.condition(y) {
			c.push(c.PC)
			c.PC = addr
			c.cycles += 17
		} else {
			c.cycles += 10
		}
	case 5:
		if q == 0 { // PUSH rp2
			c.push(c.rp2(p))
			c.cycles += 11
			return
		}
		switch p {
		case 0: // CALL nn
			addr := c.fetchWord()
			c.push(c.PC)
			c.PC = addr
			c.cycles += 17
		case 2:
			c.idx = nil
			c.executeED()
		default:
			// DD and FD never reach here, Step consumes them as prefixes.
			c.cycles += 4
		}
	case 6: // ALU A,n
		c.alu(y, c.fetchByte())
		c.cycles += 7
	case 7: // RST
		c.push(c.PC)
		c.PC = uint16(y) << 3
		c.cycles += 11
	}
}
