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

// Package z80 implements the instruction engine of the machine.
package z80

import (
	"sync/atomic"

	"github.com/andreas-jonsson/virtualz80/emulator/processor"
)

type CPU struct {
	A, F, B, C, D, E, H, L byte

	// Alternate register set, swapped in by EX AF,AF' and EXX.
	A_, F_, B_, C_, D_, E_, H_, L_ byte

	IX, IY, SP, PC uint16
	I, R, IM       byte
	IFF1, IFF2     bool

	halted  bool
	eiDelay bool
	vector  byte
	irq     int32

	// Index register selected by a DD or FD prefix, nil otherwise.
	idx    *uint16
	cycles int

	bus processor.Bus
}

func New(bus processor.Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

func (c *CPU) Reset() {
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = 0xFF, 0xFF, 0, 0, 0, 0, 0, 0
	c.A_, c.F_, c.B_, c.C_, c.D_, c.E_, c.H_, c.L_ = 0, 0, 0, 0, 0, 0, 0, 0
	c.IX, c.IY, c.SP, c.PC = 0, 0, 0xFFFF, 0
	c.I, c.R, c.IM = 0, 0, 0
	c.IFF1, c.IFF2 = false, false
	c.halted, c.eiDelay = false, false
	c.idx = nil
	atomic.StoreInt32(&c.irq, 0)
}

// Step executes one instruction, or acknowledges a pending interrupt, and
// returns the number of T-states used.
func (c *CPU) Step() (int, error) {
	c.cycles = 0

	if !c.eiDelay && atomic.CompareAndSwapInt32(&c.irq, 1, 0) && c.IFF1 {
		c.acceptInterrupt()
		return c.cycles, nil
	}
	c.eiDelay = false

	if c.halted {
		c.cycles = 4
		return c.cycles, nil
	}

	c.idx = nil
	op := c.fetchOpcode()
	for op == 0xDD || op == 0xFD {
		if op == 0xDD {
			c.idx = &c.IX
		} else {
			c.idx = &c.IY
		}
		c.cycles += 4
		op = c.fetchOpcode()
	}
	c.execute(op)
	return c.cycles, nil
}

func (c *CPU) Halted() bool {
	return c.halted
}

// Interrupt requests a maskable interrupt. The request is examined at the
// next instruction boundary and discarded if interrupts are disabled.
func (c *CPU) Interrupt() {
	atomic.StoreInt32(&c.irq, 1)
}

// SetInterruptVector sets the byte placed on the data bus during interrupt
// acknowledge. It is used by IM 0 and IM 2.
func (c *CPU) SetInterruptVector(v byte) {
	c.vector = v
}

func (c *CPU) acceptInterrupt() {
	if c.halted {
		c.halted = false
	}
	c.IFF1, c.IFF2 = false, false
	c.incR()

	switch c.IM {
	case 2:
		addr := uint16(c.I)<<8 | uint16(c.vector)
		c.push(c.PC)
		c.PC = c.read16(addr)
		c.cycles += 19
	case 1:
		c.push(c.PC)
		c.PC = 0x38
		c.cycles += 13
	default:
		// Only RST instructions are meaningful on the data bus in mode 0.
		if c.vector&0xC7 == 0xC7 {
			c.push(c.PC)
			c.PC = uint16(c.vector & 0x38)
			c.cycles += 13
		} else {
			c.cycles += 6
		}
	}
}

func (c *CPU) incR() {
	c.R = (c.R & 0x80) | ((c.R + 1) & 0x7F)
}

func (c *CPU) fetchOpcode() byte {
	op := c.bus.ReadByte(c.PC)
	c.PC++
	c.incR()
	return op
}

func (c *CPU) fetchByte() byte {
	v := c.bus.ReadByte(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) read(addr uint16) byte {
	return c.bus.ReadByte(addr)
}

func (c *CPU) write(addr uint16, v byte) {
	c.bus.WriteByte(addr, v)
}

func (c *CPU) read16(addr uint16) uint16 {
	return uint16(c.read(addr)) | uint16(c.read(addr+1))<<8
}

func (c *CPU) write16(addr, v uint16) {
	c.write(addr, byte(v))
	c.write(addr+1, byte(v>>8))
}

func (c *CPU) push(v uint16) {
	c.SP--
	c.write(c.SP, byte(v>>8))
	c.SP--
	c.write(c.SP, byte(v))
}

func (c *CPU) pop() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }
func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

func (c *CPU) SetAF(v uint16) { c.A, c.F = byte(v>>8), byte(v) }
func (c *CPU) SetBC(v uint16) { c.B, c.C = byte(v>>8), byte(v) }
func (c *CPU) SetDE(v uint16) { c.D, c.E = byte(v>>8), byte(v) }
func (c *CPU) SetHL(v uint16) { c.H, c.L = byte(v>>8), byte(v) }

// hl returns HL, or the index register selected by the current prefix.
func (c *CPU) hl() uint16 {
	if c.idx != nil {
		return *c.idx
	}
	return c.HL()
}

func (c *CPU) setHL(v uint16) {
	if c.idx != nil {
		*c.idx = v
		return
	}
	c.SetHL(v)
}

// memOperand resolves the (HL) operand. With an index prefix the
// displacement byte is fetched and the address is IX+d or IY+d.
func (c *CPU) memOperand() uint16 {
	if c.idx == nil {
		return c.HL()
	}
	d := int8(c.fetchByte())
	c.cycles += 8
	return *c.idx + uint16(d)
}

// reg8 reads register r (B,C,D,E,H,L,-,A). H and L select the index
// register halves when a prefix is active.
func (c *CPU) reg8(r byte) byte {
	switch r {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		if c.idx != nil {
			return byte(*c.idx >> 8)
		}
		return c.H
	case 5:
		if c.idx != nil {
			return byte(*c.idx)
		}
		return c.L
	case 7:
		return c.A
	}
	panic("invalid register")
}

func (c *CPU) setReg8(r, v byte) {
	switch r {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		if c.idx != nil {
			*c.idx = (*c.idx & 0x00FF) | uint16(v)<<8
			return
		}
		c.H = v
	case 5:
		if c.idx != nil {
			*c.idx = (*c.idx & 0xFF00) | uint16(v)
			return
		}
		c.L = v
	case 7:
		c.A = v
	default:
		panic("invalid register")
	}
}

// plainReg8 ignores any index prefix. Used by instructions that already
// take an (IX+d) operand.
func (c *CPU) plainReg8(r byte) byte {
	idx := c.idx
	c.idx = nil
	v := c.reg8(r)
	c.idx = idx
	return v
}

func (c *CPU) setPlainReg8(r, v byte) {
	idx := c.idx
	c.idx = nil
	c.setReg8(r, v)
	c.idx = idx
}

// rp reads register pair p (BC,DE,HL,SP).
func (c *CPU) rp(p byte) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.hl()
	default:
		return c.SP
	}
}

func (c *CPU) setRP(p byte, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.setHL(v)
	default:
		c.SP = v
	}
}

// rp2 is rp with AF in place of SP, used by PUSH and POP.
func (c *CPU) rp2(p byte) uint16 {
	if p == 3 {
		return c.AF()
	}
	return c.rp(p)
}

func (c *CPU) setRP2(p byte, v uint16) {
	if p == 3 {
		c.SetAF(v)
		return
	}
	c.setRP(p, v)
}

func (c *CPU) condition(cc byte) bool {
	switch cc {
	case 0:
		return c.F&flagZ == 0
	case 1:
		return c.F&flagZ != 0
	case 2:
		return c.F&flagC == 0
	case 3:
		return c.F&flagC != 0
	case 4:
		return c.F&flagPV == 0
	case 5:
		return c.F&flagPV != 0
	case 6:
		return c.F&flagS == 0
	default:
		return c.F&flagS != 0
	}
}
