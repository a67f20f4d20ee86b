package cpu

// execIrregular handles every primary opcode outside the two regular
// blocks (LD r,r' and ALU A,r) already dispatched in Step.
func (c *CPU) execIrregular(op byte, mem Memory, io IO) error {
	switch op {
	case 0x00: // NOP

	case 0x01:
		v, pc := fetch16(mem, c.Reg.PC)
		c.Reg.PC = pc
		c.Reg.SetBC(v)
	case 0x11:
		v, pc := fetch16(mem, c.Reg.PC)
		c.Reg.PC = pc
		c.Reg.SetDE(v)
	case 0x21:
		v, pc := fetch16(mem, c.Reg.PC)
		c.Reg.PC = pc
		c.Reg.SetHL(v)
	case 0x31:
		v, pc := fetch16(mem, c.Reg.PC)
		c.Reg.PC = pc
		c.Reg.SP = v

	case 0x03:
		c.Reg.SetBC(c.Reg.BC() + 1)
	case 0x13:
		c.Reg.SetDE(c.Reg.DE() + 1)
	case 0x23:
		c.Reg.SetHL(c.Reg.HL() + 1)
	case 0x33:
		c.Reg.SP++
	case 0x0B:
		c.Reg.SetBC(c.Reg.BC() - 1)
	case 0x1B:
		c.Reg.SetDE(c.Reg.DE() - 1)
	case 0x2B:
		c.Reg.SetHL(c.Reg.HL() - 1)
	case 0x3B:
		c.Reg.SP--

	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C:
		idx := (op - 0x04) / 8
		v := c.readReg8(idx, mem) + 1
		c.writeReg8(idx, v, mem)
		c.Reg.Flags.Z = v == 0
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D:
		idx := (op - 0x05) / 8
		v := c.readReg8(idx, mem) - 1
		c.writeReg8(idx, v, mem)
		c.Reg.Flags.Z = v == 0

	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E:
		idx := (op - 0x06) / 8
		n, pc := fetch8(mem, c.Reg.PC)
		c.Reg.PC = pc
		c.writeReg8(idx, n, mem)

	case 0x07: // RLCA
		carryOut := c.Reg.A >> 7
		c.Reg.A = c.Reg.A<<1 | carryOut
		c.Reg.Flags.C = carryOut == 1
	case 0x0F: // RRCA
		carryOut := c.Reg.A & 1
		c.Reg.A = c.Reg.A>>1 | carryOut<<7
		c.Reg.Flags.C = carryOut == 1
	case 0x17: // RLA
		var carryIn byte
		if c.Reg.Flags.C {
			carryIn = 1
		}
		carryOut := c.Reg.A >> 7
		c.Reg.A = c.Reg.A<<1 | carryIn
		c.Reg.Flags.C = carryOut == 1
	case 0x1F: // RRA
		var carryIn byte
		if c.Reg.Flags.C {
			carryIn = 1
		}
		carryOut := c.Reg.A & 1
		c.Reg.A = c.Reg.A>>1 | carryIn<<7
		c.Reg.Flags.C = carryOut == 1

	case 0x08: // EX AF,AF'
		c.Reg.A, c.Reg.ShadowA = c.Reg.ShadowA, c.Reg.A
		c.Reg.Flags, c.Reg.ShadowFlags = c.Reg.ShadowFlags, c.Reg.Flags

	case 0x09:
		c.addHL(c.Reg.BC())
	case 0x19:
		c.addHL(c.Reg.DE())
	case 0x29:
		c.addHL(c.Reg.HL())
	case 0x39:
		c.addHL(c.Reg.SP)

	case 0x18: // JR e
		e, pc := fetch8(mem, c.Reg.PC)
		c.Reg.PC = pc
		c.Reg.PC = uint16(int(c.Reg.PC) + signedOffset(e))
	case 0x10: // DJNZ e
		e, pc := fetch8(mem, c.Reg.PC)
		c.Reg.PC = pc
		c.Reg.B--
		if c.Reg.B != 0 {
			c.Reg.PC = uint16(int(c.Reg.PC) + signedOffset(e))
		}

	case 0x22:
		addr, pc := fetch16(mem, c.Reg.PC)
		c.Reg.PC = pc
		mem[addr] = c.Reg.L
		mem[addr+1] = c.Reg.H
	case 0x2A:
		addr, pc := fetch16(mem, c.Reg.PC)
		c.Reg.PC = pc
		c.Reg.L = mem[addr]
		c.Reg.H = mem[addr+1]
	case 0x32:
		addr, pc := fetch16(mem, c.Reg.PC)
		c.Reg.PC = pc
		mem[addr] = c.Reg.A
	case 0x3A:
		addr, pc := fetch16(mem, c.Reg.PC)
		c.Reg.PC = pc
		c.Reg.A = mem[addr]

	case 0x2F: // CPL
		c.Reg.A = ^c.Reg.A
	case 0x37: // SCF
		c.Reg.Flags.C = true
	case 0x3F: // CCF
		c.Reg.Flags.C = !c.Reg.Flags.C

	case 0xC0, 0xC8, 0xD0, 0xD8:
		cc := (op - 0xC0) / 8
		if condTrue(cc, c.Reg.Flags) {
			c.Reg.PC = c.pop16(mem)
		}
	case 0xC9:
		c.Reg.PC = c.pop16(mem)

	case 0xC1:
		c.Reg.SetBC(c.pop16(mem))
	case 0xD1:
		c.Reg.SetDE(c.pop16(mem))
	case 0xE1:
		c.Reg.SetHL(c.pop16(mem))
	case 0xF1:
		c.popAF(mem)

	case 0xC5:
		c.push16(mem, c.Reg.BC())
	case 0xD5:
		c.push16(mem, c.Reg.DE())
	case 0xE5:
		c.push16(mem, c.Reg.HL())
	case 0xF5:
		c.push16(mem, c.pushAFValue())

	case 0xC3: // JP nn
		addr, pc := fetch16(mem, c.Reg.PC)
		c.Reg.PC = addr
		_ = pc
	case 0xE9: // JP (HL)
		c.Reg.PC = c.Reg.HL()

	case 0xC4, 0xCC, 0xD4, 0xDC:
		cc := (op - 0xC4) / 8
		addr, pc := fetch16(mem, c.Reg.PC)
		c.Reg.PC = pc
		if condTrue(cc, c.Reg.Flags) {
			c.push16(mem, c.Reg.PC)
			c.Reg.PC = addr
		}
	case 0xCD:
		addr, pc := fetch16(mem, c.Reg.PC)
		c.Reg.PC = pc
		c.push16(mem, c.Reg.PC)
		c.Reg.PC = addr

	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE:
		n, pc := fetch8(mem, c.Reg.PC)
		c.Reg.PC = pc
		c.alu((op-0xC6)/8, n)

	case 0xD3: // OUT (n),A
		n, pc := fetch8(mem, c.Reg.PC)
		c.Reg.PC = pc
		io[n] = c.Reg.A
	case 0xDB: // IN A,(n)
		n, pc := fetch8(mem, c.Reg.PC)
		c.Reg.PC = pc
		c.Reg.A = io[n]

	case 0xE3: // EX (SP),HL
		sp := c.Reg.SP
		lo, hi := mem[sp], mem[sp+1]
		mem[sp], mem[sp+1] = c.Reg.L, c.Reg.H
		c.Reg.L, c.Reg.H = lo, hi
	case 0xEB: // EX DE,HL
		c.Reg.D, c.Reg.H = c.Reg.H, c.Reg.D
		c.Reg.E, c.Reg.L = c.Reg.L, c.Reg.E

	default:
		return &UnknownOpcodeError{Bytes: []byte{op}, PC: c.Reg.PC}
	}
	return nil
}

func (c *CPU) pushAFValue() uint16 {
	var f byte
	if c.Reg.Flags.Z {
		f |= 0x40
	}
	if c.Reg.Flags.C {
		f |= 0x01
	}
	return uint16(c.Reg.A)<<8 | uint16(f)
}

func (c *CPU) popAF(mem Memory) {
	v := c.pop16(mem)
	c.Reg.A = byte(v >> 8)
	f := byte(v)
	c.Reg.Flags.Z = f&0x40 != 0
	c.Reg.Flags.C = f&0x01 != 0
}
