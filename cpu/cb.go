package cpu

// execCB handles the CB-prefixed rotate/shift/BIT/SET/RES block. The
// register-index encoding (dst=r&7) is the same B,C,D,E,H,L,(HL),A
// ordering used by the primary LD/ALU blocks.
func (c *CPU) execCB(op byte, mem Memory) error {
	group := op >> 6
	r := op & 7

	if group == 1 { // BIT b,r
		bit := (op >> 3) & 7
		v := c.readReg8(r, mem)
		c.Reg.Flags.Z = v&(1<<bit) == 0
		return nil
	}
	if group == 2 { // RES b,r
		bit := (op >> 3) & 7
		v := c.readReg8(r, mem)
		c.writeReg8(r, v&^(1<<bit), mem)
		return nil
	}
	if group == 3 { // SET b,r
		bit := (op >> 3) & 7
		v := c.readReg8(r, mem)
		c.writeReg8(r, v|(1<<bit), mem)
		return nil
	}

	// group == 0: rotate/shift, selected by (op>>3)&7.
	rotOp := (op >> 3) & 7
	v := c.readReg8(r, mem)
	var result byte
	var carryOut byte

	switch rotOp {
	case 0: // RLC
		carryOut = v >> 7
		result = v<<1 | carryOut
	case 1: // RRC
		carryOut = v & 1
		result = v>>1 | carryOut<<7
	case 2: // RL
		var carryIn byte
		if c.Reg.Flags.C {
			carryIn = 1
		}
		carryOut = v >> 7
		result = v<<1 | carryIn
	case 3: // RR
		var carryIn byte
		if c.Reg.Flags.C {
			carryIn = 1
		}
		carryOut = v & 1
		result = v>>1 | carryIn<<7
	case 4: // SLA
		carryOut = v >> 7
		result = v << 1
	case 5: // SRA
		carryOut = v & 1
		result = v>>1 | (v & 0x80)
	case 6: // undocumented SLL — not part of this core's instruction set
		return &UnknownOpcodeError{Bytes: []byte{0xCB, op}, PC: c.Reg.PC}
	default: // SRL
		carryOut = v & 1
		result = v >> 1
	}

	c.writeReg8(r, result, mem)
	c.Reg.Flags.Z = result == 0
	c.Reg.Flags.C = carryOut == 1
	return nil
}
