package cpu

// execED handles the ED-prefixed block. Only the two forms this core's
// instruction set produces are implemented: NEG and LDIR.
func (c *CPU) execED(op byte, mem Memory, io IO) error {
	switch op {
	case 0x44: // NEG
		a := c.Reg.A
		c.Reg.A = byte(-int(a))
		c.Reg.Flags.Z = c.Reg.A == 0
		c.Reg.Flags.C = a != 0
		return nil

	case 0xB0: // LDIR
		bc := c.Reg.BC()
		hl := c.Reg.HL()
		de := c.Reg.DE()
		for bc != 0 {
			mem[de] = mem[hl]
			hl++
			de++
			bc--
		}
		c.Reg.SetHL(hl)
		c.Reg.SetDE(de)
		c.Reg.SetBC(bc)
		return nil

	default:
		_ = io
		return &UnknownOpcodeError{Bytes: []byte{0xED, op}, PC: c.Reg.PC}
	}
}
