// Package loader implements the one bridge between the assembler and the
// CPU core: copying each InstructionDetail's opcode bytes into memory at
// its start address.
package loader

import (
	"fmt"

	"github.com/hcornflower/z80toolchain/asm"
)

// Load writes every non-empty opcode list in details into mem at its
// startAddress, per the loader contract: memory[startAddress+i] ←
// opcodes[i] for each entry with non-empty opcodes. Returns an error
// instead of panicking if any entry's bytes would fall outside 0..0xFFFF.
func Load(details []*asm.InstructionDetail, mem *[65536]byte) error {
	for _, d := range details {
		if d == nil || !d.Valid || len(d.Opcodes) == 0 {
			continue
		}
		end := d.StartAddress + len(d.Opcodes)
		if d.StartAddress < 0 || end > 0x10000 {
			return fmt.Errorf("line %d: opcodes at 0x%04X..0x%04X fall outside addressable memory",
				d.LineNumber, d.StartAddress, end-1)
		}
		copy(mem[d.StartAddress:end], d.Opcodes)
	}
	return nil
}
