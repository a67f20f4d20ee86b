package loader

import (
	"testing"

	"github.com/hcornflower/z80toolchain/asm"
)

func TestLoadWritesOpcodesAtStartAddress(t *testing.T) {
	mem := new([65536]byte)
	details := []*asm.InstructionDetail{
		{LineNumber: 1, StartAddress: 0x1000, Valid: true, Opcodes: []byte{0x3E, 0xFF}},
		{LineNumber: 2, StartAddress: 0x2000, Valid: true, Opcodes: nil},
	}
	if err := Load(details, mem); err != nil {
		t.Fatal(err)
	}
	if mem[0x1000] != 0x3E || mem[0x1001] != 0xFF {
		t.Errorf("mem[0x1000:0x1002] = % x, want 3e ff", mem[0x1000:0x1002])
	}
}

func TestLoadRejectsOutOfBounds(t *testing.T) {
	mem := new([65536]byte)
	details := []*asm.InstructionDetail{
		{LineNumber: 1, StartAddress: 0xFFFF, Valid: true, Opcodes: []byte{0x01, 0x02, 0x03}},
	}
	if err := Load(details, mem); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}
