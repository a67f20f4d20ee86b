package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCPU() (*CPU, Memory, IO) {
	c := New()
	mem := new([65536]byte)
	io := new([256]byte)
	return c, mem, io
}

func TestStepNop(t *testing.T) {
	c, mem, io := newTestCPU()
	mem[0] = 0x00
	if err := c.Step(mem, io); err != nil {
		t.Fatal(err)
	}
	if c.Reg.PC != 1 {
		t.Errorf("PC = %d, want 1", c.Reg.PC)
	}
}

func TestStepLdAAndStore(t *testing.T) {
	c, mem, io := newTestCPU()
	prog := []byte{0x3E, 0xFF, 0x32, 0x34, 0x12}
	copy(mem[:], prog)
	for i := 0; i < 2; i++ {
		if err := c.Step(mem, io); err != nil {
			t.Fatal(err)
		}
	}
	if c.Reg.A != 0xFF {
		t.Errorf("A = 0x%02X, want 0xFF", c.Reg.A)
	}
	if mem[0x1234] != 0xFF {
		t.Errorf("mem[0x1234] = 0x%02X, want 0xFF", mem[0x1234])
	}
	if c.Reg.PC != 5 {
		t.Errorf("PC = %d, want 5", c.Reg.PC)
	}
}

func TestStepIncSetsZero(t *testing.T) {
	c, mem, io := newTestCPU()
	prog := []byte{0x3E, 0xFF, 0x3C} // LD A,0xFF / INC A
	copy(mem[:], prog)
	for i := 0; i < 2; i++ {
		if err := c.Step(mem, io); err != nil {
			t.Fatal(err)
		}
	}
	if c.Reg.A != 0x00 || !c.Reg.Flags.Z {
		t.Errorf("A=0x%02X Z=%v, want A=0 Z=true", c.Reg.A, c.Reg.Flags.Z)
	}
}

func TestRotateFlagInconsistency(t *testing.T) {
	// RLCA preserves Z; CB-prefixed RLC A updates it.
	c, mem, io := newTestCPU()
	c.Reg.Flags.Z = true
	mem[0] = 0x07 // RLCA
	if err := c.Step(mem, io); err != nil {
		t.Fatal(err)
	}
	if !c.Reg.Flags.Z {
		t.Error("RLCA must preserve Z")
	}

	c2, mem2, io2 := newTestCPU()
	c2.Reg.A = 0
	c2.Reg.Flags.Z = false
	mem2[0] = 0xCB
	mem2[1] = 0x07 // RLC A
	if err := c2.Step(mem2, io2); err != nil {
		t.Fatal(err)
	}
	if !c2.Reg.Flags.Z {
		t.Error("RLC A (CB-prefixed) must set Z when result is zero")
	}
}

func TestLdirForwardOverlap(t *testing.T) {
	c, mem, io := newTestCPU()
	mem[0x1242] = 0xFF
	mem[0x1243] = 0x80
	mem[0x1244] = 0x7F
	c.Reg.SetDE(0x1243)
	c.Reg.SetHL(0x1242)
	c.Reg.SetBC(2)
	mem[0] = 0xED
	mem[1] = 0xB0
	if err := c.Step(mem, io); err != nil {
		t.Fatal(err)
	}
	want := []byte{0xFF, 0xFF, 0xFF}
	for i, w := range want {
		if got := mem[0x1242+i]; got != w {
			t.Errorf("mem[0x%04X] = 0x%02X, want 0x%02X", 0x1242+i, got, w)
		}
	}
}

func TestPushPopAF(t *testing.T) {
	c, mem, io := newTestCPU()
	c.Reg.A = 0x42
	c.Reg.Flags.Z = true
	c.Reg.Flags.C = true
	c.Reg.SP = 0xFFFF
	mem[0] = 0xF5 // PUSH AF
	require.NoError(t, c.Step(mem, io))
	require.Equal(t, uint16(0xFFFD), c.Reg.SP, "PUSH must decrement SP by 2")

	c.Reg.A = 0
	c.Reg.Flags = Flags{}
	mem[1] = 0xF1 // POP AF
	require.NoError(t, c.Step(mem, io))
	require.Equal(t, uint16(0xFFFF), c.Reg.SP, "POP must restore SP")
	require.Equal(t, byte(0x42), c.Reg.A)
	require.True(t, c.Reg.Flags.Z)
	require.True(t, c.Reg.Flags.C)
}

func TestStackPointerWrapsAtBoundary(t *testing.T) {
	// The Z80 stack has no segment bounds: SP wraps mod 2^16. PUSH at
	// SP=0x0001 must wrap down through 0x0000 rather than erroring.
	c, mem, io := newTestCPU()
	c.Reg.A = 0x7E
	c.Reg.SP = 0x0001
	mem[0] = 0xF5 // PUSH AF
	require.NoError(t, c.Step(mem, io))
	require.Equal(t, uint16(0xFFFF), c.Reg.SP, "SP must wrap mod 65536 on underflow")

	c.Reg.A = 0
	mem[1] = 0xF1 // POP AF
	require.NoError(t, c.Step(mem, io))
	require.Equal(t, uint16(0x0001), c.Reg.SP, "POP must wrap SP back to its pre-PUSH value")
	require.Equal(t, byte(0x7E), c.Reg.A)
}

func TestCallAndRet(t *testing.T) {
	c, mem, io := newTestCPU()
	c.Reg.SP = 0xFFFF
	mem[0] = 0xCD // CALL 0x0010
	mem[1] = 0x10
	mem[2] = 0x00
	mem[0x10] = 0xC9 // RET
	require.NoError(t, c.Step(mem, io))
	require.Equal(t, uint16(0x10), c.Reg.PC, "PC after CALL")
	require.Equal(t, uint16(0xFFFD), c.Reg.SP, "CALL must push the return address")

	require.NoError(t, c.Step(mem, io))
	require.Equal(t, uint16(3), c.Reg.PC, "PC after RET")
	require.Equal(t, uint16(0xFFFF), c.Reg.SP, "RET must pop the return address")
}

func TestUnknownOpcode(t *testing.T) {
	c, mem, io := newTestCPU()
	mem[0] = 0xED
	mem[1] = 0xFF // not NEG or LDIR
	err := c.Step(mem, io)
	if err == nil {
		t.Fatal("expected unknown opcode error")
	}
	if c.Reg.PC != 2 {
		t.Errorf("PC = %d, want 2 (advanced past offending bytes)", c.Reg.PC)
	}
}

func TestHaltStopsAdvancing(t *testing.T) {
	c, mem, io := newTestCPU()
	mem[0] = 0x76 // HALT
	mem[1] = 0x00
	if err := c.Step(mem, io); err != nil {
		t.Fatal(err)
	}
	if !c.Reg.Halted {
		t.Fatal("expected halted")
	}
	if err := c.Step(mem, io); err != nil {
		t.Fatal(err)
	}
	if c.Reg.PC != 1 {
		t.Errorf("PC advanced past HALT: %d", c.Reg.PC)
	}
}
