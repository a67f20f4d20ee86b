package tui

import (
	"testing"

	"github.com/hcornflower/z80toolchain/asm"
)

func assembleOK(t *testing.T, src string) *asm.Result {
	t.Helper()
	r := asm.New().Assemble(src)
	if !r.Success {
		t.Fatalf("assembly failed: %v", r.Errors)
	}
	return r
}

func TestNewSessionLoadsAndResetsCPU(t *testing.T) {
	r := assembleOK(t, "ORG 0x8000\nLD A,0xFF\nHALT\n")
	s, err := NewSession(r, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.CPU.Reg.PC != 0x8000 {
		t.Errorf("PC = 0x%X, want 0x8000", s.CPU.Reg.PC)
	}
	if s.Memory[0x8000] != 0x3E {
		t.Errorf("mem[0x8000] = 0x%02X, want 0x3E", s.Memory[0x8000])
	}
}

func TestSessionStepAndHalt(t *testing.T) {
	r := assembleOK(t, "ORG 0x8000\nLD A,0xFF\nHALT\n")
	s, err := NewSession(r, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if s.CPU.Reg.A != 0xFF {
		t.Errorf("A = 0x%02X, want 0xFF", s.CPU.Reg.A)
	}
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if !s.Halted {
		t.Error("expected CPU to be halted after HALT")
	}
}

func TestSessionBreakpointStopsRun(t *testing.T) {
	r := assembleOK(t, "ORG 0x8000\nLD A,1\nLD A,2\nLD A,3\nHALT\n")
	s, err := NewSession(r, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Breakpoints = append(s.Breakpoints, Breakpoint{Expr: "a == 2"})
	executed, err := s.Run(10)
	if err != nil {
		t.Fatal(err)
	}
	if s.CPU.Reg.A != 2 {
		t.Errorf("A = %d, want 2 (breakpoint should stop before third LD)", s.CPU.Reg.A)
	}
	if executed != 2 {
		t.Errorf("executed = %d, want 2", executed)
	}
}

func TestExecuteCommandStepAndWatch(t *testing.T) {
	r := assembleOK(t, "ORG 0x8000\nLD A,0x10\nHALT\n")
	s, err := NewSession(r, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ExecuteCommand("watch a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ExecuteCommand("step"); err != nil {
		t.Fatal(err)
	}
	watches := s.WatchValues()
	if len(watches) != 1 {
		t.Fatalf("got %d watch values, want 1", len(watches))
	}
}

func TestExecuteCommandUnknown(t *testing.T) {
	r := assembleOK(t, "ORG 0x8000\nNOP\n")
	s, err := NewSession(r, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ExecuteCommand("frobnicate"); err == nil {
		t.Error("expected error for unknown command")
	}
}
