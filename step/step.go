// Package step implements the Step Driver: it runs a CPU for up to N
// instructions, stopping early on halt or error, and returns a
// deep-copied snapshot the caller can diff without racing further steps.
package step

import (
	"fmt"

	"github.com/hcornflower/z80toolchain/cpu"
)

// Result is produced by Run. Registers is a value copy of the CPU's
// register file at the moment Run stopped.
type Result struct {
	InstructionsExecuted int
	Halted               bool
	Registers            cpu.Snapshot
	Error                string
}

// Run steps c up to n times over mem/io, stopping as soon as the CPU
// halts or a step returns an error. A panic escaping Step (there should
// be none in normal operation) is recovered and reported the same way
// the spec asks CPU-thrown exceptions to be surfaced.
func Run(c *cpu.CPU, mem cpu.Memory, io cpu.IO, n int) (result *Result) {
	result = &Result{}
	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Sprintf("CPU Exception: %v", r)
			result.Registers = c.Reg.Capture()
			result.Halted = c.Reg.Halted
		}
	}()

	c.Reg.Halted = false

	for i := 0; i < n; i++ {
		if c.Reg.Halted {
			break
		}
		if err := c.Step(mem, io); err != nil {
			result.Error = err.Error()
			result.InstructionsExecuted = i + 1
			break
		}
		result.InstructionsExecuted = i + 1
	}

	result.Halted = c.Reg.Halted
	result.Registers = c.Reg.Capture()
	return result
}
