// Package asm implements the two-pass Z80 assembler driver: it turns
// parsed source lines into per-line opcode vectors plus a load address,
// or a list of errors if any line fails.
package asm

import "fmt"

// InstructionDetail is the per-source-line record the driver produces.
// Valid is false only for lines skipped entirely (those after an END
// directive); every other line, including blank and comment lines, gets
// a record with its location-counter-at-the-time and verbatim source.
type InstructionDetail struct {
	LineNumber   int
	StartAddress int
	Valid        bool
	Source       string
	Opcodes      []byte
}

// AssembleError is one line-level failure collected during either pass.
type AssembleError struct {
	Line    int
	Address int
	Message string
}

func (e *AssembleError) Error() string {
	return fmt.Sprintf("line %d (addr 0x%04X): %s", e.Line, e.Address, e.Message)
}

// Result is the outcome of assembling a source buffer: either success
// with a load address and full InstructionDetail list, or failure with
// the accumulated error list. Details and Symbols are nil on failure.
type Result struct {
	Success     bool
	LoadAddress int
	Details     []*InstructionDetail
	Symbols     map[string]int64 // uppercased label/EQU name -> value
	Errors      []*AssembleError
}
