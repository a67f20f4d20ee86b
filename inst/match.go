package inst

import (
	"fmt"
	"strings"

	"github.com/hcornflower/z80toolchain/asmlex"
)

// Match is a successful pairing of a catalog row against a concrete operand
// list, ready for byte emission by the assembler driver.
type Match struct {
	Def      *Definition
	Operands []string // the full raw operand list, one entry per pattern slot
}

// Encode returns the kinds of the non-literal slots (IMM8/IMM16/MEM8/
// MEM16/RELATIVE/STRING) in pattern order; it does not return the
// operand strings themselves.
func (m *Match) Encode() []SlotKind {
	kinds := make([]SlotKind, 0, len(m.Operands))
	for _, s := range m.Def.Pattern {
		if s.Kind != SlotLiteral {
			kinds = append(kinds, s.Kind)
		}
	}
	return kinds
}

// ErrNoMatch reports that no catalog row matched mnemonic against operands.
type ErrNoMatch struct {
	Mnemonic string
	Operands []string
}

func (e *ErrNoMatch) Error() string {
	return fmt.Sprintf("no instruction form %s %s", e.Mnemonic, strings.Join(e.Operands, ","))
}

// FindMatch implements the instruction match algorithm: look up the
// mnemonic's candidate rows (already sorted, no-generic-slot rows first),
// and return the first whose pattern fully matches operands. Operand count
// must match exactly; each non-literal slot is checked by kind, and each
// literal slot by case-insensitive equality.
func (c *Catalog) FindMatch(mnemonic string, operands []string) (*Match, error) {
	mnemonic = strings.ToUpper(mnemonic)
	for _, def := range c.Candidates(mnemonic) {
		if len(def.Pattern) != len(operands) {
			continue
		}
		if matchPattern(def.Pattern, operands) {
			return &Match{Def: def, Operands: operands}, nil
		}
	}
	return nil, &ErrNoMatch{Mnemonic: mnemonic, Operands: operands}
}

func matchPattern(pattern []Slot, operands []string) bool {
	for i, slot := range pattern {
		if !matchSlot(slot, strings.TrimSpace(operands[i])) {
			return false
		}
	}
	return true
}

func matchSlot(slot Slot, operand string) bool {
	switch slot.Kind {
	case SlotLiteral:
		return strings.EqualFold(slot.Literal, operand)
	case SlotMem8, SlotMem16:
		return asmlex.IsMemoryReference(operand)
	case SlotImm8, SlotImm16, SlotRelative:
		return !asmlex.IsMemoryReference(operand)
	case SlotString:
		return len(operand) >= 2 && operand[0] == '"' && operand[len(operand)-1] == '"'
	default:
		return false
	}
}
