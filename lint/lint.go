// Package lint analyzes an assembled program for likely mistakes that
// don't prevent assembly: unreferenced labels, unreferenced EQU
// constants, and labels that shadow a mnemonic or register name. It
// never fails assembly — it only returns warnings.
package lint

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hcornflower/z80toolchain/asm"
	"github.com/hcornflower/z80toolchain/asmlex"
)

// Level is the severity of a lint finding.
type Level int

const (
	LintWarning Level = iota
	LintInfo
)

func (l Level) String() string {
	switch l {
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Issue is a single lint finding.
type Issue struct {
	Level   Level
	Line    int
	Message string
	Code string // "UNUSED_LABEL", "UNUSED_EQU", "SHADOW_NAME"
}

func (i *Issue) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", i.Line, i.Level, i.Message, i.Code)
}

var reservedNames = map[string]bool{
	"A": true, "B": true, "C": true, "D": true, "E": true, "H": true, "L": true,
	"AF": true, "BC": true, "DE": true, "HL": true, "SP": true, "PC": true,
	"NOP": true, "HALT": true, "LD": true, "ADD": true, "ADC": true, "SUB": true, "SBC": true,
	"AND": true, "OR": true, "XOR": true, "CP": true, "INC": true, "DEC": true,
	"JP": true, "JR": true, "CALL": true, "RET": true, "PUSH": true, "POP": true,
	"DJNZ": true, "EX": true, "RLCA": true, "RLA": true, "RRCA": true, "RRA": true,
	"SCF": true, "CCF": true, "CPL": true, "NEG": true, "IN": true, "OUT": true,
	"LDIR": true, "BIT": true, "SET": true, "RES": true, "NZ": true, "Z": true,
	"NC": true, "ORG": true, "EQU": true, "END": true, "DB": true, "DEFB": true,
	"DEFW": true, "DEFS": true,
}

// Lint parses source itself (independently of how it was assembled) to
// recover label/EQU definitions and operand references, and reports
// every finding described in the package comment. It takes the raw
// source text rather than an *asm.Result because a program with
// assembly errors can still be linted.
func Lint(source string) []*Issue {
	var issues []*Issue

	definedLabels := make(map[string]int)  // label -> first defining line
	definedEqus := make(map[string]int)    // EQU constant -> defining line
	referenced := make(map[string]bool)    // any name appearing as an operand token

	lines := strings.Split(source, "\n")
	var parsed []*asmlex.ParsedLine
	for i, text := range lines {
		pl, err := asmlex.ParseLine(i+1, text)
		if err != nil {
			continue
		}
		parsed = append(parsed, pl)
	}

	for _, pl := range parsed {
		if pl.Label == "" {
			continue
		}
		name := strings.ToUpper(pl.Label)
		if reservedNames[name] {
			issues = append(issues, &Issue{
				Level:   LintWarning,
				Line:    pl.LineNumber,
				Message: fmt.Sprintf("label %q shadows a mnemonic or register name", pl.Label),
				Code:    "SHADOW_NAME",
			})
		}
		if strings.ToUpper(pl.Mnemonic) == "EQU" {
			if _, exists := definedEqus[name]; !exists {
				definedEqus[name] = pl.LineNumber
			}
		} else {
			if _, exists := definedLabels[name]; !exists {
				definedLabels[name] = pl.LineNumber
			}
		}
	}

	for _, pl := range parsed {
		for _, operand := range pl.Operands {
			for _, tok := range tokenizeOperand(operand) {
				referenced[strings.ToUpper(tok)] = true
			}
		}
	}

	for name, line := range definedLabels {
		if !referenced[name] {
			issues = append(issues, &Issue{
				Level:   LintWarning,
				Line:    line,
				Message: fmt.Sprintf("label %q defined but never referenced", name),
				Code:    "UNUSED_LABEL",
			})
		}
	}
	for name, line := range definedEqus {
		if !referenced[name] {
			issues = append(issues, &Issue{
				Level:   LintWarning,
				Line:    line,
				Message: fmt.Sprintf("constant %q defined but never referenced", name),
				Code:    "UNUSED_EQU",
			})
		}
	}

	sort.Slice(issues, func(i, j int) bool {
		return issues[i].Line < issues[j].Line
	})

	return issues
}

// LintResult lints the source that produced an already-assembled
// *asm.Result, a convenience for callers that have both in hand (e.g.
// the CLI's -lint flag run right after -assemble).
func LintResult(source string, _ *asm.Result) []*Issue {
	return Lint(source)
}

// tokenizeOperand extracts bare identifier-like tokens from an operand
// expression so they can be checked against defined labels/constants.
// It is deliberately permissive: numbers and punctuation are dropped,
// everything else that looks like an identifier is kept.
func tokenizeOperand(operand string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		tok := cur.String()
		cur.Reset()
		if isIdentLike(tok) {
			toks = append(toks, tok)
		}
	}
	for _, r := range operand {
		switch {
		case r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			cur.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return toks
}

// isIdentLike reports whether tok looks like a symbol reference rather
// than a numeric literal.
func isIdentLike(tok string) bool {
	if tok == "" {
		return false
	}
	if tok[0] >= '0' && tok[0] <= '9' {
		// Numeric literal (decimal, hex digits, or a trailing H/h radix
		// suffix like 0FFH) — not a symbol reference.
		return false
	}
	if _, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return false
	}
	return true
}
