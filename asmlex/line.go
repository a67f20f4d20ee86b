package asmlex

import "strings"

// ParseLine applies the line grammar to a single source line:
//
//	line := [ident ":"] [mnemonic [operand {"," operand}]] [";" ...]
//	line := ident "EQU" expression             ; no colon form
//	ident := letter|"_" {letter|digit|"_"}
//
// Identifiers are case-insensitive; the mnemonic is stored uppercased. A
// leading identifier followed by ':' is a label. A leading identifier
// followed by another identifier "EQU" is a constant definition (the label
// keeps its original case for error messages; the mnemonic becomes "EQU").
// A leading identifier alone is the mnemonic.
func ParseLine(lineNumber int, source string) (*ParsedLine, error) {
	code, comment := stripComment(source)

	line := &ParsedLine{
		LineNumber: lineNumber,
		Comment:    strings.TrimSpace(comment),
		Source:     source,
	}

	c := newCursor(code)
	c.skipSpace()
	if c.eof() {
		return line, nil
	}

	first := c.readIdent()
	if first == "" {
		return nil, errf(lineNumber, "expected identifier or mnemonic, found %q", strings.TrimSpace(c.rest()))
	}

	c.skipSpace()
	if c.peek() == ':' {
		c.advance()
		line.Label = first
		c.skipSpace()
		if c.eof() {
			return line, nil
		}
		mnemonic := c.readIdent()
		if mnemonic == "" {
			return nil, errf(lineNumber, "expected mnemonic after label %q", first)
		}
		return finishMnemonicLine(line, mnemonic, c)
	}

	// Lookahead for the no-colon EQU form: "ident EQU expression".
	save := c.pos
	second := c.readIdent()
	if second != "" && strings.EqualFold(second, "EQU") {
		line.Label = first
		line.Mnemonic = "EQU"
		expr := strings.TrimSpace(c.rest())
		if expr == "" {
			return nil, errf(lineNumber, "EQU requires an expression")
		}
		line.Operands = []string{expr}
		return line, nil
	}
	c.pos = save

	return finishMnemonicLine(line, first, c)
}

func finishMnemonicLine(line *ParsedLine, mnemonic string, c *cursor) (*ParsedLine, error) {
	line.Mnemonic = strings.ToUpper(mnemonic)
	line.Operands = splitOperands(c.rest())
	return line, nil
}
