package asmlex

import (
	"fmt"
	"strings"
)

// ParsedLine is the first-pass record produced for a single source line.
// Immutable once built. Mnemonic is always stored uppercased; operand
// strings keep their original case (string literal contents are not
// re-cased), trimmed of surrounding whitespace.
type ParsedLine struct {
	LineNumber int
	Label      string // "" if the line has no label
	Mnemonic   string // "" for blank/comment-only lines; always uppercase
	Operands   []string
	Comment    string // text after the first top-level ';', not including the ';'
	Source     string // verbatim source text for this line
}

// IsBlank reports whether the line carries neither a label nor a mnemonic
// (a comment-only or empty line).
func (p *ParsedLine) IsBlank() bool {
	return p.Label == "" && p.Mnemonic == ""
}

// SymbolTable maps an uppercased identifier to a signed value. Every key is
// unique across the whole program; redefining a key is an error.
type SymbolTable struct {
	values map[string]int64
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{values: make(map[string]int64)}
}

// Define inserts name=value, failing if name is already defined.
func (t *SymbolTable) Define(name string, value int64) error {
	key := strings.ToUpper(name)
	if _, exists := t.values[key]; exists {
		return fmt.Errorf("duplicate label %q", name)
	}
	t.values[key] = value
	return nil
}

// Lookup returns the value bound to name and whether it was found.
func (t *SymbolTable) Lookup(name string) (int64, bool) {
	v, ok := t.values[strings.ToUpper(name)]
	return v, ok
}

// Len returns the number of defined symbols.
func (t *SymbolTable) Len() int {
	return len(t.values)
}

// All returns every defined symbol, keyed by its uppercased name.
func (t *SymbolTable) All() map[string]int64 {
	out := make(map[string]int64, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

// DbLengths maps an uppercased label to the character count of the string
// literal it introduces via a single-operand DB/DEFB ("raw characters
// between the quotes", i.e. pre-escape-processing length).
type DbLengths struct {
	lengths map[string]int
}

// NewDbLengths creates an empty DbLengths table.
func NewDbLengths() *DbLengths {
	return &DbLengths{lengths: make(map[string]int)}
}

// Set records the string length introduced by label name.
func (d *DbLengths) Set(name string, length int) {
	d.lengths[strings.ToUpper(name)] = length
}

// Get returns the string length registered for name, if any.
func (d *DbLengths) Get(name string) (int, bool) {
	v, ok := d.lengths[strings.ToUpper(name)]
	return v, ok
}
