package asmlex

import "testing"

func TestParseLineLabelAndMnemonic(t *testing.T) {
	pl, err := ParseLine(1, "START: LD A,0xFF ; load marker")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pl.Label != "START" {
		t.Errorf("label = %q, want START", pl.Label)
	}
	if pl.Mnemonic != "LD" {
		t.Errorf("mnemonic = %q, want LD", pl.Mnemonic)
	}
	if len(pl.Operands) != 2 || pl.Operands[0] != "A" || pl.Operands[1] != "0xFF" {
		t.Errorf("operands = %v, want [A 0xFF]", pl.Operands)
	}
	if pl.Comment != "load marker" {
		t.Errorf("comment = %q", pl.Comment)
	}
}

func TestParseLineEquNoColon(t *testing.T) {
	pl, err := ParseLine(1, "SCREEN EQU 0x4000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pl.Label != "SCREEN" || pl.Mnemonic != "EQU" {
		t.Fatalf("got label=%q mnemonic=%q", pl.Label, pl.Mnemonic)
	}
	if len(pl.Operands) != 1 || pl.Operands[0] != "0x4000" {
		t.Errorf("operands = %v", pl.Operands)
	}
}

func TestParseLineBlank(t *testing.T) {
	pl, err := ParseLine(5, "   ; just a comment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pl.IsBlank() {
		t.Errorf("expected blank line, got %+v", pl)
	}
}

func TestParseLineMnemonicOnly(t *testing.T) {
	pl, err := ParseLine(1, "NOP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pl.Label != "" || pl.Mnemonic != "NOP" {
		t.Errorf("got label=%q mnemonic=%q", pl.Label, pl.Mnemonic)
	}
}

func TestParseLineLabelOnly(t *testing.T) {
	pl, err := ParseLine(1, "LOOP:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pl.Label != "LOOP" || pl.Mnemonic != "" {
		t.Errorf("got label=%q mnemonic=%q", pl.Label, pl.Mnemonic)
	}
}

func TestSplitOperandsRespectsParensAndLiterals(t *testing.T) {
	ops := splitOperands(`(HL+1), "a,b", 'c'`)
	want := []string{"(HL+1)", `"a,b"`, "'c'"}
	if len(ops) != len(want) {
		t.Fatalf("got %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("operand %d = %q, want %q", i, ops[i], want[i])
		}
	}
}

func TestIsMemoryReference(t *testing.T) {
	cases := map[string]bool{
		"($8000)":  true,
		"(HL+1)":   true,
		"(5+3)*2":  false,
		"0x1234":   false,
		"(HL)":     true,
		"(1)+(2)":  false,
	}
	for op, want := range cases {
		if got := IsMemoryReference(op); got != want {
			t.Errorf("IsMemoryReference(%q) = %v, want %v", op, got, want)
		}
	}
}
