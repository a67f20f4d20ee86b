package inst

import "testing"

func TestBuildCatalogNoDuplicateRows(t *testing.T) {
	c := BuildCatalog()
	if len(c.DuplicateRows) != 0 {
		t.Errorf("unexpected duplicate rows: %v", c.DuplicateRows)
	}
	if len(c.DuplicateOpcodes) != 0 {
		t.Errorf("unexpected duplicate opcode sequences: %v", c.DuplicateOpcodes)
	}
}

func TestBuildCatalogLoadMatrixSkipsHalt(t *testing.T) {
	c := BuildCatalog()
	for _, def := range c.Candidates("LD") {
		if len(def.Pattern) == 2 &&
			def.Pattern[0] == lit("(HL)") && def.Pattern[1] == lit("(HL)") {
			t.Fatalf("LD (HL),(HL) should not exist, its opcode is HALT")
		}
	}
}

func TestBuildCatalogSortsGenericSlotLast(t *testing.T) {
	c := BuildCatalog()
	defs := c.Candidates("CALL")
	sawGeneric := false
	for _, d := range defs {
		if d.hasSortGenericSlot() {
			sawGeneric = true
			continue
		}
		if sawGeneric {
			t.Fatalf("a no-generic-slot CALL row appears after a generic-slot row")
		}
	}
}

func TestBuildCatalogHasAddHLrr(t *testing.T) {
	c := BuildCatalog()
	found := false
	for _, d := range c.Candidates("ADD") {
		if len(d.Pattern) == 2 && d.Pattern[0] == lit("HL") && d.Pattern[1] == lit("BC") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected ADD HL,BC in catalog")
	}
}

func TestBuildCatalogFullBitCoverage(t *testing.T) {
	c := BuildCatalog()
	count := len(c.Candidates("BIT"))
	if count != 8*8 {
		t.Errorf("BIT rows = %d, want %d", count, 8*8)
	}
}
