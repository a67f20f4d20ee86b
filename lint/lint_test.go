package lint

import (
	"strings"
	"testing"
)

func TestLintUnusedLabel(t *testing.T) {
	source := "START: NOP\nLOOP: NOP\nJP START\n"

	issues := Lint(source)

	foundUnused := false
	for _, issue := range issues {
		if issue.Code == "UNUSED_LABEL" && strings.Contains(issue.Message, "LOOP") {
			foundUnused = true
		}
		if issue.Code == "UNUSED_LABEL" && strings.Contains(issue.Message, "START") {
			t.Error("START is referenced by JP, should not be flagged unused")
		}
	}
	if !foundUnused {
		t.Error("expected LOOP to be reported as unused")
	}
}

func TestLintUnusedEqu(t *testing.T) {
	source := "SCREEN EQU 0x4000\nCOUNT EQU 10\nLD A,COUNT\n"

	issues := Lint(source)

	foundUnused := false
	for _, issue := range issues {
		if issue.Code == "UNUSED_EQU" && strings.Contains(issue.Message, "SCREEN") {
			foundUnused = true
		}
		if issue.Code == "UNUSED_EQU" && strings.Contains(issue.Message, "COUNT") {
			t.Error("COUNT is referenced, should not be flagged unused")
		}
	}
	if !foundUnused {
		t.Error("expected SCREEN to be reported as unused")
	}
}

func TestLintShadowName(t *testing.T) {
	source := "LD: NOP\n"

	issues := Lint(source)

	found := false
	for _, issue := range issues {
		if issue.Code == "SHADOW_NAME" {
			found = true
		}
	}
	if !found {
		t.Error("expected a label named LD to be flagged as shadowing a mnemonic")
	}
}

func TestLintNoFalsePositivesOnCleanSource(t *testing.T) {
	source := "START: LD A,1\nJP START\n"

	issues := Lint(source)
	for _, issue := range issues {
		if issue.Code == "UNUSED_LABEL" {
			t.Errorf("unexpected unused-label finding on clean source: %v", issue)
		}
	}
}
