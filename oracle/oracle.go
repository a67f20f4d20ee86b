package oracle

import (
	"fmt"
	"strings"

	"github.com/hcornflower/z80toolchain/asm"
	"github.com/hcornflower/z80toolchain/asmlex"
	"github.com/hcornflower/z80toolchain/cpu"
	"github.com/hcornflower/z80toolchain/loader"
	"github.com/hcornflower/z80toolchain/step"
)

var directiveMnemonics = map[string]bool{
	"ORG": true, "EQU": true, "END": true,
	"DB": true, "DEFB": true, "DEFW": true, "DEFS": true,
}

// Diff is one mismatch between an observed and expected value.
type Diff struct {
	Key  string
	Got  string
	Want string
}

// SeedResult is the outcome of running source under one initial (Z,C)
// seed.
type SeedResult struct {
	Seed    string
	Passed  bool
	Diffs   []Diff
	StepErr string
}

// countInstructionSteps returns the number of source lines that are real
// CPU instructions (excluding blank/comment lines and assembler
// directives), the step count the spec calls "the expected instruction
// count".
func countInstructionSteps(source string) (int, error) {
	n := 0
	for i, text := range strings.Split(source, "\n") {
		pl, err := asmlex.ParseLine(i+1, text)
		if err != nil {
			return 0, err
		}
		if pl.Mnemonic == "" || directiveMnemonics[strings.ToUpper(pl.Mnemonic)] {
			continue
		}
		n++
	}
	return n, nil
}

// Run assembles source once, then executes it four times — once per
// (Z,C) seed combination — evaluating expectationStr against the final
// state each time.
func Run(source, expectationStr string) ([]*SeedResult, error) {
	exp, err := ParseExpectation(expectationStr)
	if err != nil {
		return nil, err
	}

	asmResult := asm.New().Assemble(source)
	if !asmResult.Success {
		return nil, fmt.Errorf("assembly failed: %v", asmResult.Errors)
	}

	steps, err := countInstructionSteps(source)
	if err != nil {
		return nil, err
	}

	totalBytes := 0
	for _, d := range asmResult.Details {
		if d.Valid {
			totalBytes += len(d.Opcodes)
		}
	}

	seeds := [][2]bool{{false, false}, {false, true}, {true, false}, {true, true}}
	var results []*SeedResult
	for _, seed := range seeds {
		results = append(results, runSeed(asmResult, seed[0], seed[1], steps, totalBytes, exp))
	}
	return results, nil
}

func runSeed(asmResult *asm.Result, seedZ, seedC bool, steps, totalBytes int, exp *Expectation) *SeedResult {
	mem := new([65536]byte)
	io := new([256]byte)

	if err := loader.Load(asmResult.Details, mem); err != nil {
		return &SeedResult{Seed: SeedKey(seedZ, seedC), StepErr: err.Error()}
	}

	c := cpu.New()
	c.Reg.PC = 0
	c.Reg.SP = 0xFFFF
	c.Reg.Flags = cpu.Flags{Z: seedZ, C: seedC}

	initial := c.Reg.Capture()
	var initialMem [65536]byte
	copy(initialMem[:], mem[:])
	var initialIO [256]byte
	copy(initialIO[:], io[:])

	result := step.Run(c, mem, io, steps)

	res := &SeedResult{Seed: SeedKey(seedZ, seedC), StepErr: result.Error}
	final := result.Registers

	assertions := exp.ForSeed(seedZ, seedC)
	var diffs []Diff

	regChecks := []struct {
		key       string
		got, init byte
	}{
		{"a", final.A, initial.A}, {"b", final.B, initial.B}, {"c", final.C, initial.C},
		{"d", final.D, initial.D}, {"e", final.E, initial.E}, {"h", final.H, initial.H},
		{"l", final.L, initial.L},
	}
	for _, rc := range regChecks {
		want := int64(rc.init)
		if v, ok := assertions[rc.key]; ok {
			parsed, perr := parseIntValue(v)
			if perr == nil {
				want = parsed
			}
		}
		if int64(rc.got) != want {
			diffs = append(diffs, Diff{Key: rc.key, Got: fmt.Sprintf("0x%02X", rc.got), Want: fmt.Sprintf("0x%02X", want)})
		}
	}

	wantSP := int64(initial.SP)
	if v, ok := assertions["sp"]; ok {
		if parsed, perr := parseIntValue(v); perr == nil {
			wantSP = parsed
		}
	}
	if int64(final.SP) != wantSP {
		diffs = append(diffs, Diff{Key: "sp", Got: fmt.Sprintf("0x%04X", final.SP), Want: fmt.Sprintf("0x%04X", wantSP)})
	}

	wantPC := int64(totalBytes)
	if v, ok := assertions["pc"]; ok {
		if parsed, perr := parseIntValue(v); perr == nil {
			wantPC = parsed
		}
	}
	if int64(final.PC) != wantPC {
		diffs = append(diffs, Diff{Key: "pc", Got: fmt.Sprintf("0x%04X", final.PC), Want: fmt.Sprintf("0x%04X", wantPC)})
	}

	diffs = append(diffs, checkFlag("zero", assertions, initial.Flags.Z, final.Flags.Z)...)
	diffs = append(diffs, checkFlag("carry", assertions, initial.Flags.C, final.Flags.C)...)

	wantShadowA := int64(initial.ShadowA)
	if v, ok := assertions["shadow_a"]; ok {
		if parsed, perr := parseIntValue(v); perr == nil {
			wantShadowA = parsed
		}
	}
	if int64(final.ShadowA) != wantShadowA {
		diffs = append(diffs, Diff{Key: "shadow_a", Got: fmt.Sprintf("0x%02X", final.ShadowA), Want: fmt.Sprintf("0x%02X", wantShadowA)})
	}

	diffs = append(diffs, checkFlag("shadow_zero", assertions, initial.ShadowFlags.Z, final.ShadowFlags.Z)...)
	diffs = append(diffs, checkFlag("shadow_carry", assertions, initial.ShadowFlags.C, final.ShadowFlags.C)...)

	wantHalted := false
	if v, ok := assertions["halted"]; ok {
		if parsed, perr := parseIntValue(v); perr == nil {
			wantHalted = parsed != 0
		}
	}
	if result.Halted != wantHalted {
		diffs = append(diffs, Diff{Key: "halted", Got: fmt.Sprintf("%v", result.Halted), Want: fmt.Sprintf("%v", wantHalted)})
	}

	for key, v := range assertions {
		addr, isMem := parseAddressKey(key)
		if isMem {
			want, perr := parseIntValue(v)
			if perr != nil {
				continue
			}
			if int64(mem[addr]) != want {
				diffs = append(diffs, Diff{Key: key, Got: fmt.Sprintf("0x%02X", mem[addr]), Want: fmt.Sprintf("0x%02X", want)})
			}
		}
		if port, isPort := parsePortKey(key); isPort {
			want, perr := parseIntValue(v)
			if perr != nil {
				continue
			}
			if int64(io[port]) != want {
				diffs = append(diffs, Diff{Key: key, Got: fmt.Sprintf("0x%02X", io[port]), Want: fmt.Sprintf("0x%02X", want)})
			}
		}
	}

	for addr := 0; addr < 65536; addr++ {
		key := fmt.Sprintf("[%d]", addr)
		hexKey := fmt.Sprintf("[0x%X]", addr)
		if _, ok := assertions[key]; ok {
			continue
		}
		if _, ok := assertions[hexKey]; ok {
			continue
		}
		if mem[addr] != initialMem[addr] {
			diffs = append(diffs, Diff{Key: key, Got: fmt.Sprintf("0x%02X", mem[addr]), Want: fmt.Sprintf("0x%02X (unchanged)", initialMem[addr])})
		}
	}
	for port := 0; port < 256; port++ {
		key := fmt.Sprintf("port[%d]", port)
		if _, ok := assertions[key]; ok {
			continue
		}
		if io[port] != 0 {
			diffs = append(diffs, Diff{Key: key, Got: fmt.Sprintf("0x%02X", io[port]), Want: "0x00"})
		}
	}

	res.Diffs = diffs
	res.Passed = len(diffs) == 0 && result.Error == ""
	return res
}

func checkFlag(name string, assertions map[string]string, initial, got bool) []Diff {
	want := initial
	if v, ok := assertions[name]; ok {
		if strings.EqualFold(v, "flip") {
			want = !initial
		} else if parsed, err := parseIntValue(v); err == nil {
			want = parsed != 0
		}
	}
	if got != want {
		return []Diff{{Key: name, Got: fmt.Sprintf("%v", got), Want: fmt.Sprintf("%v", want)}}
	}
	return nil
}

func parseAddressKey(key string) (int, bool) {
	if len(key) < 3 || key[0] != '[' || key[len(key)-1] != ']' {
		return 0, false
	}
	inner := key[1 : len(key)-1]
	v, err := parseIntValue(inner)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

func parsePortKey(key string) (int, bool) {
	if !strings.HasPrefix(key, "port[") || !strings.HasSuffix(key, "]") {
		return 0, false
	}
	inner := key[len("port[") : len(key)-1]
	v, err := parseIntValue(inner)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
