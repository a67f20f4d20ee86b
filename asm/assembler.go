package asm

import (
	"strconv"
	"strings"

	"github.com/hcornflower/z80toolchain/asmlex"
	"github.com/hcornflower/z80toolchain/inst"
)

// kind classifies a parsed line for the purposes of the two-pass driver.
type kind int

const (
	kindBlank kind = iota
	kindOrg
	kindEqu
	kindEnd
	kindDB
	kindDefw
	kindDefs
	kindInstruction
)

// lineRecord is the pass-1 analysis of one source line, reused by pass 2.
type lineRecord struct {
	parsed *asmlex.ParsedLine
	kind   kind
	size   int
}

// Assembler holds the instruction catalogue, built once and reused across
// every Assemble call.
type Assembler struct {
	catalog *inst.Catalog
}

// New builds an Assembler with a freshly constructed instruction catalogue.
func New() *Assembler {
	return &Assembler{catalog: inst.BuildCatalog()}
}

// Assemble runs the full two-pass translation of an LF-separated source
// buffer into a Result.
func (a *Assembler) Assemble(source string) *Result {
	lines := strings.Split(source, "\n")

	symbols := asmlex.NewSymbolTable()
	dbLens := asmlex.NewDbLengths()
	eval := asmlex.NewEvaluator(symbols, dbLens)

	var errs []*AssembleError
	records := make([]*lineRecord, len(lines))
	details := make([]*InstructionDetail, len(lines))

	locCounter := 0
	loadAddress := 0
	loadAddressSet := false
	ended := false

	for i, text := range lines {
		lineNum := i + 1
		if ended {
			details[i] = &InstructionDetail{LineNumber: lineNum, Source: text, Valid: false}
			continue
		}

		parsed, err := asmlex.ParseLine(lineNum, text)
		if err != nil {
			errs = append(errs, &AssembleError{Line: lineNum, Address: locCounter, Message: err.Error()})
			details[i] = &InstructionDetail{LineNumber: lineNum, Source: text, Valid: false}
			continue
		}

		detail := &InstructionDetail{LineNumber: lineNum, Source: text, StartAddress: locCounter, Valid: true}
		details[i] = detail

		if parsed.Label != "" && !strings.EqualFold(parsed.Mnemonic, "EQU") {
			if err := symbols.Define(parsed.Label, int64(locCounter)); err != nil {
				errs = append(errs, &AssembleError{Line: lineNum, Address: locCounter, Message: err.Error()})
			}
		}

		rec := &lineRecord{parsed: parsed}
		records[i] = rec

		switch strings.ToUpper(parsed.Mnemonic) {
		case "":
			rec.kind = kindBlank

		case "ORG":
			rec.kind = kindOrg
			if len(parsed.Operands) != 1 {
				errs = append(errs, &AssembleError{Line: lineNum, Address: locCounter, Message: "ORG requires exactly one operand"})
				continue
			}
			v, err := eval.Eval(parsed.Operands[0])
			if err != nil {
				errs = append(errs, &AssembleError{Line: lineNum, Address: locCounter, Message: err.Error()})
				continue
			}
			if !loadAddressSet {
				loadAddress = int(v)
				loadAddressSet = true
			}
			locCounter = int(v)

		case "EQU":
			rec.kind = kindEqu
			if parsed.Label == "" {
				errs = append(errs, &AssembleError{Line: lineNum, Address: locCounter, Message: "EQU requires a label"})
				continue
			}
			if len(parsed.Operands) != 1 {
				errs = append(errs, &AssembleError{Line: lineNum, Address: locCounter, Message: "EQU requires exactly one operand"})
				continue
			}
			v, err := eval.Eval(parsed.Operands[0])
			if err != nil {
				errs = append(errs, &AssembleError{Line: lineNum, Address: locCounter, Message: err.Error()})
				continue
			}
			if err := symbols.Define(parsed.Label, v); err != nil {
				errs = append(errs, &AssembleError{Line: lineNum, Address: locCounter, Message: err.Error()})
			}

		case "END":
			rec.kind = kindEnd
			ended = true

		case "DB", "DEFB":
			rec.kind = kindDB
			size, err := dbSize(parsed.Operands)
			if err != nil {
				errs = append(errs, &AssembleError{Line: lineNum, Address: locCounter, Message: err.Error()})
				continue
			}
			if parsed.Label != "" && len(parsed.Operands) == 1 && isStringOperand(parsed.Operands[0]) {
				dbLens.Set(parsed.Label, len(stringInner(parsed.Operands[0])))
			}
			rec.size = size
			locCounter += size

		case "DEFW":
			rec.kind = kindDefw
			rec.size = 2 * len(parsed.Operands)
			locCounter += rec.size

		case "DEFS":
			rec.kind = kindDefs
			if len(parsed.Operands) < 1 {
				errs = append(errs, &AssembleError{Line: lineNum, Address: locCounter, Message: "DEFS requires a size operand"})
				continue
			}
			v, err := eval.Eval(parsed.Operands[0])
			if err != nil {
				errs = append(errs, &AssembleError{Line: lineNum, Address: locCounter, Message: err.Error()})
				continue
			}
			rec.size = int(v)
			locCounter += rec.size

		default:
			rec.kind = kindInstruction
			m, err := a.catalog.FindMatch(parsed.Mnemonic, parsed.Operands)
			if err != nil {
				errs = append(errs, &AssembleError{Line: lineNum, Address: locCounter, Message: err.Error()})
				continue
			}
			rec.size = m.Def.EncodedLen()
			locCounter += rec.size
		}
	}

	if len(errs) > 0 {
		return &Result{Success: false, Errors: errs}
	}

	// Pass 2: re-walk and emit bytes.
	locCounter = loadAddress
	for i, rec := range records {
		if rec == nil {
			continue
		}
		detail := details[i]
		switch rec.kind {
		case kindBlank, kindEqu, kindEnd:
			// no code emitted

		case kindOrg:
			v, err := eval.Eval(rec.parsed.Operands[0])
			if err != nil {
				errs = append(errs, &AssembleError{Line: rec.parsed.LineNumber, Address: locCounter, Message: err.Error()})
				continue
			}
			locCounter = int(v)

		case kindDB:
			opcodes, err := emitDB(eval, rec.parsed.Operands)
			if err != nil {
				errs = append(errs, &AssembleError{Line: rec.parsed.LineNumber, Address: locCounter, Message: err.Error()})
				continue
			}
			detail.Opcodes = opcodes
			locCounter += len(opcodes)

		case kindDefw:
			opcodes, err := emitDefw(eval, rec.parsed.Operands)
			if err != nil {
				errs = append(errs, &AssembleError{Line: rec.parsed.LineNumber, Address: locCounter, Message: err.Error()})
				continue
			}
			detail.Opcodes = opcodes
			locCounter += len(opcodes)

		case kindDefs:
			size, err := eval.Eval(rec.parsed.Operands[0])
			if err != nil {
				errs = append(errs, &AssembleError{Line: rec.parsed.LineNumber, Address: locCounter, Message: err.Error()})
				continue
			}
			fill := int64(0)
			if len(rec.parsed.Operands) > 1 {
				fill, err = eval.Eval(rec.parsed.Operands[1])
				if err != nil {
					errs = append(errs, &AssembleError{Line: rec.parsed.LineNumber, Address: locCounter, Message: err.Error()})
					continue
				}
			}
			opcodes := make([]byte, size)
			for j := range opcodes {
				opcodes[j] = byte(fill)
			}
			detail.Opcodes = opcodes
			locCounter += len(opcodes)

		case kindInstruction:
			m, err := a.catalog.FindMatch(rec.parsed.Mnemonic, rec.parsed.Operands)
			if err != nil {
				errs = append(errs, &AssembleError{Line: rec.parsed.LineNumber, Address: locCounter, Message: err.Error()})
				continue
			}
			opcodes, err := emitInstruction(eval, m, locCounter)
			if err != nil {
				errs = append(errs, &AssembleError{Line: rec.parsed.LineNumber, Address: locCounter, Message: err.Error()})
				continue
			}
			detail.Opcodes = opcodes
			locCounter += len(opcodes)
		}
	}

	if len(errs) > 0 {
		return &Result{Success: false, Errors: errs}
	}

	return &Result{Success: true, LoadAddress: loadAddress, Details: details, Symbols: symbols.All()}
}

func isStringOperand(op string) bool {
	op = strings.TrimSpace(op)
	return len(op) >= 2 && op[0] == '"' && op[len(op)-1] == '"'
}

func stringInner(op string) string {
	op = strings.TrimSpace(op)
	return op[1 : len(op)-1]
}

func dbSize(operands []string) (int, error) {
	size := 0
	for _, op := range operands {
		if isStringOperand(op) {
			size += len(stringInner(op))
		} else {
			size++
		}
	}
	return size, nil
}

func emitDB(eval *asmlex.Evaluator, operands []string) ([]byte, error) {
	var out []byte
	for _, op := range operands {
		if isStringOperand(op) {
			bytes, err := asmlex.ProcessEscapes(stringInner(op))
			if err != nil {
				return nil, err
			}
			out = append(out, bytes...)
			continue
		}
		v, err := eval.Eval(op)
		if err != nil {
			return nil, err
		}
		out = append(out, byte(v))
	}
	return out, nil
}

func emitDefw(eval *asmlex.Evaluator, operands []string) ([]byte, error) {
	var out []byte
	for _, op := range operands {
		v, err := eval.Eval(op)
		if err != nil {
			return nil, err
		}
		out = append(out, byte(v), byte(v>>8))
	}
	return out, nil
}

func emitInstruction(eval *asmlex.Evaluator, m *inst.Match, addr int) ([]byte, error) {
	out := append([]byte(nil), m.Def.Prefix...)
	total := m.Def.EncodedLen()

	for i, slot := range m.Def.Pattern {
		if slot.Kind == inst.SlotLiteral {
			continue
		}
		operand := m.Operands[i]
		switch slot.Kind {
		case inst.SlotImm8:
			v, err := eval.Eval(operand)
			if err != nil {
				return nil, err
			}
			if v < -128 || v > 255 {
				return nil, rangeErr(operand, v, -128, 255)
			}
			out = append(out, byte(v))

		case inst.SlotImm16:
			v, err := eval.Eval(operand)
			if err != nil {
				return nil, err
			}
			if v < -32768 || v > 65535 {
				return nil, rangeErr(operand, v, -32768, 65535)
			}
			out = append(out, byte(v), byte(v>>8))

		case inst.SlotMem8:
			v, err := eval.Eval(asmlex.StripOuterParens(operand))
			if err != nil {
				return nil, err
			}
			if v < 0 || v > 255 {
				return nil, rangeErr(operand, v, 0, 255)
			}
			out = append(out, byte(v))

		case inst.SlotMem16:
			v, err := eval.Eval(asmlex.StripOuterParens(operand))
			if err != nil {
				return nil, err
			}
			out = append(out, byte(v), byte(v>>8))

		case inst.SlotRelative:
			v, err := eval.Eval(operand)
			if err != nil {
				return nil, err
			}
			offset := v - int64(addr+total)
			if offset < -128 || offset > 127 {
				return nil, rangeErr(operand, offset, -128, 127)
			}
			out = append(out, byte(int8(offset)))

		case inst.SlotString:
			bytes, err := asmlex.ProcessEscapes(stringInner(operand))
			if err != nil {
				return nil, err
			}
			out = append(out, bytes...)
		}
	}
	return out, nil
}

func rangeErr(operand string, v int64, lo, hi int64) error {
	return &rangeError{operand: operand, value: v, lo: lo, hi: hi}
}

type rangeError struct {
	operand  string
	value    int64
	lo, hi   int64
}

func (e *rangeError) Error() string {
	return "value " + strconv.FormatInt(e.value, 10) + " for operand " + e.operand +
		" out of range [" + strconv.FormatInt(e.lo, 10) + "," + strconv.FormatInt(e.hi, 10) + "]"
}
