// Package tui implements the interactive stepper: a text UI, built on
// tcell/tview, that lets a user single-step an assembled program and
// inspect registers, memory, and source — modeled on the teacher's
// debugger/tui.go, narrowed to this CPU's register set and commands.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hcornflower/z80toolchain/asm"
	"github.com/hcornflower/z80toolchain/cpu"
	"github.com/hcornflower/z80toolchain/debugexpr"
	"github.com/hcornflower/z80toolchain/loader"
)

// Breakpoint is a condition expression evaluated before each step.
type Breakpoint struct {
	Expr string
}

// Session holds the live CPU/memory state plus the assembled program
// the TUI steps through.
type Session struct {
	CPU    *cpu.CPU
	Memory *[65536]byte
	IO     *[256]byte

	Result  *asm.Result
	Symbols map[string]int64

	Breakpoints []Breakpoint
	Watches     []string
	History     []string

	Halted bool
	LastErr error
}

// NewSession loads an assembled result into a fresh CPU and memory. A
// nil symbols map falls back to result.Symbols.
func NewSession(result *asm.Result, symbols map[string]int64) (*Session, error) {
	mem := new([65536]byte)
	io := new([256]byte)
	if err := loader.Load(result.Details, mem); err != nil {
		return nil, err
	}
	c := cpu.New()
	c.Reg.PC = uint16(result.LoadAddress)
	c.Reg.SP = 0xFFFF

	if symbols == nil {
		symbols = result.Symbols
	}

	return &Session{
		CPU:     c,
		Memory:  mem,
		IO:      io,
		Result:  result,
		Symbols: symbols,
	}, nil
}

// env adapts the session to debugexpr.Env.
func (s *Session) env() *debugexpr.CPUEnv {
	return &debugexpr.CPUEnv{CPU: s.CPU, Memory: s.Memory, Symbols: s.Symbols}
}

// Step executes a single CPU instruction, honoring neither breakpoints
// nor watches (those are checked by the caller between steps).
func (s *Session) Step() error {
	if s.Halted {
		return nil
	}
	if err := s.CPU.Step(s.Memory, s.IO); err != nil {
		s.LastErr = err
		return err
	}
	s.Halted = s.CPU.Reg.Halted
	return nil
}

// Run steps until a breakpoint fires, the CPU halts, an error occurs,
// or maxSteps is reached.
func (s *Session) Run(maxSteps int) (int, error) {
	executed := 0
	for executed < maxSteps {
		if s.Halted {
			break
		}
		if hit, _ := s.checkBreakpoints(); hit {
			break
		}
		if err := s.Step(); err != nil {
			return executed, err
		}
		executed++
	}
	return executed, nil
}

func (s *Session) checkBreakpoints() (bool, string) {
	for _, bp := range s.Breakpoints {
		v, err := debugexpr.Eval(bp.Expr, s.env())
		if err == nil && v != 0 {
			return true, bp.Expr
		}
	}
	return false, ""
}

// WatchValues evaluates every watch expression. A watch that fails to
// parse or references an unknown name is not skipped; its entry reads
// "<expr> = <error: ...>".
func (s *Session) WatchValues() []string {
	var out []string
	for _, w := range s.Watches {
		v, err := debugexpr.Eval(w, s.env())
		if err != nil {
			out = append(out, fmt.Sprintf("%s = <error: %v>", w, err))
			continue
		}
		out = append(out, fmt.Sprintf("%s = 0x%X", w, v))
	}
	return out
}

// ExecuteCommand parses and runs one command line from the TUI's
// command input: step, run, break <expr>, watch <expr>, quit.
func (s *Session) ExecuteCommand(line string) (string, error) {
	s.History = append(s.History, line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd := strings.ToLower(fields[0])
	rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	switch cmd {
	case "step", "s":
		n := 1
		if len(fields) > 1 {
			if parsed, err := strconv.Atoi(fields[1]); err == nil {
				n = parsed
			}
		}
		executed, err := s.Run(n)
		return fmt.Sprintf("stepped %d instruction(s)", executed), err

	case "run", "r":
		executed, err := s.Run(1_000_000)
		return fmt.Sprintf("ran %d instruction(s)", executed), err

	case "break", "b":
		if rest == "" {
			return "", fmt.Errorf("break requires an expression")
		}
		s.Breakpoints = append(s.Breakpoints, Breakpoint{Expr: rest})
		return fmt.Sprintf("breakpoint set: %s", rest), nil

	case "watch", "w":
		if rest == "" {
			return "", fmt.Errorf("watch requires an expression")
		}
		s.Watches = append(s.Watches, rest)
		return fmt.Sprintf("watching: %s", rest), nil

	case "quit", "q":
		return "quit", nil

	default:
		return "", fmt.Errorf("unknown command: %s", cmd)
	}
}
