package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hcornflower/z80toolchain/asm"
	"github.com/hcornflower/z80toolchain/config"
	"github.com/hcornflower/z80toolchain/cpu"
	"github.com/hcornflower/z80toolchain/lint"
	"github.com/hcornflower/z80toolchain/loader"
	"github.com/hcornflower/z80toolchain/step"
	"github.com/hcornflower/z80toolchain/tui"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		assembleFlag = flag.Bool("assemble", false, "Assemble the file and print the listing + CRC")
		runFlag      = flag.Bool("run", false, "Assemble, load, and step the program to halt or the step limit")
		stepsFlag    = flag.Int("steps", 0, "Maximum steps for -run (0 uses the configured default)")
		entryFlag    = flag.String("entry", "", "Start execution at this address instead of the load address (hex, e.g. 0x8000)")
		tuiFlag      = flag.Bool("tui", false, "Launch the interactive stepper")
		lintFlag     = flag.Bool("lint", false, "Lint the source and report warnings")
		configFlag   = flag.String("config", "", "Config file path (default: platform config dir)")
		versionFlag  = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("z80toolchain %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		return
	}

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	sourcePath := flag.Arg(0)
	src, err := os.ReadFile(sourcePath) // #nosec G304 -- user-specified source file path
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read %s: %v\n", sourcePath, err)
		os.Exit(1)
	}
	source := string(src)

	if *lintFlag {
		runLint(source)
	}

	result := asm.New().Assemble(source)
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		os.Exit(1)
	}

	if *entryFlag != "" {
		addr, perr := parseHexOrDecimal(*entryFlag)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "invalid -entry value: %v\n", perr)
			os.Exit(1)
		}
		result.LoadAddress = addr
	}

	switch {
	case *tuiFlag:
		runTUI(result)
	case *runFlag:
		maxSteps := cfg.Execution.DefaultMaxSteps
		if *stepsFlag > 0 {
			maxSteps = *stepsFlag
		}
		runProgram(result, maxSteps)
	case *assembleFlag:
		fmt.Print(asm.Listing(result))
	default:
		fmt.Print(asm.Listing(result))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func runLint(source string) {
	issues := lint.Lint(source)
	for _, issue := range issues {
		fmt.Fprintln(os.Stderr, issue.String())
	}
}

type runSession struct {
	cpu *cpu.CPU
	mem *[65536]byte
	io  *[256]byte
}

func newRunSession(result *asm.Result) (*runSession, error) {
	mem := new([65536]byte)
	io := new([256]byte)
	if err := loader.Load(result.Details, mem); err != nil {
		return nil, err
	}
	c := cpu.New()
	c.Reg.PC = uint16(result.LoadAddress)
	c.Reg.SP = 0xFFFF
	return &runSession{cpu: c, mem: mem, io: io}, nil
}

func runProgram(result *asm.Result, maxSteps int) {
	sess, err := newRunSession(result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load error: %v\n", err)
		os.Exit(1)
	}

	res := step.Run(sess.cpu, sess.mem, sess.io, maxSteps)

	r := res.Registers
	fmt.Printf("A=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X\n", r.A, r.B, r.C, r.D, r.E, r.H, r.L)
	fmt.Printf("SP=%04X PC=%04X Z=%v C=%v halted=%v\n", r.SP, r.PC, r.Flags.Z, r.Flags.C, res.Halted)
	fmt.Printf("instructions executed: %d\n", res.InstructionsExecuted)
	if res.Error != "" {
		fmt.Fprintln(os.Stderr, res.Error)
		os.Exit(1)
	}
}

func runTUI(result *asm.Result) {
	session, err := tui.NewSession(result, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load error: %v\n", err)
		os.Exit(1)
	}
	app := tui.NewTUI(session)
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
		os.Exit(1)
	}
}

func parseHexOrDecimal(s string) (int, error) {
	var v int
	if _, err := fmt.Sscanf(s, "0x%x", &v); err == nil {
		return v, nil
	}
	if _, err := fmt.Sscanf(s, "%d", &v); err == nil {
		return v, nil
	}
	return 0, fmt.Errorf("cannot parse %q as an address", s)
}

func printUsage() {
	fmt.Printf(`z80toolchain %s

Usage: z80toolchain [options] <source-file>

Options:
  -assemble       Assemble the file and print the listing + CRC (default)
  -run            Assemble, load, and step the program to halt or the step limit
  -steps N        Maximum steps for -run (0 uses the configured default)
  -entry ADDR     Start execution at this address instead of the load address (hex, e.g. 0x8000)
  -tui            Launch the interactive stepper
  -lint           Lint the source and report warnings
  -config PATH    Config file path (default: platform config dir)
  -version        Show version information

Examples:
  z80toolchain -assemble program.z80
  z80toolchain -run -steps 500 program.z80
  z80toolchain -tui program.z80
  z80toolchain -lint program.z80
`, Version)
}
