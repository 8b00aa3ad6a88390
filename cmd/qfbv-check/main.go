// SPDX-License-Identifier: Apache-2.0
//
// qfbv-check is a thin demonstration CLI: it reads an assertion script
// (one constructor-call command per line) from a file or stdin, drives
// it through internal/context, and reports sat/unsat/unknown. It plays
// the role the teacher's main.go plays for the contract-language
// parser -- read, build, report, colored exit -- but against this
// module's own programmatic term/context API instead of an SMT-LIB2
// front end, which is out of scope (SPEC_FULL.md §2).
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"qfbv/internal/config"
	"qfbv/internal/context"
	"qfbv/internal/sat"
	"qfbv/internal/script"
	"qfbv/repl"
)

const version = "qfbv-check 0.1.0"

// Exit codes are contract constants (spec.md §6), not ad hoc choices:
// success, usage error, file not found, interrupted, out-of-memory.
const (
	exitSuccess      = 0
	exitUsageError   = 16
	exitFileNotFound = 17
	exitInterrupted  = 40
	exitOutOfMemory  = 48
)

type flags struct {
	stats       bool
	verbosity   int
	incremental bool
	interactive bool
	path        string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	f, showVersion, showHelp, err := parseFlags(args)
	if err != nil {
		color.Red("%s", err)
		printUsage()
		return exitUsageError
	}
	if showHelp {
		printUsage()
		return exitSuccess
	}
	if showVersion {
		fmt.Println(version)
		return exitSuccess
	}

	mode := config.ModeOneShot
	switch {
	case f.interactive:
		mode = config.ModeInteractive
	case f.incremental:
		mode = config.ModePushPop
	}

	if f.interactive {
		ctx, err := context.New(config.ArchBV, mode, config.Default)
		if err != nil {
			color.Red("failed to create context: %s", err)
			return exitUsageError
		}
		repl.Start(os.Stdin, ctx)
		return exitSuccess
	}

	var src io.Reader = os.Stdin
	if f.path != "" {
		file, err := os.Open(f.path)
		if err != nil {
			color.Red("failed to read file: %s", err)
			return exitFileNotFound
		}
		defer file.Close()
		src = file
	}

	rawScript, err := io.ReadAll(src)
	if err != nil {
		color.Red("failed to read input: %s", err)
		return exitFileNotFound
	}

	parser, err := script.BuildParser()
	if err != nil {
		color.Red("parser build failed: %s", err)
		return exitUsageError
	}

	prog, err := parser.ParseString(f.path, string(rawScript))
	if err != nil {
		color.Red("syntax error: %s", err)
		return exitUsageError
	}

	ctx, err := context.New(config.ArchBV, mode, config.Default)
	if err != nil {
		color.Red("failed to create context: %s", err)
		return exitUsageError
	}

	ev := script.NewEvaluator(ctx)
	for _, line := range prog.Lines {
		result, err := ev.Run(line)
		if err != nil {
			color.Red("error: %s", err)
			return exitUsageError
		}
		switch {
		case result.Exit:
			return exitSuccess
		case result.CheckSat:
			if reportCheckSat(ctx) == sat.StatusInterrupted {
				return exitInterrupted
			}
		case result.GetModel:
			reportGetModel(ctx)
		}
	}

	if f.stats {
		color.Cyan("declared %d variables, %d assertions, %d check-sat calls",
			ev.Stats.Declared, ev.Stats.Asserted, ev.Stats.Checks)
	}
	return exitSuccess
}

func reportCheckSat(ctx *context.Context) sat.Status {
	status := ctx.CheckSat()
	switch status {
	case sat.StatusSAT:
		color.Green("sat")
	case sat.StatusUNSAT:
		color.Red("unsat")
	case sat.StatusInterrupted:
		color.Yellow("interrupted")
	default:
		color.Yellow("unknown")
	}
	return status
}

func reportGetModel(ctx *context.Context) {
	m := ctx.BuildModel()
	if m == nil {
		color.Yellow("(no model: run check-sat first)")
		return
	}
	fmt.Println("(model)")
}

func parseFlags(args []string) (flags, bool, bool, error) {
	var f flags
	var showVersion, showHelp bool

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--version" || a == "-V":
			showVersion = true
		case a == "--help" || a == "-h":
			showHelp = true
		case a == "--stats" || a == "-s":
			f.stats = true
		case a == "--incremental":
			f.incremental = true
		case a == "--interactive":
			f.interactive = true
		case strings.HasPrefix(a, "--verbosity="):
			n, err := parseVerbosity(strings.TrimPrefix(a, "--verbosity="))
			if err != nil {
				return f, false, false, err
			}
			f.verbosity = n
		case a == "-v":
			if i+1 >= len(args) {
				return f, false, false, fmt.Errorf("-v requires an argument")
			}
			i++
			n, err := parseVerbosity(args[i])
			if err != nil {
				return f, false, false, err
			}
			f.verbosity = n
		case strings.HasPrefix(a, "-"):
			return f, false, false, fmt.Errorf("unknown option %q", a)
		default:
			if f.path != "" {
				return f, false, false, fmt.Errorf("unexpected extra argument %q", a)
			}
			f.path = a
		}
	}
	return f, showVersion, showHelp, nil
}

func parseVerbosity(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid verbosity %q", s)
	}
	return n, nil
}

func printUsage() {
	fmt.Println("Usage: qfbv-check [options] [file]")
	fmt.Println("Options:")
	fmt.Println("  --version, -V        print version and exit")
	fmt.Println("  --help, -h           print this help and exit")
	fmt.Println("  --stats, -s          print solver statistics after each run")
	fmt.Println("  --verbosity=N, -v N  set logging verbosity")
	fmt.Println("  --incremental        allow push/pop commands in the script")
	fmt.Println("  --interactive        enter the interactive REPL instead of reading a script")
}
