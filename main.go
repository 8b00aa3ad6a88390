// SPDX-License-Identifier: Apache-2.0
//
// This is the module's simplest entry point: run an assertion script
// file with no flags, the same shape as the teacher's root main.go
// (one positional file argument, colored pass/fail). cmd/qfbv-check is
// the full CLI with the flag surface of spec.md §6; this one mirrors
// how the teacher keeps both a bare root main.go and a fuller
// cmd/kanso-cli pointed at the same parser.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"qfbv/internal/config"
	"qfbv/internal/context"
	"qfbv/internal/sat"
	"qfbv/internal/script"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: qfbv <file.qfbv>")
		os.Exit(1)
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("Failed to read file: %s", err)
		os.Exit(1)
	}

	parser, err := script.BuildParser()
	if err != nil {
		color.Red("Parser build failed: %s", err)
		os.Exit(1)
	}

	prog, err := parser.ParseString(path, string(source))
	if err != nil {
		color.Red("Syntax error: %s", err)
		os.Exit(1)
	}

	ctx, err := context.New(config.ArchBV, config.ModePushPop, config.Default)
	if err != nil {
		color.Red("Failed to create context: %s", err)
		os.Exit(1)
	}

	ev := script.NewEvaluator(ctx)
	for _, line := range prog.Lines {
		result, err := ev.Run(line)
		if err != nil {
			color.Red("Error: %s", err)
			os.Exit(1)
		}
		if result.Exit {
			break
		}
		if result.CheckSat {
			switch ctx.CheckSat() {
			case sat.StatusSAT:
				fmt.Println("sat")
			case sat.StatusUNSAT:
				fmt.Println("unsat")
			default:
				fmt.Println("unknown")
			}
		}
	}

	color.Green("✅ Successfully processed %s", path)
}
