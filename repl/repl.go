// Package repl SPDX-License-Identifier: Apache-2.0
//
// repl is an interactive assertion-script loop: each line is parsed and
// evaluated against a single long-lived context, the same round-trip
// cmd/qfbv-check runs in batch over a whole file, adapted from the
// teacher's repl package (which fed each line to its lexer/parser and
// printed the resulting AST) to drive internal/context instead and
// print sat/unsat after check_sat.
package repl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fatih/color"

	"qfbv/internal/context"
	"qfbv/internal/sat"
	"qfbv/internal/script"
)

const prompt = "qfbv> "

// Start runs the interactive loop against ctx until in is exhausted or
// an exit command is read.
func Start(in io.Reader, ctx *context.Context) {
	parser, err := script.BuildParser()
	if err != nil {
		color.Red("failed to build parser: %s", err)
		return
	}
	ev := script.NewEvaluator(ctx)
	scanner := bufio.NewScanner(in)

	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		prog, err := parser.ParseString("<repl>", line)
		if err != nil {
			color.Red("syntax error: %s", err)
			continue
		}

		for _, l := range prog.Lines {
			result, err := ev.Run(l)
			if err != nil {
				color.Red("error: %s", err)
				continue
			}
			switch {
			case result.Exit:
				return
			case result.CheckSat:
				printCheckSat(ctx)
			case result.GetModel:
				printModel(ctx)
			}
		}
	}
}

func printCheckSat(ctx *context.Context) {
	switch ctx.CheckSat() {
	case sat.StatusSAT:
		color.Green("sat")
	case sat.StatusUNSAT:
		color.Red("unsat")
	case sat.StatusInterrupted:
		color.Yellow("interrupted")
	default:
		color.Yellow("unknown")
	}
}

func printModel(ctx *context.Context) {
	if ctx.BuildModel() == nil {
		color.Yellow("(no model: run check_sat first)")
		return
	}
	fmt.Println("(model)")
}
