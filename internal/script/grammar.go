// Package script implements the assertion-script mini-language shared by
// cmd/qfbv-check (batch mode) and repl/ (interactive mode): a
// line-oriented command set over internal/context's programmatic API,
// in place of the out-of-scope SMT-LIB2 front end (SPEC_FULL.md §2).
//
// Grounded on the teacher's grammar package (participle.Build +
// lexer.MustStateful), trimmed from a full contract-language surface to
// the handful of commands a constructor-call script needs.
package script

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes the mini-language the same way the teacher's
// grammar.KansoLexer does, built with the same
// lexer.MustStateful(lexer.Rules{...}) shape.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `;[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `0x[0-9a-fA-F]+|[0-9]+`, nil},
		{"Punct", `[()]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

// Script is the root grammar node: a sequence of commands.
type Script struct {
	Lines []*Line `@@*`
}

// Line is one command. Exactly one alternative matches, mirroring the
// teacher's Statement node's `| @@` alternation chain.
type Line struct {
	DeclareBV *DeclareBVCmd `  @@`
	Assert    *AssertCmd    `| @@`
	CheckSat  *CheckSatCmd  `| @@`
	GetModel  *GetModelCmd  `| @@`
	Push      *PushCmd      `| @@`
	Pop       *PopCmd       `| @@`
	Exit      *ExitCmd      `| @@`
}

type DeclareBVCmd struct {
	Name  string `"declare_bv" @Ident`
	Width int    `@Integer`
}

type AssertCmd struct {
	Expr *Expr `"assert" @@`
}

type CheckSatCmd struct {
	Marker bool `@"check_sat"`
}

type GetModelCmd struct {
	Marker bool `@"get_model"`
}

type PushCmd struct {
	Marker bool `@"push"`
}

type PopCmd struct {
	Marker bool `@"pop"`
}

type ExitCmd struct {
	Marker bool `@"exit"`
}

// Expr is either an atom (a declared name or an integer literal) or a
// parenthesized operator application; Call's Op is resolved against
// token.LookupOpcode at evaluation time rather than enumerated in the
// grammar, the way the teacher's ExprStmt defers operator meaning to
// the analyzer instead of the parser.
type Expr struct {
	Ident   string `  @Ident`
	Integer string `| @Integer`
	Call    *Call  `| @@`
}

type Call struct {
	Op   string  `"(" @Ident`
	Args []*Expr `@@* ")"`
}

// BuildParser constructs the participle parser for Script, the same
// participle.Build[T]/participle.Lexer/participle.Elide combination the
// teacher's main.go uses for the contract language.
func BuildParser() (*participle.Parser[Script], error) {
	return participle.Build[Script](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace", "Comment"),
	)
}
