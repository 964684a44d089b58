package irtext

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var mirLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `//[^\n]*`, nil},

		// Keywords and identifiers (keywords are matched literally in
		// the grammar)
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Integer literals
		{"Integer", `-?[0-9]+`, nil},

		// Punctuation
		{"Punct", `[{}()\[\]=:,]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
