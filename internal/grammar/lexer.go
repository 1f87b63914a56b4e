package grammar

import (
	"errors"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token rules, first match wins
var documentLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "DocAnchor", Pattern: `%>`},
	{Name: "Percent", Pattern: `%`},
	{Name: "Newline", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t\r\f]+`},
	{Name: "Control", Pattern: `\\(?:[a-zA-Z@]+\*?|[^a-zA-Z@])`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Word", Pattern: `[^\\{}\[\],%\s]+`},
})

var (
	tokDocAnchor  = documentLexer.Symbols()["DocAnchor"]
	tokPercent    = documentLexer.Symbols()["Percent"]
	tokNewline    = documentLexer.Symbols()["Newline"]
	tokWhitespace = documentLexer.Symbols()["Whitespace"]
	tokControl    = documentLexer.Symbols()["Control"]
	tokLBrace     = documentLexer.Symbols()["LBrace"]
	tokRBrace     = documentLexer.Symbols()["RBrace"]
	tokLBracket   = documentLexer.Symbols()["LBracket"]
	tokRBracket   = documentLexer.Symbols()["RBracket"]
	tokComma      = documentLexer.Symbols()["Comma"]
)

// tokenize lexes the whole text. The returned slice always ends with an EOF token.
func tokenize(filename, text string) ([]lexer.Token, error) {
	lex, err := documentLexer.LexString(filename, text)
	if err != nil {
		return nil, lexError(filename, err)
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, lexError(filename, err)
	}
	return tokens, nil
}

func lexError(filename string, err error) *SyntaxError {
	var positioned interface {
		Position() lexer.Position
		Message() string
	}
	if errors.As(err, &positioned) {
		return &SyntaxError{Pos: positioned.Position(), Msg: positioned.Message()}
	}
	return &SyntaxError{Pos: lexer.Position{Filename: filename}, Msg: err.Error()}
}
