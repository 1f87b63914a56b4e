package grammar

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Rule identifies the grammar production a Node satisfies
type Rule int

const (
	RuleDocument    Rule = iota // Whole file
	RuleExpression              // Top-level wrapper around one comment, command or run of body text
	RuleDocComment              // %> documentation comment
	RuleDocAnchor               // The %> token itself
	RuleDocText                 // Payload after the anchor
	RuleComment                 // Regular % comment
	RuleCommentText             // Free text inside a regular comment
	RuleCommand                 // \name followed by arguments, or body text without a name
	RuleName                    // Command name leaf
	RuleMandatory               // {...} argument or nested brace group
	RuleOptional                // [...] argument
	RuleContent                 // One delimiter-separated slot of an argument
	RuleDelimiter               // Comma between argument contents
	RuleText                    // Text leaf inside content
	RuleEOI                     // End of input
)

var ruleNames = [...]string{
	RuleDocument:    "document",
	RuleExpression:  "expression",
	RuleDocComment:  "doc_comment",
	RuleDocAnchor:   "doc_anchor",
	RuleDocText:     "doc_text",
	RuleComment:     "comment",
	RuleCommentText: "comment_text",
	RuleCommand:     "command",
	RuleName:        "name",
	RuleMandatory:   "mandatory",
	RuleOptional:    "optional",
	RuleContent:     "content",
	RuleDelimiter:   "delimiter",
	RuleText:        "text",
	RuleEOI:         "EOI",
}

// String returns the production name
func (r Rule) String() string {
	if r >= 0 && int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return fmt.Sprintf("rule(%d)", int(r))
}

// Node is one element of a parse tree. Children are owned exclusively by
// their parent; Text is the raw source span the node matched.
type Node struct {
	Rule     Rule
	Text     string
	Pos      lexer.Position
	Children []*Node
}

// SyntaxError is returned when text does not match the grammar
type SyntaxError struct {
	Pos lexer.Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Msg)
}
