package grammar

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Parse matches text against the grammar starting at the given root rule.
// Only RuleDocument is a valid root. A *SyntaxError is returned for any text
// the grammar rejects.
func Parse(rule Rule, filename, text string) (*Node, error) {
	if rule != RuleDocument {
		return nil, fmt.Errorf("grammar: %s is not a root rule", rule)
	}
	tokens, err := tokenize(filename, text)
	if err != nil {
		return nil, err
	}
	p := &parser{
		source: text,
		tokens: tokens,
		limit:  len(tokens) - 1,
	}
	return p.document()
}

// parser is a recursive-descent matcher over a token slice. limit is the
// index of the token treated as end of input; comments lower it to the end
// of their line.
type parser struct {
	source string
	tokens []lexer.Token
	pos    int
	limit  int
}

func (p *parser) peek() lexer.Token {
	if p.pos >= p.limit {
		return lexer.Token{Type: lexer.EOF, Pos: p.tokens[p.limit].Pos}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() lexer.Token {
	tok := p.peek()
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) atLineEnd() bool {
	t := p.peek().Type
	return t == lexer.EOF || t == tokNewline
}

// lineEnd returns the index of the newline closing the current line, or the limit
func (p *parser) lineEnd() int {
	i := p.pos
	for i < p.limit && p.tokens[i].Type != tokNewline {
		i++
	}
	return i
}

// between returns the source text covered by tokens[from:to]
func (p *parser) between(from, to int) string {
	if from < 0 || to <= from {
		return ""
	}
	last := p.tokens[to-1]
	return p.source[p.tokens[from].Pos.Offset : last.Pos.Offset+len(last.Value)]
}

// appendText adds a leaf for tokens[from:to] when that range is not empty
func (p *parser) appendText(children []*Node, rule Rule, from, to int) []*Node {
	if from < 0 || to <= from {
		return children
	}
	return append(children, &Node{Rule: rule, Pos: p.tokens[from].Pos, Text: p.between(from, to)})
}

func (p *parser) errorf(tok lexer.Token, format string, args ...any) error {
	return &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

func describe(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Value)
}

// ============================================================================
// Productions
// ============================================================================

func (p *parser) document() (*Node, error) {
	doc := &Node{Rule: RuleDocument, Pos: p.peek().Pos, Text: p.source}
	for {
		tok := p.peek()
		switch tok.Type {
		case lexer.EOF:
			doc.Children = append(doc.Children, &Node{Rule: RuleEOI, Pos: tok.Pos})
			return doc, nil
		case tokNewline, tokWhitespace:
			p.next()
		default:
			expr, err := p.expression()
			if err != nil {
				return nil, err
			}
			doc.Children = append(doc.Children, expr)
		}
	}
}

func (p *parser) expression() (*Node, error) {
	start := p.pos
	tok := p.peek()

	var child *Node
	switch tok.Type {
	case tokDocAnchor:
		child = p.docComment()
	case tokPercent:
		child = p.comment()
	case tokControl:
		cmd, err := p.command()
		if err != nil {
			return nil, err
		}
		child = cmd
	case tokRBrace:
		return nil, p.errorf(tok, "unexpected %q outside an argument", tok.Value)
	default:
		body, err := p.body()
		if err != nil {
			return nil, err
		}
		child = body
	}

	return &Node{
		Rule:     RuleExpression,
		Pos:      tok.Pos,
		Text:     p.between(start, p.pos),
		Children: []*Node{child},
	}, nil
}

// docComment matches the anchor and takes the rest of the line as payload
func (p *parser) docComment() *Node {
	start := p.pos
	anchor := p.next()
	payloadPos := p.peek().Pos
	payload := p.pos
	for !p.atLineEnd() {
		p.next()
	}
	return &Node{
		Rule: RuleDocComment,
		Pos:  anchor.Pos,
		Text: p.between(start, p.pos),
		Children: []*Node{
			{Rule: RuleDocAnchor, Pos: anchor.Pos, Text: anchor.Value},
			{Rule: RuleDocText, Pos: payloadPos, Text: p.between(payload, p.pos)},
		},
	}
}

// comment matches a regular comment up to the end of its line. Commands that
// parse within the line become children; anything else is comment text.
func (p *parser) comment() *Node {
	start := p.pos
	percent := p.next()
	node := &Node{Rule: RuleComment, Pos: percent.Pos}

	limit := p.limit
	p.limit = p.lineEnd()
	defer func() { p.limit = limit }()

	text := -1
	for p.peek().Type != lexer.EOF {
		mark := p.pos
		var child *Node
		switch p.peek().Type {
		case tokDocAnchor:
			child = p.docComment()
		case tokPercent:
			child = p.comment()
		case tokControl:
			if cmd, err := p.command(); err == nil {
				child = cmd
			} else {
				p.pos = mark
			}
		}
		if child == nil {
			if text < 0 {
				text = p.pos
			}
			p.next()
			continue
		}
		node.Children = p.appendText(node.Children, RuleCommentText, text, mark)
		node.Children = append(node.Children, child)
		text = -1
	}
	node.Children = p.appendText(node.Children, RuleCommentText, text, p.pos)
	node.Text = p.between(start, p.pos)
	return node
}

// body matches running text and brace groups up to the next command or
// comment. It is tagged Command but carries no Name leaf, only Text leaves and
// Mandatory groups. Trailing blanks are left for the document to skip.
func (p *parser) body() (*Node, error) {
	start := p.pos
	node := &Node{Rule: RuleCommand, Pos: p.peek().Pos}

	text := -1
	end := p.pos
	for {
		tok := p.peek()
		switch tok.Type {
		case lexer.EOF, tokControl, tokPercent, tokDocAnchor, tokRBrace:
			node.Children = p.appendText(node.Children, RuleText, text, end)
			p.pos = end
			node.Text = p.between(start, p.pos)
			return node, nil
		case tokLBrace:
			node.Children = p.appendText(node.Children, RuleText, text, end)
			text = -1
			group, err := p.argument(RuleMandatory, tokRBrace)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, group)
			end = p.pos
		case tokNewline, tokWhitespace:
			p.next()
		default:
			if text < 0 {
				text = p.pos
			}
			p.next()
			end = p.pos
		}
	}
}

func (p *parser) command() (*Node, error) {
	start := p.pos
	tok := p.next()
	node := &Node{
		Rule:     RuleCommand,
		Pos:      tok.Pos,
		Children: []*Node{{Rule: RuleName, Pos: tok.Pos, Text: strings.TrimPrefix(tok.Value, `\`)}},
	}

	for {
		mark := p.pos
		for p.peek().Type == tokWhitespace {
			p.next()
		}

		var arg *Node
		var err error
		switch p.peek().Type {
		case tokLBrace:
			arg, err = p.argument(RuleMandatory, tokRBrace)
		case tokLBracket:
			arg, err = p.argument(RuleOptional, tokRBracket)
		default:
			p.pos = mark
			node.Text = p.between(start, p.pos)
			return node, nil
		}
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, arg)
	}
}

// argument matches an opening bracket, delimiter-separated contents and the
// matching closing bracket
func (p *parser) argument(rule Rule, closing lexer.TokenType) (*Node, error) {
	start := p.pos
	open := p.next()
	node := &Node{Rule: rule, Pos: open.Pos}

	for {
		content, err := p.content(open, closing)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, content)

		tok := p.next()
		if tok.Type == closing {
			node.Text = p.between(start, p.pos)
			return node, nil
		}
		node.Children = append(node.Children, &Node{Rule: RuleDelimiter, Pos: tok.Pos, Text: tok.Value})
	}
}

// content matches one argument slot, stopping before a delimiter or the closing bracket
func (p *parser) content(open lexer.Token, closing lexer.TokenType) (*Node, error) {
	start := p.pos
	node := &Node{Rule: RuleContent, Pos: p.peek().Pos}

	text := -1
	for {
		tok := p.peek()
		if tok.Type == closing || tok.Type == tokComma {
			break
		}

		mark := p.pos
		var child *Node
		var err error
		switch tok.Type {
		case lexer.EOF:
			return nil, p.errorf(open, "unbalanced %q: no closing bracket before %s", open.Value, describe(tok))
		case tokRBrace:
			return nil, p.errorf(tok, "unexpected %q inside %q argument", tok.Value, open.Value)
		case tokControl:
			child, err = p.command()
		case tokLBrace:
			child, err = p.argument(RuleMandatory, tokRBrace)
		case tokPercent:
			child = p.comment()
		case tokDocAnchor:
			child = p.docComment()
		default:
			if text < 0 {
				text = p.pos
			}
			p.next()
			continue
		}
		if err != nil {
			return nil, err
		}
		node.Children = p.appendText(node.Children, RuleText, text, mark)
		node.Children = append(node.Children, child)
		text = -1
	}

	node.Children = p.appendText(node.Children, RuleText, text, p.pos)
	node.Text = p.between(start, p.pos)
	return node, nil
}
