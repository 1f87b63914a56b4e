package parser

import (
	"fmt"
	"strings"

	"github.com/bsuir-rt/rtutils/internal/grammar"
)

// StructuralError reports a node whose rule is not expected at its position
// in the tree. It means the walker and the grammar disagree, not that the
// document is malformed.
type StructuralError struct {
	File   string
	Parent grammar.Rule
	Node   *grammar.Node
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s:%d:%d: unexpected %s node in %s",
		e.File, e.Node.Pos.Line, e.Node.Pos.Column, e.Node.Rule, e.Parent)
}

// Annotation is the payload of a documentation comment
type Annotation struct {
	File   string
	Line   int
	Column int
	Anchor string
	Text   string
}

func (p *Parser) mismatch(parent, node *grammar.Node) error {
	return &StructuralError{File: p.file, Parent: parent.Rule, Node: node}
}

// ============================================================================
// Node Classifier
// ============================================================================

// walk interprets a whole document tree
func (p *Parser) walk(doc *grammar.Node) error {
	if doc.Rule != grammar.RuleDocument {
		return &StructuralError{File: p.file, Parent: grammar.RuleDocument, Node: doc}
	}
	for _, child := range doc.Children {
		switch child.Rule {
		case grammar.RuleExpression:
			if err := p.visitExpression(child); err != nil {
				return err
			}
		case grammar.RuleEOI:
		default:
			return p.mismatch(doc, child)
		}
	}
	return nil
}

func (p *Parser) visitExpression(expr *grammar.Node) error {
	if len(expr.Children) != 1 {
		return &StructuralError{File: p.file, Parent: grammar.RuleDocument, Node: expr}
	}
	child := expr.Children[0]
	switch child.Rule {
	case grammar.RuleDocComment:
		return p.visitDocComment(child)
	case grammar.RuleComment:
		return p.skimComment(child)
	case grammar.RuleCommand:
		if len(child.Children) > 0 && child.Children[0].Rule != grammar.RuleName {
			return p.skimBody(child)
		}
		return p.visitCommand(child)
	}
	return p.mismatch(expr, child)
}

// skimBody checks a run of body text: text leaves and brace groups, never dispatched
func (p *Parser) skimBody(node *grammar.Node) error {
	for _, child := range node.Children {
		var err error
		switch child.Rule {
		case grammar.RuleText:
		case grammar.RuleMandatory:
			_, err = p.arguments(child)
		default:
			err = p.mismatch(node, child)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// Comment Interpreter
// ============================================================================

// visitDocComment hands a top-level documentation comment to the annotation
// hook, or traces it when no hook is set
func (p *Parser) visitDocComment(node *grammar.Node) error {
	if err := p.skimComment(node); err != nil {
		return err
	}

	annotation := Annotation{
		File:   p.file,
		Line:   node.Pos.Line,
		Column: node.Pos.Column,
		Anchor: node.Children[0].Text,
		Text:   strings.TrimSpace(node.Children[1].Text),
	}
	if p.annotate != nil {
		p.annotate(annotation)
		return nil
	}
	p.log.Debug().
		Str("file", annotation.File).
		Int("line", annotation.Line).
		Str("text", annotation.Text).
		Msg("documentation comment")
	return nil
}

// skimComment checks the shape of a comment subtree without acting on it.
// Commands inside comments are commented out and never dispatched.
func (p *Parser) skimComment(node *grammar.Node) error {
	switch node.Rule {
	case grammar.RuleDocComment:
		if len(node.Children) != 2 {
			return &StructuralError{File: p.file, Parent: grammar.RuleExpression, Node: node}
		}
		if node.Children[0].Rule != grammar.RuleDocAnchor {
			return p.mismatch(node, node.Children[0])
		}
		if node.Children[1].Rule != grammar.RuleDocText {
			return p.mismatch(node, node.Children[1])
		}
		return nil

	case grammar.RuleComment:
		for _, child := range node.Children {
			var err error
			switch child.Rule {
			case grammar.RuleCommentText:
			case grammar.RuleComment, grammar.RuleDocComment:
				err = p.skimComment(child)
			case grammar.RuleCommand:
				err = p.skimCommand(child)
			default:
				err = p.mismatch(node, child)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}
	return &StructuralError{File: p.file, Parent: grammar.RuleExpression, Node: node}
}

// ============================================================================
// Command Interpreter
// ============================================================================

// visitCommand makes the command's name active, extracts its arguments and
// dispatches once on the name
func (p *Parser) visitCommand(node *grammar.Node) error {
	name, args, err := p.readCommand(node)
	if err != nil {
		return err
	}
	p.commandName = name
	p.dispatch(args)
	return nil
}

// skimCommand checks the shape of a nested command without dispatching it
func (p *Parser) skimCommand(node *grammar.Node) error {
	_, _, err := p.readCommand(node)
	return err
}

func (p *Parser) readCommand(node *grammar.Node) (string, []Argument, error) {
	if len(node.Children) == 0 {
		return "", nil, &StructuralError{File: p.file, Parent: grammar.RuleExpression, Node: node}
	}
	if node.Children[0].Rule != grammar.RuleName {
		return "", nil, p.mismatch(node, node.Children[0])
	}

	var args []Argument
	for _, child := range node.Children[1:] {
		switch child.Rule {
		case grammar.RuleMandatory, grammar.RuleOptional:
			extracted, err := p.arguments(child)
			if err != nil {
				return "", nil, err
			}
			args = append(args, extracted...)
		default:
			return "", nil, p.mismatch(node, child)
		}
	}
	return node.Children[0].Text, args, nil
}

// arguments splits one bracketed argument into its delimiter-separated values
func (p *Parser) arguments(arg *grammar.Node) ([]Argument, error) {
	kind := ArgumentMandatory
	if arg.Rule == grammar.RuleOptional {
		kind = ArgumentOptional
	}

	var args []Argument
	for _, child := range arg.Children {
		switch child.Rule {
		case grammar.RuleDelimiter:
		case grammar.RuleContent:
			value, err := p.contentValue(child)
			if err != nil {
				return nil, err
			}
			args = append(args, Argument{Kind: kind, Value: value})
		default:
			return nil, p.mismatch(arg, child)
		}
	}
	return args, nil
}

// contentValue joins the text leaves of one argument slot. Nested commands,
// groups and comments are checked for shape but contribute nothing.
func (p *Parser) contentValue(content *grammar.Node) (string, error) {
	var b strings.Builder
	for _, child := range content.Children {
		var err error
		switch child.Rule {
		case grammar.RuleText:
			b.WriteString(child.Text)
		case grammar.RuleCommand:
			err = p.skimCommand(child)
		case grammar.RuleMandatory:
			_, err = p.arguments(child)
		case grammar.RuleComment, grammar.RuleDocComment:
			err = p.skimComment(child)
		default:
			err = p.mismatch(content, child)
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(b.String()), nil
}
