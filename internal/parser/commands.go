package parser

// Action is the effect of a recognised command
type Action int

const (
	ActionUnknown Action = iota // Not in the table, reported as a warning
	ActionNoop                  // Recognised, nothing to extract
	ActionInclude               // Records its mandatory arguments as file references
)

// commandTable maps exact, case-sensitive command names to their action.
// Recognising a new command is a table entry.
var commandTable = map[string]Action{
	"input":              ActionInclude,
	"NewDocumentCommand": ActionNoop,
	"usepackage":         ActionNoop,
	"documentclass":      ActionNoop,
}

// Lookup returns the action for a command name
func Lookup(name string) Action {
	return commandTable[name]
}

// ArgumentKind distinguishes {mandatory} from [optional] arguments
type ArgumentKind int

const (
	ArgumentMandatory ArgumentKind = iota
	ArgumentOptional
)

// Argument is one delimiter-separated value of a command argument
type Argument struct {
	Kind  ArgumentKind
	Value string
}

// dispatch applies the active command's action to its extracted arguments
func (p *Parser) dispatch(args []Argument) {
	switch Lookup(p.commandName) {
	case ActionInclude:
		for _, arg := range args {
			if arg.Kind == ArgumentMandatory {
				p.pending = append(p.pending, arg.Value)
			}
		}
	case ActionNoop:
	default:
		p.warnings++
		p.sink.UnknownCommand(p.commandName)
	}
}
