package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// ============================================================================
// Sink Interface
// ============================================================================

// Sink receives the progress and diagnostic lines produced while generating documentation
type Sink interface {
	Banner()
	Project(name string)
	Parsing(file string)
	UnknownCommand(name string)
}

// ============================================================================
// Reporter
// ============================================================================

// Reporter writes progress lines to out and diagnostics to errOut.
// Colour is only applied when the underlying writer is a terminal.
type Reporter struct {
	out    io.Writer
	errOut io.Writer

	banner  lipgloss.Style
	project lipgloss.Style
	parsing lipgloss.Style
	warning lipgloss.Style
}

// New creates a reporter writing to the given streams
func New(out, errOut io.Writer) *Reporter {
	outRenderer := lipgloss.NewRenderer(out)
	errRenderer := lipgloss.NewRenderer(errOut)
	return &Reporter{
		out:     out,
		errOut:  errOut,
		banner:  outRenderer.NewStyle().Bold(true),
		project: outRenderer.NewStyle().Foreground(lipgloss.Color("36")),
		parsing: outRenderer.NewStyle().Foreground(lipgloss.Color("90")),
		warning: errRenderer.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	}
}

// Banner prints the run header, once per generation
func (r *Reporter) Banner() {
	fmt.Fprintln(r.out, r.banner.Render("Generating documentation..."))
}

// Project prints the per-project header
func (r *Reporter) Project(name string) {
	fmt.Fprintln(r.out, r.project.Render(fmt.Sprintf(" -> Generating documentation for %s...", name)))
}

// Parsing prints the name of a file about to be parsed, relative to its project source
func (r *Reporter) Parsing(file string) {
	fmt.Fprintln(r.out, r.parsing.Render(fmt.Sprintf("  => Parsing %s", file)))
}

// UnknownCommand reports a command missing from the dispatch table
func (r *Reporter) UnknownCommand(name string) {
	fmt.Fprintf(r.errOut, "%s Unknown command: %s\n", r.warning.Render("[WARNING]"), name)
}

// Errorf reports an aborting failure
func (r *Reporter) Errorf(format string, args ...any) {
	fmt.Fprintf(r.errOut, "Error: "+format+"\n", args...)
}

// ============================================================================
// Discard
// ============================================================================

type discard struct{}

func (discard) Banner()               {}
func (discard) Project(string)        {}
func (discard) Parsing(string)        {}
func (discard) UnknownCommand(string) {}

// Discard is a sink that drops everything
var Discard Sink = discard{}
