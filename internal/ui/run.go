package ui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bsuir-rt/rtutils/internal/parser"
)

// terminalStreams picks the streams the browser draws on. When stdout is
// redirected the browser still needs a terminal, so it opens /dev/tty and
// points lipgloss at it for colour detection. release closes what was opened.
func terminalStreams() (in, out *os.File, release func()) {
	if info, err := os.Stdout.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
		return os.Stdin, os.Stdout, func() {}
	}

	var opened []*os.File
	open := func(flag int, fallback *os.File) *os.File {
		f, err := os.OpenFile("/dev/tty", flag, 0)
		if err != nil {
			return fallback
		}
		opened = append(opened, f)
		return f
	}
	out = open(os.O_WRONLY, os.Stderr)
	in = open(os.O_RDONLY, os.Stdin)
	lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))

	return in, out, func() {
		for _, f := range opened {
			f.Close()
		}
	}
}

// Browse opens the project browser over the resolved projects
func Browse(projects []*parser.Project) error {
	if len(projects) == 0 {
		return fmt.Errorf("no projects to browse")
	}

	in, out, release := terminalStreams()
	defer release()
	RefreshStyles()

	p := tea.NewProgram(newBrowserModel(projects), tea.WithAltScreen(), tea.WithOutput(out), tea.WithInput(in))
	_, err := p.Run()
	return err
}
