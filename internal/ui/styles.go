package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// StyleManager encapsulates all TUI styles
type StyleManager struct {
	// List view styles
	Name     lipgloss.Style
	Counts   lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Dim      lipgloss.Style

	// Preview styles
	PreviewHeader lipgloss.Style
	PreviewPath   lipgloss.Style
	PreviewTitle  lipgloss.Style
	Unvisited     lipgloss.Style
	Warning       lipgloss.Style

	// Chrome styles
	Divider lipgloss.Style

	// Colors for direct access
	SelectedBg lipgloss.Color
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Name:          lipgloss.NewStyle().Bold(true),
		Counts:        lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Selected:      lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Cursor:        lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:           lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		PreviewHeader: lipgloss.NewStyle().Bold(true),
		PreviewPath:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		PreviewTitle:  lipgloss.NewStyle().Underline(true),
		Unvisited:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Warning:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		Divider:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		SelectedBg:    lipgloss.Color("236"),
	}
}

// WithSelection returns a copy of the given style with the selected background applied
func (s *StyleManager) WithSelection(style lipgloss.Style) lipgloss.Style {
	return style.Background(s.SelectedBg)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles rebuilds the global styles against the current default renderer
func RefreshStyles() {
	styles = DefaultStyles()
}
