package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bsuir-rt/rtutils/internal/parser"
)

// ============================================================================
// Render Buffers
// ============================================================================

// renderBuffers recycles the builders used by View; the preview is rebuilt on
// every cursor move
var renderBuffers = sync.Pool{
	New: func() any { return new(strings.Builder) },
}

func acquireBuilder() *strings.Builder {
	b := renderBuffers.Get().(*strings.Builder)
	b.Reset()
	return b
}

// releaseBuilder drops builders that grew past 64KiB instead of pooling them
func releaseBuilder(b *strings.Builder) {
	if b.Cap() <= 64<<10 {
		renderBuffers.Put(b)
	}
}

// ============================================================================
// Project Item
// ============================================================================

// projectItem wraps a resolved project with its lowercased search text
type projectItem struct {
	project    *parser.Project
	searchText string
}

func newProjectItem(project *parser.Project) projectItem {
	fields := []string{project.Name}
	fields = append(fields, project.Files...)
	fields = append(fields, project.References...)
	return projectItem{
		project:    project,
		searchText: strings.ToLower(strings.Join(fields, " ")),
	}
}

// ============================================================================
// Browser Model
// ============================================================================

const previewHeight = 12

// browserModel lists resolved projects and previews the selected one
type browserModel struct {
	projects []projectItem
	filtered []projectItem
	cursor   int
	offset   int

	textInput textinput.Model
	preview   viewport.Model

	width    int
	height   int
	quitting bool
}

func newBrowserModel(projects []*parser.Project) browserModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter projects, files or references..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	items := make([]projectItem, len(projects))
	for i, project := range projects {
		items[i] = newProjectItem(project)
	}

	m := browserModel{
		projects:  items,
		filtered:  items,
		textInput: ti,
		preview:   viewport.New(80, previewHeight),
	}
	m.refreshPreview()
	return m
}

// Init implements tea.Model
func (m browserModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 4
		m.preview.Width = max(msg.Width, 20)
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	prev := m.textInput.Value()
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.textInput.Value() != prev {
		m.filterProjects()
	}
	return m, cmd
}

// handleKey processes navigation keys; everything else goes to the filter input
func (m *browserModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit, true
	case "up", "ctrl+p":
		m.moveCursor(-1)
	case "down", "ctrl+n":
		m.moveCursor(1)
	case "pgup":
		m.preview.SetYOffset(m.preview.YOffset - m.preview.Height)
	case "pgdown":
		m.preview.SetYOffset(m.preview.YOffset + m.preview.Height)
	case "home", "ctrl+a":
		m.moveCursor(-len(m.filtered))
	case "end", "ctrl+e":
		m.moveCursor(len(m.filtered))
	default:
		return nil, false
	}
	return nil, true
}

func (m *browserModel) moveCursor(delta int) {
	if len(m.filtered) == 0 {
		return
	}
	next := clamp(m.cursor+delta, 0, len(m.filtered)-1)
	if next != m.cursor {
		m.cursor = next
		m.refreshPreview()
	}
}

// filterProjects keeps the projects matching every word of the query
func (m *browserModel) filterProjects() {
	words := strings.Fields(strings.ToLower(m.textInput.Value()))
	if len(words) == 0 {
		m.filtered = m.projects
	} else {
		m.filtered = m.filtered[:0:0]
		for _, item := range m.projects {
			if containsAll(item.searchText, words) {
				m.filtered = append(m.filtered, item)
			}
		}
	}
	m.cursor = 0
	m.offset = 0
	m.refreshPreview()
}

func (m browserModel) selected() *parser.Project {
	if m.cursor < len(m.filtered) {
		return m.filtered[m.cursor].project
	}
	return nil
}

func (m *browserModel) refreshPreview() {
	m.preview.SetContent(renderProject(m.selected()))
	m.preview.GotoTop()
}

// ============================================================================
// Rendering
// ============================================================================

// View implements tea.Model
func (m browserModel) View() string {
	if m.quitting {
		return ""
	}

	width := max(m.width, 80)
	height := max(m.height, 24)

	inputLines := 3 // divider + info + input
	listHeight := max(height-previewHeight-1-inputLines, 3)
	list := m.renderList(listHeight)
	padding := max(listHeight-countLines(list), 0)

	b := acquireBuilder()
	defer releaseBuilder(b)
	b.WriteString(m.preview.View())
	b.WriteString("\n")
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(list)
	b.WriteString(strings.Repeat("\n", padding))
	b.WriteString(m.renderInput(width))
	return b.String()
}

// renderProject renders the preview for one project
func renderProject(project *parser.Project) string {
	if project == nil {
		return styles.Dim.Render("No matching project")
	}

	b := acquireBuilder()
	defer releaseBuilder(b)

	b.WriteString(styles.PreviewHeader.Render(project.Name))
	b.WriteString("\n")
	b.WriteString(styles.PreviewPath.Render(project.Root))
	b.WriteString("\n\n")

	b.WriteString(styles.PreviewTitle.Render(fmt.Sprintf("Parsed files (%d)", len(project.Files))))
	b.WriteString("\n")
	for _, file := range project.Files {
		b.WriteString("  " + file + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.PreviewTitle.Render(fmt.Sprintf("References (%d)", len(project.References))))
	b.WriteString("\n")
	for i, ref := range project.References {
		if i < project.Drained {
			b.WriteString("  " + ref + "\n")
		} else {
			b.WriteString("  " + styles.Unvisited.Render(ref+" (not parsed)") + "\n")
		}
	}

	if project.Warnings > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Warning.Render(fmt.Sprintf("%d unknown command warning(s)", project.Warnings)))
	}
	return b.String()
}

// renderList renders the scrollable list of projects
func (m *browserModel) renderList(maxHeight int) string {
	if len(m.filtered) == 0 {
		return ""
	}

	start, end := visibleRange(m.cursor, len(m.filtered), maxHeight, &m.offset)

	b := acquireBuilder()
	defer releaseBuilder(b)
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(m.filtered[i].project, i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func renderListItem(project *parser.Project, selected bool) string {
	counts := fmt.Sprintf("%d files, %d refs", len(project.Files), len(project.References))
	if project.Warnings > 0 {
		counts += fmt.Sprintf(", %d warnings", project.Warnings)
	}

	if selected {
		return styles.Cursor.Render("> ") +
			styles.WithSelection(styles.Name).Render(project.Name) +
			styles.WithSelection(styles.Dim).Render("  ") +
			styles.WithSelection(styles.Counts).Render(counts)
	}
	return "  " + styles.Name.Render(project.Name) + "  " + styles.Counts.Render(counts)
}

// renderInput renders the input section at the bottom
func (m browserModel) renderInput(width int) string {
	b := acquireBuilder()
	defer releaseBuilder(b)
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  %d/%d", len(m.filtered), len(m.projects))))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("PgUp/PgDn scroll"))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("ESC exit"))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	return b.String()
}

// ============================================================================
// Helpers
// ============================================================================

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// countLines counts newline-terminated lines
func countLines(s string) int {
	return strings.Count(s, "\n")
}

// visibleRange returns the [start, end) slice of a list of total rows that
// fits in height rows with cursor on screen. offset is the first visible row
// and is updated in place so the list only scrolls when the cursor leaves it.
func visibleRange(cursor, total, height int, offset *int) (start, end int) {
	switch {
	case cursor < *offset:
		*offset = cursor
	case cursor >= *offset+height:
		*offset = cursor - height + 1
	}
	*offset = clamp(*offset, 0, max(0, total-height))
	return *offset, min(*offset+height, total)
}

// containsAll reports whether every filter word occurs in text
func containsAll(text string, words []string) bool {
	for _, word := range words {
		if !strings.Contains(text, word) {
			return false
		}
	}
	return true
}
