package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsuir-rt/rtutils/internal/parser"
)

func testProjects() []*parser.Project {
	return []*parser.Project{
		{
			Name:       "bsuir-rt-backend",
			Source:     "/work/bsuir-rt-backend/src",
			Root:       "/work/bsuir-rt-backend/src/manifest.tex",
			Files:      []string{"manifest.tex", "a.tex"},
			References: []string{"a", "b"},
			Drained:    1,
			Warnings:   2,
		},
		{
			Name:       "bsuir-rt-frontend",
			Source:     "/work/bsuir-rt-frontend/src",
			Root:       "/work/bsuir-rt-frontend/src/manifest.tex",
			Files:      []string{"manifest.tex", "components.tex"},
			References: []string{"components"},
			Drained:    1,
		},
	}
}

func update(t *testing.T, m browserModel, msg tea.Msg) (browserModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(browserModel)
	require.True(t, ok)
	return result, cmd
}

func TestBrowserNavigation(t *testing.T) {
	m := newBrowserModel(testProjects())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Equal(t, "bsuir-rt-backend", m.selected().Name)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "bsuir-rt-frontend", m.selected().Name)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor, "cursor stays on the last project")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
}

func TestBrowserFilter(t *testing.T) {
	m := newBrowserModel(testProjects())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("components")})
	require.Len(t, m.filtered, 1)
	assert.Equal(t, "bsuir-rt-frontend", m.selected().Name)
	assert.Len(t, m.projects, 2)

	m.textInput.SetValue("missing")
	m.filterProjects()
	assert.Empty(t, m.filtered)
	assert.Nil(t, m.selected())
	assert.Contains(t, m.View(), "No matching project")
}

func TestBrowserQuit(t *testing.T) {
	m := newBrowserModel(testProjects())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestRenderProject(t *testing.T) {
	out := renderProject(testProjects()[0])

	assert.Contains(t, out, "bsuir-rt-backend")
	assert.Contains(t, out, "Parsed files (2)")
	assert.Contains(t, out, "  a.tex")
	assert.Contains(t, out, "References (2)")
	assert.Contains(t, out, "  a\n")
	assert.Contains(t, out, "b (not parsed)")
	assert.Contains(t, out, "2 unknown command warning(s)")
}

func TestBrowserView(t *testing.T) {
	m := newBrowserModel(testProjects())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	assert.Contains(t, view, "> ")
	assert.Contains(t, view, "bsuir-rt-frontend")
	assert.Contains(t, view, "2 files, 2 refs, 2 warnings")
	assert.Contains(t, view, "2/2")
}

func TestVisibleRange(t *testing.T) {
	offset := 0
	start, end := visibleRange(7, 10, 3, &offset)
	assert.Equal(t, 5, start)
	assert.Equal(t, 8, end)

	start, end = visibleRange(1, 10, 3, &offset)
	assert.Equal(t, 1, start)
	assert.Equal(t, 4, end)
}

func TestContainsAll(t *testing.T) {
	tests := []struct {
		name     string
		words    []string
		expected bool
	}{
		{"no words", nil, true},
		{"every word present", []string{"backend", "a.tex"}, true},
		{"one word missing", []string{"backend", "frontend"}, false},
	}

	item := newProjectItem(testProjects()[0])
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, containsAll(item.searchText, tt.words))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(-3, 0, 4))
	assert.Equal(t, 4, clamp(9, 0, 4))
	assert.Equal(t, 2, clamp(2, 0, 4))
}
