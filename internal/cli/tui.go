package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pkgsmith/pkg/errors"
	"github.com/matzehuels/pkgsmith/pkg/pkgbuild"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// manifestEntry is one selectable row: a manifest path plus the package
// identity when the manifest parses.
type manifestEntry struct {
	Path    string
	Name    string
	Version string
}

// manifestEntries parses each candidate so the picker can show what it
// found. Manifests that fail to parse stay selectable but are marked.
func manifestEntries(paths []string) []manifestEntry {
	entries := make([]manifestEntry, len(paths))
	for i, p := range paths {
		entries[i] = manifestEntry{Path: p}
		if info, err := pkgbuild.Parse(p); err == nil {
			entries[i].Name = info.Name
			entries[i].Version = info.FullVersion()
		}
	}
	return entries
}

// ManifestListModel is the bubbletea model for interactive manifest
// selection.
type ManifestListModel struct {
	Entries  []manifestEntry
	Cursor   int
	Selected *manifestEntry
}

// NewManifestListModel creates a manifest picker over the given entries.
func NewManifestListModel(entries []manifestEntry) ManifestListModel {
	return ManifestListModel{Entries: entries}
}

func (m ManifestListModel) Init() tea.Cmd {
	return nil
}

func (m ManifestListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Entries[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ManifestListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select PKGBUILD"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, e := range m.Entries {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		identity := "did not parse"
		status := StyleWarning.Render("!")
		if e.Name != "" {
			identity = fmt.Sprintf("%s %s", e.Name, e.Version)
			status = StyleSuccess.Render("*")
		}

		line := fmt.Sprintf("%s%s %-40s  %s", cursor, status, e.Path, listDimStyle.Render(identity))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if e.Name == "" {
			b.WriteString(listDimStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// pickManifest runs the interactive picker and returns the chosen path.
func pickManifest(paths []string) (string, error) {
	model := NewManifestListModel(manifestEntries(paths))

	result, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "manifest picker")
	}

	final, ok := result.(ManifestListModel)
	if !ok || final.Selected == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "no manifest selected")
	}
	return final.Selected.Path, nil
}
