package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/varbridge/pkg/plugin"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tableHeaderStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// CollectionPickerModel - Interactive export selection
// =============================================================================

// CollectionPickerModel is the bubbletea model for choosing which
// collections to export. All collections start checked.
type CollectionPickerModel struct {
	Collections []plugin.CollectionSummary
	Checked     []bool
	Cursor      int
	Confirmed   bool
}

func NewCollectionPickerModel(cols []plugin.CollectionSummary) CollectionPickerModel {
	checked := make([]bool, len(cols))
	for i := range checked {
		checked[i] = true
	}
	return CollectionPickerModel{Collections: cols, Checked: checked}
}

func (m CollectionPickerModel) Init() tea.Cmd {
	return nil
}

func (m CollectionPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Collections)-1 {
			m.Cursor++
		}
	case " ", "space", "x":
		if len(m.Checked) > 0 {
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		}
	case "a":
		all := !m.allChecked()
		for i := range m.Checked {
			m.Checked[i] = all
		}
	case "enter":
		m.Confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m CollectionPickerModel) allChecked() bool {
	for _, c := range m.Checked {
		if !c {
			return false
		}
	}
	return true
}

// Selected returns the ids of the checked collections, in list order.
func (m CollectionPickerModel) Selected() []string {
	var ids []string
	for i, c := range m.Collections {
		if m.Checked[i] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func (m CollectionPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Collections"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ export  q quit"))
	b.WriteString("\n\n")

	for i, c := range m.Collections {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Checked[i] {
			box = "[" + StyleSuccess.Render("x") + "]"
		}
		line := fmt.Sprintf("%s%s %s %s", cursor, box, c.Name, listDimStyle.Render(fmt.Sprintf("(%d)", c.VariableCount)))
		if i == m.Cursor {
			line = listSelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", len(m.Selected()), len(m.Collections))))
	return b.String()
}

// =============================================================================
// Tables
// =============================================================================

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 0 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func collectionsTable(cols []plugin.CollectionSummary) string {
	rows := make([][]string, 0, len(cols))
	for _, c := range cols {
		rows = append(rows, []string{c.ID, c.Name, strconv.Itoa(c.VariableCount)})
	}
	return renderTable([]string{"ID", "Name", "Variables"}, rows)
}

func modesTable(modes []plugin.ModeSummary) string {
	rows := make([][]string, 0, len(modes))
	for _, m := range modes {
		rows = append(rows, []string{m.ModeID, m.Name})
	}
	return renderTable([]string{"Mode ID", "Name"}, rows)
}
