package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/mcp-training/slidepuzzle/game/engine"
)

// MenuModel is the difficulty picker shown before a board starts.
type MenuModel struct {
	choices []string
	cursor  int
	width   int
	height  int
}

func NewMenuModel(width, height int) *MenuModel {
	choices := make([]string, 0, 4)
	for _, d := range engine.Difficulties() {
		choices = append(choices, string(d))
	}
	choices = append(choices, "quit")
	return &MenuModel{
		choices: choices,
		width:   width,
		height:  height,
	}
}

func (m MenuModel) Init() tea.Cmd { return nil }

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			m.cursor = (m.cursor - 1 + len(m.choices)) % len(m.choices)
		case "down", "j":
			m.cursor = (m.cursor + 1) % len(m.choices)
		case "enter", " ":
			if m.cursor == len(m.choices)-1 {
				return m, tea.Quit
			}
			game := NewGameModel(m.width, m.height, engine.Difficulty(m.choices[m.cursor]))
			return game, game.Init()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m MenuModel) View() string {
	var b strings.Builder
	b.WriteString(menuTitleStyle.Render("SLIDE PUZZLE"))
	b.WriteString("\n\n")

	for i, choice := range m.choices {
		label := menuEntryLabel(choice)
		if m.cursor == i {
			b.WriteString(menuCursorStyle.Render("> " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(menuHelpStyle.Render("↑/↓ choose · enter start · q quit"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		menuBoxStyle.Render(b.String()))
}

// menuEntryLabel annotates difficulty rows with their grid and time budget.
func menuEntryLabel(choice string) string {
	tier, err := engine.TierFor(engine.Difficulty(choice))
	if err != nil {
		return choice
	}
	return fmt.Sprintf("%-6s  %dx%d · %s", choice, tier.GridSize, tier.GridSize,
		engine.FormatElapsed(tier.TimeBudgetSeconds))
}

// Run starts the terminal game. With a difficulty it jumps straight to a
// board; otherwise it opens the picker.
func Run(difficulty string) error {
	var model tea.Model = NewMenuModel(0, 0)
	if difficulty != "" {
		d := engine.Difficulty(strings.ToLower(difficulty))
		if _, err := engine.TierFor(d); err != nil {
			return err
		}
		model = NewGameModel(0, 0, d)
	}
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
