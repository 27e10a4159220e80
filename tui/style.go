package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// tileLook captures everything that picks a cell's style for one frame.
type tileLook struct {
	empty     bool
	cursor    bool
	clickable bool
	inPlace   bool
	flash     bool
	shake     bool
}

var (
	tileStyle = func(inPlace bool) lipgloss.Style {
		if inPlace {
			return lipgloss.NewStyle().
				Padding(0, 1).
				Background(lipgloss.Color("22")).
				Foreground(lipgloss.Color("15"))
		}
		return lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15"))
	}

	cursorTileStyle = func(clickable bool) lipgloss.Style {
		if clickable {
			return lipgloss.NewStyle().
				Padding(0, 1).
				Background(lipgloss.Color("34")).
				Foreground(lipgloss.Color("0")).
				Bold(true)
		}
		return lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.Color("220")).
			Foreground(lipgloss.Color("0")).
			Bold(true)
	}

	emptyCellStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.Color("236"))

	errorTileStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.Color("196")).
			Foreground(lipgloss.Color("15")).
			Bold(true)

	flashTileStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.Color("220")).
			Foreground(lipgloss.Color("0")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Margin(1, 0, 0, 0)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF0000")).
				Bold(true).
				Margin(1, 0, 0, 0)

	hudStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Margin(1, 0, 0, 0)

	lowTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	solvedBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 3).
			BorderForeground(lipgloss.Color("#FFD700"))

	solvedTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFD700")).
				Bold(true)

	solvedTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	timeoutBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 3).
			BorderForeground(lipgloss.Color("196"))

	timeoutTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true)

	bannerTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	bannerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	menuTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	menuCursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true)

	menuHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	menuBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 3).
			BorderForeground(lipgloss.Color("63"))
)

// tileStyleFor picks the style for a single board cell. Flash outranks
// everything so the celebration sweeps the whole board; the cursor outranks
// the resting tile looks.
func tileStyleFor(look tileLook) lipgloss.Style {
	switch {
	case look.flash:
		return flashTileStyle
	case look.shake:
		return errorTileStyle
	case look.cursor:
		return cursorTileStyle(look.clickable)
	case look.empty:
		return emptyCellStyle
	default:
		return tileStyle(look.inPlace)
	}
}
