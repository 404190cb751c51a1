package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kutbudev/todolists/internal/models"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Faint(true)
	activeTab     = lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	countdown     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

var colorCodes = map[models.Color]lipgloss.Color{
	models.ColorWhite:  lipgloss.Color("15"),
	models.ColorRed:    lipgloss.Color("9"),
	models.ColorOrange: lipgloss.Color("214"),
	models.ColorYellow: lipgloss.Color("11"),
	models.ColorGreen:  lipgloss.Color("10"),
	models.ColorBlue:   lipgloss.Color("12"),
}

func itemColor(c models.Color) lipgloss.Style {
	if code, ok := colorCodes[c]; ok {
		return lipgloss.NewStyle().Foreground(code)
	}
	return lipgloss.NewStyle()
}

func panel(inner string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Render(inner)
}
