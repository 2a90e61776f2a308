package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

var (
	docStyle   = lipgloss.NewStyle().Margin(1, 2)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	inputStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	invalidInputStyle = inputStyle.BorderForeground(lipgloss.Color("196"))
	invalidTextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	errorBannerStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("196")).
				Foreground(lipgloss.Color("203")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2).MarginRight(1)

	// card accents mirror the dashboard palette
	cardColors = map[string]lipgloss.Color{
		"primary": lipgloss.Color("63"),
		"danger":  lipgloss.Color("196"),
		"warning": lipgloss.Color("214"),
		"success": lipgloss.Color("42"),
	}

	riskStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
)

func statCard(title string, value int, color string) string {
	accent := cardColors[color]
	body := lipgloss.JoinVertical(lipgloss.Left,
		hintStyle.Render(title),
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render(strconv.Itoa(value)),
	)
	return cardStyle.BorderForeground(accent).Render(body)
}
