package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#FA2D48")
	accentColor  = lipgloss.Color("#FF6F82")
	textColor    = lipgloss.Color("#FFFFFF")
	mutedColor   = lipgloss.Color("#8E8E93")
	errorColor   = lipgloss.Color("#FF453A")
	okColor      = lipgloss.Color("#30D158")

	baseStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	cursorStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	markStyle = lipgloss.NewStyle().Foreground(okColor)

	playingStyle = lipgloss.NewStyle().Foreground(accentColor)

	errorStyle = lipgloss.NewStyle().Foreground(errorColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor)

	activeCardStyle = cardStyle.
			BorderForeground(primaryColor)

	paneStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor)

	focusedPaneStyle = paneStyle.
				BorderForeground(primaryColor)

	chipStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(lipgloss.Color("#3A3A3C")).
			Padding(0, 1).
			MarginRight(1)
)
