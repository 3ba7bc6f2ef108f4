package tui

import "github.com/charmbracelet/lipgloss"

// Global styles used across views
var (
	// List view styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(lipgloss.Color("170")).
				Bold(true)

	joinedItemStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("120")) // Light green - contrasts better with purple selection

	// Detail view styles
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("cyan")).
			Bold(true)

	groupSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Bold(true)

	recommendedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("yellow"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("green"))

	// Search view styles
	searchHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	searchMatchStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("240")).
				Foreground(lipgloss.Color("yellow")).
				Bold(true)

	searchMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")) // Lighter gray for dark terminals

	searchSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Bold(true)

	// Help view styles
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)
