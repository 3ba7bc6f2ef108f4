package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = listView
	return m, nil
}

func (m Model) viewHelp() string {
	help := `
RunClub - Help
══════════════

SESSION LIST VIEW
─────────────────
  ↑/↓, j/k     Navigate sessions (closest to your paces first)
  Enter        View session details
  /            Search sessions
  r            Reload sessions
  ?            Show this help
  q            Quit

SESSION DETAIL VIEW
───────────────────
  tab/→        Pick next pace group
  shift+tab/←  Pick previous pace group
  Enter        Join the picked group
  x            Leave the session
  c            Copy share card to clipboard
  j/k          Scroll line by line
  g/G          Jump to top/bottom
  esc          Back to session list
  q            Quit

SEARCH VIEW
───────────
  Type         Enter filter query (live)
  Enter        Open selected session
  ↑/↓, Ctrl+j  Navigate results
  esc          Back to session list

Press any key to return to session list
`

	return helpStyle.Render(help)
}
