package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/runclub/internal/core/search"
	"github.com/neilberkman/runclub/internal/core/share"
)

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		m.mode = listView
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.searchResults = nil
		m.searchSelectedIdx = 0
		m.searchViewOffset = 0
		return m, nil

	case "enter":
		if len(m.searchResults) > 0 && m.searchSelectedIdx < len(m.searchResults) {
			return m.openDetail(m.searchResults[m.searchSelectedIdx]), nil
		}
		return m, nil

	// Navigation: Use Ctrl+j or arrow keys (allow j/k to be typed in search)
	case "ctrl+j", "down":
		if len(m.searchResults) > 0 {
			m.searchSelectedIdx++
			if m.searchSelectedIdx >= len(m.searchResults) {
				m.searchSelectedIdx = len(m.searchResults) - 1
			}
			return adjustSearchViewport(m), nil
		}
		return m, nil

	case "up":
		if len(m.searchResults) > 0 {
			m.searchSelectedIdx--
			if m.searchSelectedIdx < 0 {
				m.searchSelectedIdx = 0
			}
			return adjustSearchViewport(m), nil
		}
		return m, nil
	}

	m.searchInput, cmd = m.searchInput.Update(msg)

	// Live search on every keystroke
	query := m.searchInput.Value()
	m.searchSelectedIdx = 0
	m.searchViewOffset = 0
	return m, tea.Batch(cmd, performSearch(m.catalog, query, m.opts.Paces, m.opts.Now()))
}

func (m Model) viewSearch() string {
	var b strings.Builder

	b.WriteString(searchHeaderStyle.Render("Search: "))
	b.WriteString(m.searchInput.View())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 80))
	b.WriteString("\n\n")

	if m.searchResults == nil {
		b.WriteString(searchMetaStyle.Render("Type a query to filter upcoming sessions"))
	} else if len(m.searchResults) == 0 {
		b.WriteString(searchMetaStyle.Render("No matching sessions"))
	} else {
		b.WriteString(searchMetaStyle.Render(fmt.Sprintf("Found %d sessions:", len(m.searchResults))))
		b.WriteString("\n\n")

		maxVisibleResults := visibleSearchResults(m.height)
		startIdx := m.searchViewOffset
		endIdx := startIdx + maxVisibleResults
		if endIdx > len(m.searchResults) {
			endIdx = len(m.searchResults)
		}

		now := m.opts.Now()
		_, text := search.ParseQuery(m.searchInput.Value(), now)
		for i := startIdx; i < endIdx; i++ {
			s := m.searchResults[i]

			title := s.Title
			if title == "" {
				title = s.TypeLabel
			}
			title += " · " + s.Spot

			prefix := "  "
			if i == m.searchSelectedIdx {
				prefix = "► "
				title = searchSelectedStyle.Render(title)
			} else {
				title = highlightQuery(title, text)
			}
			if g, ok := m.joined[s.ID]; ok {
				title += joinedItemStyle.Render(" ✓ " + g)
			}

			when := s.DateLabel
			if rel := share.Relative(s, now); rel != "" {
				when += " (" + rel + ")"
			}
			b.WriteString(fmt.Sprintf("%s%s\n", prefix, title))
			b.WriteString(fmt.Sprintf("    %s\n\n", searchMetaStyle.Render(
				strings.Join([]string{when, s.TypeLabel, groupSummary(s)}, " | "))))
		}

		if startIdx > 0 {
			b.WriteString(searchMetaStyle.Render(fmt.Sprintf("... %d results above\n", startIdx)))
		}
		if endIdx < len(m.searchResults) {
			b.WriteString(searchMetaStyle.Render(fmt.Sprintf("... %d results below\n", len(m.searchResults)-endIdx)))
		}
	}

	b.WriteString("\n\n")
	if len(m.searchResults) > 0 {
		b.WriteString("Ctrl+j or ↑↓: navigate | Enter: open | esc: back")
	} else {
		b.WriteString("esc: back")
	}
	b.WriteString("\n")
	b.WriteString(searchMetaStyle.Render("Filters: spot:parc | type:fartlek | when:today|week|month | after:2025-11-01 | before:friday | pace:4:30-5:15 | women | walking"))

	return b.String()
}

func highlightQuery(text, query string) string {
	if query == "" {
		return text
	}

	// Simple case-insensitive highlighting of the first match
	idx := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if idx == -1 || idx+len(query) > len(text) {
		return text
	}

	before := text[:idx]
	match := text[idx : idx+len(query)]
	after := text[idx+len(query):]

	return before + searchMatchStyle.Render(match) + after
}
