package tui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/neilberkman/runclub/internal/core/catalog"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/share"
)

func createViewport(content string, width, height int) viewport.Model {
	h := height - 4
	if h < 5 {
		h = 5
	}
	vp := viewport.New(width, h)
	vp.SetContent(content)
	return vp
}

// renderCurrent renders the session shown in the detail view and caches
// its share card for copying
func (m *Model) renderCurrent() string {
	if m.current == nil {
		return ""
	}
	now := m.opts.Now()
	card, err := share.Render(m.opts.ShareTemplate, *m.current, now)
	if err != nil {
		log.Printf("tui: share card for %s: %v", m.current.ID, err)
		card = ""
	}
	m.shareCard = card
	return renderDetail(*m.current, detailState{
		joinedGroup:   m.joined[m.current.ID],
		selectedGroup: m.selectedGroup,
		canJoin:       catalog.CanJoin(*m.current, m.opts.RunnerGroup),
		relative:      share.Relative(*m.current, now),
		shareCard:     card,
	}, m.width)
}

type detailState struct {
	joinedGroup   string
	selectedGroup int
	canJoin       bool
	relative      string
	shareCard     string
}

func renderDetail(s models.Session, st detailState, width int) string {
	var b strings.Builder
	rule := strings.Repeat("─", max(width, 20))

	title := s.Title
	if title == "" {
		title = s.TypeLabel
	}
	b.WriteString(titleStyle.Render(title) + "\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label+": ") + value + "\n")
	}
	when := s.DateLabel
	if st.relative != "" {
		when += " (" + st.relative + ")"
	}
	field("Lieu", s.Spot)
	field("Date", when)
	field("Type", s.TypeLabel)
	field("Volume", s.Volume)
	field("Allure cible", s.TargetPace)
	if s.EstimatedDistanceKm > 0 {
		field("Distance", fmt.Sprintf("~%.1f km", s.EstimatedDistanceKm))
	}
	b.WriteString(rule + "\n\n")

	groups := s.OfferedGroups()
	if len(groups) == 0 {
		b.WriteString("Aucun groupe d'allure\n")
	}
	for i, g := range groups {
		marker := "  "
		if i == st.selectedGroup {
			marker = "▸ "
		}
		line := g.Label
		if line == "" {
			line = "Groupe " + g.ID
		}
		pace := g.PaceRange
		if pace == "" && g.AvgPaceSecondsPerKm > 0 {
			pace = models.FormatPace(g.AvgPaceSecondsPerKm) + "/km"
		}
		if pace != "" {
			line += " " + pace
		}
		if i == st.selectedGroup {
			line = groupSelectedStyle.Render(line)
		}
		if g.ID == s.RecommendedGroupID {
			line += recommendedStyle.Render(" ★ recommandé")
		}
		if g.ID == st.joinedGroup {
			line += joinedItemStyle.Render(" ✓ inscrit")
		}
		b.WriteString(marker + line + "\n")
	}

	if s.Visibility == models.VisibilityMembers {
		note := "Réservée aux membres de " + s.HostGroupName
		if !st.canJoin {
			note += " (vous ne pouvez pas rejoindre)"
		}
		b.WriteString("\n" + noticeStyle.Render(note) + "\n")
	}
	if s.GenderRestriction == models.GenderWomenOnly {
		b.WriteString(noticeStyle.Render("Réservée aux femmes") + "\n")
	}

	if st.shareCard != "" {
		b.WriteString("\n" + labelStyle.Render("Partage") + "\n")
		cardWidth := width - 4
		if cardWidth < 30 {
			cardWidth = 30
		}
		b.WriteString(cardStyle.Width(cardWidth).Render(strings.TrimRight(st.shareCard, "\n")) + "\n")
	}

	return lipgloss.NewStyle().Width(max(width, 20)).Render(b.String())
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.current == nil {
		m.mode = listView
		return m, nil
	}
	groups := m.current.OfferedGroups()

	switch msg.String() {
	case "esc":
		m.mode = listView
		m.current = nil
		m.status = ""
		return m, nil

	case "tab", "right":
		if len(groups) > 0 {
			m.selectedGroup = (m.selectedGroup + 1) % len(groups)
			m.viewport.SetContent(m.renderCurrent())
		}
		return m, nil

	case "shift+tab", "left":
		if len(groups) > 0 {
			m.selectedGroup = (m.selectedGroup - 1 + len(groups)) % len(groups)
			m.viewport.SetContent(m.renderCurrent())
		}
		return m, nil

	case "enter":
		groupID := ""
		if m.selectedGroup < len(groups) {
			groupID = groups[m.selectedGroup].ID
		}
		return m, joinSession(m.catalog, m.current.ID, groupID, m.opts.RunnerGroup, m.opts.Now())

	case "x":
		return m, leaveSession(m.catalog, m.current.ID)

	case "c":
		return m, copyShareCard(m.shareCard)

	case "g":
		m.viewport.GotoTop()
		return m, nil

	case "G":
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) viewDetail() string {
	if m.current == nil {
		return "No session loaded"
	}

	content := m.viewport.View()
	footer := fmt.Sprintf("\n%3.f%%", m.viewport.ScrollPercent()*100)
	if m.status != "" {
		footer += "  " + statusStyle.Render(m.status)
	}
	footer += "\n\ntab: pick group | enter: join | x: leave | c: copy share card | j/k: scroll | esc: back | q: quit"
	return content + footer
}
