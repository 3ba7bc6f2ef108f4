package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/share"
)

type sessionListItem struct {
	session     models.Session
	joinedGroup string
	relative    string
}

func (i sessionListItem) FilterValue() string {
	return i.session.Title + " " + i.session.Spot + " " + i.session.TypeLabel
}

func (i sessionListItem) Title() string {
	title := i.session.Title
	if title == "" {
		title = i.session.TypeLabel
	}
	if i.session.Spot != "" {
		title += " · " + i.session.Spot
	}
	if i.joinedGroup != "" {
		title += fmt.Sprintf(" ✓ %s", i.joinedGroup)
	}
	return title
}

func (i sessionListItem) Description() string {
	when := i.session.DateLabel
	if i.relative != "" {
		when += " (" + i.relative + ")"
	}
	parts := []string{when, i.session.TypeLabel}
	if groups := groupSummary(i.session); groups != "" {
		parts = append(parts, groups)
	}
	if i.session.Visibility == models.VisibilityMembers {
		parts = append(parts, "membres "+i.session.HostGroupName)
	}
	if i.session.GenderRestriction == models.GenderWomenOnly {
		parts = append(parts, "femmes")
	}
	return strings.Join(parts, " | ")
}

// groupSummary lists offered group ids, the recommended one starred
func groupSummary(s models.Session) string {
	var ids []string
	for _, g := range s.OfferedGroups() {
		id := g.ID
		if id == s.RecommendedGroupID {
			id += "*"
		}
		ids = append(ids, id)
	}
	return strings.Join(ids, " ")
}

// Custom delegate to highlight joined sessions
type sessionDelegate struct {
	list.DefaultDelegate
}

func (d sessionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	s, ok := item.(sessionListItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := s.Title()
	desc := s.Description()

	switch {
	case index == m.Index():
		title = selectedItemStyle.Render(title)
		desc = selectedItemStyle.Faint(true).Render(desc)
	case s.joinedGroup != "":
		title = joinedItemStyle.Render(title)
		desc = itemStyle.Render(desc)
	default:
		title = itemStyle.Render(title)
		desc = itemStyle.Render(desc)
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func createSessionList(sessions []models.Session, joined map[string]string, now time.Time, width, height int) list.Model {
	items := make([]list.Item, len(sessions))
	for i, s := range sessions {
		items[i] = sessionListItem{
			session:     s,
			joinedGroup: joined[s.ID],
			relative:    share.Relative(s, now),
		}
	}

	delegate := sessionDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(items, delegate, width, max(height-1, 0)) // Reserve 1 line for help text only
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false) // Disable built-in filter (we have dedicated search with /)

	return l
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if selected, ok := m.list.SelectedItem().(sessionListItem); ok {
			return m.openDetail(selected.session), nil
		}
		return m, nil

	case "/":
		m.mode = searchView
		m.searchInput.Focus()
		return m, nil

	case "r":
		m.status = ""
		return m, loadSessions(m.catalog, m.opts.Paces, m.opts.Now())
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) viewList() string {
	helpText := "↑/k up • ↓/j down • enter open • / search • r reload • q quit • ? more"
	if m.status != "" {
		helpText = statusStyle.Render(m.status) + " • " + helpText
	}

	if len(m.sessions) == 0 {
		return "No upcoming sessions. Press 'r' to reload.\n\n" + helpText
	}

	return m.list.View() + "\n" + helpText
}
