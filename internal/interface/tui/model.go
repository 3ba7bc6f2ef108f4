// Package tui is the interactive session browser.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/runclub/internal/core/catalog"
	"github.com/neilberkman/runclub/internal/core/config"
	"github.com/neilberkman/runclub/internal/core/models"
)

type viewMode int

const (
	listView viewMode = iota
	detailView
	searchView
	helpView
)

// Options carries the runner's profile into the browser
type Options struct {
	RunnerGroup   string
	Paces         *models.ReferencePaces
	ShareTemplate string
	Now           func() time.Time
}

type Model struct {
	catalog  *catalog.Catalog
	opts     Options
	mode     viewMode
	list     list.Model
	viewport viewport.Model
	width    int
	height   int
	err      error
	status   string

	sessions []models.Session
	joined   map[string]string // session id -> group id

	// Detail view
	current       *models.Session
	selectedGroup int
	shareCard     string

	// Search view
	searchInput       textinput.Model
	searchResults     []models.Session
	searchSelectedIdx int
	searchViewOffset  int
}

func New(cat *catalog.Catalog, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ShareTemplate == "" {
		opts.ShareTemplate = config.DefaultShareTemplate
	}

	ti := textinput.New()
	ti.Placeholder = "type:fartlek when:week pace:4:30-5:15"
	ti.CharLimit = 200
	ti.Width = 60

	return Model{
		catalog:     cat,
		opts:        opts,
		mode:        listView,
		joined:      map[string]string{},
		searchInput: ti,
		list:        createSessionList(nil, nil, time.Time{}, 0, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return loadSessions(m.catalog, m.opts.Paces, m.opts.Now())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-1, 0))
		if m.current != nil {
			m.viewport = createViewport(m.renderCurrent(), msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// The search input receives q and ? as text
		if m.mode != searchView {
			switch msg.String() {
			case "q":
				if m.mode == listView {
					return m, tea.Quit
				}
				m.mode = listView
				return m, nil

			case "?":
				m.mode = helpView
				return m, nil
			}
		}

		switch m.mode {
		case listView:
			return m.updateList(msg)
		case detailView:
			return m.updateDetail(msg)
		case searchView:
			return m.updateSearch(msg)
		case helpView:
			return m.updateHelp(msg)
		}

	case tea.MouseMsg:
		if m.mode == searchView && msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelDown:
				return handleSearchMouseWheel(m, true), nil
			case tea.MouseButtonWheelUp:
				return handleSearchMouseWheel(m, false), nil
			}
		}
		if m.mode == detailView {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case sessionsLoadedMsg:
		m.sessions = msg.sessions
		m.joined = msg.joined
		m.list = createSessionList(msg.sessions, msg.joined, m.opts.Now(), m.width, m.height)
		return m, nil

	case searchResultsMsg:
		// Drop results of queries the user already typed past
		if msg.query != m.searchInput.Value() {
			return m, nil
		}
		m.searchResults = msg.results
		return m, nil

	case joinChangedMsg:
		if msg.groupID == "" {
			delete(m.joined, msg.sessionID)
		} else {
			m.joined[msg.sessionID] = msg.groupID
		}
		m.status = msg.status
		if m.current != nil {
			m.viewport.SetContent(m.renderCurrent())
		}
		m.list = createSessionList(m.sessions, m.joined, m.opts.Now(), m.width, m.height)
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit"
	}

	switch m.mode {
	case listView:
		return m.viewList()
	case detailView:
		return m.viewDetail()
	case searchView:
		return m.viewSearch()
	case helpView:
		return m.viewHelp()
	}

	return ""
}

// openDetail switches to the detail view of s with its default group selected
func (m Model) openDetail(s models.Session) Model {
	m.current = &s
	m.selectedGroup = 0
	groups := s.OfferedGroups()
	pick := m.joined[s.ID]
	if pick == "" {
		pick = s.RecommendedGroupID
	}
	for i, g := range groups {
		if g.ID == pick {
			m.selectedGroup = i
			break
		}
	}
	m.status = ""
	m.viewport = createViewport(m.renderCurrent(), m.width, m.height)
	m.mode = detailView
	return m
}
