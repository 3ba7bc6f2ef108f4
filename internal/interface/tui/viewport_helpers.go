package tui

const (
	searchLinesPerResult = 3 // title, meta line, spacing
	searchReservedLines  = 8 // header + footer lines
)

func visibleSearchResults(height int) int {
	n := (height - searchReservedLines) / searchLinesPerResult
	if n < 2 {
		n = 2
	}
	return n
}

// adjustSearchViewport keeps the selected search result inside the
// visible window
func adjustSearchViewport(m Model) Model {
	maxVisibleResults := visibleSearchResults(m.height)

	if m.searchSelectedIdx >= m.searchViewOffset+maxVisibleResults {
		m.searchViewOffset = m.searchSelectedIdx - maxVisibleResults + 1
	}
	if m.searchSelectedIdx < m.searchViewOffset {
		m.searchViewOffset = m.searchSelectedIdx
	}

	return m
}

// handleSearchMouseWheel moves the search selection one result per wheel
// notch
func handleSearchMouseWheel(m Model, wheelDown bool) Model {
	if len(m.searchResults) == 0 {
		return m
	}

	if wheelDown {
		m.searchSelectedIdx++
		if m.searchSelectedIdx >= len(m.searchResults) {
			m.searchSelectedIdx = len(m.searchResults) - 1
		}
	} else {
		m.searchSelectedIdx--
		if m.searchSelectedIdx < 0 {
			m.searchSelectedIdx = 0
		}
	}

	return adjustSearchViewport(m)
}
