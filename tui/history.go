package tui

// History keeps submitted commands, newest last, and a browsing position
// for the Up/Down keys.
type History struct {
	entries []string
	limit   int
	pos     int // len(entries) when not browsing
}

// NewHistory creates a history that keeps at most limit commands.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push records cmd unless it repeats the newest entry, dropping the oldest
// entry past the limit. Browsing restarts from the newest entry.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n == 0 || h.entries[n-1] != cmd {
		h.entries = append(h.entries, cmd)
		if len(h.entries) > h.limit {
			h.entries = h.entries[len(h.entries)-h.limit:]
		}
	}
	h.pos = len(h.entries)
}

// Prev steps to an older command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos], true
}

// Next steps to a newer command. It reports false once browsing moves past
// the newest entry, back to an empty prompt.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return "", false
	}
	return h.entries[h.pos], true
}

// ResetCursor stops browsing.
func (h *History) ResetCursor() {
	h.pos = len(h.entries)
}
