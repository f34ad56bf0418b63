package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/choicecore/types"
)

// renderStatusBar produces a full-width inverted status line showing the
// game, the current seat, the timeline and the pending choice.
func (m Model) renderStatusBar() string {
	eng := m.session.Engine()
	seat := "?"
	if p, err := eng.State.Player(eng.Seat); err == nil {
		seat = p.Name()
	}

	left := fmt.Sprintf(" %s | %s", m.defs.Game.Title, seat)
	if n := len(m.session.Timelines); n > 1 {
		left += fmt.Sprintf(" | Timeline %d/%d", m.session.Active+1, n)
	}

	var pending string
	if c := eng.Pending(eng.Seat); c != nil {
		pending = fmt.Sprintf("%s x%d", strings.ToLower(c.Action.String()), len(c.Candidates))
		if rest := c.Len() - 1; rest > 0 {
			pending += fmt.Sprintf(" +%d", rest)
		}
		pending = " | Choose: " + pending
	}

	hand := len(eng.State.ZoneIDs(eng.Seat, types.ZoneHand))
	right := fmt.Sprintf("Hand: %d | T:%d ", hand, eng.State.TurnCount)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(pending) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := styleStatusBar.Render(left) +
		styleStatusPending.Render(pending) +
		styleStatusBar.Render(strings.Repeat(" ", gap)+right)
	return lipgloss.NewStyle().Width(m.width).MaxWidth(m.width).Render(bar)
}
