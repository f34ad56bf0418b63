// Package session tracks the simulations a playground user is driving:
// the root engine, every fork taken from it, and which one is active. It
// also implements the slash commands shared by the line CLI and the TUI.
package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/choicecore/engine"
	"github.com/nathoo/choicecore/types"
)

// Session holds every timeline of one playground run.
type Session struct {
	Timelines []*engine.Engine
	Active    int
	Trace     bool
}

// New starts a session with root as the only timeline.
func New(root *engine.Engine) *Session {
	return &Session{Timelines: []*engine.Engine{root}}
}

// Engine returns the active timeline.
func (s *Session) Engine() *engine.Engine {
	return s.Timelines[s.Active]
}

// Step runs a game command on the active timeline.
func (s *Session) Step(input string) types.Result {
	return s.Engine().Step(input)
}

// Fork copies the active timeline, switches to the copy and returns its
// 1-based number.
func (s *Session) Fork() int {
	f := s.Engine().Fork()
	s.Timelines = append(s.Timelines, f)
	s.Active = len(s.Timelines) - 1
	return s.Active + 1
}

// Switch makes timeline n (1-based) active.
func (s *Session) Switch(n int) error {
	if n < 1 || n > len(s.Timelines) {
		return fmt.Errorf("no timeline %d (have %d)", n, len(s.Timelines))
	}
	s.Active = n - 1
	return nil
}

// number returns the 1-based timeline number of the engine with id.
func (s *Session) number(id string) int {
	for i, e := range s.Timelines {
		if e.ID == id {
			return i + 1
		}
	}
	return 0
}

// Meta dispatches a slash command. Returns output lines and whether the
// user asked to quit.
func (s *Session) Meta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil, false
	}
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return Help(), false

	case "/state":
		return s.cmdState(), false

	case "/stats":
		return s.cmdStats(), false

	case "/fork":
		n := s.Fork()
		return []string{fmt.Sprintf("Forked timeline %d from %d. Now on timeline %d.",
			n, s.number(s.Engine().ParentID), n)}, false

	case "/switch":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return []string{"Usage: /switch N"}, false
		}
		if err := s.Switch(n); err != nil {
			return []string{err.Error()}, false
		}
		lines := []string{fmt.Sprintf("Now on timeline %d.", n)}
		return append(lines, s.Engine().DescribePending(s.Engine().Seat)...), false

	case "/timelines":
		return s.cmdTimelines(), false

	case "/trace":
		s.Trace = !s.Trace
		if s.Trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

// Help lists the slash and game commands.
func Help() []string {
	return []string{
		"System:",
		"  /fork         - Copy this timeline, pending choices included, and switch to it",
		"  /switch N     - Switch to timeline N",
		"  /timelines    - List timelines",
		"  /state        - Debug: dump current state",
		"  /stats        - Show choice counters",
		"  /trace        - Toggle debug trace output",
		"  /help         - Show this help",
		"  /quit         - Exit",
		"",
		"Game commands:",
		"  list (ls)             - List discover cards you can play",
		"  start <discover> (s)  - Play a discover card",
		"  show (l)              - Show the pending choice",
		"  pick <n> (p, or n)    - Pick option n",
		"  hand (h) / board (b)  - List your hand or board",
		"  player <n|name>       - Act as another player",
		"  again (g)             - Repeat your last command",
	}
}

func (s *Session) cmdState() []string {
	e := s.Engine()
	st := e.State
	out := []string{
		fmt.Sprintf("Timeline: %d (%s)", s.Active+1, e.ID),
		fmt.Sprintf("Turn: %d", st.TurnCount),
		fmt.Sprintf("RNG: seed=%d position=%d", e.RNG.Seed(), e.RNG.Position()),
		fmt.Sprintf("Entities: %d", len(st.Entities)),
	}
	for _, p := range st.Players {
		line := fmt.Sprintf("%s: hand=%d board=%d setaside=%d",
			p.Name(),
			len(st.ZoneIDs(p.Index, types.ZoneHand)),
			len(st.ZoneIDs(p.Index, types.ZonePlay)),
			len(st.ZoneIDs(p.Index, types.ZoneSetaside)))
		out = append(out, line)
		for c := range p.Pending.Chain() {
			out = append(out, "  "+c.FullPrint())
		}
	}
	return out
}

func (s *Session) cmdStats() []string {
	samples, err := s.Engine().Metrics.Gather()
	if err != nil {
		return []string{fmt.Sprintf("Stats unavailable: %v", err)}
	}
	if len(samples) == 0 {
		return []string{"No stats recorded."}
	}
	var out []string
	for _, smp := range samples {
		name := strings.TrimPrefix(smp.Name, "choicecore_")
		if a, ok := smp.Labels["action"]; ok {
			name += "{" + a + "}"
		}
		out = append(out, fmt.Sprintf("%-40s %g", name, smp.Value))
	}
	return out
}

func (s *Session) cmdTimelines() []string {
	var out []string
	for i, e := range s.Timelines {
		marker := " "
		if i == s.Active {
			marker = "*"
		}
		origin := "root"
		if e.ParentID != "" {
			origin = fmt.Sprintf("from %d", s.number(e.ParentID))
		}
		pending := "idle"
		if c := e.Pending(e.Seat); c != nil {
			pending = c.FullPrint()
		}
		out = append(out, fmt.Sprintf("%s %d. %s (%s, turn %d) %s",
			marker, i+1, shortID(e.ID), origin, e.State.TurnCount, pending))
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatTrace renders the events of a result as trace lines.
func FormatTrace(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
	return lines
}
