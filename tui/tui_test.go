package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/choicecore/engine"
	"github.com/nathoo/choicecore/engine/choice"
	"github.com/nathoo/choicecore/engine/pool"
	"github.com/nathoo/choicecore/engine/state"
	"github.com/nathoo/choicecore/session"
	"github.com/nathoo/choicecore/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"Choose one (stack, 1 more to follow):", kindHeader},
		{"Your hand:", kindHeader},
		{"Discovers:", kindHeader},
		{"  1. Fireball (4) - Deal 6 damage.", kindOption},
		{"  12. Boar (1)", kindOption},
		{"  So far: Boar, Raptor", kindPlain},
		{"  potion - Kazakus, 3 step(s)", kindPlain},
		{"[Forked timeline 2 from 1. Now on timeline 2.]", kindSystem},
		{"[trace] Events: 2", kindTrace},
		{"choose an option between 1 and 3", kindError},
		{"no choice is pending", kindError},
		{"unknown discover: \"x\"", kindError},
		{"\"boar\" is not one of the options", kindError},
		{"Jaina plays Tracking.", kindPlain},
		{"", kindPlain},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestStyledOption_KeepsParts(t *testing.T) {
	got := styledOption("  2. Fireball (4) - Deal 6 damage.")
	for _, want := range []string{"2.", "Fireball (4)", "Deal 6 damage."} {
		if !strings.Contains(got, want) {
			t.Errorf("styledOption lost %q: %q", want, got)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"Kazakus plays a card and conjures a potion of greater power.", 30,
			"Kazakus plays a card and\nconjures a potion of greater\npower."},
		{"", 80, ""},
		{"one", 80, "one"},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("list")
	h.Push("start potion")
	h.Push("pick 2")

	prev, ok := h.Prev()
	if !ok || prev != "pick 2" {
		t.Errorf("expected 'pick 2', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "start potion" {
		t.Errorf("expected 'start potion', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "list" {
		t.Errorf("expected 'list', got %q (ok=%v)", prev, ok)
	}

	// At oldest, stays there.
	prev, ok = h.Prev()
	if !ok || prev != "list" {
		t.Errorf("expected 'list' at boundary, got %q (ok=%v)", prev, ok)
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("list")
	h.Push("start potion")

	h.Prev() // "start potion"
	h.Prev() // "list"

	next, ok := h.Next()
	if !ok || next != "start potion" {
		t.Errorf("expected 'start potion', got %q (ok=%v)", next, ok)
	}

	_, ok = h.Next()
	if ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	_, ok := h.Prev()
	if ok {
		t.Error("expected false on empty history")
	}
	_, ok = h.Next()
	if ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	prev, _ := h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b', got %q", prev)
	}
	// "a" is gone.
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b' at boundary, got %q", prev)
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("list")
	h.Push("list") // skipped
	h.Push("list") // skipped

	if len(h.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(h.entries))
	}
	h.Push("hand")
	h.Push("list") // not consecutive, kept
	if len(h.entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(h.entries))
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("list")
	h.Push("start potion")

	h.Prev() // "start potion"
	h.ResetCursor()

	// After reset, Prev starts from the end again.
	prev, ok := h.Prev()
	if !ok || prev != "start potion" {
		t.Errorf("expected 'start potion' after reset, got %q", prev)
	}
}

// testDefs returns minimal game definitions for TUI testing.
func testDefs() *state.Defs {
	defs := &state.Defs{
		Game: types.GameDef{
			Title:   "Test Game",
			Author:  "Test",
			Version: "1.0",
			Intro:   "Welcome to the test.",
		},
		Cards:     map[string]*types.Card{},
		Pools:     map[string]*pool.Pool{},
		Discovers: map[string]state.DiscoverDef{},
	}
	var beasts []*types.Card
	for _, name := range []string{"Raptor", "Boar", "Croc", "Bear"} {
		c := &types.Card{ID: strings.ToLower(name), Name: name, Kind: "minion", Cost: 2}
		defs.Cards[c.ID] = c
		beasts = append(beasts, c)
	}
	defs.Cards["hunt"] = &types.Card{ID: "hunt", Name: "Hunt", Kind: "spell", Cost: 1}
	defs.Pools["beasts"] = pool.New(beasts)
	defs.Discovers["hunt"] = state.DiscoverDef{ID: "hunt", Source: "hunt", Steps: []state.StepDef{
		{Type: choice.TypeGeneral, Action: choice.ActionStack, Pool: "beasts"},
		{Type: choice.TypeGeneral, Action: choice.ActionHand, Pool: "beasts"},
	}}
	return defs
}

func newTestModel() Model {
	defs := testDefs()
	m := New(session.New(engine.New(defs, engine.WithSeed(2))), defs)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return updated.(Model)
}

// submit types input and presses enter.
func submit(m Model, input string) (Model, tea.Cmd) {
	m.input.SetValue(input)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func rawText(m Model) string {
	var lines []string
	for _, rl := range m.rawLines {
		lines = append(lines, rl.text)
	}
	return strings.Join(lines, "\n")
}

func TestInitialOutput(t *testing.T) {
	m := newTestModel()
	msg := m.initialOutput()()
	out, ok := msg.(gameOutputMsg)
	if !ok {
		t.Fatalf("initialOutput returned %T", msg)
	}
	joined := strings.Join(out.lines, "\n")
	for _, want := range []string{"Test Game v1.0 by Test", "Welcome to the test.", "hunt - Hunt, 2 step(s)"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in intro output", want)
		}
	}
}

func TestEnter_RunsGameCommand(t *testing.T) {
	m := newTestModel()
	m, _ = submit(m, "start hunt")

	text := rawText(m)
	if !strings.Contains(text, "Choose one (stack, 1 more to follow):") {
		t.Errorf("expected choice prompt, got:\n%s", text)
	}
	if m.session.Engine().Pending(0) == nil {
		t.Fatal("expected a pending choice")
	}

	bar := m.renderStatusBar()
	for _, want := range []string{"Test Game | Player1", "Choose: stack x3 +1", "T:1"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar missing %q: %q", want, bar)
		}
	}

	m, _ = submit(m, "1")
	m, _ = submit(m, "2")
	if m.session.Engine().Pending(0) != nil {
		t.Error("expected the chain to be complete")
	}
	if hand := m.session.Engine().State.ZoneIDs(0, types.ZoneHand); len(hand) != 1 {
		t.Errorf("hand size = %d, want 1", len(hand))
	}
}

func TestEnter_MetaCommands(t *testing.T) {
	m := newTestModel()
	m, _ = submit(m, "start hunt")
	m, _ = submit(m, "/fork")

	if len(m.session.Timelines) != 2 {
		t.Fatalf("timelines = %d, want 2", len(m.session.Timelines))
	}
	if !strings.Contains(m.renderStatusBar(), "Timeline 2/2") {
		t.Error("expected timeline in status bar")
	}
	last := m.rawLines[len(m.rawLines)-2]
	if !last.isSystem || !strings.Contains(last.text, "Forked timeline 2") {
		t.Errorf("expected system fork message, got %+v", last)
	}

	m, _ = submit(m, "/trace")
	m, _ = submit(m, "1")
	if !strings.Contains(rawText(m), "[trace]   choice_made") {
		t.Error("expected trace lines after enabling /trace")
	}

	m, cmd := submit(m, "/quit")
	if !m.quitting || cmd == nil {
		t.Error("expected /quit to quit")
	}
	if m.View() != "" {
		t.Error("expected empty view after quitting")
	}
}

func TestEnter_Again(t *testing.T) {
	m := newTestModel()
	m, _ = submit(m, "again")
	if !strings.Contains(rawText(m), "Nothing to repeat.") {
		t.Error("expected 'Nothing to repeat.'")
	}

	m, _ = submit(m, "hand")
	m, _ = submit(m, "/state")
	m, _ = submit(m, "g")
	if got := strings.Count(rawText(m), "Your hand is empty."); got != 2 {
		t.Errorf("expected hand listed twice, got %d", got)
	}
}

func TestHistoryKeys(t *testing.T) {
	m := newTestModel()
	m, _ = submit(m, "list")
	m, _ = submit(m, "hand")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	if m.input.Value() != "hand" {
		t.Errorf("up = %q, want hand", m.input.Value())
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	if m.input.Value() != "list" {
		t.Errorf("up twice = %q, want list", m.input.Value())
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	if m.input.Value() != "" {
		t.Errorf("down past newest = %q, want empty", m.input.Value())
	}
}

func TestView_BeforeResize(t *testing.T) {
	defs := testDefs()
	m := New(session.New(engine.New(defs)), defs)
	if m.View() != "Loading..." {
		t.Errorf("View = %q", m.View())
	}
}
