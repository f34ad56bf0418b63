package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/choicecore/engine"
	"github.com/nathoo/choicecore/engine/choice"
	"github.com/nathoo/choicecore/engine/pool"
	"github.com/nathoo/choicecore/engine/state"
	"github.com/nathoo/choicecore/metrics"
	"github.com/nathoo/choicecore/types"
)

func testDefs() *state.Defs {
	var beasts []*types.Card
	defs := &state.Defs{
		Game:      types.GameDef{Title: "Test"},
		Cards:     map[string]*types.Card{},
		Pools:     map[string]*pool.Pool{},
		Discovers: map[string]state.DiscoverDef{},
	}
	for _, id := range []string{"raptor", "boar", "croc", "bear"} {
		c := &types.Card{ID: id, Name: id, Kind: "minion", Cost: 2}
		defs.Cards[id] = c
		beasts = append(beasts, c)
	}
	defs.Cards["tracking"] = &types.Card{ID: "tracking", Name: "Tracking", Kind: "spell", Cost: 1}
	defs.Pools["beasts"] = pool.New(beasts)
	defs.Discovers["tracking"] = state.DiscoverDef{ID: "tracking", Source: "tracking", Steps: []state.StepDef{
		{Type: choice.TypeGeneral, Action: choice.ActionStack, Pool: "beasts"},
		{Type: choice.TypeGeneral, Action: choice.ActionStack, Pool: "beasts"},
	}}
	return defs
}

func newSession() *Session {
	return New(engine.New(testDefs(), engine.WithSeed(3), engine.WithMetrics(metrics.New())))
}

func TestFork_SwitchesToCopy(t *testing.T) {
	s := newSession()
	s.Step("start tracking")
	root := s.Engine()

	out, quit := s.Meta("/fork")
	assert.False(t, quit)
	assert.Equal(t, []string{"Forked timeline 2 from 1. Now on timeline 2."}, out)
	require.Len(t, s.Timelines, 2)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, root.ID, s.Engine().ParentID)

	// Picking in the fork leaves the root's choice untouched.
	s.Step("pick 1")
	assert.NotSame(t, root.Pending(0), s.Engine().Pending(0))
	assert.Equal(t, 1, s.Engine().Pending(0).Stack().Len())
	assert.Zero(t, root.Pending(0).Stack().Len())

	out, _ = s.Meta("/switch 1")
	assert.Equal(t, "Now on timeline 1.", out[0])
	assert.Same(t, root, s.Engine())
}

func TestSwitch_Errors(t *testing.T) {
	s := newSession()
	out, _ := s.Meta("/switch")
	assert.Equal(t, []string{"Usage: /switch N"}, out)
	out, _ = s.Meta("/switch 4")
	assert.Equal(t, []string{"no timeline 4 (have 1)"}, out)
	assert.Equal(t, 0, s.Active)
}

func TestTimelines_ShowsLineage(t *testing.T) {
	s := newSession()
	s.Meta("/fork")
	s.Meta("/switch 1")
	s.Step("start tracking")

	out, _ := s.Meta("/timelines")
	require.Len(t, out, 2)
	assert.True(t, strings.HasPrefix(out[0], "* 1. "), out[0])
	assert.Contains(t, out[0], "(root, turn 1)")
	assert.Contains(t, out[0], "[ChoiceAction:STACK]")
	assert.True(t, strings.HasPrefix(out[1], "  2. "), out[1])
	assert.Contains(t, out[1], "(from 1, turn 0) idle")
}

func TestState_ListsPendingChain(t *testing.T) {
	s := newSession()
	s.Step("start tracking")

	out, _ := s.Meta("/state")
	joined := strings.Join(out, "\n")
	assert.Contains(t, joined, "Turn: 1")
	assert.Contains(t, joined, "RNG: seed=3")
	assert.Contains(t, joined, "Player1: hand=0 board=0 setaside=3")
	assert.Contains(t, joined, "Player1[ChoiceType:GENERAL][ChoiceAction:STACK][2,3,4]")
	// The second step has no candidates yet.
	assert.Contains(t, joined, "Player1[ChoiceType:GENERAL][ChoiceAction:STACK][]")
}

func TestStats(t *testing.T) {
	s := newSession()
	out, _ := s.Meta("/stats")
	assert.NotContains(t, strings.Join(out, "\n"), "picks_total")

	s.Step("start tracking")
	s.Step("1")
	out, _ = s.Meta("/stats")
	joined := strings.Join(out, "\n")
	assert.Contains(t, joined, "choices_prepared_total{STACK}")
	assert.Contains(t, joined, "picks_total{STACK}")

	s.Engine().Metrics = nil
	out, _ = s.Meta("/stats")
	assert.Equal(t, []string{"No stats recorded."}, out)
}

func TestMeta_TraceQuitUnknown(t *testing.T) {
	s := newSession()

	out, _ := s.Meta("/trace")
	assert.Equal(t, []string{"Trace output enabled."}, out)
	assert.True(t, s.Trace)
	out, _ = s.Meta("/trace")
	assert.Equal(t, []string{"Trace output disabled."}, out)

	out, _ = s.Meta("/dance")
	assert.Contains(t, out[0], "Unknown command: /dance")

	_, quit := s.Meta("/quit")
	assert.True(t, quit)
	_, quit = s.Meta("/exit")
	assert.True(t, quit)
}

func TestFormatTrace(t *testing.T) {
	assert.Nil(t, FormatTrace(types.Result{}))
	lines := FormatTrace(types.Result{Events: []types.Event{{Type: "chain_completed"}}})
	assert.Equal(t, "[trace] Events: 1", lines[0])
	assert.Contains(t, lines[1], "chain_completed")
}
