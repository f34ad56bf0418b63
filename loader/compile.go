// Package loader loads card, pool and discover definitions from a game
// directory into Go structs. Lua files are run once in a sandboxed VM and
// YAML files are decoded alongside them; nothing from either survives into
// the running simulation.
package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/choicecore/engine/tasks"
	"github.com/nathoo/choicecore/types"
	lua "github.com/yuin/gopher-lua"
)

// rawCard holds a card table before compilation.
type rawCard struct {
	id    string
	file  string
	table *lua.LTable
}

// rawPool holds a pool table before compilation.
type rawPool struct {
	id    string
	file  string
	table *lua.LTable
}

// rawDiscover holds a discover table before compilation.
type rawDiscover struct {
	id    string
	table *lua.LTable
}

// stepSpec is a discover step with its names still unresolved.
type stepSpec struct {
	typ    string
	action string
	pool   string
	draw   int
	then   tasks.Task
}

type discoverSpec struct {
	id     string
	source string
	steps  []stepSpec
}

// program is everything read from a game directory, before names are
// checked and pools are linked to cards.
type program struct {
	game      types.GameDef
	hasGame   bool
	cards     map[string]*types.Card
	cardFrom  map[string]string       // card id -> file that defined it
	pools     map[string][][]string   // pool id -> groups of card ids
	poolFrom  map[string]string       // pool id -> file that defined it
	discovers map[string]discoverSpec // discover id -> spec
	dupes     []string
}

func newProgram() *program {
	return &program{
		cards:     map[string]*types.Card{},
		cardFrom:  map[string]string{},
		pools:     map[string][][]string{},
		poolFrom:  map[string]string{},
		discovers: map[string]discoverSpec{},
	}
}

func (p *program) addCard(c *types.Card, file string) {
	if prev, ok := p.cardFrom[c.ID]; ok {
		p.dupes = append(p.dupes, fmt.Sprintf("card %q defined in both %s and %s", c.ID, prev, file))
		return
	}
	p.cards[c.ID] = c
	p.cardFrom[c.ID] = file
}

func (p *program) addPool(id string, groups [][]string, file string) {
	if prev, ok := p.poolFrom[id]; ok {
		p.dupes = append(p.dupes, fmt.Sprintf("pool %q defined in both %s and %s", id, prev, file))
		return
	}
	p.pools[id] = groups
	p.poolFrom[id] = file
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringList returns the array part of tbl as strings, skipping anything else.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts all collected Lua data into p.
func compile(coll *collector, p *program) error {
	if coll.game != nil {
		p.game = compileGame(coll.game)
		p.hasGame = true
	}

	for _, raw := range coll.cards {
		p.addCard(compileCard(raw), raw.file)
	}

	for _, raw := range coll.pools {
		groups, err := compilePool(raw.table)
		if err != nil {
			return fmt.Errorf("compiling pool %s: %w", raw.id, err)
		}
		p.addPool(raw.id, groups, raw.file)
	}

	for _, raw := range coll.discovers {
		if _, ok := p.discovers[raw.id]; ok {
			p.dupes = append(p.dupes, fmt.Sprintf("discover %q defined more than once", raw.id))
			continue
		}
		d, err := compileDiscover(raw)
		if err != nil {
			return fmt.Errorf("compiling discover %s: %w", raw.id, err)
		}
		p.discovers[raw.id] = d
	}
	return nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
		Players: stringList(getTable(tbl, "players")),
	}
}

func compileCard(raw rawCard) *types.Card {
	kind := getString(raw.table, "kind")
	if kind == "" {
		kind = "minion"
	}
	name := getString(raw.table, "name")
	if name == "" {
		name = raw.id
	}
	return &types.Card{
		ID:    raw.id,
		Name:  name,
		Class: getString(raw.table, "class"),
		Kind:  kind,
		Cost:  getInt(raw.table, "cost"),
		Text:  getString(raw.table, "text"),
	}
}

// compilePool reads either a flat list of card ids (one group) or a list
// of lists (one group each). Each run of bare ids between lists forms its
// own group, so source order is kept.
func compilePool(tbl *lua.LTable) ([][]string, error) {
	var run []string
	var groups [][]string
	for i := 1; i <= tbl.MaxN(); i++ {
		switch v := tbl.RawGetInt(i).(type) {
		case lua.LString:
			run = append(run, string(v))
		case *lua.LTable:
			groups = flushRun(groups, &run)
			groups = append(groups, stringList(v))
		default:
			return nil, fmt.Errorf("entry %d: expected card id or list, got %s", i, v.Type())
		}
	}
	return flushRun(groups, &run), nil
}

// flushRun closes a run of bare ids into its own group.
func flushRun(groups [][]string, run *[]string) [][]string {
	if len(*run) == 0 {
		return groups
	}
	groups = append(groups, *run)
	*run = nil
	return groups
}

func compileDiscover(raw rawDiscover) (discoverSpec, error) {
	d := discoverSpec{id: raw.id, source: getString(raw.table, "source")}

	steps := getTable(raw.table, "steps")
	if steps == nil {
		// Single-step shorthand: the step fields live on the discover itself.
		step, err := compileStep(raw.table)
		if err != nil {
			return d, err
		}
		d.steps = []stepSpec{step}
		return d, nil
	}
	for i := 1; i <= steps.MaxN(); i++ {
		tbl, ok := steps.RawGetInt(i).(*lua.LTable)
		if !ok {
			return d, fmt.Errorf("step %d is not a table", i)
		}
		step, err := compileStep(tbl)
		if err != nil {
			return d, fmt.Errorf("step %d: %w", i, err)
		}
		d.steps = append(d.steps, step)
	}
	return d, nil
}

func compileStep(tbl *lua.LTable) (stepSpec, error) {
	s := stepSpec{
		typ:    getString(tbl, "type"),
		action: getString(tbl, "action"),
		pool:   getString(tbl, "pool"),
		draw:   getInt(tbl, "draw"),
	}
	if s.typ == "" {
		s.typ = "GENERAL"
	}
	if after := getTable(tbl, "after"); after != nil {
		t, err := compileTask(after)
		if err != nil {
			return s, err
		}
		s.then = t
	}
	return s, nil
}

// compileTask converts a task table built by the Lua helpers.
func compileTask(tbl *lua.LTable) (tasks.Task, error) {
	switch typ := getString(tbl, "type"); typ {
	case "move_to", "move_stack_to":
		zoneName := strings.ToUpper(getString(tbl, "zone"))
		zone, ok := types.ParseZoneKind(zoneName)
		if !ok {
			return nil, fmt.Errorf("%s: unknown zone %q", typ, zoneName)
		}
		if typ == "move_to" {
			return tasks.MoveTo{Zone: zone}, nil
		}
		return tasks.AddStackTo(zone), nil

	case "sequence":
		var seq tasks.Sequence
		items := getTable(tbl, "tasks")
		if items == nil {
			return seq, nil
		}
		for i := 1; i <= items.MaxN(); i++ {
			inner, ok := items.RawGetInt(i).(*lua.LTable)
			if !ok {
				return nil, fmt.Errorf("sequence entry %d is not a task", i)
			}
			t, err := compileTask(inner)
			if err != nil {
				return nil, err
			}
			seq = append(seq, t)
		}
		return seq, nil

	case "":
		return nil, fmt.Errorf("task table has no type")
	default:
		return nil, fmt.Errorf("unknown task type %q", typ)
	}
}

// sortedFiles returns definition files with game.lua first and the rest
// sorted alphabetically.
func sortedFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
