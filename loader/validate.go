package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/choicecore/engine/choice"
	"github.com/nathoo/choicecore/engine/pool"
	"github.com/nathoo/choicecore/engine/state"
	"github.com/nathoo/choicecore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known card kinds.
var validKinds = map[string]bool{
	"minion": true,
	"spell":  true,
	"weapon": true,
	"hero":   true,
}

// validate checks p for referential integrity and consistency. Warnings
// are returned in ve even when there are no errors.
func validate(p *program) *ValidationError {
	ve := &ValidationError{}

	if !p.hasGame {
		ve.Errors = append(ve.Errors, "no Game{} definition found")
	} else if p.game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.Title is required")
	}

	ve.Errors = append(ve.Errors, p.dupes...)

	for _, id := range sortedKeys(p.cards) {
		c := p.cards[id]
		if c.Cost < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("card %q has negative cost %d", id, c.Cost))
		}
		if !validKinds[c.Kind] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("card %q has unrecognized kind %q", id, c.Kind))
		}
	}

	for _, id := range sortedKeys(p.pools) {
		seen := map[string]bool{}
		size := 0
		for _, group := range p.pools[id] {
			for _, cardID := range group {
				size++
				if _, ok := p.cards[cardID]; !ok {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"pool %q references undefined card %q", id, cardID))
				}
				if seen[cardID] {
					ve.Warnings = append(ve.Warnings, fmt.Sprintf(
						"pool %q lists card %q more than once", id, cardID))
				}
				seen[cardID] = true
			}
		}
		if size == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("pool %q is empty", id))
		}
	}

	used := map[string]bool{}
	for _, id := range sortedKeys(p.discovers) {
		d := p.discovers[id]
		if d.source == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("discover %q has no source card", id))
		} else if _, ok := p.cards[d.source]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"discover %q source references undefined card %q", id, d.source))
		}
		if len(d.steps) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("discover %q has no steps", id))
		}
		for i, s := range d.steps {
			validateStep(p, fmt.Sprintf("discover %q step %d", id, i+1), s, ve)
			used[s.pool] = true
		}
	}

	for _, id := range sortedKeys(p.pools) {
		if !used[id] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("pool %q is not used by any discover", id))
		}
	}

	return ve
}

func validateStep(p *program, where string, s stepSpec, ve *ValidationError) {
	if _, ok := choice.ParseType(s.typ); !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf("%s: unknown choice type %q", where, s.typ))
	}
	if s.action == "" {
		ve.Errors = append(ve.Errors, fmt.Sprintf("%s: action is required", where))
	} else if _, ok := choice.ParseAction(s.action); !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf("%s: unknown choice action %q", where, s.action))
	}
	if s.draw < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("%s: draw must not be negative", where))
	}

	groups, ok := p.pools[s.pool]
	if !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf("%s: undefined pool %q", where, s.pool))
		return
	}
	size := 0
	for _, g := range groups {
		size += len(g)
	}
	draw := s.draw
	if draw == 0 {
		draw = choice.DefaultDrawSize
	}
	if size > 0 && size < draw {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"%s: pool %q has %d card(s), fewer than the %d drawn", where, s.pool, size, draw))
	}
}

// link resolves a validated program into immutable definitions.
func link(p *program) *state.Defs {
	defs := &state.Defs{
		Game:      p.game,
		Cards:     p.cards,
		Pools:     make(map[string]*pool.Pool, len(p.pools)),
		Discovers: make(map[string]state.DiscoverDef, len(p.discovers)),
	}
	for id, groups := range p.pools {
		resolved := make([][]*types.Card, 0, len(groups))
		for _, g := range groups {
			cards := make([]*types.Card, 0, len(g))
			for _, cardID := range g {
				cards = append(cards, p.cards[cardID])
			}
			resolved = append(resolved, cards)
		}
		defs.Pools[id] = pool.New(resolved...)
	}
	for id, d := range p.discovers {
		def := state.DiscoverDef{ID: id, Source: d.source}
		for _, s := range d.steps {
			typ, _ := choice.ParseType(s.typ)
			action, _ := choice.ParseAction(s.action)
			def.Steps = append(def.Steps, state.StepDef{
				Type:   typ,
				Action: action,
				Pool:   s.pool,
				Draw:   s.draw,
				Then:   s.then,
			})
		}
		defs.Discovers[id] = def
	}
	return defs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
