package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/choicecore/engine/choice"
	"github.com/nathoo/choicecore/engine/state"
	"github.com/nathoo/choicecore/engine/tasks"
	"github.com/nathoo/choicecore/types"
)

// Start plays the source card of a discover definition for player and
// makes the first choice of its chain pending.
func (e *Engine) Start(player int, discoverID string) (types.Result, error) {
	var result types.Result

	p, err := e.State.Player(player)
	if err != nil {
		return result, err
	}
	if p.Pending != nil {
		return result, ErrPending
	}
	def, ok := e.Defs.Discovers[discoverID]
	if !ok {
		return result, fmt.Errorf("%w: %q", ErrUnknownDiscover, discoverID)
	}
	card, ok := e.Defs.Cards[def.Source]
	if !ok {
		return result, fmt.Errorf("discover %q: unknown source card %q", discoverID, def.Source)
	}

	head, err := e.buildChain(p, def)
	if err != nil {
		return result, err
	}

	zone := types.ZonePlay
	if card.Kind == "spell" {
		zone = types.ZoneGraveyard
	}
	sourceID, err := e.State.Materialize(p, card, nil, types.Zone{Owner: player, Kind: zone})
	if err != nil {
		return result, fmt.Errorf("playing %s: %w", card.Name, err)
	}
	for c := range head.Chain() {
		c.SourceID = sourceID
	}
	if err := e.prepare(head); err != nil {
		if rmErr := e.State.Remove(sourceID); rmErr != nil {
			e.Log.Error("removing source", zap.Int("entity", int(sourceID)), zap.Error(rmErr))
		}
		return result, err
	}

	result.Events = append(result.Events, types.Event{
		Type: "card_played",
		Data: map[string]any{"player": player, "entity": sourceID, "card": card.ID},
	})
	result.Output = append(result.Output, fmt.Sprintf("%s plays %s.", p.Name(), card.Name))
	if len(head.Candidates) == 0 {
		result.Output = append(result.Output, "Nothing to discover.")
		return result, nil
	}

	p.Pending = head
	e.Log.Debug("chain started",
		zap.String("discover", discoverID),
		zap.Int("steps", head.Len()),
		zap.Stringer("choice", head))
	result.Output = append(result.Output, e.DescribePending(player)...)
	return result, nil
}

// buildChain links one choice per step of def. Source ids are stamped by
// the caller once the source card is in play.
func (e *Engine) buildChain(p *state.Player, def state.DiscoverDef) (*choice.Choice, error) {
	if len(def.Steps) == 0 {
		return nil, fmt.Errorf("discover %q has no steps", def.ID)
	}
	nodes := make([]*choice.Choice, 0, len(def.Steps))
	for i, step := range def.Steps {
		pl, ok := e.Defs.Pools[step.Pool]
		if !ok {
			return nil, fmt.Errorf("discover %q step %d: %w %q", def.ID, i+1, ErrUnknownPool, step.Pool)
		}
		c := choice.NewWithPool(p, pl)
		c.Type = step.Type
		c.Action = step.Action
		c.DrawSize = step.Draw
		if c.DrawSize == 0 {
			c.DrawSize = e.DrawSize
		}
		c.AfterChoose = step.Then
		nodes = append(nodes, c)
	}
	return choice.Link(nodes...), nil
}

// prepare draws candidates for c and records the outcome.
func (e *Engine) prepare(c *choice.Choice) error {
	if err := c.Prepare(e.env()); err != nil {
		e.Metrics.MaterializeFailed()
		e.Log.Warn("prepare failed", zap.Stringer("choice", c), zap.Error(err))
		return err
	}
	e.Metrics.Prepared(c.Action.String(), len(c.Candidates))
	return nil
}

// Choose resolves player's pending choice with the given entity and
// advances the chain.
func (e *Engine) Choose(player int, id types.EntityID) (types.Result, error) {
	var result types.Result

	p, err := e.State.Player(player)
	if err != nil {
		return result, err
	}
	c := p.Pending
	if c == nil {
		return result, ErrNoPending
	}
	if err := c.Pick(id); err != nil {
		return result, err
	}

	out, err := e.applyAction(c, id)
	result.Output = append(result.Output, out...)
	if err != nil {
		c.Chosen = 0
		return result, err
	}
	e.Metrics.Picked(c.Action.String())
	e.Log.Debug("choice picked",
		zap.Stringer("choice", c),
		zap.Int("pick", int(id)))
	result.Events = append(result.Events, types.Event{
		Type: "choice_made",
		Data: map[string]any{"player": player, "entity": id, "action": c.Action.String()},
	})

	if c.AfterChoose != nil {
		ctx := tasks.Context{
			Player:   player,
			SourceID: c.SourceID,
			Picks:    []types.EntityID{id},
			Stack:    c.Stack().IDs(),
			Board:    taskBoard{e: e, out: &result.Output},
		}
		if err := c.AfterChoose.Execute(ctx); err != nil {
			// The pick is already applied, so the node cannot be retried.
			err = fmt.Errorf("after choose %s: %w", c.AfterChoose, err)
			e.abort(p, &result, err)
			return result, err
		}
	}

	next, ok, err := c.PopNext(id, e.env())
	if !ok {
		e.finish(p, &result)
		return result, nil
	}
	if err != nil {
		e.Metrics.MaterializeFailed()
		e.abort(p, &result, err)
		return result, err
	}
	e.Metrics.Prepared(next.Action.String(), len(next.Candidates))
	if len(next.Candidates) == 0 {
		result.Output = append(result.Output, "Nothing left to discover.")
		e.finish(p, &result)
		return result, nil
	}

	p.Pending = next
	e.Log.Debug("chain advanced", zap.Stringer("choice", next))
	result.Output = append(result.Output, e.DescribePending(player)...)
	return result, nil
}

func (e *Engine) finish(p *state.Player, result *types.Result) {
	p.Pending = nil
	e.Metrics.Completed()
	e.Log.Debug("chain completed", zap.String("player", p.Name()))
	result.Events = append(result.Events, types.Event{
		Type: "chain_completed",
		Data: map[string]any{"player": p.Index},
	})
}

// abort drops player's pending chain after a failure that cannot be retried.
func (e *Engine) abort(p *state.Player, result *types.Result, err error) {
	p.Pending = nil
	e.Log.Warn("chain aborted", zap.String("player", p.Name()), zap.Error(err))
	result.Events = append(result.Events, types.Event{
		Type: "chain_aborted",
		Data: map[string]any{"player": p.Index, "error": err.Error()},
	})
}

// applyAction performs the built-in effect of a choice's action on its pick.
func (e *Engine) applyAction(c *choice.Choice, id types.EntityID) ([]string, error) {
	name := e.State.EntityName(id)
	switch c.Action {
	case choice.ActionStack, choice.ActionAdapt, choice.ActionKazakus,
		choice.ActionGlimmerroot, choice.ActionBuildABeast:
		c.AddToStack(id)
		return []string{fmt.Sprintf("%s is set aside.", name)}, nil

	case choice.ActionSummon:
		return e.place(id, types.ZonePlay, fmt.Sprintf("%s is summoned.", name))

	case choice.ActionCast, choice.ActionSpellRandom:
		return e.place(id, types.ZoneGraveyard, fmt.Sprintf("%s is cast.", name))

	default:
		return e.place(id, types.ZoneHand, fmt.Sprintf("%s is added to your hand.", name))
	}
}

// place moves id into zone, burning it when zone is full.
func (e *Engine) place(id types.EntityID, zone types.ZoneKind, done string) ([]string, error) {
	err := e.State.Move(id, zone)
	switch {
	case errors.Is(err, state.ErrZoneFull):
		return e.burn(id)
	case err != nil:
		return nil, err
	}
	return []string{done}, nil
}

// burn discards a pick that has no room to go.
func (e *Engine) burn(id types.EntityID) ([]string, error) {
	if err := e.State.Move(id, types.ZoneGraveyard); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("No room for %s; it is destroyed.", e.State.EntityName(id))}, nil
}

// taskBoard is the board follow-up tasks see. Entities that find their
// destination full are burned like picks are.
type taskBoard struct {
	e   *Engine
	out *[]string
}

func (b taskBoard) Move(id types.EntityID, zone types.ZoneKind) error {
	err := b.e.State.Move(id, zone)
	if !errors.Is(err, state.ErrZoneFull) {
		return err
	}
	out, err := b.e.burn(id)
	*b.out = append(*b.out, out...)
	return err
}
