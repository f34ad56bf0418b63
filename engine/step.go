package engine

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/nathoo/choicecore/engine/parser"
	"github.com/nathoo/choicecore/types"
)

// Step processes one playground command for the current seat and returns
// the result. Errors are reported as output, never returned.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	cmd := parser.Parse(input)
	e.State.CommandLog = append(e.State.CommandLog, input)

	if cmd.Verb == "" {
		result.Output = append(result.Output, "What do you want to do?")
		return result
	}

	var err error
	switch cmd.Verb {
	case "start":
		if cmd.Arg == "" {
			result.Output = append(result.Output, "Start what? Try 'list'.")
			return result
		}
		result, err = e.Start(e.Seat, cmd.Arg)
		if errors.Is(err, ErrPending) {
			err = errors.New("finish your current choice first")
		}

	case "pick":
		var id types.EntityID
		id, err = e.resolvePick(cmd.Arg)
		if err == nil {
			result, err = e.Choose(e.Seat, id)
		}

	case "show":
		result.Output = e.DescribePending(e.Seat)

	case "hand":
		result.Output = e.DescribeZone(e.Seat, types.ZoneHand)

	case "board":
		result.Output = e.DescribeZone(e.Seat, types.ZonePlay)

	case "list":
		result.Output = e.DescribeDiscovers()

	case "player":
		err = e.switchSeat(cmd.Arg)
		if err == nil {
			p, _ := e.State.Player(e.Seat)
			result.Output = append(result.Output, fmt.Sprintf("You are now %s.", p.Name()))
		}

	default:
		result.Output = append(result.Output, fmt.Sprintf("I don't know how to %q.", cmd.Verb))
		return result
	}

	if err != nil {
		result.Output = append(result.Output, err.Error())
	}
	e.State.TurnCount++
	return result
}

// resolvePick maps a 1-based option number or a card name to a candidate.
func (e *Engine) resolvePick(arg string) (types.EntityID, error) {
	c := e.Pending(e.Seat)
	if c == nil {
		return 0, ErrNoPending
	}
	if arg == "" {
		return 0, errors.New("pick which? Give an option number")
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(c.Candidates) {
			return 0, fmt.Errorf("choose an option between 1 and %d", len(c.Candidates))
		}
		return c.Candidates[n-1], nil
	}
	for _, id := range c.Candidates {
		if strings.EqualFold(e.State.EntityName(id), arg) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%q is not one of the options", arg)
}

func (e *Engine) switchSeat(arg string) error {
	if n, err := strconv.Atoi(arg); err == nil {
		if _, err := e.State.Player(n - 1); err != nil {
			return err
		}
		e.Seat = n - 1
		return nil
	}
	for _, p := range e.State.Players {
		if strings.EqualFold(p.Name(), arg) {
			e.Seat = p.Index
			return nil
		}
	}
	return fmt.Errorf("no player called %q", arg)
}

// DescribePending lists the options of player's pending choice.
func (e *Engine) DescribePending(player int) []string {
	c := e.Pending(player)
	if c == nil {
		return []string{"Nothing to choose."}
	}
	header := fmt.Sprintf("Choose one (%s):", strings.ToLower(c.Action.String()))
	if rest := c.Len() - 1; rest > 0 {
		header = fmt.Sprintf("Choose one (%s, %d more to follow):", strings.ToLower(c.Action.String()), rest)
	}
	lines := []string{header}
	for i, id := range c.Candidates {
		line := fmt.Sprintf("  %d. %s", i+1, e.State.EntityName(id))
		if ent, err := e.State.Entity(id); err == nil && ent.Card != nil {
			line += fmt.Sprintf(" (%d)", ent.Card.Cost)
			if ent.Card.Text != "" {
				line += " - " + ent.Card.Text
			}
		}
		lines = append(lines, line)
	}
	if n := c.Stack().Len(); n > 0 {
		names := make([]string, 0, n)
		for _, id := range c.Stack().IDs() {
			names = append(names, e.State.EntityName(id))
		}
		lines = append(lines, "  So far: "+strings.Join(names, ", "))
	}
	return lines
}

// DescribeZone lists a player's entities in zone.
func (e *Engine) DescribeZone(player int, zone types.ZoneKind) []string {
	ids := e.State.ZoneIDs(player, zone)
	label := strings.ToLower(zone.String())
	if zone == types.ZonePlay {
		label = "board"
	}
	if len(ids) == 0 {
		return []string{fmt.Sprintf("Your %s is empty.", label)}
	}
	lines := []string{fmt.Sprintf("Your %s:", label)}
	for _, id := range ids {
		lines = append(lines, "  "+e.State.EntityName(id))
	}
	return lines
}

// DescribeDiscovers lists the discover chains that can be started.
func (e *Engine) DescribeDiscovers() []string {
	if len(e.Defs.Discovers) == 0 {
		return []string{"No discovers defined."}
	}
	ids := make([]string, 0, len(e.Defs.Discovers))
	for id := range e.Defs.Discovers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	lines := []string{"Discovers:"}
	for _, id := range ids {
		d := e.Defs.Discovers[id]
		src := d.Source
		if card, ok := e.Defs.Cards[d.Source]; ok {
			src = card.Name
		}
		lines = append(lines, fmt.Sprintf("  %s - %s, %d step(s)", id, src, len(d.Steps)))
	}
	return lines
}
