// Package tasks implements the follow-up work a choice runs once its pick is
// recorded. The set of task kinds is closed: callers compose the variants
// below and never implement Task themselves.
package tasks

import (
	"fmt"
	"strings"

	"github.com/nathoo/choicecore/types"
)

// Board is the mutation surface a task may use.
type Board interface {
	Move(id types.EntityID, zone types.ZoneKind) error
}

// Context carries the resolved choice into a task.
type Context struct {
	Player   int
	SourceID types.EntityID
	Picks    []types.EntityID // picks resolved on the node that owns the task
	Stack    []types.EntityID // accumulated picks of the whole chain
	Board    Board
}

// Task is a unit of work run by the chain driver. Task values are immutable
// and shared between forks of a choice.
type Task interface {
	Execute(ctx Context) error
	String() string
	task()
}

// MoveTo moves every pick into Zone.
type MoveTo struct {
	Zone types.ZoneKind
}

// MoveStackTo moves every accumulated entity into Zone.
type MoveStackTo struct {
	Zone types.ZoneKind
}

// Sequence runs its tasks in order and stops at the first error.
type Sequence []Task

// AddToHand moves the picks into the owner's hand.
func AddToHand() Task { return MoveTo{Zone: types.ZoneHand} }

// Summon moves the picks onto the owner's board.
func Summon() Task { return MoveTo{Zone: types.ZonePlay} }

// AddStackTo moves the accumulated stack into zone.
func AddStackTo(zone types.ZoneKind) Task { return MoveStackTo{Zone: zone} }

func (t MoveTo) Execute(ctx Context) error {
	return moveAll(ctx.Board, ctx.Picks, t.Zone)
}

func (t MoveTo) String() string { return "MoveTo(" + t.Zone.String() + ")" }

func (MoveTo) task() {}

func (t MoveStackTo) Execute(ctx Context) error {
	return moveAll(ctx.Board, ctx.Stack, t.Zone)
}

func (t MoveStackTo) String() string { return "MoveStackTo(" + t.Zone.String() + ")" }

func (MoveStackTo) task() {}

func (s Sequence) Execute(ctx Context) error {
	for i, t := range s {
		if err := t.Execute(ctx); err != nil {
			return fmt.Errorf("sequence step %d (%s): %w", i, t, err)
		}
	}
	return nil
}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return "Sequence[" + strings.Join(parts, ",") + "]"
}

func (Sequence) task() {}

func moveAll(b Board, ids []types.EntityID, zone types.ZoneKind) error {
	if b == nil {
		return fmt.Errorf("no board to move %d entities into %s", len(ids), zone)
	}
	for _, id := range ids {
		if err := b.Move(id, zone); err != nil {
			return fmt.Errorf("moving entity %d to %s: %w", id, zone, err)
		}
	}
	return nil
}
