// Package choice models a pending multi-step decision: candidates drawn from
// a pool and materialized as entities, a chain of dependent follow-up
// choices, and deep copies of the whole chain for forked simulations.
//
// A Choice is owned by one simulation and is not safe for concurrent
// mutation. Forks get their own chain through Clone; only the pool and the
// follow-up task are shared, and both are immutable.
package choice

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/nathoo/choicecore/engine/pool"
	"github.com/nathoo/choicecore/engine/tasks"
	"github.com/nathoo/choicecore/types"
)

// DefaultDrawSize is the number of candidates a choice draws from its pool
// unless DrawSize overrides it.
const DefaultDrawSize = 3

var (
	// ErrMaterialize wraps a failure to create a candidate entity.
	ErrMaterialize = errors.New("materializing candidate")
	// ErrNotCandidate is returned by Pick for an id the choice did not offer.
	ErrNotCandidate = errors.New("entity is not a candidate")
	// ErrIncompleteEnv is returned when Prepare lacks a source or materializer.
	ErrIncompleteEnv = errors.New("choice env requires an RNG and a materializer")
	// ErrNoOwner is returned when a choice with a pool has no controller.
	ErrNoOwner = errors.New("choice has no owner")
)

// Controller is the player who must resolve a choice.
type Controller interface {
	Name() string
	SetasideZone() types.Zone
}

// Materializer creates a live entity from a card definition. It must be
// synchronous: the returned id is usable immediately.
type Materializer interface {
	Materialize(owner Controller, card *types.Card, tags types.EntityData, zone types.Zone) (types.EntityID, error)
}

// Env is what Prepare needs from the enclosing simulation.
type Env struct {
	RNG      pool.Source
	Entities Materializer
}

// Choice is one pending decision and, through Next, the rest of its chain.
type Choice struct {
	Owner  Controller
	Type   Type
	Action Action

	// Candidates is nil until Prepare materializes at least one entity.
	Candidates []types.EntityID
	SourceID   types.EntityID
	LastPick   types.EntityID
	Chosen     types.EntityID

	// DrawSize overrides DefaultDrawSize when positive.
	DrawSize int

	AfterChoose tasks.Task
	Next        *Choice

	stack *Stack
	pool  *pool.Pool
}

// New creates a choice without a pool; Prepare on it does nothing.
func New(owner Controller) *Choice {
	return &Choice{Owner: owner}
}

// NewWithPool creates a choice whose candidates are drawn from p.
func NewWithPool(owner Controller, p *pool.Pool) *Choice {
	return &Choice{Owner: owner, pool: p}
}

// Pool returns the pool the choice draws from, or nil.
func (c *Choice) Pool() *pool.Pool { return c.pool }

// Stack returns the accumulated stack, or nil if nothing was pushed yet.
func (c *Choice) Stack() *Stack { return c.stack }

func (c *Choice) drawSize() int {
	if c.DrawSize > 0 {
		return c.DrawSize
	}
	return DefaultDrawSize
}

// Prepare draws candidates from the pool and materializes each into the
// owner's setaside zone, stamped with SourceID as creator. The previous
// Candidates are replaced. If the pool yields nothing or any entity fails to
// materialize, Candidates is left nil.
func (c *Choice) Prepare(env Env) error {
	if c.pool == nil {
		return nil
	}
	if env.RNG == nil || env.Entities == nil {
		return ErrIncompleteEnv
	}
	if c.Owner == nil {
		return ErrNoOwner
	}

	cards := pool.Draw(env.RNG, c.pool, c.drawSize())
	if len(cards) == 0 {
		c.Candidates = nil
		return nil
	}

	zone := c.Owner.SetasideZone()
	ids := make([]types.EntityID, 0, len(cards))
	for _, card := range cards {
		tags := types.EntityData{
			{Tag: types.TagCreator, Value: int(c.SourceID)},
			{Tag: types.TagDisplayedCreator, Value: int(c.SourceID)},
		}
		id, err := env.Entities.Materialize(c.Owner, card, tags, zone)
		if err != nil {
			c.Candidates = nil
			return fmt.Errorf("%w %q: %w", ErrMaterialize, card.ID, err)
		}
		ids = append(ids, id)
	}
	c.Candidates = ids
	return nil
}

// AddToStack appends id to the chain's accumulated stack, creating it on
// first use.
func (c *Choice) AddToStack(id types.EntityID) {
	if c.stack == nil {
		c.stack = &Stack{}
	}
	c.stack.Push(id)
}

// Pick records id as the resolution of this choice.
func (c *Choice) Pick(id types.EntityID) error {
	if !slices.Contains(c.Candidates, id) {
		return fmt.Errorf("%w: %d", ErrNotCandidate, id)
	}
	c.Chosen = id
	return nil
}

// PopNext moves the chain forward. It reports false, without touching any
// node, when c is the last choice of its chain. Otherwise the next choice
// receives lastPick and shares c's stack, and is prepared; a prepare error
// is returned together with the next choice.
func (c *Choice) PopNext(lastPick types.EntityID, env Env) (*Choice, bool, error) {
	next := c.Next
	if next == nil {
		return nil, false, nil
	}
	next.LastPick = lastPick
	next.stack = c.stack
	if err := next.Prepare(env); err != nil {
		return next, true, err
	}
	return next, true, nil
}

// Terminal reports whether c is the last choice of its chain.
func (c *Choice) Terminal() bool { return c.Next == nil }

// Chain yields c and every choice after it. The chain must be acyclic.
func (c *Choice) Chain() iter.Seq[*Choice] {
	return func(yield func(*Choice) bool) {
		for n := c; n != nil; n = n.Next {
			if !yield(n) {
				return
			}
		}
	}
}

// Len returns the number of choices in the chain starting at c.
func (c *Choice) Len() int {
	n := 0
	for range c.Chain() {
		n++
	}
	return n
}

// Link chains the given choices in order and returns the first one.
func Link(nodes ...*Choice) *Choice {
	if len(nodes) == 0 {
		return nil
	}
	for i := 0; i < len(nodes)-1; i++ {
		nodes[i].Next = nodes[i+1]
	}
	return nodes[0]
}

// FullPrint renders the owner, kinds and candidates on one line.
func (c *Choice) FullPrint() string {
	var b strings.Builder
	name := "<none>"
	if c.Owner != nil {
		name = c.Owner.Name()
	}
	b.WriteString(name)
	b.WriteString("[ChoiceType:")
	b.WriteString(c.Type.String())
	b.WriteString("][ChoiceAction:")
	b.WriteString(c.Action.String())
	b.WriteString("][")
	for i, id := range c.Candidates {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
	}
	b.WriteByte(']')
	return b.String()
}

func (c *Choice) String() string { return c.FullPrint() }
