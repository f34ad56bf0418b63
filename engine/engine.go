// Package engine drives choice chains against a simulation state: it starts
// discover chains, records picks, advances chains and forks whole
// simulations for search.
package engine

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nathoo/choicecore/engine/choice"
	"github.com/nathoo/choicecore/engine/state"
	"github.com/nathoo/choicecore/metrics"
)

var (
	ErrNoPending       = errors.New("no pending choice")
	ErrPending         = errors.New("a choice is already pending")
	ErrUnknownDiscover = errors.New("unknown discover")
	ErrUnknownPool     = errors.New("unknown pool")
)

// Engine holds the game definitions and one simulation's mutable state.
// An Engine is driven by one goroutine; use Fork to run another line of
// play concurrently.
type Engine struct {
	ID       string
	ParentID string // empty for a root simulation

	Defs    *state.Defs
	State   *state.State
	RNG     *RNG
	Log     *zap.Logger
	Metrics *metrics.Recorder

	// DrawSize applies to steps that do not set their own; 0 means
	// choice.DefaultDrawSize.
	DrawSize int
	// Seat is the player Step commands act for.
	Seat int
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithSeed seeds the RNG.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.RNG = NewRNG(seed) }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.Log = l
		}
	}
}

// WithMetrics records lifecycle counters into m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(e *Engine) { e.Metrics = m }
}

// WithDrawSize overrides the default number of candidates per choice.
func WithDrawSize(n int) Option {
	return func(e *Engine) { e.DrawSize = n }
}

// New creates a new engine from definitions.
func New(defs *state.Defs, opts ...Option) *Engine {
	e := &Engine{
		ID:    uuid.NewString(),
		Defs:  defs,
		State: state.NewState(defs),
		RNG:   NewRNG(0),
		Log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Log = e.Log.With(zap.String("sim", e.ID))
	return e
}

// Fork returns an independent copy of the simulation: state, pending
// choices and RNG position are copied, definitions and metrics are shared.
func (e *Engine) Fork() *Engine {
	id := uuid.NewString()
	f := &Engine{
		ID:       id,
		ParentID: e.ID,
		Defs:     e.Defs,
		State:    e.State.Clone(),
		RNG:      e.RNG.Clone(),
		Log:      e.Log.With(zap.String("fork", id)),
		Metrics:  e.Metrics,
		DrawSize: e.DrawSize,
		Seat:     e.Seat,
	}
	e.Metrics.Forked()
	e.Log.Debug("simulation forked",
		zap.String("child", id),
		zap.Int64("rng_position", e.RNG.Position()),
		zap.Int("entities", len(e.State.Entities)))
	return f
}

// Pending returns the choice waiting on player, or nil.
func (e *Engine) Pending(player int) *choice.Choice {
	p, err := e.State.Player(player)
	if err != nil {
		return nil
	}
	return p.Pending
}

func (e *Engine) env() choice.Env {
	return choice.Env{RNG: e.RNG, Entities: e.State}
}
