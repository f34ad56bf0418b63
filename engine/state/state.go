// Package state holds the mutable simulation state a choice chain runs
// against: players, entities and zones. It is the entity factory choices
// materialize their candidates through, and the board follow-up tasks move
// entities on.
package state

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nathoo/choicecore/engine/choice"
	"github.com/nathoo/choicecore/engine/pool"
	"github.com/nathoo/choicecore/engine/tasks"
	"github.com/nathoo/choicecore/types"
)

// Zone capacities; zones not listed are unbounded.
const (
	MaxHandSize  = 10
	MaxBoardSize = 7
)

var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrZoneFull      = errors.New("zone is full")
)

// StepDef describes one choice of a discover chain.
type StepDef struct {
	Type   choice.Type
	Action choice.Action
	Pool   string // pool ID
	Draw   int    // 0 means the engine default
	Then   tasks.Task
}

// DiscoverDef is a named chain of choices triggered by a source card.
type DiscoverDef struct {
	ID     string
	Source string // card ID
	Steps  []StepDef
}

// Defs holds the immutable definitions loaded from the game directory.
// Defs is shared by every fork of a simulation.
type Defs struct {
	Game      types.GameDef
	Cards     map[string]*types.Card
	Pools     map[string]*pool.Pool
	Discovers map[string]DiscoverDef
}

// Player is a seat at the table and the controller of its choices.
type Player struct {
	Index   int
	name    string
	Pending *choice.Choice
}

// NewPlayer creates a player at seat index.
func NewPlayer(index int, name string) *Player {
	return &Player{Index: index, name: name}
}

func (p *Player) Name() string { return p.name }

// SetasideZone is where choice candidates are created.
func (p *Player) SetasideZone() types.Zone {
	return types.Zone{Owner: p.Index, Kind: types.ZoneSetaside}
}

// Entity is a live instance of a card.
type Entity struct {
	ID    types.EntityID
	Card  *types.Card
	Owner int
	Zone  types.ZoneKind
	Tags  types.EntityData
}

// State is the complete mutable simulation state.
type State struct {
	Players    []*Player
	Entities   map[types.EntityID]*Entity
	NextID     types.EntityID
	TurnCount  int
	CommandLog []string
}

// NewState creates a fresh state with one player per name in defs.
// Two default players are seated when defs names none.
func NewState(defs *Defs) *State {
	names := defs.Game.Players
	if len(names) == 0 {
		names = []string{"Player1", "Player2"}
	}
	s := &State{
		Entities:   map[types.EntityID]*Entity{},
		CommandLog: []string{},
	}
	for i, n := range names {
		s.Players = append(s.Players, NewPlayer(i, n))
	}
	return s
}

// Player returns the player at seat index.
func (s *State) Player(index int) (*Player, error) {
	if index < 0 || index >= len(s.Players) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, index)
	}
	return s.Players[index], nil
}

// Entity returns the entity with the given id.
func (s *State) Entity(id types.EntityID) (*Entity, error) {
	e, ok := s.Entities[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	return e, nil
}

// EntityName returns the card name of an entity, or its id if unknown.
func (s *State) EntityName(id types.EntityID) string {
	if e, ok := s.Entities[id]; ok && e.Card != nil {
		return e.Card.Name
	}
	return fmt.Sprintf("#%d", id)
}

// ZoneIDs returns the ids of a player's entities in zone, in creation order.
func (s *State) ZoneIDs(player int, zone types.ZoneKind) []types.EntityID {
	var ids []types.EntityID
	for id, e := range s.Entities {
		if e.Owner == player && e.Zone == zone {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func capacity(zone types.ZoneKind) int {
	switch zone {
	case types.ZoneHand:
		return MaxHandSize
	case types.ZonePlay:
		return MaxBoardSize
	default:
		return -1
	}
}

func (s *State) checkRoom(player int, zone types.ZoneKind) error {
	if limit := capacity(zone); limit >= 0 && len(s.ZoneIDs(player, zone)) >= limit {
		return fmt.Errorf("%w: %s of player %d", ErrZoneFull, zone, player)
	}
	return nil
}

// Materialize creates a new entity from card in zone. The tag bag is copied
// and the card's cost is stamped on it.
func (s *State) Materialize(owner choice.Controller, card *types.Card, tags types.EntityData, zone types.Zone) (types.EntityID, error) {
	if card == nil {
		return 0, errors.New("materialize: nil card")
	}
	if _, err := s.Player(zone.Owner); err != nil {
		return 0, err
	}
	if owner != nil && owner.SetasideZone().Owner != zone.Owner {
		return 0, fmt.Errorf("materialize: %s cannot create into zone of player %d", owner.Name(), zone.Owner)
	}
	if err := s.checkRoom(zone.Owner, zone.Kind); err != nil {
		return 0, err
	}

	s.NextID++
	e := &Entity{
		ID:    s.NextID,
		Card:  card,
		Owner: zone.Owner,
		Zone:  zone.Kind,
		Tags:  slices.Clone(tags).Set(types.TagCost, card.Cost),
	}
	s.Entities[e.ID] = e
	return e.ID, nil
}

// Move puts an existing entity into another zone of its owner.
func (s *State) Move(id types.EntityID, zone types.ZoneKind) error {
	e, err := s.Entity(id)
	if err != nil {
		return err
	}
	if e.Zone == zone {
		return nil
	}
	if err := s.checkRoom(e.Owner, zone); err != nil {
		return err
	}
	e.Zone = zone
	return nil
}

// Remove deletes an entity from the simulation.
func (s *State) Remove(id types.EntityID) error {
	if _, err := s.Entity(id); err != nil {
		return err
	}
	delete(s.Entities, id)
	return nil
}

// Clone returns a fully independent copy of the state. Cards are shared;
// pending choices are cloned onto the copied players.
func (s *State) Clone() *State {
	out := &State{
		Entities:   make(map[types.EntityID]*Entity, len(s.Entities)),
		NextID:     s.NextID,
		TurnCount:  s.TurnCount,
		CommandLog: slices.Clone(s.CommandLog),
	}
	for id, e := range s.Entities {
		cp := *e
		cp.Tags = slices.Clone(e.Tags)
		out.Entities[id] = &cp
	}
	for _, p := range s.Players {
		np := NewPlayer(p.Index, p.name)
		np.Pending = p.Pending.Clone(np)
		out.Players = append(out.Players, np)
	}
	return out
}
