// Package types defines the shared data structures for the choicecore engine.
// This package contains only type definitions and trivial accessors.
package types

// EntityID identifies a live entity inside one simulation. Zero means "none".
type EntityID int

// Card is an immutable option definition. Cards are shared by every
// simulation forked from the same definitions and must never be mutated
// after loading.
type Card struct {
	ID    string
	Name  string
	Class string // "mage", "hunter", "neutral", ...
	Kind  string // "minion", "spell", "weapon"
	Cost  int
	Text  string
}

// GameDef holds game metadata from the definition files.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
	Players []string // player names, in seat order
}

// GameTag names a provenance or state tag stamped on an entity.
type GameTag string

const (
	TagCreator          GameTag = "CREATOR"
	TagDisplayedCreator GameTag = "DISPLAYED_CREATOR"
	TagCost             GameTag = "COST"
)

// TagValue is one entry of an EntityData tag bag.
type TagValue struct {
	Tag   GameTag
	Value int
}

// EntityData is a small ordered tag bag passed to entity creation.
type EntityData []TagValue

// Get returns the value of tag and whether it was present.
func (d EntityData) Get(tag GameTag) (int, bool) {
	for _, tv := range d {
		if tv.Tag == tag {
			return tv.Value, true
		}
	}
	return 0, false
}

// Set overwrites tag in place or appends it, preserving insertion order.
func (d EntityData) Set(tag GameTag, value int) EntityData {
	for i := range d {
		if d[i].Tag == tag {
			d[i].Value = value
			return d
		}
	}
	return append(d, TagValue{Tag: tag, Value: value})
}

// ZoneKind is the kind of area an entity lives in.
type ZoneKind int

const (
	ZoneInvalid ZoneKind = iota
	ZoneDeck
	ZoneHand
	ZonePlay
	ZoneGraveyard
	ZoneSetaside
)

var zoneNames = [...]string{"INVALID", "DECK", "HAND", "PLAY", "GRAVEYARD", "SETASIDE"}

func (k ZoneKind) String() string {
	if k < 0 || int(k) >= len(zoneNames) {
		return "INVALID"
	}
	return zoneNames[k]
}

// ParseZoneKind maps a zone name (case-sensitive, upper) to its kind.
func ParseZoneKind(s string) (ZoneKind, bool) {
	for i, name := range zoneNames {
		if i > 0 && name == s {
			return ZoneKind(i), true
		}
	}
	return ZoneInvalid, false
}

// Zone is an opaque destination: a zone kind owned by one player.
type Zone struct {
	Owner int // player index
	Kind  ZoneKind
}

// Event is emitted by the engine while resolving a command.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single engine step.
type Result struct {
	Events []Event
	Output []string
}

// Command is the parsed representation of a playground command.
type Command struct {
	Verb string
	Arg  string // optional
}
