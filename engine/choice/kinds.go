package choice

import "strings"

// Type classifies what a pending choice represents.
type Type int

const (
	TypeInvalid Type = iota
	TypeMulligan
	TypeGeneral
	TypeTarget
)

var typeNames = [...]string{"INVALID", "MULLIGAN", "GENERAL", "TARGET"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "INVALID"
	}
	return typeNames[t]
}

// ParseType maps a name such as "general" to its Type. Unknown names
// return TypeInvalid and false.
func ParseType(s string) (Type, bool) {
	s = strings.ToUpper(s)
	for i, name := range typeNames {
		if i > 0 && name == s {
			return Type(i), true
		}
	}
	return TypeInvalid, false
}

// Action classifies the effect that produced a choice.
type Action int

const (
	ActionInvalid Action = iota
	ActionAdapt
	ActionHand
	ActionSummon
	ActionHeroPower
	ActionKazakus
	ActionTracking
	ActionSpellRandom
	ActionGlimmerroot
	ActionBuildABeast
	ActionCast
	ActionStack
)

var actionNames = [...]string{
	"INVALID", "ADAPT", "HAND", "SUMMON", "HEROPOWER", "KAZAKUS", "TRACKING",
	"SPELL_RANDOM", "GLIMMERROOT", "BUILDABEAST", "CAST", "STACK",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "INVALID"
	}
	return actionNames[a]
}

// ParseAction maps a name such as "stack" or "SPELL_RANDOM" to its Action.
func ParseAction(s string) (Action, bool) {
	s = strings.ToUpper(s)
	for i, name := range actionNames {
		if i > 0 && name == s {
			return Action(i), true
		}
	}
	return ActionInvalid, false
}
