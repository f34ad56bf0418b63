package choice

import "github.com/nathoo/choicecore/types"

// Stack is the running list of entities a chain accumulates for its
// follow-up task. Nodes of one chain share a *Stack when the chain advances;
// Clone gives the copy its own Stack.
type Stack struct {
	ids []types.EntityID
}

// Push appends id. Duplicates are kept.
func (s *Stack) Push(id types.EntityID) {
	s.ids = append(s.ids, id)
}

// Len returns the number of entries; a nil stack is empty.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns a copy of the entries in push order.
func (s *Stack) IDs() []types.EntityID {
	if s == nil {
		return nil
	}
	out := make([]types.EntityID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Stack) clone() *Stack {
	if s == nil {
		return nil
	}
	return &Stack{ids: s.IDs()}
}
