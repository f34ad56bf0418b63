// Package pool holds immutable grouped candidate pools and the sampler
// that draws a fixed number of distinct candidates from them.
package pool

import "github.com/nathoo/choicecore/types"

// Pool is an immutable, grouped collection of card definitions. A Pool is
// shared by every choice (and every fork of a choice) built on it, so it is
// safe for concurrent reads and is never mutated after New returns.
type Pool struct {
	groups [][]*types.Card
	total  int
}

// New builds a pool from the given groups. The group slices are copied;
// the cards themselves are shared.
func New(groups ...[]*types.Card) *Pool {
	p := &Pool{groups: make([][]*types.Card, 0, len(groups))}
	for _, g := range groups {
		cp := make([]*types.Card, len(g))
		copy(cp, g)
		p.groups = append(p.groups, cp)
		p.total += len(g)
	}
	return p
}

// Len returns the number of definitions across all groups.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return p.total
}

// Groups returns the number of groups.
func (p *Pool) Groups() int {
	if p == nil {
		return 0
	}
	return len(p.groups)
}

// Group returns a copy of group i.
func (p *Pool) Group(i int) []*types.Card {
	out := make([]*types.Card, len(p.groups[i]))
	copy(out, p.groups[i])
	return out
}

// At returns the i-th definition in flattened group order.
func (p *Pool) At(i int) *types.Card {
	for _, g := range p.groups {
		if i < len(g) {
			return g[i]
		}
		i -= len(g)
	}
	return nil
}
