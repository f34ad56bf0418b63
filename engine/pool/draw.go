package pool

import "github.com/nathoo/choicecore/types"

// Source is the randomness a draw consumes. Intn returns a value in [0, n).
// Implementations must be deterministic for a given internal state.
type Source interface {
	Intn(n int) int
}

// Draw returns min(k, p.Len()) distinct definitions from p, chosen without
// replacement. Groups are flattened in order; group boundaries do not affect
// the odds. Exactly one src.Intn call is made per returned card, so a fixed
// source state always yields the same sequence.
//
// Under-supply is not an error: fewer than k cards are returned. A nil pool
// or k <= 0 returns nil.
func Draw(src Source, p *Pool, k int) []*types.Card {
	n := p.Len()
	if k <= 0 || n == 0 {
		return nil
	}
	if k > n {
		k = n
	}

	// Partial Fisher-Yates over flattened indices.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	out := make([]*types.Card, 0, k)
	for i := 0; i < k; i++ {
		j := i + src.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, p.At(idx[i]))
	}
	return out
}
