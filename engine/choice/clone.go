package choice

import "slices"

// Clone returns an independent copy of c and every choice after it, with
// owner as the controller of each copied node. The pool and follow-up tasks
// are shared; candidates and stacks are copied. Nodes that shared a stack in
// the source chain share one copied stack in the result.
func (c *Choice) Clone(owner Controller) *Choice {
	if c == nil {
		return nil
	}

	stacks := make(map[*Stack]*Stack)
	var head, prev *Choice
	for src := range c.Chain() {
		dst := &Choice{
			Owner:       owner,
			Type:        src.Type,
			Action:      src.Action,
			Candidates:  slices.Clone(src.Candidates),
			SourceID:    src.SourceID,
			LastPick:    src.LastPick,
			Chosen:      src.Chosen,
			DrawSize:    src.DrawSize,
			AfterChoose: src.AfterChoose,
			pool:        src.pool,
		}
		if src.stack != nil {
			cp, ok := stacks[src.stack]
			if !ok {
				cp = src.stack.clone()
				stacks[src.stack] = cp
			}
			dst.stack = cp
		}

		if prev == nil {
			head = dst
		} else {
			prev.Next = dst
		}
		prev = dst
	}
	return head
}
