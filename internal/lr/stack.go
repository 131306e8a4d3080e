// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lr

import (
	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/idl"
)

// stackEntry records the automaton state reached right after the entry was
// pushed. For entries pushed by a reduction, token holds the production id.
type stackEntry struct {
	state int
	token int
	value idl.Value
}

type parseStack struct {
	entries []stackEntry
	chunk   int
	limit   int
}

func newParseStack(chunk int, limit int) *parseStack {
	return &parseStack{
		entries: make([]stackEntry, 0, chunk),
		chunk:   chunk,
		limit:   limit,
	}
}

func (s *parseStack) push(state int, token int, value idl.Value) error {
	if s.limit > 0 && len(s.entries) >= s.limit {
		return exc.Newf(exc.Location{}, exc.CodeResourceExhausted, "parse stack already holds %d entries", s.limit)
	}
	if len(s.entries) == cap(s.entries) {
		grow := cap(s.entries)
		if grow < s.chunk {
			grow = s.chunk
		}
		next := make([]stackEntry, len(s.entries), cap(s.entries)+grow)
		copy(next, s.entries)
		s.entries = next
	}
	s.entries = append(s.entries, stackEntry{state: state, token: token, value: value})
	return nil
}

// state is the automaton state on top of the stack. State 0 doubles as the
// start state and the state of an empty stack.
func (s *parseStack) state() int {
	if len(s.entries) == 0 {
		return 0
	}
	return s.entries[len(s.entries)-1].state
}

func (s *parseStack) depth() int {
	return len(s.entries)
}

// pop removes the top amount entries and returns their values oldest first,
// which is the left-to-right order of the right-hand side being reduced.
func (s *parseStack) pop(amount int) ([]idl.Value, error) {
	if amount < 0 || amount > len(s.entries) {
		return nil, exc.Newf(exc.Location{}, exc.CodeStackUnderflow, "cannot pop %d entries from a stack of %d", amount, len(s.entries))
	}
	base := len(s.entries) - amount
	values := make([]idl.Value, amount)
	for x := range values {
		values[x] = s.entries[base+x].value
	}
	clear(s.entries[base:])
	s.entries = s.entries[:base]
	return values, nil
}

func (s *parseStack) top() (stackEntry, bool) {
	if len(s.entries) == 0 {
		return stackEntry{}, false
	}
	return s.entries[len(s.entries)-1], true
}
