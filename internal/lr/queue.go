// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lr

import (
	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/idl"
	"gopkg.microglot.org/lrengine.go/internal/optional"
)

// EOBUF is the token id of an empty input slot. No ACTION column can have it.
const EOBUF idl.TokenID = -1

type inputEntry struct {
	token idl.TokenID
	value idl.Value
}

// inputQueue is the FIFO of fed (token, value) pairs. Consumed entries before
// head are zeroed so the values they held can be collected; the backing array
// is compacted or grown only when it is full.
type inputQueue struct {
	entries  []inputEntry
	head     int
	chunk    int
	limit    int
	consumed int
}

func newInputQueue(chunk int, limit int) *inputQueue {
	return &inputQueue{
		entries: make([]inputEntry, 0, chunk),
		chunk:   chunk,
		limit:   limit,
	}
}

func (q *inputQueue) push(token idl.TokenID, value idl.Value) error {
	if q.limit > 0 && q.len() >= q.limit {
		return exc.Newf(exc.Location{}, exc.CodeResourceExhausted, "input buffer already holds %d entries", q.limit)
	}
	q.reserve()
	q.entries = append(q.entries, inputEntry{token: token, value: value})
	return nil
}

func (q *inputQueue) reserve() {
	if len(q.entries) < cap(q.entries) {
		return
	}
	live := len(q.entries) - q.head
	if q.head > 0 && q.head >= live {
		n := copy(q.entries, q.entries[q.head:])
		clear(q.entries[n:])
		q.entries = q.entries[:n]
		q.head = 0
		return
	}
	grow := cap(q.entries)
	if grow < q.chunk {
		grow = q.chunk
	}
	next := make([]inputEntry, live, cap(q.entries)+grow)
	copy(next, q.entries[q.head:])
	q.entries = next
	q.head = 0
}

func (q *inputQueue) front() optional.Optional[inputEntry] {
	if q.head >= len(q.entries) {
		return optional.None[inputEntry]()
	}
	return optional.Some(q.entries[q.head])
}

func (q *inputQueue) advance() {
	if q.head >= len(q.entries) {
		return
	}
	q.entries[q.head] = inputEntry{}
	q.head = q.head + 1
	q.consumed = q.consumed + 1
	if q.head == len(q.entries) {
		q.entries = q.entries[:0]
		q.head = 0
	}
}

func (q *inputQueue) len() int {
	return len(q.entries) - q.head
}

func (q *inputQueue) pending() []inputEntry {
	return q.entries[q.head:]
}
