// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package cake

import "github.com/codergreen/cake/logic"

// A Driver identifies a source of values on a pin. Pins driven by several
// drivers take the resolved value of all their outputs.
//
type Driver int

const defaultDriver Driver = 0

type contrib struct {
	d Driver
	v logic.Value
}

// event is a pending pin update.
type event struct {
	at  uint64 // step at which the value becomes visible
	seq uint64 // scheduling order for events of the same step
	d   Driver
	pin int
	v   logic.Value
}

// eventQueue is a min-heap of events. See container/heap.
//
type eventQueue []event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x interface{}) { *q = append(*q, x.(event)) }

func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}
