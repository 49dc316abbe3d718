package undo

import (
	"slices"
	"sync"
)

// Queue is the undo history of a single caster. It holds at most a fixed
// number of lists; when it overflows, the oldest list is committed and its
// changes become permanent. A Queue is safe for concurrent use; the lists it
// holds are reverted outside its lock.
type Queue struct {
	max int

	mu    sync.Mutex
	lists []*List
}

// NewQueue returns a Queue holding up to max lists. A max of zero or less
// means the queue is unbounded.
func NewQueue(max int) *Queue {
	return &Queue{max: max}
}

// Push adds l to the top of the queue. Bypassed or consumed lists are ignored.
func (q *Queue) Push(l *List) {
	if l.Bypass() || l.Consumed() {
		return
	}
	q.mu.Lock()
	if slices.Contains(q.lists, l) {
		q.mu.Unlock()
		return
	}
	q.lists = append(q.lists, l)
	var overflow []*List
	for q.max > 0 && len(q.lists) > q.max {
		overflow = append(overflow, q.lists[0])
		q.lists = q.lists[1:]
	}
	q.mu.Unlock()

	l.OnDone(q.Remove)
	for _, oldest := range overflow {
		oldest.Commit()
	}
}

// Remove drops l from the queue without reverting it.
func (q *Queue) Remove(l *List) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i := slices.Index(q.lists, l); i >= 0 {
		q.lists = slices.Delete(q.lists, i, i+1)
	}
}

// take removes the newest list that may be reverted in dim.
func (q *Queue) take(dim string) (*List, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := len(q.lists) - 1; i >= 0; i-- {
		if l := q.lists[i]; l.In(dim) {
			q.lists = slices.Delete(q.lists, i, i+1)
			return l, true
		}
	}
	return nil, false
}

// Undo reverts the newest list made in the world of tx and returns it. Lists
// of other dimensions stay in the queue.
func (q *Queue) Undo(tx Tx) (*List, bool) {
	for {
		l, ok := q.take(tx.Dimension())
		if !ok {
			return nil, false
		}
		if l.Undo(tx) {
			return l, true
		}
	}
}

// UndoAll reverts every list made in the world of tx, newest first, and
// returns how many were reverted.
func (q *Queue) UndoAll(tx Tx) int {
	n := 0
	for {
		if _, ok := q.Undo(tx); !ok {
			return n
		}
		n++
	}
}

// UndoTemporary reverts every list made in the world of tx that would revert
// itself later anyway. Permanent lists stay in the queue.
func (q *Queue) UndoTemporary(tx Tx) int {
	n := 0
	for _, l := range slices.Backward(q.Lists()) {
		if l.Temporary() && l.Undo(tx) {
			n++
		}
	}
	return n
}

// Last returns the newest list in the queue.
func (q *Queue) Last() (*List, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.lists) == 0 {
		return nil, false
	}
	return q.lists[len(q.lists)-1], true
}

// Lists returns the lists in the queue, oldest first.
func (q *Queue) Lists() []*List {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.lists)
}

// Len ...
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lists)
}
