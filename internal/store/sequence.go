package store

import "sync/atomic"

// sequence hands out the insertion-order stamps (Base.Seq).
// It resumes from the highest stored value when the store is opened.
type sequence struct {
	n atomic.Int64
}

func newSequenceAt(start int64) *sequence {
	q := &sequence{}
	q.n.Store(start)
	return q
}

func (q *sequence) Next() int64 {
	return q.n.Add(1)
}

// Observe moves the sequence forward so that v is never handed out again.
func (q *sequence) Observe(v int64) {
	for {
		cur := q.n.Load()
		if v <= cur || q.n.CompareAndSwap(cur, v) {
			return
		}
	}
}
