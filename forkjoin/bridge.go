package forkjoin

import "iter"

// UnindexedProducer is work that can be halved approximately.
type UnindexedProducer[T any] interface {
	// Split divides the producer into two non-empty, order-preserving halves.
	// ok is false when the producer is too small to split; low is then the producer itself.
	Split() (low, high UnindexedProducer[T], ok bool)
	// All yields every item of the producer in order.
	All() iter.Seq[T]
}

// Producer is work with an exact length that can be split at any index.
type Producer[T any] interface {
	Len() int
	// SplitAt returns the items before index and the items from index on, 0 <= index <= Len().
	SplitAt(index int) (low, high Producer[T])
	All() iter.Seq[T]
}

// splitter bounds how often a task keeps splitting.
// A half that moved to a new worker gets its budget refreshed to the pool width.
type splitter struct {
	splits int
}

func (s *splitter) try(migrated bool, width int) bool {
	switch {
	case migrated:
		s.splits = max(width, s.splits/2)
		return true
	case s.splits > 0:
		s.splits /= 2
		return true
	default:
		return false
	}
}

func mustManaged(w Worker, fn string) {
	if !w.Managed() {
		panic("forkjoin." + fn + ": worker is not running inside a pool")
	}
}

// BridgeUnindexed splits prod recursively on w's pool, folds every leaf and reduces the results low-to-high.
func BridgeUnindexed[T, R any](
	w Worker,
	prod UnindexedProducer[T],
	fold func(Worker, UnindexedProducer[T]) R,
	reduce func(low, high R) R,
) R {
	mustManaged(w, "BridgeUnindexed")
	return bridgeUnindexed(w, splitter{splits: w.pool.width}, false, prod, fold, reduce)
}

func bridgeUnindexed[T, R any](
	w Worker,
	s splitter,
	migrated bool,
	prod UnindexedProducer[T],
	fold func(Worker, UnindexedProducer[T]) R,
	reduce func(low, high R) R,
) R {
	if s.try(migrated, w.pool.width) {
		if low, high, ok := prod.Split(); ok {
			var lr, hr R
			w.pool.join(w,
				func(w Worker) {
					lr = bridgeUnindexed(w, s, false, low, fold, reduce)
				},
				func(w Worker, migrated bool) {
					hr = bridgeUnindexed(w, s, migrated, high, fold, reduce)
				})
			return reduce(lr, hr)
		}
	}
	return fold(w, prod)
}

// Bridge splits prod into exact halves until a piece is shorter than 2*minLen or the split budget runs out.
// fold receives each leaf with its offset from the start of prod.
func Bridge[T, R any](
	w Worker,
	prod Producer[T],
	minLen int,
	fold func(w Worker, offset int, leaf Producer[T]) R,
	reduce func(low, high R) R,
) R {
	mustManaged(w, "Bridge")
	if minLen < 1 {
		minLen = 1
	}
	return bridge(w, splitter{splits: w.pool.width}, false, 0, prod, minLen, fold, reduce)
}

func bridge[T, R any](
	w Worker,
	s splitter,
	migrated bool,
	offset int,
	prod Producer[T],
	minLen int,
	fold func(w Worker, offset int, leaf Producer[T]) R,
	reduce func(low, high R) R,
) R {
	n := prod.Len()
	if n/2 >= minLen && s.try(migrated, w.pool.width) {
		mid := n / 2
		low, high := prod.SplitAt(mid)
		var lr, hr R
		w.pool.join(w,
			func(w Worker) {
				lr = bridge(w, s, false, offset, low, minLen, fold, reduce)
			},
			func(w Worker, migrated bool) {
				hr = bridge(w, s, migrated, offset+mid, high, minLen, fold, reduce)
			})
		return reduce(lr, hr)
	}
	return fold(w, offset, prod)
}
