/*
Package forkjoin is a small divide-and-conquer execution engine for goroutines.

A [Pool] owns a fixed number of worker slots. Every task runs while holding exactly
one slot, and the slot index is handed to the task as an explicit [Worker] value.
Containers such as the sharded frontier use that index to pick the storage they may
mutate without locking.

# Splitting

Work is described by producers that know how to halve themselves:

  - [UnindexedProducer]: approximate halves, no length known up front.
  - [Producer]: exact length and an exact SplitAt.

[BridgeUnindexed] and [Bridge] split a producer recursively. The high half of a
split moves to a new goroutine only when a slot is free; otherwise it runs inline on
the current worker after the low half. At most Width tasks are therefore running at
any moment, each on its own slot.

	pool := forkjoin.NewPool(4)
	total := forkjoin.Count(src) // src implements UnindexedSource

# Nesting

[Pool.Install] and the plain combinators block until a slot is free, so a task that
already holds a slot of the same pool must not call them: on a busy pool no slot
ever frees up. Such a task passes its own Worker to the From variants
([ForEachFrom], [CountFrom], [CollectFrom], [RangeFrom], ...), which start the work on
the caller's slot.

	pool.Install(func(w forkjoin.Worker) {
		n := forkjoin.CountFrom(w, src)
		...
	})

# Panics

A panic inside a task is reported to the pool's [Monitor] and raised again on the
goroutine that joined it, once all sibling tasks have finished.
*/
package forkjoin
