/*
Package frontier provides a sharded, lock-free worklist for parallel graph traversals.

A [Frontier] holds one growable shard per worker slot of a [forkjoin.Pool]. During the
write phase every task pushes to and pops from its own shard only, so no locking is
needed:

	f := frontier.New[uint32](frontier.WithPool(pool))
	pool.Scope(func(w forkjoin.Worker) {
		f.Push(w, 42)
	})

When the write phase is over, the shards are read as one logical sequence: shard 0
first, each shard in push order.

  - [Frontier.Iter] returns a double-ended [Cursor] that can also be bisected with
    [Cursor.Split] or split at an exact position with [Cursor.SplitAt].
  - [Frontier.ParIter] hands the same cursor to the fork-join engine through both
    splitting protocols, so [forkjoin.ForEach], [forkjoin.Count], [forkjoin.Collect]
    and friends work on it directly.

# Concurrency contract

Nothing here takes a lock. The contract is kept by the caller:

  - at any instant at most one task touches a given shard, and it touches no other;
  - no iteration overlaps a write phase. Cursors read a snapshot of the shard lengths
    taken when [Frontier.Iter] was called.

A [forkjoin.Worker] is the capability that names "my shard". Calling [Frontier.Push]
or [Frontier.Pop] with a worker from an unrelated pool panics with a [*MisuseError]
wrapping [ErrForeignContext]; [Frontier.Shard] reports the same condition as an error.
The zero Worker (code outside any pool) always maps to shard 0.

# Ordering

Order is preserved within a shard only. Pop is LIFO on the caller's shard, and an
empty result means that shard is empty, not the whole frontier.
*/
package frontier
