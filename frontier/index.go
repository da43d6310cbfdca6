package frontier

import "sort"

// cursorIndex holds the prefix sums of the shard lengths at the time a root cursor was created.
// cum[i] is the number of elements before shard i and cum[len(shards)] is the total.
// It is shared by every cursor split from the same root and never written after construction.
type cursorIndex struct {
	cum []int
}

func newCursorIndex[T any](shards []Shard[T]) *cursorIndex {
	cum := make([]int, len(shards)+1)
	for i := range shards {
		cum[i+1] = cum[i] + len(shards[i].items)
	}
	return &cursorIndex{cum: cum}
}

func (ix *cursorIndex) total() int {
	return ix.cum[len(ix.cum)-1]
}

func (ix *cursorIndex) shardLen(shard int) int {
	return ix.cum[shard+1] - ix.cum[shard]
}

// global converts a (shard, offset) coordinate to a logical position.
func (ix *cursorIndex) global(shard, offset int) int {
	return ix.cum[shard] + offset
}

// location is where a logical position falls among the shards.
// Either it is the start of shard (onBoundary), or offset elements into it.
type location struct {
	shard      int
	offset     int
	onBoundary bool
}

// locate finds the last shard starting at or before pos, 0 <= pos <= total.
// Runs of empty shards therefore resolve to the last of them.
func (ix *cursorIndex) locate(pos int) location {
	k := sort.Search(len(ix.cum), func(i int) bool { return ix.cum[i] > pos }) - 1
	if ix.cum[k] == pos {
		return location{shard: k, onBoundary: true}
	}
	return location{shard: k, offset: pos - ix.cum[k]}
}
