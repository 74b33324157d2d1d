package team

import "github.com/rs/zerolog/log"

// Context is the Go analogue of an MPI communicator plus this rank's
// position in it: a contiguous range [lo, hi) of world ranks, all routed
// over the job's shared Fabric. Contexts are cheap, scoped values — a team
// is formed by constructing one (NewWorld, or Split) and is implicitly
// released when the goroutine stops referencing it.
type Context struct {
	fabric *Fabric
	lo, hi int // global rank range owned by this team
	rank   int // this goroutine's fixed world rank
	Counts []int
}

// NewWorld returns the context for the whole job: one team containing every
// rank the fabric was built for.
func NewWorld(fabric *Fabric, worldRank int) *Context {
	return &Context{fabric: fabric, lo: 0, hi: fabric.size, rank: worldRank}
}

// Size returns the number of ranks in the current team.
func (c *Context) Size() int { return c.hi - c.lo }

// Rank returns this goroutine's position within the current team, in
// [0, Size()).
func (c *Context) Rank() int { return c.rank - c.lo }

// AllGather sends local to every team member and returns every member's
// contribution, indexed by team-local rank (including this rank's own).
func (c *Context) AllGather(local Msg) []Msg {
	size := c.Size()
	log.Debug().Int("rank", c.Rank()).Int("team_size", size).Msg("AllGather")
	for j := 0; j < size; j++ {
		c.fabric.send(c.rank, c.lo+j, local)
	}
	out := make([]Msg, size)
	for i := 0; i < size; i++ {
		out[i] = c.fabric.recv(c.lo+i, c.rank)
	}
	return out
}

// Broadcast sends payload from rootLocal (a team-local rank) to every member
// of the team, including the root itself, and returns what was broadcast.
// Only the root's payload argument is meaningful; other callers may pass a
// zero Msg.
func (c *Context) Broadcast(rootLocal int, payload Msg) Msg {
	log.Debug().Int("rank", c.Rank()).Int("root", rootLocal).Msg("Broadcast")
	root := c.lo + rootLocal
	if c.rank == root {
		size := c.Size()
		for j := 0; j < size; j++ {
			c.fabric.send(c.rank, c.lo+j, payload)
		}
	}
	return c.fabric.recv(root, c.rank)
}

// Exchange is a variable-count all-to-all: sendPerRank[j] is what this rank
// sends to team-local rank j, and the result is indexed by sender.
// AllToAll (fixed-size hints) and AllToAllV (the point/projection payload
// exchange) are both this same shape in Go, since Msg already carries its
// own length.
func (c *Context) Exchange(sendPerRank []Msg) []Msg {
	size := c.Size()
	if len(sendPerRank) != size {
		panic("team: Exchange requires one message per team member")
	}
	log.Debug().Int("rank", c.Rank()).Int("team_size", size).Msg("Exchange")
	for j := 0; j < size; j++ {
		c.fabric.send(c.rank, c.lo+j, sendPerRank[j])
	}
	out := make([]Msg, size)
	for i := 0; i < size; i++ {
		out[i] = c.fabric.recv(c.lo+i, c.rank)
	}
	return out
}

// Barrier is a synchronization point with no payload: every rank must reach
// it before any rank proceeds.
func (c *Context) Barrier() {
	c.AllGather(Msg{})
}

// SendTo sends m directly to destLocal, a team-local rank, with no other
// team member involved. Pairs with RecvFrom for point-to-point relays such
// as the tree dump's token passing.
func (c *Context) SendTo(destLocal int, m Msg) {
	c.fabric.send(c.rank, c.lo+destLocal, m)
}

// RecvFrom blocks until srcLocal sends this rank a point-to-point message.
func (c *Context) RecvFrom(srcLocal int) Msg {
	return c.fabric.recv(c.lo+srcLocal, c.rank)
}

// GatherCounts refreshes and returns Counts: the current per-rank local
// point count for every member of the team, indexed by team-local rank.
func (c *Context) GatherCounts(localCount int) []int {
	gathered := c.AllGather(Msg{Ints: []int{localCount}})
	counts := make([]int, len(gathered))
	for i, m := range gathered {
		counts[i] = m.Ints[0]
	}
	c.Counts = counts
	return counts
}

// GlobalSize returns the sum of counts.
func GlobalSize(counts []int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

// OwnerOf returns the team-local rank owning the k-th element of the
// sequence described by counts (each rank's slice, concatenated in rank
// order), along with that element's offset within the owning rank's slice.
func OwnerOf(counts []int, k int) (rank, offset int) {
	seen := 0
	for r, n := range counts {
		if k < seen+n {
			return r, k - seen
		}
		seen += n
	}
	panic("team: index out of range for OwnerOf")
}

// Split forms two subteams from contiguous rank ranges: ranks [0, leftSize)
// of the current team become the left subteam, the remainder becomes the
// right subteam. Every rank in the parent team must call Split identically;
// each then proceeds only into the context it belongs to (inLeft reports
// which).
func (c *Context) Split(leftSize int) (left, right *Context, inLeft bool) {
	log.Debug().Int("rank", c.Rank()).Int("team_size", c.Size()).Int("left_size", leftSize).
		Msg("Split")
	mid := c.lo + leftSize
	left = &Context{fabric: c.fabric, lo: c.lo, hi: mid, rank: c.rank}
	right = &Context{fabric: c.fabric, lo: mid, hi: c.hi, rank: c.rank}
	return left, right, c.rank < mid
}
