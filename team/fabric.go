// Package team models the communicator a cooperating group of simulated
// ranks uses to build one subtree: the current team's size, this rank's
// position within it, and the collectives (all-gather, all-to-all,
// broadcast) that are the only synchronization primitive between ranks.
//
// Real MPI ranks are separate OS processes exchanging bytes over a network
// or shared-memory transport; this build runs every rank as a goroutine in
// one process. The simulated wire, Fabric, is a fixed mesh of buffered
// channels shared by the whole job, the same technique ring_all_reduce uses
// to model a ring of processes with Go channels. It is safe to reuse across
// every team that forms during recursion because teams are always disjoint,
// contiguous ranges of world ranks: two active teams never address the same
// channel pair at once.
package team

import "fmt"

// Msg is the payload exchanged between two simulated ranks. Collectives pack
// whatever they need to send into Ints and Floats; the receiver knows from
// context (dimension, expected element count) how to unpack it.
type Msg struct {
	Ints   []int
	Floats []float64
}

// Fabric is the channel mesh for a job of a fixed world size.
type Fabric struct {
	size int
	mesh [][]chan Msg
}

// NewFabric allocates the mesh for a job with the given world size.
func NewFabric(worldSize int) *Fabric {
	if worldSize <= 0 {
		panic(fmt.Sprintf("team: world size must be positive, got %d", worldSize))
	}
	mesh := make([][]chan Msg, worldSize)
	for i := range mesh {
		mesh[i] = make([]chan Msg, worldSize)
		for j := range mesh[i] {
			mesh[i][j] = make(chan Msg, 1)
		}
	}
	return &Fabric{size: worldSize, mesh: mesh}
}

func (f *Fabric) send(from, to int, m Msg) {
	f.mesh[from][to] <- m
}

func (f *Fabric) recv(from, to int) Msg {
	return <-f.mesh[from][to]
}
