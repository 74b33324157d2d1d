// Package cmd wires the command-line surface: argument parsing, point
// generation, the simulated team of goroutine ranks, and the tree dump.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/habedi/ballteam/ball"
	"github.com/habedi/ballteam/core"
	"github.com/habedi/ballteam/dump"
	"github.com/habedi/ballteam/fatal"
	"github.com/habedi/ballteam/points"
	"github.com/habedi/ballteam/team"
)

// progressThreshold is the point count at or above which generation gets a
// visible progress bar.
const progressThreshold = 200_000

// nodeBuffer accumulates the node records a rank emits during BuildTree, for
// later collection by dump.GatherAndWrite.
type nodeBuffer struct {
	mu      sync.Mutex
	records []ball.NodeRecord
}

func (b *nodeBuffer) Emit(r ball.NodeRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, r)
}

// Execute parses `<n_dims> <n_points> <seed> <n_procs>`, builds the ball
// tree across nProcs simulated ranks, and writes the flat serialization to
// standard output with the wall-clock run time on standard error.
func Execute() {
	args := os.Args[1:]
	if len(args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: ballteam <n_dims> <n_points> <seed> <n_procs>")
		os.Exit(1)
	}

	nDims, err := strconv.Atoi(args[0])
	fatal.Check(err, "parsing n_dims")
	nPoints, err := strconv.Atoi(args[1])
	fatal.Check(err, "parsing n_points")
	seedArg, err := strconv.ParseInt(args[2], 10, 64)
	fatal.Check(err, "parsing seed")
	nProcs, err := strconv.Atoi(args[3])
	fatal.Check(err, "parsing n_procs")

	fatal.Invariant(nDims > 0, "n_dims must be positive")
	fatal.Invariant(nPoints > 0, "n_points must be positive")
	fatal.Invariant(nProcs > 0, "n_procs must be positive")

	seed := core.ResolveSeed(seedArg)
	log.Info().Int("n_dims", nDims).Int("n_points", nPoints).Int("n_procs", nProcs).
		Msg("starting ball tree build")

	start := time.Now()

	var bar *progressbar.ProgressBar
	if nPoints >= progressThreshold && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.Default(int64(nPoints), "generating points")
	}

	fabric := team.NewFabric(nProcs)
	buffers := make([]*nodeBuffer, nProcs)

	var wg sync.WaitGroup
	wg.Add(nProcs)
	for r := 0; r < nProcs; r++ {
		go func(r int) {
			defer wg.Done()
			ctx := team.NewWorld(fabric, r)

			var onPoint func()
			if r == 0 && bar != nil {
				onPoint = func() { _ = bar.Add(1) }
			}
			local := points.GenerateWithProgress(seed, nDims, nPoints, r, nProcs, onPoint)

			buf := &nodeBuffer{}
			buffers[r] = buf
			ball.BuildTree(ctx, local, 0, buf)

			if core.FullTrace() {
				dump.TokenRelay(ctx, func() {
					log.Debug().Int("rank", r).Int("n_nodes_emitted", len(buf.records)).
						Msg("rank finished build")
				})
			}
		}(r)
	}
	wg.Wait()

	nNodes := 2*nPoints - 1
	writeOnRank0(fabric, nDims, nNodes, buffers)

	elapsed := time.Since(start).Seconds()
	log.Info().Int("n_dims", nDims).Int("n_nodes", nNodes).Msg("ball tree build complete")
	fmt.Fprintf(os.Stderr, "%.1f\n", elapsed)
}

// writeOnRank0 re-enters every rank concurrently to perform the final
// gather-and-sort dump: each rank must call dump.GatherAndWrite so the
// underlying all-gather completes, but only rank 0's writer is live.
func writeOnRank0(fabric *team.Fabric, nDims, nNodes int, buffers []*nodeBuffer) {
	size := len(buffers)
	var wg sync.WaitGroup
	wg.Add(size)
	for r := 0; r < size; r++ {
		go func(r int) {
			defer wg.Done()
			ctx := team.NewWorld(fabric, r)
			w := discardWriter{}
			if r == 0 {
				if err := dump.GatherAndWrite(ctx, os.Stdout, nDims, nNodes, buffers[r].records); err != nil {
					fatal.Check(err, "writing tree dump")
				}
				return
			}
			_ = dump.GatherAndWrite(ctx, w, nDims, nNodes, buffers[r].records)
		}(r)
	}
	wg.Wait()
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
