package redistribute

import (
	"sync"
	"testing"

	"github.com/habedi/ballteam/geom"
	"github.com/habedi/ballteam/team"
)

func TestRedistributeBlockDecomposesBothHalves(t *testing.T) {
	const size = 4
	const leftSize = 1
	// Every rank contributes two points to the left half and one to the
	// right half, so the left half has 8 points owned entirely by the one
	// left-subteam rank, and the right half has 4 points split across the
	// three right-subteam ranks via block decomposition.
	fabric := team.NewFabric(size)
	var wg sync.WaitGroup
	wg.Add(size)

	results := make([][]geom.Point, size)
	var mu sync.Mutex

	for r := 0; r < size; r++ {
		go func(r int) {
			defer wg.Done()
			ctx := team.NewWorld(fabric, r)
			left := []geom.Point{{float64(r * 2)}, {float64(r*2 + 1)}}
			right := []geom.Point{{float64(100 + r)}}
			out := Redistribute(ctx, left, right, leftSize, 1)
			mu.Lock()
			results[r] = out
			mu.Unlock()
		}(r)
	}
	wg.Wait()

	if len(results[0]) != size*2 {
		t.Fatalf("rank 0 (sole left-subteam member) got %d points; want %d", len(results[0]), size*2)
	}
	total := 0
	for r := leftSize; r < size; r++ {
		total += len(results[r])
	}
	if total != size {
		t.Fatalf("right subteam ranks together got %d points; want %d", total, size)
	}
}
