package ball

import (
	"math"
	"sort"
	"sync"
	"testing"

	"github.com/habedi/ballteam/geom"
	"github.com/habedi/ballteam/team"
)

type recordingSink struct {
	mu      sync.Mutex
	records []NodeRecord
}

func (s *recordingSink) Emit(r NodeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

func buildSingleRank(t *testing.T, pts []geom.Point) []NodeRecord {
	t.Helper()
	fabric := team.NewFabric(1)
	ctx := team.NewWorld(fabric, 0)
	sink := &recordingSink{}
	BuildTree(ctx, pts, 0, sink)
	sort.Slice(sink.records, func(i, j int) bool { return sink.records[i].ID < sink.records[j].ID })
	return sink.records
}

func almostEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

// buildMultiRank distributes pts across size simulated ranks by block
// decomposition and runs BuildTree on all of them concurrently, returning
// the merged, id-sorted records every rank emitted.
func buildMultiRank(t *testing.T, pts []geom.Point, size int) []NodeRecord {
	t.Helper()
	n := len(pts)
	fabric := team.NewFabric(size)
	sink := &recordingSink{}

	var wg sync.WaitGroup
	wg.Add(size)
	for r := 0; r < size; r++ {
		lo := team.BlockLow(r, size, n)
		hi := lo + team.BlockSize(r, size, n)
		local := append([]geom.Point(nil), pts[lo:hi]...)
		go func(r int, local []geom.Point) {
			defer wg.Done()
			ctx := team.NewWorld(fabric, r)
			BuildTree(ctx, local, 0, sink)
		}(r, local)
	}
	wg.Wait()

	sort.Slice(sink.records, func(i, j int) bool { return sink.records[i].ID < sink.records[j].ID })
	return sink.records
}


func TestBuildTreeS1TwoPointsOnAxis(t *testing.T) {
	pts := []geom.Point{{0, 0}, {1, 0}}
	records := buildSingleRank(t, pts)

	if len(records) != 3 {
		t.Fatalf("got %d records; want 3", len(records))
	}
	root := records[0]
	if root.ID != 0 || root.LeftID != 1 || root.RightID != 2 {
		t.Errorf("root = %+v; want id=0 left=1 right=2", root)
	}
	if !almostEqual(root.Radius, 0.5, 1e-9) {
		t.Errorf("root.Radius = %v; want 0.5", root.Radius)
	}
	if !almostEqual(root.Center[0], 0.5, 1e-9) || !almostEqual(root.Center[1], 0, 1e-9) {
		t.Errorf("root.Center = %v; want (0.5, 0)", root.Center)
	}
	for _, leaf := range records[1:] {
		if leaf.LeftID != -1 || leaf.RightID != -1 || leaf.Radius != 0 {
			t.Errorf("leaf = %+v; want sentinel children and zero radius", leaf)
		}
	}
}

func TestBuildTreeS3OneDimensionalMedian(t *testing.T) {
	pts := []geom.Point{{3}, {1}, {2}}
	records := buildSingleRank(t, pts)

	if len(records) != 5 {
		t.Fatalf("got %d records; want 5", len(records))
	}
	root := records[0]
	if !almostEqual(root.Center[0], 2, 1e-9) {
		t.Errorf("root.Center = %v; want (2)", root.Center)
	}
	if !almostEqual(root.Radius, 1, 1e-9) {
		t.Errorf("root.Radius = %v; want 1", root.Radius)
	}
}

func TestBuildTreeLeafCase(t *testing.T) {
	pts := []geom.Point{{7, 7}}
	records := buildSingleRank(t, pts)

	if len(records) != 1 {
		t.Fatalf("got %d records; want 1", len(records))
	}
	leaf := records[0]
	if leaf.ID != 0 || leaf.LeftID != -1 || leaf.RightID != -1 || leaf.Radius != 0 {
		t.Errorf("leaf = %+v; want id=0 with sentinel children and zero radius", leaf)
	}
	if leaf.Center[0] != 7 || leaf.Center[1] != 7 {
		t.Errorf("leaf.Center = %v; want (7,7)", leaf.Center)
	}
}

func TestBuildTreeTotalityAndContainment(t *testing.T) {
	pts := []geom.Point{{0, 0}, {4, 0}, {0, 3}, {2, 2}, {-1, -1}, {5, 5}, {3, 1}, {1, 4}}
	records := buildSingleRank(t, pts)

	n := len(pts)
	wantNodes := 2*n - 1
	if len(records) != wantNodes {
		t.Fatalf("got %d nodes; want %d (2N-1 for N=%d)", len(records), wantNodes, n)
	}

	byID := make(map[int]NodeRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	for id := 0; id < wantNodes; id++ {
		if _, ok := byID[id]; !ok {
			t.Errorf("missing node id %d", id)
		}
	}

	root := byID[0]
	for _, p := range pts {
		d := math.Sqrt(geom.Distance(root.Center, p))
		if d > root.Radius+1e-9 {
			t.Errorf("point %v is distance %v from root center %v, exceeding radius %v", p, d, root.Center, root.Radius)
		}
	}
}

func TestBuildTreeBalanceOfSplit(t *testing.T) {
	pts := make([]geom.Point, 7)
	for i := range pts {
		pts[i] = geom.Point{float64(i), float64(i % 3)}
	}
	records := buildSingleRank(t, pts)

	byID := make(map[int]NodeRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	size := make(map[int]int)
	var sizeOf func(id int) int
	sizeOf = func(id int) int {
		if n, ok := size[id]; ok {
			return n
		}
		r, ok := byID[id]
		if !ok {
			return 0
		}
		if r.LeftID == -1 {
			size[id] = 1
			return 1
		}
		n := sizeOf(r.LeftID) + sizeOf(r.RightID)
		size[id] = n
		return n
	}

	for _, r := range records {
		if r.LeftID == -1 {
			continue
		}
		l := sizeOf(r.LeftID)
		rr := sizeOf(r.RightID)
		if diff := l - rr; diff > 1 || diff < -1 {
			t.Errorf("node %d: |left_size - right_size| = %d; want <= 1 (left=%d right=%d)", r.ID, diff, l, rr)
		}
	}
}

func TestBuildTreeDeterministicAcrossProcessCounts(t *testing.T) {
	pts := []geom.Point{
		{0, 0}, {4, 0}, {0, 3}, {2, 2},
		{-1, -1}, {5, 5}, {3, 1}, {1, 4},
	}

	want := buildSingleRank(t, pts)

	for _, size := range []int{2, 4, 8} {
		got := buildMultiRank(t, pts, size)
		if len(got) != len(want) {
			t.Fatalf("P=%d: got %d records; want %d", size, len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i].ID || got[i].LeftID != want[i].LeftID || got[i].RightID != want[i].RightID {
				t.Errorf("P=%d record %d: got %+v; want %+v", size, i, got[i], want[i])
				continue
			}
			if !almostEqual(got[i].Radius, want[i].Radius, 1e-9) {
				t.Errorf("P=%d record %d: Radius = %v; want %v", size, i, got[i].Radius, want[i].Radius)
			}
			for c := range want[i].Center {
				if !almostEqual(got[i].Center[c], want[i].Center[c], 1e-9) {
					t.Errorf("P=%d record %d: Center = %v; want %v", size, i, got[i].Center, want[i].Center)
					break
				}
			}
		}
	}
}

func TestBuildTreeNaiveFallbackAgreesWithPSRS(t *testing.T) {
	// N = 16 = P^2 for P=4 sits right at the naive/PSRS boundary; N=3 with
	// P=4 is strictly below it and must take the naive path.
	ptsAtThreshold := make([]geom.Point, 16)
	for i := range ptsAtThreshold {
		ptsAtThreshold[i] = geom.Point{float64(i), float64(15 - i)}
	}
	want := buildSingleRank(t, ptsAtThreshold)
	got := buildMultiRank(t, ptsAtThreshold, 4)
	if len(got) != len(want) {
		t.Fatalf("at threshold: got %d records; want %d", len(got), len(want))
	}

	below := []geom.Point{{0, 0}, {4, 0}, {0, 3}}
	wantBelow := buildSingleRank(t, below)
	gotBelow := buildMultiRank(t, below, 4)
	if len(gotBelow) != len(wantBelow) {
		t.Fatalf("below threshold: got %d records; want %d", len(gotBelow), len(wantBelow))
	}
	if !almostEqual(gotBelow[0].Radius, wantBelow[0].Radius, 1e-9) {
		t.Errorf("below threshold root radius = %v; want %v", gotBelow[0].Radius, wantBelow[0].Radius)
	}
}
