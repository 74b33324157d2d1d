// Package dump implements the flat tree serialization described as an
// external collaborator: formatting one node record per line, getting those
// lines to standard output in globally ordered id order, and a token relay
// that runs per-rank work in ascending rank order.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/habedi/ballteam/ball"
	"github.com/habedi/ballteam/team"
)

// Format renders a node record as "<id> <left_id> <right_id> <radius> <c_0>
// ... <c_{d-1}>".
func Format(r ball.NodeRecord) string {
	s := fmt.Sprintf("%d %d %d %s", r.ID, r.LeftID, r.RightID, formatFloat(r.Radius))
	for _, c := range r.Center {
		s += " " + formatFloat(c)
	}
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// GatherAndWrite collects every rank's locally buffered node records to
// world rank 0 via an all-gather of serialized payloads, merges them sorted
// by id, and has rank 0 write the header line and then every record in
// ascending id order. Every other rank's w is ignored; only rank 0 must
// pass a real writer.
func GatherAndWrite(world *team.Context, w io.Writer, nDims, nNodes int, local []ball.NodeRecord) error {
	payload := encode(local)
	gathered := world.AllGather(team.Msg{Floats: payload})

	if world.Rank() != 0 {
		return nil
	}

	var all []ball.NodeRecord
	for _, m := range gathered {
		all = append(all, decode(m.Floats, nDims)...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", nDims, nNodes); err != nil {
		return err
	}
	for _, r := range all {
		if _, err := fmt.Fprintln(bw, Format(r)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// encode flattens node records into a float64 stream: each record is laid
// out as id, left_id, right_id, radius, then its center coordinates. Every
// record in a run shares the same center dimension, so decode is told it
// out of band rather than needing to infer it.
func encode(records []ball.NodeRecord) []float64 {
	if len(records) == 0 {
		return nil
	}
	dim := len(records[0].Center)
	out := make([]float64, 0, len(records)*(4+dim))
	for _, r := range records {
		out = append(out, float64(r.ID), float64(r.LeftID), float64(r.RightID), r.Radius)
		out = append(out, []float64(r.Center)...)
	}
	return out
}

func decode(flat []float64, dim int) []ball.NodeRecord {
	var out []ball.NodeRecord
	for i := 0; i < len(flat); {
		id := int(flat[i])
		left := int(flat[i+1])
		right := int(flat[i+2])
		radius := flat[i+3]
		i += 4
		center := append([]float64(nil), flat[i:i+dim]...)
		i += dim
		out = append(out, ball.NodeRecord{ID: id, LeftID: left, RightID: right, Radius: radius, Center: center})
	}
	return out
}
