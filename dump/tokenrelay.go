package dump

import "github.com/habedi/ballteam/team"

// TokenRelay runs fn once a one-byte token has arrived from the previous
// rank, then forwards the token to the next rank: a console-ordering trick
// for a per-rank verbose dump, where rank r waits on rank r-1 before writing
// to a shared output stream, then signals rank r+1.
func TokenRelay(ctx *team.Context, fn func()) {
	if ctx.Rank() > 0 {
		ctx.RecvFrom(ctx.Rank() - 1)
	}
	fn()
	if ctx.Rank() < ctx.Size()-1 {
		ctx.SendTo(ctx.Rank()+1, team.Msg{})
	}
}
