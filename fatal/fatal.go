// Package fatal centralizes the job's single abort path. The distributed
// builder never recovers from a collective mismatch, an allocation failure,
// or a violated invariant: every rank logs a diagnostic and the process
// exits non-zero rather than continue with a stuck or inconsistent team.
package fatal

import "github.com/rs/zerolog/log"

// Check aborts the process if err is non-nil. msg identifies the condition
// that failed, e.g. "empty team on entry" or "redistribution size mismatch".
func Check(err error, msg string) {
	if err != nil {
		log.Fatal().Err(err).Msg(msg)
	}
}

// Invariant aborts the process if ok is false. It is used for preconditions
// that have no associated error value, such as "team must not be empty".
func Invariant(ok bool, msg string) {
	if !ok {
		log.Fatal().Msg(msg)
	}
}
