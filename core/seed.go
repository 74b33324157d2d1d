package core

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// ResolveSeed picks the seed the point generator and any local randomized
// tie-breaking should use. A non-zero explicit value (e.g. the seed given on
// the command line) always wins; otherwise the BALLTREE_SEED environment
// variable is consulted, falling back to the current time.
func ResolveSeed(explicit int64) int64 {
	if explicit != 0 {
		log.Info().Msgf("Using explicit seed: %d", explicit)
		return explicit
	}

	seedStr := os.Getenv("BALLTREE_SEED")
	if seedStr != "" {
		if seed, err := strconv.ParseInt(seedStr, 10, 64); err == nil {
			log.Info().Msgf("Using seed from BALLTREE_SEED value: %d", seed)
			return seed
		}
		log.Warn().Msgf("Failed to parse BALLTREE_SEED value: %s", seedStr)
	}

	seed := time.Now().UnixNano()
	log.Info().Msgf("Using current time as seed: %d", seed)
	return seed
}
