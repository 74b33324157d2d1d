package main

import (
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/habedi/ballteam/cmd"
)

// main starts a goroutine to listen for interrupt signals and runs the CLI.
// Logging is configured as a side effect of importing core (see
// core/log_config.go's init), transitively pulled in through cmd.
func main() {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	go listenForInterrupt(stopChan)

	cmd.Execute()
}

// listenForInterrupt listens for an interrupt signal and exits the program when it is received.
// It takes a channel of os.Signal as a parameter.
//
// Kept as the teacher's interrupt-to-fatal-exit idiom unchanged: an
// interrupt is fatal here for the same reason as in the teacher (no partial
// state worth preserving), and there is no domain behavior to adapt.
func listenForInterrupt(stopChan chan os.Signal) {
	<-stopChan
	log.Fatal().Msg("Interrupt signal received. Exiting...")
}
