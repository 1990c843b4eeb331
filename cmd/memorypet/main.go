// cmd/memorypet/main.go
//
// Entry point for the memorypet binary. Run it from inside a git
// repository; the pet's save, journal and logs live in .memorypet/.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kingrea/memory-pet/internal/cli"
)

func main() {
	err := cli.Execute()
	if err != nil && !errors.Is(err, cli.ErrInterrupted) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a signal exit to 130, as shells do for SIGINT.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, cli.ErrInterrupted):
		return 130
	default:
		return 1
	}
}
