package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// ErrInterrupted is returned when a signal ended the session. The pet has
// already been saved by then.
var ErrInterrupted = errors.New("interrupted")

var rootCmd = &cobra.Command{
	Use:   "memorypet",
	Short: "A terminal pet that remembers you while you keep committing",
	Long: "Memory Pet lives in your git repository. Commit often and it stays happy and remembers your name;\n" +
		"stay away without committing and its memory of you starts to rot.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPet,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
