package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

type rootOptions struct {
	Verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "bidbook",
		Short:         "Extract subcontractor contacts from bid proposal PDFs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newBatchCommand(opts))
	cmd.AddCommand(newWatchCommand(opts))
	cmd.AddCommand(newTextCommand(opts))
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
}
