package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sbarthel/dupsync/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cli.Version = version
	cli.Commit = commit
	cli.BuildDate = date

	rootCmd := &cobra.Command{
		Use:   "dupsync",
		Short: "Duplicate file finder and directory synchronization utility",
		Long: `dupsync finds files with identical content inside a directory tree and
synchronizes a source directory into a destination. Content comparison uses
SHA-256 digests with size-based prefiltering, and a persisted cache keeps
repeat sync runs from rehashing unchanged files.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewDuplicatesCommand())
	rootCmd.AddCommand(cli.NewSyncCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.Execute()
}
