package main

import "github.com/spf13/cobra"

func newRunCommand() *cobra.Command {
	run := &cobra.Command{
		Use:   "run",
		Short: "Run a demonstration scenario",
	}
	run.AddCommand(newDemoCommand())
	return run
}
