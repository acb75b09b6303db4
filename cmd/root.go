/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vtask",
	Short: "Automate task records stored in a markdown vault",
	Long: `vtask manages the lifecycle of task records stored as markdown files
with YAML frontmatter inside a vault directory.

Tasks live in an active folder, move to a completed folder when done,
and are archived or deleted once they age past the retention window.
Recurring tasks are reset to their next cron occurrence instead of
being retired.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
