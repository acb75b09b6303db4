/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"

	"github.com/kyamanaka/vtask-cli/internal/gitsync"
	"github.com/kyamanaka/vtask-cli/internal/tasks"
	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the lifecycle rules over the vault",
}

var processActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Process every task in the active folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("🔄 Running `vtask process active`...")

		service, err := newTaskService()
		if err != nil {
			return err
		}

		processed, err := service.ProcessActiveTasks()
		if err != nil {
			return fmt.Errorf("❌ Processing failed: %w", err)
		}

		fmt.Printf("✅ Processed %d active tasks.\n", processed)
		return nil
	},
}

var processCompletedCmd = &cobra.Command{
	Use:   "completed",
	Short: "Process every task in the completed folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("🔄 Running `vtask process completed`...")

		service, err := newTaskService()
		if err != nil {
			return err
		}

		processed, err := service.ProcessCompletedTasks()
		if err != nil {
			return fmt.Errorf("❌ Processing failed: %w", err)
		}

		fmt.Printf("✅ Processed %d completed tasks.\n", processed)
		return nil
	},
}

var processAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Process the active folder, then the completed folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("🔄 Running `vtask process all`...")

		service, err := newTaskService()
		if err != nil {
			return err
		}

		active, err := service.ProcessActiveTasks()
		if err != nil {
			return fmt.Errorf("❌ Processing active tasks failed: %w", err)
		}

		completed, err := service.ProcessCompletedTasks()
		if err != nil {
			return fmt.Errorf("❌ Processing completed tasks failed: %w", err)
		}

		fmt.Printf("✅ Processed %d active and %d completed tasks.\n", active, completed)
		return nil
	},
}

func newTaskService() (*tasks.Service, error) {
	config, v, err := loadVault()
	if err != nil {
		return nil, err
	}

	sync := gitsync.New(config.VaultDir, config.Git.Branch, config.Git.Enable)
	return tasks.NewService(v, *config, sync), nil
}

func init() {
	processCmd.AddCommand(processActiveCmd, processCompletedCmd, processAllCmd)
	rootCmd.AddCommand(processCmd)
}
