/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"

	"github.com/kyamanaka/vtask-cli/internal/store"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Back up the vault to S3",
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload local changes to S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("🔄 Running `vtask sync push`...")
		config, err := store.LoadConfig()
		if err != nil {
			log.Printf("❌ Error loading config: %v", err)
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		err = SyncWithS3(*config, "push")
		if err != nil {
			log.Printf("❌ Sync failed: %v", err)
			return fmt.Errorf("❌ Sync failed: %w", err)
		}

		log.Println("✅ `vtask sync push` completed successfully.")
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download latest changes from S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("🔄 Running `vtask sync pull`...")
		config, err := store.LoadConfig()
		if err != nil {
			log.Printf("❌ Error loading config: %v", err)
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		err = SyncWithS3(*config, "pull")
		if err != nil {
			log.Printf("❌ Sync failed: %v", err)
			return fmt.Errorf("❌ Sync failed: %w", err)
		}

		log.Println("✅ `vtask sync pull` completed successfully.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show differences between the local vault and S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := store.LoadConfig()
		if err != nil {
			log.Fatalf("❌ Error loading config: %v", err)
		}

		return ShowSyncStatus(*config)
	},
}

func init() {
	syncCmd.AddCommand(syncPushCmd, syncPullCmd, syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}
