/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kyamanaka/vtask-cli/internal/model"
	"github.com/kyamanaka/vtask-cli/internal/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize config.yaml and the vault folders",
	Run: func(cmd *cobra.Command, args []string) {

		configPath, err := store.GetConfigPath()
		if err != nil {
			log.Printf("failed to get config path: %v", err)
		}

		configDir := filepath.Dir(configPath)

		if err := os.MkdirAll(configDir, 0755); err != nil {
			log.Fatalf("❌ Failed to create config directory: %v", err)
		}

		configData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			log.Fatalf("❌ Failed to generate config: %v", err)
		}

		if err := os.WriteFile(configPath, configData, 0644); err != nil {
			log.Fatalf("❌ Failed to create config file: %v", err)
		}

		// Create the vault folder layout
		config, err := store.LoadConfig()
		if err != nil {
			log.Fatalf("❌ Failed to load created config: %v", err)
		}
		for _, folder := range []string{
			config.Folders.Tasks,
			config.Folders.CompletedTasks,
			config.Folders.Archive,
		} {
			if err := os.MkdirAll(filepath.Join(config.VaultDir, folder), 0755); err != nil {
				log.Fatalf("❌ Failed to create vault folder %s: %v", folder, err)
			}
		}

		fmt.Println("✅ vtask initialized successfully!")
		fmt.Println("📄 Config file created at:", configPath)
		fmt.Println("📁 Vault folders created under:", config.VaultDir)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
