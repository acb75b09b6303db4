/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"

	"github.com/kyamanaka/vtask-cli/internal/store"
	"github.com/kyamanaka/vtask-cli/internal/util"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or edit the vtask configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := store.LoadConfig()
		if err != nil {
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		data, err := yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("❌ Failed to render config: %w", err)
		}

		fmt.Print(string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := store.GetConfigPath()
		if err != nil {
			return fmt.Errorf("❌ Failed to get config path: %w", err)
		}
		fmt.Println(configPath)
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in the configured editor",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := store.LoadConfig()
		if err != nil {
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		configPath, err := store.GetConfigPath()
		if err != nil {
			return fmt.Errorf("❌ Failed to get config path: %w", err)
		}

		if err := util.OpenEditor(configPath, *config); err != nil {
			log.Printf("❌ Failed to open editor: %v", err)
			return err
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configEditCmd)
	rootCmd.AddCommand(configCmd)
}
