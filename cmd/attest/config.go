package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/attest/pkg/attest/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage attest configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/attest/config.yaml (if set)
  2. ~/.config/attest/config.yaml

Environment variables can override config file settings using the ATTEST_ prefix:
  ATTEST_WORKERS=8
  ATTEST_FORMAT=plain`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	fmt.Printf("manifest_name: %s\n", cfg.ManifestName)
	fmt.Printf("exclude:       %s\n", strings.Join(cfg.Exclude, ", "))
	fmt.Printf("workers:       %d\n", cfg.Workers)
	fmt.Printf("format:        %s\n", cfg.Format)
	fmt.Printf("logging.level: %s\n", cfg.Logging.Level)
	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	fmt.Printf("logging.path:  %s\n", logPath)

	return nil
}

// runConfigPath displays the configuration file location.
func runConfigPath(cmd *cobra.Command, args []string) error {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Println(configFile)
		return nil
	}
	fmt.Println(filepath.Join(config.ConfigDir(), "config.yaml"))
	return nil
}
