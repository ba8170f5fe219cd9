package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/attest/pkg/attest/config"
	"github.com/jamesainslie/attest/pkg/attest/logging"
)

// errCorruptionDetected signals that verification found at least one
// corrupted entry; the process maps it to exit code 2.
var errCorruptionDetected = errors.New("corruption detected")

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "attest",
		Short: "Detect silent data corruption in directory trees",
		Long: `Attest records a baseline manifest of a directory tree's content and
later verifies the tree against it. Every file is classified as unchanged,
corrupted, modified, moved, added, or removed. Corruption means the content
changed while the modification time did not - the signature of bitrot.

Examples:
  attest build ~/photos                      # Write ~/photos/.attest.json
  attest build ~/photos -o baseline.json     # Explicit manifest path
  attest verify ~/photos                     # Check against the baseline
  attest verify ~/photos --update            # Also fold changes into it
  attest verify ~/photos -q                  # Print corrupted entries only`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/attest/config.yaml)")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "directory names to skip (can be repeated)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "hashing workers (0=auto)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "print only corrupted entries and fatal errors")
	rootCmd.PersistentFlags().Bool("progress", false, "show hashing progress on stderr")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	_ = viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("progress", rootCmd.PersistentFlags().Lookup("progress"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "attest"))
		}
		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "attest"))
		}
	}

	viper.SetEnvPrefix("ATTEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("manifest_name", config.DefaultManifestName)
	viper.SetDefault("exclude", config.DefaultExclusions)
	viper.SetDefault("workers", config.DefaultWorkers)
	viper.SetDefault("format", config.DefaultFormat)
	viper.SetDefault("logging.level", config.DefaultLogLevel)

	_ = viper.ReadInConfig()
}

// initLogging configures the logging system from config and flags. Logs
// go to a file so they never interleave with report output.
func initLogging() error {
	level := viper.GetString("logging.level")
	if viper.GetBool("verbose") {
		level = "debug"
	}

	path := viper.GetString("logging.path")
	if path == "" {
		path = config.DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	return logging.Init(logging.Config{
		Level:      level,
		Path:       path,
		Components: viper.GetStringMapString("logging.components"),
	})
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	defer func() { _ = logging.Close() }()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errCorruptionDetected) {
		printError("%v", err)
	}
	return err
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printInfo prints a message unless quiet mode is enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// manifestPathFor resolves the manifest path for a root directory: an
// explicit flag value wins, otherwise the configured manifest filename
// inside the root.
func manifestPathFor(root, explicit string) string {
	if explicit != "" {
		return explicit
	}
	name := viper.GetString("manifest_name")
	if name == "" {
		name = config.DefaultManifestName
	}
	return filepath.Join(root, name)
}

// manifestExclusions returns the manifest's slash-separated path relative
// to root when it resolves inside the tree, so a snapshot never records
// its own manifest. An out-of-tree manifest yields nothing.
func manifestExclusions(root, manifestPath string) []string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil
	}
	absManifest, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil
	}
	rel, err := filepath.Rel(absRoot, absManifest)
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return nil
	}
	return []string{rel}
}
