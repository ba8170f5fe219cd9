package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/attest/pkg/attest/builder"
	"github.com/jamesainslie/attest/pkg/attest/types"
)

var buildOutput string

var buildCmd = &cobra.Command{
	Use:   "build <directory>",
	Short: "Record a baseline manifest for a directory tree",
	Long: `Walk the directory, hash every regular file with BLAKE3, and write the
manifest. The manifest is the trusted baseline that later verify runs are
compared against.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "manifest path (default: <directory>/.attest.json)")
	rootCmd.AddCommand(buildCmd)
}

// runBuild snapshots the tree and persists the manifest.
func runBuild(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return err
	}

	root := args[0]
	manifestPath := manifestPathFor(root, buildOutput)

	progress := newProgressPrinter(viper.GetBool("progress"))

	b := builder.New(builder.Options{
		Root:         root,
		Exclude:      viper.GetStringSlice("exclude"),
		ExcludePaths: manifestExclusions(root, manifestPath),
		Workers:      viper.GetInt("workers"),
		OnProgress:   progress.Callback(),
	})

	result, err := b.Build(cmd.Context())
	progress.Finish()
	if err != nil {
		// Cancellation included: nothing is persisted.
		return err
	}

	if err := result.Manifest.Save(manifestPath); err != nil {
		return err
	}

	printInfo("Wrote %s: %d files, %s hashed in %s",
		manifestPath,
		result.FilesHashed,
		types.FormatSize(result.BytesHashed),
		result.Elapsed.Round(time.Millisecond))

	if len(result.Skipped) > 0 {
		printInfo("%d paths skipped:", len(result.Skipped))
		for _, s := range result.Skipped {
			printInfo("  %s: %s", s.Path, s.Err)
		}
	}

	return nil
}
