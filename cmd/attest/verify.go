package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/attest/pkg/attest/builder"
	"github.com/jamesainslie/attest/pkg/attest/diff"
	"github.com/jamesainslie/attest/pkg/attest/logging"
	"github.com/jamesainslie/attest/pkg/attest/manifest"
	"github.com/jamesainslie/attest/pkg/attest/output"
)

var (
	verifyManifest  string
	verifyUpdate    bool
	acceptCorrupted bool
	verifyFormat    string
)

var verifyCmd = &cobra.Command{
	Use:   "verify <directory>",
	Short: "Verify a directory tree against its baseline manifest",
	Long: `Rebuild a snapshot of the directory and compare it against the stored
baseline. Every file is classified; content that changed while its
modification time did not is reported as corrupted.

The exit status is 2 when any corrupted entry is found, 0 otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyManifest, "manifest", "m", "", "reference manifest path (default: <directory>/.attest.json)")
	verifyCmd.Flags().BoolVar(&verifyUpdate, "update", false, "write the updated manifest back after verification")
	verifyCmd.Flags().BoolVar(&acceptCorrupted, "accept-corrupted", false, "with --update, trust current content for corrupted paths")
	verifyCmd.Flags().StringVarP(&verifyFormat, "format", "f", "", "report format: pretty, plain, json")
	rootCmd.AddCommand(verifyCmd)
}

// runVerify compares the live tree against the reference manifest.
func runVerify(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return err
	}
	logger := logging.Get("cli")

	root := args[0]
	manifestPath := manifestPathFor(root, verifyManifest)

	// A malformed or duplicate-path reference is fatal before any report.
	ref, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}

	progress := newProgressPrinter(viper.GetBool("progress"))

	b := builder.New(builder.Options{
		Root:         root,
		Exclude:      viper.GetStringSlice("exclude"),
		ExcludePaths: manifestExclusions(root, manifestPath),
		Workers:      viper.GetInt("workers"),
		OnProgress:   progress.Callback(),
	})

	built, err := b.Build(cmd.Context())
	progress.Finish()
	if err != nil {
		return err
	}

	report := diff.Diff(ref, built.Manifest)
	logger.Info("verification complete",
		"run", report.RunID,
		"corrupted", report.Summary.Corrupted,
		"modified", report.Summary.Modified,
		"moved", report.Summary.Moved)

	if err := renderReport(report, built, root); err != nil {
		return err
	}

	if verifyUpdate {
		updated, err := diff.Update(ref, report, diff.UpdateOptions{
			AcceptCorrupted: acceptCorrupted,
		})
		if err != nil {
			return err
		}
		if err := updated.Save(manifestPath); err != nil {
			return err
		}
		printInfo("Updated %s", manifestPath)
	}

	if report.HasCorruption() {
		return fmt.Errorf("%w: %d entries", errCorruptionDetected, report.Summary.Corrupted)
	}
	return nil
}

// renderReport prints the report through the selected formatter.
func renderReport(report *diff.Report, built *builder.Result, root string) error {
	name := verifyFormat
	if name == "" {
		name = viper.GetString("format")
	}

	formatter, err := output.Get(name)
	if err != nil {
		return err
	}

	result := &output.Result{
		Report:  report,
		Root:    root,
		Skipped: built.Skipped,
		Quiet:   getQuiet(),
		Stats: output.Stats{
			FilesHashed: built.FilesHashed,
			BytesHashed: built.BytesHashed,
			Duration:    built.Elapsed,
		},
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return err
	}
	fmt.Print(buf.String())
	return nil
}
