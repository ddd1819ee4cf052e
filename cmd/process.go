// =============================================================================
// POSLog XML Generator - Process Command
// =============================================================================
//
// This file defines the 'process' command, which generates a document for
// every fixture in the input directory.
//
// COMMAND USAGE:
//   poslog process [flags]
//
// FLAGS:
//   --dry-run   : Generate and validate without writing output files
//   --reference : Also compare every document against this reference
//
// PROCESSING PIPELINE:
//   1. Discover *.yaml and *.yml fixtures in input_dir
//   2. For each fixture (at most max_concurrency at once):
//      a. Bind the fixture and import its items
//      b. Validate the order
//      c. Generate the XML
//      d. Write the output file
//   3. Write a summary report to output_dir
//
// With continue_on_error disabled, the first failure cancels the fixtures
// that have not started yet.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/poslog-xml/internal/config"
	"github.com/ginjaninja78/poslog-xml/internal/converter"
	"github.com/ginjaninja78/poslog-xml/pkg/utils"
)

var processFlags struct {
	dryRun    bool
	reference string
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Generate documents for every fixture in the input directory",
	Long: `The process command scans the input directory for fixture files and generates
one POSLog document per fixture.

Fixtures are processed concurrently, bounded by max_concurrency. Errors in one
fixture do not affect the others unless continue_on_error is false.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, mainConfig)
	},
}

// runProcess is the main function that orchestrates the batch.
func runProcess(cmd *cobra.Command, cfg *config.MainConfig) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: DISCOVER FIXTURES
	// =========================================================================

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir)

	files, err := fm.DiscoverInputFiles()
	if err != nil {
		return errors.Wrap(err, "discover fixtures")
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No fixtures found in %s\n", cfg.InputDir)
		return nil
	}

	logger.Info("Processing fixtures",
		zap.Int("count", len(files)),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
	)

	// =========================================================================
	// STEP 2: PROCESS FIXTURES CONCURRENTLY
	// =========================================================================

	results := processFixtures(cmd.Context(), cfg, files)

	// =========================================================================
	// STEP 3: COLLECT RESULTS AND WRITE SUMMARY
	// =========================================================================

	summary := utils.ProcessingSummary{
		StartTime:  startTime,
		TotalFiles: len(files),
	}

	var firstErr error
	for i, result := range results {
		name := filepath.Base(files[i])

		if result.Success {
			summary.SuccessfulFiles++
			summary.TotalLineItems += result.Stats.LineItemsCreated
			summary.Warnings += result.Stats.ValidationWarnings
			summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:   files[i],
				OutputFile:  result.OutputFile,
				LineItems:   result.Stats.LineItemsCreated,
				ProcessTime: result.Stats.ProcessingTime,
			})
			fmt.Fprintf(out, "  OK   %s -> %s\n", name, result.OutputFile)
			continue
		}

		summary.FailedFiles++
		summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
			InputFile:    files[i],
			ErrorMessage: result.Error.Error(),
		})
		fmt.Fprintf(out, "  FAIL %s: %v\n", name, result.Error)
		if firstErr == nil {
			firstErr = errors.Wrap(result.Error, name)
		}
	}

	summary.EndTime = time.Now()

	if !processFlags.dryRun {
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}
		summaryPath, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
		if err != nil {
			return errors.Wrap(err, "write summary")
		}
		logger.Info("Wrote summary", zap.String("path", summaryPath))
	}

	fmt.Fprintf(out, "\nTotal: %d, successful: %d, failed: %d, elapsed: %s\n",
		summary.TotalFiles, summary.SuccessfulFiles, summary.FailedFiles,
		summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond))

	if summary.FailedFiles > 0 {
		return errors.Wrapf(firstErr, "%d of %d fixture(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// processFixtures runs one converter per fixture. Results are returned in
// the order of files. Fixtures skipped after a failure (continue_on_error
// false) report the cancellation as their error.
func processFixtures(ctx context.Context, cfg *config.MainConfig, files []string) []converter.Result {
	results := make([]converter.Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrency)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			results[i] = processFixture(ctx, cfg, file)
			if results[i].Error != nil && !cfg.ContinueOnError {
				return results[i].Error
			}
			return nil
		})
	}

	// Per-fixture errors are already recorded in results.
	_ = g.Wait()
	return results
}

func processFixture(ctx context.Context, cfg *config.MainConfig, file string) converter.Result {
	fixture, err := config.LoadFixture(file)
	if err != nil {
		return converter.Result{FixturePath: file, Error: err}
	}

	return converter.New(fixture, cfg, logger).WithOptions(converter.Options{
		ReferenceFile: processFlags.reference,
		SkipWrite:     processFlags.dryRun,
	}).Run(ctx)
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&processFlags.dryRun, "dry-run", false, "Generate and validate without writing output files")
	processCmd.Flags().StringVar(&processFlags.reference, "reference", "", "Compare every document against this reference")
}
