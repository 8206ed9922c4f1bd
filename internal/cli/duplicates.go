package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sbarthel/dupsync/pkg/dupes"
	"github.com/sbarthel/dupsync/pkg/logging"
	"github.com/sbarthel/dupsync/pkg/models"
	"github.com/sbarthel/dupsync/pkg/output"
)

// DuplicatesFlags holds duplicates command flags
type DuplicatesFlags struct {
	Path       string
	InputJSON  string
	OutputJSON string
	Delete     bool
	DryRun     bool
	Exclude    string
	Parallel   int
	LogFile    string
	LogFormat  string
	LogLevel   string
}

var duplicatesFlags DuplicatesFlags

// NewDuplicatesCommand creates the duplicates command
func NewDuplicatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Find and handle duplicate files",
		Long: `Scan a directory tree for files with identical content and report them
as duplicate groups. Files are bucketed by size first; only size collisions
are hashed. Optionally delete the redundant copies, keeping each group's
main file.`,
		RunE: runDuplicates,
	}

	cmd.Flags().StringVarP(&duplicatesFlags.Path, "path", "p", "", "directory to scan")
	cmd.Flags().StringVarP(&duplicatesFlags.InputJSON, "input-json", "i", "", "load duplicate groups from a previous report instead of scanning")
	cmd.Flags().StringVarP(&duplicatesFlags.OutputJSON, "output-json", "o", "", "save the report to this file (default: dupes_<timestamp>.json)")
	cmd.Flags().BoolVarP(&duplicatesFlags.Delete, "delete", "d", false, "delete duplicate files (requires --path)")
	cmd.Flags().BoolVar(&duplicatesFlags.DryRun, "dry-run", false, "simulate deletion without deleting")
	cmd.Flags().StringVar(&duplicatesFlags.Exclude, "exclude", "", "comma-separated regexp fragments; matching paths are ignored")
	cmd.Flags().IntVar(&duplicatesFlags.Parallel, "parallel", 0, "number of hashing workers (default: CPU count)")

	cmd.Flags().StringVar(&duplicatesFlags.LogFile, "log-file", "", "write logs to file instead of stderr")
	cmd.Flags().StringVar(&duplicatesFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&duplicatesFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if duplicatesFlags.Path == "" && duplicatesFlags.InputJSON == "" {
		return fmt.Errorf("either --path or --input-json must be provided")
	}
	if duplicatesFlags.Delete && duplicatesFlags.Path == "" {
		return fmt.Errorf("--delete requires --path (group paths are relative to the scanned root)")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := createLogger(cfg, duplicatesFlags.LogFile, duplicatesFlags.LogFormat, duplicatesFlags.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	logger = logger.WithFields(logging.Fields{"run_id": uuid.New().String()})

	report := &models.DuplicateReport{
		Root:      duplicatesFlags.Path,
		StartTime: time.Now(),
		DryRun:    duplicatesFlags.DryRun,
	}

	scanned := false
	if duplicatesFlags.InputJSON != "" {
		logger.Info(ctx, "Loading duplicate data", logging.Fields{"path": duplicatesFlags.InputJSON})
		groups, err := dupes.LoadReport(duplicatesFlags.InputJSON)
		if err != nil {
			return fmt.Errorf("failed to load input report: %w", err)
		}
		report.Groups = groups
	} else {
		scanner, pool, err := buildScanner(cfg, duplicatesFlags.Exclude, duplicatesFlags.Parallel, logger)
		if err != nil {
			return err
		}

		// Progress covers the hashing phase, which is where the time goes.
		// The pool sizes the bar once the candidate batch is known.
		var bar *output.Progress
		pool.OnStart = func(total int) {
			bar = output.StartProgress("hashing", total, !globalFlags.Quiet)
		}
		pool.OnDone = func(string) { bar.Increment() }
		pool.OnFinish = func() { bar.Finish() }

		finder := dupes.NewFinder(scanner, pool, logger)
		report.Groups = finder.Find(ctx, duplicatesFlags.Path)
		scanned = true
	}

	report.TotalDuplicates = models.TotalDuplicates(report.Groups)
	report.TotalWasted = models.TotalWasted(report.Groups)

	outputJSON := duplicatesFlags.OutputJSON
	if outputJSON == "" && scanned {
		outputJSON = fmt.Sprintf("dupes_%s.json", report.StartTime.Format("20060102_150405"))
	}
	if outputJSON != "" {
		if err := dupes.WriteReport(outputJSON, report.Groups); err != nil {
			return err
		}
		logger.Info(ctx, "Report saved", logging.Fields{"path": outputJSON})
	}

	if duplicatesFlags.Delete {
		deleter := dupes.NewDeleter(cfg.Performance.CopyWorkers, logger)
		report.Deleted, report.BytesFreed = deleter.Delete(ctx, duplicatesFlags.Path, report.Groups, duplicatesFlags.DryRun)
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	if !globalFlags.Quiet {
		output.PrintDuplicateSummary(os.Stdout, report)
	}
	return nil
}
