package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sbarthel/dupsync/pkg/cache"
	"github.com/sbarthel/dupsync/pkg/logging"
	"github.com/sbarthel/dupsync/pkg/output"
	"github.com/sbarthel/dupsync/pkg/syncer"
)

// SyncFlags holds sync command flags
type SyncFlags struct {
	CacheFile string
	DeepScan  bool
	DryRun    bool
	Exclude   string
	Parallel  int
	LogFile   string
	LogFormat string
	LogLevel  string
}

var syncFlags SyncFlags

// NewSyncCommand creates the sync command
func NewSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync SOURCE DEST",
		Short: "Synchronize a source directory into a destination",
		Long: `One-way synchronization: copy files from SOURCE into DEST. By default
only files missing from the destination are copied. With --deep-scan, file
sizes, modification times and content digests are compared and mismatched
files are recopied; a persisted cache keeps repeat runs from rehashing
unchanged files.`,
		Args: cobra.ExactArgs(2),
		RunE: runSync,
	}

	cmd.Flags().StringVar(&syncFlags.CacheFile, "cache", "", "cache file path (default from config, empty string disables)")
	cmd.Flags().BoolVar(&syncFlags.DeepScan, "deep-scan", false, "compare metadata and content digests, not just presence")
	cmd.Flags().BoolVar(&syncFlags.DryRun, "dry-run", false, "plan and report without copying or touching the cache")
	cmd.Flags().StringVar(&syncFlags.Exclude, "exclude", "", "comma-separated regexp fragments; matching paths are ignored")
	cmd.Flags().IntVar(&syncFlags.Parallel, "parallel", 0, "number of parallel copy workers (default: 5)")

	cmd.Flags().StringVar(&syncFlags.LogFile, "log-file", "", "write logs to file instead of stderr")
	cmd.Flags().StringVar(&syncFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&syncFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	source, dest := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := createLogger(cfg, syncFlags.LogFile, syncFlags.LogFormat, syncFlags.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	runID := uuid.New().String()
	logger = logger.WithFields(logging.Fields{"run_id": runID})

	scanner, pool, err := buildScanner(cfg, syncFlags.Exclude, syncFlags.Parallel, logger)
	if err != nil {
		return err
	}

	cachePath := cfg.Scan.CacheFile
	if cmd.Flags().Changed("cache") {
		cachePath = syncFlags.CacheFile
	}
	store := cache.NewStore(cachePath, logger)

	workers := syncFlags.Parallel
	if workers < 1 {
		workers = cfg.Performance.CopyWorkers
	}

	s := syncer.New(syncer.Options{
		Source:   source,
		Dest:     dest,
		DeepScan: syncFlags.DeepScan,
		DryRun:   syncFlags.DryRun,
		Workers:  workers,
		RunID:    runID,
	}, scanner, store, logger)

	// Hash progress while scanning, then copy progress once the plan is
	// sized. Both share the one bar variable; the phases never overlap.
	var bar *output.Progress
	pool.OnStart = func(total int) {
		bar = output.StartProgress("hashing", total, !globalFlags.Quiet)
	}
	pool.OnDone = func(string) { bar.Increment() }
	pool.OnFinish = func() { bar.Finish() }
	s.OnPlan = func(total int) {
		bar = output.StartProgress("copying", total, !globalFlags.Quiet)
	}
	s.OnCopy = func(string) { bar.Increment() }

	report, err := s.Run(ctx)
	bar.Finish()
	if err != nil {
		return err
	}

	if !globalFlags.Quiet {
		output.PrintSyncSummary(os.Stdout, report)
	}

	if code := report.Status.ExitCode(); code != 0 {
		os.Exit(code)
	}
	return nil
}
