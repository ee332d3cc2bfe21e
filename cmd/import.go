package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"tsimport/config"
	"tsimport/importer"
	"tsimport/internal/classify"
	"tsimport/internal/logger"
	"tsimport/output"
	"tsimport/storage"
	"tsimport/timesheet"
)

var (
	importUserID     string
	importInputDir   string
	importDryRun     bool
	importSink       string
	importDBPath     string
	importReport     string
	importReportMode string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Validate a directory of weekly timesheets and import them as one batch",
	Long: `Read every timesheet workbook in the input directory, validate each file, and extract
day-level draft entries.

The week is taken from the file name:
- YYYY.MM.DD-WW: the date is the Sunday ending the week, WW is its week number
- YYYY-MM-DD: the date is the Monday starting the week

A file fails when its name has no week, the PAYROLL CATEGORY header is missing, or its
base-rate hours exceed the weekly limit. Every file is reported; if any file failed,
nothing is written.

Dry run is the default. Pass --dry-run=false (or set dry_run: false) to write to the sink.`,
	Example: `
  # Preview an import
  tsimport import --user u-123 -d ./timesheets

  # Preview and export the weekly totals that would be written
  tsimport import --user u-123 -d ./timesheets --report ./weekly.csv --report-mode weekly

  # Write to the local SQLite store
  tsimport import --user u-123 -d ./timesheets --dry-run=false --db ./tsimport.db

  # Write to Postgres configured in the config file
  tsimport import --user u-123 -d ./timesheets --dry-run=false --sink postgres
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyImportOverrides(cfg, importOverridesFromFlags(cmd))
		if err := cfg.Validate(); err != nil {
			return err
		}

		log := logger.New(logger.Options{
			Level:     cfg.Log.Level,
			Format:    cfg.Log.Format,
			Component: "import",
		})

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var sink importer.Sink
		if !cfg.DryRun {
			store, err := storage.Open(ctx, cfg.Sink)
			if err != nil {
				return err
			}
			defer store.Close()
			sink = store
		}

		engine := &importer.Engine{
			UserID:          cfg.UserID,
			BaseRateLimit:   cfg.Import.BaseRateLimit,
			SheetName:       cfg.Import.SheetName,
			DateRowFallback: cfg.Import.DateRowFallback,
			Log:             &log,
		}
		result, runErr := importer.Run(ctx, importer.Options{
			InputDir:   cfg.InputDir,
			Extensions: cfg.Import.Extensions,
			Engine:     engine,
			Log:        &log,
		}, sink)
		if result == nil {
			return runErr
		}

		printImportResult(os.Stdout, result, cfg.Sink.Backend)
		if runErr != nil {
			if errors.Is(runErr, importer.ErrBatchRejected) {
				return fmt.Errorf("%d of %d files failed: %w", len(result.Errors), result.FilesProcessed, runErr)
			}
			return runErr
		}

		if strings.TrimSpace(importReport) != "" {
			if err := writeImportReport(importReport, importReportMode, result.Entries); err != nil {
				return err
			}
			fmt.Printf("Report written: %s\n", importReport)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importUserID, "user", "", "User id stamped on every entry (overrides user_id)")
	importCmd.Flags().StringVarP(&importInputDir, "input-dir", "d", "", "Directory with timesheet files (overrides input_dir)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", true, "Parse and report only, never write (overrides dry_run)")
	importCmd.Flags().StringVar(&importSink, "sink", "", "Sink backend: sqlite|postgres|redis (overrides sink.backend)")
	importCmd.Flags().StringVar(&importDBPath, "db", "", "Path to SQLite database (overrides sink.sqlite_path)")
	importCmd.Flags().StringVarP(&importReport, "report", "o", "", "Write the extracted entries to a .csv, .xlsx or .json file")
	importCmd.Flags().StringVar(&importReportMode, "report-mode", "raw", "Report content: raw|weekly")
}

// importOverrides holds the flags the operator set explicitly; nil fields
// leave the configured value alone.
type importOverrides struct {
	UserID   *string
	InputDir *string
	DryRun   *bool
	Sink     *string
	DBPath   *string
}

func importOverridesFromFlags(cmd *cobra.Command) importOverrides {
	flags := cmd.Flags()
	overrides := importOverrides{}
	if flags.Changed("user") {
		overrides.UserID = &importUserID
	}
	if flags.Changed("input-dir") {
		overrides.InputDir = &importInputDir
	}
	if flags.Changed("dry-run") {
		overrides.DryRun = &importDryRun
	}
	if flags.Changed("sink") {
		overrides.Sink = &importSink
	}
	if flags.Changed("db") {
		overrides.DBPath = &importDBPath
	}
	return overrides
}

func applyImportOverrides(cfg *config.Config, overrides importOverrides) {
	if overrides.UserID != nil {
		cfg.UserID = strings.TrimSpace(*overrides.UserID)
	}
	if overrides.InputDir != nil {
		cfg.InputDir = strings.TrimSpace(*overrides.InputDir)
	}
	if overrides.DryRun != nil {
		cfg.DryRun = *overrides.DryRun
	}
	if overrides.Sink != nil {
		cfg.Sink.Backend = strings.ToLower(strings.TrimSpace(*overrides.Sink))
	}
	if overrides.DBPath != nil {
		cfg.Sink.SQLitePath = strings.TrimSpace(*overrides.DBPath)
	}
}

func printImportResult(w io.Writer, result *importer.Result, backend string) {
	for _, outcome := range result.Outcomes {
		if outcome.Failed() {
			fmt.Fprintf(w, "  FAIL %s: %s\n", outcome.File, outcome.Reason())
			continue
		}
		fmt.Fprintf(w, "  OK   %s: week %s, %d entries, base %.2f h, overtime %.2f h\n",
			outcome.File,
			outcome.Anchor.WeekKey(),
			len(outcome.Entries),
			outcome.PayHours[classify.PayBase],
			outcome.PayHours[classify.PayOvertime],
		)
		for _, warning := range outcome.Warnings {
			fmt.Fprintf(w, "       warning: %s\n", warning)
		}
	}

	switch {
	case result.Failed():
		fmt.Fprintf(w, "Batch rejected. Files: %d, Failed: %d, Entries written: 0\n", result.FilesProcessed, len(result.Errors))
	case result.DryRun:
		fmt.Fprintf(w, "Dry run completed. Files: %d, Lock files skipped: %d, Entries: %d (nothing written)\n",
			result.FilesProcessed, result.FilesSkipped, len(result.Entries))
	default:
		fmt.Fprintf(w, "Import completed. Files: %d, Lock files skipped: %d, Entries: %d, Written to %s: %d\n",
			result.FilesProcessed, result.FilesSkipped, len(result.Entries), backend, result.Written)
	}
}

func writeImportReport(path, mode string, entries []timesheet.Entry) error {
	format := output.FormatFromPath(path)
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "raw":
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}
		return writer.Write(path, entries)
	case "weekly":
		return output.WriteWeeklySummaries(path, format, output.BuildWeeklySummaries(entries))
	default:
		return fmt.Errorf("unsupported report mode: %s (supported: raw, weekly)", mode)
	}
}
