package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"tsimport/config"
	"tsimport/output"
	"tsimport/storage"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
	exportDBPath string
	exportUserID string
	exportWeek   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export imported entries from SQLite to CSV/Excel/JSON",
	Long: `Export imported time entries from the local SQLite store.

Modes:
- raw: export each stored entry
- weekly: export per-user, per-week totals (hours per activity, chargeable hours, utilization)

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export raw rows to CSV
  tsimport export --mode raw --db ./tsimport.db --output ./entries.csv

  # Export one user's week to Excel
  tsimport export --user u-123 --week 2025-W05 --output ./week.xlsx

  # Export weekly summaries as JSON
  tsimport export --mode weekly --output ./weekly.json
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = output.FormatFromPath(exportOutput)
		}

		dbPath := exportDBPath
		if strings.TrimSpace(dbPath) == "" {
			dbPath = viper.GetString(config.KeySinkSQLitePath)
		}

		store, err := storage.OpenSQLite(dbPath, viper.GetString(config.KeySinkCollection))
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		entries, err := store.ListEntries(ctx, storage.Filter{
			UserID:  strings.TrimSpace(exportUserID),
			WeekKey: strings.TrimSpace(exportWeek),
		})
		if err != nil {
			return err
		}

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "raw":
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := writer.Write(exportOutput, entries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: raw, Format: %s, File: %s\n", len(entries), format, exportOutput)
		case "weekly":
			summaries := output.BuildWeeklySummaries(entries)
			if err := output.WriteWeeklySummaries(exportOutput, format, summaries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Weeks: %d, Mode: weekly, Format: %s, File: %s\n", len(summaries), format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: raw, weekly)", exportMode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "raw", "Export mode: raw|weekly")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel|json (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Path to SQLite database (default: sink.sqlite_path)")
	exportCmd.Flags().StringVar(&exportUserID, "user", "", "Only export entries of this user id")
	exportCmd.Flags().StringVar(&exportWeek, "week", "", "Only export entries of this ISO week, e.g. 2025-W05")

	_ = exportCmd.MarkFlagRequired("output")
}
