package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"tsimport/config"
	"tsimport/storage"
)

var (
	deleteDBPath string
	deleteUserID string
	deleteWeek   string
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete imported entries or the complete SQLite database file",
	Long: `Destructive cleanup command for the local SQLite store.

With --user and/or --week, only the matching entries are deleted, e.g. to re-import a
corrected week. Without filters, the complete SQLite database file is deleted.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete one user's week before re-importing it
  tsimport delete --user u-123 --week 2025-W05

  # Delete the complete SQLite file (requires interactive confirmation)
  tsimport delete --db ./tsimport.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := deleteDBPath
		if strings.TrimSpace(dbPath) == "" {
			dbPath = viper.GetString(config.KeySinkSQLitePath)
		}
		filter := storage.Filter{
			UserID:  strings.TrimSpace(deleteUserID),
			WeekKey: strings.TrimSpace(deleteWeek),
		}

		target := fmt.Sprintf("database file %q", dbPath)
		if filter != (storage.Filter{}) {
			target = fmt.Sprintf("entries matching %s in %q", describeFilter(filter), dbPath)
		}
		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, target)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		if filter == (storage.Filter{}) {
			if err := removeDatabaseFile(dbPath); err != nil {
				return err
			}
			fmt.Printf("Deleted database file: %s\n", dbPath)
			return nil
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		deleted, err := deleteEntries(ctx, dbPath, filter)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted entries: %d\n", deleted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteDBPath, "db", "", "Path to SQLite database (default: sink.sqlite_path)")
	deleteCmd.Flags().StringVar(&deleteUserID, "user", "", "Only delete entries of this user id")
	deleteCmd.Flags().StringVar(&deleteWeek, "week", "", "Only delete entries of this ISO week, e.g. 2025-W05")
}

func confirmDeletePrompt(input io.Reader, output io.Writer, target string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete %s? Type Y to confirm: ", target); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func describeFilter(filter storage.Filter) string {
	parts := make([]string, 0, 2)
	if filter.UserID != "" {
		parts = append(parts, "user "+filter.UserID)
	}
	if filter.WeekKey != "" {
		parts = append(parts, "week "+filter.WeekKey)
	}
	return strings.Join(parts, ", ")
}

func deleteEntries(ctx context.Context, dbPath string, filter storage.Filter) (int64, error) {
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("database file not found: %s", dbPath)
		}
		return 0, fmt.Errorf("stat database file: %w", err)
	}

	store, err := storage.OpenSQLite(dbPath, viper.GetString(config.KeySinkCollection))
	if err != nil {
		return 0, err
	}
	defer store.Close()

	return store.DeleteEntries(ctx, filter)
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
