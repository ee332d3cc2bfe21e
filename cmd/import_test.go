package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tsimport/config"
	"tsimport/importer"
	"tsimport/internal/classify"
	"tsimport/internal/timeutil"
	"tsimport/timesheet"
)

func TestApplyImportOverrides(t *testing.T) {
	base := config.Config{
		UserID:   "from-config",
		InputDir: "./config-dir",
		DryRun:   true,
		Sink:     config.SinkConfig{Backend: "sqlite", SQLitePath: "./tsimport.db"},
	}

	tests := []struct {
		name      string
		overrides importOverrides
		check     func(t *testing.T, cfg config.Config)
	}{
		{
			name:      "no flags keeps config",
			overrides: importOverrides{},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.UserID != base.UserID || cfg.InputDir != base.InputDir || !cfg.DryRun || cfg.Sink != base.Sink {
					t.Fatalf("expected config unchanged, got %+v", cfg)
				}
			},
		},
		{
			name: "flags win",
			overrides: importOverrides{
				UserID:   ptr(" u-9 "),
				InputDir: ptr("./flag-dir"),
				DryRun:   ptr(false),
				Sink:     ptr(" Redis "),
				DBPath:   ptr("./other.db"),
			},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.UserID != "u-9" || cfg.InputDir != "./flag-dir" || cfg.DryRun {
					t.Fatalf("unexpected top-level overrides %+v", cfg)
				}
				if cfg.Sink.Backend != "redis" || cfg.Sink.SQLitePath != "./other.db" {
					t.Fatalf("unexpected sink overrides %+v", cfg.Sink)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			applyImportOverrides(&cfg, tt.overrides)
			tt.check(t, cfg)
		})
	}
}

func TestPrintImportResult(t *testing.T) {
	anchor := timeutil.NewAnchor(time.Date(2025, 1, 27, 0, 0, 0, 0, time.Local))
	result := &importer.Result{
		FilesProcessed: 2,
		Outcomes: []importer.Outcome{
			{
				File:     "2025.02.02-05.xlsx",
				Anchor:   anchor,
				Entries:  make([]timesheet.Entry, 5),
				PayHours: map[classify.PayType]float64{classify.PayBase: 37.5},
				Warnings: []string{"row 7: category \"Mystery\" has no activity rule, recorded as Site"},
			},
			{File: "broken.xlsx", Err: importer.ErrInvalidFilename},
		},
		Errors: []importer.FileError{{File: "broken.xlsx", Reason: importer.ErrInvalidFilename.Error()}},
	}

	var out bytes.Buffer
	printImportResult(&out, result, "sqlite")
	text := out.String()
	for _, want := range []string{
		"OK   2025.02.02-05.xlsx: week 2025-W05, 5 entries, base 37.50 h",
		"warning: row 7",
		"FAIL broken.xlsx: Invalid filename format - cannot extract week info",
		"Batch rejected. Files: 2, Failed: 1",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}

	out.Reset()
	printImportResult(&out, &importer.Result{FilesProcessed: 1, DryRun: true}, "sqlite")
	if !strings.Contains(out.String(), "Dry run completed") {
		t.Fatalf("expected dry-run summary, got:\n%s", out.String())
	}
}

func TestWriteImportReport(t *testing.T) {
	dir := t.TempDir()
	created := time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC)
	entries := []timesheet.Entry{{
		ID: "a", UserID: "u1", WeekKey: "2025-W05", Day: "Monday", Date: "2025-01-27",
		Activity: classify.ActivitySite, PerDiemType: timesheet.PerDiemNone, Status: timesheet.StatusDraft,
		EntryMode: timesheet.EntryModeSimplified, HoursOnly: 8, CreatedAt: created, UpdatedAt: created,
	}}

	for _, tc := range []struct {
		file string
		mode string
	}{
		{file: "raw.csv", mode: "raw"},
		{file: "raw.json", mode: ""},
		{file: "weekly.xlsx", mode: "weekly"},
	} {
		path := filepath.Join(dir, tc.file)
		if err := writeImportReport(path, tc.mode, entries); err != nil {
			t.Fatalf("%s: write report: %v", tc.file, err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s: expected report file: %v", tc.file, err)
		}
	}

	if err := writeImportReport(filepath.Join(dir, "x.csv"), "daily", entries); err == nil {
		t.Fatalf("expected unsupported mode error")
	}
}

func ptr[T any](value T) *T {
	return &value
}
