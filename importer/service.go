package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tsimport/internal/logger"
	"tsimport/timesheet"
)

var ErrBatchRejected = errors.New("batch rejected: fix the failed files and re-run")

// DefaultExtensions are the input file types picked up from a directory.
var DefaultExtensions = []string{".xlsx", ".xlsm", ".csv"}

// lockFilePrefixes mark editor lock files that sit next to open workbooks.
var lockFilePrefixes = []string{"~$", ".~lock."}

// Sink persists a whole batch. Implementations write all entries or none.
type Sink interface {
	WriteEntries(ctx context.Context, entries []timesheet.Entry) (int, error)
}

type Options struct {
	InputDir   string
	Extensions []string
	Engine     *Engine
	Log        *logger.Logger
}

type FileError struct {
	File   string
	Reason string
}

type Result struct {
	FilesProcessed int
	FilesSkipped   int
	Outcomes       []Outcome
	Entries        []timesheet.Entry
	Errors         []FileError
	Written        int
	DryRun         bool
}

func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Run parses every timesheet in opts.InputDir and hands the combined
// entries to sink in a single write. Any failed file rejects the whole
// batch and the sink is not called. A nil sink is a dry run.
func Run(ctx context.Context, opts Options, sink Sink) (*Result, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("run import: engine is required")
	}
	log := logger.Nop()
	if opts.Log != nil {
		log = *opts.Log
	}

	paths, skipped, err := listInputFiles(opts.InputDir, opts.Extensions)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no timesheet files found in %s", opts.InputDir)
	}

	result := &Result{
		FilesSkipped: skipped,
		Outcomes:     make([]Outcome, 0, len(paths)),
		Entries:      make([]timesheet.Entry, 0, 64*len(paths)),
		DryRun:       sink == nil,
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run import: %w", err)
		}

		outcome := opts.Engine.ParseFile(path)
		result.FilesProcessed++
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Failed() {
			log.Error().Str("file", outcome.File).Msg(outcome.Reason())
			result.Errors = append(result.Errors, FileError{File: outcome.File, Reason: outcome.Reason()})
			continue
		}

		log.Info().
			Str("file", outcome.File).
			Str("week", outcome.Anchor.WeekKey()).
			Int("entries", len(outcome.Entries)).
			Msg("parsed timesheet")
		result.Entries = append(result.Entries, outcome.Entries...)
	}

	if result.Failed() {
		return result, ErrBatchRejected
	}
	if sink == nil || len(result.Entries) == 0 {
		return result, nil
	}

	written, err := sink.WriteEntries(ctx, result.Entries)
	if err != nil {
		return result, fmt.Errorf("write entries: %w", err)
	}
	result.Written = written
	log.Info().Int("written", written).Msg("batch written")

	return result, nil
}

// listInputFiles returns the matching files of dir sorted by name, plus
// the number of editor lock files it skipped.
func listInputFiles(dir string, extensions []string) ([]string, int, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}

	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("read input directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(items))
	skipped := 0
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		name := item.Name()
		if !allowed[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if isLockFile(name) {
			skipped++
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)

	return paths, skipped, nil
}

func isLockFile(name string) bool {
	for _, prefix := range lockFilePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
