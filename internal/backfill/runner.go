// Package backfill re-processes exported thread documents from disk. The
// agent runtime exports one JSON document per file; the runner walks a
// directory, runs each file through the extraction engine, and stores the
// results. Runs are resumable: processed files are tracked in a state file.
package backfill

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MikeSquared-Agency/scribe/internal/extractor"
	"github.com/MikeSquared-Agency/scribe/internal/store"
)

// Config holds the backfill run configuration.
type Config struct {
	ThreadsDir  string // directory of exported thread documents (*.json)
	SingleFile  string // process a single file only
	StatePath   string // state file location ("" = default)
	DryRun      bool   // extract but don't persist
	MinMessages int    // skip threads with fewer extracted messages
}

// Summary reports what a run did.
type Summary struct {
	FilesSeen     int      `json:"filesSeen"`
	FilesSkipped  int      `json:"filesSkipped"`
	Conversations int      `json:"conversations"`
	Messages      int      `json:"messages"`
	Errors        []string `json:"errors,omitempty"`
	DryRun        bool     `json:"dryRun"`
}

// Runner orchestrates the backfill process.
type Runner struct {
	cfg    Config
	store  *store.Store
	logger *slog.Logger
}

// NewRunner creates a backfill runner. The store may be nil only for dry
// runs.
func NewRunner(cfg Config, s *store.Store, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, store: s, logger: logger}
}

// Run executes the backfill and returns its summary.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	state, err := LoadState(r.cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	files, err := r.discoverFiles()
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	r.logger.Info("files discovered", "count", len(files))

	summary := &Summary{DryRun: r.cfg.DryRun}

	for _, path := range files {
		select {
		case <-ctx.Done():
			r.logger.Info("backfill interrupted, saving state")
			_ = state.Save()
			return summary, ctx.Err()
		default:
		}

		summary.FilesSeen++
		if state.IsProcessed(path) {
			summary.FilesSkipped++
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("failed to read thread file", "path", path, "error", err)
			state.AddError(fmt.Sprintf("read %s: %v", path, err))
			summary.Errors = append(summary.Errors, fmt.Sprintf("read %s: %v", path, err))
			continue
		}

		res := extractor.Extract(string(data))
		if !res.Success {
			r.logger.Warn("failed to extract thread", "path", path, "error", res.ErrorMessage)
			state.AddError(fmt.Sprintf("extract %s: %s", path, res.ErrorMessage))
			summary.Errors = append(summary.Errors, fmt.Sprintf("extract %s: %s", path, res.ErrorMessage))
			continue
		}

		if res.ConversationCount < r.cfg.MinMessages {
			r.logger.Info("thread below message gate, skipping",
				"path", path,
				"messages", res.ConversationCount,
			)
			state.MarkProcessed(path)
			summary.FilesSkipped++
			continue
		}

		threadRef := threadRefForFile(path)
		if !r.cfg.DryRun {
			if _, err := r.store.SaveConversation(ctx, threadRef, res); err != nil {
				r.logger.Error("persistence failed", "path", path, "error", err)
				state.AddError(fmt.Sprintf("store %s: %v", path, err))
				summary.Errors = append(summary.Errors, fmt.Sprintf("store %s: %v", path, err))
				continue
			}
		}

		state.MarkProcessed(path)
		state.Conversations++
		state.Messages += res.ConversationCount
		summary.Conversations++
		summary.Messages += res.ConversationCount

		r.logger.Info("thread backfilled",
			"path", path,
			"thread_ref", threadRef,
			"messages", res.ConversationCount,
			"dry_run", r.cfg.DryRun,
		)
	}

	state.FilesRemaining = 0
	if !r.cfg.DryRun {
		if err := state.Save(); err != nil {
			r.logger.Warn("failed to save backfill state", "error", err)
		}
	}

	r.logger.Info("backfill complete",
		"files", summary.FilesSeen,
		"skipped", summary.FilesSkipped,
		"conversations", summary.Conversations,
		"messages", summary.Messages,
		"errors", len(summary.Errors),
	)

	return summary, nil
}

// discoverFiles lists the thread documents to process, sorted for stable
// resume ordering.
func (r *Runner) discoverFiles() ([]string, error) {
	if r.cfg.SingleFile != "" {
		return []string{r.cfg.SingleFile}, nil
	}

	entries, err := os.ReadDir(r.cfg.ThreadsDir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", r.cfg.ThreadsDir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(r.cfg.ThreadsDir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// threadRefForFile derives a stable thread ref from the export filename.
func threadRefForFile(path string) string {
	base := filepath.Base(path)
	return "export:" + strings.TrimSuffix(base, ".json")
}
