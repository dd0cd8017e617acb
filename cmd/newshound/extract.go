package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/newshound/newshound/internal/config"
	"github.com/newshound/newshound/internal/engine"
	"github.com/newshound/newshound/internal/observability"
	"github.com/newshound/newshound/internal/storage"
	"github.com/newshound/newshound/internal/types"
)

var (
	sourceID  string
	pageURL   string
	manifest  string
	fetchedAt string
)

// extractCmd creates the "extract" subcommand.
func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [page file]",
		Short: "Extract and store an article from a fetched page",
		Long: `Extract an article from an already-fetched page file using the
source's configured selector chains, then store the resulting record.

Single page:
  newshound extract page.html --source bbc --url https://www.bbc.com/news/xyz

Batch via manifest (one JSON object per line with source_id, url, file
and optional fetched_at):
  newshound extract --manifest pages.jsonl`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().StringVarP(&sourceID, "source", "s", "", "source ID from the site catalogue")
	cmd.Flags().StringVarP(&pageURL, "url", "u", "", "URL the page was fetched from")
	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "JSONL manifest of pages to process")
	cmd.Flags().StringVar(&fetchedAt, "fetched-at", "", "fetch time as RFC3339 (default: now)")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg)

	sites, err := config.LoadSites(cfg.Extract.SitesPath, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warn("store close failed", "error", err)
		}
	}()

	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}

	eng, err := engine.New(cfg, sites, store, metrics, logger)
	if err != nil {
		return err
	}

	if manifest != "" {
		return runManifest(ctx, eng, logger)
	}

	if len(args) != 1 || sourceID == "" || pageURL == "" {
		return fmt.Errorf("a page file, --source and --url are required (or use --manifest)")
	}

	when := time.Now()
	if fetchedAt != "" {
		when, err = time.Parse(time.RFC3339, fetchedAt)
		if err != nil {
			return fmt.Errorf("invalid --fetched-at: %w", err)
		}
	}

	body, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read page file: %w", err)
	}

	rec, outcome, err := eng.ExtractAndStore(ctx, sourceID, types.NewPage(pageURL, body, when))
	if err != nil {
		return err
	}

	return printResult(rec, outcome)
}

// manifestEntry is one line of a batch manifest.
type manifestEntry struct {
	SourceID  string `json:"source_id"`
	URL       string `json:"url"`
	File      string `json:"file"`
	FetchedAt string `json:"fetched_at,omitempty"`
}

// runManifest feeds manifest pages through the engine's worker pool.
func runManifest(ctx context.Context, eng *engine.Engine, logger *slog.Logger) error {
	f, err := os.Open(manifest)
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	jobs := make(chan engine.Job)
	results := eng.Run(ctx, jobs)

	go func() {
		defer close(jobs)
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			raw := scanner.Bytes()
			if len(raw) == 0 {
				continue
			}

			var entry manifestEntry
			if err := json.Unmarshal(raw, &entry); err != nil {
				logger.Warn("skipping malformed manifest line", "line", line, "error", err)
				continue
			}

			when := time.Now()
			if entry.FetchedAt != "" {
				if t, err := time.Parse(time.RFC3339, entry.FetchedAt); err == nil {
					when = t
				} else {
					logger.Warn("invalid fetched_at, using now", "line", line, "value", entry.FetchedAt)
				}
			}

			body, err := os.ReadFile(entry.File)
			if err != nil {
				logger.Warn("skipping unreadable page file", "line", line, "file", entry.File, "error", err)
				continue
			}

			select {
			case jobs <- engine.Job{SourceID: entry.SourceID, Page: types.NewPage(entry.URL, body, when)}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Error("manifest read failed", "error", err)
		}
	}()

	var inserted, duplicate, rejected, failed int
	for res := range results {
		switch {
		case errors.Is(res.Err, types.ErrURLFiltered):
			logger.Info("page filtered", "source", res.SourceID, "url", res.URL)
		case res.Err != nil:
			failed++
			logger.Error("extraction failed", "source", res.SourceID, "url", res.URL, "error", res.Err)
		default:
			switch res.Outcome.Status {
			case types.StatusInserted:
				inserted++
			case types.StatusDuplicate:
				duplicate++
			case types.StatusRejected:
				rejected++
				logger.Error("record rejected by storage", "url", res.URL, "reason", res.Outcome.Reason)
			}
		}
	}

	logger.Info("extraction run complete",
		"inserted", inserted,
		"duplicate", duplicate,
		"rejected", rejected,
		"failed", failed)
	return nil
}

// openStore builds the configured storage backend.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "sqlite":
		return storage.NewSQLiteStore(cfg.Storage, logger)
	case "mongodb":
		return storage.NewMongoStore(ctx, cfg.Storage, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
}

func printResult(rec *types.ArticleRecord, outcome types.StorageOutcome) error {
	out := struct {
		Record  *types.ArticleRecord `json:"record"`
		Outcome types.StorageOutcome `json:"outcome"`
	}{rec, outcome}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
