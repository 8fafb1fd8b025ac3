package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/realmeupdater/realme-updates-tracker/internal/clock/system"
	"github.com/realmeupdater/realme-updates-tracker/internal/config"
	"github.com/realmeupdater/realme-updates-tracker/internal/gitsync"
	"github.com/realmeupdater/realme-updates-tracker/internal/logging"
	"github.com/realmeupdater/realme-updates-tracker/internal/metrics"
	"github.com/realmeupdater/realme-updates-tracker/internal/notify"
	"github.com/realmeupdater/realme-updates-tracker/internal/scraper"
	"github.com/realmeupdater/realme-updates-tracker/internal/storage"
	"github.com/realmeupdater/realme-updates-tracker/internal/storage/gcs"
	"github.com/realmeupdater/realme-updates-tracker/internal/storage/local"
	"github.com/realmeupdater/realme-updates-tracker/internal/store"
	"github.com/realmeupdater/realme-updates-tracker/internal/tracker"
	"github.com/realmeupdater/realme-updates-tracker/internal/update"
)

// newTrackCmd creates and configures the 'track' subcommand, which executes
// one full scrape-diff-notify-archive pass over every configured region.
func newTrackCmd() *cobra.Command {
	var (
		dryRun   bool
		skipPush bool
	)

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Runs one full tracking pass",
		Long: `Fetches every configured region page, writes the region snapshots,
diffs them against the previous run, announces new releases, updates the
version archive, and commits the data directory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrackCommand(cmd, dryRun, skipPush)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log notifications instead of delivering them")
	cmd.Flags().BoolVar(&skipPush, "skip-push", false, "skip the git commit and push at the end of the run")

	return cmd
}

func runTrackCommand(cmd *cobra.Command, dryRun, skipPush bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dryRun {
		cfg.Telegram.DryRun = true
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()

	fetcher, closeFetcher := buildFetcher(cfg)
	defer closeFetcher()

	var mirror storage.Provider
	if cfg.Mirror.Enabled {
		switch cfg.Mirror.Backend {
		case "local":
			blobStore, err := local.New(cfg.Mirror.Local)
			if err != nil {
				return fmt.Errorf("init mirror: %w", err)
			}
			mirror = blobStore
		default:
			blobStore, err := gcs.New(ctx, cfg.Mirror.GCS)
			if err != nil {
				return fmt.Errorf("init mirror: %w", err)
			}
			defer func() {
				if cerr := blobStore.Close(); cerr != nil {
					logger.Warn("Failed to close mirror store", zap.Error(cerr))
				}
			}()
			mirror = blobStore
		}
	}

	counters := metrics.New()

	tr, err := tracker.New(tracker.Options{
		Regions:   regions(cfg),
		DataDir:   cfg.Data.Dir,
		Fetcher:   fetcher,
		Differ:    update.PositionalDiffer{},
		Snapshots: store.NewSnapshotStore(cfg.Data.Dir),
		Archive:   store.NewArchiveStore(filepath.Join(cfg.Data.Dir, "archive")),
		Notifier:  notify.New(cfg.Telegram, logger),
		Syncer:    gitsync.New(cfg.Git, logger),
		Counters:  counters,
		Mirror:    mirror,
		Clock:     system.New(),
		Logger:    logger,
		SkipSync:  skipPush,
	})
	if err != nil {
		return fmt.Errorf("init tracker: %w", err)
	}

	if err := tr.Run(ctx); err != nil {
		return fmt.Errorf("run tracker: %w", err)
	}

	if err := counters.Push(cfg.Metrics.PushgatewayURL); err != nil {
		logger.Warn("Metrics push failed", zap.Error(err))
	}
	return nil
}

func buildFetcher(cfg config.Config) (scraper.Fetcher, func()) {
	if cfg.Headless.Enabled {
		fetcher := scraper.NewHeadlessFetcher(scraper.HeadlessConfig{
			UserAgent:         cfg.HTTP.UserAgent,
			NavigationTimeout: cfg.NavTimeout(),
			WaitSelector:      "div.software-items",
		})
		return fetcher, fetcher.Close
	}
	fetcher := scraper.NewCollyFetcher(scraper.CollyConfig{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.HTTPTimeout(),
	})
	return fetcher, func() {}
}

func regions(cfg config.Config) []tracker.Region {
	out := make([]tracker.Region, 0, len(cfg.Regions))
	for _, region := range cfg.Regions {
		out = append(out, tracker.Region{
			Code:  region.Code,
			URL:   cfg.RegionURL(region.Code),
			Label: region.Label,
		})
	}
	return out
}

// loadConfig resolves the config file: the --config flag when given, else
// ./config.yaml when present, else defaults and environment only.
func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
