// Package tracker orchestrates a full run: per-region fetch, normalize,
// snapshot, diff, notify and archive, followed by the merged documents, the
// devices index, optional mirroring, and the git sync.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/realmeupdater/realme-updates-tracker/internal/notify"
	"github.com/realmeupdater/realme-updates-tracker/internal/scraper"
	"github.com/realmeupdater/realme-updates-tracker/internal/storage"
	"github.com/realmeupdater/realme-updates-tracker/internal/store"
	"github.com/realmeupdater/realme-updates-tracker/internal/update"
)

// Region pairs a site region code with its persisted label.
type Region struct {
	Code  string
	URL   string
	Label string
}

// Clock abstracts time for the sync commit timestamp.
type Clock interface {
	Now() time.Time
}

// Snapshots is the slice of the snapshot store the tracker needs.
type Snapshots interface {
	Promote(region string) error
	Write(region string, records []update.UpdateRecord) error
	LoadPrevious(region string) ([]update.UpdateRecord, error)
	MergeLatest(regions []string) error
	WriteDevices(devices map[string]string) error
}

// Archive is the slice of the archive store the tracker needs.
type Archive interface {
	Archive(record update.UpdateRecord) error
	Merge() error
}

// Notifier renders and delivers new-release messages.
type Notifier interface {
	Message(record update.UpdateRecord) string
	Send(ctx context.Context, message string) (notify.Status, error)
}

// Syncer commits and pushes the data directory.
type Syncer interface {
	Sync(ctx context.Context, now time.Time, runID string) error
}

// Counters receives run statistics. Implemented by the metrics package.
type Counters interface {
	RecordsScraped(region string, n int)
	ChangesFound(region string, n int)
	NotificationSent(status string)
	ArchiveWrite()
	RegionFailure(region string)
}

// Options wires a Tracker. Mirror and SkipSync are optional; everything else
// is required.
type Options struct {
	Regions   []Region
	DataDir   string
	Fetcher   scraper.Fetcher
	Differ    update.Differ
	Snapshots Snapshots
	Archive   Archive
	Notifier  Notifier
	Syncer    Syncer
	Counters  Counters
	Mirror    storage.Provider
	Clock     Clock
	Logger    *zap.Logger
	SkipSync  bool
}

// Tracker executes runs. A run is strictly sequential: one region at a time,
// one record at a time, blocking on every external call.
type Tracker struct {
	opts Options
}

// New builds a Tracker.
func New(opts Options) (*Tracker, error) {
	if len(opts.Regions) == 0 {
		return nil, fmt.Errorf("at least one region is required")
	}
	if opts.Fetcher == nil || opts.Differ == nil || opts.Snapshots == nil ||
		opts.Archive == nil || opts.Notifier == nil || opts.Clock == nil {
		return nil, fmt.Errorf("missing required dependency")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Tracker{opts: opts}, nil
}

// Run executes one full pass. Fetch and parse failures skip the affected
// region; persistence failures abort the run because partial state would
// corrupt the two-generation diff.
func (t *Tracker) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := t.opts.Logger.With(zap.String("run_id", runID))
	logger.Info("Starting run", zap.Int("regions", len(t.opts.Regions)))

	registry := update.NewDeviceRegistry()
	normalizer := update.NewNormalizer(registry)

	snapshots := make(map[string][]update.UpdateRecord, len(t.opts.Regions))
	var scraped []Region
	for _, region := range t.opts.Regions {
		records, err := t.scrapeRegion(ctx, region, normalizer)
		if err != nil {
			// Keep the other regions going; this one diffs next run.
			logger.Error("Region scrape failed; skipping",
				zap.String("region", region.Label), zap.Error(err))
			t.countRegionFailure(region.Label)
			continue
		}
		snapshots[region.Label] = records
		scraped = append(scraped, region)
		t.countRecords(region.Label, len(records))
	}
	if len(scraped) == 0 {
		return fmt.Errorf("every region failed to scrape")
	}

	// Merge over every configured region, not just this run's successes: a
	// region whose fetch failed still has its last good snapshot on disk and
	// stays in the published document.
	labels := make([]string, 0, len(t.opts.Regions))
	for _, region := range t.opts.Regions {
		labels = append(labels, region.Label)
	}
	if err := t.opts.Snapshots.MergeLatest(labels); err != nil {
		return fmt.Errorf("merge latest: %w", err)
	}

	for _, region := range scraped {
		if err := t.processChanges(ctx, region.Label, snapshots[region.Label], logger); err != nil {
			return err
		}
	}

	if err := t.opts.Archive.Merge(); err != nil {
		return fmt.Errorf("merge archive: %w", err)
	}
	if err := t.opts.Snapshots.WriteDevices(registry.Snapshot()); err != nil {
		return fmt.Errorf("write devices: %w", err)
	}

	t.mirror(ctx, logger)

	if t.opts.SkipSync || t.opts.Syncer == nil {
		logger.Info("Run finished", zap.Bool("synced", false))
		return nil
	}
	if err := t.opts.Syncer.Sync(ctx, t.opts.Clock.Now(), runID); err != nil {
		// Delivery-class failure: the data on disk is consistent.
		logger.Error("Git sync failed", zap.Error(err))
		logger.Info("Run finished", zap.Bool("synced", false))
		return nil
	}
	logger.Info("Run finished", zap.Bool("synced", true))
	return nil
}

// scrapeRegion fetches and normalizes one region, then rotates and writes
// its snapshot. The promote-then-write ordering is the two-generation
// retention: rename the old file first, write the new one after.
func (t *Tracker) scrapeRegion(ctx context.Context, region Region, normalizer *update.Normalizer) ([]update.UpdateRecord, error) {
	html, err := t.opts.Fetcher.Fetch(ctx, region.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", region.Label, err)
	}
	items, err := scraper.ParseItems(html)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", region.Label, err)
	}

	records := make([]update.UpdateRecord, 0, len(items))
	for _, item := range items {
		records = append(records, normalizer.Normalize(item, region.Label))
	}

	if err := t.opts.Snapshots.Promote(region.Label); err != nil {
		return nil, fmt.Errorf("promote snapshot: %w", err)
	}
	if err := t.opts.Snapshots.Write(region.Label, records); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	return records, nil
}

// processChanges diffs one region against its previous generation and
// notifies and archives every new record.
func (t *Tracker) processChanges(ctx context.Context, label string, current []update.UpdateRecord, logger *zap.Logger) error {
	previous, err := t.opts.Snapshots.LoadPrevious(label)
	if err != nil {
		if errors.Is(err, store.ErrNoPreviousSnapshot) {
			logger.Info("No previous snapshot; skipping diff", zap.String("region", label))
			return nil
		}
		return fmt.Errorf("load previous snapshot for %s: %w", label, err)
	}

	changes := t.opts.Differ.Diff(current, previous)
	t.countChanges(label, len(changes))
	if len(changes) == 0 {
		logger.Info("No new updates", zap.String("region", label))
		return nil
	}

	for _, record := range changes {
		t.notifyChange(ctx, record, logger)

		if record.Download == "" {
			continue
		}
		if err := t.opts.Archive.Archive(record); err != nil {
			return fmt.Errorf("archive %s: %w", record.Codename, err)
		}
		t.countArchiveWrite()
	}
	return nil
}

// notifyChange delivers one notification. Records without a usable version
// are suppressed here rather than in the differ.
func (t *Tracker) notifyChange(ctx context.Context, record update.UpdateRecord, logger *zap.Logger) {
	if record.Version == "" || record.Version == update.Unknown {
		logger.Info("Suppressing notification for unknown version",
			zap.String("device", record.Device), zap.String("region", record.Region))
		return
	}

	status, err := t.opts.Notifier.Send(ctx, t.opts.Notifier.Message(record))
	if err != nil {
		logger.Error("Notification failed",
			zap.String("device", record.Device), zap.Error(err))
		t.countNotification("error")
		return
	}
	t.countNotification(status.String())
	if status == notify.StatusDelivered {
		logger.Info("Notification sent",
			zap.String("device", record.Device),
			zap.String("version", record.Version),
			zap.String("region", record.Region))
	}
}

// mirror uploads the merged documents to the secondary store, best effort.
func (t *Tracker) mirror(ctx context.Context, logger *zap.Logger) {
	if t.opts.Mirror == nil {
		return
	}
	for _, name := range []string{"latest.yml", "devices.yml", filepath.Join("archive", "archive.yml")} {
		data, err := os.ReadFile(filepath.Join(t.opts.DataDir, name))
		if err != nil {
			logger.Warn("Mirror read failed", zap.String("name", name), zap.Error(err))
			continue
		}
		if err := t.opts.Mirror.Put(ctx, name, data); err != nil {
			logger.Warn("Mirror upload failed", zap.String("name", name), zap.Error(err))
		}
	}
}

func (t *Tracker) countRecords(region string, n int) {
	if t.opts.Counters != nil {
		t.opts.Counters.RecordsScraped(region, n)
	}
}

func (t *Tracker) countChanges(region string, n int) {
	if t.opts.Counters != nil {
		t.opts.Counters.ChangesFound(region, n)
	}
}

func (t *Tracker) countNotification(status string) {
	if t.opts.Counters != nil {
		t.opts.Counters.NotificationSent(status)
	}
}

func (t *Tracker) countArchiveWrite() {
	if t.opts.Counters != nil {
		t.opts.Counters.ArchiveWrite()
	}
}

func (t *Tracker) countRegionFailure(region string) {
	if t.opts.Counters != nil {
		t.opts.Counters.RegionFailure(region)
	}
}
