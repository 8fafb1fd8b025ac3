package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/realmeupdater/realme-updates-tracker/internal/update"
)

// ErrNoPreviousSnapshot reports that a region has no prior generation on
// disk, i.e. this is the first observed run for the region.
var ErrNoPreviousSnapshot = errors.New("no previous snapshot")

// SnapshotStore persists per-region snapshots with a two-generation
// retention: the current generation at <region>/<region>.yml and the
// previous one at <region>/old_<region>, produced by renaming (not copying)
// the current file immediately before the new generation is written. A crash
// between rename and write loses the previous generation; accepted.
type SnapshotStore struct {
	dataDir string
}

// NewSnapshotStore returns a store rooted at dataDir.
func NewSnapshotStore(dataDir string) *SnapshotStore {
	return &SnapshotStore{dataDir: dataDir}
}

// Promote renames the region's current snapshot to the previous-generation
// name. A missing current snapshot (first run) is not an error.
func (s *SnapshotStore) Promote(region string) error {
	current := s.snapshotPath(region)
	if _, err := os.Stat(current); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat snapshot for %s: %w", region, err)
	}
	if err := os.Rename(current, s.previousPath(region)); err != nil {
		return fmt.Errorf("promote snapshot for %s: %w", region, err)
	}
	return nil
}

// Write persists the region's snapshot in scrape order, plus one
// per-codename file for every record that carries a download link. Records
// without a download link stay in the snapshot but get no per-codename file.
func (s *SnapshotStore) Write(region string, records []update.UpdateRecord) error {
	dir := filepath.Join(s.dataDir, region)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create region dir %s: %w", region, err)
	}

	for _, record := range records {
		if record.Download == "" {
			continue
		}
		path := filepath.Join(dir, record.Codename+".yml")
		if err := writeYAML(path, record); err != nil {
			return fmt.Errorf("write device file for %s/%s: %w", region, record.Codename, err)
		}
	}

	if err := writeYAML(s.snapshotPath(region), records); err != nil {
		return fmt.Errorf("write snapshot for %s: %w", region, err)
	}
	return nil
}

// Load reads the region's current snapshot.
func (s *SnapshotStore) Load(region string) ([]update.UpdateRecord, error) {
	var records []update.UpdateRecord
	if err := readYAML(s.snapshotPath(region), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadPrevious reads the region's previous generation, returning
// ErrNoPreviousSnapshot when none exists.
func (s *SnapshotStore) LoadPrevious(region string) ([]update.UpdateRecord, error) {
	path := s.previousPath(region)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("region %s: %w", region, ErrNoPreviousSnapshot)
		}
		return nil, fmt.Errorf("stat previous snapshot for %s: %w", region, err)
	}
	var records []update.UpdateRecord
	if err := readYAML(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// MergeLatest concatenates every region's current snapshot, in the given
// region order, into latest.yml. Regions with no snapshot on disk are
// skipped, so a region whose scrape failed this run keeps contributing its
// last good generation. The merged document is derived state, rebuilt in
// full every run.
func (s *SnapshotStore) MergeLatest(regions []string) error {
	var merged []update.UpdateRecord
	for _, region := range regions {
		if _, err := os.Stat(s.snapshotPath(region)); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("merge latest: stat snapshot for %s: %w", region, err)
		}
		records, err := s.Load(region)
		if err != nil {
			return fmt.Errorf("merge latest: %w", err)
		}
		merged = append(merged, records...)
	}
	return writeYAML(filepath.Join(s.dataDir, "latest.yml"), merged)
}

// WriteDevices overwrites the devices reference document.
func (s *SnapshotStore) WriteDevices(devices map[string]string) error {
	return writeYAML(filepath.Join(s.dataDir, "devices.yml"), devices)
}

func (s *SnapshotStore) snapshotPath(region string) string {
	return filepath.Join(s.dataDir, region, region+".yml")
}

func (s *SnapshotStore) previousPath(region string) string {
	return filepath.Join(s.dataDir, region, "old_"+region)
}
