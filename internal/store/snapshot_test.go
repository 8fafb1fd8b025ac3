package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realmeupdater/realme-updates-tracker/internal/store"
	"github.com/realmeupdater/realme-updates-tracker/internal/update"
)

func sampleRecords() []update.UpdateRecord {
	return []update.UpdateRecord{
		{
			Device:    "realme GT NEO 2",
			Codename:  "RMX3370",
			Region:    "india",
			System:    "realme UI 2.0",
			Version:   "RMX3370_11.C.08",
			Date:      "24/12/2021",
			Size:      "4.26GB",
			MD5:       "0f40a3efa4f5b0a4443f17aa05d2e267",
			Download:  "https://download.c.realme.com/flash/RMX3370_11.C.08.ozip",
			Changelog: "**Security**:\n● Android security patch: December 2021\n",
		},
		{
			Device:   "realme Pad",
			Codename: update.Unknown,
			Region:   "india",
			Version:  update.Unknown,
		},
	}
}

func TestSnapshotWriteAndLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	snapshots := store.NewSnapshotStore(dir)
	records := sampleRecords()

	require.NoError(t, snapshots.Write("india", records))

	loaded, err := snapshots.Load("india")
	require.NoError(t, err)
	assert.Equal(t, records, loaded)

	// Only the record with a download link gets a per-codename file.
	_, err = os.Stat(filepath.Join(dir, "india", "RMX3370.yml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "india", update.Unknown+".yml"))
	assert.True(t, os.IsNotExist(err))
}

func TestSnapshotChangelogSerializesAsBlock(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	snapshots := store.NewSnapshotStore(dir)
	require.NoError(t, snapshots.Write("india", sampleRecords()))

	// #nosec G304 -- test reads from the controlled temp directory.
	raw, err := os.ReadFile(filepath.Join(dir, "india", "india.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "changelog: |")
}

func TestSnapshotPromote(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	snapshots := store.NewSnapshotStore(dir)

	t.Run("FirstRunHasNothingToPromote", func(t *testing.T) {
		require.NoError(t, snapshots.Promote("india"))
		_, err := snapshots.LoadPrevious("india")
		assert.ErrorIs(t, err, store.ErrNoPreviousSnapshot)
	})

	t.Run("RenamesCurrentToPrevious", func(t *testing.T) {
		records := sampleRecords()
		require.NoError(t, snapshots.Write("india", records))
		require.NoError(t, snapshots.Promote("india"))

		previous, err := snapshots.LoadPrevious("india")
		require.NoError(t, err)
		assert.Equal(t, records, previous)

		// The current generation was renamed, not copied.
		_, err = os.Stat(filepath.Join(dir, "india", "india.yml"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(dir, "india", "old_india"))
		assert.NoError(t, err)
	})
}

func TestMergeLatest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	snapshots := store.NewSnapshotStore(dir)

	india := sampleRecords()
	europe := []update.UpdateRecord{{
		Device:   "realme 8",
		Codename: "RMX3085",
		Region:   "europe",
		Version:  "RMX3085_11.A.42",
		Download: "https://download.c.realme.com/flash/RMX3085_11.A.42.ozip",
	}}
	require.NoError(t, snapshots.Write("india", india))
	require.NoError(t, snapshots.Write("europe", europe))

	require.NoError(t, snapshots.MergeLatest([]string{"india", "europe"}))

	var merged []update.UpdateRecord
	raw, err := os.ReadFile(filepath.Join(dir, "latest.yml"))
	require.NoError(t, err)
	require.NoError(t, yamlUnmarshal(raw, &merged))
	assert.Equal(t, append(append([]update.UpdateRecord{}, india...), europe...), merged)
}

func TestMergeLatestSkipsMissingRegion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	snapshots := store.NewSnapshotStore(dir)

	india := sampleRecords()
	require.NoError(t, snapshots.Write("india", india))

	// Europe has never been scraped; the merge keeps going without it.
	require.NoError(t, snapshots.MergeLatest([]string{"india", "europe"}))

	var merged []update.UpdateRecord
	raw, err := os.ReadFile(filepath.Join(dir, "latest.yml"))
	require.NoError(t, err)
	require.NoError(t, yamlUnmarshal(raw, &merged))
	assert.Equal(t, india, merged)
}

func TestWriteDevices(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	snapshots := store.NewSnapshotStore(dir)

	require.NoError(t, snapshots.WriteDevices(map[string]string{
		"RMX2020": "realme C3/realme C3i",
	}))

	var devices map[string]string
	raw, err := os.ReadFile(filepath.Join(dir, "devices.yml"))
	require.NoError(t, err)
	require.NoError(t, yamlUnmarshal(raw, &devices))
	assert.Equal(t, "realme C3/realme C3i", devices["RMX2020"])
}
