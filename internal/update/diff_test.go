package update_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/realmeupdater/realme-updates-tracker/internal/update"
)

func TestPositionalDifferEqualLength(t *testing.T) {
	t.Parallel()

	previous := []update.UpdateRecord{
		{Codename: "RMX2020", Version: "RMX2020_11.A.38"},
		{Codename: "RMX3370", Version: "RMX3370_11.C.07"},
	}
	current := []update.UpdateRecord{
		{Codename: "RMX2020", Version: "RMX2020_11.A.38"},
		{Codename: "RMX3370", Version: "RMX3370_11.C.08"},
	}

	changes := update.PositionalDiffer{}.Diff(current, previous)

	assert.Equal(t, []update.UpdateRecord{current[1]}, changes)
}

func TestPositionalDifferNoChanges(t *testing.T) {
	t.Parallel()

	snapshot := []update.UpdateRecord{
		{Codename: "RMX2020", Version: "RMX2020_11.A.38"},
	}

	changes := update.PositionalDiffer{}.Diff(snapshot, snapshot)

	assert.Empty(t, changes)
}

func TestPositionalDifferUnequalLength(t *testing.T) {
	t.Parallel()

	previous := []update.UpdateRecord{
		{Codename: "RMX2020", Version: "RMX2020_11.A.38"},
	}
	current := []update.UpdateRecord{
		{Codename: "RMX2020", Version: "RMX2020_11.A.38"},
		{Codename: "RMX3370", Version: "RMX3370_11.C.08"},
	}

	changes := update.PositionalDiffer{}.Diff(current, previous)

	assert.Equal(t, []update.UpdateRecord{current[1]}, changes)
}

func TestPositionalDifferShrunkSnapshot(t *testing.T) {
	t.Parallel()

	previous := []update.UpdateRecord{
		{Codename: "RMX2020"},
		{Codename: "RMX3370"},
	}
	current := []update.UpdateRecord{
		{Codename: "RMX2020"},
	}

	changes := update.PositionalDiffer{}.Diff(current, previous)

	assert.Empty(t, changes)
}
