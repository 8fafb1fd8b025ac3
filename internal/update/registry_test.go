package update_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realmeupdater/realme-updates-tracker/internal/update"
)

func TestDeviceRegistryRegister(t *testing.T) {
	t.Parallel()

	registry := update.NewDeviceRegistry()

	registry.Register("RMX2020", "realme C3")
	names, ok := registry.Names("RMX2020")
	require.True(t, ok)
	assert.Equal(t, "realme C3", names)

	registry.Register("RMX2020", "realme C3i")
	names, _ = registry.Names("RMX2020")
	assert.Equal(t, "realme C3/realme C3i", names)
}

func TestDeviceRegistryRegisterIdempotent(t *testing.T) {
	t.Parallel()

	registry := update.NewDeviceRegistry()
	registry.Register("RMX2020", "realme C3")
	registry.Register("RMX2020", "realme C3")

	names, _ := registry.Names("RMX2020")
	assert.Equal(t, "realme C3", names)
	assert.Equal(t, 1, registry.Len())
}

func TestDeviceRegistrySnapshot(t *testing.T) {
	t.Parallel()

	registry := update.NewDeviceRegistry()
	registry.Register("RMX2020", "realme C3")
	registry.Register("RMX3370", "realme GT NEO 2")

	snapshot := registry.Snapshot()
	assert.Equal(t, map[string]string{
		"RMX2020": "realme C3",
		"RMX3370": "realme GT NEO 2",
	}, snapshot)

	// The snapshot is a copy, not a view.
	snapshot["RMX2020"] = "mutated"
	names, _ := registry.Names("RMX2020")
	assert.Equal(t, "realme C3", names)
}
