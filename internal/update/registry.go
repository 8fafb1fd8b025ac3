package update

import "strings"

// DeviceRegistry accumulates the display names observed for each codename
// during a run. Names are stored as a "/"-joined, insertion-ordered set;
// entries are never removed. The registry is published as reference data and
// plays no part in diffing or archiving.
type DeviceRegistry struct {
	devices map[string]string
}

// NewDeviceRegistry returns an empty registry.
func NewDeviceRegistry() *DeviceRegistry {
	return &DeviceRegistry{devices: make(map[string]string)}
}

// Register records device as a display name for codename. Registering the
// same pair again is a no-op.
func (r *DeviceRegistry) Register(codename, device string) {
	existing, ok := r.devices[codename]
	if !ok {
		r.devices[codename] = device
		return
	}
	for _, name := range strings.Split(existing, "/") {
		if name == device {
			return
		}
	}
	r.devices[codename] = existing + "/" + device
}

// Names returns the joined display names for codename and whether the
// codename has been seen.
func (r *DeviceRegistry) Names(codename string) (string, bool) {
	names, ok := r.devices[codename]
	return names, ok
}

// Snapshot returns a copy of the codename to joined-names mapping, suitable
// for serialization.
func (r *DeviceRegistry) Snapshot() map[string]string {
	out := make(map[string]string, len(r.devices))
	for codename, names := range r.devices {
		out[codename] = names
	}
	return out
}

// Len reports how many codenames have been registered.
func (r *DeviceRegistry) Len() int {
	return len(r.devices)
}
