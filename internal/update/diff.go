package update

// Differ decides which records in a freshly scraped snapshot represent new
// releases relative to the previous snapshot of the same region. It is an
// interface so the comparison strategy can be swapped without touching the
// orchestration around it.
type Differ interface {
	Diff(current, previous []UpdateRecord) []UpdateRecord
}

// PositionalDiffer reproduces the tracker's original two-branch policy:
//
//   - Equal-length snapshots are paired index-for-index and a record is new
//     when its version differs from its positional counterpart. This assumes
//     the page renders devices in a stable order between runs; a pure
//     reordering yields false positives, and a simultaneous reorder and
//     content change can misattribute a release across devices.
//   - Unequal-length snapshots are compared by codename membership: every
//     current record whose codename is absent from the previous snapshot is
//     new. A newly listed device model and a version bump are
//     indistinguishable here. One divergence from the tracker's historical
//     list-scan: when two new records share a codename, each is emitted once
//     rather than once per occurrence of the codename.
//
// The limitations are deliberate compatibility behavior.
type PositionalDiffer struct{}

// Diff implements Differ.
func (PositionalDiffer) Diff(current, previous []UpdateRecord) []UpdateRecord {
	var changes []UpdateRecord

	if len(current) == len(previous) {
		for i, record := range current {
			if record.Version != previous[i].Version {
				changes = append(changes, record)
			}
		}
		return changes
	}

	seen := make(map[string]struct{}, len(previous))
	for _, record := range previous {
		seen[record.Codename] = struct{}{}
	}
	for _, record := range current {
		if _, ok := seen[record.Codename]; !ok {
			changes = append(changes, record)
		}
	}
	return changes
}
