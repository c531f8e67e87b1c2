package projections

import "dojohub/internal/domain/snapshot"

// SnapshotSource provides a consistent copy of the academy state.
// Every projection reads one snapshot so its figures never mix two states.
type SnapshotSource interface {
	Snapshot() snapshot.Snapshot
}
