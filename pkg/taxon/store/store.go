package store

import (
	"context"

	"github.com/cognicore/taxon/pkg/taxon/snapshot"
)

// Store persists taxonomy snapshots.
type Store interface {
	Close() error

	// SaveSnapshot stores s. IDs are unique; saving an existing ID replaces it.
	SaveSnapshot(ctx context.Context, s snapshot.Snapshot) error

	// GetSnapshot returns the snapshot with id or internalerr.ErrNotFound.
	GetSnapshot(ctx context.Context, id string) (snapshot.Snapshot, error)

	// LatestSnapshot returns the most recent snapshot saved under name.
	LatestSnapshot(ctx context.Context, name string) (snapshot.Snapshot, bool, error)

	// ListSnapshots returns up to limit snapshots under name, newest first,
	// without their paths. A limit <= 0 means no limit.
	ListSnapshots(ctx context.Context, name string, limit int) ([]snapshot.Snapshot, error)

	// DeleteSnapshot removes the snapshot with id. Missing IDs are not an error.
	DeleteSnapshot(ctx context.Context, id string) error
}
