// Package store persists the last successfully fetched shift list per filter
// key in a local SQLite database, so the client can show recent data when it
// starts without connectivity.
package store

import (
	"context"
	"time"

	"github.com/medescala/shiftsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/snapshot_cache_mock.go -package=mock

// SnapshotCache stores one merged shift list per canonical filter key.
type SnapshotCache interface {
	// SaveSnapshot upserts the snapshot for the given filter key.
	SaveSnapshot(ctx context.Context, filterKey string, items []models.ShiftView, savedAt time.Time) error

	// LoadSnapshot returns the stored snapshot and its save time. Returns
	// [ErrSnapshotNotFound] when no snapshot exists for the key.
	LoadSnapshot(ctx context.Context, filterKey string) ([]models.ShiftView, time.Time, error)

	// Prune deletes snapshots saved before cutoff.
	Prune(ctx context.Context, cutoff time.Time) error
}
