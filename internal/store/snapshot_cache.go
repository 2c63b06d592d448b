package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/medescala/shiftsync/internal/logger"
	"github.com/medescala/shiftsync/models"
)

type snapshotCache struct {
	*DB
	logger *logger.Logger
	sb     sq.StatementBuilderType
}

// NewSnapshotCache returns the SQLite-backed snapshot cache.
func NewSnapshotCache(db *DB, log *logger.Logger) SnapshotCache {
	return &snapshotCache{
		DB:     db,
		logger: log,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

func (c *snapshotCache) SaveSnapshot(ctx context.Context, filterKey string, items []models.ShiftView, savedAt time.Time) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot payload: %w", err)
	}

	query, args, err := c.sb.
		Insert("snapshots").
		Columns("filter_key", "payload", "saved_at").
		Values(filterKey, string(payload), savedAt).
		Suffix("ON CONFLICT(filter_key) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build snapshot upsert: %w", err)
	}

	if _, err = c.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "snapshotCache.SaveSnapshot").
			Str("filter_key", filterKey).
			Msg("failed to execute snapshot upsert")
		return fmt.Errorf("failed to save snapshot (filter_key=%s): %w", filterKey, err)
	}

	return nil
}

func (c *snapshotCache) LoadSnapshot(ctx context.Context, filterKey string) ([]models.ShiftView, time.Time, error) {
	log := logger.FromContext(ctx)

	query, args, err := c.sb.
		Select("payload", "saved_at").
		From("snapshots").
		Where(sq.Eq{"filter_key": filterKey}).
		ToSql()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to build snapshot query: %w", err)
	}

	var payload string
	var savedAt time.Time
	row := c.DB.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&payload, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, ErrSnapshotNotFound
		}
		log.Err(err).
			Str("func", "snapshotCache.LoadSnapshot").
			Str("filter_key", filterKey).
			Msg("failed to scan snapshot row")
		return nil, time.Time{}, fmt.Errorf("failed to load snapshot (filter_key=%s): %w", filterKey, err)
	}

	var items []models.ShiftView
	if err = json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode snapshot payload: %w", err)
	}

	return items, savedAt, nil
}

func (c *snapshotCache) Prune(ctx context.Context, cutoff time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := c.sb.
		Delete("snapshots").
		Where(sq.Lt{"saved_at": cutoff}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build snapshot prune: %w", err)
	}

	if _, err = c.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "snapshotCache.Prune").
			Msg("failed to execute snapshot prune")
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	return nil
}
