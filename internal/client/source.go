package client

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/medescala/shiftsync/internal/adapter"
	"github.com/medescala/shiftsync/internal/logger"
	"github.com/medescala/shiftsync/internal/store"
	"github.com/medescala/shiftsync/internal/syncer"
	"github.com/medescala/shiftsync/models"
)

// newShiftSource composes the two API collections into the merged view: the
// shift list and the payments for the same filter window load concurrently,
// and neither half is published until both have arrived.
func newShiftSource(api adapter.ServerAdapter) syncer.FetchFunc[models.ShiftView] {
	shifts := func(ctx context.Context, f syncer.Filters) ([]models.Shift, error) {
		return api.ListShifts(ctx, shiftFilters(f))
	}
	payments := func(ctx context.Context, f syncer.Filters) ([]models.Payment, error) {
		return api.ListPayments(ctx, shiftFilters(f))
	}
	return syncer.Join(shifts, payments, models.MergeShiftPayments)
}

// withSnapshotCache decorates src with the offline fallback: every
// successful load is written to the cache, and while no live load has
// succeeded yet, a failing load falls back to the stored snapshot so the
// app starts with recent data instead of an error screen.
func withSnapshotCache(
	src syncer.FetchFunc[models.ShiftView],
	cache store.SnapshotCache,
	notifier syncer.Notifier,
	log *logger.Logger,
) syncer.FetchFunc[models.ShiftView] {
	if notifier == nil {
		notifier = syncer.NopNotifier{}
	}
	var liveLoadSeen atomic.Bool

	return func(ctx context.Context, f syncer.Filters) ([]models.ShiftView, error) {
		key := f.Key()

		items, err := src(ctx, f)
		if err == nil {
			liveLoadSeen.Store(true)
			if saveErr := cache.SaveSnapshot(ctx, key, items, time.Now()); saveErr != nil {
				log.Error().Err(saveErr).Str("filter_key", key).Msg("snapshot save failed")
			}
			return items, nil
		}

		if syncer.IsSuperseded(err) || liveLoadSeen.Load() {
			return nil, err
		}

		cached, savedAt, loadErr := cache.LoadSnapshot(ctx, key)
		if loadErr != nil {
			return nil, err
		}

		log.Warn().
			Err(err).
			Str("filter_key", key).
			Time("saved_at", savedAt).
			Msg("live load failed, serving cached snapshot")
		notifier.Notify("offline, showing saved data", syncer.KindInfo)
		return cached, nil
	}
}

func shiftFilters(f syncer.Filters) models.ShiftFilters {
	sf, _ := f.(models.ShiftFilters)
	return sf
}
