package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/easyseas/pointtracker/internal/domain"
	applog "github.com/easyseas/pointtracker/internal/logger"
)

// readList reads a JSON array stored under key. Only a missing key reads
// as empty; storage failures and malformed documents are returned so that
// read-modify-write callers never overwrite data they could not read.
func readList[T any](ctx context.Context, store domain.KeyValueStore, key string) ([]T, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	if raw == "" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	if items == nil {
		return []T{}, nil
	}
	return items, nil
}

// readMap reads a JSON object stored under key, failing like readList
func readMap[T any](ctx context.Context, store domain.KeyValueStore, key string) (map[string]T, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return map[string]T{}, nil
		}
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}

	items := map[string]T{}
	if raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	if items == nil {
		return map[string]T{}, nil
	}
	return items, nil
}

// loadList reads a JSON array for a computation.
// Failures are logged and yield an empty list.
func loadList[T any](ctx context.Context, store domain.KeyValueStore, logger zerolog.Logger, key string) []T {
	items, err := readList[T](ctx, store, key)
	if err != nil {
		ctxLog := applog.FromContextOr(ctx, logger)
		ctxLog.Error().Err(err).Str("key", key).Msg("failed to load data, using empty set")
		return []T{}
	}
	return items
}

// loadMap reads a JSON object for a computation, degrading like loadList
func loadMap[T any](ctx context.Context, store domain.KeyValueStore, logger zerolog.Logger, key string) map[string]T {
	items, err := readMap[T](ctx, store, key)
	if err != nil {
		ctxLog := applog.FromContextOr(ctx, logger)
		ctxLog.Error().Err(err).Str("key", key).Msg("failed to load data, using empty set")
		return map[string]T{}
	}
	return items
}

// saveJSON serializes value and stores it under key
func saveJSON(ctx context.Context, store domain.KeyValueStore, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}
